package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/fulldump/biff"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/fulldump/handlerdb/database"
	"github.com/fulldump/handlerdb/mirror"
	"github.com/fulldump/handlerdb/registry"
)

type brokenMirror struct {
	calls []string
}

func (m *brokenMirror) Register(ctx context.Context, h *registry.Handler) error {
	m.calls = append(m.calls, "register:"+h.ID)
	return errors.New("mirror is down")
}

func (m *brokenMirror) Unregister(ctx context.Context, id string) error {
	m.calls = append(m.calls, "unregister:"+id)
	return errors.New("mirror is down")
}

func (m *brokenMirror) Get(ctx context.Context, id string) (*registry.Handler, error) {
	m.calls = append(m.calls, "get:"+id)
	return nil, errors.New("mirror is down")
}

func newDatabase() *database.Database {
	db := database.NewDatabase(&database.Config{
		Dir: "/data",
		Fs:  afero.NewMemMapFs(),
	})
	if err := db.Load(); err != nil {
		panic(err)
	}
	return db
}

func TestService_MirrorFailuresAreIgnored(t *testing.T) {

	// Setup
	ctx := context.Background()
	m := &brokenMirror{}
	s := NewService(newDatabase(), WithMirror(m))

	// Run
	errRegister := s.Register(ctx, &registry.Handler{ID: "viewer", Flag: registry.NativeFlag})
	errUnregister := s.Unregister(ctx, "viewer")

	// Check
	AssertNil(errRegister)
	AssertNil(errUnregister)
	AssertEqual(m.calls, []string{"register:viewer", "unregister:viewer"})
}

func TestService_MirrorSkippedOnLocalFailure(t *testing.T) {

	ctx := context.Background()
	m := &brokenMirror{}
	s := NewService(newDatabase(), WithMirror(m))

	err := s.Register(ctx, &registry.Handler{})
	AssertTrue(errors.Is(err, registry.ErrInvalidArgument))

	err = s.Unregister(ctx, "ghost")
	AssertTrue(errors.Is(err, registry.ErrNotFound))

	AssertEqual(len(m.calls), 0)
}

func TestService_Unavailable(t *testing.T) {

	db := database.NewDatabase(&database.Config{Fs: afero.NewMemMapFs()})
	s := NewService(db)

	_, err := s.Find(context.Background(), "", registry.FieldID, "x")
	AssertTrue(errors.Is(err, ErrUnavailable))
}

func TestService_Query(t *testing.T) {

	// Setup
	ctx := context.Background()
	s := NewService(newDatabase())
	AssertNil(s.Register(ctx, &registry.Handler{ID: "a", Flag: 0, Suite: 3, Class: "A", Types: []string{"text/plain"}}))
	AssertNil(s.Register(ctx, &registry.Handler{ID: "b", Flag: 0, Suite: 4, Class: "B"}))
	AssertNil(s.Register(ctx, &registry.Handler{ID: "c", Flag: registry.NativeFlag, Accesses: []string{"alpha"}}))

	// Run
	bySuite, err := s.Query(ctx, "", map[string]interface{}{"suite": map[string]interface{}{"$gt": 3}})
	AssertNil(err)
	all, err := s.Query(ctx, "beta", nil)
	AssertNil(err)

	// Check
	AssertEqual(len(bySuite), 1)
	AssertEqual(bySuite[0].ID, "b")
	AssertEqual(len(all), 2)
}

func TestService_EmptyResults(t *testing.T) {

	ctx := context.Background()
	s := NewService(newDatabase())

	found, err := s.Find(ctx, "", registry.FieldTypes, "text/plain")
	AssertNil(err)
	AssertEqual(found, []registry.Summary{})

	values, err := s.ListValues(ctx, "", registry.FieldTypes)
	AssertNil(err)
	AssertEqual(values, []string{})
}

func TestService_GetHandlerFallsBackToMirror(t *testing.T) {

	// Setup
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	m := mirror.NewRedis(client, "test:", time.Second)

	AssertNil(m.Register(ctx, &registry.Handler{ID: "remote", Flag: 0, Suite: 9, Class: "Remote"}))
	AssertNil(m.Register(ctx, &registry.Handler{ID: "private", Flag: registry.NativeFlag, Accesses: []string{"alpha"}}))

	s := NewService(newDatabase(), WithMirror(m))
	AssertNil(s.Register(ctx, &registry.Handler{ID: "local", Flag: registry.NativeFlag}))

	// Run
	remote, err := s.GetHandler(ctx, "", "REMOTE", registry.Exact)

	// Check
	AssertNil(err)
	AssertEqual(*remote, registry.Summary{ID: "remote", Suite: 9, Class: "Remote", Flag: 0})

	local, err := s.GetHandler(ctx, "", "local", registry.Exact)
	AssertNil(err)
	AssertEqual(local.ID, "local")

	_, err = s.GetHandler(ctx, "beta", "private", registry.Exact)
	AssertTrue(errors.Is(err, registry.ErrNotFound))

	_, err = s.GetHandler(ctx, "alpha.app", "private", registry.Exact)
	AssertNil(err)

	_, err = s.GetHandler(ctx, "", "remote.more", registry.Prefix)
	AssertTrue(errors.Is(err, registry.ErrNotFound))

	_, err = s.GetHandler(ctx, "", "ghost", registry.Exact)
	AssertTrue(errors.Is(err, registry.ErrNotFound))
}

func TestService_GetHandlerMirrorDown(t *testing.T) {

	ctx := context.Background()
	m := &brokenMirror{}
	s := NewService(newDatabase(), WithMirror(m))

	_, err := s.GetHandler(ctx, "", "ghost", registry.Exact)

	AssertTrue(errors.Is(err, registry.ErrNotFound))
	AssertEqual(m.calls, []string{"get:ghost"})
}
