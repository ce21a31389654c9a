package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/fulldump/biff"
	"github.com/redis/go-redis/v9"

	"github.com/fulldump/handlerdb/registry"
)

func newMirror(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "test:", time.Second), mr
}

func TestRedis_RegisterGet(t *testing.T) {

	// Setup
	ctx := context.Background()
	r, mr := newMirror(t)
	h := &registry.Handler{
		ID:      "Com.Example.Viewer",
		Flag:    0,
		Suite:   3,
		Class:   "com.example.Viewer",
		Types:   []string{"text/plain"},
		Actions: []string{"open"},
	}

	// Run
	err := r.Register(ctx, h)

	// Check
	AssertNil(err)
	AssertTrue(mr.Exists("test:handler:com.example.viewer"))

	loaded, err := r.Get(ctx, "COM.EXAMPLE.VIEWER")
	AssertNil(err)
	AssertEqual(loaded, h)

	ids, err := mr.Members("test:handlers")
	AssertNil(err)
	AssertEqual(ids, []string{"com.example.viewer"})
}

func TestRedis_Unregister(t *testing.T) {

	ctx := context.Background()
	r, mr := newMirror(t)

	AssertNil(r.Register(ctx, &registry.Handler{ID: "a", Flag: registry.NativeFlag}))
	AssertNil(r.Register(ctx, &registry.Handler{ID: "b", Flag: registry.NativeFlag}))

	AssertNil(r.Unregister(ctx, "A"))

	AssertEqual(mr.Exists("test:handler:a"), false)
	_, err := r.Get(ctx, "a")
	AssertTrue(errors.Is(err, registry.ErrNotFound))

	ids, err := mr.Members("test:handlers")
	AssertNil(err)
	AssertEqual(ids, []string{"b"})
}

func TestRedis_ServerDown(t *testing.T) {

	ctx := context.Background()
	r, mr := newMirror(t)
	mr.Close()

	err := r.Register(ctx, &registry.Handler{ID: "a", Flag: registry.NativeFlag})
	AssertNotNil(err)
}

func TestDial(t *testing.T) {

	mr := miniredis.RunT(t)
	addr := mr.Addr()

	r, err := Dial(context.Background(), addr, "", time.Second)
	AssertNil(err)
	AssertNil(r.Close())

	mr.Close()
	_, err = Dial(context.Background(), addr, "", 100*time.Millisecond)
	AssertNotNil(err)
}
