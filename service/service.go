package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/SierraSoftworks/connor"
	"github.com/sirupsen/logrus"

	"github.com/fulldump/handlerdb/database"
	"github.com/fulldump/handlerdb/registry"
	"github.com/fulldump/handlerdb/result"
	"github.com/fulldump/handlerdb/utils"
)

type Service struct {
	db     *database.Database
	mirror Mirror
	log    logrus.FieldLogger
}

type Option func(s *Service)

func WithMirror(m Mirror) Option {
	return func(s *Service) {
		s.mirror = m
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = l
	}
}

func NewService(db *database.Database, options ...Option) *Service {
	s := &Service{
		db:  db,
		log: logrus.StandardLogger(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

var _ Servicer = (*Service)(nil)

func (s *Service) store() (*registry.Store, error) {
	store := s.db.Store()
	if store == nil {
		return nil, fmt.Errorf("%w: database is %s", ErrUnavailable, s.db.GetStatus())
	}
	return store, nil
}

func (s *Service) Register(ctx context.Context, h *registry.Handler) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	if err := store.Register(h); err != nil {
		return err
	}
	if s.mirror != nil {
		if err := s.mirror.Register(ctx, h); err != nil {
			s.log.WithError(err).WithField("id", h.ID).Warn("mirror register")
		}
	}
	return nil
}

func (s *Service) Unregister(ctx context.Context, id string) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	if err := store.Unregister(id); err != nil {
		return err
	}
	if s.mirror != nil {
		if err := s.mirror.Unregister(ctx, id); err != nil {
			s.log.WithError(err).WithField("id", id).Warn("mirror unregister")
		}
	}
	return nil
}

func (s *Service) Find(ctx context.Context, caller string, key registry.Field, value string) ([]registry.Summary, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	found := &result.Handlers{Items: []registry.Summary{}}
	if err := store.Find(caller, key, value, found); err != nil {
		return nil, err
	}
	return found.Items, nil
}

func (s *Service) FindForSuite(ctx context.Context, suite int32) ([]registry.Summary, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	found := &result.Handlers{Items: []registry.Summary{}}
	if err := store.FindForSuite(suite, found); err != nil {
		return nil, err
	}
	return found.Items, nil
}

func (s *Service) ListValues(ctx context.Context, caller string, field registry.Field) ([]string, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	values := result.NewStrings()
	if err := store.ListValues(caller, field, values); err != nil {
		return nil, err
	}
	return values.Values(), nil
}

func (s *Service) GetHandler(ctx context.Context, caller, id string, mode registry.Mode) (*registry.Summary, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	summary, err := store.GetHandler(caller, id, mode)
	if errors.Is(err, registry.ErrNotFound) && mode == registry.Exact && s.mirror != nil {
		return s.mirrorLookup(ctx, caller, id, err)
	}
	return summary, err
}

// mirrorLookup resolves an exact id the local store does not know. Any
// mirror failure is logged and the local error is returned.
func (s *Service) mirrorLookup(ctx context.Context, caller, id string, notFound error) (*registry.Summary, error) {
	h, err := s.mirror.Get(ctx, id)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, notFound
	}
	if err != nil {
		s.log.WithError(err).WithField("id", id).Warn("mirror get")
		return nil, notFound
	}
	if !h.VisibleTo(caller) {
		return nil, notFound
	}
	s.log.WithField("id", id).Debug("handler resolved from mirror")
	summary := h.Summary()
	return &summary, nil
}

func (s *Service) GetHandlerField(ctx context.Context, id string, field registry.Field) ([]string, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	values := result.NewStrings()
	if err := store.GetHandlerField(id, field, values); err != nil {
		return nil, err
	}
	return values.Values(), nil
}

// Query returns the handlers visible to caller that match a mongo like
// filter over their JSON form. An empty filter matches everything.
func (s *Service) Query(ctx context.Context, caller string, filter map[string]interface{}) ([]*registry.Handler, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}

	handlers := []*registry.Handler{}
	err = store.Walk(caller, func(h *registry.Handler) error {
		if len(filter) == 0 {
			handlers = append(handlers, h)
			return nil
		}

		document := map[string]interface{}{}
		if err := utils.Remarshal(h, &document); err != nil {
			return err
		}
		match, err := connor.Match(filter, document)
		if err != nil {
			return fmt.Errorf("%w: filter: %w", registry.ErrInvalidArgument, err)
		}
		if match {
			handlers = append(handlers, h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return handlers, nil
}

func (s *Service) HandlerByURL(ctx context.Context, caller, url, action string) (*registry.Summary, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.HandlerByURL(caller, url, action)
}

func (s *Service) ExecuteHandler(ctx context.Context, id, url, action string) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	return store.ExecuteHandler(id, url, action)
}

func (s *Service) Stat(ctx context.Context) (*registry.Stat, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.Stat()
}
