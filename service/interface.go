package service

import (
	"context"
	"errors"

	"github.com/fulldump/handlerdb/registry"
)

var ErrUnavailable = errors.New("registry is not available")

type Servicer interface {
	Register(ctx context.Context, h *registry.Handler) error
	Unregister(ctx context.Context, id string) error
	Find(ctx context.Context, caller string, key registry.Field, value string) ([]registry.Summary, error)
	FindForSuite(ctx context.Context, suite int32) ([]registry.Summary, error)
	ListValues(ctx context.Context, caller string, field registry.Field) ([]string, error)
	GetHandler(ctx context.Context, caller, id string, mode registry.Mode) (*registry.Summary, error)
	GetHandlerField(ctx context.Context, id string, field registry.Field) ([]string, error)
	Query(ctx context.Context, caller string, filter map[string]interface{}) ([]*registry.Handler, error)
	HandlerByURL(ctx context.Context, caller, url, action string) (*registry.Summary, error)
	ExecuteHandler(ctx context.Context, id, url, action string) error
	Stat(ctx context.Context) (*registry.Stat, error)
}

// Mirror is a secondary registry kept in sync with the local store. The
// local store is authoritative: mirror failures are logged, never returned.
// Exact lookups missing locally fall back to Get.
type Mirror interface {
	Register(ctx context.Context, h *registry.Handler) error
	Unregister(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*registry.Handler, error)
}
