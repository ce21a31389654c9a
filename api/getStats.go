package api

import (
	"context"

	"github.com/fulldump/handlerdb/registry"
)

func getStats(ctx context.Context) (*registry.Stat, error) {
	return GetServicer(ctx).Stat(ctx)
}
