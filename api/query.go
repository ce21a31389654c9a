package api

import (
	"context"

	"github.com/fulldump/handlerdb/registry"
)

type queryRequest struct {
	Caller string                 `json:"caller"`
	Filter map[string]interface{} `json:"filter"`
}

func query(ctx context.Context, input *queryRequest) ([]*registry.Handler, error) {
	return GetServicer(ctx).Query(ctx, input.Caller, input.Filter)
}
