package api

import (
	"context"
	"net/http"

	"github.com/fulldump/handlerdb/registry"
)

func registerHandler(ctx context.Context, w http.ResponseWriter, input *registry.Handler) (*registry.Summary, error) {

	s := GetServicer(ctx)

	err := s.Register(ctx, input)
	if err != nil {
		return nil, err
	}

	summary := input.Summary()
	w.WriteHeader(http.StatusCreated)
	return &summary, nil
}
