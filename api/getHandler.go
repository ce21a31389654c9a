package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/handlerdb/registry"
)

func getHandler(ctx context.Context, r *http.Request) (*registry.Summary, error) {

	q := r.URL.Query()

	mode, err := registry.ParseMode(q.Get("mode"))
	if err != nil {
		return nil, err
	}

	handlerId := box.GetUrlParameter(ctx, "handlerId")
	return GetServicer(ctx).GetHandler(ctx, q.Get("caller"), handlerId, mode)
}
