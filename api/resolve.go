package api

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/handlerdb/registry"
)

type resolveRequest struct {
	Caller string `json:"caller"`
	URL    string `json:"url"`
	Action string `json:"action"`
}

func resolve(ctx context.Context, input *resolveRequest) (*registry.Summary, error) {
	return GetServicer(ctx).HandlerByURL(ctx, input.Caller, input.URL, input.Action)
}

type executeRequest struct {
	URL    string `json:"url"`
	Action string `json:"action"`
}

func execute(ctx context.Context, input *executeRequest) error {
	handlerId := box.GetUrlParameter(ctx, "handlerId")
	return GetServicer(ctx).ExecuteHandler(ctx, handlerId, input.URL, input.Action)
}
