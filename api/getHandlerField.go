package api

import (
	"context"

	"github.com/fulldump/box"
)

func getHandlerField(ctx context.Context) ([]string, error) {

	field, err := parseField(box.GetUrlParameter(ctx, "field"))
	if err != nil {
		return nil, err
	}

	handlerId := box.GetUrlParameter(ctx, "handlerId")
	return GetServicer(ctx).GetHandlerField(ctx, handlerId, field)
}
