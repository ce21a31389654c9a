package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func listValues(ctx context.Context, r *http.Request) ([]string, error) {

	field, err := parseField(box.GetUrlParameter(ctx, "field"))
	if err != nil {
		return nil, err
	}

	return GetServicer(ctx).ListValues(ctx, r.URL.Query().Get("caller"), field)
}
