package api

import (
	"context"
	"net/http"

	"github.com/fulldump/handlerdb/registry"
)

// findHandlers searches by ?key=id|types|suffixes|actions&value=...
func findHandlers(ctx context.Context, r *http.Request) ([]registry.Summary, error) {

	q := r.URL.Query()

	key, err := parseField(q.Get("key"))
	if err != nil {
		return nil, err
	}

	return GetServicer(ctx).Find(ctx, q.Get("caller"), key, q.Get("value"))
}
