package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func unregister(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)
	handlerId := box.GetUrlParameter(ctx, "handlerId")

	err := s.Unregister(ctx, handlerId)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
