package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/handlerdb/database"
	"github.com/fulldump/handlerdb/registry"
	"github.com/fulldump/handlerdb/service"
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status != database.StatusOperating {
				box.SetError(ctx, fmt.Errorf("%w: temporary unavailable: %s", service.ErrUnavailable, status))
				return
			}
			next(ctx)
		}
	}
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := describeError(ctx, err)
		w := box.GetResponse(ctx)
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}

func describeError(ctx context.Context, err error) (int, string) {

	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError

	switch {
	case err == ErrUnauthorized:
		return http.StatusUnauthorized, "user is not authenticated"
	case err == box.ErrResourceNotFound:
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case err == box.ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.As(err, &syntaxError), errors.As(err, &typeError), err == io.EOF, err == io.ErrUnexpectedEOF:
		return http.StatusBadRequest, "Malformed JSON"
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, "registry is opening or closing, retry later"
	case errors.Is(err, registry.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid argument"
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound, "handler not found"
	case errors.Is(err, registry.ErrNotImplemented):
		return http.StatusNotImplemented, "operation not supported by this registry"
	case errors.Is(err, registry.ErrOutOfMemory):
		return http.StatusInsufficientStorage, "record or result too large"
	case errors.Is(err, registry.ErrIO):
		return http.StatusInternalServerError, "registry storage failure"
	}

	return http.StatusInternalServerError, "Unexpected error"
}
