package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/handlerdb/service"
)

func Build(s service.Servicer, version, apiKey, apiSecret string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		Authenticate(apiKey, apiSecret),
		injectServicer(s),
	)

	v1.Resource("/handlers").
		WithActions(
			box.Get(findHandlers),
			box.Post(registerHandler),
			box.ActionPost(query),
			box.ActionPost(resolve),
		)

	v1.Resource("/handlers/{handlerId}").
		WithActions(
			box.Get(getHandler),
			box.ActionPost(unregister),
			box.ActionPost(execute),
		)

	v1.Resource("/handlers/{handlerId}/fields/{field}").
		WithActions(
			box.Get(getHandlerField),
		)

	v1.Resource("/suites/{suiteId}/handlers").
		WithActions(
			box.Get(findForSuite),
		)

	v1.Resource("/values/{field}").
		WithActions(
			box.Get(listValues),
		)

	v1.Resource("/stats").
		WithActions(
			box.Get(getStats),
		)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "handlerdb"
	spec.Info.Description = "A registry of content handlers stored in a single flat file."
	spec.Info.Contact = &boxopenapi.Contact{
		Url: "https://github.com/fulldump/handlerdb/issues/new",
	}
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}

const ContextServicerKey = "5c1f4a3e-8d0b-11ef-b1a4-3f7c2d9e6a10"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer)
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetServicer(ctx, s))
		}
	}
}
