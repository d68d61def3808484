package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/lazyrows/service"
)

func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		injectServicer(s),
	)

	v1.Resource("/sources").
		WithActions(
			box.Get(listSources),
		)

	v1.Resource("/sources/{sourceName}").
		WithActions(
			box.Get(getSource),
			box.ActionPost(find).WithName("find"),
			box.ActionPost(insert).WithName("insert"),
		)

	v1.Resource("/sources/{sourceName}/first").
		WithActions(
			box.Get(firstPage),
		)

	v1.Resource("/sources/{sourceName}/next").
		WithActions(
			box.Get(nextPage),
		)

	v1.Resource("/sources/{sourceName}/position").
		WithActions(
			box.Get(pageForPosition),
		)

	v1.Resource("/collections").
		WithActions(
			box.Post(createCollection),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.ActionPost(insertDocument).WithName("insert"),
		)

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "lazyrows"
	spec.Info.Description = "Windowed access to large ordered row sources with self correcting size estimates."
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

const contextServicerKey = "4c5d8a1e-3b9f-4e0a-a6c2-7f1d2e9b8a30"

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(context.WithValue(ctx, contextServicerKey, s))
		}
	}
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(contextServicerKey).(service.Servicer)
}
