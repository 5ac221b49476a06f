// Package httpkit is what modules register routes with; they never import the platform http
// packages directly
package httpkit

import (
	"net/http"
	"strings"

	phttp "aarcnorm/internal/platform/net/http"
	"aarcnorm/internal/platform/net/http/bind"
)

type (
	Router   = phttp.Router
	Response = phttp.Response
)

func Created(data any) Response { return phttp.Created(data) }

// List answers with one page of items
func List(items any, total, page, size int, cursor string) Response {
	return phttp.List(items, total, page, size, cursor)
}

func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// answer turns a handler result into a Response; a returned Response is used as is
func answer(out any, err error) Response {
	if err != nil {
		return phttp.Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return phttp.OK(out)
}

// Get registers a handler without input
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Handle(func(req *http.Request) Response { return answer(h(req)) }))
}

// GetQuery registers a handler whose input is the decoded and validated query string
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, phttp.Handle(func(req *http.Request) Response {
		in, err := bind.Query[T](req)
		if err != nil {
			return phttp.Error(err)
		}
		return answer(h(req, in))
	}))
}

// PostJSON registers a handler whose input is the decoded and validated json body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.Handle(func(req *http.Request) Response {
		in, err := bind.JSON[T](req)
		if err != nil {
			return phttp.Error(err)
		}
		return answer(h(req, in))
	}))
}

// MountUnder scopes mount to prefix with mw applied to every route in it
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPI is MountUnder at /api/{version}
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/"+strings.Trim(version, "/"), mw, mount)
}
