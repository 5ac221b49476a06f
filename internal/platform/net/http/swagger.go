package http

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the swagger ui under prefix when enabled; the ui loads its document from docURL
// r may be a subrouter, redirects keep the full request path
func MountSwagger(r Router, prefix, docURL string, enabled bool) {
	if !enabled {
		return
	}
	prefix = "/" + strings.Trim(prefix, "/")
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, strings.TrimSuffix(req.URL.Path, "/")+"/index.html", http.StatusPermanentRedirect)
	})
	r.Get(prefix+"/*", httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DocExpansion("list"),
	))
}
