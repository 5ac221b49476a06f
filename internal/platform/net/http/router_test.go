package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "aarcnorm/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestChiRouter_RoutesAndMiddleware(t *testing.T) {
	t.Parallel()

	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/relations", func(sub phttp.Router) {
		sub.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Scope", "relations")
				next.ServeHTTP(w, req)
			})
		})
		sub.Get("/{name}", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(phttp.Param(req, "name")))
		})
		sub.Post("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	})
	r.Handle("/raw", http.NotFoundHandler())

	rec := serve(r.Mux(), http.MethodGet, "/relations/persons")
	if rec.Code != http.StatusOK || rec.Body.String() != "persons" || rec.Header().Get("X-Scope") != "relations" {
		t.Fatalf("GET: %d %q %v", rec.Code, rec.Body.String(), rec.Header())
	}
	if rec := serve(r.Mux(), http.MethodPost, "/relations/"); rec.Code != http.StatusAccepted {
		t.Fatalf("POST: %d", rec.Code)
	}
	if rec := serve(r.Mux(), http.MethodPost, "/relations/persons"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method: %d", rec.Code)
	}
	if rec := serve(r.Mux(), http.MethodGet, "/raw"); rec.Code != http.StatusNotFound {
		t.Fatalf("Handle: %d", rec.Code)
	}
}

func TestParam_Absent(t *testing.T) {
	t.Parallel()

	if got := phttp.Param(httptest.NewRequest(http.MethodGet, "/", nil), "name"); got != "" {
		t.Fatalf("Param = %q", got)
	}
}

func TestMountProfiler(t *testing.T) {
	t.Parallel()

	on := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(on, "/debug", true)
	if rec := serve(on.Mux(), http.MethodGet, "/debug/pprof/cmdline"); rec.Code != http.StatusOK {
		t.Fatalf("pprof: %d", rec.Code)
	}

	off := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(off, "/debug", false)
	if rec := serve(off.Mux(), http.MethodGet, "/debug/pprof/cmdline"); rec.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler answered %d", rec.Code)
	}
}

func TestChiRouter_WithScopesToRoute(t *testing.T) {
	t.Parallel()

	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/runs", func(sub phttp.Router) {
		guarded := sub.With(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Guard", "on")
				next.ServeHTTP(w, req)
			})
		})
		guarded.Post("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
		sub.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})

	rec := serve(r.Mux(), http.MethodPost, "/runs/")
	if rec.Code != http.StatusCreated || rec.Header().Get("X-Guard") != "on" {
		t.Fatalf("POST: %d %v", rec.Code, rec.Header())
	}
	rec = serve(r.Mux(), http.MethodGet, "/runs/")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Guard") != "" {
		t.Fatalf("GET: %d %v", rec.Code, rec.Header())
	}
}
