// Package swaggerkit mounts the swagger ui and the OpenAPI document of the api
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"aarcnorm/internal/modkit/httpkit"
	phttp "aarcnorm/internal/platform/net/http"
)

// Mount serves the ui at /docs and the document at /docs/doc.json on api when enabled
// base is where api is mounted, the document lists it as its server
func Mount(api httpkit.Router, base string, enabled bool) {
	if !enabled {
		return
	}
	base = "/" + strings.Trim(base, "/")
	api.Get("/docs/doc.json", serveDocJSON(base))
	phttp.MountSwagger(api, "/docs", base+"/docs/doc.json", true)
}

// writeDoc parses raw, lets patch adjust it and writes it out
func writeDoc(w http.ResponseWriter, raw, base string, patch func(map[string]any)) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		http.Error(w, "spec parse error", http.StatusInternalServerError)
		return
	}
	// OAS3 base url lives in servers
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": base}}
	}
	if patch != nil {
		patch(spec)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(spec)
}
