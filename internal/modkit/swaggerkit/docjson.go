//go:build swag

package swaggerkit

import (
	"net/http"
	"strings"

	"aarcnorm/internal/platform/config"

	docs "aarcnorm/internal/services/api/docs"
)

// docReader is a seam so tests can serve a broken document
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// serveDocJSON serves the registered document with the error envelope filled in
func serveDocJSON(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", "")
		writeDoc(w, docReader(), base, func(spec map[string]any) {
			// the ui can't render 3.1 yet
			if v, _ := spec["openapi"].(string); v == "" || strings.HasPrefix(v, "3.1") {
				spec["openapi"] = "3.0.3"
			}
			if info, ok := spec["info"].(map[string]any); ok && suffix != "" {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + suffix
				}
			}
			ensureErrorSchema(spec)
			addDefaultError(spec)
		})
	}
}

// ensureErrorSchema adds the failure envelope as ErrorResponse unless present
func ensureErrorSchema(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Failure envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "string", "example": "validation"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status", "code"},
	}
}

// addDefaultError gives every operation a 500 and a 400 pointing at ErrorResponse
func addDefaultError(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	resp := func(desc string) map[string]any {
		return map[string]any{
			"description": desc,
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				},
			},
		}
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, ok := responses["500"]; !ok {
				responses["500"] = resp("Internal Server Error")
			}
			if _, ok := responses["400"]; !ok {
				responses["400"] = resp("Bad Request")
			}
		}
	}
}
