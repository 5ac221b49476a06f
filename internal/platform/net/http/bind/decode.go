package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"

	perr "aarcnorm/internal/platform/errors"

	"github.com/go-playground/form"
)

// MaxBody caps the json bodies JSON reads
var MaxBody int64 = 1 << 20

// JSON decodes r's body into T and validates it
// unknown fields, trailing data and oversized bodies are rejected; an empty body is the zero T
func JSON[T any](r *http.Request) (T, error) {
	var in, zero T
	body := http.MaxBytesReader(nil, r.Body, MaxBody)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	switch err := dec.Decode(&in); {
	case errors.Is(err, io.EOF):
	case err != nil:
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return zero, perr.JSONErrf("body exceeds %d bytes", tooBig.Limit)
		}
		return zero, perr.JSONErrf("invalid json: %v", err)
	case dec.More():
		return zero, perr.JSONErrf("unexpected data after the json body")
	}
	if err := Validate(in); err != nil {
		return zero, err
	}
	return in, nil
}

// the query decoder reads json tags so one struct names its fields the same in bodies and queries
var queryDecoder = sync.OnceValue(func() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("json")
	return d
})

// Query decodes r's url query into T and validates it
func Query[T any](r *http.Request) (T, error) { return Values[T](r.URL.Query()) }

// Values decodes vals into T and validates it
func Values[T any](vals url.Values) (T, error) {
	var in, zero T
	if err := queryDecoder().Decode(&in, vals); err != nil {
		return zero, perr.InvalidArgf("invalid query: %v", err)
	}
	if err := Validate(in); err != nil {
		return zero, err
	}
	return in, nil
}
