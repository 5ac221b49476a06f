// Package bind decodes request input into typed structs and validates it with go-playground/validator
package bind

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "aarcnorm/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// shorter than the stock english messages; {0} is the json field name, {1} the tag param
var messages = map[string]string{
	"min":      "{0} must be at least {1}",
	"max":      "{0} must be at most {1}",
	"required": "{0} is required",
}

var engine = sync.OnceValues(func() (*validator.Validate, ut.Translator) {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = entrans.RegisterDefaultTranslations(v, trans)
	for tag, msg := range messages {
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, msg, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				s, _ := t.T(tag, fe.Field(), fe.Param())
				return s
			},
		)
	}
	return v, trans
})

// jsonName reports fields by their json name so errors match the wire
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// Validate checks v's validate tags; the first failure becomes a validation error naming its field
func Validate(v any) error {
	val, trans := engine()
	err := val.Struct(v)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) || len(fes) == 0 {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "cannot validate input")
	}
	fe := fes[0]
	return perr.WithField(perr.Validationf("%s", fe.Translate(trans)), fe.Field())
}
