// Package errors is the project error type: a code, a message, an optional cause
// and the column or parameter that caused it. Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine facing class of a failure; the value is what the API returns
type ErrorCode string

const (
	ErrorCodeUnknown         ErrorCode = "unknown"
	ErrorCodePanic           ErrorCode = "panic"
	ErrorCodeUnavailable     ErrorCode = "unavailable"
	ErrorCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrorCodeValidation      ErrorCode = "validation"
	ErrorCodeJSON            ErrorCode = "json"
	ErrorCodeNotFound        ErrorCode = "not_found"
	ErrorCodeDB              ErrorCode = "db"

	// ErrorCodeSchema marks a relation without a required column; a run that hits it
	// produces no collection
	ErrorCodeSchema ErrorCode = "schema"

	// ErrorCodeIO covers reading and writing persisted tables
	ErrorCodeIO ErrorCode = "io"
)

var statuses = map[ErrorCode]int{
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeSchema:          http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
}

// String returns the label, unknown for the zero value
func (c ErrorCode) String() string {
	if c == "" {
		return string(ErrorCodeUnknown)
	}
	return string(c)
}

// HTTPStatusCode maps a code to a response status; unmapped codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statuses[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a code and message around an optional cause
type Error struct {
	cause error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the error body returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Code is the error class
func (e *Error) Code() ErrorCode { return e.code }

// Field names the offending column or parameter
func (e *Error) Field() string { return e.field }

// Op is the step that failed, when one was tagged
func (e *Error) Op() string { return e.op }

// ToWire drops the cause; it never reaches a client
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// Root follows Unwrap to the last error
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// CodeOf is the code of the outermost *Error, unknown when there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// IsSchema reports a missing-column failure
func IsSchema(err error) bool { return IsCode(err, ErrorCodeSchema) }

// HTTP returns the status and body for err; nil is 200 with an empty body
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	if e, ok := As(err); ok {
		return HTTPStatusCode(e.code), e.ToWire()
	}
	return http.StatusInternalServerError, Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// with returns a copy of the outermost *Error changed by fn, or err as is
func with(err error, fn func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	fn(&c)
	return &c
}

// WithField tags err with the column or parameter at fault
func WithField(err error, field string) error {
	return with(err, func(e *Error) { e.field = field })
}

// WithOp tags err with the step that failed
func WithOp(err error, op string) error {
	return with(err, func(e *Error) { e.op = op })
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{cause: cause, code: code, msg: msg}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error  { return Newf(ErrorCodeInvalidArgument, format, a...) }
func Validationf(format string, a ...any) error  { return Newf(ErrorCodeValidation, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func DBf(format string, a ...any) error          { return Newf(ErrorCodeDB, format, a...) }
func Schemaf(format string, a ...any) error      { return Newf(ErrorCodeSchema, format, a...) }
func IOf(format string, a ...any) error          { return Newf(ErrorCodeIO, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Retryable reports whether a failed step may succeed when repeated
// schema failures never do; database failures are judged by IsRetryable
func Retryable(err error) bool {
	return !IsSchema(err) && IsRetryable(err)
}
