// Package net holds what every transport shares: request ids on the context and the json envelope
package net

import (
	"context"
	"encoding/json"
	"net/http"

	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest stores reqID where chi and the logger both find it; empty ids are ignored
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return logger.WithRequest(context.WithValue(ctx, chimw.RequestIDKey, reqID), reqID)
}

// RequestID returns the id set by WithRequest or chi's RequestID middleware
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// Envelope is the body of every json response
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Page is the paging block of list responses
type Page struct {
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Cursor   string `json:"cursor,omitempty"`
}

// Success wraps data under status
func Success(status int, data any, reqID string) Envelope {
	return Envelope{StatusCode: status, Status: http.StatusText(status), RequestID: reqID, Data: data}
}

// Failure maps err onto its status; a nil err is a plain 200
func Failure(err error, reqID string) (int, Envelope) {
	if err == nil {
		return http.StatusOK, Success(http.StatusOK, nil, reqID)
	}
	status, w := perr.HTTP(err)
	return status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}

// WriteJSON encodes v with status; encode errors mean the client went away
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
