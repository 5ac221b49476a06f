package http

import (
	"net/http"

	pnet "aarcnorm/internal/platform/net"
)

type (
	// Envelope is the body every handler answers with
	Envelope = pnet.Envelope
	// Page is the paging block of List
	Page = pnet.Page
)

// Response is what a handler returns; an error Body picks the status from its code
type Response struct {
	Status int
	Body   any
	Header http.Header
}

// Handle turns a Response returning func into a Handler
func Handle(fn func(*http.Request) Response) Handler {
	return func(w http.ResponseWriter, r *http.Request) { fn(r).write(w, r) }
}

func (resp Response) write(w http.ResponseWriter, r *http.Request) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())

	if err, ok := resp.Body.(error); ok && err != nil {
		status, env := pnet.Failure(err, reqID)
		pnet.WriteJSON(w, status, env)
		return
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	pnet.WriteJSON(w, status, pnet.Success(status, resp.Body, reqID))
}

// OK answers 200 with data
func OK(data any) Response { return Response{Status: http.StatusOK, Body: data} }

// Created answers 201 with data
func Created(data any) Response { return Response{Status: http.StatusCreated, Body: data} }

// Error answers with the status mapped from err's code
func Error(err error) Response { return Response{Body: err} }

// List answers 200 with items and their page
func List(items any, total, page, size int, cursor string) Response {
	type list struct {
		Items any  `json:"items"`
		Page  Page `json:"page"`
	}
	return OK(list{Items: items, Page: Page{Total: total, Page: page, PageSize: size, Cursor: cursor}})
}
