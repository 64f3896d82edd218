package mcp

import (
	"context"
	"net/http"
)

type headersKey struct{}

// WithHeaders attaches the headers of the transport request that carried a message.
func WithHeaders(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, headersKey{}, h)
}

// HeadersFromContext returns the headers attached by WithHeaders, or an empty set.
func HeadersFromContext(ctx context.Context) http.Header {
	if h, ok := ctx.Value(headersKey{}).(http.Header); ok && h != nil {
		return h
	}
	return http.Header{}
}
