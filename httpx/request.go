package httpx

import (
	"context"
	"fmt"

	"dqx0.com/go/hellod/httpx/internal/http1"
)

// Request represents a parsed HTTP request.
//
// Args and Header keep keys exactly as received (trimmed); a repeated
// key holds its last value. Handlers must treat a Request as read-only.
type Request struct {
	Method     string
	Path       string
	Args       map[string]string
	Header     Header
	Body       string
	RemoteAddr string
	ctx        context.Context
	// RequestID is the server generated identifier for this request.
	RequestID string
	// CorrelationID is a propagated ID from the peer (X-Request-ID).
	CorrelationID string
}

// ParseRequest parses one complete message. Errors wrap ErrBadRequest and
// the underlying *http1.ParseError.
func ParseRequest(raw []byte) (*Request, error) {
	pr, err := http1.ParseRequest(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return &Request{
		Method: pr.Method,
		Path:   pr.Path,
		Args:   pr.Args,
		Header: Header(pr.Header),
		Body:   pr.Body,
	}, nil
}

// Arg returns the query argument named key, or "".
func (r *Request) Arg(key string) string {
	if r == nil || r.Args == nil {
		return ""
	}
	return r.Args[key]
}

// Context returns the request's context. If nil, returns Background.
// Served requests carry their RequestID and CorrelationID in it.
func (r *Request) Context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}
