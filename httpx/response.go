package httpx

import (
	"strconv"

	"dqx0.com/go/hellod/httpx/internal/http1"
)

// Response is populated in place by exactly one handler and then
// serialized once. No header is added implicitly; handlers set
// Content-Length themselves.
type Response struct {
	StatusCode int
	Status     string // status message, e.g. "OK"
	Header     Header
	Body       string
}

// NewResponse returns an empty response ready for a handler.
func NewResponse() *Response {
	return &Response{Header: Header{}}
}

// Text fills r with a plain-text keep-alive response.
func (r *Response) Text(code int, msg, body string) {
	if r.Header == nil {
		r.Header = Header{}
	}
	r.Body = body
	r.Header.Set("Content-Type", "text/plain")
	r.Header.Set("Content-Length", strconv.Itoa(len(body)))
	r.Header.Set("Connection", "keep-alive")
	r.StatusCode = code
	r.Status = msg
}

// Bytes returns the wire form of r. Headers are written in sorted key
// order; callers must not rely on any particular order.
func (r *Response) Bytes() []byte {
	return r.AppendTo(nil)
}

// AppendTo appends the wire form of r to dst.
func (r *Response) AppendTo(dst []byte) []byte {
	return http1.AppendResponse(dst, r.StatusCode, r.Status, r.Header, []byte(r.Body))
}
