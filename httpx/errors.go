package httpx

import "errors"

var (
	ErrBadRequest   = errors.New("httpx: bad request")
	ErrServerClosed = errors.New("httpx: server closed")
	ErrHandlerPanic = errors.New("httpx: handler panic")
)
