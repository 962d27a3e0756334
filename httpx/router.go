package httpx

import (
	"fmt"
	"sync/atomic"
)

// Route binds an exact method and path to a handler.
type Route struct {
	Method  string
	Path    string
	Handler Handler
}

// Router dispatches by exact, case-sensitive (method, path) match in
// registration order; the first match wins. Routes are registered before
// serving starts. A Server seals its Router when Serve is called, after
// which the table is read-only and shared by all connections.
type Router struct {
	routes []Route
	sealed atomic.Bool
	// NotFound handles requests no route matches. Nil means NotFoundHandler.
	NotFound Handler
}

func NewRouter() *Router {
	return &Router{}
}

// Handle appends a route. It panics if the router is sealed or h is nil.
func (rt *Router) Handle(method, path string, h Handler) {
	if h == nil {
		panic("httpx: nil handler for " + method + " " + path)
	}
	if rt.sealed.Load() {
		panic(fmt.Sprintf("httpx: route %s %s registered after serving started", method, path))
	}
	rt.routes = append(rt.routes, Route{Method: method, Path: path, Handler: h})
}

func (rt *Router) HandleFunc(method, path string, f func(*Response, *Request) int) {
	rt.Handle(method, path, HandlerFunc(f))
}

// Routes returns a copy of the route table in registration order.
func (rt *Router) Routes() []Route {
	return append([]Route(nil), rt.routes...)
}

// Lookup returns the handler of the first route matching method and path.
func (rt *Router) Lookup(method, path string) (Handler, bool) {
	for _, r := range rt.routes {
		if r.Method == method && r.Path == path {
			return r.Handler, true
		}
	}
	return nil, false
}

func (rt *Router) ServeHTTP(res *Response, req *Request) int {
	if h, ok := rt.Lookup(req.Method, req.Path); ok {
		return h.ServeHTTP(res, req)
	}
	nf := rt.NotFound
	if nf == nil {
		nf = NotFoundHandler
	}
	return nf.ServeHTTP(res, req)
}

func (rt *Router) seal() {
	rt.sealed.Store(true)
}
