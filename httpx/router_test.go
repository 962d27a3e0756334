package httpx

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func hello(res *Response, req *Request) int {
	res.Text(200, "OK", "HELLO WORLD!!!!!!")
	return 1
}

func TestRouterDispatch(t *testing.T) {
	convey.Convey("Given a router with GET /hello", t, func() {
		rt := NewRouter()
		rt.HandleFunc("GET", "/hello", hello)

		convey.Convey("GET /hello reaches the handler", func() {
			res := NewResponse()
			code := rt.ServeHTTP(res, &Request{Method: "GET", Path: "/hello"})
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(res.StatusCode, convey.ShouldEqual, 200)
			convey.So(res.Status, convey.ShouldEqual, "OK")
			convey.So(res.Body, convey.ShouldEqual, "HELLO WORLD!!!!!!")
			convey.So(res.Header.Get("Content-Length"), convey.ShouldEqual, "17")
			convey.So(res.Header.Get("Content-Type"), convey.ShouldEqual, "text/plain")
			convey.So(res.Header.Get("Connection"), convey.ShouldEqual, "keep-alive")
		})

		convey.Convey("an unknown path falls back to 400 Not Found", func() {
			res := NewResponse()
			rt.ServeHTTP(res, &Request{Method: "GET", Path: "/missing"})
			convey.So(res.StatusCode, convey.ShouldEqual, 400)
			convey.So(res.Status, convey.ShouldEqual, "Not Found")
			convey.So(res.Body, convey.ShouldEqual, "Route Not Found")
			convey.So(res.Header.Get("Content-Length"), convey.ShouldEqual, "15")
		})

		convey.Convey("matching is exact and case-sensitive", func() {
			for _, r := range []Request{
				{Method: "get", Path: "/hello"},
				{Method: "POST", Path: "/hello"},
				{Method: "GET", Path: "/Hello"},
				{Method: "GET", Path: "/hello/"},
				{Method: "GET", Path: "/hell"},
			} {
				r := r
				res := NewResponse()
				rt.ServeHTTP(res, &r)
				convey.So(res.Body, convey.ShouldEqual, "Route Not Found")
			}
		})

		convey.Convey("the first registered match wins", func() {
			rt.HandleFunc("GET", "/hello", func(res *Response, req *Request) int {
				res.Text(200, "OK", "second")
				return 2
			})
			res := NewResponse()
			code := rt.ServeHTTP(res, &Request{Method: "GET", Path: "/hello"})
			convey.So(code, convey.ShouldEqual, 1)
			convey.So(res.Body, convey.ShouldEqual, "HELLO WORLD!!!!!!")
			convey.So(len(rt.Routes()), convey.ShouldEqual, 2)
		})

		convey.Convey("a custom NotFound replaces the fallback", func() {
			rt.NotFound = HandlerFunc(func(res *Response, req *Request) int {
				res.Text(404, "Not Found", "nope")
				return 0
			})
			res := NewResponse()
			rt.ServeHTTP(res, &Request{Method: "GET", Path: "/missing"})
			convey.So(res.StatusCode, convey.ShouldEqual, 404)
			convey.So(res.Body, convey.ShouldEqual, "nope")
		})

		convey.Convey("a sealed router rejects new routes", func() {
			rt.seal()
			convey.So(func() { rt.HandleFunc("GET", "/late", hello) }, convey.ShouldPanic)
			convey.So(len(rt.Routes()), convey.ShouldEqual, 1)
		})

		convey.Convey("a nil handler is rejected", func() {
			convey.So(func() { rt.Handle("GET", "/nil", nil) }, convey.ShouldPanic)
		})
	})
}

func TestBadRequestHandler(t *testing.T) {
	res := NewResponse()
	BadRequestHandler.ServeHTTP(res, &Request{})
	if res.StatusCode != 400 || res.Status != "Bad Request" || res.Body != "Bad Request" {
		t.Fatalf("got %d %q %q", res.StatusCode, res.Status, res.Body)
	}
	if res.Header.Get("Connection") != "close" {
		t.Fatalf("Connection=%q", res.Header.Get("Connection"))
	}
}
