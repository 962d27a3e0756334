package httpx_test

import (
	"context"
	"fmt"

	"dqx0.com/go/hellod/httpx"
)

// ExampleHeader shows basic header operations.
func ExampleHeader() {
	h := httpx.Header{}
	h.Set("X-Foo", "a")
	h.Set("X-Foo", "b")
	fmt.Println(h.Get("x-foo")) // case-insensitive fallback
	fmt.Println(len(h))
	h.Del("X-Foo")
	fmt.Println(h.Get("X-Foo"))
	// Output:
	// b
	// 1
	//
}

// ExampleParseRequest parses one raw message.
func ExampleParseRequest() {
	req, err := httpx.ParseRequest([]byte("GET /search?q=cats&lang=en HTTP/1.1\r\nHost: x\r\n\r\n"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(req.Method, req.Path, req.Arg("q"), req.Arg("lang"), req.Header.Get("Host"))
	// Output:
	// GET /search cats en x
}

// ExampleRouter dispatches to the first exact match or the fallback.
func ExampleRouter() {
	rt := httpx.NewRouter()
	rt.HandleFunc("GET", "/hello", func(res *httpx.Response, req *httpx.Request) int {
		res.Text(200, "OK", "HELLO WORLD!!!!!!")
		return 1
	})
	for _, path := range []string{"/hello", "/missing"} {
		res := httpx.NewResponse()
		rt.ServeHTTP(res, &httpx.Request{Method: "GET", Path: path})
		fmt.Println(res.StatusCode, res.Status, res.Body)
	}
	// Output:
	// 200 OK HELLO WORLD!!!!!!
	// 400 Not Found Route Not Found
}

// ExampleResponse_Bytes shows the wire form of a response.
func ExampleResponse_Bytes() {
	res := httpx.NewResponse()
	res.Text(200, "OK", "hi")
	fmt.Printf("%q\n", res.Bytes())
	// Output:
	// "HTTP/1.1 200 OK\r\nConnection: keep-alive\r\nContent-Length: 2\r\nContent-Type: text/plain\r\n\r\nhi"
}

// ExampleRequestIDFrom reads the request ID a handler receives.
func ExampleRequestIDFrom() {
	ctx := httpx.WithRequestID(context.Background(), "0123456789abcdef")
	id, ok := httpx.RequestIDFrom(ctx)
	fmt.Println(id, ok)
	_, ok = httpx.CorrelationIDFrom(ctx)
	fmt.Println(ok)
	// Output:
	// 0123456789abcdef true
	// false
}
