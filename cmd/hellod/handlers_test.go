package main

import (
	"testing"

	"dqx0.com/go/hellod/httpx"
)

func TestRoutes(t *testing.T) {
	rt := newRouter()
	cases := []struct {
		method, path string
		code         int
		status, body string
	}{
		{"GET", "/hello", 200, "OK", "HELLO WORLD!!!!!!"},
		{"GET", "/missing", 400, "Not Found", "Route Not Found"},
		{"POST", "/hello", 400, "Not Found", "Route Not Found"},
	}
	for _, tc := range cases {
		res := httpx.NewResponse()
		rt.ServeHTTP(res, &httpx.Request{Method: tc.method, Path: tc.path})
		if res.StatusCode != tc.code || res.Status != tc.status || res.Body != tc.body {
			t.Fatalf("%s %s: got %d %q %q", tc.method, tc.path, res.StatusCode, res.Status, res.Body)
		}
	}
}

func TestHelloWire(t *testing.T) {
	res := httpx.NewResponse()
	if code := hello(res, &httpx.Request{Method: "GET", Path: "/hello"}); code != 1 {
		t.Fatalf("code=%d", code)
	}
	want := "HTTP/1.1 200 OK\r\nConnection: keep-alive\r\nContent-Length: 17\r\nContent-Type: text/plain\r\n\r\nHELLO WORLD!!!!!!"
	if got := string(res.Bytes()); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}
