package main

import "dqx0.com/go/hellod/httpx"

// newRouter builds the route table served by hellod.
func newRouter() *httpx.Router {
	rt := httpx.NewRouter()
	rt.HandleFunc("GET", "/hello", hello)
	return rt
}

func hello(res *httpx.Response, req *httpx.Request) int {
	res.Text(200, "OK", "HELLO WORLD!!!!!!")
	return 1
}
