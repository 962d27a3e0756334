// Package httpx provides a small, single-process HTTP/1.1 server built
// for learning and embedding.
//
// Highlights
//   - One goroutine per connection, answering one message per read and
//     keeping the connection open until it stays idle for IdleTimeout
//     (10s by default).
//   - Best-effort request parsing of a single read buffer (1024 bytes by
//     default) with an explicit 400 Bad Request path for malformed input.
//   - Exact method+path routing in registration order with a fallback
//     handler.
//   - Graceful shutdown, optional connection cap, logging/metrics hooks.
//
// Not supported: TLS, HTTP/2, chunked transfer encoding, pipelining, and
// messages that span more than one read.
//
// Quick start:
//
//	rt := httpx.NewRouter()
//	rt.HandleFunc("GET", "/hello", func(res *httpx.Response, req *httpx.Request) int {
//	    res.Text(200, "OK", "hello")
//	    return 1
//	})
//	s := &httpx.Server{Addr: ":8081", Handler: rt}
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
package httpx
