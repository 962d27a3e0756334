package httpx

// Handler populates res for req. The returned code is passed back to the
// caller of the router and is otherwise unused by the server.
type Handler interface {
	ServeHTTP(res *Response, req *Request) int
}

type HandlerFunc func(res *Response, req *Request) int

func (f HandlerFunc) ServeHTTP(res *Response, req *Request) int {
	return f(res, req)
}

// NotFoundHandler answers unmatched routes. It keeps the 400 status code
// with a "Not Found" message that existing clients expect.
var NotFoundHandler Handler = HandlerFunc(func(res *Response, req *Request) int {
	res.Text(400, "Not Found", "Route Not Found")
	return 1
})

// BadRequestHandler answers messages that could not be parsed.
var BadRequestHandler Handler = HandlerFunc(func(res *Response, req *Request) int {
	res.Text(400, "Bad Request", "Bad Request")
	res.Header.Set("Connection", "close")
	return 1
})
