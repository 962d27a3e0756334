package httpx

import (
	"context"
	"errors"
	"io"
	"net"
	"runtime/debug"
	"strconv"
	"time"

	"dqx0.com/go/hellod/httpx/internal/http1"
	"dqx0.com/go/hellod/internal/obs"
)

// conn serves one accepted connection. It owns rwc and nothing upstream;
// the listener stays with the Server.
type conn struct {
	srv        *Server
	handler    Handler // shared, read-only after Serve starts
	rwc        net.Conn
	remoteAddr string
	buf        []byte
	n          int    // bytes of buf holding the current message
	reason     string // why the connection was closed
	served     int
}

// stateFunc is one state of the connection; it returns the next state or
// nil once the connection is closed.
type stateFunc func(*conn) stateFunc

func (s *Server) newConn(rwc net.Conn) *conn {
	c := &conn{
		srv:     s,
		handler: s.handler(),
		rwc:     rwc,
		buf:     make([]byte, s.readBufferSize()),
	}
	if ra := rwc.RemoteAddr(); ra != nil {
		c.remoteAddr = ra.String()
	}
	return c
}

func (c *conn) serve() {
	defer c.srv.trackConn(c, false)
	c.srv.logf(obs.Info, "client connected: %s", c.remoteAddr)
	for state := waitForData; state != nil; {
		state = state(c)
	}
}

// wake interrupts a pending idle read so the connection notices shutdown.
func (c *conn) wake() {
	_ = c.rwc.SetReadDeadline(time.Now())
}

// waitForData blocks for at most the idle timeout and reads one message.
func waitForData(c *conn) stateFunc {
	if err := c.rwc.SetReadDeadline(time.Now().Add(c.srv.idleTimeout())); err != nil {
		c.reason = "deadline_error"
		return closeConn
	}
	// Checked after arming the deadline so a concurrent wake is never lost.
	if c.srv.shuttingDown() {
		c.reason = "shutdown"
		return closeConn
	}
	n, err := c.rwc.Read(c.buf)
	if n > 0 {
		c.n = n
		return process
	}
	var ne net.Error
	switch {
	case err == nil, errors.Is(err, io.EOF):
		c.reason = "eof"
	case errors.As(err, &ne) && ne.Timeout():
		if c.srv.shuttingDown() {
			c.reason = "shutdown"
		} else {
			c.reason = "idle_timeout"
		}
	default:
		c.reason = "read_error"
		c.srv.logf(obs.Debug, "read %s: %v", c.remoteAddr, err)
	}
	return closeConn
}

// process handles the message in buf and writes the whole response.
func process(c *conn) stateFunc {
	start := time.Now()
	res := NewResponse()
	req, err := ParseRequest(c.buf[:c.n])
	keepOpen := true
	method := "invalid"
	if err != nil {
		c.srv.logf(obs.Warn, "%s: %v", c.remoteAddr, err)
		c.srv.metricCounter("httpx_server_parse_error_total", 1)
		req = &Request{RemoteAddr: c.remoteAddr}
		BadRequestHandler.ServeHTTP(res, req)
		keepOpen = false
	} else {
		method = req.Method
		c.prepare(req)
		c.logRequest(req)
		if !c.dispatch(res, req) {
			c.reason = "handler_panic"
			return closeConn
		}
	}

	if c.srv.WriteTimeout > 0 {
		_ = c.rwc.SetWriteDeadline(time.Now().Add(c.srv.WriteTimeout))
	}
	if _, err := http1.WriteResponse(c.rwc, res.StatusCode, res.Status, res.Header, []byte(res.Body)); err != nil {
		c.srv.logf(obs.Debug, "write %s: %v", c.remoteAddr, err)
		c.reason = "write_error"
		return closeConn
	}
	c.served++
	status := strconv.Itoa(res.StatusCode)
	c.srv.metricCounter("httpx_server_requests_total", 1,
		obs.Label{Key: "method", Value: method}, obs.Label{Key: "status", Value: status})
	c.srv.metricHistogram("httpx_server_request_duration_ms", float64(time.Since(start).Milliseconds()))
	c.srv.logf(obs.Info, "%s %s %s -> %d %s (%s)", c.remoteAddr, req.Method, req.Path, res.StatusCode, res.Status, req.RequestID)

	if !keepOpen {
		c.reason = "bad_request"
		return closeConn
	}
	return waitForData
}

func closeConn(c *conn) stateFunc {
	_ = c.rwc.Close()
	c.srv.metricCounter("httpx_server_conn_closed_total", 1, obs.Label{Key: "reason", Value: c.reason})
	c.srv.logf(obs.Info, "client disconnected: %s (%s, %d requests)", c.remoteAddr, c.reason, c.served)
	return nil
}

// prepare attaches connection and tracing identity to req.
func (c *conn) prepare(req *Request) {
	req.RemoteAddr = c.remoteAddr
	req.RequestID = genID()
	ctx := WithRequestID(context.Background(), req.RequestID)
	if id := req.Header.Get("X-Request-ID"); id != "" {
		req.CorrelationID = id
		ctx = WithCorrelationID(ctx, id)
	}
	req.ctx = ctx
}

func (c *conn) logRequest(req *Request) {
	c.srv.logf(obs.Debug, "request %s: method=%s path=%s body=%q header=%v args=%v",
		req.RequestID, req.Method, req.Path, req.Body, map[string]string(req.Header), req.Args)
}

// dispatch runs the handler, reporting false if it panicked.
func (c *conn) dispatch(res *Response, req *Request) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			c.srv.logf(obs.Error, "%v: %s %s from %s: %v\n%s", ErrHandlerPanic, req.Method, req.Path, c.remoteAddr, p, debug.Stack())
			ok = false
		}
	}()
	c.handler.ServeHTTP(res, req)
	return true
}
