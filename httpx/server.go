package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/netutil"

	"dqx0.com/go/hellod/internal/obs"
)

const (
	DefaultAddr           = ":8081"
	DefaultIdleTimeout    = 10 * time.Second
	DefaultReadBufferSize = 1024
)

// Server accepts TCP connections and answers one request per read on each
// of them until the peer goes idle. The Server alone owns its listeners;
// connection goroutines only ever see their own net.Conn.
type Server struct {
	Addr    string
	Handler Handler
	// IdleTimeout bounds the wait for the next message on a connection.
	IdleTimeout time.Duration
	// WriteTimeout bounds writing one response. Zero means no limit.
	WriteTimeout time.Duration
	// ReadBufferSize is the size of the single read that must hold a
	// whole request.
	ReadBufferSize int
	// MaxConns caps concurrently open connections. Zero means no cap.
	MaxConns int

	Logger obs.Logger
	Meter  obs.Meter

	mu         sync.Mutex
	listeners  map[*net.Listener]struct{}
	conns      map[*conn]struct{}
	wg         sync.WaitGroup
	inShutdown atomic.Bool
}

func (s *Server) ListenAndServe() error {
	if s.shuttingDown() {
		return ErrServerClosed
	}
	addr := s.addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("httpx: listen %s: %w", addr, err)
	}
	s.logf(obs.Info, "listening on %s", ln.Addr())
	return s.Serve(ln)
}

// Serve accepts connections on l and serves each in its own goroutine.
// A failed Accept is logged and skipped. Serve seals a *Router handler so
// its table can be shared without locking. After Shutdown or Close, Serve
// returns ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	if sl, ok := s.Handler.(interface{ seal() }); ok {
		sl.seal()
	}
	if s.MaxConns > 0 {
		l = netutil.LimitListener(l, s.MaxConns)
	}
	l = &onceCloseListener{Listener: l}
	defer l.Close()

	if !s.trackListener(&l, true) {
		return ErrServerClosed
	}
	defer s.trackListener(&l, false)

	var tempDelay time.Duration
	for {
		rw, err := l.Accept()
		if err != nil {
			if s.shuttingDown() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.metricCounter("httpx_server_accept_error_total", 1)
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if max := 1 * time.Second; tempDelay > max {
				tempDelay = max
			}
			s.logf(obs.Warn, "accept error: %v; retrying in %v", err, tempDelay)
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0
		c := s.newConn(rw)
		if !s.trackConn(c, true) {
			_ = rw.Close()
			return ErrServerClosed
		}
		s.metricCounter("httpx_server_conn_accepted_total", 1)
		go c.serve()
	}
}

// Shutdown stops accepting, lets every connection finish the response it
// is working on, and waits for all of them to close. If ctx expires first
// the remaining connections are closed and ctx.Err() is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)

	s.mu.Lock()
	lnerr := s.closeListenersLocked()
	for c := range s.conns {
		c.wake()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return lnerr
	case <-ctx.Done():
		s.closeConns()
		return ctx.Err()
	}
}

// Close immediately closes all listeners and connections.
func (s *Server) Close() error {
	s.inShutdown.Store(true)
	s.mu.Lock()
	err := s.closeListenersLocked()
	s.mu.Unlock()
	s.closeConns()
	return err
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.rwc.Close()
	}
}

func (s *Server) closeListenersLocked() error {
	var err error
	for ln := range s.listeners {
		if cerr := (*ln).Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// trackListener reports whether the server is still up.
func (s *Server) trackListener(ln *net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[*net.Listener]struct{})
	}
	if add {
		if s.shuttingDown() {
			return false
		}
		s.listeners[ln] = struct{}{}
	} else {
		delete(s.listeners, ln)
	}
	return true
}

func (s *Server) trackConn(c *conn, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		s.conns = make(map[*conn]struct{})
	}
	if add {
		if s.shuttingDown() {
			return false
		}
		s.conns[c] = struct{}{}
		s.wg.Add(1)
	} else {
		delete(s.conns, c)
		s.wg.Done()
	}
	return true
}

func (s *Server) shuttingDown() bool {
	return s.inShutdown.Load()
}

func (s *Server) handler() Handler {
	if s.Handler == nil {
		return NotFoundHandler
	}
	return s.Handler
}

func (s *Server) addr() string {
	if s.Addr == "" {
		return DefaultAddr
	}
	return s.Addr
}

func (s *Server) idleTimeout() time.Duration {
	if s.IdleTimeout <= 0 {
		return DefaultIdleTimeout
	}
	return s.IdleTimeout
}

func (s *Server) readBufferSize() int {
	if s.ReadBufferSize <= 0 {
		return DefaultReadBufferSize
	}
	return s.ReadBufferSize
}

func (s *Server) logf(level obs.Level, format string, args ...interface{}) {
	lg := s.Logger
	if lg == nil {
		lg = obs.NopLogger{}
	}
	lg.Logf(level, format, args...)
}

func (s *Server) metricCounter(name string, value float64, labels ...obs.Label) {
	s.getMeter().Counter(name, value, labels...)
}

func (s *Server) metricHistogram(name string, value float64, labels ...obs.Label) {
	s.getMeter().Histogram(name, value, labels...)
}

func (s *Server) getMeter() obs.Meter {
	if s.Meter != nil {
		return s.Meter
	}
	return obs.NopMeter{}
}

// onceCloseListener wraps a net.Listener, protecting it from
// multiple Close calls.
type onceCloseListener struct {
	net.Listener
	once     sync.Once
	closeErr error
}

func (oc *onceCloseListener) Close() error {
	oc.once.Do(oc.close)
	return oc.closeErr
}

func (oc *onceCloseListener) close() { oc.closeErr = oc.Listener.Close() }
