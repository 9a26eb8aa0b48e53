package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/xener/xener/internal/config"
	"github.com/xener/xener/internal/content"
	"github.com/xener/xener/internal/logger"
	"github.com/xener/xener/internal/protocol/http"
	"github.com/xener/xener/internal/ratelimiter"
)

// Server accepts TCP connections on one listener, applies admission
// control through the ledger, and dispatches each connection's
// request/response loop onto the worker pool.
type Server struct {
	cfg       *config.ServerConfig
	provider  content.Provider
	accessLog *AccessLogger
	limiter   *ratelimiter.RateLimiter
	ledger    *Ledger
	pool      *WorkerPool

	// mu guards listener, which Serve publishes from its own goroutine
	// while Addr and Stop read it from others.
	mu       sync.Mutex
	listener net.Listener
}

func New(cfg *config.ServerConfig, provider content.Provider, accessLog *AccessLogger) *Server {
	return &Server{
		cfg:       cfg,
		provider:  provider,
		accessLog: accessLog,
		ledger:    NewLedger(cfg),
	}
}

// SetRateLimiter installs an accept-rate limiter. Nil disables limiting.
func (s *Server) SetRateLimiter(limiter *ratelimiter.RateLimiter) {
	s.limiter = limiter
}

// Ledger exposes the connection ledger, mainly for inspection in tests.
func (s *Server) Ledger() *Ledger {
	return s.ledger
}

// Serve binds the listener and runs the accept loop until the context is
// cancelled or the listener is closed. A bind failure is fatal; a failed
// accept is logged and the loop continues. Shutdown drains the worker pool
// with no deadline.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.pool = NewWorkerPool(s.cfg.ThreadCount)
	go s.ledger.PrunePeriodically(ctx)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	logger.Info("Server listening on %s with %d worker threads and max %d concurrent connections, keep-alive enabled",
		s.cfg.Address(), s.pool.Size(), s.cfg.MaxConnections)

	for {
		tcpConn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.pool.Shutdown()
				return nil
			}
			logger.Error("Error accepting connection: %v", err)
			continue
		}

		s.accept(tcpConn)
	}
}

// Addr returns the bound listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener; Serve then drains and returns.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) accept(tcpConn net.Conn) {
	if s.limiter != nil && !s.limiter.Allow() {
		logger.Debug("Accept rate exceeded, rejecting connection from %s", tcpConn.RemoteAddr())
		reject(tcpConn, http.NewResponse().
			WithStatus(http.StatusTooManyRequests).
			WithText("429 Too Many Requests - Slow down"))
		return
	}

	if !s.ledger.Admit() {
		logger.Error("Maximum connection limit reached (%d), rejecting connection",
			s.cfg.MaxConnections)
		reject(tcpConn, http.NewResponse().
			WithStatus(http.StatusServiceUnavailable).
			WithHeader("Retry-After", "60").
			WithText("503 Service Unavailable - Server at capacity"))
		return
	}

	conn := s.ledger.Wrap(tcpConn)
	logger.Debug("New connection accepted from %s, active connections: %d",
		conn.PeerAddr(), s.ledger.Active())

	accepted := s.pool.Execute(func() {
		defer s.ledger.Release(conn)
		s.serveConn(conn)
	})
	if !accepted {
		// The pool is already draining; the job will never run, so the
		// admitted slot must be returned here.
		s.ledger.Discard(conn)
	}
}

// reject writes a response directly on the raw socket and closes it: no
// state machine, no keep-alive negotiation, no access logging.
func reject(tcpConn net.Conn, resp *http.Response) {
	_ = resp.WriteTo(tcpConn)
	_ = tcpConn.Close()
}

func (s *Server) serveConn(c *Conn) {
	for {
		keepAlive, err := c.HandleRequest(s.handle(c))
		if err != nil {
			logger.Error("Error handling request from %s: %v", c.PeerAddr(), err)
			return
		}
		if !keepAlive {
			logger.Debug("Closing connection to %s", c.PeerAddr())
			return
		}
	}
}

// handle routes GET/HEAD to the content provider and every other method to
// 405, then access-logs the outcome. The access logger is fire-and-forget.
func (s *Server) handle(c *Conn) func(*http.Request) *http.Response {
	return func(req *http.Request) *http.Response {
		var resp *http.Response

		switch req.Method {
		case http.MethodGet, http.MethodHead:
			resp = s.provider.Serve(req.Path)
		default:
			resp = http.NewResponse().
				WithStatus(http.StatusMethodNotAllowed).
				WithHeader("Allow", "GET, HEAD").
				WithText(http.StatusMethodNotAllowed.ReasonPhrase())
		}

		s.accessLog.Log(c.PeerAddr(), req.Method.String(), req.Path, resp.Status.Code(), len(resp.Body))
		return resp
	}
}
