package server

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/xener/xener/internal/config"
	"github.com/xener/xener/internal/logger"
	"github.com/xener/xener/internal/protocol/http"
)

// cacheMaxAge is the Cache-Control max-age applied to static assets served
// over a persistent connection.
const cacheMaxAge = 3600

// closeSummaryLifetime gates the close-time summary log: short one-shot
// connections are not worth a line.
const closeSummaryLifetime = 10 * time.Second

// ConnStats accumulates per-connection traffic counters.
type ConnStats struct {
	RequestsHandled int
	BytesReceived   int
	BytesSent       int
	ActiveTime      time.Duration
	MaxRequestTime  time.Duration
}

// Conn drives one TCP connection through repeated request/response cycles:
// Idle -> Reading -> Processing -> Writing -> (Idle | Closed). A Conn is
// owned by exactly one goroutine at a time and is never shared.
type Conn struct {
	conn         net.Conn
	peerAddr     string
	createdAt    time.Time
	lastActive   time.Time
	requestCount int
	maxRequests  int
	idleTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	stats        ConnStats
}

func newConn(tcpConn net.Conn, cfg *config.ServerConfig) *Conn {
	if tc, ok := tcpConn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	now := time.Now()
	return &Conn{
		conn:         tcpConn,
		peerAddr:     tcpConn.RemoteAddr().String(),
		createdAt:    now,
		lastActive:   now,
		maxRequests:  cfg.MaxRequestsPerConnection,
		idleTimeout:  cfg.KeepAliveTimeout,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

// HandleRequest processes one request/response cycle. The returned bool
// tells the caller whether to keep looping on this connection; an error is
// fatal for this connection only.
func (c *Conn) HandleRequest(handler func(*http.Request) *http.Response) (bool, error) {
	c.lastActive = time.Now()
	requestStart := c.lastActive
	c.requestCount++

	// Over-quota requests get no response at all; the client observes the
	// connection closing.
	if c.requestCount > c.maxRequests {
		logger.Debug("Connection from %s reached maximum request limit (%d/%d)",
			c.peerAddr, c.requestCount, c.maxRequests)
		return false, nil
	}

	if c.readTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	req, err := http.ReadRequest(c.conn)
	if err != nil {
		return c.handleReadError(err)
	}

	c.stats.BytesReceived += estimateRequestSize(req)

	keepAlive := req.WantsKeepAlive()

	timeoutSecs := int(c.idleTimeout / time.Second)
	if clientTimeout, ok := req.KeepAliveTimeout(); ok {
		timeoutSecs = clientTimeout
	}

	maxRemaining := c.maxRequests - c.requestCount
	if clientMax, ok := req.KeepAliveMax(); ok && clientMax < maxRemaining {
		maxRemaining = clientMax
	}

	logger.Debug("Received %s request for %s (request #%d/%d on connection, keep-alive: %v)",
		req.Method, req.Path, c.requestCount, c.maxRequests, keepAlive)

	isHead := req.Method == http.MethodHead

	resp := handler(req)
	resp.WithKeepAlive(keepAlive, timeoutSecs, maxRemaining)

	if keepAlive && (strings.HasSuffix(req.Path, ".css") || strings.HasSuffix(req.Path, ".js")) {
		resp.WithCacheControl(cacheMaxAge)
	}

	// HEAD keeps the headers of the equivalent GET; Content-Length was
	// already derived from the real body.
	if isHead {
		resp.Body = nil
	}

	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if err := resp.WriteTo(c.conn); err != nil {
		return false, fmt.Errorf("write response to %s: %w", c.peerAddr, err)
	}

	c.stats.BytesSent += resp.Size()
	c.stats.RequestsHandled++

	requestDuration := time.Since(requestStart)
	c.stats.ActiveTime += requestDuration
	if requestDuration > c.stats.MaxRequestTime {
		c.stats.MaxRequestTime = requestDuration
	}

	return keepAlive, nil
}

// handleReadError sorts a failed read into benign close (peer went away or
// never sent another request) versus malformed input worth a 400.
func (c *Conn) handleReadError(err error) (bool, error) {
	if isBenignClose(err) {
		logger.Debug("Connection from %s closed by client or network: %v", c.peerAddr, err)
		return false, nil
	}

	logger.Error("Error parsing request from %s: %v", c.peerAddr, err)

	// The client sees a fixed phrase; the real parse error stays in the log.
	resp := http.BadRequestResponse("invalid request format").WithKeepAlive(false, 0, 0)
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if writeErr := resp.WriteTo(c.conn); writeErr != nil {
		if isPeerGone(writeErr) {
			logger.Debug("Client %s disconnected during error response write: %v", c.peerAddr, writeErr)
			return false, nil
		}
		return false, fmt.Errorf("write error response to %s: %w", c.peerAddr, writeErr)
	}

	c.stats.BytesSent += resp.Size()
	c.stats.RequestsHandled++
	return false, nil
}

// estimateRequestSize approximates the wire size of a parsed request.
// TODO: count actual bytes read instead of reconstructing an estimate.
func estimateRequestSize(req *http.Request) int {
	size := len(req.Path) + 20
	for name, value := range req.Headers {
		size += len(name) + len(value) + 2
	}
	return size + len(req.Body)
}

func (c *Conn) PeerAddr() string {
	return c.peerAddr
}

func (c *Conn) Stats() ConnStats {
	return c.stats
}

func (c *Conn) Lifetime() time.Duration {
	return time.Since(c.createdAt)
}

func (c *Conn) IdleTime() time.Duration {
	return time.Since(c.lastActive)
}

// Expired reports whether the connection has sat idle past its timeout.
func (c *Conn) Expired() bool {
	return time.Since(c.lastActive) > c.idleTimeout
}

// Reusable reports whether the ledger may park this connection: not
// expired, under its request quota, and passing the liveness probe.
func (c *Conn) Reusable() bool {
	return !c.Expired() && c.requestCount < c.maxRequests && c.healthy()
}

// healthy is a cheap liveness probe, not an exhaustive health check.
func (c *Conn) healthy() bool {
	return c.conn.RemoteAddr() != nil
}

// Close logs a summary for connections that did real work and tears down
// the socket.
func (c *Conn) Close() error {
	if c.requestCount > 1 || c.Lifetime() > closeSummaryLifetime {
		logger.Info("Closed connection from %s after %d requests over %v (active: %v, idle: %v)",
			c.peerAddr, c.requestCount, c.Lifetime(), c.stats.ActiveTime, c.IdleTime())
	}
	return c.conn.Close()
}
