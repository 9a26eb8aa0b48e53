package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/xener/xener/internal/config"
	"github.com/xener/xener/internal/logger"
)

const defaultPruneInterval = 60 * time.Second

// Ledger tracks the active connection count against the configured cap and
// parks reusable connection wrappers until they expire. One ledger is shared
// by the acceptor and the worker jobs; inject one per server instance,
// never a process-wide global.
//
// A TCP socket cannot be handed to a different remote peer, so the idle
// queue is admission/idle bookkeeping, not literal transport reuse: Wrap
// always wraps the newly accepted socket.
type Ledger struct {
	mu     sync.Mutex
	active int
	idle   *queue.Queue
	cfg    *config.ServerConfig

	pruneInterval time.Duration
}

func NewLedger(cfg *config.ServerConfig) *Ledger {
	return &Ledger{
		idle:          queue.New(),
		cfg:           cfg,
		pruneInterval: defaultPruneInterval,
	}
}

// Admit reserves one connection slot. When it returns false the caller must
// reject the socket without constructing a Conn.
func (l *Ledger) Admit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active >= l.cfg.MaxConnections {
		return false
	}
	l.active++
	return true
}

// Wrap builds the state machine for a newly accepted socket.
func (l *Ledger) Wrap(tcpConn net.Conn) *Conn {
	return newConn(tcpConn, l.cfg)
}

// Release returns an admitted connection, exactly once per Admit. Reusable
// wrappers are parked up to the connection cap; everything else is closed.
func (l *Ledger) Release(c *Conn) {
	l.mu.Lock()
	l.active--
	parked := c.Reusable() && l.idle.Length() < l.cfg.MaxConnections
	if parked {
		l.idle.Add(c)
	}
	l.mu.Unlock()

	if !parked {
		logger.Debug("Connection from %s not reusable, discarding", c.PeerAddr())
		_ = c.Close()
	}
}

// Discard returns an admitted slot and tears the wrapper down without
// parking, for connections whose job never ran.
func (l *Ledger) Discard(c *Conn) {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	_ = c.Close()
}

func (l *Ledger) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

func (l *Ledger) IdleCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idle.Length()
}

// PrunePeriodically sweeps expired idle entries until the context ends,
// then drains whatever is left.
func (l *Ledger) PrunePeriodically(ctx context.Context) {
	ticker := time.NewTicker(l.pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.drain()
			return
		case <-ticker.C:
			l.prune()
		}
	}
}

// prune rotates the idle queue once, keeping entries that are still fresh.
func (l *Ledger) prune() {
	var expired []*Conn

	l.mu.Lock()
	for i := l.idle.Length(); i > 0; i-- {
		c := l.idle.Remove().(*Conn)
		if c.Expired() {
			expired = append(expired, c)
		} else {
			l.idle.Add(c)
		}
	}
	remaining := l.idle.Length()
	l.mu.Unlock()

	if len(expired) > 0 {
		logger.Debug("Removed %d expired connections from pool, %d remaining",
			len(expired), remaining)
	}
	for _, c := range expired {
		_ = c.Close()
	}
}

func (l *Ledger) drain() {
	var parked []*Conn

	l.mu.Lock()
	for l.idle.Length() > 0 {
		parked = append(parked, l.idle.Remove().(*Conn))
	}
	l.mu.Unlock()

	for _, c := range parked {
		_ = c.Close()
	}
}
