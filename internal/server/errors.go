package server

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// isBenignClose reports whether a read failed because the peer went away or
// never sent another request: timeouts, EOF, reset, abort. These end the
// connection without error surfacing or alarming logs.
func isBenignClose(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED)
}

// isPeerGone reports whether a write failed because the client already
// disconnected. Such failures are swallowed when writing error responses.
func isPeerGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED)
}
