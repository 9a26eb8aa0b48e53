package http

import "errors"

// ErrMalformedRequest marks parse failures, as opposed to transport errors
// surfaced by the underlying reader. Callers distinguish the two with
// errors.Is.
var ErrMalformedRequest = errors.New("malformed HTTP request")
