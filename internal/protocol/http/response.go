package http

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// ServerName is the default Server header value.
const ServerName = "Xener/0.0.1"

// Response is an outgoing HTTP response. New responses carry Content-Type
// and Server headers; Content-Length is derived whenever a body is set.
// Header write order on the wire is unspecified.
type Response struct {
	Version Version
	Status  Status
	Headers map[string]string
	Body    []byte
}

func NewResponse() *Response {
	return &Response{
		Version: Version11,
		Status:  StatusOK,
		Headers: map[string]string{
			"Content-Type": "text/html",
			"Server":       ServerName,
		},
	}
}

func (r *Response) WithStatus(status Status) *Response {
	r.Status = status
	return r
}

func (r *Response) WithHeader(name, value string) *Response {
	r.Headers[name] = value
	return r
}

func (r *Response) WithBody(body []byte) *Response {
	r.Headers["Content-Length"] = strconv.Itoa(len(body))
	r.Body = body
	return r
}

func (r *Response) WithText(text string) *Response {
	return r.WithBody([]byte(text))
}

func (r *Response) WithContentType(contentType string) *Response {
	r.Headers["Content-Type"] = contentType
	return r
}

// WithKeepAlive annotates the response with the negotiated persistence
// decision. timeout is in seconds; max is the remaining request budget.
func (r *Response) WithKeepAlive(keepAlive bool, timeout, max int) *Response {
	if !keepAlive {
		r.Headers["Connection"] = "close"
		delete(r.Headers, "Keep-Alive")
		return r
	}

	r.Headers["Connection"] = "keep-alive"
	r.Headers["Keep-Alive"] = fmt.Sprintf("timeout=%d, max=%d", timeout, max)
	return r
}

func (r *Response) WithCacheControl(maxAgeSeconds int) *Response {
	r.Headers["Cache-Control"] = fmt.Sprintf("max-age=%d", maxAgeSeconds)
	return r
}

// WriteTo serializes the response: status line, headers in unspecified
// order, blank line, raw body. The writer is flushed before returning.
func (r *Response) WriteTo(w io.Writer) error {
	writer := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(writer, "%s %d %s\r\n", r.Version, r.Status.Code(), r.Status.ReasonPhrase()); err != nil {
		return fmt.Errorf("write status line: %w", err)
	}

	for name, value := range r.Headers {
		if _, err := fmt.Fprintf(writer, "%s: %s\r\n", name, value); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	if _, err := writer.WriteString("\r\n"); err != nil {
		return fmt.Errorf("write header terminator: %w", err)
	}

	if _, err := writer.Write(r.Body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}

	return writer.Flush()
}

// Size returns the serialized length in bytes without writing.
func (r *Response) Size() int {
	size := len(r.Version.String()) + len(strconv.Itoa(r.Status.Code())) + len(r.Status.ReasonPhrase()) + 4
	for name, value := range r.Headers {
		size += len(name) + len(value) + 4
	}
	return size + 2 + len(r.Body)
}
