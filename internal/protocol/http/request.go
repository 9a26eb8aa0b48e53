package http

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Request is a single parsed HTTP request. Header names are stored as
// received; lookups go through Header() which is case-insensitive.
type Request struct {
	Method  Method
	Path    string
	Version Version
	Headers map[string]string
	Body    []byte
}

// ReadRequest parses exactly one request from the stream: request line,
// headers up to the blank line, then a Content-Length-sized body if the
// header is present. Chunked transfer encoding is not decoded.
func ReadRequest(r io.Reader) (*Request, error) {
	reader := bufio.NewReader(r)

	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, err
	}

	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid request line: %w", ErrMalformedRequest)
	}

	req := &Request{
		Method:  ParseMethod(parts[0]),
		Path:    parts[1],
		Version: ParseVersion(parts[2]),
		Headers: make(map[string]string),
	}

	for {
		headerLine, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		headerLine = strings.TrimSpace(headerLine)
		if headerLine == "" {
			break
		}

		if pos := strings.Index(headerLine, ":"); pos >= 0 {
			name := headerLine[:pos]
			value := strings.TrimSpace(headerLine[pos+1:])
			req.Headers[name] = value
		}
	}

	if lengthValue := req.Header("Content-Length"); lengthValue != "" {
		if length, err := strconv.Atoi(lengthValue); err == nil && length >= 0 {
			body := make([]byte, length)
			if _, err := io.ReadFull(reader, body); err != nil {
				return nil, fmt.Errorf("read body: %w", err)
			}
			req.Body = body
		}
	}

	return req, nil
}

// Header returns the value of the named header, matching case-insensitively.
// Returns "" when the header is absent.
func (r *Request) Header(name string) string {
	for key, value := range r.Headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// WantsKeepAlive reports whether the client asked for a persistent
// connection. HTTP/1.1 defaults to keep-alive unless Connection contains
// "close"; HTTP/1.0 defaults to close unless Connection contains
// "keep-alive"; any other version closes.
func (r *Request) WantsKeepAlive() bool {
	connection := strings.ToLower(r.Header("Connection"))

	switch r.Version {
	case Version11:
		return !strings.Contains(connection, "close")
	case Version10:
		return strings.Contains(connection, "keep-alive")
	default:
		return false
	}
}

// KeepAliveTimeout returns the timeout in seconds requested via
// "Keep-Alive: timeout=N", or (0, false) if absent or unparseable.
func (r *Request) KeepAliveTimeout() (int, bool) {
	return r.keepAliveParam("timeout=")
}

// KeepAliveMax returns the request budget requested via
// "Keep-Alive: max=M", or (0, false) if absent or unparseable.
func (r *Request) KeepAliveMax() (int, bool) {
	return r.keepAliveParam("max=")
}

func (r *Request) keepAliveParam(prefix string) (int, bool) {
	for _, part := range strings.Split(r.Header("Keep-Alive"), ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, prefix) {
			continue
		}
		if value, err := strconv.Atoi(strings.TrimPrefix(part, prefix)); err == nil && value >= 0 {
			return value, true
		}
	}
	return 0, false
}
