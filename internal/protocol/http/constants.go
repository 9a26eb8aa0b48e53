package http

import "strings"

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH"
	MethodUnknown Method = "UNKNOWN"
)

func ParseMethod(s string) Method {
	switch strings.ToUpper(s) {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	case "PUT":
		return MethodPut
	case "DELETE":
		return MethodDelete
	case "HEAD":
		return MethodHead
	case "OPTIONS":
		return MethodOptions
	case "CONNECT":
		return MethodConnect
	case "TRACE":
		return MethodTrace
	case "PATCH":
		return MethodPatch
	default:
		return MethodUnknown
	}
}

func (m Method) String() string {
	return string(m)
}

// Version is the HTTP protocol version carried on the request line.
type Version int

const (
	Version10 Version = iota
	Version11
	VersionUnknown
)

func ParseVersion(s string) Version {
	switch s {
	case "HTTP/1.0":
		return Version10
	case "HTTP/1.1":
		return Version11
	default:
		return VersionUnknown
	}
}

func (v Version) String() string {
	switch v {
	case Version10:
		return "HTTP/1.0"
	case Version11:
		return "HTTP/1.1"
	default:
		// Responses are always written as HTTP/1.1
		return "HTTP/1.1"
	}
}

// Status is an HTTP status code with a canonical reason phrase.
type Status int

const (
	StatusOK                          Status = 200
	StatusCreated                     Status = 201
	StatusAccepted                    Status = 202
	StatusNoContent                   Status = 204
	StatusMovedPermanently            Status = 301
	StatusFound                       Status = 302
	StatusTemporaryRedirect           Status = 307
	StatusPermanentRedirect           Status = 308
	StatusBadRequest                  Status = 400
	StatusUnauthorized                Status = 401
	StatusForbidden                   Status = 403
	StatusNotFound                    Status = 404
	StatusMethodNotAllowed            Status = 405
	StatusRequestTimeout              Status = 408
	StatusContentTooLarge             Status = 413
	StatusURITooLong                  Status = 414
	StatusTooManyRequests             Status = 429
	StatusRequestHeaderFieldsTooLarge Status = 431
	StatusInternalServerError         Status = 500
	StatusNotImplemented              Status = 501
	StatusBadGateway                  Status = 502
	StatusServiceUnavailable          Status = 503
	StatusGatewayTimeout              Status = 504
)

var reasonPhrases = map[Status]string{
	StatusOK:                          "OK",
	StatusCreated:                     "Created",
	StatusAccepted:                    "Accepted",
	StatusNoContent:                   "No Content",
	StatusMovedPermanently:            "Moved Permanently",
	StatusFound:                       "Found",
	StatusTemporaryRedirect:           "Temporary Redirect",
	StatusPermanentRedirect:           "Permanent Redirect",
	StatusBadRequest:                  "Bad Request",
	StatusUnauthorized:                "Unauthorized",
	StatusForbidden:                   "Forbidden",
	StatusNotFound:                    "Not Found",
	StatusMethodNotAllowed:            "Method Not Allowed",
	StatusRequestTimeout:              "Request Timeout",
	StatusContentTooLarge:             "Content Too Large",
	StatusURITooLong:                  "URI Too Long",
	StatusTooManyRequests:             "Too Many Requests",
	StatusRequestHeaderFieldsTooLarge: "Request Header Fields Too Large",
	StatusInternalServerError:         "Internal Server Error",
	StatusNotImplemented:              "Not Implemented",
	StatusBadGateway:                  "Bad Gateway",
	StatusServiceUnavailable:          "Service Unavailable",
	StatusGatewayTimeout:              "Gateway Timeout",
}

func (s Status) Code() int {
	return int(s)
}

func (s Status) ReasonPhrase() string {
	if phrase, ok := reasonPhrases[s]; ok {
		return phrase
	}
	return "Unknown"
}
