package http

import "fmt"

// Canonical HTML bodies for the error classes clients actually see. Content
// providers and the server core build these instead of hand-writing markup.

const errorContentType = "text/html"

func errorPage(title, detail string) string {
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head><title>%s</title></head>\n<body>\n<h1>%s</h1>\n<p>%s</p>\n</body>\n</html>", title, title, detail)
}

func NotFoundResponse(path string) *Response {
	return NewResponse().
		WithStatus(StatusNotFound).
		WithContentType(errorContentType).
		WithText(errorPage("404 Not Found",
			fmt.Sprintf("The requested resource '%s' was not found on this server.", path)))
}

func ForbiddenResponse(reason string) *Response {
	return NewResponse().
		WithStatus(StatusForbidden).
		WithContentType(errorContentType).
		WithText(errorPage("403 Forbidden", fmt.Sprintf("Access denied: %s", reason)))
}

func BadRequestResponse(detail string) *Response {
	return NewResponse().
		WithStatus(StatusBadRequest).
		WithContentType(errorContentType).
		WithText(errorPage("400 Bad Request",
			fmt.Sprintf("The server could not understand your request: %s", detail)))
}

func TimeoutResponse(detail string) *Response {
	return NewResponse().
		WithStatus(StatusRequestTimeout).
		WithContentType(errorContentType).
		WithText(errorPage("408 Request Timeout", fmt.Sprintf("The request timed out: %s", detail)))
}

func BusyResponse() *Response {
	return NewResponse().
		WithStatus(StatusServiceUnavailable).
		WithContentType(errorContentType).
		WithHeader("Retry-After", "60").
		WithText(errorPage("503 Service Unavailable",
			"The server is currently unable to handle the request due to temporary overloading."))
}

func InternalServerErrorResponse() *Response {
	return NewResponse().
		WithStatus(StatusInternalServerError).
		WithContentType(errorContentType).
		WithText(errorPage("500 Internal Server Error",
			"The server encountered an unexpected condition that prevented it from fulfilling the request."))
}
