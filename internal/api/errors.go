package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"booklib/internal/jsonutil"
)

var (
	// ErrUnauthorized matches a StatusError with status 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches a StatusError with status 404.
	ErrNotFound = errors.New("not found")
)

// StatusError is returned for any non-2xx response. The body is kept verbatim.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets errors.Is match the status sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Message returns the "error" or "message" field of a JSON error body,
// or the raw body (truncated) when it isn't JSON.
func (e *StatusError) Message() string {
	if len(e.Body) == 0 {
		return ""
	}
	var m map[string]any
	if err := jsonutil.Unmarshal(e.Body, &m); err == nil {
		return jsonutil.FirstString(m, "error", "message", "detail")
	}
	s := strings.TrimSpace(string(e.Body))
	if len(s) > 200 {
		s = s[:197] + "..."
	}
	return s
}

// NetworkError is returned when the request never produced a response
// (connection refused, DNS failure, timeout, cancellation).
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is returned before any request is sent when arguments are invalid.
// Fields maps the JSON field name to a human-readable problem.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
