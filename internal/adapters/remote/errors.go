package remote

import (
	"errors"
	"fmt"
)

// Sentinel kinds for remote errors.
var (
	ErrInvalidURL  = errors.New("invalid remote url")
	ErrUnavailable = errors.New("remote service unavailable")
	ErrInvalidTask = errors.New("invalid sync task")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote %s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("remote %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}
