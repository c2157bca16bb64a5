package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401/403 response. By the time a caller
	// sees it the gateway has already evicted the local session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable matches transport-level failures where no response
	// arrived at all.
	ErrUnavailable = errors.New("server unavailable")
)

// StatusError carries a non-2xx backend response: the HTTP status and the
// message body, surfaced verbatim to the user at the call site.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match authorization failures
// without callers inspecting status codes.
func (e *StatusError) Is(target error) bool {
	if target == ErrUnauthorized {
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}
