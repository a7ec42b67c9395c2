package supabase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when the password grant is rejected
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when a bearer token cannot be resolved
	// to an identity (invalid or expired)
	ErrInvalidToken = errors.New("invalid or expired token")
)

// APIError carries a non-2xx response from the backend. The raw body is
// preserved so the server's error text can be surfaced verbatim.
type APIError struct {
	Op         string // "upload", "insert", "select", "count"
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}
