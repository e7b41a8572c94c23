package paypal

import (
	"errors"
	"fmt"
)

// APIError is a provider rejection: any create/capture/refund call answered
// with an unexpected HTTP status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal returned status %d: %s", e.StatusCode, e.Body)
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

var (
	// ErrTokenUnavailable means the credential exchange failed and no
	// previously cached token exists to fall back on.
	ErrTokenUnavailable = errors.New("no bearer token available")

	// ErrMalformedResponse means a 2xx response was missing an expected field.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrRefundNotCompleted means the refund was created but its status was
	// not COMPLETED; the caller must roll back any optimistic local update.
	ErrRefundNotCompleted = errors.New("refund not completed")
)
