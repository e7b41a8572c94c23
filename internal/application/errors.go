package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeProviderRejected = "PROVIDER_REJECTED"
	ErrCodeUnknownEvent     = "UNKNOWN_EVENT"
	ErrCodeCaptureFailed    = "CAPTURE_FAILED"
)

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "Invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewInvalidStateError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidState,
		Message:    "Invalid state",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

// NewProviderError covers create/refund calls the provider rejected or the
// transport dropped. The merchant caller cannot fix these; 502 keeps them
// distinct from our own 500s.
func NewProviderError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeProviderRejected,
		Message:    "Payment provider rejected the request",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewUnknownEventError makes the webhook endpoint answer 5xx so the provider
// redelivers the event later.
func NewUnknownEventError(eventType string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUnknownEvent,
		Message:    fmt.Sprintf("unrecognized webhook event type %q", eventType),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewCaptureFailedError fails the webhook acknowledgment when the capture
// triggered by an approved-order event did not produce a capture id.
func NewCaptureFailedError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeCaptureFailed,
		Message:    "capture of approved order failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
