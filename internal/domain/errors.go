package domain

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid order state transition")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrMissingCaptureID  = errors.New("capture id is required")
)
