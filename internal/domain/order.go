// Package domain encodes the checkout order entity and its lifecycle.
package domain

import (
	"errors"
	"slices"
	"time"
)

// OrderStatus represents the current state of a checkout order.
type OrderStatus string

const (
	StatusCreated  OrderStatus = "CREATED"
	StatusApproved OrderStatus = "APPROVED"
	StatusCaptured OrderStatus = "CAPTURED"
	StatusRefunded OrderStatus = "REFUNDED"
	StatusFailed   OrderStatus = "FAILED"
)

// Order tracks one hosted-checkout order from creation through capture and
// refund. ID is the merchant-side custom id; ProviderToken is the opaque
// provider-assigned order token used as the correlation key for capture.
type Order struct {
	ID            string
	ProviderToken string
	ApprovalURL   string
	Currency      string
	Amount        string
	Description   string
	Status        OrderStatus

	CaptureID *string

	CreatedAt  time.Time
	CapturedAt *time.Time
	RefundedAt *time.Time
}

func NewOrder(id string, amount Money, description, providerToken, approvalURL string) (*Order, error) {
	if id == "" {
		return nil, errors.New("order ID is required")
	}
	if providerToken == "" {
		return nil, errors.New("provider order token is required")
	}
	if approvalURL == "" {
		return nil, errors.New("approval URL is required")
	}

	return &Order{
		ID:            id,
		ProviderToken: providerToken,
		ApprovalURL:   approvalURL,
		Currency:      amount.Currency,
		Amount:        amount.Value(),
		Description:   description,
		Status:        StatusCreated,
		CreatedAt:     time.Now(),
	}, nil
}

// Approve records that the payer approved the order at the provider.
func (o *Order) Approve() error {
	return o.transition(StatusApproved)
}

// Capture transitions the order to captured and records the capture id
// required for any later refund.
func (o *Order) Capture(captureID string) error {
	if captureID == "" {
		return ErrMissingCaptureID
	}
	if err := o.transition(StatusCaptured); err != nil {
		return err
	}
	now := time.Now()
	o.CaptureID = &captureID
	o.CapturedAt = &now
	return nil
}

// Refund marks the captured amount as returned to the payer.
func (o *Order) Refund() error {
	if err := o.transition(StatusRefunded); err != nil {
		return err
	}
	now := time.Now()
	o.RefundedAt = &now
	return nil
}

func (o *Order) Fail() error {
	return o.transition(StatusFailed)
}

func (o *Order) transition(target OrderStatus) error {
	if err := o.canTransitionTo(target); err != nil {
		return err
	}
	o.Status = target
	return nil
}

func (o *Order) canTransitionTo(target OrderStatus) error {
	switch o.Status {
	case StatusCreated:
		return o.allow(target, StatusApproved, StatusFailed)
	case StatusApproved:
		return o.allow(target, StatusCaptured, StatusFailed)
	case StatusCaptured:
		return o.allow(target, StatusRefunded)
	}
	return ErrInvalidTransition
}

func (o *Order) allow(target OrderStatus, allowed ...OrderStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return ErrInvalidTransition
}

// IsTerminal reports whether no further transition is possible.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case StatusRefunded, StatusFailed:
		return true
	default:
		return false
	}
}

// Reconstitute - special constructor for loading from the store.
func Reconstitute(
	id, providerToken, approvalURL string,
	currency, amount, description string,
	status OrderStatus,
	captureID *string,
	createdAt time.Time,
	capturedAt, refundedAt *time.Time,
) *Order {
	return &Order{
		ID:            id,
		ProviderToken: providerToken,
		ApprovalURL:   approvalURL,
		Currency:      currency,
		Amount:        amount,
		Description:   description,
		Status:        status,
		CaptureID:     captureID,
		CreatedAt:     createdAt,
		CapturedAt:    capturedAt,
		RefundedAt:    refundedAt,
	}
}

// OrderHandle is the result of a successful order creation: the provider's
// opaque order token plus the URL the payer is redirected to for approval.
type OrderHandle struct {
	Token       string
	ApprovalURL string
}
