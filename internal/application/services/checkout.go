// Package services composes the provider client and the order store behind
// the gateway's externally exposed operations.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/forye/checkout-gateway/internal/application"
	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/forye/checkout-gateway/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutService struct {
	orders   application.OrderRepository
	provider application.ProviderClient
	logger   *slog.Logger
}

func NewCheckoutService(
	orders application.OrderRepository,
	provider application.ProviderClient,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		provider: provider,
		logger:   logger,
	}
}

// CheckoutResult is what the merchant needs to continue the flow: the order
// row id, the provider's order token and the payer approval URL.
type CheckoutResult struct {
	OrderID     string
	OrderToken  string
	ApprovalURL string
}

// Create creates a provider order and persists a CREATED row for it.
func (s *CheckoutService) Create(ctx context.Context, price decimal.Decimal, description string) (*CheckoutResult, error) {
	customID := uuid.New().String()

	handle, err := s.provider.CreateOrder(ctx, customID, price, description)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return nil, application.NewInvalidInputError(err)
		}
		s.logger.Error("order creation failed", "custom_id", customID, "error", err)
		return nil, application.NewProviderError(err)
	}

	money, err := domain.NewMoney(price)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	order, err := domain.NewOrder(customID, money, description, handle.Token, handle.ApprovalURL)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"order_token", handle.Token,
	)

	return &CheckoutResult{
		OrderID:     order.ID,
		OrderToken:  handle.Token,
		ApprovalURL: handle.ApprovalURL,
	}, nil
}

// Refund refunds a captured amount and marks the local order refunded. The
// local row is only touched after the provider confirmed the refund, so a
// provider failure leaves no state to roll back.
func (s *CheckoutService) Refund(ctx context.Context, captureID string, price decimal.Decimal, description string) error {
	if err := s.provider.RefundOrder(ctx, captureID, price, description); err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return application.NewInvalidInputError(err)
		}
		s.logger.Error("refund failed", "capture_id", captureID, "error", err)
		return application.NewProviderError(err)
	}

	order, err := s.orders.FindByCaptureID(ctx, captureID)
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			// Refund went through remotely; a missing local row is not a
			// reason to report failure to the merchant.
			s.logger.Warn("refunded capture has no local order", "capture_id", captureID)
			return nil
		}
		return application.NewInternalError(err)
	}

	if err := order.Refund(); err != nil {
		return application.NewInvalidStateError(err)
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}

	s.logger.Info("order refunded", "order_id", order.ID, "capture_id", captureID)
	return nil
}
