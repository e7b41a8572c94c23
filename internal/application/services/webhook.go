package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/forye/checkout-gateway/internal/application"
	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/forye/checkout-gateway/internal/infrastructure/persistence/postgres"
)

// Webhook event types this gateway acts on.
const (
	EventOrderApproved   = "CHECKOUT.ORDER.APPROVED"
	EventCaptureComplete = "PAYMENT.CAPTURE.COMPLETED"
)

type WebhookService struct {
	orders   application.OrderRepository
	provider application.ProviderClient
	logger   *slog.Logger
}

func NewWebhookService(
	orders application.OrderRepository,
	provider application.ProviderClient,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		orders:   orders,
		provider: provider,
		logger:   logger,
	}
}

// Verify delegates the signature check to the provider. False means the
// caller must answer with a client error and drop the payload.
func (s *WebhookService) Verify(ctx context.Context, headers map[string]string, body []byte) bool {
	return s.provider.VerifyWebhookSignature(ctx, headers, body)
}

type webhookEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		ID string `json:"id"`
	} `json:"resource"`
}

// ProcessCallback dispatches a verified webhook event. A nil return tells the
// caller to acknowledge the delivery; any error makes the caller answer 5xx
// so the provider redelivers the event later.
func (s *WebhookService) ProcessCallback(ctx context.Context, body []byte) error {
	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return application.NewInvalidInputError(err)
	}

	switch event.EventType {
	case EventOrderApproved:
		return s.handleOrderApproved(ctx, event.Resource.ID)

	case EventCaptureComplete:
		// Already handled on the approved-event path.
		return nil

	default:
		return application.NewUnknownEventError(event.EventType)
	}
}

// handleOrderApproved captures the approved order and records the capture id.
// A failed or empty capture fails the acknowledgment on purpose: the
// provider's redelivery is the only retry path, and a redelivered event for
// an order captured in the meantime is caught by the local status check
// before a second capture attempt is made.
func (s *WebhookService) handleOrderApproved(ctx context.Context, orderToken string) error {
	if orderToken == "" {
		return application.NewInvalidInputError(fmt.Errorf("approved event carries no resource id"))
	}

	order, err := s.orders.FindByProviderToken(ctx, orderToken)
	switch {
	case err == nil:
		if order.Status == domain.StatusCaptured || order.Status == domain.StatusRefunded {
			s.logger.Info("approved event for already captured order", "order_token", orderToken)
			return nil
		}
	case errors.Is(err, postgres.ErrOrderNotFound):
		order = nil
	default:
		return application.NewInternalError(err)
	}

	captureID, err := s.provider.CaptureOrder(ctx, orderToken)
	if err != nil || captureID == "" {
		s.logger.Error("capture of approved order failed", "order_token", orderToken, "error", err)
		return application.NewCaptureFailedError(err)
	}

	s.logger.Info("order captured", "order_token", orderToken, "capture_id", captureID)

	if order == nil {
		// Funds are claimed either way; an unknown local order is logged, not
		// failed, since redelivery could never complete it.
		s.logger.Warn("captured order has no local row", "order_token", orderToken)
		return nil
	}

	if err := order.Approve(); err != nil {
		s.logger.Warn("order not in approvable state", "order_id", order.ID, "status", order.Status)
		return nil
	}
	if err := order.Capture(captureID); err != nil {
		return application.NewInvalidStateError(err)
	}
	if err := s.orders.Update(ctx, order); err != nil {
		// The capture succeeded; failing the ack here would drive the
		// provider into re-capturing a captured order.
		s.logger.Error("failed to record capture id", "order_id", order.ID, "capture_id", captureID, "error", err)
	}

	return nil
}
