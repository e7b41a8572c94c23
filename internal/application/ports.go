package application

import (
	"context"

	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/shopspring/decimal"
)

// ProviderClient is the port for the external payment provider. Prices enter
// at arbitrary precision; the client owns normalization to the settlement
// currency with two truncated decimals.
type ProviderClient interface {
	CreateOrder(ctx context.Context, customID string, price decimal.Decimal, description string) (*domain.OrderHandle, error)
	CaptureOrder(ctx context.Context, orderToken string) (string, error)
	RefundOrder(ctx context.Context, captureID string, price decimal.Decimal, description string) error
	VerifyWebhookSignature(ctx context.Context, headers map[string]string, body []byte) bool
}

// OrderRepository is the port for order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByProviderToken(ctx context.Context, token string) (*domain.Order, error)
	FindByCaptureID(ctx context.Context, captureID string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
}
