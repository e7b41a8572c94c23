// Package rest exposes the gateway's merchant-facing endpoints and the
// provider webhook endpoint over plain net/http.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/forye/checkout-gateway/internal/application/services"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"
)

type CheckoutService interface {
	Create(ctx context.Context, price decimal.Decimal, description string) (*services.CheckoutResult, error)
	Refund(ctx context.Context, captureID string, price decimal.Decimal, description string) error
}

type WebhookService interface {
	Verify(ctx context.Context, headers map[string]string, body []byte) bool
	ProcessCallback(ctx context.Context, body []byte) error
}

type Handler struct {
	checkout CheckoutService
	webhooks WebhookService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(checkout CheckoutService, webhooks WebhookService, logger *slog.Logger) *Handler {
	return &Handler{
		checkout: checkout,
		webhooks: webhooks,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout", h.HandleCheckout)
	mux.HandleFunc("POST /refund", h.HandleRefund)
	mux.HandleFunc("POST /paypal/webhook", h.HandleWebhook)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
