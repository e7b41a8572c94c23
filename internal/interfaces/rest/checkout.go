package rest

import (
	"encoding/json"
	"net/http"

	"github.com/forye/checkout-gateway/internal/application"
	"github.com/shopspring/decimal"
)

type CheckoutRequest struct {
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" validate:"required"`
}

type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	OrderToken  string `json:"order_token"`
	ApprovalURL string `json:"approval_url"`
}

// HandleCheckout creates a checkout order and returns the approval URL the
// merchant redirects the payer to.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, application.NewInvalidInputError(err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, application.NewInvalidInputError(err))
		return
	}
	if req.Price.Sign() <= 0 {
		respondWithError(w, &application.ServiceError{
			Code:       application.ErrCodeInvalidInput,
			Message:    "price must be positive",
			HTTPStatus: http.StatusBadRequest,
		})
		return
	}

	result, err := h.checkout.Create(r.Context(), req.Price, req.Description)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, CheckoutResponse{
		OrderID:     result.OrderID,
		OrderToken:  result.OrderToken,
		ApprovalURL: result.ApprovalURL,
	})
}
