package rest

import (
	"encoding/json"
	"net/http"

	"github.com/forye/checkout-gateway/internal/application"
	"github.com/shopspring/decimal"
)

type RefundRequest struct {
	CaptureID   string          `json:"capture_id" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" validate:"required"`
}

// HandleRefund refunds a previously captured amount. The capture id, not the
// order token, identifies what is refunded.
func (h *Handler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
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

	if err := h.checkout.Refund(r.Context(), req.CaptureID, req.Price, req.Description); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"capture_id": req.CaptureID,
		"status":     "REFUNDED",
	})
}
