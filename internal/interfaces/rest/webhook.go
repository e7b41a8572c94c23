package rest

import (
	"io"
	"net/http"

	"github.com/forye/checkout-gateway/internal/application"
)

// HandleWebhook receives provider payment-status callbacks. An unverifiable
// signature gets a client error and is never processed; a verified but
// unprocessable event gets a server error so the provider redelivers it.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, application.NewInvalidInputError(err))
		return
	}

	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	if !h.webhooks.Verify(r.Context(), headers, body) {
		h.logger.Warn("webhook signature verification failed",
			"remote_addr", r.RemoteAddr,
		)
		respondWithError(w, &application.ServiceError{
			Code:       "SIGNATURE_INVALID",
			Message:    "webhook signature could not be verified",
			HTTPStatus: http.StatusBadRequest,
		})
		return
	}

	if err := h.webhooks.ProcessCallback(r.Context(), body); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"received": true})
}
