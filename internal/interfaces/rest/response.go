package rest

import (
	"encoding/json"
	"net/http"

	"github.com/forye/checkout-gateway/internal/application"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

func respondWithError(w http.ResponseWriter, err error) {
	code := application.ErrCodeInternal
	message := err.Error()
	status := http.StatusInternalServerError

	if svcErr, ok := application.IsServiceError(err); ok {
		code = svcErr.Code
		message = svcErr.Message
		status = svcErr.HTTPStatus
	}

	respondWithJSON(w, status, &APIError{
		Code:    code,
		Message: message,
	})
}

// WriteError lets middleware emit the same error envelope as the handlers.
func WriteError(w http.ResponseWriter, err error) {
	respondWithError(w, err)
}
