package utils

import (
	"encoding/json"
	"net/http"

	"flatpay-backend/internal/apperrors"
)

// JSON writes a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping application errors to their
// HTTP status.
func Error(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Don't leak internals on unexpected errors
		msg = "internal server error"
	}
	JSON(w, status, map[string]string{"error": msg})
}
