package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crucial707/ems-inventory/internal/apperrors"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// WriteServiceError maps the service error taxonomy to HTTP statuses:
// validation 400, invalid credentials 401, unauthorized 403, not found 404,
// already-exists and insufficient-quantity 409, everything else 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		JSONValidationError(w, "validation failed", map[string]string{ve.Field: ve.Reason}, http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrUnauthorized):
		JSONError(w, "unauthorized", http.StatusForbidden)
	case errors.Is(err, apperrors.ErrNotFound):
		JSONError(w, "not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrAlreadyExists):
		JSONError(w, "already exists", http.StatusConflict)
	case errors.Is(err, apperrors.ErrInsufficientQuantity):
		JSONError(w, "insufficient quantity", http.StatusConflict)
	default:
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
