package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/pcbuilderguide/pcbg/internal/apperr"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// JSONError sends a JSON error response with a single "message" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	JSON(w, status, map[string]string{"message": message})
}

// JSONValidationError sends "message" plus a "fields" map with per-field details.
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]interface{}{"message": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	JSON(w, status, out)
}

// decodeJSON reads the request body into dst and answers 400/413 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors to responses. Unknown errors are logged and
// answered with fallback (ErrMessageInternal when empty), never with the error text.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if fallback == "" {
		fallback = ErrMessageInternal
	}
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		JSONValidationError(w, verr.Error(), verr.Fields, http.StatusBadRequest)
	case errors.Is(err, apperr.ErrUsernameTaken):
		JSONValidationError(w, apperr.ErrUsernameTaken.Error(), map[string]string{"username": "already taken"}, http.StatusBadRequest)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		JSONError(w, apperr.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrUnauthenticated):
		JSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrInvalidToken):
		JSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, apperr.ErrForbidden):
		JSONError(w, "access denied. admin privileges required", http.StatusForbidden)
	case errors.Is(err, apperr.ErrNotFound):
		JSONError(w, "not found", http.StatusNotFound)
	default:
		slog.ErrorContext(r.Context(), fallback,
			"request_id", chimw.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err)
		JSONError(w, fallback, http.StatusInternalServerError)
	}
}
