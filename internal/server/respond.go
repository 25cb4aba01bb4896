package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/motorpool/backend/internal/auth"
	"github.com/motorpool/backend/internal/service"
	"github.com/motorpool/backend/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps an error to its stable HTTP status and writes it.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor translates the domain error taxonomy into HTTP statuses:
// unauthenticated 401, forbidden 403, absent references 404, missing
// payment 402, conflicts and state violations 409, bad input 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, storage.ErrAlreadyMember),
		errors.Is(err, storage.ErrAlreadyPaid),
		errors.Is(err, storage.ErrGroupFull),
		errors.Is(err, storage.ErrInvalidState),
		errors.Is(err, storage.ErrEmailExists),
		errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON parses the request body into v. Unknown fields are ignored.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(service.ErrInvalidInput, err)
	}
	return nil
}
