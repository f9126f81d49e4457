package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playroom-api/internal/domain"
	"github.com/playroom-api/internal/transport/http/middleware"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors onto HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireSelf checks that the authenticated user, when auth is enabled,
// matches the userId path segment. Requests without claims pass through:
// that only happens when no JWT verifier is configured.
func requireSelf(w http.ResponseWriter, r *http.Request, userID string) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return true
	}
	if claims.UserID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}
