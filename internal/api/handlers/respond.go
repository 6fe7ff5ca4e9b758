package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/auth"
)

// maxBodyBytes caps request bodies; nothing this API accepts comes close.
const maxBodyBytes = 1 << 20

// responder carries the logger every handler uses to report failures.
type responder struct {
	logger *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, dto.Success(message, data))
}

// fail writes the error envelope for err. Unexpected errors are logged in
// full and reported to the client only as a generic message.
func (h responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}
	writeJSON(w, status, dto.Error(errorMessage(err, status), apperr.Details(err)))
}

func errorMessage(err error, status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Validation failed"
	case http.StatusUnauthorized:
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return "Invalid email or password"
		}
		return "Authentication required"
	case http.StatusForbidden:
		return "Insufficient permissions"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusConflict:
		return "Resource already exists"
	default:
		return "Internal server error"
	}
}

// decode reads a JSON body into v, answering 400 itself when it cannot.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body", nil))
		return false
	}
	return true
}

// urlID parses a chi URL parameter as a UUID.
func urlID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Invalid(name, "Invalid ID format")
	}
	return id, nil
}

// queryID parses an optional UUID query parameter.
func queryID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Invalid(name, "Invalid ID format")
	}
	return &id, nil
}
