package handler

import (
	"encoding/json"
	"net/http"

	"github.com/thriveverse/backend/internal/contextkeys"
	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/pkg/logger"
)

var log = logger.NewDefault("http")

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.WithError(err).Error("failed to encode JSON response")
		}
	}
}

// Error writes an error JSON response, using AppError status codes when available.
func Error(w http.ResponseWriter, err error) {
	if appErr, ok := domain.AsAppError(err); ok {
		if appErr.Code >= http.StatusInternalServerError {
			log.WithError(err).Error("request failed")
		}
		JSON(w, appErr.Code, map[string]string{"error": appErr.Message})
		return
	}
	log.WithError(err).Error("unhandled error")
	JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// DecodeJSON decodes a JSON request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrBadRequest("invalid JSON body")
	}
	return nil
}

// UserID extracts the authenticated user's ID from the request context.
// The empty string means the auth middleware did not run.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(contextkeys.UserID).(string)
	return id
}
