// Package handlers provides the HTTP handlers of the inventory API.
package handlers

import (
	"errors"
	"net/http"

	"inventory-api/internal/middleware"
	"inventory-api/pkg/api"
	appErrors "inventory-api/pkg/errors"

	"go.uber.org/zap"
)

// handleServiceError converts service errors to appropriate HTTP responses
func (h *ItemHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := middleware.LoggerFor(r.Context(), h.logger)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}

	switch {
	case appErrors.IsValidation(err):
		log.Info("Validation error", fields...)
		api.Error(w, http.StatusUnprocessableEntity, messageOf(err))
	case appErrors.IsNotFound(err):
		log.Info("Not found", fields...)
		api.Error(w, http.StatusNotFound, messageOf(err))
	case appErrors.IsStorage(err):
		log.Error("Storage failure", fields...)
		api.Error(w, http.StatusInternalServerError, "An internal error occurred")
	default:
		log.Error("Internal error", fields...)
		api.Error(w, http.StatusInternalServerError, "An internal error occurred")
	}
}

// messageOf returns the client-facing message of an AppError.
func messageOf(err error) string {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
