package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

// respondError maps service errors onto HTTP responses. Anything
// unrecognised is a 500 with the caller's generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: verr.Message, Error: "validation_error"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Project not found", Error: "not_found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Project was modified by another request", Error: "conflict"})
	case errors.Is(err, services.ErrUpload):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error(), Error: "upload_failed"})
	default:
		_ = c.Error(err)
		logger.Error(fallback, "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback, Error: "internal_error"})
	}
}
