package apihandlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"shopmate/internal/models"
)

// APIError defines standard error response
// Example: { "error": { "code": "bad_request", "message": "query is required" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, "bad_request", msg)
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, "not_found", msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", msg)
}

// respondServiceError maps service errors onto the structured error body.
func respondServiceError(c *gin.Context, handler string, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyQuery):
		BadRequest(c, err.Error())
	case errors.Is(err, models.ErrCategoryNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, models.ErrDatasetMissing), errors.Is(err, models.ErrDatasetInvalid):
		log.WithError(err).WithField("handler", handler).Error("Dataset unavailable")
		JSONError(c, http.StatusInternalServerError, "dataset_error", err.Error())
	default:
		log.WithError(err).WithField("handler", handler).Error("Request failed")
		Internal(c, handler+": "+err.Error())
	}
}
