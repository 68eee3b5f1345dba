package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/response"
	"trellone-sync/internal/store"
)

// handleServiceError maps service layer errors to HTTP responses
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	case errors.Is(err, domain.ErrNoActiveBoard):
		response.SendError(c, http.StatusConflict, response.ErrCodeConflict, "No board is open")
		return
	case errors.Is(err, domain.ErrColumnNotFound):
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Column not found")
		return
	case errors.Is(err, domain.ErrCardNotFound):
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Card not found")
		return
	case errors.Is(err, store.ErrFetchSuperseded):
		response.SendError(c, http.StatusConflict, response.ErrCodeConflict, "Board fetch superseded by a newer request")
		return
	case errors.Is(err, context.DeadlineExceeded):
		response.SendError(c, http.StatusGatewayTimeout, response.ErrCodeUnavailable, "Board API timed out")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		logger.Warn("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.String("details", appErr.Details))
		response.SendError(c, response.StatusFromCode(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	logger.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}
