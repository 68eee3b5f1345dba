package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trellone-sync/internal/dto"
	"trellone-sync/internal/response"
	"trellone-sync/internal/service"
)

type PreferenceHandler struct {
	preferenceService service.PreferenceService
	logger            *zap.Logger
}

func NewPreferenceHandler(preferenceService service.PreferenceService, logger *zap.Logger) *PreferenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceHandler{preferenceService: preferenceService, logger: logger}
}

// GetPreferences returns every persisted UI flag.
// GET /api/preferences
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	values, err := h.preferenceService.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, values)
}

// UpdatePreferences writes the given flags and returns the full set.
// PUT /api/preferences
func (h *PreferenceHandler) UpdatePreferences(c *gin.Context) {
	var req dto.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.preferenceService.SetAll(c.Request.Context(), req.Values); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	values, err := h.preferenceService.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, values)
}
