package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trellone-sync/internal/dnd"
	"trellone-sync/internal/dto"
	"trellone-sync/internal/response"
)

// DragMachine is the drag state machine driven by the drag endpoints
type DragMachine interface {
	State() dnd.State
	Start(kind dnd.Kind, activeID string) error
	Over(overID string) error
	End(ctx context.Context, overID string) error
	Cancel() error
}

// DragHandler forwards pointer events from a UI to the drag state machine
type DragHandler struct {
	machine DragMachine
	logger  *zap.Logger
}

func NewDragHandler(machine DragMachine, logger *zap.Logger) *DragHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DragHandler{machine: machine, logger: logger}
}

// Start POST /api/drag/start
func (h *DragHandler) Start(c *gin.Context) {
	var req dto.DragStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	kind := dnd.KindCard
	if req.Kind == dnd.KindColumn.String() {
		kind = dnd.KindColumn
	}
	h.reply(c, h.machine.Start(kind, req.ActiveID))
}

// Over POST /api/drag/over
func (h *DragHandler) Over(c *gin.Context) {
	var req dto.DragTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}
	h.reply(c, h.machine.Over(req.OverID))
}

// End POST /api/drag/end
func (h *DragHandler) End(c *gin.Context) {
	var req dto.DragTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}
	h.reply(c, h.machine.End(c.Request.Context(), req.OverID))
}

// Cancel POST /api/drag/cancel
func (h *DragHandler) Cancel(c *gin.Context) {
	h.reply(c, h.machine.Cancel())
}

func (h *DragHandler) reply(c *gin.Context, err error) {
	if errors.Is(err, dnd.ErrInvalidTransition) {
		response.SendError(c, http.StatusConflict, response.ErrCodeConflict, err.Error())
		return
	}
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dto.DragStateResponse{State: h.machine.State().String()})
}
