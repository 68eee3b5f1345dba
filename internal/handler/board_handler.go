package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
	"trellone-sync/internal/response"
	"trellone-sync/internal/service"
)

// BoardHandler exposes the active board over the local control API
type BoardHandler struct {
	boardService  service.BoardService
	columnService service.ColumnService
	cardService   service.CardService
	moveService   service.MoveService
	logger        *zap.Logger
}

func NewBoardHandler(
	boardService service.BoardService,
	columnService service.ColumnService,
	cardService service.CardService,
	moveService service.MoveService,
	logger *zap.Logger,
) *BoardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHandler{
		boardService:  boardService,
		columnService: columnService,
		cardService:   cardService,
		moveService:   moveService,
		logger:        logger,
	}
}

// GetActiveBoard returns the board currently held by the agent.
// GET /api/board
func (h *BoardHandler) GetActiveBoard(c *gin.Context) {
	board := h.boardService.ActiveBoard()
	if board == nil {
		handleServiceError(c, h.logger, domain.ErrNoActiveBoard)
		return
	}
	response.SendSuccess(c, http.StatusOK, board)
}

// OpenBoard fetches a board and makes it the active one.
// POST /api/board/open/:boardId
func (h *BoardHandler) OpenBoard(c *gin.Context) {
	boardID := c.Param("boardId")
	if boardID == "" {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Board ID is required")
		return
	}

	board, err := h.boardService.OpenBoard(c.Request.Context(), boardID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.OpenBoardResponse{
		BoardID: board.ID,
		Columns: len(board.Columns),
		Cards:   board.CardCount(),
	})
}

// AddColumn appends a column to the active board.
// POST /api/columns
func (h *BoardHandler) AddColumn(c *gin.Context) {
	var req dto.AddColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	column, err := h.columnService.AddColumn(c.Request.Context(), req.Title)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, column)
}

// AddCard appends a card to a column of the active board.
// POST /api/columns/:columnId/cards
func (h *BoardHandler) AddCard(c *gin.Context) {
	var req dto.AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.cardService.AddCard(c.Request.Context(), c.Param("columnId"), req.Title)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, card)
}

// ReorderColumns moves one column onto the position of another.
// PUT /api/board/column-order
func (h *BoardHandler) ReorderColumns(c *gin.Context) {
	var req dto.ColumnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.moveService.ReorderColumn(c.Request.Context(), req.ActiveColumnID, req.OverColumnID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, board)
}
