package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"trellone-sync/internal/client"
	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
	"trellone-sync/internal/metrics"
	"trellone-sync/internal/response"
	"trellone-sync/internal/store"
)

// BoardService defines the board level operations of the sync client
type BoardService interface {
	OpenBoard(ctx context.Context, boardID string) (*domain.Board, error)
	ActiveBoard() *domain.Board
	UpdateBoard(ctx context.Context, req dto.UpdateBoardRequest) (*domain.Board, error)
	CloseBoard(ctx context.Context, boardID string) error
	ReopenBoard(ctx context.Context, boardID string) error
	DeleteBoard(ctx context.Context, boardID string) error
	LeaveBoard(ctx context.Context, boardID string) error
	CreateBoard(ctx context.Context, req dto.CreateBoardRequest) (*domain.Board, error)
	ListBoards(ctx context.Context, workspaceID string) (*domain.BoardList, error)
	InviteToBoard(ctx context.Context, inviteeID, inviteeEmail string) error
}

type boardServiceImpl struct {
	api         client.BoardAPI
	store       BoardStore
	broadcaster Broadcaster
	boards      BoardListCache
	userID      string
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewBoardService creates a new instance of BoardService. userID is the caller, read from the access token.
func NewBoardService(
	api client.BoardAPI,
	store BoardStore,
	broadcaster Broadcaster,
	boards BoardListCache,
	userID string,
	m *metrics.Metrics,
	logger *zap.Logger,
) BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &boardServiceImpl{
		api:         api,
		store:       store,
		broadcaster: broadcaster,
		boards:      boards,
		userID:      userID,
		metrics:     m,
		logger:      logger,
	}
}

// OpenBoard fetches the board, makes it active and joins its workspace room
func (s *boardServiceImpl) OpenBoard(ctx context.Context, boardID string) (*domain.Board, error) {
	board, err := s.store.GetBoardDetails(ctx, boardID)
	if err != nil {
		if !errors.Is(err, store.ErrFetchSuperseded) && !errors.Is(err, context.Canceled) {
			s.logger.Warn("Failed to open board", zap.String("board_id", boardID), zap.Error(err))
		}
		return nil, err
	}
	if board.WorkspaceID != "" {
		s.broadcaster.JoinWorkspace(ctx, board.WorkspaceID)
	}
	return board, nil
}

func (s *boardServiceImpl) ActiveBoard() *domain.Board {
	return s.store.ActiveBoard()
}

// UpdateBoard applies title, description, type or cover changes to the active board
func (s *boardServiceImpl) UpdateBoard(ctx context.Context, req dto.UpdateBoardRequest) (*domain.Board, error) {
	if req.Title != nil && isBlank(*req.Title) {
		return nil, ErrBlankTitle
	}
	if req.Type != nil && *req.Type != string(domain.BoardTypePublic) && *req.Type != string(domain.BoardTypePrivate) {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid board type", *req.Type)
	}
	board := s.store.ActiveBoard()
	if board == nil {
		return nil, ErrNoActiveBoard
	}

	// column order and _destroy have their own operations
	req.ColumnOrderIDs = nil
	req.Destroy = nil

	if _, err := s.api.UpdateBoard(ctx, board.ID, req); err != nil {
		s.logger.Warn("Failed to update board", zap.String("board_id", board.ID), zap.Error(err))
		return nil, fmt.Errorf("update board: %w", err)
	}

	next, ok := patchActive(s.store, board.ID, func(b *domain.Board) bool {
		if req.Title != nil {
			b.Title = *req.Title
		}
		if req.Description != nil {
			b.Description = *req.Description
		}
		if req.Type != nil {
			b.Type = domain.BoardType(*req.Type)
		}
		if req.CoverPhoto != nil {
			b.CoverPhoto = *req.CoverPhoto
		}
		return true
	})
	if !ok {
		return nil, ErrNoActiveBoard
	}

	s.metrics.IncrementOptimisticUpdate("update_board")
	s.broadcaster.BroadcastBoard(ctx, next)
	return next, nil
}

// CloseBoard marks the board closed
func (s *boardServiceImpl) CloseBoard(ctx context.Context, boardID string) error {
	return s.setDestroy(ctx, boardID, true)
}

// ReopenBoard clears the closed flag of the board
func (s *boardServiceImpl) ReopenBoard(ctx context.Context, boardID string) error {
	return s.setDestroy(ctx, boardID, false)
}

func (s *boardServiceImpl) setDestroy(ctx context.Context, boardID string, destroy bool) error {
	updated, err := s.api.UpdateBoard(ctx, boardID, dto.UpdateBoardRequest{Destroy: &destroy})
	if err != nil {
		s.logger.Warn("Failed to change board state",
			zap.String("board_id", boardID),
			zap.Bool("destroy", destroy),
			zap.Error(err))
		return fmt.Errorf("update board: %w", err)
	}

	workspaceID := ""
	if updated != nil {
		workspaceID = updated.WorkspaceID
	}
	if next, ok := patchActive(s.store, boardID, func(b *domain.Board) bool {
		b.Destroy = destroy
		return true
	}); ok {
		workspaceID = next.WorkspaceID
		s.metrics.IncrementOptimisticUpdate("set_board_destroy")
		s.broadcaster.BroadcastBoard(ctx, next)
	}

	s.boards.Invalidate(workspaceID)
	s.broadcaster.BroadcastWorkspace(ctx, workspaceID, boardID)
	return nil
}

// DeleteBoard deletes the board and clears it when it is the active one
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, boardID string) error {
	if err := s.api.DeleteBoard(ctx, boardID); err != nil {
		s.logger.Warn("Failed to delete board", zap.String("board_id", boardID), zap.Error(err))
		return fmt.Errorf("delete board: %w", err)
	}

	workspaceID := s.releaseActive(boardID)
	s.broadcaster.BroadcastBoardDeleted(ctx, boardID)
	s.boards.Invalidate(workspaceID)
	s.broadcaster.BroadcastWorkspace(ctx, workspaceID, boardID)
	return nil
}

// LeaveBoard removes the caller from the board members
func (s *boardServiceImpl) LeaveBoard(ctx context.Context, boardID string) error {
	if err := s.api.LeaveBoard(ctx, boardID); err != nil {
		s.logger.Warn("Failed to leave board", zap.String("board_id", boardID), zap.Error(err))
		return fmt.Errorf("leave board: %w", err)
	}

	if board := s.store.Snapshot(); board != nil && board.ID == boardID && s.userID != "" {
		members := board.Members[:0]
		for _, m := range board.Members {
			if m.UserID != s.userID {
				members = append(members, m)
			}
		}
		board.Members = members
		s.broadcaster.BroadcastBoard(ctx, board)
	}

	workspaceID := s.releaseActive(boardID)
	s.boards.Invalidate(workspaceID)
	return nil
}

// releaseActive clears the active board when it is boardID and returns its workspace
func (s *boardServiceImpl) releaseActive(boardID string) string {
	board := s.store.ActiveBoard()
	if board == nil || board.ID != boardID {
		return ""
	}
	s.store.UpdateActiveBoard(nil)
	return board.WorkspaceID
}

// CreateBoard creates a board and announces it to the workspace
func (s *boardServiceImpl) CreateBoard(ctx context.Context, req dto.CreateBoardRequest) (*domain.Board, error) {
	if isBlank(req.Title) {
		return nil, ErrBlankTitle
	}
	if req.Type == "" {
		req.Type = domain.BoardTypePublic
	}

	board, err := s.api.CreateBoard(ctx, req)
	if err != nil {
		s.logger.Warn("Failed to create board", zap.String("title", req.Title), zap.Error(err))
		return nil, fmt.Errorf("create board: %w", err)
	}

	s.boards.Invalidate(req.WorkspaceID)
	s.broadcaster.BroadcastWorkspace(ctx, req.WorkspaceID, board.ID)
	return board, nil
}

func (s *boardServiceImpl) ListBoards(ctx context.Context, workspaceID string) (*domain.BoardList, error) {
	list, err := s.boards.Boards(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return list, nil
}

// InviteToBoard sends a board invitation for the active board over the realtime channel
func (s *boardServiceImpl) InviteToBoard(ctx context.Context, inviteeID, inviteeEmail string) error {
	board := s.store.ActiveBoard()
	if board == nil {
		return ErrNoActiveBoard
	}
	if inviteeID == "" {
		return response.NewAppError(response.ErrCodeValidation, "Invitee is required", "")
	}
	if board.HasMember(inviteeID) {
		return response.NewAppError(response.ErrCodeAlreadyExists, "User is already a board member", inviteeID)
	}

	s.broadcaster.InviteToBoard(ctx, domain.BoardInvitation{
		BoardID:     board.ID,
		InviteeID:   inviteeID,
		InviterID:   s.userID,
		InviteeMail: inviteeEmail,
	})
	return nil
}
