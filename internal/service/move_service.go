package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trellone-sync/internal/client"
	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
	"trellone-sync/internal/metrics"
)

// MoveService publishes and persists reordered boards.
// Each commit replaces the active board first, then persists, then broadcasts.
// A failed request is returned as is; the local order is not rolled back.
type MoveService interface {
	MoveColumns(ctx context.Context, next *domain.Board) error
	MoveCardInSameColumn(ctx context.Context, next *domain.Board, columnID string) error
	MoveCardToDifferentColumn(ctx context.Context, next *domain.Board, cardID, prevColumnID, nextColumnID string) error
	ReorderColumn(ctx context.Context, activeColumnID, overColumnID string) (*domain.Board, error)
}

type moveServiceImpl struct {
	api         client.BoardAPI
	store       BoardStore
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewMoveService creates a new instance of MoveService
func NewMoveService(api client.BoardAPI, store BoardStore, broadcaster Broadcaster, m *metrics.Metrics, logger *zap.Logger) MoveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &moveServiceImpl{
		api:         api,
		store:       store,
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger,
	}
}

func (s *moveServiceImpl) MoveColumns(ctx context.Context, next *domain.Board) error {
	if next == nil {
		return ErrNoActiveBoard
	}
	s.store.UpdateActiveBoard(next)
	s.metrics.IncrementOptimisticUpdate("move_columns")

	order := append([]string(nil), next.ColumnOrderIDs...)
	if _, err := s.api.UpdateBoard(ctx, next.ID, dto.UpdateBoardRequest{ColumnOrderIDs: order}); err != nil {
		s.logger.Warn("Failed to persist column order", zap.String("board_id", next.ID), zap.Error(err))
		return fmt.Errorf("move columns: %w", err)
	}

	s.broadcaster.BroadcastBoard(ctx, next)
	return nil
}

func (s *moveServiceImpl) MoveCardInSameColumn(ctx context.Context, next *domain.Board, columnID string) error {
	if next == nil {
		return ErrNoActiveBoard
	}
	col, ok := next.FindColumn(columnID)
	if !ok {
		return domain.ErrColumnNotFound
	}
	order := domain.PersistableIDs(col.CardOrderIDs)

	s.store.UpdateActiveBoard(next)
	s.metrics.IncrementOptimisticUpdate("move_card")

	if _, err := s.api.UpdateColumn(ctx, columnID, dto.UpdateColumnRequest{CardOrderIDs: order}); err != nil {
		s.logger.Warn("Failed to persist card order", zap.String("column_id", columnID), zap.Error(err))
		return fmt.Errorf("move card: %w", err)
	}

	s.broadcaster.BroadcastBoard(ctx, next)
	return nil
}

func (s *moveServiceImpl) MoveCardToDifferentColumn(ctx context.Context, next *domain.Board, cardID, prevColumnID, nextColumnID string) error {
	if next == nil {
		return ErrNoActiveBoard
	}
	prev, ok := next.FindColumn(prevColumnID)
	if !ok {
		return domain.ErrColumnNotFound
	}
	dest, ok := next.FindColumn(nextColumnID)
	if !ok {
		return domain.ErrColumnNotFound
	}
	req := dto.MoveCardRequest{
		CurrentCardID:    cardID,
		PrevColumnID:     prevColumnID,
		PrevCardOrderIDs: domain.PersistableIDs(prev.CardOrderIDs),
		NextColumnID:     nextColumnID,
		NextCardOrderIDs: domain.PersistableIDs(dest.CardOrderIDs),
	}

	s.store.UpdateActiveBoard(next)
	s.metrics.IncrementOptimisticUpdate("move_card_across")

	if err := s.api.MoveCardToDifferentColumn(ctx, req); err != nil {
		s.logger.Warn("Failed to persist card move",
			zap.String("card_id", cardID),
			zap.String("prev_column_id", prevColumnID),
			zap.String("next_column_id", nextColumnID),
			zap.Error(err))
		return fmt.Errorf("move card: %w", err)
	}

	s.broadcaster.BroadcastBoard(ctx, next)
	return nil
}

// ReorderColumn moves the active column onto the position of the over column and commits it
func (s *moveServiceImpl) ReorderColumn(ctx context.Context, activeColumnID, overColumnID string) (*domain.Board, error) {
	board := s.store.ActiveBoard()
	if board == nil {
		return nil, ErrNoActiveBoard
	}
	if activeColumnID == overColumnID {
		if _, ok := board.FindColumn(activeColumnID); !ok {
			return nil, domain.ErrColumnNotFound
		}
		return board, nil
	}

	next, err := domain.MoveColumn(board, activeColumnID, overColumnID)
	if err != nil {
		return nil, err
	}
	if err := s.MoveColumns(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
