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

// ColumnService defines the column mutations on the active board
type ColumnService interface {
	AddColumn(ctx context.Context, title string) (*domain.Column, error)
	UpdateColumnTitle(ctx context.Context, columnID, title string) (*domain.Column, error)
	DeleteColumn(ctx context.Context, columnID string) error
}

type columnServiceImpl struct {
	api         client.BoardAPI
	store       BoardStore
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewColumnService creates a new instance of ColumnService
func NewColumnService(api client.BoardAPI, store BoardStore, broadcaster Broadcaster, m *metrics.Metrics, logger *zap.Logger) ColumnService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &columnServiceImpl{
		api:         api,
		store:       store,
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger,
	}
}

// AddColumn creates a column and appends it, with its placeholder card, to the active board
func (s *columnServiceImpl) AddColumn(ctx context.Context, title string) (*domain.Column, error) {
	if isBlank(title) {
		return nil, ErrBlankTitle
	}
	board := s.store.ActiveBoard()
	if board == nil {
		return nil, ErrNoActiveBoard
	}

	created, err := s.api.CreateColumn(ctx, dto.CreateColumnRequest{BoardID: board.ID, Title: title})
	if err != nil {
		s.logger.Warn("Failed to create column", zap.String("board_id", board.ID), zap.Error(err))
		return nil, fmt.Errorf("create column: %w", err)
	}

	column := created.Clone()
	if column.BoardID == "" {
		column.BoardID = board.ID
	}
	// a new column is always empty
	domain.InstallPlaceholder(&column)

	next, ok := patchActive(s.store, board.ID, func(b *domain.Board) bool {
		b.Columns = append(b.Columns, column.Clone())
		b.ColumnOrderIDs = append(b.ColumnOrderIDs, column.ID)
		return true
	})
	if !ok {
		s.logger.Info("Active board changed while the column was created, skipping local patch",
			zap.String("board_id", board.ID),
			zap.String("column_id", column.ID))
		return &column, nil
	}

	s.metrics.IncrementOptimisticUpdate("add_column")
	s.broadcaster.BroadcastBoard(ctx, next)
	return &column, nil
}

// UpdateColumnTitle renames a column of the active board
func (s *columnServiceImpl) UpdateColumnTitle(ctx context.Context, columnID, title string) (*domain.Column, error) {
	if isBlank(title) {
		return nil, ErrBlankTitle
	}
	board := s.store.ActiveBoard()
	if board == nil {
		return nil, ErrNoActiveBoard
	}
	if _, ok := board.FindColumn(columnID); !ok {
		return nil, domain.ErrColumnNotFound
	}

	if _, err := s.api.UpdateColumn(ctx, columnID, dto.UpdateColumnRequest{Title: &title}); err != nil {
		s.logger.Warn("Failed to update column title", zap.String("column_id", columnID), zap.Error(err))
		return nil, fmt.Errorf("update column: %w", err)
	}

	var updated domain.Column
	next, ok := patchActive(s.store, board.ID, func(b *domain.Board) bool {
		col, found := b.FindColumn(columnID)
		if !found {
			return false
		}
		col.Title = title
		updated = col.Clone()
		return true
	})
	if !ok {
		return nil, domain.ErrColumnNotFound
	}

	s.metrics.IncrementOptimisticUpdate("update_column")
	s.broadcaster.BroadcastBoard(ctx, next)
	return &updated, nil
}

// DeleteColumn deletes a column and drops it from the active board
func (s *columnServiceImpl) DeleteColumn(ctx context.Context, columnID string) error {
	board := s.store.ActiveBoard()
	if board == nil {
		return ErrNoActiveBoard
	}
	if _, ok := board.FindColumn(columnID); !ok {
		return domain.ErrColumnNotFound
	}

	if err := s.api.DeleteColumn(ctx, columnID); err != nil {
		s.logger.Warn("Failed to delete column", zap.String("column_id", columnID), zap.Error(err))
		return fmt.Errorf("delete column: %w", err)
	}

	next, ok := patchActive(s.store, board.ID, func(b *domain.Board) bool {
		i := b.ColumnIndex(columnID)
		if i < 0 {
			return false
		}
		b.Columns = append(b.Columns[:i], b.Columns[i+1:]...)
		b.ColumnOrderIDs = removeString(b.ColumnOrderIDs, columnID)
		return true
	})
	if !ok {
		return nil
	}

	s.metrics.IncrementOptimisticUpdate("delete_column")
	s.broadcaster.BroadcastBoard(ctx, next)
	return nil
}
