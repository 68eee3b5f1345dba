package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
)

const workspacePageSize = 100

// BoardLister lists boards from the board API
type BoardLister interface {
	ListBoards(ctx context.Context, query dto.ListBoardsQuery) (*domain.BoardList, error)
}

// WorkspaceCache caches board lists per workspace until invalidated.
// The empty workspace id caches the caller's own board list.
type WorkspaceCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.BoardList
	lister  BoardLister
	logger  *zap.Logger
}

// NewWorkspaceCache creates an empty cache
func NewWorkspaceCache(lister BoardLister, logger *zap.Logger) *WorkspaceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceCache{
		entries: make(map[string]*domain.BoardList),
		lister:  lister,
		logger:  logger,
	}
}

// Boards returns the cached list for the workspace, fetching it on a miss
func (c *WorkspaceCache) Boards(ctx context.Context, workspaceID string) (*domain.BoardList, error) {
	c.mu.RLock()
	cached, ok := c.entries[workspaceID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	list, err := c.lister.ListBoards(ctx, dto.ListBoardsQuery{
		Page:        1,
		Limit:       workspacePageSize,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[workspaceID] = list
	c.mu.Unlock()
	return list, nil
}

// Invalidate drops the cached list of one workspace and the caller's own list
func (c *WorkspaceCache) Invalidate(workspaceID string) {
	c.mu.Lock()
	delete(c.entries, workspaceID)
	delete(c.entries, "")
	c.mu.Unlock()
	c.logger.Debug("Invalidated workspace board list", zap.String("workspace_id", workspaceID))
}

// InvalidateAll drops every cached list
func (c *WorkspaceCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]*domain.BoardList)
	c.mu.Unlock()
}
