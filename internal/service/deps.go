package service

import (
	"context"

	"trellone-sync/internal/domain"
)

// BoardStore is the active board aggregate the services patch
type BoardStore interface {
	ActiveBoard() *domain.Board
	Snapshot() *domain.Board
	UpdateActiveBoard(board *domain.Board)
	GetBoardDetails(ctx context.Context, boardID string) (*domain.Board, error)
}

// Broadcaster sends accepted local changes to peers. Implementations log and swallow send failures.
type Broadcaster interface {
	BroadcastBoard(ctx context.Context, board *domain.Board)
	BroadcastCard(ctx context.Context, card domain.Card)
	BroadcastBoardDeleted(ctx context.Context, boardID string)
	BroadcastWorkspace(ctx context.Context, workspaceID, boardID string)
	InviteToBoard(ctx context.Context, invitation domain.BoardInvitation)
	JoinWorkspace(ctx context.Context, workspaceID string)
	LeaveWorkspace(ctx context.Context, workspaceID string)
}

// BoardListCache serves cached board lists per workspace
type BoardListCache interface {
	Boards(ctx context.Context, workspaceID string) (*domain.BoardList, error)
	Invalidate(workspaceID string)
}

// patchActive clones the active board, applies fn and publishes the result.
// Nothing is published when the active board is no longer boardID or fn returns false.
func patchActive(store BoardStore, boardID string, fn func(*domain.Board) bool) (*domain.Board, bool) {
	next := store.Snapshot()
	if next == nil || next.ID != boardID {
		return nil, false
	}
	if !fn(next) {
		return nil, false
	}
	store.UpdateActiveBoard(next)
	return next, true
}

func removeString(items []string, s string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}
