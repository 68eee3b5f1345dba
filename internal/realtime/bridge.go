package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/metrics"
	"trellone-sync/internal/store"
)

// BoardStore is the part of the active board store the bridge writes to
type BoardStore interface {
	ActiveBoard() *domain.Board
	UpdateActiveBoard(board *domain.Board)
	GetBoardDetails(ctx context.Context, boardID string) (*domain.Board, error)
}

// WorkspaceInvalidator drops cached board lists
type WorkspaceInvalidator interface {
	Invalidate(workspaceID string)
	InvalidateAll()
}

// Bridge connects the active board store to a realtime transport.
// Inbound board broadcasts replace the active board wholesale; there is no merge.
type Bridge struct {
	transport  Transport
	store      BoardStore
	workspaces WorkspaceInvalidator
	metrics    *metrics.Metrics
	logger     *zap.Logger

	mu        sync.Mutex
	workspace string
	ctx       context.Context
}

// NewBridge creates a bridge. workspaces may be nil.
func NewBridge(transport Transport, store BoardStore, workspaces WorkspaceInvalidator, m *metrics.Metrics, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		transport:  transport,
		store:      store,
		workspaces: workspaces,
		metrics:    m,
		logger:     logger,
		ctx:        context.Background(),
	}
}

// Start registers inbound handlers. ctx bounds the re-fetches triggered by reconnects.
func (b *Bridge) Start(ctx context.Context) {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	b.transport.On(EventServerUpdatedBoard, b.inbound(EventServerUpdatedBoard, b.onBoardUpdated))
	b.transport.On(EventServerUpdatedCard, b.inbound(EventServerUpdatedCard, b.onCardUpdated))
	b.transport.On(EventServerDeletedBoard, b.inbound(EventServerDeletedBoard, b.onBoardDeleted))
	b.transport.On(EventServerWorkspaceUpdated, b.inbound(EventServerWorkspaceUpdated, b.onWorkspaceChanged))
	b.transport.On(EventServerWorkspaceBoardAdded, b.inbound(EventServerWorkspaceBoardAdded, b.onWorkspaceChanged))
	b.transport.On(EventConnect, b.inbound(EventConnect, b.onConnect))
	b.transport.On(EventReconnect, b.inbound(EventReconnect, b.onReconnect))
}

func (b *Bridge) inbound(event string, fn func(json.RawMessage) error) func(json.RawMessage) {
	return func(data json.RawMessage) {
		b.metrics.RecordRealtimeEvent(metrics.DirectionInbound, event)
		if err := fn(data); err != nil {
			b.metrics.RecordRealtimeError(event, "apply_failed")
			b.logger.Warn("Failed to apply realtime event", zap.String("event", event), zap.Error(err))
		}
	}
}

// emit sends an event and swallows failures; peers catch up on their next fetch
func (b *Bridge) emit(ctx context.Context, event string, payload interface{}) {
	if err := b.transport.Emit(ctx, event, payload); err != nil {
		b.metrics.RecordRealtimeError(event, "send_failed")
		b.logger.Warn("Failed to emit realtime event", zap.String("event", event), zap.Error(err))
		return
	}
	b.metrics.RecordRealtimeEvent(metrics.DirectionOutbound, event)
}

// BroadcastBoard sends the full board aggregate to peers
func (b *Bridge) BroadcastBoard(ctx context.Context, board *domain.Board) {
	if board == nil {
		return
	}
	b.emit(ctx, EventClientUpdatedBoard, board)
}

// BroadcastCard sends a single updated card to peers
func (b *Bridge) BroadcastCard(ctx context.Context, card domain.Card) {
	b.emit(ctx, EventClientUpdatedCard, card)
}

func (b *Bridge) BroadcastBoardDeleted(ctx context.Context, boardID string) {
	b.emit(ctx, EventClientDeletedBoard, BoardDeletedPayload{BoardID: boardID})
}

func (b *Bridge) BroadcastWorkspace(ctx context.Context, workspaceID, boardID string) {
	if workspaceID == "" {
		return
	}
	b.emit(ctx, EventClientUpdatedWorkspace, WorkspacePayload{WorkspaceID: workspaceID, BoardID: boardID})
}

func (b *Bridge) InviteToBoard(ctx context.Context, invitation domain.BoardInvitation) {
	b.emit(ctx, EventClientInvitedToBoard, invitation)
}

// JoinWorkspace joins the workspace room, leaving the previous one
func (b *Bridge) JoinWorkspace(ctx context.Context, workspaceID string) {
	b.mu.Lock()
	prev := b.workspace
	b.workspace = workspaceID
	b.mu.Unlock()

	if prev != "" && prev != workspaceID {
		b.emit(ctx, EventClientLeaveWorkspace, WorkspacePayload{WorkspaceID: prev})
	}
	if workspaceID != "" {
		b.emit(ctx, EventClientJoinWorkspace, WorkspacePayload{WorkspaceID: workspaceID})
	}
}

func (b *Bridge) LeaveWorkspace(ctx context.Context, workspaceID string) {
	b.mu.Lock()
	if b.workspace == workspaceID {
		b.workspace = ""
	}
	b.mu.Unlock()

	if workspaceID != "" {
		b.emit(ctx, EventClientLeaveWorkspace, WorkspacePayload{WorkspaceID: workspaceID})
	}
}

// Workspace returns the joined workspace room
func (b *Bridge) Workspace() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.workspace
}

func (b *Bridge) onBoardUpdated(data json.RawMessage) error {
	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return err
	}

	active := b.store.ActiveBoard()
	if active == nil || active.ID != board.ID {
		return nil
	}
	b.store.UpdateActiveBoard(domain.NormalizeBoard(&board))
	return nil
}

func (b *Bridge) onCardUpdated(data json.RawMessage) error {
	var card domain.Card
	if err := json.Unmarshal(data, &card); err != nil {
		return err
	}

	active := b.store.ActiveBoard()
	if active == nil || (card.BoardID != "" && card.BoardID != active.ID) {
		return nil
	}

	next := active.Clone()
	col, ok := next.FindColumn(card.ColumnID)
	if !ok {
		return nil
	}
	i := col.CardIndex(card.ID)
	if i < 0 {
		return nil
	}
	col.Cards[i] = card
	b.store.UpdateActiveBoard(next)
	return nil
}

func (b *Bridge) onBoardDeleted(data json.RawMessage) error {
	var payload BoardDeletedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	if b.workspaces != nil {
		b.workspaces.InvalidateAll()
	}
	active := b.store.ActiveBoard()
	if active != nil && active.ID == payload.BoardID {
		b.store.UpdateActiveBoard(nil)
	}
	return nil
}

func (b *Bridge) onWorkspaceChanged(data json.RawMessage) error {
	if b.workspaces == nil {
		return nil
	}
	var payload WorkspacePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
	}
	if payload.WorkspaceID == "" {
		b.workspaces.InvalidateAll()
		return nil
	}
	b.workspaces.Invalidate(payload.WorkspaceID)
	return nil
}

// onConnect joins the workspace room chosen while the transport was down
func (b *Bridge) onConnect(json.RawMessage) error {
	b.mu.Lock()
	ctx := b.ctx
	workspace := b.workspace
	b.mu.Unlock()

	if workspace != "" {
		b.emit(ctx, EventClientJoinWorkspace, WorkspacePayload{WorkspaceID: workspace})
	}
	return nil
}

// onReconnect re-fetches the active board and drops cached board lists
func (b *Bridge) onReconnect(json.RawMessage) error {
	b.mu.Lock()
	ctx := b.ctx
	b.mu.Unlock()

	if b.workspaces != nil {
		b.workspaces.InvalidateAll()
	}

	active := b.store.ActiveBoard()
	if active == nil {
		return nil
	}
	_, err := b.store.GetBoardDetails(ctx, active.ID)
	if errors.Is(err, store.ErrFetchSuperseded) {
		return nil
	}
	return err
}
