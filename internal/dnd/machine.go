package dnd

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"trellone-sync/internal/domain"
)

// ErrInvalidTransition is returned when an event does not apply to the current state
var ErrInvalidTransition = errors.New("invalid drag transition")

// Kind is the type of the dragged entity
type Kind int

const (
	KindColumn Kind = iota + 1
	KindCard
)

func (k Kind) String() string {
	switch k {
	case KindColumn:
		return "column"
	case KindCard:
		return "card"
	default:
		return "unknown"
	}
}

// State is the drag state
type State int

const (
	StateIdle State = iota
	StateDragging
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Store is the active board the machine reorders
type Store interface {
	ActiveBoard() *domain.Board
	UpdateActiveBoard(board *domain.Board)
}

// Mover persists and broadcasts a finished move
type Mover interface {
	MoveColumns(ctx context.Context, next *domain.Board) error
	MoveCardInSameColumn(ctx context.Context, next *domain.Board, columnID string) error
	MoveCardToDifferentColumn(ctx context.Context, next *domain.Board, cardID, prevColumnID, nextColumnID string) error
}

// Machine drives one drag at a time over the active board.
// Start captures a snapshot, Over moves cards across columns live, End commits and Cancel restores.
type Machine struct {
	mu             sync.Mutex
	state          State
	kind           Kind
	activeID       string
	originColumnID string
	snapshot       *domain.Board

	store  Store
	mover  Mover
	logger *zap.Logger
}

// NewMachine creates an idle Machine
func NewMachine(store Store, mover Mover, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{store: store, mover: mover, logger: logger}
}

// State returns the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start begins dragging the column or card activeID
func (m *Machine) Start(kind Kind, activeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return ErrInvalidTransition
	}
	board := m.store.ActiveBoard()
	if board == nil {
		return domain.ErrNoActiveBoard
	}

	originColumnID := ""
	switch kind {
	case KindColumn:
		if _, ok := board.FindColumn(activeID); !ok {
			return domain.ErrColumnNotFound
		}
	case KindCard:
		if domain.IsPlaceholderID(activeID) {
			return domain.ErrCardNotFound
		}
		col, ok := board.FindColumnByCardID(activeID)
		if !ok {
			return domain.ErrCardNotFound
		}
		originColumnID = col.ID
	default:
		return ErrInvalidTransition
	}

	m.state = StateDragging
	m.kind = kind
	m.activeID = activeID
	m.originColumnID = originColumnID
	m.snapshot = board.Clone()

	m.logger.Debug("Drag started",
		zap.Stringer("kind", kind),
		zap.String("active_id", activeID),
		zap.String("origin_column_id", originColumnID))
	return nil
}

// Over reports the entity under the dragged card. overID is a card id (placeholders included) or a column id.
// When it lies in another column the card moves there on the active board right away.
// Column drags ignore Over.
func (m *Machine) Over(overID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateDragging {
		return ErrInvalidTransition
	}
	if m.kind != KindCard || overID == "" || overID == m.activeID {
		return nil
	}

	board := m.store.ActiveBoard()
	if board == nil {
		return domain.ErrNoActiveBoard
	}
	current, ok := board.FindColumnByCardID(m.activeID)
	if !ok {
		return domain.ErrCardNotFound
	}
	target, ok := resolveColumn(board, overID)
	if !ok || target.ID == current.ID {
		return nil
	}

	next, err := domain.MoveCardAcrossColumns(board, m.activeID, target.ID, overID)
	if err != nil {
		return err
	}
	m.store.UpdateActiveBoard(next)
	return nil
}

// End drops the dragged entity on overID and commits the result.
// An empty overID means the drop had no valid target and behaves like Cancel.
func (m *Machine) End(ctx context.Context, overID string) error {
	m.mu.Lock()
	if m.state != StateDragging {
		m.mu.Unlock()
		return ErrInvalidTransition
	}
	if overID == "" {
		m.restoreLocked()
		m.mu.Unlock()
		return nil
	}

	kind, activeID, originColumnID := m.kind, m.activeID, m.originColumnID
	commit, err := m.planLocked(overID)
	if err != nil || commit == nil {
		if err != nil {
			m.restoreLocked()
		} else {
			m.resetLocked()
		}
		m.mu.Unlock()
		return err
	}
	m.state = StateCommitting
	m.mu.Unlock()

	err = commit(ctx)
	if err != nil {
		m.logger.Warn("Failed to commit drag",
			zap.Stringer("kind", kind),
			zap.String("active_id", activeID),
			zap.String("origin_column_id", originColumnID),
			zap.Error(err))
	}

	m.mu.Lock()
	m.resetLocked()
	m.mu.Unlock()
	return err
}

// Cancel aborts the drag and restores the board captured at Start
func (m *Machine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateDragging {
		return ErrInvalidTransition
	}
	m.restoreLocked()
	return nil
}

// planLocked computes the final board and returns the commit to run, or nil when nothing moved
func (m *Machine) planLocked(overID string) (func(context.Context) error, error) {
	board := m.store.ActiveBoard()
	if board == nil {
		return nil, domain.ErrNoActiveBoard
	}

	if m.kind == KindColumn {
		if overID == m.activeID {
			return nil, nil
		}
		next, err := domain.MoveColumn(board, m.activeID, overID)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error {
			return m.mover.MoveColumns(ctx, next)
		}, nil
	}

	current, ok := board.FindColumnByCardID(m.activeID)
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	target, ok := resolveColumn(board, overID)
	if !ok {
		return nil, domain.ErrColumnNotFound
	}

	next := board
	var err error
	switch {
	case target.ID != current.ID:
		next, err = domain.MoveCardAcrossColumns(board, m.activeID, target.ID, overID)
	case overID != m.activeID && target.CardIndex(overID) >= 0 && !domain.IsPlaceholderID(overID):
		next, err = domain.MoveCardWithinColumn(board, target.ID, m.activeID, overID)
	}
	if err != nil {
		return nil, err
	}

	cardID, origin, dest := m.activeID, m.originColumnID, target.ID
	if origin != dest {
		return func(ctx context.Context) error {
			return m.mover.MoveCardToDifferentColumn(ctx, next, cardID, origin, dest)
		}, nil
	}
	if !m.orderChanged(next, dest) {
		return nil, nil
	}
	return func(ctx context.Context) error {
		return m.mover.MoveCardInSameColumn(ctx, next, dest)
	}, nil
}

// orderChanged reports whether the card order of columnID differs from the drag-start snapshot
func (m *Machine) orderChanged(board *domain.Board, columnID string) bool {
	col, ok := board.FindColumn(columnID)
	if !ok || m.snapshot == nil {
		return true
	}
	before, ok := m.snapshot.FindColumn(columnID)
	if !ok || len(before.CardOrderIDs) != len(col.CardOrderIDs) {
		return true
	}
	for i := range col.CardOrderIDs {
		if col.CardOrderIDs[i] != before.CardOrderIDs[i] {
			return true
		}
	}
	return false
}

func (m *Machine) restoreLocked() {
	if m.snapshot != nil {
		m.store.UpdateActiveBoard(m.snapshot)
	}
	m.logger.Debug("Drag cancelled", zap.String("active_id", m.activeID))
	m.resetLocked()
}

func (m *Machine) resetLocked() {
	m.state = StateIdle
	m.kind = 0
	m.activeID = ""
	m.originColumnID = ""
	m.snapshot = nil
}

// resolveColumn finds the column holding the card overID, or the column overID itself.
// A placeholder id resolves to its column even after Over has removed the placeholder.
func resolveColumn(board *domain.Board, overID string) (*domain.Column, bool) {
	if col, ok := board.FindColumnByCardID(overID); ok {
		return col, true
	}
	if domain.IsPlaceholderID(overID) {
		return board.FindColumn(domain.PlaceholderColumnID(overID))
	}
	return board.FindColumn(overID)
}
