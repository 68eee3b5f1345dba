package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/metrics"
)

// ErrFetchSuperseded is returned by GetBoardDetails when a newer fetch started before this one finished
var ErrFetchSuperseded = errors.New("board fetch superseded by a newer request")

// ErrEmptyBoard is returned by GetBoardDetails when the fetcher succeeds without a board
var ErrEmptyBoard = errors.New("board fetch returned no board")

// BoardFetcher loads a board aggregate from the board API
type BoardFetcher interface {
	GetBoard(ctx context.Context, boardID string) (*domain.Board, error)
}

// ActiveBoardStore holds the board currently open in the client.
// The held board is never mutated in place: writers clone, change the clone and
// hand it to UpdateActiveBoard.
type ActiveBoardStore struct {
	mu        sync.RWMutex
	board     *domain.Board
	loading   bool
	requestID string

	subMu  sync.Mutex
	subs   map[int]func(*domain.Board)
	nextID int

	fetcher BoardFetcher
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewActiveBoardStore creates an empty store
func NewActiveBoardStore(fetcher BoardFetcher, m *metrics.Metrics, logger *zap.Logger) *ActiveBoardStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ActiveBoardStore{
		subs:    make(map[int]func(*domain.Board)),
		fetcher: fetcher,
		metrics: m,
		logger:  logger,
	}
	if m != nil {
		s.Subscribe(s.recordSize)
	}
	return s
}

func (s *ActiveBoardStore) recordSize(board *domain.Board) {
	if board == nil {
		s.metrics.SetActiveBoardSize(0, 0)
		return
	}
	s.metrics.SetActiveBoardSize(len(board.Columns), board.CardCount())
}

// ActiveBoard returns the current board. The value is shared and must not be modified.
func (s *ActiveBoardStore) ActiveBoard() *domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Snapshot returns a deep copy of the current board, or nil
func (s *ActiveBoardStore) Snapshot() *domain.Board {
	return s.ActiveBoard().Clone()
}

// Loading reports whether a board fetch is in flight
func (s *ActiveBoardStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// BoardSize reports column and card counts of the active board
func (s *ActiveBoardStore) BoardSize() (int, int, bool) {
	board := s.ActiveBoard()
	if board == nil {
		return 0, 0, false
	}
	return len(board.Columns), board.CardCount(), true
}

// UpdateActiveBoard replaces the active board wholesale. nil clears it.
func (s *ActiveBoardStore) UpdateActiveBoard(board *domain.Board) {
	s.mu.Lock()
	s.board = board
	s.mu.Unlock()

	s.notify(board)
}

// GetBoardDetails fetches the board, normalises it and makes it active.
// Only the most recently started fetch may write; older ones return ErrFetchSuperseded.
// On failure the current board is kept.
func (s *ActiveBoardStore) GetBoardDetails(ctx context.Context, boardID string) (*domain.Board, error) {
	requestID := uuid.NewString()

	s.mu.Lock()
	s.loading = true
	s.requestID = requestID
	s.mu.Unlock()

	fetched, err := s.fetcher.GetBoard(ctx, boardID)

	s.mu.Lock()
	if s.requestID != requestID {
		s.mu.Unlock()
		s.metrics.IncrementStaleFetchDiscarded()
		s.logger.Debug("Discarding superseded board fetch",
			zap.String("board_id", boardID),
			zap.String("request_id", requestID),
		)
		return nil, ErrFetchSuperseded
	}
	s.loading = false
	s.requestID = ""

	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("Failed to fetch board", zap.String("board_id", boardID), zap.Error(err))
		return nil, err
	}
	if fetched == nil {
		s.mu.Unlock()
		s.logger.Warn("Board fetch returned no board", zap.String("board_id", boardID))
		return nil, ErrEmptyBoard
	}

	board := domain.NormalizeBoard(fetched)
	s.board = board
	s.mu.Unlock()

	s.notify(board)
	return board, nil
}

// Subscribe registers fn to be called after every replace. The returned func unsubscribes.
func (s *ActiveBoardStore) Subscribe(fn func(*domain.Board)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *ActiveBoardStore) notify(board *domain.Board) {
	s.subMu.Lock()
	fns := make([]func(*domain.Board), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(board)
	}
}
