package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/store"
)

// BoardRefresher is the active board cache the job re-fetches
type BoardRefresher interface {
	ActiveBoard() *domain.Board
	GetBoardDetails(ctx context.Context, boardID string) (*domain.Board, error)
}

// ResyncJob re-fetches the active board so missed broadcasts are eventually repaired
type ResyncJob struct {
	boards  BoardRefresher
	timeout time.Duration
	logger  *zap.Logger
}

// NewResyncJob creates a new ResyncJob instance
func NewResyncJob(boards BoardRefresher, timeout time.Duration, logger *zap.Logger) *ResyncJob {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ResyncJob{
		boards:  boards,
		timeout: timeout,
		logger:  logger,
	}
}

// Run executes the resync job
func (j *ResyncJob) Run() {
	board := j.boards.ActiveBoard()
	if board == nil {
		j.logger.Debug("No active board to resync")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	fresh, err := j.boards.GetBoardDetails(ctx, board.ID)
	if err != nil {
		if errors.Is(err, store.ErrFetchSuperseded) {
			j.logger.Debug("Resync superseded by a newer fetch", zap.String("board_id", board.ID))
			return
		}
		j.logger.Error("Failed to resync active board",
			zap.String("board_id", board.ID),
			zap.Error(err),
		)
		return
	}

	j.logger.Info("Resync job completed",
		zap.String("board_id", fresh.ID),
		zap.Int("columns", len(fresh.Columns)),
		zap.Int("cards", fresh.CardCount()),
		zap.Duration("duration", time.Since(start)),
	)
}

// Schedule registers the job on c. An empty spec leaves the job unscheduled.
func Schedule(c *cron.Cron, spec string, j cron.Job) (cron.EntryID, error) {
	if spec == "" {
		return 0, nil
	}
	id, err := c.AddJob(spec, j)
	if err != nil {
		return 0, fmt.Errorf("schedule job %q: %w", spec, err)
	}
	return id, nil
}
