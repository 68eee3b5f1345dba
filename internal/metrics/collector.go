package metrics

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// BoardSizer reports the size of the active board, ok is false when no board is open
type BoardSizer interface {
	BoardSize() (columns, cards int, ok bool)
}

// DBStatter exposes connection pool stats
type DBStatter interface {
	Stats() sql.DBStats
}

// ActiveBoardCollector samples the active board and the preference store periodically
type ActiveBoardCollector struct {
	board    BoardSizer
	db       DBStatter
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
}

// NewActiveBoardCollector creates a new collector; db may be nil
func NewActiveBoardCollector(board BoardSizer, db DBStatter, metrics *Metrics, logger *zap.Logger, interval time.Duration) *ActiveBoardCollector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActiveBoardCollector{
		board:    board,
		db:       db,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *ActiveBoardCollector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		defer ticker.Stop()

		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *ActiveBoardCollector) Stop() {
	close(c.done)
}

func (c *ActiveBoardCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in active board metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	if c.board != nil {
		columns, cards, ok := c.board.BoardSize()
		if !ok {
			columns, cards = 0, 0
		}
		c.metrics.SetActiveBoardSize(columns, cards)
	}

	if c.db != nil {
		c.metrics.UpdateDBStats(c.db.Stats())
	}
}
