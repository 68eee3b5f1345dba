package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/store"
)

// MockBoardRefresher is a mock implementation of BoardRefresher
type MockBoardRefresher struct {
	mock.Mock
}

func (m *MockBoardRefresher) ActiveBoard() *domain.Board {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Board)
}

func (m *MockBoardRefresher) GetBoardDetails(ctx context.Context, boardID string) (*domain.Board, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Board), args.Error(1)
}

func TestResyncJob_Run_RefetchesActiveBoard(t *testing.T) {
	mockBoards := new(MockBoardRefresher)
	job := NewResyncJob(mockBoards, time.Second, zap.NewNop())

	board := &domain.Board{ID: "b1"}
	mockBoards.On("ActiveBoard").Return(board)
	mockBoards.On("GetBoardDetails", mock.Anything, "b1").Return(&domain.Board{ID: "b1"}, nil)

	job.Run()

	mockBoards.AssertExpectations(t)
}

func TestResyncJob_Run_NoActiveBoard(t *testing.T) {
	mockBoards := new(MockBoardRefresher)
	job := NewResyncJob(mockBoards, 0, zap.NewNop())

	mockBoards.On("ActiveBoard").Return(nil)

	job.Run()

	mockBoards.AssertExpectations(t)
	mockBoards.AssertNotCalled(t, "GetBoardDetails", mock.Anything, mock.Anything)
}

func TestResyncJob_Run_FetchErrorsAreLogged(t *testing.T) {
	for _, fetchErr := range []error{errors.New("connection refused"), store.ErrFetchSuperseded} {
		mockBoards := new(MockBoardRefresher)
		job := NewResyncJob(mockBoards, time.Second, zap.NewNop())

		mockBoards.On("ActiveBoard").Return(&domain.Board{ID: "b1"})
		mockBoards.On("GetBoardDetails", mock.Anything, "b1").Return(nil, fetchErr)

		assert.NotPanics(t, job.Run)
		mockBoards.AssertExpectations(t)
	}
}

func TestResyncJob_Run_UsesDeadline(t *testing.T) {
	mockBoards := new(MockBoardRefresher)
	job := NewResyncJob(mockBoards, 50*time.Millisecond, zap.NewNop())

	mockBoards.On("ActiveBoard").Return(&domain.Board{ID: "b1"})
	mockBoards.On("GetBoardDetails", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "b1").Return(&domain.Board{ID: "b1"}, nil)

	job.Run()

	mockBoards.AssertExpectations(t)
}

type countingJob struct{ runs int32 }

func (c *countingJob) Run() { atomic.AddInt32(&c.runs, 1) }

func TestSchedule(t *testing.T) {
	c := cron.New(cron.WithSeconds())

	id, err := Schedule(c, "", &countingJob{})
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, c.Entries())

	_, err = Schedule(c, "not a schedule", &countingJob{})
	assert.Error(t, err)

	j := &countingJob{}
	id, err = Schedule(c, "* * * * * *", j)
	require.NoError(t, err)
	assert.NotZero(t, id)

	c.Start()
	defer c.Stop()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&j.runs) > 0 }, 3*time.Second, 50*time.Millisecond)
}
