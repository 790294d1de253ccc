package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/strategy"
	"golang-market-movers/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHistoryRepo struct {
	mock.Mock
}

func (m *mockHistoryRepo) Complete(ctx context.Context, history *entity.TaskExecutionHistory) error {
	return m.Called(ctx, history).Error(0)
}

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) FindByID(ctx context.Context, id uint) (*entity.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Job), args.Error(1)
}

type stubStrategy struct {
	jobType     entity.JobType
	output      string
	err         error
	seenPayload string
	hadDeadline bool
}

func (s *stubStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	s.seenPayload = string(job.Payload)
	_, s.hadDeadline = ctx.Deadline()
	return s.output, s.err
}

func (s *stubStrategy) GetType() entity.JobType { return s.jobType }

func newTestExecutor(history *mockHistoryRepo, strategies ...strategy.JobExecutionStrategy) *executorService {
	return NewExecutorService(nil, nil, history, logger.NewNop(), time.Minute, strategies).(*executorService)
}

func TestExecuteRecordsSuccess(t *testing.T) {
	st := &stubStrategy{jobType: entity.JobTypeTopMovers, output: `{"date":"2024-05-01"}`}
	history := new(mockHistoryRepo)
	history.On("Complete", mock.Anything, mock.Anything).Return(nil).Once()

	job := &entity.Job{ID: 1, Type: entity.JobTypeTopMovers, Payload: []byte(`{"date":"2024-04-30"}`)}
	h := &entity.TaskExecutionHistory{ID: 9, JobID: 1}

	newTestExecutor(history, st).Execute(context.Background(), job, h)

	assert.Equal(t, entity.StatusCompleted, h.Status)
	assert.Equal(t, `{"date":"2024-05-01"}`, h.Output.String)
	assert.True(t, h.CompletedAt.Valid)
	assert.False(t, h.ErrorMessage.Valid)
	assert.Equal(t, `{"date":"2024-04-30"}`, st.seenPayload)
	assert.True(t, st.hadDeadline)
	history.AssertExpectations(t)
}

func TestExecuteUsesPayloadOverride(t *testing.T) {
	st := &stubStrategy{jobType: entity.JobTypeDailyReport}
	history := new(mockHistoryRepo)
	history.On("Complete", mock.Anything, mock.Anything).Return(nil).Once()

	job := &entity.Job{ID: 1, Type: entity.JobTypeDailyReport, Payload: []byte(`{}`)}
	h := &entity.TaskExecutionHistory{ID: 2, JobID: 1, PayloadOverride: []byte(`{"date":"2024-05-01"}`)}

	newTestExecutor(history, st).Execute(context.Background(), job, h)

	assert.Equal(t, `{"date":"2024-05-01"}`, st.seenPayload)
	assert.Equal(t, `{}`, string(job.Payload))
}

func TestExecuteRecordsFailures(t *testing.T) {
	t.Run("strategy error", func(t *testing.T) {
		st := &stubStrategy{jobType: entity.JobTypeTopMovers, err: errors.New("no index level")}
		history := new(mockHistoryRepo)
		history.On("Complete", mock.Anything, mock.Anything).Return(nil).Once()

		h := &entity.TaskExecutionHistory{ID: 3}
		newTestExecutor(history, st).Execute(context.Background(), &entity.Job{Type: entity.JobTypeTopMovers}, h)

		assert.Equal(t, entity.StatusFailed, h.Status)
		require.True(t, h.ErrorMessage.Valid)
		assert.Equal(t, "no index level", h.ErrorMessage.String)
	})

	t.Run("unknown type", func(t *testing.T) {
		history := new(mockHistoryRepo)
		history.On("Complete", mock.Anything, mock.Anything).Return(nil).Once()

		h := &entity.TaskExecutionHistory{ID: 4}
		newTestExecutor(history).Execute(context.Background(), &entity.Job{Type: entity.JobTypeNewsSentiment}, h)

		assert.Equal(t, entity.StatusFailed, h.Status)
		assert.Contains(t, h.ErrorMessage.String, "NEWS_SENTIMENT")
	})
}

func TestDispatchMarksHistoryFailedWhenJobLookupFails(t *testing.T) {
	jobs := new(mockJobRepo)
	jobs.On("FindByID", mock.Anything, uint(4)).Return(nil, errors.New("connection reset"))
	history := new(mockHistoryRepo)
	history.On("Complete", mock.Anything, mock.MatchedBy(func(h *entity.TaskExecutionHistory) bool {
		return h.Status == entity.StatusFailed
	})).Return(nil).Once()

	h := &entity.TaskExecutionHistory{ID: 11, JobID: 4, Status: entity.StatusQueued}
	svc := NewExecutorService(nil, jobs, history, logger.NewNop(), time.Minute, nil).(*executorService)
	svc.Dispatch(context.Background(), h)

	assert.Equal(t, entity.StatusFailed, h.Status)
	assert.Contains(t, h.ErrorMessage.String, "failed to load job 4")
	assert.Contains(t, h.ErrorMessage.String, "connection reset")
	assert.True(t, h.CompletedAt.Valid)
	history.AssertExpectations(t)
}

func TestDispatchMarksHistoryFailedWhenJobIsGone(t *testing.T) {
	jobs := new(mockJobRepo)
	jobs.On("FindByID", mock.Anything, uint(4)).Return(nil, nil)
	history := new(mockHistoryRepo)
	history.On("Complete", mock.Anything, mock.Anything).Return(nil).Once()

	h := &entity.TaskExecutionHistory{ID: 12, JobID: 4, Status: entity.StatusQueued}
	svc := NewExecutorService(nil, jobs, history, logger.NewNop(), time.Minute, nil).(*executorService)
	svc.Dispatch(context.Background(), h)

	assert.Equal(t, entity.StatusFailed, h.Status)
	assert.Contains(t, h.ErrorMessage.String, "no longer exists")
	history.AssertExpectations(t)
}

func TestDispatchExecutesLoadedJob(t *testing.T) {
	st := &stubStrategy{jobType: entity.JobTypeTopMovers, output: "ok"}
	jobs := new(mockJobRepo)
	jobs.On("FindByID", mock.Anything, uint(1)).Return(&entity.Job{ID: 1, Type: entity.JobTypeTopMovers}, nil)
	history := new(mockHistoryRepo)
	history.On("Complete", mock.Anything, mock.Anything).Return(nil).Once()

	h := &entity.TaskExecutionHistory{ID: 13, JobID: 1}
	svc := NewExecutorService(nil, jobs, history, logger.NewNop(), time.Minute, []strategy.JobExecutionStrategy{st}).(*executorService)
	svc.Dispatch(context.Background(), h)

	assert.Equal(t, entity.StatusCompleted, h.Status)
	jobs.AssertExpectations(t)
}
