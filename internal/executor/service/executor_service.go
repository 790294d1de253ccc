package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/internal/executor/strategy"
	"golang-market-movers/pkg/common"
	"golang-market-movers/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ExecutorService manages the execution of tasks.
type ExecutorService interface {
	ProcessTask(ctx context.Context)
}

// NewExecutorService creates a new ExecutorService.
func NewExecutorService(
	redisClient *redis.Client,
	jobRepo repository.JobRepository,
	historyRepo repository.TaskExecutionHistoryRepository,
	log *logger.Logger,
	defaultTimeout time.Duration,
	strategies []strategy.JobExecutionStrategy,
) ExecutorService {
	return &executorService{
		redisClient:    redisClient,
		jobRepo:        jobRepo,
		historyRepo:    historyRepo,
		logger:         log,
		defaultTimeout: defaultTimeout,
		strategies:     strategy.Index(strategies),
	}
}

type executorService struct {
	redisClient    *redis.Client
	jobRepo        repository.JobRepository
	historyRepo    repository.TaskExecutionHistoryRepository
	logger         *logger.Logger
	defaultTimeout time.Duration
	strategies     map[entity.JobType]strategy.JobExecutionStrategy
}

// ProcessTask dequeues and executes a single task.
func (s *executorService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamSchedulerTaskExecution, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}
	message := streams[0].Messages[0]
	defer s.ack(ctx, message.ID)

	taskData, ok := message.Values[common.RedisStreamPayloadField].(string)
	if !ok {
		s.logger.Error("Stream message has no payload", logger.Field("message_id", message.ID))
		return
	}

	var history entity.TaskExecutionHistory
	if err := json.Unmarshal([]byte(taskData), &history); err != nil {
		s.logger.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.logger.Info("Processing job", logger.Field("job_id", history.JobID), logger.Field("history_id", history.ID))
	s.Dispatch(ctx, &history)
}

// Dispatch loads the job behind history and executes it. A history whose job
// cannot be loaded is recorded as failed.
func (s *executorService) Dispatch(ctx context.Context, history *entity.TaskExecutionHistory) {
	job, err := s.jobRepo.FindByID(ctx, history.JobID)
	if err != nil {
		s.logger.Error("Failed to find job", logger.ErrorField(err), logger.Field("job_id", history.JobID))
		s.markFailed(ctx, history, fmt.Errorf("failed to load job %d: %w", history.JobID, err))
		return
	}
	if job == nil {
		s.logger.Warn("Job no longer exists", logger.Field("job_id", history.JobID))
		s.markFailed(ctx, history, fmt.Errorf("job %d no longer exists", history.JobID))
		return
	}

	s.Execute(ctx, job, history)
}

func (s *executorService) markFailed(ctx context.Context, history *entity.TaskExecutionHistory, err error) {
	history.Status = entity.StatusFailed
	history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	history.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	if err := s.historyRepo.Complete(context.WithoutCancel(ctx), history); err != nil {
		s.logger.Error("Failed to update task history", logger.ErrorField(err), logger.Field("history_id", history.ID))
	}
}

func (s *executorService) ack(ctx context.Context, id string) {
	err := s.redisClient.XAck(context.WithoutCancel(ctx), common.RedisStreamSchedulerTaskExecution, common.RedisStreamGroup, id).Err()
	if err != nil {
		s.logger.Error("Failed to acknowledge message", logger.ErrorField(err), logger.Field("message_id", id))
	}
}

// Execute runs job under its timeout and records the outcome on history.
// A non-empty payload override on the history replaces the job payload for this run only.
func (s *executorService) Execute(ctx context.Context, job *entity.Job, history *entity.TaskExecutionHistory) {
	run := *job
	if len(history.PayloadOverride) > 0 {
		run.Payload = history.PayloadOverride
	}

	timeout := time.Duration(run.Timeout) * time.Second
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}
	execCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	st, ok := s.strategies[run.Type]
	if !ok {
		err := fmt.Errorf("no executor strategy found for job type: %s", run.Type)
		s.logger.Error("Job execution failed", logger.ErrorField(err), logger.Field("job_id", run.ID))
		history.Status = entity.StatusFailed
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	} else {
		output, err := st.Execute(execCtx, &run)
		if err != nil {
			s.logger.Error("Job execution failed", logger.ErrorField(err), logger.Field("job_id", run.ID), logger.IntField("history_id", int(history.ID)))
			history.Status = entity.StatusFailed
			history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		} else {
			history.Status = entity.StatusCompleted
		}
		history.Output = sql.NullString{String: output, Valid: output != ""}
	}

	history.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}

	if err := s.historyRepo.Complete(context.WithoutCancel(ctx), history); err != nil {
		s.logger.Error("Failed to update task history", logger.ErrorField(err), logger.Field("history_id", history.ID))
	}
	s.logger.Info("Job execution completed",
		logger.Field("job_id", run.ID),
		logger.IntField("history_id", int(history.ID)),
		logger.StringField("status", string(history.Status)))
}
