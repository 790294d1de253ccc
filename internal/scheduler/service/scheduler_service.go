package service

import (
	"context"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/scheduler/repository"
	"golang-market-movers/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService defines the interface for the job scheduling service.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessJobs(ctx context.Context)
}

// CronParser accepts standard five-field expressions and descriptors such as @daily.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// NewSchedulerService creates a new scheduler service. Cron expressions are
// evaluated in loc, the market timezone.
func NewSchedulerService(
	scheduleRepo repository.TaskScheduleRepository,
	publisher TaskPublisher,
	log *logger.Logger,
	pollingInterval time.Duration,
	loc *time.Location,
) SchedulerService {
	if loc == nil {
		loc = time.UTC
	}
	return &schedulerService{
		scheduleRepo:    scheduleRepo,
		publisher:       publisher,
		logger:          log,
		pollingInterval: pollingInterval,
		loc:             loc,
		now:             time.Now,
	}
}

type schedulerService struct {
	scheduleRepo    repository.TaskScheduleRepository
	publisher       TaskPublisher
	logger          *logger.Logger
	pollingInterval time.Duration
	loc             *time.Location
	now             func() time.Time
}

// Start begins the periodic job processing loop.
func (s *schedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessJobs(ctx)
		}
	}
}

// ProcessJobs finds and enqueues jobs that are due.
func (s *schedulerService) ProcessJobs(ctx context.Context) {
	now := s.now().In(s.loc)
	schedules, err := s.scheduleRepo.FindDue(ctx, now)
	if err != nil {
		s.logger.Error("Failed to find jobs to schedule", logger.ErrorField(err))
		return
	}

	for _, schedule := range schedules {
		s.dispatch(ctx, schedule, now)
	}
}

// dispatch publishes a due schedule. A schedule seen for the first time
// (no next execution yet) is only armed, so a new job does not fire on creation.
func (s *schedulerService) dispatch(ctx context.Context, schedule entity.TaskSchedule, now time.Time) {
	cronSchedule, err := CronParser.Parse(schedule.CronExpression)
	if err != nil {
		s.logger.Error("Failed to parse cron expression", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
		return
	}
	next := cronSchedule.Next(now)

	if !schedule.NextExecution.Valid {
		if err := s.scheduleRepo.SetNextExecution(ctx, schedule.ID, next); err != nil {
			s.logger.Error("Failed to arm schedule", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
		}
		return
	}

	scheduleID := schedule.ID
	if _, err := s.publisher.Publish(ctx, schedule.JobID, &scheduleID, nil); err != nil {
		s.logger.Error("Failed to publish task", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
	}

	// the schedule advances even when publishing failed
	if err := s.scheduleRepo.MarkExecuted(ctx, schedule.ID, now, next); err != nil {
		s.logger.Error("Failed to update next execution time", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
	}
}
