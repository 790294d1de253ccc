package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/scheduler/dto"
	"golang-market-movers/internal/scheduler/repository"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobService defines the interface for managing jobs.
type JobService interface {
	CreateJob(ctx context.Context, req *dto.JobRequest) (*dto.JobResponse, error)
	GetJobByID(ctx context.Context, id uint) (*dto.JobResponse, error)
	GetAllJobs(ctx context.Context) ([]*dto.JobResponse, error)
	UpdateJob(ctx context.Context, id uint, req *dto.JobRequest) (*dto.JobResponse, error)
	DeleteJob(ctx context.Context, id uint) error
}

// NewJobService creates a new job service.
func NewJobService(jobRepo repository.JobRepository, log *logger.Logger) JobService {
	return &jobService{
		jobRepo: jobRepo,
		logger:  log,
	}
}

type jobService struct {
	jobRepo repository.JobRepository
	logger  *logger.Logger
}

// validateJobRequest checks the type, cron expressions and the payload date.
func validateJobRequest(req *dto.JobRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if !entity.JobType(req.Type).IsValid() {
		return fmt.Errorf("%w: unknown job type %q", ErrInvalidRequest, req.Type)
	}
	if req.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidRequest)
	}
	for _, sch := range req.Schedules {
		if _, err := CronParser.Parse(sch.CronExpression); err != nil {
			return fmt.Errorf("%w: cron expression %q: %v", ErrInvalidRequest, sch.CronExpression, err)
		}
	}
	if len(req.Payload) > 0 {
		var payload struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return fmt.Errorf("%w: payload must be a JSON object", ErrInvalidRequest)
		}
		if payload.Date != "" {
			if _, err := utils.ParseDate(payload.Date); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
			}
		}
	}
	return nil
}

func applyJobRequest(job *entity.Job, req *dto.JobRequest) error {
	retryPolicy, err := json.Marshal(req.RetryPolicy)
	if err != nil {
		return fmt.Errorf("failed to marshal retry policy: %w", err)
	}

	job.Name = strings.TrimSpace(req.Name)
	job.Description = req.Description
	job.Type = entity.JobType(req.Type)
	job.Payload = datatypes.JSON(req.Payload)
	job.RetryPolicy = datatypes.JSON(retryPolicy)
	job.Timeout = req.Timeout

	job.Schedules = make([]entity.TaskSchedule, 0, len(req.Schedules))
	for _, sch := range req.Schedules {
		job.Schedules = append(job.Schedules, entity.TaskSchedule{
			JobID:          job.ID,
			CronExpression: sch.CronExpression,
			IsActive:       sch.IsActive,
		})
	}
	return nil
}

func (s *jobService) CreateJob(ctx context.Context, req *dto.JobRequest) (*dto.JobResponse, error) {
	if err := validateJobRequest(req); err != nil {
		return nil, err
	}

	job := &entity.Job{}
	if err := applyJobRequest(job, req); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: job name %q already exists", ErrInvalidRequest, job.Name)
		}
		s.logger.Error("Failed to create job", logger.ErrorField(err))
		return nil, err
	}

	s.logger.Info("Job created", logger.Field("job_id", job.ID), logger.StringField("type", string(job.Type)))
	return mapToJobResponse(job), nil
}

func (s *jobService) GetJobByID(ctx context.Context, id uint) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return mapToJobResponse(job), nil
}

func (s *jobService) GetAllJobs(ctx context.Context) ([]*dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, mapToJobResponse(&jobs[i]))
	}
	return responses, nil
}

func (s *jobService) DeleteJob(ctx context.Context, id uint) error {
	if err := s.jobRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("job %d: %w", id, ErrNotFound)
		}
		s.logger.Error("Failed to delete job", logger.ErrorField(err), logger.Field("job_id", id))
		return err
	}
	s.logger.Info("Job deleted successfully", logger.Field("job_id", id))
	return nil
}

// UpdateJob replaces the job's fields and schedules.
func (s *jobService) UpdateJob(ctx context.Context, id uint, req *dto.JobRequest) (*dto.JobResponse, error) {
	if err := validateJobRequest(req); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find job for update", logger.ErrorField(err), logger.Field("job_id", id))
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}

	if err := applyJobRequest(job, req); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, job); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: job name %q already exists", ErrInvalidRequest, job.Name)
		}
		s.logger.Error("Failed to update job", logger.ErrorField(err), logger.Field("job_id", id))
		return nil, err
	}

	s.logger.Info("Job updated successfully", logger.Field("job_id", id))
	return mapToJobResponse(job), nil
}

func mapToJobResponse(job *entity.Job) *dto.JobResponse {
	var retryPolicy dto.RetryPolicyDTO
	_ = json.Unmarshal(job.RetryPolicy, &retryPolicy)

	schedules := make([]dto.ScheduleResponseDTO, 0, len(job.Schedules))
	for _, schedule := range job.Schedules {
		schedules = append(schedules, dto.ScheduleResponseDTO{
			ID:             schedule.ID,
			CronExpression: schedule.CronExpression,
			IsActive:       schedule.IsActive,
			NextExecution:  schedule.NextExecution,
			LastExecution:  schedule.LastExecution,
		})
	}

	return &dto.JobResponse{
		ID:          job.ID,
		Name:        job.Name,
		Description: job.Description,
		Type:        string(job.Type),
		Payload:     json.RawMessage(job.Payload),
		RetryPolicy: retryPolicy,
		Timeout:     job.Timeout,
		Schedules:   schedules,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}
