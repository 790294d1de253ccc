package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// JobType names the strategy the executor runs for a job.
type JobType string

const (
	JobTypeConstituentRefresh JobType = "CONSTITUENT_REFRESH"
	JobTypePriceSnapshot      JobType = "PRICE_SNAPSHOT"
	JobTypeTopMovers          JobType = "TOP_MOVERS"
	JobTypeNewsSentiment      JobType = "NEWS_SENTIMENT"
	JobTypeDailyReport        JobType = "DAILY_REPORT"
)

// IsValid reports whether t is a known job type.
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeConstituentRefresh, JobTypePriceSnapshot, JobTypeTopMovers, JobTypeNewsSentiment, JobTypeDailyReport:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task execution.
type TaskStatus string

const (
	StatusQueued    TaskStatus = "QUEUED"
	StatusRunning   TaskStatus = "RUNNING"
	StatusCompleted TaskStatus = "COMPLETED"
	StatusFailed    TaskStatus = "FAILED"
)

// Job is a unit of pipeline work with its schedules.
type Job struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Type        JobType        `gorm:"type:varchar(50);not null" json:"type"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	RetryPolicy datatypes.JSON `gorm:"type:jsonb" json:"retry_policy"`
	Timeout     int            `gorm:"not null;default:300" json:"timeout"`
	Schedules   []TaskSchedule `gorm:"foreignKey:JobID" json:"schedules,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

// TaskSchedule is a cron expression attached to a job.
type TaskSchedule struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	JobID          uint         `gorm:"not null;index" json:"job_id"`
	CronExpression string       `gorm:"type:varchar(100);not null" json:"cron_expression"`
	IsActive       bool         `gorm:"not null" json:"is_active"`
	NextExecution  sql.NullTime `json:"next_execution"`
	LastExecution  sql.NullTime `json:"last_execution"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TaskSchedule) TableName() string { return "task_schedules" }

// TaskExecutionHistory records one run of a job. It is also the message the
// scheduler publishes to the executor stream.
type TaskExecutionHistory struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	JobID           uint           `gorm:"not null;index" json:"job_id"`
	ScheduleID      *uint          `gorm:"index" json:"schedule_id,omitempty"`
	Status          TaskStatus     `gorm:"type:varchar(20);not null" json:"status"`
	PayloadOverride datatypes.JSON `gorm:"type:jsonb" json:"payload_override,omitempty"`
	StartedAt       time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt     sql.NullTime   `json:"completed_at"`
	Output          sql.NullString `gorm:"type:text" json:"output"`
	ErrorMessage    sql.NullString `gorm:"type:text" json:"error_message"`
}

func (TaskExecutionHistory) TableName() string { return "task_execution_histories" }
