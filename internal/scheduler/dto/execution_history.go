package dto

import (
	"encoding/json"
	"time"
)

// ExecutionHistoryResponse is one run of a job.
type ExecutionHistoryResponse struct {
	ID              uint            `json:"id"`
	JobID           uint            `json:"job_id"`
	ScheduleID      *uint           `json:"schedule_id,omitempty"`
	Status          string          `json:"status"`
	PayloadOverride json.RawMessage `json:"payload_override,omitempty" swaggertype:"object"`
	StartedAt       time.Time       `json:"started_at"`
	Duration        int64           `json:"duration_ms"`
	Output          json.RawMessage `json:"output,omitempty" swaggertype:"object"`
	ErrorMessage    string          `json:"error_message,omitempty"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error" example:"no data for this date"`
}
