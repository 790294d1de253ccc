package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/utils"
)

// JobExecutionStrategy defines the interface for different job execution strategies.
type JobExecutionStrategy interface {
	Execute(ctx context.Context, job *entity.Job) (string, error)
	GetType() entity.JobType
}

// Index maps each strategy by the job type it handles.
func Index(strategies []JobExecutionStrategy) map[entity.JobType]JobExecutionStrategy {
	out := make(map[entity.JobType]JobExecutionStrategy, len(strategies))
	for _, s := range strategies {
		out[s.GetType()] = s
	}
	return out
}

// DateResolver turns a job payload into the report date it targets.
type DateResolver struct {
	loc *time.Location
	now func() time.Time
}

// NewDateResolver resolves empty dates to today in loc.
func NewDateResolver(loc *time.Location) *DateResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &DateResolver{loc: loc, now: time.Now}
}

// Resolve reads {"date": "YYYY-MM-DD"} from payload. A missing payload or date means today.
func (r *DateResolver) Resolve(payload []byte) (time.Time, error) {
	var p dto.ReportDatePayload
	if len(payload) > 0 && strings.TrimSpace(string(payload)) != "null" {
		if err := json.Unmarshal(payload, &p); err != nil {
			return time.Time{}, fmt.Errorf("failed to unmarshal job payload: %w", err)
		}
	}
	if p.Date == "" {
		return utils.MarketDate(r.now(), r.loc), nil
	}
	date, err := utils.ParseDate(p.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to resolve report date: %w", err)
	}
	return date, nil
}

func marshalOutput(v interface{}) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal output: %w", err)
	}
	return string(out), nil
}
