package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"golang-market-movers/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepositoryFindByID(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&entity.Job{}, &entity.TaskSchedule{}, &entity.TaskExecutionHistory{}))
	ctx := context.Background()

	job := &entity.Job{Name: "daily-top-movers-report", Type: entity.JobTypeDailyReport, Payload: []byte(`{}`), Timeout: 1800}
	require.NoError(t, db.Create(job).Error)

	repo := NewJobRepository(db)
	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.JobTypeDailyReport, found.Type)

	missing, err := repo.FindByID(ctx, job.ID+1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTaskExecutionHistoryRepositoryComplete(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&entity.Job{}, &entity.TaskSchedule{}, &entity.TaskExecutionHistory{}))
	ctx := context.Background()

	job := &entity.Job{Name: "top-movers", Type: entity.JobTypeTopMovers, Timeout: 60}
	require.NoError(t, db.Create(job).Error)
	history := &entity.TaskExecutionHistory{JobID: job.ID, Status: entity.StatusQueued, StartedAt: time.Now().UTC()}
	require.NoError(t, db.Create(history).Error)

	history.Status = entity.StatusFailed
	history.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	history.ErrorMessage = sql.NullString{String: "missing index level", Valid: true}
	require.NoError(t, NewTaskExecutionHistoryRepository(db).Complete(ctx, history))

	var stored entity.TaskExecutionHistory
	require.NoError(t, db.First(&stored, history.ID).Error)
	assert.Equal(t, entity.StatusFailed, stored.Status)
	assert.True(t, stored.CompletedAt.Valid)
	assert.Equal(t, "missing index level", stored.ErrorMessage.String)
	assert.False(t, stored.Output.Valid)
}
