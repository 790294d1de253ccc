package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateDailyReport(ctx context.Context, date time.Time) (*dto.DailyReportResult, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DailyReportResult), args.Error(1)
}

type mockIdentifier struct {
	mock.Mock
}

func (m *mockIdentifier) IdentifyTopMovers(ctx context.Context, date time.Time) (*dto.MoversResult, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MoversResult), args.Error(1)
}

func TestDateResolver(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	r := NewDateResolver(ny)
	// 01:30 UTC on the 2nd is still the 1st in New York
	r.now = func() time.Time { return time.Date(2024, 5, 2, 1, 30, 0, 0, time.UTC) }

	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		payload string
		want    time.Time
		wantErr bool
	}{
		{name: "empty payload", payload: "", want: today},
		{name: "null payload", payload: "null", want: today},
		{name: "empty date", payload: `{"date":""}`, want: today},
		{name: "explicit date", payload: `{"date":"2024-04-15"}`, want: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{name: "bad date", payload: `{"date":"15/04/2024"}`, wantErr: true},
		{name: "bad json", payload: `{"date":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestIndex(t *testing.T) {
	log := logger.NewNop()
	dates := NewDateResolver(time.UTC)
	idx := Index([]JobExecutionStrategy{
		NewDailyReportStrategy(log, dates, &mockGenerator{}),
		NewTopMoversStrategy(log, dates, &mockIdentifier{}),
	})

	assert.Len(t, idx, 2)
	assert.Equal(t, entity.JobTypeDailyReport, idx[entity.JobTypeDailyReport].GetType())
	assert.Equal(t, entity.JobTypeTopMovers, idx[entity.JobTypeTopMovers].GetType())
}

func TestDailyReportStrategyExecute(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	gen := &mockGenerator{}
	gen.On("GenerateDailyReport", mock.Anything, date).
		Return(&dto.DailyReportResult{Date: "2024-05-01", Status: dto.ReportStatusGenerated}, nil).Once()

	s := NewDailyReportStrategy(logger.NewNop(), NewDateResolver(time.UTC), gen)
	out, err := s.Execute(context.Background(), &entity.Job{Payload: []byte(`{"date":"2024-05-01"}`)})

	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-01","status":"generated","generation_seconds":0}`, out)
	gen.AssertExpectations(t)
}

func TestTopMoversStrategyWrapsErrors(t *testing.T) {
	sentinel := errors.New("boom")
	id := &mockIdentifier{}
	id.On("IdentifyTopMovers", mock.Anything, mock.Anything).Return(nil, sentinel).Once()

	s := NewTopMoversStrategy(logger.NewNop(), NewDateResolver(time.UTC), id)
	out, err := s.Execute(context.Background(), &entity.Job{Payload: []byte(`{"date":"2024-05-01"}`)})

	assert.Empty(t, out)
	assert.ErrorIs(t, err, sentinel)
}
