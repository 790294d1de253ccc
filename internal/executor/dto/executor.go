package dto

import (
	"time"

	"golang-market-movers/internal/entity"
)

// ReportDatePayload is the job payload shared by every pipeline strategy.
// An empty date means today in the market timezone.
type ReportDatePayload struct {
	Date string `json:"date"`
}

// ConstituentRefreshResult is the outcome of a registry refresh.
type ConstituentRefreshResult struct {
	Date        string   `json:"date"`
	Active      int      `json:"active"`
	Deactivated []string `json:"deactivated,omitempty"`
}

// PriceFetchResult is the outcome of a price snapshot run.
type PriceFetchResult struct {
	Date          string   `json:"date"`
	Requested     int      `json:"requested"`
	AlreadyStored int      `json:"already_stored"`
	Captured      int      `json:"captured"`
	Unavailable   []string `json:"unavailable,omitempty"`
	Failed        []string `json:"failed,omitempty"`
}

// MoversResult is the outcome of a ranking run.
type MoversResult struct {
	Date     string               `json:"date"`
	Skipped  bool                 `json:"skipped"`
	Excluded []string             `json:"excluded,omitempty"`
	Gainers  []entity.MoverRecord `json:"gainers"`
	Losers   []entity.MoverRecord `json:"losers"`
}

// Count returns the number of movers.
func (r *MoversResult) Count() int {
	return len(r.Gainers) + len(r.Losers)
}

// NewsFetchResult is the outcome of a headline fetch.
type NewsFetchResult struct {
	Date     string   `json:"date"`
	Fetched  int      `json:"fetched"`
	Inserted int      `json:"inserted"`
	Failed   []string `json:"failed,omitempty"`
}

// SentimentRunResult is the outcome of an alignment run.
type SentimentRunResult struct {
	Date          string `json:"date"`
	Scored        int    `json:"scored"`
	Failed        int    `json:"failed"`
	Reflagged     int    `json:"reflagged"`
	MoversUpdated int    `json:"movers_updated"`
}

// Report outcome statuses.
const (
	ReportStatusGenerated = "generated"
	ReportStatusExists    = "exists"
	ReportStatusNoData    = "no_data"
)

// DailyReportResult is the outcome of a full pipeline run.
type DailyReportResult struct {
	Date              string              `json:"date"`
	Status            string              `json:"status"`
	Reason            string              `json:"reason,omitempty"`
	Report            *entity.DailyReport `json:"report,omitempty"`
	GenerationSeconds float64             `json:"generation_seconds"`
}

// MoversReport is the day's index summary with its movers, as delivered to readers.
type MoversReport struct {
	Date         time.Time            `json:"date"`
	IndexName    string               `json:"index_name"`
	IndexSummary entity.IndexLevel    `json:"index_summary"`
	Gainers      []entity.MoverRecord `json:"gainers"`
	Losers       []entity.MoverRecord `json:"losers"`
}
