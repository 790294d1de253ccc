package dto

import "time"

// ReportResponse is a daily report record.
type ReportResponse struct {
	ReportDate            string     `json:"report_date" example:"2024-05-01"`
	IndexClose            float64    `json:"index_close"`
	IndexChange           float64    `json:"index_change"`
	IndexPercentChange    float64    `json:"index_percent_change"`
	ConstituentsProcessed int        `json:"constituents_processed"`
	PricesCaptured        int        `json:"prices_captured"`
	ExcludedSymbols       []string   `json:"excluded_symbols"`
	MoversSelected        int        `json:"movers_selected"`
	NewsArticlesAnalyzed  int        `json:"news_articles_analyzed"`
	GenerationSeconds     float64    `json:"generation_seconds"`
	NotificationSent      bool       `json:"notification_sent"`
	NotificationSentAt    *time.Time `json:"notification_sent_at,omitempty"`
	GeneratedAt           time.Time  `json:"generated_at"`
}

// MoverResponse is one ranked mover with its representative headline.
type MoverResponse struct {
	Symbol                  string   `json:"symbol"`
	CompanyName             string   `json:"company_name"`
	Rank                    int      `json:"rank"`
	MoverType               string   `json:"mover_type"`
	PercentChange           float64  `json:"percent_change"`
	IndexPointsContribution float64  `json:"index_points_contribution"`
	ClosePrice              float64  `json:"close_price"`
	Headline                *string  `json:"headline,omitempty"`
	HeadlineScore           *float64 `json:"headline_score,omitempty"`
	HeadlineURL             *string  `json:"headline_url,omitempty"`
}

// MoversResponse lists a date's movers.
type MoversResponse struct {
	Date    string          `json:"date"`
	Gainers []MoverResponse `json:"gainers"`
	Losers  []MoverResponse `json:"losers"`
}

// ConstituentResponse is a registry entry.
type ConstituentResponse struct {
	Symbol      string     `json:"symbol"`
	CompanyName string     `json:"company_name"`
	Sector      string     `json:"sector"`
	Weight      float64    `json:"weight"`
	IsActive    bool       `json:"is_active"`
	AddedDate   *time.Time `json:"added_date,omitempty"`
	RemovedDate *time.Time `json:"removed_date,omitempty"`
}

// IndexSummaryResponse is the index level of a date.
type IndexSummaryResponse struct {
	IndexName     string  `json:"index_name"`
	Date          string  `json:"date"`
	Level         float64 `json:"level"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
}

// GenerateReportRequest asks for a report run. An empty date means today in the market timezone.
type GenerateReportRequest struct {
	Date string `json:"date" example:"2024-05-01"`
}

// GenerateReportResponse acknowledges a queued run.
type GenerateReportResponse struct {
	Date        string `json:"date"`
	JobID       uint   `json:"job_id"`
	ExecutionID uint   `json:"execution_id"`
	Status      string `json:"status"`
}
