package entity

import (
	"time"

	"github.com/lib/pq"
)

// DailyReport summarises one pipeline run. At most one exists per date.
type DailyReport struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	ReportDate            time.Time      `gorm:"type:date;not null;uniqueIndex" json:"report_date"`
	IndexClose            float64        `json:"index_close"`
	IndexChange           float64        `json:"index_change"`
	IndexPercentChange    float64        `json:"index_percent_change"`
	ConstituentsProcessed int            `json:"constituents_processed"`
	PricesCaptured        int            `json:"prices_captured"`
	ExcludedSymbols       pq.StringArray `gorm:"type:text[]" json:"excluded_symbols"`
	MoversSelected        int            `json:"movers_selected"`
	NewsArticlesAnalyzed  int            `json:"news_articles_analyzed"`
	GenerationSeconds     float64        `json:"generation_seconds"`
	NotificationSent      bool           `gorm:"not null" json:"notification_sent"`
	NotificationSentAt    *time.Time     `json:"notification_sent_at,omitempty"`
	GeneratedAt           time.Time      `gorm:"autoCreateTime" json:"generated_at"`
}

func (DailyReport) TableName() string { return "daily_reports" }
