package entity

import "time"

// MoverType tells gainers from losers.
type MoverType string

const (
	MoverTypeGainer MoverType = "gainer"
	MoverTypeLoser  MoverType = "loser"
)

// MoverRecord is a ranked top mover for a date. Rank is 1..N for gainers and
// -1..-N for losers. The headline fields are filled by sentiment alignment.
type MoverRecord struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	Date                    time.Time `gorm:"type:date;not null;uniqueIndex:idx_market_movers_symbol_date;index" json:"date"`
	Symbol                  string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_market_movers_symbol_date" json:"symbol"`
	CompanyName             string    `gorm:"type:varchar(255)" json:"company_name"`
	PercentChange           float64   `gorm:"not null" json:"percent_change"`
	IndexPointsContribution float64   `gorm:"not null" json:"index_points_contribution"`
	ClosePrice              float64   `json:"close_price"`
	Rank                    int       `gorm:"not null" json:"rank"`
	MoverType               MoverType `gorm:"type:varchar(10);not null" json:"mover_type"`

	PositiveHeadline      *string  `gorm:"type:text" json:"positive_headline"`
	PositiveHeadlineScore *float64 `json:"positive_headline_score"`
	PositiveHeadlineURL   *string  `gorm:"column:positive_headline_url;type:text" json:"positive_headline_url"`
	NegativeHeadline      *string  `gorm:"type:text" json:"negative_headline"`
	NegativeHeadlineScore *float64 `json:"negative_headline_score"`
	NegativeHeadlineURL   *string  `gorm:"column:negative_headline_url;type:text" json:"negative_headline_url"`

	// NewsFetchedAt is set once the news fetch for the mover stored every article.
	NewsFetchedAt *time.Time `json:"news_fetched_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MoverRecord) TableName() string { return "market_movers" }
