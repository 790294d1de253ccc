package entity

import "time"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// NewsItem is a headline fetched for a mover. It relates to movers by
// (symbol, date) only.
type NewsItem struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Symbol         string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_news_articles_symbol_url" json:"symbol"`
	Date           time.Time  `gorm:"type:date;not null;index" json:"date"`
	Headline       string     `gorm:"type:text;not null" json:"headline"`
	Summary        string     `gorm:"type:text" json:"summary"`
	URL            string     `gorm:"column:url;type:text;not null;uniqueIndex:idx_news_articles_symbol_url" json:"url"`
	Source         string     `gorm:"type:varchar(100)" json:"source"`
	Related        string     `gorm:"type:text" json:"related"`
	PublishedAt    *time.Time `json:"published_at"`
	SentimentLabel *string    `gorm:"type:varchar(20)" json:"sentiment_label"`
	SentimentScore *float64   `json:"sentiment_score"`
	IsTopHeadline  bool       `gorm:"not null" json:"is_top_headline"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (NewsItem) TableName() string { return "news_articles" }
