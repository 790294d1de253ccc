package entity

import "time"

// PriceObservation is a constituent's quote for one trading date. Once stored
// it is never overwritten.
type PriceObservation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Symbol        string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_prices_symbol_date" json:"symbol"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_prices_symbol_date;index" json:"date"`
	CurrentPrice  float64   `json:"current_price"`
	Change        float64   `json:"change"`
	PercentChange *float64  `json:"percent_change"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	PreviousClose float64   `json:"previous_close"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PriceObservation) TableName() string { return "daily_prices" }

// IndexLevel is the index summary for one trading date.
type IndexLevel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	CurrentPrice  float64   `json:"current_price"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percent_change"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	PreviousClose float64   `json:"previous_close"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (IndexLevel) TableName() string { return "index_summaries" }
