package dto

import "time"

// Quote is a provider-neutral price snapshot.
type Quote struct {
	Symbol        string
	CurrentPrice  float64
	Change        float64
	PercentChange *float64
	High          float64
	Low           float64
	Open          float64
	PreviousClose float64
}

// NewsArticle is a provider-neutral headline.
type NewsArticle struct {
	Headline    string
	Summary     string
	URL         string
	Source      string
	Related     string
	PublishedAt *time.Time
}

// ConstituentSource is one entry of the index membership list.
type ConstituentSource struct {
	Symbol  string  `yaml:"symbol" json:"symbol"`
	Company string  `yaml:"company" json:"company"`
	Sector  string  `yaml:"sector" json:"sector"`
	Weight  float64 `yaml:"weight" json:"weight"`
}

// ConstituentFile is the on-disk layout of the membership list.
type ConstituentFile struct {
	Index        string              `yaml:"index"`
	AsOf         string              `yaml:"as_of"`
	Constituents []ConstituentSource `yaml:"constituents"`
}
