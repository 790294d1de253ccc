package dto

// SentimentResult is the JSON the model is asked to answer with.
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
