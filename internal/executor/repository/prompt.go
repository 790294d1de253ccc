package repository

import "fmt"

const sentimentPromptTemplate = `You are a financial news sentiment classifier, equivalent to FinBERT.
Classify the market sentiment the following text expresses about the company it mentions.

Text:
"""
%s
"""

Answer with JSON only, no markdown, in exactly this shape:
{"label": "positive" | "negative" | "neutral", "score": <confidence between 0 and 1>}`

// BuildSentimentPrompt wraps text in the classification instructions.
func BuildSentimentPrompt(text string) string {
	return fmt.Sprintf(sentimentPromptTemplate, text)
}
