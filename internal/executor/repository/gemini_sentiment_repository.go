package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/config"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/ratelimit"

	"google.golang.org/genai"
)

type geminiSentimentRepository struct {
	cfg          *config.Config
	logger       *logger.Logger
	genAiClient  *genai.Client
	tokenLimiter *ratelimit.TokenLimiter
}

// NewGeminiSentimentRepository creates a classifier backed by a Gemini model.
func NewGeminiSentimentRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) SentimentRepository {
	return &geminiSentimentRepository{
		cfg:          cfg,
		logger:       log,
		genAiClient:  genAiClient,
		tokenLimiter: ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
	}
}

func (r *geminiSentimentRepository) Classify(ctx context.Context, text string) (string, float64, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(BuildSentimentPrompt(text), "user"),
	}

	tokens, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to count tokens: %w", err)
	}
	if err := r.tokenLimiter.Wait(ctx, int(tokens.TotalTokens)); err != nil {
		return "", 0, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	temperature := float32(0)
	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to call Gemini API", logger.ErrorField(err))
		return "", 0, fmt.Errorf("failed to call Gemini API: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", 0, errors.New("empty response from Gemini API")
	}

	result, err := parseSentimentResponse(resp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return "", 0, err
	}

	r.logger.DebugContext(ctx, "Headline classified",
		logger.StringField("label", result.Label),
		logger.FloatField("score", result.Score),
		logger.IntField("tokens", int(tokens.TotalTokens)),
		logger.IntField("tokens_remaining", r.tokenLimiter.Remaining()))

	return result.Label, result.Score, nil
}

// parseSentimentResponse validates the model answer. Labels are lower-cased and
// scores clamped to [0, 1].
func parseSentimentResponse(raw string) (*dto.SentimentResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")
	raw = strings.TrimPrefix(raw, "json")
	raw = strings.TrimSpace(raw)

	var result dto.SentimentResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sentiment response: %w", err)
	}

	result.Label = strings.ToLower(strings.TrimSpace(result.Label))
	switch result.Label {
	case entity.SentimentPositive, entity.SentimentNegative, entity.SentimentNeutral:
	default:
		return nil, fmt.Errorf("unexpected sentiment label %q", result.Label)
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 1 {
		result.Score = 1
	}
	return &result, nil
}
