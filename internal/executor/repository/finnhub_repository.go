package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-market-movers/internal/executor/config"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"

	"go.uber.org/zap"
)

// FinnhubRepository serves quotes and company news from the Finnhub REST API.
type FinnhubRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewFinnhubRepository creates a Finnhub client.
func NewFinnhubRepository(cfg *config.Config, log *logger.Logger) *FinnhubRepository {
	timeout := cfg.Finnhub.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FinnhubRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetQuote returns ErrQuoteUnavailable when Finnhub answers with an empty quote,
// which is how it reports unknown or delisted symbols.
func (r *FinnhubRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := r.get(ctx, "/quote", params)
	if err != nil {
		return nil, err
	}

	var quote dto.FinnhubQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote for %s: %w", symbol, err)
	}
	if quote.Current == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrQuoteUnavailable)
	}

	result := &dto.Quote{
		Symbol:        symbol,
		CurrentPrice:  quote.Current,
		PercentChange: quote.PercentChange,
		High:          quote.High,
		Low:           quote.Low,
		Open:          quote.Open,
		PreviousClose: quote.PreviousClose,
	}
	if quote.Change != nil {
		result.Change = *quote.Change
	}
	return result, nil
}

// FetchNews returns company news for the calendar days spanned by [from, to].
// Articles published outside the window are dropped.
func (r *FinnhubRepository) FetchNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.NewsArticle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("to", to.UTC().Format("2006-01-02"))

	body, err := r.get(ctx, "/company-news", params)
	if err != nil {
		return nil, err
	}

	var news []dto.FinnhubNews
	if err := json.Unmarshal(body, &news); err != nil {
		return nil, fmt.Errorf("failed to decode company news for %s: %w", symbol, err)
	}

	articles := make([]dto.NewsArticle, 0, len(news))
	for _, n := range news {
		if strings.TrimSpace(n.Headline) == "" || n.URL == "" {
			continue
		}
		var published *time.Time
		if n.Datetime > 0 {
			t := time.Unix(n.Datetime, 0).UTC()
			if t.Before(from) || t.After(to) {
				continue
			}
			published = &t
		}
		articles = append(articles, dto.NewsArticle{
			Headline:    n.Headline,
			Summary:     n.Summary,
			URL:         n.URL,
			Source:      n.Source,
			Related:     n.Related,
			PublishedAt: published,
		})
	}

	r.log.DebugContext(ctx, "Finnhub company news fetched",
		logger.StringField("symbol", symbol),
		logger.IntField("received", len(news)),
		logger.IntField("kept", len(articles)))

	return articles, nil
}

func (r *FinnhubRepository) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fields := []zap.Field{
		zap.String("path", path),
		zap.String("symbol", params.Get("symbol")),
	}
	params.Set("token", r.cfg.Finnhub.APIKey)
	endpoint := strings.TrimRight(r.cfg.Finnhub.BaseURL, "/") + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to Finnhub API", fields...)
		return nil, fmt.Errorf("failed to send request to Finnhub API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Finnhub response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode), zap.String("body", string(body)))
		r.log.ErrorContext(ctx, "Received non-OK response from Finnhub API", fields...)
		return nil, fmt.Errorf("received non-OK response from Finnhub API: %d", resp.StatusCode)
	}
	return body, nil
}
