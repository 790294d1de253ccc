package config

import (
	"time"

	"golang-market-movers/pkg/config"
)

// Executor holds executor-specific configuration.
type Executor struct {
	MaxConcurrentFetch              int           `mapstructure:"max_concurrent_fetch"`
	RedisStreamTaskExecutionTimeout time.Duration `mapstructure:"redis_stream_task_execution_timeout"`
	DefaultJobTimeout               time.Duration `mapstructure:"default_job_timeout"`
}

// Finnhub holds the quote and company news API settings.
type Finnhub struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
	QuoteCacheTTL       time.Duration `mapstructure:"quote_cache_ttl"`
}

// News holds the headline fetch settings.
type News struct {
	Providers            []string `mapstructure:"providers"`
	LookbackHours        int      `mapstructure:"lookback_hours"`
	MaxHeadlinesPerStock int      `mapstructure:"max_headlines_per_stock"`
	MaxHeadlineLength    int      `mapstructure:"max_headline_length"`
	RSSBaseURL           string   `mapstructure:"rss_base_url"`
	FetchArticleBody     bool     `mapstructure:"fetch_article_body"`
	MaxRequestPerMinute  int      `mapstructure:"max_request_per_minute"`
}

// Constituents points at the registry source.
type Constituents struct {
	SourceFile      string `mapstructure:"source_file"`
	MaxConstituents int    `mapstructure:"max_constituents"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// Sentiment holds classifier settings.
type Sentiment struct {
	InputLimit int `mapstructure:"input_limit"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the executor service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	Market       config.Market   `mapstructure:"market"`
	Executor     Executor        `mapstructure:"executor"`
	Finnhub      Finnhub         `mapstructure:"finnhub"`
	News         News            `mapstructure:"news"`
	Constituents Constituents    `mapstructure:"constituents"`
	Gemini       Gemini          `mapstructure:"gemini"`
	Sentiment    Sentiment       `mapstructure:"sentiment"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

func defaults() map[string]interface{} {
	d := config.MarketDefaults()
	d["executor.max_concurrent_fetch"] = 8
	d["executor.redis_stream_task_execution_timeout"] = "30m"
	d["executor.default_job_timeout"] = "15m"
	d["finnhub.base_url"] = "https://finnhub.io/api/v1"
	d["finnhub.max_request_per_minute"] = 30
	d["finnhub.timeout"] = "10s"
	d["finnhub.quote_cache_ttl"] = "5m"
	d["news.providers"] = []string{"finnhub", "rss"}
	d["news.lookback_hours"] = 8
	d["news.max_headlines_per_stock"] = 20
	d["news.max_headline_length"] = 500
	d["news.rss_base_url"] = "https://feeds.finance.yahoo.com/rss/2.0/headline"
	d["news.max_request_per_minute"] = 60
	d["constituents.source_file"] = "configs/constituents.yaml"
	d["constituents.max_constituents"] = 50
	d["gemini.model"] = "gemini-2.0-flash"
	d["gemini.max_request_per_minute"] = 15
	d["gemini.max_token_per_minute"] = 250000
	d["gemini.cache_ttl"] = "24h"
	d["sentiment.input_limit"] = 2048
	return d
}

// Load loads the executor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
