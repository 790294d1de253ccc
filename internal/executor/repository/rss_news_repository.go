package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-market-movers/internal/executor/config"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

const (
	rssUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxArticleSummary = 1000
)

// RSSNewsRepository reads per-symbol headline feeds (Yahoo Finance by default).
type RSSNewsRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewRSSNewsRepository creates an RSS headline provider.
func NewRSSNewsRepository(cfg *config.Config, log *logger.Logger) *RSSNewsRepository {
	return &RSSNewsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchNews parses the symbol's feed and keeps items published within [from, to].
// Items without a publish date are kept.
func (r *RSSNewsRepository) FetchNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.NewsArticle, error) {
	feedURL := r.feedURL(symbol)

	fp := gofeed.NewParser()
	fp.Client = r.httpClient
	fp.UserAgent = rssUserAgent
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("url", feedURL))
		return nil, fmt.Errorf("failed to parse RSS feed for %s: %w", symbol, err)
	}

	articles := make([]dto.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" || item.Link == "" {
			continue
		}
		if item.PublishedParsed != nil && (item.PublishedParsed.Before(from) || item.PublishedParsed.After(to)) {
			continue
		}

		summary := htmlToText(item.Description)
		if summary == "" && r.cfg.News.FetchArticleBody {
			body, err := r.fetchArticleText(ctx, item.Link)
			if err != nil {
				r.log.WarnContext(ctx, "Failed to fetch article body", logger.ErrorField(err), logger.StringField("url", item.Link))
			} else {
				summary = utils.TruncateRunes(body, maxArticleSummary)
			}
		}

		var published *time.Time
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			published = &t
		}
		articles = append(articles, dto.NewsArticle{
			Headline:    utils.CleanText(item.Title),
			Summary:     summary,
			URL:         item.Link,
			Source:      sourceName(feed, item),
			Related:     symbol,
			PublishedAt: published,
		})
	}

	r.log.DebugContext(ctx, "RSS news fetched",
		logger.StringField("symbol", symbol),
		logger.IntField("received", len(feed.Items)),
		logger.IntField("kept", len(articles)))

	return articles, nil
}

func (r *RSSNewsRepository) feedURL(symbol string) string {
	params := url.Values{}
	params.Set("s", symbol)
	params.Set("region", "US")
	params.Set("lang", "en-US")
	return r.cfg.News.RSSBaseURL + "?" + params.Encode()
}

func (r *RSSNewsRepository) fetchArticleText(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for article: %w", err)
	}
	req.Header.Set("User-Agent", rssUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to extract article content: %w", err)
	}
	return htmlToText(doc.Content()), nil
}

// htmlToText strips markup and collapses whitespace.
func htmlToText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return utils.CleanText(fragment)
	}
	return utils.CleanText(doc.Text())
}

func sourceName(feed *gofeed.Feed, item *gofeed.Item) string {
	if u, err := url.Parse(item.Link); err == nil && u.Host != "" {
		return strings.TrimPrefix(u.Host, "www.")
	}
	if feed != nil {
		return feed.Title
	}
	return ""
}
