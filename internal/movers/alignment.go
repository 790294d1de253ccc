package movers

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/pkg/utils"
)

const (
	// MaxRepresentativeHeadlines is how many aligned items are flagged per mover.
	MaxRepresentativeHeadlines = 3

	// DefaultClassifierInputLimit bounds the text sent to the classifier, in runes.
	DefaultClassifierInputLimit = 2048
)

// Classifier labels a piece of financial text as positive, negative or neutral
// with a confidence score in [0, 1].
type Classifier interface {
	Classify(ctx context.Context, text string) (label string, score float64, err error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, text string) (string, float64, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string) (string, float64, error) {
	return f(ctx, text)
}

// AlignmentResult lists what an alignment pass changed so callers persist only that.
type AlignmentResult struct {
	// Scored are items that received a label in this pass.
	Scored []*entity.NewsItem
	// Failed are items the classifier could not label; they stay unscored.
	Failed []*entity.NewsItem
	// Reflagged are items whose representative flag flipped.
	Reflagged []*entity.NewsItem
	// UpdatedMovers are movers whose headline fields changed.
	UpdatedMovers []*entity.MoverRecord
}

// Dirty returns the news items that need persisting, without duplicates.
func (r AlignmentResult) Dirty() []*entity.NewsItem {
	seen := make(map[*entity.NewsItem]struct{}, len(r.Scored)+len(r.Reflagged))
	out := make([]*entity.NewsItem, 0, len(r.Scored)+len(r.Reflagged))
	for _, group := range [][]*entity.NewsItem{r.Scored, r.Reflagged} {
		for _, item := range group {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

// Aligner scores news and attaches to each mover the headlines that agree with its direction.
type Aligner struct {
	inputLimit int
}

// NewAligner returns an Aligner truncating classifier input to inputLimit runes.
// Non-positive values use DefaultClassifierInputLimit.
func NewAligner(inputLimit int) *Aligner {
	if inputLimit <= 0 {
		inputLimit = DefaultClassifierInputLimit
	}
	return &Aligner{inputLimit: inputLimit}
}

// ClassifierText builds the classifier input for a headline and summary.
func (a *Aligner) ClassifierText(headline, summary string) string {
	text := strings.TrimSpace(headline + ". " + summary)
	return utils.TruncateRunes(text, a.inputLimit)
}

// Align mutates movers and news in place. Items already labelled are not
// re-classified, so running it twice over the same data changes nothing the second time.
// A cancelled context stops scoring; the partial result is returned with the context error.
func (a *Aligner) Align(ctx context.Context, date time.Time, movers []*entity.MoverRecord, news []*entity.NewsItem, classifier Classifier) (AlignmentResult, error) {
	var result AlignmentResult

	bySymbol := make(map[string][]*entity.NewsItem)
	for _, item := range news {
		if item == nil || !utils.SameDay(item.Date, date) {
			continue
		}
		symbol := utils.NormalizeSymbol(item.Symbol)
		bySymbol[symbol] = append(bySymbol[symbol], item)

		if item.SentimentLabel != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		label, score, err := classifier.Classify(ctx, a.ClassifierText(item.Headline, item.Summary))
		if err != nil {
			result.Failed = append(result.Failed, item)
			continue
		}
		label = strings.ToLower(strings.TrimSpace(label))
		item.SentimentLabel = &label
		item.SentimentScore = &score
		result.Scored = append(result.Scored, item)
	}

	for _, mover := range movers {
		if mover == nil || !utils.SameDay(mover.Date, date) {
			continue
		}
		direction := Direction(mover.PercentChange)
		if direction == "" {
			continue
		}
		items := bySymbol[utils.NormalizeSymbol(mover.Symbol)]

		previous := make([]bool, len(items))
		aligned := make([]*entity.NewsItem, 0, len(items))
		for i, item := range items {
			previous[i] = item.IsTopHeadline
			item.IsTopHeadline = false
			if item.SentimentLabel != nil && item.SentimentScore != nil && *item.SentimentLabel == direction {
				aligned = append(aligned, item)
			}
		}

		sort.SliceStable(aligned, func(i, j int) bool {
			return *aligned[i].SentimentScore > *aligned[j].SentimentScore
		})
		if len(aligned) > MaxRepresentativeHeadlines {
			aligned = aligned[:MaxRepresentativeHeadlines]
		}
		for _, item := range aligned {
			item.IsTopHeadline = true
		}
		for i, item := range items {
			if item.IsTopHeadline != previous[i] {
				result.Reflagged = append(result.Reflagged, item)
			}
		}

		if len(aligned) > 0 && applyHeadline(mover, direction, aligned[0]) {
			result.UpdatedMovers = append(result.UpdatedMovers, mover)
		}
	}

	return result, nil
}

// Direction maps a percent change to the sentiment label that agrees with it.
// A zero change has no direction.
func Direction(percentChange float64) string {
	switch {
	case percentChange > 0:
		return entity.SentimentPositive
	case percentChange < 0:
		return entity.SentimentNegative
	}
	return ""
}

// applyHeadline copies best onto the mover fields for direction and reports whether anything changed.
func applyHeadline(mover *entity.MoverRecord, direction string, best *entity.NewsItem) bool {
	headline, score, url := &mover.PositiveHeadline, &mover.PositiveHeadlineScore, &mover.PositiveHeadlineURL
	if direction == entity.SentimentNegative {
		headline, score, url = &mover.NegativeHeadline, &mover.NegativeHeadlineScore, &mover.NegativeHeadlineURL
	}

	changed := !equalString(*headline, best.Headline) || !equalFloat(*score, *best.SentimentScore) || !equalString(*url, best.URL)
	if !changed {
		return false
	}
	h, s, u := best.Headline, *best.SentimentScore, best.URL
	*headline, *score, *url = &h, &s, &u
	return true
}

func equalString(p *string, v string) bool { return p != nil && *p == v }

func equalFloat(p *float64, v float64) bool { return p != nil && *p == v }
