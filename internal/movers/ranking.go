package movers

import (
	"math"
	"sort"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/pkg/utils"
)

// DefaultTopN is the number of gainers and of losers kept per day.
const DefaultTopN = 5

// Candidate is an active constituent with a usable price for the ranking date.
type Candidate struct {
	Symbol        string
	CompanyName   string
	PercentChange float64
	ClosePrice    float64
	Impact        float64
}

// Ranking is the outcome of ranking one date.
type Ranking struct {
	Date       time.Time
	IndexLevel float64
	// Candidates are sorted by absolute impact, largest first.
	Candidates []Candidate
	Gainers    []entity.MoverRecord
	Losers     []entity.MoverRecord
	// Excluded lists active symbols with no price, or no percent change, for the date.
	Excluded []string
}

// Movers returns gainers followed by losers.
func (r *Ranking) Movers() []entity.MoverRecord {
	out := make([]entity.MoverRecord, 0, len(r.Gainers)+len(r.Losers))
	out = append(out, r.Gainers...)
	return append(out, r.Losers...)
}

// Ranker selects the top gainers and losers by index impact.
type Ranker struct {
	topN int
}

// NewRanker returns a Ranker keeping topN movers per side. Non-positive values use DefaultTopN.
func NewRanker(topN int) *Ranker {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Ranker{topN: topN}
}

// Rank scores every active constituent priced on date and picks the movers.
// Constituents are expected in registry order; ties on impact keep that order.
// indexLevel is nil when no level is stored for the date.
func (r *Ranker) Rank(date time.Time, indexLevel *float64, constituents []entity.Constituent, prices []entity.PriceObservation) (*Ranking, error) {
	if indexLevel == nil {
		return nil, ErrMissingIndexLevel
	}

	active := make([]entity.Constituent, 0, len(constituents))
	for _, c := range constituents {
		if c.IsActive {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoActiveConstituents
	}

	bySymbol := make(map[string]entity.PriceObservation, len(prices))
	for _, p := range prices {
		if !utils.SameDay(p.Date, date) {
			continue
		}
		bySymbol[utils.NormalizeSymbol(p.Symbol)] = p
	}

	ranking := &Ranking{
		Date:       utils.DateOnly(date),
		IndexLevel: *indexLevel,
	}

	for _, c := range active {
		symbol := utils.NormalizeSymbol(c.Symbol)
		price, ok := bySymbol[symbol]
		if !ok || price.PercentChange == nil {
			ranking.Excluded = append(ranking.Excluded, symbol)
			continue
		}
		pct := *price.PercentChange
		ranking.Candidates = append(ranking.Candidates, Candidate{
			Symbol:        symbol,
			CompanyName:   c.CompanyName,
			PercentChange: pct,
			ClosePrice:    price.CurrentPrice,
			Impact:        Impact(pct, c.Weight, *indexLevel),
		})
	}

	sort.SliceStable(ranking.Candidates, func(i, j int) bool {
		return math.Abs(ranking.Candidates[i].Impact) > math.Abs(ranking.Candidates[j].Impact)
	})

	for _, cand := range ranking.Candidates {
		switch {
		case cand.PercentChange > 0 && len(ranking.Gainers) < r.topN:
			ranking.Gainers = append(ranking.Gainers, r.record(ranking.Date, cand, len(ranking.Gainers)+1, entity.MoverTypeGainer))
		case cand.PercentChange < 0 && len(ranking.Losers) < r.topN:
			ranking.Losers = append(ranking.Losers, r.record(ranking.Date, cand, -(len(ranking.Losers)+1), entity.MoverTypeLoser))
		}
	}

	return ranking, nil
}

func (r *Ranker) record(date time.Time, c Candidate, rank int, moverType entity.MoverType) entity.MoverRecord {
	return entity.MoverRecord{
		Date:                    date,
		Symbol:                  c.Symbol,
		CompanyName:             c.CompanyName,
		PercentChange:           c.PercentChange,
		IndexPointsContribution: c.Impact,
		ClosePrice:              c.ClosePrice,
		Rank:                    rank,
		MoverType:               moverType,
	}
}
