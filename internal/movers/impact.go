package movers

import (
	"math"

	"github.com/shopspring/decimal"
)

// Impact returns the index points a constituent contributed to the index move,
// rounded to two decimals half-to-even.
//
// weight is the constituent's share of the index in percentage points and
// percentChange its daily move in percent.
func Impact(percentChange, weight, indexLevel float64) float64 {
	contributionPct := (weight * percentChange) / 100
	points := (contributionPct * indexLevel) / 100
	if math.IsNaN(points) || math.IsInf(points, 0) {
		return points
	}
	return decimal.NewFromFloat(points).RoundBank(2).InexactFloat64()
}
