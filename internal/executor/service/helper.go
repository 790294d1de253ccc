package service

import (
	"sort"

	"golang-market-movers/internal/entity"
)

// sortByRank orders movers by rank magnitude, 1 first.
func sortByRank(records []entity.MoverRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return absInt(records[i].Rank) < absInt(records[j].Rank)
	})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
