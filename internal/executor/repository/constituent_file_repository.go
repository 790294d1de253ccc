package repository

import (
	"context"
	"fmt"
	"os"
	"sort"

	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/utils"

	"gopkg.in/yaml.v3"
)

type constituentFileRepository struct {
	path  string
	limit int
}

// NewConstituentFileRepository reads index membership from a YAML file.
// Only the limit heaviest members are returned; a non-positive limit keeps all.
func NewConstituentFileRepository(path string, limit int) ConstituentSourceRepository {
	return &constituentFileRepository{path: path, limit: limit}
}

// FetchConstituents returns members ordered by weight, heaviest first, with
// symbols upper-cased and duplicates removed.
func (r *constituentFileRepository) FetchConstituents(ctx context.Context) ([]dto.ConstituentSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read constituent file %s: %w", r.path, err)
	}

	var file dto.ConstituentFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse constituent file %s: %w", r.path, err)
	}

	seen := make(map[string]struct{}, len(file.Constituents))
	members := make([]dto.ConstituentSource, 0, len(file.Constituents))
	for _, c := range file.Constituents {
		c.Symbol = utils.NormalizeSymbol(c.Symbol)
		if c.Symbol == "" {
			continue
		}
		if _, ok := seen[c.Symbol]; ok {
			continue
		}
		seen[c.Symbol] = struct{}{}
		members = append(members, c)
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Weight > members[j].Weight
	})
	if r.limit > 0 && len(members) > r.limit {
		members = members[:r.limit]
	}
	return members, nil
}
