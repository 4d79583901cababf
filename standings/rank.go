package standings

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/padraicbc/apdarank/models"
)

// Rank orders one category's standings for a season, assigning places
// with competition-style tie handling: tied entries share a place and
// the next distinct score skips past the whole block. Zero-point rows
// are deleted rather than ranked. The public page cache for the
// category is refreshed afterwards on a best-effort basis.
func (e *Engine) Rank(ctx context.Context, cat models.Category, season string) ([]Removal, error) {
	sts, err := e.store.SeasonStandings(ctx, cat, season)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sts, func(i, j int) bool {
		return sts[i].Points > sts[j].Points
	})

	var removals []Removal
	place := 1
	for i := 0; i < len(sts); {
		if sts[i].Points <= 0 {
			deleted, err := e.store.DeleteStanding(ctx, cat, sts[i].EntityID, season)
			if err != nil {
				return nil, err
			}
			if deleted {
				removals = append(removals, Removal{
					Kind:     kindStanding,
					Category: cat,
					EntityID: sts[i].EntityID,
					Season:   season,
					Reason:   "no points this season",
					Count:    1,
				})
			}
			i++
			continue
		}

		// Size of the block of equal scores starting at i.
		j := i + 1
		for j < len(sts) && sts[j].Points == sts[i].Points {
			j++
		}
		tied := j-i > 1
		for k := i; k < j; k++ {
			sts[k].Place = place
			sts[k].Tied = tied
			if err := e.store.UpsertStanding(ctx, &sts[k]); err != nil {
				return nil, err
			}
		}
		place += j - i
		i = j
	}

	if err := e.cache.Invalidate(ctx, cat, season); err != nil {
		e.log.Warn("cache invalidate failed",
			zap.String("category", string(cat)),
			zap.String("season", season),
			zap.Error(err))
	}
	if err := e.cache.Warm(ctx, season); err != nil {
		e.log.Warn("cache warm failed",
			zap.String("season", season),
			zap.Error(err))
	}
	return removals, nil
}
