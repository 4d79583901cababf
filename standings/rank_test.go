package standings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/apdarank/models"
)

func TestRankCompetitionStyleTies(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	scores := []float64{30, 30, 20, 0}
	for i, pts := range scores {
		require.NoError(t, f.UpsertStanding(ctx, &models.Standing{
			Category: models.TOTY, EntityID: 100 + i, Season: season, Points: pts,
		}))
	}

	eng, cache := newTestEngine(f)
	removals, err := eng.Rank(ctx, models.TOTY, season)
	require.NoError(t, err)

	first, _ := f.Standing(ctx, models.TOTY, 100, season)
	second, _ := f.Standing(ctx, models.TOTY, 101, season)
	third, _ := f.Standing(ctx, models.TOTY, 102, season)
	fourth, _ := f.Standing(ctx, models.TOTY, 103, season)

	require.NotNil(t, first)
	require.NotNil(t, second)
	require.NotNil(t, third)
	assert.Equal(t, 1, first.Place)
	assert.True(t, first.Tied)
	assert.Equal(t, 1, second.Place)
	assert.True(t, second.Tied)
	// The tie at first consumes two places.
	assert.Equal(t, 3, third.Place)
	assert.False(t, third.Tied)

	// Zero-point rows never persist.
	assert.Nil(t, fourth)
	require.Len(t, removals, 1)
	assert.Equal(t, 103, removals[0].EntityID)

	assert.Equal(t, []string{"toty/" + season}, cache.invalidated)
	assert.Equal(t, []string{season}, cache.warmed)
}

func TestRankSingleWinner(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	require.NoError(t, f.UpsertStanding(ctx, &models.Standing{
		Category: models.SOTY, EntityID: 7, Season: season, Points: 14,
	}))

	eng, _ := newTestEngine(f)
	_, err := eng.Rank(ctx, models.SOTY, season)
	require.NoError(t, err)

	st, _ := f.Standing(ctx, models.SOTY, 7, season)
	require.NotNil(t, st)
	assert.Equal(t, 1, st.Place)
	assert.False(t, st.Tied)
}

func TestRankClearsStaleTieFlag(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	require.NoError(t, f.UpsertStanding(ctx, &models.Standing{
		Category: models.NOTY, EntityID: 1, Season: season, Points: 12, Place: 2, Tied: true,
	}))
	require.NoError(t, f.UpsertStanding(ctx, &models.Standing{
		Category: models.NOTY, EntityID: 2, Season: season, Points: 9, Place: 2, Tied: true,
	}))

	eng, _ := newTestEngine(f)
	_, err := eng.Rank(ctx, models.NOTY, season)
	require.NoError(t, err)

	first, _ := f.Standing(ctx, models.NOTY, 1, season)
	second, _ := f.Standing(ctx, models.NOTY, 2, season)
	assert.Equal(t, 1, first.Place)
	assert.False(t, first.Tied)
	assert.Equal(t, 2, second.Place)
	assert.False(t, second.Tied)
}
