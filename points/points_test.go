package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeam(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		place int
		ghost bool
		want  float64
	}{
		{"tiny field awards nothing", 7, 1, false, 0},
		{"tiny field awards nothing even with ghost", 7, 1, true, 0},
		{"small field first", 8, 1, false, 8},
		{"small field second", 15, 2, false, 4},
		{"small field third scores zero", 15, 3, false, 0},
		{"base of mid bracket", 16, 1, false, 12},
		{"top of mid bracket", 71, 1, false, 18},
		{"mid bracket second", 24, 2, false, 9},
		{"mid bracket semis", 24, 3, false, 3.75},
		{"mid bracket quarters", 24, 5, false, 0.5},
		{"mid bracket quarters", 24, 8, false, 0.5},
		{"mid bracket octos need ghost", 24, 9, false, 0},
		{"mid bracket octos with ghost", 24, 9, true, 0.5},
		{"mid bracket ghost reaches any place", 24, 20, true, 0.5},
		{"base field quarters score zero", 16, 5, false, 0},
		{"72 bracket first", 72, 1, false, 19},
		{"72 bracket semis", 75, 3, false, 8.25},
		{"72 bracket quarters", 75, 8, false, 3.5},
		{"72 bracket octos score without ghost", 75, 12, false, 0.75},
		{"72 bracket past 16th needs ghost", 75, 17, false, 0},
		{"72 bracket ghost past 16th", 75, 20, true, 0.75},
		{"80 bracket first", 80, 1, false, 20},
		{"80 bracket semis", 80, 3, false, 9},
		{"80 bracket octos", 120, 16, false, 1.5},
		{"80 bracket ghost past 16th", 120, 17, true, 1.5},
		{"unplaced sentinel", 40, -1, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Team(tt.size, tt.place, tt.ghost))
		})
	}
}

func TestTeamZeroBelowEight(t *testing.T) {
	for size := 0; size < 8; size++ {
		for place := 1; place <= 20; place++ {
			assert.Zero(t, Team(size, place, false))
			assert.Zero(t, Team(size, place, true))
		}
	}
}

func TestSpeaker(t *testing.T) {
	assert.Equal(t, 8.0, Speaker(8, 1))
	assert.Equal(t, 5.5, Speaker(8, 2))
	assert.Equal(t, 12.0, Speaker(16, 1))
	assert.Equal(t, 18.0, Speaker(71, 1))
	assert.Equal(t, 19.0, Speaker(72, 1))
	assert.Equal(t, 19.0, Speaker(79, 1))
	assert.Equal(t, 20.0, Speaker(80, 1))
	assert.Equal(t, 0.0, Speaker(40, -1))
}

func TestSpeakerMonotoneNonNegative(t *testing.T) {
	for _, size := range []int{4, 8, 16, 31, 48, 71, 72, 100} {
		prev := Speaker(size, 1)
		for place := 2; place <= 12; place++ {
			cur := Speaker(size, place)
			assert.LessOrEqual(t, cur, prev, "size %d place %d", size, place)
			assert.GreaterOrEqual(t, cur, 0.0, "size %d place %d", size, place)
			prev = cur
		}
	}
}

func TestNovice(t *testing.T) {
	assert.Equal(t, 10.0, Novice(7, 1))
	assert.Equal(t, 11.0, Novice(8, 1))
	// Base caps at 20 no matter how large the novice field is.
	assert.Equal(t, 20.0, Novice(80, 1))
	assert.Equal(t, 20.0, Novice(400, 1))
	assert.Equal(t, 17.5, Novice(80, 2))
	assert.Equal(t, 0.0, Novice(10, 6))
}

func TestOnline(t *testing.T) {
	tests := []struct {
		place int
		want  float64
	}{
		{1, 12.5}, {2, 10}, {3, 7.5}, {4, 7.5},
		{5, 5}, {8, 5}, {9, 2.5}, {16, 2.5},
		{17, 1.25}, {32, 1.25}, {33, 0}, {-1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Online(tt.place), "place %d", tt.place)
	}
}
