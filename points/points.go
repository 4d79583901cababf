// Package points converts tournament placements into award points.
// These functions are the single source of point truth: every aggregation
// calls into them rather than re-deriving values.
package points

// Team returns the team-of-the-year (and qualification) points for
// finishing at place in a field of size teams. Fields under 8 teams award
// nothing; under 16 only the top two score. From 16 to 72 teams the top
// two grow with the field a full point per 8 teams, semifinalists by
// three quarters, and quarterfinalists by half; ghostPoints awards the
// quarterfinal value at any place. 72+ team fields use fixed tables and
// ghostPoints extends the lowest band past 16th place.
func Team(size, place int, ghostPoints bool) float64 {
	if place < 1 || size < 8 {
		return 0
	}

	if size < 16 {
		switch place {
		case 1:
			return 8
		case 2:
			return 4
		}
		return 0
	}

	if size < 72 {
		growth := float64((size - 16) / 8)
		switch {
		case place == 1:
			return 12 + growth
		case place == 2:
			return 8 + growth
		case place < 5:
			return 3 + 0.75*growth
		case place < 9 || ghostPoints:
			return 0.5 * growth
		}
		return 0
	}

	if size < 80 {
		return teamBracket(place, ghostPoints, 19, 15, 8.25, 3.5, 0.75)
	}
	return teamBracket(place, ghostPoints, 20, 16, 9, 4, 1.5)
}

func teamBracket(place int, ghost bool, first, second, semis, quarters, octos float64) float64 {
	switch {
	case place == 1:
		return first
	case place == 2:
		return second
	case place < 5:
		return semis
	case place < 9:
		return quarters
	case place < 17 || ghost:
		return octos
	}
	return 0
}

// Speaker returns the speaker-of-the-year points for the given speaker
// award place in a field of size debaters. A result marked as a tie
// already occupies the next numeric place in storage, so no adjustment
// happens here.
func Speaker(size, place int) float64 {
	if place < 1 {
		return 0
	}

	var base float64
	switch {
	case size < 8:
		base = 0
	case size < 16:
		base = 8
	case size < 80:
		base = 12 + float64((size-16)/8)
	default:
		base = 20
	}

	return floorZero(base - 2.5*float64(place-1))
}

// Novice returns the novice-of-the-year points for the given novice
// speaker place in a field of noviceCount novices.
func Novice(noviceCount, place int) float64 {
	if place < 1 {
		return 0
	}

	base := 10 + float64(noviceCount/8)
	if base > 20 {
		base = 20
	}

	return floorZero(base - 2.5*float64(place-1))
}

// Online returns the reduced-format qualification points for a team
// placement in the online track; field size does not matter.
func Online(place int) float64 {
	switch {
	case place < 1:
		return 0
	case place == 1:
		return 12.5
	case place == 2:
		return 10
	case place < 5:
		return 7.5
	case place < 9:
		return 5
	case place < 17:
		return 2.5
	case place < 33:
		return 1.25
	}
	return 0
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
