package standings

import (
	"context"

	"github.com/padraicbc/apdarank/models"
)

const (
	// maxDebaterContribution caps how many qualification points any one
	// debater can add to their chapter's COTY total.
	maxDebaterContribution = 60.0
	// qualifiedBonus is added per distinct qualified debater.
	qualifiedBonus = 6.0
)

// UpdateSchoolStanding recomputes a chapter's COTY row: the capped sum
// of its debaters' qualification points plus a flat bonus per qualified
// debater.
func (e *Engine) UpdateSchoolStanding(ctx context.Context, school models.School, season string) ([]Removal, error) {
	if !school.IncludedInOTY {
		deleted, err := e.store.DeleteStanding(ctx, models.COTY, school.ID, season)
		if err != nil {
			return nil, err
		}
		if !deleted {
			return nil, nil
		}
		return []Removal{{
			Kind:     kindStanding,
			Category: models.COTY,
			EntityID: school.ID,
			Season:   season,
			Reason:   "school excluded from award consideration",
			Count:    1,
		}}, nil
	}

	qps, err := e.store.SchoolQualPoints(ctx, school.ID, season)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, qp := range qps {
		p := qp.Points
		if p > maxDebaterContribution {
			p = maxDebaterContribution
		}
		total += p
	}

	qualified, err := e.store.QualifiedDebaterCount(ctx, school.ID, season)
	if err != nil {
		return nil, err
	}
	total += qualifiedBonus * float64(qualified)

	st := &models.Standing{
		Category: models.COTY,
		EntityID: school.ID,
		Season:   season,
		Points:   total,
		Place:    models.UnplacedSentinel,
	}
	existing, err := e.store.Standing(ctx, models.COTY, school.ID, season)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		st.ID = existing.ID
		st.Place = existing.Place
		st.Tied = existing.Tied
	}
	return nil, e.store.UpsertStanding(ctx, st)
}
