package standings

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/padraicbc/apdarank/models"
	"github.com/padraicbc/apdarank/points"
)

// UpdateTeamStanding recomputes a team's TOTY row for the season. Teams
// that reaffiliated away, belong to an excluded school, or have no
// results anywhere are cleaned up instead.
func (e *Engine) UpdateTeamStanding(ctx context.Context, team models.Team, season string) ([]Removal, error) {
	var removals []Removal

	members, err := e.store.TeamDebaters(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	schoolIDs := make(map[int]bool)
	for _, m := range members {
		if m.SchoolID == nil {
			continue
		}
		schoolIDs[*m.SchoolID] = true
		school, err := e.store.School(ctx, *m.SchoolID)
		if err != nil {
			return nil, err
		}
		if school != nil && !school.IncludedInOTY {
			n, err := e.store.DeleteSchoolStandings(ctx, models.TOTY, school.ID, season)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				removals = append(removals, Removal{
					Kind:     kindSchoolStandings,
					Category: models.TOTY,
					EntityID: school.ID,
					Season:   season,
					Reason:   "school excluded from award consideration",
					Count:    n,
				})
			}
			return removals, nil
		}
	}

	// Hybrid teams never count toward the team award.
	if len(schoolIDs) > 1 {
		deleted, err := e.store.DeleteStanding(ctx, models.TOTY, team.ID, season)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindStanding,
				Category: models.TOTY,
				EntityID: team.ID,
				Season:   season,
				Reason:   "hybrid team spans two schools",
				Count:    1,
			})
		}
		return removals, nil
	}

	// A team that reaffiliated away this season is scored under its
	// successor, never under its own id.
	rf, err := e.store.TeamReaffFrom(ctx, team.ID, season)
	if err != nil {
		return nil, err
	}
	if rf != nil {
		deleted, err := e.store.DeleteStanding(ctx, models.TOTY, team.ID, season)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindStanding,
				Category: models.TOTY,
				EntityID: team.ID,
				Season:   season,
				Reason:   "team reaffiliated to another entry",
				Count:    1,
			})
		}
		return removals, nil
	}

	has, err := e.store.TeamHasResults(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	if !has {
		deleted, err := e.store.DeleteStanding(ctx, models.TOTY, team.ID, season)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindStanding,
				Category: models.TOTY,
				EntityID: team.ID,
				Season:   season,
				Reason:   "team has no results",
				Count:    1,
			})
		}
		if err := e.store.DeleteTeam(ctx, team.ID); err != nil {
			return nil, err
		}
		removals = append(removals, Removal{
			Kind:     kindTeam,
			EntityID: team.ID,
			Season:   season,
			Reason:   "team has no results",
			Count:    1,
		})
		return removals, nil
	}

	rows, err := e.store.TeamResults(ctx, team.ID, season, models.Varsity, FlagTOTY)
	if err != nil {
		return nil, err
	}
	into, err := e.store.TeamReaffsInto(ctx, team.ID, season)
	if err != nil {
		return nil, err
	}
	for _, r := range into {
		old, err := e.store.TeamResults(ctx, r.OldTeamID, season, models.Varsity, FlagTOTY)
		if err != nil {
			return nil, err
		}
		rows = append(rows, old...)
	}

	markers := markersFromRows(rows, func(r ResultRow) float64 {
		return points.Team(r.Tournament.NumTeams, r.Place, r.GhostPoints)
	})
	rms, err := e.writeStanding(ctx, models.TOTY, team.ID, season, markers)
	if err != nil {
		return nil, err
	}
	return append(removals, rms...), nil
}

// UpdateSpeakerStanding recomputes a debater's SOTY row. Debater-level
// garbage collection lives here: a debater with no results in any
// season is removed outright.
func (e *Engine) UpdateSpeakerStanding(ctx context.Context, deb models.Debater, season string) ([]Removal, error) {
	var removals []Removal

	excluded, rms, err := e.dropExcludedSchool(ctx, models.SOTY, deb, season)
	if err != nil {
		return nil, err
	}
	if excluded {
		return rms, nil
	}

	rf, err := e.store.ReaffFrom(ctx, deb.ID, season)
	if err != nil {
		return nil, err
	}
	if rf != nil {
		deleted, err := e.store.DeleteStanding(ctx, models.SOTY, deb.ID, season)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindStanding,
				Category: models.SOTY,
				EntityID: deb.ID,
				Season:   season,
				Reason:   "debater reaffiliated to another entry",
				Count:    1,
			})
		}
		return removals, nil
	}

	has, err := e.store.DebaterHasResults(ctx, deb.ID)
	if err != nil {
		return nil, err
	}
	if !has {
		for _, cat := range []models.Category{models.SOTY, models.NOTY, models.OnlineQual} {
			deleted, err := e.store.DeleteStanding(ctx, cat, deb.ID, season)
			if err != nil {
				return nil, err
			}
			if deleted {
				removals = append(removals, Removal{
					Kind:     kindStanding,
					Category: cat,
					EntityID: deb.ID,
					Season:   season,
					Reason:   "debater has no results",
					Count:    1,
				})
			}
		}
		if err := e.store.DeleteDebater(ctx, deb.ID); err != nil {
			return nil, err
		}
		removals = append(removals, Removal{
			Kind:     kindDebater,
			EntityID: deb.ID,
			Season:   season,
			Reason:   "debater has no results",
			Count:    1,
		})
		return removals, nil
	}

	rows, err := e.store.SpeakerResults(ctx, deb.ID, season, models.Varsity, FlagSOTY)
	if err != nil {
		return nil, err
	}
	into, err := e.store.ReaffsInto(ctx, deb.ID, season)
	if err != nil {
		return nil, err
	}
	for _, r := range into {
		old, err := e.store.SpeakerResults(ctx, r.OldDebaterID, season, models.Varsity, FlagSOTY)
		if err != nil {
			return nil, err
		}
		rows = append(rows, old...)
	}

	markers := markersFromRows(rows, func(r ResultRow) float64 {
		return points.Speaker(r.Tournament.NumDebaters, r.Place)
	})
	rms, err = e.writeStanding(ctx, models.SOTY, deb.ID, season, markers)
	if err != nil {
		return nil, err
	}
	return append(removals, rms...), nil
}

// UpdateNoviceStanding recomputes a debater's NOTY row from novice-
// division speaker results. Entity cleanup is left to the speaker pass.
func (e *Engine) UpdateNoviceStanding(ctx context.Context, deb models.Debater, season string) ([]Removal, error) {
	excluded, rms, err := e.dropExcludedSchool(ctx, models.NOTY, deb, season)
	if err != nil {
		return nil, err
	}
	if excluded {
		return rms, nil
	}

	rows, err := e.store.SpeakerResults(ctx, deb.ID, season, models.Novice, FlagNOTY)
	if err != nil {
		return nil, err
	}
	into, err := e.store.ReaffsInto(ctx, deb.ID, season)
	if err != nil {
		return nil, err
	}
	for _, r := range into {
		old, err := e.store.SpeakerResults(ctx, r.OldDebaterID, season, models.Novice, FlagNOTY)
		if err != nil {
			return nil, err
		}
		rows = append(rows, old...)
	}

	markers := markersFromRows(rows, func(r ResultRow) float64 {
		return points.Novice(r.Tournament.NumNoviceDebaters, r.Place)
	})
	return e.writeStanding(ctx, models.NOTY, deb.ID, season, markers)
}

// dropExcludedSchool deletes a category's rows for the debater's school
// when that school is flagged out of the awards. Reports whether the
// debater should be skipped.
func (e *Engine) dropExcludedSchool(ctx context.Context, cat models.Category, deb models.Debater, season string) (bool, []Removal, error) {
	if deb.SchoolID == nil {
		return false, nil, nil
	}
	school, err := e.store.School(ctx, *deb.SchoolID)
	if err != nil {
		return false, nil, err
	}
	if school == nil || school.IncludedInOTY {
		return false, nil, nil
	}
	n, err := e.store.DeleteSchoolStandings(ctx, cat, school.ID, season)
	if err != nil {
		return false, nil, err
	}
	var removals []Removal
	if n > 0 {
		removals = append(removals, Removal{
			Kind:     kindSchoolStandings,
			Category: cat,
			EntityID: school.ID,
			Season:   season,
			Reason:   "school excluded from award consideration",
			Count:    n,
		})
	}
	return true, removals, nil
}

// markersFromRows scores each placement and orders markers best-first.
func markersFromRows(rows []ResultRow, score func(ResultRow) float64) []models.Marker {
	markers := make([]models.Marker, 0, len(rows))
	for _, r := range rows {
		if r.Place < 1 {
			continue
		}
		markers = append(markers, models.Marker{
			Points:       score(r),
			TournamentID: r.Tournament.ID,
			Tournament:   r.Tournament.Name,
		})
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Points > markers[j].Points
	})
	return markers
}

// writeStanding persists the marker set for one entity/category/season.
// Only the best markers up to the category's capacity count toward the
// total; the rest are dropped. No markers at all deletes the row.
func (e *Engine) writeStanding(ctx context.Context, cat models.Category, entityID int, season string, markers []models.Marker) ([]Removal, error) {
	if len(markers) == 0 {
		deleted, err := e.store.DeleteStanding(ctx, cat, entityID, season)
		if err != nil {
			return nil, err
		}
		if !deleted {
			return nil, nil
		}
		return []Removal{{
			Kind:     kindStanding,
			Category: cat,
			EntityID: entityID,
			Season:   season,
			Reason:   "no qualifying results",
			Count:    1,
		}}, nil
	}

	if cap := cat.MarkerCapacity(); cap > 0 && len(markers) > cap {
		markers = markers[:cap]
	}
	var total float64
	for _, m := range markers {
		total += m.Points
	}

	st := &models.Standing{
		Category: cat,
		EntityID: entityID,
		Season:   season,
		Points:   total,
		Place:    models.UnplacedSentinel,
		Markers:  markers,
	}
	// Keep the previously ranked place until the next Rank pass rewrites it.
	existing, err := e.store.Standing(ctx, cat, entityID, season)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		st.ID = existing.ID
		st.Place = existing.Place
		st.Tied = existing.Tied
	}
	if err := e.store.UpsertStanding(ctx, st); err != nil {
		return nil, err
	}
	e.log.Debug("standing updated",
		zap.String("category", string(cat)),
		zap.Int("entity", entityID),
		zap.String("season", season),
		zap.Float64("points", total))
	return nil, nil
}
