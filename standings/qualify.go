package standings

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/padraicbc/apdarank/models"
	"github.com/padraicbc/apdarank/points"
)

// UpdateQualification recomputes national-qualification points for every
// member of the team. Qualification points accumulate over ALL of a
// debater's qual-flagged team results; nothing is capped here.
func (e *Engine) UpdateQualification(ctx context.Context, team models.Team, season string) ([]Removal, error) {
	members, err := e.store.TeamDebaters(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	var removals []Removal
	for _, deb := range members {
		rms, err := e.updateDebaterQualification(ctx, deb, season)
		if err != nil {
			return nil, err
		}
		removals = append(removals, rms...)
	}
	return removals, nil
}

func (e *Engine) updateDebaterQualification(ctx context.Context, deb models.Debater, season string) ([]Removal, error) {
	var removals []Removal

	if deb.SchoolID != nil {
		school, err := e.store.School(ctx, *deb.SchoolID)
		if err != nil {
			return nil, err
		}
		if school != nil && !school.IncludedInOTY {
			nq, err := e.store.DeleteSchoolQuals(ctx, school.ID, season)
			if err != nil {
				return nil, err
			}
			if nq > 0 {
				removals = append(removals, Removal{
					Kind:     kindQual,
					EntityID: school.ID,
					Season:   season,
					Reason:   "school excluded from award consideration",
					Count:    nq,
				})
			}
			np, err := e.store.DeleteSchoolQualPoints(ctx, school.ID, season)
			if err != nil {
				return nil, err
			}
			if np > 0 {
				removals = append(removals, Removal{
					Kind:     kindQualPoints,
					EntityID: school.ID,
					Season:   season,
					Reason:   "school excluded from award consideration",
					Count:    np,
				})
			}
			return removals, nil
		}
	}

	rf, err := e.store.ReaffFrom(ctx, deb.ID, season)
	if err != nil {
		return nil, err
	}
	if rf != nil {
		// The old identity's results now count for someone else, so its
		// season rows go away wholesale.
		existing, err := e.store.DebaterQuals(ctx, deb.ID, season)
		if err != nil {
			return nil, err
		}
		var nq int
		for _, q := range existing {
			deleted, err := e.store.DeleteQual(ctx, deb.ID, season, q.QualType)
			if err != nil {
				return nil, err
			}
			if deleted {
				nq++
			}
		}
		if nq > 0 {
			removals = append(removals, Removal{
				Kind:     kindQual,
				EntityID: deb.ID,
				Season:   season,
				Reason:   "debater reaffiliated to another entry",
				Count:    nq,
			})
		}
		deleted, err := e.store.DeleteQualPoints(ctx, deb.ID, season)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindQualPoints,
				EntityID: deb.ID,
				Season:   season,
				Reason:   "debater reaffiliated to another entry",
				Count:    1,
			})
		}
		return removals, nil
	}

	rows, err := e.store.DebaterTeamResults(ctx, deb.ID, season, models.Varsity, FlagQual)
	if err != nil {
		return nil, err
	}
	into, err := e.store.ReaffsInto(ctx, deb.ID, season)
	if err != nil {
		return nil, err
	}
	for _, r := range into {
		old, err := e.store.DebaterTeamResults(ctx, r.OldDebaterID, season, models.Varsity, FlagQual)
		if err != nil {
			return nil, err
		}
		rows = append(rows, old...)
	}

	supported := make(map[int]bool)
	var total float64
	for _, r := range rows {
		if r.Place < 1 {
			continue
		}
		total += points.Team(r.Tournament.NumTeams, r.Place, r.GhostPoints)

		// Breaking at or above the tournament's bar qualifies on the spot.
		t := r.Tournament
		if t.AutoqualBar > 0 && r.Place <= t.AutoqualBar {
			tid := t.ID
			if err := e.ensureQual(ctx, deb.ID, season, t.QualType, &tid); err != nil {
				return nil, err
			}
			supported[t.QualType] = true
		}
	}

	if total <= 0 {
		deleted, err := e.store.DeleteQualPoints(ctx, deb.ID, season)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindQualPoints,
				EntityID: deb.ID,
				Season:   season,
				Reason:   "no qualification points earned",
				Count:    1,
			})
		}
	} else {
		if err := e.store.UpsertQualPoints(ctx, &models.QualPoints{
			DebaterID: deb.ID,
			Season:    season,
			Points:    total,
		}); err != nil {
			return nil, err
		}
	}

	if !e.set.IsOnline(season) && total >= e.set.QualBar {
		if err := e.ensureQual(ctx, deb.ID, season, models.QualTypePoints, nil); err != nil {
			return nil, err
		}
		supported[models.QualTypePoints] = true
	}

	rms, err := e.reconcileQuals(ctx, deb.ID, season, supported)
	if err != nil {
		return nil, err
	}
	return append(removals, rms...), nil
}

// reconcileQuals deletes stored qualifications the current results no
// longer back, so that moving or re-scoring a placement revokes what it
// once granted. In online seasons the points-type qualification belongs
// to UpdateOnlineQualification and is left alone here.
func (e *Engine) reconcileQuals(ctx context.Context, debaterID int, season string, supported map[int]bool) ([]Removal, error) {
	existing, err := e.store.DebaterQuals(ctx, debaterID, season)
	if err != nil {
		return nil, err
	}

	var removals []Removal
	for _, q := range existing {
		if supported[q.QualType] {
			continue
		}
		if q.QualType == models.QualTypePoints && e.set.IsOnline(season) {
			continue
		}
		deleted, err := e.store.DeleteQual(ctx, debaterID, season, q.QualType)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindQual,
				EntityID: debaterID,
				Season:   season,
				Reason:   "qualification no longer backed by results",
				Count:    1,
			})
		}
	}
	return removals, nil
}

// UpdateOnlineQualification scores a debater on the flat online scale.
// It is a no-op outside online seasons.
func (e *Engine) UpdateOnlineQualification(ctx context.Context, deb models.Debater, season string) ([]Removal, error) {
	if !e.set.IsOnline(season) {
		return nil, nil
	}

	excluded, removals, err := e.dropExcludedSchool(ctx, models.OnlineQual, deb, season)
	if err != nil {
		return nil, err
	}
	if excluded {
		return removals, nil
	}
	rf, err := e.store.ReaffFrom(ctx, deb.ID, season)
	if err != nil {
		return nil, err
	}
	if rf != nil {
		deleted, err := e.store.DeleteStanding(ctx, models.OnlineQual, deb.ID, season)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindStanding,
				Category: models.OnlineQual,
				EntityID: deb.ID,
				Season:   season,
				Reason:   "debater reaffiliated to another entry",
				Count:    1,
			})
		}
		return removals, nil
	}

	rows, err := e.store.DebaterTeamResults(ctx, deb.ID, season, models.Varsity, FlagQual)
	if err != nil {
		return nil, err
	}
	into, err := e.store.ReaffsInto(ctx, deb.ID, season)
	if err != nil {
		return nil, err
	}
	for _, r := range into {
		old, err := e.store.DebaterTeamResults(ctx, r.OldDebaterID, season, models.Varsity, FlagQual)
		if err != nil {
			return nil, err
		}
		rows = append(rows, old...)
	}

	markers := markersFromRows(rows, func(r ResultRow) float64 {
		return points.Online(r.Place)
	})
	var total float64
	kept := markers
	if cap := models.OnlineQual.MarkerCapacity(); len(kept) > cap {
		kept = kept[:cap]
	}
	for _, m := range kept {
		total += m.Points
	}

	rms, err := e.writeStanding(ctx, models.OnlineQual, deb.ID, season, markers)
	if err != nil {
		return nil, err
	}
	removals = append(removals, rms...)

	if total >= e.set.OnlineQualBar {
		if err := e.ensureQual(ctx, deb.ID, season, models.QualTypePoints, nil); err != nil {
			return nil, err
		}
	} else {
		deleted, err := e.store.DeleteQual(ctx, deb.ID, season, models.QualTypePoints)
		if err != nil {
			return nil, err
		}
		if deleted {
			removals = append(removals, Removal{
				Kind:     kindQual,
				EntityID: deb.ID,
				Season:   season,
				Reason:   "online points fell below the qualification bar",
				Count:    1,
			})
		}
	}
	return removals, nil
}

// ensureQual records a qualification exactly once per debater, season
// and type. A constraint race on insert is treated the same as an
// existing row.
func (e *Engine) ensureQual(ctx context.Context, debaterID int, season string, qualType int, tournamentID *int) error {
	has, err := e.store.HasQual(ctx, debaterID, season, qualType)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	err = e.store.CreateQual(ctx, &models.Qual{
		DebaterID:    debaterID,
		Season:       season,
		QualType:     qualType,
		TournamentID: tournamentID,
	})
	if errors.Is(err, ErrDuplicateQualification) {
		e.log.Debug("qualification already recorded",
			zap.Int("debater", debaterID),
			zap.String("season", season),
			zap.String("type", models.QualTypeName(qualType)))
		return nil
	}
	return err
}
