package standings

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/padraicbc/apdarank/models"
)

// rankedCategories is every category a season produces an ordered table
// for. Online qualification only exists in online seasons.
func (e *Engine) rankedCategories(season string) []models.Category {
	cats := []models.Category{models.TOTY, models.SOTY, models.NOTY, models.COTY}
	if e.set.IsOnline(season) {
		cats = append(cats, models.OnlineQual)
	}
	return cats
}

// RecomputeSeason rebuilds every standing, qualification and ranking
// for a season from raw results. Runs for the same season are
// serialized; an empty season means the configured current one.
func (e *Engine) RecomputeSeason(ctx context.Context, season string) (*Report, error) {
	if season == "" {
		season = e.set.CurrentSeason
	}
	lock := e.seasonLock(season)
	lock.Lock()
	defer lock.Unlock()

	e.log.Info("recompute started", zap.String("season", season))
	report := &Report{Season: season}

	teams, err := e.store.Teams(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		rms, err := e.UpdateTeamStanding(ctx, t, season)
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", t.ID, err)
		}
		report.Teams++
		report.Removals = append(report.Removals, rms...)
	}
	for _, t := range teams {
		rms, err := e.UpdateQualification(ctx, t, season)
		if err != nil {
			return nil, fmt.Errorf("team %d quals: %w", t.ID, err)
		}
		report.Removals = append(report.Removals, rms...)
	}

	debaters, err := e.store.Debaters(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range debaters {
		rms, err := e.UpdateSpeakerStanding(ctx, d, season)
		if err != nil {
			return nil, fmt.Errorf("debater %d: %w", d.ID, err)
		}
		report.Debaters++
		report.Removals = append(report.Removals, rms...)
	}
	for _, d := range debaters {
		rms, err := e.UpdateNoviceStanding(ctx, d, season)
		if err != nil {
			return nil, fmt.Errorf("debater %d novice: %w", d.ID, err)
		}
		report.Removals = append(report.Removals, rms...)

		rms, err = e.UpdateOnlineQualification(ctx, d, season)
		if err != nil {
			return nil, fmt.Errorf("debater %d online: %w", d.ID, err)
		}
		report.Removals = append(report.Removals, rms...)
	}

	schools, err := e.store.Schools(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range schools {
		rms, err := e.UpdateSchoolStanding(ctx, s, season)
		if err != nil {
			return nil, fmt.Errorf("school %d: %w", s.ID, err)
		}
		report.Schools++
		report.Removals = append(report.Removals, rms...)
	}

	if err := e.rankAll(ctx, season, report); err != nil {
		return nil, err
	}

	e.log.Info("recompute finished",
		zap.String("season", season),
		zap.Int("teams", report.Teams),
		zap.Int("debaters", report.Debaters),
		zap.Int("schools", report.Schools),
		zap.Int("removals", len(report.Removals)))
	return report, nil
}

// RecomputeTournament refreshes only the entities a single tournament
// touched, then re-ranks the season. Chapter totals always refresh in
// full since any qualification change can move them.
func (e *Engine) RecomputeTournament(ctx context.Context, tournamentID int) (*Report, error) {
	t, err := e.store.Tournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("tournament %d: %w", tournamentID, ErrTournamentNotFound)
	}
	season := t.Season

	lock := e.seasonLock(season)
	lock.Lock()
	defer lock.Unlock()

	e.log.Info("tournament recompute started",
		zap.Int("tournament", tournamentID),
		zap.String("season", season))
	report := &Report{Season: season}

	teams, err := e.store.TeamsForTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, tm := range teams {
		rms, err := e.UpdateTeamStanding(ctx, tm, season)
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", tm.ID, err)
		}
		report.Teams++
		report.Removals = append(report.Removals, rms...)
	}
	for _, tm := range teams {
		rms, err := e.UpdateQualification(ctx, tm, season)
		if err != nil {
			return nil, fmt.Errorf("team %d quals: %w", tm.ID, err)
		}
		report.Removals = append(report.Removals, rms...)
	}

	speakers, err := e.store.SpeakersForTournament(ctx, tournamentID, models.Varsity)
	if err != nil {
		return nil, err
	}
	for _, d := range speakers {
		rms, err := e.UpdateSpeakerStanding(ctx, d, season)
		if err != nil {
			return nil, fmt.Errorf("debater %d: %w", d.ID, err)
		}
		report.Debaters++
		report.Removals = append(report.Removals, rms...)
	}
	novices, err := e.store.SpeakersForTournament(ctx, tournamentID, models.Novice)
	if err != nil {
		return nil, err
	}
	for _, d := range novices {
		rms, err := e.UpdateNoviceStanding(ctx, d, season)
		if err != nil {
			return nil, fmt.Errorf("debater %d novice: %w", d.ID, err)
		}
		report.Debaters++
		report.Removals = append(report.Removals, rms...)
	}
	if e.set.IsOnline(season) {
		for _, tm := range teams {
			members, err := e.store.TeamDebaters(ctx, tm.ID)
			if err != nil {
				return nil, err
			}
			for _, d := range members {
				rms, err := e.UpdateOnlineQualification(ctx, d, season)
				if err != nil {
					return nil, fmt.Errorf("debater %d online: %w", d.ID, err)
				}
				report.Removals = append(report.Removals, rms...)
			}
		}
	}

	schools, err := e.store.Schools(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range schools {
		rms, err := e.UpdateSchoolStanding(ctx, s, season)
		if err != nil {
			return nil, fmt.Errorf("school %d: %w", s.ID, err)
		}
		report.Schools++
		report.Removals = append(report.Removals, rms...)
	}

	if err := e.rankAll(ctx, season, report); err != nil {
		return nil, err
	}

	e.log.Info("tournament recompute finished",
		zap.Int("tournament", tournamentID),
		zap.String("season", season),
		zap.Int("removals", len(report.Removals)))
	return report, nil
}

func (e *Engine) rankAll(ctx context.Context, season string, report *Report) error {
	for _, cat := range e.rankedCategories(season) {
		rms, err := e.Rank(ctx, cat, season)
		if err != nil {
			return fmt.Errorf("rank %s: %w", cat, err)
		}
		report.Removals = append(report.Removals, rms...)
	}
	return nil
}
