package standings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/padraicbc/apdarank/models"
)

// Flag selects which tournament gate applies to a result query: only
// tournaments with the matching category flag feed that award.
type Flag string

const (
	FlagTOTY Flag = "toty"
	FlagSOTY Flag = "soty"
	FlagNOTY Flag = "noty"
	FlagQual Flag = "qual"
)

var flagColumns = map[Flag]string{
	FlagTOTY: "toty",
	FlagSOTY: "soty",
	FlagNOTY: "noty",
	FlagQual: "qual",
}

// ResultRow is one placement joined with the tournament that awarded it.
type ResultRow struct {
	Place       int
	Tie         bool
	GhostPoints bool
	Tournament  models.Tournament
}

// Store is everything the engine needs from persistence. The bun
// implementation below is the production store; tests substitute an
// in-memory fake.
type Store interface {
	Teams(ctx context.Context) ([]models.Team, error)
	Debaters(ctx context.Context) ([]models.Debater, error)
	Schools(ctx context.Context) ([]models.School, error)
	School(ctx context.Context, id int) (*models.School, error)
	TeamDebaters(ctx context.Context, teamID int) ([]models.Debater, error)

	Tournament(ctx context.Context, id int) (*models.Tournament, error)
	TeamsForTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
	SpeakersForTournament(ctx context.Context, tournamentID, division int) ([]models.Debater, error)

	TeamResults(ctx context.Context, teamID int, season string, division int, flag Flag) ([]ResultRow, error)
	DebaterTeamResults(ctx context.Context, debaterID int, season string, division int, flag Flag) ([]ResultRow, error)
	SpeakerResults(ctx context.Context, debaterID int, season string, division int, flag Flag) ([]ResultRow, error)
	TeamHasResults(ctx context.Context, teamID int) (bool, error)
	DebaterHasResults(ctx context.Context, debaterID int) (bool, error)
	DeleteTeam(ctx context.Context, teamID int) error
	DeleteDebater(ctx context.Context, debaterID int) error

	TeamReaffFrom(ctx context.Context, oldTeamID int, season string) (*models.TeamReaff, error)
	TeamReaffsInto(ctx context.Context, newTeamID int, season string) ([]models.TeamReaff, error)
	ReaffFrom(ctx context.Context, oldDebaterID int, season string) (*models.Reaff, error)
	ReaffsInto(ctx context.Context, newDebaterID int, season string) ([]models.Reaff, error)

	Standing(ctx context.Context, cat models.Category, entityID int, season string) (*models.Standing, error)
	UpsertStanding(ctx context.Context, st *models.Standing) error
	DeleteStanding(ctx context.Context, cat models.Category, entityID int, season string) (bool, error)
	DeleteSchoolStandings(ctx context.Context, cat models.Category, schoolID int, season string) (int, error)
	SeasonStandings(ctx context.Context, cat models.Category, season string) ([]models.Standing, error)

	QualPoints(ctx context.Context, debaterID int, season string) (*models.QualPoints, error)
	UpsertQualPoints(ctx context.Context, qp *models.QualPoints) error
	DeleteQualPoints(ctx context.Context, debaterID int, season string) (bool, error)
	DeleteSchoolQualPoints(ctx context.Context, schoolID int, season string) (int, error)
	SchoolQualPoints(ctx context.Context, schoolID int, season string) ([]models.QualPoints, error)

	HasQual(ctx context.Context, debaterID int, season string, qualType int) (bool, error)
	CreateQual(ctx context.Context, q *models.Qual) error
	DebaterQuals(ctx context.Context, debaterID int, season string) ([]models.Qual, error)
	DeleteQual(ctx context.Context, debaterID int, season string, qualType int) (bool, error)
	DeleteSchoolQuals(ctx context.Context, schoolID int, season string) (int, error)
	QualifiedDebaterCount(ctx context.Context, schoolID int, season string) (int, error)
}

// DBStore implements Store on bun/PostgreSQL.
type DBStore struct {
	db *bun.DB
}

// NewStore wraps a bun connection.
func NewStore(db *bun.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Teams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.NewSelect().Model(&teams).OrderExpr("t.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *DBStore) Debaters(ctx context.Context) ([]models.Debater, error) {
	var debaters []models.Debater
	if err := s.db.NewSelect().Model(&debaters).OrderExpr("d.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list debaters: %w", err)
	}
	return debaters, nil
}

func (s *DBStore) Schools(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	if err := s.db.NewSelect().Model(&schools).OrderExpr("s.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

func (s *DBStore) School(ctx context.Context, id int) (*models.School, error) {
	school := &models.School{}
	err := s.db.NewSelect().Model(school).Where("s.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("school %d: %w", id, err)
	}
	return school, nil
}

func (s *DBStore) TeamDebaters(ctx context.Context, teamID int) ([]models.Debater, error) {
	var debaters []models.Debater
	err := s.db.NewSelect().Model(&debaters).
		Join("INNER JOIN team_debaters td ON td.debater_id = d.id").
		Where("td.team_id = ?", teamID).
		OrderExpr("d.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("team %d debaters: %w", teamID, err)
	}
	return debaters, nil
}

func (s *DBStore) Tournament(ctx context.Context, id int) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := s.db.NewSelect().Model(t).Where("tn.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("tournament %d: %w", id, err)
	}
	return t, nil
}

func (s *DBStore) TeamsForTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.NewSelect().Model(&teams).
		Where("t.id IN (SELECT team_id FROM team_results WHERE tournament_id = ?)", tournamentID).
		OrderExpr("t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournament %d teams: %w", tournamentID, err)
	}
	return teams, nil
}

func (s *DBStore) SpeakersForTournament(ctx context.Context, tournamentID, division int) ([]models.Debater, error) {
	var debaters []models.Debater
	err := s.db.NewSelect().Model(&debaters).
		Where("d.id IN (SELECT debater_id FROM speaker_results WHERE tournament_id = ? AND type_of_place = ?)",
			tournamentID, division).
		OrderExpr("d.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournament %d speakers: %w", tournamentID, err)
	}
	return debaters, nil
}

func (s *DBStore) TeamResults(ctx context.Context, teamID int, season string, division int, flag Flag) ([]ResultRow, error) {
	col, ok := flagColumns[flag]
	if !ok {
		return nil, fmt.Errorf("unknown category flag %q", flag)
	}

	var results []models.TeamResult
	err := s.db.NewSelect().Model(&results).
		Relation("Tournament").
		Where("tr.team_id = ?", teamID).
		Where("tournament.season = ?", season).
		Where("tr.type_of_place = ?", division).
		Where("tournament."+col+" = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("team %d results: %w", teamID, err)
	}

	rows := make([]ResultRow, 0, len(results))
	for _, r := range results {
		if r.Tournament == nil {
			continue
		}
		rows = append(rows, ResultRow{
			Place:       r.Place,
			GhostPoints: r.GhostPoints,
			Tournament:  *r.Tournament,
		})
	}
	return rows, nil
}

func (s *DBStore) DebaterTeamResults(ctx context.Context, debaterID int, season string, division int, flag Flag) ([]ResultRow, error) {
	col, ok := flagColumns[flag]
	if !ok {
		return nil, fmt.Errorf("unknown category flag %q", flag)
	}

	var results []models.TeamResult
	err := s.db.NewSelect().Model(&results).
		Relation("Tournament").
		Where("tr.team_id IN (SELECT team_id FROM team_debaters WHERE debater_id = ?)", debaterID).
		Where("tournament.season = ?", season).
		Where("tr.type_of_place = ?", division).
		Where("tournament."+col+" = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("debater %d team results: %w", debaterID, err)
	}

	rows := make([]ResultRow, 0, len(results))
	for _, r := range results {
		if r.Tournament == nil {
			continue
		}
		rows = append(rows, ResultRow{
			Place:       r.Place,
			GhostPoints: r.GhostPoints,
			Tournament:  *r.Tournament,
		})
	}
	return rows, nil
}

func (s *DBStore) SpeakerResults(ctx context.Context, debaterID int, season string, division int, flag Flag) ([]ResultRow, error) {
	col, ok := flagColumns[flag]
	if !ok {
		return nil, fmt.Errorf("unknown category flag %q", flag)
	}

	var results []models.SpeakerResult
	err := s.db.NewSelect().Model(&results).
		Relation("Tournament").
		Where("sr.debater_id = ?", debaterID).
		Where("tournament.season = ?", season).
		Where("sr.type_of_place = ?", division).
		Where("tournament."+col+" = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("debater %d speaker results: %w", debaterID, err)
	}

	rows := make([]ResultRow, 0, len(results))
	for _, r := range results {
		if r.Tournament == nil {
			continue
		}
		rows = append(rows, ResultRow{
			Place:      r.Place,
			Tie:        r.Tie,
			Tournament: *r.Tournament,
		})
	}
	return rows, nil
}

func (s *DBStore) TeamHasResults(ctx context.Context, teamID int) (bool, error) {
	return s.db.NewSelect().Model((*models.TeamResult)(nil)).
		Where("team_id = ?", teamID).
		Exists(ctx)
}

func (s *DBStore) DebaterHasResults(ctx context.Context, debaterID int) (bool, error) {
	spoke, err := s.db.NewSelect().Model((*models.SpeakerResult)(nil)).
		Where("debater_id = ?", debaterID).
		Exists(ctx)
	if err != nil || spoke {
		return spoke, err
	}
	return s.db.NewSelect().Model((*models.TeamResult)(nil)).
		Where("team_id IN (SELECT team_id FROM team_debaters WHERE debater_id = ?)", debaterID).
		Exists(ctx)
}

func (s *DBStore) DeleteTeam(ctx context.Context, teamID int) error {
	if _, err := s.db.NewDelete().Model((*models.TeamDebater)(nil)).
		Where("team_id = ?", teamID).Exec(ctx); err != nil {
		return fmt.Errorf("delete team %d members: %w", teamID, err)
	}
	if _, err := s.db.NewDelete().Model((*models.Team)(nil)).
		Where("id = ?", teamID).Exec(ctx); err != nil {
		return fmt.Errorf("delete team %d: %w", teamID, err)
	}
	return nil
}

func (s *DBStore) DeleteDebater(ctx context.Context, debaterID int) error {
	if _, err := s.db.NewDelete().Model((*models.TeamDebater)(nil)).
		Where("debater_id = ?", debaterID).Exec(ctx); err != nil {
		return fmt.Errorf("delete debater %d memberships: %w", debaterID, err)
	}
	if _, err := s.db.NewDelete().Model((*models.Debater)(nil)).
		Where("id = ?", debaterID).Exec(ctx); err != nil {
		return fmt.Errorf("delete debater %d: %w", debaterID, err)
	}
	return nil
}

func (s *DBStore) TeamReaffFrom(ctx context.Context, oldTeamID int, season string) (*models.TeamReaff, error) {
	rf := &models.TeamReaff{}
	err := s.db.NewSelect().Model(rf).
		Where("old_team_id = ?", oldTeamID).
		Where("season = ?", season).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("team reaff from %d: %w", oldTeamID, err)
	}
	return rf, nil
}

func (s *DBStore) TeamReaffsInto(ctx context.Context, newTeamID int, season string) ([]models.TeamReaff, error) {
	var rfs []models.TeamReaff
	err := s.db.NewSelect().Model(&rfs).
		Where("new_team_id = ?", newTeamID).
		Where("season = ?", season).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("team reaffs into %d: %w", newTeamID, err)
	}
	return rfs, nil
}

func (s *DBStore) ReaffFrom(ctx context.Context, oldDebaterID int, season string) (*models.Reaff, error) {
	rf := &models.Reaff{}
	err := s.db.NewSelect().Model(rf).
		Where("old_debater_id = ?", oldDebaterID).
		Where("season = ?", season).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reaff from %d: %w", oldDebaterID, err)
	}
	return rf, nil
}

func (s *DBStore) ReaffsInto(ctx context.Context, newDebaterID int, season string) ([]models.Reaff, error) {
	var rfs []models.Reaff
	err := s.db.NewSelect().Model(&rfs).
		Where("new_debater_id = ?", newDebaterID).
		Where("season = ?", season).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("reaffs into %d: %w", newDebaterID, err)
	}
	return rfs, nil
}

func (s *DBStore) Standing(ctx context.Context, cat models.Category, entityID int, season string) (*models.Standing, error) {
	st := &models.Standing{}
	err := s.db.NewSelect().Model(st).
		Where("category = ?", cat).
		Where("entity_id = ?", entityID).
		Where("season = ?", season).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("standing %s/%d/%s: %w", cat, entityID, season, err)
	}
	return st, nil
}

func (s *DBStore) UpsertStanding(ctx context.Context, st *models.Standing) error {
	_, err := s.db.NewInsert().Model(st).
		On("CONFLICT (category, entity_id, season) DO UPDATE").
		Set("points = EXCLUDED.points, place = EXCLUDED.place, tied = EXCLUDED.tied, markers = EXCLUDED.markers").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert standing %s/%d/%s: %w", st.Category, st.EntityID, st.Season, err)
	}
	return nil
}

func (s *DBStore) DeleteStanding(ctx context.Context, cat models.Category, entityID int, season string) (bool, error) {
	res, err := s.db.NewDelete().Model((*models.Standing)(nil)).
		Where("category = ?", cat).
		Where("entity_id = ?", entityID).
		Where("season = ?", season).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete standing %s/%d/%s: %w", cat, entityID, season, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *DBStore) DeleteSchoolStandings(ctx context.Context, cat models.Category, schoolID int, season string) (int, error) {
	q := s.db.NewDelete().Model((*models.Standing)(nil)).
		Where("category = ?", cat).
		Where("season = ?", season)

	switch cat {
	case models.TOTY:
		q = q.Where(`entity_id IN (SELECT td.team_id FROM team_debaters td
			INNER JOIN debaters d ON d.id = td.debater_id WHERE d.school_id = ?)`, schoolID)
	case models.COTY:
		q = q.Where("entity_id = ?", schoolID)
	default:
		q = q.Where("entity_id IN (SELECT id FROM debaters WHERE school_id = ?)", schoolID)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete %s standings for school %d: %w", cat, schoolID, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *DBStore) SeasonStandings(ctx context.Context, cat models.Category, season string) ([]models.Standing, error) {
	var sts []models.Standing
	err := s.db.NewSelect().Model(&sts).
		Where("category = ?", cat).
		Where("season = ?", season).
		OrderExpr("points DESC, entity_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s standings for %s: %w", cat, season, err)
	}
	return sts, nil
}

func (s *DBStore) QualPoints(ctx context.Context, debaterID int, season string) (*models.QualPoints, error) {
	qp := &models.QualPoints{}
	err := s.db.NewSelect().Model(qp).
		Where("debater_id = ?", debaterID).
		Where("season = ?", season).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("qual points %d/%s: %w", debaterID, season, err)
	}
	return qp, nil
}

func (s *DBStore) UpsertQualPoints(ctx context.Context, qp *models.QualPoints) error {
	_, err := s.db.NewInsert().Model(qp).
		On("CONFLICT (debater_id, season) DO UPDATE").
		Set("points = EXCLUDED.points").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert qual points %d/%s: %w", qp.DebaterID, qp.Season, err)
	}
	return nil
}

func (s *DBStore) DeleteQualPoints(ctx context.Context, debaterID int, season string) (bool, error) {
	res, err := s.db.NewDelete().Model((*models.QualPoints)(nil)).
		Where("debater_id = ?", debaterID).
		Where("season = ?", season).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete qual points %d/%s: %w", debaterID, season, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *DBStore) DeleteSchoolQualPoints(ctx context.Context, schoolID int, season string) (int, error) {
	res, err := s.db.NewDelete().Model((*models.QualPoints)(nil)).
		Where("season = ?", season).
		Where("debater_id IN (SELECT id FROM debaters WHERE school_id = ?)", schoolID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete qual points for school %d: %w", schoolID, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *DBStore) SchoolQualPoints(ctx context.Context, schoolID int, season string) ([]models.QualPoints, error) {
	var qps []models.QualPoints
	err := s.db.NewSelect().Model(&qps).
		Where("qp.season = ?", season).
		Where("qp.debater_id IN (SELECT id FROM debaters WHERE school_id = ?)", schoolID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("qual points for school %d: %w", schoolID, err)
	}
	return qps, nil
}

func (s *DBStore) HasQual(ctx context.Context, debaterID int, season string, qualType int) (bool, error) {
	return s.db.NewSelect().Model((*models.Qual)(nil)).
		Where("debater_id = ?", debaterID).
		Where("season = ?", season).
		Where("qual_type = ?", qualType).
		Exists(ctx)
}

func (s *DBStore) CreateQual(ctx context.Context, q *models.Qual) error {
	if _, err := s.db.NewInsert().Model(q).Exec(ctx); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return fmt.Errorf("qual %d/%s type %d: %w", q.DebaterID, q.Season, q.QualType, ErrDuplicateQualification)
		}
		return fmt.Errorf("create qual %d/%s: %w", q.DebaterID, q.Season, err)
	}
	return nil
}

func (s *DBStore) DebaterQuals(ctx context.Context, debaterID int, season string) ([]models.Qual, error) {
	var quals []models.Qual
	if err := s.db.NewSelect().Model(&quals).
		Where("debater_id = ?", debaterID).
		Where("season = ?", season).
		OrderExpr("q.qual_type ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("quals for debater %d: %w", debaterID, err)
	}
	return quals, nil
}

func (s *DBStore) DeleteQual(ctx context.Context, debaterID int, season string, qualType int) (bool, error) {
	res, err := s.db.NewDelete().Model((*models.Qual)(nil)).
		Where("debater_id = ?", debaterID).
		Where("season = ?", season).
		Where("qual_type = ?", qualType).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete qual %d/%s type %d: %w", debaterID, season, qualType, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *DBStore) DeleteSchoolQuals(ctx context.Context, schoolID int, season string) (int, error) {
	res, err := s.db.NewDelete().Model((*models.Qual)(nil)).
		Where("season = ?", season).
		Where("debater_id IN (SELECT id FROM debaters WHERE school_id = ?)", schoolID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete quals for school %d: %w", schoolID, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *DBStore) QualifiedDebaterCount(ctx context.Context, schoolID int, season string) (int, error) {
	var n int
	err := s.db.NewSelect().
		TableExpr("quals q").
		ColumnExpr("COUNT(DISTINCT q.debater_id)").
		Join("INNER JOIN debaters d ON d.id = q.debater_id").
		Where("q.season = ?", season).
		Where("d.school_id = ?", schoolID).
		Scan(ctx, &n)
	if err != nil {
		return 0, fmt.Errorf("qualified debaters for school %d: %w", schoolID, err)
	}
	return n, nil
}
