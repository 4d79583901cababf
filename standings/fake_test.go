package standings

import (
	"context"
	"fmt"

	"github.com/padraicbc/apdarank/models"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	nextID int

	schools      map[int]*models.School
	debaters     map[int]*models.Debater
	teams        map[int]*models.Team
	teamDebaters []models.TeamDebater
	tournaments  map[int]*models.Tournament

	teamResults    []models.TeamResult
	speakerResults []models.SpeakerResult
	reaffs         []models.Reaff
	teamReaffs     []models.TeamReaff

	standings  map[string]*models.Standing
	qualPoints map[string]*models.QualPoints
	quals      []models.Qual
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schools:     make(map[int]*models.School),
		debaters:    make(map[int]*models.Debater),
		teams:       make(map[int]*models.Team),
		tournaments: make(map[int]*models.Tournament),
		standings:   make(map[string]*models.Standing),
		qualPoints:  make(map[string]*models.QualPoints),
	}
}

func (f *fakeStore) id() int {
	f.nextID++
	return f.nextID
}

func standingKey(cat models.Category, entityID int, season string) string {
	return fmt.Sprintf("%s/%d/%s", cat, entityID, season)
}

func qpKey(debaterID int, season string) string {
	return fmt.Sprintf("%d/%s", debaterID, season)
}

// Builders used by tests.

func (f *fakeStore) addSchool(name string, included bool) *models.School {
	s := &models.School{ID: f.id(), Name: name, IncludedInOTY: included}
	f.schools[s.ID] = s
	return s
}

func (f *fakeStore) addDebater(first, last string, schoolID *int) *models.Debater {
	d := &models.Debater{ID: f.id(), FirstName: first, LastName: last, SchoolID: schoolID, Status: models.Varsity}
	f.debaters[d.ID] = d
	return d
}

func (f *fakeStore) addTeam(name string, debaterIDs ...int) *models.Team {
	t := &models.Team{ID: f.id(), Name: name}
	f.teams[t.ID] = t
	for _, id := range debaterIDs {
		f.teamDebaters = append(f.teamDebaters, models.TeamDebater{TeamID: t.ID, DebaterID: id})
	}
	return t
}

func (f *fakeStore) addTournament(t models.Tournament) *models.Tournament {
	t.ID = f.id()
	f.tournaments[t.ID] = &t
	return f.tournaments[t.ID]
}

func (f *fakeStore) addTeamResult(tournamentID, teamID, place int, ghost bool) {
	f.teamResults = append(f.teamResults, models.TeamResult{
		ID:           f.id(),
		TournamentID: tournamentID,
		TeamID:       teamID,
		TypeOfPlace:  models.Varsity,
		Place:        place,
		GhostPoints:  ghost,
	})
}

func (f *fakeStore) addSpeakerResult(tournamentID, debaterID, division, place int) {
	f.speakerResults = append(f.speakerResults, models.SpeakerResult{
		ID:           f.id(),
		TournamentID: tournamentID,
		DebaterID:    debaterID,
		TypeOfPlace:  division,
		Place:        place,
	})
}

func flagSet(t *models.Tournament, flag Flag) bool {
	switch flag {
	case FlagTOTY:
		return t.TOTY
	case FlagSOTY:
		return t.SOTY
	case FlagNOTY:
		return t.NOTY
	case FlagQual:
		return t.Qual
	}
	return false
}

// Store implementation.

func (f *fakeStore) Teams(context.Context) ([]models.Team, error) {
	var out []models.Team
	for i := 1; i <= f.nextID; i++ {
		if t, ok := f.teams[i]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) Debaters(context.Context) ([]models.Debater, error) {
	var out []models.Debater
	for i := 1; i <= f.nextID; i++ {
		if d, ok := f.debaters[i]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeStore) Schools(context.Context) ([]models.School, error) {
	var out []models.School
	for i := 1; i <= f.nextID; i++ {
		if s, ok := f.schools[i]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) School(_ context.Context, id int) (*models.School, error) {
	s, ok := f.schools[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) TeamDebaters(_ context.Context, teamID int) ([]models.Debater, error) {
	var out []models.Debater
	for _, td := range f.teamDebaters {
		if td.TeamID == teamID {
			if d, ok := f.debaters[td.DebaterID]; ok {
				out = append(out, *d)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) Tournament(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) TeamsForTournament(_ context.Context, tournamentID int) ([]models.Team, error) {
	seen := make(map[int]bool)
	var out []models.Team
	for _, r := range f.teamResults {
		if r.TournamentID == tournamentID && !seen[r.TeamID] {
			seen[r.TeamID] = true
			if t, ok := f.teams[r.TeamID]; ok {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) SpeakersForTournament(_ context.Context, tournamentID, division int) ([]models.Debater, error) {
	seen := make(map[int]bool)
	var out []models.Debater
	for _, r := range f.speakerResults {
		if r.TournamentID == tournamentID && r.TypeOfPlace == division && !seen[r.DebaterID] {
			seen[r.DebaterID] = true
			if d, ok := f.debaters[r.DebaterID]; ok {
				out = append(out, *d)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) teamRows(teamID int, season string, division int, flag Flag) []ResultRow {
	var rows []ResultRow
	for _, r := range f.teamResults {
		if r.TeamID != teamID || r.TypeOfPlace != division {
			continue
		}
		t, ok := f.tournaments[r.TournamentID]
		if !ok || t.Season != season || !flagSet(t, flag) {
			continue
		}
		rows = append(rows, ResultRow{Place: r.Place, GhostPoints: r.GhostPoints, Tournament: *t})
	}
	return rows
}

func (f *fakeStore) TeamResults(_ context.Context, teamID int, season string, division int, flag Flag) ([]ResultRow, error) {
	return f.teamRows(teamID, season, division, flag), nil
}

func (f *fakeStore) DebaterTeamResults(_ context.Context, debaterID int, season string, division int, flag Flag) ([]ResultRow, error) {
	var rows []ResultRow
	for _, td := range f.teamDebaters {
		if td.DebaterID == debaterID {
			rows = append(rows, f.teamRows(td.TeamID, season, division, flag)...)
		}
	}
	return rows, nil
}

func (f *fakeStore) SpeakerResults(_ context.Context, debaterID int, season string, division int, flag Flag) ([]ResultRow, error) {
	var rows []ResultRow
	for _, r := range f.speakerResults {
		if r.DebaterID != debaterID || r.TypeOfPlace != division {
			continue
		}
		t, ok := f.tournaments[r.TournamentID]
		if !ok || t.Season != season || !flagSet(t, flag) {
			continue
		}
		rows = append(rows, ResultRow{Place: r.Place, Tie: r.Tie, Tournament: *t})
	}
	return rows, nil
}

func (f *fakeStore) TeamHasResults(_ context.Context, teamID int) (bool, error) {
	for _, r := range f.teamResults {
		if r.TeamID == teamID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DebaterHasResults(_ context.Context, debaterID int) (bool, error) {
	for _, r := range f.speakerResults {
		if r.DebaterID == debaterID {
			return true, nil
		}
	}
	for _, td := range f.teamDebaters {
		if td.DebaterID != debaterID {
			continue
		}
		for _, r := range f.teamResults {
			if r.TeamID == td.TeamID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeStore) DeleteTeam(_ context.Context, teamID int) error {
	delete(f.teams, teamID)
	kept := f.teamDebaters[:0]
	for _, td := range f.teamDebaters {
		if td.TeamID != teamID {
			kept = append(kept, td)
		}
	}
	f.teamDebaters = kept
	return nil
}

func (f *fakeStore) DeleteDebater(_ context.Context, debaterID int) error {
	delete(f.debaters, debaterID)
	kept := f.teamDebaters[:0]
	for _, td := range f.teamDebaters {
		if td.DebaterID != debaterID {
			kept = append(kept, td)
		}
	}
	f.teamDebaters = kept
	return nil
}

func (f *fakeStore) TeamReaffFrom(_ context.Context, oldTeamID int, season string) (*models.TeamReaff, error) {
	for _, rf := range f.teamReaffs {
		if rf.OldTeamID == oldTeamID && rf.Season == season {
			cp := rf
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) TeamReaffsInto(_ context.Context, newTeamID int, season string) ([]models.TeamReaff, error) {
	var out []models.TeamReaff
	for _, rf := range f.teamReaffs {
		if rf.NewTeamID == newTeamID && rf.Season == season {
			out = append(out, rf)
		}
	}
	return out, nil
}

func (f *fakeStore) ReaffFrom(_ context.Context, oldDebaterID int, season string) (*models.Reaff, error) {
	for _, rf := range f.reaffs {
		if rf.OldDebaterID == oldDebaterID && rf.Season == season {
			cp := rf
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ReaffsInto(_ context.Context, newDebaterID int, season string) ([]models.Reaff, error) {
	var out []models.Reaff
	for _, rf := range f.reaffs {
		if rf.NewDebaterID == newDebaterID && rf.Season == season {
			out = append(out, rf)
		}
	}
	return out, nil
}

func (f *fakeStore) Standing(_ context.Context, cat models.Category, entityID int, season string) (*models.Standing, error) {
	st, ok := f.standings[standingKey(cat, entityID, season)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStore) UpsertStanding(_ context.Context, st *models.Standing) error {
	if st.ID == 0 {
		st.ID = f.id()
	}
	cp := *st
	f.standings[standingKey(st.Category, st.EntityID, st.Season)] = &cp
	return nil
}

func (f *fakeStore) DeleteStanding(_ context.Context, cat models.Category, entityID int, season string) (bool, error) {
	key := standingKey(cat, entityID, season)
	if _, ok := f.standings[key]; !ok {
		return false, nil
	}
	delete(f.standings, key)
	return true, nil
}

func (f *fakeStore) schoolEntityIDs(cat models.Category, schoolID int) map[int]bool {
	ids := make(map[int]bool)
	switch cat {
	case models.COTY:
		ids[schoolID] = true
	case models.TOTY:
		for _, td := range f.teamDebaters {
			d, ok := f.debaters[td.DebaterID]
			if ok && d.SchoolID != nil && *d.SchoolID == schoolID {
				ids[td.TeamID] = true
			}
		}
	default:
		for id, d := range f.debaters {
			if d.SchoolID != nil && *d.SchoolID == schoolID {
				ids[id] = true
			}
		}
	}
	return ids
}

func (f *fakeStore) DeleteSchoolStandings(_ context.Context, cat models.Category, schoolID int, season string) (int, error) {
	ids := f.schoolEntityIDs(cat, schoolID)
	n := 0
	for key, st := range f.standings {
		if st.Category == cat && st.Season == season && ids[st.EntityID] {
			delete(f.standings, key)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) SeasonStandings(_ context.Context, cat models.Category, season string) ([]models.Standing, error) {
	var out []models.Standing
	for i := 1; i <= f.nextID; i++ {
		for _, st := range f.standings {
			if st.ID == i && st.Category == cat && st.Season == season {
				out = append(out, *st)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) QualPoints(_ context.Context, debaterID int, season string) (*models.QualPoints, error) {
	qp, ok := f.qualPoints[qpKey(debaterID, season)]
	if !ok {
		return nil, nil
	}
	cp := *qp
	return &cp, nil
}

func (f *fakeStore) UpsertQualPoints(_ context.Context, qp *models.QualPoints) error {
	key := qpKey(qp.DebaterID, qp.Season)
	if existing, ok := f.qualPoints[key]; ok {
		qp.ID = existing.ID
	} else if qp.ID == 0 {
		qp.ID = f.id()
	}
	cp := *qp
	f.qualPoints[key] = &cp
	return nil
}

func (f *fakeStore) DeleteQualPoints(_ context.Context, debaterID int, season string) (bool, error) {
	key := qpKey(debaterID, season)
	if _, ok := f.qualPoints[key]; !ok {
		return false, nil
	}
	delete(f.qualPoints, key)
	return true, nil
}

func (f *fakeStore) DeleteSchoolQualPoints(_ context.Context, schoolID int, season string) (int, error) {
	n := 0
	for key, qp := range f.qualPoints {
		d, ok := f.debaters[qp.DebaterID]
		if ok && qp.Season == season && d.SchoolID != nil && *d.SchoolID == schoolID {
			delete(f.qualPoints, key)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) SchoolQualPoints(_ context.Context, schoolID int, season string) ([]models.QualPoints, error) {
	var out []models.QualPoints
	for _, qp := range f.qualPoints {
		d, ok := f.debaters[qp.DebaterID]
		if ok && qp.Season == season && d.SchoolID != nil && *d.SchoolID == schoolID {
			out = append(out, *qp)
		}
	}
	return out, nil
}

func (f *fakeStore) HasQual(_ context.Context, debaterID int, season string, qualType int) (bool, error) {
	for _, q := range f.quals {
		if q.DebaterID == debaterID && q.Season == season && q.QualType == qualType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateQual(ctx context.Context, q *models.Qual) error {
	has, _ := f.HasQual(ctx, q.DebaterID, q.Season, q.QualType)
	if has {
		return fmt.Errorf("qual %d/%s: %w", q.DebaterID, q.Season, ErrDuplicateQualification)
	}
	q.ID = f.id()
	f.quals = append(f.quals, *q)
	return nil
}

func (f *fakeStore) DebaterQuals(_ context.Context, debaterID int, season string) ([]models.Qual, error) {
	var out []models.Qual
	for _, q := range f.quals {
		if q.DebaterID == debaterID && q.Season == season {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteQual(_ context.Context, debaterID int, season string, qualType int) (bool, error) {
	kept := f.quals[:0]
	deleted := false
	for _, q := range f.quals {
		if q.DebaterID == debaterID && q.Season == season && q.QualType == qualType {
			deleted = true
			continue
		}
		kept = append(kept, q)
	}
	f.quals = kept
	return deleted, nil
}

func (f *fakeStore) DeleteSchoolQuals(_ context.Context, schoolID int, season string) (int, error) {
	n := 0
	kept := f.quals[:0]
	for _, q := range f.quals {
		d, ok := f.debaters[q.DebaterID]
		if ok && q.Season == season && d.SchoolID != nil && *d.SchoolID == schoolID {
			n++
			continue
		}
		kept = append(kept, q)
	}
	f.quals = kept
	return n, nil
}

func (f *fakeStore) QualifiedDebaterCount(_ context.Context, schoolID int, season string) (int, error) {
	seen := make(map[int]bool)
	for _, q := range f.quals {
		d, ok := f.debaters[q.DebaterID]
		if ok && q.Season == season && d.SchoolID != nil && *d.SchoolID == schoolID {
			seen[q.DebaterID] = true
		}
	}
	return len(seen), nil
}

// fakeCache records cache traffic.
type fakeCache struct {
	invalidated []string
	warmed      []string
}

func (c *fakeCache) Invalidate(_ context.Context, category models.Category, season string) error {
	c.invalidated = append(c.invalidated, string(category)+"/"+season)
	return nil
}

func (c *fakeCache) Warm(_ context.Context, season string) error {
	c.warmed = append(c.warmed, season)
	return nil
}

var _ Store = (*fakeStore)(nil)
var _ PageCache = (*fakeCache)(nil)
