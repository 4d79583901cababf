package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/apdarank/models"
)

// standingRow is a flat scan target for the standings join queries.
type standingRow struct {
	EntityID int             `bun:"entity_id"`
	Name     string          `bun:"name"`
	School   string          `bun:"school"`
	Points   float64         `bun:"points"`
	Place    int             `bun:"place"`
	Tied     bool            `bun:"tied"`
	Markers  json.RawMessage `bun:"markers"`
}

type standingEntry struct {
	EntityID int             `json:"entityID"`
	Name     string          `json:"name"`
	School   string          `json:"school,omitempty"`
	Points   float64         `json:"points"`
	Place    int             `json:"place"`
	Tied     bool            `json:"tied,omitempty"`
	Markers  json.RawMessage `json:"markers,omitempty"`
}

const teamStandingsSQL = `
SELECT st.entity_id, t.name AS name, '' AS school,
       st.points, st.place, st.tied, st.markers
FROM standings st
INNER JOIN teams t ON t.id = st.entity_id
`

const speakerStandingsSQL = `
SELECT st.entity_id, d.first_name || ' ' || d.last_name AS name,
       COALESCE(s.name, '') AS school,
       st.points, st.place, st.tied, st.markers
FROM standings st
INNER JOIN debaters d ON d.id = st.entity_id
LEFT JOIN schools s ON s.id = d.school_id
`

const schoolStandingsSQL = `
SELECT st.entity_id, s.name AS name, '' AS school,
       st.points, st.place, st.tied, st.markers
FROM standings st
INNER JOIN schools s ON s.id = st.entity_id
`

func standingsSQLFor(cat models.Category) string {
	switch cat {
	case models.TOTY:
		return teamStandingsSQL
	case models.COTY:
		return schoolStandingsSQL
	case models.SOTY, models.NOTY, models.OnlineQual:
		return speakerStandingsSQL
	}
	return ""
}

// Standings returns one category's ranked table for a season. Unranked
// rows (place -1, still awaiting a ranking pass) are excluded.
func (h *Handler) Standings(c echo.Context) error {
	cat := models.Category(c.QueryParam("type"))
	join := standingsSQLFor(cat)
	if join == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown or missing type param")
	}
	season := h.seasonParam(c.QueryParam("season"))

	var rows []standingRow
	q := join + `WHERE st.category = ? AND st.season = ? AND st.place > 0 ORDER BY st.place, name`
	if err := h.db.NewRaw(q, string(cat), season).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]standingEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, standingEntry(r))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"type":      cat,
		"season":    season,
		"standings": out,
	})
}

type qualRow struct {
	DebaterID    int    `bun:"debater_id"`
	Name         string `bun:"name"`
	School       string `bun:"school"`
	QualType     int    `bun:"qual_type"`
	TournamentID *int   `bun:"tournament_id"`
}

type qualEntry struct {
	DebaterID int      `json:"debaterID"`
	Name      string   `json:"name"`
	School    string   `json:"school,omitempty"`
	Quals     []string `json:"quals"`
}

const qualsJoinSQL = `
SELECT q.debater_id, d.first_name || ' ' || d.last_name AS name,
       COALESCE(s.name, '') AS school, q.qual_type, q.tournament_id
FROM quals q
INNER JOIN debaters d ON d.id = q.debater_id
LEFT JOIN schools s ON s.id = d.school_id
`

// Quals returns the season's qualified debaters grouped by debater, each
// with the list of ways they qualified.
func (h *Handler) Quals(c echo.Context) error {
	season := h.seasonParam(c.QueryParam("season"))

	var rows []qualRow
	q := qualsJoinSQL + `WHERE q.season = ? ORDER BY school, name, q.qual_type`
	if err := h.db.NewRaw(q, season).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	order := []int{}
	byDebater := map[int]*qualEntry{}
	for _, r := range rows {
		e, ok := byDebater[r.DebaterID]
		if !ok {
			order = append(order, r.DebaterID)
			e = &qualEntry{DebaterID: r.DebaterID, Name: r.Name, School: r.School}
			byDebater[r.DebaterID] = e
		}
		e.Quals = append(e.Quals, models.QualTypeName(r.QualType))
	}

	out := make([]qualEntry, 0, len(order))
	for _, id := range order {
		out = append(out, *byDebater[id])
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"season": season,
		"quals":  out,
	})
}

type qualPointsRow struct {
	DebaterID int     `bun:"debater_id"`
	Name      string  `bun:"name"`
	School    string  `bun:"school"`
	Points    float64 `bun:"points"`
}

type qualPointsEntry struct {
	DebaterID int     `json:"debaterID"`
	Name      string  `json:"name"`
	School    string  `json:"school,omitempty"`
	Points    float64 `json:"points"`
}

const qualPointsJoinSQL = `
SELECT qp.debater_id, d.first_name || ' ' || d.last_name AS name,
       COALESCE(s.name, '') AS school, qp.points
FROM qual_points qp
INNER JOIN debaters d ON d.id = qp.debater_id
LEFT JOIN schools s ON s.id = d.school_id
`

// QualPoints returns every debater's cumulative qualification score for
// a season, best first.
func (h *Handler) QualPoints(c echo.Context) error {
	season := h.seasonParam(c.QueryParam("season"))

	var rows []qualPointsRow
	q := qualPointsJoinSQL + `WHERE qp.season = ? ORDER BY qp.points DESC, name`
	if err := h.db.NewRaw(q, season).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]qualPointsEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, qualPointsEntry(r))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"season":     season,
		"qualPoints": out,
	})
}
