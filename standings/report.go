package standings

import "github.com/padraicbc/apdarank/models"

// Removal records one cleanup side-effect of an aggregation pass so
// callers (and tests) can see exactly what was deleted and why, instead
// of the deletions happening silently inside the store.
type Removal struct {
	Kind     string          `json:"kind"` // standing, team, debater, qual, qual_points, school_standings
	Category models.Category `json:"category,omitempty"`
	EntityID int             `json:"entityID"`
	Season   string          `json:"season,omitempty"`
	Reason   string          `json:"reason"`
	Count    int             `json:"count,omitempty"` // school-wide removals only
}

// Report summarises one recompute pass.
type Report struct {
	Season   string    `json:"season"`
	Teams    int       `json:"teams"`
	Debaters int       `json:"debaters"`
	Schools  int       `json:"schools"`
	Removals []Removal `json:"removals,omitempty"`
}

const (
	kindStanding        = "standing"
	kindTeam            = "team"
	kindDebater         = "debater"
	kindQual            = "qual"
	kindQualPoints      = "qual_points"
	kindSchoolStandings = "school_standings"
)
