package models

import "github.com/uptrace/bun"

// Division values used on debaters and results.
const (
	Novice  = 0
	Varsity = 1
)

// Debater is an individual competitor.
type Debater struct {
	bun.BaseModel `bun:"table:debaters,alias:d"`

	ID           int     `bun:"id,pk,autoincrement" json:"id"`
	FirstName    string  `bun:"first_name,notnull" json:"firstName"`
	LastName     string  `bun:"last_name,notnull" json:"lastName"`
	SchoolID     *int    `bun:"school_id" json:"schoolID,omitempty"`
	Status       int     `bun:"status,notnull,default:1" json:"status"`
	FirstSeason  *string `bun:"first_season" json:"firstSeason,omitempty"`
	LatestSeason *string `bun:"latest_season" json:"latestSeason,omitempty"`

	School *School `bun:"rel:belongs-to,join:school_id=id" json:"-"`
}

// Name returns "First Last".
func (d *Debater) Name() string {
	return d.FirstName + " " + d.LastName
}

// Reaff redirects one season's results from an old debater identity to a
// new one. The old identity's standings for that season are suppressed;
// the new identity's aggregation absorbs the redirected results.
type Reaff struct {
	bun.BaseModel `bun:"table:reaffs,alias:rf"`

	ID           int    `bun:"id,pk,autoincrement" json:"id"`
	Season       string `bun:"season,notnull" json:"season"`
	OldDebaterID int    `bun:"old_debater_id,notnull" json:"oldDebaterID"`
	NewDebaterID int    `bun:"new_debater_id,notnull" json:"newDebaterID"`
}
