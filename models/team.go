package models

import "github.com/uptrace/bun"

// Team is a pairing of two debaters for team results.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID   int    `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

// TeamDebater links a debater to a team.
type TeamDebater struct {
	bun.BaseModel `bun:"table:team_debaters,alias:td"`

	TeamID    int `bun:"team_id,notnull" json:"teamID"`
	DebaterID int `bun:"debater_id,notnull" json:"debaterID"`
}

// TeamReaff redirects one season's team results from an old team identity
// to a new one, mirroring Reaff for individual debaters.
type TeamReaff struct {
	bun.BaseModel `bun:"table:team_reaffs,alias:trf"`

	ID        int    `bun:"id,pk,autoincrement" json:"id"`
	Season    string `bun:"season,notnull" json:"season"`
	OldTeamID int    `bun:"old_team_id,notnull" json:"oldTeamID"`
	NewTeamID int    `bun:"new_team_id,notnull" json:"newTeamID"`
}
