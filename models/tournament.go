package models

import "github.com/uptrace/bun"

// Tournament is one weekend's competition. The category flags gate which
// seasonal awards its results feed; AutoqualBar is the place at or above
// which a team result earns automatic qualification of QualType.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:tn"`

	ID     int    `bun:"id,pk,autoincrement" json:"id"`
	Name   string `bun:"name,notnull" json:"name"`
	Season string `bun:"season,notnull" json:"season"`

	NumTeams          int `bun:"num_teams,notnull" json:"numTeams"`
	NumNoviceTeams    int `bun:"num_novice_teams,notnull,default:0" json:"numNoviceTeams"`
	NumDebaters       int `bun:"num_debaters,notnull" json:"numDebaters"`
	NumNoviceDebaters int `bun:"num_novice_debaters,notnull,default:0" json:"numNoviceDebaters"`

	TOTY bool `bun:"toty,notnull,default:true" json:"toty"`
	SOTY bool `bun:"soty,notnull,default:true" json:"soty"`
	NOTY bool `bun:"noty,notnull,default:true" json:"noty"`
	Qual bool `bun:"qual,notnull,default:true" json:"qual"`

	QualType    int `bun:"qual_type,notnull,default:0" json:"qualType"`
	AutoqualBar int `bun:"autoqual_bar,notnull,default:0" json:"autoqualBar"`
}
