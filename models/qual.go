package models

import "github.com/uptrace/bun"

// Qualification types. Tournament-type quals are granted automatically by
// finishing at or inside the tournament's autoqual bar; the points type is
// granted when cumulative qualification points reach the season bar.
const (
	QualTypePoints = iota
	QualTypeBrandeis
	QualTypeYale
	QualTypeNorthAms
	QualTypeExpansion
	QualTypeWorlds
	QualTypeNAUDC
	QualTypeProAms
	QualTypeNationals
	QualTypeNovice
)

// QualTypeName maps a qualification type to its display name.
func QualTypeName(t int) string {
	switch t {
	case QualTypePoints:
		return "Points"
	case QualTypeBrandeis:
		return "Brandeis IV"
	case QualTypeYale:
		return "Yale IV"
	case QualTypeNorthAms:
		return "NorthAms"
	case QualTypeExpansion:
		return "Expansion"
	case QualTypeWorlds:
		return "Worlds"
	case QualTypeNAUDC:
		return "NAUDC"
	case QualTypeProAms:
		return "ProAms"
	case QualTypeNationals:
		return "Nationals"
	case QualTypeNovice:
		return "Novice"
	default:
		return "Unknown"
	}
}

// Qual records one debater's championship qualification for a season.
// At most one row exists per (debater, season, type).
type Qual struct {
	bun.BaseModel `bun:"table:quals,alias:q"`

	ID           int    `bun:"id,pk,autoincrement" json:"id"`
	DebaterID    int    `bun:"debater_id,notnull" json:"debaterID"`
	Season       string `bun:"season,notnull" json:"season"`
	QualType     int    `bun:"qual_type,notnull,default:0" json:"qualType"`
	TournamentID *int   `bun:"tournament_id" json:"tournamentID,omitempty"`
}

// QualPoints is a debater's cumulative qualification score for a season,
// distinct from the award standings; it feeds the points-type qual check
// and the chapter aggregate.
type QualPoints struct {
	bun.BaseModel `bun:"table:qual_points,alias:qp"`

	ID        int     `bun:"id,pk,autoincrement" json:"id"`
	DebaterID int     `bun:"debater_id,notnull" json:"debaterID"`
	Season    string  `bun:"season,notnull" json:"season"`
	Points    float64 `bun:"points,notnull,default:0" json:"points"`
}
