package models

import "github.com/uptrace/bun"

// Category names one seasonal award table.
type Category string

// Award categories. TOTY/SOTY/NOTY/COTY standings are keyed by team,
// debater, debater and school respectively; OnlineQual is the
// reduced-format qualification track.
const (
	TOTY       Category = "toty"
	SOTY       Category = "soty"
	NOTY       Category = "noty"
	COTY       Category = "coty"
	OnlineQual Category = "online_qual"
)

// MarkerCapacity returns how many contributing tournaments a standing of
// the category records (and sums): 5 for team awards, 6 for speaker
// awards, none for the chapter aggregate.
func (c Category) MarkerCapacity() int {
	switch c {
	case TOTY:
		return 5
	case SOTY, NOTY, OnlineQual:
		return 6
	default:
		return 0
	}
}

// Marker is one contributing tournament's score within a standing,
// kept in descending points order for audit and display.
type Marker struct {
	Points       float64 `json:"points"`
	TournamentID int     `json:"tournamentID"`
	Tournament   string  `json:"tournament"`
}

// Standing is one entity's score, rank and contributing tournaments for
// one season in one category. Place -1 means unranked. A score of zero
// never persists: the ranking pass deletes such rows.
type Standing struct {
	bun.BaseModel `bun:"table:standings,alias:st"`

	ID       int      `bun:"id,pk,autoincrement" json:"id"`
	Category Category `bun:"category,notnull" json:"category"`
	EntityID int      `bun:"entity_id,notnull" json:"entityID"`
	Season   string   `bun:"season,notnull" json:"season"`
	Points   float64  `bun:"points,notnull,default:0" json:"points"`
	Place    int      `bun:"place,notnull,default:-1" json:"place"`
	Tied     bool     `bun:"tied,notnull,default:false" json:"tied"`
	Markers  []Marker `bun:"markers,type:jsonb" json:"markers,omitempty"`
}
