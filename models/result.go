package models

import "github.com/uptrace/bun"

// UnplacedSentinel is the place stored for entrants who did not break.
const UnplacedSentinel = -1

// TeamResult is one team's placement at one tournament.
// GhostPoints lets the placement count toward point brackets it would
// otherwise miss even though no speaker award attaches.
type TeamResult struct {
	bun.BaseModel `bun:"table:team_results,alias:tr"`

	ID           int  `bun:"id,pk,autoincrement" json:"id"`
	TournamentID int  `bun:"tournament_id,notnull" json:"tournamentID"`
	TeamID       int  `bun:"team_id,notnull" json:"teamID"`
	TypeOfPlace  int  `bun:"type_of_place,notnull,default:1" json:"typeOfPlace"`
	Place        int  `bun:"place,notnull,default:-1" json:"place"`
	GhostPoints  bool `bun:"ghost_points,notnull,default:false" json:"ghostPoints"`

	Tournament *Tournament `bun:"rel:belongs-to,join:tournament_id=id" json:"-"`
}

// SpeakerResult is one debater's speaker placement at one tournament.
// Tie means this award shared a place; the stored place already accounts
// for it (a tie consumes the next numeric place), so scoring uses it as-is.
type SpeakerResult struct {
	bun.BaseModel `bun:"table:speaker_results,alias:sr"`

	ID           int  `bun:"id,pk,autoincrement" json:"id"`
	TournamentID int  `bun:"tournament_id,notnull" json:"tournamentID"`
	DebaterID    int  `bun:"debater_id,notnull" json:"debaterID"`
	TypeOfPlace  int  `bun:"type_of_place,notnull,default:1" json:"typeOfPlace"`
	Place        int  `bun:"place,notnull,default:-1" json:"place"`
	Tie          bool `bun:"tie,notnull,default:false" json:"tie"`

	Tournament *Tournament `bun:"rel:belongs-to,join:tournament_id=id" json:"-"`
}
