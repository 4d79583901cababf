package models

import "github.com/uptrace/bun"

// School is the chapter a debater competes for.
// Schools flagged out of the year-end awards are skipped by every
// standings computation and their existing rows are garbage collected.
type School struct {
	bun.BaseModel `bun:"table:schools,alias:s"`

	ID            int    `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull,unique" json:"name"`
	IncludedInOTY bool   `bun:"included_in_oty,notnull,default:true" json:"includedInOty"`
}
