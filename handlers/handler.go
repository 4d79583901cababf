package handlers

import (
	"github.com/uptrace/bun"

	"github.com/padraicbc/apdarank/standings"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	JWTKey []byte
	engine *standings.Engine
	season string // default season for read endpoints
}

// New creates a Handler over the database, JWT signing key and standings
// engine. currentSeason is what read endpoints fall back to when no
// season param is given.
func New(db *bun.DB, jwtKey []byte, engine *standings.Engine, currentSeason string) *Handler {
	return &Handler{db: db, JWTKey: jwtKey, engine: engine, season: currentSeason}
}

func (h *Handler) seasonParam(raw string) string {
	if raw == "" {
		return h.season
	}
	return raw
}
