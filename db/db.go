package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/apdarank/config"
	"github.com/padraicbc/apdarank/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.School)(nil),
		(*models.Debater)(nil),
		(*models.Team)(nil),
		(*models.TeamDebater)(nil),
		(*models.Tournament)(nil),
		(*models.TeamResult)(nil),
		(*models.SpeakerResult)(nil),
		(*models.Standing)(nil),
		(*models.Qual)(nil),
		(*models.QualPoints)(nil),
		(*models.Reaff)(nil),
		(*models.TeamReaff)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'team_debaters_no_dupes') THEN ALTER TABLE team_debaters ADD CONSTRAINT team_debaters_no_dupes UNIQUE (team_id, debater_id); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'standings_no_dupes') THEN ALTER TABLE standings ADD CONSTRAINT standings_no_dupes UNIQUE (category, entity_id, season); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'quals_no_dupes') THEN ALTER TABLE quals ADD CONSTRAINT quals_no_dupes UNIQUE (debater_id, season, qual_type); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'qual_points_no_dupes') THEN ALTER TABLE qual_points ADD CONSTRAINT qual_points_no_dupes UNIQUE (debater_id, season); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'team_results_no_dupes') THEN ALTER TABLE team_results ADD CONSTRAINT team_results_no_dupes UNIQUE (tournament_id, team_id, type_of_place); END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
