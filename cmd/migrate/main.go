// cmd/migrate/main.go
// Migrates data from the legacy MySQL standings database into the local
// PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/standings?parseTime=true" \
//	DBPASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/apdarank/config"
	bundb "github.com/padraicbc/apdarank/db"
	"github.com/padraicbc/apdarank/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/standings?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Disable FK enforcement so we can load in bulk without strict ordering
	if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		log.Fatalf("disable FK: %v", err)
	}
	defer func() {
		if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
			log.Printf("re-enable FK: %v", err)
		}
	}()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"schools", func() (int, error) { return migrateSchools(ctx, myDB, pgDB) }},
		{"debaters", func() (int, error) { return migrateDebaters(ctx, myDB, pgDB) }},
		{"teams", func() (int, error) { return migrateTeams(ctx, myDB, pgDB) }},
		{"team_debaters", func() (int, error) { return migrateTeamDebaters(ctx, myDB, pgDB) }},
		{"tournaments", func() (int, error) { return migrateTournaments(ctx, myDB, pgDB) }},
		{"team_results", func() (int, error) { return migrateTeamResults(ctx, myDB, pgDB) }},
		{"speaker_results", func() (int, error) { return migrateSpeakerResults(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-15s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// --- helpers ---

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// --- per-table migrations ---

func migrateSchools(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, name, included_in_oty FROM standings_school")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.School
	total := 0
	for rows.Next() {
		var r models.School
		if err := rows.Scan(&r.ID, &r.Name, &r.IncludedInOTY); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateDebaters(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT id, first_name, last_name, school_id, status, first_season, latest_season
		 FROM standings_debater`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Debater
	total := 0
	for rows.Next() {
		var r models.Debater
		var schoolID sql.NullInt64
		var first, latest sql.NullString
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName, &schoolID, &r.Status, &first, &latest); err != nil {
			return total, err
		}
		r.SchoolID = nullInt(schoolID)
		r.FirstSeason = nullStr(first)
		r.LatestSeason = nullStr(latest)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateTeams(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, name FROM standings_team")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Team
	total := 0
	for rows.Next() {
		var r models.Team
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateTeamDebaters(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT team_id, debater_id FROM standings_team_debaters")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.TeamDebater
	total := 0
	for rows.Next() {
		var r models.TeamDebater
		if err := rows.Scan(&r.TeamID, &r.DebaterID); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateTournaments(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT id, name, season, num_teams, num_novice_debaters, num_debaters,
		        toty, soty, noty, qual, qual_type, autoqual_bar
		 FROM standings_tournament`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Tournament
	total := 0
	for rows.Next() {
		var r models.Tournament
		if err := rows.Scan(&r.ID, &r.Name, &r.Season, &r.NumTeams, &r.NumNoviceDebaters,
			&r.NumDebaters, &r.TOTY, &r.SOTY, &r.NOTY, &r.Qual, &r.QualType, &r.AutoqualBar); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateTeamResults(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT id, tournament_id, team_id, type_of_place, place, ghost_points
		 FROM standings_teamresult`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.TeamResult
	total := 0
	for rows.Next() {
		var r models.TeamResult
		if err := rows.Scan(&r.ID, &r.TournamentID, &r.TeamID, &r.TypeOfPlace, &r.Place, &r.GhostPoints); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateSpeakerResults(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		`SELECT id, tournament_id, debater_id, type_of_place, place, tie
		 FROM standings_speakerresult`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.SpeakerResult
	total := 0
	for rows.Next() {
		var r models.SpeakerResult
		if err := rows.Scan(&r.ID, &r.TournamentID, &r.DebaterID, &r.TypeOfPlace, &r.Place, &r.Tie); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func resetSequences(ctx context.Context, pgDB *bun.DB) {
	seqs := []struct{ seq, table, col string }{
		{"schools_id_seq", "schools", "id"},
		{"debaters_id_seq", "debaters", "id"},
		{"teams_id_seq", "teams", "id"},
		{"tournaments_id_seq", "tournaments", "id"},
		{"team_results_id_seq", "team_results", "id"},
		{"speaker_results_id_seq", "speaker_results", "id"},
	}
	for _, s := range seqs {
		q := fmt.Sprintf(
			"SELECT setval('%s', COALESCE((SELECT MAX(%s) FROM %s), 1))",
			s.seq, s.col, s.table,
		)
		if _, err := pgDB.ExecContext(ctx, q); err != nil {
			log.Printf("reset seq %s: %v", s.seq, err)
		}
	}
	log.Println("sequences reset")
}
