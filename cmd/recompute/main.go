// cmd/recompute/main.go
// Recomputes season standings from the command line, printing the
// cleanup report as JSON.
//
// Usage:
//
//	go run ./cmd/recompute                    # current season
//	go run ./cmd/recompute -season 2023
//	go run ./cmd/recompute -tournament 412    # one tournament's entrants
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/padraicbc/apdarank/config"
	bundb "github.com/padraicbc/apdarank/db"
	applog "github.com/padraicbc/apdarank/logger"
	"github.com/padraicbc/apdarank/standings"
)

func main() {
	season := flag.String("season", "", "season to recompute (default: configured current season)")
	tournament := flag.Int("tournament", 0, "recompute only this tournament's entrants")
	flag.Parse()

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	db := bundb.Setup(cfg)
	defer db.Close()

	engine := standings.New(
		standings.NewStore(db),
		standings.NewSiteCache(cfg.SiteBaseURL),
		standings.Settings{
			CurrentSeason: cfg.CurrentSeason,
			OnlineSeasons: cfg.OnlineSeasons,
			QualBar:       cfg.QualBar,
			OnlineQualBar: cfg.OnlineQualBar,
		},
		logger,
	)

	ctx := context.Background()
	var report *standings.Report
	if *tournament > 0 {
		report, err = engine.RecomputeTournament(ctx, *tournament)
	} else {
		report, err = engine.RecomputeSeason(ctx, *season)
	}
	if err != nil {
		logger.Fatal("recompute failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Fatal("encode report", zap.Error(err))
	}
}
