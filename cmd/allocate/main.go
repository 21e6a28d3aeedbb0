// Command allocate runs the seat-allocation pipeline for one election
// year as a batch job and persists the resulting roster.
//
// Inputs come either from PostgreSQL (-dsn flags via config) or from a
// directory of CSV exports (-data), which is convenient for dry runs
// against historical data.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahrav/go-mandate/infrastructure/memstore"
	"github.com/ahrav/go-mandate/infrastructure/middleware"
	"github.com/ahrav/go-mandate/infrastructure/postgres"
	"github.com/ahrav/go-mandate/internal/allocation"
	"github.com/ahrav/go-mandate/internal/etl"
	"github.com/ahrav/go-mandate/internal/logging"
	"github.com/ahrav/go-mandate/internal/ports"
)

func main() {
	var (
		year       = flag.Int("year", 0, "election year to compute (required)")
		configPath = flag.String("config", "", "path to allocation config YAML (defaults apply if empty)")
		dataDir    = flag.String("data", "", "directory of CSV exports; uses Postgres when empty")
		latin1     = flag.Bool("latin1", false, "CSV exports are Latin-1 encoded")
		dryRun     = flag.Bool("dry-run", false, "print the result as JSON instead of persisting")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	logging.Bootstrap(*verbose)
	log := logging.Log

	if *year == 0 {
		log.Fatal("-year is required")
	}

	cfg := allocation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = allocation.LoadConfig(*configPath); err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	votes, results, cleanup, err := buildStores(ctx, *dataDir, *latin1, *year)
	if err != nil {
		log.Fatalf("initializing stores: %v", err)
	}
	defer cleanup()

	engine, err := allocation.NewEngine(votes, cfg,
		allocation.WithLogger(log),
		allocation.WithMetrics(middleware.NewPrometheusMetrics(nil)))
	if err != nil {
		log.Fatalf("initializing engine: %v", err)
	}

	result, err := engine.ComputeSeatAllocation(ctx, *year)
	if err != nil {
		log.Fatalf("seat allocation for %d failed: %v", *year, err)
	}

	if *dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encoding result: %v", err)
		}
		return
	}

	if err := results.ReplaceResult(ctx, result); err != nil {
		log.Fatalf("persisting result for %d: %v", *year, err)
	}
	log.Infof("stored roster for %d: %d seats, run %s", *year, len(result.Roster), result.RunID)
}

// buildStores wires either the CSV-backed in-memory stores or the
// Postgres stores, depending on flags.
func buildStores(ctx context.Context, dataDir string, latin1 bool, year int) (
	ports.VoteStore, ports.ResultStore, func(), error,
) {
	if dataDir != "" {
		encoding := etl.EncodingUTF8
		if latin1 {
			encoding = etl.EncodingLatin1
		}
		importer := etl.NewImporter(dataDir, encoding)

		ref, err := importer.LoadReferenceData(year)
		if err != nil {
			return nil, nil, nil, err
		}
		snap, err := importer.LoadVoteSnapshot(year)
		if err != nil {
			return nil, nil, nil, err
		}

		store := memstore.New()
		store.SetReferenceData(ref)
		store.SetVoteSnapshot(snap)
		return store, store, func() {}, nil
	}

	pgCfg := postgres.Config{
		Host:     envOr("PGHOST", "localhost"),
		Port:     5432,
		User:     envOr("PGUSER", "mandate"),
		Password: os.Getenv("PGPASSWORD"),
		Database: envOr("PGDATABASE", "mandate"),
	}
	store, err := postgres.New(ctx, pgCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, nil, err
	}
	return store, store, store.Close, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
