package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dvloznov/store-recon/internal/batch"
	"github.com/dvloznov/store-recon/internal/config"
	infraBQ "github.com/dvloznov/store-recon/internal/infra/bigquery"
	"github.com/dvloznov/store-recon/internal/journal"
	"github.com/dvloznov/store-recon/internal/logger"
	"github.com/dvloznov/store-recon/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New().Level(logger.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.OrderStartDate == "" {
		log.Fatal().Msg("ORDER_START_DATE is required for the batch worker")
	}
	startDate, err := time.Parse("2006-01-02", cfg.OrderStartDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid ORDER_START_DATE")
	}

	stores, err := config.LoadStores(cfg.StoreMetadataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load store metadata")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := infraBQ.NewStore(ctx, infraBQ.Config{
		ProjectID:             cfg.ProjectID,
		DatasetID:             cfg.DatasetID,
		OrderTable:            cfg.OrderTable,
		IncomeTable:           cfg.IncomeTable,
		WalletTable:           cfg.WalletTable,
		JournalBaseTable:      cfg.JournalBaseTable,
		JournalOrderTable:     cfg.JournalOrderTable,
		JournalTransformTable: cfg.JournalTransformTable,
		DashboardTable:        cfg.DashboardTable,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery store")
	}
	defer store.Close()

	svc := journal.NewService(store, store, stores, log).
		WithExporter(snapshot.NewExporter(cfg.SnapshotBucket, log))
	runner := batch.NewRunner(svc, stores, cfg.BatchMonths, startDate, cfg.WorkerCount, log)

	log.Info().
		Dur("interval", cfg.WorkerInterval).
		Int("stores", len(stores)).
		Int("months", cfg.BatchMonths).
		Msg("Starting batch worker")

	// Run once at startup, then on every tick.
	runBatch(ctx, runner, log)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runBatch(ctx, runner, log)
		case sig := <-quit:
			log.Info().Str("signal", sig.String()).Msg("Shutting down batch worker")
			cancel()
			return
		}
	}
}

func runBatch(ctx context.Context, runner *batch.Runner, log zerolog.Logger) {
	month := time.Now().UTC().Format(journal.MonthLayout)

	result, err := runner.Run(ctx, month)
	if err != nil {
		log.Error().Err(err).Msg("Batch run failed")
		return
	}
	log.Info().
		Str("report_month", month).
		Int("completed", result.Completed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Batch run finished")
}
