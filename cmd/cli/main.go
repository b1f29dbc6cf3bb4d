package main

import (
	"context"
	"flag"
	"fmt"
	"os"
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

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	switch os.Args[1] {
	case "journal":
		runJournal(cfg, log)
	case "dashboard":
		runDashboard(cfg, log)
	case "batch":
		runBatch(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Store Reconciliation CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  journal    Build one journal unit (monthly or order-level)")
	fmt.Println("  dashboard  Build the dashboard for one (store, month)")
	fmt.Println("  batch      Rebuild every store for the recent months")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// newService builds the fully wired reconciliation service plus its
// warehouse store. The caller owns closing the store.
func newService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*journal.Service, *infraBQ.Store, map[string]journal.StoreInfo, error) {
	stores, err := config.LoadStores(cfg.StoreMetadataPath)
	if err != nil {
		return nil, nil, nil, err
	}

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
		return nil, nil, nil, err
	}

	svc := journal.NewService(store, store, stores, log).
		WithExporter(snapshot.NewExporter(cfg.SnapshotBucket, log))
	return svc, store, stores, nil
}

func runJournal(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("journal", flag.ExitOnError)
	month := fs.String("month", "", "Report month (YYYYMM) for monthly mode")
	folderID := fs.String("folder", "", "Store folder ID for monthly mode")
	orderLevel := fs.Bool("order-level", false, "Build the order-level journal instead")
	transform := fs.Bool("transform", false, "Pivot the wallet side by category (order-level only)")
	startDate := fs.String("start-date", cfg.OrderStartDate, "Order-level start date (YYYY-MM-DD)")
	fs.Parse(os.Args[2:])

	opts := journal.JournalOptions{
		JournalBase: !*orderLevel,
		DataMonth:   *month,
		FolderID:    *folderID,
		Transform:   *transform,
	}
	if *orderLevel {
		if *startDate == "" {
			log.Fatal().Msg("Error: --start-date (or ORDER_START_DATE) is required for order-level runs")
		}
		start, err := time.Parse("2006-01-02", *startDate)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid start date")
		}
		opts.StartDate = start
	} else if *month == "" || *folderID == "" {
		log.Fatal().Msg("Error: --month and --folder are required for monthly runs")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, store, _, err := newService(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire services")
	}
	defer store.Close()

	if err := svc.BuildJournal(ctx, opts); err != nil {
		if journal.IsSkip(err) {
			log.Warn().Err(err).Msg("Nothing to build")
			return
		}
		log.Fatal().Err(err).Msg("Journal build failed")
	}

	fmt.Println("Journal build completed successfully.")
}

func runDashboard(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	month := fs.String("month", "", "Report month (YYYYMM)")
	folderID := fs.String("folder", "", "Store folder ID")
	fs.Parse(os.Args[2:])

	if *month == "" || *folderID == "" {
		log.Fatal().Msg("Error: --month and --folder are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, store, _, err := newService(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire services")
	}
	defer store.Close()

	if err := svc.BuildDashboard(ctx, *month, *folderID); err != nil {
		if journal.IsSkip(err) {
			log.Warn().Err(err).Msg("Nothing to build")
			return
		}
		log.Fatal().Err(err).Msg("Dashboard build failed")
	}

	fmt.Println("Dashboard build completed successfully.")
}

func runBatch(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	month := fs.String("month", time.Now().UTC().Format(journal.MonthLayout), "Latest report month (YYYYMM)")
	fs.Parse(os.Args[2:])

	if cfg.OrderStartDate == "" {
		log.Fatal().Msg("Error: ORDER_START_DATE is required for batch runs")
	}
	startDate, err := time.Parse("2006-01-02", cfg.OrderStartDate)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid ORDER_START_DATE")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 6*time.Hour)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, store, stores, err := newService(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire services")
	}
	defer store.Close()

	runner := batch.NewRunner(svc, stores, cfg.BatchMonths, startDate, cfg.WorkerCount, log)
	result, err := runner.Run(ctx, *month)
	if err != nil {
		log.Fatal().Err(err).Msg("Batch failed")
	}

	fmt.Printf("Batch finished: %d completed, %d skipped, %d failed.\n",
		result.Completed, result.Skipped, result.Failed)
}
