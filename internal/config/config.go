package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/store-recon/internal/journal"
)

// Config holds every runtime setting of the reconciliation system. Values come
// from the environment; main loads a .env file first when one exists.
type Config struct {
	// BigQuery
	ProjectID string
	DatasetID string

	// Source tables
	OrderTable  string
	IncomeTable string
	WalletTable string

	// Report tables
	JournalBaseTable      string
	JournalOrderTable     string
	JournalTransformTable string
	DashboardTable        string

	// Store metadata
	StoreMetadataPath string

	// Snapshot export; empty bucket disables the export
	SnapshotBucket string

	// Batch
	BatchMonths    int
	OrderStartDate string

	// Worker
	WorkerCount    int
	WorkerInterval time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		ProjectID: getEnv("GCP_PROJECT_ID", ""),
		DatasetID: getEnv("BQ_DATASET_ID", "rc_report"),

		OrderTable:  getEnv("BQ_ORDER_TABLE", "sp_order_data"),
		IncomeTable: getEnv("BQ_INCOME_TABLE", "sp_income_released"),
		WalletTable: getEnv("BQ_WALLET_TABLE", "sp_pay_wallet"),

		JournalBaseTable:      getEnv("BQ_JOURNAL_BASE_TABLE", "rpt_sp_journal_base"),
		JournalOrderTable:     getEnv("BQ_JOURNAL_ORDER_TABLE", "rpt_sp_journal_order"),
		JournalTransformTable: getEnv("BQ_JOURNAL_TRANSFORM_TABLE", "rpt_sp_journal_order_transform"),
		DashboardTable:        getEnv("BQ_DASHBOARD_TABLE", "rpt_sp_journal_dashboard"),

		StoreMetadataPath: getEnv("STORE_METADATA_PATH", "./configs/stores.json"),
		SnapshotBucket:    getEnv("SNAPSHOT_BUCKET", ""),

		BatchMonths:    getEnvInt("BATCH_MONTHS", 2),
		OrderStartDate: getEnv("ORDER_START_DATE", ""),

		WorkerCount:    getEnvInt("WORKER_COUNT", 4),
		WorkerInterval: getEnvDuration("WORKER_INTERVAL", 6*time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.ProjectID == "" {
		errors = append(errors, "GCP project ID cannot be empty")
	}
	if c.DatasetID == "" {
		errors = append(errors, "BigQuery dataset ID cannot be empty")
	}

	tables := map[string]string{
		"order table":             c.OrderTable,
		"income table":            c.IncomeTable,
		"wallet table":            c.WalletTable,
		"journal base table":      c.JournalBaseTable,
		"journal order table":     c.JournalOrderTable,
		"journal transform table": c.JournalTransformTable,
		"dashboard table":         c.DashboardTable,
	}
	for name, v := range tables {
		if v == "" {
			errors = append(errors, fmt.Sprintf("%s name cannot be empty", name))
		}
	}

	if c.StoreMetadataPath == "" {
		errors = append(errors, "store metadata path cannot be empty")
	}

	if c.BatchMonths < 1 {
		errors = append(errors, fmt.Sprintf("invalid batch months %d: must be at least 1", c.BatchMonths))
	} else if c.BatchMonths > 24 {
		errors = append(errors, fmt.Sprintf("invalid batch months %d: must be at most 24", c.BatchMonths))
	}

	if c.OrderStartDate != "" {
		if _, err := time.Parse("2006-01-02", c.OrderStartDate); err != nil {
			errors = append(errors, fmt.Sprintf("invalid order start date '%s': must be YYYY-MM-DD", c.OrderStartDate))
		}
	}

	if c.WorkerCount < 1 {
		errors = append(errors, fmt.Sprintf("invalid worker count %d: must be at least 1", c.WorkerCount))
	} else if c.WorkerCount > 64 {
		errors = append(errors, fmt.Sprintf("invalid worker count %d: must be at most 64", c.WorkerCount))
	}

	if c.WorkerInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid worker interval %v: must be at least 1 minute", c.WorkerInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// LoadStores reads the store metadata file: a JSON object keyed by folder ID.
func LoadStores(path string) (map[string]journal.StoreInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadStores: reading %s: %w", path, err)
	}
	var stores map[string]journal.StoreInfo
	if err := json.Unmarshal(data, &stores); err != nil {
		return nil, fmt.Errorf("LoadStores: parsing %s: %w", path, err)
	}
	if len(stores) == 0 {
		return nil, fmt.Errorf("LoadStores: %s holds no stores", path)
	}
	return stores, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
