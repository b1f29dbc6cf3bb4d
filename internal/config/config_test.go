package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		ProjectID:             "acme-analytics",
		DatasetID:             "rc_report",
		OrderTable:            "sp_order_data",
		IncomeTable:           "sp_income_released",
		WalletTable:           "sp_pay_wallet",
		JournalBaseTable:      "rpt_sp_journal_base",
		JournalOrderTable:     "rpt_sp_journal_order",
		JournalTransformTable: "rpt_sp_journal_order_transform",
		DashboardTable:        "rpt_sp_journal_dashboard",
		StoreMetadataPath:     "./configs/stores.json",
		BatchMonths:           2,
		WorkerCount:           4,
		WorkerInterval:        time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "missing project",
			mutate:      func(c *Config) { c.ProjectID = "" },
			wantErr:     true,
			errorString: "GCP project ID cannot be empty",
		},
		{
			name:        "missing dataset",
			mutate:      func(c *Config) { c.DatasetID = "" },
			wantErr:     true,
			errorString: "dataset ID cannot be empty",
		},
		{
			name:        "missing table name",
			mutate:      func(c *Config) { c.WalletTable = "" },
			wantErr:     true,
			errorString: "wallet table name cannot be empty",
		},
		{
			name:        "missing store metadata path",
			mutate:      func(c *Config) { c.StoreMetadataPath = "" },
			wantErr:     true,
			errorString: "store metadata path cannot be empty",
		},
		{
			name:        "batch months too small",
			mutate:      func(c *Config) { c.BatchMonths = 0 },
			wantErr:     true,
			errorString: "invalid batch months 0: must be at least 1",
		},
		{
			name:        "batch months too large",
			mutate:      func(c *Config) { c.BatchMonths = 36 },
			wantErr:     true,
			errorString: "invalid batch months 36: must be at most 24",
		},
		{
			name:        "malformed order start date",
			mutate:      func(c *Config) { c.OrderStartDate = "01-08-2024" },
			wantErr:     true,
			errorString: "invalid order start date",
		},
		{
			name:        "worker count too small",
			mutate:      func(c *Config) { c.WorkerCount = 0 },
			wantErr:     true,
			errorString: "invalid worker count 0: must be at least 1",
		},
		{
			name:        "worker count too large",
			mutate:      func(c *Config) { c.WorkerCount = 100 },
			wantErr:     true,
			errorString: "invalid worker count 100: must be at most 64",
		},
		{
			name:        "worker interval too short",
			mutate:      func(c *Config) { c.WorkerInterval = time.Second },
			wantErr:     true,
			errorString: "invalid worker interval 1s: must be at least 1 minute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	originalVars := map[string]string{
		"GCP_PROJECT_ID":  os.Getenv("GCP_PROJECT_ID"),
		"BQ_DATASET_ID":   os.Getenv("BQ_DATASET_ID"),
		"BQ_ORDER_TABLE":  os.Getenv("BQ_ORDER_TABLE"),
		"BATCH_MONTHS":    os.Getenv("BATCH_MONTHS"),
		"WORKER_COUNT":    os.Getenv("WORKER_COUNT"),
		"WORKER_INTERVAL": os.Getenv("WORKER_INTERVAL"),
	}
	for key := range originalVars {
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.DatasetID != "rc_report" {
			t.Errorf("Load() DatasetID = %v, want rc_report", cfg.DatasetID)
		}
		if cfg.OrderTable != "sp_order_data" {
			t.Errorf("Load() OrderTable = %v, want sp_order_data", cfg.OrderTable)
		}
		if cfg.BatchMonths != 2 {
			t.Errorf("Load() BatchMonths = %v, want 2", cfg.BatchMonths)
		}
		if cfg.WorkerCount != 4 {
			t.Errorf("Load() WorkerCount = %v, want 4", cfg.WorkerCount)
		}
		if cfg.WorkerInterval != 6*time.Hour {
			t.Errorf("Load() WorkerInterval = %v, want 6h", cfg.WorkerInterval)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("GCP_PROJECT_ID", "acme-analytics")
		os.Setenv("BQ_DATASET_ID", "rc_staging")
		os.Setenv("BATCH_MONTHS", "3")
		os.Setenv("WORKER_COUNT", "8")
		os.Setenv("WORKER_INTERVAL", "45m")

		cfg := Load()

		if cfg.ProjectID != "acme-analytics" {
			t.Errorf("Load() ProjectID = %v, want acme-analytics", cfg.ProjectID)
		}
		if cfg.DatasetID != "rc_staging" {
			t.Errorf("Load() DatasetID = %v, want rc_staging", cfg.DatasetID)
		}
		if cfg.BatchMonths != 3 {
			t.Errorf("Load() BatchMonths = %v, want 3", cfg.BatchMonths)
		}
		if cfg.WorkerCount != 8 {
			t.Errorf("Load() WorkerCount = %v, want 8", cfg.WorkerCount)
		}
		if cfg.WorkerInterval != 45*time.Minute {
			t.Errorf("Load() WorkerInterval = %v, want 45m", cfg.WorkerInterval)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("BATCH_MONTHS", "invalid")
		os.Setenv("WORKER_INTERVAL", "invalid")

		cfg := Load()

		if cfg.BatchMonths != 2 {
			t.Errorf("Load() BatchMonths = %v, want 2 (default for invalid input)", cfg.BatchMonths)
		}
		if cfg.WorkerInterval != 6*time.Hour {
			t.Errorf("Load() WorkerInterval = %v, want 6h (default for invalid input)", cfg.WorkerInterval)
		}
	})
}

func TestLoadStores(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "stores.json")
	content := `{
		"folder-1": {"store_id": "S1", "country": "ID", "currency": "IDR", "platform": "shopee", "store": "Store One"},
		"folder-2": {"store_id": "S2", "country": "ID", "currency": "IDR", "platform": "shopee", "store": "Store Two"}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing store metadata: %v", err)
	}

	stores, err := LoadStores(path)
	if err != nil {
		t.Fatalf("LoadStores() error: %v", err)
	}
	if len(stores) != 2 {
		t.Fatalf("LoadStores() returned %d stores, want 2", len(stores))
	}
	if stores["folder-1"].Name != "Store One" || stores["folder-1"].StoreID != "S1" {
		t.Errorf("store folder-1 = %+v", stores["folder-1"])
	}

	if _, err := LoadStores(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}

	empty := filepath.Join(tmpDir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{}`), 0644); err != nil {
		t.Fatalf("writing empty metadata: %v", err)
	}
	if _, err := LoadStores(empty); err == nil {
		t.Error("expected an error for an empty store map")
	}
}
