package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
)

// Config names the warehouse location and every table the store touches.
type Config struct {
	ProjectID string
	DatasetID string

	OrderTable  string
	IncomeTable string
	WalletTable string

	JournalBaseTable      string
	JournalOrderTable     string
	JournalTransformTable string
	DashboardTable        string
}

// Store is the BigQuery-backed implementation of the journal source and
// report repositories. It holds a shared client; Close releases it.
type Store struct {
	client *bigquery.Client
	cfg    Config
	log    zerolog.Logger
}

// NewStore creates a Store with its own BigQuery client.
func NewStore(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	client, err := bigquery.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewStore: creating client: %w", err)
	}
	return NewStoreWithClient(client, cfg, log), nil
}

// NewStoreWithClient creates a Store using the provided BigQuery client.
func NewStoreWithClient(client *bigquery.Client, cfg Config, log zerolog.Logger) *Store {
	return &Store{client: client, cfg: cfg, log: log}
}

// Close closes the BigQuery client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// table renders a fully qualified, backtick-quoted table reference.
func (s *Store) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.cfg.ProjectID, s.cfg.DatasetID, name)
}

// runDML runs a statement to completion and surfaces the job error.
func (s *Store) runDML(ctx context.Context, op string, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: running query: %w", op, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%s: waiting for job: %w", op, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("%s: job error: %w", op, err)
	}
	return nil
}
