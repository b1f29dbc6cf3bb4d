package snapshot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"github.com/dvloznov/store-recon/internal/journal"
)

// Exporter archives finished dashboard entries as CSV objects in a GCS
// bucket, one object per (report month, folder). An empty bucket name
// disables the exporter; Export then becomes a no-op.
// It assumes Application Default Credentials are configured.
type Exporter struct {
	bucket string
	log    zerolog.Logger
}

// NewExporter creates a snapshot exporter targeting the given bucket.
func NewExporter(bucket string, log zerolog.Logger) *Exporter {
	return &Exporter{bucket: bucket, log: log}
}

// Enabled reports whether a snapshot bucket is configured.
func (e *Exporter) Enabled() bool {
	return e.bucket != ""
}

// ObjectName returns the object path for one unit's snapshot.
func ObjectName(reportMonth, folderID string) string {
	return fmt.Sprintf("dashboard/%s/%s.csv", reportMonth, folderID)
}

// Export uploads the unit's entries to gs://<bucket>/dashboard/<month>/<folder>.csv.
// Re-exporting a unit overwrites the previous object.
func (e *Exporter) Export(ctx context.Context, reportMonth, folderID string, entries []journal.LedgerEntry) error {
	if !e.Enabled() {
		e.log.Debug().Msg("snapshot bucket not configured, skipping export")
		return nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("Export: creating storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	object := ObjectName(reportMonth, folderID)
	w := client.Bucket(e.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "text/csv"

	if err := WriteCSV(w, entries); err != nil {
		_ = w.Close()
		return fmt.Errorf("Export: encoding %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Export: finalizing upload of %s: %w", object, err)
	}

	e.log.Info().
		Str("bucket", e.bucket).
		Str("object", object).
		Int("entries", len(entries)).
		Msg("dashboard snapshot exported")
	return nil
}

// csvHeader is fixed; downstream consumers key on column names.
var csvHeader = []string{
	"report_month",
	"folder_id",
	"store_id",
	"store",
	"country",
	"currency",
	"platform",
	"order_number",
	"category",
	"sort_index",
	"value_withdrawn",
	"value_pending",
	"value_total",
	"value_debit",
	"value_credit",
	"piutang",
}

// WriteCSV encodes entries as CSV with a stable header, one line per entry.
func WriteCSV(w io.Writer, entries []journal.LedgerEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		record := []string{
			e.ReportMonth,
			e.FolderID,
			e.Store.StoreID,
			e.Store.Name,
			e.Store.Country,
			e.Store.Currency,
			e.Store.Platform,
			e.OrderNumber,
			e.Category,
			strconv.Itoa(e.SortIndex),
			formatAmount(e.ValueWithdrawn),
			formatAmount(e.ValuePending),
			formatAmount(e.ValueTotal),
			formatAmount(e.ValueDebit),
			formatAmount(e.ValueCredit),
			strconv.FormatBool(e.Piutang),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
