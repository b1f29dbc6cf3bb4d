package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/store-recon/internal/journal"
)

// Upserts replace any existing rows with the same key tuple: delete the key's
// rows, then batch insert the new set. Re-running a unit with unchanged inputs
// yields an identical row set.

// UpsertJournalBase replaces the journal rows of one (report month, folder).
func (s *Store) UpsertJournalBase(ctx context.Context, reportMonth, folderID string, rows []journal.JournalRow) error {
	if err := s.deleteByMonthAndFolder(ctx, s.cfg.JournalBaseTable, reportMonth, folderID); err != nil {
		return fmt.Errorf("UpsertJournalBase: %w", err)
	}

	out := make([]*JournalBaseRow, len(rows))
	for i := range rows {
		out[i] = toJournalBaseRow(rows[i])
	}

	inserter := s.client.DatasetInProject(s.cfg.ProjectID, s.cfg.DatasetID).
		Table(s.cfg.JournalBaseTable).Inserter()
	if err := inserter.Put(ctx, out); err != nil {
		return fmt.Errorf("UpsertJournalBase: inserting rows: %w", err)
	}

	s.log.Info().
		Str("report_month", reportMonth).
		Str("folder_id", folderID).
		Int("rows", len(out)).
		Msg("journal base replaced")
	return nil
}

// UpsertJournalOrder replaces order-level journal rows keyed by
// (order number, folder). The transformed flag routes to the pivoted table.
func (s *Store) UpsertJournalOrder(ctx context.Context, rows []journal.JournalRow, transformed bool) error {
	table := s.cfg.JournalOrderTable
	if transformed {
		table = s.cfg.JournalTransformTable
	}

	if err := s.deleteByOrderKeys(ctx, table, rows); err != nil {
		return fmt.Errorf("UpsertJournalOrder: %w", err)
	}

	inserter := s.client.DatasetInProject(s.cfg.ProjectID, s.cfg.DatasetID).
		Table(table).Inserter()

	if transformed {
		out := make([]*JournalTransformRow, len(rows))
		for i := range rows {
			out[i] = toJournalTransformRow(rows[i])
		}
		if err := inserter.Put(ctx, out); err != nil {
			return fmt.Errorf("UpsertJournalOrder: inserting transformed rows: %w", err)
		}
	} else {
		out := make([]*JournalOrderRow, len(rows))
		for i := range rows {
			out[i] = toJournalOrderRow(rows[i])
		}
		if err := inserter.Put(ctx, out); err != nil {
			return fmt.Errorf("UpsertJournalOrder: inserting rows: %w", err)
		}
	}

	s.log.Info().
		Str("table", table).
		Int("rows", len(rows)).
		Msg("order journal replaced")
	return nil
}

// UpsertDashboard replaces the dashboard entries of one (report month, folder).
func (s *Store) UpsertDashboard(ctx context.Context, reportMonth, folderID string, entries []journal.LedgerEntry) error {
	if err := s.deleteByMonthAndFolder(ctx, s.cfg.DashboardTable, reportMonth, folderID); err != nil {
		return fmt.Errorf("UpsertDashboard: %w", err)
	}

	out := make([]*DashboardRow, len(entries))
	for i := range entries {
		out[i] = toDashboardRow(entries[i])
	}

	inserter := s.client.DatasetInProject(s.cfg.ProjectID, s.cfg.DatasetID).
		Table(s.cfg.DashboardTable).Inserter()
	if err := inserter.Put(ctx, out); err != nil {
		return fmt.Errorf("UpsertDashboard: inserting entries: %w", err)
	}

	s.log.Info().
		Str("report_month", reportMonth).
		Str("folder_id", folderID).
		Int("entries", len(out)).
		Msg("dashboard replaced")
	return nil
}

func (s *Store) deleteByMonthAndFolder(ctx context.Context, table, reportMonth, folderID string) error {
	q := s.client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE report_month = @report_month
		  AND folder_id = @folder_id
	`, s.table(table)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "report_month", Value: reportMonth},
		{Name: "folder_id", Value: folderID},
	}
	return s.runDML(ctx, "deleting existing rows", q)
}

// orderKey is an ARRAY<STRUCT> delete parameter element.
type orderKey struct {
	OrderNumber string `bigquery:"order_number"`
	FolderID    string `bigquery:"folder_id"`
}

func (s *Store) deleteByOrderKeys(ctx context.Context, table string, rows []journal.JournalRow) error {
	seen := make(map[orderKey]bool)
	var keys []orderKey
	for _, r := range rows {
		k := orderKey{OrderNumber: r.OrderNumber, FolderID: r.FolderID}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	q := s.client.Query(fmt.Sprintf(`
		DELETE FROM %s AS t
		WHERE EXISTS (
			SELECT 1
			FROM UNNEST(@keys) AS k
			WHERE k.order_number = t.order_number
			  AND k.folder_id = t.folder_id
		)
	`, s.table(table)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "keys", Value: keys},
	}
	return s.runDML(ctx, "deleting existing rows", q)
}
