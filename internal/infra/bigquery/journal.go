package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/store-recon/internal/journal"
)

const withdrawalPattern = "%penarikan dana%"

// JournalBase returns the persisted journal rows for one (report month, folder).
func (s *Store) JournalBase(ctx context.Context, reportMonth, folderID string) ([]journal.JournalRow, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT *
		FROM %s
		WHERE report_month = @report_month
		  AND folder_id = @folder_id
	`, s.table(s.cfg.JournalBaseTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "report_month", Value: reportMonth},
		{Name: "folder_id", Value: folderID},
	}

	rows, err := s.readBaseRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("JournalBase: %w", err)
	}
	return rows, nil
}

// WalletMonthActivity returns, month ascending, the months of the given set
// that have wallet rows for the folder, flagged with whether any
// withdrawal-description posting exists in that month.
func (s *Store) WalletMonthActivity(ctx context.Context, folderID string, months []string) ([]journal.MonthActivity, error) {
	q := s.client.Query(fmt.Sprintf(`
		WITH all_month_wallet AS (
			SELECT DISTINCT month_wallet
			FROM %[1]s
			WHERE folder_id = @folder_id
			  AND month_wallet IN UNNEST(@months)
		),
		month_with_withdrawal AS (
			SELECT DISTINCT month_wallet
			FROM %[1]s
			WHERE folder_id = @folder_id
			  AND LOWER(description) LIKE @withdrawal_pattern
		)
		SELECT
			a.month_wallet AS month,
			m.month_wallet IS NOT NULL AS has_withdrawal
		FROM all_month_wallet AS a
		LEFT JOIN month_with_withdrawal AS m
		  ON a.month_wallet = m.month_wallet
		ORDER BY a.month_wallet
	`, s.table(s.cfg.WalletTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "folder_id", Value: folderID},
		{Name: "months", Value: months},
		{Name: "withdrawal_pattern", Value: withdrawalPattern},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("WalletMonthActivity: reading query: %w", err)
	}

	type activityRow struct {
		Month         string `bigquery:"month"`
		HasWithdrawal bool   `bigquery:"has_withdrawal"`
	}

	var activity []journal.MonthActivity
	for {
		var row activityRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("WalletMonthActivity: iterating: %w", err)
		}
		activity = append(activity, journal.MonthActivity{
			Month:         row.Month,
			HasWithdrawal: row.HasWithdrawal,
		})
	}
	return activity, nil
}

// WithdrawalCount counts withdrawal-description journal rows of the report
// month for the folder.
func (s *Store) WithdrawalCount(ctx context.Context, reportMonth, folderID string) (int64, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT COUNT(1) AS n
		FROM %s
		WHERE month_wallet = @report_month
		  AND folder_id = @folder_id
		  AND LOWER(w_description) LIKE @withdrawal_pattern
	`, s.table(s.cfg.JournalBaseTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "report_month", Value: reportMonth},
		{Name: "folder_id", Value: folderID},
		{Name: "withdrawal_pattern", Value: withdrawalPattern},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("WithdrawalCount: reading query: %w", err)
	}

	var row struct {
		N int64 `bigquery:"n"`
	}
	if err := it.Next(&row); err != nil {
		return 0, fmt.Errorf("WithdrawalCount: iterating: %w", err)
	}
	return row.N, nil
}

// PendingRows returns journal rows of the given wallet months whose funds
// have not been disbursed yet.
func (s *Store) PendingRows(ctx context.Context, walletMonths []string, folderID string) ([]journal.JournalRow, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT *
		FROM %s
		WHERE month_wallet IN UNNEST(@months)
		  AND wp_has_been_withdrawn = 0
		  AND folder_id = @folder_id
	`, s.table(s.cfg.JournalBaseTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "months", Value: walletMonths},
		{Name: "folder_id", Value: folderID},
	}

	rows, err := s.readBaseRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("PendingRows: %w", err)
	}
	return rows, nil
}

// CarriedIncomeRows joins prior-month order-level income rows that still have
// an outstanding receivable journal row with the income-like wallet rows of
// the unsettled window. Orders can surface in the wallet months after
// creation, so the income lookback spans a year rather than one month.
func (s *Store) CarriedIncomeRows(ctx context.Context, folderID string, walletMonths, incomeMonths, orderMonths []string) ([]journal.JournalRow, error) {
	q := s.client.Query(fmt.Sprintf(`
		WITH order_income AS (
			SELECT *
			FROM %[1]s AS income_data
			WHERE month_income IN UNNEST(@income_months)
			  AND folder_id = @folder_id
			  AND EXISTS (
				SELECT 1
				FROM %[2]s AS order_data
				WHERE order_data.folder_id = income_data.folder_id
				  AND order_data.order_number = income_data.order_number
				  AND order_data.month_order IN UNNEST(@order_months)
				  AND order_data.sheet_piutang = 1
			  )
		),
		wallet_data AS (
			SELECT folder_id, order_number,
				   wp_has_been_withdrawn, wp_this_month_order, wp_described_as_income,
				   sheet_omset, sheet_wp, sheet_piutang
			FROM %[2]s
			WHERE month_wallet IN UNNEST(@wallet_months)
			  AND wp_described_as_income = 1
			  AND folder_id = @folder_id
			  AND sheet_piutang = 0
		)
		SELECT
			order_income.*,
			wallet_data.wp_has_been_withdrawn,
			wallet_data.wp_this_month_order,
			wallet_data.wp_described_as_income,
			wallet_data.sheet_omset,
			wallet_data.sheet_wp,
			wallet_data.sheet_piutang
		FROM order_income
		INNER JOIN wallet_data
		  ON order_income.folder_id = wallet_data.folder_id
		 AND order_income.order_number = wallet_data.order_number
	`, s.table(s.cfg.JournalOrderTable), s.table(s.cfg.JournalBaseTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "income_months", Value: incomeMonths},
		{Name: "order_months", Value: orderMonths},
		{Name: "wallet_months", Value: walletMonths},
		{Name: "folder_id", Value: folderID},
	}

	rows, err := s.readBaseRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("CarriedIncomeRows: %w", err)
	}
	return rows, nil
}

// readBaseRows loads query results through the journal-base row shape.
// Queries selecting only a column subset leave the remaining fields zero.
func (s *Store) readBaseRows(ctx context.Context, q *bigquery.Query) ([]journal.JournalRow, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading query: %w", err)
	}

	var rows []journal.JournalRow
	for {
		var row JournalBaseRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating: %w", err)
		}
		rows = append(rows, row.toJournalRow())
	}
	return rows, nil
}
