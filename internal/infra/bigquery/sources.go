package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/store-recon/internal/journal"
)

// OrderRows reads completed orders, pre-aggregated by
// (order date, folder, order number). Single-character order numbers are
// placeholder values in the feed and excluded everywhere.
func (s *Store) OrderRows(ctx context.Context, scope journal.SourceScope) ([]journal.OrderRecord, error) {
	var q *bigquery.Query
	if scope.ByMonth {
		q = s.client.Query(fmt.Sprintf(`
			SELECT
				TIMESTAMP(DATE(order_creation_time)) AS order_creation_time,
				folder_id,
				order_number,
				ANY_VALUE(order_status) AS order_status,
				SUM(total_product_price) AS total_product_price
			FROM %s
			WHERE UPPER(order_status) = 'SELESAI'
			  AND LENGTH(order_number) > 1
			  AND month_order = @month
			  AND folder_id = @folder_id
			GROUP BY DATE(order_creation_time), folder_id, order_number
		`, s.table(s.cfg.OrderTable)))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "month", Value: scope.Month},
			{Name: "folder_id", Value: scope.FolderID},
		}
	} else {
		q = s.client.Query(fmt.Sprintf(`
			SELECT
				TIMESTAMP(DATE(order_creation_time)) AS order_creation_time,
				folder_id,
				order_number,
				ANY_VALUE(order_status) AS order_status,
				SUM(total_product_price) AS total_product_price
			FROM %s
			WHERE DATE(order_creation_time) BETWEEN @start_date AND @end_date
			  AND LENGTH(order_number) > 1
			GROUP BY DATE(order_creation_time), folder_id, order_number
		`, s.table(s.cfg.OrderTable)))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "start_date", Value: civil.DateOf(scope.StartDate)},
			{Name: "end_date", Value: civil.DateOf(scope.EndDate)},
		}
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("OrderRows: reading query: %w", err)
	}

	var records []journal.OrderRecord
	for {
		var row orderSourceRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("OrderRows: iterating: %w", err)
		}
		records = append(records, row.toRecord())
	}
	return records, nil
}

// IncomeRows reads income-release rows. In monthly scope both the release
// month and the order month must match the unit's month.
func (s *Store) IncomeRows(ctx context.Context, scope journal.SourceScope) ([]journal.IncomeRecord, error) {
	var q *bigquery.Query
	if scope.ByMonth {
		q = s.client.Query(fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE month_income = @month
			  AND month_order = @month
			  AND LENGTH(order_number) > 1
			  AND folder_id = @folder_id
		`, incomeColumns, s.table(s.cfg.IncomeTable)))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "month", Value: scope.Month},
			{Name: "folder_id", Value: scope.FolderID},
		}
	} else {
		q = s.client.Query(fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE DATE(order_creation_time) BETWEEN @start_date AND @end_date
			  AND LENGTH(order_number) > 1
		`, incomeColumns, s.table(s.cfg.IncomeTable)))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "start_date", Value: civil.DateOf(scope.StartDate)},
			{Name: "end_date", Value: civil.DateOf(scope.EndDate)},
		}
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("IncomeRows: reading query: %w", err)
	}

	var records []journal.IncomeRecord
	for {
		var row incomeSourceRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("IncomeRows: iterating: %w", err)
		}
		records = append(records, row.toRecord())
	}
	return records, nil
}

// WalletRows reads wallet postings ordered by transaction date descending;
// the withdrawal scan depends on that order. Monthly scope keeps every
// posting of the month; date-range scope keeps only order-bound postings.
func (s *Store) WalletRows(ctx context.Context, scope journal.SourceScope) ([]journal.WalletRecord, error) {
	var q *bigquery.Query
	if scope.ByMonth {
		q = s.client.Query(fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE month_wallet = @month
			  AND folder_id = @folder_id
			ORDER BY transaction_date DESC
		`, walletColumns, s.table(s.cfg.WalletTable)))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "month", Value: scope.Month},
			{Name: "folder_id", Value: scope.FolderID},
		}
	} else {
		q = s.client.Query(fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE DATE(transaction_date) BETWEEN @start_date AND @end_date
			  AND LENGTH(order_number) > 1
			ORDER BY transaction_date DESC
		`, walletColumns, s.table(s.cfg.WalletTable)))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "start_date", Value: civil.DateOf(scope.StartDate)},
			{Name: "end_date", Value: civil.DateOf(scope.EndDate)},
		}
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("WalletRows: reading query: %w", err)
	}

	var records []journal.WalletRecord
	for {
		var row walletSourceRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("WalletRows: iterating: %w", err)
		}
		records = append(records, row.toRecord())
	}
	return records, nil
}

const incomeColumns = `
	folder_id,
	order_number,
	order_creation_time,
	fund_release_date,
	original_product_price,
	total_product_discount,
	buyer_refund_amount,
	product_discount,
	seller_borne_voucher_discount,
	seller_borne_cashback_coins,
	shipping_paid_by_buyer,
	shipping_discount_borne_by_courier,
	free_shipping_subsidy,
	shipping_fees_forwarded_to_courier,
	return_shipping_cost,
	shipping_fee_refund,
	ams_commission_fee,
	administration_fee,
	service_fee,
	program_fee,
	submission_number,
	buyer_username,
	buyer_payment_method,
	voucher_code,
	courier_service,
	courier_name`

const walletColumns = `
	folder_id,
	order_number,
	transaction_date,
	transaction_type,
	transaction_category,
	description,
	status,
	amount,
	ending_balance`
