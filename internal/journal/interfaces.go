package journal

import (
	"context"
	"time"
)

// SourceScope selects source rows for one unit of work: either one
// (month, folder) slice or an order-level date range across all folders.
type SourceScope struct {
	ByMonth  bool
	Month    string
	FolderID string

	StartDate time.Time
	EndDate   time.Time
}

// SourceReader reads the three raw transaction streams from the warehouse.
// Wallet rows must be returned ordered by transaction date descending; the
// withdrawal scan depends on that order.
type SourceReader interface {
	OrderRows(ctx context.Context, scope SourceScope) ([]OrderRecord, error)
	IncomeRows(ctx context.Context, scope SourceScope) ([]IncomeRecord, error)
	WalletRows(ctx context.Context, scope SourceScope) ([]WalletRecord, error)
}

// MonthActivity is one month of wallet history for a folder, with whether any
// withdrawal-description posting exists in that month.
type MonthActivity struct {
	Month         string
	HasWithdrawal bool
}

// DashboardExporter archives the finished entries of one dashboard unit.
type DashboardExporter interface {
	Export(ctx context.Context, reportMonth, folderID string, entries []LedgerEntry) error
}

// JournalStore persists and reads back reconciled journal and dashboard rows.
// Upserts replace any existing rows with the same key tuple, so re-running a
// unit with unchanged inputs yields an identical row set.
type JournalStore interface {
	UpsertJournalBase(ctx context.Context, reportMonth, folderID string, rows []JournalRow) error
	UpsertJournalOrder(ctx context.Context, rows []JournalRow, transformed bool) error
	UpsertDashboard(ctx context.Context, reportMonth, folderID string, entries []LedgerEntry) error

	// JournalBase returns the persisted journal rows for one (report month, folder).
	JournalBase(ctx context.Context, reportMonth, folderID string) ([]JournalRow, error)

	// WalletMonthActivity returns, ordered by month ascending, the months of
	// the given set that have any wallet rows for the folder, each with its
	// withdrawal flag.
	WalletMonthActivity(ctx context.Context, folderID string, months []string) ([]MonthActivity, error)

	// WithdrawalCount counts withdrawal-description journal rows in the
	// report month for the folder.
	WithdrawalCount(ctx context.Context, reportMonth, folderID string) (int64, error)

	// PendingRows returns journal rows of the given wallet months that are
	// still not withdrawn.
	PendingRows(ctx context.Context, walletMonths []string, folderID string) ([]JournalRow, error)

	// CarriedIncomeRows returns prior-month order-level income rows that
	// still have an outstanding receivable journal row, joined with the
	// journal wallet rows of the unsettled window.
	CarriedIncomeRows(ctx context.Context, folderID string, walletMonths, incomeMonths, orderMonths []string) ([]JournalRow, error)
}
