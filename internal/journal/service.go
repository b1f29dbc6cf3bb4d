package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Service reconciles the three transaction streams into journal rows and
// turns persisted journal rows into the debit/credit dashboard. Each call
// processes one independent unit of work and owns its own working copies;
// units are safe to run concurrently across stores and months.
type Service struct {
	src      SourceReader
	store    JournalStore
	stores   map[string]StoreInfo
	exporter DashboardExporter
	log      zerolog.Logger
}

func NewService(src SourceReader, store JournalStore, stores map[string]StoreInfo, log zerolog.Logger) *Service {
	return &Service{src: src, store: store, stores: stores, log: log}
}

// WithExporter attaches an archival exporter invoked after each successful
// dashboard upsert. Export failures are logged and do not fail the unit.
func (s *Service) WithExporter(e DashboardExporter) *Service {
	s.exporter = e
	return s
}

// JournalOptions selects one of the three journal modes.
//
// JournalBase processes one (store, month) and produces the monthly journal
// with withdrawal states and sheet flags, keyed by (report month, folder).
// With JournalBase false the run tracks every order across time from
// StartDate, keyed by (order number, folder); Transform additionally pivots
// the wallet side by category.
type JournalOptions struct {
	JournalBase bool
	DataMonth   string
	FolderID    string
	StartDate   time.Time
	Transform   bool
}

func (o JournalOptions) validate() error {
	if o.JournalBase {
		if o.DataMonth == "" || o.FolderID == "" {
			return fmt.Errorf("journal base mode requires a data month and a folder id")
		}
		if o.Transform {
			return fmt.Errorf("journal base mode operates on raw wallet rows")
		}
		return nil
	}
	if o.StartDate.IsZero() {
		return fmt.Errorf("order-level mode requires a start date")
	}
	return nil
}

func (o JournalOptions) unit() string {
	if o.JournalBase {
		return fmt.Sprintf("journal %s/%s", o.FolderID, o.DataMonth)
	}
	if o.Transform {
		return "journal order transform"
	}
	return "journal order"
}

// BuildJournal runs one journal unit end to end: fetch the three sources,
// reconcile, and replace the unit's persisted rows. It is idempotent per
// scope. An empty source row-set aborts the unit before any write and returns
// a SkipError.
func (s *Service) BuildJournal(ctx context.Context, opts JournalOptions) error {
	if err := opts.validate(); err != nil {
		return fmt.Errorf("BuildJournal: %w", err)
	}

	log := s.log.With().Str("unit", opts.unit()).Logger()
	log.Info().Msg("building journal")

	scope := SourceScope{
		ByMonth:  opts.JournalBase,
		Month:    opts.DataMonth,
		FolderID: opts.FolderID,
	}
	if !opts.JournalBase {
		scope.StartDate = opts.StartDate
		scope.EndDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	var (
		orders  []OrderRecord
		incomes []IncomeRecord
		wallets []WalletRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = s.src.OrderRows(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		incomes, err = s.src.IncomeRows(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		wallets, err = s.src.WalletRows(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("BuildJournal: reading sources: %w", err)
	}

	var missing []string
	if len(orders) == 0 {
		missing = append(missing, "order")
	}
	if len(incomes) == 0 {
		missing = append(missing, "income")
	}
	if len(wallets) == 0 {
		missing = append(missing, "wallet")
	}
	if len(missing) > 0 {
		return &SkipError{Unit: opts.unit(), Missing: missing}
	}

	wallets = DedupeWithdrawals(wallets)

	var sides []walletSide
	useHelper := !opts.Transform

	if opts.Transform {
		pivots := TransformWallet(wallets, log)
		sides = make([]walletSide, len(pivots))
		for i := range pivots {
			sides[i] = walletSide{pivot: &pivots[i]}
		}
	} else {
		var states []bool
		var orderNumbers map[string]bool
		if opts.JournalBase {
			states = MarkWithdrawn(wallets)
			orderNumbers = make(map[string]bool, len(orders))
			for _, o := range orders {
				orderNumbers[o.OrderNumber] = true
			}
		}
		sides = make([]walletSide, len(wallets))
		for i := range wallets {
			sides[i] = walletSide{rec: &wallets[i]}
			if describedAsIncome(wallets[i].Description) {
				sides[i].helper = 1
			}
			if opts.JournalBase {
				sides[i].withdrawn = states[i]
				sides[i].thisMonth = orderNumbers[wallets[i].OrderNumber]
			}
		}
	}

	rows := mergeRows(orders, incomes, sides, useHelper)

	if opts.JournalBase {
		applySheetFlags(rows)
	}

	for i := range rows {
		rows[i].Store = s.stores[rows[i].FolderID]
		if opts.JournalBase {
			rows[i].ReportMonth = opts.DataMonth
		}
	}

	log.Info().
		Int("orders", len(orders)).
		Int("incomes", len(incomes)).
		Int("wallets", len(wallets)).
		Int("merged", len(rows)).
		Msg("journal reconciled")

	if opts.JournalBase {
		if err := s.store.UpsertJournalBase(ctx, opts.DataMonth, opts.FolderID, rows); err != nil {
			return fmt.Errorf("BuildJournal: upsert journal base: %w", err)
		}
		return nil
	}
	if err := s.store.UpsertJournalOrder(ctx, rows, opts.Transform); err != nil {
		return fmt.Errorf("BuildJournal: upsert journal order: %w", err)
	}
	return nil
}

// BuildDashboard assembles the debit/credit dashboard for one
// (report month, folder) from persisted journal rows: nine current-month
// entries, the receivable reversal, and the previous-month carry-in entries,
// then replaces the dashboard rows for that key. Idempotent per key.
func (s *Service) BuildDashboard(ctx context.Context, reportMonth, folderID string) error {
	log := s.log.With().
		Str("report_month", reportMonth).
		Str("folder_id", folderID).
		Logger()
	log.Info().Msg("building dashboard")

	base, err := s.store.JournalBase(ctx, reportMonth, folderID)
	if err != nil {
		return fmt.Errorf("BuildDashboard: reading journal base: %w", err)
	}
	if len(base) == 0 {
		return &SkipError{
			Unit:    fmt.Sprintf("dashboard %s/%s", folderID, reportMonth),
			Missing: []string{"journal base"},
		}
	}

	grossSales := debitCredit(base, entrySpec{
		include: omsetRows, sortIndex: 1, category: "Penjualan Kotor (O)",
		amount: orderAmount(func(o *OrderRecord) float64 { return o.TotalProductPrice }),
	})

	entries := append([]LedgerEntry{}, grossSales...)
	for _, spec := range currentMonthIncomeSpecs() {
		entries = append(entries, debitCredit(base, spec)...)
	}
	entries = append(entries, debitCredit(base, entrySpec{
		include: withdrawnRows, sortIndex: 9, walletMode: true, amount: walletAmount,
	})...)

	entries = append(entries, reverseEntries(grossSales, 10, "Piutang (O)")...)

	pendingIncome, err := s.pendingLastMonth(ctx, reportMonth, folderID, refIncome)
	if err != nil {
		return fmt.Errorf("BuildDashboard: pending last month: %w", err)
	}
	withdrawn, err := s.withdrawnLastMonth(ctx, reportMonth, folderID)
	if err != nil {
		return fmt.Errorf("BuildDashboard: withdrawn last month: %w", err)
	}

	lastMonth := append(withdrawn, pendingIncome...)
	if len(lastMonth) > 0 {
		for _, spec := range previousMonthIncomeSpecs() {
			entries = append(entries, debitCredit(lastMonth, spec)...)
		}
	}

	pendingWallet, err := s.pendingLastMonth(ctx, reportMonth, folderID, refWallet)
	if err != nil {
		return fmt.Errorf("BuildDashboard: pending wallet: %w", err)
	}
	if len(pendingWallet) > 0 {
		entries = append(entries, debitCredit(pendingWallet, entrySpec{
			include: allRows, sortIndex: 19, walletMode: true, amount: walletAmount,
			prefix: previousMonthPrefix, forcePending: true,
		})...)
	}

	log.Info().Int("entries", len(entries)).Msg("dashboard assembled")

	if err := s.store.UpsertDashboard(ctx, reportMonth, folderID, entries); err != nil {
		return fmt.Errorf("BuildDashboard: upsert dashboard: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, reportMonth, folderID, entries); err != nil {
			log.Warn().Err(err).Msg("snapshot export failed")
		}
	}
	return nil
}

const previousMonthPrefix = "Previous Month - "

// currentMonthIncomeSpecs is the fixed layout of the current-month income
// entries (sort indexes 2..8): each books one fee component of rows flagged
// as withdrawn-this-month.
func currentMonthIncomeSpecs() []entrySpec {
	return []entrySpec{
		{include: wpRows, sortIndex: 2, category: "Pengembalian Dana (I)",
			amount: incomeAmount(func(i *IncomeRecord) float64 { return i.BuyerRefundAmount })},
		{include: wpRows, sortIndex: 3, category: "Diskon Produk Dari Marketplace (I)",
			amount: incomeAmount(func(i *IncomeRecord) float64 { return i.ProductDiscount })},
		{include: wpRows, sortIndex: 4, category: "Beban Ongkir (I)",
			amount: incomeAmount((*IncomeRecord).ShippingCost)},
		{include: wpRows, sortIndex: 5, category: "Biaya AMS (I)",
			amount: incomeAmount(func(i *IncomeRecord) float64 { return i.AMSCommissionFee })},
		{include: wpRows, sortIndex: 6, category: "Biaya Admin (I)",
			amount: incomeAmount(func(i *IncomeRecord) float64 { return i.AdministrationFee })},
		{include: wpRows, sortIndex: 7, category: "Biaya Layanan (I)",
			amount: incomeAmount(func(i *IncomeRecord) float64 { return i.ServiceFee })},
		{include: wpRows, sortIndex: 8, category: "Biaya Program (I)",
			amount: incomeAmount(func(i *IncomeRecord) float64 { return i.ProgramFee })},
	}
}

// previousMonthIncomeSpecs mirrors the current-month income layout for
// carried-in rows (sort indexes 11..18), led by the receivable principal.
func previousMonthIncomeSpecs() []entrySpec {
	specs := []entrySpec{
		{include: allRows, sortIndex: 11, category: previousMonthPrefix + "Piutang (I)",
			amount: incomeAmount(func(i *IncomeRecord) float64 {
				return i.OriginalProductPrice + i.TotalProductDiscount
			})},
	}
	for _, spec := range currentMonthIncomeSpecs() {
		spec.include = allRows
		spec.sortIndex += 10
		spec.category = previousMonthPrefix + spec.category
		specs = append(specs, spec)
	}
	return specs
}
