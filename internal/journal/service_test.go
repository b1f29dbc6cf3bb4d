package journal

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

type fakeSourceReader struct {
	orders  []OrderRecord
	incomes []IncomeRecord
	wallets []WalletRecord

	lastScope SourceScope
}

func (f *fakeSourceReader) OrderRows(_ context.Context, scope SourceScope) ([]OrderRecord, error) {
	f.lastScope = scope
	return f.orders, nil
}

func (f *fakeSourceReader) IncomeRows(_ context.Context, _ SourceScope) ([]IncomeRecord, error) {
	return f.incomes, nil
}

func (f *fakeSourceReader) WalletRows(_ context.Context, _ SourceScope) ([]WalletRecord, error) {
	return f.wallets, nil
}

func TestJournalOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    JournalOptions
		wantErr bool
	}{
		{"journal base complete", JournalOptions{JournalBase: true, DataMonth: "202408", FolderID: "f1"}, false},
		{"journal base missing month", JournalOptions{JournalBase: true, FolderID: "f1"}, true},
		{"journal base missing folder", JournalOptions{JournalBase: true, DataMonth: "202408"}, true},
		{"journal base rejects transform", JournalOptions{JournalBase: true, DataMonth: "202408", FolderID: "f1", Transform: true}, true},
		{"order level needs start date", JournalOptions{}, true},
		{"order level complete", JournalOptions{StartDate: day(1)}, false},
		{"order level transformed", JournalOptions{StartDate: day(1), Transform: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildJournal_SkipsWhenSourceEmpty(t *testing.T) {
	src := &fakeSourceReader{
		orders: []OrderRecord{{FolderID: "f1", OrderNumber: "A"}},
		// income and wallet streams empty
	}
	store := &fakeJournalStore{}
	s := NewService(src, store, nil, zerolog.Nop())

	err := s.BuildJournal(context.Background(), JournalOptions{
		JournalBase: true, DataMonth: "202408", FolderID: "f1",
	})
	if !IsSkip(err) {
		t.Fatalf("expected a skip error for empty sources, got %v", err)
	}
	if store.upsertedBase != nil {
		t.Error("nothing may be written when a source is empty")
	}
}

func TestBuildJournal_JournalBaseEndToEnd(t *testing.T) {
	src := &fakeSourceReader{
		orders: []OrderRecord{
			{FolderID: "f1", OrderNumber: "A", OrderCreationTime: day(3), TotalProductPrice: 100},
			{FolderID: "f1", OrderNumber: "B", OrderCreationTime: day(4), TotalProductPrice: 60},
		},
		incomes: []IncomeRecord{
			{FolderID: "f1", OrderNumber: "A", FundReleaseDate: day(6), OriginalProductPrice: 100},
		},
		// Date descending: withdrawal last chronologically comes first.
		wallets: []WalletRecord{
			{FolderID: "f1", TransactionDate: day(8), TransactionType: WithdrawalTransactionType,
				Description: "Penarikan Dana", Amount: -100, EndingBalance: 0},
			{FolderID: "f1", OrderNumber: "A", TransactionDate: day(7),
				Description: "Penghasilan dari pesanan A", Amount: 100},
		},
	}
	store := &fakeJournalStore{}
	stores := map[string]StoreInfo{"f1": {StoreID: "S1", Name: "Store One", Platform: "shopee"}}
	s := NewService(src, store, stores, zerolog.Nop())

	err := s.BuildJournal(context.Background(), JournalOptions{
		JournalBase: true, DataMonth: "202408", FolderID: "f1",
	})
	if err != nil {
		t.Fatalf("BuildJournal error: %v", err)
	}

	if store.upsertedBaseKey != "202408/f1" {
		t.Errorf("upsert key = %q, want 202408/f1", store.upsertedBaseKey)
	}
	if !src.lastScope.ByMonth || src.lastScope.Month != "202408" {
		t.Errorf("source scope = %+v, want monthly scope for 202408", src.lastScope)
	}

	rows := store.upsertedBase
	if len(rows) != 3 {
		t.Fatalf("expected 3 journal rows (A merged, B alone, withdrawal alone), got %d", len(rows))
	}

	byOrder := make(map[string]JournalRow)
	var walletOnly *JournalRow
	for i, r := range rows {
		if r.ReportMonth != "202408" {
			t.Errorf("row %d report month = %q, want 202408", i, r.ReportMonth)
		}
		if r.Store.StoreID != "S1" {
			t.Errorf("row %d missing store dimensions: %+v", i, r.Store)
		}
		if r.MergeStatus == StatusWallet {
			walletOnly = &rows[i]
			continue
		}
		byOrder[r.OrderNumber] = r
	}

	a := byOrder["A"]
	if a.MergeStatus != StatusOrderIncomeWallet {
		t.Errorf("order A status = %q, want ORDER,INCOME,WALLET", a.MergeStatus)
	}
	if !a.HasBeenWithdrawn || !a.SheetWP || !a.SheetOmset || a.SheetPiutang {
		t.Errorf("order A flags wrong: %+v", a)
	}

	b := byOrder["B"]
	if b.MergeStatus != StatusOrder {
		t.Errorf("order B status = %q, want ORDER", b.MergeStatus)
	}
	if !b.SheetOmset || !b.SheetPiutang || b.SheetWP {
		t.Errorf("order B flags wrong: %+v", b)
	}

	if walletOnly == nil {
		t.Fatal("withdrawal posting missing from the journal")
	}
	if walletOnly.SheetOmset || walletOnly.SheetPiutang {
		t.Errorf("withdrawal row flags wrong: %+v", walletOnly)
	}
}

func TestBuildJournal_OrderLevelMode(t *testing.T) {
	src := &fakeSourceReader{
		orders:  []OrderRecord{{FolderID: "f1", OrderNumber: "A", OrderCreationTime: day(1)}},
		incomes: []IncomeRecord{{FolderID: "f1", OrderNumber: "A", FundReleaseDate: day(2)}},
		wallets: []WalletRecord{{FolderID: "f1", OrderNumber: "A", TransactionDate: day(3),
			Description: "Penghasilan dari pesanan A", Amount: 10}},
	}
	store := &fakeJournalStore{}
	s := NewService(src, store, nil, zerolog.Nop())

	err := s.BuildJournal(context.Background(), JournalOptions{StartDate: day(1)})
	if err != nil {
		t.Fatalf("BuildJournal error: %v", err)
	}

	if store.upsertedOrder == nil {
		t.Fatal("order-level rows were not written")
	}
	if store.orderTransformed {
		t.Error("raw mode must not be marked transformed")
	}
	for _, r := range store.upsertedOrder {
		if r.SheetOmset || r.SheetWP || r.SheetPiutang {
			t.Error("order-level mode carries no sheet flags")
		}
		if r.ReportMonth != "" {
			t.Error("order-level rows carry no report month")
		}
	}
}

func TestBuildJournal_TransformPivotsWallet(t *testing.T) {
	src := &fakeSourceReader{
		orders:  []OrderRecord{{FolderID: "f1", OrderNumber: "A", OrderCreationTime: day(1)}},
		incomes: []IncomeRecord{{FolderID: "f1", OrderNumber: "A", FundReleaseDate: day(2)}},
		wallets: []WalletRecord{
			{FolderID: "f1", OrderNumber: "A", TransactionDate: day(3),
				Description: "Penghasilan dari pesanan A", Amount: 90},
			{FolderID: "f1", OrderNumber: "A", TransactionDate: day(3),
				Description: "Iklan produk", Amount: -15},
		},
	}
	store := &fakeJournalStore{}
	s := NewService(src, store, nil, zerolog.Nop())

	err := s.BuildJournal(context.Background(), JournalOptions{StartDate: day(1), Transform: true})
	if err != nil {
		t.Fatalf("BuildJournal error: %v", err)
	}
	if !store.orderTransformed {
		t.Error("transform mode must be marked on the upsert")
	}

	// The pivot joins on (folder, order) without the helper flag, so the two
	// wallet postings collapse into one pivot row merged with the order.
	if len(store.upsertedOrder) != 1 {
		t.Fatalf("expected 1 merged row, got %d", len(store.upsertedOrder))
	}
	r := store.upsertedOrder[0]
	if r.MergeStatus != StatusOrderIncomeWallet {
		t.Errorf("status = %q, want ORDER,INCOME,WALLET", r.MergeStatus)
	}
	if r.Pivot == nil {
		t.Fatal("transform mode rows must carry the pivoted wallet side")
	}
	if got := r.Pivot.Amounts[CategoryOrderIncome]; got != 90 {
		t.Errorf("pivot order income = %v, want 90", got)
	}
	if got := r.Pivot.Amounts[CategoryAdsSpend]; got != -15 {
		t.Errorf("pivot ads spend = %v, want -15", got)
	}
}

func TestBuildDashboard_SkipsWithoutJournalRows(t *testing.T) {
	store := &fakeJournalStore{baseRows: map[string][]JournalRow{}}
	s := newTestService(store)

	err := s.BuildDashboard(context.Background(), "202408", "f1")
	if !IsSkip(err) {
		t.Fatalf("expected a skip error for an empty journal, got %v", err)
	}
	if store.upsertedDashboard != nil {
		t.Error("nothing may be written when the journal is empty")
	}
}

func TestBuildDashboard_AssemblesLayout(t *testing.T) {
	base := []JournalRow{
		{
			ReportMonth: "202408", FolderID: "f1", OrderNumber: "A",
			Order:            &OrderRecord{TotalProductPrice: 100},
			Income:           &IncomeRecord{AdministrationFee: -8, ServiceFee: -3},
			Wallet:           &WalletRecord{Description: "Penghasilan dari pesanan A", Amount: 89},
			HasBeenWithdrawn: true, ThisMonthOrder: true, DescribedAsIncome: true,
			SheetOmset: true, SheetWP: true,
		},
		{
			ReportMonth: "202408", FolderID: "f1", OrderNumber: "B",
			Order:      &OrderRecord{TotalProductPrice: 60},
			SheetOmset: true, SheetPiutang: true,
		},
		{
			ReportMonth: "202408", FolderID: "f1",
			Wallet:           &WalletRecord{Description: "Penarikan Dana", Amount: -89},
			HasBeenWithdrawn: true,
		},
	}
	store := &fakeJournalStore{
		baseRows: map[string][]JournalRow{"202408/f1": base},
		activity: []MonthActivity{{Month: "202407", HasWithdrawal: true}},
	}
	s := newTestService(store)

	if err := s.BuildDashboard(context.Background(), "202408", "f1"); err != nil {
		t.Fatalf("BuildDashboard error: %v", err)
	}
	if store.dashboardKey != "202408/f1" {
		t.Errorf("dashboard key = %q, want 202408/f1", store.dashboardKey)
	}

	bySort := make(map[int][]LedgerEntry)
	for _, e := range store.upsertedDashboard {
		bySort[e.SortIndex] = append(bySort[e.SortIndex], e)
	}

	// Gross sales books both orders.
	if got := len(bySort[1]); got != 2 {
		t.Errorf("gross sales entries = %d, want 2", got)
	}
	// Fee components only book the withdrawn row; zero components drop out.
	if got := len(bySort[6]); got != 1 {
		t.Errorf("admin fee entries = %d, want 1", got)
	}
	if got := len(bySort[2]); got != 0 {
		t.Errorf("refund entries = %d, want 0 for zero amounts", got)
	}
	// The withdrawn wallet pass excludes income postings and keeps the
	// withdrawal under its wallet label.
	w := bySort[9]
	if len(w) != 1 {
		t.Fatalf("wallet entries = %d, want 1", len(w))
	}
	if w[0].Category != string(CategoryWithdrawal)+walletCategorySuffix {
		t.Errorf("wallet entry category = %q", w[0].Category)
	}
	// The receivable reversal mirrors order B's pending amount.
	rev := bySort[10]
	if len(rev) != 1 || rev[0].ValuePending != -60 || rev[0].Category != "Piutang (O)" {
		t.Errorf("reversal entries wrong: %+v", rev)
	}
}
