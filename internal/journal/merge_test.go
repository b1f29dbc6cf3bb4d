package journal

import (
	"testing"
)

func sideFor(rec WalletRecord, withdrawn, thisMonth bool) walletSide {
	s := walletSide{rec: &rec, withdrawn: withdrawn, thisMonth: thisMonth}
	if describedAsIncome(rec.Description) {
		s.helper = 1
	}
	return s
}

func findByStatus(rows []JournalRow, status MergeStatus) []JournalRow {
	var out []JournalRow
	for _, r := range rows {
		if r.MergeStatus == status {
			out = append(out, r)
		}
	}
	return out
}

func TestMergeRows_StatusLabels(t *testing.T) {
	orders := []OrderRecord{
		{FolderID: "f1", OrderNumber: "A", OrderCreationTime: day(1), TotalProductPrice: 100},
		{FolderID: "f1", OrderNumber: "B", OrderCreationTime: day(2), TotalProductPrice: 50},
		{FolderID: "f1", OrderNumber: "C", OrderCreationTime: day(3), TotalProductPrice: 70},
	}
	incomes := []IncomeRecord{
		{FolderID: "f1", OrderNumber: "A", FundReleaseDate: day(5)},
		{FolderID: "f1", OrderNumber: "D", FundReleaseDate: day(6)},
	}
	wallets := []walletSide{
		sideFor(WalletRecord{FolderID: "f1", OrderNumber: "A", TransactionDate: day(7),
			Description: "Penghasilan dari pesanan A", Amount: 90}, true, true),
		sideFor(WalletRecord{FolderID: "f1", OrderNumber: "", TransactionDate: day(8),
			Description: "Penarikan Dana", Amount: -90}, true, false),
	}

	rows := mergeRows(orders, incomes, wallets, true)

	if len(findByStatus(rows, StatusOrderIncomeWallet)) != 1 {
		t.Error("expected one ORDER,INCOME,WALLET row for order A")
	}
	if len(findByStatus(rows, StatusOrder)) != 2 {
		t.Error("expected two ORDER rows for orders B and C")
	}
	if len(findByStatus(rows, StatusIncome)) != 1 {
		t.Error("expected one INCOME row for order D")
	}
	if len(findByStatus(rows, StatusWallet)) != 1 {
		t.Error("expected one WALLET row for the withdrawal posting")
	}
}

func TestMergeRows_Completeness(t *testing.T) {
	orders := []OrderRecord{
		{FolderID: "f1", OrderNumber: "A", OrderCreationTime: day(1)},
		{FolderID: "f1", OrderNumber: "B", OrderCreationTime: day(2)},
	}
	incomes := []IncomeRecord{
		{FolderID: "f1", OrderNumber: "B", FundReleaseDate: day(3)},
	}
	wallets := []walletSide{
		sideFor(WalletRecord{FolderID: "f1", OrderNumber: "B", TransactionDate: day(4),
			Description: "Penghasilan dari pesanan B", Amount: 10}, false, true),
		sideFor(WalletRecord{FolderID: "f1", OrderNumber: "", TransactionDate: day(5),
			Description: "Iklan", Amount: -2}, false, false),
		sideFor(WalletRecord{FolderID: "f1", OrderNumber: "", TransactionDate: day(6),
			Description: "Iklan", Amount: -3}, false, false),
	}

	rows := mergeRows(orders, incomes, wallets, true)

	var orderCount, incomeCount, walletCount int
	for _, r := range rows {
		if r.Order != nil {
			orderCount++
		}
		if r.Income != nil {
			incomeCount++
		}
		if r.Wallet != nil {
			walletCount++
		}
		// Status must list exactly the contributing sources.
		want := statusFor(r.Order != nil, r.Income != nil, r.Wallet != nil)
		if r.MergeStatus != want {
			t.Errorf("row %s: merge status %q, want %q", r.OrderNumber, r.MergeStatus, want)
		}
	}

	if orderCount < len(orders) {
		t.Errorf("order rows in output = %d, want at least %d", orderCount, len(orders))
	}
	if incomeCount < len(incomes) {
		t.Errorf("income rows in output = %d, want at least %d", incomeCount, len(incomes))
	}
	if walletCount < len(wallets) {
		t.Errorf("wallet rows in output = %d, want at least %d", walletCount, len(wallets))
	}
}

func statusFor(hasOrder, hasIncome, hasWallet bool) MergeStatus {
	switch {
	case hasOrder && hasIncome && hasWallet:
		return StatusOrderIncomeWallet
	case hasOrder && hasIncome:
		return StatusOrderIncome
	case hasOrder && hasWallet:
		return StatusOrderWallet
	case hasIncome && hasWallet:
		return StatusIncomeWallet
	case hasOrder:
		return StatusOrder
	case hasIncome:
		return StatusIncome
	default:
		return StatusWallet
	}
}

func TestMergeRows_HelperKeySeparatesNonIncomeWalletRows(t *testing.T) {
	// A fee posting that reuses an order number must not join the order,
	// because its helper flag differs.
	orders := []OrderRecord{
		{FolderID: "f1", OrderNumber: "A", OrderCreationTime: day(1)},
	}
	wallets := []walletSide{
		sideFor(WalletRecord{FolderID: "f1", OrderNumber: "A", TransactionDate: day(2),
			Description: "Iklan untuk pesanan", Amount: -5}, false, true),
	}

	rows := mergeRows(orders, nil, wallets, true)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (order alone, wallet alone), got %d", len(rows))
	}
	if len(findByStatus(rows, StatusOrderWallet)) != 0 {
		t.Error("fee posting must not merge with the order")
	}
}

func TestMergeRows_CrossProductOnSharedKey(t *testing.T) {
	incomes := []IncomeRecord{
		{FolderID: "f1", OrderNumber: "A", FundReleaseDate: day(1)},
	}
	wallets := []walletSide{
		sideFor(WalletRecord{FolderID: "f1", OrderNumber: "A", TransactionDate: day(2),
			Description: "Penghasilan dari pesanan", Amount: 10}, false, false),
		sideFor(WalletRecord{FolderID: "f1", OrderNumber: "A", TransactionDate: day(3),
			Description: "Kompensasi Kehilangan", Amount: 5}, false, false),
	}

	rows := mergeRows(nil, incomes, wallets, true)
	if got := len(findByStatus(rows, StatusIncomeWallet)); got != 2 {
		t.Errorf("expected the income row replicated for both wallet rows, got %d", got)
	}
}

func TestApplySheetFlags(t *testing.T) {
	tests := []struct {
		name        string
		row         JournalRow
		wantOmset   bool
		wantWP      bool
		wantPiutang bool
	}{
		{
			name: "order only is receivable and revenue",
			row: JournalRow{
				MergeStatus: StatusOrder,
				Order:       &OrderRecord{OrderNumber: "A"},
			},
			wantOmset:   true,
			wantWP:      false,
			wantPiutang: true,
		},
		{
			name: "withdrawn wallet row of a current-month order",
			row: JournalRow{
				MergeStatus:       StatusOrderIncomeWallet,
				Order:             &OrderRecord{OrderNumber: "A"},
				Income:            &IncomeRecord{OrderNumber: "A"},
				Wallet:            &WalletRecord{OrderNumber: "A"},
				HasBeenWithdrawn:  true,
				ThisMonthOrder:    true,
				DescribedAsIncome: true,
			},
			wantOmset:   true,
			wantWP:      true,
			wantPiutang: false,
		},
		{
			name: "order with pending wallet row stays receivable",
			row: JournalRow{
				MergeStatus:       StatusOrderWallet,
				Order:             &OrderRecord{OrderNumber: "A"},
				Wallet:            &WalletRecord{OrderNumber: "A"},
				HasBeenWithdrawn:  false,
				ThisMonthOrder:    true,
				DescribedAsIncome: true,
			},
			wantOmset:   true,
			wantWP:      false,
			wantPiutang: true,
		},
		{
			name: "fee wallet row joined to an order is not revenue",
			row: JournalRow{
				MergeStatus:       StatusOrderWallet,
				Order:             &OrderRecord{OrderNumber: "A"},
				Wallet:            &WalletRecord{OrderNumber: "A"},
				HasBeenWithdrawn:  true,
				DescribedAsIncome: false,
			},
			wantOmset:   false,
			wantWP:      false,
			wantPiutang: false,
		},
		{
			name: "wallet only row",
			row: JournalRow{
				MergeStatus:       StatusWallet,
				Wallet:            &WalletRecord{},
				HasBeenWithdrawn:  true,
				DescribedAsIncome: false,
			},
			wantOmset:   false,
			wantWP:      false,
			wantPiutang: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []JournalRow{tt.row}
			applySheetFlags(rows)
			r := rows[0]
			if r.SheetOmset != tt.wantOmset {
				t.Errorf("SheetOmset = %v, want %v", r.SheetOmset, tt.wantOmset)
			}
			if r.SheetWP != tt.wantWP {
				t.Errorf("SheetWP = %v, want %v", r.SheetWP, tt.wantWP)
			}
			if r.SheetPiutang != tt.wantPiutang {
				t.Errorf("SheetPiutang = %v, want %v", r.SheetPiutang, tt.wantPiutang)
			}
		})
	}
}
