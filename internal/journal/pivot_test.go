package journal

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func walletRow(folder, order string, d time.Time, desc string, amount float64) WalletRecord {
	return WalletRecord{
		FolderID:        folder,
		OrderNumber:     order,
		TransactionDate: d,
		Description:     desc,
		Amount:          amount,
	}
}

func pivotSum(pivots []WalletPivot) float64 {
	var sum float64
	for i := range pivots {
		sum += pivots[i].Total()
	}
	return sum
}

func TestTransformWallet_GroupsAndSumsByCategory(t *testing.T) {
	rows := []WalletRecord{
		walletRow("f1", "ORD1", day(1), "Penghasilan dari pesanan ORD1", 100),
		walletRow("f1", "ORD1", day(1), "Iklan produk", -20),
		walletRow("f1", "", day(2), "Penarikan Dana", -80),
	}

	pivots := TransformWallet(rows, zerolog.Nop())
	if len(pivots) != 2 {
		t.Fatalf("expected 2 pivot rows, got %d", len(pivots))
	}

	sortPivots(pivots)

	p := pivots[0]
	if p.OrderNumber != "ORD1" {
		t.Fatalf("unexpected first pivot row: %+v", p)
	}
	if got := p.Amounts[CategoryOrderIncome]; got != 100 {
		t.Errorf("order income amount = %v, want 100", got)
	}
	if got := p.Amounts[CategoryAdsSpend]; got != -20 {
		t.Errorf("ads amount = %v, want -20", got)
	}
	if got := p.Amounts[CategoryRefund]; got != 0 {
		t.Errorf("absent category must default to 0, got %v", got)
	}

	if got := pivots[1].Amounts[CategoryWithdrawal]; got != -80 {
		t.Errorf("withdrawal amount = %v, want -80", got)
	}
}

func TestTransformWallet_SumConservation(t *testing.T) {
	rows := []WalletRecord{
		walletRow("f1", "ORD1", day(1), "Penghasilan dari pesanan", 120),
		walletRow("f1", "ORD1", day(3), "Pengembalian Dana", -30),
		walletRow("f1", "ORD2", day(2), "Penghasilan dari pesanan", 55.5),
		walletRow("f1", "", day(4), "mystery posting", 7),
		walletRow("f2", "ORD1", day(1), "Penarikan Dana", -40),
	}

	var original float64
	for _, r := range rows {
		original += r.Amount
	}

	pivots := TransformWallet(rows, zerolog.Nop())
	if got := pivotSum(pivots); got != original {
		t.Errorf("pivot sum = %v, want %v (conservation violated)", got, original)
	}
}

func TestTransformWallet_DuplicateOrdersCollapsed(t *testing.T) {
	// ORD1 appears in two pivot groups (two dates); the collapse keeps the
	// earliest date and sums category amounts.
	rows := []WalletRecord{
		walletRow("f1", "ORD1", day(5), "Penghasilan dari pesanan", 100),
		walletRow("f1", "ORD1", day(2), "Pengembalian Dana", -25),
		walletRow("f1", "ORD2", day(3), "Penghasilan dari pesanan", 10),
	}

	pivots := TransformWallet(rows, zerolog.Nop())
	if len(pivots) != 2 {
		t.Fatalf("expected 2 rows after duplicate collapse, got %d", len(pivots))
	}

	var ord1 *WalletPivot
	for i := range pivots {
		if pivots[i].OrderNumber == "ORD1" {
			ord1 = &pivots[i]
		}
	}
	if ord1 == nil {
		t.Fatal("ORD1 row missing after collapse")
	}
	if !ord1.TransactionDate.Equal(day(2)) {
		t.Errorf("collapsed row date = %v, want earliest %v", ord1.TransactionDate, day(2))
	}
	if got := ord1.Amounts[CategoryOrderIncome]; got != 100 {
		t.Errorf("collapsed order income = %v, want 100", got)
	}
	if got := ord1.Amounts[CategoryRefund]; got != -25 {
		t.Errorf("collapsed refund = %v, want -25", got)
	}

	var original float64
	for _, r := range rows {
		original += r.Amount
	}
	if got := pivotSum(pivots); got != original {
		t.Errorf("post-collapse pivot sum = %v, want %v", got, original)
	}
}

func TestTransformWallet_EmptyOrderDuplicatesNotCollapsed(t *testing.T) {
	// Rows without a real order number may repeat across dates and must stay
	// separate.
	rows := []WalletRecord{
		walletRow("f1", "", day(1), "Penarikan Dana", -10),
		walletRow("f1", "", day(2), "Penarikan Dana", -20),
	}
	pivots := TransformWallet(rows, zerolog.Nop())
	if len(pivots) != 2 {
		t.Errorf("expected empty-order duplicates to stay separate, got %d rows", len(pivots))
	}
}
