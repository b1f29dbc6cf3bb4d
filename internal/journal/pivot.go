package journal

import (
	"sort"

	"github.com/rs/zerolog"
)

type pivotKey struct {
	folderID    string
	date        int64
	orderNumber string
}

// TransformWallet categorizes every wallet posting and pivots the set into
// one row per (folder, transaction date, order number) with one summed amount
// per category. Rows that share (folder, order number) across several pivot
// groups are collapsed again when the order number is real: earliest date
// wins, category amounts are summed.
//
// The summed category amounts must equal the summed raw amounts before and
// after the duplicate collapse. A mismatch is logged loudly and the result is
// still returned; downstream totals may remain usable.
func TransformWallet(rows []WalletRecord, log zerolog.Logger) []WalletPivot {
	byGroup := make(map[pivotKey]*WalletPivot)
	var order []pivotKey

	for _, r := range rows {
		cat := Categorize(r.Description, WalletRules, ModeDatabase, StyleFlexible)
		k := pivotKey{r.FolderID, r.TransactionDate.UnixNano(), r.OrderNumber}
		p, ok := byGroup[k]
		if !ok {
			p = &WalletPivot{
				FolderID:        r.FolderID,
				TransactionDate: r.TransactionDate,
				OrderNumber:     r.OrderNumber,
				Amounts:         newAmounts(),
			}
			byGroup[k] = p
			order = append(order, k)
		}
		p.Amounts[cat] += r.Amount
	}

	pivots := make([]WalletPivot, 0, len(order))
	for _, k := range order {
		pivots = append(pivots, *byGroup[k])
	}

	validatePivot(rows, pivots, log)

	final := collapseDuplicates(pivots)

	validatePivot(rows, final, log)

	return final
}

// collapseDuplicates re-groups pivot rows that share (folder, order number).
// Only duplicates with a real order number (length > 1) are collapsed; the
// rest pass through untouched, as do all unique rows.
func collapseDuplicates(pivots []WalletPivot) []WalletPivot {
	type dupKey struct{ folderID, orderNumber string }

	counts := make(map[dupKey]int)
	for _, p := range pivots {
		counts[dupKey{p.FolderID, p.OrderNumber}]++
	}

	grouped := make(map[dupKey]*WalletPivot)
	var groupOrder []dupKey
	var out []WalletPivot

	for _, p := range pivots {
		k := dupKey{p.FolderID, p.OrderNumber}
		if counts[k] < 2 || len(p.OrderNumber) <= 1 {
			out = append(out, p)
			continue
		}
		g, ok := grouped[k]
		if !ok {
			cp := p
			cp.Amounts = newAmounts()
			grouped[k] = &cp
			groupOrder = append(groupOrder, k)
			g = &cp
		}
		if p.TransactionDate.Before(g.TransactionDate) {
			g.TransactionDate = p.TransactionDate
		}
		for c, v := range p.Amounts {
			g.Amounts[c] += v
		}
	}

	for _, k := range groupOrder {
		out = append(out, *grouped[k])
	}
	return out
}

func newAmounts() map[Category]float64 {
	m := make(map[Category]float64, len(PivotCategories))
	for _, c := range PivotCategories {
		m[c] = 0
	}
	return m
}

func validatePivot(rows []WalletRecord, pivots []WalletPivot, log zerolog.Logger) {
	var original, pivoted float64
	for _, r := range rows {
		original += r.Amount
	}
	for i := range pivots {
		pivoted += pivots[i].Total()
	}
	if original != pivoted {
		log.Error().
			Float64("original_sum", original).
			Float64("pivot_sum", pivoted).
			Msg("wallet pivot sum does not match original sum")
	}
}

// sortPivots orders pivot rows by date then order number. Used by tests to
// compare results independent of map iteration effects.
func sortPivots(pivots []WalletPivot) {
	sort.Slice(pivots, func(i, j int) bool {
		if !pivots[i].TransactionDate.Equal(pivots[j].TransactionDate) {
			return pivots[i].TransactionDate.Before(pivots[j].TransactionDate)
		}
		return pivots[i].OrderNumber < pivots[j].OrderNumber
	})
}
