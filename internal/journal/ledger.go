package journal

// entrySpec drives one debit/credit pass over a journal row set.
type entrySpec struct {
	include   func(JournalRow) bool
	amount    func(JournalRow) float64
	sortIndex int
	category  string

	// walletMode re-categorizes each row by wallet description (simple,
	// flexible), drops rows already counted as order income, and suffixes the
	// label with the wallet marker.
	walletMode bool

	// prefix is prepended to the final category label.
	prefix string

	// forcePending books the whole amount as pending regardless of the row's
	// piutang flag. The entry still carries the row's real flag.
	forcePending bool
}

const walletCategorySuffix = " (W)"

// debitCredit turns flagged journal rows into signed ledger entries.
// The piutang flag routes the amount to the pending or the withdrawn column;
// positive totals are debits, negative totals credits; zero totals carry no
// accounting meaning and are dropped.
func debitCredit(rows []JournalRow, spec entrySpec) []LedgerEntry {
	var entries []LedgerEntry
	for _, r := range rows {
		if spec.include != nil && !spec.include(r) {
			continue
		}

		amount := spec.amount(r)
		pending := r.SheetPiutang || spec.forcePending

		var withdrawn, pendingVal float64
		if pending {
			pendingVal = amount
		} else {
			withdrawn = amount
		}
		total := withdrawn + pendingVal
		if total == 0 {
			continue
		}

		category := spec.category
		if spec.walletMode {
			if r.Wallet == nil {
				continue
			}
			c := Categorize(r.Wallet.Description, WalletRules, ModeSimple, StyleFlexible)
			if c == CategoryOrderIncome {
				continue
			}
			category = string(c) + walletCategorySuffix
		}
		if spec.prefix != "" {
			category = spec.prefix + category
		}

		entries = append(entries, LedgerEntry{
			ReportMonth:    r.ReportMonth,
			FolderID:       r.FolderID,
			Store:          r.Store,
			OrderNumber:    r.OrderNumber,
			Category:       category,
			SortIndex:      spec.sortIndex,
			ValueWithdrawn: withdrawn,
			ValuePending:   pendingVal,
			ValueTotal:     total,
			ValueDebit:     debitOf(total),
			ValueCredit:    creditOf(total),
			Piutang:        r.SheetPiutang,
		})
	}
	return entries
}

// reverseEntries produces the receivable contra-entry for an entry set:
// the withdrawn component is zeroed, the pending component negated, and
// debit/credit recomputed under the new label.
func reverseEntries(entries []LedgerEntry, sortIndex int, category string) []LedgerEntry {
	var out []LedgerEntry
	for _, e := range entries {
		total := -e.ValuePending
		if total == 0 {
			continue
		}
		e.ValueWithdrawn = 0
		e.ValuePending = total
		e.ValueTotal = total
		e.ValueDebit = debitOf(total)
		e.ValueCredit = creditOf(total)
		e.Category = category
		e.SortIndex = sortIndex
		out = append(out, e)
	}
	return out
}

func debitOf(total float64) float64 {
	if total >= 0 {
		return total
	}
	return 0
}

func creditOf(total float64) float64 {
	if total < 0 {
		return total
	}
	return 0
}

// Row filters and amount selectors for the dashboard layout.

func omsetRows(r JournalRow) bool   { return r.SheetOmset }
func wpRows(r JournalRow) bool      { return r.SheetWP }
func withdrawnRows(r JournalRow) bool { return r.HasBeenWithdrawn }
func allRows(JournalRow) bool       { return true }

func orderAmount(f func(*OrderRecord) float64) func(JournalRow) float64 {
	return func(r JournalRow) float64 {
		if r.Order == nil {
			return 0
		}
		return f(r.Order)
	}
}

func incomeAmount(f func(*IncomeRecord) float64) func(JournalRow) float64 {
	return func(r JournalRow) float64 {
		if r.Income == nil {
			return 0
		}
		return f(r.Income)
	}
}

func walletAmount(r JournalRow) float64 {
	if r.Wallet == nil {
		return 0
	}
	return r.Wallet.Amount
}
