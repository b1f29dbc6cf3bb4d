package journal

type mergeKey struct {
	folderID    string
	orderNumber string
	helper      int
}

// walletSide is one wallet-origin row entering the merge: either a raw record
// (helper-key modes) or a pivot row (transform mode), plus the per-row
// annotations computed before merging.
type walletSide struct {
	rec   *WalletRecord
	pivot *WalletPivot

	helper    int
	withdrawn bool
	thisMonth bool
}

func (w walletSide) key(useHelper bool) mergeKey {
	h := 0
	if useHelper {
		h = w.helper
	}
	if w.pivot != nil {
		return mergeKey{w.pivot.FolderID, w.pivot.OrderNumber, h}
	}
	return mergeKey{w.rec.FolderID, w.rec.OrderNumber, h}
}

// mergeRows outer-joins order, income, and wallet rows on
// (folder, order number[, helper]). Keys present on several sides produce the
// cross product of their row groups; one-sided keys pass through one row at a
// time. Every input row appears in the output at least once, and MergeStatus
// records exactly the sources that contributed.
//
// Order and income rows always carry helper 1: their order numbers are unique
// per key. Wallet rows carry helper 1 only when described as income, so
// income-like wallet postings join their order while fee and withdrawal
// postings stay on their own rows.
func mergeRows(orders []OrderRecord, incomes []IncomeRecord, wallets []walletSide, useHelper bool) []JournalRow {
	sideHelper := 0
	if useHelper {
		sideHelper = 1
	}
	orderKey := func(o *OrderRecord) mergeKey {
		return mergeKey{o.FolderID, o.OrderNumber, sideHelper}
	}
	incomeKey := func(i *IncomeRecord) mergeKey {
		return mergeKey{i.FolderID, i.OrderNumber, sideHelper}
	}

	orderGroups := make(map[mergeKey][]*OrderRecord)
	var orderKeys []mergeKey
	for i := range orders {
		k := orderKey(&orders[i])
		if _, ok := orderGroups[k]; !ok {
			orderKeys = append(orderKeys, k)
		}
		orderGroups[k] = append(orderGroups[k], &orders[i])
	}

	incomeGroups := make(map[mergeKey][]*IncomeRecord)
	var incomeKeys []mergeKey
	for i := range incomes {
		k := incomeKey(&incomes[i])
		if _, ok := incomeGroups[k]; !ok {
			incomeKeys = append(incomeKeys, k)
		}
		incomeGroups[k] = append(incomeGroups[k], &incomes[i])
	}

	type oiRow struct {
		key    mergeKey
		order  *OrderRecord
		income *IncomeRecord
		status MergeStatus
	}

	var oi []oiRow
	for _, k := range orderKeys {
		ins, both := incomeGroups[k]
		for _, o := range orderGroups[k] {
			if both {
				for _, in := range ins {
					oi = append(oi, oiRow{k, o, in, StatusOrderIncome})
				}
			} else {
				oi = append(oi, oiRow{k, o, nil, StatusOrder})
			}
		}
	}
	for _, k := range incomeKeys {
		if _, matched := orderGroups[k]; matched {
			continue
		}
		for _, in := range incomeGroups[k] {
			oi = append(oi, oiRow{k, nil, in, StatusIncome})
		}
	}

	walletGroups := make(map[mergeKey][]walletSide)
	var walletKeys []mergeKey
	for _, w := range wallets {
		k := w.key(useHelper)
		if _, ok := walletGroups[k]; !ok {
			walletKeys = append(walletKeys, k)
		}
		walletGroups[k] = append(walletGroups[k], w)
	}

	var rows []JournalRow
	consumed := make(map[mergeKey]bool)

	for _, r := range oi {
		ws, both := walletGroups[r.key]
		if !both {
			rows = append(rows, newJournalRow(r.key, r.order, r.income, nil, r.status))
			continue
		}
		consumed[r.key] = true
		for i := range ws {
			rows = append(rows, newJournalRow(r.key, r.order, r.income, &ws[i], withWallet(r.status)))
		}
	}

	for _, k := range walletKeys {
		if consumed[k] {
			continue
		}
		ws := walletGroups[k]
		for i := range ws {
			rows = append(rows, newJournalRow(k, nil, nil, &ws[i], StatusWallet))
		}
	}

	return rows
}

func withWallet(s MergeStatus) MergeStatus {
	switch s {
	case StatusOrder:
		return StatusOrderWallet
	case StatusIncome:
		return StatusIncomeWallet
	case StatusOrderIncome:
		return StatusOrderIncomeWallet
	default:
		return StatusWallet
	}
}

func newJournalRow(k mergeKey, o *OrderRecord, in *IncomeRecord, w *walletSide, status MergeStatus) JournalRow {
	row := JournalRow{
		FolderID:    k.folderID,
		OrderNumber: k.orderNumber,
		MergeHelper: k.helper,
		MergeStatus: status,
		Order:       o,
		Income:      in,
	}
	if o != nil {
		row.MonthOrder = MonthOf(o.OrderCreationTime)
	}
	if in != nil {
		row.MonthIncome = MonthOf(in.FundReleaseDate)
	}
	if w != nil {
		row.Wallet = w.rec
		row.Pivot = w.pivot
		row.HasBeenWithdrawn = w.withdrawn
		row.ThisMonthOrder = w.thisMonth
		row.DescribedAsIncome = w.helper == 1
		if w.rec != nil {
			row.MonthWallet = MonthOf(w.rec.TransactionDate)
		} else if w.pivot != nil {
			row.MonthWallet = MonthOf(w.pivot.TransactionDate)
		}
	}
	return row
}

// applySheetFlags derives the three sheet classification flags. The
// income-flag test treats a missing wallet side as passing, matching the
// relational semantics of comparing an absent value with "not equal zero".
func applySheetFlags(rows []JournalRow) {
	for i := range rows {
		r := &rows[i]
		hasOrder := r.Order != nil
		hasWallet := r.Wallet != nil || r.Pivot != nil

		r.SheetOmset = hasOrder && (!hasWallet || r.DescribedAsIncome)
		r.SheetWP = hasWallet && r.ThisMonthOrder && r.DescribedAsIncome && r.HasBeenWithdrawn
		r.SheetPiutang = hasOrder && !(hasWallet && r.HasBeenWithdrawn)
	}
}
