package journal

import "context"

const carryBackMonths = 12

type monthRef int

const (
	refIncome monthRef = iota
	refWallet
)

// unsettledWindow determines which prior months still hold undisbursed
// wallet funds. Walking backward from the most recent of the preceding 12
// months, it accumulates months without a withdrawal event and stops at the
// first month that has one.
//
// With no unsettled months the window is just the report month (or the month
// before it when includeCurrent is false). Otherwise it is the unsettled
// months, the month immediately preceding the earliest of them, and
// optionally the report month. hadUnsettled distinguishes the two shapes.
func (s *Service) unsettledWindow(ctx context.Context, reportMonth, folderID string, includeCurrent bool) (window []string, hadUnsettled bool, err error) {
	prev, err := MonthsBack(reportMonth, carryBackMonths)
	if err != nil {
		return nil, false, err
	}

	activity, err := s.store.WalletMonthActivity(ctx, folderID, prev)
	if err != nil {
		return nil, false, err
	}

	var unsettled []string
	for i := len(activity) - 1; i >= 0; i-- {
		if activity[i].HasWithdrawal {
			break
		}
		unsettled = append(unsettled, activity[i].Month)
	}

	if len(unsettled) == 0 {
		if includeCurrent {
			return []string{reportMonth}, false, nil
		}
		before, err := PrevMonth(reportMonth)
		if err != nil {
			return nil, false, err
		}
		return []string{before}, false, nil
	}

	beforeEarliest, err := PrevMonth(minMonth(unsettled))
	if err != nil {
		return nil, false, err
	}
	window = append(unsettled, beforeEarliest)
	if includeCurrent {
		window = append(window, reportMonth)
	}
	return window, true, nil
}

// withdrawnLastMonth retrieves prior-month income rows whose order was
// recognized as receivable earlier and whose wallet funds have since been
// confirmed, re-anchored to the current report month. Orders can surface in
// the wallet months after creation, so the lookback spans up to a year, not
// just the previous month.
func (s *Service) withdrawnLastMonth(ctx context.Context, reportMonth, folderID string) ([]JournalRow, error) {
	window, hadUnsettled, err := s.unsettledWindow(ctx, reportMonth, folderID, true)
	if err != nil {
		return nil, err
	}

	incomeMonths, err := MonthsBackInclusive(reportMonth, carryBackMonths)
	if err != nil {
		return nil, err
	}
	orderMonths, err := MonthsBack(reportMonth, carryBackMonths)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.CarriedIncomeRows(ctx, folderID, window, incomeMonths, orderMonths)
	if err != nil {
		s.log.Warn().Err(err).
			Str("folder_id", folderID).
			Str("report_month", reportMonth).
			Msg("withdrawn last month: read failed, returning empty")
		return nil, nil
	}
	if len(rows) == 0 {
		s.log.Warn().
			Str("folder_id", folderID).
			Str("report_month", reportMonth).
			Strs("window", window).
			Msg("withdrawn last month: no data found")
		return nil, nil
	}

	for i := range rows {
		rows[i].ReportMonth = reportMonth
	}

	if hadUnsettled {
		earliest := minMonth(window)
		var filtered []JournalRow
		for _, r := range rows {
			if r.MonthWallet == earliest {
				if r.SheetPiutang {
					filtered = append(filtered, r)
				}
			} else {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	return rows, nil
}

// pendingLastMonth retrieves still-pending journal rows from the unsettled
// window, re-anchored to the report month. It returns nothing when the report
// month itself has no withdrawal activity, and keeps only rows whose
// referenced source side is present.
func (s *Service) pendingLastMonth(ctx context.Context, reportMonth, folderID string, ref monthRef) ([]JournalRow, error) {
	window, _, err := s.unsettledWindow(ctx, reportMonth, folderID, false)
	if err != nil {
		return nil, err
	}

	count, err := s.store.WithdrawalCount(ctx, reportMonth, folderID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	rows, err := s.store.PendingRows(ctx, window, folderID)
	if err != nil {
		s.log.Warn().Err(err).
			Str("folder_id", folderID).
			Str("report_month", reportMonth).
			Msg("pending last month: read failed, returning empty")
		return nil, nil
	}
	if len(rows) == 0 {
		s.log.Warn().
			Str("folder_id", folderID).
			Str("report_month", reportMonth).
			Strs("window", window).
			Msg("pending last month: no data found")
		return nil, nil
	}

	var out []JournalRow
	for _, r := range rows {
		switch ref {
		case refIncome:
			if r.Income == nil {
				continue
			}
		case refWallet:
			if r.Wallet == nil {
				continue
			}
		}
		r.ReportMonth = reportMonth
		out = append(out, r)
	}
	return out, nil
}
