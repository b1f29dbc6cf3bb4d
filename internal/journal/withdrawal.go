package journal

import "strings"

const (
	// withdrawalKeyword marks a posting that moves balance out of the wallet.
	withdrawalKeyword = "penarikan dana"

	// WithdrawalTransactionType is the transaction type of withdrawal events
	// as delivered by the upstream source.
	WithdrawalTransactionType = "Penarikan Dana"
)

// incomeKeywords mark wallet descriptions that represent order income. Rows
// matching one of these get the merge helper flag, which keeps wallet rows
// with empty or shared order numbers from exploding the outer join.
var incomeKeywords = []string{"penghasilan dari pesanan", "kompensasi kehilangan"}

func isWithdrawalDescription(desc string) bool {
	return strings.Contains(strings.ToLower(desc), withdrawalKeyword)
}

func describedAsIncome(desc string) bool {
	d := strings.ToLower(desc)
	for _, kw := range incomeKeywords {
		if strings.Contains(d, kw) {
			return true
		}
	}
	return false
}

// MarkWithdrawn derives the withdrawal state for every wallet row. Rows must
// be in fetched order: transaction date descending, so lower indexes are more
// recent.
//
// The anchor is the first (most recent) row whose description contains the
// withdrawal keyword. Rows before the anchor happened after the withdrawal
// and are not yet withdrawn; the anchor and everything after it default to
// withdrawn. When the anchor's ending balance is above zero the withdrawal
// did not clear the whole balance: scanning past the anchor, the contiguous
// run of rows whose amounts sum exactly to that ending balance is forced back
// to not-withdrawn. Exact float equality is intentional; if the running sum
// never hits the balance, no rows are reset.
//
// With no anchor at all, every row is not yet withdrawn.
func MarkWithdrawn(rows []WalletRecord) []bool {
	states := make([]bool, len(rows))

	anchor := -1
	for i, r := range rows {
		if isWithdrawalDescription(r.Description) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return states
	}

	for i := anchor; i < len(rows); i++ {
		states[i] = true
	}

	if balance := rows[anchor].EndingBalance; balance > 0 {
		var sum float64
		for i := anchor + 1; i < len(rows); i++ {
			sum += rows[i].Amount
			if sum == balance {
				for j := anchor + 1; j <= i; j++ {
					states[j] = false
				}
				break
			}
		}
	}

	return states
}

// DedupeWithdrawals drops double-posted withdrawal events: among rows whose
// transaction type is the withdrawal event, only the last row per
// (folder, calendar date, amount) survives. All other rows pass through and
// the input order is preserved.
func DedupeWithdrawals(rows []WalletRecord) []WalletRecord {
	type dupKey struct {
		folderID string
		day      string
		amount   float64
	}

	lastIdx := make(map[dupKey]int)
	for i, r := range rows {
		if r.TransactionType != WithdrawalTransactionType {
			continue
		}
		lastIdx[dupKey{r.FolderID, r.TransactionDate.Format("2006-01-02"), r.Amount}] = i
	}

	out := make([]WalletRecord, 0, len(rows))
	for i, r := range rows {
		if r.TransactionType == WithdrawalTransactionType {
			k := dupKey{r.FolderID, r.TransactionDate.Format("2006-01-02"), r.Amount}
			if lastIdx[k] != i {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
