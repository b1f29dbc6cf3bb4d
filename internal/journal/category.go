package journal

import "strings"

// Category is a wallet transaction category. The set is closed: every wallet
// description maps to exactly one of these labels (Uncategorized when no rule
// matches).
type Category string

const (
	CategoryOrderIncome      Category = "Penghasilan Dari Pesanan"
	CategoryWithdrawal       Category = "Penarikan Dana"
	CategoryRefund           Category = "Pengembalian Dana"
	CategoryAdsSpend         Category = "Biaya Iklan"
	CategoryTransactionFee   Category = "Biaya Transaksi"
	CategoryLossCompensation Category = "Kompensasi Kehilangan"
	CategoryAdjustment       Category = "Penyesuaian Saldo"
	CategoryUncategorized    Category = "Uncategorized"
)

// Coarse labels used by the simple mapping mode. Several database-mode
// categories collapse into one simple label.
const (
	SimpleFee        Category = "Biaya"
	SimpleAdjustment Category = "Penyesuaian"
)

// MappingMode selects which label a matched rule yields.
type MappingMode string

const (
	ModeDatabase MappingMode = "database"
	ModeSimple   MappingMode = "simple"
)

// MatchStyle selects how rule keywords are compared against a description.
type MatchStyle string

const (
	// StyleFlexible matches when any keyword is a case-insensitive substring
	// of the description.
	StyleFlexible MatchStyle = "flexible"
	// StyleExact requires case-insensitive equality with a keyword.
	StyleExact MatchStyle = "exact"
)

// MappingRule maps description keywords to a database-mode and a simple-mode
// category. Rules are evaluated in order; the first match wins.
type MappingRule struct {
	Keywords []string
	Database Category
	Simple   Category
}

// WalletRules is the categorization table for wallet transaction descriptions.
// Order matters: more specific keywords come before catch-alls.
var WalletRules = []MappingRule{
	{Keywords: []string{"penghasilan dari pesanan"}, Database: CategoryOrderIncome, Simple: CategoryOrderIncome},
	{Keywords: []string{"penarikan dana"}, Database: CategoryWithdrawal, Simple: CategoryWithdrawal},
	{Keywords: []string{"pengembalian dana", "refund"}, Database: CategoryRefund, Simple: CategoryRefund},
	{Keywords: []string{"kompensasi kehilangan", "kompensasi"}, Database: CategoryLossCompensation, Simple: SimpleAdjustment},
	{Keywords: []string{"iklan", "ads"}, Database: CategoryAdsSpend, Simple: SimpleFee},
	{Keywords: []string{"biaya kartu kredit", "cicilan", "biaya transaksi"}, Database: CategoryTransactionFee, Simple: SimpleFee},
	{Keywords: []string{"penyesuaian", "adjustment"}, Database: CategoryAdjustment, Simple: SimpleAdjustment},
}

// PivotCategories is the fixed column set of the wallet pivot, in persisted
// column order.
var PivotCategories = []Category{
	CategoryOrderIncome,
	CategoryWithdrawal,
	CategoryRefund,
	CategoryAdsSpend,
	CategoryTransactionFee,
	CategoryLossCompensation,
	CategoryAdjustment,
	CategoryUncategorized,
}

// Categorize maps a free-text description to a category using the given rule
// table. A description that matches no rule yields CategoryUncategorized;
// callers treat that as a data-quality signal, not a failure.
func Categorize(description string, rules []MappingRule, mode MappingMode, style MatchStyle) Category {
	desc := strings.ToLower(strings.TrimSpace(description))
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			k := strings.ToLower(kw)
			var matched bool
			switch style {
			case StyleExact:
				matched = desc == k
			default:
				matched = strings.Contains(desc, k)
			}
			if matched {
				if mode == ModeSimple {
					return rule.Simple
				}
				return rule.Database
			}
		}
	}
	return CategoryUncategorized
}
