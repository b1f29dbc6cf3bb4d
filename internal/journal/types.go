package journal

import "time"

// StoreInfo is the static metadata for one merchant account (folder). It is
// loaded from configuration and passed in explicitly; folder IDs unknown to
// the map produce zero-value dimensions.
type StoreInfo struct {
	StoreID  string `json:"store_id"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Platform string `json:"platform"`
	Name     string `json:"store"`
}

// OrderRecord is one completed-order row, pre-aggregated by
// (order date, folder, order number) at the source.
type OrderRecord struct {
	FolderID          string
	OrderNumber       string
	OrderCreationTime time.Time
	OrderStatus       string
	TotalProductPrice float64
}

// IncomeRecord is one income-release row: revenue and fee components
// recognized when an order settles.
type IncomeRecord struct {
	FolderID    string
	OrderNumber string

	OrderCreationTime time.Time
	FundReleaseDate   time.Time

	OriginalProductPrice float64
	TotalProductDiscount float64
	BuyerRefundAmount    float64
	ProductDiscount      float64

	SellerBorneVoucherDiscount     float64
	SellerBorneCashbackCoins       float64
	ShippingPaidByBuyer            float64
	ShippingDiscountBorneByCourier float64
	FreeShippingSubsidy            float64
	ShippingFeesForwardedToCourier float64
	ReturnShippingCost             float64
	ShippingFeeRefund              float64

	AMSCommissionFee  float64
	AdministrationFee float64
	ServiceFee        float64
	ProgramFee        float64

	SubmissionNumber   string
	BuyerUsername      string
	BuyerPaymentMethod string
	VoucherCode        string
	CourierService     string
	CourierName        string
}

// ShippingCost sums the eight shipping-related income components.
func (r *IncomeRecord) ShippingCost() float64 {
	return r.SellerBorneVoucherDiscount +
		r.SellerBorneCashbackCoins +
		r.ShippingPaidByBuyer +
		r.ShippingDiscountBorneByCourier +
		r.FreeShippingSubsidy +
		r.ShippingFeesForwardedToCourier +
		r.ReturnShippingCost +
		r.ShippingFeeRefund
}

// WalletRecord is one wallet ledger posting against a store balance.
type WalletRecord struct {
	FolderID            string
	OrderNumber         string
	TransactionDate     time.Time
	TransactionType     string
	TransactionCategory string
	Description         string
	Status              string
	Amount              float64
	EndingBalance       float64
}

// WalletPivot is one pivoted wallet row: all postings of a
// (folder, transaction date, order) group summed into one amount per
// category. Categories absent from the group hold 0.
type WalletPivot struct {
	FolderID        string
	TransactionDate time.Time
	OrderNumber     string
	Amounts         map[Category]float64
}

// Total sums every category amount of the pivot row.
func (p *WalletPivot) Total() float64 {
	var sum float64
	for _, v := range p.Amounts {
		sum += v
	}
	return sum
}

// MergeStatus labels which sources contributed to a merged row.
type MergeStatus string

const (
	StatusOrder             MergeStatus = "ORDER"
	StatusIncome            MergeStatus = "INCOME"
	StatusWallet            MergeStatus = "WALLET"
	StatusOrderIncome       MergeStatus = "ORDER,INCOME"
	StatusOrderWallet       MergeStatus = "ORDER,WALLET"
	StatusIncomeWallet      MergeStatus = "INCOME,WALLET"
	StatusOrderIncomeWallet MergeStatus = "ORDER,INCOME,WALLET"
)

// JournalRow is the reconciled journal row: the outer join of order, income,
// and wallet records on (folder, order number[, helper]). Absent sources are
// nil pointers. Exactly one of Wallet/Pivot is set, depending on whether the
// wallet side was pivoted before merging.
type JournalRow struct {
	ReportMonth string
	FolderID    string
	OrderNumber string
	Store       StoreInfo

	MonthOrder  string
	MonthIncome string
	MonthWallet string

	MergeStatus MergeStatus
	MergeHelper int

	Order  *OrderRecord
	Income *IncomeRecord
	Wallet *WalletRecord
	Pivot  *WalletPivot

	HasBeenWithdrawn  bool
	ThisMonthOrder    bool
	DescribedAsIncome bool

	SheetOmset   bool
	SheetWP      bool
	SheetPiutang bool
}

// LedgerEntry is one debit/credit dashboard row derived from a flagged
// journal row. Entries are regenerated wholesale per (report month, folder).
type LedgerEntry struct {
	ReportMonth string
	FolderID    string
	Store       StoreInfo
	OrderNumber string

	Category  string
	SortIndex int

	ValueWithdrawn float64
	ValuePending   float64
	ValueTotal     float64
	ValueDebit     float64
	ValueCredit    float64

	Piutang bool
}
