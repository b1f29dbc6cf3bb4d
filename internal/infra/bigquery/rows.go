package bigquery

import (
	"strings"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/store-recon/internal/journal"
)

// Row structs mirror the warehouse schema column for column. Joined report
// rows carry the three source column groups under o_/i_/w_ prefixes; absent
// sides keep NULL timestamps and zero numerics, with merge_status recording
// which sides are real.

type orderSourceRow struct {
	OrderCreationTime time.Time `bigquery:"order_creation_time"`
	FolderID          string    `bigquery:"folder_id"`
	OrderNumber       string    `bigquery:"order_number"`
	OrderStatus       string    `bigquery:"order_status"`
	TotalProductPrice float64   `bigquery:"total_product_price"`
}

func (r *orderSourceRow) toRecord() journal.OrderRecord {
	return journal.OrderRecord{
		FolderID:          r.FolderID,
		OrderNumber:       r.OrderNumber,
		OrderCreationTime: r.OrderCreationTime,
		OrderStatus:       r.OrderStatus,
		TotalProductPrice: r.TotalProductPrice,
	}
}

type incomeSourceRow struct {
	FolderID    string `bigquery:"folder_id"`
	OrderNumber string `bigquery:"order_number"`

	OrderCreationTime time.Time `bigquery:"order_creation_time"`
	FundReleaseDate   time.Time `bigquery:"fund_release_date"`

	OriginalProductPrice float64 `bigquery:"original_product_price"`
	TotalProductDiscount float64 `bigquery:"total_product_discount"`
	BuyerRefundAmount    float64 `bigquery:"buyer_refund_amount"`
	ProductDiscount      float64 `bigquery:"product_discount"`

	SellerBorneVoucherDiscount     float64 `bigquery:"seller_borne_voucher_discount"`
	SellerBorneCashbackCoins       float64 `bigquery:"seller_borne_cashback_coins"`
	ShippingPaidByBuyer            float64 `bigquery:"shipping_paid_by_buyer"`
	ShippingDiscountBorneByCourier float64 `bigquery:"shipping_discount_borne_by_courier"`
	FreeShippingSubsidy            float64 `bigquery:"free_shipping_subsidy"`
	ShippingFeesForwardedToCourier float64 `bigquery:"shipping_fees_forwarded_to_courier"`
	ReturnShippingCost             float64 `bigquery:"return_shipping_cost"`
	ShippingFeeRefund              float64 `bigquery:"shipping_fee_refund"`

	AMSCommissionFee  float64 `bigquery:"ams_commission_fee"`
	AdministrationFee float64 `bigquery:"administration_fee"`
	ServiceFee        float64 `bigquery:"service_fee"`
	ProgramFee        float64 `bigquery:"program_fee"`

	SubmissionNumber   string `bigquery:"submission_number"`
	BuyerUsername      string `bigquery:"buyer_username"`
	BuyerPaymentMethod string `bigquery:"buyer_payment_method"`
	VoucherCode        string `bigquery:"voucher_code"`
	CourierService     string `bigquery:"courier_service"`
	CourierName        string `bigquery:"courier_name"`
}

func (r *incomeSourceRow) toRecord() journal.IncomeRecord {
	return journal.IncomeRecord{
		FolderID:    r.FolderID,
		OrderNumber: r.OrderNumber,

		OrderCreationTime: r.OrderCreationTime,
		FundReleaseDate:   r.FundReleaseDate,

		OriginalProductPrice: r.OriginalProductPrice,
		TotalProductDiscount: r.TotalProductDiscount,
		BuyerRefundAmount:    r.BuyerRefundAmount,
		ProductDiscount:      r.ProductDiscount,

		SellerBorneVoucherDiscount:     r.SellerBorneVoucherDiscount,
		SellerBorneCashbackCoins:       r.SellerBorneCashbackCoins,
		ShippingPaidByBuyer:            r.ShippingPaidByBuyer,
		ShippingDiscountBorneByCourier: r.ShippingDiscountBorneByCourier,
		FreeShippingSubsidy:            r.FreeShippingSubsidy,
		ShippingFeesForwardedToCourier: r.ShippingFeesForwardedToCourier,
		ReturnShippingCost:             r.ReturnShippingCost,
		ShippingFeeRefund:              r.ShippingFeeRefund,

		AMSCommissionFee:  r.AMSCommissionFee,
		AdministrationFee: r.AdministrationFee,
		ServiceFee:        r.ServiceFee,
		ProgramFee:        r.ProgramFee,

		SubmissionNumber:   r.SubmissionNumber,
		BuyerUsername:      r.BuyerUsername,
		BuyerPaymentMethod: r.BuyerPaymentMethod,
		VoucherCode:        r.VoucherCode,
		CourierService:     r.CourierService,
		CourierName:        r.CourierName,
	}
}

type walletSourceRow struct {
	FolderID            string    `bigquery:"folder_id"`
	OrderNumber         string    `bigquery:"order_number"`
	TransactionDate     time.Time `bigquery:"transaction_date"`
	TransactionType     string    `bigquery:"transaction_type"`
	TransactionCategory string    `bigquery:"transaction_category"`
	Description         string    `bigquery:"description"`
	Status              string    `bigquery:"status"`
	Amount              float64   `bigquery:"amount"`
	EndingBalance       float64   `bigquery:"ending_balance"`
}

func (r *walletSourceRow) toRecord() journal.WalletRecord {
	return journal.WalletRecord{
		FolderID:            r.FolderID,
		OrderNumber:         r.OrderNumber,
		TransactionDate:     r.TransactionDate,
		TransactionType:     r.TransactionType,
		TransactionCategory: r.TransactionCategory,
		Description:         r.Description,
		Status:              r.Status,
		Amount:              r.Amount,
		EndingBalance:       r.EndingBalance,
	}
}

// JournalBaseRow is one persisted monthly journal row.
type JournalBaseRow struct {
	MonthOrder  string `bigquery:"month_order"`
	MonthIncome string `bigquery:"month_income"`
	MonthWallet string `bigquery:"month_wallet"`
	ReportMonth string `bigquery:"report_month"`

	StoreID  string `bigquery:"store_id"`
	Country  string `bigquery:"country"`
	Currency string `bigquery:"currency"`
	Platform string `bigquery:"platform"`
	Store    string `bigquery:"store"`

	FolderID    string `bigquery:"folder_id"`
	OrderNumber string `bigquery:"order_number"`
	MergeHelper int64  `bigquery:"merge_helper"`
	MergeStatus string `bigquery:"merge_status"`

	OOrderCreationTime bigquery.NullTimestamp `bigquery:"o_order_creation_time"`
	OTotalProductPrice float64                `bigquery:"o_total_product_price"`

	IOrderCreationTime bigquery.NullTimestamp `bigquery:"i_order_creation_time"`
	IFundReleaseDate   bigquery.NullTimestamp `bigquery:"i_fund_release_date"`

	IOriginalProductPrice float64 `bigquery:"i_original_product_price"`
	ITotalProductDiscount float64 `bigquery:"i_total_product_discount"`
	IBuyerRefundAmount    float64 `bigquery:"i_buyer_refund_amount"`
	IProductDiscount      float64 `bigquery:"i_product_discount"`

	ISellerBorneVoucherDiscount     float64 `bigquery:"i_seller_borne_voucher_discount"`
	ISellerBorneCashbackCoins       float64 `bigquery:"i_seller_borne_cashback_coins"`
	IShippingPaidByBuyer            float64 `bigquery:"i_shipping_paid_by_buyer"`
	IShippingDiscountBorneByCourier float64 `bigquery:"i_shipping_discount_borne_by_courier"`
	IFreeShippingSubsidy            float64 `bigquery:"i_free_shipping_subsidy"`
	IShippingFeesForwardedToCourier float64 `bigquery:"i_shipping_fees_forwarded_to_courier"`
	IReturnShippingCost             float64 `bigquery:"i_return_shipping_cost"`
	IShippingFeeRefund              float64 `bigquery:"i_shipping_fee_refund"`

	IAMSCommissionFee  float64 `bigquery:"i_ams_commission_fee"`
	IAdministrationFee float64 `bigquery:"i_administration_fee"`
	IServiceFee        float64 `bigquery:"i_service_fee"`
	IProgramFee        float64 `bigquery:"i_program_fee"`

	ISubmissionNumber   string `bigquery:"i_submission_number"`
	IBuyerUsername      string `bigquery:"i_buyer_username"`
	IBuyerPaymentMethod string `bigquery:"i_buyer_payment_method"`
	IVoucherCode        string `bigquery:"i_voucher_code"`
	ICourierService     string `bigquery:"i_courier_service"`
	ICourierName        string `bigquery:"i_courier_name"`

	WTransactionDate     bigquery.NullTimestamp `bigquery:"w_transaction_date"`
	WTransactionType     string                 `bigquery:"w_transaction_type"`
	WTransactionCategory string                 `bigquery:"w_transaction_category"`
	WDescription         string                 `bigquery:"w_description"`
	WStatus              string                 `bigquery:"w_status"`
	WAmount              float64                `bigquery:"w_amount"`
	WEndingBalance       float64                `bigquery:"w_ending_balance"`

	WPHasBeenWithdrawn  int64 `bigquery:"wp_has_been_withdrawn"`
	WPThisMonthOrder    int64 `bigquery:"wp_this_month_order"`
	WPDescribedAsIncome int64 `bigquery:"wp_described_as_income"`

	SheetOmset   int64 `bigquery:"sheet_omset"`
	SheetWP      int64 `bigquery:"sheet_wp"`
	SheetPiutang int64 `bigquery:"sheet_piutang"`
}

func toJournalBaseRow(r journal.JournalRow) *JournalBaseRow {
	row := &JournalBaseRow{
		MonthOrder:  r.MonthOrder,
		MonthIncome: r.MonthIncome,
		MonthWallet: r.MonthWallet,
		ReportMonth: r.ReportMonth,

		StoreID:  r.Store.StoreID,
		Country:  r.Store.Country,
		Currency: r.Store.Currency,
		Platform: r.Store.Platform,
		Store:    r.Store.Name,

		FolderID:    r.FolderID,
		OrderNumber: r.OrderNumber,
		MergeHelper: int64(r.MergeHelper),
		MergeStatus: string(r.MergeStatus),

		WPHasBeenWithdrawn:  boolToInt(r.HasBeenWithdrawn),
		WPThisMonthOrder:    boolToInt(r.ThisMonthOrder),
		WPDescribedAsIncome: boolToInt(r.DescribedAsIncome),

		SheetOmset:   boolToInt(r.SheetOmset),
		SheetWP:      boolToInt(r.SheetWP),
		SheetPiutang: boolToInt(r.SheetPiutang),
	}
	row.setOrderColumns(r.Order)
	row.setIncomeColumns(r.Income)
	row.setWalletColumns(r.Wallet)
	return row
}

func (row *JournalBaseRow) setOrderColumns(o *journal.OrderRecord) {
	if o == nil {
		return
	}
	row.OOrderCreationTime = nullTS(o.OrderCreationTime)
	row.OTotalProductPrice = o.TotalProductPrice
}

func (row *JournalBaseRow) setIncomeColumns(in *journal.IncomeRecord) {
	if in == nil {
		return
	}
	row.IOrderCreationTime = nullTS(in.OrderCreationTime)
	row.IFundReleaseDate = nullTS(in.FundReleaseDate)

	row.IOriginalProductPrice = in.OriginalProductPrice
	row.ITotalProductDiscount = in.TotalProductDiscount
	row.IBuyerRefundAmount = in.BuyerRefundAmount
	row.IProductDiscount = in.ProductDiscount

	row.ISellerBorneVoucherDiscount = in.SellerBorneVoucherDiscount
	row.ISellerBorneCashbackCoins = in.SellerBorneCashbackCoins
	row.IShippingPaidByBuyer = in.ShippingPaidByBuyer
	row.IShippingDiscountBorneByCourier = in.ShippingDiscountBorneByCourier
	row.IFreeShippingSubsidy = in.FreeShippingSubsidy
	row.IShippingFeesForwardedToCourier = in.ShippingFeesForwardedToCourier
	row.IReturnShippingCost = in.ReturnShippingCost
	row.IShippingFeeRefund = in.ShippingFeeRefund

	row.IAMSCommissionFee = in.AMSCommissionFee
	row.IAdministrationFee = in.AdministrationFee
	row.IServiceFee = in.ServiceFee
	row.IProgramFee = in.ProgramFee

	row.ISubmissionNumber = in.SubmissionNumber
	row.IBuyerUsername = in.BuyerUsername
	row.IBuyerPaymentMethod = in.BuyerPaymentMethod
	row.IVoucherCode = in.VoucherCode
	row.ICourierService = in.CourierService
	row.ICourierName = in.CourierName
}

func (row *JournalBaseRow) setWalletColumns(w *journal.WalletRecord) {
	if w == nil {
		return
	}
	row.WTransactionDate = nullTS(w.TransactionDate)
	row.WTransactionType = w.TransactionType
	row.WTransactionCategory = w.TransactionCategory
	row.WDescription = w.Description
	row.WStatus = w.Status
	row.WAmount = w.Amount
	row.WEndingBalance = w.EndingBalance
}

// toJournalRow rebuilds the typed composite. merge_status decides which source
// sides are real; column values of absent sides are ignored.
func (row *JournalBaseRow) toJournalRow() journal.JournalRow {
	r := journal.JournalRow{
		ReportMonth: row.ReportMonth,
		FolderID:    row.FolderID,
		OrderNumber: row.OrderNumber,
		Store: journal.StoreInfo{
			StoreID:  row.StoreID,
			Country:  row.Country,
			Currency: row.Currency,
			Platform: row.Platform,
			Name:     row.Store,
		},

		MonthOrder:  row.MonthOrder,
		MonthIncome: row.MonthIncome,
		MonthWallet: row.MonthWallet,

		MergeStatus: journal.MergeStatus(row.MergeStatus),
		MergeHelper: int(row.MergeHelper),

		HasBeenWithdrawn:  row.WPHasBeenWithdrawn == 1,
		ThisMonthOrder:    row.WPThisMonthOrder == 1,
		DescribedAsIncome: row.WPDescribedAsIncome == 1,

		SheetOmset:   row.SheetOmset == 1,
		SheetWP:      row.SheetWP == 1,
		SheetPiutang: row.SheetPiutang == 1,
	}

	if statusHas(row.MergeStatus, "ORDER") {
		r.Order = &journal.OrderRecord{
			FolderID:          row.FolderID,
			OrderNumber:       row.OrderNumber,
			OrderCreationTime: tsValue(row.OOrderCreationTime),
			TotalProductPrice: row.OTotalProductPrice,
		}
	}
	if statusHas(row.MergeStatus, "INCOME") {
		r.Income = &journal.IncomeRecord{
			FolderID:    row.FolderID,
			OrderNumber: row.OrderNumber,

			OrderCreationTime: tsValue(row.IOrderCreationTime),
			FundReleaseDate:   tsValue(row.IFundReleaseDate),

			OriginalProductPrice: row.IOriginalProductPrice,
			TotalProductDiscount: row.ITotalProductDiscount,
			BuyerRefundAmount:    row.IBuyerRefundAmount,
			ProductDiscount:      row.IProductDiscount,

			SellerBorneVoucherDiscount:     row.ISellerBorneVoucherDiscount,
			SellerBorneCashbackCoins:       row.ISellerBorneCashbackCoins,
			ShippingPaidByBuyer:            row.IShippingPaidByBuyer,
			ShippingDiscountBorneByCourier: row.IShippingDiscountBorneByCourier,
			FreeShippingSubsidy:            row.IFreeShippingSubsidy,
			ShippingFeesForwardedToCourier: row.IShippingFeesForwardedToCourier,
			ReturnShippingCost:             row.IReturnShippingCost,
			ShippingFeeRefund:              row.IShippingFeeRefund,

			AMSCommissionFee:  row.IAMSCommissionFee,
			AdministrationFee: row.IAdministrationFee,
			ServiceFee:        row.IServiceFee,
			ProgramFee:        row.IProgramFee,

			SubmissionNumber:   row.ISubmissionNumber,
			BuyerUsername:      row.IBuyerUsername,
			BuyerPaymentMethod: row.IBuyerPaymentMethod,
			VoucherCode:        row.IVoucherCode,
			CourierService:     row.ICourierService,
			CourierName:        row.ICourierName,
		}
	}
	if statusHas(row.MergeStatus, "WALLET") {
		r.Wallet = &journal.WalletRecord{
			FolderID:            row.FolderID,
			OrderNumber:         row.OrderNumber,
			TransactionDate:     tsValue(row.WTransactionDate),
			TransactionType:     row.WTransactionType,
			TransactionCategory: row.WTransactionCategory,
			Description:         row.WDescription,
			Status:              row.WStatus,
			Amount:              row.WAmount,
			EndingBalance:       row.WEndingBalance,
		}
	}
	return r
}

// JournalOrderRow is one persisted order-level journal row: the base columns
// without report month and reconciliation flags.
type JournalOrderRow struct {
	MonthOrder  string `bigquery:"month_order"`
	MonthIncome string `bigquery:"month_income"`
	MonthWallet string `bigquery:"month_wallet"`

	StoreID  string `bigquery:"store_id"`
	Country  string `bigquery:"country"`
	Currency string `bigquery:"currency"`
	Platform string `bigquery:"platform"`
	Store    string `bigquery:"store"`

	FolderID    string `bigquery:"folder_id"`
	OrderNumber string `bigquery:"order_number"`
	MergeHelper int64  `bigquery:"merge_helper"`
	MergeStatus string `bigquery:"merge_status"`

	OOrderCreationTime bigquery.NullTimestamp `bigquery:"o_order_creation_time"`
	OOrderStatus       string                 `bigquery:"o_order_status"`
	OTotalProductPrice float64                `bigquery:"o_total_product_price"`

	IOrderCreationTime bigquery.NullTimestamp `bigquery:"i_order_creation_time"`
	IFundReleaseDate   bigquery.NullTimestamp `bigquery:"i_fund_release_date"`

	IOriginalProductPrice float64 `bigquery:"i_original_product_price"`
	ITotalProductDiscount float64 `bigquery:"i_total_product_discount"`
	IBuyerRefundAmount    float64 `bigquery:"i_buyer_refund_amount"`
	IProductDiscount      float64 `bigquery:"i_product_discount"`

	ISellerBorneVoucherDiscount     float64 `bigquery:"i_seller_borne_voucher_discount"`
	ISellerBorneCashbackCoins       float64 `bigquery:"i_seller_borne_cashback_coins"`
	IShippingPaidByBuyer            float64 `bigquery:"i_shipping_paid_by_buyer"`
	IShippingDiscountBorneByCourier float64 `bigquery:"i_shipping_discount_borne_by_courier"`
	IFreeShippingSubsidy            float64 `bigquery:"i_free_shipping_subsidy"`
	IShippingFeesForwardedToCourier float64 `bigquery:"i_shipping_fees_forwarded_to_courier"`
	IReturnShippingCost             float64 `bigquery:"i_return_shipping_cost"`
	IShippingFeeRefund              float64 `bigquery:"i_shipping_fee_refund"`

	IAMSCommissionFee  float64 `bigquery:"i_ams_commission_fee"`
	IAdministrationFee float64 `bigquery:"i_administration_fee"`
	IServiceFee        float64 `bigquery:"i_service_fee"`
	IProgramFee        float64 `bigquery:"i_program_fee"`

	WTransactionDate     bigquery.NullTimestamp `bigquery:"w_transaction_date"`
	WTransactionType     string                 `bigquery:"w_transaction_type"`
	WTransactionCategory string                 `bigquery:"w_transaction_category"`
	WDescription         string                 `bigquery:"w_description"`
	WStatus              string                 `bigquery:"w_status"`
	WAmount              float64                `bigquery:"w_amount"`
	WEndingBalance       float64                `bigquery:"w_ending_balance"`
}

func toJournalOrderRow(r journal.JournalRow) *JournalOrderRow {
	row := &JournalOrderRow{
		MonthOrder:  r.MonthOrder,
		MonthIncome: r.MonthIncome,
		MonthWallet: r.MonthWallet,

		StoreID:  r.Store.StoreID,
		Country:  r.Store.Country,
		Currency: r.Store.Currency,
		Platform: r.Store.Platform,
		Store:    r.Store.Name,

		FolderID:    r.FolderID,
		OrderNumber: r.OrderNumber,
		MergeHelper: int64(r.MergeHelper),
		MergeStatus: string(r.MergeStatus),
	}
	if o := r.Order; o != nil {
		row.OOrderCreationTime = nullTS(o.OrderCreationTime)
		row.OOrderStatus = o.OrderStatus
		row.OTotalProductPrice = o.TotalProductPrice
	}
	if in := r.Income; in != nil {
		row.IOrderCreationTime = nullTS(in.OrderCreationTime)
		row.IFundReleaseDate = nullTS(in.FundReleaseDate)

		row.IOriginalProductPrice = in.OriginalProductPrice
		row.ITotalProductDiscount = in.TotalProductDiscount
		row.IBuyerRefundAmount = in.BuyerRefundAmount
		row.IProductDiscount = in.ProductDiscount

		row.ISellerBorneVoucherDiscount = in.SellerBorneVoucherDiscount
		row.ISellerBorneCashbackCoins = in.SellerBorneCashbackCoins
		row.IShippingPaidByBuyer = in.ShippingPaidByBuyer
		row.IShippingDiscountBorneByCourier = in.ShippingDiscountBorneByCourier
		row.IFreeShippingSubsidy = in.FreeShippingSubsidy
		row.IShippingFeesForwardedToCourier = in.ShippingFeesForwardedToCourier
		row.IReturnShippingCost = in.ReturnShippingCost
		row.IShippingFeeRefund = in.ShippingFeeRefund

		row.IAMSCommissionFee = in.AMSCommissionFee
		row.IAdministrationFee = in.AdministrationFee
		row.IServiceFee = in.ServiceFee
		row.IProgramFee = in.ProgramFee
	}
	if w := r.Wallet; w != nil {
		row.WTransactionDate = nullTS(w.TransactionDate)
		row.WTransactionType = w.TransactionType
		row.WTransactionCategory = w.TransactionCategory
		row.WDescription = w.Description
		row.WStatus = w.Status
		row.WAmount = w.Amount
		row.WEndingBalance = w.EndingBalance
	}
	return row
}

func (row *JournalOrderRow) toJournalRow() journal.JournalRow {
	r := journal.JournalRow{
		FolderID:    row.FolderID,
		OrderNumber: row.OrderNumber,
		Store: journal.StoreInfo{
			StoreID:  row.StoreID,
			Country:  row.Country,
			Currency: row.Currency,
			Platform: row.Platform,
			Name:     row.Store,
		},

		MonthOrder:  row.MonthOrder,
		MonthIncome: row.MonthIncome,
		MonthWallet: row.MonthWallet,

		MergeStatus: journal.MergeStatus(row.MergeStatus),
		MergeHelper: int(row.MergeHelper),
	}
	if statusHas(row.MergeStatus, "ORDER") {
		r.Order = &journal.OrderRecord{
			FolderID:          row.FolderID,
			OrderNumber:       row.OrderNumber,
			OrderCreationTime: tsValue(row.OOrderCreationTime),
			OrderStatus:       row.OOrderStatus,
			TotalProductPrice: row.OTotalProductPrice,
		}
	}
	if statusHas(row.MergeStatus, "INCOME") {
		r.Income = &journal.IncomeRecord{
			FolderID:    row.FolderID,
			OrderNumber: row.OrderNumber,

			OrderCreationTime: tsValue(row.IOrderCreationTime),
			FundReleaseDate:   tsValue(row.IFundReleaseDate),

			OriginalProductPrice: row.IOriginalProductPrice,
			TotalProductDiscount: row.ITotalProductDiscount,
			BuyerRefundAmount:    row.IBuyerRefundAmount,
			ProductDiscount:      row.IProductDiscount,

			SellerBorneVoucherDiscount:     row.ISellerBorneVoucherDiscount,
			SellerBorneCashbackCoins:       row.ISellerBorneCashbackCoins,
			ShippingPaidByBuyer:            row.IShippingPaidByBuyer,
			ShippingDiscountBorneByCourier: row.IShippingDiscountBorneByCourier,
			FreeShippingSubsidy:            row.IFreeShippingSubsidy,
			ShippingFeesForwardedToCourier: row.IShippingFeesForwardedToCourier,
			ReturnShippingCost:             row.IReturnShippingCost,
			ShippingFeeRefund:              row.IShippingFeeRefund,

			AMSCommissionFee:  row.IAMSCommissionFee,
			AdministrationFee: row.IAdministrationFee,
			ServiceFee:        row.IServiceFee,
			ProgramFee:        row.IProgramFee,
		}
	}
	if statusHas(row.MergeStatus, "WALLET") {
		r.Wallet = &journal.WalletRecord{
			FolderID:            row.FolderID,
			OrderNumber:         row.OrderNumber,
			TransactionDate:     tsValue(row.WTransactionDate),
			TransactionType:     row.WTransactionType,
			TransactionCategory: row.WTransactionCategory,
			Description:         row.WDescription,
			Status:              row.WStatus,
			Amount:              row.WAmount,
			EndingBalance:       row.WEndingBalance,
		}
	}
	return r
}

// JournalTransformRow is one persisted order-level row with the wallet side
// pivoted: one column per wallet category instead of raw posting columns.
type JournalTransformRow struct {
	MonthOrder  string `bigquery:"month_order"`
	MonthIncome string `bigquery:"month_income"`
	MonthWallet string `bigquery:"month_wallet"`

	StoreID  string `bigquery:"store_id"`
	Country  string `bigquery:"country"`
	Currency string `bigquery:"currency"`
	Platform string `bigquery:"platform"`
	Store    string `bigquery:"store"`

	FolderID    string `bigquery:"folder_id"`
	OrderNumber string `bigquery:"order_number"`
	MergeStatus string `bigquery:"merge_status"`

	OOrderCreationTime bigquery.NullTimestamp `bigquery:"o_order_creation_time"`
	OOrderStatus       string                 `bigquery:"o_order_status"`
	OTotalProductPrice float64                `bigquery:"o_total_product_price"`

	IOrderCreationTime bigquery.NullTimestamp `bigquery:"i_order_creation_time"`
	IFundReleaseDate   bigquery.NullTimestamp `bigquery:"i_fund_release_date"`

	IOriginalProductPrice float64 `bigquery:"i_original_product_price"`
	ITotalProductDiscount float64 `bigquery:"i_total_product_discount"`
	IBuyerRefundAmount    float64 `bigquery:"i_buyer_refund_amount"`
	IProductDiscount      float64 `bigquery:"i_product_discount"`

	ISellerBorneVoucherDiscount     float64 `bigquery:"i_seller_borne_voucher_discount"`
	ISellerBorneCashbackCoins       float64 `bigquery:"i_seller_borne_cashback_coins"`
	IShippingPaidByBuyer            float64 `bigquery:"i_shipping_paid_by_buyer"`
	IShippingDiscountBorneByCourier float64 `bigquery:"i_shipping_discount_borne_by_courier"`
	IFreeShippingSubsidy            float64 `bigquery:"i_free_shipping_subsidy"`
	IShippingFeesForwardedToCourier float64 `bigquery:"i_shipping_fees_forwarded_to_courier"`
	IReturnShippingCost             float64 `bigquery:"i_return_shipping_cost"`
	IShippingFeeRefund              float64 `bigquery:"i_shipping_fee_refund"`

	IAMSCommissionFee  float64 `bigquery:"i_ams_commission_fee"`
	IAdministrationFee float64 `bigquery:"i_administration_fee"`
	IServiceFee        float64 `bigquery:"i_service_fee"`
	IProgramFee        float64 `bigquery:"i_program_fee"`

	WTransactionDate bigquery.NullTimestamp `bigquery:"w_transaction_date"`

	WOrderIncome      float64 `bigquery:"w_order_income"`
	WWithdrawal       float64 `bigquery:"w_withdrawal"`
	WRefund           float64 `bigquery:"w_refund"`
	WAdsSpend         float64 `bigquery:"w_ads_spend"`
	WTransactionFee   float64 `bigquery:"w_transaction_fee"`
	WLossCompensation float64 `bigquery:"w_loss_compensation"`
	WAdjustment       float64 `bigquery:"w_adjustment"`
	WUncategorized    float64 `bigquery:"w_uncategorized"`
}

func toJournalTransformRow(r journal.JournalRow) *JournalTransformRow {
	base := toJournalOrderRow(r)
	row := &JournalTransformRow{
		MonthOrder:  base.MonthOrder,
		MonthIncome: base.MonthIncome,
		MonthWallet: base.MonthWallet,

		StoreID:  base.StoreID,
		Country:  base.Country,
		Currency: base.Currency,
		Platform: base.Platform,
		Store:    base.Store,

		FolderID:    base.FolderID,
		OrderNumber: base.OrderNumber,
		MergeStatus: base.MergeStatus,

		OOrderCreationTime: base.OOrderCreationTime,
		OOrderStatus:       base.OOrderStatus,
		OTotalProductPrice: base.OTotalProductPrice,

		IOrderCreationTime: base.IOrderCreationTime,
		IFundReleaseDate:   base.IFundReleaseDate,

		IOriginalProductPrice: base.IOriginalProductPrice,
		ITotalProductDiscount: base.ITotalProductDiscount,
		IBuyerRefundAmount:    base.IBuyerRefundAmount,
		IProductDiscount:      base.IProductDiscount,

		ISellerBorneVoucherDiscount:     base.ISellerBorneVoucherDiscount,
		ISellerBorneCashbackCoins:       base.ISellerBorneCashbackCoins,
		IShippingPaidByBuyer:            base.IShippingPaidByBuyer,
		IShippingDiscountBorneByCourier: base.IShippingDiscountBorneByCourier,
		IFreeShippingSubsidy:            base.IFreeShippingSubsidy,
		IShippingFeesForwardedToCourier: base.IShippingFeesForwardedToCourier,
		IReturnShippingCost:             base.IReturnShippingCost,
		IShippingFeeRefund:              base.IShippingFeeRefund,

		IAMSCommissionFee:  base.IAMSCommissionFee,
		IAdministrationFee: base.IAdministrationFee,
		IServiceFee:        base.IServiceFee,
		IProgramFee:        base.IProgramFee,
	}
	if p := r.Pivot; p != nil {
		row.WTransactionDate = nullTS(p.TransactionDate)
		row.WOrderIncome = p.Amounts[journal.CategoryOrderIncome]
		row.WWithdrawal = p.Amounts[journal.CategoryWithdrawal]
		row.WRefund = p.Amounts[journal.CategoryRefund]
		row.WAdsSpend = p.Amounts[journal.CategoryAdsSpend]
		row.WTransactionFee = p.Amounts[journal.CategoryTransactionFee]
		row.WLossCompensation = p.Amounts[journal.CategoryLossCompensation]
		row.WAdjustment = p.Amounts[journal.CategoryAdjustment]
		row.WUncategorized = p.Amounts[journal.CategoryUncategorized]
	}
	return row
}

// DashboardRow is one persisted debit/credit dashboard entry.
type DashboardRow struct {
	ReportMonth string `bigquery:"report_month"`
	FolderID    string `bigquery:"folder_id"`

	StoreID  string `bigquery:"store_id"`
	Country  string `bigquery:"country"`
	Currency string `bigquery:"currency"`
	Platform string `bigquery:"platform"`
	Store    string `bigquery:"store"`

	OrderNumber string `bigquery:"order_number"`
	Category    string `bigquery:"category"`
	SortIndex   int64  `bigquery:"sort_index"`

	ValueWithdrawn float64 `bigquery:"value_withdrawn"`
	ValuePending   float64 `bigquery:"value_pending"`
	ValueTotal     float64 `bigquery:"value_total"`
	ValueDebit     float64 `bigquery:"value_debit"`
	ValueCredit    float64 `bigquery:"value_credit"`

	Piutang int64 `bigquery:"piutang"`
}

func toDashboardRow(e journal.LedgerEntry) *DashboardRow {
	return &DashboardRow{
		ReportMonth: e.ReportMonth,
		FolderID:    e.FolderID,

		StoreID:  e.Store.StoreID,
		Country:  e.Store.Country,
		Currency: e.Store.Currency,
		Platform: e.Store.Platform,
		Store:    e.Store.Name,

		OrderNumber: e.OrderNumber,
		Category:    e.Category,
		SortIndex:   int64(e.SortIndex),

		ValueWithdrawn: e.ValueWithdrawn,
		ValuePending:   e.ValuePending,
		ValueTotal:     e.ValueTotal,
		ValueDebit:     e.ValueDebit,
		ValueCredit:    e.ValueCredit,

		Piutang: boolToInt(e.Piutang),
	}
}

func statusHas(status, source string) bool {
	for _, part := range strings.Split(status, ",") {
		if part == source {
			return true
		}
	}
	return false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullTS(t time.Time) bigquery.NullTimestamp {
	if t.IsZero() {
		return bigquery.NullTimestamp{}
	}
	return bigquery.NullTimestamp{Timestamp: t, Valid: true}
}

func tsValue(t bigquery.NullTimestamp) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Timestamp
}
