package app

import (
	"github.com/shopspring/decimal"

	"pos-billing/internal/core"
)

// DashboardResult is returned by LoadDashboard.
type DashboardResult struct {
	Orders       []core.Order        `json:"orders"`
	TodayBills   []core.Bill         `json:"today_bills"`
	Methods      []MethodView        `json:"payment_methods"`
	MenuItems    []core.MenuItem     `json:"menu_items"`
	Categories   []core.MenuCategory `json:"categories"`
	OrderTypes   []core.OrderType    `json:"order_types"`
	Statuses     []core.OrderStatus  `json:"order_statuses"`
	Customers    []core.Customer     `json:"customers"`
	Unbilled     decimal.Decimal     `json:"unbilled_total"`
	TodayRevenue decimal.Decimal     `json:"today_revenue"`
}

// MethodView is a payment method as shown to the operator.
type MethodView struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// MethodListResult is returned by ListPaymentMethods.
type MethodListResult struct {
	Methods []MethodView `json:"payment_methods"`
}

// BillListResult is returned by ListBills.
type BillListResult struct {
	Scope BillScope   `json:"scope"`
	Bills []core.Bill `json:"bills"`
}

// SelectionResult is returned by SelectOrders and SelectedOrders.
type SelectionResult struct {
	OrderIDs       []int                   `json:"order_ids"`
	Pending        []core.FinalizedPayload `json:"pending,omitempty"`
	CheckoutBillID int                     `json:"checkout_bill_id,omitempty"`
}

// SplitSession is a split engine over freshly fetched orders.
type SplitSession struct {
	Engine  *core.SplitEngine
	Orders  []core.Order
	Methods *core.MethodCatalog
	Lang    string
}

// FinalizeOutcome is returned by Finalize.
type FinalizeOutcome struct {
	*core.FinalizeResult
	// Receipts lists the bills whose receipts can be printed. It stays empty
	// while the run waits on an online checkout.
	Receipts []int `json:"receipts"`
}

// ReturnResult is returned by HandlePaymentReturn.
type ReturnResult struct {
	core.ReturnOutcome
	BillID  int                     `json:"bill_id,omitempty"`
	Pending []core.FinalizedPayload `json:"pending,omitempty"`
	// Receipts lists the bills of the halted run released for printing once
	// the checkout is confirmed.
	Receipts []int `json:"receipts,omitempty"`
}

// SettleResult is returned by SettleBill.
type SettleResult struct {
	Bill  core.Bill          `json:"bill"`
	Lines []core.PaymentLine `json:"lines"`
}
