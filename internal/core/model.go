package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OrderItem is a single line of an order as returned by GET /orders/{id}.
type OrderItem struct {
	ID         int             `json:"id"`
	MenuItemID int             `json:"menu_item_id"`
	Name       string          `json:"name,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// EffectiveUnitPrice is the per-unit price used for item splits: total price
// divided by quantity, with a zero quantity treated as 1. Items without a
// total price fall back to the listed unit price.
func (i OrderItem) EffectiveUnitPrice() decimal.Decimal {
	if i.TotalPrice.IsZero() {
		return i.UnitPrice
	}
	qty := i.Quantity
	if !qty.IsPositive() {
		qty = decimal.NewFromInt(1)
	}
	return i.TotalPrice.Div(qty)
}

// Order is a dine-in or takeaway order. Orders are read-only here; the billing
// workflow never mutates them.
type Order struct {
	ID          int             `json:"id"`
	TableID     *int            `json:"table_id"`
	OrderTypeID int             `json:"order_type_id"`
	CustomerID  *int            `json:"customer_id"`
	OrderedAt   string          `json:"ordered_at"`
	StatusID    int             `json:"status_id"`
	Total       decimal.Decimal `json:"total"`
	Items       []OrderItem     `json:"items"`
	BillID      *int            `json:"bill_id"`
}

// Billed reports whether a bill already references the order.
func (o Order) Billed() bool {
	return o.BillID != nil && *o.BillID != 0
}

// PaymentMethod is a tender type offered by the backend. IsOnline is not part
// of the wire format; it is resolved once by NewMethodCatalog.
type PaymentMethod struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	NameAr   string `json:"name_ar"`
	IsOnline bool   `json:"-"`
}

// DisplayName returns the localized name, falling back to the default name.
func (m PaymentMethod) DisplayName(lang string) string {
	if strings.EqualFold(lang, "ar") && m.NameAr != "" {
		return m.NameAr
	}
	return m.Name
}

// ItemShare assigns a quantity of one order item to a split group.
type ItemShare struct {
	OrderItemID int             `json:"order_item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// SplitGroup is a subset of order items billed together.
type SplitGroup struct {
	ID       int         `json:"id"`
	Items    []ItemShare `json:"items"`
	MethodID *int        `json:"method_id,omitempty"`
}

// ItemIDs returns the order item ids of the group in assignment order.
func (g SplitGroup) ItemIDs() []int {
	ids := make([]int, 0, len(g.Items))
	for _, s := range g.Items {
		ids = append(ids, s.OrderItemID)
	}
	return ids
}

// PaymentAllocationEntry is one tender row of a split. Tax, ServiceCharge and
// Tip are never negative.
type PaymentAllocationEntry struct {
	Amount        decimal.Decimal `json:"amount"`
	MethodID      int             `json:"payment_method_id"`
	Reference     string          `json:"reference,omitempty"`
	Tax           decimal.Decimal `json:"tax"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	Tip           decimal.Decimal `json:"tip"`
}

// FinalizedPayload is the wire payload submitted once per bill to be created.
// An empty ItemIDs means the bill covers every item of OrderIDs.
type FinalizedPayload struct {
	OrderIDs          []int           `json:"order_ids"`
	ItemIDs           []int           `json:"item_ids"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentMethodID   int             `json:"payment_method_id"`
	Tax               decimal.Decimal `json:"tax"`
	ServiceCharge     decimal.Decimal `json:"service_charge"`
	Tips              decimal.Decimal `json:"tips"`
	TransactionNumber string          `json:"transaction_number,omitempty"`
}

// TotalCost is amount + tax + service charge + tips.
func (p FinalizedPayload) TotalCost() decimal.Decimal {
	return p.Amount.Add(p.Tax).Add(p.ServiceCharge).Add(p.Tips)
}

// Validate is the precheck run before any network call for this payload.
func (p FinalizedPayload) Validate() error {
	switch {
	case !p.Amount.IsPositive():
		return &ValidationError{Err: ErrInvalidPayload, Detail: "amount must be positive"}
	case p.PaymentMethodID == 0:
		return &ValidationError{Err: ErrInvalidPayload, Detail: "payment method is required"}
	case len(p.OrderIDs) == 0:
		return &ValidationError{Err: ErrInvalidPayload, Detail: "at least one order id is required"}
	}
	return nil
}

// BillItem is a line of a created bill.
type BillItem struct {
	Name     string          `json:"name"`
	ItemName string          `json:"item_name,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// DisplayName returns the first non-empty name the backend supplied.
func (i BillItem) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.ItemName != "":
		return i.ItemName
	}
	return "Item"
}

// Bill statuses reported by the backend.
const (
	BillStatusPaid   = "paid"
	BillStatusUnpaid = "unpaid"
)

// Bill is a backend bill created from one or more orders.
type Bill struct {
	ID        int             `json:"id"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	Items     []BillItem      `json:"items"`
	CreatedAt string          `json:"created_at"`
}

// IsPaid reports whether the backend marks the bill as settled.
func (b Bill) IsPaid() bool {
	return strings.EqualFold(b.Status, BillStatusPaid)
}

// CreateBillRequest is the body of POST /bills/create-empty.
type CreateBillRequest struct {
	OrderIDs        []int           `json:"order_ids"`
	PaymentMethodID int             `json:"payment_method_id"`
	Tax             decimal.Decimal `json:"tax"`
	ServiceCharge   decimal.Decimal `json:"service_charge"`
	Tips            decimal.Decimal `json:"tips"`
	TotalCost       decimal.Decimal `json:"total_cost"`
}

// NewCreateBillRequest derives the create-empty body from a payload.
func NewCreateBillRequest(p FinalizedPayload) CreateBillRequest {
	return CreateBillRequest{
		OrderIDs:        p.OrderIDs,
		PaymentMethodID: p.PaymentMethodID,
		Tax:             p.Tax,
		ServiceCharge:   p.ServiceCharge,
		Tips:            p.Tips,
		TotalCost:       p.TotalCost(),
	}
}

// PayBillRequest is the body of POST /bills/{id}/pay.
type PayBillRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	PaymentMethodID   int             `json:"payment_method_id"`
	TransactionNumber string          `json:"transaction_number,omitempty"`
}

// SessionVerification is the response of GET /stripe/verify-session.
type SessionVerification struct {
	Status  string `json:"status"`
	Success bool   `json:"success"`
}

// Paid reports whether the processor confirmed the payment.
func (v SessionVerification) Paid() bool {
	return v.Status == "paid" || v.Success
}

// PaymentLine is a settled tender as printed on a receipt.
type PaymentLine struct {
	MethodName string          `json:"method_name"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference,omitempty"`
}

// MenuItem, OrderType, OrderStatus, MenuCategory and Customer are the lookup
// records the billing dashboard joins for display.
type MenuItem struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	NameAr     string          `json:"name_ar,omitempty"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int             `json:"category_id"`
}

type MenuCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type OrderType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type OrderStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Customer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// User is the operator profile returned by GET /me.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
