package app

import (
	"pos-billing/internal/core"
	"pos-billing/internal/receipt"
)

// BillScope selects which bills ListBills returns.
type BillScope string

const (
	BillScopeToday BillScope = "today"
	BillScopeAll   BillScope = "all"
)

// ParseBillScope accepts "today" and "all"; anything else is today.
func ParseBillScope(s string) BillScope {
	if BillScope(s) == BillScopeAll {
		return BillScopeAll
	}
	return BillScopeToday
}

// SettleRequest is the input for paying an existing bill.
type SettleRequest struct {
	BillID  int
	Mode    core.SettleMode
	Entries []core.SettlementEntry
}

// ReceiptRequest is the input for emitting a receipt.
type ReceiptRequest struct {
	BillID int
	Format receipt.Format
}
