package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// SettleMode is how an existing bill is paid.
type SettleMode string

const (
	SettleSingle   SettleMode = "single"
	SettleMultiple SettleMode = "multiple"
)

// ParseSettleMode accepts "single" and "multiple"; anything else is single.
func ParseSettleMode(s string) SettleMode {
	if SettleMode(s) == SettleMultiple {
		return SettleMultiple
	}
	return SettleSingle
}

// SettlementEntry is one tender applied to an existing bill.
type SettlementEntry struct {
	Amount            decimal.Decimal `json:"amount"`
	MethodID          int             `json:"payment_method_id"`
	TransactionNumber string          `json:"transaction_number,omitempty"`
}

// DefaultSettlementEntries pre-fills the form: single mode pays the whole
// total with the first method, multiple mode starts with two blank rows.
func DefaultSettlementEntries(bill Bill, mode SettleMode, methods *MethodCatalog) []SettlementEntry {
	first := 0
	if methods != nil {
		first = methods.First()
	}
	if mode == SettleMultiple {
		return []SettlementEntry{{MethodID: first}, {MethodID: first}}
	}
	return []SettlementEntry{{Amount: bill.Total, MethodID: first}}
}

// Settler pays existing bills with one or more tenders.
type Settler struct {
	payer   BillPayer
	methods *MethodCatalog
	logger  *slog.Logger
}

func NewSettler(payer BillPayer, methods *MethodCatalog, logger *slog.Logger) *Settler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Settler{payer: payer, methods: methods, logger: logger}
}

// Settle validates entries against the bill total and posts them in order.
// Single mode accepts exactly one entry. The returned lines are ready for
// the receipt.
func (s *Settler) Settle(ctx context.Context, bill Bill, entries []SettlementEntry, mode SettleMode, lang string) ([]PaymentLine, error) {
	if mode == SettleSingle && len(entries) != 1 {
		return nil, &ValidationError{Err: ErrInvalidPayload, Detail: "single mode takes exactly one payment"}
	}
	alloc := make([]PaymentAllocationEntry, len(entries))
	for i, e := range entries {
		if s.methods != nil {
			if _, ok := s.methods.Lookup(e.MethodID); e.MethodID != 0 && !ok {
				return nil, &ValidationError{Err: ErrUnknownMethod, Detail: fmt.Sprintf("method %d", e.MethodID)}
			}
		}
		alloc[i] = PaymentAllocationEntry{Amount: e.Amount, MethodID: e.MethodID, Reference: e.TransactionNumber}
	}
	if err := ValidateEntries(alloc, bill.Total); err != nil {
		return nil, err
	}

	lines := make([]PaymentLine, 0, len(entries))
	for i, e := range entries {
		err := s.payer.PayBill(ctx, bill.ID, PayBillRequest{
			Amount:            e.Amount,
			PaymentMethodID:   e.MethodID,
			TransactionNumber: e.TransactionNumber,
		})
		if err != nil {
			return nil, fmt.Errorf("pay bill %d entry %d: %w", bill.ID, i+1, err)
		}
		s.logger.Info("bill payment recorded", "bill_id", bill.ID, "entry", i+1, "amount", e.Amount.StringFixed(2))
		name := fmt.Sprintf("Method %d", e.MethodID)
		if s.methods != nil {
			name = s.methods.Name(e.MethodID, lang)
		}
		lines = append(lines, PaymentLine{MethodName: name, Amount: e.Amount, Reference: e.TransactionNumber})
	}
	return lines, nil
}
