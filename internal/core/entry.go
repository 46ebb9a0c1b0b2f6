package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EntryMode selects how a row of payment input becomes an allocation entry.
type EntryMode int

const (
	// EntryModeAutoDerived: the amount is the whole target and tax, service
	// and tip are derived from percentages and the amount handed over.
	EntryModeAutoDerived EntryMode = iota
	// EntryModeManual: every field is typed by the operator.
	EntryModeManual
)

func (m EntryMode) String() string {
	if m == EntryModeManual {
		return "manual"
	}
	return "auto"
}

// ModeFor picks the entry mode from the number of rows: one row is
// auto-derived, more are manual.
func ModeFor(rows int) EntryMode {
	if rows > 1 {
		return EntryModeManual
	}
	return EntryModeAutoDerived
}

// Rates are the default percentages applied in auto-derived mode.
type Rates struct {
	TaxPercent     decimal.Decimal
	ServicePercent decimal.Decimal
}

// DefaultRates matches the 10% tax and 10% service the POS uses out of the box.
func DefaultRates() Rates {
	return Rates{
		TaxPercent:     decimal.NewFromInt(10),
		ServicePercent: decimal.NewFromInt(10),
	}
}

// EntryInput is one row as typed by the operator.
//
// In auto-derived mode only MethodID, Reference, AmountPaid and the optional
// percentage overrides are read. In manual mode Amount, Tax, ServiceCharge and
// Tip are taken as given.
type EntryInput struct {
	MethodID  int
	Reference string

	AmountPaid     decimal.Decimal
	TaxPercent     *decimal.Decimal
	ServicePercent *decimal.Decimal

	Amount        decimal.Decimal
	Tax           decimal.Decimal
	ServiceCharge decimal.Decimal
	Tip           decimal.Decimal
}

// ComputeEntry turns one input row into an allocation entry. base is the
// amount owed for the group and is only used in auto-derived mode.
func ComputeEntry(mode EntryMode, base decimal.Decimal, in EntryInput, rates Rates) (PaymentAllocationEntry, error) {
	if in.MethodID == 0 {
		return PaymentAllocationEntry{}, &ValidationError{Err: ErrMissingMethod}
	}

	if mode == EntryModeManual {
		if in.Tax.IsNegative() || in.ServiceCharge.IsNegative() {
			return PaymentAllocationEntry{}, &ValidationError{Err: ErrNegativeCharge}
		}
		return PaymentAllocationEntry{
			Amount:        in.Amount,
			MethodID:      in.MethodID,
			Reference:     in.Reference,
			Tax:           in.Tax,
			ServiceCharge: in.ServiceCharge,
			Tip:           clampZero(in.Tip),
		}, nil
	}

	if !in.AmountPaid.IsPositive() {
		return PaymentAllocationEntry{}, &ValidationError{Err: ErrMissingAmount, Detail: "amount paid"}
	}
	taxPct, svcPct := rates.TaxPercent, rates.ServicePercent
	if in.TaxPercent != nil {
		taxPct = *in.TaxPercent
	}
	if in.ServicePercent != nil {
		svcPct = *in.ServicePercent
	}
	if taxPct.IsNegative() || svcPct.IsNegative() {
		return PaymentAllocationEntry{}, &ValidationError{Err: ErrNegativeCharge}
	}

	tax := Percent(taxPct, base)
	service := Percent(svcPct, base)
	return PaymentAllocationEntry{
		Amount:        base,
		MethodID:      in.MethodID,
		Reference:     in.Reference,
		Tax:           tax,
		ServiceCharge: service,
		Tip:           clampZero(in.AmountPaid.Sub(base.Add(tax).Add(service))),
	}, nil
}

// ComputeEntries applies ComputeEntry to every row using the mode implied by
// the row count.
func ComputeEntries(base decimal.Decimal, inputs []EntryInput, rates Rates) ([]PaymentAllocationEntry, EntryMode, error) {
	mode := ModeFor(len(inputs))
	if len(inputs) == 0 {
		return nil, mode, &ValidationError{Err: ErrMissingAmount, Detail: "no payment rows"}
	}
	entries := make([]PaymentAllocationEntry, 0, len(inputs))
	for i, in := range inputs {
		e, err := ComputeEntry(mode, base, in, rates)
		if err != nil {
			return nil, mode, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, mode, nil
}
