package core

import (
	"context"
	"log/slog"
)

// Redirect is the online checkout the operator must complete before the
// workflow continues.
type Redirect struct {
	BillID       int    `json:"bill_id"`
	URL          string `json:"url"`
	PayloadIndex int    `json:"payload_index"`
}

// FinalizeResult describes a finalize run that did not fail.
type FinalizeResult struct {
	// CreatedBillIDs lists every bill created, in payload order.
	CreatedBillIDs []int `json:"created_bill_ids"`
	// Completed lists bills settled with an offline method.
	Completed []int `json:"completed"`
	// Redirect is set when the run halted for an online checkout.
	Redirect *Redirect `json:"redirect,omitempty"`
	// Pending holds the payloads after the redirecting one. They were not
	// submitted.
	Pending []FinalizedPayload `json:"pending,omitempty"`
}

// Done reports whether every payload was processed without a redirect.
func (r *FinalizeResult) Done() bool {
	return r.Redirect == nil
}

// Finalizer submits payloads to the backend one at a time.
type Finalizer struct {
	bills   BillWriter
	methods *MethodCatalog
	logger  *slog.Logger
}

func NewFinalizer(bills BillWriter, methods *MethodCatalog, logger *slog.Logger) *Finalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finalizer{bills: bills, methods: methods, logger: logger}
}

// Finalize creates a bill per payload: create-empty, attach-items, then for
// online methods a checkout session whose URL stops the run. Steps are never
// rolled back; on failure the returned *FinalizeError lists the bills already
// created. Calling Finalize twice with the same payloads creates the bills
// twice.
func (f *Finalizer) Finalize(ctx context.Context, payloads []FinalizedPayload) (*FinalizeResult, error) {
	if len(payloads) == 0 {
		return nil, ErrNoPayloads
	}
	for i, p := range payloads {
		if err := p.Validate(); err != nil {
			return nil, &FinalizeError{Index: i, Err: err}
		}
	}

	result := &FinalizeResult{}
	fail := func(i int, err error) (*FinalizeResult, error) {
		f.logger.Error("finalize failed", "index", i, "created", result.CreatedBillIDs, "error", err)
		return nil, &FinalizeError{Index: i, CreatedBillIDs: result.CreatedBillIDs, Err: err}
	}

	for i, p := range payloads {
		billID, err := f.bills.CreateEmptyBill(ctx, NewCreateBillRequest(p))
		if err != nil {
			return fail(i, &CreationError{Err: err})
		}
		if billID == 0 {
			return fail(i, &CreationError{Err: ErrMissingBillID})
		}
		result.CreatedBillIDs = append(result.CreatedBillIDs, billID)
		f.logger.Info("bill created", "index", i, "bill_id", billID, "total_cost", p.TotalCost().StringFixed(2))

		if err := f.bills.AttachItems(ctx, billID, p); err != nil {
			return fail(i, &AttachError{BillID: billID, Err: err})
		}
		f.logger.Info("items attached", "bill_id", billID, "items", len(p.ItemIDs))

		if f.methods != nil && f.methods.IsOnline(p.PaymentMethodID) {
			url, err := f.bills.CreateCheckoutSession(ctx, billID)
			if err != nil {
				return fail(i, &CheckoutError{BillID: billID, Err: err})
			}
			if url == "" {
				return fail(i, &CheckoutError{BillID: billID, Err: ErrMissingCheckoutURL})
			}
			result.Redirect = &Redirect{BillID: billID, URL: url, PayloadIndex: i}
			result.Pending = append([]FinalizedPayload(nil), payloads[i+1:]...)
			f.logger.Info("checkout redirect", "bill_id", billID, "pending", len(result.Pending))
			return result, nil
		}
		result.Completed = append(result.Completed, billID)
	}
	return result, nil
}
