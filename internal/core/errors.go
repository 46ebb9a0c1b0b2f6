package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation sentinels. They are always returned wrapped in *ValidationError.
var (
	ErrTotalMismatch      = errors.New("payment amounts do not match the bill total")
	ErrMissingMethod      = errors.New("payment method is required")
	ErrUnknownMethod      = errors.New("unknown payment method")
	ErrMissingAmount      = errors.New("amount is required")
	ErrNegativeCharge     = errors.New("tax and service charge cannot be negative")
	ErrUnassignedItems    = errors.New("some items are not assigned to any group")
	ErrDuplicateItem      = errors.New("item assigned to more than one group")
	ErrUnknownItem        = errors.New("item does not belong to the order")
	ErrNoRemainingItems   = errors.New("no remaining items to bill")
	ErrNoItemsAssigned    = errors.New("select at least one item")
	ErrQuantityOutOfRange = errors.New("split quantity out of range")
	ErrInvalidPayload     = errors.New("invalid bill payload")
	ErrOrderMismatch      = errors.New("payload orders do not match the selection")
	ErrMixedSplit         = errors.New("item payloads cannot be mixed with full-order payloads")
)

// Workflow sentinels.
var (
	ErrNoOrdersSelected    = errors.New("no orders selected")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderBilled         = errors.New("order already has a bill")
	ErrBillNotFound        = errors.New("bill not found")
	ErrItemSplitNotAllowed = errors.New("split by items requires exactly one order")
	ErrNotFinalized        = errors.New("split is not finalized")
	ErrNoPayloads          = errors.New("nothing to finalize")
	ErrMissingBillID       = errors.New("backend did not return a bill id")
	ErrMissingCheckoutURL  = errors.New("backend did not return a checkout url")
	ErrNotSettled          = errors.New("bill is not settled")
)

// ValidationError is a local rejection raised before any network call.
// Expected and Got are set for total mismatches.
type ValidationError struct {
	Err      error
	Detail   string
	Expected decimal.Decimal
	Got      decimal.Decimal
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Err, ErrTotalMismatch) {
		return fmt.Sprintf("%s: expected %s, got %s", e.Err, e.Expected.StringFixed(2), e.Got.StringFixed(2))
	}
	if e.Detail != "" {
		return e.Err.Error() + ": " + e.Detail
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FetchError reports a failed read of backend data. No partial results
// accompany it.
type FetchError struct {
	Resource string
	ID       int
	Err      error
}

func (e *FetchError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("fetch %s %d: %v", e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CreationError: POST /bills/create-empty failed or returned no bill id.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string { return "create bill: " + e.Err.Error() }
func (e *CreationError) Unwrap() error { return e.Err }

// AttachError: the bill exists but its items could not be attached.
type AttachError struct {
	BillID int
	Err    error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("attach items to bill %d: %v", e.BillID, e.Err)
}

func (e *AttachError) Unwrap() error { return e.Err }

// CheckoutError: the online checkout session could not be created.
type CheckoutError struct {
	BillID int
	Err    error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("create checkout session for bill %d: %v", e.BillID, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// FinalizeError wraps the failing step of a finalize run. Bills listed in
// CreatedBillIDs exist on the backend and were not rolled back.
type FinalizeError struct {
	Index          int
	CreatedBillIDs []int
	Err            error
}

func (e *FinalizeError) Error() string {
	msg := fmt.Sprintf("finalize payload %d: %v", e.Index+1, e.Err)
	if len(e.CreatedBillIDs) > 0 {
		ids := make([]string, len(e.CreatedBillIDs))
		for i, id := range e.CreatedBillIDs {
			ids[i] = fmt.Sprint(id)
		}
		msg += " (bills already created: " + strings.Join(ids, ", ") + ")"
	}
	return msg
}

func (e *FinalizeError) Unwrap() error { return e.Err }

// TransitionError is returned when a split engine operation is called in a
// state that does not allow it.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Op, e.From)
}
