package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-billing/internal/core"
)

func TestValidateEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []core.PaymentAllocationEntry
		target  string
		wantErr error
	}{
		{
			name:    "single exact",
			entries: []core.PaymentAllocationEntry{{Amount: d("100"), MethodID: 1}},
			target:  "100",
		},
		{
			name: "two rows within a cent",
			entries: []core.PaymentAllocationEntry{
				{Amount: d("33.33"), MethodID: 1},
				{Amount: d("66.66"), MethodID: 2},
			},
			target: "100",
		},
		{
			name: "two rows off by two cents",
			entries: []core.PaymentAllocationEntry{
				{Amount: d("33.33"), MethodID: 1},
				{Amount: d("66.65"), MethodID: 2},
			},
			target:  "100",
			wantErr: core.ErrTotalMismatch,
		},
		{
			name:    "missing amount",
			entries: []core.PaymentAllocationEntry{{MethodID: 1}},
			target:  "0",
			wantErr: core.ErrMissingAmount,
		},
		{
			name:    "missing method",
			entries: []core.PaymentAllocationEntry{{Amount: d("10")}},
			target:  "10",
			wantErr: core.ErrMissingMethod,
		},
		{
			name:    "negative tax",
			entries: []core.PaymentAllocationEntry{{Amount: d("10"), MethodID: 1, Tax: d("-1")}},
			target:  "10",
			wantErr: core.ErrNegativeCharge,
		},
		{
			name:    "no rows",
			target:  "10",
			wantErr: core.ErrMissingAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.ValidateEntries(tt.entries, d(tt.target))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			var verr *core.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestValidateItemPartition(t *testing.T) {
	all := []int{1, 2, 3}
	tests := []struct {
		name    string
		groups  [][]int
		wantErr error
	}{
		{name: "exact partition", groups: [][]int{{1}, {2, 3}}},
		{name: "single group", groups: [][]int{{3, 2, 1}}},
		{name: "missing item", groups: [][]int{{1}, {2}}, wantErr: core.ErrUnassignedItems},
		{name: "duplicate across groups", groups: [][]int{{1, 2}, {2, 3}}, wantErr: core.ErrDuplicateItem},
		{name: "foreign item", groups: [][]int{{1, 2, 3}, {4}}, wantErr: core.ErrUnknownItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.ValidateItemPartition(all, tt.groups...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReconcilePayloads(t *testing.T) {
	second := core.Order{ID: 8, Total: d("50")}
	pay := func(amount string, method int, orders []int, items ...int) core.FinalizedPayload {
		return core.FinalizedPayload{OrderIDs: orders, ItemIDs: items, Amount: d(amount), PaymentMethodID: method}
	}
	tests := []struct {
		name     string
		orders   []core.Order
		payloads []core.FinalizedPayload
		wantErr  error
	}{
		{
			name:     "full order in two tenders",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("70", 1, []int{7}), pay("30", 2, []int{7})},
		},
		{
			name:     "two orders billed together",
			orders:   []core.Order{cafeOrder(), second},
			payloads: []core.FinalizedPayload{pay("150", 1, []int{8, 7})},
		},
		{
			name:     "item groups",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("60", 1, []int{7}, 1), pay("25", 2, []int{7}, 2), pay("15", 1, []int{7}, 2)},
		},
		{
			name:     "repeated and foreign item ids",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("1", 1, []int{7}, 1, 1, 999)},
			wantErr:  core.ErrDuplicateItem,
		},
		{
			name:     "amounts short of the total",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("1", 1, []int{7})},
			wantErr:  core.ErrTotalMismatch,
		},
		{
			name:     "order not selected",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("100", 1, []int{9})},
			wantErr:  core.ErrOrderMismatch,
		},
		{
			name:     "selected order missing",
			orders:   []core.Order{cafeOrder(), second},
			payloads: []core.FinalizedPayload{pay("150", 1, []int{7})},
			wantErr:  core.ErrOrderMismatch,
		},
		{
			name:     "order named twice",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("100", 1, []int{7, 7})},
			wantErr:  core.ErrOrderMismatch,
		},
		{
			name:     "unknown method",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("100", 9, []int{7})},
			wantErr:  core.ErrUnknownMethod,
		},
		{
			name:     "items mixed with a full payload",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("60", 1, []int{7}, 1), pay("40", 1, []int{7})},
			wantErr:  core.ErrMixedSplit,
		},
		{
			name:     "items across two orders",
			orders:   []core.Order{cafeOrder(), second},
			payloads: []core.FinalizedPayload{pay("100", 1, []int{7, 8}, 1), pay("50", 1, []int{7, 8}, 2)},
			wantErr:  core.ErrItemSplitNotAllowed,
		},
		{
			name:     "one group holding every item",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("100", 1, []int{7}, 2, 1)},
			wantErr:  core.ErrNoRemainingItems,
		},
		{
			name:     "first group paying above its items",
			orders:   []core.Order{cafeOrder()},
			payloads: []core.FinalizedPayload{pay("90", 1, []int{7}, 2), pay("10", 1, []int{7}, 1)},
			wantErr:  core.ErrTotalMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.ReconcilePayloads(tt.orders, tt.payloads, testCatalog())
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			var verr *core.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	assert.ErrorIs(t, core.ReconcilePayloads(nil, []core.FinalizedPayload{pay("1", 1, nil)}, nil), core.ErrNoOrdersSelected)
	assert.ErrorIs(t, core.ReconcilePayloads([]core.Order{cafeOrder()}, nil, nil), core.ErrNoPayloads)
}

func TestReconcilePayloads_AcceptsEngineSplit(t *testing.T) {
	e, err := core.NewSplitEngine([]core.Order{cafeOrder()}, testCatalog(), core.DefaultRates())
	require.NoError(t, err)
	require.NoError(t, e.ChooseSplitByItems())
	require.NoError(t, e.AssignItems([]core.ItemShare{{OrderItemID: 2, Quantity: d("1")}}))
	_, err = e.SubmitEntries([]core.EntryInput{{MethodID: 1, AmountPaid: d("20"), TaxPercent: dp("0"), ServicePercent: dp("0")}})
	require.NoError(t, err)
	_, err = e.SubmitEntries([]core.EntryInput{
		{MethodID: 1, AmountPaid: d("50"), TaxPercent: dp("0"), ServicePercent: dp("0")},
		{MethodID: 2, AmountPaid: d("30"), TaxPercent: dp("0"), ServicePercent: dp("0")},
	})
	require.NoError(t, err)
	payloads, err := e.Payloads()
	require.NoError(t, err)

	assert.NoError(t, core.ReconcilePayloads([]core.Order{cafeOrder()}, payloads, testCatalog()))
}

func TestValidationError_Message(t *testing.T) {
	err := core.ValidateEntries([]core.PaymentAllocationEntry{{Amount: d("90"), MethodID: 1}}, d("100"))
	assert.EqualError(t, err, "payment amounts do not match the bill total: expected 100.00, got 90.00")
}
