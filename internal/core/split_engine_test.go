package core_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-billing/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

// cafeOrder totals 100.00: one 60.00 main and two 20.00 drinks.
func cafeOrder() core.Order {
	return core.Order{
		ID:    7,
		Total: d("100.00"),
		Items: []core.OrderItem{
			{ID: 1, Quantity: d("1"), UnitPrice: d("60"), TotalPrice: d("60")},
			{ID: 2, Quantity: d("2"), UnitPrice: d("20"), TotalPrice: d("40")},
		},
	}
}

func testCatalog() *core.MethodCatalog {
	return core.NewMethodCatalog([]core.PaymentMethod{
		{ID: 1, Name: "Cash", NameAr: "نقدي"},
		{ID: 2, Name: "Card", NameAr: "بطاقة"},
		{ID: 3, Name: "Wallet"},
	}, core.ParseOnlineRule("card"))
}

func TestSplitEngine_ItemSplitThenRemainder(t *testing.T) {
	e, err := core.NewSplitEngine([]core.Order{cafeOrder()}, testCatalog(), core.DefaultRates())
	require.NoError(t, err)
	require.True(t, e.ItemSplitAllowed())

	require.NoError(t, e.ChooseSplitByItems())
	assert.Equal(t, core.StateItemAssignment, e.State())

	require.NoError(t, e.AssignItems([]core.ItemShare{
		{OrderItemID: 1, Quantity: d("1")},
		{OrderItemID: 2, Quantity: d("0")},
	}))
	assert.Equal(t, core.StateAmountEntry, e.State())
	assert.Equal(t, core.ContextItemsFirst, e.Context())
	assertDecimal(t, "60", e.Target())
	assert.Equal(t, []int{1}, e.AssignedItemIDs())
	assert.Equal(t, []int{2}, e.RemainingItemIDs())

	first, err := e.SubmitEntries([]core.EntryInput{{
		MethodID:       1,
		AmountPaid:     d("66"),
		TaxPercent:     dp("10"),
		ServicePercent: dp("0"),
	}})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assertDecimal(t, "60", first[0].Amount)
	assertDecimal(t, "6", first[0].Tax)
	assertDecimal(t, "0", first[0].ServiceCharge)
	assertDecimal(t, "0", first[0].Tips)
	assert.Equal(t, []int{1}, first[0].ItemIDs)
	assert.Equal(t, []int{7}, first[0].OrderIDs)

	assert.Equal(t, core.StateAmountEntry, e.State())
	assert.Equal(t, core.ContextItemsRemaining, e.Context())
	assertDecimal(t, "40", e.Target())

	_, err = e.Payloads()
	assert.ErrorIs(t, err, core.ErrNotFinalized)

	second, err := e.SubmitEntries([]core.EntryInput{{
		MethodID:       2,
		AmountPaid:     d("40"),
		TaxPercent:     dp("0"),
		ServicePercent: dp("0"),
	}})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assertDecimal(t, "40", second[0].Amount)
	assert.Equal(t, []int{2}, second[0].ItemIDs)
	assert.Equal(t, core.StateFinalize, e.State())

	payloads, err := e.Payloads()
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, 1, payloads[0].PaymentMethodID)
	assert.Equal(t, 2, payloads[1].PaymentMethodID)

	groups := e.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, []int{1}, groups[0].ItemIDs())
	assert.Equal(t, []int{2}, groups[1].ItemIDs())
	require.NotNil(t, groups[1].MethodID)
	assert.Equal(t, 2, *groups[1].MethodID)

	require.NoError(t, core.ValidateItemPartition([]int{1, 2}, payloads[0].ItemIDs, payloads[1].ItemIDs))
}

func TestSplitEngine_FullOrderAcrossOrders(t *testing.T) {
	orders := []core.Order{
		{ID: 1, Total: d("30.00")},
		{ID: 2, Total: d("45.50")},
	}
	e, err := core.NewSplitEngine(orders, testCatalog(), core.DefaultRates())
	require.NoError(t, err)

	assert.False(t, e.ItemSplitAllowed())
	assert.ErrorIs(t, e.ChooseSplitByItems(), core.ErrItemSplitNotAllowed)
	assert.Equal(t, core.StateSelectSplitMode, e.State())

	require.NoError(t, e.ChooseFullOrder())
	assert.Equal(t, core.ContextFull, e.Context())
	assertDecimal(t, "75.50", e.Target())

	payloads, err := e.SubmitEntries([]core.EntryInput{
		{MethodID: 1, Amount: d("50"), Tax: d("5"), Tip: d("2")},
		{MethodID: 3, Amount: d("25.50"), ServiceCharge: d("1.25"), Reference: "TX-9"},
	})
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	for _, p := range payloads {
		assert.Equal(t, []int{1, 2}, p.OrderIDs)
		assert.NotNil(t, p.ItemIDs)
		assert.Empty(t, p.ItemIDs)
	}
	assertDecimal(t, "57", payloads[0].TotalCost())
	assert.Equal(t, "TX-9", payloads[1].TransactionNumber)
	assert.Equal(t, core.StateFinalize, e.State())
}

func TestSplitEngine_MismatchLeavesStateUntouched(t *testing.T) {
	e, err := core.NewSplitEngine([]core.Order{{ID: 1, Total: d("75.50")}}, nil, core.DefaultRates())
	require.NoError(t, err)
	require.NoError(t, e.ChooseFullOrder())

	_, err = e.SubmitEntries([]core.EntryInput{
		{MethodID: 1, Amount: d("50")},
		{MethodID: 2, Amount: d("25")},
	})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, core.ErrTotalMismatch)
	assertDecimal(t, "75.50", verr.Expected)
	assertDecimal(t, "75", verr.Got)
	assert.Equal(t, core.StateAmountEntry, e.State())

	// 0.01 off is still accepted
	payloads, err := e.SubmitEntries([]core.EntryInput{
		{MethodID: 1, Amount: d("50")},
		{MethodID: 2, Amount: d("25.49")},
	})
	require.NoError(t, err)
	assert.Len(t, payloads, 2)
}

func TestSplitEngine_AutoDerivedTip(t *testing.T) {
	tests := []struct {
		name       string
		amountPaid string
		wantTip    string
	}{
		{name: "exact", amountPaid: "120", wantTip: "0"},
		{name: "overpaid", amountPaid: "125", wantTip: "5"},
		{name: "underpaid clamps to zero", amountPaid: "110", wantTip: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := core.NewSplitEngine([]core.Order{cafeOrder()}, nil, core.DefaultRates())
			require.NoError(t, err)
			require.NoError(t, e.ChooseFullOrder())

			payloads, err := e.SubmitEntries([]core.EntryInput{{MethodID: 1, AmountPaid: d(tt.amountPaid)}})
			require.NoError(t, err)
			require.Len(t, payloads, 1)
			assertDecimal(t, "100", payloads[0].Amount)
			assertDecimal(t, "10", payloads[0].Tax)
			assertDecimal(t, "10", payloads[0].ServiceCharge)
			assertDecimal(t, tt.wantTip, payloads[0].Tips)
			assert.False(t, payloads[0].Tips.IsNegative())
		})
	}
}

func TestSplitEngine_NoRemainingItems(t *testing.T) {
	e, err := core.NewSplitEngine([]core.Order{cafeOrder()}, nil, core.DefaultRates())
	require.NoError(t, err)
	require.NoError(t, e.ChooseSplitByItems())
	require.NoError(t, e.AssignItems([]core.ItemShare{
		{OrderItemID: 1, Quantity: d("1")},
		{OrderItemID: 2, Quantity: d("2")},
	}))
	assertDecimal(t, "100", e.Target())
	assert.Empty(t, e.RemainingItemIDs())

	_, err = e.SubmitEntries([]core.EntryInput{{MethodID: 1, AmountPaid: d("120")}})
	assert.ErrorIs(t, err, core.ErrNoRemainingItems)
	assert.Equal(t, core.StateAmountEntry, e.State())
	assert.Equal(t, core.ContextItemsFirst, e.Context())
}

func TestSplitEngine_NothingLeftToPayForRemainingItems(t *testing.T) {
	tests := []struct {
		name  string
		order core.Order
	}{
		{
			name: "order total below the item sum",
			order: core.Order{ID: 8, Total: d("50"), Items: []core.OrderItem{
				{ID: 1, Quantity: d("1"), UnitPrice: d("60"), TotalPrice: d("60")},
				{ID: 2, Quantity: d("1"), UnitPrice: d("0"), TotalPrice: d("0")},
			}},
		},
		{
			name: "free remaining item",
			order: core.Order{ID: 9, Total: d("60"), Items: []core.OrderItem{
				{ID: 1, Quantity: d("1"), UnitPrice: d("60"), TotalPrice: d("60")},
				{ID: 2, Quantity: d("1"), UnitPrice: d("0"), TotalPrice: d("0")},
			}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := core.NewSplitEngine([]core.Order{tc.order}, nil, core.DefaultRates())
			require.NoError(t, err)
			require.NoError(t, e.ChooseSplitByItems())
			require.NoError(t, e.AssignItems([]core.ItemShare{{OrderItemID: 1, Quantity: d("1")}}))
			assert.Equal(t, []int{2}, e.RemainingItemIDs())

			_, err = e.SubmitEntries([]core.EntryInput{{
				MethodID: 1, AmountPaid: d("60"), TaxPercent: dp("0"), ServicePercent: dp("0"),
			}})
			var ve *core.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.ErrorIs(t, err, core.ErrNoRemainingItems)
			assert.Equal(t, core.StateAmountEntry, e.State())
			assert.Equal(t, core.ContextItemsFirst, e.Context())
			assertDecimal(t, "60", e.Target())

			_, err = e.Payloads()
			assert.ErrorIs(t, err, core.ErrNotFinalized)
		})
	}
}

func TestSplitEngine_PartialQuantity(t *testing.T) {
	e, err := core.NewSplitEngine([]core.Order{cafeOrder()}, nil, core.DefaultRates())
	require.NoError(t, err)
	require.NoError(t, e.ChooseSplitByItems())
	require.NoError(t, e.AssignItems([]core.ItemShare{{OrderItemID: 2, Quantity: d("1")}}))
	assertDecimal(t, "20", e.Target())
	assert.Equal(t, []int{1}, e.RemainingItemIDs())

	_, err = e.SubmitEntries([]core.EntryInput{{MethodID: 1, AmountPaid: d("24"), ServicePercent: dp("0")}})
	require.NoError(t, err)
	assertDecimal(t, "80", e.Target())
}

func TestSplitEngine_AssignItemsRejects(t *testing.T) {
	tests := []struct {
		name    string
		shares  []core.ItemShare
		wantErr error
	}{
		{
			name:    "unknown item",
			shares:  []core.ItemShare{{OrderItemID: 99, Quantity: d("1")}},
			wantErr: core.ErrUnknownItem,
		},
		{
			name: "duplicate item",
			shares: []core.ItemShare{
				{OrderItemID: 1, Quantity: d("1")},
				{OrderItemID: 1, Quantity: d("1")},
			},
			wantErr: core.ErrDuplicateItem,
		},
		{
			name:    "quantity above ordered",
			shares:  []core.ItemShare{{OrderItemID: 2, Quantity: d("3")}},
			wantErr: core.ErrQuantityOutOfRange,
		},
		{
			name:    "negative quantity",
			shares:  []core.ItemShare{{OrderItemID: 2, Quantity: d("-1")}},
			wantErr: core.ErrQuantityOutOfRange,
		},
		{
			name:    "nothing selected",
			shares:  []core.ItemShare{{OrderItemID: 1, Quantity: d("0")}},
			wantErr: core.ErrNoItemsAssigned,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := core.NewSplitEngine([]core.Order{cafeOrder()}, nil, core.DefaultRates())
			require.NoError(t, err)
			require.NoError(t, e.ChooseSplitByItems())

			err = e.AssignItems(tt.shares)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, core.StateItemAssignment, e.State())
		})
	}
}

func TestSplitEngine_TransitionErrors(t *testing.T) {
	e, err := core.NewSplitEngine([]core.Order{cafeOrder()}, nil, core.DefaultRates())
	require.NoError(t, err)

	_, err = e.SubmitEntries([]core.EntryInput{{MethodID: 1, AmountPaid: d("1")}})
	var terr *core.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, core.StateSelectSplitMode, terr.From)

	require.NoError(t, e.ChooseFullOrder())
	assert.True(t, errors.As(e.AssignItems(nil), &terr))
	assert.True(t, errors.As(e.ChooseSplitByItems(), &terr))
	assert.True(t, errors.As(e.ChooseFullOrder(), &terr))
}

func TestSplitEngine_RejectsUnknownMethod(t *testing.T) {
	e, err := core.NewSplitEngine([]core.Order{cafeOrder()}, testCatalog(), core.DefaultRates())
	require.NoError(t, err)
	require.NoError(t, e.ChooseFullOrder())

	_, err = e.SubmitEntries([]core.EntryInput{{MethodID: 42, AmountPaid: d("120")}})
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
	assert.Equal(t, core.StateAmountEntry, e.State())
}

func TestNewSplitEngine_NoOrders(t *testing.T) {
	_, err := core.NewSplitEngine(nil, nil, core.DefaultRates())
	assert.ErrorIs(t, err, core.ErrNoOrdersSelected)
}
