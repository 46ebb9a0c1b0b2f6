package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidateEntries checks that every entry carries a positive amount and a
// method, and that the amounts add up to target within Tolerance.
func ValidateEntries(entries []PaymentAllocationEntry, target decimal.Decimal) error {
	if len(entries) == 0 {
		return &ValidationError{Err: ErrMissingAmount, Detail: "no payment rows"}
	}
	sum := decimal.Zero
	for i, e := range entries {
		if !e.Amount.IsPositive() {
			return &ValidationError{Err: ErrMissingAmount, Detail: fmt.Sprintf("row %d", i+1)}
		}
		if e.MethodID == 0 {
			return &ValidationError{Err: ErrMissingMethod, Detail: fmt.Sprintf("row %d", i+1)}
		}
		if e.Tax.IsNegative() || e.ServiceCharge.IsNegative() || e.Tip.IsNegative() {
			return &ValidationError{Err: ErrNegativeCharge, Detail: fmt.Sprintf("row %d", i+1)}
		}
		sum = sum.Add(e.Amount)
	}
	if !WithinTolerance(sum, target) {
		return &ValidationError{Err: ErrTotalMismatch, Expected: target, Got: sum}
	}
	return nil
}

// ValidateItemPartition checks that groups partition all: every id appears in
// exactly one group and no group names an id outside all.
func ValidateItemPartition(all []int, groups ...[]int) error {
	known := make(map[int]bool, len(all))
	for _, id := range all {
		known[id] = true
	}
	seen := make(map[int]bool, len(all))
	for _, g := range groups {
		for _, id := range g {
			if !known[id] {
				return &ValidationError{Err: ErrUnknownItem, Detail: fmt.Sprintf("item %d", id)}
			}
			if seen[id] {
				return &ValidationError{Err: ErrDuplicateItem, Detail: fmt.Sprintf("item %d", id)}
			}
			seen[id] = true
		}
	}
	for _, id := range all {
		if !seen[id] {
			return &ValidationError{Err: ErrUnassignedItems, Detail: fmt.Sprintf("item %d", id)}
		}
	}
	return nil
}

// ReconcilePayloads checks payloads built outside a SplitEngine against the
// orders they bill, using the engine's rules. Every payload must name exactly
// the selected orders, and the amounts must add up to the orders' total.
// Item payloads are only accepted for a single order. Their item ids must
// partition its items into at least two groups, and no group but the last
// may pay more than its items are worth. methods may be nil.
func ReconcilePayloads(orders []Order, payloads []FinalizedPayload, methods *MethodCatalog) error {
	if len(orders) == 0 {
		return ErrNoOrdersSelected
	}
	if len(payloads) == 0 {
		return ErrNoPayloads
	}

	selected := make(map[int]bool, len(orders))
	total := decimal.Zero
	for _, o := range orders {
		selected[o.ID] = true
		total = total.Add(o.Total)
	}

	entries := make([]PaymentAllocationEntry, len(payloads))
	var (
		groups   [][]int
		sums     []decimal.Decimal
		index    = make(map[string]int)
		itemised int
	)
	for i, p := range payloads {
		if err := matchOrders(p.OrderIDs, selected); err != nil {
			return fmt.Errorf("payload %d: %w", i+1, err)
		}
		if methods != nil && p.PaymentMethodID != 0 {
			if _, ok := methods.Lookup(p.PaymentMethodID); !ok {
				return fmt.Errorf("payload %d: %w", i+1, &ValidationError{Err: ErrUnknownMethod, Detail: fmt.Sprintf("method %d", p.PaymentMethodID)})
			}
		}
		entries[i] = PaymentAllocationEntry{
			Amount:        p.Amount,
			MethodID:      p.PaymentMethodID,
			Tax:           p.Tax,
			ServiceCharge: p.ServiceCharge,
			Tip:           p.Tips,
		}
		if len(p.ItemIDs) == 0 {
			continue
		}
		itemised++
		k := groupKey(p.ItemIDs)
		g, ok := index[k]
		if !ok {
			g = len(groups)
			index[k] = g
			groups = append(groups, p.ItemIDs)
			sums = append(sums, decimal.Zero)
		}
		sums[g] = sums[g].Add(p.Amount)
	}

	if itemised > 0 {
		if itemised != len(payloads) {
			return &ValidationError{Err: ErrMixedSplit}
		}
		if len(orders) != 1 {
			return &ValidationError{Err: ErrItemSplitNotAllowed}
		}
		order := orders[0]
		all := make([]int, len(order.Items))
		worth := make(map[int]decimal.Decimal, len(order.Items))
		for i, it := range order.Items {
			all[i] = it.ID
			worth[it.ID] = it.TotalPrice
		}
		if err := ValidateItemPartition(all, groups...); err != nil {
			return err
		}
		if len(groups) < 2 {
			return &ValidationError{Err: ErrNoRemainingItems}
		}
		for g := 0; g < len(groups)-1; g++ {
			limit := decimal.Zero
			for _, id := range groups[g] {
				limit = limit.Add(worth[id])
			}
			if sums[g].Sub(limit).GreaterThan(Tolerance) {
				return &ValidationError{Err: ErrTotalMismatch, Expected: limit, Got: sums[g]}
			}
		}
	}
	return ValidateEntries(entries, total)
}

// matchOrders checks that ids names every selected order exactly once.
func matchOrders(ids []int, selected map[int]bool) error {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !selected[id] || seen[id] {
			return &ValidationError{Err: ErrOrderMismatch, Detail: fmt.Sprintf("order %d", id)}
		}
		seen[id] = true
	}
	if len(seen) != len(selected) {
		return &ValidationError{Err: ErrOrderMismatch, Detail: fmt.Sprintf("%d of %d orders", len(seen), len(selected))}
	}
	return nil
}

func groupKey(ids []int) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
