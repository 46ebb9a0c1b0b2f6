package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// State is a step of the split workflow. Transitions only move forward.
type State int

const (
	StateSelectSplitMode State = iota
	StateItemAssignment
	StateAmountEntry
	StateFinalize
)

func (s State) String() string {
	switch s {
	case StateSelectSplitMode:
		return "select-split-mode"
	case StateItemAssignment:
		return "item-assignment"
	case StateAmountEntry:
		return "amount-entry"
	case StateFinalize:
		return "finalize"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// EntryContext tells which group the current amount entry is for.
type EntryContext string

const (
	ContextNone           EntryContext = ""
	ContextFull           EntryContext = "full"
	ContextItemsFirst     EntryContext = "items-first"
	ContextItemsRemaining EntryContext = "items-remaining"
)

// SplitEngine drives the split of one or more orders into bill payloads.
//
//	select-split-mode ─ full ───────────────────────────► amount-entry(full) ──────────► finalize
//	                  └ items ─► item-assignment ─► amount-entry(items-first) ─► amount-entry(items-remaining) ─► finalize
//
// A SplitEngine is not safe for concurrent use.
type SplitEngine struct {
	orders  []Order
	methods *MethodCatalog
	rates   Rates

	state   State
	context EntryContext
	target  decimal.Decimal

	assigned     SplitGroup
	partialTotal decimal.Decimal
	groups       []SplitGroup
	payloads     []FinalizedPayload
}

// NewSplitEngine starts a split over orders. methods may be nil, in which case
// method ids are not checked against the catalog.
func NewSplitEngine(orders []Order, methods *MethodCatalog, rates Rates) (*SplitEngine, error) {
	if len(orders) == 0 {
		return nil, ErrNoOrdersSelected
	}
	return &SplitEngine{
		orders:  orders,
		methods: methods,
		rates:   rates,
		state:   StateSelectSplitMode,
	}, nil
}

func (e *SplitEngine) State() State            { return e.state }
func (e *SplitEngine) Context() EntryContext   { return e.context }
func (e *SplitEngine) Target() decimal.Decimal { return e.target }
func (e *SplitEngine) Orders() []Order         { return e.orders }
func (e *SplitEngine) Rates() Rates            { return e.rates }

// OrderTotal is the sum of the selected orders' totals.
func (e *SplitEngine) OrderTotal() decimal.Decimal {
	total := decimal.Zero
	for _, o := range e.orders {
		total = total.Add(o.Total)
	}
	return total
}

// ItemSplitAllowed reports whether split-by-items is offered: only for a
// single order.
func (e *SplitEngine) ItemSplitAllowed() bool {
	return len(e.orders) == 1
}

// ChooseFullOrder bills the whole selection, target = Σ order totals.
func (e *SplitEngine) ChooseFullOrder() error {
	if e.state != StateSelectSplitMode {
		return &TransitionError{From: e.state, Op: "choose full order"}
	}
	e.state = StateAmountEntry
	e.context = ContextFull
	e.target = e.OrderTotal()
	return nil
}

// ChooseSplitByItems moves to item assignment.
func (e *SplitEngine) ChooseSplitByItems() error {
	if e.state != StateSelectSplitMode {
		return &TransitionError{From: e.state, Op: "choose split by items"}
	}
	if !e.ItemSplitAllowed() {
		return ErrItemSplitNotAllowed
	}
	e.state = StateItemAssignment
	return nil
}

// AssignItems records the first group. Shares with quantity 0 are dropped;
// the rest must name items of the order with a quantity no larger than the
// ordered one.
func (e *SplitEngine) AssignItems(shares []ItemShare) error {
	if e.state != StateItemAssignment {
		return &TransitionError{From: e.state, Op: "assign items"}
	}
	items := make(map[int]OrderItem, len(e.orders[0].Items))
	for _, it := range e.orders[0].Items {
		items[it.ID] = it
	}

	group := SplitGroup{ID: 1}
	seen := make(map[int]bool, len(shares))
	partial := decimal.Zero
	for _, s := range shares {
		it, ok := items[s.OrderItemID]
		if !ok {
			return &ValidationError{Err: ErrUnknownItem, Detail: fmt.Sprintf("item %d", s.OrderItemID)}
		}
		if seen[s.OrderItemID] {
			return &ValidationError{Err: ErrDuplicateItem, Detail: fmt.Sprintf("item %d", s.OrderItemID)}
		}
		seen[s.OrderItemID] = true

		maxQty := it.Quantity
		if !maxQty.IsPositive() {
			maxQty = decimal.NewFromInt(1)
		}
		if s.Quantity.IsNegative() || s.Quantity.GreaterThan(maxQty) {
			return &ValidationError{
				Err:    ErrQuantityOutOfRange,
				Detail: fmt.Sprintf("item %d: %s not in [0, %s]", s.OrderItemID, s.Quantity, maxQty),
			}
		}
		if s.Quantity.IsZero() {
			continue
		}
		group.Items = append(group.Items, s)
		partial = partial.Add(it.EffectiveUnitPrice().Mul(s.Quantity))
	}
	if len(group.Items) == 0 {
		return &ValidationError{Err: ErrNoItemsAssigned}
	}

	e.assigned = group
	e.partialTotal = partial.Round(2)
	e.state = StateAmountEntry
	e.context = ContextItemsFirst
	e.target = e.partialTotal
	return nil
}

// AssignedItemIDs returns the item ids of the first group.
func (e *SplitEngine) AssignedItemIDs() []int {
	return e.assigned.ItemIDs()
}

// RemainingItemIDs returns the order's item ids not in the first group.
func (e *SplitEngine) RemainingItemIDs() []int {
	if len(e.assigned.Items) == 0 {
		return nil
	}
	taken := make(map[int]bool, len(e.assigned.Items))
	for _, s := range e.assigned.Items {
		taken[s.OrderItemID] = true
	}
	var out []int
	for _, it := range e.orders[0].Items {
		if !taken[it.ID] {
			out = append(out, it.ID)
		}
	}
	return out
}

// Groups returns the item groups recorded so far.
func (e *SplitEngine) Groups() []SplitGroup {
	out := make([]SplitGroup, len(e.groups))
	copy(out, e.groups)
	return out
}

// SubmitEntries validates the rows against the current target and records
// their payloads. Nothing changes when validation fails.
func (e *SplitEngine) SubmitEntries(inputs []EntryInput) ([]FinalizedPayload, error) {
	if e.state != StateAmountEntry {
		return nil, &TransitionError{From: e.state, Op: "submit entries"}
	}
	entries, _, err := ComputeEntries(e.target, inputs, e.rates)
	if err != nil {
		return nil, err
	}
	if e.methods != nil {
		for i, en := range entries {
			if _, ok := e.methods.Lookup(en.MethodID); !ok {
				return nil, fmt.Errorf("row %d: %w", i+1, &ValidationError{Err: ErrUnknownMethod, Detail: fmt.Sprintf("method %d", en.MethodID)})
			}
		}
	}
	if err := ValidateEntries(entries, e.target); err != nil {
		return nil, err
	}

	var produced []FinalizedPayload
	switch e.context {
	case ContextFull:
		produced = e.buildPayloads(entries, []int{})
		e.state = StateFinalize

	case ContextItemsFirst:
		remaining := e.RemainingItemIDs()
		if len(remaining) == 0 {
			return nil, &ValidationError{Err: ErrNoRemainingItems}
		}
		// Nothing would be left to pay for the remaining items, and a zero
		// target can never be met by positive amounts.
		rest := clampZero(e.OrderTotal().Sub(e.partialTotal))
		if !rest.IsPositive() {
			return nil, &ValidationError{
				Err:    ErrNoRemainingItems,
				Detail: fmt.Sprintf("remaining items are worth %s", rest.StringFixed(2)),
			}
		}
		assigned := e.AssignedItemIDs()
		if err := ValidateItemPartition(e.allItemIDs(), assigned, remaining); err != nil {
			return nil, err
		}
		produced = e.buildPayloads(entries, assigned)
		first := e.assigned
		first.MethodID = intPtr(entries[0].MethodID)
		e.groups = append(e.groups, first)

		e.context = ContextItemsRemaining
		e.target = rest

	case ContextItemsRemaining:
		remaining := e.RemainingItemIDs()
		produced = e.buildPayloads(entries, remaining)
		rest := SplitGroup{ID: 2, MethodID: intPtr(entries[0].MethodID)}
		for _, id := range remaining {
			rest.Items = append(rest.Items, ItemShare{OrderItemID: id, Quantity: e.itemQuantity(id)})
		}
		e.groups = append(e.groups, rest)
		e.state = StateFinalize
	}

	e.payloads = append(e.payloads, produced...)
	return produced, nil
}

// Payloads returns every payload produced by the split, in submission order.
func (e *SplitEngine) Payloads() ([]FinalizedPayload, error) {
	if e.state != StateFinalize {
		return nil, ErrNotFinalized
	}
	out := make([]FinalizedPayload, len(e.payloads))
	copy(out, e.payloads)
	return out, nil
}

func (e *SplitEngine) buildPayloads(entries []PaymentAllocationEntry, itemIDs []int) []FinalizedPayload {
	orderIDs := make([]int, len(e.orders))
	for i, o := range e.orders {
		orderIDs[i] = o.ID
	}
	out := make([]FinalizedPayload, 0, len(entries))
	for _, en := range entries {
		ids := make([]int, len(itemIDs))
		copy(ids, itemIDs)
		out = append(out, FinalizedPayload{
			OrderIDs:          orderIDs,
			ItemIDs:           ids,
			Amount:            en.Amount,
			PaymentMethodID:   en.MethodID,
			Tax:               en.Tax,
			ServiceCharge:     en.ServiceCharge,
			Tips:              en.Tip,
			TransactionNumber: en.Reference,
		})
	}
	return out
}

func (e *SplitEngine) allItemIDs() []int {
	ids := make([]int, 0, len(e.orders[0].Items))
	for _, it := range e.orders[0].Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func (e *SplitEngine) itemQuantity(id int) decimal.Decimal {
	for _, it := range e.orders[0].Items {
		if it.ID == id {
			return it.Quantity
		}
	}
	return decimal.Zero
}

func intPtr(v int) *int { return &v }
