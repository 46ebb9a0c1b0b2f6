package repl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pos-billing/internal/app"
	"pos-billing/internal/core"
	"pos-billing/internal/receipt"
)

var errCancelled = errors.New("cancelled")

func isCancel(s string) bool { return strings.EqualFold(s, "cancel") }

// splitWizard walks the split engine from mode selection to finalize.
func (r *repl) splitWizard() error {
	split, err := r.svc.StartSplit(r.ctx, r.opts.Key)
	if err != nil {
		return err
	}
	e := split.Engine
	printSplitOrders(r.out, split, r.opts.Currency)
	fmt.Fprintln(r.out, "Type 'cancel' at any prompt to abort.")

	if err := r.chooseMode(e); err != nil {
		return r.cancelled(err)
	}
	if e.State() == core.StateItemAssignment {
		if err := r.assignItems(e, split.Orders[0]); err != nil {
			return r.cancelled(err)
		}
	}
	for e.State() == core.StateAmountEntry {
		if err := r.enterAmounts(e, split.Methods, split.Lang); err != nil {
			return r.cancelled(err)
		}
	}

	payloads, err := e.Payloads()
	if err != nil {
		return err
	}
	printPayloads(r.out, payloads, split.Methods, split.Lang, r.opts.Currency)
	answer := strings.ToLower(r.prompt(fmt.Sprintf("\nSubmit %d bill(s)? (y/n): ", len(payloads))))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(r.out, "Nothing submitted.")
		return nil
	}

	out, err := r.svc.Finalize(r.ctx, r.opts.Key, payloads)
	if err != nil {
		var fe *core.FinalizeError
		if errors.As(err, &fe) && len(fe.CreatedBillIDs) > 0 {
			fmt.Fprintf(r.out, "Bills already created: %s. Check them before retrying.\n", joinIDs(fe.CreatedBillIDs))
		}
		return err
	}
	printFinalize(r.out, out)
	if out.Done() && len(out.Receipts) > 0 {
		r.offerReceipts(out.Receipts)
	}
	return nil
}

func (r *repl) cancelled(err error) error {
	if errors.Is(err, errCancelled) {
		fmt.Fprintln(r.out, "Split cancelled.")
		return nil
	}
	return err
}

func (r *repl) chooseMode(e *core.SplitEngine) error {
	if !e.ItemSplitAllowed() {
		fmt.Fprintln(r.out, "Several orders selected: billing the full amount.")
		return e.ChooseFullOrder()
	}
	for {
		switch strings.ToLower(r.prompt("Split mode: [f]ull order or split by [i]tems? ")) {
		case "f", "full", "":
			return e.ChooseFullOrder()
		case "i", "items":
			return e.ChooseSplitByItems()
		case "cancel":
			return errCancelled
		default:
			fmt.Fprintln(r.out, "  Answer 'f' or 'i'.")
		}
	}
}

func (r *repl) assignItems(e *core.SplitEngine, order core.Order) error {
	printOrderItems(r.out, order, r.opts.Currency)
	fmt.Fprintln(r.out, "Items for the first payment, as <item-id>[:qty] separated by spaces.")
	fmt.Fprintln(r.out, "  Example: 1 2:1   (all of item 1, one unit of item 2)")
	for {
		raw := r.prompt("  Items: ")
		if isCancel(raw) {
			return errCancelled
		}
		shares, err := parseShares(strings.Fields(raw), order)
		if err == nil {
			err = e.AssignItems(shares)
		}
		if err != nil {
			fmt.Fprintf(r.out, "  %v\n", err)
			continue
		}
		return nil
	}
}

func (r *repl) enterAmounts(e *core.SplitEngine, methods *core.MethodCatalog, lang string) error {
	fmt.Fprintf(r.out, "\n%s: %s %s to pay\n", contextLabel(e.Context()), e.Target().StringFixed(2), r.opts.Currency)
	printMethodChoices(r.out, methods, lang)

	n := 1
	for {
		raw := r.prompt("Number of payments [1]: ")
		if isCancel(raw) {
			return errCancelled
		}
		if raw == "" {
			break
		}
		v, err := strconv.Atoi(raw)
		if err == nil && v > 0 {
			n = v
			break
		}
		fmt.Fprintln(r.out, "  Enter a positive number.")
	}

	mode := core.ModeFor(n)
	if mode == core.EntryModeAutoDerived {
		rates := e.Rates()
		fmt.Fprintf(r.out, "Format: <method-id> <amount-paid> [tax%%=%s] [service%%=%s] [reference]\n",
			rates.TaxPercent.String(), rates.ServicePercent.String())
	} else {
		fmt.Fprintln(r.out, "Format: <method-id> <amount> <tax> <service> [tip] [reference]")
	}

	for {
		inputs := make([]core.EntryInput, 0, n)
		for i := 0; i < n; i++ {
			for {
				raw := r.prompt(fmt.Sprintf("  Payment %d: ", i+1))
				if isCancel(raw) {
					return errCancelled
				}
				in, err := parseEntryRow(mode, strings.Fields(raw))
				if err != nil {
					fmt.Fprintf(r.out, "  %v\n", err)
					continue
				}
				inputs = append(inputs, in)
				break
			}
		}
		if _, err := e.SubmitEntries(inputs); err != nil {
			fmt.Fprintf(r.out, "  %v\n  Enter the payments again.\n", err)
			continue
		}
		return nil
	}
}

func (r *repl) offerReceipts(billIDs []int) {
	answer := strings.ToLower(r.prompt("Print receipts? [t]hermal / [a]4 / [n]o: "))
	var format receipt.Format
	switch answer {
	case "t", "thermal":
		format = receipt.FormatThermal
	case "a", "a4":
		format = receipt.FormatA4
	default:
		return
	}
	for _, id := range billIDs {
		if err := r.emitReceipt(id, format); err != nil {
			fmt.Fprintf(r.out, "Error: bill %d: %v\n", id, err)
		}
	}
}

// settleWizard pays an existing bill in full or by several amounts.
func (r *repl) settleWizard(billID int, mode core.SettleMode) error {
	bill, err := r.svc.GetBill(r.ctx, billID)
	if err != nil {
		return err
	}
	if bill.IsPaid() {
		fmt.Fprintf(r.out, "Bill #%d is already paid.\n", bill.ID)
		return nil
	}
	methods, err := r.svc.ListPaymentMethods(r.ctx)
	if err != nil {
		return err
	}
	printBillDetail(r.out, bill, r.opts.Currency)
	printMethods(r.out, methods)

	var entries []core.SettlementEntry
	if mode == core.SettleSingle {
		raw := r.prompt(fmt.Sprintf("Pay %s %s with <method-id> [reference]: ", bill.Total.StringFixed(2), r.opts.Currency))
		if isCancel(raw) {
			fmt.Fprintln(r.out, "Payment cancelled.")
			return nil
		}
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			return core.ErrMissingMethod
		}
		id, err := parseID(fields[0])
		if err != nil {
			return err
		}
		entry := core.SettlementEntry{Amount: bill.Total, MethodID: id}
		if len(fields) > 1 {
			entry.TransactionNumber = fields[1]
		}
		entries = append(entries, entry)
	} else {
		fmt.Fprintln(r.out, "Enter payments as <method-id> <amount> [reference]. Type 'done' when finished, 'cancel' to abort.")
		for {
			raw := r.prompt(fmt.Sprintf("  Payment %d: ", len(entries)+1))
			if isCancel(raw) {
				fmt.Fprintln(r.out, "Payment cancelled.")
				return nil
			}
			if strings.EqualFold(raw, "done") {
				break
			}
			entry, err := parseSettlementRow(strings.Fields(raw))
			if err != nil {
				fmt.Fprintf(r.out, "  %v\n", err)
				continue
			}
			entries = append(entries, entry)
		}
	}

	res, err := r.svc.SettleBill(r.ctx, app.SettleRequest{BillID: bill.ID, Mode: mode, Entries: entries})
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Bill #%d paid.\n", res.Bill.ID)
	r.offerReceipts([]int{res.Bill.ID})
	return nil
}

// parseShares reads "<item-id>[:qty]" tokens. A bare id takes the whole
// ordered quantity.
func parseShares(tokens []string, order core.Order) ([]core.ItemShare, error) {
	if len(tokens) == 0 {
		return nil, core.ErrNoItemsAssigned
	}
	ordered := make(map[int]decimal.Decimal, len(order.Items))
	for _, it := range order.Items {
		ordered[it.ID] = it.Quantity
	}
	shares := make([]core.ItemShare, 0, len(tokens))
	for _, tok := range tokens {
		idPart, qtyPart, hasQty := strings.Cut(tok, ":")
		id, err := strconv.Atoi(idPart)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q", idPart)
		}
		qty, ok := ordered[id]
		if hasQty {
			if qty, err = decimal.NewFromString(qtyPart); err != nil {
				return nil, fmt.Errorf("invalid quantity %q", qtyPart)
			}
		} else if !ok {
			qty = decimal.NewFromInt(1)
		}
		shares = append(shares, core.ItemShare{OrderItemID: id, Quantity: qty})
	}
	return shares, nil
}

// parseEntryRow reads one payment row in the given mode.
//
//	auto:   <method-id> <amount-paid> [tax%] [service%] [reference]
//	manual: <method-id> <amount> <tax> <service> [tip] [reference]
func parseEntryRow(mode core.EntryMode, fields []string) (core.EntryInput, error) {
	var in core.EntryInput
	if len(fields) == 0 {
		return in, core.ErrMissingMethod
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return in, fmt.Errorf("invalid method id %q", fields[0])
	}
	in.MethodID = id
	nums, rest := leadingDecimals(fields[1:])

	if mode == core.EntryModeAutoDerived {
		if len(nums) == 0 {
			return in, core.ErrMissingAmount
		}
		in.AmountPaid = nums[0]
		if len(nums) > 1 {
			in.TaxPercent = &nums[1]
		}
		if len(nums) > 2 {
			in.ServicePercent = &nums[2]
		}
		if len(nums) > 3 {
			return in, fmt.Errorf("too many numbers in %q", strings.Join(fields, " "))
		}
	} else {
		if len(nums) < 3 {
			return in, fmt.Errorf("expected <amount> <tax> <service>")
		}
		in.Amount, in.Tax, in.ServiceCharge = nums[0], nums[1], nums[2]
		if len(nums) > 3 {
			in.Tip = nums[3]
		}
		if len(nums) > 4 {
			return in, fmt.Errorf("too many numbers in %q", strings.Join(fields, " "))
		}
	}
	in.Reference = strings.Join(rest, " ")
	return in, nil
}

func parseSettlementRow(fields []string) (core.SettlementEntry, error) {
	var e core.SettlementEntry
	if len(fields) < 2 {
		return e, fmt.Errorf("expected <method-id> <amount> [reference]")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return e, err
	}
	amt, err := decimal.NewFromString(fields[1])
	if err != nil {
		return e, fmt.Errorf("invalid amount %q", fields[1])
	}
	e.MethodID, e.Amount = id, amt
	if len(fields) > 2 {
		e.TransactionNumber = strings.Join(fields[2:], " ")
	}
	return e, nil
}

// leadingDecimals splits fields into the numbers at the front and the rest.
func leadingDecimals(fields []string) ([]decimal.Decimal, []string) {
	var nums []decimal.Decimal
	for i, f := range fields {
		v, err := decimal.NewFromString(strings.TrimSuffix(f, "%"))
		if err != nil {
			return nums, fields[i:]
		}
		nums = append(nums, v)
	}
	return nums, nil
}
