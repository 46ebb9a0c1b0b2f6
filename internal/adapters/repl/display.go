package repl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"pos-billing/internal/app"
	"pos-billing/internal/core"
)

func printOrders(w io.Writer, dash *app.DashboardResult, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  ORDERS  (unbilled: %s %s)\n", dash.Unbilled.StringFixed(2), currency)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	if len(dash.Orders) == 0 {
		fmt.Fprintln(w, "  No orders found.")
		fmt.Fprintln(w, strings.Repeat("=", 62))
		return
	}
	types := make(map[int]string, len(dash.OrderTypes))
	for _, t := range dash.OrderTypes {
		types[t.ID] = t.Name
	}
	fmt.Fprintf(w, "  %-6s %-7s %-12s %6s %14s  %s\n", "ID", "TABLE", "TYPE", "ITEMS", "TOTAL", "BILLED")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, o := range dash.Orders {
		table := "-"
		if o.TableID != nil {
			table = strconv.Itoa(*o.TableID)
		}
		billed := "no"
		if o.Billed() {
			billed = fmt.Sprintf("yes (#%d)", *o.BillID)
		}
		fmt.Fprintf(w, "  %-6d %-7s %-12s %6d %14s  %s\n",
			o.ID, table, types[o.OrderTypeID], len(o.Items), o.Total.StringFixed(2), billed)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printBills(w io.Writer, result *app.BillListResult, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  BILLS — %s\n", strings.ToUpper(string(result.Scope)))
	fmt.Fprintln(w, strings.Repeat("=", 62))
	if len(result.Bills) == 0 {
		fmt.Fprintln(w, "  No bills found.")
		fmt.Fprintln(w, strings.Repeat("=", 62))
		return
	}
	fmt.Fprintf(w, "  %-8s %-20s %-10s %18s\n", "ID", "CREATED", "STATUS", "TOTAL ("+currency+")")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, b := range result.Bills {
		fmt.Fprintf(w, "  %-8d %-20s %-10s %18s\n", b.ID, b.CreatedAt, b.Status, b.Total.StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printBillDetail(w io.Writer, b *core.Bill, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  BILL #%d   %s   %s\n", b.ID, strings.ToUpper(b.Status), b.CreatedAt)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	for _, it := range b.Items {
		fmt.Fprintf(w, "  %-34s %6s x %14s\n", it.DisplayName(), it.Quantity.String(), it.Price.StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("-", 62))
	fmt.Fprintf(w, "  %-34s %23s\n", "TOTAL", b.Total.StringFixed(2)+" "+currency)
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printMethods(w io.Writer, result *app.MethodListResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-6s %-24s %s\n", "ID", "METHOD", "ONLINE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 40))
	for _, m := range result.Methods {
		online := ""
		if m.Online {
			online = "yes"
		}
		fmt.Fprintf(w, "  %-6d %-24s %s\n", m.ID, m.Name, online)
	}
}

func printMethodChoices(w io.Writer, c *core.MethodCatalog, lang string) {
	parts := make([]string, 0, len(c.All()))
	for _, m := range c.All() {
		label := fmt.Sprintf("%d=%s", m.ID, m.DisplayName(lang))
		if c.IsOnline(m.ID) {
			label += " (online)"
		}
		parts = append(parts, label)
	}
	fmt.Fprintf(w, "Methods: %s\n", strings.Join(parts, ", "))
}

func printSelection(w io.Writer, sel *app.SelectionResult) {
	if len(sel.OrderIDs) == 0 {
		fmt.Fprintln(w, "No orders selected.")
	} else {
		fmt.Fprintf(w, "Selected orders: %s\n", joinIDs(sel.OrderIDs))
	}
	if sel.CheckoutBillID != 0 {
		fmt.Fprintf(w, "Awaiting online payment for bill #%d (%d payment(s) not yet submitted).\n",
			sel.CheckoutBillID, len(sel.Pending))
	}
}

func printSplitOrders(w io.Writer, split *app.SplitSession, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w, "  BILLING")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	for _, o := range split.Orders {
		fmt.Fprintf(w, "  Order #%-6d %4d item(s) %26s\n", o.ID, len(o.Items), o.Total.StringFixed(2)+" "+currency)
	}
	fmt.Fprintln(w, strings.Repeat("-", 62))
	fmt.Fprintf(w, "  %-40s %19s\n", "TOTAL", split.Engine.OrderTotal().StringFixed(2)+" "+currency)
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printOrderItems(w io.Writer, o core.Order, currency string) {
	fmt.Fprintf(w, "  %-6s %-28s %6s %18s\n", "ITEM", "NAME", "QTY", "UNIT ("+currency+")")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
	for _, it := range o.Items {
		name := it.Name
		if name == "" {
			name = fmt.Sprintf("menu item %d", it.MenuItemID)
		}
		fmt.Fprintf(w, "  %-6d %-28s %6s %18s\n", it.ID, name, it.Quantity.String(), it.EffectiveUnitPrice().StringFixed(2))
	}
}

func printPayloads(w io.Writer, payloads []core.FinalizedPayload, c *core.MethodCatalog, lang, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-3s %-16s %10s %8s %8s %8s %12s\n", "#", "METHOD", "AMOUNT", "TAX", "SERVICE", "TIP", "CHARGE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 70))
	for i, p := range payloads {
		fmt.Fprintf(w, "  %-3d %-16s %10s %8s %8s %8s %12s\n", i+1, c.Name(p.PaymentMethodID, lang),
			p.Amount.StringFixed(2), p.Tax.StringFixed(2), p.ServiceCharge.StringFixed(2),
			p.Tips.StringFixed(2), p.TotalCost().StringFixed(2))
		if len(p.ItemIDs) > 0 {
			fmt.Fprintf(w, "      items: %s\n", joinIDs(p.ItemIDs))
		}
	}
	fmt.Fprintf(w, "  (%s)\n", currency)
}

func printFinalize(w io.Writer, out *app.FinalizeOutcome) {
	fmt.Fprintf(w, "Bills created: %s\n", joinIDs(out.CreatedBillIDs))
	if len(out.Completed) > 0 {
		fmt.Fprintf(w, "Paid: %s\n", joinIDs(out.Completed))
	}
	if out.Redirect != nil {
		fmt.Fprintf(w, "\nBill #%d needs an online payment. Open:\n  %s\n", out.Redirect.BillID, out.Redirect.URL)
		if len(out.Pending) > 0 {
			fmt.Fprintf(w, "%d payment(s) were not submitted and are kept with this till.\n", len(out.Pending))
		}
		fmt.Fprintln(w, "After paying, run /verify <session-id>. Receipts can be printed once the payment is confirmed.")
	}
}

func printReturn(w io.Writer, res *app.ReturnResult) {
	if res.Succeeded() {
		fmt.Fprintf(w, "Payment successful")
	} else {
		fmt.Fprintf(w, "Payment failed: %s", res.Message)
	}
	if res.BillID != 0 {
		fmt.Fprintf(w, " (bill #%d)", res.BillID)
	}
	fmt.Fprintln(w)
	if len(res.Receipts) > 0 {
		fmt.Fprintf(w, "Receipts ready for %s. Use /receipt <bill-id>.\n", joinIDs(res.Receipts))
	}
	if len(res.Pending) > 0 {
		fmt.Fprintf(w, "%d payment(s) were never submitted. Select the orders again to bill them.\n", len(res.Pending))
	}
}

func contextLabel(c core.EntryContext) string {
	switch c {
	case core.ContextItemsFirst:
		return "Selected items"
	case core.ContextItemsRemaining:
		return "Remaining items"
	}
	return "Full order"
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "POS BILLING — COMMANDS")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  LOOKUP")
	fmt.Fprintln(w, "  /orders                          Orders with billed status")
	fmt.Fprintln(w, "  /bills [today|all]               Bills (default: today)")
	fmt.Fprintln(w, "  /show <bill-id>                  Bill detail")
	fmt.Fprintln(w, "  /methods                         Payment methods")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  BILLING")
	fmt.Fprintln(w, "  /select <order-id> ...           Select orders to bill (no args: show selection)")
	fmt.Fprintln(w, "  /bill                            Split and finalize the selection (interactive)")
	fmt.Fprintln(w, "  /pay <bill-id> [multiple]        Pay an existing bill")
	fmt.Fprintln(w, "  /verify <session-id>             Confirm an online payment")
	fmt.Fprintln(w, "  /receipt <bill-id> [thermal|a4]  Print the receipt of a paid bill")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  SESSION")
	fmt.Fprintln(w, "  /whoami                          Current operator")
	fmt.Fprintln(w, "  /help                            Show this help")
	fmt.Fprintln(w, "  /exit                            Exit")
	fmt.Fprintln(w, strings.Repeat("=", 62))
}
