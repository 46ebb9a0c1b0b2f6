package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pos-billing/internal/app"
	"pos-billing/internal/core"
	"pos-billing/internal/receipt"
)

// Options configures the terminal session.
type Options struct {
	// Key names this till's workflow in the session store.
	Key        string
	Restaurant string
	Currency   string
}

type repl struct {
	ctx  context.Context
	svc  app.ApplicationService
	in   *bufio.Reader
	out  io.Writer
	opts Options
}

var errExit = errors.New("exit")

// Run starts the interactive REPL loop. It reads slash commands from reader
// and writes everything to out.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer, opts Options) {
	r := &repl{ctx: ctx, svc: svc, in: reader, out: out, opts: opts}

	fmt.Fprintln(out, "POS Billing")
	fmt.Fprintf(out, "Restaurant: %s (%s)\n", opts.Restaurant, opts.Currency)
	if u, err := svc.CurrentUser(ctx); err == nil {
		fmt.Fprintf(out, "Operator: %s (%s)\n", u.Name, u.Role)
	}
	if sel, err := svc.SelectedOrders(ctx, opts.Key); err == nil && sel.CheckoutBillID != 0 {
		fmt.Fprintf(out, "Bill #%d is waiting for its online payment. Use /verify <session-id>.\n", sel.CheckoutBillID)
	}
	fmt.Fprintln(out, "Use /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}
		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(out, "Commands start with '/'. Type /help for the list.")
			continue
		}
		if err := r.dispatch(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func (r *repl) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	ctx := r.ctx

	switch cmd {
	case "orders":
		dash, err := r.svc.LoadDashboard(ctx)
		if err != nil {
			return err
		}
		printOrders(r.out, dash, r.opts.Currency)

	case "bills":
		scope := app.BillScopeToday
		if len(args) > 0 {
			scope = app.ParseBillScope(strings.ToLower(args[0]))
		}
		result, err := r.svc.ListBills(ctx, scope)
		if err != nil {
			return err
		}
		printBills(r.out, result, r.opts.Currency)

	case "show":
		if len(args) < 1 {
			fmt.Fprintln(r.out, "Usage: /show <bill-id>")
			return nil
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		bill, err := r.svc.GetBill(ctx, id)
		if err != nil {
			return err
		}
		printBillDetail(r.out, bill, r.opts.Currency)

	case "methods":
		result, err := r.svc.ListPaymentMethods(ctx)
		if err != nil {
			return err
		}
		printMethods(r.out, result)

	case "select":
		if len(args) == 0 {
			sel, err := r.svc.SelectedOrders(ctx, r.opts.Key)
			if err != nil {
				return err
			}
			printSelection(r.out, sel)
			return nil
		}
		ids := make([]int, 0, len(args))
		for _, a := range args {
			id, err := parseID(a)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		sel, err := r.svc.SelectOrders(ctx, r.opts.Key, ids)
		if err != nil {
			return err
		}
		printSelection(r.out, sel)
		fmt.Fprintln(r.out, "Use /bill to split and finalize.")

	case "bill":
		return r.splitWizard()

	case "pay":
		if len(args) < 1 {
			fmt.Fprintln(r.out, "Usage: /pay <bill-id> [multiple]")
			return nil
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		mode := core.SettleSingle
		if len(args) > 1 {
			mode = core.ParseSettleMode(strings.ToLower(args[1]))
		}
		return r.settleWizard(id, mode)

	case "receipt":
		if len(args) < 1 {
			fmt.Fprintln(r.out, "Usage: /receipt <bill-id> [thermal|a4]")
			return nil
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		format := receipt.FormatThermal
		if len(args) > 1 {
			if format, err = receipt.ParseFormat(args[1]); err != nil {
				return err
			}
		}
		return r.emitReceipt(id, format)

	case "verify":
		if len(args) < 1 {
			fmt.Fprintln(r.out, "Usage: /verify <session-id>")
			return nil
		}
		printReturn(r.out, r.svc.HandlePaymentReturn(ctx, r.opts.Key, args[0]))

	case "whoami":
		u, err := r.svc.CurrentUser(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s (id %d, role %s)\n", u.Name, u.ID, u.Role)

	case "help", "h":
		printHelp(r.out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(r.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

func (r *repl) emitReceipt(billID int, format receipt.Format) error {
	em, err := r.svc.EmitReceipt(r.ctx, app.ReceiptRequest{BillID: billID, Format: format})
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Receipt saved: %s (%s, %d bytes)\n", em.Location, em.Format, em.Size)
	return nil
}

// prompt prints label and returns the trimmed answer. End of input reads
// as "cancel".
func (r *repl) prompt(label string) string {
	fmt.Fprint(r.out, label)
	s, err := r.in.ReadString('\n')
	s = strings.TrimSpace(s)
	if err != nil && s == "" {
		return "cancel"
	}
	return s
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
