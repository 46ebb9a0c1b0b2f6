package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	ucli "github.com/urfave/cli/v2"

	"pos-billing/internal/adapters/repl"
	"pos-billing/internal/app"
	"pos-billing/internal/core"
	"pos-billing/internal/receipt"
)

// Env is what the commands run against. Setup builds it once per process.
type Env struct {
	Svc        app.ApplicationService
	Key        string
	Restaurant string
	Currency   string
	In         io.Reader
	Out        io.Writer
	Close      func()
}

// Setup builds the Env after flags are parsed.
type Setup func(c *ucli.Context) (*Env, error)

// NewApp returns the command tree. Without a subcommand the app starts the
// interactive REPL.
func NewApp(setup Setup) *ucli.App {
	var env *Env
	with := func(fn func(c *ucli.Context, env *Env) error) ucli.ActionFunc {
		return func(c *ucli.Context) error { return fn(c, env) }
	}

	return &ucli.App{
		Name:  "pos",
		Usage: "split, finalize and settle restaurant bills",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "key", Usage: "workflow key of this till (default: SESSION_KEY)"},
		},
		Before: func(c *ucli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			if k := c.String("key"); k != "" {
				e.Key = k
			}
			env = e
			return nil
		},
		After: func(*ucli.Context) error {
			if env != nil && env.Close != nil {
				env.Close()
			}
			return nil
		},
		Action: with(func(c *ucli.Context, env *Env) error {
			repl.Run(c.Context, env.Svc, bufio.NewReader(env.In), env.Out, repl.Options{
				Key:        env.Key,
				Restaurant: env.Restaurant,
				Currency:   env.Currency,
			})
			return nil
		}),
		Commands: []*ucli.Command{
			{
				Name:      "bills",
				Usage:     "list bills",
				ArgsUsage: "[today|all]",
				Action: with(func(c *ucli.Context, env *Env) error {
					result, err := env.Svc.ListBills(c.Context, app.ParseBillScope(strings.ToLower(c.Args().First())))
					if err != nil {
						return err
					}
					return printJSON(env.Out, result)
				}),
			},
			{
				Name:      "show",
				Usage:     "show one bill",
				ArgsUsage: "<bill-id>",
				Action: with(func(c *ucli.Context, env *Env) error {
					id, err := argID(c, "show <bill-id>")
					if err != nil {
						return err
					}
					bill, err := env.Svc.GetBill(c.Context, id)
					if err != nil {
						return err
					}
					return printJSON(env.Out, bill)
				}),
			},
			{
				Name:  "methods",
				Usage: "list payment methods",
				Action: with(func(c *ucli.Context, env *Env) error {
					result, err := env.Svc.ListPaymentMethods(c.Context)
					if err != nil {
						return err
					}
					return printJSON(env.Out, result)
				}),
			},
			{
				Name:      "select",
				Usage:     "select orders to bill",
				ArgsUsage: "<order-id>...",
				Action: with(func(c *ucli.Context, env *Env) error {
					if c.NArg() == 0 {
						sel, err := env.Svc.SelectedOrders(c.Context, env.Key)
						if err != nil {
							return err
						}
						return printJSON(env.Out, sel)
					}
					ids := make([]int, 0, c.NArg())
					for _, a := range c.Args().Slice() {
						id, err := strconv.Atoi(strings.TrimPrefix(a, "#"))
						if err != nil {
							return fmt.Errorf("invalid order id %q", a)
						}
						ids = append(ids, id)
					}
					sel, err := env.Svc.SelectOrders(c.Context, env.Key, ids)
					if err != nil {
						return err
					}
					return printJSON(env.Out, sel)
				}),
			},
			{
				Name:  "finalize",
				Usage: "submit bill payloads read as a JSON array from stdin",
				Action: with(func(c *ucli.Context, env *Env) error {
					var payloads []core.FinalizedPayload
					if err := json.NewDecoder(env.In).Decode(&payloads); err != nil {
						return fmt.Errorf("invalid JSON: %w", err)
					}
					out, err := env.Svc.Finalize(c.Context, env.Key, payloads)
					if err != nil {
						var fe *core.FinalizeError
						if errors.As(err, &fe) {
							_ = printJSON(env.Out, map[string]any{"error": err.Error(), "created_bill_ids": fe.CreatedBillIDs})
						}
						return err
					}
					return printJSON(env.Out, out)
				}),
			},
			{
				Name:      "verify",
				Usage:     "confirm an online checkout session",
				ArgsUsage: "<session-id>",
				Action: with(func(c *ucli.Context, env *Env) error {
					res := env.Svc.HandlePaymentReturn(c.Context, env.Key, c.Args().First())
					if err := printJSON(env.Out, res); err != nil {
						return err
					}
					if !res.Succeeded() {
						return ucli.Exit(res.Message, 1)
					}
					return nil
				}),
			},
			{
				Name:      "pay",
				Usage:     "pay an existing bill",
				ArgsUsage: "<bill-id>",
				Flags: []ucli.Flag{
					&ucli.IntFlag{Name: "method", Usage: "payment method id for a single full payment"},
					&ucli.StringFlag{Name: "ref", Usage: "transaction number"},
					&ucli.StringSliceFlag{Name: "entry", Usage: "<method-id>:<amount>[:ref], repeat for several payments"},
				},
				Action: with(func(c *ucli.Context, env *Env) error {
					id, err := argID(c, "pay <bill-id>")
					if err != nil {
						return err
					}
					req := app.SettleRequest{BillID: id, Mode: core.SettleSingle}
					if raw := c.StringSlice("entry"); len(raw) > 0 {
						req.Mode = core.SettleMultiple
						for _, r := range raw {
							e, err := parseEntryFlag(r)
							if err != nil {
								return err
							}
							req.Entries = append(req.Entries, e)
						}
					} else if m := c.Int("method"); m != 0 {
						bill, err := env.Svc.GetBill(c.Context, id)
						if err != nil {
							return err
						}
						req.Entries = []core.SettlementEntry{{Amount: bill.Total, MethodID: m, TransactionNumber: c.String("ref")}}
					}
					res, err := env.Svc.SettleBill(c.Context, req)
					if err != nil {
						return err
					}
					return printJSON(env.Out, res)
				}),
			},
			{
				Name:      "receipt",
				Usage:     "render the receipt of a paid bill",
				ArgsUsage: "<bill-id>",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "format", Value: string(receipt.FormatThermal), Usage: "thermal or a4"},
				},
				Action: with(func(c *ucli.Context, env *Env) error {
					id, err := argID(c, "receipt <bill-id>")
					if err != nil {
						return err
					}
					format, err := receipt.ParseFormat(c.String("format"))
					if err != nil {
						return err
					}
					em, err := env.Svc.EmitReceipt(c.Context, app.ReceiptRequest{BillID: id, Format: format})
					if err != nil {
						return err
					}
					return printJSON(env.Out, em)
				}),
			},
			{
				Name:  "whoami",
				Usage: "show the operator behind the API token",
				Action: with(func(c *ucli.Context, env *Env) error {
					u, err := env.Svc.CurrentUser(c.Context)
					if err != nil {
						return err
					}
					return printJSON(env.Out, u)
				}),
			},
		},
	}
}

func argID(c *ucli.Context, usage string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(c.Args().First(), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("usage: pos %s", usage)
	}
	return id, nil
}

func parseEntryFlag(s string) (core.SettlementEntry, error) {
	var e core.SettlementEntry
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return e, fmt.Errorf("invalid entry %q: want <method-id>:<amount>[:ref]", s)
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return e, fmt.Errorf("invalid entry %q: bad method id", s)
	}
	amt, err := decimal.NewFromString(parts[1])
	if err != nil {
		return e, fmt.Errorf("invalid entry %q: bad amount", s)
	}
	e.MethodID, e.Amount = id, amt
	if len(parts) == 3 {
		e.TransactionNumber = parts[2]
	}
	return e, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
