package app

import (
	"context"

	"pos-billing/internal/core"
	"pos-billing/internal/receipt"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from the billing workflow. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
//
// Workflow methods take a key naming the till or browser session whose
// selection and pending checkout they act on.
type ApplicationService interface {
	// LoadDashboard joins orders, today's bills, payment methods and the lookup
	// tables in one concurrent fetch. Any failure fails the whole load.
	LoadDashboard(ctx context.Context) (*DashboardResult, error)

	// ListPaymentMethods refreshes and returns the payment method catalog.
	ListPaymentMethods(ctx context.Context) (*MethodListResult, error)

	// ListBills returns today's bills or all bills.
	ListBills(ctx context.Context, scope BillScope) (*BillListResult, error)

	// GetBill returns a single bill.
	GetBill(ctx context.Context, id int) (*core.Bill, error)

	// SelectOrders replaces the selection for key. Duplicate ids are dropped.
	SelectOrders(ctx context.Context, key string, orderIDs []int) (*SelectionResult, error)

	// SelectedOrders returns the selection and any pending checkout for key.
	SelectedOrders(ctx context.Context, key string) (*SelectionResult, error)

	// StartSplit fetches the selected orders and returns a split engine in
	// its initial state.
	StartSplit(ctx context.Context, key string) (*SplitSession, error)

	// Finalize reconciles the payloads with the orders selected under key,
	// then submits them. It is not cancellable once submission starts.
	// An online method halts the run; the remaining payloads and the run's
	// receipts are held under key until the payment return is handled.
	Finalize(ctx context.Context, key string, payloads []core.FinalizedPayload) (*FinalizeOutcome, error)

	// HandlePaymentReturn verifies the checkout session the processor
	// redirected back with and clears the workflow under key.
	HandlePaymentReturn(ctx context.Context, key, sessionID string) *ReturnResult

	// SettleBill pays an existing bill with one or more tenders.
	SettleBill(ctx context.Context, req SettleRequest) (*SettleResult, error)

	// EmitReceipt renders and stores the receipt of a settled bill.
	// Returns core.ErrNotSettled for bills that are not fully paid.
	EmitReceipt(ctx context.Context, req ReceiptRequest) (*receipt.Emission, error)

	// CurrentUser returns the operator the API token belongs to.
	CurrentUser(ctx context.Context) (*core.User, error)
}
