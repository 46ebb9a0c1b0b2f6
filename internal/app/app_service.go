package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"pos-billing/internal/auth"
	"pos-billing/internal/core"
	"pos-billing/internal/metrics"
	"pos-billing/internal/receipt"
	"pos-billing/internal/session"
)

// Options holds the workflow settings that come from configuration.
type Options struct {
	Rates      core.Rates
	OnlineRule core.OnlineRule
	Lang       string
	// SettlementTTL bounds how long the tenders of a settled bill are kept
	// for its receipt. Zero means session.DefaultTTL.
	SettlementTTL time.Duration
	Logger        *slog.Logger
}

type appService struct {
	backend core.Backend
	store   session.Store
	emitter *receipt.Emitter
	users   *auth.Resolver
	metrics *metrics.Metrics
	opts    Options
	logger  *slog.Logger

	mu      sync.Mutex
	catalog *core.MethodCatalog
	settled *settlementBook
}

// NewAppService constructs an appService that satisfies ApplicationService.
// metrics may be nil.
func NewAppService(
	backend core.Backend,
	store session.Store,
	emitter *receipt.Emitter,
	users *auth.Resolver,
	m *metrics.Metrics,
	opts Options,
) ApplicationService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rates.TaxPercent.IsZero() && opts.Rates.ServicePercent.IsZero() {
		opts.Rates = core.DefaultRates()
	}
	if opts.SettlementTTL <= 0 {
		opts.SettlementTTL = session.DefaultTTL
	}
	return &appService{
		backend: backend,
		store:   store,
		emitter: emitter,
		users:   users,
		metrics: m,
		opts:    opts,
		logger:  opts.Logger,
		settled: newSettlementBook(opts.SettlementTTL),
	}
}

// ── Dashboard ───────────────────────────────────────────────────────────────

func (s *appService) LoadDashboard(ctx context.Context) (*DashboardResult, error) {
	var (
		res     DashboardResult
		methods []core.PaymentMethod
	)
	g, gctx := errgroup.WithContext(ctx)
	fetchInto(g, gctx, "orders", &res.Orders, s.backend.ListOrders)
	fetchInto(g, gctx, "bills", &res.TodayBills, s.backend.ListTodayBills)
	fetchInto(g, gctx, "payment methods", &methods, s.backend.ListPaymentMethods)
	fetchInto(g, gctx, "menu items", &res.MenuItems, s.backend.ListMenuItems)
	fetchInto(g, gctx, "menu categories", &res.Categories, s.backend.ListMenuCategories)
	fetchInto(g, gctx, "order types", &res.OrderTypes, s.backend.ListOrderTypes)
	fetchInto(g, gctx, "order statuses", &res.Statuses, s.backend.ListOrderStatuses)
	fetchInto(g, gctx, "customers", &res.Customers, s.backend.ListCustomers)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	catalog := s.setCatalog(methods)
	res.Methods = s.methodViews(catalog)

	var unbilled, revenue []decimal.Decimal
	for _, o := range res.Orders {
		if !o.Billed() {
			unbilled = append(unbilled, o.Total)
		}
	}
	for _, b := range res.TodayBills {
		if b.IsPaid() {
			revenue = append(revenue, b.Total)
		}
	}
	res.Unbilled = core.Sum(unbilled...)
	res.TodayRevenue = core.Sum(revenue...)
	return &res, nil
}

func (s *appService) ListPaymentMethods(ctx context.Context) (*MethodListResult, error) {
	methods, err := s.backend.ListPaymentMethods(ctx)
	if err != nil {
		return nil, &core.FetchError{Resource: "payment methods", Err: err}
	}
	return &MethodListResult{Methods: s.methodViews(s.setCatalog(methods))}, nil
}

func (s *appService) ListBills(ctx context.Context, scope BillScope) (*BillListResult, error) {
	var (
		bills []core.Bill
		err   error
	)
	if scope == BillScopeAll {
		bills, err = s.backend.ListBills(ctx)
	} else {
		scope = BillScopeToday
		bills, err = s.backend.ListTodayBills(ctx)
	}
	if err != nil {
		return nil, &core.FetchError{Resource: "bills", Err: err}
	}
	return &BillListResult{Scope: scope, Bills: bills}, nil
}

func (s *appService) GetBill(ctx context.Context, id int) (*core.Bill, error) {
	b, err := s.backend.GetBill(ctx, id)
	if err != nil {
		return nil, &core.FetchError{Resource: "bill", ID: id, Err: err}
	}
	return b, nil
}

// ── Selection ───────────────────────────────────────────────────────────────

func (s *appService) SelectOrders(ctx context.Context, key string, orderIDs []int) (*SelectionResult, error) {
	ids := make([]int, 0, len(orderIDs))
	for _, id := range orderIDs {
		if id > 0 && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, core.ErrNoOrdersSelected
	}
	// A new selection abandons whatever checkout was pending.
	if err := s.store.Save(ctx, key, &session.Workflow{SelectedOrderIDs: ids}); err != nil {
		return nil, err
	}
	return &SelectionResult{OrderIDs: ids}, nil
}

func (s *appService) SelectedOrders(ctx context.Context, key string) (*SelectionResult, error) {
	w, err := s.store.Load(ctx, key)
	if errors.Is(err, session.ErrNotFound) {
		return &SelectionResult{OrderIDs: []int{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SelectionResult{OrderIDs: w.SelectedOrderIDs, Pending: w.Pending, CheckoutBillID: w.CheckoutBillID}, nil
}

func (s *appService) StartSplit(ctx context.Context, key string) (*SplitSession, error) {
	sel, err := s.SelectedOrders(ctx, key)
	if err != nil {
		return nil, err
	}
	orders, err := s.fetchUnbilled(ctx, sel.OrderIDs)
	if err != nil {
		return nil, err
	}
	catalog, err := s.methods(ctx)
	if err != nil {
		return nil, err
	}
	engine, err := core.NewSplitEngine(orders, catalog, s.opts.Rates)
	if err != nil {
		return nil, err
	}
	return &SplitSession{Engine: engine, Orders: orders, Methods: catalog, Lang: s.opts.Lang}, nil
}

// ── Finalize & return ───────────────────────────────────────────────────────

func (s *appService) Finalize(ctx context.Context, key string, payloads []core.FinalizedPayload) (*FinalizeOutcome, error) {
	w, err := s.store.Load(ctx, key)
	if errors.Is(err, session.ErrNotFound) {
		return nil, core.ErrNoOrdersSelected
	}
	if err != nil {
		return nil, err
	}
	orders, err := s.fetchUnbilled(ctx, w.SelectedOrderIDs)
	if err != nil {
		return nil, err
	}
	catalog, err := s.methods(ctx)
	if err != nil {
		return nil, err
	}
	// Payloads may come from a client rather than a split engine; nothing
	// reaches the backend unless they reconcile with the selected orders.
	if err := core.ReconcilePayloads(orders, payloads, catalog); err != nil {
		s.logger.Info("finalize rejected", "key", key, "error", err)
		return nil, err
	}

	// Bills already created stay created; a disconnecting client must not
	// stop the run halfway.
	ctx = context.WithoutCancel(ctx)
	res, err := core.NewFinalizer(s.backend, catalog, s.logger).Finalize(ctx, payloads)
	s.metrics.ObserveFinalize(res, err)
	if err != nil {
		return nil, err
	}

	lines := core.PaymentLinesFromPayloads(payloads, catalog, s.opts.Lang)
	billLines := make(map[int][]core.PaymentLine, len(res.CreatedBillIDs))
	for i, id := range res.CreatedBillIDs {
		billLines[id] = []core.PaymentLine{lines[i]}
	}

	out := &FinalizeOutcome{FinalizeResult: res, Receipts: []int{}}
	if res.Done() {
		for _, id := range res.Completed {
			s.settled.record(id, billLines[id])
			out.Receipts = append(out.Receipts, id)
		}
		if err := s.store.Clear(ctx, key); err != nil {
			s.logger.Warn("clear workflow after finalize", "key", key, "error", err)
		}
		return out, nil
	}

	// Receipts of this run wait for the checkout to be confirmed.
	next := &session.Workflow{
		SelectedOrderIDs: w.SelectedOrderIDs,
		Pending:          res.Pending,
		CheckoutBillID:   res.Redirect.BillID,
	}
	for _, id := range res.CreatedBillIDs {
		s.settled.hold(id, billLines[id])
		next.Awaiting = append(next.Awaiting, session.AwaitingBill{BillID: id, Lines: billLines[id]})
	}
	if err := s.store.Save(ctx, key, next); err != nil {
		// The checkout URL is still valid; only the pending list is lost.
		s.logger.Error("save pending workflow", "key", key, "bill_id", res.Redirect.BillID, "error", err)
	}
	return out, nil
}

func (s *appService) HandlePaymentReturn(ctx context.Context, key, sessionID string) *ReturnResult {
	out := core.NewReturnHandler(s.backend, s.logger).HandleReturn(ctx, sessionID)
	s.metrics.ObserveReturn(out)

	res := &ReturnResult{ReturnOutcome: out}
	w, err := s.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			s.logger.Warn("load workflow on payment return", "key", key, "error", err)
		}
		return res
	}
	res.BillID, res.Pending = w.CheckoutBillID, w.Pending

	if out.Succeeded() {
		for _, a := range w.Awaiting {
			s.settled.record(a.BillID, a.Lines)
			res.Receipts = append(res.Receipts, a.BillID)
		}
	}
	if len(w.Pending) > 0 {
		s.logger.Warn("payloads left unsubmitted after checkout", "key", key, "count", len(w.Pending))
	}
	if err := s.store.Clear(ctx, key); err != nil {
		s.logger.Warn("clear workflow after payment return", "key", key, "error", err)
	}
	return res
}

// ── Settlement & receipts ───────────────────────────────────────────────────

func (s *appService) SettleBill(ctx context.Context, req SettleRequest) (*SettleResult, error) {
	bill, err := s.GetBill(ctx, req.BillID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.methods(ctx)
	if err != nil {
		return nil, err
	}
	entries := req.Entries
	if len(entries) == 0 {
		entries = core.DefaultSettlementEntries(*bill, req.Mode, catalog)
	}
	lines, err := core.NewSettler(s.backend, catalog, s.logger).Settle(ctx, *bill, entries, req.Mode, s.opts.Lang)
	s.metrics.ObserveSettle(err)
	if err != nil {
		return nil, err
	}

	s.settled.record(bill.ID, lines)
	return &SettleResult{Bill: *bill, Lines: lines}, nil
}

func (s *appService) EmitReceipt(ctx context.Context, req ReceiptRequest) (*receipt.Emission, error) {
	bill, err := s.GetBill(ctx, req.BillID)
	if err != nil {
		return nil, err
	}
	st, ok := s.settled.lookup(bill.ID)
	switch {
	case ok && st.held:
		return nil, fmt.Errorf("bill %d awaits checkout: %w", bill.ID, core.ErrNotSettled)
	case !ok && !bill.IsPaid():
		return nil, fmt.Errorf("bill %d: %w", bill.ID, core.ErrNotSettled)
	case !ok:
		st.lines = []core.PaymentLine{{MethodName: "Paid", Amount: bill.Total}}
	}
	return s.emitter.Emit(ctx, *bill, st.lines, req.Format)
}

func (s *appService) CurrentUser(ctx context.Context) (*core.User, error) {
	if s.users == nil {
		return s.backend.Me(ctx)
	}
	return s.users.Current(ctx)
}

// ── helpers ─────────────────────────────────────────────────────────────────

// fetchInto runs list on g and stores its result in dst.
func fetchInto[T any](g *errgroup.Group, ctx context.Context, resource string, dst *[]T, list func(context.Context) ([]T, error)) {
	g.Go(func() error {
		v, err := list(ctx)
		if err != nil {
			return &core.FetchError{Resource: resource, Err: err}
		}
		*dst = v
		return nil
	})
}

// fetchUnbilled fetches the selected orders and refuses any that already
// has a bill.
func (s *appService) fetchUnbilled(ctx context.Context, ids []int) ([]core.Order, error) {
	orders, err := core.NewOrderFetcher(s.backend).FetchOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Billed() {
			return nil, fmt.Errorf("order %d: %w", o.ID, core.ErrOrderBilled)
		}
	}
	return orders, nil
}

// methods returns the cached catalog, loading it on first use.
func (s *appService) methods(ctx context.Context) (*core.MethodCatalog, error) {
	s.mu.Lock()
	c := s.catalog
	s.mu.Unlock()
	if c != nil {
		return c, nil
	}
	methods, err := s.backend.ListPaymentMethods(ctx)
	if err != nil {
		return nil, &core.FetchError{Resource: "payment methods", Err: err}
	}
	return s.setCatalog(methods), nil
}

func (s *appService) setCatalog(methods []core.PaymentMethod) *core.MethodCatalog {
	c := core.NewMethodCatalog(methods, s.opts.OnlineRule)
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	return c
}

func (s *appService) methodViews(c *core.MethodCatalog) []MethodView {
	all := c.All()
	views := make([]MethodView, len(all))
	for i, m := range all {
		views[i] = MethodView{ID: m.ID, Name: m.DisplayName(s.opts.Lang), Online: c.IsOnline(m.ID)}
	}
	return views
}
