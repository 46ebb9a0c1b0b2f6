package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pos-billing/internal/app"
	"pos-billing/internal/core"
	"pos-billing/internal/mocks"
	"pos-billing/internal/receipt"
	"pos-billing/internal/session"
)

type stubService struct {
	app.ApplicationService

	keys      []string
	selection map[string][]int
	finalized []core.FinalizedPayload
	finalErr  error
	settled   *app.SettleRequest
	dashErr   error
}

func newStub() *stubService {
	return &stubService{selection: map[string][]int{}}
}

func (s *stubService) LoadDashboard(context.Context) (*app.DashboardResult, error) {
	if s.dashErr != nil {
		return nil, s.dashErr
	}
	return &app.DashboardResult{Orders: []core.Order{{ID: 1, Total: decimal.NewFromInt(100)}}}, nil
}

func (s *stubService) SelectOrders(_ context.Context, key string, ids []int) (*app.SelectionResult, error) {
	s.keys = append(s.keys, key)
	s.selection[key] = ids
	return &app.SelectionResult{OrderIDs: ids}, nil
}

func (s *stubService) SelectedOrders(_ context.Context, key string) (*app.SelectionResult, error) {
	s.keys = append(s.keys, key)
	return &app.SelectionResult{OrderIDs: s.selection[key]}, nil
}

func (s *stubService) Finalize(_ context.Context, key string, payloads []core.FinalizedPayload) (*app.FinalizeOutcome, error) {
	s.keys = append(s.keys, key)
	s.finalized = payloads
	if s.finalErr != nil {
		return nil, s.finalErr
	}
	return &app.FinalizeOutcome{
		FinalizeResult: &core.FinalizeResult{
			CreatedBillIDs: []int{100},
			Redirect:       &core.Redirect{BillID: 100, URL: "https://checkout.example/pay/100"},
		},
	}, nil
}

func (s *stubService) HandlePaymentReturn(_ context.Context, key, sessionID string) *app.ReturnResult {
	s.keys = append(s.keys, key)
	out := core.ReturnOutcome{Status: core.ReturnFailed, Message: "missing session id", Next: core.BillingStartPath}
	if sessionID == "cs_paid" {
		out = core.ReturnOutcome{Status: core.ReturnSucceeded, Message: "payment successful", SessionID: sessionID, Next: core.BillingStartPath}
	}
	return &app.ReturnResult{ReturnOutcome: out, BillID: 100}
}

func (s *stubService) GetBill(_ context.Context, id int) (*core.Bill, error) {
	if id == 404 {
		return nil, &core.FetchError{Resource: "bill", ID: id, Err: core.ErrBillNotFound}
	}
	return &core.Bill{ID: id, Total: decimal.NewFromInt(80), Status: "unpaid"}, nil
}

func (s *stubService) SettleBill(_ context.Context, req app.SettleRequest) (*app.SettleResult, error) {
	s.settled = &req
	return &app.SettleResult{Bill: core.Bill{ID: req.BillID, Status: "paid"}}, nil
}

func (s *stubService) EmitReceipt(_ context.Context, req app.ReceiptRequest) (*receipt.Emission, error) {
	if req.BillID == 55 {
		return nil, fmt.Errorf("bill 55: %w", core.ErrNotSettled)
	}
	return &receipt.Emission{Location: "receipts/bill-56.pdf", Format: req.Format, Size: 900, Next: receipt.BillsPath}, nil
}

func (s *stubService) CurrentUser(context.Context) (*core.User, error) {
	return &core.User{ID: 3, Name: "Mona", Role: "cashier"}, nil
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestHandler(svc app.ApplicationService) http.Handler {
	return NewHandler(svc, Options{
		Logger:  quietLogger(),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pos_billing_bills_created_total 0\n")) }),
	})
}

func do(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestHandler(newStub())

	rec := do(h, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pos_billing_bills_created_total")
}

func TestStripeReturn_BrowserRedirectsWithFlash(t *testing.T) {
	svc := newStub()
	h := newTestHandler(svc)

	rec := do(h, http.MethodGet, "/billing/stripe-return?session_id=cs_paid", "", map[string]string{sessionHeader: "till-1"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, core.BillingStartPath, rec.Header().Get("Location"))
	assert.Equal(t, []string{"till-1"}, svc.keys)

	var flashValue string
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie {
			flashValue = c.Value
		}
	}
	require.NotEmpty(t, flashValue)

	// The start page shows the flash once and clears it.
	req := httptest.NewRequest(http.MethodGet, "/billing/start", nil)
	req.Header.Set(sessionHeader, "till-1")
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: flashValue})
	start := httptest.NewRecorder()
	h.ServeHTTP(start, req)
	require.Equal(t, http.StatusOK, start.Code)
	body := decode(t, start)
	assert.Equal(t, map[string]any{"kind": "success", "message": "payment successful"}, body["flash"])
	assert.NotNil(t, body["dashboard"])
	assert.Contains(t, start.Header().Get("Set-Cookie"), flashCookie+"=;")
}

func TestStripeReturn_JSON(t *testing.T) {
	testCases := []struct {
		name       string
		target     string
		wantStatus string
		wantMsg    string
	}{
		{name: "paid", target: "/billing/stripe-return?session_id=cs_paid", wantStatus: "succeeded", wantMsg: "payment successful"},
		{name: "missing session", target: "/billing/stripe-return", wantStatus: "failed", wantMsg: "missing session id"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(newTestHandler(newStub()), http.MethodGet, tc.target, "", map[string]string{"Accept": "application/json"})
			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.wantStatus, body["status"])
			assert.Equal(t, tc.wantMsg, body["message"])
			assert.Equal(t, core.BillingStartPath, body["next"])
		})
	}
}

func TestSelection_CookieKeyRoundTrip(t *testing.T) {
	svc := newStub()
	h := newTestHandler(svc)

	rec := do(h, http.MethodPost, "/api/billing/selection", `{"order_ids":[3,4]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var key string
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			key = c.Value
		}
	}
	require.NotEmpty(t, key)

	req := httptest.NewRequest(http.MethodGet, "/api/billing/selection", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: key})
	get := httptest.NewRecorder()
	h.ServeHTTP(get, req)
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, []any{float64(3), float64(4)}, decode(t, get)["order_ids"])
}

func TestSelection_Validation(t *testing.T) {
	h := newTestHandler(newStub())

	rec := do(h, http.MethodPost, "/api/billing/selection", `{"order_ids":[]}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, rec)["code"])

	rec = do(h, http.MethodPost, "/api/billing/selection", `{"order_ids":[0]}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(h, http.MethodPost, "/api/billing/selection", `{`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := `{"order_ids":[` + strings.Repeat("1,", 1<<20) + `1]}`
	rec = do(h, http.MethodPost, "/api/billing/selection", big, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestFinalize(t *testing.T) {
	svc := newStub()
	h := newTestHandler(svc)

	body := `{"payloads":[{"order_ids":[1],"item_ids":[],"amount":100,"payment_method_id":2,"tax":10,"service_charge":10,"tips":0}]}`
	rec := do(h, http.MethodPost, "/api/billing/finalize", body, map[string]string{sessionHeader: "till-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, map[string]any{"bill_id": float64(100), "url": "https://checkout.example/pay/100", "payload_index": float64(0)}, out["redirect"])
	require.Len(t, svc.finalized, 1)
	assert.True(t, svc.finalized[0].TotalCost().Equal(decimal.NewFromInt(120)))

	rec = do(h, http.MethodPost, "/api/billing/finalize", `{"payloads":[]}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFinalize_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "partial failure lists created bills",
			err:        &core.FinalizeError{Index: 1, CreatedBillIDs: []int{100}, Err: &core.AttachError{BillID: 101, Err: assert.AnError}},
			wantStatus: http.StatusBadGateway,
			wantCode:   "FINALIZE_FAILED",
		},
		{
			name:       "local validation",
			err:        &core.ValidationError{Err: core.ErrInvalidPayload, Detail: "amount must be positive"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "nothing to finalize",
			err:        core.ErrNoPayloads,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newStub()
			svc.finalErr = tc.err
			rec := do(newTestHandler(svc), http.MethodPost, "/api/billing/finalize",
				`{"payloads":[{"order_ids":[1],"amount":50,"payment_method_id":1}]}`, map[string]string{"X-Request-ID": "req-42"})
			assert.Equal(t, tc.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.wantCode, body["code"])
			assert.Equal(t, "req-42", body["request_id"])
			if tc.wantCode == "FINALIZE_FAILED" {
				assert.Equal(t, []any{float64(100)}, body["created_bill_ids"])
			}
		})
	}
}

func TestFinalize_RejectsMismatchedPayloadsBeforeBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().GetOrder(gomock.Any(), 1).Return(&core.Order{
		ID:    1,
		Total: decimal.NewFromInt(100),
		Items: []core.OrderItem{
			{ID: 1, Quantity: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(60)},
			{ID: 2, Quantity: decimal.NewFromInt(2), TotalPrice: decimal.NewFromInt(40)},
		},
	}, nil).AnyTimes()
	backend.EXPECT().ListPaymentMethods(gomock.Any()).Return([]core.PaymentMethod{{ID: 1, Name: "Cash"}}, nil).AnyTimes()
	backend.EXPECT().CreateEmptyBill(gomock.Any(), gomock.Any()).Times(0)

	svc := app.NewAppService(backend, session.NewMemoryStore(time.Hour),
		receipt.NewEmitter(receipt.DirSink{Dir: t.TempDir()}, receipt.Options{}), nil, nil,
		app.Options{Rates: core.DefaultRates(), Logger: quietLogger()})
	h := newTestHandler(svc)
	headers := map[string]string{sessionHeader: "till-1"}

	rec := do(h, http.MethodPost, "/api/billing/selection", `{"order_ids":[1]}`, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, body := range []string{
		`{"payloads":[{"order_ids":[1],"item_ids":[1,1,999],"amount":1,"payment_method_id":1}]}`,
		`{"payloads":[{"order_ids":[1],"amount":1,"payment_method_id":1}]}`,
		`{"payloads":[{"order_ids":[1,2],"amount":100,"payment_method_id":1}]}`,
	} {
		rec = do(h, http.MethodPost, "/api/billing/finalize", body, headers)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		assert.Equal(t, "VALIDATION_FAILED", decode(t, rec)["code"], body)
	}

	rec = do(h, http.MethodGet, "/api/billing/selection", "", headers)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{float64(1)}, decode(t, rec)["order_ids"])
}

func TestBills(t *testing.T) {
	svc := newStub()
	h := newTestHandler(svc)

	rec := do(h, http.MethodGet, "/api/bills/404", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/api/bills/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/api/bills/55/pay", `{"mode":"multiple","entries":[{"amount":50,"payment_method_id":1},{"amount":30,"payment_method_id":2,"transaction_number":"TX9"}]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.settled)
	assert.Equal(t, core.SettleMultiple, svc.settled.Mode)
	require.Len(t, svc.settled.Entries, 2)
	assert.Equal(t, "TX9", svc.settled.Entries[1].TransactionNumber)

	rec = do(h, http.MethodPost, "/api/bills/55/pay", `{"mode":"twice"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReceipt(t *testing.T) {
	h := newTestHandler(newStub())

	rec := do(h, http.MethodGet, "/api/bills/56/receipt?format=a4", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "a4", body["format"])
	assert.Equal(t, receipt.BillsPath, body["next"])

	rec = do(h, http.MethodGet, "/api/bills/55/receipt", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, http.MethodGet, "/api/bills/56/receipt?format=letter", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	rec := do(newTestHandler(newStub()), http.MethodGet, "/api/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mona", decode(t, rec)["name"])
}

func TestRateLimit(t *testing.T) {
	h := NewHandler(newStub(), Options{Logger: quietLogger(), RateLimit: 1, RateBurst: 2})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/me", "", nil).Code)
	}
	rec := do(h, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decode(t, rec)["code"])

	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/health", "", nil).Code)
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newClientLimiter(1, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.Len(t, l.clients, 1)

	now = now.Add(10 * time.Minute)
	assert.True(t, l.allow("10.0.0.2"))
	assert.Len(t, l.clients, 1)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	h := CORS("https://till.example")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	req := httptest.NewRequest(http.MethodOptions, "/api/billing/finalize", nil)
	req.Header.Set("Origin", "https://till.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://till.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
