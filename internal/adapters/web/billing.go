package web

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"pos-billing/internal/app"
	"pos-billing/internal/core"
	"pos-billing/internal/receipt"
)

// ── Checkout return & start page ────────────────────────────────────────────

// stripeReturn handles GET /billing/stripe-return?session_id=. Browsers get a
// flash cookie and a redirect to the billing start page; API clients asking
// for JSON get the outcome directly.
func (h *Handler) stripeReturn(w http.ResponseWriter, r *http.Request) {
	key := workflowKey(w, r)
	res := h.svc.HandlePaymentReturn(r.Context(), key, r.URL.Query().Get("session_id"))

	if wantsJSON(r) {
		writeJSON(w, res)
		return
	}
	kind := "success"
	if !res.Succeeded() {
		kind = "error"
	}
	setFlash(w, flash{Kind: kind, Message: res.Message})
	http.Redirect(w, r, res.Next, http.StatusSeeOther)
}

// billingStart handles GET /billing/start: the dashboard, the current
// selection, and any flash left by a redirect.
func (h *Handler) billingStart(w http.ResponseWriter, r *http.Request) {
	key := workflowKey(w, r)
	type response struct {
		Flash     *flash               `json:"flash,omitempty"`
		Selection *app.SelectionResult `json:"selection"`
		Dashboard *app.DashboardResult `json:"dashboard"`
	}
	resp := response{Flash: popFlash(w, r)}

	dash, err := h.svc.LoadDashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sel, err := h.svc.SelectedOrders(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp.Dashboard, resp.Selection = dash, sel
	writeJSON(w, resp)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// ── Workflow ────────────────────────────────────────────────────────────────

type selectionRequest struct {
	OrderIDs []int `json:"order_ids" validate:"required,min=1,dive,gt=0"`
}

// apiSelectOrders handles POST /api/billing/selection.
func (h *Handler) apiSelectOrders(w http.ResponseWriter, r *http.Request) {
	key := workflowKey(w, r)
	var req selectionRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	sel, err := h.svc.SelectOrders(r.Context(), key, req.OrderIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sel)
}

// apiGetSelection handles GET /api/billing/selection.
func (h *Handler) apiGetSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := h.svc.SelectedOrders(r.Context(), workflowKey(w, r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sel)
}

type finalizeRequest struct {
	Payloads []core.FinalizedPayload `json:"payloads" validate:"required,min=1"`
}

// apiFinalize handles POST /api/billing/finalize. The payloads come from the
// client's split; the service reconciles them with the session's selected
// orders before any backend call and answers 422 when they do not match.
func (h *Handler) apiFinalize(w http.ResponseWriter, r *http.Request) {
	key := workflowKey(w, r)
	var req finalizeRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	out, err := h.svc.Finalize(r.Context(), key, req.Payloads)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, out)
}

// ── Bills ───────────────────────────────────────────────────────────────────

// apiListBills handles GET /api/bills?scope=today|all.
func (h *Handler) apiListBills(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListBills(r.Context(), app.ParseBillScope(r.URL.Query().Get("scope")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiGetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := billID(w, r)
	if !ok {
		return
	}
	bill, err := h.svc.GetBill(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, bill)
}

type settleRequest struct {
	Mode    string `json:"mode" validate:"omitempty,oneof=single multiple"`
	Entries []struct {
		Amount            decimal.Decimal `json:"amount"`
		MethodID          int             `json:"payment_method_id" validate:"gt=0"`
		TransactionNumber string          `json:"transaction_number" validate:"max=64"`
	} `json:"entries" validate:"dive"`
}

// apiSettleBill handles POST /api/bills/{id}/pay. Without entries the bill
// is paid in full with the first payment method.
func (h *Handler) apiSettleBill(w http.ResponseWriter, r *http.Request) {
	id, ok := billID(w, r)
	if !ok {
		return
	}
	var req settleRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	sr := app.SettleRequest{BillID: id, Mode: core.ParseSettleMode(req.Mode)}
	for _, e := range req.Entries {
		sr.Entries = append(sr.Entries, core.SettlementEntry{
			Amount:            e.Amount,
			MethodID:          e.MethodID,
			TransactionNumber: e.TransactionNumber,
		})
	}
	res, err := h.svc.SettleBill(r.Context(), sr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiReceipt handles GET /api/bills/{id}/receipt?format=thermal|a4.
func (h *Handler) apiReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := billID(w, r)
	if !ok {
		return
	}
	format, err := receipt.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	em, err := h.svc.EmitReceipt(r.Context(), app.ReceiptRequest{BillID: id, Format: format})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, em)
}

func (h *Handler) apiPaymentMethods(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPaymentMethods(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
