package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"pos-billing/internal/app"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins string
	// RateLimit is requests per second per client; RateBurst its bucket size.
	RateLimit float64
	RateBurst int
	// Metrics, when set, is served at /metrics.
	Metrics http.Handler
	Logger  *slog.Logger
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc      app.ApplicationService
	router   chi.Router
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &Handler{
		svc:      svc,
		validate: validator.New(),
		logger:   opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(opts.Logger))
	r.Use(Recoverer(opts.Logger))
	r.Use(CORS(opts.AllowedOrigins))

	// ── Health & metrics (public, not rate limited) ──────────────────────────
	r.Get("/api/health", h.health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(RateLimit(opts.RateLimit, opts.RateBurst))
		}
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Browser flow ─────────────────────────────────────────────────────
		r.Get("/billing/stripe-return", h.stripeReturn)
		r.Get("/billing/start", h.billingStart)

		// ── Billing workflow ─────────────────────────────────────────────────
		r.Get("/api/billing/selection", h.apiGetSelection)
		r.Post("/api/billing/selection", h.apiSelectOrders)
		r.Post("/api/billing/finalize", h.apiFinalize)

		// ── Bills ────────────────────────────────────────────────────────────
		r.Get("/api/bills", h.apiListBills)
		r.Get("/api/bills/{id}", h.apiGetBill)
		r.Post("/api/bills/{id}/pay", h.apiSettleBill)
		r.Get("/api/bills/{id}/receipt", h.apiReceipt)
		r.Get("/api/payment-methods", h.apiPaymentMethods)

		r.Get("/api/me", h.me)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// me handles GET /api/me: the operator the API token belongs to.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	writeJSON(w, user)
}

// billID extracts the {id} URL parameter. It writes a 400 and returns false
// when the id is not a positive integer.
func billID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid bill id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// decodeValid is decodeJSON followed by struct tag validation.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeError(w, r, err.Error(), "VALIDATION_FAILED", http.StatusUnprocessableEntity)
		return false
	}
	return true
}
