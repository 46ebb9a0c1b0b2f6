package core

import (
	"context"
	"log/slog"
	"strings"
)

// BillingStartPath is where the operator lands after an online checkout,
// whatever its outcome.
const BillingStartPath = "/billing/start"

type ReturnStatus string

const (
	ReturnSucceeded ReturnStatus = "succeeded"
	ReturnFailed    ReturnStatus = "failed"
)

// ReturnOutcome is the feedback shown after the payment processor redirects
// back.
type ReturnOutcome struct {
	Status    ReturnStatus `json:"status"`
	Message   string       `json:"message"`
	SessionID string       `json:"session_id,omitempty"`
	Next      string       `json:"next"`
}

func (o ReturnOutcome) Succeeded() bool { return o.Status == ReturnSucceeded }

// ReturnHandler verifies checkout sessions when the processor redirects back.
type ReturnHandler struct {
	verifier SessionVerifier
	logger   *slog.Logger
}

func NewReturnHandler(verifier SessionVerifier, logger *slog.Logger) *ReturnHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReturnHandler{verifier: verifier, logger: logger}
}

// HandleReturn never fails: every problem becomes a Failed outcome. The
// outcome always points back to BillingStartPath.
func (h *ReturnHandler) HandleReturn(ctx context.Context, sessionID string) ReturnOutcome {
	sessionID = strings.TrimSpace(sessionID)
	out := ReturnOutcome{SessionID: sessionID, Next: BillingStartPath}
	if sessionID == "" {
		out.Status, out.Message = ReturnFailed, "missing session id"
		h.logger.Warn("payment return without session id")
		return out
	}

	v, err := h.verifier.VerifyCheckoutSession(ctx, sessionID)
	switch {
	case err != nil:
		out.Status, out.Message = ReturnFailed, "failed to verify payment"
		h.logger.Error("verify checkout session", "session_id", sessionID, "error", err)
	case v != nil && v.Paid():
		out.Status, out.Message = ReturnSucceeded, "payment successful"
		h.logger.Info("checkout session paid", "session_id", sessionID)
	default:
		out.Status, out.Message = ReturnFailed, "payment not verified"
		h.logger.Warn("checkout session not paid", "session_id", sessionID)
	}
	return out
}
