package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"pos-billing/internal/core"
	"pos-billing/internal/posapi"
)

type errorResponse struct {
	Error          string `json:"error"`
	Code           string `json:"code"`
	RequestID      string `json:"request_id,omitempty"`
	CreatedBillIDs []int  `json:"created_bill_ids,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorResponse(w, r, errorResponse{Error: message, Code: code}, status)
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, resp errorResponse, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp.RequestID = requestIDFromContext(r.Context())
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a billing error to its HTTP status. It is the one
// place service errors become responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *core.ValidationError
		fe  *core.FinalizeError
		te  *core.TransitionError
		fch *core.FetchError
	)
	switch {
	case errors.As(err, &fe):
		writeErrorResponse(w, r, errorResponse{
			Error:          err.Error(),
			Code:           "FINALIZE_FAILED",
			CreatedBillIDs: fe.CreatedBillIDs,
		}, http.StatusBadGateway)
	case errors.As(err, &ve):
		writeError(w, r, err.Error(), "VALIDATION_FAILED", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrNoOrdersSelected), errors.Is(err, core.ErrNoPayloads):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	case errors.Is(err, core.ErrBillNotFound), errors.Is(err, core.ErrOrderNotFound), posapi.IsNotFound(err):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrOrderBilled), errors.Is(err, core.ErrNotSettled), errors.As(err, &te):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	case errors.As(err, &fch):
		writeError(w, r, err.Error(), "BACKEND_UNAVAILABLE", http.StatusBadGateway)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
