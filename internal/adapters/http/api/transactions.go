// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TransactionsHandler handles transaction submission, scoring and fraud
// feedback requests.
type TransactionsHandler struct {
	engine Engine
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(engine Engine) *TransactionsHandler {
	return &TransactionsHandler{engine: engine}
}

// HandleSubmit handles POST /v1/transactions requests: the transaction is
// recorded without being scored.
func (h *TransactionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_transaction"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	req, ok := decodeEvent(w, r, op)
	if !ok {
		return
	}
	e := req.toModel()

	if err := h.engine.SubmitTransaction(r.Context(), e); err != nil {
		writeEngineError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: e.ID})
}

// HandleScore handles POST /v1/transactions/score requests: the transaction
// is scored against the history recorded so far, then recorded itself.
func (h *TransactionsHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_transaction"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	req, ok := decodeEvent(w, r, op)
	if !ok {
		return
	}

	result, err := h.engine.ScoreTransaction(r.Context(), req.toModel())
	if err != nil {
		writeEngineError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fraudReportRequest is the wire shape for POST /v1/fraud-reports.
type fraudReportRequest struct {
	ID string `json:"id"`
}

// HandleFraudReport handles POST /v1/fraud-reports requests. The report
// records user feedback intent only; scores are not retrained.
func (h *TransactionsHandler) HandleFraudReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_fraud"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req fraudReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if err := h.engine.ReportFraud(r.Context(), req.ID); err != nil {
		writeEngineError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "recorded", ID: req.ID})
}

// decodeEvent decodes and validates the shared event request body.
func decodeEvent(w http.ResponseWriter, r *http.Request, op string) (eventRequest, bool) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return eventRequest{}, false
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return eventRequest{}, false
	}
	return req, true
}
