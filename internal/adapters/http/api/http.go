// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/moneta-app/insight/internal/domain/forecast"
	"github.com/moneta-app/insight/internal/domain/model"
	"github.com/moneta-app/insight/internal/domain/scoring"
)

// Engine bundles the operations the handlers depend on. The interface keeps
// the handler layer loosely coupled to the service implementation.
type Engine interface {
	SubmitTransaction(ctx context.Context, e model.Event) error
	SubmitExpense(ctx context.Context, e model.Event) error
	ScoreTransaction(ctx context.Context, e model.Event) (scoring.Result, error)
	Recommend(ctx context.Context) (forecast.Recommendation, error)
	ReportFraud(ctx context.Context, id string) error
	ResetHistory(ctx context.Context) error
}

// Server wires HTTP routes for the engine API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	transactionsHandler   *TransactionsHandler
	expensesHandler       *ExpensesHandler
	recommendationHandler *RecommendationHandler
	historyHandler        *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(engine Engine, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(statsProvider),
		transactionsHandler:   NewTransactionsHandler(engine),
		expensesHandler:       NewExpensesHandler(engine),
		recommendationHandler: NewRecommendationHandler(engine),
		historyHandler:        NewHistoryHandler(engine),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/transactions", MetricsMiddleware(s.transactionsHandler.HandleSubmit, "transactions"))
	mux.HandleFunc("/v1/transactions/score", MetricsMiddleware(s.transactionsHandler.HandleScore, "score"))
	mux.HandleFunc("/v1/fraud-reports", MetricsMiddleware(s.transactionsHandler.HandleFraudReport, "fraud_reports"))
	mux.HandleFunc("/v1/expenses", MetricsMiddleware(s.expensesHandler.HandleSubmit, "expenses"))
	mux.HandleFunc("/v1/recommendation", MetricsMiddleware(s.recommendationHandler.HandleGet, "recommendation"))
	mux.HandleFunc("/v1/history", MetricsMiddleware(s.historyHandler.HandleReset, "history"))
}

// eventRequest is the wire shape for submitted transactions and expenses.
type eventRequest struct {
	ID        string   `json:"id"`
	Amount    float64  `json:"amount"`
	TS        string   `json:"ts"`
	Merchant  string   `json:"merchant"`
	Category  string   `json:"category"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Recurring bool     `json:"recurring"`
}

func (e eventRequest) validate() error {
	switch {
	case e.Amount <= 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0):
		return errors.New("amount must be a finite positive number")
	case strings.TrimSpace(e.TS) == "":
		return errors.New("missing ts")
	case (e.Lat == nil) != (e.Lon == nil):
		return errors.New("lat and lon must be provided together")
	}
	if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

// toModel converts the request to a domain event. validate must have passed.
func (e eventRequest) toModel() model.Event {
	ts, _ := time.Parse(time.RFC3339, e.TS)
	out := model.Event{
		ID:        e.ID,
		Amount:    e.Amount,
		Timestamp: ts,
		Merchant:  e.Merchant,
		Category:  e.Category,
		Recurring: e.Recurring,
	}
	if e.Lat != nil && e.Lon != nil {
		out.Location = &model.GeoPoint{Lat: *e.Lat, Lon: *e.Lon}
	}
	return out
}

type ackResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeEngineError maps engine errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidAmount), errors.Is(err, model.ErrMissingTimestamp):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
	}
}
