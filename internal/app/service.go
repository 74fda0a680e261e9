// Package service wires the two scoring pipelines behind one engine facade
// that the HTTP API depends on.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	persist "github.com/moneta-app/insight/internal/adapters/persist"
	repository "github.com/moneta-app/insight/internal/adapters/repository"
	"github.com/moneta-app/insight/internal/config"
	"github.com/moneta-app/insight/internal/domain/dedupe"
	"github.com/moneta-app/insight/internal/domain/feature"
	"github.com/moneta-app/insight/internal/domain/forecast"
	"github.com/moneta-app/insight/internal/domain/model"
	"github.com/moneta-app/insight/internal/domain/pipeline"
	"github.com/moneta-app/insight/internal/domain/profile"
	"github.com/moneta-app/insight/internal/domain/scoring"
	"github.com/moneta-app/insight/pkg/logger"
	"github.com/moneta-app/insight/pkg/metrics"
)

// Storage namespaces, one bounded history per domain.
const (
	NamespaceFraud  = "fraud"
	NamespaceBudget = "budget"
)

// Service owns the fraud and budget pipelines and the shared infrastructure
// around them. Both engines follow the same shape: bounded history, derived
// profile, per-event features, weighted scoring.
type Service struct {
	mu sync.RWMutex

	cfg       *config.Config
	logger    logger.Logger
	persister repository.Persister

	fraud  *pipeline.Pipeline
	budget *pipeline.Pipeline

	deduper    dedupe.Deduper
	writer     *persist.Writer
	extractor  *feature.Extractor
	scorer     *scoring.Scorer
	forecaster *forecast.Forecaster

	// reported collects user fraud-feedback intents; no retraining happens.
	reported []string

	started bool
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the engine components from configuration, restores the
// persisted histories and launches the background writer.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("engine")
	}

	cfg := s.cfg
	s.logger.Info(ctx, "starting insight engine")

	if s.persister == nil {
		if cfg.DBPath != "" {
			p, err := repository.NewSQLitePersister(cfg.DBPath)
			if err != nil {
				return err
			}
			s.persister = p
			s.logger.Info(ctx, "using sqlite history", logger.String("path", cfg.DBPath))
		} else {
			s.persister = repository.NewMemoryPersister()
			s.logger.Info(ctx, "using in-memory history; data will not survive restart")
		}
	}

	s.deduper = dedupe.NewRingDeduper(
		dedupe.WithCapacity(cfg.DedupeSize),
	)
	s.writer = persist.NewWriter(
		persist.WithQueueSize(cfg.PersistQueueSize),
		persist.WithLogger(s.logger.Named("persist")),
	)
	if err := s.writer.Start(ctx); err != nil {
		return err
	}

	ttl := time.Duration(cfg.ProfileTTLMinutes) * time.Minute

	s.fraud = pipeline.New(
		repository.NewLog(NamespaceFraud, s.persister, repository.WithCap(cfg.HistoryCap)),
		profile.NewFraudProfiler(
			profile.WithFraudMinSamples(cfg.MinSamples),
			profile.WithGridPrecision(cfg.GridPrecision),
			profile.WithTopLocations(cfg.TopLocations),
		),
		pipeline.WithWriter(s.writer),
		pipeline.WithTTL(ttl),
		pipeline.WithLogger(s.logger.Named(NamespaceFraud)),
	)
	s.budget = pipeline.New(
		repository.NewLog(NamespaceBudget, s.persister, repository.WithCap(cfg.HistoryCap)),
		profile.NewBudgetProfiler(
			profile.WithBudgetMinSamples(cfg.MinSamples),
			profile.WithTrendWeeks(cfg.TrendWeeks),
			profile.WithTrendClamp(cfg.TrendClamp),
		),
		pipeline.WithWriter(s.writer),
		pipeline.WithTTL(ttl),
		pipeline.WithLogger(s.logger.Named(NamespaceBudget)),
	)

	s.extractor = feature.NewExtractor(
		feature.WithLocationScale(cfg.LocationScaleKm),
		feature.WithUnknownLocationScore(cfg.UnknownLocationScore),
		feature.WithBurstWindow(time.Duration(cfg.BurstWindowHours)*time.Hour),
		feature.WithBurstLimit(cfg.BurstLimit),
		feature.WithRecencyWindow(time.Duration(cfg.RecencyWindowHours)*time.Hour),
		feature.WithFrequencyWeights(cfg.BurstWeight, cfg.RecencyWeight),
	)
	s.scorer = scoring.NewScorer(
		scoring.WithWeights(scoring.Weights{
			Amount:    cfg.AmountWeight,
			Time:      cfg.TimeWeight,
			Location:  cfg.LocationWeight,
			Merchant:  cfg.MerchantWeight,
			Frequency: cfg.FrequencyWeight,
		}),
		scoring.WithTriggers(scoring.Triggers{
			Amount:    cfg.AmountTrigger,
			Time:      cfg.TimeTrigger,
			Location:  cfg.LocationTrigger,
			Merchant:  cfg.MerchantTrigger,
			Frequency: cfg.FrequencyTrigger,
		}),
		scoring.WithScoreDivisor(cfg.ScoreDivisor),
		scoring.WithAnomalyThreshold(cfg.AnomalyThreshold),
	)
	s.forecaster = forecast.NewForecaster(
		forecast.WithColdStartFloor(cfg.ColdStartFloor),
		forecast.WithAssumedEventsPerWeek(cfg.AssumedEventsPerWeek),
		forecast.WithComparisonThresholds(cfg.HigherTrendFactor, cfg.LowerTrendFactor),
		forecast.WithWarningThresholds(cfg.WarningTrendFactor, cfg.WarningShare),
		forecast.WithSavingsRates(cfg.SavingsRateRising, cfg.SavingsRateFlat),
	)

	// A failed restore is not fatal: the session starts empty.
	if err := s.fraud.Load(ctx); err != nil {
		s.logger.Warn(ctx, "could not restore transaction history", logger.Error(err))
	}
	if err := s.budget.Load(ctx); err != nil {
		s.logger.Warn(ctx, "could not restore expense history", logger.Error(err))
	}

	s.started = true
	s.logger.Info(ctx, "insight engine started",
		logger.Int("transactions", s.fraud.Len(ctx)),
		logger.Int("expenses", s.budget.Len(ctx)),
	)
	return nil
}

// Stop flushes both histories synchronously and shuts the writer down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping insight engine")

	if err := s.fraud.Save(ctx); err != nil {
		s.logger.Error(ctx, "final transaction flush failed", logger.Error(err))
	}
	if err := s.budget.Save(ctx); err != nil {
		s.logger.Error(ctx, "final expense flush failed", logger.Error(err))
	}
	if err := s.writer.Close(); err != nil {
		s.logger.Error(ctx, "persist writer close failed", logger.Error(err))
	}
	if closer, ok := s.persister.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error(ctx, "history store close failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "insight engine stopped")
}

// SubmitTransaction records a transaction into the fraud history without
// scoring it. Resubmitting the same event ID is a no-op.
func (s *Service) SubmitTransaction(ctx context.Context, e model.Event) error {
	return s.submit(ctx, s.fraud, e)
}

// SubmitExpense records an expense into the budget history.
func (s *Service) SubmitExpense(ctx context.Context, e model.Event) error {
	return s.submit(ctx, s.budget, e)
}

func (s *Service) submit(ctx context.Context, p *pipeline.Pipeline, e model.Event) error {
	if err := s.ready(); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, e.ID) {
		metrics.RecordEventDuplicate()
		s.logger.Debug(ctx, "duplicate event ignored",
			logger.String("id", e.ID),
			logger.String("domain", p.Namespace()))
		return nil
	}

	if err := p.Append(ctx, e); err != nil {
		// Leave the ID retryable: a corrected resubmission must not be
		// swallowed as a duplicate.
		s.deduper.Unrecord(ctx, e.ID)
		return err
	}
	return nil
}

// ScoreTransaction scores e against the profile built from the history
// before this event, then records it. Scoring always returns a best-effort
// result: sparse history yields a zero-feature cold-start score, not an
// error.
func (s *Service) ScoreTransaction(ctx context.Context, e model.Event) (scoring.Result, error) {
	if err := s.ready(); err != nil {
		return scoring.Result{}, err
	}
	if err := e.Validate(); err != nil {
		metrics.RecordValidationError()
		return scoring.Result{}, err
	}

	snap := s.fraud.Profile(ctx)
	result := s.scorer.Score(s.extractor.Extract(e, snap))
	metrics.RecordScoreComputed(float64(result.FraudScore), result.IsAnomaly)

	if result.IsAnomaly {
		s.logger.Warn(ctx, "anomalous transaction",
			logger.String("id", e.ID),
			logger.Int("score", result.FraudScore),
			logger.String("explanation", result.Explanation))
	}

	if err := s.submit(ctx, s.fraud, e); err != nil {
		return scoring.Result{}, err
	}
	return result, nil
}

// Recommend generates the spending forecast and budget recommendation from
// the current expense history.
func (s *Service) Recommend(ctx context.Context) (forecast.Recommendation, error) {
	if err := s.ready(); err != nil {
		return forecast.Recommendation{}, err
	}

	snap := s.budget.Profile(ctx)
	rec := s.forecaster.Generate(snap, time.Now())
	metrics.RecordRecommendation(float64(rec.ConfidenceScore), snap == nil || !snap.Fit)
	return rec, nil
}

// ReportFraud records the user's feedback that a transaction was fraudulent.
// The intent is stored for later review; no retraining happens here.
func (s *Service) ReportFraud(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyEventID
	}

	s.mu.Lock()
	s.reported = append(s.reported, id)
	s.mu.Unlock()

	metrics.RecordFraudReport()
	s.logger.Info(ctx, "transaction reported as fraud", logger.String("id", id))
	return nil
}

// ResetHistory wipes both histories, in memory and on disk.
func (s *Service) ResetHistory(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	if err := s.fraud.Reset(ctx); err != nil {
		return err
	}
	if err := s.budget.Reset(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.reported = nil
	s.mu.Unlock()

	s.logger.Info(ctx, "history reset")
	return nil
}

// GetStats returns engine statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	started := s.started
	reported := len(s.reported)
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": started,
	}
	if !started {
		return stats
	}

	stats["transactions"] = s.fraud.Len(ctx)
	stats["expenses"] = s.budget.Len(ctx)
	stats["deduper_size"] = s.deduper.Size()
	stats["persist_queue"] = s.writer.Len()
	stats["fraud_reports"] = reported
	return stats
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}
