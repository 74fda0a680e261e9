package synthetic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/moneta-app/insight/pkg/logger"
)

// Run seeds the engine at cfg.BaseURL with a fabricated history, submitting
// every event to both the transaction and the expense domain, then fetches a
// recommendation. With cfg.Anomaly set it finishes by scoring a suspicious
// transaction live.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get().Named("seed")
	client := newHTTPClient(cfg.Timeout)
	start := time.Now()

	events := GenerateHistory(cfg)
	stats := &Stats{Generated: len(events)}
	log.Info(ctx, "seeding engine",
		logger.String("url", cfg.BaseURL),
		logger.Int("events", len(events)),
		logger.Int("weeks", cfg.Weeks))

	for _, e := range events {
		for _, path := range []string{"/v1/transactions", "/v1/expenses"} {
			code, err := client.postJSON(ctx, cfg.BaseURL+path, e, nil)
			if err != nil {
				return stats, fmt.Errorf("seed aborted: %w", err)
			}
			if code != http.StatusAccepted {
				stats.Failed++
				log.Warn(ctx, "event rejected",
					logger.String("id", e.ID),
					logger.String("path", path),
					logger.Int("status", code))
				continue
			}
			stats.Submitted++
		}
	}

	var rec map[string]any
	if _, err := client.getJSON(ctx, cfg.BaseURL+"/v1/recommendation", &rec); err != nil {
		return stats, fmt.Errorf("fetch recommendation: %w", err)
	}
	log.Info(ctx, "recommendation after seeding",
		logger.Any("confidence", rec["confidence_score"]),
		logger.Any("next_week_forecast", rec["next_week_forecast"]))

	if cfg.Anomaly {
		var result map[string]any
		e := Suspicious(cfg)
		if _, err := client.postJSON(ctx, cfg.BaseURL+"/v1/transactions/score", e, &result); err != nil {
			return stats, fmt.Errorf("score suspicious transaction: %w", err)
		}
		log.Info(ctx, "suspicious transaction scored",
			logger.Any("fraud_score", result["fraud_score"]),
			logger.Any("is_anomaly", result["is_anomaly"]),
			logger.Any("explanation", result["explanation"]))
	}

	stats.Duration = time.Since(start)
	log.Info(ctx, "seeding finished",
		logger.Int("submitted", stats.Submitted),
		logger.Int("failed", stats.Failed),
		logger.Duration("took", stats.Duration))
	return stats, nil
}
