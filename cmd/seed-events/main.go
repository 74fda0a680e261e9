package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/moneta-app/insight/internal/synthetic"
	"github.com/moneta-app/insight/pkg/logger"
)

// Default seeding configuration constants.
const (
	defaultWeeks      = 8
	defaultPerWeek    = 12
	defaultSeed       = 1
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the engine")
		weeks   = flag.Int("weeks", defaultWeeks, "Weeks of history to fabricate")
		perWeek = flag.Int("per-week", defaultPerWeek, "Events per week")
		seed    = flag.Int64("seed", defaultSeed, "RNG seed; same seed, same events")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		anomaly = flag.Bool("anomaly", true, "Finish with a suspicious transaction scored live")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &synthetic.Config{
		BaseURL: *baseURL,
		Weeks:   *weeks,
		PerWeek: *perWeek,
		Seed:    *seed,
		Timeout: *timeout,
		Anomaly: *anomaly,
	}

	if _, err := synthetic.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
