package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if INSIGHT_CONFIG is set
//  3. env (prefix INSIGHT_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("INSIGHT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: INSIGHT_ADDR, INSIGHT_HISTORY_CAP, ...
	// Map env keys like INSIGHT_HISTORY_CAP -> history_cap (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("INSIGHT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "insight_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.HistoryCap <= 0 {
		return nil, errors.New("history_cap must be positive")
	}
	if cfg.ScoreDivisor <= 0 {
		return nil, errors.New("score_divisor must be positive")
	}
	if cfg.AnomalyThreshold < 0 || cfg.AnomalyThreshold > 100 {
		return nil, errors.New("anomaly_threshold must be within 0..100")
	}
	return &cfg, nil
}
