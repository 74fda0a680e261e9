// Package scoring combines fraud features into an explainable 0-100 risk score.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/moneta-app/insight/internal/domain/feature"
)

// Default scoring configuration constants.
const (
	maxScoreValue = 100

	defaultAmountWeight    = 0.30
	defaultTimeWeight      = 0.15
	defaultLocationWeight  = 0.25
	defaultMerchantWeight  = 0.20
	defaultFrequencyWeight = 0.10

	// defaultScoreDivisor rescales the weighted sum onto the display range.
	// Empirical: the amount term is an unbounded z-score while the display
	// range is 0-100.
	defaultScoreDivisor = 3.0

	defaultAnomalyThreshold = 70

	defaultAmountTrigger    = 2.5
	defaultTimeTrigger      = 0.8
	defaultLocationTrigger  = 0.7
	defaultMerchantTrigger  = 0.8
	defaultFrequencyTrigger = 0.8
)

// fallbackExplanation covers an anomalous score where no single factor
// crossed its own trigger; the explanation must never be empty then.
const fallbackExplanation = "several moderately unusual factors combined to raise the risk score"

// Weights holds the per-factor scoring weights.
type Weights struct {
	Amount    float64
	Time      float64
	Location  float64
	Merchant  float64
	Frequency float64
}

// Triggers holds the per-factor explanation thresholds.
type Triggers struct {
	Amount    float64
	Time      float64
	Location  float64
	Merchant  float64
	Frequency float64
}

// Result is the immutable output of one scoring call.
type Result struct {
	FraudScore  int            `json:"fraud_score"`
	IsAnomaly   bool           `json:"is_anomaly"`
	SubScores   feature.Vector `json:"sub_scores"`
	Explanation string         `json:"explanation"`
}

// Scorer computes the weighted risk score from a feature vector.
type Scorer struct {
	weights   Weights
	triggers  Triggers
	divisor   float64
	threshold int
}

// NewScorer creates a scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights: Weights{
			Amount:    defaultAmountWeight,
			Time:      defaultTimeWeight,
			Location:  defaultLocationWeight,
			Merchant:  defaultMerchantWeight,
			Frequency: defaultFrequencyWeight,
		},
		triggers: Triggers{
			Amount:    defaultAmountTrigger,
			Time:      defaultTimeTrigger,
			Location:  defaultLocationTrigger,
			Merchant:  defaultMerchantTrigger,
			Frequency: defaultFrequencyTrigger,
		},
		divisor:   defaultScoreDivisor,
		threshold: defaultAnomalyThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score combines the features into a 0-100 score with an explanation.
// The anomaly boundary is exact: a score equal to the threshold is not
// anomalous, one above it is.
func (s *Scorer) Score(v feature.Vector) Result {
	weighted := s.weights.Amount*v.AmountDeviation +
		s.weights.Time*v.TimeAnomaly +
		s.weights.Location*v.LocationAnomaly +
		s.weights.Merchant*v.MerchantAnomaly +
		s.weights.Frequency*v.FrequencyAnomaly

	score := int(math.Round(math.Min(maxScoreValue, weighted*maxScoreValue/s.divisor)))
	if score < 0 {
		score = 0
	}
	anomaly := score > s.threshold

	return Result{
		FraudScore:  score,
		IsAnomaly:   anomaly,
		SubScores:   v,
		Explanation: s.explain(v, anomaly),
	}
}

// explain builds the deterministic, ordered explanation: one line per factor
// above its trigger, joined in a fixed factor order.
func (s *Scorer) explain(v feature.Vector, anomaly bool) string {
	var lines []string
	if v.AmountDeviation > s.triggers.Amount {
		lines = append(lines, fmt.Sprintf("amount deviates %.1fx the typical spread from your average spend", v.AmountDeviation))
	}
	if v.TimeAnomaly > s.triggers.Time {
		lines = append(lines, "transaction happened at an unusual time for this account")
	}
	if v.LocationAnomaly > s.triggers.Location {
		lines = append(lines, "location is far from your usual places")
	}
	if v.MerchantAnomaly > s.triggers.Merchant {
		lines = append(lines, "merchant is rarely or never used on this account")
	}
	if v.FrequencyAnomaly > s.triggers.Frequency {
		lines = append(lines, "transaction frequency is unusually high")
	}

	if len(lines) == 0 {
		if anomaly {
			return fallbackExplanation
		}
		return ""
	}
	return strings.Join(lines, "; ")
}
