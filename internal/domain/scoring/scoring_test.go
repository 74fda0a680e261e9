package scoring_test

import (
	"strings"
	"testing"

	feature "github.com/moneta-app/insight/internal/domain/feature"
	scoring "github.com/moneta-app/insight/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScorerScore(t *testing.T) {
	Convey("Given a scorer with default calibration", t, func() {
		scorer := scoring.NewScorer()

		Convey("When all features are zero", func() {
			result := scorer.Score(feature.Vector{})

			Convey("Then the score is zero and not anomalous", func() {
				So(result.FraudScore, ShouldEqual, 0)
				So(result.IsAnomaly, ShouldBeFalse)
				So(result.Explanation, ShouldBeEmpty)
			})
		})

		Convey("When all bounded features saturate without amount deviation", func() {
			v := feature.Vector{
				TimeAnomaly:      1,
				LocationAnomaly:  1,
				MerchantAnomaly:  1,
				FrequencyAnomaly: 1,
			}
			result := scorer.Score(v)

			Convey("Then the score stays moderate", func() {
				// weighted = 0.70, scaled by 100/3
				So(result.FraudScore, ShouldEqual, 23)
				So(result.IsAnomaly, ShouldBeFalse)
			})
		})

		Convey("When the amount deviation is extreme", func() {
			v := feature.Vector{
				AmountDeviation: 9,
				TimeAnomaly:     1,
				MerchantAnomaly: 1,
			}
			result := scorer.Score(v)

			Convey("Then the score saturates at 100", func() {
				// weighted = 3.05, scaled and capped at 100
				So(result.FraudScore, ShouldEqual, 100)
				So(result.IsAnomaly, ShouldBeTrue)
			})

			Convey("Then the explanation names amount, time and merchant", func() {
				So(result.Explanation, ShouldContainSubstring, "amount")
				So(result.Explanation, ShouldContainSubstring, "time")
				So(result.Explanation, ShouldContainSubstring, "merchant")
			})
		})

		Convey("When scoring repeatedly with the same vector", func() {
			v := feature.Vector{AmountDeviation: 3, MerchantAnomaly: 0.9}
			a := scorer.Score(v)
			b := scorer.Score(v)

			Convey("Then the result is deterministic", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("Then the score always stays within 0..100", func() {
			vectors := []feature.Vector{
				{},
				{AmountDeviation: 1000},
				{AmountDeviation: 0.1, TimeAnomaly: 0.2},
				{TimeAnomaly: 1, LocationAnomaly: 1, MerchantAnomaly: 1, FrequencyAnomaly: 1, AmountDeviation: 50},
			}
			for _, v := range vectors {
				result := scorer.Score(v)
				So(result.FraudScore, ShouldBeGreaterThanOrEqualTo, 0)
				So(result.FraudScore, ShouldBeLessThanOrEqualTo, 100)
			}
		})
	})
}

func TestScorerBoundary(t *testing.T) {
	Convey("Given the default threshold of 70", t, func() {
		scorer := scoring.NewScorer()

		// weighted*100/3 = score  =>  amount deviation alone drives the score:
		// score = round(amount*0.30*100/3) = round(amount*10)
		Convey("When the score lands exactly on the threshold", func() {
			result := scorer.Score(feature.Vector{AmountDeviation: 7.0})

			Convey("Then 70 is not anomalous", func() {
				So(result.FraudScore, ShouldEqual, 70)
				So(result.IsAnomaly, ShouldBeFalse)
			})
		})

		Convey("When the score lands one above the threshold", func() {
			result := scorer.Score(feature.Vector{AmountDeviation: 7.1})

			Convey("Then 71 is anomalous", func() {
				So(result.FraudScore, ShouldEqual, 71)
				So(result.IsAnomaly, ShouldBeTrue)
			})
		})
	})

	Convey("Given a custom threshold", t, func() {
		scorer := scoring.NewScorer(scoring.WithAnomalyThreshold(50))

		result := scorer.Score(feature.Vector{AmountDeviation: 5.1})

		Convey("Then the boundary follows the configuration", func() {
			So(result.FraudScore, ShouldEqual, 51)
			So(result.IsAnomaly, ShouldBeTrue)
		})
	})
}

func TestScorerExplanation(t *testing.T) {
	Convey("Given a scorer with a lowered threshold", t, func() {
		// Threshold low enough that moderate sub-trigger factors still flag.
		scorer := scoring.NewScorer(scoring.WithAnomalyThreshold(10))

		Convey("When the score is anomalous but no factor crossed its trigger", func() {
			v := feature.Vector{
				TimeAnomaly:      0.7,
				LocationAnomaly:  0.6,
				MerchantAnomaly:  0.7,
				FrequencyAnomaly: 0.5,
			}
			result := scorer.Score(v)

			Convey("Then a generic fallback line is still present", func() {
				So(result.IsAnomaly, ShouldBeTrue)
				So(result.Explanation, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given factor values straddling their triggers", t, func() {
		scorer := scoring.NewScorer()

		v := feature.Vector{
			AmountDeviation:  2.6, // above 2.5
			TimeAnomaly:      0.5, // below 0.8
			LocationAnomaly:  0.9, // above 0.7
			MerchantAnomaly:  0.5, // below 0.8
			FrequencyAnomaly: 0.9, // above 0.8
		}
		result := scorer.Score(v)

		Convey("Then only the crossing factors appear, in fixed order", func() {
			parts := strings.Split(result.Explanation, "; ")
			So(len(parts), ShouldEqual, 3)
			So(parts[0], ShouldContainSubstring, "amount")
			So(parts[1], ShouldContainSubstring, "location")
			So(parts[2], ShouldContainSubstring, "frequency")
		})
	})
}
