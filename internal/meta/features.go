// Package meta stacks a logistic-regression model on top of the primary
// win-probability predictions and evaluates it with the same metric family.
package meta

import (
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// FeatureDefaults enumerates every optional auxiliary feature and the value
// substituted when it is absent from a record. Validated once with the rest
// of the trainer configuration instead of being scattered through feature
// construction.
type FeatureDefaults struct {
	FlipRate        float64 `mapstructure:"flip_rate" validate:"gte=0,lte=1"`
	ScoreFirstProb  float64 `mapstructure:"score_first_prob" validate:"gte=0,lte=1"`
	FirstGoalUplift float64 `mapstructure:"first_goal_uplift" validate:"gte=0,lte=1"`
}

// DefaultFeatureDefaults returns the documented fallback values.
func DefaultFeatureDefaults() FeatureDefaults {
	return FeatureDefaults{
		FlipRate:        0.0,
		ScoreFirstProb:  0.5,
		FirstGoalUplift: 0.2,
	}
}

var featureNames = []string{
	"away_win_prob",
	"home_win_prob",
	"margin",
	"confidence",
	"spread",
	"flip_rate",
	"away_score_first",
	"home_score_first",
	"away_uplift",
	"home_uplift",
}

// FeatureNames returns the fixed feature order used by BuildFeatures.
func FeatureNames() []string {
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return names
}

// FeatureCount is the length of every feature vector.
func FeatureCount() int {
	return len(featureNames)
}

// BuildFeatures constructs the fixed-order feature vector for one record.
// Margin and spread carry the same value; both stay in the vector so the
// learned coefficients remain comparable across model versions.
func BuildFeatures(p models.Prediction, defaults FeatureDefaults) []float64 {
	margin := p.Spread()
	return []float64{
		p.AwayWinProb,
		p.HomeWinProb,
		margin,
		p.Confidence(),
		margin,
		auxValue(p.Metrics, func(m *models.AuxMetrics) *float64 { return m.MonteCarloFlipRate }, defaults.FlipRate),
		auxValue(p.Metrics, func(m *models.AuxMetrics) *float64 { return m.AwayProbScoreFirst }, defaults.ScoreFirstProb),
		auxValue(p.Metrics, func(m *models.AuxMetrics) *float64 { return m.HomeProbScoreFirst }, defaults.ScoreFirstProb),
		auxValue(p.Metrics, func(m *models.AuxMetrics) *float64 { return m.AwayFirstGoalWinUplift }, defaults.FirstGoalUplift),
		auxValue(p.Metrics, func(m *models.AuxMetrics) *float64 { return m.HomeFirstGoalWinUplift }, defaults.FirstGoalUplift),
	}
}

func auxValue(m *models.AuxMetrics, field func(*models.AuxMetrics) *float64, fallback float64) float64 {
	if m == nil {
		return fallback
	}
	if value := field(m); value != nil {
		return *value
	}
	return fallback
}
