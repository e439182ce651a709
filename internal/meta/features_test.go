package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildFeaturesAppliesDefaults(t *testing.T) {
	p := models.Prediction{AwayWinProb: 0.6, HomeWinProb: 0.4}
	x := BuildFeatures(p, DefaultFeatureDefaults())

	require.Len(t, x, FeatureCount())
	assert.Equal(t, 0.6, x[0], "away_win_prob")
	assert.Equal(t, 0.4, x[1], "home_win_prob")
	assert.InDelta(t, 0.2, x[2], 1e-12, "margin")
	assert.Equal(t, 0.6, x[3], "confidence")
	assert.Equal(t, x[2], x[4], "spread mirrors margin")
	assert.Equal(t, 0.0, x[5], "flip_rate default")
	assert.Equal(t, 0.5, x[6], "away_score_first default")
	assert.Equal(t, 0.5, x[7], "home_score_first default")
	assert.Equal(t, 0.2, x[8], "away_uplift default")
	assert.Equal(t, 0.2, x[9], "home_uplift default")
}

func TestBuildFeaturesUsesAuxMetricsWhenPresent(t *testing.T) {
	p := models.Prediction{
		AwayWinProb: 0.55,
		HomeWinProb: 0.45,
		Metrics: &models.AuxMetrics{
			MonteCarloFlipRate:     floatPtr(0.12),
			AwayProbScoreFirst:     floatPtr(0.61),
			HomeProbScoreFirst:     floatPtr(0.39),
			AwayFirstGoalWinUplift: floatPtr(0.25),
			HomeFirstGoalWinUplift: floatPtr(0.31),
		},
	}
	x := BuildFeatures(p, DefaultFeatureDefaults())

	assert.Equal(t, 0.12, x[5])
	assert.Equal(t, 0.61, x[6])
	assert.Equal(t, 0.39, x[7])
	assert.Equal(t, 0.25, x[8])
	assert.Equal(t, 0.31, x[9])
}

func TestBuildFeaturesPartialAuxMetrics(t *testing.T) {
	p := models.Prediction{
		AwayWinProb: 0.5,
		HomeWinProb: 0.5,
		Metrics:     &models.AuxMetrics{MonteCarloFlipRate: floatPtr(0.08)},
	}
	x := BuildFeatures(p, DefaultFeatureDefaults())

	assert.Equal(t, 0.08, x[5], "present field used")
	assert.Equal(t, 0.5, x[6], "absent field falls back to default")
}

func TestFeatureNamesMatchVectorOrder(t *testing.T) {
	names := FeatureNames()
	require.Len(t, names, FeatureCount())
	assert.Equal(t, "away_win_prob", names[0])
	assert.Equal(t, "home_uplift", names[len(names)-1])

	// returned slice is a copy
	names[0] = "mutated"
	assert.Equal(t, "away_win_prob", FeatureNames()[0])
}
