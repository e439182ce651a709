package meta

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// separableGames builds a chronological set where the home side wins exactly
// when its probability is high, so a logistic model can fit it.
func separableGames(n int) []models.Prediction {
	records := make([]models.Prediction, n)
	start := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := range records {
		homeProb := 0.8
		winner := models.SideHome
		if i%2 == 0 {
			homeProb = 0.2
			winner = models.SideAway
		}
		records[i] = models.Prediction{
			Date:        start.AddDate(0, 0, i),
			DateValid:   true,
			AwayWinProb: 1 - homeProb,
			HomeWinProb: homeProb,
			Winner:      winner,
		}
	}
	return records
}

func TestTrainerConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrainerConfig)
	}{
		{name: "negative learning rate", mutate: func(c *TrainerConfig) { c.LearningRate = -0.1 }},
		{name: "zero epochs", mutate: func(c *TrainerConfig) { c.Epochs = 0 }},
		{name: "train fraction zero", mutate: func(c *TrainerConfig) { c.TrainFraction = 0 }},
		{name: "train fraction one", mutate: func(c *TrainerConfig) { c.TrainFraction = 1 }},
		{name: "invalid positive side", mutate: func(c *TrainerConfig) { c.PositiveSide = "draw" }},
		{name: "invalid feature default", mutate: func(c *TrainerConfig) { c.Defaults.FlipRate = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTrainerConfig()
			tt.mutate(&cfg)
			_, err := Train(separableGames(50), cfg, testLogger())
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidConfig)
		})
	}
}

func TestTrainRejectsEmptyInput(t *testing.T) {
	_, err := Train(nil, DefaultTrainerConfig(), testLogger())
	assert.ErrorIs(t, err, models.ErrNoPredictions)
}

func TestTrainRejectsUnsplittableInput(t *testing.T) {
	_, err := Train(separableGames(1), DefaultTrainerConfig(), testLogger())
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestTrainIsDeterministic(t *testing.T) {
	records := separableGames(60)
	cfg := DefaultTrainerConfig()

	first, err := Train(records, cfg, testLogger())
	require.NoError(t, err)
	second, err := Train(records, cfg, testLogger())
	require.NoError(t, err)

	// bit-identical, not merely close
	assert.Equal(t, first.Model.Weights, second.Model.Weights)
	assert.Equal(t, first.Model.Bias, second.Model.Bias)
	assert.Equal(t, first.Train, second.Train)
	assert.Equal(t, first.Test, second.Test)
}

func TestTrainLearnsSeparableData(t *testing.T) {
	records := separableGames(60)
	result, err := Train(records, DefaultTrainerConfig(), testLogger())
	require.NoError(t, err)

	assert.Equal(t, 42, result.TrainSize)
	assert.Equal(t, 18, result.TestSize)
	assert.GreaterOrEqual(t, result.Train.Accuracy, 0.9, "train accuracy")
	assert.GreaterOrEqual(t, result.Test.Accuracy, 0.9, "test accuracy")
	assert.InDelta(t, 0, result.OverfitGap, 0.2)
}

func TestTrainChronologicalSplitOrder(t *testing.T) {
	// flip the outcome pattern late in the series; with no shuffling the
	// flipped games must all land in the test segment
	records := separableGames(50)
	for i := 40; i < 50; i++ {
		records[i].Winner = records[i].Winner.Opposite()
	}

	cfg := DefaultTrainerConfig()
	cfg.TrainFraction = 0.8
	result, err := Train(records, cfg, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 40, result.TrainSize)
	assert.Equal(t, 10, result.TestSize)
	assert.GreaterOrEqual(t, result.Train.Accuracy, 0.9)
	assert.LessOrEqual(t, result.Test.Accuracy, 0.2, "flipped outcomes must not leak into training")
}

func TestTrainPositiveSideConfigurable(t *testing.T) {
	records := separableGames(60)

	homeCfg := DefaultTrainerConfig()
	awayCfg := DefaultTrainerConfig()
	awayCfg.PositiveSide = models.SideAway

	homeResult, err := Train(records, homeCfg, testLogger())
	require.NoError(t, err)
	awayResult, err := Train(records, awayCfg, testLogger())
	require.NoError(t, err)

	// mirrored polarity learns a mirrored model but the same fit quality
	assert.InDelta(t, homeResult.Test.Accuracy, awayResult.Test.Accuracy, 1e-9)
	assert.InDelta(t, homeResult.Model.Bias, -awayResult.Model.Bias, 1e-6)
}

func TestModelCoefficientsNamed(t *testing.T) {
	result, err := Train(separableGames(60), DefaultTrainerConfig(), testLogger())
	require.NoError(t, err)

	coefficients := result.Model.Coefficients()
	require.Len(t, coefficients, FeatureCount())
	assert.Equal(t, FeatureNames()[0], coefficients[0].Feature)

	// on this data home_win_prob must carry positive weight for a
	// home-positive model
	var homeWeight float64
	for _, c := range coefficients {
		if c.Feature == "home_win_prob" {
			homeWeight = c.Weight
		}
	}
	assert.Greater(t, homeWeight, 0.0)
}

func TestModelPredictRange(t *testing.T) {
	result, err := Train(separableGames(60), DefaultTrainerConfig(), testLogger())
	require.NoError(t, err)

	p := result.Model.Predict(models.Prediction{AwayWinProb: 0.3, HomeWinProb: 0.7})
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1.0)
}
