package meta

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/calibration"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/metrics"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// TrainerConfig configures logistic-regression training. Hyperparameters are
// explicit inputs so identical configuration always reproduces identical
// weights.
type TrainerConfig struct {
	LearningRate  float64         `mapstructure:"learning_rate" validate:"gt=0"`
	Epochs        int             `mapstructure:"epochs" validate:"gt=0"`
	TrainFraction float64         `mapstructure:"train_fraction" validate:"gt=0,lt=1"`
	PositiveSide  models.Side     `mapstructure:"positive_side"`
	Defaults      FeatureDefaults `mapstructure:"feature_defaults"`
}

// DefaultTrainerConfig returns the standard trainer configuration. The
// positive class defaults to home, the convention the upstream pipeline has
// always used for its stacked model.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		LearningRate:  0.15,
		Epochs:        400,
		TrainFraction: 0.7,
		PositiveSide:  models.SideHome,
		Defaults:      DefaultFeatureDefaults(),
	}
}

// Validate validates trainer config parameters, failing fast on programming
// errors before any data is touched.
func (c TrainerConfig) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive", models.ErrInvalidConfig)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epoch count must be positive", models.ErrInvalidConfig)
	}
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return fmt.Errorf("%w: train fraction must be in (0, 1)", models.ErrInvalidConfig)
	}
	if !c.PositiveSide.Valid() {
		return fmt.Errorf("%w: positive side must be %q or %q", models.ErrInvalidConfig, models.SideAway, models.SideHome)
	}
	if err := validateDefaults(c.Defaults); err != nil {
		return err
	}
	return nil
}

func validateDefaults(d FeatureDefaults) error {
	for name, value := range map[string]float64{
		"flip_rate":         d.FlipRate,
		"score_first_prob":  d.ScoreFirstProb,
		"first_goal_uplift": d.FirstGoalUplift,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%w: feature default %s must be in [0, 1]", models.ErrInvalidConfig, name)
		}
	}
	return nil
}

// Coefficient pairs a feature name with its learned weight.
type Coefficient struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Model represents a trained logistic-regression meta-model.
type Model struct {
	Weights  []float64       `json:"weights"`
	Bias     float64         `json:"bias"`
	Positive models.Side     `json:"positive_side"`
	Defaults FeatureDefaults `json:"feature_defaults"`
}

// Predict returns the model's probability that the positive side wins.
func (m Model) Predict(p models.Prediction) float64 {
	return sigmoid(dot(m.Weights, BuildFeatures(p, m.Defaults)) + m.Bias)
}

// Coefficients returns the per-feature coefficient table in feature order.
func (m Model) Coefficients() []Coefficient {
	coefficients := make([]Coefficient, len(m.Weights))
	for i, weight := range m.Weights {
		coefficients[i] = Coefficient{Feature: featureNames[i], Weight: weight}
	}
	return coefficients
}

// TrainResult represents a completed training run with its train/test
// evaluation. A pronounced OverfitGap flags instability.
type TrainResult struct {
	Model      Model               `json:"model"`
	TrainSize  int                 `json:"train_size"`
	TestSize   int                 `json:"test_size"`
	Train      calibration.Metrics `json:"train"`
	Test       calibration.Metrics `json:"test"`
	OverfitGap float64             `json:"overfit_gap"`
}

// Train fits a logistic regression by batch gradient descent on binary
// cross-entropy over a chronological train/test split. No shuffling: records
// must arrive in the loader's chronological order so no future game leaks
// into training. Weights and bias start at zero, so identical inputs and
// configuration reproduce bit-identical models.
func Train(records []models.Prediction, cfg TrainerConfig, logger *logrus.Logger) (TrainResult, error) {
	if err := cfg.Validate(); err != nil {
		return TrainResult{}, err
	}
	if len(records) == 0 {
		return TrainResult{}, models.ErrNoPredictions
	}

	cutoff := int(float64(len(records)) * cfg.TrainFraction)
	if cutoff == 0 || cutoff == len(records) {
		return TrainResult{}, fmt.Errorf("%w: %d records cannot be split at fraction %v", models.ErrInsufficientData, len(records), cfg.TrainFraction)
	}
	trainRecords := records[:cutoff]
	testRecords := records[cutoff:]

	features := make([][]float64, len(trainRecords))
	labels := make([]float64, len(trainRecords))
	for i, record := range trainRecords {
		features[i] = BuildFeatures(record, cfg.Defaults)
		labels[i] = record.Label(cfg.PositiveSide)
	}

	started := time.Now()
	weights := make([]float64, FeatureCount())
	bias := 0.0
	gradWeights := make([]float64, FeatureCount())
	n := float64(len(trainRecords))

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradBias := 0.0

		for i, x := range features {
			p := sigmoid(dot(weights, x) + bias)
			residual := p - labels[i]
			for j := range weights {
				gradWeights[j] += residual * x[j]
			}
			gradBias += residual
		}

		for j := range weights {
			weights[j] -= cfg.LearningRate * gradWeights[j] / n
		}
		bias -= cfg.LearningRate * gradBias / n
	}

	model := Model{
		Weights:  weights,
		Bias:     bias,
		Positive: cfg.PositiveSide,
		Defaults: cfg.Defaults,
	}

	trainMetrics := evaluateModel(model, trainRecords, cfg.PositiveSide)
	testMetrics := evaluateModel(model, testRecords, cfg.PositiveSide)

	result := TrainResult{
		Model:      model,
		TrainSize:  len(trainRecords),
		TestSize:   len(testRecords),
		Train:      trainMetrics,
		Test:       testMetrics,
		OverfitGap: trainMetrics.Accuracy - testMetrics.Accuracy,
	}

	metrics.RecordMetaTraining(time.Since(started).Seconds())
	logger.WithFields(logrus.Fields{
		"train_n":        result.TrainSize,
		"test_n":         result.TestSize,
		"train_accuracy": result.Train.Accuracy,
		"test_accuracy":  result.Test.Accuracy,
		"overfit_gap":    result.OverfitGap,
		"epochs":         cfg.Epochs,
	}).Info("Meta-model training completed")

	return result, nil
}

func evaluateModel(model Model, records []models.Prediction, positive models.Side) calibration.Metrics {
	probs := make([]float64, len(records))
	labels := make([]float64, len(records))
	for i, record := range records {
		probs[i] = model.Predict(record)
		labels[i] = record.Label(positive)
	}
	return calibration.EvaluateBinary(probs, labels)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
