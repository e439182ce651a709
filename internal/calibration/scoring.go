package calibration

import (
	"math"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// probEpsilon bounds the probability fed to the logarithm so a certain-but-
// wrong prediction scores a large finite log-loss instead of failing.
const probEpsilon = 1e-6

// ScoringPositive is the positive class for primary-prediction scoring: a
// label of 1 means the away team won.
const ScoringPositive = models.SideAway

// Metrics represents evaluation metrics over a finite set of predictions.
// Brier and LogLoss are nil when N is zero; an empty set is a valid result,
// never an error.
type Metrics struct {
	N        int      `json:"n"`
	Accuracy float64  `json:"accuracy"`
	Brier    *float64 `json:"brier"`
	LogLoss  *float64 `json:"log_loss"`
}

// Evaluate scores cleaned prediction records against realized outcomes.
// Pure function; works on any subset (full set, bucket, time segment).
func Evaluate(records []models.Prediction) Metrics {
	probs := make([]float64, len(records))
	labels := make([]float64, len(records))
	for i, record := range records {
		probs[i] = record.AwayWinProb
		labels[i] = record.Label(ScoringPositive)
	}
	return EvaluateBinary(probs, labels)
}

// EvaluateBinary computes accuracy, Brier score and log-loss for predicted
// positive-class probabilities against 0/1 labels. The predicted class is
// positive only when p > 0.5, so a tied pair resolves to the negative class;
// with away as the positive class that keeps the historical tie-goes-to-home
// behavior. The same function scores the meta-model, so both model families
// share one classification rule.
func EvaluateBinary(probs, labels []float64) Metrics {
	n := len(probs)
	if n == 0 {
		return Metrics{}
	}

	correct := 0
	brierSum := 0.0
	logLossSum := 0.0
	for i := range probs {
		p := probs[i]
		y := labels[i]

		predicted := 0.0
		if p > 0.5 {
			predicted = 1.0
		}
		if predicted == y {
			correct++
		}

		diff := p - y
		brierSum += diff * diff

		pTrue := p
		if y == 0 {
			pTrue = 1 - p
		}
		logLossSum += -math.Log(clampProb(pTrue))
	}

	brier := brierSum / float64(n)
	logLoss := logLossSum / float64(n)
	return Metrics{
		N:        n,
		Accuracy: float64(correct) / float64(n),
		Brier:    &brier,
		LogLoss:  &logLoss,
	}
}

func clampProb(p float64) float64 {
	if p < probEpsilon {
		return probEpsilon
	}
	if p > 1-probEpsilon {
		return 1 - probEpsilon
	}
	return p
}
