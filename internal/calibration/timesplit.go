package calibration

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/metrics"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// SeasonUnknown labels records whose date could not be parsed.
const SeasonUnknown = "unknown"

// SplitConfig configures chronological train/test evaluation.
type SplitConfig struct {
	// TrainFractions are the fractions of the (chronologically sorted)
	// record set reserved for training at each split.
	TrainFractions []float64
	// MinRecords is the smallest cleaned record count for which a split is
	// statistically meaningful.
	MinRecords int
}

// DefaultSplitConfig returns the standard split configuration.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		TrainFractions: []float64{0.6, 0.7, 0.8},
		MinRecords:     50,
	}
}

// Validate validates split config parameters. Configuration problems are
// programming errors and fail fast, unlike data-quality problems.
func (c SplitConfig) Validate() error {
	if len(c.TrainFractions) == 0 {
		return fmt.Errorf("%w: at least one train fraction is required", models.ErrInvalidConfig)
	}
	for _, fraction := range c.TrainFractions {
		if fraction <= 0 || fraction >= 1 {
			return fmt.Errorf("%w: train fraction %v must be in (0, 1)", models.ErrInvalidConfig, fraction)
		}
	}
	if c.MinRecords <= 0 {
		return fmt.Errorf("%w: min records must be positive", models.ErrInvalidConfig)
	}
	return nil
}

// FractionSplit represents one chronological split. Only records after the
// cutoff are scored; the training segment is never evaluated, so fit quality
// cannot masquerade as generalization.
type FractionSplit struct {
	Fraction  float64 `json:"fraction"`
	Cutoff    int     `json:"cutoff"`
	TrainSize int     `json:"train_size"`
	TestSize  int     `json:"test_size"`
	Test      Metrics `json:"test"`
}

// SplitReport represents the outcome of time-aware split evaluation.
type SplitReport struct {
	Total        int             `json:"total"`
	Insufficient bool            `json:"insufficient"`
	Reason       string          `json:"reason,omitempty"`
	Splits       []FractionSplit `json:"splits,omitempty"`
}

// RunTimeSplits evaluates held-out future games at each configured train
// fraction. Records must already be chronologically sorted, which Load
// guarantees. Below MinRecords the engine degrades to an explanatory
// insufficient-data report instead of attempting a split.
func RunTimeSplits(records []models.Prediction, cfg SplitConfig, logger *logrus.Logger) (SplitReport, error) {
	if err := cfg.Validate(); err != nil {
		return SplitReport{}, err
	}

	report := SplitReport{Total: len(records)}
	if len(records) < cfg.MinRecords {
		report.Insufficient = true
		report.Reason = fmt.Sprintf("need at least %d completed games for a chronological split, have %d", cfg.MinRecords, len(records))
		logger.WithFields(logrus.Fields{
			"total": len(records),
			"min":   cfg.MinRecords,
		}).Warn("Skipping time split: insufficient data")
		return report, nil
	}

	for _, fraction := range cfg.TrainFractions {
		cutoff := int(float64(len(records)) * fraction)
		test := records[cutoff:]
		report.Splits = append(report.Splits, FractionSplit{
			Fraction:  fraction,
			Cutoff:    cutoff,
			TrainSize: cutoff,
			TestSize:  len(test),
			Test:      Evaluate(test),
		})
	}

	metrics.TimeSplitRunsTotal.Inc()
	return report, nil
}

// SeasonLabel derives the season a game belongs to: a season spans September
// of year Y through the following calendar year.
func SeasonLabel(p models.Prediction) string {
	if !p.DateValid {
		return SeasonUnknown
	}
	year := p.Date.Year()
	if p.Date.Month() >= 9 {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// BySeason groups records by season and scores each season. Output is sorted
// by label; "unknown" sorts after the year-labeled seasons.
func BySeason(records []models.Prediction) []BucketMetrics {
	groups := make(map[string][]models.Prediction)
	for _, record := range records {
		label := SeasonLabel(record)
		groups[label] = append(groups[label], record)
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	results := make([]BucketMetrics, 0, len(labels))
	for _, label := range labels {
		results = append(results, BucketMetrics{Label: label, Metrics: Evaluate(groups[label])})
	}
	return results
}
