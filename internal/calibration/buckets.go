package calibration

import (
	"sort"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// DefaultContext is the bucket assigned to records without a context label.
const DefaultContext = "neutral"

// BucketMetrics pairs a bucket label with its evaluation metrics.
type BucketMetrics struct {
	Label   string  `json:"label"`
	Metrics Metrics `json:"metrics"`
}

type ladderBand struct {
	label string
	lo    float64
	hi    float64
}

// Spread bands over |pa - ph|; confidence bands over max(pa, ph). The last
// band of each ladder is open-ended so every record maps to exactly one band.
var (
	spreadBands = []ladderBand{
		{"<5%", 0.00, 0.05},
		{"5-10%", 0.05, 0.10},
		{"10-15%", 0.10, 0.15},
		{"15-20%", 0.15, 0.20},
		{">=20%", 0.20, 1.0},
	}
	confidenceBands = []ladderBand{
		{"50-55%", 0.50, 0.55},
		{"55-60%", 0.55, 0.60},
		{"60-65%", 0.60, 0.65},
		{"65-100%", 0.65, 1.0},
	}
)

// ByContext groups records by their context bucket and scores each group.
// Output is sorted by label for determinism.
func ByContext(records []models.Prediction) []BucketMetrics {
	groups := make(map[string][]models.Prediction)
	for _, record := range records {
		label := record.ContextBucket
		if label == "" {
			label = DefaultContext
		}
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

// BySpread partitions records by the gap between the two win probabilities
// and scores each band. Empty bands are reported with n=0.
func BySpread(records []models.Prediction) []BucketMetrics {
	return byLadder(records, spreadBands, models.Prediction.Spread)
}

// ByConfidence partitions records by the favored side's probability and
// scores each band. Empty bands are reported with n=0.
func ByConfidence(records []models.Prediction) []BucketMetrics {
	return byLadder(records, confidenceBands, models.Prediction.Confidence)
}

func byLadder(records []models.Prediction, bands []ladderBand, value func(models.Prediction) float64) []BucketMetrics {
	groups := make([][]models.Prediction, len(bands))
	for _, record := range records {
		idx := bandIndex(bands, value(record))
		groups[idx] = append(groups[idx], record)
	}

	results := make([]BucketMetrics, len(bands))
	for i, band := range bands {
		results[i] = BucketMetrics{Label: band.label, Metrics: Evaluate(groups[i])}
	}
	return results
}

// bandIndex maps a value to its band. Values below the first bound (float
// jitter around 0.5 for confidence) clamp into the first band and values at
// or above the last bound into the last, so the ladder is a true partition.
func bandIndex(bands []ladderBand, v float64) int {
	for i, band := range bands {
		if v < band.hi {
			if v < band.lo {
				return 0
			}
			return i
		}
	}
	return len(bands) - 1
}
