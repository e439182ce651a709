package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/metrics"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// LoadSummary summarizes a loading pass for reporting.
type LoadSummary struct {
	Total   int                `json:"total"`
	Kept    int                `json:"kept"`
	Dropped map[DropReason]int `json:"dropped,omitempty"`
}

// EvaluationReport represents a full calibration evaluation over one cleaned
// dataset: overall metrics, bucket breakdowns, seasons and time splits.
type EvaluationReport struct {
	RunID             uuid.UUID       `json:"run_id"`
	DatasetID         uuid.UUID       `json:"dataset_id"`
	GeneratedAt       time.Time       `json:"generated_at"`
	Loaded            LoadSummary     `json:"loaded"`
	Overall           Metrics         `json:"overall"`
	ContextBuckets    []BucketMetrics `json:"context_buckets"`
	SpreadBuckets     []BucketMetrics `json:"spread_buckets"`
	ConfidenceBuckets []BucketMetrics `json:"confidence_buckets"`
	Seasons           []BucketMetrics `json:"seasons"`
	TimeSplits        SplitReport     `json:"time_splits"`
}

// BuildReport runs the full evaluation family over a load result.
func BuildReport(result LoadResult, cfg SplitConfig, logger *logrus.Logger) (EvaluationReport, error) {
	splits, err := RunTimeSplits(result.Records, cfg, logger)
	if err != nil {
		return EvaluationReport{}, err
	}
	metrics.EvaluationsTotal.Inc()

	return EvaluationReport{
		RunID:       uuid.New(),
		DatasetID:   DatasetFingerprint(result.Records),
		GeneratedAt: time.Now().UTC(),
		Loaded: LoadSummary{
			Total:   result.Total,
			Kept:    result.Kept(),
			Dropped: result.Dropped,
		},
		Overall:           Evaluate(result.Records),
		ContextBuckets:    ByContext(result.Records),
		SpreadBuckets:     BySpread(result.Records),
		ConfidenceBuckets: ByConfidence(result.Records),
		Seasons:           BySeason(result.Records),
		TimeSplits:        splits,
	}, nil
}

// DatasetFingerprint derives a stable UUID from the cleaned record set so
// repeated runs over identical data are identifiable across reports.
func DatasetFingerprint(records []models.Prediction) uuid.UUID {
	var builder strings.Builder
	for _, record := range records {
		fmt.Fprintf(&builder, "%s|%s|%s|%.6f|%.6f|%s\n",
			record.RawDate, record.AwayTeam, record.HomeTeam,
			record.AwayWinProb, record.HomeWinProb, record.Winner)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(builder.String()))
}

// GenerateConsoleReport formats an evaluation report for terminal output.
func GenerateConsoleReport(report EvaluationReport) string {
	var builder strings.Builder
	builder.WriteString("Win-Probability Calibration Report\n")
	builder.WriteString("==================================\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", report.RunID))
	builder.WriteString(fmt.Sprintf("Dataset: %s\n", report.DatasetID))
	builder.WriteString(fmt.Sprintf("Records: %d loaded, %d kept, %d dropped\n",
		report.Loaded.Total, report.Loaded.Kept, report.Loaded.Total-report.Loaded.Kept))
	builder.WriteString("\nOverall\n")
	writeMetricsRow(&builder, "all", report.Overall)

	writeBucketSection(&builder, "By Context", report.ContextBuckets)
	writeBucketSection(&builder, "By Spread", report.SpreadBuckets)
	writeBucketSection(&builder, "By Confidence", report.ConfidenceBuckets)
	writeBucketSection(&builder, "By Season", report.Seasons)

	builder.WriteString("\nTime Splits\n")
	if report.TimeSplits.Insufficient {
		builder.WriteString(fmt.Sprintf("  skipped: %s\n", report.TimeSplits.Reason))
	} else {
		for _, split := range report.TimeSplits.Splits {
			label := fmt.Sprintf("train %.0f%% (test %d)", split.Fraction*100, split.TestSize)
			writeMetricsRow(&builder, label, split.Test)
		}
	}

	return builder.String()
}

func writeBucketSection(builder *strings.Builder, title string, buckets []BucketMetrics) {
	builder.WriteString("\n" + title + "\n")
	for _, bucket := range buckets {
		writeMetricsRow(builder, bucket.Label, bucket.Metrics)
	}
}

func writeMetricsRow(builder *strings.Builder, label string, m Metrics) {
	builder.WriteString(fmt.Sprintf("  %-22s n=%-5d accuracy=%.4f brier=%s log_loss=%s\n",
		label, m.N, m.Accuracy, formatMetric(m.Brier), formatMetric(m.LogLoss)))
}

func formatMetric(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *value)
}

// ExportToJSON writes an evaluation report to a JSON file.
func ExportToJSON(report EvaluationReport, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}
