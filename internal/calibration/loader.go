// Package calibration evaluates pre-game win-probability predictions against
// realized outcomes: normalization, scoring, bucketed breakdowns and
// chronological train/test splits.
package calibration

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/metrics"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// DropReason labels why a raw record was excluded during loading.
type DropReason string

const (
	DropNoOutcome  DropReason = "no_outcome"
	DropMalformed  DropReason = "malformed_probability"
	DropDegenerate DropReason = "degenerate_probability"
)

// Date layouts accepted from the upstream pipeline, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// LoadResult represents the outcome of loading a batch of raw predictions.
// Records are cleaned, normalized and sorted ascending by date; records
// whose date could not be parsed sort first.
type LoadResult struct {
	Records []models.Prediction
	Total   int
	Dropped map[DropReason]int
}

// Kept returns the number of records that survived loading.
func (r LoadResult) Kept() int {
	return len(r.Records)
}

// DroppedTotal returns the number of records excluded during loading.
func (r LoadResult) DroppedTotal() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// Load cleans and normalizes raw prediction records. Malformed input never
// fails the whole batch: unusable records are dropped and counted per
// reason. Surviving records are stable-sorted chronologically, which the
// time-split engine relies on.
func Load(raw []models.RawPrediction, logger *logrus.Logger) LoadResult {
	result := LoadResult{
		Total:   len(raw),
		Dropped: make(map[DropReason]int),
	}

	for _, record := range raw {
		winner := models.ResolveWinner(record.ActualWinner, record.AwayTeam, record.HomeTeam)
		if !winner.Valid() {
			result.drop(DropNoOutcome, logger, record)
			continue
		}

		awayProb, homeProb, reason := normalizePair(record.AwayWinProb, record.HomeWinProb)
		if reason != "" {
			result.drop(reason, logger, record)
			continue
		}

		context := record.ContextBucket
		if context == "" {
			context = DefaultContext
		}

		date, valid := parseDate(record.Date)
		result.Records = append(result.Records, models.Prediction{
			Date:          date,
			RawDate:       record.Date,
			DateValid:     valid,
			AwayTeam:      record.AwayTeam,
			HomeTeam:      record.HomeTeam,
			AwayWinProb:   awayProb,
			HomeWinProb:   homeProb,
			Winner:        winner,
			ContextBucket: context,
			Metrics:       record.MetricsUsed,
		})
	}

	// Stable sort so unparsable dates (zero time) land first in a fixed
	// order, keeping downstream chronological splits deterministic.
	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].Date.Before(result.Records[j].Date)
	})

	metrics.PredictionsLoadedTotal.Add(float64(result.Kept()))
	logger.WithFields(logrus.Fields{
		"total":   result.Total,
		"kept":    result.Kept(),
		"dropped": result.DroppedTotal(),
	}).Info("Loaded prediction records")

	return result
}

func (r *LoadResult) drop(reason DropReason, logger *logrus.Logger, record models.RawPrediction) {
	r.Dropped[reason]++
	metrics.PredictionsDroppedTotal.WithLabelValues(string(reason)).Inc()
	logger.WithFields(logrus.Fields{
		"reason":    string(reason),
		"date":      record.Date,
		"away_team": record.AwayTeam,
		"home_team": record.HomeTeam,
	}).Debug("Dropped prediction record")
}

// normalizePair fixes the probability scale and re-normalizes the pair so it
// sums to 1. Parsing uses decimal arithmetic because upstream emits the
// values as JSON numbers or numeric strings on either a [0,1] or [0,100]
// scale. Returns a non-empty DropReason when the pair is unusable.
func normalizePair(awayRaw, homeRaw json.Number) (float64, float64, DropReason) {
	away, err := decimal.NewFromString(awayRaw.String())
	if err != nil {
		return 0, 0, DropMalformed
	}
	home, err := decimal.NewFromString(homeRaw.String())
	if err != nil {
		return 0, 0, DropMalformed
	}

	if away.IsNegative() || home.IsNegative() {
		return 0, 0, DropMalformed
	}

	one := decimal.NewFromInt(1)
	if away.GreaterThan(one) || home.GreaterThan(one) {
		hundred := decimal.NewFromInt(100)
		away = away.Div(hundred)
		home = home.Div(hundred)
	}

	sum := away.Add(home)
	if sum.LessThanOrEqual(decimal.Zero) {
		return 0, 0, DropDegenerate
	}

	return away.Div(sum).InexactFloat64(), home.Div(sum).InexactFloat64(), ""
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
