package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Side identifies which team a probability or outcome refers to.
type Side string

const (
	SideAway    Side = "away"
	SideHome    Side = "home"
	SideUnknown Side = ""
)

// RawPrediction represents a prediction record as emitted by the upstream
// prediction pipeline. Probabilities may be on a [0,1] or [0,100] scale and
// may arrive as JSON numbers or numeric strings.
type RawPrediction struct {
	Date          string      `json:"date"`
	AwayTeam      string      `json:"away_team"`
	HomeTeam      string      `json:"home_team"`
	AwayWinProb   json.Number `json:"predicted_away_win_prob"`
	HomeWinProb   json.Number `json:"predicted_home_win_prob"`
	ActualWinner  string      `json:"actual_winner,omitempty"`
	ContextBucket string      `json:"context_bucket,omitempty"`
	MetricsUsed   *AuxMetrics `json:"metrics_used,omitempty"`
}

// AuxMetrics holds the optional auxiliary model metrics attached to a
// prediction. All fields are pointers so absence is distinguishable from zero.
type AuxMetrics struct {
	HomeGoals              *float64 `json:"home_goals,omitempty"`
	AwayGoals              *float64 `json:"away_goals,omitempty"`
	HomeXG                 *float64 `json:"home_xg,omitempty"`
	AwayXG                 *float64 `json:"away_xg,omitempty"`
	HomeCorsiPct           *float64 `json:"home_corsi_pct,omitempty"`
	AwayCorsiPct           *float64 `json:"away_corsi_pct,omitempty"`
	MonteCarloFlipRate     *float64 `json:"monte_carlo_flip_rate,omitempty"`
	AwayProbScoreFirst     *float64 `json:"away_prob_score_first,omitempty"`
	HomeProbScoreFirst     *float64 `json:"home_prob_score_first,omitempty"`
	AwayFirstGoalWinUplift *float64 `json:"away_first_goal_win_uplift,omitempty"`
	HomeFirstGoalWinUplift *float64 `json:"home_first_goal_win_uplift,omitempty"`
}

// Prediction represents a cleaned, normalized prediction record. After
// loading, AwayWinProb+HomeWinProb sum to 1 and Winner is resolved.
type Prediction struct {
	Date          time.Time   `json:"date"`
	RawDate       string      `json:"raw_date"`
	DateValid     bool        `json:"date_valid"`
	AwayTeam      string      `json:"away_team"`
	HomeTeam      string      `json:"home_team"`
	AwayWinProb   float64     `json:"away_win_prob"`
	HomeWinProb   float64     `json:"home_win_prob"`
	Winner        Side        `json:"winner"`
	ContextBucket string      `json:"context_bucket"`
	Metrics       *AuxMetrics `json:"metrics,omitempty"`
}

// Spread returns the absolute gap between the two win probabilities.
func (p Prediction) Spread() float64 {
	spread := p.AwayWinProb - p.HomeWinProb
	if spread < 0 {
		spread = -spread
	}
	return spread
}

// Confidence returns the probability assigned to the favored side.
func (p Prediction) Confidence() float64 {
	if p.AwayWinProb > p.HomeWinProb {
		return p.AwayWinProb
	}
	return p.HomeWinProb
}

// WinnerProb returns the probability the model assigned to the side that
// actually won.
func (p Prediction) WinnerProb() float64 {
	if p.Winner == SideAway {
		return p.AwayWinProb
	}
	return p.HomeWinProb
}

// Label is the single labeling function shared by every component: 1 when
// the actual winner is the positive side, 0 otherwise. Keeping one function
// here prevents components from silently disagreeing on polarity.
func (p Prediction) Label(positive Side) float64 {
	if p.Winner == positive {
		return 1.0
	}
	return 0.0
}

// ResolveWinner maps a raw actual_winner value to a Side, matching either
// the literal "away"/"home" or one of the team identifiers. Returns
// SideUnknown when the value cannot be resolved.
func ResolveWinner(raw, awayTeam, homeTeam string) Side {
	value := strings.TrimSpace(raw)
	if value == "" {
		return SideUnknown
	}
	switch strings.ToLower(value) {
	case "away":
		return SideAway
	case "home":
		return SideHome
	}
	if awayTeam != "" && strings.EqualFold(value, awayTeam) {
		return SideAway
	}
	if homeTeam != "" && strings.EqualFold(value, homeTeam) {
		return SideHome
	}
	return SideUnknown
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	switch s {
	case SideAway:
		return SideHome
	case SideHome:
		return SideAway
	default:
		return SideUnknown
	}
}

// Valid reports whether the side is a resolved value.
func (s Side) Valid() bool {
	return s == SideAway || s == SideHome
}
