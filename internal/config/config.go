// Package config provides configuration management for the calibration engine.
package config

import (
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	TimeSplit  TimeSplitConfig  `mapstructure:"time_split" validate:"required"`
	MetaModel  MetaModelConfig  `mapstructure:"meta_model" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EvaluationConfig represents input/output settings for evaluation runs
type EvaluationConfig struct {
	InputPath     string `mapstructure:"input_path" validate:"required"`
	OutputPath    string `mapstructure:"output_path"`
	ExportEnabled bool   `mapstructure:"export_enabled"`
}

// TimeSplitConfig represents chronological split configuration
type TimeSplitConfig struct {
	TrainFractions []float64 `mapstructure:"train_fractions" validate:"required,min=1,dive,gt=0,lt=1"`
	MinRecords     int       `mapstructure:"min_records" validate:"required,gt=0"`
}

// MetaModelConfig represents meta-model training configuration
type MetaModelConfig struct {
	LearningRate  float64               `mapstructure:"learning_rate" validate:"required,gt=0"`
	Epochs        int                   `mapstructure:"epochs" validate:"required,gt=0"`
	TrainFraction float64               `mapstructure:"train_fraction" validate:"required,gt=0,lt=1"`
	PositiveSide  string                `mapstructure:"positive_side" validate:"required,side"`
	Defaults      FeatureDefaultsConfig `mapstructure:"feature_defaults"`
}

// FeatureDefaultsConfig enumerates fallback values for optional auxiliary
// features
type FeatureDefaultsConfig struct {
	FlipRate        float64 `mapstructure:"flip_rate" validate:"gte=0,lte=1"`
	ScoreFirstProb  float64 `mapstructure:"score_first_prob" validate:"gte=0,lte=1"`
	FirstGoalUplift float64 `mapstructure:"first_goal_uplift" validate:"gte=0,lte=1"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Side returns the configured meta-model positive class as a models.Side.
func (m MetaModelConfig) Side() models.Side {
	return models.Side(m.PositiveSide)
}
