// Package main provides the CLI for evaluating and calibrating pre-game
// win-probability predictions.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/calibration"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/config"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/logger"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/meta"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/metrics"
	"github.com/emilyfehr99/Automated-Post-Game-Reports-sub007/internal/models"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	inputPath  string
	outputPath string
	log        *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Path to predictions JSON (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Path for JSON report export (overrides config)")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Evaluate and calibrate pre-game win-probability predictions",
	Long:  `Scores win-probability predictions against realized outcomes, slices performance by context, spread, confidence and season, runs chronological train/test splits, and trains a logistic-regression meta-model on top of the primary predictions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(loaded); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded
		log = logger.NewLogger(cfg.App.LogLevel)
		if inputPath == "" {
			inputPath = cfg.Evaluation.InputPath
		}
		if outputPath == "" {
			outputPath = cfg.Evaluation.OutputPath
		}
		if cfg.Metrics.Enabled {
			startMetricsServer()
		}
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score predictions and report bucketed and time-split metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPredictions()
		if err != nil {
			return err
		}

		splitCfg := calibration.SplitConfig{
			TrainFractions: cfg.TimeSplit.TrainFractions,
			MinRecords:     cfg.TimeSplit.MinRecords,
		}
		report, err := calibration.BuildReport(result, splitCfg, log)
		if err != nil {
			return err
		}

		fmt.Print(calibration.GenerateConsoleReport(report))

		if cfg.Evaluation.ExportEnabled || cmd.Flags().Changed("output") {
			if err := calibration.ExportToJSON(report, outputPath); err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}
			log.WithField("path", outputPath).Info("Report exported")
		}
		return nil
	},
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Train and evaluate the logistic-regression meta-model",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadPredictions()
		if err != nil {
			return err
		}

		trainerCfg := meta.TrainerConfig{
			LearningRate:  cfg.MetaModel.LearningRate,
			Epochs:        cfg.MetaModel.Epochs,
			TrainFraction: cfg.MetaModel.TrainFraction,
			PositiveSide:  cfg.MetaModel.Side(),
			Defaults: meta.FeatureDefaults{
				FlipRate:        cfg.MetaModel.Defaults.FlipRate,
				ScoreFirstProb:  cfg.MetaModel.Defaults.ScoreFirstProb,
				FirstGoalUplift: cfg.MetaModel.Defaults.FirstGoalUplift,
			},
		}

		trained, err := meta.Train(result.Records, trainerCfg, log)
		if err != nil {
			return fmt.Errorf("meta-model training failed: %w", err)
		}

		fmt.Print(formatTrainResult(trained))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("calibrate %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadPredictions() (calibration.LoadResult, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return calibration.LoadResult{}, fmt.Errorf("failed to read predictions file: %w", err)
	}
	var raw []models.RawPrediction
	if err := json.Unmarshal(data, &raw); err != nil {
		return calibration.LoadResult{}, fmt.Errorf("failed to parse predictions file: %w", err)
	}
	result := calibration.Load(raw, log)
	if result.Kept() == 0 {
		return calibration.LoadResult{}, fmt.Errorf("%w in %s", models.ErrNoPredictions, inputPath)
	}
	return result, nil
}

func formatTrainResult(result meta.TrainResult) string {
	out := "Meta-Model Report\n"
	out += "=================\n"
	out += fmt.Sprintf("Train: n=%d accuracy=%.4f\n", result.TrainSize, result.Train.Accuracy)
	out += fmt.Sprintf("Test:  n=%d accuracy=%.4f\n", result.TestSize, result.Test.Accuracy)
	out += fmt.Sprintf("Overfit gap: %.4f\n", result.OverfitGap)
	out += fmt.Sprintf("Bias: %+.6f\n", result.Model.Bias)
	out += "Coefficients:\n"
	for _, coefficient := range result.Model.Coefficients() {
		out += fmt.Sprintf("  %-18s %+.6f\n", coefficient.Feature, coefficient.Weight)
	}
	return out
}

func startMetricsServer() {
	metrics.InitRegistry()
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()
	log.WithField("addr", addr).Info("Metrics server started")
}
