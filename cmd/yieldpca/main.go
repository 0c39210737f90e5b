// Command yieldpca runs a principal component decomposition of Treasury
// yield curve history and writes the result tables as CSV files.
//
// Input comes either from a local CSV file (-data-file) or, when a FRED
// API key is configured, directly from the FRED observations API for the
// requested date range.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"yieldpca/internal/config"
	"yieldpca/internal/fred"
	"yieldpca/internal/infrastructure"
	"yieldpca/internal/yieldcurve"
)

func main() {
	dataFile := flag.String("data-file", "", "CSV file with yield history (skips the FRED download)")
	start := flag.String("start", "", "history start date, YYYY-MM-DD (FRED download only)")
	end := flag.String("end", "", "history end date, YYYY-MM-DD (defaults to today)")
	components := flag.Int("components", 0, "number of components to retain (overrides config)")
	policy := flag.String("policy", "", "missing data policy: forward-fill, interpolate or drop")
	standardize := flag.String("standardize", "", "standardization mode: demean, zscore or none")
	outputDir := flag.String("out", "", "output directory for result CSVs (defaults to the configured data dir)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := infrastructure.NewLogger(cfg.Logging)

	applyOverrides(cfg, *components, *policy, *standardize)

	analysisCfg, err := cfg.ToAnalysisConfig()
	if err != nil {
		logger.Error("Invalid analysis configuration", "error", err)
		os.Exit(1)
	}

	if *outputDir == "" {
		*outputDir = cfg.Paths.DataDir
	}

	ctx := context.Background()

	matrix, err := loadMatrix(ctx, cfg, logger, *dataFile, *start, *end)
	if err != nil {
		logger.Error("Failed to load yield history", "error", err)
		os.Exit(1)
	}
	logger.Info("Yield history loaded",
		"observations", matrix.Rows(),
		"maturities", matrix.Cols())

	analyzer := yieldcurve.NewAnalyzer(analysisCfg, logger)
	result, err := analyzer.Analyze(ctx, matrix)
	if err != nil {
		logger.Error("Analysis failed", "error", err)
		os.Exit(1)
	}

	for _, w := range result.Warnings {
		logger.Warn("Analysis warning", "code", w.Code, "message", w.Message)
	}

	if err := yieldcurve.SaveResultCSVs(result, *outputDir); err != nil {
		logger.Error("Failed to write result CSVs", "error", err)
		os.Exit(1)
	}

	logger.Info("Decomposition complete",
		"components", result.Meta.Components,
		"explained_variance", result.Cumulative[result.Meta.Components-1],
		"output_dir", *outputDir)
	for _, c := range result.Components.Components {
		logger.Info("Component",
			"name", fmt.Sprintf("PC%d", c.Index),
			"label", string(c.Label),
			"variance_ratio", c.VarianceRatio)
	}
}

// applyOverrides layers command line flags over the loaded configuration.
func applyOverrides(cfg *config.Config, components int, policy, standardize string) {
	if components > 0 {
		cfg.Analysis.Components = components
	}
	if policy != "" {
		cfg.Analysis.MissingDataPolicy = policy
	}
	if standardize != "" {
		cfg.Analysis.Standardization = standardize
	}
}

// loadMatrix reads yield history from a local CSV when a data file is
// given, otherwise downloads it from FRED. A fresh FRED download is also
// cached next to the result CSVs for reproducibility.
func loadMatrix(ctx context.Context, cfg *config.Config, logger *slog.Logger, dataFile, start, end string) (yieldcurve.YieldMatrix, error) {
	if dataFile != "" {
		logger.Info("Loading yield history from file", "path", dataFile)
		return yieldcurve.LoadYieldCSV(dataFile)
	}

	if cfg.FRED.APIKey == "" {
		return yieldcurve.YieldMatrix{}, fmt.Errorf("no data file given and no FRED API key configured")
	}

	startDate, endDate, err := resolveRange(start, end)
	if err != nil {
		return yieldcurve.YieldMatrix{}, err
	}

	client, err := fred.NewClient(cfg.FRED.APIKey, logger,
		fred.WithBaseURL(cfg.FRED.BaseURL),
		fred.WithRateLimit(cfg.FRED.RateLimitRPS, cfg.FRED.RateBurst))
	if err != nil {
		return yieldcurve.YieldMatrix{}, err
	}

	logger.Info("Downloading yield history from FRED",
		"start", startDate.Format("2006-01-02"),
		"end", endDate.Format("2006-01-02"))
	matrix, err := client.FetchYieldMatrix(ctx, startDate, endDate)
	if err != nil {
		return yieldcurve.YieldMatrix{}, err
	}

	cachePath := filepath.Join(cfg.Paths.DataDir, "yield_history.csv")
	if err := yieldcurve.SaveYieldCSV(matrix, cachePath); err != nil {
		logger.Warn("Failed to cache downloaded history", "path", cachePath, "error", err)
	}
	return matrix, nil
}

// resolveRange parses the date flags, defaulting to the last five years.
func resolveRange(start, end string) (time.Time, time.Time, error) {
	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	if end != "" {
		parsed, err := time.Parse("2006-01-02", end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -end date %q: %w", end, err)
		}
		endDate = parsed
	}

	startDate := endDate.AddDate(-5, 0, 0)
	if start != "" {
		parsed, err := time.Parse("2006-01-02", start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -start date %q: %w", start, err)
		}
		startDate = parsed
	}

	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s is not before end date %s",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	}
	return startDate, endDate, nil
}
