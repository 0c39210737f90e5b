package yieldcurve

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AnalysisConfig carries the full configuration for one pipeline run. It is
// threaded explicitly into each stage call and never held as ambient state,
// so concurrent runs with different configurations cannot interfere.
type AnalysisConfig struct {
	// Maturities to include, canonical order enforced by Align. Empty
	// means every canonical maturity present in the input.
	Maturities []Maturity `json:"maturities"`
	// Policy resolves missing observations.
	Policy MissingPolicy `json:"-"`
	// AllowLeadingTrim lets forward-fill drop dates preceding a column's
	// first observation.
	AllowLeadingTrim bool `json:"allow_leading_trim"`
	// Mode is the column transform applied before decomposition.
	Mode StandardizeMode `json:"-"`
	// Components is the number of principal components to retain.
	Components int `json:"components"`
}

// DefaultAnalysisConfig returns the standard configuration: all canonical
// maturities, forward-fill with leading trim, demeaning, three components.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Maturities:       CanonicalMaturities,
		Policy:           PolicyForwardFill,
		AllowLeadingTrim: true,
		Mode:             ModeDemean,
		Components:       3,
	}
}

// Validate checks the configuration before a run.
func (c AnalysisConfig) Validate() error {
	if c.Components < 1 {
		return fmt.Errorf("component count must be positive, got %d", c.Components)
	}
	for _, m := range c.Maturities {
		if !m.IsCanonical() {
			return fmt.Errorf("maturity %q is not in the canonical set", m)
		}
	}
	return nil
}

// Analyzer orchestrates the full decomposition pipeline:
// align → standardize → decompose → interpret → aggregate.
type Analyzer struct {
	cfg    AnalysisConfig
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer with the given configuration.
func NewAnalyzer(cfg AnalysisConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Analyze runs the pipeline over a raw yield matrix. The input is not
// mutated and no state survives the call, so concurrent Analyze calls over
// different inputs are safe. Stage errors surface unchanged; a returned
// result may carry non-fatal warnings.
func (a *Analyzer) Analyze(ctx context.Context, raw YieldMatrix) (*AnalysisResult, error) {
	start := time.Now()

	a.logger.InfoContext(ctx, "starting yield curve analysis",
		"observations", raw.Rows(),
		"input_maturities", raw.Cols(),
		"requested_components", a.cfg.Components,
		"missing_data_policy", a.cfg.Policy.String(),
		"standardization_mode", a.cfg.Mode.String(),
	)

	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	cleaned, err := Align(raw, AlignOptions{
		Maturities:       a.cfg.Maturities,
		Policy:           a.cfg.Policy,
		AllowLeadingTrim: a.cfg.AllowLeadingTrim,
	})
	if err != nil {
		return nil, err
	}
	a.logger.DebugContext(ctx, "aligned yield matrix",
		"rows", cleaned.Rows(),
		"maturities", cleaned.Cols(),
		"rows_dropped", raw.Rows()-cleaned.Rows(),
	)

	standardized, err := Standardize(cleaned, a.cfg.Mode)
	if err != nil {
		return nil, err
	}

	components, err := Decompose(standardized, a.cfg.Components)
	if err != nil {
		return nil, err
	}

	components, warnings := Interpret(components)
	for _, w := range warnings {
		a.logger.WarnContext(ctx, "analysis warning", "code", w.Code, "message", w.Message)
	}

	result := newAnalysisResult(components, standardized, a.cfg, warnings)

	a.logger.InfoContext(ctx, "yield curve analysis completed",
		"duration", time.Since(start),
		"observations", result.Meta.Observations,
		"components", result.Meta.Components,
		"pc1_variance_ratio", result.Components.AllRatios[0],
	)

	return result, nil
}
