// Package yieldcurve implements principal component analysis of the U.S.
// Treasury yield curve.
//
// The package decomposes a multi-maturity yield time series into orthogonal
// statistical factors and labels them with their conventional financial
// interpretations (Level, Slope, Curvature).
//
// # Pipeline
//
// Analysis runs as a strict batch pipeline, each stage consuming the complete
// output of the previous one:
//
//  1. Align: reconcile raw columns onto the canonical maturity axis and
//     resolve missing observations (align.go)
//  2. Standardize: center and optionally scale each maturity column,
//     retaining per-column center/scale for the inverse transform
//     (standardize.go)
//  3. Decompose: singular value decomposition of the standardized matrix
//     into loadings, scores and explained-variance ratios (pca.go)
//  4. Interpret: fix the sign convention and assign Level/Slope/Curvature
//     labels to the leading components (interpret.go)
//  5. Aggregate: assemble the labeled components, cumulative variance and
//     run metadata into an AnalysisResult (result.go)
//
// The Analyzer type (analyzer.go) orchestrates the full pipeline with
// structured logging. Each stage is also usable on its own.
//
// # Usage Example
//
//	matrix, err := yieldcurve.LoadYieldCSV("data/yield_data.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analyzer := yieldcurve.NewAnalyzer(yieldcurve.DefaultAnalysisConfig(), slog.Default())
//	result, err := analyzer.Analyze(ctx, matrix)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, c := range result.Components.Components {
//	    fmt.Printf("PC%d: %.2f%% %s\n", c.Index, c.VarianceRatio*100, c.Label)
//	}
//
// # Numeric Conventions
//
// PCA sign is inherently arbitrary: a loading vector and its negation span
// the same subspace. The package fixes the sign deterministically so that
// each loading vector's mean across maturities is non-negative, flipping the
// paired score series in tandem to preserve the projection identity. Repeated
// runs over identical input therefore produce identical output regardless of
// the sign returned by the underlying factorization.
//
// Component labeling is a best-effort heuristic based on loading shape
// (see interpret.go). A component that fails its heuristic is reported as
// Unlabeled-N rather than forced into a canonical label.
//
// # Concurrency
//
// The pipeline holds no shared mutable state: every call operates on its own
// matrices and the inputs are never mutated, so concurrent analyses over
// different inputs are safe without locking. Cancellation is not modeled
// inside the pipeline; callers needing timeouts enforce them around the
// whole call.
package yieldcurve
