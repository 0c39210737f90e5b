package http

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "yieldpca/internal/errors"
	"yieldpca/internal/yieldcurve"
)

// AnalysisHandler serves yield curve decomposition requests.
type AnalysisHandler struct {
	defaults     yieldcurve.AnalysisConfig
	dataDir      string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewAnalysisHandler creates an analysis handler using the given default
// pipeline configuration; requests may override individual settings.
// Server-side data files referenced by requests are resolved under dataDir.
func NewAnalysisHandler(defaults yieldcurve.AnalysisConfig, dataDir string, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		defaults:     defaults,
		dataDir:      dataDir,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the analysis routes.
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Post("/analysis", h.RunAnalysis)
	r.Get("/maturities", h.ListMaturities)
}

// AnalysisRequest is the JSON body for POST /api/analysis. The yield
// history comes either inline (Dates, Maturities and Values together,
// one row per date, null cells marking missing observations) or from a
// server-side CSV named by DataFile.
type AnalysisRequest struct {
	Dates             []string     `json:"dates" validate:"omitempty,min=2"`
	Maturities        []string     `json:"maturities" validate:"omitempty,min=2"`
	Values            [][]*float64 `json:"values" validate:"omitempty,min=2"`
	DataFile          string       `json:"data_file"`
	MissingDataPolicy string       `json:"missing_data_policy"`
	Standardization   string       `json:"standardization_mode"`
	Components        int          `json:"n_components" validate:"omitempty,min=1"`
}

// hasInlineData reports whether the request carries its matrix inline.
func (req AnalysisRequest) hasInlineData() bool {
	return len(req.Values) > 0 || len(req.Dates) > 0 || len(req.Maturities) > 0
}

// Table is a CSV-compatible tabular structure with stable column ordering.
type Table struct {
	Headers []string   `json:"headers"`
	Records [][]string `json:"records"`
}

// AnalysisResponse carries the result tables of one completed run.
type AnalysisResponse struct {
	Metadata        yieldcurve.RunMetadata `json:"metadata"`
	Loadings        Table                  `json:"loadings"`
	Scores          Table                  `json:"scores"`
	VarianceSummary Table                  `json:"variance_summary"`
	Warnings        []yieldcurve.Warning   `json:"warnings,omitempty"`
}

// RunAnalysis decodes, validates and runs one decomposition request.
func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalysisRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	matrix, err := h.loadRequestMatrix(req)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	cfg, err := h.resolveConfig(req, matrix)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(ctx, "running analysis request",
		"observations", matrix.Rows(),
		"maturities", matrix.Cols(),
		"components", cfg.Components,
	)

	analyzer := yieldcurve.NewAnalyzer(cfg, h.logger)
	result, err := analyzer.Analyze(ctx, matrix)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FromAnalysis(err))
		return
	}

	render.JSON(w, r, toResponse(result))
}

// ListMaturities returns the canonical maturity axis.
func (h *AnalysisHandler) ListMaturities(w http.ResponseWriter, r *http.Request) {
	type maturityInfo struct {
		Label  string `json:"label"`
		Months int    `json:"months"`
	}
	out := make([]maturityInfo, 0, len(yieldcurve.CanonicalMaturities))
	for _, m := range yieldcurve.CanonicalMaturities {
		out = append(out, maturityInfo{Label: string(m), Months: m.Months()})
	}
	render.JSON(w, r, out)
}

// loadRequestMatrix resolves the request's yield history: inline data when
// present, otherwise a CSV file under the configured data directory.
func (h *AnalysisHandler) loadRequestMatrix(req AnalysisRequest) (yieldcurve.YieldMatrix, error) {
	if req.hasInlineData() {
		if len(req.Dates) == 0 || len(req.Maturities) == 0 || len(req.Values) == 0 {
			return yieldcurve.YieldMatrix{}, fmt.Errorf("inline data requires dates, maturities and values together")
		}
		return req.toMatrix()
	}
	if req.DataFile == "" {
		return yieldcurve.YieldMatrix{}, fmt.Errorf("request carries neither inline data nor a data_file")
	}
	if filepath.IsAbs(req.DataFile) || strings.Contains(req.DataFile, "..") {
		return yieldcurve.YieldMatrix{}, fmt.Errorf("data_file must be a plain name under the data directory")
	}
	return yieldcurve.LoadYieldCSV(filepath.Join(h.dataDir, req.DataFile))
}

// toMatrix converts the request body into a raw yield matrix, null cells
// becoming missing observations.
func (req AnalysisRequest) toMatrix() (yieldcurve.YieldMatrix, error) {
	matrix := yieldcurve.YieldMatrix{
		Dates:      make([]time.Time, len(req.Dates)),
		Maturities: make([]yieldcurve.Maturity, len(req.Maturities)),
		Values:     make([][]float64, len(req.Values)),
	}

	for i, s := range req.Dates {
		date, err := time.Parse("2006-01-02", s)
		if err != nil {
			return yieldcurve.YieldMatrix{}, err
		}
		matrix.Dates[i] = date
	}
	for j, label := range req.Maturities {
		m, err := yieldcurve.ParseMaturity(label)
		if err != nil {
			return yieldcurve.YieldMatrix{}, err
		}
		matrix.Maturities[j] = m
	}
	for i, row := range req.Values {
		matrix.Values[i] = make([]float64, len(row))
		for j, cell := range row {
			if cell == nil {
				matrix.Values[i][j] = math.NaN()
			} else {
				matrix.Values[i][j] = *cell
			}
		}
	}

	if err := matrix.Validate(); err != nil {
		return yieldcurve.YieldMatrix{}, err
	}
	return matrix, nil
}

// resolveConfig layers request overrides over the handler defaults. The
// maturity axis is always the request matrix's own column set.
func (h *AnalysisHandler) resolveConfig(req AnalysisRequest, matrix yieldcurve.YieldMatrix) (yieldcurve.AnalysisConfig, error) {
	cfg := h.defaults
	cfg.Maturities = matrix.Maturities

	if req.MissingDataPolicy != "" {
		policy, err := yieldcurve.ParseMissingPolicy(req.MissingDataPolicy)
		if err != nil {
			return yieldcurve.AnalysisConfig{}, err
		}
		cfg.Policy = policy
	}
	if req.Standardization != "" {
		mode, err := yieldcurve.ParseStandardizeMode(req.Standardization)
		if err != nil {
			return yieldcurve.AnalysisConfig{}, err
		}
		cfg.Mode = mode
	}
	if req.Components > 0 {
		cfg.Components = req.Components
	}
	return cfg, nil
}

func toResponse(result *yieldcurve.AnalysisResult) AnalysisResponse {
	loadingsHeader, loadingsRecords := result.LoadingsTable()
	scoresHeader, scoresRecords := result.ScoresTable()
	varianceHeader, varianceRecords := result.VarianceSummaryTable()

	return AnalysisResponse{
		Metadata:        result.Meta,
		Loadings:        Table{Headers: loadingsHeader, Records: loadingsRecords},
		Scores:          Table{Headers: scoresHeader, Records: scoresRecords},
		VarianceSummary: Table{Headers: varianceHeader, Records: varianceRecords},
		Warnings:        result.Warnings,
	}
}
