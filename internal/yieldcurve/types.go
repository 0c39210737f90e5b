package yieldcurve

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Maturity identifies a fixed tenor point on the yield curve, e.g. "3M" or "10Y".
type Maturity string

// CanonicalMaturities is the full maturity axis in ascending tenor order.
// All matrices produced by this package order their columns this way.
var CanonicalMaturities = []Maturity{
	"1M", "3M", "6M", "1Y", "2Y", "3Y", "5Y", "7Y", "10Y", "20Y", "30Y",
}

// maturityMonths maps each canonical maturity to its tenor in months,
// used for ordering and for interior/endpoint distinctions in labeling.
var maturityMonths = map[Maturity]int{
	"1M": 1, "3M": 3, "6M": 6,
	"1Y": 12, "2Y": 24, "3Y": 36, "5Y": 60, "7Y": 84,
	"10Y": 120, "20Y": 240, "30Y": 360,
}

// Months returns the maturity's tenor in months, or 0 if unknown.
func (m Maturity) Months() int {
	return maturityMonths[m]
}

// IsCanonical reports whether the maturity belongs to the canonical set.
func (m Maturity) IsCanonical() bool {
	_, ok := maturityMonths[m]
	return ok
}

// ParseMaturity resolves a label to a canonical maturity, case-insensitively.
func ParseMaturity(label string) (Maturity, error) {
	m := Maturity(strings.ToUpper(strings.TrimSpace(label)))
	if !m.IsCanonical() {
		return "", fmt.Errorf("unknown maturity label: %q", label)
	}
	return m, nil
}

// SortMaturities returns the given maturities in canonical ascending tenor
// order. The input slice is not modified.
func SortMaturities(ms []Maturity) []Maturity {
	out := make([]Maturity, 0, len(ms))
	for _, canonical := range CanonicalMaturities {
		for _, m := range ms {
			if m == canonical {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// MissingPolicy selects how Align resolves missing observations.
type MissingPolicy int

const (
	// PolicyForwardFill propagates the most recent earlier value down each column.
	PolicyForwardFill MissingPolicy = iota
	// PolicyInterpolate fills interior gaps by linear interpolation between
	// the nearest non-missing neighbors in the same column.
	PolicyInterpolate
	// PolicyDropRows removes any date with at least one missing maturity.
	PolicyDropRows
)

// String returns the policy's configuration name.
func (p MissingPolicy) String() string {
	switch p {
	case PolicyForwardFill:
		return "forward-fill"
	case PolicyInterpolate:
		return "interpolate"
	case PolicyDropRows:
		return "drop"
	default:
		return "unknown"
	}
}

// ParseMissingPolicy resolves a configuration string to a MissingPolicy.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward-fill", "forward_fill", "ffill":
		return PolicyForwardFill, nil
	case "interpolate", "linear":
		return PolicyInterpolate, nil
	case "drop", "drop-rows":
		return PolicyDropRows, nil
	default:
		return 0, fmt.Errorf("unknown missing-data policy: %q", s)
	}
}

// StandardizeMode selects the column transform applied before decomposition.
type StandardizeMode int

const (
	// ModeDemean subtracts each column's mean; scale stays 1.
	ModeDemean StandardizeMode = iota
	// ModeZScore subtracts the mean and divides by the sample standard deviation.
	ModeZScore
	// ModeNone passes the matrix through unchanged. Only for input that is
	// already standardized upstream.
	ModeNone
)

// String returns the mode's configuration name.
func (m StandardizeMode) String() string {
	switch m {
	case ModeDemean:
		return "demean"
	case ModeZScore:
		return "zscore"
	case ModeNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseStandardizeMode resolves a configuration string to a StandardizeMode.
func ParseStandardizeMode(s string) (StandardizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "demean", "center":
		return ModeDemean, nil
	case "zscore", "z-score":
		return ModeZScore, nil
	case "none":
		return ModeNone, nil
	default:
		return 0, fmt.Errorf("unknown standardization mode: %q", s)
	}
}

// YieldMatrix is a raw date × maturity table of annualized yields in percent.
// A NaN cell marks a missing observation. Dates are strictly increasing and
// unique; Values holds one row per date, one column per maturity.
type YieldMatrix struct {
	Dates      []time.Time
	Maturities []Maturity
	Values     [][]float64
}

// Rows returns the number of observation dates.
func (ym YieldMatrix) Rows() int { return len(ym.Dates) }

// Cols returns the number of maturity columns.
func (ym YieldMatrix) Cols() int { return len(ym.Maturities) }

// Validate checks the structural invariants of the matrix: consistent row
// widths and strictly increasing, unique dates.
func (ym YieldMatrix) Validate() error {
	if len(ym.Values) != len(ym.Dates) {
		return fmt.Errorf("yield matrix has %d rows for %d dates", len(ym.Values), len(ym.Dates))
	}
	for i, row := range ym.Values {
		if len(row) != len(ym.Maturities) {
			return fmt.Errorf("row %d has %d cells for %d maturities", i, len(row), len(ym.Maturities))
		}
	}
	for i := 1; i < len(ym.Dates); i++ {
		if !ym.Dates[i].After(ym.Dates[i-1]) {
			return fmt.Errorf("dates not strictly increasing at row %d (%s then %s)",
				i, ym.Dates[i-1].Format("2006-01-02"), ym.Dates[i].Format("2006-01-02"))
		}
	}
	return nil
}

// CleanedMatrix is a YieldMatrix with the missing-data policy applied:
// every cell is a finite real number and the maturity axis is the requested
// subset in canonical order.
type CleanedMatrix struct {
	Dates      []time.Time
	Maturities []Maturity
	Values     [][]float64
}

// Rows returns the number of observation dates.
func (cm CleanedMatrix) Rows() int { return len(cm.Dates) }

// Cols returns the number of maturity columns.
func (cm CleanedMatrix) Cols() int { return len(cm.Maturities) }

// Column returns a copy of the values for one maturity column.
func (cm CleanedMatrix) Column(j int) []float64 {
	col := make([]float64, len(cm.Values))
	for i, row := range cm.Values {
		col[i] = row[j]
	}
	return col
}

// StandardizedMatrix is a CleanedMatrix transformed column-wise, with the
// center and scale used for each column retained so the transform can be
// inverted later.
type StandardizedMatrix struct {
	Dates      []time.Time
	Maturities []Maturity
	Values     [][]float64
	Centers    []float64
	Scales     []float64
	Mode       StandardizeMode
}

// Rows returns the number of observation dates.
func (sm StandardizedMatrix) Rows() int { return len(sm.Dates) }

// Cols returns the number of maturity columns.
func (sm StandardizedMatrix) Cols() int { return len(sm.Maturities) }

// checkFinite returns the position of the first non-finite cell, if any.
func (sm StandardizedMatrix) checkFinite() (row, col int, ok bool) {
	for i, r := range sm.Values {
		for j, v := range r {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return i, j, false
			}
		}
	}
	return 0, 0, true
}

// Label is the financial interpretation assigned to a component.
type Label string

const (
	// LabelLevel marks the common-shift factor: all maturities move together.
	LabelLevel Label = "Level"
	// LabelSlope marks the steepening factor: short and long ends move oppositely.
	LabelSlope Label = "Slope"
	// LabelCurvature marks the butterfly factor: the belly moves against both ends.
	LabelCurvature Label = "Curvature"
)

// UnlabeledLabel returns the fallback label for component n (1-based).
func UnlabeledLabel(n int) Label {
	return Label(fmt.Sprintf("Unlabeled-%d", n))
}

// Component is one principal component of the standardized yield matrix.
// Loadings has one weight per maturity (unit L2 norm, sign-oriented);
// Scores has one projection per observation date.
type Component struct {
	Index         int       `json:"index"` // 1-based, by descending variance
	Loadings      []float64 `json:"loadings"`
	Scores        []float64 `json:"scores"`
	VarianceRatio float64   `json:"variance_ratio"`
	Label         Label     `json:"label"`
}

// ComponentSet is the ordered decomposition output for one analysis run.
// It is created once per run and never mutated afterwards. AllRatios always
// covers the full maturity axis, even when fewer components were requested,
// so cumulative-variance reporting over all components stays possible.
type ComponentSet struct {
	Dates      []time.Time `json:"dates"`
	Maturities []Maturity  `json:"maturities"`
	Components []Component `json:"components"`
	AllRatios  []float64   `json:"all_ratios"`
}

// K returns the number of retained components.
func (cs ComponentSet) K() int { return len(cs.Components) }

// Warning is a non-fatal condition surfaced alongside a completed run.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunMetadata records the configuration and span of a completed analysis.
type RunMetadata struct {
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	Observations int             `json:"observations"`
	Maturities   []Maturity      `json:"maturities"`
	Components   int             `json:"components"`
	Policy       MissingPolicy   `json:"-"`
	Mode         StandardizeMode `json:"-"`
	PolicyName   string          `json:"missing_data_policy"`
	ModeName     string          `json:"standardization_mode"`
	ComputedAt   time.Time       `json:"computed_at"`
}
