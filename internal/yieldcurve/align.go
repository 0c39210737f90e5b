package yieldcurve

import (
	"fmt"
	"math"
	"time"
)

// AlignOptions configures the alignment and cleaning stage.
type AlignOptions struct {
	// Maturities to include, any order; output columns follow canonical
	// ascending tenor order. Empty means all canonical maturities present
	// in the input.
	Maturities []Maturity
	// Policy resolves missing observations.
	Policy MissingPolicy
	// AllowLeadingTrim permits forward-fill to drop dates preceding a
	// column's first observation instead of failing on the leading gap.
	AllowLeadingTrim bool
}

// Align reconciles a raw yield matrix onto the requested maturity axis and
// resolves missing observations according to the configured policy. The
// input matrix is not mutated. A requested maturity with no observation on
// any date is a MissingMaturityError; a gap the policy cannot fill is an
// InsufficientDataError.
func Align(raw YieldMatrix, opts AlignOptions) (CleanedMatrix, error) {
	if err := raw.Validate(); err != nil {
		return CleanedMatrix{}, fmt.Errorf("validate input matrix: %w", err)
	}

	requested := opts.Maturities
	if len(requested) == 0 {
		requested = raw.Maturities
	}
	requested = SortMaturities(requested)
	if len(requested) == 0 {
		return CleanedMatrix{}, fmt.Errorf("no canonical maturities requested")
	}

	// Map each requested maturity to its input column.
	colIndex := make([]int, len(requested))
	for j, m := range requested {
		idx := -1
		for k, label := range raw.Maturities {
			if label == m {
				idx = k
				break
			}
		}
		if idx < 0 {
			return CleanedMatrix{}, &MissingMaturityError{Maturity: m}
		}
		colIndex[j] = idx
	}

	// Extract the requested columns in canonical order.
	values := make([][]float64, raw.Rows())
	for i, row := range raw.Values {
		values[i] = make([]float64, len(requested))
		for j, idx := range colIndex {
			values[i][j] = row[idx]
		}
	}

	// A column that is missing everywhere cannot be repaired by any policy.
	for j, m := range requested {
		if columnAllMissing(values, j) {
			return CleanedMatrix{}, &MissingMaturityError{Maturity: m}
		}
	}

	dates := append([]time.Time(nil), raw.Dates...)

	var err error
	switch opts.Policy {
	case PolicyForwardFill:
		dates, values, err = forwardFill(dates, values, requested, opts.AllowLeadingTrim)
	case PolicyInterpolate:
		interpolateColumns(values)
	case PolicyDropRows:
		dates, values = dropIncompleteRows(dates, values)
	default:
		err = fmt.Errorf("unknown missing-data policy: %d", opts.Policy)
	}
	if err != nil {
		return CleanedMatrix{}, err
	}

	if len(dates) == 0 {
		return CleanedMatrix{}, &InsufficientDataError{
			Maturity: requested[0],
			Reason:   "no complete observation dates remain after cleaning",
		}
	}

	return CleanedMatrix{
		Dates:      dates,
		Maturities: requested,
		Values:     values,
	}, nil
}

func columnAllMissing(values [][]float64, j int) bool {
	for _, row := range values {
		if !math.IsNaN(row[j]) {
			return false
		}
	}
	return true
}

// forwardFill carries the most recent earlier value down each column.
// A gap before a column's first observation either trims those leading dates
// (when allowed) or fails the call.
func forwardFill(dates []time.Time, values [][]float64, maturities []Maturity, allowTrim bool) ([]time.Time, [][]float64, error) {
	trimTo := 0
	for j, m := range maturities {
		lead := 0
		for lead < len(values) && math.IsNaN(values[lead][j]) {
			lead++
		}
		if lead > 0 && !allowTrim {
			return nil, nil, &InsufficientDataError{
				Maturity: m,
				Date:     dates[0],
				Reason:   "missing value with no earlier observation to fill from",
			}
		}
		if lead > trimTo {
			trimTo = lead
		}
		last := math.NaN()
		for i := range values {
			if math.IsNaN(values[i][j]) {
				values[i][j] = last
			} else {
				last = values[i][j]
			}
		}
	}
	return dates[trimTo:], values[trimTo:], nil
}

// interpolateColumns fills interior gaps linearly between the nearest
// non-missing neighbors; gaps at either end of a column take the nearest
// observed value (backward fill at the head, forward fill at the tail).
func interpolateColumns(values [][]float64) {
	rows := len(values)
	if rows == 0 {
		return
	}
	cols := len(values[0])
	for j := 0; j < cols; j++ {
		prev := -1 // index of the last non-missing cell seen
		for i := 0; i < rows; i++ {
			if !math.IsNaN(values[i][j]) {
				if prev >= 0 && prev < i-1 {
					fillSegment(values, j, prev, i)
				} else if prev < 0 && i > 0 {
					// Leading gap: backfill from the first observation.
					for k := 0; k < i; k++ {
						values[k][j] = values[i][j]
					}
				}
				prev = i
			}
		}
		// Trailing gap: carry the last observation forward.
		if prev >= 0 && prev < rows-1 {
			for k := prev + 1; k < rows; k++ {
				values[k][j] = values[prev][j]
			}
		}
	}
}

// fillSegment linearly interpolates column j strictly between rows lo and hi,
// both of which hold observed values.
func fillSegment(values [][]float64, j, lo, hi int) {
	a, b := values[lo][j], values[hi][j]
	span := float64(hi - lo)
	for k := lo + 1; k < hi; k++ {
		t := float64(k-lo) / span
		values[k][j] = a + t*(b-a)
	}
}

func dropIncompleteRows(dates []time.Time, values [][]float64) ([]time.Time, [][]float64) {
	outDates := dates[:0]
	outValues := values[:0]
	for i, row := range values {
		complete := true
		for _, v := range row {
			if math.IsNaN(v) {
				complete = false
				break
			}
		}
		if complete {
			outDates = append(outDates, dates[i])
			outValues = append(outValues, row)
		}
	}
	return outDates, outValues
}
