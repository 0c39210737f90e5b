package yieldcurve

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Standardize applies the configured column transform to a cleaned matrix,
// retaining each column's center and scale so the transform stays
// reversible. Under zscore a zero-variance column is a DegenerateColumnError
// rather than a silent division by zero. The input matrix is not mutated.
func Standardize(cleaned CleanedMatrix, mode StandardizeMode) (StandardizedMatrix, error) {
	rows, cols := cleaned.Rows(), cleaned.Cols()
	if rows == 0 || cols == 0 {
		return StandardizedMatrix{}, fmt.Errorf("cannot standardize empty matrix (%dx%d)", rows, cols)
	}

	centers := make([]float64, cols)
	scales := make([]float64, cols)
	for j := range scales {
		scales[j] = 1
	}

	switch mode {
	case ModeDemean, ModeZScore:
		for j := 0; j < cols; j++ {
			col := cleaned.Column(j)
			mean, std := stat.MeanStdDev(col, nil)
			centers[j] = mean
			if mode == ModeZScore {
				// A single observation has no sample deviation either.
				if std == 0 || math.IsNaN(std) {
					return StandardizedMatrix{}, &DegenerateColumnError{Maturity: cleaned.Maturities[j]}
				}
				scales[j] = std
			}
		}
	case ModeNone:
		// Pass-through: center 0, scale 1.
	default:
		return StandardizedMatrix{}, fmt.Errorf("unknown standardization mode: %d", mode)
	}

	values := make([][]float64, rows)
	for i, row := range cleaned.Values {
		values[i] = make([]float64, cols)
		for j, v := range row {
			values[i][j] = (v - centers[j]) / scales[j]
		}
	}

	return StandardizedMatrix{
		Dates:      append([]time.Time(nil), cleaned.Dates...),
		Maturities: append([]Maturity(nil), cleaned.Maturities...),
		Values:     values,
		Centers:    centers,
		Scales:     scales,
		Mode:       mode,
	}, nil
}

// Unstandardize maps a standardized row vector back to yield units using the
// centers and scales retained from the forward transform.
func (sm StandardizedMatrix) Unstandardize(row []float64) ([]float64, error) {
	if len(row) != sm.Cols() {
		return nil, fmt.Errorf("row has %d cells for %d maturities", len(row), sm.Cols())
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v*sm.Scales[j] + sm.Centers[j]
	}
	return out, nil
}
