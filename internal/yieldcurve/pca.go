package yieldcurve

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Decompose computes the principal components of a standardized matrix via
// singular value decomposition, returning k loading vectors with their score
// series plus the explained-variance ratio of every component (one per
// maturity, zero-padded past the matrix rank), so cumulative-variance
// reporting over the full axis stays possible downstream.
//
// Components come back ordered by descending variance. The factorization is
// deterministic for identical input; sign orientation is applied later by
// Interpret. Loadings are returned exactly as factorized: unit-norm and
// pairwise orthogonal.
func Decompose(sm StandardizedMatrix, k int) (ComponentSet, error) {
	rows, cols := sm.Rows(), sm.Cols()

	if k < 1 || k > cols {
		return ComponentSet{}, &InvalidComponentCountError{Requested: k, Maturities: cols}
	}
	if rows < k {
		return ComponentSet{}, &InsufficientObservationsError{Observations: rows, Requested: k}
	}
	if i, j, ok := sm.checkFinite(); !ok {
		return ComponentSet{}, &NonFiniteInputError{
			Row:      i,
			Col:      j,
			Maturity: sm.Maturities[j],
			Date:     sm.Dates[i],
		}
	}

	data := make([]float64, 0, rows*cols)
	for _, row := range sm.Values {
		data = append(data, row...)
	}
	x := mat.NewDense(rows, cols, data)

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return ComponentSet{}, fmt.Errorf("svd factorization failed")
	}

	// Explained-variance ratios from the squared singular values, padded
	// with zeros when the matrix rank is below the number of maturities.
	sigma := svd.Values(nil)
	ratios := make([]float64, cols)
	total := 0.0
	for i, s := range sigma {
		ratios[i] = s * s
		total += s * s
	}
	if total == 0 {
		return ComponentSet{}, fmt.Errorf("standardized matrix has zero total variance")
	}
	for i := range ratios {
		ratios[i] /= total
	}

	var v mat.Dense
	svd.VTo(&v)

	// Scores are the projections of each date's standardized curve onto the
	// retained loading vectors: S = X * V_k.
	vk := v.Slice(0, cols, 0, k)
	var scores mat.Dense
	scores.Mul(x, vk)

	components := make([]Component, k)
	for c := 0; c < k; c++ {
		loadings := make([]float64, cols)
		for j := 0; j < cols; j++ {
			loadings[j] = v.At(j, c)
		}
		series := make([]float64, rows)
		for i := 0; i < rows; i++ {
			series[i] = scores.At(i, c)
		}
		components[c] = Component{
			Index:         c + 1,
			Loadings:      loadings,
			Scores:        series,
			VarianceRatio: ratios[c],
			Label:         UnlabeledLabel(c + 1),
		}
	}

	return ComponentSet{
		Dates:      append([]time.Time(nil), sm.Dates...),
		Maturities: append([]Maturity(nil), sm.Maturities...),
		Components: components,
		AllRatios:  ratios,
	}, nil
}
