package yieldcurve

import (
	"math"
	"math/rand"
	"time"
)

// syntheticCurve generates days of yields over the canonical maturity axis
// driven by independent level, slope, and curvature factors plus per-cell
// noise, all with the given standard deviations. The generator is seeded,
// so fixtures are reproducible across runs.
func syntheticCurve(days int, levelStd, slopeStd, curveStd, noiseStd float64) YieldMatrix {
	rng := rand.New(rand.NewSource(42))
	cols := len(CanonicalMaturities)

	// Slope shape rises linearly from the short to the long end; curvature
	// is a centered parabola with the belly moving against both ends.
	slopeShape := make([]float64, cols)
	curveShape := make([]float64, cols)
	for j := 0; j < cols; j++ {
		u := -1 + 2*float64(j)/float64(cols-1)
		slopeShape[j] = u
		curveShape[j] = u*u - 0.5
	}

	matrix := YieldMatrix{
		Dates:      make([]time.Time, days),
		Maturities: append([]Maturity(nil), CanonicalMaturities...),
		Values:     make([][]float64, days),
	}
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		matrix.Dates[i] = base.AddDate(0, 0, i)
		level := rng.NormFloat64() * levelStd
		slope := rng.NormFloat64() * slopeStd
		curve := rng.NormFloat64() * curveStd

		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = 4.0 + level + slope*slopeShape[j] + curve*curveShape[j] +
				rng.NormFloat64()*noiseStd
		}
		matrix.Values[i] = row
	}
	return matrix
}

// standardizedFixture aligns and demeans a synthetic curve for decomposer
// tests.
func standardizedFixture(days int) StandardizedMatrix {
	raw := syntheticCurve(days, 1.0, 0.3, 0.1, 0.01)
	cleaned, err := Align(raw, AlignOptions{Policy: PolicyDropRows})
	if err != nil {
		panic(err)
	}
	sm, err := Standardize(cleaned, ModeDemean)
	if err != nil {
		panic(err)
	}
	return sm
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}
