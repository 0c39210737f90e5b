package yieldcurve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// componentSet builds a minimal set from raw loading vectors, one synthetic
// score per component so sign flips are observable.
func componentSet(loadings ...[]float64) ComponentSet {
	cs := ComponentSet{
		Maturities: CanonicalMaturities[:len(loadings[0])],
	}
	for i, l := range loadings {
		cs.Components = append(cs.Components, Component{
			Index:    i + 1,
			Loadings: append([]float64(nil), l...),
			Scores:   []float64{1.5, -2.5},
			Label:    UnlabeledLabel(i + 1),
		})
	}
	return cs
}

func TestInterpretSignOrientation(t *testing.T) {
	t.Run("negative mean loading is flipped with its scores", func(t *testing.T) {
		cs := componentSet([]float64{-0.5, -0.5, -0.5, -0.5})
		got, _ := Interpret(cs)

		assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, got.Components[0].Loadings)
		assert.Equal(t, []float64{-1.5, 2.5}, got.Components[0].Scores)
	})

	t.Run("non-negative mean loading is untouched", func(t *testing.T) {
		cs := componentSet([]float64{0.5, 0.5, -0.3, 0.4})
		got, _ := Interpret(cs)

		assert.Equal(t, []float64{0.5, 0.5, -0.3, 0.4}, got.Components[0].Loadings)
		assert.Equal(t, []float64{1.5, -2.5}, got.Components[0].Scores)
	})
}

func TestInterpretLevelLabel(t *testing.T) {
	t.Run("uniform loadings labeled Level", func(t *testing.T) {
		cs := componentSet([]float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3})
		got, warnings := Interpret(cs)

		assert.Equal(t, LabelLevel, got.Components[0].Label)
		assert.Empty(t, warnings)
	})

	t.Run("one dissenting sign among eleven still Level", func(t *testing.T) {
		cs := componentSet([]float64{-0.05, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3})
		got, warnings := Interpret(cs)

		// 10 of 11 share a sign, above the 90% threshold.
		assert.Equal(t, LabelLevel, got.Components[0].Label)
		assert.Empty(t, warnings)
	})

	t.Run("mixed signs left unlabeled with warning", func(t *testing.T) {
		cs := componentSet([]float64{-0.4, -0.4, -0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4})
		got, warnings := Interpret(cs)

		assert.Equal(t, UnlabeledLabel(1), got.Components[0].Label)
		require.Len(t, warnings, 1)
		assert.Equal(t, WarnAmbiguousLevel, warnings[0].Code)
	})
}

func TestInterpretSlopeLabel(t *testing.T) {
	level := []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3}

	t.Run("opposite endpoint signs labeled Slope", func(t *testing.T) {
		slope := []float64{-0.5, -0.4, -0.3, -0.2, -0.1, 0.0, 0.1, 0.2, 0.3, 0.4, 0.5}
		cs := componentSet(level, slope)
		got, _ := Interpret(cs)

		assert.Equal(t, LabelSlope, got.Components[1].Label)
	})

	t.Run("same endpoint signs stay unlabeled", func(t *testing.T) {
		notSlope := []float64{0.5, 0.4, 0.3, 0.2, 0.1, 0.0, 0.1, 0.2, 0.3, 0.4, 0.5}
		cs := componentSet(level, notSlope)
		got, _ := Interpret(cs)

		assert.Equal(t, UnlabeledLabel(2), got.Components[1].Label)
	})
}

func TestInterpretCurvatureLabel(t *testing.T) {
	level := []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3}
	slope := []float64{-0.5, -0.4, -0.3, -0.2, -0.1, 0.0, 0.1, 0.2, 0.3, 0.4, 0.5}

	t.Run("belly against both ends labeled Curvature", func(t *testing.T) {
		curve := []float64{0.5, 0.2, -0.1, -0.3, -0.4, -0.4, -0.4, -0.3, -0.1, 0.2, 0.5}
		cs := componentSet(level, slope, curve)
		got, _ := Interpret(cs)

		assert.Equal(t, LabelCurvature, got.Components[2].Label)
	})

	t.Run("monotone third component stays unlabeled", func(t *testing.T) {
		notCurve := []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.35, 0.4, 0.45, 0.5, 0.55}
		cs := componentSet(level, slope, notCurve)
		got, _ := Interpret(cs)

		assert.Equal(t, UnlabeledLabel(3), got.Components[2].Label)
	})
}

func TestInterpretBeyondThirdComponent(t *testing.T) {
	level := []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3}
	slope := []float64{-0.5, -0.4, -0.3, -0.2, -0.1, 0.0, 0.1, 0.2, 0.3, 0.4, 0.5}
	curve := []float64{0.5, 0.2, -0.1, -0.3, -0.4, -0.4, -0.4, -0.3, -0.1, 0.2, 0.5}
	fourth := []float64{-0.3, 0.3, -0.3, 0.3, -0.3, 0.3, -0.3, 0.3, -0.3, 0.3, -0.4}

	cs := componentSet(level, slope, curve, fourth)
	got, _ := Interpret(cs)

	// No canonical label past the third component, only deterministic
	// orientation.
	assert.Equal(t, UnlabeledLabel(4), got.Components[3].Label)
	sum := 0.0
	for _, w := range got.Components[3].Loadings {
		sum += w
	}
	assert.GreaterOrEqual(t, sum, 0.0)
}

func TestInterpretRecoversSyntheticFactors(t *testing.T) {
	sm := standardizedFixture(1000)
	cs, err := Decompose(sm, 3)
	require.NoError(t, err)

	got, warnings := Interpret(cs)

	assert.Empty(t, warnings)
	assert.Equal(t, LabelLevel, got.Components[0].Label)
	assert.Equal(t, LabelSlope, got.Components[1].Label)
	assert.Equal(t, LabelCurvature, got.Components[2].Label)
}
