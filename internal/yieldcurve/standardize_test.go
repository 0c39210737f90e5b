package yieldcurve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanedFixture() CleanedMatrix {
	return CleanedMatrix{
		Dates:      []time.Time{day(1), day(2), day(3), day(4)},
		Maturities: []Maturity{"2Y", "10Y"},
		Values: [][]float64{
			{4.0, 4.5},
			{4.2, 4.6},
			{4.4, 4.8},
			{4.6, 5.1},
		},
	}
}

func TestStandardizeDemean(t *testing.T) {
	sm, err := Standardize(cleanedFixture(), ModeDemean)
	require.NoError(t, err)

	// Each column must sum to numerically zero after demeaning.
	for j := 0; j < sm.Cols(); j++ {
		sum := 0.0
		for i := 0; i < sm.Rows(); i++ {
			sum += sm.Values[i][j]
		}
		assert.InDelta(t, 0, sum, 1e-9, "column %s", sm.Maturities[j])
	}

	assert.InDelta(t, 4.3, sm.Centers[0], 1e-12)
	assert.Equal(t, []float64{1, 1}, sm.Scales)
}

func TestStandardizeZScore(t *testing.T) {
	sm, err := Standardize(cleanedFixture(), ModeZScore)
	require.NoError(t, err)

	for j := 0; j < sm.Cols(); j++ {
		assert.Greater(t, sm.Scales[j], 0.0)
		sum := 0.0
		for i := 0; i < sm.Rows(); i++ {
			sum += sm.Values[i][j]
		}
		assert.InDelta(t, 0, sum, 1e-9)
	}
}

func TestStandardizeZScoreDegenerateColumn(t *testing.T) {
	cm := cleanedFixture()
	for i := range cm.Values {
		cm.Values[i][1] = 4.5 // constant 10Y column
	}

	_, err := Standardize(cm, ModeZScore)

	var degenerateErr *DegenerateColumnError
	require.ErrorAs(t, err, &degenerateErr)
	assert.Equal(t, Maturity("10Y"), degenerateErr.Maturity)
}

func TestStandardizeNone(t *testing.T) {
	cm := cleanedFixture()
	sm, err := Standardize(cm, ModeNone)
	require.NoError(t, err)

	assert.Equal(t, cm.Values, sm.Values)
	assert.Equal(t, []float64{0, 0}, sm.Centers)
	assert.Equal(t, []float64{1, 1}, sm.Scales)
}

func TestStandardizeDoesNotMutateInput(t *testing.T) {
	cm := cleanedFixture()
	original := cm.Column(0)

	_, err := Standardize(cm, ModeZScore)
	require.NoError(t, err)

	assert.Equal(t, original, cm.Column(0))
}

func TestUnstandardizeRoundTrip(t *testing.T) {
	for _, mode := range []StandardizeMode{ModeDemean, ModeZScore, ModeNone} {
		t.Run(mode.String(), func(t *testing.T) {
			cm := cleanedFixture()
			sm, err := Standardize(cm, mode)
			require.NoError(t, err)

			for i := range sm.Values {
				back, err := sm.Unstandardize(sm.Values[i])
				require.NoError(t, err)
				assert.InDeltaSlice(t, cm.Values[i], back, 1e-12)
			}
		})
	}
}

func TestStandardizeEmptyMatrix(t *testing.T) {
	_, err := Standardize(CleanedMatrix{}, ModeDemean)
	assert.Error(t, err)
}
