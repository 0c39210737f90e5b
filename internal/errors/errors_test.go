package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldpca/internal/yieldcurve"
)

func TestFromAnalysis(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing maturity",
			err:        &yieldcurve.MissingMaturityError{Maturity: "1M"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "MISSING_MATURITY",
		},
		{
			name:       "insufficient data",
			err:        &yieldcurve.InsufficientDataError{Maturity: "2Y", Reason: "leading gap"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_DATA",
		},
		{
			name:       "degenerate column",
			err:        &yieldcurve.DegenerateColumnError{Maturity: "10Y"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "DEGENERATE_COLUMN",
		},
		{
			name:       "invalid component count",
			err:        &yieldcurve.InvalidComponentCountError{Requested: 15, Maturities: 11},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_COMPONENT_COUNT",
		},
		{
			name:       "insufficient observations",
			err:        &yieldcurve.InsufficientObservationsError{Observations: 2, Requested: 5},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_OBSERVATIONS",
		},
		{
			name:       "non-finite input",
			err:        &yieldcurve.NonFiniteInputError{Maturity: "3M"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "NON_FINITE_INPUT",
		},
		{
			name:       "unrecognized error",
			err:        fmt.Errorf("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "ANALYSIS_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAnalysis(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestFromAnalysisWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("stage failed: %w", &yieldcurve.MissingMaturityError{Maturity: "30Y"})
	apiErr := FromAnalysis(wrapped)
	assert.Equal(t, "MISSING_MATURITY", apiErr.ErrorCode)
}

func TestHandleError(t *testing.T) {
	handler := NewErrorHandler(nil)

	t.Run("api error rendered with status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)

		handler.HandleError(w, r, New(http.StatusBadRequest, "INVALID_REQUEST", "bad payload"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)

		handler.HandleError(w, r, fmt.Errorf("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)

		handler.HandleError(w, r, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})
}
