package fred

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldpca/internal/yieldcurve"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", nil)
	assert.Error(t, err)
}

func TestSeriesCoversCanonicalMaturities(t *testing.T) {
	require.Len(t, Series, len(yieldcurve.CanonicalMaturities))
	for _, m := range yieldcurve.CanonicalMaturities {
		assert.NotEmpty(t, Series[m], "maturity %s", m)
	}
}

func TestFetchYieldMatrix(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/fred/series/observations", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "json", r.URL.Query().Get("file_type"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("observation_start"))

		// The 30Y series has a non-trading placeholder on the second day.
		second := `"4.10"`
		if r.URL.Query().Get("series_id") == "DGS30" {
			second = `"."`
		}
		fmt.Fprintf(w, `{"observations":[
			{"date":"2024-01-02","value":"4.00"},
			{"date":"2024-01-03","value":%s}
		]}`, second)
	}))
	defer server.Close()

	client, err := NewClient("test-key", nil,
		WithBaseURL(server.URL),
		WithRateLimit(1000, 100),
	)
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	matrix, err := client.FetchYieldMatrix(context.Background(), start, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, int64(len(Series)), requests.Load())
	assert.Equal(t, yieldcurve.SortMaturities(yieldcurve.CanonicalMaturities), matrix.Maturities)
	require.Equal(t, 2, matrix.Rows())
	require.NoError(t, matrix.Validate())

	thirtyYear := len(matrix.Maturities) - 1
	assert.Equal(t, 4.00, matrix.Values[0][thirtyYear])
	assert.True(t, math.IsNaN(matrix.Values[1][thirtyYear]))
	assert.Equal(t, 4.10, matrix.Values[1][0])
}

func TestFetchYieldMatrixServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad api key", http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClient("bogus", nil, WithBaseURL(server.URL), WithRateLimit(1000, 100))
	require.NoError(t, err)

	_, err = client.FetchYieldMatrix(context.Background(), time.Time{}, time.Time{})
	assert.ErrorContains(t, err, "unexpected status 400")
}

func TestFetchYieldMatrixAllMissingDatesDropped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"observations":[
			{"date":"2024-01-01","value":"."},
			{"date":"2024-01-02","value":"4.00"}
		]}`)
	}))
	defer server.Close()

	client, err := NewClient("test-key", nil, WithBaseURL(server.URL), WithRateLimit(1000, 100))
	require.NoError(t, err)

	matrix, err := client.FetchYieldMatrix(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Equal(t, 1, matrix.Rows())
	assert.Equal(t, "2024-01-02", matrix.Dates[0].Format("2006-01-02"))
}
