package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"yieldpca/internal/yieldcurve"
)

// DefaultBaseURL is the public FRED API endpoint.
const DefaultBaseURL = "https://api.stlouisfed.org"

// Series maps each canonical maturity to its FRED daily Treasury yield
// series ID.
var Series = map[yieldcurve.Maturity]string{
	"1M":  "DGS1MO",
	"3M":  "DGS3MO",
	"6M":  "DGS6MO",
	"1Y":  "DGS1",
	"2Y":  "DGS2",
	"3Y":  "DGS3",
	"5Y":  "DGS5",
	"7Y":  "DGS7",
	"10Y": "DGS10",
	"20Y": "DGS20",
	"30Y": "DGS30",
}

// Client fetches yield observations from the FRED API. All requests share
// one rate limiter so concurrent series fetches stay within the API's
// request budget.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the requests-per-second budget.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates a FRED client. An API key is required; obtain one from
// https://fred.stlouisfed.org/docs/api/api_key.html.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("FRED API key required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// observation is one dated value in a FRED series response.
type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type observationsResponse struct {
	Observations []observation `json:"observations"`
}

// FetchYieldMatrix fetches every canonical maturity's series over the given
// date range and assembles the raw yield matrix. FRED's "." placeholder
// becomes a missing cell; dates where every maturity is missing are
// dropped. End may be zero for an open-ended range.
func (c *Client) FetchYieldMatrix(ctx context.Context, start, end time.Time) (yieldcurve.YieldMatrix, error) {
	c.logger.InfoContext(ctx, "fetching yield curve data from FRED",
		"series", len(Series),
		"start", start.Format("2006-01-02"),
	)

	var mu sync.Mutex
	byMaturity := make(map[yieldcurve.Maturity]map[time.Time]float64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for maturity, seriesID := range Series {
		g.Go(func() error {
			values, err := c.fetchSeries(gctx, seriesID, start, end)
			if err != nil {
				return fmt.Errorf("fetch %s (%s): %w", maturity, seriesID, err)
			}
			mu.Lock()
			byMaturity[maturity] = values
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return yieldcurve.YieldMatrix{}, err
	}

	matrix := assembleMatrix(byMaturity)
	if matrix.Rows() == 0 {
		return yieldcurve.YieldMatrix{}, fmt.Errorf("no yield observations returned by FRED")
	}

	c.logger.InfoContext(ctx, "fetched yield curve data",
		"observations", matrix.Rows(),
		"maturities", matrix.Cols(),
		"first_date", matrix.Dates[0].Format("2006-01-02"),
		"last_date", matrix.Dates[matrix.Rows()-1].Format("2006-01-02"),
	)
	return matrix, nil
}

// fetchSeries retrieves one series' observations keyed by date.
func (c *Client) fetchSeries(ctx context.Context, seriesID string, start, end time.Time) (map[time.Time]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")
	if !start.IsZero() {
		params.Set("observation_start", start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		params.Set("observation_end", end.Format("2006-01-02"))
	}

	reqURL := c.baseURL + "/fred/series/observations?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var parsed observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	values := make(map[time.Time]float64, len(parsed.Observations))
	for _, obs := range parsed.Observations {
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			return nil, fmt.Errorf("parse observation date %q: %w", obs.Date, err)
		}
		if obs.Value == "." || obs.Value == "" {
			values[date] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse observation value %q: %w", obs.Value, err)
		}
		values[date] = v
	}
	return values, nil
}

// assembleMatrix merges per-maturity series into a single matrix over the
// union of observation dates, dropping dates where every maturity is
// missing.
func assembleMatrix(byMaturity map[yieldcurve.Maturity]map[time.Time]float64) yieldcurve.YieldMatrix {
	maturities := yieldcurve.SortMaturities(keys(byMaturity))

	dateSet := make(map[time.Time]struct{})
	for _, series := range byMaturity {
		for date := range series {
			dateSet[date] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	matrix := yieldcurve.YieldMatrix{
		Maturities: maturities,
	}
	for _, date := range dates {
		row := make([]float64, len(maturities))
		anyValue := false
		for j, m := range maturities {
			v, ok := byMaturity[m][date]
			if !ok {
				v = math.NaN()
			}
			row[j] = v
			if !math.IsNaN(v) {
				anyValue = true
			}
		}
		if !anyValue {
			continue
		}
		matrix.Dates = append(matrix.Dates, date)
		matrix.Values = append(matrix.Values, row)
	}
	return matrix
}

func keys(m map[yieldcurve.Maturity]map[time.Time]float64) []yieldcurve.Maturity {
	out := make([]yieldcurve.Maturity, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
