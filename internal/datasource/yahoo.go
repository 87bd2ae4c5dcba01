package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/southquant/adrisk/internal/infra"
	"github.com/southquant/adrisk/pkg/models"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo implements PriceProvider using the Yahoo Finance v8 chart API.
type Yahoo struct {
	baseURL string
	cache   *infra.Cache
	limiter *infra.RateLimiter
}

// NewYahoo creates a Yahoo Finance price provider with caching and
// rate limiting.
func NewYahoo() *Yahoo {
	return &Yahoo{
		baseURL: yahooBaseURL,
		cache:   infra.NewCache(15 * time.Minute),
		limiter: infra.NewRateLimiter(5, time.Second), // 5 req/s
	}
}

// Name returns the provider name.
func (y *Yahoo) Name() string { return "Yahoo Finance" }

// --- Yahoo Finance v8 chart API types ---

type yhChartResponse struct {
	Chart struct {
		Result []yhChartResult `json:"result"`
		Error  *yhError        `json:"error"`
	} `json:"chart"`
}

type yhChartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type yhError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// HistoricalPrices returns the daily close series for symbol within
// [from, to]. Days where Yahoo reports a null close are skipped, so
// gaps in trading data surface as missing dates, not zero prices. An
// empty series with a nil error means Yahoo has no data for the range.
func (y *Yahoo) HistoricalPrices(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error) {
	cacheKey := fmt.Sprintf("prices:%s:%d:%d", symbol, from.Unix(), to.Unix())
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*models.PriceSeries), nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		y.baseURL, symbol, from.Unix(), to.Unix(),
	)

	body, err := doGet(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp yhChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse yahoo chart: %w", err)
	}

	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
		}
		return nil, fmt.Errorf("yahoo chart error for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	series := parseChartResult(symbol, resp.Chart.Result[0])
	y.cache.Set(cacheKey, series)
	return series, nil
}

// parseChartResult converts a chart API result into a PriceSeries,
// skipping null closes.
func parseChartResult(symbol string, result yhChartResult) *models.PriceSeries {
	series := &models.PriceSeries{
		Symbol: symbol,
		Name:   DisplayName(symbol),
	}
	if len(result.Indicators.Quote) == 0 {
		return series
	}

	closes := result.Indicators.Quote[0].Close
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series.Points = append(series.Points, models.PricePoint{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *closes[i],
		})
	}
	return series
}
