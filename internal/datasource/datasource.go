// Package datasource fetches historical price data from external market
// data providers. It defines the PriceProvider interface the analytics
// layer consumes and implements a Yahoo Finance provider.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/southquant/adrisk/pkg/models"
)

// PriceProvider supplies historical close prices for one symbol over a
// date range. A provider returning an empty series (nil error) means
// "no data for this symbol in this range", which is a valid outcome —
// downstream analytics produce absent metrics for it rather than
// failing.
type PriceProvider interface {
	// Name returns the human-readable name of this provider.
	Name() string

	// HistoricalPrices returns daily close prices for symbol within
	// [from, to], in ascending date order.
	HistoricalPrices(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error)
}

// ErrSymbolNotFound is returned when a symbol cannot be resolved by the
// provider.
var ErrSymbolNotFound = fmt.Errorf("symbol not found")

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// ArgentineADRs is the default analysis universe: Argentine ADRs and
// BYMA listings, symbol → display name.
var ArgentineADRs = map[string]string{
	"BBAR.BA": "BBVA Banco Francés",
	"BMA.BA":  "Banco Macro",
	"CEPU.BA": "Central Puerto",
	"CRESY":   "Cresud",
	"EDN.BA":  "Edenor",
	"GGAL.BA": "Grupo Financiero Galicia",
	"IRS.BA":  "IRSA",
	"LOMA.BA": "Loma Negra",
	"MELI":    "Mercado Libre Inc.",
	"PAM.BA":  "Pampa Energía",
	"SUPV.BA": "Grupo Supervielle",
	"TEO.BA":  "Telecom Argentina",
	"TGS.BA":  "Transportadora de Gas del Sur",
	"TS":      "Tenaris",
	"YPF.BA":  "YPF",
}

// DisplayName returns the friendly name for a symbol, falling back to
// the symbol itself.
func DisplayName(symbol string) string {
	if name, ok := ArgentineADRs[symbol]; ok {
		return name
	}
	return symbol
}

// --- Shared HTTP client helpers ---

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// HTTPClient is a pre-configured HTTP client with reasonable timeouts.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// doGet performs a GET request, returning the response body. The caller
// is responsible for closing the returned ReadCloser.
func doGet(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}
