// Package capm regresses an instrument's returns against a market
// benchmark to produce beta, alpha, R² and correlation.
package capm

import (
	"gonum.org/v1/gonum/stat"

	"github.com/southquant/adrisk/internal/analysis/returns"
	"github.com/southquant/adrisk/pkg/models"
)

const (
	// DefaultRiskFreeRate is the annual risk-free rate the default
	// configuration assumes. Zero is a legitimate rate, so the default
	// is applied at the configuration layer, never coerced here.
	DefaultRiskFreeRate = 0.04

	// DefaultMinObservations is the minimum number of date-aligned
	// return pairs required when the caller does not override it.
	DefaultMinObservations = 30
)

// Options configures the regression.
type Options struct {
	RiskFreeRate    float64 // annual; zero means a 0% rate, not "use the default"
	PeriodsPerYear  int     // <= 0 falls back to 252
	MinObservations int     // <= 0 falls back to DefaultMinObservations
}

func (o Options) withDefaults() Options {
	if o.PeriodsPerYear <= 0 {
		o.PeriodsPerYear = 252
	}
	if o.MinObservations <= 0 {
		o.MinObservations = DefaultMinObservations
	}
	return o
}

// Compute aligns the instrument and benchmark series on their common
// dates and runs the CAPM regression over the overlap. It returns nil
// when fewer than the configured minimum of aligned points remain
// (insufficient data, not an error). A zero-variance benchmark produces
// a non-finite beta, which is preserved rather than suppressed.
func Compute(instrument, benchmark *models.ReturnSeries, opts Options) *models.CAPMResult {
	opts = opts.withDefaults()

	x, y := returns.Align(instrument, benchmark)
	if len(x) < opts.MinObservations {
		return nil
	}

	// Sample (ddof=1) covariance and variance, matching the volatility
	// estimator used elsewhere. Keeping the estimators consistent is
	// what makes a self-regression come out at exactly beta = 1.
	beta := stat.Covariance(x, y, nil) / stat.Variance(y, nil)

	py := float64(opts.PeriodsPerYear)
	rf := opts.RiskFreeRate / py
	alphaDaily := stat.Mean(x, nil) - (rf + beta*(stat.Mean(y, nil)-rf))

	corr := stat.Correlation(x, y, nil)

	return &models.CAPMResult{
		Beta:            beta,
		AlphaAnnualized: alphaDaily * py,
		RSquared:        corr * corr,
		Correlation:     corr,
		Observations:    len(x),
	}
}
