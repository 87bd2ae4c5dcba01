// Package risk computes annualized risk/return metrics for a single
// return series.
package risk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/southquant/adrisk/pkg/models"
)

// DefaultPeriodsPerYear is the trading-day count used to annualize
// daily statistics.
const DefaultPeriodsPerYear = 252

// Compute calculates annualized mean return, annualized volatility,
// Sharpe ratio, 95% VaR and maximum drawdown for a return series.
// It returns nil when the series is empty (insufficient data, not an
// error). A constant series yields zero volatility and a non-finite
// Sharpe ratio; both propagate to the caller untouched.
func Compute(rets []float64, periodsPerYear int) *models.RiskMetrics {
	if len(rets) == 0 {
		return nil
	}
	if periodsPerYear <= 0 {
		periodsPerYear = DefaultPeriodsPerYear
	}

	py := float64(periodsPerYear)
	annMean := stat.Mean(rets, nil) * py
	annVol := stat.StdDev(rets, nil) * math.Sqrt(py) // sample stddev, ddof=1

	return &models.RiskMetrics{
		AnnualizedReturn:     annMean,
		AnnualizedVolatility: annVol,
		SharpeRatio:          annMean / annVol,
		VaR95:                percentile(rets, 5),
		MaxDrawdown:          maxDrawdown(rets),
		Observations:         len(rets),
	}
}

// percentile returns the p-th percentile of the values using linear
// interpolation between order statistics.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// maxDrawdown returns the deepest trough of the cumulative return sum
// below its running maximum. This is the additive approximation of
// drawdown on simple returns, not the compounding formula; the two
// disagree numerically and the additive form is the contract here.
func maxDrawdown(rets []float64) float64 {
	var cum, peak, worst float64
	peak = math.Inf(-1)
	for _, r := range rets {
		cum += r
		if cum > peak {
			peak = cum
		}
		if dd := cum - peak; dd < worst {
			worst = dd
		}
	}
	return worst
}
