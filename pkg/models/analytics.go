package models

import (
	"math"
	"time"
)

// RiskMetrics holds annualized risk/return statistics for one return
// series. Values are raw fractions (0.12 = 12%), never formatted —
// presentation is the caller's concern.
type RiskMetrics struct {
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	SharpeRatio          float64 `json:"sharpe_ratio"` // non-finite on zero volatility
	VaR95                float64 `json:"var_95"`       // 5th percentile of raw returns
	MaxDrawdown          float64 `json:"max_drawdown"` // additive approximation, <= 0
	Observations         int     `json:"observations"`
}

// CAPMResult holds the regression of an instrument against a market
// benchmark.
type CAPMResult struct {
	Beta            float64 `json:"beta"` // non-finite on zero benchmark variance
	AlphaAnnualized float64 `json:"alpha_annualized"`
	RSquared        float64 `json:"r_squared"`
	Correlation     float64 `json:"correlation"`
	Observations    int     `json:"observations"` // aligned data points used
}

// NormalityResult holds the outcome of testing a return distribution
// against the normal-distribution null hypothesis.
type NormalityResult struct {
	JarqueBeraStat    float64 `json:"jarque_bera_stat"`
	JarqueBeraPValue  float64 `json:"jarque_bera_pvalue"`
	ShapiroWilkStat   float64 `json:"shapiro_wilk_stat"`
	ShapiroWilkPValue float64 `json:"shapiro_wilk_pvalue"`
	Skewness          float64 `json:"skewness"`
	Kurtosis          float64 `json:"kurtosis"` // excess kurtosis (normal = 0)
	IsNormal          bool    `json:"is_normal"`
}

// FrontierSample is one Monte-Carlo portfolio draw: a weight vector
// (non-negative, summing to 1) with its annualized return and volatility.
type FrontierSample struct {
	Weights        []float64 `json:"weights"`
	ExpectedReturn float64   `json:"expected_return"`
	Volatility     float64   `json:"volatility"`
}

// FrontierCloud is the full set of sampled portfolios plus the inputs
// used to generate them, so callers can derive the minimum-volatility
// point, maximum-return point or a Sharpe-maximizing sample without
// resampling. Weights[i] in every sample corresponds to Symbols[i].
type FrontierCloud struct {
	Symbols     []string         `json:"symbols"`
	Samples     []FrontierSample `json:"samples"`
	MeanReturns []float64        `json:"mean_returns"` // annualized
	CovMatrix   [][]float64      `json:"cov_matrix"`   // annualized
}

// MinVolatility returns the sampled portfolio with the lowest volatility,
// or nil for an empty cloud.
func (c *FrontierCloud) MinVolatility() *FrontierSample {
	if c == nil || len(c.Samples) == 0 {
		return nil
	}
	best := &c.Samples[0]
	for i := range c.Samples {
		if c.Samples[i].Volatility < best.Volatility {
			best = &c.Samples[i]
		}
	}
	return best
}

// MaxReturn returns the sampled portfolio with the highest expected
// return, or nil for an empty cloud.
func (c *FrontierCloud) MaxReturn() *FrontierSample {
	if c == nil || len(c.Samples) == 0 {
		return nil
	}
	best := &c.Samples[0]
	for i := range c.Samples {
		if c.Samples[i].ExpectedReturn > best.ExpectedReturn {
			best = &c.Samples[i]
		}
	}
	return best
}

// MaxSharpe returns the sampled portfolio maximizing
// (return − riskFreeRate) / volatility, or nil for an empty cloud.
func (c *FrontierCloud) MaxSharpe(riskFreeRate float64) *FrontierSample {
	if c == nil || len(c.Samples) == 0 {
		return nil
	}
	var best *FrontierSample
	bestRatio := math.Inf(-1)
	for i := range c.Samples {
		s := &c.Samples[i]
		ratio := (s.ExpectedReturn - riskFreeRate) / s.Volatility
		if ratio > bestRatio {
			best = s
			bestRatio = ratio
		}
	}
	return best
}

// InstrumentReport bundles the per-instrument analyses. Any of the
// result pointers may be nil when there was not enough data for that
// analysis.
type InstrumentReport struct {
	Symbol    string           `json:"symbol"`
	Name      string           `json:"name,omitempty"`
	Risk      *RiskMetrics     `json:"risk,omitempty"`
	CAPM      *CAPMResult      `json:"capm,omitempty"`
	Normality *NormalityResult `json:"normality,omitempty"`
}

// PortfolioReport is the aggregate analysis of a universe: per-instrument
// statistics, equal-weight portfolio metrics, and the sampled frontier.
type PortfolioReport struct {
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	Benchmark   string             `json:"benchmark,omitempty"`
	Instruments []InstrumentReport `json:"instruments"`
	Portfolio   *RiskMetrics       `json:"portfolio,omitempty"` // equal-weight basket
	Frontier    *FrontierCloud     `json:"frontier,omitempty"`
	Skipped     []string           `json:"skipped,omitempty"` // symbols with no usable data
	GeneratedAt time.Time          `json:"generated_at"`
}
