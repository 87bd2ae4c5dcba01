package risk

import (
	"math"
	"testing"
)

func TestComputeEmptyReturnsNil(t *testing.T) {
	if m := Compute(nil, 252); m != nil {
		t.Errorf("expected nil for empty returns, got %+v", m)
	}
	if m := Compute([]float64{}, 252); m != nil {
		t.Errorf("expected nil for empty slice, got %+v", m)
	}
}

func TestComputeAnnualization(t *testing.T) {
	rets := []float64{0.01, -0.02, 0.03, 0.01, -0.01}
	m := Compute(rets, 252)
	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	mean := 0.004 // (0.01-0.02+0.03+0.01-0.01)/5
	if math.Abs(m.AnnualizedReturn-mean*252) > 1e-12 {
		t.Errorf("annualized return = %v, want %v", m.AnnualizedReturn, mean*252)
	}
	if m.AnnualizedVolatility <= 0 {
		t.Errorf("volatility must be positive for varying returns, got %v", m.AnnualizedVolatility)
	}
	wantSharpe := m.AnnualizedReturn / m.AnnualizedVolatility
	if math.Abs(m.SharpeRatio-wantSharpe) > 1e-12 {
		t.Errorf("sharpe = %v, want %v", m.SharpeRatio, wantSharpe)
	}
	if m.Observations != 5 {
		t.Errorf("observations = %d, want 5", m.Observations)
	}
}

func TestComputeConstantSeries(t *testing.T) {
	m := Compute([]float64{0.01, 0.01, 0.01, 0.01}, 252)
	if m == nil {
		t.Fatal("expected metrics, got nil")
	}
	if m.AnnualizedVolatility != 0 {
		t.Errorf("constant series volatility = %v, want 0", m.AnnualizedVolatility)
	}
	// Zero volatility makes the Sharpe ratio non-finite. That is a real
	// condition (a flat price series) and must not be masked.
	if !math.IsInf(m.SharpeRatio, 0) && !math.IsNaN(m.SharpeRatio) {
		t.Errorf("sharpe on zero volatility should be non-finite, got %v", m.SharpeRatio)
	}
}

func TestVaR95IsFifthPercentile(t *testing.T) {
	// 21 evenly spaced returns from -0.10 to +0.10; the interpolated
	// 5th percentile sits at -0.09.
	rets := make([]float64, 21)
	for i := range rets {
		rets[i] = -0.10 + float64(i)*0.01
	}
	m := Compute(rets, 252)
	if math.Abs(m.VaR95-(-0.09)) > 1e-12 {
		t.Errorf("VaR95 = %v, want -0.09", m.VaR95)
	}
}

func TestVaR95Interpolates(t *testing.T) {
	// With 2 points, the 5th percentile is 5% of the way between them.
	m := Compute([]float64{-0.10, 0.10}, 252)
	want := -0.10 + 0.05*0.20
	if math.Abs(m.VaR95-want) > 1e-12 {
		t.Errorf("VaR95 = %v, want %v", m.VaR95, want)
	}
}

func TestMaxDrawdownAdditive(t *testing.T) {
	// Cumulative sums: 0.1, 0.05, -0.05, 0.15; running max 0.1 until the
	// last point. Deepest additive trough: -0.05 - 0.1 = -0.15. The
	// compounding formula would disagree; the additive one is the contract.
	m := Compute([]float64{0.1, -0.05, -0.1, 0.2}, 252)
	if math.Abs(m.MaxDrawdown-(-0.15)) > 1e-12 {
		t.Errorf("max drawdown = %v, want -0.15", m.MaxDrawdown)
	}
}

func TestMaxDrawdownNeverPositive(t *testing.T) {
	m := Compute([]float64{0.01, 0.02, 0.03}, 252)
	if m.MaxDrawdown > 0 {
		t.Errorf("max drawdown = %v, must be <= 0", m.MaxDrawdown)
	}
	if m.MaxDrawdown != 0 {
		t.Errorf("monotonic gains should have zero drawdown, got %v", m.MaxDrawdown)
	}
}

func TestComputeDefaultPeriods(t *testing.T) {
	rets := []float64{0.01, -0.01, 0.02}
	a := Compute(rets, 0)
	b := Compute(rets, DefaultPeriodsPerYear)
	if a.AnnualizedReturn != b.AnnualizedReturn || a.AnnualizedVolatility != b.AnnualizedVolatility {
		t.Error("periodsPerYear <= 0 should fall back to the default")
	}
}
