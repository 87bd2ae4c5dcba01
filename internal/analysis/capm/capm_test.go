package capm

import (
	"math"
	"testing"
	"time"

	"github.com/southquant/adrisk/pkg/models"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// makeReturns builds a dated return series by tiling the pattern until
// n observations exist.
func makeReturns(symbol string, pattern []float64, n int) *models.ReturnSeries {
	rs := &models.ReturnSeries{Symbol: symbol}
	for i := 0; i < n; i++ {
		rs.Points = append(rs.Points, models.ReturnPoint{
			Date:  day0.AddDate(0, 0, i),
			Value: pattern[i%len(pattern)],
		})
	}
	return rs
}

// scale multiplies every return by f.
func scale(rs *models.ReturnSeries, f float64) *models.ReturnSeries {
	out := &models.ReturnSeries{Symbol: rs.Symbol + "x"}
	for _, p := range rs.Points {
		out.Points = append(out.Points, models.ReturnPoint{Date: p.Date, Value: p.Value * f})
	}
	return out
}

var basePattern = []float64{0.01, -0.02, 0.03, 0.01, -0.01}

func TestSelfRegression(t *testing.T) {
	a := makeReturns("A", basePattern, 40)
	res := Compute(a, a, Options{})
	if res == nil {
		t.Fatal("expected result, got nil")
	}
	if math.Abs(res.Beta-1) > 1e-9 {
		t.Errorf("beta = %v, want 1", res.Beta)
	}
	if math.Abs(res.AlphaAnnualized) > 1e-9 {
		t.Errorf("alpha = %v, want 0", res.AlphaAnnualized)
	}
	if math.Abs(res.RSquared-1) > 1e-9 {
		t.Errorf("r_squared = %v, want 1", res.RSquared)
	}
	if res.Observations != 40 {
		t.Errorf("observations = %d, want 40", res.Observations)
	}
}

func TestScaledSeriesDoublesBeta(t *testing.T) {
	a := makeReturns("A", basePattern, 40)
	b := scale(a, 2)

	res := Compute(b, a, Options{})
	if res == nil {
		t.Fatal("expected result, got nil")
	}
	if math.Abs(res.Beta-2) > 1e-9 {
		t.Errorf("beta = %v, want 2", res.Beta)
	}
	if math.Abs(res.RSquared-1) > 1e-9 {
		t.Errorf("r_squared = %v, want 1", res.RSquared)
	}
}

func TestInsufficientOverlapReturnsNil(t *testing.T) {
	a := makeReturns("A", basePattern, DefaultMinObservations-1)
	if res := Compute(a, a, Options{}); res != nil {
		t.Errorf("expected nil below %d observations, got %+v", DefaultMinObservations, res)
	}
}

func TestMinObservationsOverride(t *testing.T) {
	a := makeReturns("A", basePattern, 40)
	if res := Compute(a, a, Options{MinObservations: 50}); res != nil {
		t.Errorf("raised minimum must reject 40 observations, got %+v", res)
	}

	short := makeReturns("S", basePattern, 15)
	res := Compute(short, short, Options{MinObservations: 10})
	if res == nil {
		t.Fatal("lowered minimum must accept 15 observations")
	}
	if res.Observations != 15 {
		t.Errorf("observations = %d, want 15", res.Observations)
	}
}

func TestMisalignedDatesDropped(t *testing.T) {
	a := makeReturns("A", basePattern, 40)
	// Benchmark shifted forward by 15 days: only 25 dates overlap.
	b := &models.ReturnSeries{Symbol: "B"}
	for i := 0; i < 40; i++ {
		b.Points = append(b.Points, models.ReturnPoint{
			Date:  day0.AddDate(0, 0, i+15),
			Value: basePattern[i%len(basePattern)],
		})
	}
	if res := Compute(a, b, Options{}); res != nil {
		t.Errorf("expected nil for 25 overlapping observations, got %+v", res)
	}
}

func TestZeroVarianceBenchmark(t *testing.T) {
	a := makeReturns("A", basePattern, 40)
	flat := makeReturns("FLAT", []float64{0.001}, 40)

	res := Compute(a, flat, Options{})
	if res == nil {
		t.Fatal("zero-variance benchmark must still produce a result")
	}
	if !math.IsInf(res.Beta, 0) && !math.IsNaN(res.Beta) {
		t.Errorf("beta against flat benchmark should be non-finite, got %v", res.Beta)
	}
}

func TestAlphaRiskFreeRate(t *testing.T) {
	// With beta exactly 1, alpha is independent of the risk-free rate;
	// use a scaled benchmark so the rate actually enters.
	a := makeReturns("A", basePattern, 40)
	b := scale(a, 2)

	low := Compute(b, a, Options{RiskFreeRate: 0.01})
	high := Compute(b, a, Options{RiskFreeRate: 0.10})
	if low == nil || high == nil {
		t.Fatal("expected results")
	}
	if low.AlphaAnnualized == high.AlphaAnnualized {
		t.Error("alpha should depend on the risk-free rate when beta != 1")
	}
	if low.Beta != high.Beta {
		t.Error("beta must not depend on the risk-free rate")
	}
}

func TestZeroRiskFreeRateHonored(t *testing.T) {
	// With b = 2a the annualized alpha works out to exactly the
	// risk-free rate, so a zero rate must yield zero alpha, not the
	// alpha of a coerced 4% default.
	a := makeReturns("A", basePattern, 40)
	b := scale(a, 2)

	zero := Compute(b, a, Options{RiskFreeRate: 0})
	if zero == nil {
		t.Fatal("expected result")
	}
	if math.Abs(zero.AlphaAnnualized) > 1e-9 {
		t.Errorf("alpha at rf=0 is %v, want 0", zero.AlphaAnnualized)
	}

	four := Compute(b, a, Options{RiskFreeRate: 0.04})
	if math.Abs(four.AlphaAnnualized-0.04) > 1e-9 {
		t.Errorf("alpha at rf=0.04 is %v, want 0.04", four.AlphaAnnualized)
	}
}
