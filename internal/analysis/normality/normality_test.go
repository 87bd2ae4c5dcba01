package normality

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

// normalSample builds a deterministic sample of normal quantiles: the
// closest a sample of size n can sit to the normal distribution.
func normalSample(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = distuv.UnitNormal.Quantile((float64(i) + 0.5) / float64(n))
	}
	return x
}

// skewedSample builds a deterministic exponential-quantile sample,
// heavily right-skewed.
func skewedSample(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = -math.Log(1 - (float64(i)+0.5)/float64(n))
	}
	return x
}

func TestComputeTooShortReturnsNil(t *testing.T) {
	if res := Compute(nil); res != nil {
		t.Errorf("expected nil for empty input, got %+v", res)
	}
	if res := Compute([]float64{0.01, 0.02}); res != nil {
		t.Errorf("expected nil below %d observations, got %+v", MinObservations, res)
	}
}

func TestNormalSamplePasses(t *testing.T) {
	res := Compute(normalSample(100))
	if res == nil {
		t.Fatal("expected result, got nil")
	}
	if !res.IsNormal {
		t.Errorf("normal quantile sample classified non-normal: jbP=%v swP=%v",
			res.JarqueBeraPValue, res.ShapiroWilkPValue)
	}
	if math.Abs(res.Skewness) > 1e-9 {
		t.Errorf("symmetric sample skewness = %v, want 0", res.Skewness)
	}
	if res.ShapiroWilkStat <= 0.95 || res.ShapiroWilkStat > 1 {
		t.Errorf("W = %v, want close to 1 for a normal sample", res.ShapiroWilkStat)
	}
}

func TestSkewedSampleRejected(t *testing.T) {
	res := Compute(skewedSample(100))
	if res == nil {
		t.Fatal("expected result, got nil")
	}
	if res.IsNormal {
		t.Error("exponential sample classified as normal")
	}
	if res.JarqueBeraPValue > SignificanceLevel {
		t.Errorf("JB p-value = %v, expected rejection", res.JarqueBeraPValue)
	}
	if res.ShapiroWilkPValue > SignificanceLevel {
		t.Errorf("SW p-value = %v, expected rejection", res.ShapiroWilkPValue)
	}
	if res.Skewness < 1 {
		t.Errorf("exponential sample skewness = %v, want strongly positive", res.Skewness)
	}
}

func TestIsNormalIsExactConjunction(t *testing.T) {
	// The verdict must equal (jbP > 0.05) && (swP > 0.05) for every
	// input: one rejecting test is enough to flip the classification.
	samples := [][]float64{
		normalSample(50),
		normalSample(200),
		skewedSample(50),
		skewedSample(500),
		{0.01, -0.02, 0.03, 0.01, -0.01, 0.02, -0.03, 0.01},
	}
	for i, sample := range samples {
		res := Compute(sample)
		if res == nil {
			t.Fatalf("sample %d: unexpected nil", i)
		}
		want := res.JarqueBeraPValue > SignificanceLevel && res.ShapiroWilkPValue > SignificanceLevel
		if res.IsNormal != want {
			t.Errorf("sample %d: is_normal = %v, conjunction says %v", i, res.IsNormal, want)
		}
	}
}

func TestJarqueBeraKnownValue(t *testing.T) {
	// For {1,2,3,4,5}: skew = 0, excess kurtosis = -1.3,
	// JB = 5/6 * (0 + 1.69/4) = 0.3520833, p = exp(-JB/2).
	skew, kurt := momentStats([]float64{1, 2, 3, 4, 5})
	if math.Abs(skew) > 1e-12 {
		t.Errorf("skew = %v, want 0", skew)
	}
	if math.Abs(kurt-(-1.3)) > 1e-12 {
		t.Errorf("kurtosis = %v, want -1.3", kurt)
	}

	stat, p := jarqueBera(5, skew, kurt)
	if math.Abs(stat-0.35208333333333336) > 1e-12 {
		t.Errorf("JB stat = %v, want 0.352083", stat)
	}
	if math.Abs(p-math.Exp(-stat/2)) > 1e-12 {
		t.Errorf("JB p = %v, want chi²(2) survival %v", p, math.Exp(-stat/2))
	}
}

func TestShapiroWilkSmallSample(t *testing.T) {
	// A short arithmetic sequence is as normal as 5 points can look.
	w, p := shapiroWilk([]float64{1, 2, 3, 4, 5})
	if w <= 0.9 || w > 1 {
		t.Errorf("W = %v, want in (0.9, 1]", w)
	}
	if p < 0.5 {
		t.Errorf("p = %v, want high for an evenly spaced sample", p)
	}
}

func TestShapiroWilkMinimumSample(t *testing.T) {
	w, p := shapiroWilk([]float64{1, 2, 10})
	if math.IsNaN(w) || math.IsNaN(p) {
		t.Fatalf("n=3 must be computable, got W=%v p=%v", w, p)
	}
	if p < 0 || p > 1 {
		t.Errorf("p = %v out of [0,1]", p)
	}
}

func TestConstantSeriesDegenerates(t *testing.T) {
	res := Compute([]float64{0.01, 0.01, 0.01, 0.01, 0.01})
	if res == nil {
		t.Fatal("expected result, got nil")
	}
	// Zero variance makes every statistic undefined; the NaN p-values
	// must classify as non-normal rather than crash.
	if res.IsNormal {
		t.Error("constant series must not classify as normal")
	}
}
