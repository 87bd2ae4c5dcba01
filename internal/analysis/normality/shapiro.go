package normality

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Royston's polynomial corrections for the two outermost weights
// (AS R94, applied to powers of 1/√n).
var (
	swC1 = [5]float64{0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = [5]float64{0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
)

// shapiroWilk computes the Shapiro-Wilk W statistic and its p-value
// using Royston's AS R94 approximation. The p-value approximation is
// calibrated for 3 <= n <= 5000; larger samples are still computed but
// the p-value grows conservative. A zero-range sample yields NaN for
// both values, which downstream classification treats as rejection.
func shapiroWilk(x []float64) (w, p float64) {
	n := len(x)
	if n < MinObservations {
		return math.NaN(), math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	a := swWeights(n)

	var mean float64
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(n)

	var num, den float64
	for i, v := range sorted {
		num += a[i] * v
		d := v - mean
		den += d * d
	}
	w = num * num / den

	return w, swPValue(w, n)
}

// swWeights builds the weight vector a for the ordered sample: the
// normalized expected normal order statistics, with Royston's corrected
// values at the extremes.
func swWeights(n int) []float64 {
	a := make([]float64, n)
	if n == 3 {
		a[0] = -math.Sqrt(0.5)
		a[2] = math.Sqrt(0.5)
		return a
	}

	// Blom scores: expected values of standard normal order statistics.
	m := make([]float64, n)
	var summ2 float64
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		summ2 += m[i] * m[i]
	}

	u := 1 / math.Sqrt(float64(n))
	rs := math.Sqrt(summ2)

	an := m[n-1]/rs + swPoly(swC1, u)
	lower := 1
	var phi float64
	if n > 5 {
		an1 := m[n-2]/rs + swPoly(swC2, u)
		phi = (summ2 - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) /
			(1 - 2*an*an - 2*an1*an1)
		a[n-2] = an1
		a[1] = -an1
		lower = 2
	} else {
		phi = (summ2 - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
	}
	a[n-1] = an
	a[0] = -an

	sp := math.Sqrt(phi)
	for i := lower; i < n-lower; i++ {
		a[i] = m[i] / sp
	}
	return a
}

// swPoly evaluates c[0]*u + c[1]*u² + ... + c[4]*u⁵.
func swPoly(c [5]float64, u float64) float64 {
	var sum, pow float64
	pow = u
	for _, coef := range c {
		sum += coef * pow
		pow *= u
	}
	return sum
}

// swPValue maps the W statistic to a p-value under the null hypothesis
// of normality, using Royston's normalizing transformations.
func swPValue(w float64, n int) float64 {
	if math.IsNaN(w) {
		return math.NaN()
	}

	// Guard against W rounding to 1 on near-perfectly normal samples.
	oneMinusW := 1 - w
	if oneMinusW <= 0 {
		oneMinusW = 1e-15
	}

	switch {
	case n == 3:
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return math.Min(math.Max(p, 0), 1)

	case n <= 11:
		fn := float64(n)
		g := -2.273 + 0.459*fn
		mu := 0.5440 - 0.39978*fn + 0.025054*fn*fn - 0.0006714*fn*fn*fn
		sigma := math.Exp(1.3822 - 0.77857*fn + 0.062767*fn*fn - 0.0020322*fn*fn*fn)
		arg := g - math.Log(oneMinusW)
		if arg <= 0 {
			return 0
		}
		z := (-math.Log(arg) - mu) / sigma
		return distuv.UnitNormal.Survival(z)

	default:
		ln := math.Log(float64(n))
		mu := -1.5861 - 0.31082*ln - 0.083751*ln*ln + 0.0038915*ln*ln*ln
		sigma := math.Exp(-0.4803 - 0.082676*ln + 0.0030302*ln*ln)
		z := (math.Log(oneMinusW) - mu) / sigma
		return distuv.UnitNormal.Survival(z)
	}
}
