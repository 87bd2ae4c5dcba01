// Package normality tests whether a return distribution is plausibly
// normal. It runs two goodness-of-fit tests — Jarque-Bera (moment
// based) and Shapiro-Wilk (order-statistic based) — and reports sample
// skewness and excess kurtosis alongside them.
package normality

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/southquant/adrisk/pkg/models"
)

// SignificanceLevel is the fixed rejection threshold for both tests.
const SignificanceLevel = 0.05

// MinObservations is the smallest sample Shapiro-Wilk is defined for.
const MinObservations = 3

// Compute runs both normality tests on a return series and classifies
// it. It returns nil when the series has fewer than MinObservations
// points (insufficient data, not an error).
//
// The verdict is the conjunction of the two tests: IsNormal holds only
// when BOTH p-values exceed SignificanceLevel. Either test rejecting on
// its own is enough to classify the distribution as non-normal.
func Compute(rets []float64) *models.NormalityResult {
	if len(rets) < MinObservations {
		return nil
	}

	skew, kurt := momentStats(rets)
	jb, jbP := jarqueBera(len(rets), skew, kurt)
	sw, swP := shapiroWilk(rets)

	return &models.NormalityResult{
		JarqueBeraStat:    jb,
		JarqueBeraPValue:  jbP,
		ShapiroWilkStat:   sw,
		ShapiroWilkPValue: swP,
		Skewness:          skew,
		Kurtosis:          kurt,
		IsNormal:          jbP > SignificanceLevel && swP > SignificanceLevel,
	}
}

// momentStats returns the moment-based sample skewness and excess
// kurtosis (population normalization, the estimators Jarque-Bera is
// defined over).
func momentStats(x []float64) (skew, exKurtosis float64) {
	n := float64(len(x))
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= n

	var m2, m3, m4 float64
	for _, v := range x {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= n
	m3 /= n
	m4 /= n

	skew = m3 / math.Pow(m2, 1.5)
	exKurtosis = m4/(m2*m2) - 3
	return skew, exKurtosis
}

// jarqueBera computes the Jarque-Bera statistic and its p-value under
// the χ²(2) null distribution.
func jarqueBera(n int, skew, exKurtosis float64) (stat, pValue float64) {
	stat = float64(n) / 6 * (skew*skew + exKurtosis*exKurtosis/4)
	pValue = distuv.ChiSquared{K: 2}.Survival(stat)
	return stat, pValue
}
