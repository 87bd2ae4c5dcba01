// Package frontier approximates the efficient frontier of a universe of
// instruments by Monte-Carlo sampling random portfolio weights. No
// optimizer is involved: the frontier boundary is only the envelope of
// the sampled cloud.
package frontier

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/southquant/adrisk/internal/analysis/returns"
	"github.com/southquant/adrisk/internal/analysis/risk"
	"github.com/southquant/adrisk/pkg/models"
)

// DefaultSamples is the number of random portfolios drawn when the
// caller does not specify a count.
const DefaultSamples = 10000

// ErrInsufficientInstruments is returned when fewer than two instruments
// have return data; a one-asset "frontier" is meaningless.
var ErrInsufficientInstruments = errors.New("frontier: need at least 2 instruments with return data")

// ErrInsufficientOverlap is returned when the instruments share too few
// common dates to estimate a covariance matrix.
var ErrInsufficientOverlap = errors.New("frontier: need at least 2 overlapping observations")

// Sampler draws random portfolios over a universe of return series.
// The zero value is usable: it annualizes with 252 periods and seeds
// its generator from the clock. Supplying Source makes the cloud
// deterministic for tests and reproducible runs.
type Sampler struct {
	PeriodsPerYear int
	Source         rand.Source
}

// Sample draws nSamples random weight vectors over the universe and
// returns the resulting return/volatility cloud together with the
// annualized mean-return vector and covariance matrix it used. The
// instruments are inner-joined on date first; rows missing any
// instrument are dropped.
//
// Each weight vector is k independent uniform(0,1) draws normalized to
// sum to 1. That is deliberately NOT a uniform draw over the simplex —
// it concentrates samples toward equal weighting relative to a
// Dirichlet(1,...,1) draw, and that bias is part of the sampler's
// contract.
//
// nSamples = 0 yields an empty cloud; the mean vector and covariance
// matrix are still computed, since they depend only on the input data.
func (s *Sampler) Sample(universe map[string]*models.ReturnSeries, nSamples int) (*models.FrontierCloud, error) {
	symbols := make([]string, 0, len(universe))
	for sym, rs := range universe {
		if rs.Empty() {
			continue
		}
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	k := len(symbols)
	if k < 2 {
		return nil, ErrInsufficientInstruments
	}
	if nSamples < 0 {
		return nil, fmt.Errorf("frontier: negative sample count %d", nSamples)
	}

	series := make([]*models.ReturnSeries, k)
	for i, sym := range symbols {
		series[i] = universe[sym]
	}
	dates, columns := returns.InnerJoin(series)
	obs := len(dates)
	if obs < 2 {
		return nil, ErrInsufficientOverlap
	}

	py := float64(s.PeriodsPerYear)
	if py <= 0 {
		py = risk.DefaultPeriodsPerYear
	}

	// Annualized mean vector and sample covariance matrix.
	mu := make([]float64, k)
	for i, col := range columns {
		mu[i] = stat.Mean(col, nil) * py
	}
	data := make([]float64, obs*k)
	for row := 0; row < obs; row++ {
		for i := 0; i < k; i++ {
			data[row*k+i] = columns[i][row]
		}
	}
	sigma := mat.NewSymDense(k, nil)
	stat.CovarianceMatrix(sigma, mat.NewDense(obs, k, data), nil)
	sigma.ScaleSym(py, sigma)

	cloud := &models.FrontierCloud{
		Symbols:     symbols,
		Samples:     make([]models.FrontierSample, 0, nSamples),
		MeanReturns: mu,
		CovMatrix:   symToRows(sigma),
	}

	src := s.Source
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	rng := rand.New(src)

	for draw := 0; draw < nSamples; draw++ {
		weights := randomWeights(rng, k)
		wVec := mat.NewVecDense(k, weights)

		cloud.Samples = append(cloud.Samples, models.FrontierSample{
			Weights:        weights,
			ExpectedReturn: floats.Dot(mu, weights),
			Volatility:     math.Sqrt(mat.Inner(wVec, sigma, wVec)),
		})
	}
	return cloud, nil
}

// randomWeights draws k uniforms and normalizes them to the simplex.
func randomWeights(rng *rand.Rand, k int) []float64 {
	weights := make([]float64, k)
	for {
		var sum float64
		for i := range weights {
			weights[i] = rng.Float64()
			sum += weights[i]
		}
		if sum == 0 { // astronomically unlikely, but division-safe
			continue
		}
		for i := range weights {
			weights[i] /= sum
		}
		return weights
	}
}

// symToRows copies a symmetric matrix into a JSON-friendly row slice.
func symToRows(m *mat.SymDense) [][]float64 {
	n := m.SymmetricDim()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}
