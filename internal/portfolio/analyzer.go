// Package portfolio orchestrates the per-instrument analytics across a
// universe of price series and assembles the aggregate report.
package portfolio

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/southquant/adrisk/internal/analysis/capm"
	"github.com/southquant/adrisk/internal/analysis/frontier"
	"github.com/southquant/adrisk/internal/analysis/normality"
	"github.com/southquant/adrisk/internal/analysis/returns"
	"github.com/southquant/adrisk/internal/analysis/risk"
	"github.com/southquant/adrisk/internal/datasource"
	"github.com/southquant/adrisk/pkg/models"
)

// Config tunes the analyzer. Zero values fall back to the analysis
// packages' defaults, except RiskFreeRate, where zero is a real rate
// and is honored as-is.
type Config struct {
	RiskFreeRate        float64 // annual; zero means 0%
	PeriodsPerYear      int     // e.g. 252
	FrontierSamples     int     // Monte-Carlo draws, e.g. 10000
	FrontierSeed        int64   // 0 = seed from the clock
	Benchmark           string  // market proxy symbol for CAPM, e.g. "SPY"
	MinCAPMObservations int     // aligned pairs required for a regression
	Concurrency         int     // max concurrent fetches/analyses
}

func (c Config) withDefaults() Config {
	if c.PeriodsPerYear <= 0 {
		c.PeriodsPerYear = risk.DefaultPeriodsPerYear
	}
	if c.FrontierSamples == 0 {
		c.FrontierSamples = frontier.DefaultSamples
	}
	if c.Benchmark == "" {
		c.Benchmark = "SPY"
	}
	if c.MinCAPMObservations <= 0 {
		c.MinCAPMObservations = capm.DefaultMinObservations
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 5
	}
	return c
}

// Analyzer runs the full analytics pipeline over a universe.
type Analyzer struct {
	provider datasource.PriceProvider
	cfg      Config
}

// New creates an analyzer backed by the given price provider.
func New(provider datasource.PriceProvider, cfg Config) *Analyzer {
	return &Analyzer{provider: provider, cfg: cfg.withDefaults()}
}

// Analyze fetches price data for the symbols plus the benchmark and
// runs the full analysis. A symbol whose fetch fails or returns no data
// is recorded under Skipped and the rest of the universe proceeds; an
// unavailable benchmark only disables CAPM.
func (a *Analyzer) Analyze(ctx context.Context, symbols []string, from, to time.Time) (*models.PortfolioReport, error) {
	universe := make(models.Universe, len(symbols))
	var benchmark *models.PriceSeries
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)

	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			series, err := a.provider.HistoricalPrices(gctx, sym, from, to)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				series = &models.PriceSeries{Symbol: sym, Name: datasource.DisplayName(sym)}
			}
			mu.Lock()
			universe[sym] = series
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		series, err := a.provider.HistoricalPrices(gctx, a.cfg.Benchmark, from, to)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil // proceed without CAPM
		}
		mu.Lock()
		benchmark = series
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report, err := a.AnalyzeUniverse(ctx, universe, benchmark)
	if err != nil {
		return nil, err
	}
	report.From, report.To = from, to
	return report, nil
}

// AnalyzeUniverse runs the analytics over already-fetched data: explicit
// inputs in, value objects out, no implicit state. The benchmark series
// may be nil, in which case CAPM results are absent.
func (a *Analyzer) AnalyzeUniverse(ctx context.Context, universe models.Universe, benchmark *models.PriceSeries) (*models.PortfolioReport, error) {
	report := &models.PortfolioReport{GeneratedAt: time.Now()}

	symbols := universe.Symbols()
	var skipped []string
	for sym, series := range universe {
		if series.Empty() {
			skipped = append(skipped, sym)
		}
	}
	sort.Strings(skipped)
	report.Skipped = skipped

	var benchReturns *models.ReturnSeries
	if !benchmark.Empty() {
		benchReturns = returns.Compute(benchmark)
		report.Benchmark = benchmark.Symbol
	}

	// Per-instrument analyses are independent of each other; run them
	// in parallel, each writing only its own slot.
	instReturns := make([]*models.ReturnSeries, len(symbols))
	reports := make([]models.InstrumentReport, len(symbols))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			series := universe[sym]
			rets := returns.Compute(series)
			instReturns[i] = rets

			rep := models.InstrumentReport{Symbol: sym, Name: series.Name}
			vals := rets.Values()
			rep.Risk = risk.Compute(vals, a.cfg.PeriodsPerYear)
			rep.Normality = normality.Compute(vals)
			if benchReturns != nil {
				rep.CAPM = capm.Compute(rets, benchReturns, capm.Options{
					RiskFreeRate:    a.cfg.RiskFreeRate,
					PeriodsPerYear:  a.cfg.PeriodsPerYear,
					MinObservations: a.cfg.MinCAPMObservations,
				})
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Instruments = reports

	// Equal-weight basket metrics over the instruments' common dates.
	withData := make([]*models.ReturnSeries, 0, len(instReturns))
	universeReturns := make(map[string]*models.ReturnSeries, len(instReturns))
	for _, rets := range instReturns {
		if rets.Empty() {
			continue
		}
		withData = append(withData, rets)
		universeReturns[rets.Symbol] = rets
	}
	if len(withData) > 0 {
		basket := returns.EqualWeight(withData)
		report.Portfolio = risk.Compute(basket.Values(), a.cfg.PeriodsPerYear)
	}

	// The frontier needs at least two instruments; with fewer it is
	// simply absent, not an error for the whole report.
	if len(withData) >= 2 {
		cloud, err := a.SampleFrontier(universeReturns, a.cfg.FrontierSamples)
		if err == nil {
			report.Frontier = cloud
		}
	}

	return report, nil
}

// SampleFrontier draws the Monte-Carlo frontier cloud for the given
// return series, using the analyzer's configuration.
func (a *Analyzer) SampleFrontier(universeReturns map[string]*models.ReturnSeries, nSamples int) (*models.FrontierCloud, error) {
	sampler := &frontier.Sampler{PeriodsPerYear: a.cfg.PeriodsPerYear}
	if a.cfg.FrontierSeed != 0 {
		sampler.Source = rand.NewSource(a.cfg.FrontierSeed)
	}
	return sampler.Sample(universeReturns, nSamples)
}
