// ADRisk — portfolio risk analytics for Argentine ADRs
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/southquant/adrisk/api"
	"github.com/southquant/adrisk/internal/config"
	"github.com/southquant/adrisk/internal/datasource"
	"github.com/southquant/adrisk/internal/portfolio"
	"github.com/southquant/adrisk/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adrisk",
	Short: "ADRisk — portfolio risk analytics for Argentine ADRs",
	Long: `ADRisk computes risk/return analytics for a basket of equities:
annualized return, volatility and Sharpe ratio, 95% Value-at-Risk,
maximum drawdown, CAPM beta/alpha/R², normality testing, and a
Monte-Carlo-sampled efficient frontier.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("from", "", "start date (YYYY-MM-DD, default 1y ago)")
	rootCmd.PersistentFlags().String("to", "", "end date (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(capmCmd)
	rootCmd.AddCommand(normalityCmd)
	rootCmd.AddCommand(frontierCmd)
	rootCmd.AddCommand(serveCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ADRisk %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Shared helpers ---

func newAnalyzer() *portfolio.Analyzer {
	return portfolio.New(datasource.NewYahoo(), portfolio.Config{
		RiskFreeRate:        cfg.Analysis.RiskFreeRate,
		PeriodsPerYear:      cfg.Analysis.PeriodsPerYear,
		FrontierSamples:     cfg.Frontier.Samples,
		FrontierSeed:        cfg.Frontier.Seed,
		Benchmark:           cfg.Analysis.Benchmark,
		MinCAPMObservations: cfg.Analysis.MinCAPMObservations,
		Concurrency:         cfg.Analysis.ConcurrentFetches,
	})
}

func dateRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(-1, 0, 0)

	if s, _ := cmd.Flags().GetString("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fmt.Errorf("invalid --from date %q", s)
		}
		from = t
	}
	if s, _ := cmd.Flags().GetString("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fmt.Errorf("invalid --to date %q", s)
		}
		to = t
	}
	return from, to, nil
}

func symbolsOrUniverse(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.UniverseSymbols()
}

func runAnalysis(cmd *cobra.Command, args []string) (*models.PortfolioReport, error) {
	from, to, err := dateRange(cmd)
	if err != nil {
		return nil, err
	}
	symbols := symbolsOrUniverse(args)

	fmt.Printf("Fetching %d symbols (%s → %s)...\n",
		len(symbols), from.Format("2006-01-02"), to.Format("2006-01-02"))

	report, err := newAnalyzer().Analyze(cmd.Context(), symbols, from, to)
	if err != nil {
		return nil, err
	}
	for _, sym := range report.Skipped {
		fmt.Printf("  ⚠ no data for %s, skipped\n", sym)
	}
	return report, nil
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbols...]",
	Short: "Run the full risk/return analysis on a basket",
	Long: `Fetch price history for the given symbols (default: the configured
Argentine ADR universe) and print per-instrument risk metrics, the
equal-weight portfolio metrics, and a frontier summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runAnalysis(cmd, args)
		if err != nil {
			return err
		}

		fmt.Printf("\n📊 Individual Performance\n")
		fmt.Printf("%-10s %-28s %10s %10s %8s %9s %9s\n",
			"Symbol", "Name", "AnnRet", "AnnVol", "Sharpe", "VaR95", "MaxDD")
		for _, inst := range report.Instruments {
			m := inst.Risk
			if m == nil {
				fmt.Printf("%-10s %-28s %s\n", inst.Symbol, inst.Name, "insufficient data")
				continue
			}
			fmt.Printf("%-10s %-28s %9.2f%% %9.2f%% %8.3f %8.2f%% %8.2f%%\n",
				inst.Symbol, inst.Name,
				m.AnnualizedReturn*100, m.AnnualizedVolatility*100,
				m.SharpeRatio, m.VaR95*100, m.MaxDrawdown*100)
		}

		if p := report.Portfolio; p != nil {
			fmt.Printf("\n💼 Equal-Weight Portfolio (%d obs)\n", p.Observations)
			fmt.Printf("   Annual Return:     %8.2f%%\n", p.AnnualizedReturn*100)
			fmt.Printf("   Annual Volatility: %8.2f%%\n", p.AnnualizedVolatility*100)
			fmt.Printf("   Sharpe Ratio:      %8.3f\n", p.SharpeRatio)
		}

		if c := report.Frontier; c != nil {
			printFrontierSummary(c)
		}
		return nil
	},
}

// --- CAPM Command ---

var capmCmd = &cobra.Command{
	Use:   "capm [symbols...]",
	Short: "Regress each symbol against the market benchmark",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runAnalysis(cmd, args)
		if err != nil {
			return err
		}

		fmt.Printf("\n📈 CAPM vs %s\n", report.Benchmark)
		fmt.Printf("%-10s %8s %9s %8s %8s %6s\n",
			"Symbol", "Beta", "Alpha", "R²", "Corr", "Obs")
		for _, inst := range report.Instruments {
			c := inst.CAPM
			if c == nil {
				fmt.Printf("%-10s insufficient overlap (<%d obs)\n",
					inst.Symbol, cfg.Analysis.MinCAPMObservations)
				continue
			}
			fmt.Printf("%-10s %8.3f %8.2f%% %8.3f %8.3f %6d\n",
				inst.Symbol, c.Beta, c.AlphaAnnualized*100, c.RSquared, c.Correlation, c.Observations)
		}
		return nil
	},
}

// --- Normality Command ---

var normalityCmd = &cobra.Command{
	Use:   "normality [symbols...]",
	Short: "Test return distributions for normality",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runAnalysis(cmd, args)
		if err != nil {
			return err
		}

		fmt.Printf("\n🔬 Normality Tests (Jarque-Bera + Shapiro-Wilk, 5%% level)\n")
		fmt.Printf("%-10s %10s %10s %8s %8s %8s\n",
			"Symbol", "JB p", "SW p", "Skew", "Kurt", "Normal")
		for _, inst := range report.Instruments {
			n := inst.Normality
			if n == nil {
				fmt.Printf("%-10s %s\n", inst.Symbol, "insufficient data")
				continue
			}
			verdict := "no"
			if n.IsNormal {
				verdict = "yes"
			}
			fmt.Printf("%-10s %10.4f %10.4f %8.3f %8.3f %8s\n",
				inst.Symbol, n.JarqueBeraPValue, n.ShapiroWilkPValue,
				n.Skewness, n.Kurtosis, verdict)
		}
		return nil
	},
}

// --- Frontier Command ---

var frontierCmd = &cobra.Command{
	Use:   "frontier [symbols...]",
	Short: "Sample the efficient frontier by Monte Carlo",
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, _ := cmd.Flags().GetInt("samples")
		if samples > 0 {
			cfg.Frontier.Samples = samples
		}
		if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
			cfg.Frontier.Seed = seed
		}

		report, err := runAnalysis(cmd, args)
		if err != nil {
			return err
		}
		if report.Frontier == nil {
			return fmt.Errorf("frontier unavailable: need at least 2 symbols with data")
		}
		printFrontierSummary(report.Frontier)
		return nil
	},
}

func init() {
	frontierCmd.Flags().Int("samples", 0, "number of Monte-Carlo portfolio draws")
	frontierCmd.Flags().Int64("seed", 0, "random seed for reproducible sampling")
}

func printFrontierSummary(c *models.FrontierCloud) {
	fmt.Printf("\n🎯 Efficient Frontier (%d samples over %d instruments)\n",
		len(c.Samples), len(c.Symbols))

	if mv := c.MinVolatility(); mv != nil {
		fmt.Printf("   Min Volatility: vol %6.2f%%  ret %6.2f%%  %s\n",
			mv.Volatility*100, mv.ExpectedReturn*100, topWeights(c.Symbols, mv.Weights))
	}
	if mr := c.MaxReturn(); mr != nil {
		fmt.Printf("   Max Return:     vol %6.2f%%  ret %6.2f%%  %s\n",
			mr.Volatility*100, mr.ExpectedReturn*100, topWeights(c.Symbols, mr.Weights))
	}
	if ms := c.MaxSharpe(cfg.Analysis.RiskFreeRate); ms != nil {
		fmt.Printf("   Max Sharpe:     vol %6.2f%%  ret %6.2f%%  %s\n",
			ms.Volatility*100, ms.ExpectedReturn*100, topWeights(c.Symbols, ms.Weights))
	}
}

// topWeights renders the heaviest holding of a weight vector.
func topWeights(symbols []string, weights []float64) string {
	best := 0
	for i, w := range weights {
		if w > weights[best] {
			best = i
		}
	}
	return fmt.Sprintf("(top: %s %.1f%%)", symbols[best], weights[best]*100)
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🚀 ADRisk API listening on %s\n", addr)

		srv := api.NewServer(cfg, datasource.NewYahoo())
		return srv.ListenAndServe(addr)
	},
}
