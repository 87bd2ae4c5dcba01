// Package config handles configuration loading for ADRisk.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/southquant/adrisk/internal/analysis/capm"
	"github.com/southquant/adrisk/internal/datasource"
)

// Config represents the complete application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Frontier FrontierConfig `mapstructure:"frontier" yaml:"frontier"`
	Universe UniverseConfig `mapstructure:"universe" yaml:"universe"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// AnalysisConfig holds the analytics parameters.
type AnalysisConfig struct {
	RiskFreeRate        float64 `mapstructure:"risk_free_rate"        yaml:"risk_free_rate"`        // annual, e.g. 0.04
	PeriodsPerYear      int     `mapstructure:"periods_per_year"      yaml:"periods_per_year"`      // trading days
	MinCAPMObservations int     `mapstructure:"min_capm_observations" yaml:"min_capm_observations"`
	Benchmark           string  `mapstructure:"benchmark"             yaml:"benchmark"` // market proxy symbol
	ConcurrentFetches   int     `mapstructure:"concurrent_fetches"    yaml:"concurrent_fetches"`
}

// FrontierConfig holds Monte-Carlo frontier sampling settings.
type FrontierConfig struct {
	Samples int   `mapstructure:"samples" yaml:"samples"`
	Seed    int64 `mapstructure:"seed"    yaml:"seed"` // 0 = non-deterministic
}

// UniverseConfig holds the default instrument universe.
type UniverseConfig struct {
	Symbols map[string]string `mapstructure:"symbols" yaml:"symbols"` // symbol → display name
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.adrisk/config.yaml (home directory)
//  3. /etc/adrisk/config.yaml (system)
//
// Environment variables override config file values.
// Format: ADRISK_<SECTION>_<KEY>, e.g., ADRISK_API_PORT.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".adrisk"))
	v.AddConfigPath("/etc/adrisk")

	v.SetEnvPrefix("ADRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("ADRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Analysis defaults. The 4% risk-free rate is a modeling assumption,
	// deliberately surfaced here instead of buried in the math.
	v.SetDefault("analysis.risk_free_rate", capm.DefaultRiskFreeRate)
	v.SetDefault("analysis.periods_per_year", 252)
	v.SetDefault("analysis.min_capm_observations", capm.DefaultMinObservations)
	v.SetDefault("analysis.benchmark", "SPY")
	v.SetDefault("analysis.concurrent_fetches", 5)

	// Frontier defaults
	v.SetDefault("frontier.samples", 10000)
	v.SetDefault("frontier.seed", 0)

	// Universe defaults: the Argentine ADR basket
	v.SetDefault("universe.symbols", datasource.ArgentineADRs)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// UniverseSymbols returns the configured universe's symbols in sorted
// order.
func (c *Config) UniverseSymbols() []string {
	symbols := make([]string, 0, len(c.Universe.Symbols))
	for sym := range c.Universe.Symbols {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}
