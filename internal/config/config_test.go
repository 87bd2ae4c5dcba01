package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Analysis.RiskFreeRate != 0.04 {
		t.Errorf("risk_free_rate = %v, want 0.04", cfg.Analysis.RiskFreeRate)
	}
	if cfg.Analysis.PeriodsPerYear != 252 {
		t.Errorf("periods_per_year = %d, want 252", cfg.Analysis.PeriodsPerYear)
	}
	if cfg.Analysis.MinCAPMObservations != 30 {
		t.Errorf("min_capm_observations = %d, want 30", cfg.Analysis.MinCAPMObservations)
	}
	if cfg.Analysis.Benchmark != "SPY" {
		t.Errorf("benchmark = %q, want SPY", cfg.Analysis.Benchmark)
	}
	if cfg.Frontier.Samples != 10000 {
		t.Errorf("frontier.samples = %d, want 10000", cfg.Frontier.Samples)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("api.port = %d, want 8080", cfg.API.Port)
	}
	if len(cfg.Universe.Symbols) == 0 {
		t.Error("default universe must not be empty")
	}
	if _, ok := cfg.Universe.Symbols["YPF.BA"]; !ok {
		t.Error("default universe missing YPF.BA")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ADRISK_API_PORT", "9999")
	t.Setenv("ADRISK_ANALYSIS_BENCHMARK", "QQQ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("api.port = %d, want env override 9999", cfg.API.Port)
	}
	if cfg.Analysis.Benchmark != "QQQ" {
		t.Errorf("benchmark = %q, want env override QQQ", cfg.Analysis.Benchmark)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
analysis:
  risk_free_rate: 0.02
  benchmark: "^GSPC"
frontier:
  samples: 500
  seed: 42
universe:
  symbols:
    GGAL: "Grupo Galicia"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Analysis.RiskFreeRate != 0.02 {
		t.Errorf("risk_free_rate = %v, want 0.02", cfg.Analysis.RiskFreeRate)
	}
	if cfg.Analysis.Benchmark != "^GSPC" {
		t.Errorf("benchmark = %q, want ^GSPC", cfg.Analysis.Benchmark)
	}
	if cfg.Frontier.Samples != 500 || cfg.Frontier.Seed != 42 {
		t.Errorf("frontier = %+v, want samples 500 seed 42", cfg.Frontier)
	}
	// Unset keys keep their defaults.
	if cfg.Analysis.PeriodsPerYear != 252 {
		t.Errorf("periods_per_year = %d, want default 252", cfg.Analysis.PeriodsPerYear)
	}
	if cfg.Universe.Symbols["GGAL"] != "Grupo Galicia" {
		t.Errorf("universe = %v, want file override", cfg.Universe.Symbols)
	}
}

func TestZeroRiskFreeRateFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("analysis:\n  risk_free_rate: 0.0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	// An explicit zero is a real rate and must not be replaced by the
	// 4% default anywhere downstream.
	if cfg.Analysis.RiskFreeRate != 0 {
		t.Errorf("risk_free_rate = %v, want explicit 0", cfg.Analysis.RiskFreeRate)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestUniverseSymbolsSorted(t *testing.T) {
	cfg := &Config{Universe: UniverseConfig{Symbols: map[string]string{
		"YPF": "YPF", "BMA": "Banco Macro", "GGAL": "Grupo Galicia",
	}}}
	got := cfg.UniverseSymbols()
	want := []string{"BMA", "GGAL", "YPF"}
	if len(got) != len(want) {
		t.Fatalf("symbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("symbols = %v, want sorted %v", got, want)
		}
	}
}
