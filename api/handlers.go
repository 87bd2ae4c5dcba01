package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/southquant/adrisk/internal/analysis/capm"
	"github.com/southquant/adrisk/internal/analysis/normality"
	"github.com/southquant/adrisk/internal/analysis/returns"
	"github.com/southquant/adrisk/internal/analysis/risk"
	"github.com/southquant/adrisk/pkg/models"
)

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the body for POST /api/v1/analyze.
type AnalyzeRequest struct {
	Symbols []string `json:"symbols,omitempty"` // default: configured universe
	From    string   `json:"from,omitempty"`    // YYYY-MM-DD, default 1y ago
	To      string   `json:"to,omitempty"`      // YYYY-MM-DD, default today
}

// FrontierRequest is the body for POST /api/v1/frontier.
type FrontierRequest struct {
	Symbols []string `json:"symbols,omitempty"`
	From    string   `json:"from,omitempty"`
	To      string   `json:"to,omitempty"`
	Samples int      `json:"samples,omitempty"` // default: configured sample count
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, APIResponse{Success: false, Error: fmt.Sprintf(format, args...)})
}

// parseDateRange reads from/to in YYYY-MM-DD; missing values default to
// the trailing year ending today.
func parseDateRange(from, to string) (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(-1, 0, 0)

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q: %w", from, err)
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q: %w", to, err)
		}
		end = t
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("from %s must precede to %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]string{
			"status":   "ok",
			"provider": s.provider.Name(),
		},
	})
}

func (s *Server) handleUniverse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: s.cfg.Universe.Symbols})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	from, to, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	series, err := s.provider.HistoricalPrices(r.Context(), symbol, from, to)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch %s: %v", symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: series})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	rets, ok := s.fetchReturns(w, r)
	if !ok {
		return
	}
	metrics := risk.Compute(rets.Values(), s.cfg.Analysis.PeriodsPerYear)
	if metrics == nil {
		writeError(w, http.StatusUnprocessableEntity, "insufficient data for %s", rets.Symbol)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: metrics})
}

func (s *Server) handleCAPM(w http.ResponseWriter, r *http.Request) {
	rets, ok := s.fetchReturns(w, r)
	if !ok {
		return
	}

	from, to, _ := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	benchmark, err := s.provider.HistoricalPrices(r.Context(), s.cfg.Analysis.Benchmark, from, to)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch benchmark %s: %v", s.cfg.Analysis.Benchmark, err)
		return
	}

	minObs := s.cfg.Analysis.MinCAPMObservations
	if minObs <= 0 {
		minObs = capm.DefaultMinObservations
	}
	result := capm.Compute(rets, returns.Compute(benchmark), capm.Options{
		RiskFreeRate:    s.cfg.Analysis.RiskFreeRate,
		PeriodsPerYear:  s.cfg.Analysis.PeriodsPerYear,
		MinObservations: minObs,
	})
	if result == nil {
		writeError(w, http.StatusUnprocessableEntity,
			"fewer than %d aligned observations for %s vs %s",
			minObs, rets.Symbol, s.cfg.Analysis.Benchmark)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleNormality(w http.ResponseWriter, r *http.Request) {
	rets, ok := s.fetchReturns(w, r)
	if !ok {
		return
	}
	result := normality.Compute(rets.Values())
	if result == nil {
		writeError(w, http.StatusUnprocessableEntity, "insufficient data for %s", rets.Symbol)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = s.cfg.UniverseSymbols()
	}

	report, err := s.analyzer.Analyze(r.Context(), symbols, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleFrontier(w http.ResponseWriter, r *http.Request) {
	var req FrontierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = s.cfg.UniverseSymbols()
	}
	samples := req.Samples
	if samples <= 0 {
		samples = s.cfg.Frontier.Samples
	}

	universeReturns := make(map[string]*models.ReturnSeries, len(symbols))
	for _, sym := range symbols {
		series, err := s.provider.HistoricalPrices(r.Context(), sym, from, to)
		if err != nil {
			continue // one missing instrument never aborts the rest
		}
		rets := returns.Compute(series)
		if !rets.Empty() {
			universeReturns[sym] = rets
		}
	}

	cloud, err := s.analyzer.SampleFrontier(universeReturns, samples)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "frontier: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cloud})
}

// fetchReturns fetches the symbol's prices for the requested range and
// converts them to returns, writing the HTTP error itself on failure.
func (s *Server) fetchReturns(w http.ResponseWriter, r *http.Request) (*models.ReturnSeries, bool) {
	symbol := chi.URLParam(r, "symbol")
	from, to, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return nil, false
	}

	series, err := s.provider.HistoricalPrices(r.Context(), symbol, from, to)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch %s: %v", symbol, err)
		return nil, false
	}
	return returns.Compute(series), true
}
