// Package models defines the core data structures used throughout ADRisk.
package models

import (
	"math"
	"sort"
	"time"
)

// PricePoint is a single daily close observation.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries holds the ordered close-price history of one instrument.
// Dates are strictly increasing. A series is immutable once fetched;
// analytics derive fresh values from it rather than mutating it.
type PriceSeries struct {
	Symbol string       `json:"symbol"` // e.g., "GGAL.BA"
	Name   string       `json:"name"`   // e.g., "Grupo Financiero Galicia"
	Points []PricePoint `json:"points"`
}

// Len returns the number of price observations.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Empty reports whether the series has no usable observations.
func (s *PriceSeries) Empty() bool { return s.Len() == 0 }

// ReturnPoint is a single fractional period-over-period change, dated by
// the later of the two observations it was derived from.
type ReturnPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ReturnSeries holds the ordered simple returns of one instrument,
// derived from a PriceSeries. Gaps in the underlying prices appear as
// missing dates here, never as filled-in values.
type ReturnSeries struct {
	Symbol string        `json:"symbol"`
	Points []ReturnPoint `json:"points"`
}

// Len returns the number of return observations.
func (r *ReturnSeries) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Points)
}

// Empty reports whether the series has no observations.
func (r *ReturnSeries) Empty() bool { return r.Len() == 0 }

// Values returns the return values in date order.
func (r *ReturnSeries) Values() []float64 {
	if r == nil {
		return nil
	}
	vals := make([]float64, len(r.Points))
	for i, p := range r.Points {
		vals[i] = p.Value
	}
	return vals
}

// Universe maps instrument symbols to their price series. Insertion
// order is irrelevant; consumers that need a stable ordering sort the
// symbols.
type Universe map[string]*PriceSeries

// Symbols returns the universe's symbols in sorted order, skipping
// entries with no data.
func (u Universe) Symbols() []string {
	symbols := make([]string, 0, len(u))
	for sym, series := range u {
		if series.Empty() {
			continue
		}
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// IsFinite reports whether v is a usable float (not NaN or ±Inf).
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
