// Package returns converts price series into simple-return series and
// aligns return series on their date index. Everything downstream
// (risk, CAPM, normality, frontier) consumes its output, and the same
// drop-incomplete-rows policy applies uniformly: gaps are never
// forward-filled, they propagate as missing observations.
package returns

import (
	"time"

	"github.com/southquant/adrisk/pkg/models"
)

// Compute derives the simple-return series r[i] = p[i]/p[i-1] - 1 from a
// price series. A series shorter than two points yields an empty result.
// A non-finite or non-positive price invalidates every return that
// references it; those entries are dropped, not coerced.
func Compute(s *models.PriceSeries) *models.ReturnSeries {
	rs := &models.ReturnSeries{}
	if s != nil {
		rs.Symbol = s.Symbol
	}
	if s.Len() < 2 {
		return rs
	}

	rs.Points = make([]models.ReturnPoint, 0, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		prev, cur := s.Points[i-1], s.Points[i]
		if !usable(prev.Close) || !usable(cur.Close) {
			continue
		}
		rs.Points = append(rs.Points, models.ReturnPoint{
			Date:  cur.Date,
			Value: cur.Close/prev.Close - 1,
		})
	}
	return rs
}

func usable(price float64) bool {
	return models.IsFinite(price) && price > 0
}

// Align inner-joins two return series on date and returns their values
// as parallel slices. Dates present in only one series are dropped.
func Align(a, b *models.ReturnSeries) (x, y []float64) {
	if a.Empty() || b.Empty() {
		return nil, nil
	}
	byDate := make(map[int64]float64, b.Len())
	for _, p := range b.Points {
		byDate[p.Date.Unix()] = p.Value
	}
	for _, p := range a.Points {
		v, ok := byDate[p.Date.Unix()]
		if !ok {
			continue
		}
		x = append(x, p.Value)
		y = append(y, v)
	}
	return x, y
}

// InnerJoin aligns any number of return series on their common dates
// ("complete cases only": a date missing in any series drops the whole
// row). The returned columns are parallel to the input order, each
// column holding one series' values on the shared dates.
func InnerJoin(series []*models.ReturnSeries) (dates []time.Time, columns [][]float64) {
	if len(series) == 0 {
		return nil, nil
	}
	for _, s := range series {
		if s.Empty() {
			return nil, nil
		}
	}

	lookups := make([]map[int64]float64, len(series))
	for i, s := range series {
		lookups[i] = make(map[int64]float64, s.Len())
		for _, p := range s.Points {
			lookups[i][p.Date.Unix()] = p.Value
		}
	}

	columns = make([][]float64, len(series))
	// The first series drives iteration order, keeping dates ascending.
	for _, p := range series[0].Points {
		key := p.Date.Unix()
		row := make([]float64, len(series))
		complete := true
		for i, lookup := range lookups {
			v, ok := lookup[key]
			if !ok {
				complete = false
				break
			}
			row[i] = v
		}
		if !complete {
			continue
		}
		dates = append(dates, p.Date)
		for i := range columns {
			columns[i] = append(columns[i], row[i])
		}
	}
	return dates, columns
}

// EqualWeight builds the equal-weighted basket return series: the
// cross-sectional mean of all series on each shared date. Rows with any
// missing instrument are dropped, matching InnerJoin.
func EqualWeight(series []*models.ReturnSeries) *models.ReturnSeries {
	basket := &models.ReturnSeries{Symbol: "PORTFOLIO"}
	dates, columns := InnerJoin(series)
	if len(dates) == 0 {
		return basket
	}

	basket.Points = make([]models.ReturnPoint, len(dates))
	for row := range dates {
		sum := 0.0
		for _, col := range columns {
			sum += col[row]
		}
		basket.Points[row] = models.ReturnPoint{
			Date:  dates[row],
			Value: sum / float64(len(columns)),
		}
	}
	return basket
}
