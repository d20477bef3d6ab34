package rapm

import (
	"math"
	"sort"
)

// Rating is one player's fitted impact in points per 100 possessions.
type Rating struct {
	PlayerID string
	Name     string

	Offense float64 // O-RAPM
	Defense float64 // D-RAPM
	Total   float64 // RAPM = O-RAPM + D-RAPM

	// 1-based descending ranks. Ties keep player column order.
	TotalRank   int
	OffenseRank int
	DefenseRank int
}

// Table is the rating table of one fit.
type Table struct {
	Ratings   []Rating
	Intercept float64
	Lambda    float64
	Rows      int
}

// NewTable splits a fit's coefficients into per-player ratings, in design column order.
func NewTable(d *Design, f Fit) Table {
	n := d.Players()
	t := Table{
		Ratings:   make([]Rating, n),
		Intercept: f.Intercept,
		Lambda:    f.Lambda,
		Rows:      len(d.Y),
	}
	for i, id := range d.IDs {
		o, def := f.Coef[i], f.Coef[n+i]
		t.Ratings[i] = Rating{PlayerID: id, Offense: o, Defense: def, Total: o + def}
	}
	Rank(t.Ratings)
	return t
}

// Rank assigns descending ordinal ranks for each metric.
func Rank(ratings []Rating) {
	order := make([]int, len(ratings))
	assign := func(value func(Rating) float64, set func(*Rating, int)) {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return value(ratings[order[a]]) > value(ratings[order[b]])
		})
		for rank, i := range order {
			set(&ratings[i], rank+1)
		}
	}
	assign(func(r Rating) float64 { return r.Total }, func(r *Rating, k int) { r.TotalRank = k })
	assign(func(r Rating) float64 { return r.Offense }, func(r *Rating, k int) { r.OffenseRank = k })
	assign(func(r Rating) float64 { return r.Defense }, func(r *Rating, k int) { r.DefenseRank = k })
}

// WithNames joins player names onto the table. Players missing from the
// roster are dropped. Ranks are kept from the full fit.
func (t Table) WithNames(roster map[string]string) Table {
	out := t
	out.Ratings = make([]Rating, 0, len(t.Ratings))
	for _, r := range t.Ratings {
		name, ok := roster[r.PlayerID]
		if !ok {
			continue
		}
		r.Name = name
		out.Ratings = append(out.Ratings, r)
	}
	return out
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
