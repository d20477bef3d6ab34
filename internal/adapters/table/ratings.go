package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/okian/rapm/internal/domain/rapm"
)

// Rating table columns.
const (
	ColRAPM      = "RAPM"
	ColORAPM     = "O-RAPM"
	ColDRAPM     = "D-RAPM"
	ColRAPMRank  = "RAPM_Rank"
	ColORAPMRank = "O-RAPM_Rank"
	ColDRAPMRank = "D-RAPM_Rank"
	ColIntercept = "RAPM_Intercept"
	ColOffPoss   = "O_POSS"
	ColDefPoss   = "D_POSS"
	ColTotalPoss = "POSS"
	ColLARAPM    = "LA-RAPM"
	ColOLARAPM   = "O-LA-RAPM"
	ColDLARAPM   = "D-LA-RAPM"
	ColLA        = "LA"
	ColOLA       = "O-LA"
	ColDLA       = "D-LA"
)

// RatingOptions selects the optional rating columns.
type RatingOptions struct {
	Ranks     bool
	Intercept bool
}

// WriteRatings writes a rating table with values rounded to three decimals.
func WriteRatings(w io.Writer, t rapm.Table, opts RatingOptions) error {
	head := []string{ColPlayerID, ColPlayerName, ColRAPM, ColORAPM, ColDRAPM}
	if opts.Ranks {
		head = append(head, ColRAPMRank, ColORAPMRank, ColDRAPMRank)
	}
	if opts.Intercept {
		head = append(head, ColIntercept)
	}
	rows := make([][]string, 0, len(t.Ratings))
	for _, r := range t.Ratings {
		row := []string{r.PlayerID, r.Name, formatRounded(r.Total), formatRounded(r.Offense), formatRounded(r.Defense)}
		if opts.Ranks {
			row = append(row, itoa(r.TotalRank), itoa(r.OffenseRank), itoa(r.DefenseRank))
		}
		if opts.Intercept {
			row = append(row, formatRounded(t.Intercept))
		}
		rows = append(rows, row)
	}
	return writeAll(w, head, rows)
}

// ReadRatings reads a rating table written by WriteRatings. Missing rank
// columns are recomputed.
func ReadRatings(r io.Reader) (rapm.Table, error) {
	t, err := newReader(r, ColPlayerID, ColRAPM, ColORAPM, ColDRAPM)
	if err != nil {
		return rapm.Table{}, fmt.Errorf("ratings: %w", err)
	}
	ranked := t.has(ColRAPMRank) && t.has(ColORAPMRank) && t.has(ColDRAPMRank)
	var out rapm.Table
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rapm.Table{}, fmt.Errorf("ratings: %w", err)
		}
		rt, err := ratingFrom(rec, ranked)
		if err != nil {
			return rapm.Table{}, fmt.Errorf("ratings: %w", err)
		}
		if b, ok, err := rec.optFloat(ColIntercept); err == nil && ok {
			out.Intercept = b
		}
		out.Ratings = append(out.Ratings, rt)
	}
	if !ranked {
		rapm.Rank(out.Ratings)
	}
	return out, nil
}

func ratingFrom(rec record, ranked bool) (rapm.Rating, error) {
	r := rapm.Rating{PlayerID: rec.id(ColPlayerID), Name: rec.text(ColPlayerName)}
	var err error
	if r.Total, err = rec.float(ColRAPM); err != nil {
		return r, err
	}
	if r.Offense, err = rec.float(ColORAPM); err != nil {
		return r, err
	}
	if r.Defense, err = rec.float(ColDRAPM); err != nil {
		return r, err
	}
	if !ranked {
		return r, nil
	}
	if r.TotalRank, err = rec.int(ColRAPMRank); err != nil {
		return r, err
	}
	if r.OffenseRank, err = rec.int(ColORAPMRank); err != nil {
		return r, err
	}
	if r.DefenseRank, err = rec.int(ColDRAPMRank); err != nil {
		return r, err
	}
	return r, nil
}

// WriteCounts writes per-player possession counts.
func WriteCounts(w io.Writer, counts []rapm.Count) error {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.PlayerID, itoa(c.Offense), itoa(c.Defense), itoa(c.Total)})
	}
	return writeAll(w, []string{ColPlayerID, ColOffPoss, ColDefPoss, ColTotalPoss}, rows)
}

// WriteComparisons writes standard and luck adjusted ratings side by side.
func WriteComparisons(w io.Writer, cs []rapm.Comparison) error {
	head := []string{
		ColPlayerID, ColPlayerName, ColRAPM, ColORAPM, ColDRAPM,
		ColLARAPM, ColOLARAPM, ColDLARAPM, ColLA, ColOLA, ColDLA,
	}
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{
			c.PlayerID, c.Name,
			formatRounded(c.Basic.Total), formatRounded(c.Basic.Offense), formatRounded(c.Basic.Defense),
			formatRounded(c.Adjusted.Total), formatRounded(c.Adjusted.Offense), formatRounded(c.Adjusted.Defense),
			formatRounded(c.LA), formatRounded(c.OLA), formatRounded(c.DLA),
		})
	}
	return writeAll(w, head, rows)
}
