// Package table reads and writes the CSV tables exchanged with the pipeline:
// play-by-play logs, period starters, schedules, rosters, possessions,
// stints, ratings, possession counts and rating comparisons.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// header maps column names to positions.
type header map[string]int

// reader walks a CSV table by column name.
type reader struct {
	r    *csv.Reader
	cols header
	line int
}

func newReader(r io.Reader, required ...string) (*reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(header, len(first))
	for i, name := range first {
		// Strip a UTF-8 BOM written by spreadsheet exports.
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return &reader{r: cr, cols: cols, line: 1}, nil
}

// next returns the following record, or io.EOF.
func (t *reader) next() (record, error) {
	rec, err := t.r.Read()
	if err != nil {
		return record{}, err
	}
	t.line++
	return record{fields: rec, cols: t.cols, line: t.line}, nil
}

func (t *reader) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

type record struct {
	fields []string
	cols   header
	line   int
}

// str returns the raw trimmed value of col, or "" when the column is absent.
func (r record) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// id returns an identifier, normalizing missing markers to "" and integral
// floats such as "1610612737.0" to their integer form.
func (r record) id(col string) string {
	return NormalizeID(r.str(col))
}

// player returns a required player id. A blank slot is a bad value.
func (r record) player(col string) (string, error) {
	id := r.id(col)
	if id == "" {
		return "", r.bad(col, r.str(col))
	}
	return id, nil
}

// text returns free text with missing markers mapped to "".
func (r record) text(col string) string {
	v := r.str(col)
	if isMissing(v) {
		return ""
	}
	return v
}

func (r record) int(col string) (int, error) {
	v := r.str(col)
	if isMissing(v) {
		return 0, r.bad(col, v)
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, r.bad(col, v)
	}
	return int(f), nil
}

func (r record) float(col string) (float64, error) {
	v := r.str(col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, r.bad(col, v)
	}
	return f, nil
}

// optFloat parses col, reporting false when the cell is missing.
func (r record) optFloat(col string) (float64, bool, error) {
	if isMissing(r.str(col)) {
		return 0, false, nil
	}
	f, err := r.float(col)
	return f, err == nil, err
}

func (r record) bad(col, v string) error {
	return fmt.Errorf("%w: line %d column %s: %q", ErrBadValue, r.line, col, v)
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

// NormalizeID maps missing markers to "" and trims a zero fraction.
func NormalizeID(v string) string {
	v = strings.TrimSpace(v)
	if isMissing(v) {
		return ""
	}
	if i := strings.IndexByte(v, '.'); i > 0 && strings.Trim(v[i+1:], "0") == "" {
		return v[:i]
	}
	return v
}

// writeAll writes a header and rows, then flushes.
func writeAll(w io.Writer, head []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRounded writes v rounded to three decimals.
func formatRounded(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func itoa(n int) string { return strconv.Itoa(n) }
