package rapm

import (
	"fmt"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/pkg/metrics"
)

// per100 scales points per possession to points per 100 possessions.
const per100 = 100

// Design is the sparse regression problem built from a stint table: one row
// per stint with +1 at its offensive players and -1 at its defensive players,
// offset by N.
type Design struct {
	X       *CSR
	Y       []float64 // points per 100 possessions
	Weights []float64 // possessions
	IDs     []string  // column order of both blocks
	Dropped int       // rows removed for carrying no possessions
}

// Players returns N, the width of each block.
func (d *Design) Players() int { return len(d.IDs) }

// Target returns points per 100 possessions.
func Target(points float64, possessions int) (float64, error) {
	if possessions <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrZeroPossessions, possessions)
	}
	return per100 * points / float64(possessions), nil
}

// NewDesign builds the design from stints. Rows without possessions are
// dropped before any row is built.
func NewDesign(stints []model.Stint) (*Design, error) {
	kept := make([]model.Stint, 0, len(stints))
	for _, s := range stints {
		if s.Possessions > 0 {
			kept = append(kept, s)
		}
	}
	dropped := len(stints) - len(kept)
	if dropped > 0 {
		metrics.RecordFilteredRows(dropped)
	}
	if len(kept) == 0 {
		return nil, ErrNoRows
	}

	ids := UniqueIDs(kept)
	n := len(ids)
	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}

	d := &Design{
		X:       NewCSR(2 * n),
		Y:       make([]float64, 0, len(kept)),
		Weights: make([]float64, 0, len(kept)),
		IDs:     ids,
		Dropped: dropped,
	}
	cols := make([]int, 0, 2*len(model.Lineup{}))
	vals := make([]float64, 0, cap(cols))
	for r, s := range kept {
		cols, vals = cols[:0], vals[:0]
		if err := checkSide(s.Offense); err != nil {
			return nil, fmt.Errorf("row %d offense: %w", r, err)
		}
		if err := checkSide(s.Defense); err != nil {
			return nil, fmt.Errorf("row %d defense: %w", r, err)
		}
		for _, p := range s.Offense {
			cols = append(cols, index[p])
			vals = append(vals, 1)
		}
		for _, p := range s.Defense {
			cols = append(cols, n+index[p])
			vals = append(vals, -1)
		}
		y, err := Target(s.Points, s.Possessions)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		d.X.AppendRow(cols, vals)
		d.Y = append(d.Y, y)
		d.Weights = append(d.Weights, float64(s.Possessions))
	}
	return d, nil
}

func checkSide(l model.Lineup) error {
	for i := range l {
		for j := i + 1; j < len(l); j++ {
			if l[i] == l[j] {
				return fmt.Errorf("%w: %s", ErrDuplicatePlayer, l[i])
			}
		}
	}
	return nil
}
