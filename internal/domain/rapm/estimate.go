// Package rapm builds the sparse one-hot design from stint rows and fits
// offensive and defensive player coefficients with cross-validated ridge regression.
package rapm

import (
	"context"
	"errors"
	"time"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/pkg/metrics"
)

// Estimate builds the design from stints, fits r and returns the rating table.
func Estimate(ctx context.Context, r *Ridge, stints []model.Stint) (Table, error) {
	start := time.Now()
	d, err := NewDesign(stints)
	if err != nil {
		metrics.RecordFitFailure(failureReason(err))
		return Table{}, err
	}
	rows, cols := d.X.Dims()
	metrics.UpdateDesignShape(rows, cols)

	f, err := r.Fit(ctx, d)
	if err != nil {
		metrics.RecordFitFailure(failureReason(err))
		return Table{}, err
	}
	metrics.RecordFitDuration(time.Since(start))
	metrics.UpdateSelectedLambda(f.Lambda)
	return NewTable(d, f), nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoRows):
		return "no_rows"
	case errors.Is(err, ErrZeroPossessions):
		return "zero_possessions"
	case errors.Is(err, ErrRankDeficient):
		return "rank_deficient"
	case errors.Is(err, ErrNonFinite):
		return "non_finite"
	case errors.Is(err, ErrDuplicatePlayer):
		return "duplicate_player"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "other"
}
