package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/rapm"
	"github.com/okian/rapm/pkg/logger"
)

// FitResult is one rating fit. Err is set when the fit failed; Table is
// then empty.
type FitResult struct {
	Label   string
	Seasons []string
	Rows    int // stints after filtering
	Table   rapm.Table
	Err     error
}

// Fit estimates ratings over stints of the configured season types.
func (s *Service) Fit(ctx context.Context, label string, stints []model.Stint) FitResult {
	rows := s.filterSeasonTypes(stints)
	res := FitResult{Label: label, Seasons: seasonsOf(rows), Rows: len(rows)}
	res.Table, res.Err = rapm.Estimate(ctx, s.ridge, rows)
	if res.Err != nil {
		s.logger.Warn(ctx, "fit failed", logger.String("label", label), logger.Int("rows", len(rows)), logger.Error(res.Err))
		return res
	}
	s.logger.Info(ctx, "fit complete",
		logger.String("label", label),
		logger.Int("rows", len(rows)),
		logger.Int("players", len(res.Table.Ratings)),
		logger.Float64("lambda", res.Table.Lambda),
	)
	return res
}

// FitSeasonRange fits stints whose season lies in [from, to]. Season labels
// such as "2018-19" order lexically. An empty bound is open.
func (s *Service) FitSeasonRange(ctx context.Context, stints []model.Stint, from, to string) FitResult {
	rows := filter(stints, func(st model.Stint) bool { return inRange(st.Season, from, to) })
	return s.Fit(ctx, rangeLabel(from, to), rows)
}

// FitDateRange fits stints whose date lies in [from, to], both YYYY-MM-DD.
// Stints without a date are left out. An empty bound is open.
func (s *Service) FitDateRange(ctx context.Context, stints []model.Stint, from, to string) FitResult {
	rows := filter(stints, func(st model.Stint) bool { return st.Date != "" && inRange(st.Date, from, to) })
	return s.Fit(ctx, rangeLabel(from, to), rows)
}

// FitSeasonWindows fits every run of length consecutive seasons present in
// stints, at most fitConcurrency at a time. Results are in season order. A
// failed window is reported in its result; the call fails only when ctx
// ends or no window fits the seasons available.
func (s *Service) FitSeasonWindows(ctx context.Context, stints []model.Stint, length int) ([]FitResult, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, length)
	}
	rows := s.filterSeasonTypes(stints)
	seasons := seasonsOf(rows)
	if len(seasons) < length {
		return nil, fmt.Errorf("%w: %d seasons, window %d", ErrNotEnoughSeasons, len(seasons), length)
	}

	bySeason := make(map[string][]model.Stint, len(seasons))
	for _, st := range rows {
		bySeason[st.Season] = append(bySeason[st.Season], st)
	}

	results := make([]FitResult, len(seasons)-length+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fitConcurrency)
	for i := range results {
		window := seasons[i : i+length]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var ws []model.Stint
			for _, season := range window {
				ws = append(ws, bySeason[season]...)
			}
			results[i] = s.Fit(gctx, rangeLabel(window[0], window[len(window)-1]), ws)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("season windows: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("season windows: %w", err)
	}
	return results, nil
}

// filterSeasonTypes keeps the stints of the configured season types.
func (s *Service) filterSeasonTypes(stints []model.Stint) []model.Stint {
	if len(s.seasonTypes) == 0 {
		return stints
	}
	keep := make(map[string]bool, len(s.seasonTypes))
	for _, t := range s.seasonTypes {
		keep[t] = true
	}
	return filter(stints, func(st model.Stint) bool { return keep[st.SeasonType] })
}

func filter(stints []model.Stint, keep func(model.Stint) bool) []model.Stint {
	out := make([]model.Stint, 0, len(stints))
	for _, st := range stints {
		if keep(st) {
			out = append(out, st)
		}
	}
	return out
}

func inRange(v, from, to string) bool {
	return (from == "" || v >= from) && (to == "" || v <= to)
}

// seasonsOf returns the distinct non-empty seasons of stints in order.
func seasonsOf(stints []model.Stint) []string {
	seen := make(map[string]bool)
	var out []string
	for _, st := range stints {
		if st.Season != "" && !seen[st.Season] {
			seen[st.Season] = true
			out = append(out, st.Season)
		}
	}
	sort.Strings(out)
	return out
}

func rangeLabel(from, to string) string {
	switch {
	case from == "" && to == "":
		return "all"
	case from == to:
		return from
	case from == "":
		return "..." + to
	case to == "":
		return from + "..."
	}
	return from + "_" + to
}
