package possession

import (
	"context"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
	"github.com/okian/rapm/pkg/logger"
	"github.com/okian/rapm/pkg/metrics"
)

// Lookup names used in fallback metrics.
const (
	lookupMissedShot = "missed_shot"
	lookupFoul       = "foul"
)

// isBoundary reports whether the possession ends at events[idx]: a turnover,
// a made last free throw that changes possession, a defensive rebound, a made
// shot that is not an And-1, or the end of a period.
func (s *Segmenter) isBoundary(ctx context.Context, events []model.Event, idx int) bool {
	e := events[idx]
	switch pbp.TypeOf(e) {
	case pbp.Turnover, pbp.EndOfPeriod:
		return true
	case pbp.FreeThrow:
		ok, m := pbp.IsLastFreeThrowMade(events, idx, s.windows.Foul)
		s.noteFallback(ctx, e, m, lookupFoul)
		return ok
	case pbp.Rebound:
		ok, m := pbp.IsDefensiveRebound(events, idx, s.windows.Rebound)
		s.noteFallback(ctx, e, m, lookupMissedShot)
		return ok
	case pbp.MadeShot:
		return pbp.IsMakeAndNotAnd1(events, idx, s.windows.Event, s.windows.And1Second)
	}
	return false
}

func (s *Segmenter) noteFallback(ctx context.Context, e model.Event, m pbp.Match, lookup string) {
	if m == pbp.MatchFound {
		return
	}
	metrics.RecordWindowFallback(lookup)
	s.log.Debug(ctx, "windowed lookup found no match",
		logger.String("game_id", e.GameID), logger.Int("event_index", e.Index),
		logger.String("lookup", lookup), logger.Bool("empty_window", m == pbp.MatchEmpty))
}
