package possession

import (
	"context"
	"fmt"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
	"github.com/okian/rapm/internal/domain/scoring"
	"github.com/okian/rapm/pkg/logger"
	"github.com/okian/rapm/pkg/metrics"
)

// Aggregate reduces one possession's events to a summary. Teams and lineups
// come from the first event. prevEnd is the end of the previous possession
// of the game and is only read in continuous clock mode.
func (s *Segmenter) Aggregate(ctx context.Context, events []model.AnnotatedEvent, prevEnd float64) (model.Possession, error) {
	if len(events) == 0 {
		return model.Possession{}, ErrEmptyPossession
	}
	first := events[0]
	p := model.Possession{
		GameID:       first.GameID,
		Period:       first.Period,
		Team1ID:      first.Team1ID,
		Team1Players: first.Team1Players,
		Team2ID:      first.Team2ID,
		Team2Players: first.Team2Players,
	}

	lo, hi := first.Elapsed, first.Elapsed
	points := make(map[string]float64, 2)
	for _, e := range events {
		if e.Elapsed < lo {
			lo = e.Elapsed
		}
		if e.Elapsed > hi {
			hi = e.Elapsed
		}
		if !pbp.IsScoringAttempt(e.Event) {
			continue
		}
		v := s.scorer.Points(e.Event)
		if v < 0 {
			return model.Possession{}, fmt.Errorf("%w: %v at event %d", ErrNegativePoints, v, e.Index)
		}
		points[e.Player1TeamID] += v
	}
	p.Team1Points = points[p.Team1ID]
	p.Team2Points = points[p.Team2ID]

	p.End = float64(hi)
	p.Start = float64(lo)
	if s.clock == ClockContinuous {
		p.Start = prevEnd
	}

	last := events[len(events)-1]
	p.Offense = Offense(last)
	if p.Offense != p.Team1ID && p.Offense != p.Team2ID {
		metrics.RecordUnresolvedOffense()
		s.log.Warn(ctx, "offense matches neither team, using team2",
			logger.String("game_id", p.GameID), logger.Int("event_index", last.Index),
			logger.String("offense", p.Offense), logger.String("event_type", pbp.TypeOf(last.Event).String()))
		p.Offense = p.Team2ID
	}

	if p.Team1Points > 0 && p.Team2Points > 0 && s.scorer.Name() == scoring.ModeStandard {
		metrics.RecordScoringAnomaly()
		if s.strict {
			return model.Possession{}, fmt.Errorf("%w: game %s event %d", ErrScoringAnomaly, p.GameID, first.Index)
		}
		s.log.Warn(ctx, "both teams scored in one possession",
			logger.String("game_id", p.GameID), logger.Int("event_index", first.Index),
			logger.Float64("team1_points", p.Team1Points), logger.Float64("team2_points", p.Team2Points))
	}
	return p, nil
}
