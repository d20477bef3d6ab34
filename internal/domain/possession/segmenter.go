// Package possession partitions a game's ordered, lineup-annotated event
// stream into possessions and reduces each one to a summary record.
package possession

import (
	"context"
	"fmt"

	"github.com/okian/rapm/internal/domain/lineup"
	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
	"github.com/okian/rapm/internal/domain/scoring"
	"github.com/okian/rapm/pkg/logger"
	"github.com/okian/rapm/pkg/metrics"
)

// Segmenter walks a game's events and emits possessions.
// A Segmenter holds no per-game state and may be shared between goroutines.
type Segmenter struct {
	windows pbp.Windows
	scorer  scoring.Scorer
	clock   ClockMode
	strict  bool
	log     logger.Logger
}

// New creates a Segmenter with default windows, the standard scorer and the event clock.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		windows: pbp.DefaultWindows(),
		scorer:  scoring.Standard{},
		clock:   ClockEvent,
		log:     logger.Discard(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Segments is the result of scanning one game.
type Segments struct {
	// Possessions holds the event groups in game order, none empty.
	Possessions [][]model.AnnotatedEvent
	// Trailing holds events after the last boundary. They belong to no possession.
	Trailing []model.AnnotatedEvent
}

// Segment partitions events into possessions. events must already be
// derived and ordered; tr is advanced as substitutions are read.
func (s *Segmenter) Segment(ctx context.Context, events []model.Event, tr *lineup.Tracker) (Segments, error) {
	var out Segments
	var current []model.AnnotatedEvent
	for idx, e := range events {
		if err := ctx.Err(); err != nil {
			return Segments{}, fmt.Errorf("segment: %w", err)
		}
		if !pbp.Known(e.Type) {
			metrics.RecordUnknownEventCode()
			s.log.Debug(ctx, "unknown event code",
				logger.String("game_id", e.GameID), logger.Int("event_index", e.Index), logger.Int("code", e.Type))
		}

		annotated, err := tr.Apply(e)
		if err != nil {
			return Segments{}, fmt.Errorf("lineup: %w", err)
		}

		t := pbp.TypeOf(e)
		if t != pbp.Substitution && t != pbp.EndOfPeriod {
			current = append(current, annotated)
		}

		if s.isBoundary(ctx, events, idx) {
			if len(current) > 0 {
				out.Possessions = append(out.Possessions, current)
			}
			current = nil
		}
	}

	if len(current) > 0 {
		out.Trailing = current
		metrics.RecordTrailingEvents(len(current))
		s.log.Warn(ctx, "events after last possession boundary",
			logger.String("game_id", current[0].GameID), logger.Int("events", len(current)),
			logger.Int("event_index", current[0].Index))
	}
	return out, nil
}
