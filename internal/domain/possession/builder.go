package possession

import (
	"context"
	"fmt"

	"github.com/okian/rapm/internal/domain/lineup"
	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
	"github.com/okian/rapm/pkg/metrics"
)

// Game is the raw input of one game.
type Game struct {
	ID       string
	Events   []model.Event // row order
	Starters []lineup.Starters
}

// Result is the possession table of one game.
type Result struct {
	GameID      string
	Possessions []model.Possession
	Events      int
	Trailing    int
}

// Build derives, orders, annotates and segments a game's events and
// aggregates every possession. The input events are not modified.
func (s *Segmenter) Build(ctx context.Context, g Game) (Result, error) {
	events := make([]model.Event, len(g.Events))
	copy(events, g.Events)
	for i := range events {
		if events[i].GameID == "" {
			events[i].GameID = g.ID
		}
	}

	if err := pbp.Derive(events); err != nil {
		return Result{}, fmt.Errorf("game %s: %w", g.ID, err)
	}
	pbp.Order(events)

	tr, err := lineup.NewTracker(g.Starters)
	if err != nil {
		return Result{}, fmt.Errorf("game %s: %w", g.ID, err)
	}

	segs, err := s.Segment(ctx, events, tr)
	if err != nil {
		return Result{}, fmt.Errorf("game %s: %w", g.ID, err)
	}
	metrics.RecordEventsScanned(len(events))

	res := Result{
		GameID:      g.ID,
		Possessions: make([]model.Possession, 0, len(segs.Possessions)),
		Events:      len(events),
		Trailing:    len(segs.Trailing),
	}
	prevEnd := 0.0
	for _, group := range segs.Possessions {
		p, err := s.Aggregate(ctx, group, prevEnd)
		if err != nil {
			return Result{}, fmt.Errorf("game %s: %w", g.ID, err)
		}
		prevEnd = p.End
		res.Possessions = append(res.Possessions, p)
	}
	metrics.RecordPossessionsEmitted(len(res.Possessions))
	return res, nil
}
