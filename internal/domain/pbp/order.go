package pbp

import (
	"fmt"
	"sort"

	"github.com/okian/rapm/internal/domain/model"
)

// Derive fills Index, Elapsed and PeriodElapsed for a game's events in row
// order. A malformed clock fails the whole game.
func Derive(events []model.Event) error {
	for i := range events {
		e := &events[i]
		e.Index = i
		t, err := ElapsedPeriod(e.Period, e.Clock)
		if err != nil {
			return fmt.Errorf("event %d (num %d): %w", i, e.EventNum, err)
		}
		e.PeriodElapsed = t
		e.Elapsed = PeriodStart(e.Period) + t
	}
	return nil
}

// Order sorts events by elapsed game time, keeping row order for simultaneous events.
func Order(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Elapsed != events[j].Elapsed {
			return events[i].Elapsed < events[j].Elapsed
		}
		return events[i].Index < events[j].Index
	})
}
