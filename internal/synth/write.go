package synth

import (
	"fmt"
	"io"

	"github.com/okian/rapm/internal/adapters/table"
	"github.com/okian/rapm/internal/domain/model"
)

// File names written next to the per-game tables.
const (
	ScheduleFile = "schedule.csv"
	RosterFile   = "players.csv"
	TruthPattern = "truth/%s.csv"
)

// WriteSeason writes every game's play-by-play log and starters under d,
// plus the schedule, the roster and the ground truth possessions.
func WriteSeason(d *table.Dir, games []Game, roster map[string]string) error {
	for _, gm := range games {
		if err := table.WriteFile(d.EventsPath(gm.Ref.ID), func(w io.Writer) error {
			return table.WriteEvents(w, gm.Events)
		}); err != nil {
			return fmt.Errorf("game %s events: %w", gm.Ref.ID, err)
		}
		if err := table.WriteFile(d.StartersPath(gm.Ref.ID), func(w io.Writer) error {
			return table.WriteStarters(w, gm.Starters)
		}); err != nil {
			return fmt.Errorf("game %s starters: %w", gm.Ref.ID, err)
		}
		if err := table.WriteFile(d.Path(fmt.Sprintf(TruthPattern, gm.Ref.ID)), func(w io.Writer) error {
			return table.WritePossessions(w, gm.Possessions)
		}); err != nil {
			return fmt.Errorf("game %s truth: %w", gm.Ref.ID, err)
		}
	}

	refs := make([]model.GameRef, len(games))
	for i, gm := range games {
		refs[i] = gm.Ref
	}
	if err := table.WriteFile(d.Path(ScheduleFile), func(w io.Writer) error {
		return table.WriteSchedule(w, refs)
	}); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if err := table.WriteFile(d.Path(RosterFile), func(w io.Writer) error {
		return table.WriteRoster(w, roster)
	}); err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	return nil
}
