package table

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/okian/rapm/internal/domain/model"
)

// Schedule and roster columns.
const (
	ColSeason     = "SEASON"
	ColSeasonType = "SEASON_TYPE"
	ColGameDate   = "GAME_DATE"
	ColPlayerID   = "PLAYER_ID"
	ColPlayerName = "PLAYER_NAME"
)

// ReadSchedule reads the games of a schedule in file order, duplicates
// included. Season and season type default to the given values when the
// file does not carry them.
func ReadSchedule(r io.Reader, season, seasonType string) ([]model.GameRef, error) {
	t, err := newReader(r, ColGameID)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	var out []model.GameRef
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		g := model.GameRef{
			ID:         rec.str(ColGameID),
			Season:     rec.text(ColSeason),
			SeasonType: rec.text(ColSeasonType),
			Date:       dateOnly(rec.text(ColGameDate)),
		}
		if g.ID == "" {
			return nil, fmt.Errorf("schedule: %w", rec.bad(ColGameID, g.ID))
		}
		if g.Season == "" {
			g.Season = season
		}
		if g.SeasonType == "" {
			g.SeasonType = seasonType
		}
		out = append(out, g)
	}
}

// WriteSchedule writes a schedule.
func WriteSchedule(w io.Writer, games []model.GameRef) error {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{g.ID, g.Season, g.SeasonType, g.Date})
	}
	return writeAll(w, []string{ColGameID, ColSeason, ColSeasonType, ColGameDate}, rows)
}

// dateOnly keeps the YYYY-MM-DD prefix of a timestamp.
func dateOnly(v string) string {
	if len(v) > 10 {
		return v[:10]
	}
	return v
}

// ReadRoster reads player id to name pairs. Later rows win.
func ReadRoster(r io.Reader) (map[string]string, error) {
	t, err := newReader(r, ColPlayerID, ColPlayerName)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	out := make(map[string]string)
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("roster: %w", err)
		}
		if id := rec.id(ColPlayerID); id != "" {
			out[id] = rec.text(ColPlayerName)
		}
	}
}

// WriteRoster writes player id to name pairs ordered by id.
func WriteRoster(w io.Writer, roster map[string]string) error {
	ids := make([]string, 0, len(roster))
	for id := range roster {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{id, roster[id]})
	}
	return writeAll(w, []string{ColPlayerID, ColPlayerName}, rows)
}
