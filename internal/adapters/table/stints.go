package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/okian/rapm/internal/domain/model"
)

// Stint table columns. The provenance columns are optional on read.
const (
	ColStintPoints  = "points"
	ColPossessions  = "possessions"
	ColStintGameID  = "game_id"
	ColStintSeason  = "season"
	ColStintType    = "season_type"
	ColStintDate    = "date"
	offensivePrefix = "offensive_player"
	defensivePrefix = "defensive_player"
)

func stintHeader() []string {
	head := make([]string, 0, 16)
	for i := 1; i <= 5; i++ {
		head = append(head, fmt.Sprintf("%s%d", offensivePrefix, i))
	}
	for i := 1; i <= 5; i++ {
		head = append(head, fmt.Sprintf("%s%d", defensivePrefix, i))
	}
	return append(head, ColStintPoints, ColPossessions, ColStintGameID, ColStintSeason, ColStintType, ColStintDate)
}

// WriteStints writes regression rows.
func WriteStints(w io.Writer, stints []model.Stint) error {
	rows := make([][]string, 0, len(stints))
	for _, s := range stints {
		row := make([]string, 0, 16)
		row = append(row, s.Offense[:]...)
		row = append(row, s.Defense[:]...)
		row = append(row, formatFloat(s.Points), itoa(s.Possessions), s.GameID, s.Season, s.SeasonType, s.Date)
		rows = append(rows, row)
	}
	return writeAll(w, stintHeader(), rows)
}

// ReadStints reads regression rows.
func ReadStints(r io.Reader) ([]model.Stint, error) {
	t, err := newReader(r, stintHeader()[:12]...)
	if err != nil {
		return nil, fmt.Errorf("stints: %w", err)
	}
	var out []model.Stint
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("stints: %w", err)
		}
		s := model.Stint{
			GameID:     rec.id(ColStintGameID),
			Season:     rec.text(ColStintSeason),
			SeasonType: rec.text(ColStintType),
			Date:       rec.text(ColStintDate),
		}
		for i := range s.Offense {
			if s.Offense[i], err = rec.player(fmt.Sprintf("%s%d", offensivePrefix, i+1)); err != nil {
				return nil, fmt.Errorf("stints: %w", err)
			}
			if s.Defense[i], err = rec.player(fmt.Sprintf("%s%d", defensivePrefix, i+1)); err != nil {
				return nil, fmt.Errorf("stints: %w", err)
			}
		}
		if s.Points, err = rec.float(ColStintPoints); err != nil {
			return nil, fmt.Errorf("stints: %w", err)
		}
		if s.Possessions, err = rec.int(ColPossessions); err != nil {
			return nil, fmt.Errorf("stints: %w", err)
		}
		out = append(out, s)
	}
}
