package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/okian/rapm/internal/domain/model"
)

// Possession table columns, in the alphabetical order they are written.
var possessionColumns = []string{
	"game_id", "period", "possession_end", "possession_start", "possession_team",
	"team1_id", "team1_player1", "team1_player2", "team1_player3", "team1_player4", "team1_player5", "team1_points",
	"team2_id", "team2_player1", "team2_player2", "team2_player3", "team2_player4", "team2_player5", "team2_points",
}

// WritePossessions writes one row per possession.
func WritePossessions(w io.Writer, ps []model.Possession) error {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		row := []string{
			p.GameID, itoa(p.Period), formatFloat(p.End), formatFloat(p.Start), p.Offense,
			p.Team1ID,
		}
		row = append(row, p.Team1Players[:]...)
		row = append(row, formatFloat(p.Team1Points), p.Team2ID)
		row = append(row, p.Team2Players[:]...)
		row = append(row, formatFloat(p.Team2Points))
		rows = append(rows, row)
	}
	return writeAll(w, possessionColumns, rows)
}

// ReadPossessions reads a possession table.
func ReadPossessions(r io.Reader) ([]model.Possession, error) {
	t, err := newReader(r, possessionColumns...)
	if err != nil {
		return nil, fmt.Errorf("possessions: %w", err)
	}
	var out []model.Possession
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("possessions: %w", err)
		}
		p, err := possessionFrom(rec)
		if err != nil {
			return nil, fmt.Errorf("possessions: %w", err)
		}
		out = append(out, p)
	}
}

func possessionFrom(rec record) (model.Possession, error) {
	p := model.Possession{
		GameID:  rec.id("game_id"),
		Offense: rec.id("possession_team"),
		Team1ID: rec.id("team1_id"),
		Team2ID: rec.id("team2_id"),
	}
	for i := range p.Team1Players {
		p.Team1Players[i] = rec.id(fmt.Sprintf("team1_player%d", i+1))
		p.Team2Players[i] = rec.id(fmt.Sprintf("team2_player%d", i+1))
	}
	var err error
	if p.Period, err = rec.int("period"); err != nil {
		return p, err
	}
	if p.Start, err = rec.float("possession_start"); err != nil {
		return p, err
	}
	if p.End, err = rec.float("possession_end"); err != nil {
		return p, err
	}
	if p.Team1Points, err = rec.float("team1_points"); err != nil {
		return p, err
	}
	if p.Team2Points, err = rec.float("team2_points"); err != nil {
		return p, err
	}
	return p, nil
}
