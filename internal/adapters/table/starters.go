package table

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/rapm/internal/domain/lineup"
)

// Period starters columns.
const (
	ColTeamID1      = "TEAM_ID_1"
	ColTeam1Players = "TEAM_1_PLAYERS"
	ColTeamID2      = "TEAM_ID_2"
	ColTeam2Players = "TEAM_2_PLAYERS"
)

// ParsePlayerList parses a bracketed list such as "[1, 2, 3, 4, 5]".
func ParsePlayerList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		out = append(out, NormalizeID(p))
	}
	return out
}

// FormatPlayerList renders ids in the bracketed list form.
func FormatPlayerList(ids []string) string {
	return "[" + strings.Join(ids, ", ") + "]"
}

// ReadStarters reads the players on court at the start of every period.
func ReadStarters(r io.Reader) ([]lineup.Starters, error) {
	t, err := newReader(r, ColTeamID1, ColTeam1Players, ColTeamID2, ColTeam2Players, ColPeriod)
	if err != nil {
		return nil, fmt.Errorf("starters: %w", err)
	}
	var out []lineup.Starters
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("starters: %w", err)
		}
		period, err := rec.int(ColPeriod)
		if err != nil {
			return nil, fmt.Errorf("starters: %w", err)
		}
		out = append(out, lineup.Starters{
			Period:       period,
			Team1ID:      rec.id(ColTeamID1),
			Team1Players: ParsePlayerList(rec.str(ColTeam1Players)),
			Team2ID:      rec.id(ColTeamID2),
			Team2Players: ParsePlayerList(rec.str(ColTeam2Players)),
		})
	}
}

// WriteStarters writes period starters.
func WriteStarters(w io.Writer, starters []lineup.Starters) error {
	rows := make([][]string, 0, len(starters))
	for _, s := range starters {
		rows = append(rows, []string{
			s.Team1ID, FormatPlayerList(s.Team1Players),
			s.Team2ID, FormatPlayerList(s.Team2Players),
			itoa(s.Period),
		})
	}
	return writeAll(w, []string{ColTeamID1, ColTeam1Players, ColTeamID2, ColTeam2Players, ColPeriod}, rows)
}
