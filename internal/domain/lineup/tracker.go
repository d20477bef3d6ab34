// Package lineup tracks the five players each team has on court, per period,
// seeded from period starters and advanced by substitutions.
package lineup

import (
	"fmt"
	"sort"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
)

// PlayersPerTeam is the number of players a team has on court.
const PlayersPerTeam = 5

// Starters is the external record of who started a period.
type Starters struct {
	Period       int
	Team1ID      string
	Team1Players []string
	Team2ID      string
	Team2Players []string
}

type periodState struct {
	team1, team2 string
	lineups      map[string]model.Lineup
}

// Tracker holds the on-court state of every period of one game.
// It is not safe for concurrent use; a game is scanned by one goroutine.
type Tracker struct {
	periods map[int]*periodState
}

// NewTracker seeds a tracker from the starters of each period. Any period
// without exactly two teams of five distinct players is rejected.
func NewTracker(starters []Starters) (*Tracker, error) {
	t := &Tracker{periods: make(map[int]*periodState, len(starters))}
	for _, s := range starters {
		if _, dup := t.periods[s.Period]; dup {
			return nil, fmt.Errorf("%w: period %d listed twice", ErrInvalidStarters, s.Period)
		}
		if s.Team1ID == "" || s.Team2ID == "" || s.Team1ID == s.Team2ID {
			return nil, fmt.Errorf("%w: period %d needs two distinct teams, got %q and %q",
				ErrInvalidStarters, s.Period, s.Team1ID, s.Team2ID)
		}
		l1, err := newLineup(s.Team1Players)
		if err != nil {
			return nil, fmt.Errorf("period %d team %s: %w", s.Period, s.Team1ID, err)
		}
		l2, err := newLineup(s.Team2Players)
		if err != nil {
			return nil, fmt.Errorf("period %d team %s: %w", s.Period, s.Team2ID, err)
		}
		t.periods[s.Period] = &periodState{
			team1:   s.Team1ID,
			team2:   s.Team2ID,
			lineups: map[string]model.Lineup{s.Team1ID: l1, s.Team2ID: l2},
		}
	}
	return t, nil
}

func newLineup(players []string) (model.Lineup, error) {
	var l model.Lineup
	if len(players) != PlayersPerTeam {
		return l, fmt.Errorf("%w: %d players", ErrInvalidStarters, len(players))
	}
	seen := make(map[string]bool, PlayersPerTeam)
	for i, p := range players {
		if p == "" || seen[p] {
			return l, fmt.Errorf("%w: player %q empty or repeated", ErrInvalidStarters, p)
		}
		seen[p] = true
		l[i] = p
	}
	sortLineup(&l)
	return l, nil
}

func sortLineup(l *model.Lineup) {
	sort.Strings(l[:])
}

// Apply advances the tracker by one event and returns the event annotated
// with both lineups. Substitutions are applied first, so the substitution
// itself carries the resulting lineup.
func (t *Tracker) Apply(e model.Event) (model.AnnotatedEvent, error) {
	st, ok := t.periods[e.Period]
	if !ok {
		return model.AnnotatedEvent{}, fmt.Errorf("%w: %d", ErrUnknownPeriod, e.Period)
	}
	if pbp.TypeOf(e) == pbp.Substitution {
		if err := st.substitute(e.Player1TeamID, e.Player1ID, e.Player2ID); err != nil {
			return model.AnnotatedEvent{}, fmt.Errorf("event %d period %d: %w", e.EventNum, e.Period, err)
		}
	}
	return model.AnnotatedEvent{
		Event:        e,
		Team1ID:      st.team1,
		Team1Players: st.lineups[st.team1],
		Team2ID:      st.team2,
		Team2Players: st.lineups[st.team2],
	}, nil
}

func (st *periodState) substitute(team, out, in string) error {
	l, ok := st.lineups[team]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	if l.Contains(in) {
		return fmt.Errorf("%w: %s on team %s", ErrDuplicatePlayer, in, team)
	}
	for i := range l {
		if l[i] == out {
			l[i] = in
			sortLineup(&l)
			st.lineups[team] = l
			return nil
		}
	}
	return fmt.Errorf("%w: %s on team %s", ErrPlayerNotOnCourt, out, team)
}
