// Package model contains domain models passed between layers.
package model

// Event is one row of a game's play-by-play log. Raw fields are read as-is;
// Index, Elapsed and PeriodElapsed are derived when the log is loaded.
type Event struct {
	Index    int    // original row index, used as the ordering tie-break
	GameID   string // e.g. "0021800001"
	EventNum int

	Period int    // 1-4 quarters, 5+ overtime
	Clock  string // game clock remaining in the period, "M:SS"

	Type    int // raw event type code
	Subtype int // raw event action (subtype) code

	HomeDescription    string
	NeutralDescription string
	VisitorDescription string

	// Player slots. An empty team id means the slot is unrecorded; for team
	// events the provider puts the team id in the player id column.
	Player1ID     string
	Player1TeamID string
	Player2ID     string
	Player2TeamID string
	Player3ID     string
	Player3TeamID string

	// Points overrides the point value of shots and free throws when HasPoints is set.
	Points    float64
	HasPoints bool

	Elapsed       int // seconds since tip-off
	PeriodElapsed int // seconds since the start of the period
}

// Lineup is the five players one team has on court, sorted.
type Lineup [5]string

// Contains reports whether id is on the court.
func (l Lineup) Contains(id string) bool {
	for _, p := range l {
		if p == id {
			return true
		}
	}
	return false
}

// AnnotatedEvent is an event paired with both teams' lineups at the moment it
// was classified. Team1 is the first team of the period starters record.
type AnnotatedEvent struct {
	Event
	Team1ID      string
	Team1Players Lineup
	Team2ID      string
	Team2Players Lineup
}
