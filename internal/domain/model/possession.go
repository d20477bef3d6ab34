package model

// Possession is the aggregated summary of one offense/defense exchange.
type Possession struct {
	GameID string `json:"game_id"`
	Period int    `json:"period"`

	Team1ID      string `json:"team1_id"`
	Team1Players Lineup `json:"team1_players"`
	Team2ID      string `json:"team2_id"`
	Team2Players Lineup `json:"team2_players"`

	Team1Points float64 `json:"team1_points"`
	Team2Points float64 `json:"team2_points"`

	Start float64 `json:"possession_start"` // elapsed game seconds
	End   float64 `json:"possession_end"`

	// Offense is the team id the terminal event's rule designates.
	Offense string `json:"possession_team"`
}

// Stint converts a possession into an offense/defense row of weight one.
// The offense is team1 when it matches team1's id, otherwise team2.
func (p Possession) Stint() Stint {
	if p.Offense == p.Team1ID {
		return Stint{
			GameID:      p.GameID,
			Offense:     p.Team1Players,
			Defense:     p.Team2Players,
			Points:      p.Team1Points,
			Possessions: 1,
		}
	}
	return Stint{
		GameID:      p.GameID,
		Offense:     p.Team2Players,
		Defense:     p.Team1Players,
		Points:      p.Team2Points,
		Possessions: 1,
	}
}

// Stint is a regression row: five offensive players, five defensive players
// and the points the offense scored over Possessions possessions.
type Stint struct {
	Offense     Lineup
	Defense     Lineup
	Points      float64
	Possessions int

	// Provenance used for range filters. Optional.
	GameID     string
	Season     string
	SeasonType string
	Date       string // YYYY-MM-DD
}
