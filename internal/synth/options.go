package synth

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed sets the seed every game's random stream derives from.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithTeams sets the number of teams in the league. At least two.
func WithTeams(n int) Option {
	return func(g *Generator) {
		if n >= 2 {
			g.teams = n
		}
	}
}

// WithRosterSize sets players per team. Five means no substitutions.
func WithRosterSize(n int) Option {
	return func(g *Generator) {
		if n >= playersOnCourt {
			g.rosterSize = n
		}
	}
}

// WithRounds sets how many times every pair of teams meets.
func WithRounds(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.rounds = n
		}
	}
}

// WithPeriods sets periods per game. Periods past the fourth are overtimes.
func WithPeriods(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.periods = n
		}
	}
}

// WithSeason sets the season label and season type stamped on every game.
func WithSeason(season, seasonType string) Option {
	return func(g *Generator) {
		if season != "" {
			g.season = season
		}
		if seasonType != "" {
			g.seasonType = seasonType
		}
	}
}

// WithStartDate sets the first game date, YYYY-MM-DD.
func WithStartDate(date string) Option {
	return func(g *Generator) {
		if date != "" {
			g.startDate = date
		}
	}
}

// WithExpectedPoints fills the POINTS override of every attempt with its
// expected value, which the luck-adjusted pipeline reads.
func WithExpectedPoints(enabled bool) Option {
	return func(g *Generator) {
		g.expected = enabled
	}
}

// WithRatingSpread sets the standard deviation of player impact on make probability.
func WithRatingSpread(sd float64) Option {
	return func(g *Generator) {
		if sd >= 0 {
			g.spread = sd
		}
	}
}
