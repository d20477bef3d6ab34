// Package synth generates synthetic seasons: a league of players with known
// offensive and defensive impact, a schedule, every game's play-by-play log
// and period starters, and the possessions a correct segmenter recovers
// from that log.
package synth

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/rapm/internal/domain/lineup"
	"github.com/okian/rapm/internal/domain/model"
)

// Default generator configuration constants.
const (
	defaultTeams      = 6
	defaultRosterSize = 8
	defaultRounds     = 2
	defaultPeriods    = 4
	defaultSeed       = 1
	defaultSeason     = "2018-19"
	defaultSeasonType = "Regular Season"
	defaultStartDate  = "2018-10-16"
	defaultSpread     = 0.03

	playersOnCourt = lineup.PlayersPerTeam
	teamIDBase     = 1610612737
	playerIDBase   = 200000
	playerIDStride = 100
	dateLayout     = "2006-01-02"
)

var firstNames = []string{ //nolint:gochecknoglobals // static name pool
	"Alex", "Jordan", "Chris", "Devin", "Marcus", "Tyler", "Jalen", "Kevin",
	"Andre", "Brandon", "Derek", "Evan", "Gary", "Isaac", "Luke", "Nate",
}

var lastNames = []string{ //nolint:gochecknoglobals // static name pool
	"Walker", "Brooks", "Carter", "Hayes", "Porter", "Reed", "Griffin", "Holt",
	"Bennett", "Coleman", "Dawson", "Fuller", "Grant", "Harper", "Lowe", "Sutton",
	"Tate", "Vaughn", "Wade", "Young",
}

// Player is one synthetic player. While the player is on court, Offense is
// added to the make probability of the team's shots and Defense is
// subtracted from the opponent's.
type Player struct {
	ID      string
	Name    string
	TeamID  string
	Offense float64
	Defense float64
}

// Team is a roster. The first five players start the first period.
type Team struct {
	ID      string
	Players []Player
}

// Game is one generated game with its ground truth.
type Game struct {
	Ref         model.GameRef
	HomeID      string
	AwayID      string
	Events      []model.Event
	Starters    []lineup.Starters
	Possessions []model.Possession
}

// Generator builds a league and plays it. Games are pure functions of the
// seed and their schedule position.
type Generator struct {
	seed       uint64
	teams      int
	rosterSize int
	rounds     int
	periods    int
	season     string
	seasonType string
	startDate  string
	expected   bool
	spread     float64

	league []Team
}

// New creates a Generator and draws its league.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:       defaultSeed,
		teams:      defaultTeams,
		rosterSize: defaultRosterSize,
		rounds:     defaultRounds,
		periods:    defaultPeriods,
		season:     defaultSeason,
		seasonType: defaultSeasonType,
		startDate:  defaultStartDate,
		spread:     defaultSpread,
	}

	// Apply all options
	for _, opt := range opts {
		opt(g)
	}

	g.league = g.drawLeague()
	return g
}

func (g *Generator) drawLeague() []Team {
	rng := rand.New(rand.NewPCG(g.seed, 0))
	teams := make([]Team, g.teams)
	for i := range teams {
		id := strconv.Itoa(teamIDBase + i)
		players := make([]Player, g.rosterSize)
		for k := range players {
			n := i*g.rosterSize + k
			players[k] = Player{
				ID:      strconv.Itoa(playerIDBase + i*playerIDStride + k),
				Name:    firstNames[n%len(firstNames)] + " " + lastNames[(n/len(firstNames)+k)%len(lastNames)],
				TeamID:  id,
				Offense: rng.NormFloat64() * g.spread,
				Defense: rng.NormFloat64() * g.spread,
			}
		}
		teams[i] = Team{ID: id, Players: players}
	}
	return teams
}

// Teams returns the league.
func (g *Generator) Teams() []Team { return g.league }

// Players returns every player of the league in team order.
func (g *Generator) Players() []Player {
	out := make([]Player, 0, g.teams*g.rosterSize)
	for _, t := range g.league {
		out = append(out, t.Players...)
	}
	return out
}

// Roster maps player ids to names.
func (g *Generator) Roster() map[string]string {
	out := make(map[string]string, g.teams*g.rosterSize)
	for _, p := range g.Players() {
		out[p.ID] = p.Name
	}
	return out
}

type fixture struct {
	ref        model.GameRef
	home, away int
}

// fixtures pairs every two teams once per round, alternating home court.
// A day holds as many games as there are disjoint pairs.
func (g *Generator) fixtures() []fixture {
	start, err := time.Parse(dateLayout, g.startDate)
	if err != nil {
		start = time.Date(2018, time.October, 16, 0, 0, 0, 0, time.UTC)
	}
	perDay := g.teams / 2
	var out []fixture
	for r := 0; r < g.rounds; r++ {
		for i := 0; i < g.teams; i++ {
			for j := i + 1; j < g.teams; j++ {
				home, away := i, j
				if r%2 == 1 {
					home, away = j, i
				}
				n := len(out)
				out = append(out, fixture{
					ref: model.GameRef{
						ID:         g.gameID(n + 1),
						Season:     g.season,
						SeasonType: g.seasonType,
						Date:       start.AddDate(0, 0, n/perDay).Format(dateLayout),
					},
					home: home,
					away: away,
				})
			}
		}
	}
	return out
}

// gameID follows the provider layout: "00", a season type digit, the two
// digit start year and a five digit sequence.
func (g *Generator) gameID(seq int) string {
	kind := "2"
	if g.seasonType == "Playoffs" {
		kind = "4"
	}
	year := "00"
	if len(g.season) >= 4 {
		year = g.season[2:4]
	}
	return fmt.Sprintf("00%s%s%05d", kind, year, seq)
}

// Schedule returns the games of the season in date order.
func (g *Generator) Schedule() []model.GameRef {
	fx := g.fixtures()
	out := make([]model.GameRef, len(fx))
	for i, f := range fx {
		out[i] = f.ref
	}
	return out
}

// Season plays every scheduled game.
func (g *Generator) Season() []Game {
	fx := g.fixtures()
	out := make([]Game, len(fx))
	for i, f := range fx {
		out[i] = g.play(f, uint64(i+1))
	}
	return out
}

// Stints returns the ground truth stints of games with provenance attached.
func Stints(games []Game) []model.Stint {
	var out []model.Stint
	for _, gm := range games {
		for _, p := range gm.Possessions {
			s := p.Stint()
			s.Season = gm.Ref.Season
			s.SeasonType = gm.Ref.SeasonType
			s.Date = gm.Ref.Date
			out = append(out, s)
		}
	}
	return out
}
