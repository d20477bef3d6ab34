package synth

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/okian/rapm/internal/domain/lineup"
	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
)

// Outcome rates for one possession.
const (
	turnoverRate   = 0.13
	foulRate       = 0.08
	threeRate      = 0.35
	twoMakeRate    = 0.50
	threeMakeRate  = 0.36
	freeThrowRate  = 0.76
	offReboundRate = 0.25
	and1Rate       = 0.05
	subRate        = 0.2
	minMakeRate    = 0.05
	maxMakeRate    = 0.95
)

// Possession timing in seconds. Possessions of one team are at least
// minSpan+minGap apart, so a make is never followed by the same shooter's
// free throw inside the And-1 time window unless it is the And-1 itself.
const (
	minSpan          = 6
	spanRange        = 15
	minGap           = 2
	gapRange         = 3
	reserve          = minSpan + spanRange + 2
	secondsPerMinute = 60
)

// Point values used for ground truth and expected points.
const (
	twoPoints   = 2
	threePoints = 3
	ftPoints    = 1
)

var periodNames = []string{"1st", "2nd", "3rd", "4th"} //nolint:gochecknoglobals // static labels

// court is the state of one game in progress.
type court struct {
	rng      *rand.Rand
	expected bool

	gameID string
	home   *Team
	away   *Team
	on     map[string][]Player
	bench  map[string][]Player

	period int
	length int

	events []model.Event
	truth  []model.Possession

	// open possession
	open      bool
	current   model.Possession
	teamScore map[string]float64
}

func (g *Generator) play(f fixture, stream uint64) Game {
	home, away := &g.league[f.home], &g.league[f.away]
	c := &court{
		rng:       rand.New(rand.NewPCG(g.seed, stream)),
		expected:  g.expected,
		gameID:    f.ref.ID,
		home:      home,
		away:      away,
		on:        make(map[string][]Player, 2),
		bench:     make(map[string][]Player, 2),
		teamScore: make(map[string]float64, 2),
	}
	for _, t := range []*Team{home, away} {
		c.on[t.ID] = append([]Player(nil), t.Players[:playersOnCourt]...)
		c.bench[t.ID] = append([]Player(nil), t.Players[playersOnCourt:]...)
	}

	out := Game{Ref: f.ref, HomeID: home.ID, AwayID: away.ID}
	for period := 1; period <= g.periods; period++ {
		out.Starters = append(out.Starters, lineup.Starters{
			Period:       period,
			Team1ID:      home.ID,
			Team1Players: ids(c.on[home.ID]),
			Team2ID:      away.ID,
			Team2Players: ids(c.on[away.ID]),
		})
		c.playPeriod(period)
	}
	out.Events = c.events
	out.Possessions = c.truth
	return out
}

func (c *court) playPeriod(period int) {
	c.period = period
	c.length = pbp.PeriodMinutes(period) * secondsPerMinute

	c.emit(0, model.Event{Type: int(pbp.StartOfPeriod), NeutralDescription: "Start of " + periodName(period) + " Period"}, true)
	if period == 1 {
		h, a := c.on[c.home.ID][0], c.on[c.away.ID][0]
		c.emit(0, model.Event{
			Type:            int(pbp.JumpBall),
			HomeDescription: fmt.Sprintf("Jump Ball %s vs. %s", h.Name, a.Name),
			Player1ID:       h.ID,
			Player1TeamID:   h.TeamID,
			Player2ID:       a.ID,
			Player2TeamID:   a.TeamID,
		}, true)
	}

	offense, defense := c.home, c.away
	if period%2 == 0 {
		offense, defense = c.away, c.home
	}
	t := minGap
	for t+reserve < c.length {
		t = c.possession(t, offense, defense)
		c.substitutions(t)
		offense, defense = defense, offense
		t += minGap + c.rng.IntN(gapRange)
	}
	c.emit(c.length, model.Event{Type: int(pbp.EndOfPeriod), NeutralDescription: "End of " + periodName(period) + " Period"}, false)
}

// possession plays one possession starting at t and returns the time of its
// terminal event.
func (c *court) possession(t int, off, def *Team) int {
	end := t + minSpan + c.rng.IntN(spanRange)
	shooter := c.pick(off)
	defender := c.pick(def)
	quality := c.quality(off, def)

	r := c.rng.Float64()
	switch {
	case r < turnoverRate:
		c.emit(end, c.side(off, model.Event{
			Type:          int(pbp.Turnover),
			Subtype:       1,
			Player1ID:     shooter.ID,
			Player1TeamID: off.ID,
			Player2ID:     defender.ID,
			Player2TeamID: def.ID,
		}, shooter.Name+" Bad Pass Turnover"), true)
		c.close(off)
	case r < turnoverRate+foulRate:
		c.emit(end, c.side(def, foulEvent(defender, shooter, def, off), defender.Name+" S.FOUL"), true)
		c.freeThrow(end, shooter, off, pbp.FreeThrowOneOfTwo, c.rng.Float64() < freeThrowRate)
		if c.freeThrow(end, shooter, off, pbp.FreeThrowTwoOfTwo, c.rng.Float64() < freeThrowRate) {
			c.close(off)
			return end
		}
		c.rebound(end+1, c.pick(def), def)
		c.close(off)
		return end + 1
	default:
		three := c.rng.Float64() < threeRate
		rate := twoMakeRate
		if three {
			rate = threeMakeRate
		}
		if c.rng.Float64() < clamp(rate+quality) {
			c.shot(end, shooter, off, three, true)
			if c.rng.Float64() < and1Rate {
				c.emit(end, c.side(def, foulEvent(defender, shooter, def, off), defender.Name+" S.FOUL"), true)
				c.freeThrow(end, shooter, off, pbp.FreeThrowOneOfOne, true)
			}
			c.close(off)
			return end
		}
		miss := end - 3
		c.shot(miss, shooter, off, three, false)
		if c.rng.Float64() < offReboundRate {
			putback := c.pick(off)
			c.rebound(miss+1, putback, off)
			c.shot(end, putback, off, false, true)
			c.close(off)
			return end
		}
		c.rebound(miss+1, c.pick(def), def)
		c.close(off)
		return miss + 1
	}
	return end
}

func (c *court) shot(t int, p Player, team *Team, three, made bool) {
	kind, value, rate := "Jump Shot", float64(twoPoints), twoMakeRate
	if three {
		kind, value, rate = "3PT Jump Shot", threePoints, threeMakeRate
	}
	e := model.Event{Type: int(pbp.MissedShot), Player1ID: p.ID, Player1TeamID: team.ID}
	desc := "MISS " + p.Name + " " + kind
	if made {
		e.Type = int(pbp.MadeShot)
		desc = p.Name + " " + kind
		c.teamScore[team.ID] += value
	}
	c.expect(&e, value*rate)
	c.emit(t, c.side(team, e, desc), true)
}

// freeThrow records an attempt and reports whether it was made.
func (c *court) freeThrow(t int, p Player, team *Team, kind pbp.FreeThrowType, made bool) bool {
	e := model.Event{Type: int(pbp.FreeThrow), Subtype: int(kind), Player1ID: p.ID, Player1TeamID: team.ID}
	desc := "MISS " + p.Name + " Free Throw"
	if made {
		desc = p.Name + " Free Throw"
		c.teamScore[team.ID] += ftPoints
	}
	c.expect(&e, ftPoints*freeThrowRate)
	c.emit(t, c.side(team, e, desc), true)
	return made
}

func (c *court) rebound(t int, p Player, team *Team) {
	c.emit(t, c.side(team, model.Event{
		Type:          int(pbp.Rebound),
		Subtype:       int(pbp.ReboundPlayer),
		Player1ID:     p.ID,
		Player1TeamID: team.ID,
	}, p.Name+" REBOUND"), true)
}

func foulEvent(fouler, fouled Player, def, off *Team) model.Event {
	return model.Event{
		Type:          int(pbp.Foul),
		Subtype:       int(pbp.FoulShooting),
		Player1ID:     fouler.ID,
		Player1TeamID: def.ID,
		Player2ID:     fouled.ID,
		Player2TeamID: off.ID,
	}
}

// substitutions swaps bench players in after a boundary. They belong to no
// possession but change the lineups of the next one.
func (c *court) substitutions(t int) {
	for _, team := range []*Team{c.home, c.away} {
		bench := c.bench[team.ID]
		if len(bench) == 0 || c.rng.Float64() >= subRate {
			continue
		}
		i, j := c.rng.IntN(playersOnCourt), c.rng.IntN(len(bench))
		out, in := c.on[team.ID][i], bench[j]
		c.on[team.ID][i], bench[j] = in, out
		c.emit(t, c.side(team, model.Event{
			Type:          int(pbp.Substitution),
			Player1ID:     out.ID,
			Player1TeamID: team.ID,
			Player2ID:     in.ID,
			Player2TeamID: team.ID,
		}, "SUB: "+in.Name+" FOR "+out.Name), false)
	}
}

// emit appends an event at t seconds into the current period. Events that
// belong to a possession open one when none is open. Points scored by the
// event are already in teamScore and belong to the possession it opens.
func (c *court) emit(t int, e model.Event, inPossession bool) {
	rem := c.length - t
	e.GameID = c.gameID
	e.EventNum = len(c.events) + 1
	e.Period = c.period
	e.Clock = fmt.Sprintf("%d:%02d", rem/secondsPerMinute, rem%secondsPerMinute)
	c.events = append(c.events, e)
	if !inPossession {
		return
	}

	at := float64(pbp.PeriodStart(c.period) + t)
	if !c.open {
		c.open = true
		c.current = model.Possession{
			GameID:       c.gameID,
			Period:       c.period,
			Team1ID:      c.home.ID,
			Team1Players: sorted(c.on[c.home.ID]),
			Team2ID:      c.away.ID,
			Team2Players: sorted(c.on[c.away.ID]),
			Start:        at,
		}
	}
	c.current.End = at
}

func (c *court) close(off *Team) {
	p := c.current
	p.Team1Points = c.teamScore[c.home.ID]
	p.Team2Points = c.teamScore[c.away.ID]
	p.Offense = off.ID
	c.truth = append(c.truth, p)
	c.open = false
	clear(c.teamScore)
}

func (c *court) side(team *Team, e model.Event, desc string) model.Event {
	if team.ID == c.home.ID {
		e.HomeDescription = desc
	} else {
		e.VisitorDescription = desc
	}
	return e
}

func (c *court) expect(e *model.Event, v float64) {
	if c.expected {
		e.Points = v
		e.HasPoints = true
	}
}

func (c *court) pick(t *Team) Player {
	on := c.on[t.ID]
	return on[c.rng.IntN(len(on))]
}

// quality is the shift in make probability the ten players on court produce.
func (c *court) quality(off, def *Team) float64 {
	q := 0.0
	for _, p := range c.on[off.ID] {
		q += p.Offense
	}
	for _, p := range c.on[def.ID] {
		q -= p.Defense
	}
	return q
}

func clamp(p float64) float64 {
	if p < minMakeRate {
		return minMakeRate
	}
	if p > maxMakeRate {
		return maxMakeRate
	}
	return p
}

func periodName(period int) string {
	if period <= len(periodNames) {
		return periodNames[period-1]
	}
	return fmt.Sprintf("OT%d", period-len(periodNames))
}

func ids(players []Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func sorted(players []Player) model.Lineup {
	var l model.Lineup
	for i, p := range players {
		l[i] = p.ID
	}
	sort.Strings(l[:])
	return l
}
