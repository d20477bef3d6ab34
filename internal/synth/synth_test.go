package synth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/rapm/internal/adapters/table"
	"github.com/okian/rapm/internal/domain/pbp"
	"github.com/okian/rapm/internal/domain/possession"
	"github.com/okian/rapm/internal/synth"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLeague(t *testing.T) {
	Convey("Given a generator with four teams of seven", t, func() {
		g := synth.New(synth.WithTeams(4), synth.WithRosterSize(7), synth.WithRounds(1))

		Convey("Then every player is unique and named", func() {
			players := g.Players()
			So(len(players), ShouldEqual, 28)
			seen := map[string]bool{}
			for _, p := range players {
				So(seen[p.ID], ShouldBeFalse)
				seen[p.ID] = true
				So(p.Name, ShouldNotBeBlank)
			}
			So(len(g.Roster()), ShouldEqual, 28)
		})

		Convey("Then each pair of teams meets once", func() {
			sched := g.Schedule()
			So(len(sched), ShouldEqual, 6)
			So(sched[0].ID, ShouldEqual, "0021800001")
			So(sched[0].Date, ShouldEqual, "2018-10-16")
			So(sched[2].Date, ShouldEqual, "2018-10-17")
			So(sched[5].Season, ShouldEqual, "2018-19")
			So(sched[5].SeasonType, ShouldEqual, "Regular Season")
		})
	})

	Convey("Given two generators with the same seed", t, func() {
		a := synth.New(synth.WithTeams(2), synth.WithRounds(1), synth.WithSeed(9)).Season()
		b := synth.New(synth.WithTeams(2), synth.WithRounds(1), synth.WithSeed(9)).Season()
		c := synth.New(synth.WithTeams(2), synth.WithRounds(1), synth.WithSeed(10)).Season()

		Convey("Then they play identical games", func() {
			So(a, ShouldResemble, b)
			So(a[0].Events, ShouldNotResemble, c[0].Events)
		})
	})
}

func TestGroundTruth(t *testing.T) {
	ctx := context.Background()

	Convey("Given a synthetic season with substitutions and overtime", t, func() {
		games := synth.New(synth.WithTeams(4), synth.WithRounds(1), synth.WithPeriods(5), synth.WithSeed(3)).Season()
		seg := possession.New()

		Convey("Then the segmenter recovers every possession", func() {
			for _, gm := range games {
				res, err := seg.Build(ctx, possession.Game{ID: gm.Ref.ID, Events: gm.Events, Starters: gm.Starters})
				So(err, ShouldBeNil)
				So(res.Trailing, ShouldEqual, 0)
				So(res.Possessions, ShouldResemble, gm.Possessions)
			}
		})

		Convey("Then possession points add up to the made baskets and free throws", func() {
			for _, gm := range games {
				scored := map[string]float64{}
				for _, e := range gm.Events {
					desc := e.HomeDescription + e.VisitorDescription
					switch {
					case e.Type == int(pbp.MadeShot) && strings.Contains(desc, "3PT"):
						scored[e.Player1TeamID] += 3
					case e.Type == int(pbp.MadeShot):
						scored[e.Player1TeamID] += 2
					case e.Type == int(pbp.FreeThrow) && !strings.HasPrefix(desc, "MISS"):
						scored[e.Player1TeamID]++
					}
				}
				recorded := map[string]float64{}
				for _, p := range gm.Possessions {
					recorded[p.Team1ID] += p.Team1Points
					recorded[p.Team2ID] += p.Team2Points
				}
				So(recorded[gm.HomeID], ShouldEqual, scored[gm.HomeID])
				So(recorded[gm.AwayID], ShouldEqual, scored[gm.AwayID])
				So(scored[gm.HomeID]+scored[gm.AwayID], ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then every clock reading parses", func() {
			for _, e := range games[0].Events {
				_, err := pbp.ElapsedGame(e.Period, e.Clock)
				So(err, ShouldBeNil)
			}
		})

		Convey("Then possessions alternate inside a period", func() {
			ps := games[0].Possessions
			for i := 1; i < len(ps); i++ {
				if ps[i].Period == ps[i-1].Period {
					So(ps[i].Offense, ShouldNotEqual, ps[i-1].Offense)
				}
			}
		})
	})

	Convey("Given expected points", t, func() {
		games := synth.New(synth.WithTeams(2), synth.WithRounds(1), synth.WithExpectedPoints(true)).Season()

		Convey("Then every attempt carries an override", func() {
			for _, e := range games[0].Events {
				if pbp.IsScoringAttempt(e) {
					So(e.HasPoints, ShouldBeTrue)
					So(e.Points, ShouldBeGreaterThan, 0)
				}
			}
		})
	})
}

func TestStints(t *testing.T) {
	Convey("Given ground truth games", t, func() {
		games := synth.New(synth.WithTeams(2), synth.WithRounds(1)).Season()
		stints := synth.Stints(games)

		Convey("Then there is one stint per possession with provenance", func() {
			So(len(stints), ShouldEqual, len(games[0].Possessions))
			So(stints[0].Season, ShouldEqual, "2018-19")
			So(stints[0].Date, ShouldEqual, "2018-10-16")
			So(stints[0].Possessions, ShouldEqual, 1)
		})
	})
}

func TestWriteSeason(t *testing.T) {
	Convey("Given a season written to disk", t, func() {
		g := synth.New(synth.WithTeams(2), synth.WithRounds(1), synth.WithExpectedPoints(true))
		games := g.Season()
		d := table.NewDir(t.TempDir())
		So(synth.WriteSeason(d, games, g.Roster()), ShouldBeNil)

		Convey("Then the tables read back unchanged", func() {
			id := games[0].Ref.ID
			events, err := d.LoadEvents(id)
			So(err, ShouldBeNil)
			So(events, ShouldResemble, games[0].Events)

			starters, err := d.LoadStarters(id)
			So(err, ShouldBeNil)
			So(starters, ShouldResemble, games[0].Starters)
		})
	})
}
