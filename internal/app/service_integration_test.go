package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/rapm/internal/app"
	"github.com/okian/rapm/internal/adapters/repository"
	"github.com/okian/rapm/internal/adapters/table"
	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/rapm"
	"github.com/okian/rapm/internal/synth"
	. "github.com/smartystreets/goconvey/convey"
)

// twoSeasons writes two synthetic seasons of six games each under d.
func twoSeasons(d *table.Dir) ([]synth.Game, []model.GameRef) {
	var games []synth.Game
	seasons := []struct {
		label, start string
		seed         uint64
	}{{"2018-19", "2018-10-16", 11}, {"2019-20", "2019-10-22", 12}}
	for _, season := range seasons {
		g := synth.New(
			synth.WithTeams(4),
			synth.WithRounds(1),
			synth.WithSeason(season.label, "Regular Season"),
			synth.WithStartDate(season.start),
			synth.WithSeed(season.seed),
		)
		gs := g.Season()
		So(synth.WriteSeason(d, gs, g.Roster()), ShouldBeNil)
		games = append(games, gs...)
	}
	refs := make([]model.GameRef, len(games))
	for i, gm := range games {
		refs[i] = gm.Ref
	}
	return games, refs
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given two synthetic seasons on disk and a badger store", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		d := table.NewDir(t.TempDir())
		games, refs := twoSeasons(d)
		store, err := repository.OpenBadger("", repository.WithInMemory(true))
		So(err, ShouldBeNil)

		svc := newService(d,
			service.WithStore(store),
			service.WithWorkerCount(3),
			service.WithQueueSize(2),
			service.WithRidge(rapm.NewRidge(rapm.WithFolds(3))),
		)
		defer svc.Close()

		sum, err := svc.BuildPossessions(ctx, refs)
		So(err, ShouldBeNil)

		Convey("Then every game is processed", func() {
			So(sum.Games, ShouldEqual, 12)
			So(sum.Processed, ShouldEqual, 12)
			So(sum.Failures.Len(), ShouldEqual, 0)
			So(svc.Store().Count(ctx), ShouldEqual, 12)
		})

		Convey("Then stored possessions match the ground truth", func() {
			for _, gm := range games {
				ps, err := svc.Store().Get(ctx, gm.Ref.ID)
				So(err, ShouldBeNil)
				So(ps, ShouldResemble, gm.Possessions)
			}
		})

		Convey("When the seasons are combined", func() {
			c, err := svc.CombineSeason(ctx, refs)
			So(err, ShouldBeNil)

			Convey("Then the stints equal the ground truth stints", func() {
				So(c.Missing, ShouldBeEmpty)
				So(c.Stints, ShouldResemble, synth.Stints(games))
			})

			Convey("Then one fit per season window is produced", func() {
				fits, err := svc.FitSeasonWindows(ctx, c.Stints, 1)
				So(err, ShouldBeNil)
				So(len(fits), ShouldEqual, 2)
				So(fits[0].Label, ShouldEqual, "2018-19")
				So(fits[1].Label, ShouldEqual, "2019-20")
				for _, f := range fits {
					So(f.Err, ShouldBeNil)
					So(len(f.Table.Ratings), ShouldBeBetweenOrEqual, 20, 32)
				}

				both, err := svc.FitSeasonWindows(ctx, c.Stints, 2)
				So(err, ShouldBeNil)
				So(len(both), ShouldEqual, 1)
				So(both[0].Label, ShouldEqual, "2018-19_2019-20")
				So(both[0].Seasons, ShouldResemble, []string{"2018-19", "2019-20"})
				So(both[0].Rows, ShouldEqual, len(c.Stints))

				_, err = svc.FitSeasonWindows(ctx, c.Stints, 3)
				So(errors.Is(err, service.ErrNotEnoughSeasons), ShouldBeTrue)
				_, err = svc.FitSeasonWindows(ctx, c.Stints, 0)
				So(errors.Is(err, service.ErrInvalidWindow), ShouldBeTrue)
			})

			Convey("Then range fits select their rows", func() {
				second := svc.FitSeasonRange(ctx, c.Stints, "2019-20", "2019-20")
				So(second.Err, ShouldBeNil)
				So(second.Seasons, ShouldResemble, []string{"2019-20"})

				opening := svc.FitDateRange(ctx, c.Stints, "2018-10-16", "2018-10-16")
				So(opening.Err, ShouldBeNil)
				So(opening.Rows, ShouldEqual, len(games[0].Possessions)+len(games[1].Possessions))

				none := svc.FitDateRange(ctx, c.Stints, "2030-01-01", "")
				So(errors.Is(none.Err, rapm.ErrNoRows), ShouldBeTrue)
			})
		})

		Convey("When only playoff stints are kept", func() {
			playoffs := newService(d, service.WithSeasonTypes("Playoffs"))
			c, err := playoffs.CombineSeason(ctx, refs)
			So(err, ShouldBeNil)

			fit := playoffs.Fit(ctx, "playoffs", c.Stints)
			So(fit.Rows, ShouldEqual, 0)
			So(errors.Is(fit.Err, rapm.ErrNoRows), ShouldBeTrue)
		})

		Convey("When the season type filter is cleared", func() {
			all := newService(d,
				service.WithSeasonTypes("Playoffs"),
				service.WithSeasonTypes(),
				service.WithRidge(rapm.NewRidge(rapm.WithFolds(3))),
			)
			c, err := all.CombineSeason(ctx, refs)
			So(err, ShouldBeNil)

			fit := all.Fit(ctx, "all", c.Stints)
			So(fit.Err, ShouldBeNil)
			So(fit.Rows, ShouldEqual, len(c.Stints))
		})
	})
}
