package rapm_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/rapm"
	. "github.com/smartystreets/goconvey/convey"
)

func lineup(ids ...string) model.Lineup {
	var l model.Lineup
	copy(l[:], ids)
	return l
}

var (
	teamA = lineup("1", "2", "3", "4", "5")
	teamB = lineup("6", "7", "8", "9", "10")
)

// scenarioStints are the rows of a three possession game: a missed shot, a
// made three and a turnover.
func scenarioStints() []model.Stint {
	return []model.Stint{
		{Offense: teamA, Defense: teamB, Points: 0, Possessions: 1},
		{Offense: teamB, Defense: teamA, Points: 3, Possessions: 1},
		{Offense: teamA, Defense: teamB, Points: 0, Possessions: 1},
	}
}

type truth struct {
	intercept float64
	offense   map[string]float64
	defense   map[string]float64
}

// syntheticStints draws rows of ten distinct players out of a pool of 20 and
// scores them exactly by the linear model.
func syntheticStints(rows int, seed int64) ([]model.Stint, truth) {
	rng := rand.New(rand.NewSource(seed))
	tr := truth{intercept: 110, offense: map[string]float64{}, defense: map[string]float64{}}
	for i := 1; i <= 20; i++ {
		id := strconv.Itoa(i)
		tr.offense[id] = rng.Float64()*10 - 5
		tr.defense[id] = rng.Float64()*10 - 5
	}
	stints := make([]model.Stint, 0, rows)
	for r := 0; r < rows; r++ {
		perm := rng.Perm(20)
		var off, def model.Lineup
		y := tr.intercept
		for k := 0; k < 5; k++ {
			off[k] = strconv.Itoa(perm[k] + 1)
			def[k] = strconv.Itoa(perm[k+5] + 1)
			y += tr.offense[off[k]] - tr.defense[def[k]]
		}
		stints = append(stints, model.Stint{Offense: off, Defense: def, Points: y / 100, Possessions: 1})
	}
	return stints, tr
}

func centered(values []float64) []float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v - mean
	}
	return out
}

func TestTarget(t *testing.T) {
	Convey("Given stint totals", t, func() {
		y, err := rapm.Target(3, 2)
		So(err, ShouldBeNil)
		So(y, ShouldEqual, 150)

		_, err = rapm.Target(3, 0)
		So(errors.Is(err, rapm.ErrZeroPossessions), ShouldBeTrue)
	})
}

func TestUniqueIDs(t *testing.T) {
	Convey("Given integer player ids", t, func() {
		ids := rapm.UniqueIDs(scenarioStints())

		Convey("Then they are sorted numerically", func() {
			So(ids, ShouldResemble, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"})
		})
	})

	Convey("Given non integer player ids", t, func() {
		ids := rapm.UniqueIDs([]model.Stint{{
			Offense: lineup("b", "a", "10", "2", "c"),
			Defense: lineup("d", "e", "f", "g", "h"),
		}})

		Convey("Then they are sorted lexically", func() {
			So(ids[:4], ShouldResemble, []string{"10", "2", "a", "b"})
			So(len(ids), ShouldEqual, 10)
		})
	})
}

func TestNewDesign(t *testing.T) {
	Convey("Given the three possession scenario", t, func() {
		d, err := rapm.NewDesign(scenarioStints())
		So(err, ShouldBeNil)

		Convey("Then the design is 3 by 20 with one hot blocks", func() {
			rows, cols := d.X.Dims()
			So(rows, ShouldEqual, 3)
			So(cols, ShouldEqual, 20)
			So(d.Players(), ShouldEqual, 10)
			So(d.X.NNZ(), ShouldEqual, 30)

			dense := mat.DenseCopyOf(d.X)
			for i := 0; i < rows; i++ {
				off, def := 0.0, 0.0
				for j := 0; j < 10; j++ {
					off += dense.At(i, j)
					def += dense.At(i, 10+j)
				}
				So(off, ShouldEqual, 5)
				So(def, ShouldEqual, -5)
			}
			So(dense.At(0, 0), ShouldEqual, 1)
			So(dense.At(0, 15), ShouldEqual, -1)
			So(dense.At(1, 5), ShouldEqual, 1)
			So(dense.At(1, 10), ShouldEqual, -1)
			So(d.Y, ShouldResemble, []float64{0, 300, 0})
			So(d.Weights, ShouldResemble, []float64{1, 1, 1})
		})

		Convey("Then the transpose agrees with the matrix", func() {
			tr := mat.DenseCopyOf(d.X.T())
			r, c := tr.Dims()
			So(r, ShouldEqual, 20)
			So(c, ShouldEqual, 3)
			So(tr.At(15, 0), ShouldEqual, -1)
		})
	})

	Convey("Given rows without possessions", t, func() {
		stints := append(scenarioStints(), model.Stint{Offense: teamA, Defense: teamB, Possessions: 0})
		d, err := rapm.NewDesign(stints)

		Convey("Then they are dropped", func() {
			So(err, ShouldBeNil)
			So(len(d.Y), ShouldEqual, 3)
			So(d.Dropped, ShouldEqual, 1)
		})
	})

	Convey("Given only empty rows", t, func() {
		_, err := rapm.NewDesign([]model.Stint{{Offense: teamA, Defense: teamB}})
		So(errors.Is(err, rapm.ErrNoRows), ShouldBeTrue)

		_, err = rapm.NewDesign(nil)
		So(errors.Is(err, rapm.ErrNoRows), ShouldBeTrue)
	})

	Convey("Given a lineup listing a player twice", t, func() {
		_, err := rapm.NewDesign([]model.Stint{{
			Offense: lineup("1", "1", "3", "4", "5"), Defense: teamB, Possessions: 1,
		}})
		So(errors.Is(err, rapm.ErrDuplicatePlayer), ShouldBeTrue)
	})
}

func TestRidgeRecoversCoefficients(t *testing.T) {
	Convey("Given noiseless rows from a known model", t, func() {
		stints, tr := syntheticStints(400, 7)
		d, err := rapm.NewDesign(stints)
		So(err, ShouldBeNil)

		Convey("When fit with a vanishing penalty", func() {
			r := rapm.NewRidge(rapm.WithLambdas([]float64{1e-6}), rapm.WithFolds(3))
			fit, err := r.Fit(context.Background(), d)
			So(err, ShouldBeNil)

			Convey("Then each block is recovered up to its constant shift", func() {
				n := d.Players()
				wantOff := make([]float64, n)
				wantDef := make([]float64, n)
				for i, id := range d.IDs {
					wantOff[i] = tr.offense[id]
					wantDef[i] = tr.defense[id]
				}
				wantOff, wantDef = centered(wantOff), centered(wantDef)
				gotOff, gotDef := centered(fit.Coef[:n]), centered(fit.Coef[n:])
				for i := 0; i < n; i++ {
					So(gotOff[i], ShouldAlmostEqual, wantOff[i], 1e-3)
					So(gotDef[i], ShouldAlmostEqual, wantDef[i], 1e-3)
				}
			})

			Convey("Then fitted values match the targets", func() {
				for i := 0; i < 10; i++ {
					So(fit.Predict(d.X, i), ShouldAlmostEqual, d.Y[i], 1e-3)
				}
				So(fit.Lambda, ShouldEqual, 1e-6)
				So(fit.Alpha, ShouldAlmostEqual, 1e-6*400/2, 1e-12)
				So(len(fit.CVError), ShouldEqual, 1)
			})
		})

		Convey("When several lambdas are searched", func() {
			r := rapm.NewRidge(rapm.WithLambdas([]float64{10, 1e-6, 1}), rapm.WithFolds(4))
			fit, err := r.Fit(context.Background(), d)

			Convey("Then the smallest cross-validation error wins", func() {
				So(err, ShouldBeNil)
				So(fit.Lambda, ShouldEqual, 1e-6)
				So(len(fit.CVError), ShouldEqual, 3)
				So(fit.CVError[1], ShouldBeLessThan, fit.CVError[0])
				So(fit.CVError[1], ShouldBeLessThan, fit.CVError[2])
			})
		})
	})
}

func TestRidgeFailures(t *testing.T) {
	stints, _ := syntheticStints(60, 11)
	d, _ := rapm.NewDesign(stints)
	ctx := context.Background()

	Convey("Given a tight condition limit", t, func() {
		r := rapm.NewRidge(rapm.WithLambdas([]float64{1e-6}), rapm.WithFolds(3), rapm.WithMaxCondition(10))
		_, err := r.Fit(ctx, d)
		So(errors.Is(err, rapm.ErrRankDeficient), ShouldBeTrue)
	})

	Convey("Given bad fold counts", t, func() {
		_, err := rapm.NewRidge(rapm.WithFolds(1)).Fit(ctx, d)
		So(errors.Is(err, rapm.ErrInvalidFolds), ShouldBeTrue)

		_, err = rapm.NewRidge(rapm.WithFolds(61)).Fit(ctx, d)
		So(errors.Is(err, rapm.ErrInvalidFolds), ShouldBeTrue)
	})

	Convey("Given no usable lambdas", t, func() {
		_, err := rapm.NewRidge(rapm.WithLambdas(nil)).Fit(ctx, d)
		So(errors.Is(err, rapm.ErrNoLambdas), ShouldBeTrue)

		_, err = rapm.NewRidge(rapm.WithLambdas([]float64{0.1, -1})).Fit(ctx, d)
		So(errors.Is(err, rapm.ErrNoLambdas), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := rapm.NewRidge().Fit(cctx, d)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestAlpha(t *testing.T) {
	Convey("Given a lambda and a sample count", t, func() {
		So(rapm.Alpha(0.05, 1000), ShouldAlmostEqual, 25, 1e-9)
	})
}

func TestEstimate(t *testing.T) {
	Convey("Given synthetic stints", t, func() {
		stints, tr := syntheticStints(300, 3)

		Convey("When estimated", func() {
			table, err := rapm.Estimate(context.Background(),
				rapm.NewRidge(rapm.WithLambdas([]float64{1e-6}), rapm.WithFolds(3)), stints)
			So(err, ShouldBeNil)

			Convey("Then every player gets a rating and distinct ranks", func() {
				So(len(table.Ratings), ShouldEqual, 20)
				So(table.Rows, ShouldEqual, 300)
				seen := map[int]bool{}
				for _, r := range table.Ratings {
					So(r.Total, ShouldAlmostEqual, r.Offense+r.Defense, 1e-12)
					So(r.TotalRank, ShouldBeBetweenOrEqual, 1, 20)
					seen[r.TotalRank] = true
				}
				So(len(seen), ShouldEqual, 20)
			})

			Convey("Then the best offensive player ranks first", func() {
				best, bestV := "", math.Inf(-1)
				for id, v := range tr.offense {
					if v > bestV {
						best, bestV = id, v
					}
				}
				var first string
				for _, r := range table.Ratings {
					if r.OffenseRank == 1 {
						first = r.PlayerID
					}
				}
				So(first, ShouldEqual, best)
			})
		})

		Convey("When the design is empty", func() {
			_, err := rapm.Estimate(context.Background(), rapm.NewRidge(), nil)
			So(errors.Is(err, rapm.ErrNoRows), ShouldBeTrue)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given ratings with a tie", t, func() {
		ratings := []rapm.Rating{
			{PlayerID: "1", Offense: 1, Defense: 0, Total: 1},
			{PlayerID: "2", Offense: 3, Defense: -1, Total: 2},
			{PlayerID: "3", Offense: 1, Defense: 2, Total: 3},
		}
		rapm.Rank(ratings)

		Convey("Then ranks are descending and ties keep column order", func() {
			So(ratings[2].TotalRank, ShouldEqual, 1)
			So(ratings[1].TotalRank, ShouldEqual, 2)
			So(ratings[0].TotalRank, ShouldEqual, 3)
			So(ratings[1].OffenseRank, ShouldEqual, 1)
			So(ratings[0].OffenseRank, ShouldEqual, 2)
			So(ratings[2].OffenseRank, ShouldEqual, 3)
			So(ratings[2].DefenseRank, ShouldEqual, 1)
		})
	})
}

func TestWithNames(t *testing.T) {
	Convey("Given a table and a partial roster", t, func() {
		table := rapm.Table{Ratings: []rapm.Rating{
			{PlayerID: "1", TotalRank: 2}, {PlayerID: "2", TotalRank: 1},
		}}
		named := table.WithNames(map[string]string{"2": "Jones"})

		Convey("Then only rostered players remain with their ranks", func() {
			So(len(named.Ratings), ShouldEqual, 1)
			So(named.Ratings[0].Name, ShouldEqual, "Jones")
			So(named.Ratings[0].TotalRank, ShouldEqual, 1)
			So(len(table.Ratings), ShouldEqual, 2)
		})
	})

	Convey("Given values to round", t, func() {
		So(rapm.Round(1.23456, 3), ShouldAlmostEqual, 1.235, 1e-12)
		So(rapm.Round(-0.0004, 3), ShouldAlmostEqual, 0, 1e-12)
	})
}

func TestPossessionCounts(t *testing.T) {
	Convey("Given the scenario stints", t, func() {
		counts := rapm.PossessionCounts(scenarioStints())

		Convey("Then team A players were on offense twice", func() {
			So(len(counts), ShouldEqual, 10)
			So(counts[0], ShouldResemble, rapm.Count{PlayerID: "1", Offense: 2, Defense: 1, Total: 3})
			So(counts[9], ShouldResemble, rapm.Count{PlayerID: "10", Offense: 1, Defense: 2, Total: 3})
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given standard and luck adjusted tables", t, func() {
		basic := rapm.Table{Ratings: []rapm.Rating{
			{PlayerID: "1", Name: "Smith", Offense: 1, Defense: 1, Total: 2},
			{PlayerID: "2", Offense: 0, Defense: 0, Total: 0},
		}}
		adjusted := rapm.Table{Ratings: []rapm.Rating{
			{PlayerID: "1", Offense: 1.5, Defense: 0.25, Total: 1.75},
			{PlayerID: "3", Total: 4},
		}}
		out := rapm.Compare(basic, adjusted)

		Convey("Then the inner join carries adjusted minus standard deltas", func() {
			So(len(out), ShouldEqual, 1)
			So(out[0].PlayerID, ShouldEqual, "1")
			So(out[0].Name, ShouldEqual, "Smith")
			So(out[0].LA, ShouldAlmostEqual, -0.25, 1e-12)
			So(out[0].OLA, ShouldAlmostEqual, 0.5, 1e-12)
			So(out[0].DLA, ShouldAlmostEqual, -0.75, 1e-12)
		})
	})
}
