package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/rapm/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.ReboundWindow, convey.ShouldEqual, 10)
			convey.So(cfg.FoulWindow, convey.ShouldEqual, 20)
			convey.So(cfg.And1TimeWindowSec, convey.ShouldEqual, 10)
			convey.So(cfg.ScoringMode, convey.ShouldEqual, config.ScoringStandard)
			convey.So(cfg.ClockMode, convey.ShouldEqual, config.ClockEvent)
			convey.So(cfg.Lambdas, convey.ShouldResemble, []float64{0.01, 0.05, 0.1})
			convey.So(cfg.Folds, convey.ShouldEqual, 5)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(config.Validate(cfg), convey.ShouldBeNil)
		})
	})
}
