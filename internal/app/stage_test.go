package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/rapm/internal/domain/possession"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStageOf(t *testing.T) {
	Convey("Given game errors from different stages", t, func() {
		So(stageOf(inStage(StageLoad, errors.New("open"))), ShouldEqual, StageLoad)
		So(stageOf(inStage(StageStore, errors.New("put"))), ShouldEqual, StageStore)
		So(stageOf(errors.New("unknown")), ShouldEqual, StageSegment)

		Convey("Then a deadline wins over the stage it interrupted", func() {
			err := fmt.Errorf("game g1 exceeded 1s: %w", inStage(StageSegment, fmt.Errorf("segment: %w", context.DeadlineExceeded)))
			So(stageOf(err), ShouldEqual, StageTimeout)
		})

		Convey("Then aggregation errors are recognized through wrapping", func() {
			So(isAggregateErr(fmt.Errorf("game g1: %w", possession.ErrScoringAnomaly)), ShouldBeTrue)
			So(isAggregateErr(fmt.Errorf("game g1: %w", possession.ErrNegativePoints)), ShouldBeTrue)
			So(isAggregateErr(errors.New("lineup")), ShouldBeFalse)
		})

		Convey("Then the stage error message keeps the cause", func() {
			So(inStage(StageLoad, errors.New("open x")).Error(), ShouldEqual, "load: open x")
		})
	})
}

func TestRangeLabel(t *testing.T) {
	Convey("Given range bounds", t, func() {
		So(rangeLabel("2018-19", "2018-19"), ShouldEqual, "2018-19")
		So(rangeLabel("2017-18", "2018-19"), ShouldEqual, "2017-18_2018-19")
		So(rangeLabel("", "2018-19"), ShouldEqual, "...2018-19")
		So(rangeLabel("2018-19", ""), ShouldEqual, "2018-19...")
		So(rangeLabel("", ""), ShouldEqual, "all")
		So(inRange("2018-10-20", "2018-10-16", "2018-10-31"), ShouldBeTrue)
		So(inRange("2018-11-01", "2018-10-16", "2018-10-31"), ShouldBeFalse)
	})
}
