package service

import (
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFitConcurrencyDefault(t *testing.T) {
	Convey("Given a service built without a fit concurrency", t, func() {
		s := New()
		defer s.Close()

		Convey("Then parallel fits are capped", func() {
			So(s.fitConcurrency, ShouldEqual, min(runtime.NumCPU(), maxDefaultFitConcurrency))
			So(s.fitConcurrency, ShouldBeLessThanOrEqualTo, maxDefaultFitConcurrency)
		})

		Convey("Then an explicit setting is not capped", func() {
			WithFitConcurrency(16)(s)
			So(s.fitConcurrency, ShouldEqual, 16)
		})
	})
}
