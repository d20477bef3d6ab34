package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When they are applied to a manager", func() {
			m := &Manager{}
			WithNamespace("ns")(m)
			WithSubsystem("sub")(m)
			WithMetricPrefix("pre")(m)
			WithLatencyBuckets([]float64{1, 2})(m)
			WithFitBuckets([]float64{0.5, 5})(m)
			WithCustomLabels(map[string]string{"env": "test"})(m)

			Convey("Then the fields are set", func() {
				So(m.namespace, ShouldEqual, "ns")
				So(m.subsystem, ShouldEqual, "sub")
				So(m.metricPrefix, ShouldEqual, "pre")
				So(m.latencyBuckets, ShouldResemble, []float64{1, 2})
				So(m.fitBuckets, ShouldResemble, []float64{0.5, 5})
				So(m.customLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty values are applied", func() {
			m := &Manager{namespace: "keep", subsystem: "keep"}
			WithNamespace("")(m)
			WithSubsystem("")(m)
			WithLatencyBuckets(nil)(m)
			WithPrometheusRegistry(nil)(m)

			Convey("Then the existing values are kept", func() {
				So(m.namespace, ShouldEqual, "keep")
				So(m.subsystem, ShouldEqual, "keep")
				So(m.latencyBuckets, ShouldBeNil)
				So(m.registry, ShouldBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with a prefix and labels", func() {
			m := NewManager(
				WithPrometheusRegistry(registry),
				WithMetricPrefix("test"),
				WithCustomLabels(map[string]string{"env": "test"}),
			)
			m.gamesProcessed.Inc()

			Convey("Then metric names carry namespace, subsystem and prefix", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "rapm_pipeline_test_games_processed_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When pipeline counters are recorded", func() {
			before := testutil.ToFloat64(globalManager.possessionsEmitted)
			RecordGameProcessed()
			RecordEventsScanned(40)
			RecordPossessionsEmitted(3)
			RecordGameLatency(12.5)
			RecordGameFailed("segment")

			Convey("Then the values move", func() {
				So(testutil.ToFloat64(globalManager.possessionsEmitted)-before, ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.gamesFailed.WithLabelValues("segment")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When classification and estimation metrics are recorded", func() {
			So(func() {
				RecordUnknownEventCode()
				RecordWindowFallback("missed_shot")
				RecordUnresolvedOffense()
				RecordScoringAnomaly()
				RecordTrailingEvents(2)
				RecordDuplicateGame()
				RecordFitDuration(150 * time.Millisecond)
				RecordFitFailure("rank_deficient")
				UpdateSelectedLambda(0.05)
				UpdateDesignShape(3, 20)
				RecordFilteredRows(1)
			}, ShouldNotPanic)

			So(testutil.ToFloat64(globalManager.selectedLambda), ShouldEqual, 0.05)
			So(testutil.ToFloat64(globalManager.designColumns), ShouldEqual, 20)
		})

		Convey("When queue and worker metrics are recorded", func() {
			UpdateQueueCapacity(8)
			UpdateQueueSize(2)
			UpdateQueueUtilization(0.25)
			RecordQueueEnqueue()
			RecordQueueDequeue()
			UpdateWorkerActiveCount(4)
			RecordWorkerError()

			So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 8)
			So(testutil.ToFloat64(globalManager.queueUtilization), ShouldEqual, 0.25)
			So(testutil.ToFloat64(globalManager.workerActiveCount), ShouldEqual, 4)
		})

		Convey("Then the custom registry exposes only pipeline metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "rapm_pipeline_"), ShouldBeTrue)
			}
		})
	})
}
