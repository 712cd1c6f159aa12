package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register collectors there", func() {
				So(manager, ShouldNotBeNil)
				manager.queries.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithResultSizeBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.datasetLoads.Inc()

			Convey("Then names carry the namespace and subsystem", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if strings.HasPrefix(f.GetName(), "test_ns_test_sub_") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording a dataset load", func() {
			RecordDatasetLoad(12.5, 340, 3, 1_700_000_000)

			Convey("Then the records gauge reflects the dataset size", func() {
				So(testutil.ToFloat64(globalManager.datasetRecords), ShouldEqual, 340)
				So(testutil.ToFloat64(globalManager.datasetLastLoad), ShouldEqual, 1_700_000_000)
			})
		})

		Convey("When recording queries and exports", func() {
			before := testutil.ToFloat64(globalManager.queries)
			RecordQuery(0.4, 25)
			RecordQuery(0.2, 0)
			RecordExport("xlsx", 4096)

			Convey("Then counters advance", func() {
				So(testutil.ToFloat64(globalManager.queries), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.exports.WithLabelValues("xlsx")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording the remaining series", func() {
			So(func() {
				RecordDatasetLoadError()
				RecordCacheHit()
				RecordCacheMiss()
				RecordCacheError()
				RecordConfigurationError("unknown_rank_column")
				RecordHTTPRequest("players", "GET", "200")
				RecordHTTPRequestDuration("players", "GET", "200", 3)
				RecordErrorByComponent("source", "fetch")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("players", "GET", "client_error")
				RecordErrorLatency("http", "client_error", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the registry can be gathered", func() {
			n, err := Gather()
			So(err, ShouldBeNil)
			So(n, ShouldBeGreaterThan, 0)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
