package utils

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PrometheusImportStarted  *prometheus.CounterVec
	PrometheusImportFinished *prometheus.CounterVec
	PrometheusImportFailed   *prometheus.CounterVec
	PrometheusRecordsWritten *prometheus.CounterVec
	PrometheusInsertCalls    *prometheus.CounterVec
	PrometheusCommits        *prometheus.CounterVec

	PrometheusImportProgress     *prometheus.GaugeVec
	PrometheusLastImportDuration *prometheus.GaugeVec
	PrometheusHeapAlloc          prometheus.Gauge
)

func StartPrometheus(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(":"+port, mux)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("prometheus start error")
		}
	}()
	logger.Info().Str("port", port).Msg("Started prometheus")
}

func init() {
	var labelNames = []string{"connection"}

	PrometheusImportStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_started",
	}, labelNames)

	PrometheusImportFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_finished",
	}, labelNames)

	PrometheusImportFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_failed",
	}, labelNames)

	PrometheusRecordsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "records_written",
	}, labelNames)

	PrometheusInsertCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insert_calls",
	}, labelNames)

	PrometheusCommits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commits",
	}, labelNames)

	PrometheusImportProgress = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "import_progress_ratio",
	}, labelNames)

	PrometheusLastImportDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "last_import_duration",
	}, labelNames)

	PrometheusHeapAlloc = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "heap_alloc_bytes",
	})
}
