package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loaderFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "files_total",
		Help:      "Count of block files by final state.",
	}, []string{"network", "state"})

	loaderFileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "file_duration_seconds",
		Help:      "Duration of scanning and draining one block file.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s..~34m
	}, []string{"network", "state"})

	loaderBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "blocks_total",
		Help:      "Count of block records by outcome.",
	}, []string{"network", "outcome"})

	loaderParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "parse_duration_seconds",
		Help:      "Duration of deserializing one block record.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5},
	}, []string{"network", "status"})

	loaderQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "queue_depth",
		Help:      "Blocks waiting in the pipeline channel.",
	}, []string{"network"})

	loaderBlockRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "committed_blocks_per_second",
		Help:      "Committed blocks per second since the run started.",
	}, []string{"network"})

	loaderTxRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "committed_transactions_per_second",
		Help:      "Committed transactions per second since the run started.",
	}, []string{"network"})
)

// Loader tracks metrics for the ingestion pipeline.
type Loader struct {
	network string
}

// NewLoader constructs a Loader collector for network.
func NewLoader(network model.Network) *Loader {
	return &Loader{network: networkLabel(network)}
}

// ObserveFile records a file reaching a final state.
func (m Loader) ObserveFile(state string, started time.Time) {
	loaderFilesTotal.WithLabelValues(m.network, state).Inc()
	loaderFileDuration.WithLabelValues(m.network, state).Observe(time.Since(started).Seconds())
}

// ObserveBlock counts one block outcome: committed, duplicate, failed, skipped or abandoned.
func (m Loader) ObserveBlock(outcome string) {
	loaderBlocksTotal.WithLabelValues(m.network, outcome).Inc()
}

// ObserveParse records one deserialization.
func (m Loader) ObserveParse(err error, started time.Time) {
	loaderParseDuration.WithLabelValues(m.network, status(err)).Observe(time.Since(started).Seconds())
}

// SetQueueDepth reports the current channel length.
func (m Loader) SetQueueDepth(n int) {
	loaderQueueDepth.WithLabelValues(m.network).Set(float64(n))
}

// SetRates reports throughput from the latest progress snapshot.
func (m Loader) SetRates(blockRate, txRate float64) {
	loaderBlockRate.WithLabelValues(m.network).Set(blockRate)
	loaderTxRate.WithLabelValues(m.network).Set(txRate)
}
