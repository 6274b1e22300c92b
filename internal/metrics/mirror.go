package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mirror",
		Name:      "flush_total",
		Help:      "Count of mirror batch flushes.",
	}, []string{"network", "status"})

	mirrorFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mirror",
		Name:      "flush_duration_seconds",
		Help:      "Duration of mirror batch flushes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	mirrorFlushSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mirror",
		Name:      "flush_blocks",
		Help:      "Blocks per mirror flush.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"network"})

	mirrorDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mirror",
		Name:      "dropped_total",
		Help:      "Count of blocks that could not be queued for the mirror.",
	}, []string{"network"})
)

// Mirror tracks metrics for the ClickHouse mirror.
type Mirror struct {
	network string
}

// NewMirror constructs a Mirror collector for network.
func NewMirror(network model.Network) *Mirror {
	return &Mirror{network: networkLabel(network)}
}

// ObserveFlush records one batch flush.
func (m Mirror) ObserveFlush(err error, blocks int, started time.Time) {
	mirrorFlushTotal.WithLabelValues(m.network, status(err)).Inc()
	mirrorFlushDuration.WithLabelValues(m.network, status(err)).Observe(time.Since(started).Seconds())
	mirrorFlushSize.WithLabelValues(m.network).Observe(float64(blocks))
}

// ObserveDropped counts a block that was not queued.
func (m Mirror) ObserveDropped() {
	mirrorDroppedTotal.WithLabelValues(m.network).Inc()
}
