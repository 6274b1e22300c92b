package metrics

import (
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-blkloader/internal/utxo/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	writerWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "writer",
		Name:      "writes_total",
		Help:      "Count of block writes including retries.",
	}, []string{"network", "status", "inserted"})

	writerWriteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "writer",
		Name:      "write_duration_seconds",
		Help:      "Duration of block writes including retries.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"network", "status"})

	writerAttempts = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "writer",
		Name:      "attempts",
		Help:      "Attempts needed per block write.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13},
	}, []string{"network"})

	writerRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "writer",
		Name:      "retries_total",
		Help:      "Count of retries after transient storage errors.",
	}, []string{"network"})
)

// Writer tracks metrics for the retrying block writer.
type Writer struct {
	network string
}

// NewWriter constructs a Writer collector for network.
func NewWriter(network model.Network) *Writer {
	return &Writer{network: networkLabel(network)}
}

// ObserveWrite records the outcome of one Write call.
func (m Writer) ObserveWrite(err error, inserted bool, attempts int, started time.Time) {
	writerWritesTotal.WithLabelValues(m.network, status(err), strconv.FormatBool(inserted)).Inc()
	writerWriteDuration.WithLabelValues(m.network, status(err)).Observe(time.Since(started).Seconds())
	writerAttempts.WithLabelValues(m.network).Observe(float64(attempts))
}

// ObserveRetry counts one scheduled retry.
func (m Writer) ObserveRetry() {
	writerRetriesTotal.WithLabelValues(m.network).Inc()
}
