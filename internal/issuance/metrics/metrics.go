package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the issuance module.
type Metrics struct {
	Minted       prometheus.Counter
	MintRejected *prometheus.CounterVec
	MintDuration prometheus.Histogram
}

// New creates a Metrics instance with all issuance metrics registered.
func New() *Metrics {
	return &Metrics{
		Minted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangar_assets_minted_total",
			Help: "Total number of assets minted",
		}),
		MintRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hangar_mint_rejections_total",
			Help: "Mint attempts rejected, by failure kind",
		}, []string{"reason"}),
		MintDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hangar_mint_duration_seconds",
			Help:    "Duration of mint operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementMinted records a successful mint.
func (m *Metrics) IncrementMinted() {
	if m == nil {
		return
	}
	m.Minted.Inc()
}

// IncrementMintRejected records a rejected mint with its failure kind.
func (m *Metrics) IncrementMintRejected(reason string) {
	if m == nil {
		return
	}
	m.MintRejected.WithLabelValues(reason).Inc()
}

// ObserveMint records the duration of a mint operation. Call with
// time.Now() from the start of the operation.
func (m *Metrics) ObserveMint(start time.Time) {
	if m == nil {
		return
	}
	m.MintDuration.Observe(time.Since(start).Seconds())
}
