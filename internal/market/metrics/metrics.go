package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the marketplace module.
type Metrics struct {
	ListingsCreated   prometheus.Counter
	ListingsCancelled prometheus.Counter
	Sales             prometheus.Counter
	SaleVolume        prometheus.Counter
	BuyRejected       *prometheus.CounterVec
	BuyDuration       prometheus.Histogram
}

// New creates a Metrics instance with all marketplace metrics registered.
func New() *Metrics {
	return &Metrics{
		ListingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangar_listings_created_total",
			Help: "Total number of listings created",
		}),
		ListingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangar_listings_cancelled_total",
			Help: "Total number of listings cancelled by their seller",
		}),
		Sales: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangar_sales_total",
			Help: "Total number of completed sales",
		}),
		SaleVolume: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hangar_sale_volume_total",
			Help: "Total credits settled through completed sales",
		}),
		BuyRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hangar_buy_rejections_total",
			Help: "Buy attempts rejected, by failure kind",
		}, []string{"reason"}),
		BuyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hangar_buy_duration_seconds",
			Help:    "Duration of buy operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementListingsCreated() {
	if m == nil {
		return
	}
	m.ListingsCreated.Inc()
}

func (m *Metrics) IncrementListingsCancelled() {
	if m == nil {
		return
	}
	m.ListingsCancelled.Inc()
}

// RecordSale counts a completed sale and adds its settled price to the
// volume counter.
func (m *Metrics) RecordSale(price uint64) {
	if m == nil {
		return
	}
	m.Sales.Inc()
	m.SaleVolume.Add(float64(price))
}

// IncrementBuyRejected records a rejected buy with its failure kind.
func (m *Metrics) IncrementBuyRejected(reason string) {
	if m == nil {
		return
	}
	m.BuyRejected.WithLabelValues(reason).Inc()
}

// ObserveBuy records the duration of a buy operation. Call with
// time.Now() from the start of the operation.
func (m *Metrics) ObserveBuy(start time.Time) {
	if m == nil {
		return
	}
	m.BuyDuration.Observe(time.Since(start).Seconds())
}
