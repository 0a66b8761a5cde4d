package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts quote calculations by kind (shipping, tax) and result.
	QuoteTotal *prometheus.CounterVec
	// CarrierRequestTotal counts outbound carrier rate lookups by outcome.
	CarrierRequestTotal *prometheus.CounterVec
	// CarrierRequestLatency records carrier rate lookup latency in milliseconds.
	CarrierRequestLatency *prometheus.HistogramVec
	// PromoLookupTotal counts promotion matcher queries by cache outcome.
	PromoLookupTotal *prometheus.CounterVec
	// FlatRateFallbackTotal counts shipping resolutions served from the flat-rate table.
	FlatRateFallbackTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_total",
			Help:      "Count of quote calculations by kind and result.",
		}, []string{"kind", "result"})
		CarrierRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carrier_request_total",
			Help:      "Count of outbound carrier rate lookups by outcome.",
		}, []string{"carrier", "result"})
		CarrierRequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "carrier_request_duration_ms",
			Help:      "Latency of carrier rate lookups in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"carrier"})
		PromoLookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_lookup_total",
			Help:      "Count of promotion matcher queries by cache outcome.",
		}, []string{"source"})
		FlatRateFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flat_rate_fallback_total",
			Help:      "Number of shipping quotes served from the flat-rate table.",
		})

		mustRegisterCollector(reg, QuoteTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteTotal = v
			}
		})
		mustRegisterCollector(reg, CarrierRequestTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CarrierRequestTotal = v
			}
		})
		mustRegisterCollector(reg, CarrierRequestLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				CarrierRequestLatency = v
			}
		})
		mustRegisterCollector(reg, PromoLookupTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PromoLookupTotal = v
			}
		})
		mustRegisterCollector(reg, FlatRateFallbackTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				FlatRateFallbackTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
