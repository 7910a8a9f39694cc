package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	transitionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "halcyon",
			Subsystem: "markets",
			Name:      "state_transitions_total",
			Help:      "Number of trading-form state transitions",
		},
		[]string{"form", "state"},
	)
	rejectedOrderCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "halcyon",
			Subsystem: "markets",
			Name:      "rejected_orders_total",
			Help:      "Number of rejected order submissions by reason",
		},
		[]string{"market", "reason"},
	)
	volatilityInterruptionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "halcyon",
			Subsystem: "monitor",
			Name:      "volatility_interruptions_total",
			Help:      "Number of volatility interruptions raised",
		},
		[]string{"market"},
	)
	tradeCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "halcyon",
			Subsystem: "matching",
			Name:      "trades_total",
			Help:      "Number of trades generated",
		},
		[]string{"market"},
	)
)

// TransitionInc counts one completed state transition.
func TransitionInc(form, state string) {
	transitionCounter.WithLabelValues(form, state).Inc()
}

// RejectedOrderInc counts one rejected submission.
func RejectedOrderInc(market, reason string) {
	rejectedOrderCounter.WithLabelValues(market, reason).Inc()
}

// VolatilityInterruptionInc counts one raised interruption.
func VolatilityInterruptionInc(market string) {
	volatilityInterruptionCounter.WithLabelValues(market).Inc()
}

// TradesAdd counts trades generated in one matching step.
func TradesAdd(market string, n int) {
	if n == 0 {
		return
	}
	tradeCounter.WithLabelValues(market).Add(float64(n))
}

// Start exposes the prometheus scrape endpoint. It blocks, callers run it
// in its own routine.
func Start(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
