package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentFlowMetrics records counters for the order-to-settlement lifecycle.
type PaymentFlowMetrics struct {
	ordersCreated   *prometheus.CounterVec
	verifications   *prometheus.CounterVec
	settlements     prometheus.Counter
	abandons        prometheus.Counter
	gatewayDuration *prometheus.HistogramVec
}

// NewPaymentFlowMetrics registers the payment flow metrics on the provided registerer.
func NewPaymentFlowMetrics(reg prometheus.Registerer) *PaymentFlowMetrics {
	if reg == nil {
		return &PaymentFlowMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_orders_created",
		Help: "Gateway orders created, by payment type.",
	}, []string{"payment_type"})
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_verifications",
		Help: "Callback verification attempts, by outcome.",
	}, []string{"outcome"})
	settlements := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_settlements",
		Help: "Settlement events published after verified payments.",
	})
	abandons := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_checkout_abandons",
		Help: "Checkout sessions closed without a gateway callback.",
	})
	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_gateway_request_seconds",
		Help:    "Duration of outbound gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(ordersCreated, verifications, settlements, abandons, gatewayDuration)
	return &PaymentFlowMetrics{
		ordersCreated:   ordersCreated,
		verifications:   verifications,
		settlements:     settlements,
		abandons:        abandons,
		gatewayDuration: gatewayDuration,
	}
}

// IncOrderCreated increments the created-orders counter for the payment type.
func (p *PaymentFlowMetrics) IncOrderCreated(paymentType string) {
	if p == nil || p.ordersCreated == nil {
		return
	}
	p.ordersCreated.WithLabelValues(normalizeLabel(paymentType)).Inc()
}

// IncVerification increments the verification counter for the given outcome.
func (p *PaymentFlowMetrics) IncVerification(outcome string) {
	if p == nil || p.verifications == nil {
		return
	}
	p.verifications.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSettlement increments the settlement counter.
func (p *PaymentFlowMetrics) IncSettlement() {
	if p == nil || p.settlements == nil {
		return
	}
	p.settlements.Inc()
}

// IncAbandon increments the abandoned-checkout counter.
func (p *PaymentFlowMetrics) IncAbandon() {
	if p == nil || p.abandons == nil {
		return
	}
	p.abandons.Inc()
}

// ObserveGatewayDuration records the duration for the named gateway operation.
func (p *PaymentFlowMetrics) ObserveGatewayDuration(operation string, duration time.Duration) {
	if p == nil || p.gatewayDuration == nil {
		return
	}
	p.gatewayDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
