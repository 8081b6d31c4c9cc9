package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Business holds storefront counters. A nil *Business records nothing.
type Business struct {
	cartAdds            *prometheus.CounterVec
	cartMerges          prometheus.Counter
	discountValidations *prometheus.CounterVec
	ordersPlaced        prometheus.Counter
	orderValue          prometheus.Histogram
	orderStatusChanges  *prometheus.CounterVec
	notifications       *prometheus.CounterVec
}

// NewBusiness creates and registers the business metrics on reg.
func NewBusiness(reg prometheus.Registerer, namespace string) *Business {
	if namespace == "" {
		namespace = "elwarcha"
	}
	const subsystem = "business"
	m := &Business{
		cartAdds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cart_adds_total",
			Help:      "Add to cart actions by cart kind",
		}, []string{"cart"}),
		cartMerges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cart_merged_lines_total",
			Help:      "Guest cart lines merged into a user cart at sign-in",
		}),
		discountValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "discount_validations_total",
			Help:      "Discount code checks by outcome",
		}, []string{"outcome"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_placed_total",
			Help:      "Orders placed",
		}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_total_mad",
			Help:      "Order totals in MAD",
			Buckets:   []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
		}),
		orderStatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_status_changes_total",
			Help:      "Admin order status changes by target status",
		}, []string{"status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_total",
			Help:      "Customer notifications by kind and result",
		}, []string{"kind", "result"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.cartAdds,
			m.cartMerges,
			m.discountValidations,
			m.ordersPlaced,
			m.orderValue,
			m.orderStatusChanges,
			m.notifications,
		)
	}
	return m
}

func (m *Business) CartAdded(guest bool) {
	if m == nil {
		return
	}
	label := "user"
	if guest {
		label = "guest"
	}
	m.cartAdds.WithLabelValues(label).Inc()
}

func (m *Business) CartMerged(lines int) {
	if m == nil || lines <= 0 {
		return
	}
	m.cartMerges.Add(float64(lines))
}

// DiscountValidated records "valid" or the rejection reason.
func (m *Business) DiscountValidated(outcome string) {
	if m == nil {
		return
	}
	m.discountValidations.WithLabelValues(outcome).Inc()
}

func (m *Business) OrderPlaced(totalMAD int64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderValue.Observe(float64(totalMAD))
}

func (m *Business) OrderStatusChanged(status string) {
	if m == nil {
		return
	}
	m.orderStatusChanges.WithLabelValues(status).Inc()
}

// Notification records a notification attempt; result is "sent", "queued" or "failed".
func (m *Business) Notification(kind, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}
