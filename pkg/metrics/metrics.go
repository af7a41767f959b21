package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics records checkout and moderation activity.
type ShopMetrics struct {
	checkouts     *prometheus.CounterVec
	decisions     *prometheus.CounterVec
	commissions   prometheus.Counter
	notifications *prometheus.CounterVec
}

// NewShopMetrics registers the shop metrics on the provided registerer.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_checkouts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_order_decisions_total",
		Help: "Admin order decisions by outcome.",
	}, []string{"decision"})
	commissions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shop_partner_commissions_total",
		Help: "Partner commission settlements applied.",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_notifications_total",
		Help: "Outbound chat notifications by kind and result.",
	}, []string{"kind", "result"})
	reg.MustRegister(checkouts, decisions, commissions, notifications)
	return &ShopMetrics{
		checkouts:     checkouts,
		decisions:     decisions,
		commissions:   commissions,
		notifications: notifications,
	}
}

// IncCheckout increments the checkout counter for the given result.
func (m *ShopMetrics) IncCheckout(result string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncDecision increments the admin decision counter.
func (m *ShopMetrics) IncDecision(decision string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(normalizeLabel(decision)).Inc()
}

// IncCommission counts one settled partner commission.
func (m *ShopMetrics) IncCommission() {
	if m == nil || m.commissions == nil {
		return
	}
	m.commissions.Inc()
}

// IncNotification counts one outbound notification attempt.
func (m *ShopMetrics) IncNotification(kind, result string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(kind), normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
