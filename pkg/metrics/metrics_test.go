package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			for k, v := range labels {
				if !hasLabel(m, k, v) {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, key, value string) bool {
	for _, pair := range m.GetLabel() {
		if pair.GetName() == key && pair.GetValue() == value {
			return true
		}
	}
	return false
}

func TestShopMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewShopMetrics(reg)

	m.IncCheckout("ok")
	m.IncCheckout("ok")
	m.IncCheckout("empty_cart")
	m.IncDecision("confirm")
	m.IncCommission()
	m.IncNotification("buyer_receipt", "sent")
	m.IncNotification("", "failed")

	require.Equal(t, 2.0, counterValue(t, reg, "shop_checkouts_total", map[string]string{"result": "ok"}))
	require.Equal(t, 1.0, counterValue(t, reg, "shop_checkouts_total", map[string]string{"result": "empty_cart"}))
	require.Equal(t, 1.0, counterValue(t, reg, "shop_order_decisions_total", map[string]string{"decision": "confirm"}))
	require.Equal(t, 1.0, counterValue(t, reg, "shop_partner_commissions_total", nil))
	require.Equal(t, 1.0, counterValue(t, reg, "shop_notifications_total", map[string]string{"kind": "unknown", "result": "failed"}))
}

func TestShopMetricsNilSafe(t *testing.T) {
	var m *ShopMetrics
	m.IncCheckout("ok")
	m.IncDecision("reject")
	m.IncCommission()
	m.IncNotification("x", "y")

	empty := NewShopMetrics(nil)
	empty.IncCheckout("ok")
}
