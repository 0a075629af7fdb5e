package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PayoutsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiply_payouts_created_total",
		Help: "Payout requests registered with the gateway",
	})

	PayoutsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiply_payouts_resolved_total",
		Help: "Payout requests reaching a terminal status",
	}, []string{"status"})

	ReconcileItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiply_reconcile_items_total",
		Help: "Items corrected by the reconciliation sweep",
	}, []string{"kind", "outcome"})

	GatewayErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiply_gateway_errors_total",
		Help: "Transport or parse failures talking to the payment gateway",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
