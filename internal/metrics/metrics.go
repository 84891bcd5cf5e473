// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BalanceFallbacks counts breakdowns served from the cached remaining balance
var BalanceFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "loans_balance_fallbacks_total",
	Help: "Balance breakdowns that fell back to the stored remaining balance.",
})

// BalanceSuperseded counts breakdowns abandoned for a newer request
var BalanceSuperseded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "loans_balance_superseded_total",
	Help: "Balance breakdowns abandoned because the same user asked for another loan.",
})

// NotificationFetchErrors counts failed notification source reads by category
var NotificationFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "loans_notification_fetch_errors_total",
	Help: "Notification source reads that failed, by category.",
}, []string{"category"})

// Notifications is the size of the latest snapshot by priority
var Notifications = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "loans_notifications",
	Help: "Notifications in the latest snapshot, by company and priority.",
}, []string{"company", "priority"})

// NotificationRefreshes counts completed refresh cycles
var NotificationRefreshes = promauto.NewCounter(prometheus.CounterOpts{
	Name: "loans_notification_refreshes_total",
	Help: "Completed notification refresh cycles.",
})
