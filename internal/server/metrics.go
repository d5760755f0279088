package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todolist",
		Subsystem: "server",
		Name:      "mutations_total",
		Help:      "Create and delete requests, by operation and status.",
	}, []string{"op", "status"})

	projectFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "todolist",
		Subsystem: "server",
		Name:      "project_fetches_total",
		Help:      "Total project list reads.",
	})

	wsSubscriptionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "todolist",
		Subsystem: "server",
		Name:      "ws_subscriptions_active",
		Help:      "Open task subscriptions.",
	})

	snapshotsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "todolist",
		Subsystem: "server",
		Name:      "snapshots_sent_total",
		Help:      "Task snapshots written to subscribers.",
	})
)
