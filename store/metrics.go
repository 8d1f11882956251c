package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotsAdopted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jotfox",
		Subsystem: "store",
		Name:      "snapshots_adopted_total",
		Help:      "Server snapshots that replaced local state.",
	})

	reordersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jotfox",
		Subsystem: "store",
		Name:      "reorders_total",
		Help:      "Local reorders that moved a note.",
	})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jotfox",
		Subsystem: "store",
		Name:      "gateway_requests_total",
		Help:      "Gateway requests issued by the store, by operation and result.",
	}, []string{"operation", "result"})
)
