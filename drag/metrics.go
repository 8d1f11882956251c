package drag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dragsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jotfox",
		Subsystem: "drag",
		Name:      "drags_total",
		Help:      "Finished drags, by how they ended.",
	}, []string{"outcome"})

	swapsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jotfox",
		Subsystem: "drag",
		Name:      "swaps_total",
		Help:      "Swaps triggered by a collision during a drag.",
	})
)
