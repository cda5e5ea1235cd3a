// Package metrics exposes Prometheus counters for the sync gateway and the
// per-user stores.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipsync",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Number of gateway requests by route and response status",
		},
		[]string{"route", "status"},
	)

	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipsync",
			Subsystem: "devices",
			Name:      "logins_total",
			Help:      "Number of successful logins, labeled new or returning device",
		},
		[]string{"device"},
	)

	DevicesRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipsync",
			Subsystem: "devices",
			Name:      "removed_total",
			Help:      "Number of devices removed",
		},
	)

	ClipsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipsync",
			Subsystem: "clipboard",
			Name:      "appended_total",
			Help:      "Number of clipboard records appended",
		},
	)

	ClipsRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipsync",
			Subsystem: "clipboard",
			Name:      "removed_total",
			Help:      "Number of clipboard records removed, by reason",
		},
		[]string{"reason"}, // 'delete', 'clear' or 'cascade'
	)
)

func init() {
	prometheus.MustRegister(
		Requests,
		Logins,
		DevicesRemoved,
		ClipsAppended,
		ClipsRemoved,
	)
}
