package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Broadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonebridge_broadcasts_total",
			Help: "Messages fanned out to all client sessions, by command.",
		},
		[]string{"command"},
	)

	DroppedFrames = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zonebridge_dropped_frames_total",
			Help: "Outbound frames refused by sessions whose transport had closed.",
		},
	)

	Sessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "zonebridge_sessions",
			Help: "Live client sessions.",
		},
	)

	UpstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonebridge_upstream_calls_total",
			Help: "Calls issued to the upstream core, by call and result.",
		},
		[]string{"call", "result"},
	)

	OverlayFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonebridge_overlay_fetches_total",
			Help: "Now-playing feed fetches, by feed and result.",
		},
		[]string{"feed", "result"},
	)

	SleepTimersFired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zonebridge_sleep_timers_fired_total",
			Help: "Sleep timers that reached their expiry.",
		},
	)
)

var once sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			Broadcasts,
			DroppedFrames,
			Sessions,
			UpstreamCalls,
			OverlayFetches,
			SleepTimersFired,
		)
	})
}

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
