// Package metrics holds the Prometheus collectors for the API process.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	promPushSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitai_push_sends_total",
			Help: "Push notification deliveries per device, by result",
		},
		[]string{"result"},
	)
	promTokenRegistrations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fitai_push_token_registrations_total",
			Help: "Push tokens written for a user",
		},
	)
	promTokensPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fitai_push_tokens_pruned_total",
			Help: "Push tokens deleted after the provider reported them unregistered",
		},
	)
	promRemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fitai_workout_reminders_total",
			Help: "Workout reminders dispatched by the scheduler",
		},
	)
	promVoiceCues = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitai_voice_cues_total",
			Help: "Voice cues synthesized, by result",
		},
		[]string{"result"},
	)
	promRealtimeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitai_realtime_sessions",
			Help: "Open in-app notification sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(
		promPushSends,
		promTokenRegistrations,
		promTokensPruned,
		promRemindersSent,
		promVoiceCues,
		promRealtimeSessions,
	)
}

// ObservePushSends records per-device push results of one multicast.
func ObservePushSends(success, failure int) {
	promPushSends.WithLabelValues("success").Add(float64(success))
	promPushSends.WithLabelValues("failure").Add(float64(failure))
}

func IncTokenRegistration() { promTokenRegistrations.Inc() }

func AddTokensPruned(n int) { promTokensPruned.Add(float64(n)) }

func IncReminderSent() { promRemindersSent.Inc() }

func IncVoiceCue(ok bool) {
	if ok {
		promVoiceCues.WithLabelValues("success").Inc()
		return
	}
	promVoiceCues.WithLabelValues("failure").Inc()
}

func SetRealtimeSessions(n int) { promRealtimeSessions.Set(float64(n)) }

// PromHandler returns an HTTP handler that exposes Prometheus metrics.
func PromHandler() http.Handler { return promhttp.Handler() }
