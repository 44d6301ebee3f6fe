package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsCreated counts committed session creations
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizroom_sessions_created_total",
		Help: "Total sessions created",
	})

	// SessionsStarted counts waiting -> started transitions
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizroom_sessions_started_total",
		Help: "Total sessions transitioned to started",
	})

	// SessionsEnded counts transitions into the terminal state
	SessionsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizroom_sessions_ended_total",
		Help: "Total sessions transitioned to ended",
	})

	// JoinsAccepted counts roster seats committed
	JoinsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizroom_joins_accepted_total",
		Help: "Total successful session joins",
	})

	// JoinsRejected counts join attempts rejected, by reason
	JoinsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quizroom_joins_rejected_total",
		Help: "Total rejected session joins",
	}, []string{"reason"})

	// WatchersActive tracks currently-running sync loops
	WatchersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quizroom_watchers_active",
		Help: "Currently active session watchers",
	})

	// WatcherFailures counts sync loops terminated by consecutive fetch failures
	WatcherFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quizroom_watcher_failures_total",
		Help: "Watchers terminated after consecutive fetch failures",
	})
)
