package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amaze",
		Subsystem: "server",
		Name:      "steps_total",
	}, []string{"transition"})
	metricResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amaze",
		Subsystem: "server",
		Name:      "resets_total",
	}, []string{"source"})
	metricDroppedFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "amaze",
		Subsystem: "server",
		Name:      "dropped_frames_total",
	})
	metricSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "amaze",
		Subsystem: "server",
		Name:      "sessions",
	})
	metricViewers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "amaze",
		Subsystem: "server",
		Name:      "viewers",
	})
)
