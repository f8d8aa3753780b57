package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterEvaluations         *prometheus.CounterVec
	CounterInferenceCalls      *prometheus.CounterVec
	CounterPlanGenerations     *prometheus.CounterVec
	CounterRegenerationErrors  prometheus.Counter
	CounterLogEntries          *prometheus.CounterVec
	CounterEvaluationsBackedUp prometheus.Counter

	// gauges
	GaugeRequests          prometheus.Gauge
	GaugeLifeSignal        prometheus.Gauge
	GaugePendingDispatches prometheus.Gauge

	// histograms
	HistogramRequestDuration   *prometheus.HistogramVec
	HistogramInferenceDuration *prometheus.HistogramVec
	HistRegenerationDuration   prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterEvaluations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "evaluations",
		Help:      "The total number of recorded evaluations",
	}, []string{"kind", "source"})
	counterInferenceCalls := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "inference_calls",
		Help:      "The total number of calls made to the inference provider",
	}, []string{"tier", "outcome"})
	counterPlanGenerations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_generations",
		Help:      "The total number of generated weekly plans",
	}, []string{"kind", "source"})
	counterRegenerationErrors := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_regeneration_errors",
		Help:      "Per-user failures during batch plan regeneration",
	})
	counterLogEntries := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "log_entries",
		Help:      "The total number of stored training and nutrition entries",
	}, []string{"kind"})
	counterEvaluationsBackedUp := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "evaluations_backed_up",
		Help:      "Number of evaluation snapshots exported to google drive",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugePendingDispatches := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "pending_evaluation_dispatches",
		Help:      "Background evaluations currently in flight",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramInferenceDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "inference_duration_seconds",
		Help:      "Histogram of inference provider response time in seconds",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"tier"})
	histRegenerationDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Buckets: []float64{
			0.1, 1, 10, 60, 120, 240,
			480, 1000, 2000, 4000, 10000,
		},
		Name: "plan_regeneration_duration_seconds",
		Help: "Total duration of a single batch plan regeneration in seconds",
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterEvaluations:         counterEvaluations,
		CounterInferenceCalls:      counterInferenceCalls,
		CounterPlanGenerations:     counterPlanGenerations,
		CounterRegenerationErrors:  counterRegenerationErrors,
		CounterLogEntries:          counterLogEntries,
		CounterEvaluationsBackedUp: counterEvaluationsBackedUp,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugePendingDispatches:     gaugePendingDispatches,
		HistogramRequestDuration:   histogramRequestDuration,
		HistogramInferenceDuration: histogramInferenceDuration,
		HistRegenerationDuration:   histRegenerationDuration,
	}
}
