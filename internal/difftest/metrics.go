package difftest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts finished runs by verdict and complexity.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prefixcalc_difftest_runs_total",
		Help: "Total differential test runs by verdict and complexity",
	}, []string{"verdict", "complexity"})

	// engineDuration tracks calculator evaluation latency.
	engineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prefixcalc_difftest_engine_duration_seconds",
		Help:    "Calculator evaluation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12), // 1µs to ~4s
	})

	// engineFailures counts calculator evaluations that did not return.
	engineFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prefixcalc_difftest_engine_failures_total",
		Help: "Calculator evaluations that timed out or panicked",
	}, []string{"reason"})

	// oracleErrors counts expressions the oracle rejected.
	oracleErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prefixcalc_difftest_oracle_errors_total",
		Help: "Expressions rejected by the reference evaluator",
	})
)

func observe(rec *Record) {
	runsTotal.WithLabelValues(string(rec.Verdict), rec.Complexity).Inc()
	engineDuration.Observe(rec.Elapsed.Seconds())
	switch {
	case rec.TimedOut:
		engineFailures.WithLabelValues("timeout").Inc()
	case rec.Panicked:
		engineFailures.WithLabelValues("panic").Inc()
	}
	if rec.OracleError != "" {
		oracleErrors.Inc()
	}
}
