// SPDX-License-Identifier: MIT

// Package metrics exports sobol.Algorithm measurements to Prometheus.
//
// Collector implements sobol.MetricsCollector:
//
//	<ns>_index_duration_seconds{estimator,status}     histogram
//	<ns>_interval_duration_seconds{method,source}    histogram (source = cache|compute|error)
//	<ns>_interval_cache_hits_total                   counter
//	<ns>_interval_cache_invalidations_total          counter
//	<ns>_errors_total{stage}                         counter (stage = indices|intervals)
//
// Register it on a dedicated prometheus.Registry in tests to avoid collisions
// with the global registry.
package metrics

import (
	"errors"
	"time"

	"github.com/katalvlaran/lvsobol/sobol"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric when NewCollector gets an empty namespace.
const DefaultNamespace = "sobol"

const (
	statusSuccess = "success"
	statusError   = "error"

	sourceCache   = "cache"
	sourceCompute = "compute"

	stageIndices   = "indices"
	stageIntervals = "intervals"
)

// durationBuckets spans sub-millisecond asymptotic intervals up to long bootstrap runs.
var durationBuckets = prometheus.ExponentialBuckets(0.0001, 4, 10)

// Collector is a Prometheus-backed sobol.MetricsCollector. Safe for concurrent use.
type Collector struct {
	indexDuration    *prometheus.HistogramVec
	intervalDuration *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	invalidations    prometheus.Counter
	errors           *prometheus.CounterVec
}

var _ sobol.MetricsCollector = (*Collector)(nil)

// NewCollector creates the collector and registers its metrics on reg
// (prometheus.DefaultRegisterer when nil).
//
// Errors: the first registration failure, e.g. prometheus.AlreadyRegisteredError
// when two collectors share a namespace on one registry.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		indexDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_duration_seconds",
			Help:      "Duration of first/total-order index computations",
			Buckets:   durationBuckets,
		}, []string{"estimator", "status"}),
		intervalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interval_duration_seconds",
			Help:      "Duration of confidence interval accesses by method and result source",
			Buckets:   durationBuckets,
		}, []string{"method", "source"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interval_cache_hits_total",
			Help:      "Interval accesses served from the cache",
		}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interval_cache_invalidations_total",
			Help:      "Cached intervals dropped because the configuration changed",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed computations by stage",
		}, []string{"stage"}),
	}

	var errs []error
	for _, m := range []prometheus.Collector{c.indexDuration, c.intervalDuration, c.cacheHits, c.invalidations, c.errors} {
		if err := reg.Register(m); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return c, nil
}

// RecordIndices implements sobol.MetricsCollector.
func (c *Collector) RecordIndices(estimator string, d time.Duration, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
		c.errors.WithLabelValues(stageIndices).Inc()
	}
	c.indexDuration.WithLabelValues(estimator, status).Observe(d.Seconds())
}

// RecordInterval implements sobol.MetricsCollector.
func (c *Collector) RecordInterval(method sobol.Method, d time.Duration, cacheHit bool, err error) {
	source := sourceCompute
	switch {
	case err != nil:
		source = statusError
		c.errors.WithLabelValues(stageIntervals).Inc()
	case cacheHit:
		source = sourceCache
		c.cacheHits.Inc()
	}
	c.intervalDuration.WithLabelValues(method.String(), source).Observe(d.Seconds())
}

// RecordInvalidation implements sobol.MetricsCollector.
func (c *Collector) RecordInvalidation() {
	c.invalidations.Inc()
}
