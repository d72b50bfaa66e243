// SPDX-License-Identifier: MIT

package sobol

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational measurements from an Algorithm.
// Implementations must be safe for concurrent use. See package metrics for a
// Prometheus implementation.
type MetricsCollector interface {
	// RecordIndices is called after each (lazy) index computation.
	RecordIndices(estimator string, duration time.Duration, err error)

	// RecordInterval is called after each interval access. cacheHit is true
	// when the cached pair was served without recomputation.
	RecordInterval(method Method, duration time.Duration, cacheHit bool, err error)

	// RecordInvalidation is called when a configuration change drops the cached intervals.
	RecordInvalidation()
}

// NoopMetricsCollector discards all measurements.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndices(string, time.Duration, error)        {}
func (NoopMetricsCollector) RecordInterval(Method, time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordInvalidation()                               {}

// BasicMetricsCollector counts events in memory. Useful in tests and for
// debugging without an external metrics backend.
type BasicMetricsCollector struct {
	IndexComputations    atomic.Int64
	IntervalComputations atomic.Int64
	CacheHits            atomic.Int64
	Invalidations        atomic.Int64
	Errors               atomic.Int64
}

// RecordIndices implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndices(_ string, _ time.Duration, err error) {
	b.IndexComputations.Add(1)
	if err != nil {
		b.Errors.Add(1)
	}
}

// RecordInterval implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInterval(_ Method, _ time.Duration, cacheHit bool, err error) {
	switch {
	case err != nil:
		b.Errors.Add(1)
	case cacheHit:
		b.CacheHits.Add(1)
	default:
		b.IntervalComputations.Add(1)
	}
}

// RecordInvalidation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInvalidation() {
	b.Invalidations.Add(1)
}
