// SPDX-License-Identifier: MIT

// Package sobol: functional configuration of an Algorithm.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that resolves defaults.
//
// Design goals:
//   - No global state: the interval configuration lives in the Algorithm and is
//     passed explicitly to every interval computation.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package sobol

import (
	"log/slog"
	"runtime"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultMethod selects the asymptotic (Fisher z) interval strategy.
	DefaultMethod = Asymptotic

	// DefaultConfidenceLevel is the two-sided confidence level of intervals.
	DefaultConfidenceLevel = 0.95

	// DefaultBootstrapSize is the number of bootstrap resamples.
	DefaultBootstrapSize = 100

	// DefaultParallelism of 0 resolves to runtime.GOMAXPROCS(0).
	DefaultParallelism = 0
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicNilEstimator      = "sobol: WithEstimator: estimator must be non-nil"
	panicNilResampler      = "sobol: WithResampler: resampler must be non-nil"
	panicNilQuantile       = "sobol: WithQuantile: quantile function must be non-nil"
	panicNilLogger         = "sobol: WithLogger: logger must be non-nil"
	panicNilMetrics        = "sobol: WithMetrics: collector must be non-nil"
	panicParallelism       = "sobol: WithParallelism: n must be >= 0"
	panicIntervalConfigBad = "sobol: WithIntervalConfig: "
)

// ---------- Public option type (functional) ----------

// Option mutates internal options. Safe to apply repeatedly (last writer wins).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept ...Option.
type Options struct {
	estimator   Estimator
	resampler   Resampler
	quantile    QuantileFunc
	interval    IntervalConfig
	parallelism int
	designSeed  uint64
	logger      *slog.Logger
	metrics     MetricsCollector
}

// WithEstimator selects the variance decomposition estimator (default Martinez).
func WithEstimator(e Estimator) Option {
	if e == nil {
		panic(panicNilEstimator)
	}
	return func(o *Options) { o.estimator = e }
}

// WithResampler replaces the bootstrap strategy (default PercentileBootstrap).
func WithResampler(r Resampler) Option {
	if r == nil {
		panic(panicNilResampler)
	}
	return func(o *Options) { o.resampler = r }
}

// WithQuantile replaces the standard normal quantile used by the asymptotic strategy.
func WithQuantile(fn QuantileFunc) Option {
	if fn == nil {
		panic(panicNilQuantile)
	}
	return func(o *Options) { o.quantile = fn }
}

// WithIntervalConfig sets the initial interval configuration.
// Panics when cfg.Validate fails; use Algorithm.SetIntervalConfig for
// runtime-checked updates.
func WithIntervalConfig(cfg IntervalConfig) Option {
	if err := cfg.Validate(); err != nil {
		panic(panicIntervalConfigBad + err.Error())
	}
	return func(o *Options) { o.interval = cfg }
}

// WithParallelism bounds concurrent per-input estimator tasks and bootstrap
// resamples. n == 0 means runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	if n < 0 {
		panic(panicParallelism)
	}
	return func(o *Options) { o.parallelism = n }
}

// WithDesignSeed seeds the pick-freeze experiment of NewFromDistribution.
func WithDesignSeed(seed uint64) Option {
	return func(o *Options) { o.designSeed = seed }
}

// WithLogger attaches a structured logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}
	return func(o *Options) { o.logger = l }
}

// WithMetrics attaches a MetricsCollector (default NoopMetricsCollector).
func WithMetrics(m MetricsCollector) Option {
	if m == nil {
		panic(panicNilMetrics)
	}
	return func(o *Options) { o.metrics = m }
}

// gatherOptions applies user options over the defaults and resolves derived values.
func gatherOptions(user ...Option) Options {
	o := Options{
		estimator:   Martinez{},
		quantile:    NormalQuantile,
		interval:    DefaultIntervalConfig(),
		parallelism: DefaultParallelism,
		logger:      slog.New(slog.DiscardHandler),
		metrics:     NoopMetricsCollector{},
	}
	for _, set := range user {
		set(&o)
	}
	if o.parallelism == 0 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	if o.resampler == nil {
		o.resampler = PercentileBootstrap{Parallelism: o.parallelism}
	}

	return o
}
