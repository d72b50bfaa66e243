// SPDX-License-Identifier: MIT

package sobol

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/katalvlaran/lvsobol/design"
	"github.com/katalvlaran/lvsobol/sample"
)

const (
	opNew                 = "New"
	opNewFromDistribution = "NewFromDistribution"
	opIndices             = "Indices"
	opIntervals           = "Intervals"
	opSetIntervalConfig   = "SetIntervalConfig"
	opResampleAggregate   = "ResampleAggregate"
)

// indexSet is the immutable result of the lazy index computation.
type indexSet struct {
	referenceVariance []float64
	firstOrder        *sample.Sample // q×d
	totalOrder        *sample.Sample // q×d
	aggregatedFirst   []float64      // d
	aggregatedTotal   []float64      // d
}

// Algorithm runs a variance-based sensitivity analysis on a pick-freeze design.
//
// Indices are computed lazily on first access and kept for the lifetime of the
// Algorithm. Intervals are computed lazily and cached for the IntervalConfig
// that produced them; asking for another configuration recomputes.
// All methods are safe for concurrent use.
type Algorithm struct {
	input  *sample.Sample
	output *sample.Sample
	layout *Layout
	opts   Options

	once    sync.Once
	indices *indexSet
	idxErr  error

	cfgMu sync.RWMutex
	cfg   IntervalConfig

	cache intervalCache
}

// New builds an Algorithm over paired input/output designs of size·(2+d) points,
// where d is input.Dimension().
//
// Errors:
//   - ErrNilSample for nil samples.
//   - ErrDimensionMismatch when input and output point counts differ.
//   - ErrInvalidConfiguration when the point count is not size·(2+d).
func New(input, output *sample.Sample, size int, opts ...Option) (*Algorithm, error) {
	if input == nil || output == nil {
		return nil, sobolErrorf(opNew, ErrNilSample)
	}
	if input.Size() != output.Size() {
		return nil, fmt.Errorf("%s: %d input points, %d output points: %w",
			opNew, input.Size(), output.Size(), ErrDimensionMismatch)
	}
	layout, err := NewLayout(output, size, input.Dimension())
	if err != nil {
		return nil, sobolErrorf(opNew, err)
	}
	o := gatherOptions(opts...)

	return &Algorithm{
		input:  input,
		output: output,
		layout: layout,
		opts:   o,
		cfg:    o.interval,
	}, nil
}

// NewFromDistribution generates the pick-freeze design of dist with size
// replicates (seeded by WithDesignSeed), evaluates model on it and returns the
// Algorithm over the result.
func NewFromDistribution(ctx context.Context, dist design.Distribution, size int, model design.Model, opts ...Option) (*Algorithm, error) {
	if dist == nil || model == nil {
		return nil, sobolErrorf(opNewFromDistribution, ErrNilSample)
	}
	o := gatherOptions(opts...)

	exp := design.Experiment{Size: size, Seed: o.designSeed}
	input, err := exp.Generate(dist)
	if err != nil {
		return nil, sobolErrorf(opNewFromDistribution, err)
	}
	output, err := design.Evaluate(ctx, model, input, o.parallelism)
	if err != nil {
		return nil, sobolErrorf(opNewFromDistribution, err)
	}
	o.logger.DebugContext(ctx, "design evaluated",
		"size", size,
		"input_dimension", input.Dimension(),
		"output_dimension", output.Dimension(),
		"points", output.Size(),
	)

	return New(input, output, size, opts...)
}

// Size returns the replicate count N.
func (a *Algorithm) Size() int { return a.layout.Size() }

// InputDimension returns d.
func (a *Algorithm) InputDimension() int { return a.layout.InputDimension() }

// OutputDimension returns q.
func (a *Algorithm) OutputDimension() int { return a.layout.OutputDimension() }

// Estimator returns the configured estimator.
func (a *Algorithm) Estimator() Estimator { return a.opts.estimator }

// Layout returns the pick-freeze block view of the output design.
func (a *Algorithm) Layout() *Layout { return a.layout }

// InputDesign returns the input design (shared, do not mutate).
func (a *Algorithm) InputDesign() *sample.Sample { return a.input }

// OutputDesign returns the output design (shared, do not mutate).
func (a *Algorithm) OutputDesign() *sample.Sample { return a.output }

// computeIndexSet runs estimator, normalization and aggregation on l.
func computeIndexSet(ctx context.Context, e Estimator, l *Layout, parallelism int) (*indexSet, error) {
	refVar := l.StatsA().Variance
	for k, v := range refVar {
		if v == 0 {
			return nil, fmt.Errorf("reference variance of output %d: %w", k, ErrDegenerateSample)
		}
	}
	vf, vti, err := e.ComputeIndices(ctx, l, refVar, parallelism)
	if err != nil {
		return nil, err
	}
	first, err := normalize(vf, refVar)
	if err != nil {
		return nil, err
	}
	total, err := normalize(vti, refVar)
	if err != nil {
		return nil, err
	}
	aggFirst, err := Aggregate(first, refVar)
	if err != nil {
		return nil, err
	}
	aggTotal, err := Aggregate(total, refVar)
	if err != nil {
		return nil, err
	}

	return &indexSet{
		referenceVariance: slices.Clone(refVar),
		firstOrder:        first,
		totalOrder:        total,
		aggregatedFirst:   aggFirst,
		aggregatedTotal:   aggTotal,
	}, nil
}

// loadIndices computes the indices once. The error, if any, is sticky: the
// design is immutable, so a retry would fail identically.
func (a *Algorithm) loadIndices() (*indexSet, error) {
	a.once.Do(func() {
		ctx := context.Background()
		start := time.Now()
		a.indices, a.idxErr = computeIndexSet(ctx, a.opts.estimator, a.layout, a.opts.parallelism)
		if a.idxErr != nil {
			a.idxErr = sobolErrorf(opIndices, a.idxErr)
		}
		elapsed := time.Since(start)
		a.opts.metrics.RecordIndices(a.opts.estimator.Name(), elapsed, a.idxErr)
		if a.idxErr != nil {
			a.opts.logger.ErrorContext(ctx, "index computation failed",
				"estimator", a.opts.estimator.Name(),
				"error", a.idxErr,
			)
			return
		}
		a.opts.logger.DebugContext(ctx, "indices computed",
			"estimator", a.opts.estimator.Name(),
			"size", a.layout.Size(),
			"input_dimension", a.layout.InputDimension(),
			"output_dimension", a.layout.OutputDimension(),
			"duration", elapsed,
		)
	})

	return a.indices, a.idxErr
}

// FirstOrderIndices returns the q×d matrix of first-order indices.
// The result is a private copy.
func (a *Algorithm) FirstOrderIndices() (*sample.Sample, error) {
	idx, err := a.loadIndices()
	if err != nil {
		return nil, err
	}
	return idx.firstOrder.Clone(), nil
}

// TotalOrderIndices returns the q×d matrix of total-order indices.
func (a *Algorithm) TotalOrderIndices() (*sample.Sample, error) {
	idx, err := a.loadIndices()
	if err != nil {
		return nil, err
	}
	return idx.totalOrder.Clone(), nil
}

// AggregatedFirstOrderIndices returns the variance-weighted first-order index of every input.
func (a *Algorithm) AggregatedFirstOrderIndices() ([]float64, error) {
	idx, err := a.loadIndices()
	if err != nil {
		return nil, err
	}
	return slices.Clone(idx.aggregatedFirst), nil
}

// AggregatedTotalOrderIndices returns the variance-weighted total-order index of every input.
func (a *Algorithm) AggregatedTotalOrderIndices() ([]float64, error) {
	idx, err := a.loadIndices()
	if err != nil {
		return nil, err
	}
	return slices.Clone(idx.aggregatedTotal), nil
}

// ReferenceVariance returns the per-output variance of block A.
func (a *Algorithm) ReferenceVariance() ([]float64, error) {
	idx, err := a.loadIndices()
	if err != nil {
		return nil, err
	}
	return slices.Clone(idx.referenceVariance), nil
}

// IntervalConfig returns the configuration used by the implicit interval accessors.
func (a *Algorithm) IntervalConfig() IntervalConfig {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// SetIntervalConfig replaces the configuration used by FirstOrderIndicesInterval
// and TotalOrderIndicesInterval. The cached intervals are discarded on the next
// access if cfg differs from the configuration that produced them.
func (a *Algorithm) SetIntervalConfig(cfg IntervalConfig) error {
	if err := cfg.Validate(); err != nil {
		return sobolErrorf(opSetIntervalConfig, err)
	}
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()

	return nil
}

// FirstOrderIndicesInterval returns the first-order interval for the current IntervalConfig.
func (a *Algorithm) FirstOrderIndicesInterval(ctx context.Context) (Interval, error) {
	return a.FirstOrderIndicesIntervalWith(ctx, a.IntervalConfig())
}

// TotalOrderIndicesInterval returns the total-order interval for the current IntervalConfig.
func (a *Algorithm) TotalOrderIndicesInterval(ctx context.Context) (Interval, error) {
	return a.TotalOrderIndicesIntervalWith(ctx, a.IntervalConfig())
}

// FirstOrderIndicesIntervalWith returns the first-order interval computed with cfg.
func (a *Algorithm) FirstOrderIndicesIntervalWith(ctx context.Context, cfg IntervalConfig) (Interval, error) {
	fo, _, err := a.Intervals(ctx, cfg)
	return fo, err
}

// TotalOrderIndicesIntervalWith returns the total-order interval computed with cfg.
func (a *Algorithm) TotalOrderIndicesIntervalWith(ctx context.Context, cfg IntervalConfig) (Interval, error) {
	_, to, err := a.Intervals(ctx, cfg)
	return to, err
}

// Intervals returns both intervals computed with cfg, serving the cached pair
// when cfg matches the configuration of the last computation.
//
// Errors:
//   - ErrInvalidConfiguration for a malformed cfg or size < 4 (asymptotic).
//   - ErrDegenerateSample / ErrCorrelationDomain from the computation.
//   - ctx errors from a cancelled bootstrap.
func (a *Algorithm) Intervals(ctx context.Context, cfg IntervalConfig) (Interval, Interval, error) {
	if err := cfg.Validate(); err != nil {
		return Interval{}, Interval{}, sobolErrorf(opIntervals, err)
	}

	start := time.Now()
	fo, to, hit, invalidated, err := a.cache.get(ctx, cfg, a.computeIntervals)
	if invalidated {
		a.opts.metrics.RecordInvalidation()
		a.opts.logger.InfoContext(ctx, "interval cache invalidated",
			"method", cfg.Method.String(),
			"confidence_level", cfg.ConfidenceLevel,
		)
	}
	a.opts.metrics.RecordInterval(cfg.Method, time.Since(start), hit, err)
	if err != nil {
		return Interval{}, Interval{}, sobolErrorf(opIntervals, err)
	}

	return fo, to, nil
}

// ResetIntervals drops the cached intervals.
func (a *Algorithm) ResetIntervals() {
	a.cache.reset()
}

// computeIntervals is the cache miss path.
func (a *Algorithm) computeIntervals(ctx context.Context, cfg IntervalConfig) (Interval, Interval, error) {
	idx, err := a.loadIndices()
	if err != nil {
		return Interval{}, Interval{}, err
	}

	var fo, to Interval
	switch cfg.Method {
	case Asymptotic:
		fo, to, err = AsymptoticInterval(idx.aggregatedFirst, idx.aggregatedTotal, a.layout.Size(), cfg, a.opts.quantile)
	case Bootstrap:
		fo, to, err = a.opts.resampler.Intervals(ctx, a.layout, cfg, a.aggregate)
	default:
		err = fmt.Errorf("method %v: %w", cfg.Method, ErrInvalidConfiguration)
	}
	if err != nil {
		a.opts.logger.WarnContext(ctx, "interval computation failed",
			"method", cfg.Method.String(),
			"error", err,
		)
		return Interval{}, Interval{}, err
	}
	a.opts.logger.DebugContext(ctx, "intervals computed",
		"method", cfg.Method.String(),
		"confidence_level", cfg.ConfidenceLevel,
		"inputs", fo.Dimension(),
	)

	return fo, to, nil
}

// aggregate is the AggregateFunc handed to the Resampler. The resampler owns
// the outer parallelism, so each resample runs its inputs sequentially.
func (a *Algorithm) aggregate(ctx context.Context, l *Layout) ([]float64, []float64, error) {
	idx, err := computeIndexSet(ctx, a.opts.estimator, l, 1)
	if err != nil {
		return nil, nil, sobolErrorf(opResampleAggregate, err)
	}
	return idx.aggregatedFirst, idx.aggregatedTotal, nil
}
