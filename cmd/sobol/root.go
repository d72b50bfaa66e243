// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/lvsobol/design"
	"github.com/katalvlaran/lvsobol/metrics"
	"github.com/katalvlaran/lvsobol/sobol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// gFunctionCoefficients are the customary g-function weights; --dim takes a prefix.
var gFunctionCoefficients = []float64{0, 1, 4.5, 9, 99, 99, 99, 99}

// studyConfig collects the parsed flags. The yaml tags define the --config file format.
type studyConfig struct {
	Model         string  `yaml:"model"`
	Dim           int     `yaml:"dim"`
	Size          int     `yaml:"size"`
	Estimator     string  `yaml:"estimator"`
	Method        string  `yaml:"method"`
	Level         float64 `yaml:"level"`
	BootstrapSize int     `yaml:"bootstrap_size"`
	Seed          uint64  `yaml:"seed"`
	DesignSeed    uint64  `yaml:"design_seed"`
	Parallelism   int     `yaml:"parallelism"`
	Clamp         bool    `yaml:"clamp"`
	LogLevel      string  `yaml:"log_level"`
	LogFormat     string  `yaml:"log_format"`
	MetricsAddr   string  `yaml:"metrics_addr"`
}

// study is a resolved reference problem.
type study struct {
	dist       design.Distribution
	model      design.Model
	exactFirst []float64
	exactTotal []float64
}

func newRootCmd() *cobra.Command {
	cfg := studyConfig{}
	var configPath string
	cmd := &cobra.Command{
		Use:           "sobol",
		Short:         "Sobol sensitivity indices of a reference model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				if err := loadConfigFile(cmd.Flags(), configPath, &cfg); err != nil {
					return err
				}
			}
			return runStudy(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML study file; explicitly set flags take precedence")
	f.StringVar(&cfg.Model, "model", "ishigami", "reference model: ishigami, gfunction or linear")
	f.IntVar(&cfg.Dim, "dim", 4, "input dimension of gfunction and linear (ignored by ishigami)")
	f.IntVarP(&cfg.Size, "size", "n", 10000, "number of replicates N; the design holds N·(2+d) points")
	f.StringVar(&cfg.Estimator, "estimator", "martinez", "estimator: martinez, jansen or saltelli")
	f.StringVar(&cfg.Method, "method", sobol.DefaultMethod.String(), "interval method: asymptotic or bootstrap")
	f.Float64Var(&cfg.Level, "level", sobol.DefaultConfidenceLevel, "two-sided confidence level in [0, 1]")
	f.IntVar(&cfg.BootstrapSize, "bootstrap-size", sobol.DefaultBootstrapSize, "number of bootstrap resamples")
	f.Uint64Var(&cfg.Seed, "seed", 0, "bootstrap seed (0 selects the fixed default)")
	f.Uint64Var(&cfg.DesignSeed, "design-seed", 1, "seed of the pick-freeze design")
	f.IntVar(&cfg.Parallelism, "parallelism", sobol.DefaultParallelism, "worker bound (0 = GOMAXPROCS)")
	f.BoolVar(&cfg.Clamp, "clamp", false, "clip interval bounds into [0, 1]")
	f.StringVar(&cfg.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", "text", "log format: text or json")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address until interrupted")

	return cmd
}

// loadConfigFile overlays the YAML file at path onto cfg, then restores every
// flag the user set explicitly so the command line wins over the file.
func loadConfigFile(flags *pflag.FlagSet, path string, cfg *studyConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	explicit := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) { explicit[f.Name] = f.Value.String() })

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unmarshaling YAML: %w", err)
	}
	for name, val := range explicit {
		if err = flags.Set(name, val); err != nil {
			return err
		}
	}

	return nil
}

// resolveStudy maps the model flags to a distribution, a model and its exact indices.
func resolveStudy(name string, dim int) (study, error) {
	switch name {
	case "ishigami":
		first, total := design.IshigamiIndices(7, 0.1)
		return study{design.IshigamiDistribution(), design.Ishigami(7, 0.1), first, total}, nil
	case "gfunction":
		if dim < 1 || dim > len(gFunctionCoefficients) {
			return study{}, fmt.Errorf("gfunction: dim %d outside [1, %d]", dim, len(gFunctionCoefficients))
		}
		a := gFunctionCoefficients[:dim]
		first, total := design.GFunctionIndices(a)
		return study{design.UniformDistribution(dim), design.GFunction(a), first, total}, nil
	case "linear":
		if dim < 1 {
			return study{}, fmt.Errorf("linear: dim %d < 1", dim)
		}
		coeffs := make([]float64, dim)
		for i := range coeffs {
			coeffs[i] = float64(i + 1)
		}
		s := design.LinearAdditiveIndices(coeffs)
		return study{design.NormalDistribution(dim), design.LinearAdditive(coeffs), s, s}, nil
	default:
		return study{}, fmt.Errorf("unknown model %q", name)
	}
}

func parseEstimator(name string) (sobol.Estimator, error) {
	switch strings.ToLower(name) {
	case "martinez":
		return sobol.Martinez{}, nil
	case "jansen":
		return sobol.Jansen{}, nil
	case "saltelli":
		return sobol.Saltelli{}, nil
	default:
		return nil, fmt.Errorf("unknown estimator %q", name)
	}
}

func parseMethod(name string) (sobol.Method, error) {
	for _, m := range []sobol.Method{sobol.Asymptotic, sobol.Bootstrap} {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown interval method %q", name)
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// runStudy executes one study and writes the result table to out.
// Stage 1 (Resolve): flags → model, estimator, interval config, logger, metrics.
// Stage 2 (Compute): design, indices, intervals.
// Stage 3 (Report): tabwriter table; optionally keep serving metrics.
func runStudy(ctx context.Context, out, logOut io.Writer, cfg studyConfig) error {
	st, err := resolveStudy(cfg.Model, cfg.Dim)
	if err != nil {
		return err
	}
	est, err := parseEstimator(cfg.Estimator)
	if err != nil {
		return err
	}
	method, err := parseMethod(cfg.Method)
	if err != nil {
		return err
	}
	if cfg.Parallelism < 0 {
		return fmt.Errorf("parallelism %d < 0", cfg.Parallelism)
	}
	icfg := sobol.IntervalConfig{
		Method:          method,
		ConfidenceLevel: cfg.Level,
		BootstrapSize:   cfg.BootstrapSize,
		Seed:            cfg.Seed,
		Fisher:          sobol.FisherClamp,
		ClampIndices:    cfg.Clamp,
	}
	if err = icfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger = logger.With("run_id", uuid.NewString()[:8])

	opts := []sobol.Option{
		sobol.WithEstimator(est),
		sobol.WithIntervalConfig(icfg),
		sobol.WithParallelism(cfg.Parallelism),
		sobol.WithDesignSeed(cfg.DesignSeed),
		sobol.WithLogger(logger),
	}
	var reg *prometheus.Registry
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		collector, err := metrics.NewCollector(reg, metrics.DefaultNamespace)
		if err != nil {
			return err
		}
		opts = append(opts, sobol.WithMetrics(collector))
	}

	start := time.Now()
	alg, err := sobol.NewFromDistribution(ctx, st.dist, cfg.Size, st.model, opts...)
	if err != nil {
		return err
	}
	first, err := alg.AggregatedFirstOrderIndices()
	if err != nil {
		return err
	}
	total, err := alg.AggregatedTotalOrderIndices()
	if err != nil {
		return err
	}
	fo, to, err := alg.Intervals(ctx, icfg)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "study finished",
		"model", cfg.Model,
		"estimator", est.Name(),
		"method", method.String(),
		"size", cfg.Size,
		"duration", time.Since(start),
	)

	if err = writeTable(out, cfg, first, total, fo, to, st); err != nil {
		return err
	}
	if reg == nil {
		return nil
	}

	return serveMetrics(ctx, logger, cfg.MetricsAddr, reg)
}

func writeTable(out io.Writer, cfg studyConfig, first, total []float64, fo, to sobol.Interval, st study) error {
	fmt.Fprintf(out, "model=%s estimator=%s N=%d method=%s level=%g\n\n",
		cfg.Model, cfg.Estimator, cfg.Size, cfg.Method, cfg.Level)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "input\tS\tS low\tS high\tST\tST low\tST high\texact S\texact ST\t")
	for p := range first {
		fmt.Fprintf(tw, "x%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			p, first[p], fo.Lower[p], fo.Upper[p],
			total[p], to.Lower[p], to.Upper[p],
			st.exactFirst[p], st.exactTotal[p])
	}

	return tw.Flush()
}

// serveMetrics exposes reg on addr until ctx is cancelled.
func serveMetrics(ctx context.Context, logger *slog.Logger, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.InfoContext(ctx, "serving metrics", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
