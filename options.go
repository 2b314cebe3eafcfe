package featquant

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/featquant/codec"
	"github.com/hupe1980/featquant/compress"
	"github.com/hupe1980/featquant/group"
	"github.com/hupe1980/featquant/quantization"
	"github.com/hupe1980/featquant/scale"
	"github.com/hupe1980/featquant/table"
)

type options struct {
	// Fitted-state options. Persisted by Save and restored by Load.
	bins                  int
	scale                 scale.Config
	smallCardinalityLimit int

	// Runtime options. Supplied again to Load.
	compression      compress.Type
	codec            codec.Codec
	parallelism      int
	clock            func() time.Time
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures New and Load.
//
// Options that shape the fitted state (bins, continuous strategy, binary mode,
// small-cardinality limit) only affect Fit; Load restores them from the
// persisted state.
type Option func(*options)

// WithBins sets the number of quantile bins per column (2..256, default 256).
func WithBins(n int) Option {
	return func(o *options) {
		o.bins = n
	}
}

// WithContinuousStrategy selects the transform for Continuous columns.
// The default is scale.StrategyYeoJohnson.
func WithContinuousStrategy(s scale.Strategy) Option {
	return func(o *options) {
		o.scale.Strategy = s
	}
}

// WithBinaryMode selects how Binary columns are coded.
// The default, scale.BinaryPassthrough, bins the raw 0/1 values;
// scale.BinaryExtremes maps them straight to -127/+127.
func WithBinaryMode(m scale.BinaryMode) Option {
	return func(o *options) {
		o.scale.BinaryMode = m
	}
}

// WithSmallCardinalityLimit sets the maximum number of distinct values of a
// SmallCardinalityInteger column (default 10).
func WithSmallCardinalityLimit(n int) Option {
	return func(o *options) {
		o.smallCardinalityLimit = n
	}
}

// WithCompression configures the compression of the state blob written by Save.
// The default is compress.Zstd.
func WithCompression(t compress.Type) Option {
	return func(o *options) {
		o.compression = t
	}
}

// WithCodec configures the codec used for the metadata record.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithParallelism sets the number of columns transformed concurrently (default 1).
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithClock overrides the clock used for the fit timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &featquant.BasicMetricsCollector{}
//	p, _ := featquant.New(featquant.WithMetricsCollector(metrics))
//	// ... use p ...
//	stats := metrics.GetStats()
//	fmt.Printf("Transforms: %d, Avg latency: %dns\n", stats.TransformCount, stats.TransformAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := featquant.NewJSONLogger(slog.LevelInfo)
//	p, _ := featquant.New(featquant.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		bins:                  quantization.DefaultBins,
		scale:                 scale.DefaultConfig,
		smallCardinalityLimit: group.DefaultSmallCardinalityLimit,
		compression:           compress.Zstd,
		codec:                 codec.Default,
		parallelism:           1,
		clock:                 time.Now,
		metricsCollector:      NoopMetricsCollector{},
		logger:                NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	if o.bins < quantization.MinBins || o.bins > quantization.MaxBins {
		return fmt.Errorf("%w: bins %d not in [%d, %d]", ErrConfiguration, o.bins, quantization.MinBins, quantization.MaxBins)
	}
	if err := o.scale.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if o.smallCardinalityLimit < 1 || o.smallCardinalityLimit > 2*table.MaxCode+1 {
		return fmt.Errorf("%w: small cardinality limit %d", ErrConfiguration, o.smallCardinalityLimit)
	}
	if _, err := compress.New(o.compression); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if o.parallelism < 1 {
		return fmt.Errorf("%w: parallelism %d", ErrConfiguration, o.parallelism)
	}
	if o.clock == nil {
		return fmt.Errorf("%w: nil clock", ErrConfiguration)
	}
	return nil
}
