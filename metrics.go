package featquant

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    transformRows      prometheus.Counter
//	    transformHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordTransform(rows int, duration time.Duration, err error) {
//	    p.transformRows.Add(float64(rows))
//	    p.transformHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordFit is called after each fit.
	// rows and cols describe the training table, err is nil if successful.
	RecordFit(rows, cols int, duration time.Duration, err error)

	// RecordTransform is called after each transform.
	RecordTransform(rows int, duration time.Duration, err error)

	// RecordSave is called after each save. bytes is the total artifact size.
	RecordSave(bytes int, duration time.Duration, err error)

	// RecordLoad is called after each load.
	RecordLoad(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordTransform(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount            atomic.Int64
	FitErrors           atomic.Int64
	FitRows             atomic.Int64
	TransformCount      atomic.Int64
	TransformErrors     atomic.Int64
	TransformRows       atomic.Int64
	TransformTotalNanos atomic.Int64
	SaveCount           atomic.Int64
	SaveErrors          atomic.Int64
	SaveBytes           atomic.Int64
	LoadCount           atomic.Int64
	LoadErrors          atomic.Int64
	LoadBytes           atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(rows, _ int, _ time.Duration, err error) {
	b.FitCount.Add(1)
	if err != nil {
		b.FitErrors.Add(1)
		return
	}
	b.FitRows.Add(int64(rows))
}

// RecordTransform implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTransform(rows int, duration time.Duration, err error) {
	b.TransformCount.Add(1)
	b.TransformTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TransformErrors.Add(1)
		return
	}
	b.TransformRows.Add(int64(rows))
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int, _ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(int64(bytes))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FitCount:          b.FitCount.Load(),
		FitErrors:         b.FitErrors.Load(),
		FitRows:           b.FitRows.Load(),
		TransformCount:    b.TransformCount.Load(),
		TransformErrors:   b.TransformErrors.Load(),
		TransformRows:     b.TransformRows.Load(),
		TransformAvgNanos: b.getAvgTransformNanos(),
		SaveCount:         b.SaveCount.Load(),
		SaveErrors:        b.SaveErrors.Load(),
		SaveBytes:         b.SaveBytes.Load(),
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
		LoadBytes:         b.LoadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgTransformNanos() int64 {
	count := b.TransformCount.Load()
	if count == 0 {
		return 0
	}
	return b.TransformTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FitCount          int64
	FitErrors         int64
	FitRows           int64
	TransformCount    int64
	TransformErrors   int64
	TransformRows     int64
	TransformAvgNanos int64
	SaveCount         int64
	SaveErrors        int64
	SaveBytes         int64
	LoadCount         int64
	LoadErrors        int64
	LoadBytes         int64
}
