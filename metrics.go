package curveclust

import (
	"sync/atomic"
	"time"
)

// Phase names one stage of the clustering pipeline.
type Phase string

const (
	PhaseIndex    Phase = "index"
	PhaseSearch   Phase = "search"
	PhaseEstimate Phase = "estimate"
	PhaseCluster  Phase = "cluster"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    runHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRun(points, clusters int, duration time.Duration, err error) {
//	    p.runHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordRun is called after each clustering run.
	// clusters is 0 if err is not nil.
	RecordRun(points, clusters int, duration time.Duration, err error)

	// RecordPhase is called after each pipeline phase of a run.
	RecordPhase(phase Phase, duration time.Duration, err error)

	// RecordCompare is called after each B-Cubed comparison.
	RecordCompare(points int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordPhase(Phase, time.Duration, error)  {}
func (NoopMetricsCollector) RecordCompare(int, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount       atomic.Int64
	RunErrors      atomic.Int64
	RunPoints      atomic.Int64
	RunClusters    atomic.Int64
	RunTotalNanos  atomic.Int64
	IndexNanos     atomic.Int64
	SearchNanos    atomic.Int64
	EstimateNanos  atomic.Int64
	ClusterNanos   atomic.Int64
	PhaseErrors    atomic.Int64
	CompareCount   atomic.Int64
	CompareErrors  atomic.Int64
	CompareNanos   atomic.Int64
	ComparedPoints atomic.Int64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(points, clusters int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
		return
	}
	b.RunPoints.Add(int64(points))
	b.RunClusters.Add(int64(clusters))
}

// RecordPhase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPhase(phase Phase, duration time.Duration, err error) {
	if err != nil {
		b.PhaseErrors.Add(1)
	}
	switch phase {
	case PhaseIndex:
		b.IndexNanos.Add(duration.Nanoseconds())
	case PhaseSearch:
		b.SearchNanos.Add(duration.Nanoseconds())
	case PhaseEstimate:
		b.EstimateNanos.Add(duration.Nanoseconds())
	case PhaseCluster:
		b.ClusterNanos.Add(duration.Nanoseconds())
	}
}

// RecordCompare implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompare(points int, duration time.Duration, err error) {
	b.CompareCount.Add(1)
	b.CompareNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CompareErrors.Add(1)
		return
	}
	b.ComparedPoints.Add(int64(points))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:        b.RunCount.Load(),
		RunErrors:       b.RunErrors.Load(),
		RunPoints:       b.RunPoints.Load(),
		RunClusters:     b.RunClusters.Load(),
		RunAvgNanos:     avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		IndexNanos:      b.IndexNanos.Load(),
		SearchNanos:     b.SearchNanos.Load(),
		EstimateNanos:   b.EstimateNanos.Load(),
		ClusterNanos:    b.ClusterNanos.Load(),
		PhaseErrors:     b.PhaseErrors.Load(),
		CompareCount:    b.CompareCount.Load(),
		CompareErrors:   b.CompareErrors.Load(),
		CompareAvgNanos: avg(b.CompareNanos.Load(), b.CompareCount.Load()),
		ComparedPoints:  b.ComparedPoints.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount        int64
	RunErrors       int64
	RunPoints       int64
	RunClusters     int64
	RunAvgNanos     int64
	IndexNanos      int64
	SearchNanos     int64
	EstimateNanos   int64
	ClusterNanos    int64
	PhaseErrors     int64
	CompareCount    int64
	CompareErrors   int64
	CompareAvgNanos int64
	ComparedPoints  int64
}
