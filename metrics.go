package splatpress

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// A MetricsCollector satisfies pipeline.Recorder, so every encode and decode
// stage is reported through it.
type MetricsCollector interface {
	// RecordStage is called after each successful pipeline stage with the
	// number of points it processed.
	RecordStage(name string, d time.Duration, points int)

	// RecordBytes is called for every output file with its size.
	RecordBytes(name string, n int64)

	// RecordRun is called once per Encode, Decode or Convert call.
	RecordRun(op string, d time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStage(string, time.Duration, int) {}
func (NoopMetricsCollector) RecordBytes(string, int64)              {}
func (NoopMetricsCollector) RecordRun(string, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunTotalNanos   atomic.Int64
	BytesWritten    atomic.Int64
	StageCount      atomic.Int64
	StageTotalNanos atomic.Int64

	mu     sync.Mutex
	stages map[string]time.Duration
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(name string, d time.Duration, points int) {
	b.StageCount.Add(1)
	b.StageTotalNanos.Add(d.Nanoseconds())

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stages == nil {
		b.stages = make(map[string]time.Duration)
	}
	b.stages[name] += d
}

// RecordBytes implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBytes(_ string, n int64) {
	b.BytesWritten.Add(n)
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ string, d time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(d.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	b.mu.Lock()
	stages := make(map[string]time.Duration, len(b.stages))
	for k, v := range b.stages {
		stages[k] = v
	}
	b.mu.Unlock()

	return BasicMetricsStats{
		RunCount:     b.RunCount.Load(),
		RunErrors:    b.RunErrors.Load(),
		RunAvgNanos:  avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		BytesWritten: b.BytesWritten.Load(),
		StageCount:   b.StageCount.Load(),
		Stages:       stages,
	}
}

// Reset clears all counters.
func (b *BasicMetricsCollector) Reset() {
	b.RunCount.Store(0)
	b.RunErrors.Store(0)
	b.RunTotalNanos.Store(0)
	b.BytesWritten.Store(0)
	b.StageCount.Store(0)
	b.StageTotalNanos.Store(0)

	b.mu.Lock()
	b.stages = nil
	b.mu.Unlock()
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	RunCount     int64
	RunErrors    int64
	RunAvgNanos  int64
	BytesWritten int64
	StageCount   int64
	// Stages holds the summed duration per stage name.
	Stages map[string]time.Duration
}
