// Package metrics records in-process counters and timings for sync runs.
package metrics

import (
	"sync"
	"time"
)

// Registry accumulates per-process sync metrics.
type Registry struct {
	mu sync.Mutex

	SyncRuns      int
	SyncFailures  int
	FilesWritten  int
	Rollbacks     int
	TotalDuration time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RecordSync records the outcome of one synchronization transaction.
func (r *Registry) RecordSync(success bool, duration time.Duration, filesWritten int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SyncRuns++
	if !success {
		r.SyncFailures++
	}
	r.FilesWritten += filesWritten
	r.TotalDuration += duration
}

// RecordRollback records a rollback, whether it succeeded or not.
func (r *Registry) RecordRollback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rollbacks++
}

// Snapshot returns a copy of the current counters.
func (r *Registry) Snapshot() Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Registry{
		SyncRuns:      r.SyncRuns,
		SyncFailures:  r.SyncFailures,
		FilesWritten:  r.FilesWritten,
		Rollbacks:     r.Rollbacks,
		TotalDuration: r.TotalDuration,
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
