package core

import (
	"slices"
	"time"

	"golang.org/x/exp/constraints"
)

// StageTiming is the time spent in one named pipeline stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Metrics accumulates stage timings of a single export run, in order.
type Metrics struct {
	clock   *Clock
	current string
	Timings []StageTiming
}

func NewMetrics() *Metrics {
	return &Metrics{clock: NewClock()}
}

// Begin closes the running stage, if any, and starts timing the next one.
func (m *Metrics) Begin(stage string) {
	m.End()
	m.current = stage
	m.clock.Start()
}

// End closes the running stage.
func (m *Metrics) End() {
	if m.current == "" {
		return
	}
	m.clock.Stop()
	m.Timings = append(m.Timings, StageTiming{Stage: m.current, Duration: m.clock.Elapsed()})
	m.current = ""
}

// Total returns the sum of all recorded stage durations.
func (m *Metrics) Total() time.Duration {
	var total time.Duration
	for _, t := range m.Timings {
		total += t.Duration
	}
	return total
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
