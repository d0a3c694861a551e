// Package stats accumulates probe outcomes over one reporting window.
// A Window has a single owner (the scheduler loop), so none of this is
// synchronized.
package stats

import "github.com/hamed0406/ethwatchdog/internal/probe"

// Window is the mutable accumulator for the current reporting period.
// Invariant: SuccessCount <= TotalChecks, and latency aggregates cover
// successful checks only.
type Window struct {
	TotalChecks  int
	SuccessCount int

	latMin   float64
	latMax   float64
	latSum   float64
	latCount int

	// LastKnownBlock persists across Reset; it is the latest observed height,
	// stored verbatim (a node may legitimately report a lower height after a
	// reorg, so no monotonic clamp).
	LastKnownBlock uint64
}

func (w *Window) Record(out probe.Outcome) {
	w.TotalChecks++
	if !out.Success {
		return
	}
	w.SuccessCount++
	w.LastKnownBlock = out.BlockHeight

	if w.latCount == 0 || out.LatencyMS < w.latMin {
		w.latMin = out.LatencyMS
	}
	if w.latCount == 0 || out.LatencyMS > w.latMax {
		w.latMax = out.LatencyMS
	}
	w.latSum += out.LatencyMS
	w.latCount++
}

// Snapshot is a pure read of the current window.
func (w *Window) Snapshot() Summary {
	s := Summary{
		TotalChecks:    w.TotalChecks,
		SuccessCount:   w.SuccessCount,
		LastKnownBlock: w.LastKnownBlock,
	}
	if w.TotalChecks > 0 {
		s.UptimePct = 100 * float64(w.SuccessCount) / float64(w.TotalChecks)
	}
	if w.latCount > 0 {
		s.HasLatency = true
		s.MinLatencyMS = w.latMin
		s.MaxLatencyMS = w.latMax
		s.AvgLatencyMS = w.latSum / float64(w.latCount)
	}
	return s
}

// Reset zeroes the counters for the next window. LastKnownBlock carries
// forward.
func (w *Window) Reset() {
	w.TotalChecks = 0
	w.SuccessCount = 0
	w.latMin = 0
	w.latMax = 0
	w.latSum = 0
	w.latCount = 0
}

// Summary is one window's report. HasLatency is false when the window held no
// successful checks; latency fields are meaningless then and render as
// "no data".
type Summary struct {
	TotalChecks    int
	SuccessCount   int
	UptimePct      float64
	HasLatency     bool
	MinLatencyMS   float64
	MaxLatencyMS   float64
	AvgLatencyMS   float64
	LastKnownBlock uint64
}

// RunningTotals are process-lifetime counters. They only ever climb; window
// resets never touch them.
type RunningTotals struct {
	Checks    uint64
	Successes uint64
}

func (r *RunningTotals) Record(out probe.Outcome) {
	r.Checks++
	if out.Success {
		r.Successes++
	}
}
