// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package particle

import "github.com/cpmech/gosl/la"

// HistEntry is one recorded probe outcome. condCode is solver-specific
// (e.g. accepted/regressed/converged); it is opaque to this package.
type HistEntry struct {
	CondCode int
	Value    float64
	Pos      la.Vector
}

// History is an append-only, capped ring of per-iteration probe
// results kept purely for diagnostics. A nil *History (the default on
// a fresh Particle) means "not recording"; every solver checks for
// nil before calling Add, so the sink costs nothing when unused.
type History struct {
	entries []HistEntry
	cap     int
	next    int
	full    bool
}

// NewHistory allocates a ring of capacity cap. cap <= 0 disables
// recording silently (Add becomes a no-op on the zero-length ring).
func NewHistory(cap int) *History {
	if cap <= 0 {
		return &History{}
	}
	return &History{entries: make([]HistEntry, cap), cap: cap}
}

// Add appends one entry, overwriting the oldest once the ring is full.
func (h *History) Add(condCode int, value float64, pos la.Vector) {
	if h == nil || h.cap == 0 {
		return
	}
	p := make(la.Vector, len(pos))
	copy(p, pos)
	h.entries[h.next] = HistEntry{CondCode: condCode, Value: value, Pos: p}
	h.next = (h.next + 1) % h.cap
	if h.next == 0 {
		h.full = true
	}
}

// Entries returns the recorded entries in chronological order.
func (h *History) Entries() []HistEntry {
	if h == nil || h.cap == 0 {
		return nil
	}
	if !h.full {
		out := make([]HistEntry, h.next)
		copy(out, h.entries[:h.next])
		return out
	}
	out := make([]HistEntry, h.cap)
	copy(out, h.entries[h.next:])
	copy(out[h.cap-h.next:], h.entries[:h.next])
	return out
}
