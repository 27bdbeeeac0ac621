// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "fmt"

// PulseToBaseCache maps pulse positions to base-called positions,
// built from a record's "pc" (pulse call) tag: bit i is set iff
// pulse i was base-called, i.e. pc[i] is uppercase (spec §4.6,
// grounded on Pulse2BaseCache.h).
//
// A cache borrows its source tag for its lifetime; it is never
// invalidated in place. Callers must rebuild it after any record
// mutation (spec §9, "Lazy caches").
type PulseToBaseCache struct {
	bits     []bool
	numBases int
}

// NewPulseToBaseCache builds a cache from the raw "pc" tag bytes.
// Constructing a cache from already base-squashed data (a pc slice
// shorter than the record's pulse count, or containing no lowercase
// at all where squashed data is expected) cannot be detected from the
// tag alone, so the contract instead rejects an empty pc slice
// outright, and callers are expected to supply the full per-pulse
// callset. Attempting to build from zero-length input is an
// invariant violation, per spec §9's directive to treat construction
// over already-squashed data as ErrInvariantViolated.
func NewPulseToBaseCache(pc []byte) (*PulseToBaseCache, error) {
	if len(pc) == 0 {
		return nil, fmt.Errorf("%w: cannot build pulse-to-base cache from empty pulse-call data", ErrInvariantViolated)
	}
	bits := make([]bool, len(pc))
	n := 0
	for i, c := range pc {
		if c >= 'A' && c <= 'Z' {
			bits[i] = true
			n++
		}
	}
	return &PulseToBaseCache{bits: bits, numBases: n}, nil
}

// NumPulses returns the number of pulses covered by the cache.
func (c *PulseToBaseCache) NumPulses() int { return len(c.bits) }

// NumBases returns the number of base-called pulses (population count).
func (c *PulseToBaseCache) NumBases() int { return c.numBases }

// sentinelPulsePos is returned by FindFirst/FindNext when no
// base-called pulse exists in the requested range.
const sentinelPulsePos = -1

// FindFirst returns the position of the first base-called pulse, or
// sentinelPulsePos if none exists.
func (c *PulseToBaseCache) FindFirst() int {
	for i, b := range c.bits {
		if b {
			return i
		}
	}
	return sentinelPulsePos
}

// FindNext returns the position of the next base-called pulse strictly
// after i, or sentinelPulsePos if none exists.
func (c *PulseToBaseCache) FindNext(i int) int {
	for j := i + 1; j < len(c.bits); j++ {
		if c.bits[j] {
			return j
		}
	}
	return sentinelPulsePos
}

// BaseToPulse returns the pulse index of the n-th base-called pulse
// (0-indexed), or NumPulses() if n is NumBases() or greater. Used to
// re-index per-pulse tags against a base-coordinate clip range (spec
// §4.8, "re-indexed post-clip"): BaseToPulse(seqFrom) and
// BaseToPulse(seqEnd) bound the half-open pulse range spanning the
// base range [seqFrom, seqEnd).
func (c *PulseToBaseCache) BaseToPulse(n int) int {
	seen := -1
	for i, b := range c.bits {
		if b {
			seen++
			if seen == n {
				return i
			}
		}
	}
	return len(c.bits)
}

// ProjectBytes returns the subsequence of data, a per-pulse sequence
// of length NumPulses(), kept only at base-called positions, yielding
// a per-base sequence of length NumBases() (spec §4.6's "project<T>").
func (c *PulseToBaseCache) ProjectBytes(data []byte) ([]byte, error) {
	if len(data) != len(c.bits) {
		return nil, fmt.Errorf("%w: per-pulse data length %d does not match cache length %d", ErrInvariantViolated, len(data), len(c.bits))
	}
	out := make([]byte, 0, c.numBases)
	for i, b := range c.bits {
		if b {
			out = append(out, data[i])
		}
	}
	return out, nil
}

// ProjectUint16 is ProjectBytes for a per-pulse uint16 sequence, such
// as IPD or PulseWidth frame counts.
func (c *PulseToBaseCache) ProjectUint16(data []uint16) ([]uint16, error) {
	if len(data) != len(c.bits) {
		return nil, fmt.Errorf("%w: per-pulse data length %d does not match cache length %d", ErrInvariantViolated, len(data), len(c.bits))
	}
	out := make([]uint16, 0, c.numBases)
	for i, b := range c.bits {
		if b {
			out = append(out, data[i])
		}
	}
	return out, nil
}

// ProjectFloat32 is ProjectBytes for a per-pulse float32 sequence,
// such as decoded photon counts.
func (c *PulseToBaseCache) ProjectFloat32(data []float32) ([]float32, error) {
	if len(data) != len(c.bits) {
		return nil, fmt.Errorf("%w: per-pulse data length %d does not match cache length %d", ErrInvariantViolated, len(data), len(c.bits))
	}
	out := make([]float32, 0, c.numBases)
	for i, b := range c.bits {
		if b {
			out = append(out, data[i])
		}
	}
	return out, nil
}
