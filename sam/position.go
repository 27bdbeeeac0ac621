// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

// Position is a genomic or query coordinate. UnmappedPosition (-1)
// denotes an unmapped or unknown position; both genomic and query
// coordinates share this type, as described in spec §3.
type Position int32

// UnmappedPosition is the sentinel Position value used for an
// unmapped or unknown coordinate.
const UnmappedPosition Position = -1

// IsValid returns whether p is either UnmappedPosition or a
// non-negative 0-based coordinate representable in 31 bits, the range
// the BAM binary format allows for positions.
func (p Position) IsValid() bool {
	return p == UnmappedPosition || (0 <= p && p <= 1<<31-1)
}

const (
	wordBits = 31

	maxInt32 = int(int32(^uint32(0) >> 1))
	minInt32 = -int(maxInt32) - 1
)

func validInt32(i int) bool { return minInt32 <= i && i <= maxInt32 }

func validLen(i int) bool      { return 1 <= i && i <= 1<<wordBits-1 }
func validPos(i int) bool      { return -1 <= i && i <= (1<<wordBits-1)-1 } // 0-based.
func validTmpltLen(i int) bool { return -(1 << wordBits) <= i && i <= 1<<wordBits-1 }

// binMinShift and binLevels fix the UCSC-style binning scheme used by
// Bin, per spec §3 ("bin = reg2bin(position, referenceEnd), with
// min_shift = 14, n_levels = 5").
const (
	binMinShift = 14
	binLevels   = 5

	level0Shift = binMinShift + binLevels*3 // 29
	level1Shift = binMinShift + (binLevels-1)*3
	level2Shift = binMinShift + (binLevels-2)*3
	level3Shift = binMinShift + (binLevels-3)*3
	level4Shift = binMinShift + (binLevels-4)*3
	level5Shift = binMinShift

	level0 = 0
	level1 = 1
	level2 = 9
	level3 = 73
	level4 = 585
	level5 = 4681
)

// reg2bin returns the UCSC-style index bin for the half-open interval
// [beg, end), using min_shift=14 and n_levels=5 as mandated by spec §3.
func reg2bin(beg, end int) uint16 {
	end--
	switch {
	case beg>>level5Shift == end>>level5Shift:
		return level5 + uint16(beg>>level5Shift)
	case beg>>level4Shift == end>>level4Shift:
		return level4 + uint16(beg>>level4Shift)
	case beg>>level3Shift == end>>level3Shift:
		return level3 + uint16(beg>>level3Shift)
	case beg>>level2Shift == end>>level2Shift:
		return level2 + uint16(beg>>level2Shift)
	case beg>>level1Shift == end>>level1Shift:
		return level1 + uint16(beg>>level1Shift)
	}
	return level0
}
