// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "fmt"

// TagLabel names a PacBio auxiliary tag symbolically, so record and
// validator code need not refer to tags only by their two-character
// wire label (spec's SUPPLEMENTED FEATURES item 5, grounding on
// BamRecordTag.h's enum class).
type TagLabel int

const (
	LabelPulseCall TagLabel = iota
	LabelPulseCallWidth
	LabelBaseQuality
	LabelBarcode
	LabelContextFlags
	LabelDeletionQV
	LabelDeletionTag
	LabelHoleNumber
	LabelInsertionQV
	LabelIPD
	LabelLabelQV
	LabelSubstitutionTag
	LabelMappingQuality
	LabelNumPasses
	LabelAltLabelQV
	LabelPkmid
	LabelPkmean
	LabelPrePulseFrames
	LabelPulseMergeQV
	LabelPulseWidth
	LabelQueryEnd
	LabelQueryStart
	LabelReadAccuracy
	LabelReadGroup
	LabelScrapZMWType
	LabelScrapRegionType
	LabelSignalToNoise
	LabelStartFrame
	LabelSubstitutionQV
	LabelAltLabelTag
	LabelPulseDeletionTag
)

// pacbioTag describes one entry of the PacBio tag inventory (spec
// §3): its wire label and whether it is stored per-pulse (true) or
// not (false). Entries with false are per-base arrays, except RG, bc
// and sn (string or fixed-size arrays) and the scalar tags.
type pacbioTag struct {
	label   TagLabel
	wire    Tag
	pulse   bool
}

var pacbioTags = [...]pacbioTag{
	{LabelPulseCallWidth, Tag{'p', 'v'}, true},
	{LabelPrePulseFrames, Tag{'p', 't'}, true},
	{LabelBaseQuality, Tag{'b', 'q'}, false},
	{LabelBarcode, Tag{'b', 'c'}, false},
	{LabelContextFlags, Tag{'c', 'x'}, false},
	{LabelDeletionQV, Tag{'d', 'q'}, false},
	{LabelDeletionTag, Tag{'d', 't'}, false},
	{LabelHoleNumber, Tag{'z', 'm'}, false},
	{LabelInsertionQV, Tag{'i', 'q'}, false},
	{LabelIPD, Tag{'i', 'p'}, false},
	{LabelLabelQV, Tag{'p', 'q'}, true},
	{LabelSubstitutionTag, Tag{'C', 'G'}, false},
	{LabelMappingQuality, Tag{'m', 'q'}, false},
	{LabelNumPasses, Tag{'n', 'p'}, false},
	{LabelAltLabelQV, Tag{'p', 'a'}, true},
	{LabelPkmid, Tag{'p', 's'}, true},
	{LabelPkmean, Tag{'p', 'm'}, true},
	{LabelPulseCall, Tag{'p', 'c'}, true},
	{LabelPulseDeletionTag, Tag{'p', 'd'}, true},
	{LabelAltLabelTag, Tag{'p', 'i'}, true},
	{LabelPulseMergeQV, Tag{'p', 'g'}, true},
	{LabelPulseWidth, Tag{'p', 'w'}, false},
	{LabelQueryEnd, Tag{'q', 'e'}, false},
	{LabelQueryStart, Tag{'q', 's'}, false},
	{LabelReadAccuracy, Tag{'r', 'q'}, false},
	{LabelReadGroup, Tag{'R', 'G'}, false},
	{LabelScrapZMWType, Tag{'s', 'c'}, false},
	{LabelScrapRegionType, Tag{'s', 'z'}, false},
	{LabelSignalToNoise, Tag{'s', 'n'}, false},
	{LabelStartFrame, Tag{'s', 'f'}, true},
	{LabelSubstitutionQV, Tag{'s', 'q'}, false},
}

// PerPulse reports whether label names a per-pulse tag (true) or a
// per-base tag (false).
func (label TagLabel) PerPulse() bool {
	for _, t := range pacbioTags {
		if t.label == label {
			return t.pulse
		}
	}
	return false
}

// Wire returns the two-character wire label for label.
func (label TagLabel) Wire() (Tag, error) {
	for _, t := range pacbioTags {
		if t.label == label {
			return t.wire, nil
		}
	}
	return Tag{}, fmt.Errorf("%w: tag label %d has no wire mapping", ErrNotFound, label)
}

// IsPulseTag reports whether wire is one of the per-pulse entries of
// the PacBio tag inventory.
func IsPulseTag(wire Tag) bool {
	for _, t := range pacbioTags {
		if t.wire == wire {
			return t.pulse
		}
	}
	return false
}

// pulseCallWire is the "pc" tag: base-called pulses are uppercase,
// squashed pulses lowercase (spec §4.6, §3).
var pulseCallWire = Tag{'p', 'c'}
