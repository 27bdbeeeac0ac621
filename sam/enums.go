// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

// Strand indicates the strand a record or feature is reported
// against.
type Strand int8

const (
	StrandForward Strand = 1
	StrandReverse Strand = -1
)

// String returns "+" for StrandForward and "-" for StrandReverse.
func (s Strand) String() string {
	if s == StrandForward {
		return "+"
	}
	return "-"
}

// Orientation distinguishes sequence as produced by the sequencer
// (Native) from sequence rotated onto the reference strand (Genomic).
type Orientation int8

const (
	Native Orientation = iota
	Genomic
)

// String returns the name of the Orientation.
func (o Orientation) String() string {
	if o == Genomic {
		return "Genomic"
	}
	return "Native"
}

// RecordType is the PacBio read type recorded in a read group's
// READTYPE DS sub-field (spec §4.10).
type RecordType int8

const (
	UnknownType RecordType = iota
	Zmw
	Polymerase
	HqRegion
	Subread
	Ccs
	Scrap
	Transcript
)

var recordTypeNames = [...]string{
	UnknownType: "UNKNOWN",
	Zmw:         "ZMW",
	Polymerase:  "POLYMERASE",
	HqRegion:    "HQREGION",
	Subread:     "SUBREAD",
	Ccs:         "CCS",
	Scrap:       "SCRAP",
	Transcript:  "TRANSCRIPT",
}

var recordTypeByName = func() map[string]RecordType {
	m := make(map[string]RecordType, len(recordTypeNames))
	for t, n := range recordTypeNames {
		m[n] = RecordType(t)
	}
	return m
}()

// String returns the READTYPE token for rt.
func (rt RecordType) String() string {
	if int(rt) < 0 || int(rt) >= len(recordTypeNames) {
		return recordTypeNames[UnknownType]
	}
	return recordTypeNames[rt]
}

// ParseRecordType parses a READTYPE token, returning UnknownType and
// false if s does not name one of the known PacBio read types.
func ParseRecordType(s string) (RecordType, bool) {
	rt, ok := recordTypeByName[s]
	return rt, ok
}

// PulseBehavior controls whether a per-pulse field accessor returns
// every pulse (All) or only the pulses that were base-called
// (BasecallsOnly), per spec §4.7.
type PulseBehavior int8

const (
	All PulseBehavior = iota
	BasecallsOnly
)

// ClipMode selects the coordinate space a clipping request is
// expressed in, per spec §4.8.
type ClipMode int8

const (
	ClipNone ClipMode = iota
	ClipToQuery
	ClipToReference
)

// TagModifier is a display/semantic modifier orthogonal to a Tag's
// underlying variant (spec §3): ASCIIChar forces small-integer display
// as a printable character, HexString marks a string as hex-encoded
// bytes.
type TagModifier int8

const (
	NoModifier TagModifier = iota
	ASCIIChar
	HexString
)
