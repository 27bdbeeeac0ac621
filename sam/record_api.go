// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "fmt"

// FieldOptions bundles the orientation/alignment/pulse-behavior
// parameters shared by every per-(base|pulse) field accessor (spec
// §4.7). PacBio tags are stored in native sequencing order; SEQ/QUAL
// are stored genomic. Requesting Aligned or ExciseSoftClips walks the
// CIGAR, so it requires the record to be mapped.
type FieldOptions struct {
	Orientation     Orientation
	Aligned         bool
	ExciseSoftClips bool
	PulseBehavior   PulseBehavior
}

// deletionNullByte and paddingNullByte are the CIGAR D/P gap-fill bytes for
// base-letter fields; numeric fields fill with zero.
const (
	deletionNullByte = '-'
	paddingNullByte  = '*'
)

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func reverseUint16(b []uint16) []uint16 {
	out := make([]uint16, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func reverseFloat32(b []float32) []float32 {
	out := make([]float32, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// alignBytes walks cigar, emitting query-order bytes from src per the
// CIGAR processing table in spec §4.7: M/=/X/I copy, D/P emit fill,
// N/H skip, S copies unless excise is set.
func alignBytes(cigar Cigar, src []byte, fillD, fillP byte, excise bool) ([]byte, error) {
	out := make([]byte, 0, len(src))
	pos := 0
	for _, co := range cigar {
		n := co.Len()
		switch co.Type() {
		case CigarMatch, CigarEqual, CigarMismatch, CigarInsertion:
			if pos+n > len(src) {
				return nil, fmt.Errorf("%w: cigar consumes more query bases than field provides", ErrInvariantViolated)
			}
			out = append(out, src[pos:pos+n]...)
			pos += n
		case CigarDeletion:
			for i := 0; i < n; i++ {
				out = append(out, fillD)
			}
		case CigarPadded:
			for i := 0; i < n; i++ {
				out = append(out, fillP)
			}
		case CigarSkipped, CigarHardClipped:
			// Neither consumes query data nor contributes output.
		case CigarSoftClipped:
			if pos+n > len(src) {
				return nil, fmt.Errorf("%w: cigar consumes more query bases than field provides", ErrInvariantViolated)
			}
			if !excise {
				out = append(out, src[pos:pos+n]...)
			}
			pos += n
		}
	}
	return out, nil
}

func alignUint16(cigar Cigar, src []uint16, fill uint16, excise bool) ([]uint16, error) {
	out := make([]uint16, 0, len(src))
	pos := 0
	for _, co := range cigar {
		n := co.Len()
		switch co.Type() {
		case CigarMatch, CigarEqual, CigarMismatch, CigarInsertion:
			if pos+n > len(src) {
				return nil, fmt.Errorf("%w: cigar consumes more query bases than field provides", ErrInvariantViolated)
			}
			out = append(out, src[pos:pos+n]...)
			pos += n
		case CigarDeletion, CigarPadded:
			for i := 0; i < n; i++ {
				out = append(out, fill)
			}
		case CigarSkipped, CigarHardClipped:
		case CigarSoftClipped:
			if pos+n > len(src) {
				return nil, fmt.Errorf("%w: cigar consumes more query bases than field provides", ErrInvariantViolated)
			}
			if !excise {
				out = append(out, src[pos:pos+n]...)
			}
			pos += n
		}
	}
	return out, nil
}

// resolveBaseField implements the §4.7 resolution procedure for a
// per-base byte field whose native storage orientation is NATIVE
// (i.e. any tag other than the fixed SEQ/QUAL section). fillD and
// fillP select the D/P gap-fill bytes: '-'/'*' for base-letter fields,
// 0 for quality-value fields (spec §4.7, "Fill values").
func (r *Record) resolveBaseField(raw []byte, opt FieldOptions, fillD, fillP byte) ([]byte, error) {
	data := raw
	reverseStrand := r.Flags&Reverse != 0

	if opt.Aligned || opt.ExciseSoftClips {
		// CIGAR walking is reference-relative (GENOMIC); native data
		// must be flipped into that orientation first when the record
		// is reverse-strand.
		if reverseStrand {
			data = reverseBytes(data)
		}
		var err error
		data, err = alignBytes(r.Cigar(), data, fillD, fillP, opt.ExciseSoftClips)
		if err != nil {
			return nil, err
		}
		// alignBytes output is in GENOMIC order; flip to NATIVE if that
		// was requested and the record is reverse-strand.
		if opt.Orientation == Native && reverseStrand {
			data = reverseBytes(data)
		}
		return data, nil
	}

	if opt.Orientation == Genomic && reverseStrand {
		data = reverseBytes(data)
	}
	return data, nil
}

// resolvePulseUint16Field implements the §4.7 resolution procedure for a
// per-pulse field, optionally projecting through the Pulse↔Base Cache
// before applying the same orientation/alignment handling as a
// per-base field.
func (r *Record) resolvePulseUint16Field(raw []uint16, opt FieldOptions) ([]uint16, error) {
	if (opt.Aligned || opt.ExciseSoftClips) && opt.PulseBehavior == All {
		return nil, fmt.Errorf("%w: aligned/excise_soft_clips requires pulse_behavior=BasecallsOnly for per-pulse fields", ErrIncompatibleRequest)
	}
	data := raw
	if opt.PulseBehavior == BasecallsOnly {
		pcBytes, err := r.pulseCallString()
		if err != nil {
			return nil, err
		}
		cache, err := NewPulseToBaseCache([]byte(pcBytes))
		if err != nil {
			return nil, err
		}
		data, err = cache.ProjectUint16(data)
		if err != nil {
			return nil, err
		}
	}

	reverseStrand := r.Flags&Reverse != 0
	if opt.Aligned || opt.ExciseSoftClips {
		if reverseStrand {
			data = reverseUint16(data)
		}
		var err error
		data, err = alignUint16(r.Cigar(), data, 0, opt.ExciseSoftClips)
		if err != nil {
			return nil, err
		}
		if opt.Orientation == Native && reverseStrand {
			data = reverseUint16(data)
		}
		return data, nil
	}
	if opt.Orientation == Genomic && reverseStrand {
		data = reverseUint16(data)
	}
	return data, nil
}

// tagValue decodes the record's tag block and returns the TagValue
// stored under the given PacBio tag label.
func (r *Record) tagValue(label TagLabel) (TagValue, Tag, error) {
	wire, err := label.Wire()
	if err != nil {
		return TagValue{}, wire, err
	}
	tags, err := r.Tags()
	if err != nil {
		return TagValue{}, wire, err
	}
	v, ok := tags.Get(wire)
	if !ok {
		return TagValue{}, wire, fmt.Errorf("%w: tag %s not present", ErrNotFound, wire)
	}
	return v, wire, nil
}

// tagUint16Array fetches the raw array stored under a PacBio tag
// label that is wire-encoded as a uint16 array.
func (r *Record) tagUint16Array(label TagLabel) ([]uint16, error) {
	v, _, err := r.tagValue(label)
	if err != nil {
		return nil, err
	}
	return v.ToUint16Array()
}

// tagFrames fetches the raw array stored under a frame-count tag label
// ("ip"/"pw"), decoding it per the wire codec actually used: a
// Uint16Array is already expanded frame counts (FrameCodecRaw), while a
// Uint8Array holds FrameCodecV1 codes run through frameV1Decode (spec
// §6, "Frames codec V1 decode table"). The codec is determined from the
// tag's own wire kind rather than a read group's DS declaration, since
// the two are required to agree and the wire kind is always available
// here.
func (r *Record) tagFrames(label TagLabel) ([]uint16, error) {
	v, wire, err := r.tagValue(label)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case KindUint16Array:
		return v.ToUint16Array()
	case KindUint8Array:
		codes, err := v.ToUint8Array()
		if err != nil {
			return nil, err
		}
		out := make([]uint16, len(codes))
		for i, c := range codes {
			out[i] = frameV1Decode[c]
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: tag %s is not a frame-count array", ErrUnsupportedFeature, wire)
}

func (r *Record) tagByteArray(label TagLabel) ([]byte, error) {
	v, wire, err := r.tagValue(label)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case KindString:
		s, err := v.ToString()
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case KindUint8Array:
		return v.ToUint8Array()
	}
	return nil, fmt.Errorf("%w: tag %s is not a byte sequence", ErrUnsupportedFeature, wire)
}

// pulseCallString fetches the raw "pc" tag as a string, used to build
// a Pulse↔Base Cache for other per-pulse field accessors.
func (r *Record) pulseCallString() (string, error) {
	tags, err := r.Tags()
	if err != nil {
		return "", err
	}
	v, ok := tags.Get(pulseCallWire)
	if !ok {
		return "", fmt.Errorf("%w: record has no pc tag to build a pulse-to-base projection", ErrNotFound)
	}
	return v.ToString()
}

// DeletionTag returns the record's "dt" per-base deletion-call string
// under the given field options (spec §4.7).
func (r *Record) DeletionTag(opt FieldOptions) ([]byte, error) {
	raw, err := r.tagByteArray(LabelDeletionTag)
	if err != nil {
		return nil, err
	}
	return r.resolveBaseField(raw, opt, deletionNullByte, paddingNullByte)
}

// SubstitutionTag returns the record's substitution-call string under
// the given field options (spec §4.7).
func (r *Record) SubstitutionTag(opt FieldOptions) ([]byte, error) {
	raw, err := r.tagByteArray(LabelSubstitutionTag)
	if err != nil {
		return nil, err
	}
	return r.resolveBaseField(raw, opt, deletionNullByte, paddingNullByte)
}

// DeletionQV returns the record's "dq" per-base deletion quality
// values under the given field options (spec §4.7).
func (r *Record) DeletionQV(opt FieldOptions) ([]byte, error) {
	raw, err := r.tagByteArray(LabelDeletionQV)
	if err != nil {
		return nil, err
	}
	return r.resolveBaseField(raw, opt, 0, 0)
}

// InsertionQV returns the record's "iq" per-base insertion quality
// values under the given field options (spec §4.7).
func (r *Record) InsertionQV(opt FieldOptions) ([]byte, error) {
	raw, err := r.tagByteArray(LabelInsertionQV)
	if err != nil {
		return nil, err
	}
	return r.resolveBaseField(raw, opt, 0, 0)
}

// SubstitutionQV returns the record's "sq" per-base substitution
// quality values under the given field options (spec §4.7).
func (r *Record) SubstitutionQV(opt FieldOptions) ([]byte, error) {
	raw, err := r.tagByteArray(LabelSubstitutionQV)
	if err != nil {
		return nil, err
	}
	return r.resolveBaseField(raw, opt, 0, 0)
}

// IPD returns the record's inter-pulse distance frame counts under
// the given field options, projecting through the Pulse↔Base Cache
// when PulseBehavior is BasecallsOnly (spec §4.6, §4.7).
func (r *Record) IPD(opt FieldOptions) (Frames, error) {
	raw, err := r.tagFrames(LabelIPD)
	if err != nil {
		return nil, err
	}
	out, err := r.resolvePulseUint16Field(raw, opt)
	if err != nil {
		return nil, err
	}
	return Frames(out), nil
}

// PulseWidth returns the record's pulse width frame counts under the
// given field options (spec §4.6, §4.7).
func (r *Record) PulseWidth(opt FieldOptions) (Frames, error) {
	raw, err := r.tagFrames(LabelPulseWidth)
	if err != nil {
		return nil, err
	}
	out, err := r.resolvePulseUint16Field(raw, opt)
	if err != nil {
		return nil, err
	}
	return Frames(out), nil
}

// pulsePhotonScale converts between the stored uint16 wire
// representation and the decoded float value (spec §4.7, "Pulse-photon
// tags").
const pulsePhotonScale = 10.0

// decodePhotons divides each stored count by pulsePhotonScale.
func decodePhotons(raw []uint16) []float32 {
	out := make([]float32, len(raw))
	for i, v := range raw {
		out[i] = float32(v) / pulsePhotonScale
	}
	return out
}

// encodePhotons multiplies and truncates each value to its stored
// uint16 form.
func encodePhotons(vals []float32) []uint16 {
	out := make([]uint16, len(vals))
	for i, v := range vals {
		out[i] = uint16(v * pulsePhotonScale)
	}
	return out
}

// Pkmid returns the record's mid-pulse signal photon counts, decoded
// to floating point, under the given field options (spec §4.7).
func (r *Record) Pkmid(opt FieldOptions) ([]float32, error) {
	raw, err := r.tagUint16Array(LabelPkmid)
	if err != nil {
		return nil, err
	}
	if opt.Aligned || opt.ExciseSoftClips {
		return nil, fmt.Errorf("%w: aligned/excise_soft_clips are not supported for photon fields", ErrUnsupportedFeature)
	}
	decoded := decodePhotons(raw)
	if opt.PulseBehavior == BasecallsOnly {
		s, err := r.pulseCallString()
		if err != nil {
			return nil, err
		}
		cache, err := NewPulseToBaseCache([]byte(s))
		if err != nil {
			return nil, err
		}
		decoded, err = cache.ProjectFloat32(decoded)
		if err != nil {
			return nil, err
		}
	}
	reverseStrand := r.Flags&Reverse != 0
	if opt.Orientation == Genomic && reverseStrand {
		decoded = reverseFloat32(decoded)
	}
	return decoded, nil
}

// PulseCall returns the record's raw "pc" pulse-call string, optionally
// squashed to base-called positions only.
func (r *Record) PulseCall(opt FieldOptions) ([]byte, error) {
	raw, err := r.tagByteArray(LabelPulseCall)
	if err != nil {
		return nil, err
	}
	if opt.PulseBehavior == BasecallsOnly {
		cache, err := NewPulseToBaseCache(raw)
		if err != nil {
			return nil, err
		}
		raw, err = cache.ProjectBytes(raw)
		if err != nil {
			return nil, err
		}
	}
	reverseStrand := r.Flags&Reverse != 0
	if opt.Orientation == Genomic && reverseStrand {
		raw = reverseBytes(raw)
	}
	return raw, nil
}
