// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

// Builder incrementally assembles a Record: every setter mutates
// builder state and returns the builder for chaining, and Build emits
// a complete Record in one step (spec §4.9). Build is a pure function
// of builder state; derived fields (bin, CIGAR operation count,
// sequence length) are never stored on the builder itself, they are
// computed by the resulting Record's own Bin/Cigar/Seq methods exactly
// as they would be for a decoded record.
type Builder struct {
	name    string
	ref     *Reference
	mateRef *Reference
	pos     int
	matePos int
	tempLen int
	mapQ    byte
	cigar   Cigar
	seq     []byte
	qual    []byte
	tags    *TagCollection
	flags   Flags
}

// NewBuilder returns a Builder for a record named name, with position,
// mate position and mapping quality set to their "absent"/"unknown"
// sentinels (spec §6).
func NewBuilder(name string) *Builder {
	return &Builder{
		name:    name,
		pos:     -1,
		matePos: -1,
		tempLen: 0,
		mapQ:    255,
		flags:   Unmapped,
		tags:    &TagCollection{},
	}
}

// SetReference sets the record's reference and, if ref is non-nil,
// clears the Unmapped flag; a nil reference sets Unmapped and resets
// the position to -1.
func (b *Builder) SetReference(ref *Reference) *Builder {
	b.ref = ref
	if ref == nil {
		b.pos = -1
		b.flags |= Unmapped
	} else {
		b.flags &^= Unmapped
	}
	return b
}

// SetPosition sets the record's 0-based mapped position.
func (b *Builder) SetPosition(pos int) *Builder {
	b.pos = pos
	return b
}

// SetMateReference sets the record's mate reference and, if mRef is
// nil, resets the mate position to -1 and sets MateUnmapped.
func (b *Builder) SetMateReference(mRef *Reference) *Builder {
	b.mateRef = mRef
	if mRef == nil {
		b.matePos = -1
		b.flags |= MateUnmapped
	} else {
		b.flags &^= MateUnmapped
	}
	return b
}

// SetMatePosition sets the record's mate's 0-based mapped position.
func (b *Builder) SetMatePosition(pos int) *Builder {
	b.matePos = pos
	return b
}

// SetTemplateLength sets the record's observed template length.
func (b *Builder) SetTemplateLength(n int) *Builder {
	b.tempLen = n
	return b
}

// SetMapQuality sets the record's mapping quality; 255 means unknown
// (spec §6).
func (b *Builder) SetMapQuality(q byte) *Builder {
	b.mapQ = q
	return b
}

// SetCigar sets the record's CIGAR operations.
func (b *Builder) SetCigar(c Cigar) *Builder {
	b.cigar = c
	return b
}

// SetSeq sets the record's sequence letters.
func (b *Builder) SetSeq(seq []byte) *Builder {
	b.seq = seq
	return b
}

// SetQual sets the record's per-base Phred quality values.
func (b *Builder) SetQual(qual []byte) *Builder {
	b.qual = qual
	return b
}

// SetTag stores v under name in the record's tag block, overwriting
// any value already set under that name.
func (b *Builder) SetTag(name Tag, v TagValue) *Builder {
	b.tags.Set(name, v)
	return b
}

func (b *Builder) setFlag(f Flags, v bool) *Builder {
	if v {
		b.flags |= f
	} else {
		b.flags &^= f
	}
	return b
}

// SetMapped toggles the inverse of the Unmapped flag bit.
func (b *Builder) SetMapped(v bool) *Builder { return b.setFlag(Unmapped, !v) }

// SetReverseStrand toggles the Reverse flag bit.
func (b *Builder) SetReverseStrand(v bool) *Builder { return b.setFlag(Reverse, v) }

// SetPaired toggles the Paired flag bit.
func (b *Builder) SetPaired(v bool) *Builder { return b.setFlag(Paired, v) }

// SetProperPair toggles the ProperPair flag bit.
func (b *Builder) SetProperPair(v bool) *Builder { return b.setFlag(ProperPair, v) }

// SetMateMapped toggles the inverse of the MateUnmapped flag bit.
func (b *Builder) SetMateMapped(v bool) *Builder { return b.setFlag(MateUnmapped, !v) }

// SetMateReverseStrand toggles the MateReverse flag bit.
func (b *Builder) SetMateReverseStrand(v bool) *Builder { return b.setFlag(MateReverse, v) }

// SetRead1 toggles the Read1 flag bit.
func (b *Builder) SetRead1(v bool) *Builder { return b.setFlag(Read1, v) }

// SetRead2 toggles the Read2 flag bit.
func (b *Builder) SetRead2(v bool) *Builder { return b.setFlag(Read2, v) }

// SetSecondary toggles the Secondary flag bit.
func (b *Builder) SetSecondary(v bool) *Builder { return b.setFlag(Secondary, v) }

// SetQCFail toggles the QCFail flag bit.
func (b *Builder) SetQCFail(v bool) *Builder { return b.setFlag(QCFail, v) }

// SetDuplicate toggles the Duplicate flag bit.
func (b *Builder) SetDuplicate(v bool) *Builder { return b.setFlag(Duplicate, v) }

// SetSupplementary toggles the Supplementary flag bit.
func (b *Builder) SetSupplementary(v bool) *Builder { return b.setFlag(Supplementary, v) }

// Build emits a Record from the builder's current state, validating
// it exactly as NewRecord would. The builder may be reused afterward;
// Build does not consume or reset it.
func (b *Builder) Build() (*Record, error) {
	r, err := NewRecord(b.name, b.ref, b.mateRef, b.pos, b.matePos, b.tempLen, b.mapQ, b.cigar, b.seq, b.qual, nil)
	if err != nil {
		return nil, err
	}
	r.Flags = b.flags
	if b.tags.Len() > 0 {
		if err := r.SetTags(b.tags); err != nil {
			return nil, err
		}
	}
	return r, nil
}
