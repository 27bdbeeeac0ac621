// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "fmt"

// clipWalk walks cigar and returns the CIGAR operations surviving a
// clip to the query interval [qStart, qEnd) (byte-for-byte the SEQ
// index range, since H ops never consume query and so never
// contribute to SEQ offsets), splitting an operation straddling a
// boundary and dropping one entirely outside it, plus refDelta, the
// number of reference positions consumed strictly before qStart (spec
// §4.8, "Clip to query").
func clipWalk(cigar Cigar, qStart, qEnd int) (newCigar Cigar, refDelta int) {
	qpos, refpos := 0, 0
	refDelta = -1
	for _, co := range cigar {
		con := co.Type().Consumes()
		length := co.Len()
		qSpan := con.Query * length
		rSpan := con.Reference * length
		switch {
		case qSpan > 0 && rSpan > 0: // M, =, X: 1:1 query/reference consumption
			lo, hi := qpos, qpos+qSpan
			if lo < qStart {
				lo = qStart
			}
			if hi > qEnd {
				hi = qEnd
			}
			if hi > lo {
				if refDelta == -1 {
					refDelta = refpos + (lo - qpos)
				}
				newCigar = append(newCigar, NewCigarOp(co.Type(), hi-lo))
			}
		case qSpan > 0: // I, S: query-only
			lo, hi := qpos, qpos+qSpan
			if lo < qStart {
				lo = qStart
			}
			if hi > qEnd {
				hi = qEnd
			}
			if hi > lo {
				if refDelta == -1 {
					refDelta = refpos
				}
				newCigar = append(newCigar, NewCigarOp(co.Type(), hi-lo))
			}
		case rSpan > 0: // D, N: reference-only, kept only if strictly interior
			if qpos > qStart && qpos < qEnd {
				if refDelta == -1 {
					refDelta = refpos
				}
				newCigar = append(newCigar, co)
			}
		default: // H, P: zero-width, kept only if strictly interior
			if qpos > qStart && qpos < qEnd {
				newCigar = append(newCigar, co)
			}
		}
		qpos += qSpan
		refpos += rSpan
	}
	if refDelta == -1 {
		refDelta = refpos
	}
	return newCigar, refDelta
}

// referenceToQueryRange translates a reference interval [tStart, tEnd)
// into the query (SEQ-index) interval it covers, walking cigar from
// the record's mapped pos. D/N operations are skipped on the
// reference axis. I/S operations inside the interval are kept on the
// query axis; those on the clip boundary are kept only when
// exciseFlankingInserts is false, and all others are skipped
// (spec §4.8, "Clip to reference").
func referenceToQueryRange(cigar Cigar, pos, tStart, tEnd int, exciseFlankingInserts bool) (qStart, qEnd int) {
	qpos, refpos := 0, pos
	qStart, qEnd = -1, -1
	for _, co := range cigar {
		con := co.Type().Consumes()
		length := co.Len()
		qSpan := con.Query * length
		rSpan := con.Reference * length
		switch {
		case rSpan > 0 && qSpan > 0: // M, =, X
			lo, hi := refpos, refpos+rSpan
			if lo < tStart {
				lo = tStart
			}
			if hi > tEnd {
				hi = tEnd
			}
			if hi > lo {
				if qStart == -1 {
					qStart = qpos + (lo - refpos)
				}
				qEnd = qpos + (hi - refpos)
			}
		case qSpan > 0: // I, S
			interior := refpos > tStart && refpos < tEnd
			onBoundary := refpos == tStart || refpos == tEnd
			if interior || (onBoundary && !exciseFlankingInserts) {
				if qStart == -1 {
					qStart = qpos
				}
				qEnd = qpos + qSpan
			}
		}
		qpos += qSpan
		refpos += rSpan
	}
	if qStart == -1 {
		return 0, 0
	}
	return qStart, qEnd
}

// sliceArrayTagValue returns the [from, to) sub-range of v's array
// payload, or ok == false if v does not hold an array variant.
func sliceArrayTagValue(v TagValue, from, to int) (out TagValue, ok bool, err error) {
	switch v.Kind() {
	case KindInt8Array:
		a, _ := v.ToInt8Array()
		if from < 0 || to > len(a) {
			return TagValue{}, false, fmt.Errorf("%w: tag array shorter than clip range", ErrInvariantViolated)
		}
		return NewInt8ArrayTag(append([]int8(nil), a[from:to]...)), true, nil
	case KindUint8Array:
		a, _ := v.ToUint8Array()
		if from < 0 || to > len(a) {
			return TagValue{}, false, fmt.Errorf("%w: tag array shorter than clip range", ErrInvariantViolated)
		}
		return NewUint8ArrayTag(append([]uint8(nil), a[from:to]...)), true, nil
	case KindInt16Array:
		a, _ := v.ToInt16Array()
		if from < 0 || to > len(a) {
			return TagValue{}, false, fmt.Errorf("%w: tag array shorter than clip range", ErrInvariantViolated)
		}
		return NewInt16ArrayTag(append([]int16(nil), a[from:to]...)), true, nil
	case KindUint16Array:
		a, _ := v.ToUint16Array()
		if from < 0 || to > len(a) {
			return TagValue{}, false, fmt.Errorf("%w: tag array shorter than clip range", ErrInvariantViolated)
		}
		return NewUint16ArrayTag(append([]uint16(nil), a[from:to]...)), true, nil
	case KindInt32Array:
		a, _ := v.ToInt32Array()
		if from < 0 || to > len(a) {
			return TagValue{}, false, fmt.Errorf("%w: tag array shorter than clip range", ErrInvariantViolated)
		}
		return NewInt32ArrayTag(append([]int32(nil), a[from:to]...)), true, nil
	case KindUint32Array:
		a, _ := v.ToUint32Array()
		if from < 0 || to > len(a) {
			return TagValue{}, false, fmt.Errorf("%w: tag array shorter than clip range", ErrInvariantViolated)
		}
		return NewUint32ArrayTag(append([]uint32(nil), a[from:to]...)), true, nil
	case KindFloat32Array:
		a, _ := v.ToFloat32Array()
		if from < 0 || to > len(a) {
			return TagValue{}, false, fmt.Errorf("%w: tag array shorter than clip range", ErrInvariantViolated)
		}
		return NewFloat32ArrayTag(append([]float32(nil), a[from:to]...)), true, nil
	case KindString:
		s, _ := v.ToString()
		if from < 0 || to > len(s) {
			return TagValue{}, false, fmt.Errorf("%w: tag array shorter than clip range", ErrInvariantViolated)
		}
		return NewStringTag(s[from:to], v.Modifier() == HexString), true, nil
	}
	return TagValue{}, false, nil
}

// clipTagCollection re-packs every recognized PacBio per-base and
// per-pulse tag in tags to the base range [seqFrom, seqEnd): per-base
// tags are substringed directly; per-pulse tags are re-indexed through
// a cache built from the *original* (pre-clip) "pc" tag, per spec
// §4.8's "taken over the original, not the clipped record" rule. Tags
// outside the PacBio inventory, and inventory tags that are not indexed
// by base or pulse (RG, bc, sn, and scalars such as zm, mq, np), pass
// through untouched.
func clipTagCollection(tags *TagCollection, seqFrom, seqEnd int) error {
	var cache *PulseToBaseCache
	var pulseFrom, pulseTo int
	if v, ok := tags.Get(pulseCallWire); ok {
		var pc []byte
		switch v.Kind() {
		case KindUint8Array:
			a, _ := v.ToUint8Array()
			pc = a
		case KindString:
			s, _ := v.ToString()
			pc = []byte(s)
		default:
			return fmt.Errorf("%w: pulse call tag is not a byte array", ErrInvariantViolated)
		}
		c, err := NewPulseToBaseCache(pc)
		if err != nil {
			return err
		}
		cache = c
		pulseFrom = c.BaseToPulse(seqFrom)
		pulseTo = c.BaseToPulse(seqEnd)
	}

	for _, t := range pacbioTags {
		switch t.label {
		case LabelReadGroup, LabelBarcode, LabelSignalToNoise:
			continue
		}
		v, ok := tags.Get(t.wire)
		if !ok {
			continue
		}
		var nv TagValue
		var kept bool
		var err error
		if t.pulse {
			if cache == nil {
				continue
			}
			nv, kept, err = sliceArrayTagValue(v, pulseFrom, pulseTo)
		} else {
			nv, kept, err = sliceArrayTagValue(v, seqFrom, seqEnd)
		}
		if err != nil {
			return fmt.Errorf("clipping tag %s: %w", t.wire, err)
		}
		if kept {
			tags.Set(t.wire, nv)
		}
	}
	return nil
}

// clipToQueryRange is the shared implementation of ClipToQuery and
// ClipToReference: both resolve to a query (SEQ-index) interval and
// then repack CIGAR, sequence, quality and tags identically.
func (r *Record) clipToQueryRange(qStart, qEnd int) error {
	total := r.Seq().Length
	if qStart < 0 {
		qStart = 0
	}
	if qEnd > total {
		qEnd = total
	}
	if qStart > qEnd {
		qStart = qEnd
	}

	cigar := r.Cigar()
	newCigar, refDelta := clipWalk(cigar, qStart, qEnd)

	newSeq := NewSeq(r.Seq().Expand()[qStart:qEnd])
	newQual := append([]byte(nil), r.Qual()[qStart:qEnd]...)

	tags, err := r.Tags()
	if err != nil {
		return err
	}
	if err := clipTagCollection(tags, qStart, qEnd); err != nil {
		return err
	}

	origQs, _, hasQ := r.QueryBounds()
	newQs, newQe := qStart, qEnd
	if hasQ {
		newQs, newQe = origQs+qStart, origQs+qEnd
	}
	qsVal, err := NewIntTag(int64(newQs))
	if err != nil {
		return err
	}
	qeVal, err := NewIntTag(int64(newQe))
	if err != nil {
		return err
	}
	tags.Set(Tag{'q', 's'}, qsVal)
	tags.Set(Tag{'q', 'e'}, qeVal)

	if r.Flags&Unmapped == 0 && len(cigar) > 0 {
		r.Pos += refDelta
	}

	if err := r.SetCigar(newCigar); err != nil {
		return err
	}
	if err := r.SetSeq(newSeq); err != nil {
		return err
	}
	if err := r.SetQual(newQual); err != nil {
		return err
	}
	return r.SetTags(tags)
}

// ClipToQuery clips r in place to the query (read) interval
// [qStart, qEnd), re-packing the CIGAR, sequence, quality and PacBio
// tag block to match (spec §4.8). Clipping to a range that fully
// covers the record's current query span is a no-op; clipping to an
// empty range yields a zero-length record with its header/read-group
// tags left intact.
func (r *Record) ClipToQuery(qStart, qEnd int) error {
	if qStart < 0 || qEnd < qStart {
		return fmt.Errorf("%w: invalid query clip interval [%d,%d)", ErrInvalidValue, qStart, qEnd)
	}
	return r.clipToQueryRange(qStart, qEnd)
}

// ClipToReference clips r in place to the reference interval
// [tStart, tEnd), translating it to a query interval by walking the
// CIGAR and then applying the same repacking as ClipToQuery. r must
// be mapped. exciseFlankingInserts controls whether an I operation
// sitting exactly on the clip boundary is removed (true) or retained
// (false); the new mapped position is set to the reference coordinate
// of the first retained reference-consuming operation (spec §4.8).
func (r *Record) ClipToReference(tStart, tEnd int, exciseFlankingInserts bool) error {
	if r.Flags&Unmapped != 0 || r.Ref == nil {
		return fmt.Errorf("%w: cannot clip an unmapped record to reference coordinates", ErrIncompatibleRequest)
	}
	if tEnd < tStart {
		return fmt.Errorf("%w: invalid reference clip interval [%d,%d)", ErrInvalidValue, tStart, tEnd)
	}
	qStart, qEnd := referenceToQueryRange(r.Cigar(), r.Pos, tStart, tEnd, exciseFlankingInserts)
	return r.clipToQueryRange(qStart, qEnd)
}
