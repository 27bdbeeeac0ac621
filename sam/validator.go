// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"fmt"

	"github.com/kortschak/utter"

	"github.com/PacificBiosciences/pbbam-sub000/chemistry"
)

// ValidationError is a single rule violation discovered by a
// Validator, bucketed by the file, read group and record name it was
// found in (spec §4.10, "Errors are indexed by {file, readGroup,
// record-name} buckets").
type ValidationError struct {
	File      string
	ReadGroup string
	Record    string
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: rg=%q record=%q: %v", e.File, e.ReadGroup, e.Record, e.Err)
}

// Unwrap returns the underlying rule-specific sentinel-wrapped error.
func (e *ValidationError) Unwrap() error { return e.Err }

// validationFailure is the concrete error value returned once an
// Accumulator's threshold is reached or it is asked to report at
// completion; it wraps ErrValidationFailed and carries every
// ValidationError collected.
type validationFailure struct {
	file string
	errs []*ValidationError
}

func (f *validationFailure) Error() string {
	return fmt.Sprintf("sam: validation failed: %d error(s) in %s", len(f.errs), f.file)
}

func (f *validationFailure) Unwrap() error { return ErrValidationFailed }

// Errors returns every violation carried by f.
func (f *validationFailure) Errors() []*ValidationError { return f.errs }

// Dump returns a field-by-field pretty-printed rendering of every
// violation f carries, for diagnostic logging (spec's SUPPLEMENTED
// FEATURES item 5; grounded on cram_test.go's utter.Sdump usage).
func (f *validationFailure) Dump() string {
	return utter.Sdump(f.errs)
}

// Accumulator collects ValidationErrors from one or more Validator
// calls, up to a bounded threshold, rather than stopping at the first
// violation (spec §4.10). MaxErrors <= 0 means unlimited.
type Accumulator struct {
	File      string
	MaxErrors int
	errs      []*ValidationError
}

// NewAccumulator returns an Accumulator bucketing violations under
// file, raising *validation failed* once maxErrors violations have
// been collected. maxErrors <= 0 means unlimited.
func NewAccumulator(file string, maxErrors int) *Accumulator {
	return &Accumulator{File: file, MaxErrors: maxErrors}
}

// Add records a violation under the given read-group/record bucket.
// It returns nil unless MaxErrors has just been reached, in which case
// it returns a *validationFailure wrapping every violation collected
// so far; callers must stop validating and propagate that return value.
func (a *Accumulator) Add(readGroup, record string, err error) error {
	if err == nil {
		return nil
	}
	a.errs = append(a.errs, &ValidationError{File: a.File, ReadGroup: readGroup, Record: record, Err: err})
	if a.MaxErrors > 0 && len(a.errs) >= a.MaxErrors {
		return a.Err()
	}
	return nil
}

// Len returns the number of violations collected so far.
func (a *Accumulator) Len() int { return len(a.errs) }

// Errors returns every violation collected so far.
func (a *Accumulator) Errors() []*ValidationError { return a.errs }

// Err returns nil if no violations have been collected, or a
// *validationFailure wrapping all of them otherwise (spec §4.10,
// "raised ... at explicit completion").
func (a *Accumulator) Err() error {
	if len(a.errs) == 0 {
		return nil
	}
	return &validationFailure{file: a.File, errs: append([]*ValidationError(nil), a.errs...)}
}

// Validator runs the single-pass rule checks of spec §4.10 against a
// header, read group or record, reporting every violation it finds
// through its Accumulator instead of stopping at the first one.
type Validator struct {
	Chemistry chemistry.Table
	acc       *Accumulator
}

// NewValidator returns a Validator reporting into a fresh Accumulator
// for file, using the chemistry table selected by chemistry.FromEnv
// (the environment override if configured, the built-in table
// otherwise).
func NewValidator(file string, maxErrors int) (*Validator, error) {
	t, err := chemistry.FromEnv()
	if err != nil {
		return nil, err
	}
	return &Validator{Chemistry: t, acc: NewAccumulator(file, maxErrors)}, nil
}

// Accumulator returns v's underlying error accumulator.
func (v *Validator) Accumulator() *Accumulator { return v.acc }

// ValidateHeader checks h's SAM/PacBio version and sort order, and
// every read group's ID derivation, per spec §4.10's header rules.
func (v *Validator) ValidateHeader(h *Header) error {
	if _, err := ParseVersion(h.Version); err != nil {
		if e := v.acc.Add("", "", fmt.Errorf("header VN: %w", err)); e != nil {
			return e
		}
	}
	switch h.SortOrder {
	case UnknownOrder, Unsorted, QueryName, Coordinate:
	default:
		if e := v.acc.Add("", "", fmt.Errorf("%w: unknown header sort order %d", ErrInvalidValue, h.SortOrder)); e != nil {
			return e
		}
	}
	if h.PBVersion == nil {
		if e := v.acc.Add("", "", fmt.Errorf("%w: header missing pb version tag", ErrUnsupportedFeature)); e != nil {
			return e
		}
	} else if err := ValidatePacBioVersion(*h.PBVersion); err != nil {
		if e := v.acc.Add("", "", err); e != nil {
			return e
		}
	}
	for _, rg := range h.RGs() {
		if err := rg.ValidateID(); err != nil {
			if e := v.acc.Add(rg.Name(), "", err); e != nil {
				return e
			}
		}
	}
	return v.acc.Err()
}

// ValidateReadGroup checks rg's required fields, chemistry triple and
// ID derivation, per spec §4.10's read-group rules.
func (v *Validator) ValidateReadGroup(rg *ReadGroup) error {
	add := func(err error) error {
		if err == nil {
			return nil
		}
		return v.acc.Add(rg.Name(), "", err)
	}
	required := []struct {
		field string
		empty bool
	}{
		{"ID", rg.Name() == ""},
		{"movie name", rg.MovieName() == ""},
		{"binding kit", rg.BindingKit() == ""},
		{"sequencing kit", rg.SequencingKit() == ""},
		{"basecaller version", rg.BasecallerVersion() == ""},
	}
	for _, f := range required {
		if f.empty {
			if e := add(fmt.Errorf("%w: read group %s is required", ErrInvalidValue, f.field)); e != nil {
				return e
			}
		}
	}
	if rg.ReadType() == UnknownType {
		if e := add(fmt.Errorf("%w: read group read type is unknown", ErrInvalidValue)); e != nil {
			return e
		}
	}
	if rg.FrameRateHz() == 0 {
		if e := add(fmt.Errorf("%w: read group frame rate is zero", ErrInvalidValue)); e != nil {
			return e
		}
	}
	if _, err := v.Chemistry.Lookup(rg.BindingKit(), rg.SequencingKit(), rg.BasecallerVersion()); err != nil {
		if e := add(fmt.Errorf("%w: %v", ErrInvalidValue, err)); e != nil {
			return e
		}
	}
	if err := rg.ValidateID(); err != nil {
		if e := add(err); e != nil {
			return e
		}
	}
	return v.acc.Err()
}

// tagValueLen returns the element count of v's array-like payload
// (including the string variant, read as a byte array), and whether v
// holds such a payload at all.
func tagValueLen(v TagValue) (int, bool) {
	switch v.Kind() {
	case KindInt8Array:
		a, _ := v.ToInt8Array()
		return len(a), true
	case KindUint8Array:
		a, _ := v.ToUint8Array()
		return len(a), true
	case KindInt16Array:
		a, _ := v.ToInt16Array()
		return len(a), true
	case KindUint16Array:
		a, _ := v.ToUint16Array()
		return len(a), true
	case KindInt32Array:
		a, _ := v.ToInt32Array()
		return len(a), true
	case KindUint32Array:
		a, _ := v.ToUint32Array()
		return len(a), true
	case KindFloat32Array:
		a, _ := v.ToFloat32Array()
		return len(a), true
	case KindString:
		s, _ := v.ToString()
		return len(s), true
	}
	return 0, false
}

// readGroupOf looks up r's read-group name and, if h knows that read
// group, its PacBio read type.
func readGroupOf(r *Record, h *Header) (name string, readType RecordType) {
	a, ok := r.Tag([]byte("RG"))
	if !ok {
		return "", UnknownType
	}
	name, _ = a.Value().(string)
	for _, rg := range h.RGs() {
		if rg.Name() == name {
			return name, rg.ReadType()
		}
	}
	return name, UnknownType
}

// ValidateRecord checks r's tag-length invariants, mapped/unmapped
// consistency, qs/qe ordering and (for SUBREAD records) np, per spec
// §4.10's record rules and §3's record invariants. h supplies the read
// group r's RG tag refers to, used to determine its PacBio read type.
func (v *Validator) ValidateRecord(r *Record, h *Header) error {
	name := r.Name()
	rgName, readType := readGroupOf(r, h)
	add := func(err error) error {
		if err == nil {
			return nil
		}
		return v.acc.Add(rgName, name, err)
	}

	tags, err := r.Tags()
	if err != nil {
		if e := add(err); e != nil {
			return e
		}
		return v.acc.Err()
	}

	seqLen := r.Seq().Length
	pcLen, hasPC := 0, false
	if pc, ok := tags.Get(pulseCallWire); ok {
		pcLen, hasPC = tagValueLen(pc)
	}

	for _, t := range pacbioTags {
		switch t.label {
		case LabelReadGroup, LabelBarcode, LabelSignalToNoise:
			continue
		}
		val, ok := tags.Get(t.wire)
		if !ok {
			continue
		}
		n, isArray := tagValueLen(val)
		if !isArray {
			continue
		}
		if t.pulse {
			if !hasPC || n == pcLen {
				continue
			}
			if e := add(fmt.Errorf("%w: per-pulse tag %s length %d does not match pc length %d", ErrInvariantViolated, t.wire, n, pcLen)); e != nil {
				return e
			}
		} else if n != seqLen {
			if e := add(fmt.Errorf("%w: per-base tag %s length %d does not match sequence length %d", ErrInvariantViolated, t.wire, n, seqLen)); e != nil {
				return e
			}
		}
	}

	mapped := r.Flags&Unmapped == 0
	switch {
	case mapped && (r.Ref == nil || r.Pos < 0):
		if e := add(fmt.Errorf("%w: mapped record has no reference or a negative position", ErrInvariantViolated)); e != nil {
			return e
		}
	case !mapped && (r.Ref != nil || r.Pos >= 0):
		if e := add(fmt.Errorf("%w: unmapped record carries a reference or a non-negative position", ErrInvariantViolated)); e != nil {
			return e
		}
	}

	if readType != Ccs && readType != Transcript {
		qs, qe, ok := r.QueryBounds()
		switch {
		case !ok:
			if e := add(fmt.Errorf("%w: record missing qs/qe", ErrNotFound)); e != nil {
				return e
			}
		case qs > qe:
			if e := add(fmt.Errorf("%w: record qs %d exceeds qe %d", ErrInvariantViolated, qs, qe)); e != nil {
				return e
			}
		}
	}

	if readType == Subread {
		npVal, _, err := r.tagValue(LabelNumPasses)
		switch {
		case err != nil:
			if e := add(fmt.Errorf("%w: subread record missing np tag", ErrNotFound)); e != nil {
				return e
			}
		default:
			if n, err := npVal.ToInt64(); err != nil || n != 1 {
				if e := add(fmt.Errorf("%w: subread record np = %d, want 1", ErrInvariantViolated, n)); e != nil {
					return e
				}
			}
		}
	}

	return v.acc.Err()
}
