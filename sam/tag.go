// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "fmt"

// TagKind identifies the variant held by a TagValue.
type TagKind byte

const (
	KindNone TagKind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindFloat32
	KindString
	KindInt8Array
	KindUint8Array
	KindInt16Array
	KindUint16Array
	KindInt32Array
	KindUint32Array
	KindFloat32Array
)

// TagValue is a tagged union over the scalar and array types an
// auxiliary tag may hold, plus an orthogonal TagModifier (spec §3,
// §4.1). The zero value is KindNone, the "blank" variant.
//
// TagValue is distinct from Tag, which names a two-character field
// identifier; a TagCollection maps field names to TagValues.
type TagValue struct {
	kind     TagKind
	modifier TagModifier

	scalar int64 // int8/uint8/int16/uint16/int32/uint32, sign/zero-extended
	f      float32
	s      string

	i8  []int8
	u8  []uint8
	i16 []int16
	u16 []uint16
	i32 []int32
	u32 []uint32
	f32 []float32
}

// Kind returns the variant held by v.
func (v TagValue) Kind() TagKind { return v.kind }

// Modifier returns the display/semantic modifier attached to v.
func (v TagValue) Modifier() TagModifier { return v.modifier }

// NewIntTag returns a TagValue holding the narrowest signed-integer
// variant able to represent n, or an error if n exceeds int32.
func NewIntTag(n int64) (TagValue, error) {
	switch {
	case minInt8 <= n && n <= maxInt8:
		return TagValue{kind: KindInt8, scalar: n}, nil
	case minInt16 <= n && n <= maxInt16:
		return TagValue{kind: KindInt16, scalar: n}, nil
	case minInt32v <= n && n <= maxInt32v:
		return TagValue{kind: KindInt32, scalar: n}, nil
	}
	return TagValue{}, fmt.Errorf("%w: integer %d out of int32 range", ErrInvalidValue, n)
}

// NewUintTag returns a TagValue holding the narrowest unsigned-integer
// variant able to represent n, or an error if n exceeds uint32.
func NewUintTag(n uint64) (TagValue, error) {
	switch {
	case n <= maxUint8:
		return TagValue{kind: KindUint8, scalar: int64(n)}, nil
	case n <= maxUint16:
		return TagValue{kind: KindUint16, scalar: int64(n)}, nil
	case n <= maxUint32:
		return TagValue{kind: KindUint32, scalar: int64(n)}, nil
	}
	return TagValue{}, fmt.Errorf("%w: unsigned integer %d out of uint32 range", ErrInvalidValue, n)
}

// NewFloatTag returns a TagValue holding a float32 variant.
func NewFloatTag(f float32) TagValue { return TagValue{kind: KindFloat32, f: f} }

// NewStringTag returns a TagValue holding a string variant. If hex is
// true the value is marked HexString (spec §3's "H" type).
func NewStringTag(s string, hex bool) TagValue {
	v := TagValue{kind: KindString, s: s}
	if hex {
		v.modifier = HexString
	}
	return v
}

// NewAsciiTag returns a TagValue holding an integer variant marked
// ASCIIChar, valid only when c is in the printable range [33, 126]
// (spec §4.1, "ASCII marker").
func NewAsciiTag(c byte) (TagValue, error) {
	if c < 33 || c > 126 {
		return TagValue{}, fmt.Errorf("%w: ascii tag value %d outside [33,126]", ErrInvalidValue, c)
	}
	return TagValue{kind: KindUint8, scalar: int64(c), modifier: ASCIIChar}, nil
}

func NewInt8ArrayTag(a []int8) TagValue       { return TagValue{kind: KindInt8Array, i8: a} }
func NewUint8ArrayTag(a []uint8) TagValue     { return TagValue{kind: KindUint8Array, u8: a} }
func NewInt16ArrayTag(a []int16) TagValue     { return TagValue{kind: KindInt16Array, i16: a} }
func NewUint16ArrayTag(a []uint16) TagValue   { return TagValue{kind: KindUint16Array, u16: a} }
func NewInt32ArrayTag(a []int32) TagValue     { return TagValue{kind: KindInt32Array, i32: a} }
func NewUint32ArrayTag(a []uint32) TagValue   { return TagValue{kind: KindUint32Array, u32: a} }
func NewFloat32ArrayTag(a []float32) TagValue { return TagValue{kind: KindFloat32Array, f32: a} }

const (
	minInt8   = -1 << 7
	maxInt8   = 1<<7 - 1
	maxUint8  = 1<<8 - 1
	minInt16  = -1 << 15
	maxInt16  = 1<<15 - 1
	maxUint16 = 1<<16 - 1
	minInt32v = -1 << 31
	maxInt32v = 1<<31 - 1
	maxUint32 = 1<<32 - 1
)

func (v TagValue) isInteger() bool {
	switch v.kind {
	case KindInt8, KindUint8, KindInt16, KindUint16, KindInt32, KindUint32:
		return true
	}
	return false
}

// ToInt64 returns v's value as a signed 64-bit integer if v holds any
// integer variant, regardless of width (spec §4.1's coercion contract:
// "ToInt*/ToUInt* succeed on any integer variant whose value is
// representable in the target width").
func (v TagValue) ToInt64() (int64, error) {
	if !v.isInteger() {
		return 0, fmt.Errorf("%w: tag kind %v is not an integer", ErrInvalidValue, v.kind)
	}
	return v.scalar, nil
}

// ToInt32 returns v's value narrowed to int32, failing if it overflows.
func (v TagValue) ToInt32() (int32, error) {
	n, err := v.ToInt64()
	if err != nil {
		return 0, err
	}
	if n < minInt32v || n > maxInt32v {
		return 0, fmt.Errorf("%w: value %d does not fit int32", ErrInvalidValue, n)
	}
	return int32(n), nil
}

// ToUint32 returns v's value narrowed to uint32, failing if it
// overflows or is negative.
func (v TagValue) ToUint32() (uint32, error) {
	n, err := v.ToInt64()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxUint32 {
		return 0, fmt.Errorf("%w: value %d does not fit uint32", ErrInvalidValue, n)
	}
	return uint32(n), nil
}

// ToFloat32 returns v's value, succeeding only on an exact Float32 match.
func (v TagValue) ToFloat32() (float32, error) {
	if v.kind != KindFloat32 {
		return 0, fmt.Errorf("%w: tag kind %v is not float32", ErrInvalidValue, v.kind)
	}
	return v.f, nil
}

// ToString returns v's value, succeeding only on an exact String match.
func (v TagValue) ToString() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("%w: tag kind %v is not string", ErrInvalidValue, v.kind)
	}
	return v.s, nil
}

// ToAscii returns v's value as a byte, succeeding on any integer
// variant whose value lies in [33, 126] (spec §4.1).
func (v TagValue) ToAscii() (byte, error) {
	n, err := v.ToInt64()
	if err != nil {
		return 0, err
	}
	if n < 33 || n > 126 {
		return 0, fmt.Errorf("%w: value %d outside ascii printable range", ErrInvalidValue, n)
	}
	return byte(n), nil
}

func (v TagValue) ToInt8Array() ([]int8, error) {
	if v.kind != KindInt8Array {
		return nil, fmt.Errorf("%w: tag kind %v is not int8 array", ErrInvalidValue, v.kind)
	}
	return v.i8, nil
}

func (v TagValue) ToUint8Array() ([]uint8, error) {
	if v.kind != KindUint8Array {
		return nil, fmt.Errorf("%w: tag kind %v is not uint8 array", ErrInvalidValue, v.kind)
	}
	return v.u8, nil
}

func (v TagValue) ToInt16Array() ([]int16, error) {
	if v.kind != KindInt16Array {
		return nil, fmt.Errorf("%w: tag kind %v is not int16 array", ErrInvalidValue, v.kind)
	}
	return v.i16, nil
}

func (v TagValue) ToUint16Array() ([]uint16, error) {
	if v.kind != KindUint16Array {
		return nil, fmt.Errorf("%w: tag kind %v is not uint16 array", ErrInvalidValue, v.kind)
	}
	return v.u16, nil
}

func (v TagValue) ToInt32Array() ([]int32, error) {
	if v.kind != KindInt32Array {
		return nil, fmt.Errorf("%w: tag kind %v is not int32 array", ErrInvalidValue, v.kind)
	}
	return v.i32, nil
}

func (v TagValue) ToUint32Array() ([]uint32, error) {
	if v.kind != KindUint32Array {
		return nil, fmt.Errorf("%w: tag kind %v is not uint32 array", ErrInvalidValue, v.kind)
	}
	return v.u32, nil
}

func (v TagValue) ToFloat32Array() ([]float32, error) {
	if v.kind != KindFloat32Array {
		return nil, fmt.Errorf("%w: tag kind %v is not float32 array", ErrInvalidValue, v.kind)
	}
	return v.f32, nil
}

// WithModifier returns a copy of v with its modifier set to m,
// validated against spec §3's invariant: ASCIIChar only over integer
// variants in [33,126], HexString only over the string variant.
func (v TagValue) WithModifier(m TagModifier) (TagValue, error) {
	switch m {
	case NoModifier:
	case ASCIIChar:
		if _, err := v.ToAscii(); err != nil {
			return TagValue{}, err
		}
	case HexString:
		if v.kind != KindString {
			return TagValue{}, fmt.Errorf("%w: hex string modifier requires string variant", ErrInvalidValue)
		}
	default:
		return TagValue{}, fmt.Errorf("%w: unknown tag modifier %v", ErrUnsupportedFeature, m)
	}
	v.modifier = m
	return v, nil
}

// Equal reports whether v and o are structurally equal, including
// modifier (spec §3, "Equality is structural, including modifier").
func (v TagValue) Equal(o TagValue) bool {
	if v.kind != o.kind || v.modifier != o.modifier {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindFloat32:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindInt8Array:
		return equalInt8(v.i8, o.i8)
	case KindUint8Array:
		return equalUint8(v.u8, o.u8)
	case KindInt16Array:
		return equalInt16(v.i16, o.i16)
	case KindUint16Array:
		return equalUint16(v.u16, o.u16)
	case KindInt32Array:
		return equalInt32(v.i32, o.i32)
	case KindUint32Array:
		return equalUint32(v.u32, o.u32)
	case KindFloat32Array:
		return equalFloat32(v.f32, o.f32)
	default:
		return v.scalar == o.scalar
	}
}

func equalInt8(a, b []int8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalUint8(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInt16(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalUint16(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInt32(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalUint32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFloat32(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String returns a human-readable form of v, mirroring Aux.String's
// treatment of the 'A', 'H' and 'B' wire kinds.
func (v TagValue) String() string {
	switch v.kind {
	case KindNone:
		return "<none>"
	case KindFloat32:
		return fmt.Sprintf("%v", v.f)
	case KindString:
		if v.modifier == HexString {
			return fmt.Sprintf("%x", v.s)
		}
		return v.s
	case KindInt8Array:
		return fmt.Sprintf("%v", v.i8)
	case KindUint8Array:
		return fmt.Sprintf("%v", v.u8)
	case KindInt16Array:
		return fmt.Sprintf("%v", v.i16)
	case KindUint16Array:
		return fmt.Sprintf("%v", v.u16)
	case KindInt32Array:
		return fmt.Sprintf("%v", v.i32)
	case KindUint32Array:
		return fmt.Sprintf("%v", v.u32)
	case KindFloat32Array:
		return fmt.Sprintf("%v", v.f32)
	default:
		if v.modifier == ASCIIChar {
			return fmt.Sprintf("%c", byte(v.scalar))
		}
		return fmt.Sprintf("%d", v.scalar)
	}
}
