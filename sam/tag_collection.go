// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// TagCollection is a mapping from a two-character tag name to a
// TagValue (spec §3). Insertion order is irrelevant on read; write
// order is canonical (sorted by name) for idempotence (spec §4.2).
type TagCollection struct {
	names  []Tag
	values []TagValue

	// index maps a tag name, packed as uint16(name[0])<<8|name[1], to
	// its position in names/values. Built lazily after decode or
	// mutation (spec §4.2, "Lazy offset index").
	index map[uint16]int
}

func packName(t Tag) uint16 { return uint16(t[0])<<8 | uint16(t[1]) }

func (c *TagCollection) ensureIndex() {
	if c.index != nil {
		return
	}
	c.index = make(map[uint16]int, len(c.names))
	for i, n := range c.names {
		c.index[packName(n)] = i
	}
}

// Get returns the TagValue stored under name and true, or the zero
// TagValue and false if name is absent.
func (c *TagCollection) Get(name Tag) (TagValue, bool) {
	c.ensureIndex()
	i, ok := c.index[packName(name)]
	if !ok {
		return TagValue{}, false
	}
	return c.values[i], true
}

// Set stores v under name, overwriting any existing value.
func (c *TagCollection) Set(name Tag, v TagValue) {
	c.ensureIndex()
	if i, ok := c.index[packName(name)]; ok {
		c.values[i] = v
		return
	}
	c.index[packName(name)] = len(c.names)
	c.names = append(c.names, name)
	c.values = append(c.values, v)
}

// Delete removes the value stored under name, if present.
func (c *TagCollection) Delete(name Tag) {
	c.ensureIndex()
	i, ok := c.index[packName(name)]
	if !ok {
		return
	}
	c.names = append(c.names[:i], c.names[i+1:]...)
	c.values = append(c.values[:i], c.values[i+1:]...)
	c.index = nil // positions shifted; rebuild lazily.
}

// Len returns the number of tags held by c.
func (c *TagCollection) Len() int { return len(c.names) }

// Names returns the tag names held by c in their canonical (sorted)
// write order.
func (c *TagCollection) Names() []Tag {
	out := append([]Tag(nil), c.names...)
	slices.SortFunc(out, func(a, b Tag) bool {
		return a[0] < b[0] || (a[0] == b[0] && a[1] < b[1])
	})
	return out
}

var wireKindChar = map[TagKind]byte{
	KindInt8:         'c',
	KindUint8:        'C',
	KindInt16:        's',
	KindUint16:       'S',
	KindInt32:        'i',
	KindUint32:       'I',
	KindFloat32:      'f',
	KindString:       'Z',
	KindInt8Array:    'c',
	KindUint8Array:   'C',
	KindInt16Array:   's',
	KindUint16Array:  'S',
	KindInt32Array:   'i',
	KindUint32Array:  'I',
	KindFloat32Array: 'f',
}

// encodeOne appends the payload (no name/type prefix) for v to buf,
// per spec §4.2's "Single-tag helpers".
func encodeOne(buf []byte, v TagValue) ([]byte, error) {
	switch v.kind {
	case KindInt8, KindUint8:
		if v.modifier == ASCIIChar {
			return append(buf, byte(v.scalar)), nil
		}
		return append(buf, byte(v.scalar)), nil
	case KindInt16, KindUint16:
		return appendUint16(buf, uint16(v.scalar)), nil
	case KindInt32, KindUint32:
		return appendUint32(buf, uint32(v.scalar)), nil
	case KindFloat32:
		return appendUint32(buf, float32bits(v.f)), nil
	case KindString:
		if v.modifier == HexString {
			return append(append(buf, []byte(v.s)...), 0), nil
		}
		return append(append(buf, []byte(v.s)...), 0), nil
	case KindInt8Array:
		buf = append(buf, 'c')
		buf = appendUint32(buf, uint32(len(v.i8)))
		for _, e := range v.i8 {
			buf = append(buf, byte(e))
		}
		return buf, nil
	case KindUint8Array:
		buf = append(buf, 'C')
		buf = appendUint32(buf, uint32(len(v.u8)))
		return append(buf, v.u8...), nil
	case KindInt16Array:
		buf = append(buf, 's')
		buf = appendUint32(buf, uint32(len(v.i16)))
		for _, e := range v.i16 {
			buf = appendUint16(buf, uint16(e))
		}
		return buf, nil
	case KindUint16Array:
		buf = append(buf, 'S')
		buf = appendUint32(buf, uint32(len(v.u16)))
		for _, e := range v.u16 {
			buf = appendUint16(buf, e)
		}
		return buf, nil
	case KindInt32Array:
		buf = append(buf, 'i')
		buf = appendUint32(buf, uint32(len(v.i32)))
		for _, e := range v.i32 {
			buf = appendUint32(buf, uint32(e))
		}
		return buf, nil
	case KindUint32Array:
		buf = append(buf, 'I')
		buf = appendUint32(buf, uint32(len(v.u32)))
		for _, e := range v.u32 {
			buf = appendUint32(buf, e)
		}
		return buf, nil
	case KindFloat32Array:
		buf = append(buf, 'f')
		buf = appendUint32(buf, uint32(len(v.f32)))
		for _, e := range v.f32 {
			buf = appendUint32(buf, float32bits(e))
		}
		return buf, nil
	}
	return nil, fmt.Errorf("%w: cannot encode tag kind %v", ErrUnsupportedFeature, v.kind)
}

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}

// EncodeBinary appends the BAM aux block encoding of c, in canonical
// sorted-name order, to buf (spec §4.2).
func (c *TagCollection) EncodeBinary(buf []byte) ([]byte, error) {
	for _, name := range c.Names() {
		v, _ := c.Get(name)
		buf = append(buf, name[0], name[1])
		if v.kind == KindInt8 || v.kind == KindUint8 {
			if v.modifier == ASCIIChar {
				buf = append(buf, 'A')
			} else if v.kind == KindInt8 {
				buf = append(buf, 'c')
			} else {
				buf = append(buf, 'C')
			}
			buf = append(buf, byte(v.scalar))
			continue
		}
		if v.kind != KindInt8Array && v.kind != KindUint8Array &&
			v.kind != KindInt16Array && v.kind != KindUint16Array &&
			v.kind != KindInt32Array && v.kind != KindUint32Array &&
			v.kind != KindFloat32Array {
			c2 := wireKindChar[v.kind]
			if v.kind == KindString && v.modifier == HexString {
				c2 = 'H'
			}
			buf = append(buf, c2)
			var err error
			buf, err = encodeOne(buf, v)
			if err != nil {
				return nil, err
			}
			continue
		}
		buf = append(buf, 'B')
		var err error
		buf, err = encodeOne(buf, v)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// DecodeTagCollection parses a BAM aux block, per spec §4.2. Unknown
// type codes abort the decode with ErrUnsupportedFeature.
func DecodeTagCollection(b []byte) (*TagCollection, error) {
	c := &TagCollection{}
	for len(b) > 0 {
		if len(b) < 3 {
			return nil, fmt.Errorf("%w: truncated tag header", ErrMalformedInput)
		}
		var name Tag
		name[0], name[1] = b[0], b[1]
		typ := b[2]
		b = b[3:]
		var (
			v   TagValue
			err error
		)
		v, b, err = decodeOne(typ, b)
		if err != nil {
			return nil, err
		}
		c.Set(name, v)
	}
	return c, nil
}

func decodeOne(typ byte, b []byte) (TagValue, []byte, error) {
	switch typ {
	case 'A':
		if len(b) < 1 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated A tag", ErrMalformedInput)
		}
		v := TagValue{kind: KindUint8, scalar: int64(b[0]), modifier: ASCIIChar}
		return v, b[1:], nil
	case 'c':
		if len(b) < 1 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated c tag", ErrMalformedInput)
		}
		return TagValue{kind: KindInt8, scalar: int64(int8(b[0]))}, b[1:], nil
	case 'C':
		if len(b) < 1 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated C tag", ErrMalformedInput)
		}
		return TagValue{kind: KindUint8, scalar: int64(b[0])}, b[1:], nil
	case 's':
		if len(b) < 2 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated s tag", ErrMalformedInput)
		}
		return TagValue{kind: KindInt16, scalar: int64(int16(binary.LittleEndian.Uint16(b)))}, b[2:], nil
	case 'S':
		if len(b) < 2 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated S tag", ErrMalformedInput)
		}
		return TagValue{kind: KindUint16, scalar: int64(binary.LittleEndian.Uint16(b))}, b[2:], nil
	case 'i':
		if len(b) < 4 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated i tag", ErrMalformedInput)
		}
		return TagValue{kind: KindInt32, scalar: int64(int32(binary.LittleEndian.Uint32(b)))}, b[4:], nil
	case 'I':
		if len(b) < 4 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated I tag", ErrMalformedInput)
		}
		return TagValue{kind: KindUint32, scalar: int64(binary.LittleEndian.Uint32(b))}, b[4:], nil
	case 'f':
		if len(b) < 4 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated f tag", ErrMalformedInput)
		}
		return TagValue{kind: KindFloat32, f: math.Float32frombits(binary.LittleEndian.Uint32(b))}, b[4:], nil
	case 'Z', 'H':
		i := 0
		for i < len(b) && b[i] != 0 {
			i++
		}
		if i == len(b) {
			return TagValue{}, nil, fmt.Errorf("%w: unterminated %c string tag", ErrMalformedInput, typ)
		}
		v := TagValue{kind: KindString, s: string(b[:i])}
		if typ == 'H' {
			v.modifier = HexString
		}
		return v, b[i+1:], nil
	case 'B':
		if len(b) < 5 {
			return TagValue{}, nil, fmt.Errorf("%w: truncated B tag header", ErrMalformedInput)
		}
		elem := b[0]
		n := binary.LittleEndian.Uint32(b[1:5])
		b = b[5:]
		return decodeArray(elem, int(n), b)
	}
	return TagValue{}, nil, fmt.Errorf("%w: unknown tag type code %q", ErrUnsupportedFeature, typ)
}

func decodeArray(elem byte, n int, b []byte) (TagValue, []byte, error) {
	switch elem {
	case 'c':
		if len(b) < n {
			return TagValue{}, nil, fmt.Errorf("%w: truncated c array", ErrMalformedInput)
		}
		a := make([]int8, n)
		for i := range a {
			a[i] = int8(b[i])
		}
		return TagValue{kind: KindInt8Array, i8: a}, b[n:], nil
	case 'C':
		if len(b) < n {
			return TagValue{}, nil, fmt.Errorf("%w: truncated C array", ErrMalformedInput)
		}
		a := make([]uint8, n)
		copy(a, b[:n])
		return TagValue{kind: KindUint8Array, u8: a}, b[n:], nil
	case 's':
		if len(b) < 2*n {
			return TagValue{}, nil, fmt.Errorf("%w: truncated s array", ErrMalformedInput)
		}
		a := make([]int16, n)
		for i := range a {
			a[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
		}
		return TagValue{kind: KindInt16Array, i16: a}, b[2*n:], nil
	case 'S':
		if len(b) < 2*n {
			return TagValue{}, nil, fmt.Errorf("%w: truncated S array", ErrMalformedInput)
		}
		a := make([]uint16, n)
		for i := range a {
			a[i] = binary.LittleEndian.Uint16(b[2*i:])
		}
		return TagValue{kind: KindUint16Array, u16: a}, b[2*n:], nil
	case 'i':
		if len(b) < 4*n {
			return TagValue{}, nil, fmt.Errorf("%w: truncated i array", ErrMalformedInput)
		}
		a := make([]int32, n)
		for i := range a {
			a[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
		}
		return TagValue{kind: KindInt32Array, i32: a}, b[4*n:], nil
	case 'I':
		if len(b) < 4*n {
			return TagValue{}, nil, fmt.Errorf("%w: truncated I array", ErrMalformedInput)
		}
		a := make([]uint32, n)
		for i := range a {
			a[i] = binary.LittleEndian.Uint32(b[4*i:])
		}
		return TagValue{kind: KindUint32Array, u32: a}, b[4*n:], nil
	case 'f':
		if len(b) < 4*n {
			return TagValue{}, nil, fmt.Errorf("%w: truncated f array", ErrMalformedInput)
		}
		a := make([]float32, n)
		for i := range a {
			a[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
		}
		return TagValue{kind: KindFloat32Array, f32: a}, b[4*n:], nil
	}
	return TagValue{}, nil, fmt.Errorf("%w: unknown array element type code %q", ErrUnsupportedFeature, elem)
}
