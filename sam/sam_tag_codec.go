// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"bytes"
	"fmt"
	"strconv"
)

// MarshalSAMTags formats c as tab-separated SAM tag tokens `NN:T:value`
// in canonical sorted-name order (spec §4.3). Integer tags are always
// written with type code 'i' regardless of stored width.
func (c *TagCollection) MarshalSAMTags() ([]byte, error) {
	var buf bytes.Buffer
	for i, name := range c.Names() {
		if i > 0 {
			buf.WriteByte('\t')
		}
		v, _ := c.Get(name)
		if err := marshalSAMTag(&buf, name, v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func marshalSAMTag(buf *bytes.Buffer, name Tag, v TagValue) error {
	fmt.Fprintf(buf, "%s:", name)
	switch v.kind {
	case KindInt8, KindUint8:
		if v.modifier == ASCIIChar {
			fmt.Fprintf(buf, "A:%c", byte(v.scalar))
			return nil
		}
		fmt.Fprintf(buf, "i:%d", v.scalar)
	case KindInt16, KindUint16, KindInt32, KindUint32:
		fmt.Fprintf(buf, "i:%d", v.scalar)
	case KindFloat32:
		fmt.Fprintf(buf, "f:%v", v.f)
	case KindString:
		if v.modifier == HexString {
			fmt.Fprintf(buf, "H:%X", []byte(v.s))
		} else {
			fmt.Fprintf(buf, "Z:%s", v.s)
		}
	case KindInt8Array:
		fmt.Fprintf(buf, "B:c")
		for _, e := range v.i8 {
			fmt.Fprintf(buf, ",%d", e)
		}
	case KindUint8Array:
		fmt.Fprintf(buf, "B:C")
		for _, e := range v.u8 {
			fmt.Fprintf(buf, ",%d", e)
		}
	case KindInt16Array:
		fmt.Fprintf(buf, "B:s")
		for _, e := range v.i16 {
			fmt.Fprintf(buf, ",%d", e)
		}
	case KindUint16Array:
		fmt.Fprintf(buf, "B:S")
		for _, e := range v.u16 {
			fmt.Fprintf(buf, ",%d", e)
		}
	case KindInt32Array:
		fmt.Fprintf(buf, "B:i")
		for _, e := range v.i32 {
			fmt.Fprintf(buf, ",%d", e)
		}
	case KindUint32Array:
		fmt.Fprintf(buf, "B:I")
		for _, e := range v.u32 {
			fmt.Fprintf(buf, ",%d", e)
		}
	case KindFloat32Array:
		fmt.Fprintf(buf, "B:f")
		for _, e := range v.f32 {
			fmt.Fprintf(buf, ",%v", e)
		}
	default:
		return fmt.Errorf("%w: cannot marshal tag kind %v to SAM text", ErrUnsupportedFeature, v.kind)
	}
	return nil
}

// ParseSAMTag parses one `NN:T:value` token into a tag name and value
// (spec §4.3). On decode, the narrowest integer variant that fits the
// parsed value is stored.
func ParseSAMTag(tok []byte) (Tag, TagValue, error) {
	f := bytes.SplitN(tok, []byte{':'}, 3)
	if len(f) != 3 || len(f[0]) != 2 || len(f[1]) != 1 {
		return Tag{}, TagValue{}, fmt.Errorf("%w: malformed tag token %q", ErrMalformedInput, tok)
	}
	var name Tag
	copy(name[:], f[0])
	v, err := parseSAMTagValue(f[1][0], f[2])
	if err != nil {
		return Tag{}, TagValue{}, err
	}
	return name, v, nil
}

func parseSAMTagValue(typ byte, val []byte) (TagValue, error) {
	switch typ {
	case 'A':
		if len(val) != 1 {
			return TagValue{}, fmt.Errorf("%w: malformed A tag value %q", ErrMalformedInput, val)
		}
		return NewAsciiTag(val[0])
	case 'i':
		n, err := strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return TagValue{}, fmt.Errorf("%w: malformed integer tag value %q", ErrMalformedInput, val)
		}
		if n < 0 {
			return NewIntTag(n)
		}
		return NewUintTag(uint64(n))
	case 'f':
		f, err := strconv.ParseFloat(string(val), 32)
		if err != nil {
			return TagValue{}, fmt.Errorf("%w: malformed float tag value %q", ErrMalformedInput, val)
		}
		return NewFloatTag(float32(f)), nil
	case 'Z':
		return NewStringTag(string(val), false), nil
	case 'H':
		dst := make([]byte, len(val)/2)
		for i := range dst {
			n, err := strconv.ParseUint(string(val[2*i:2*i+2]), 16, 8)
			if err != nil {
				return TagValue{}, fmt.Errorf("%w: malformed hex tag value %q", ErrMalformedInput, val)
			}
			dst[i] = byte(n)
		}
		return NewStringTag(string(dst), true), nil
	case 'B':
		if len(val) < 2 || val[1] != ',' {
			return TagValue{}, fmt.Errorf("%w: malformed array tag value %q", ErrMalformedInput, val)
		}
		elem := val[0]
		fields := bytes.Split(val[2:], []byte{','})
		return parseSAMArray(elem, fields)
	}
	return TagValue{}, fmt.Errorf("%w: unsupported tag type code %q", ErrUnsupportedFeature, typ)
}

func parseSAMArray(elem byte, fields [][]byte) (TagValue, error) {
	switch elem {
	case 'c':
		a := make([]int8, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseInt(string(f), 10, 8)
			if err != nil {
				return TagValue{}, fmt.Errorf("%w: malformed int8 array element %q", ErrMalformedInput, f)
			}
			a[i] = int8(n)
		}
		return NewInt8ArrayTag(a), nil
	case 'C':
		a := make([]uint8, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseUint(string(f), 10, 8)
			if err != nil {
				return TagValue{}, fmt.Errorf("%w: malformed uint8 array element %q", ErrMalformedInput, f)
			}
			a[i] = uint8(n)
		}
		return NewUint8ArrayTag(a), nil
	case 's':
		a := make([]int16, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseInt(string(f), 10, 16)
			if err != nil {
				return TagValue{}, fmt.Errorf("%w: malformed int16 array element %q", ErrMalformedInput, f)
			}
			a[i] = int16(n)
		}
		return NewInt16ArrayTag(a), nil
	case 'S':
		a := make([]uint16, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseUint(string(f), 10, 16)
			if err != nil {
				return TagValue{}, fmt.Errorf("%w: malformed uint16 array element %q", ErrMalformedInput, f)
			}
			a[i] = uint16(n)
		}
		return NewUint16ArrayTag(a), nil
	case 'i':
		a := make([]int32, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseInt(string(f), 10, 32)
			if err != nil {
				return TagValue{}, fmt.Errorf("%w: malformed int32 array element %q", ErrMalformedInput, f)
			}
			a[i] = int32(n)
		}
		return NewInt32ArrayTag(a), nil
	case 'I':
		a := make([]uint32, len(fields))
		for i, f := range fields {
			n, err := strconv.ParseUint(string(f), 10, 32)
			if err != nil {
				return TagValue{}, fmt.Errorf("%w: malformed uint32 array element %q", ErrMalformedInput, f)
			}
			a[i] = uint32(n)
		}
		return NewUint32ArrayTag(a), nil
	case 'f':
		a := make([]float32, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(string(f), 32)
			if err != nil {
				return TagValue{}, fmt.Errorf("%w: malformed float32 array element %q", ErrMalformedInput, f)
			}
			a[i] = float32(v)
		}
		return NewFloat32ArrayTag(a), nil
	}
	return TagValue{}, fmt.Errorf("%w: unsupported array element type code %q", ErrUnsupportedFeature, elem)
}
