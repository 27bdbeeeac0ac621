// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "fmt"

// FrameCodec selects the wire serialization of a Frames sequence.
type FrameCodec int8

const (
	// FrameCodecRaw stores each frame count as a direct 16-bit value.
	FrameCodecRaw FrameCodec = iota
	// FrameCodecV1 stores each frame count as a single lossy byte,
	// looked up through frameV1Decode.
	FrameCodecV1
)

// String returns the DS sub-field spelling of the codec, "RAW" or "V1".
func (c FrameCodec) String() string {
	if c == FrameCodecV1 {
		return "V1"
	}
	return "RAW"
}

// ParseFrameCodec parses the DS sub-field spelling of a frame codec.
func ParseFrameCodec(s string) (FrameCodec, error) {
	switch s {
	case "RAW":
		return FrameCodecRaw, nil
	case "V1":
		return FrameCodecV1, nil
	}
	return FrameCodecRaw, fmt.Errorf("%w: unknown frame codec %q", ErrUnsupportedFeature, s)
}

// Frames is a sequence of per-pulse frame counts (IPD or PulseWidth),
// held in memory as expanded 16-bit values regardless of the codec
// used when the value was read from or will be written to a tag
// (spec §3).
type Frames []uint16

// frameV1Decode is the fixed 256-entry table mapping a V1 code to its
// decoded frame count. Entries 0-64 are identity; beyond that the
// table grows geometrically and is capped at 65535 (spec §6, "Frames
// codec V1 decode table").
var frameV1Decode = buildFrameV1Table()

func buildFrameV1Table() [256]uint16 {
	var t [256]uint16
	for i := 0; i < 65; i++ {
		t[i] = uint16(i)
	}
	// Beyond 64 frames, each entry is the previous (unrounded) value
	// times rate, rounded to the nearest integer; values past the
	// uint16 range are held at 65535.
	const (
		start = 65
		base  = 64.0
		rate  = 1.050625
	)
	v := base
	for i := start; i < 256; i++ {
		v *= rate
		if v+0.5 >= 65535 {
			t[i] = 65535
			continue
		}
		t[i] = uint16(v + 0.5)
	}
	return t
}

// EncodeFrameV1 returns the V1 code whose decoded value is closest to
// f, ties broken toward the lower code (spec §6).
func EncodeFrameV1(f uint16) byte {
	best := 0
	bestDiff := -1
	for code, v := range frameV1Decode {
		var diff int
		if v > f {
			diff = int(v) - int(f)
		} else {
			diff = int(f) - int(v)
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = code
		}
	}
	return byte(best)
}

// DecodeFrameV1 returns the frame count encoded by code.
func DecodeFrameV1(code byte) uint16 {
	return frameV1Decode[code]
}

// EncodeV1 returns f re-expressed as the expanded frame counts that
// result from encoding each value to V1 and back. Round-tripping the
// result a second time through EncodeV1 is a no-op (spec §8,
// "Frames V1: decode(encode(decode(x))) == decode(encode(x))").
func (f Frames) EncodeV1() Frames {
	out := make(Frames, len(f))
	for i, v := range f {
		out[i] = DecodeFrameV1(EncodeFrameV1(v))
	}
	return out
}

// MarshalBinary encodes f on the wire using the given codec: RAW as a
// contiguous little-endian uint16 stream, V1 as one byte per frame.
func (f Frames) MarshalBinary(codec FrameCodec) ([]byte, error) {
	switch codec {
	case FrameCodecRaw:
		b := make([]byte, 2*len(f))
		for i, v := range f {
			b[2*i] = byte(v)
			b[2*i+1] = byte(v >> 8)
		}
		return b, nil
	case FrameCodecV1:
		b := make([]byte, len(f))
		for i, v := range f {
			b[i] = EncodeFrameV1(v)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: frame codec %v", ErrUnsupportedFeature, codec)
}

// UnmarshalFrames decodes b using codec into a Frames sequence.
func UnmarshalFrames(b []byte, codec FrameCodec) (Frames, error) {
	switch codec {
	case FrameCodecRaw:
		if len(b)%2 != 0 {
			return nil, fmt.Errorf("%w: raw frame block length %d not even", ErrMalformedInput, len(b))
		}
		f := make(Frames, len(b)/2)
		for i := range f {
			f[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
		}
		return f, nil
	case FrameCodecV1:
		f := make(Frames, len(b))
		for i, c := range b {
			f[i] = DecodeFrameV1(c)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: frame codec %v", ErrUnsupportedFeature, codec)
}
