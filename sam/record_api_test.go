// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	check "gopkg.in/check.v1"
)

type RecordAPISuite struct{}

var _ = check.Suite(&RecordAPISuite{})

// fieldTestRecord builds a reverse-strand-aware record carrying the
// per-base/per-pulse tags the field accessors read, mirroring
// clipTestRecord's construction idiom.
func fieldTestRecord(c *check.C, seq string, cigar Cigar, flags Flags, dt, sq string, ip []uint16) *Record {
	r := testRecord("movie/1/0_8", 7, 30, cigar, flags, -1, 0,
		NewSeq([]byte(seq)), make([]byte, len(seq)), nil)
	tc := &TagCollection{}
	if dt != "" {
		tc.Set(Tag{'d', 't'}, NewStringTag(dt, false))
	}
	if sq != "" {
		tc.Set(Tag{'s', 'q'}, NewStringTag(sq, false))
	}
	if ip != nil {
		tc.Set(Tag{'i', 'p'}, NewUint16ArrayTag(ip))
	}
	c.Assert(r.SetTags(tc), check.IsNil)
	return r
}

func (s *RecordAPISuite) TestDeletionTagNativeForward(c *check.C) {
	r := fieldTestRecord(c, "ACGTACGT", Cigar{NewCigarOp(CigarMatch, 8)}, 0, "AAAAAAAA", "", nil)
	out, err := r.DeletionTag(FieldOptions{})
	c.Assert(err, check.IsNil)
	c.Check(string(out), check.Equals, "AAAAAAAA")
}

func (s *RecordAPISuite) TestDeletionTagGenomicReverseFlips(c *check.C) {
	r := fieldTestRecord(c, "ACGTACGT", Cigar{NewCigarOp(CigarMatch, 8)}, Reverse, "ABCDEFGH", "", nil)
	native, err := r.DeletionTag(FieldOptions{Orientation: Native})
	c.Assert(err, check.IsNil)
	c.Check(string(native), check.Equals, "ABCDEFGH")

	genomic, err := r.DeletionTag(FieldOptions{Orientation: Genomic})
	c.Assert(err, check.IsNil)
	c.Check(string(genomic), check.Equals, "HGFEDCBA")
}

func (s *RecordAPISuite) TestDeletionTagAlignedInsertsGapFill(c *check.C) {
	cigar := Cigar{
		NewCigarOp(CigarMatch, 4),
		NewCigarOp(CigarDeletion, 2),
		NewCigarOp(CigarMatch, 4),
	}
	r := fieldTestRecord(c, "ACGTACGT", cigar, 0, "AAAABBBB", "", nil)
	out, err := r.DeletionTag(FieldOptions{Aligned: true})
	c.Assert(err, check.IsNil)
	c.Check(string(out), check.Equals, "AAAA--BBBB")
}

func (s *RecordAPISuite) TestDeletionQVFillsZero(c *check.C) {
	cigar := Cigar{
		NewCigarOp(CigarMatch, 4),
		NewCigarOp(CigarDeletion, 2),
		NewCigarOp(CigarMatch, 4),
	}
	r := testRecord("movie/1/0_8", 7, 30, cigar, 0, -1, 0,
		NewSeq([]byte("ACGTACGT")), make([]byte, 8), nil)
	tc := &TagCollection{}
	tc.Set(Tag{'d', 'q'}, NewStringTag("\x01\x02\x03\x04\x05\x06\x07\x08", false))
	c.Assert(r.SetTags(tc), check.IsNil)

	out, err := r.DeletionQV(FieldOptions{Aligned: true})
	c.Assert(err, check.IsNil)
	c.Assert(len(out), check.Equals, 10)
	c.Check(out[4], check.Equals, byte(0))
	c.Check(out[5], check.Equals, byte(0))
}

func (s *RecordAPISuite) TestIPDRawCodec(c *check.C) {
	r := fieldTestRecord(c, "ACGTACGT", Cigar{NewCigarOp(CigarMatch, 8)}, 0, "", "", []uint16{10, 20, 30, 40, 50, 60, 70, 80})
	frames, err := r.IPD(FieldOptions{})
	c.Assert(err, check.IsNil)
	c.Check([]uint16(frames), check.DeepEquals, []uint16{10, 20, 30, 40, 50, 60, 70, 80})
}

func (s *RecordAPISuite) TestIPDV1CodecDecodesThroughTable(c *check.C) {
	r := testRecord("movie/1/0_8", 7, 30, Cigar{NewCigarOp(CigarMatch, 8)}, 0, -1, 0,
		NewSeq([]byte("ACGTACGT")), make([]byte, 8), nil)
	tc := &TagCollection{}
	tc.Set(Tag{'i', 'p'}, NewUint8ArrayTag([]uint8{0, 10, 64, 65, 100, 0, 0, 0}))
	c.Assert(r.SetTags(tc), check.IsNil)

	frames, err := r.IPD(FieldOptions{})
	c.Assert(err, check.IsNil)
	c.Assert(len(frames), check.Equals, 8)
	c.Check(frames[0], check.Equals, uint16(0))
	c.Check(frames[1], check.Equals, uint16(10))
	c.Check(frames[2], check.Equals, uint16(64))
	c.Check(frames[3] > 64, check.Equals, true)
}

func (s *RecordAPISuite) TestPulseCallBasecallsOnlyProjection(c *check.C) {
	r := testRecord("movie/1/0_4", 7, 30, Cigar{NewCigarOp(CigarMatch, 4)}, 0, -1, 0,
		NewSeq([]byte("ACGT")), make([]byte, 4), nil)
	tc := &TagCollection{}
	tc.Set(pulseCallWire, NewStringTag("aACgGTt", false))
	c.Assert(r.SetTags(tc), check.IsNil)

	squashed, err := r.PulseCall(FieldOptions{PulseBehavior: BasecallsOnly})
	c.Assert(err, check.IsNil)
	c.Check(string(squashed), check.Equals, "ACGT")

	raw, err := r.PulseCall(FieldOptions{PulseBehavior: All})
	c.Assert(err, check.IsNil)
	c.Check(string(raw), check.Equals, "aACgGTt")
}

func (s *RecordAPISuite) TestPkmidDecodesPhotonScale(c *check.C) {
	r := testRecord("movie/1/0_4", 7, 30, Cigar{NewCigarOp(CigarMatch, 4)}, 0, -1, 0,
		NewSeq([]byte("ACGT")), make([]byte, 4), nil)
	tc := &TagCollection{}
	tc.Set(Tag{'p', 's'}, NewUint16ArrayTag([]uint16{10, 20, 30, 40}))
	c.Assert(r.SetTags(tc), check.IsNil)

	vals, err := r.Pkmid(FieldOptions{})
	c.Assert(err, check.IsNil)
	c.Check(vals, check.DeepEquals, []float32{1, 2, 3, 4})
}

func (s *RecordAPISuite) TestPkmidRejectsAligned(c *check.C) {
	r := testRecord("movie/1/0_4", 7, 30, Cigar{NewCigarOp(CigarMatch, 4)}, 0, -1, 0,
		NewSeq([]byte("ACGT")), make([]byte, 4), nil)
	tc := &TagCollection{}
	tc.Set(Tag{'p', 's'}, NewUint16ArrayTag([]uint16{10, 20, 30, 40}))
	c.Assert(r.SetTags(tc), check.IsNil)

	_, err := r.Pkmid(FieldOptions{Aligned: true})
	c.Assert(err, check.NotNil)
}
