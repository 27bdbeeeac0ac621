// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	check "gopkg.in/check.v1"
)

type ClipSuite struct{}

var _ = check.Suite(&ClipSuite{})

func clipTestRecord(c *check.C, seq string, cigar Cigar, pos int, pulseCalls string, pulseWidth []uint16) *Record {
	r := testRecord("movie/1/0_17", pos, 30,
		cigar, 0, -1, 0, NewSeq([]byte(seq)), make([]byte, len(seq)), nil)

	tc := &TagCollection{}
	qsVal, err := NewIntTag(0)
	c.Assert(err, check.IsNil)
	qeVal, err := NewIntTag(int64(len(seq)))
	c.Assert(err, check.IsNil)
	tc.Set(Tag{'q', 's'}, qsVal)
	tc.Set(Tag{'q', 'e'}, qeVal)
	if pulseCalls != "" {
		tc.Set(pulseCallWire, NewStringTag(pulseCalls, false))
	}
	if pulseWidth != nil {
		tc.Set(Tag{'p', 'w'}, NewUint16ArrayTag(pulseWidth))
	}
	c.Assert(r.SetTags(tc), check.IsNil)
	return r
}

func (s *ClipSuite) TestClipToQuery(c *check.C) {
	seq := "TTAGATAAAGGATACTG" // len 17
	cigar := Cigar{
		NewCigarOp(CigarMatch, 8),
		NewCigarOp(CigarInsertion, 2),
		NewCigarOp(CigarMatch, 4),
		NewCigarOp(CigarDeletion, 1),
		NewCigarOp(CigarMatch, 3),
	}
	pw := make([]uint16, len(seq))
	for i := range pw {
		pw[i] = uint16(i)
	}
	r := clipTestRecord(c, seq, cigar, 7, upper(seq), pw)

	c.Assert(r.ClipToQuery(2, 10), check.IsNil)

	c.Check(r.Cigar().String(), check.Equals, "6M2I")
	c.Check(r.Pos, check.Equals, 9)
	c.Check(r.Seq().Expand(), check.DeepEquals, []byte(seq[2:10]))

	tags, err := r.Tags()
	c.Assert(err, check.IsNil)
	qs, ok := tags.Get(Tag{'q', 's'})
	c.Assert(ok, check.Equals, true)
	n, err := qs.ToInt64()
	c.Assert(err, check.IsNil)
	c.Check(n, check.Equals, int64(2))
	qe, ok := tags.Get(Tag{'q', 'e'})
	c.Assert(ok, check.Equals, true)
	n, err = qe.ToInt64()
	c.Assert(err, check.IsNil)
	c.Check(n, check.Equals, int64(10))

	pwv, ok := tags.Get(Tag{'p', 'w'})
	c.Assert(ok, check.Equals, true)
	a, err := pwv.ToUint16Array()
	c.Assert(err, check.IsNil)
	c.Check(a, check.DeepEquals, pw[2:10])
}

func (s *ClipSuite) TestClipToQueryFullRangeIsNoOp(c *check.C) {
	seq := "ACGTACGTAC"
	cigar := Cigar{NewCigarOp(CigarMatch, 10)}
	r := clipTestRecord(c, seq, cigar, 3, upper(seq), nil)
	origCigar := r.Cigar().String()
	origPos := r.Pos

	c.Assert(r.ClipToQuery(0, len(seq)), check.IsNil)

	c.Check(r.Cigar().String(), check.Equals, origCigar)
	c.Check(r.Pos, check.Equals, origPos)
	c.Check(r.Seq().Expand(), check.DeepEquals, []byte(seq))
}

func (s *ClipSuite) TestClipToQueryEmptyRange(c *check.C) {
	seq := "ACGTACGTAC"
	cigar := Cigar{NewCigarOp(CigarMatch, 10)}
	r := clipTestRecord(c, seq, cigar, 3, upper(seq), nil)

	c.Assert(r.ClipToQuery(4, 4), check.IsNil)

	c.Check(r.Seq().Length, check.Equals, 0)
	c.Check(len(r.Cigar()), check.Equals, 0)
	tags, err := r.Tags()
	c.Assert(err, check.IsNil)
	_, ok := tags.Get(Tag{'q', 's'})
	c.Check(ok, check.Equals, true)
}

func (s *ClipSuite) TestClipToReference(c *check.C) {
	seq := "ATAGCTTCAGC" // len 11
	cigar := Cigar{
		NewCigarOp(CigarMatch, 6),
		NewCigarOp(CigarSkipped, 14),
		NewCigarOp(CigarMatch, 5),
	}
	r := clipTestRecord(c, seq, cigar, 15, upper(seq), nil)
	ref, err := NewReference("ref", "", "", 45, nil, nil)
	c.Assert(err, check.IsNil)
	r.Ref = ref

	c.Assert(r.ClipToReference(18, 37, true), check.IsNil)

	c.Check(r.Pos, check.Equals, 18)
	c.Check(r.Cigar().String(), check.Equals, "3M14N2M")
	c.Check(r.Seq().Length, check.Equals, 5)
}

func (s *ClipSuite) TestClipToReferenceRequiresMappedRecord(c *check.C) {
	r := clipTestRecord(c, "ACGT", Cigar{NewCigarOp(CigarMatch, 4)}, -1, "", nil)
	err := r.ClipToReference(0, 4, true)
	c.Check(err, check.NotNil)
}

func upper(s string) string {
	b := []byte(s)
	for i, v := range b {
		if v >= 'a' && v <= 'z' {
			b[i] = v - 'a' + 'A'
		}
	}
	return string(b)
}
