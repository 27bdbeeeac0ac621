// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	check "gopkg.in/check.v1"
)

type BuilderSuite struct{}

var _ = check.Suite(&BuilderSuite{})

func (s *BuilderSuite) TestBuilderUnmapped(c *check.C) {
	r, err := NewBuilder("m/1/0_4").
		SetSeq([]byte("ACGT")).
		SetQual([]byte("!!!!")).
		SetPaired(true).
		SetRead1(true).
		Build()
	c.Assert(err, check.IsNil)
	c.Check(r.Flags&Unmapped, check.Equals, Unmapped)
	c.Check(r.Flags&Paired, check.Equals, Paired)
	c.Check(r.Flags&Read1, check.Equals, Read1)
	c.Check(r.Pos, check.Equals, -1)
	c.Check(r.Ref, check.IsNil)
	c.Check(r.Seq().Expand(), check.DeepEquals, []byte("ACGT"))
}

func (s *BuilderSuite) TestBuilderMapped(c *check.C) {
	ref, err := NewReference("chr1", "", "", 1000, nil, nil)
	c.Assert(err, check.IsNil)
	_, err = NewHeader(nil, []*Reference{ref})
	c.Assert(err, check.IsNil)

	qsVal, err := NewIntTag(0)
	c.Assert(err, check.IsNil)
	qeVal, err := NewIntTag(4)
	c.Assert(err, check.IsNil)

	r, err := NewBuilder("m/1/0_4").
		SetReference(ref).
		SetPosition(99).
		SetMapQuality(60).
		SetCigar(Cigar{NewCigarOp(CigarMatch, 4)}).
		SetSeq([]byte("ACGT")).
		SetQual([]byte("!!!!")).
		SetTag(Tag{'q', 's'}, qsVal).
		SetTag(Tag{'q', 'e'}, qeVal).
		Build()
	c.Assert(err, check.IsNil)
	c.Check(r.Flags&Unmapped, check.Equals, Flags(0))
	c.Check(r.Ref, check.Equals, ref)
	c.Check(r.Pos, check.Equals, 99)
	c.Check(r.MapQ, check.Equals, byte(60))
	c.Check(r.Cigar().String(), check.Equals, "4M")

	tags, err := r.Tags()
	c.Assert(err, check.IsNil)
	qs, ok := tags.Get(Tag{'q', 's'})
	c.Assert(ok, check.Equals, true)
	n, err := qs.ToInt64()
	c.Assert(err, check.IsNil)
	c.Check(n, check.Equals, int64(0))
}

func (s *BuilderSuite) TestBuilderDefaultsAreSentinels(c *check.C) {
	b := NewBuilder("m/1/0_0")
	c.Check(b.pos, check.Equals, -1)
	c.Check(b.matePos, check.Equals, -1)
	c.Check(b.mapQ, check.Equals, byte(255))
	c.Check(b.flags&Unmapped, check.Equals, Unmapped)
}

func (s *BuilderSuite) TestBuilderReusable(c *check.C) {
	b := NewBuilder("m/1/0_4").SetSeq([]byte("ACGT")).SetQual([]byte("!!!!"))
	r1, err := b.Build()
	c.Assert(err, check.IsNil)
	b.SetSeq([]byte("TTTT"))
	r2, err := b.Build()
	c.Assert(err, check.IsNil)
	c.Check(r1.Seq().Expand(), check.DeepEquals, []byte("ACGT"))
	c.Check(r2.Seq().Expand(), check.DeepEquals, []byte("TTTT"))
}
