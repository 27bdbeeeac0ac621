// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"errors"
	"time"

	check "gopkg.in/check.v1"
)

type ValidatorSuite struct{}

var _ = check.Suite(&ValidatorSuite{})

func goodReadGroup(c *check.C, movie string, readType RecordType) *ReadGroup {
	rg, err := NewReadGroup("placeholder", "", "", "", "", "", "", "", "", "", time.Time{}, 0)
	c.Assert(err, check.IsNil)
	rg.SetMovieName(movie)
	err = rg.ParseDS("READTYPE=" + readType.String() + ";BINDINGKIT=100-862-200;SEQUENCINGKIT=101-093-700;BASECALLERVERSION=5.0;FRAMERATEHZ=100")
	c.Assert(err, check.IsNil)
	c.Assert(rg.SetID(DeriveReadGroupID(movie, readType)), check.IsNil)
	return rg
}

func goodHeader(c *check.C, rg *ReadGroup) *Header {
	h, err := NewHeader(nil, nil)
	c.Assert(err, check.IsNil)
	h.Version = "1.5"
	h.SortOrder = Coordinate
	v, err := ParseVersion("3.0.3")
	c.Assert(err, check.IsNil)
	h.PBVersion = &v
	c.Assert(h.AddReadGroup(rg), check.IsNil)
	return h
}

func (s *ValidatorSuite) TestValidateHeaderOK(c *check.C) {
	rg := goodReadGroup(c, "movie1", Subread)
	h := goodHeader(c, rg)
	v, err := NewValidator("test.bam", 0)
	c.Assert(err, check.IsNil)
	c.Check(v.ValidateHeader(h), check.IsNil)
}

func (s *ValidatorSuite) TestValidateHeaderMissingPBVersion(c *check.C) {
	rg := goodReadGroup(c, "movie1", Subread)
	h := goodHeader(c, rg)
	h.PBVersion = nil
	v, err := NewValidator("test.bam", 0)
	c.Assert(err, check.IsNil)
	err = v.ValidateHeader(h)
	c.Assert(err, check.NotNil)
	c.Check(errors.Is(err, ErrValidationFailed), check.Equals, true)
}

func (s *ValidatorSuite) TestValidateHeaderBadReadGroupID(c *check.C) {
	rg := goodReadGroup(c, "movie1", Subread)
	c.Assert(rg.SetID("deadbeef"), check.IsNil)
	h := goodHeader(c, rg)
	v, err := NewValidator("test.bam", 0)
	c.Assert(err, check.IsNil)
	err = v.ValidateHeader(h)
	c.Assert(err, check.NotNil)
	var vf *validationFailure
	c.Assert(errors.As(err, &vf), check.Equals, true)
	c.Check(len(vf.Errors()), check.Equals, 1)
	c.Log(vf.Dump())
}

func (s *ValidatorSuite) TestValidateReadGroupMissingRequiredFields(c *check.C) {
	rg, err := NewReadGroup("placeholder", "", "", "", "", "", "", "", "", "", time.Time{}, 0)
	c.Assert(err, check.IsNil)
	v, err := NewValidator("test.bam", 0)
	c.Assert(err, check.IsNil)
	err = v.ValidateReadGroup(rg)
	c.Assert(err, check.NotNil)
	var vf *validationFailure
	c.Assert(errors.As(err, &vf), check.Equals, true)
	if len(vf.Errors()) < 5 {
		c.Fatalf("expected at least 5 violations, got %d", len(vf.Errors()))
	}
}

func (s *ValidatorSuite) TestValidateReadGroupUnknownChemistry(c *check.C) {
	rg, err := NewReadGroup("placeholder", "", "", "", "", "", "", "", "", "", time.Time{}, 0)
	c.Assert(err, check.IsNil)
	rg.SetMovieName("movie1")
	err = rg.ParseDS("READTYPE=SUBREAD;BINDINGKIT=nope;SEQUENCINGKIT=nope;BASECALLERVERSION=0.0;FRAMERATEHZ=100")
	c.Assert(err, check.IsNil)
	c.Assert(rg.SetID(DeriveReadGroupID("movie1", Subread)), check.IsNil)

	v, err := NewValidator("test.bam", 0)
	c.Assert(err, check.IsNil)
	err = v.ValidateReadGroup(rg)
	c.Assert(err, check.NotNil)
}

func (s *ValidatorSuite) TestValidateRecordSubreadRequiresNumPasses(c *check.C) {
	rg := goodReadGroup(c, "movie1", Subread)
	h := goodHeader(c, rg)

	r := testRecord("movie1/1/0_4", -1, 255, nil, Unmapped, -1, 0,
		NewSeq([]byte("ACGT")), []byte("!!!!"), []Aux{
			mustAux(NewAux(Tag{'R', 'G'}, rg.Name())),
		})
	qsVal, err := NewIntTag(0)
	c.Assert(err, check.IsNil)
	qeVal, err := NewIntTag(4)
	c.Assert(err, check.IsNil)
	tc := &TagCollection{}
	tc.Set(Tag{'q', 's'}, qsVal)
	tc.Set(Tag{'q', 'e'}, qeVal)
	c.Assert(r.SetTags(tc), check.IsNil)

	v, err := NewValidator("test.bam", 0)
	c.Assert(err, check.IsNil)
	err = v.ValidateRecord(r, h)
	c.Assert(err, check.NotNil)
	var vf *validationFailure
	c.Assert(errors.As(err, &vf), check.Equals, true)
	c.Check(vf.Errors()[0].Record, check.Equals, "movie1/1/0_4")
}

func (s *ValidatorSuite) TestValidateRecordMappedRequiresReference(c *check.C) {
	rg := goodReadGroup(c, "movie1", Ccs)
	h := goodHeader(c, rg)

	r := testRecord("movie1/1/ccs", -1, 255, nil, 0, -1, 0,
		NewSeq([]byte("ACGT")), []byte("!!!!"), []Aux{
			mustAux(NewAux(Tag{'R', 'G'}, rg.Name())),
		})

	v, err := NewValidator("test.bam", 0)
	c.Assert(err, check.IsNil)
	err = v.ValidateRecord(r, h)
	c.Assert(err, check.NotNil)
}
