// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chemistry

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func (s *S) TestBuiltInLookup(c *check.C) {
	chem, err := builtIn.Lookup("100-862-200", "101-093-700", "5.0")
	c.Assert(err, check.Equals, nil)
	c.Check(chem, check.Equals, "S/P2-C2/5.0")
}

func (s *S) TestBuiltInLookupMiss(c *check.C) {
	_, err := builtIn.Lookup("nope", "nope", "0.0")
	c.Assert(err, check.Not(check.Equals), nil)
	le, ok := err.(*LookupError)
	c.Assert(ok, check.Equals, true)
	c.Check(le.BindingKit, check.Equals, "nope")
}

func (s *S) TestFromXML(c *check.C) {
	dir := c.MkDir()
	path := filepath.Join(dir, "chemistry.xml")
	const doc = `<?xml version="1.0"?>
<MappingTable>
  <Mapping>
    <BindingKit>bk1</BindingKit>
    <SequencingKit>sk1</SequencingKit>
    <SoftwareVersion>9.9</SoftwareVersion>
    <SequencingChemistry>test-chem</SequencingChemistry>
  </Mapping>
</MappingTable>`
	err := os.WriteFile(path, []byte(doc), 0o644)
	c.Assert(err, check.Equals, nil)

	tbl, err := FromXML(path)
	c.Assert(err, check.Equals, nil)
	c.Assert(tbl, check.HasLen, 1)
	chem, err := tbl.Lookup("bk1", "sk1", "9.9")
	c.Assert(err, check.Equals, nil)
	c.Check(chem, check.Equals, "test-chem")
}

func (s *S) TestFromEnvUnset(c *check.C) {
	c.Assert(os.Unsetenv(bundleEnvVar), check.Equals, nil)
	tbl, err := FromEnv()
	c.Assert(err, check.Equals, nil)
	c.Check(len(tbl), check.Equals, len(builtIn))
}
