// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"bytes"
	"io"
	"testing"

	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func (s *S) TestWriteRead(c *check.C) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1)
	payload := bytes.Repeat([]byte("pacbio-ccs-record-stream"), 4096)
	n, err := w.Write(payload)
	c.Assert(err, check.IsNil)
	c.Assert(n, check.Equals, len(payload))
	c.Assert(w.Close(), check.IsNil)

	r, err := NewReader(bytes.NewReader(buf.Bytes()), 1)
	c.Assert(err, check.IsNil)
	got, err := io.ReadAll(r)
	c.Assert(err, check.IsNil)
	c.Check(got, check.DeepEquals, payload)
}

func (s *S) TestMultiBlock(c *check.C) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1)
	payload := bytes.Repeat([]byte{'x'}, BlockSize*3+17)
	_, err := w.Write(payload)
	c.Assert(err, check.IsNil)
	c.Assert(w.Close(), check.IsNil)

	r, err := NewReader(bytes.NewReader(buf.Bytes()), 1)
	c.Assert(err, check.IsNil)
	got, err := io.ReadAll(r)
	c.Assert(err, check.IsNil)
	c.Check(len(got), check.Equals, len(payload))
	c.Check(got, check.DeepEquals, payload)
}

func (s *S) TestChunk(c *check.C) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1)
	_, err := w.Write([]byte("abc"))
	c.Assert(err, check.IsNil)
	_, err = w.Write([]byte("defgh"))
	c.Assert(err, check.IsNil)
	c.Assert(w.Close(), check.IsNil)

	r, err := NewReader(bytes.NewReader(buf.Bytes()), 1)
	c.Assert(err, check.IsNil)
	tx := r.Begin()
	p := make([]byte, 3)
	_, err = io.ReadFull(r, p)
	c.Assert(err, check.IsNil)
	c.Check(p, check.DeepEquals, []byte("abc"))
	chunk := tx.End()
	c.Check(chunk.Begin, check.Equals, Offset{})
	c.Check(chunk.End.Block, check.Equals, uint16(3))
}

func (s *S) TestSeek(c *check.C) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1)
	_, err := w.Write(bytes.Repeat([]byte{'a'}, BlockSize))
	c.Assert(err, check.IsNil)
	c.Assert(w.Flush(), check.IsNil)
	second := []byte("tail-block")
	_, err = w.Write(second)
	c.Assert(err, check.IsNil)
	c.Assert(w.Close(), check.IsNil)

	r, err := NewReader(bytes.NewReader(buf.Bytes()), 1)
	c.Assert(err, check.IsNil)
	// Read through the first block; the chunk's end is the offset just
	// past its data, and seeking there resumes at the second block.
	_, err = io.CopyN(io.Discard, r, BlockSize)
	c.Assert(err, check.IsNil)
	off := r.LastChunk().End

	r2, err := NewReader(bytes.NewReader(buf.Bytes()), 1)
	c.Assert(err, check.IsNil)
	c.Assert(r2.Seek(off), check.IsNil)
	got := make([]byte, len(second))
	_, err = io.ReadFull(r2, got)
	c.Assert(err, check.IsNil)
	c.Check(got, check.DeepEquals, second)
}
