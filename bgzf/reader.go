// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"compress/gzip"
	"io"
)

// Reader implements BGZF block decoding. Blocks are decompressed one at
// a time on the calling goroutine; this is a deliberate simplification
// of the worker-pool decoder biogo/hts ships, adopted because nothing
// in this exercise drives enough read throughput to need the extra
// concurrency.
type Reader struct {
	src io.Reader
	rs  io.ReadSeeker
	cr  *countReader

	cache Cache
	curr  *block

	chunk Chunk

	err error
}

// NewReader returns a new Reader reading from r. rd is accepted for API
// parity with the concurrent decoder and is otherwise unused.
func NewReader(r io.Reader, rd int) (*Reader, error) {
	bg := &Reader{src: r, cr: &countReader{r: r}}
	if rs, ok := r.(io.ReadSeeker); ok {
		bg.rs = rs
	}
	return bg, nil
}

func (bg *Reader) offset() Offset {
	if bg.curr == nil {
		return Offset{File: bg.cr.n}
	}
	return Offset{File: bg.curr.base, Block: uint16(bg.curr.off)}
}

func (bg *Reader) fillBlock() error {
	base := bg.cr.n
	if bg.cache != nil {
		if b := bg.cache.Get(base); b != nil {
			bl := b.(*block)
			if _, err := io.CopyN(io.Discard, bg.cr, bl.next-base); err != nil {
				return err
			}
			bl.off = 0
			bg.curr = bl
			return nil
		}
	}
	gz, err := gzip.NewReader(bg.cr)
	if err != nil {
		return err
	}
	gz.Multistream(false)
	data, err := io.ReadAll(gz)
	if err != nil {
		return err
	}
	b := &block{base: base, next: bg.cr.n, data: data}
	if bg.cache != nil {
		bg.cache.Put(b)
	}
	bg.curr = b
	return nil
}

// Read implements io.Reader, transparently crossing block boundaries.
func (bg *Reader) Read(p []byte) (int, error) {
	if bg.err != nil {
		return 0, bg.err
	}
	begin := bg.offset()
	n := 0
	for n < len(p) {
		if bg.curr == nil || bg.curr.remaining() == 0 {
			if err := bg.fillBlock(); err != nil {
				bg.err = err
				break
			}
			if len(bg.curr.data) == 0 {
				bg.err = io.EOF
				break
			}
		}
		c, _ := bg.curr.Read(p[n:])
		n += c
	}
	if n > 0 {
		bg.chunk = Chunk{Begin: begin, End: bg.offset()}
		return n, nil
	}
	return 0, bg.err
}

// ReadByte implements io.ByteReader.
func (bg *Reader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(bg, buf[:])
	return buf[0], err
}

// SetCache sets the cache to be used by the Reader.
func (bg *Reader) SetCache(c Cache) {
	bg.cache = c
}

// Seek moves the Reader to the given virtual offset. The underlying
// reader must implement io.Seeker.
func (bg *Reader) Seek(off Offset) error {
	if bg.rs == nil {
		return ErrNotASeeker
	}
	if _, err := bg.rs.Seek(off.File, io.SeekStart); err != nil {
		return err
	}
	bg.cr = &countReader{r: bg.rs, n: off.File}
	bg.curr = nil
	bg.err = nil
	if err := bg.fillBlock(); err != nil {
		return err
	}
	if int(off.Block) > len(bg.curr.data) {
		return io.ErrUnexpectedEOF
	}
	bg.curr.off = int(off.Block)
	bg.chunk = Chunk{Begin: bg.offset(), End: bg.offset()}
	return nil
}

// LastChunk returns the Chunk corresponding to the most recent Read.
func (bg *Reader) LastChunk() Chunk {
	return bg.chunk
}

// Close closes the Reader's underlying reader, if it is an io.Closer.
func (bg *Reader) Close() error {
	if c, ok := bg.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Tx tracks a run of Read calls between a Begin and a matching End,
// used to recover the Chunk of virtual offsets those reads spanned.
type Tx struct {
	r     *Reader
	begin Offset
}

// Begin starts a transaction against bg's current position.
func (bg *Reader) Begin() Tx {
	return Tx{r: bg, begin: bg.offset()}
}

// End closes the transaction, returning the Chunk spanning it.
func (t Tx) End() Chunk {
	return Chunk{Begin: t.begin, End: t.r.offset()}
}
