// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bgzf implements the BGZF blocked gzip format: a gzip-compatible
// compression container used by BAM to allow random access into a
// compressed stream via virtual file offsets.
package bgzf

import (
	"errors"
	"io"
)

// BlockSize is the maximum uncompressed payload carried by a single BGZF
// block, and MaxBlockSize is the largest compressed block size the
// virtual offset scheme can address.
const (
	BlockSize    = 0x0ff00
	MaxBlockSize = 0x10000
)

var bgzfExtraPrefix = []byte("BC\x02\x00")

var (
	ErrNotASeeker = errors.New("bgzf: not a Seeker")
	ErrClosed     = errors.New("bgzf: write to closed writer")
	ErrBlockOverflow = errors.New("bgzf: block overflow")
)

// Offset is a BGZF virtual file offset: the byte offset of a block's
// first byte in the compressed stream, paired with a byte offset into
// that block's decompressed payload.
type Offset struct {
	File  int64
	Block uint16
}

// Chunk is a half-open interval [Begin, End) of virtual offsets,
// typically describing the span read by a single logical operation.
type Chunk struct {
	Begin Offset
	End   Offset
}

// Cache supplies decompressed blocks to a Reader keyed by their
// compressed-stream base offset, letting repeated seeks to an already
// visited block skip decompression.
type Cache interface {
	// Get returns the Block in the Cache with the specified base
	// offset, or nil if it does not exist.
	Get(base int64) Block

	// Put inserts a Block into the Cache, returning the Block that
	// was evicted, if any, and whether the Block was retained.
	Put(Block) (evicted Block, retained bool)
}

// Block is a decompressed BGZF block held by a Cache.
type Block interface {
	// Base returns the file offset of the start of the gzip member
	// the Block data was decompressed from.
	Base() int64

	// NextBase returns the expected file offset of the following
	// BGZF block.
	NextBase() int64

	// Used reports whether one or more bytes have been read from
	// the Block since it was filled.
	Used() bool

	Read(p []byte) (int, error)
}

// block is the Reader's own Block implementation.
type block struct {
	base int64
	next int64
	data []byte
	off  int
	used bool
}

func (b *block) Base() int64     { return b.base }
func (b *block) NextBase() int64 { return b.next }
func (b *block) Used() bool      { return b.used }

func (b *block) Read(p []byte) (int, error) {
	if b.off >= len(b.data) {
		return 0, nil
	}
	n := copy(p, b.data[b.off:])
	b.off += n
	if n > 0 {
		b.used = true
	}
	return n, nil
}

func (b *block) remaining() int { return len(b.data) - b.off }

type countReader struct {
	r io.Reader
	n int64
}

func (c *countReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// ReadByte lets compress/gzip read from c directly; without it gzip
// wraps c in a bufio.Reader whose read-ahead consumes the following
// block's bytes and leaves n past the end of the current block.
func (c *countReader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(c, b[:])
	return b[0], err
}
