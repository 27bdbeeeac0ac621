// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"bytes"
	"fmt"
)

// Cigar is an ordered sequence of CIGAR operations, packed on the wire
// as a 28-bit length and 4-bit op per 32-bit word (spec §3).
type Cigar []CigarOp

// IsValid returns whether the CIGAR string is valid for a record of
// the given sequence length: the sum of query-consuming operations
// must equal length, clipping operations may only appear at the ends
// of the alignment, and CigarBack operations may only leave the
// reference cursor at or right of the start of the alignment.
func (c Cigar) IsValid(length int) bool {
	var pos int
	for i, co := range c {
		ct := co.Type()
		if ct == CigarHardClipped && i != 0 && i != len(c)-1 {
			return false
		}
		if ct == CigarSoftClipped && i != 0 && i != len(c)-1 {
			if c[i-1].Type() != CigarHardClipped && c[i+1].Type() != CigarHardClipped {
				return false
			}
		}
		con := ct.Consumes()
		if pos < 0 && con.Query != 0 {
			return false
		}
		length -= co.Len() * con.Query
		pos += co.Len() * con.Reference
	}
	return length == 0
}

// String returns the CIGAR string for c, or "*" if c is empty.
func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var b bytes.Buffer
	for _, co := range c {
		fmt.Fprint(&b, co)
	}
	return b.String()
}

// Lengths returns the number of reference and read bases described by
// the Cigar.
func (c Cigar) Lengths() (ref, read int) {
	var con Consume
	for _, co := range c {
		con = co.Type().Consumes()
		if co.Type() != CigarBack {
			ref += co.Len() * con.Reference
		}
		read += co.Len() * con.Query
	}
	return ref, read
}

// ReferenceLength returns the number of reference bases spanned by c,
// the value combined with a record's position to recompute its bin
// (spec §4.5).
func (c Cigar) ReferenceLength() int {
	ref, _ := c.Lengths()
	return ref
}

// QueryLength returns the number of query (sequence) bases implied by
// c: the sum of the M, I, S, =, and X operation lengths (spec §3).
func (c Cigar) QueryLength() int {
	var n int
	for _, co := range c {
		switch co.Type() {
		case CigarMatch, CigarInsertion, CigarSoftClipped, CigarEqual, CigarMismatch:
			n += co.Len()
		}
	}
	return n
}

// CigarOp is a single CIGAR operation including its type and length.
type CigarOp uint32

// NewCigarOp returns a CIGAR operation of the specified type with
// length n.
func NewCigarOp(t CigarOpType, n int) CigarOp {
	return CigarOp(t) | (CigarOp(n) << 4)
}

// Type returns the operation type of co.
func (co CigarOp) Type() CigarOpType { return CigarOpType(co & 0xf) }

// Len returns the number of positions affected by co.
func (co CigarOp) Len() int { return int(co >> 4) }

// String returns the string representation of co, e.g. "12M".
func (co CigarOp) String() string { return fmt.Sprintf("%d%s", co.Len(), co.Type().String()) }

// CigarOpType represents the type of operation described by a
// CigarOp.
type CigarOpType byte

const (
	CigarMatch       CigarOpType = iota // Alignment match (sequence match or mismatch).
	CigarInsertion                      // Insertion to the reference.
	CigarDeletion                       // Deletion from the reference.
	CigarSkipped                        // Skipped region from the reference.
	CigarSoftClipped                    // Soft clipping (sequence present in SEQ).
	CigarHardClipped                    // Hard clipping (sequence not present in SEQ).
	CigarPadded                         // Padding (silent deletion from padded reference).
	CigarEqual                          // Sequence match.
	CigarMismatch                       // Sequence mismatch.
	CigarBack                           // Skip backwards (non-standard CG extension).
	lastCigar
)

var cigarOps = []string{"M", "I", "D", "N", "S", "H", "P", "=", "X", "B", "?"}

// Consume describes how a CIGAR operation consumes query and
// reference positions.
type Consume struct {
	Query, Reference int
}

var consume = []Consume{
	CigarMatch:       {Query: 1, Reference: 1},
	CigarInsertion:   {Query: 1, Reference: 0},
	CigarDeletion:    {Query: 0, Reference: 1},
	CigarSkipped:     {Query: 0, Reference: 1},
	CigarSoftClipped: {Query: 1, Reference: 0},
	CigarHardClipped: {Query: 0, Reference: 0},
	CigarPadded:      {Query: 0, Reference: 0},
	CigarEqual:       {Query: 1, Reference: 1},
	CigarMismatch:    {Query: 1, Reference: 1},
	CigarBack:        {Query: 0, Reference: -1},
	lastCigar:        {},
}

// Consumes returns the query/reference consumption characteristics of ct.
func (ct CigarOpType) Consumes() Consume { return consume[ct] }

// String returns the single-letter string representation of ct.
func (ct CigarOpType) String() string {
	if ct < 0 || ct > lastCigar {
		ct = lastCigar
	}
	return cigarOps[ct]
}

var cigarOpTypeLookup [256]CigarOpType

func init() {
	for i := range cigarOpTypeLookup {
		cigarOpTypeLookup[i] = lastCigar
	}
	for op, c := range []byte{'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', 'X', 'B'} {
		cigarOpTypeLookup[c] = CigarOpType(op)
	}
}

var powers = []int{1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8}

func atoi(b []byte, i int) (int, error) {
	n := 0
	k := len(b) - 1
	for i, v := range b {
		if v < '0' || v > '9' {
			return 0, fmt.Errorf("%w: invalid cigar operation count %q at %d", ErrMalformedInput, b, i)
		}
		n += int(v-'0') * powers[k-i]
	}
	if n < 0 || 1<<28 <= n {
		return n, fmt.Errorf("%w: invalid cigar operation count %q at %d", ErrMalformedInput, b, i)
	}
	return n, nil
}

// ParseCigar parses a SAM CIGAR string.
func ParseCigar(b []byte) (Cigar, error) {
	if len(b) == 1 && b[0] == '*' {
		return nil, nil
	}
	var (
		c   Cigar
		op  CigarOpType
		n   int
		err error
	)
	for i := 0; i < len(b); i++ {
		for j := i; j < len(b); j++ {
			if b[j] < '0' || '9' < b[j] {
				n, err = atoi(b[i:j], i)
				if err != nil {
					return nil, err
				}
				op = cigarOpTypeLookup[b[j]]
				i = j
				break
			}
		}
		if op == lastCigar {
			return nil, fmt.Errorf("%w: failed to parse cigar string %q", ErrMalformedInput, b)
		}
		c = append(c, NewCigarOp(op, n))
	}
	return c, nil
}
