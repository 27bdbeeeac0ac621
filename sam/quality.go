// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "fmt"

// maxQuality is the highest representable Phred quality value (spec §3).
const maxQuality = 93

// QualityValues is a sequence of Phred quality values in [0, 93],
// stored internally as raw bytes. The FASTQ text form of a value is
// the raw byte plus 33.
type QualityValues []byte

// NewQualityValues validates and returns a QualityValues built from
// raw Phred-scale bytes.
func NewQualityValues(raw []byte) (QualityValues, error) {
	for i, v := range raw {
		if v > maxQuality {
			return nil, fmt.Errorf("%w: quality value %d at position %d exceeds %d", ErrInvalidValue, v, i, maxQuality)
		}
	}
	return QualityValues(raw), nil
}

// ParseFASTQ decodes b, a FASTQ-encoded quality string (each byte is
// the Phred value plus 33), into raw Phred-scale QualityValues.
func ParseFASTQ(b []byte) (QualityValues, error) {
	raw := make([]byte, len(b))
	for i, c := range b {
		if c < 33 {
			return nil, fmt.Errorf("%w: fastq quality byte %d at position %d below 33", ErrMalformedInput, c, i)
		}
		v := c - 33
		if v > maxQuality {
			return nil, fmt.Errorf("%w: quality value %d at position %d exceeds %d", ErrInvalidValue, v, i, maxQuality)
		}
		raw[i] = v
	}
	return QualityValues(raw), nil
}

// FASTQ returns q re-encoded in FASTQ text form (raw byte plus 33).
func (q QualityValues) FASTQ() []byte {
	b := make([]byte, len(q))
	for i, v := range q {
		b[i] = v + 33
	}
	return b
}

// Reverse returns q with its values in reverse order, used when
// projecting a quality array between native and genomic orientation.
func (q QualityValues) Reverse() QualityValues {
	out := make(QualityValues, len(q))
	for i, v := range q {
		out[len(q)-1-i] = v
	}
	return out
}
