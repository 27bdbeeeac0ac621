// Copyright ©2015 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"errors"
	"io"
	"sort"

	"golang.org/x/exp/mmap"

	"github.com/PacificBiosciences/pbbam-sub000/bgzf"
	"github.com/PacificBiosciences/pbbam-sub000/sam"
)

// moleculeIndexMagic identifies a serialized MoleculeIndex file.
var moleculeIndexMagic = [4]byte{'P', 'B', 'M', 'I'}

// zmwEntrySize is the on-disk size of one IndexEntry: a 4 byte hole
// number followed by two bgzf.Offset values (8+2 bytes each).
const zmwEntrySize = 24

// IndexEntry associates a PacBio ZMW hole number with the bgzf.Chunk
// spanning that record in a BAM stream.
type IndexEntry struct {
	Hole  int32
	Chunk bgzf.Chunk
}

// Index accumulates IndexEntry values as a BAM file is scanned, and
// serializes them into a MoleculeIndex via WriteIndex. It is the
// streaming builder counterpart to the mmapped, read-only
// MoleculeIndex used for lookups.
type Index struct {
	entries []IndexEntry
}

// Add records the hole number of r, if any, against chunk, the span
// of the compressed BAM stream r was read from. Records lacking a
// PacBio hole number (SUPPLEMENTED FEATURES item, see HoleNumber) are
// silently skipped: a MoleculeIndex only serves by-molecule lookups.
func (x *Index) Add(r *sam.Record, chunk bgzf.Chunk) error {
	hole, ok := r.HoleNumber()
	if !ok {
		return nil
	}
	x.entries = append(x.entries, IndexEntry{Hole: int32(hole), Chunk: chunk})
	return nil
}

// WriteIndex writes idx to w as a MoleculeIndex: entries sorted by
// hole number and serialized as fixed-width records, so the result
// can later be opened with OpenMoleculeIndex and searched without
// reading it into memory.
func WriteIndex(w io.Writer, idx *Index) error {
	entries := append([]IndexEntry(nil), idx.entries...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Hole < entries[j].Hole })

	if _, err := w.Write(moleculeIndexMagic[:]); err != nil {
		return err
	}
	var buf [zmwEntrySize]byte
	for _, e := range entries {
		putEntry(buf[:], e)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func putEntry(buf []byte, e IndexEntry) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(e.Hole))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(e.Chunk.Begin.File))
	binary.LittleEndian.PutUint16(buf[12:14], e.Chunk.Begin.Block)
	binary.LittleEndian.PutUint64(buf[14:22], uint64(e.Chunk.End.File))
	binary.LittleEndian.PutUint16(buf[22:24], e.Chunk.End.Block)
}

func getEntry(buf []byte) IndexEntry {
	return IndexEntry{
		Hole: int32(binary.LittleEndian.Uint32(buf[0:4])),
		Chunk: bgzf.Chunk{
			Begin: bgzf.Offset{
				File:  int64(binary.LittleEndian.Uint64(buf[4:12])),
				Block: binary.LittleEndian.Uint16(buf[12:14]),
			},
			End: bgzf.Offset{
				File:  int64(binary.LittleEndian.Uint64(buf[14:22])),
				Block: binary.LittleEndian.Uint16(buf[22:24]),
			},
		},
	}
}

// MoleculeIndex is a read-only table mapping PacBio ZMW hole numbers
// to the bgzf.Chunk of their record in a BAM file. The table is
// accessed via a memory-mapped file (golang.org/x/exp/mmap, following
// the same approach the fai package uses for random access into large
// sequence files), so opening an index too large to comfortably fit
// in memory is cheap and lookups only page in the entries touched.
type MoleculeIndex struct {
	f *mmap.ReaderAt
	n int
}

// OpenMoleculeIndex memory-maps the MoleculeIndex file at path.
func OpenMoleculeIndex(path string) (*MoleculeIndex, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	if f.Len() < len(moleculeIndexMagic) {
		f.Close()
		return nil, errors.New("bam: truncated molecule index")
	}
	var magic [4]byte
	if _, err := f.ReadAt(magic[:], 0); err != nil {
		f.Close()
		return nil, err
	}
	if magic != moleculeIndexMagic {
		f.Close()
		return nil, errors.New("bam: not a molecule index")
	}
	body := f.Len() - len(moleculeIndexMagic)
	if body%zmwEntrySize != 0 {
		f.Close()
		return nil, errors.New("bam: corrupt molecule index")
	}
	return &MoleculeIndex{f: f, n: body / zmwEntrySize}, nil
}

// Close closes the underlying memory-mapped file. Entries obtained
// from the index must not be used after Close has been called.
func (m *MoleculeIndex) Close() error {
	return m.f.Close()
}

// Len returns the number of entries in the index.
func (m *MoleculeIndex) Len() int { return m.n }

func (m *MoleculeIndex) entryAt(i int) (IndexEntry, error) {
	var buf [zmwEntrySize]byte
	off := int64(len(moleculeIndexMagic) + i*zmwEntrySize)
	if _, err := m.f.ReadAt(buf[:], off); err != nil {
		return IndexEntry{}, err
	}
	return getEntry(buf[:]), nil
}

// Lookup returns the Chunk recorded for the given ZMW hole number,
// and whether it was found, using binary search over the mmapped
// table (entries are written in sorted order by WriteIndex).
func (m *MoleculeIndex) Lookup(hole int32) (bgzf.Chunk, bool) {
	lo, hi := 0, m.n
	for lo < hi {
		mid := (lo + hi) / 2
		e, err := m.entryAt(mid)
		if err != nil {
			return bgzf.Chunk{}, false
		}
		switch {
		case e.Hole == hole:
			return e.Chunk, true
		case e.Hole < hole:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return bgzf.Chunk{}, false
}

// ZmwReader reads BAM records by ZMW hole number at random, consulting
// a MoleculeIndex to seek directly to each requested molecule's chunk
// instead of scanning the file, realizing the "optionally consulting
// a MoleculeIndex for random access" behavior of sam.ZmwQuery at the
// BAM level, where seeking is meaningful.
type ZmwReader struct {
	r   *Reader
	idx *MoleculeIndex
}

// NewZmwReader returns a ZmwReader reading records from r, whose
// compressed offsets are resolved against idx.
func NewZmwReader(r *Reader, idx *MoleculeIndex) *ZmwReader {
	return &ZmwReader{r: r, idx: idx}
}

// Read returns the record for the given ZMW hole number, seeking
// directly to it via the MoleculeIndex.
func (z *ZmwReader) Read(hole int32) (*sam.Record, error) {
	chunk, ok := z.idx.Lookup(hole)
	if !ok {
		return nil, errors.New("bam: hole number not present in molecule index")
	}
	if err := z.r.SetChunk(&chunk); err != nil {
		return nil, err
	}
	return z.r.Read()
}
