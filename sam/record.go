// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/kortschak/utter"
)

// Record represents a SAM/BAM record, including the PacBio tags that
// ride along in its tag block (spec §3, "Record"; spec §4.5, "Record
// Core"). The fixed-width alignment fields (Ref, Pos, MapQ, Flags,
// MateRef, MatePos, TempLen) are ordinary struct fields; the
// variable-length portion (name, CIGAR, packed sequence, qualities,
// tags) lives in a single contiguous buffer, sectioned
// name|cigar|seq|qual|tags and addressed by the length counters
// alongside it. Mutating any section repacks the whole buffer rather
// than leaving stale bytes between sections.
type Record struct {
	Ref     *Reference
	Pos     int
	MapQ    byte
	Flags   Flags
	MateRef *Reference
	MatePos int
	TempLen int

	buf      []byte
	nameLen  int // name length, excluding the wire NUL terminator
	cigarLen int // number of CigarOps
	seqLen   int // number of bases
	auxLen   int // tag block length in bytes
}

// recordNamePattern matches the PacBio record name conventions (spec
// §6) "movie/hole/qs_qe" and "movie/hole/ccs". Names of the form
// "transcript/id" do not match it.
var recordNamePattern = regexp.MustCompile(`^([^/]+)/(\d+)/(?:(\d+)_(\d+)|ccs)$`)

// nextPow2 returns the smallest power of two not less than n, or 0
// for n <= 0. The record's variable-length buffer is always grown to
// this capacity so repeated small mutations don't reallocate on every
// call (spec §4.5, "in-place resize").
func nextPow2(n int) int {
	if n <= 0 {
		return 0
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func encodeCigarBytes(c Cigar) []byte {
	b := make([]byte, len(c)*4)
	for i, co := range c {
		binary.LittleEndian.PutUint32(b[i*4:(i+1)*4], uint32(co))
	}
	return b
}

func decodeCigarBytes(b []byte) Cigar {
	c := make(Cigar, len(b)/4)
	for i := range c {
		c[i] = CigarOp(binary.LittleEndian.Uint32(b[i*4 : (i+1)*4]))
	}
	return c
}

func doubletBytes(d []Doublet) []byte {
	b := make([]byte, len(d))
	for i, v := range d {
		b[i] = byte(v)
	}
	return b
}

func bytesToDoublets(b []byte) []Doublet {
	d := make([]Doublet, len(b))
	for i, v := range b {
		d[i] = Doublet(v)
	}
	return d
}

// offsets returns the byte offsets of the start of each section and
// the start of the (one past the end) tag section.
func (r *Record) offsets() (nameOff, cigarOff, seqOff, qualOff, auxOff int) {
	nameOff = 0
	cigarOff = r.nameLen
	seqOff = cigarOff + r.cigarLen*4
	qualOff = seqOff + (r.seqLen+1)>>1
	auxOff = qualOff + r.seqLen
	return
}

// repack rebuilds the record's variable-length buffer from its five
// logical sections, growing the backing array to the next power of
// two when it no longer fits (spec §4.5). Every setter funnels
// through this, so there is never a window where the buffer holds a
// mix of old and new section lengths.
func (r *Record) repack(name []byte, cigar Cigar, seq Seq, qual []byte, aux AuxFields) error {
	if len(name) == 0 || len(name) > 254 {
		return fmt.Errorf("%w: name absent or too long", ErrInvalidValue)
	}
	cigarBytes := encodeCigarBytes(cigar)
	seqBytes := doubletBytes(seq.Seq)
	var auxBytes []byte
	for _, a := range aux {
		auxBytes = append(auxBytes, a...)
	}
	total := len(name) + len(cigarBytes) + len(seqBytes) + len(qual) + len(auxBytes)
	if cap(r.buf) < total {
		r.buf = make([]byte, nextPow2(total))
	} else {
		r.buf = r.buf[:cap(r.buf)]
	}
	n := copy(r.buf, name)
	n += copy(r.buf[n:], cigarBytes)
	n += copy(r.buf[n:], seqBytes)
	n += copy(r.buf[n:], qual)
	n += copy(r.buf[n:], auxBytes)
	r.buf = r.buf[:total]

	r.nameLen = len(name)
	r.cigarLen = len(cigar)
	r.seqLen = seq.Length
	r.auxLen = len(auxBytes)
	_ = n
	return nil
}

// Name returns the record's query name.
func (r *Record) Name() string {
	nameOff, cigarOff, _, _, _ := r.offsets()
	return string(r.buf[nameOff:cigarOff])
}

// SetName replaces the record's query name, repacking the buffer.
func (r *Record) SetName(name string) error {
	return r.repack([]byte(name), r.Cigar(), r.Seq(), r.Qual(), r.AuxFields())
}

// Cigar returns the record's CIGAR operations.
func (r *Record) Cigar() Cigar {
	_, cigarOff, seqOff, _, _ := r.offsets()
	return decodeCigarBytes(r.buf[cigarOff:seqOff])
}

// SetCigar replaces the record's CIGAR operations, repacking the
// buffer. It does not recompute Pos or the BAM bin; callers that
// change the alignment extent should do so via the Builder or
// Clipping Engine.
func (r *Record) SetCigar(c Cigar) error {
	return r.repack([]byte(r.Name()), c, r.Seq(), r.Qual(), r.AuxFields())
}

// Seq returns the record's packed sequence.
func (r *Record) Seq() Seq {
	_, _, seqOff, qualOff, _ := r.offsets()
	return Seq{Length: r.seqLen, Seq: bytesToDoublets(r.buf[seqOff:qualOff])}
}

// SetSeq replaces the record's sequence, repacking the buffer. The
// existing quality string is truncated or zero-extended with 0xff
// ("missing") sentinels to match the new length, mirroring
// UnmarshalSAM's treatment of an absent QUAL field.
func (r *Record) SetSeq(s Seq) error {
	qual := r.Qual()
	if len(qual) != s.Length {
		q := make([]byte, s.Length)
		for i := range q {
			q[i] = 0xff
		}
		copy(q, qual)
		qual = q
	}
	return r.repack([]byte(r.Name()), r.Cigar(), s, qual, r.AuxFields())
}

// Qual returns the record's per-base quality values (Phred scale, no
// ASCII offset). The returned slice aliases the record's buffer and
// is only valid until the next mutation.
func (r *Record) Qual() []byte {
	_, _, _, qualOff, auxOff := r.offsets()
	return r.buf[qualOff:auxOff]
}

// SetQual replaces the record's quality values, repacking the buffer.
// len(q) must equal the current sequence length.
func (r *Record) SetQual(q []byte) error {
	if len(q) != r.seqLen {
		return fmt.Errorf("%w: sequence/quality length mismatch", ErrInvalidValue)
	}
	return r.repack([]byte(r.Name()), r.Cigar(), r.Seq(), q, r.AuxFields())
}

// parseAuxBytes splits a concatenated tag block into individual Aux
// values, each aliasing a sub-slice of b. Grounded on bam.parseAux's
// jump-table walk over the binary tag encoding.
func parseAuxBytes(b []byte) AuxFields {
	var aa AuxFields
	for len(b) > 0 {
		n, err := auxLen(b)
		if err != nil || n <= 0 || n > len(b) {
			break
		}
		aa = append(aa, Aux(b[:n:n]))
		b = b[n:]
	}
	return aa
}

// AuxFields returns the record's auxiliary tags, decoded from the tag
// block.
func (r *Record) AuxFields() AuxFields {
	_, _, _, _, auxOff := r.offsets()
	return parseAuxBytes(r.buf[auxOff:])
}

// SetAuxFields replaces the record's auxiliary tags, repacking the
// buffer.
func (r *Record) SetAuxFields(aux AuxFields) error {
	return r.repack([]byte(r.Name()), r.Cigar(), r.Seq(), r.Qual(), aux)
}

// SetVariableData replaces all five variable-length sections at once,
// repacking the buffer exactly once. It exists so that decoders (e.g.
// bam.Reader.Read) that already have every section in hand don't pay
// for four incremental repacks.
func (r *Record) SetVariableData(name string, cigar Cigar, seq Seq, qual []byte, aux AuxFields) error {
	return r.repack([]byte(name), cigar, seq, qual, aux)
}

// Tags decodes the record's tag block into a TagCollection, the
// richer tagged-union representation used by the record API, clipping
// engine, builder and validator (spec §3's "Tag"/"TagCollection").
// AuxFields remains the record's canonical on-the-wire storage;
// Tags/SetTags bridge the two so the PacBio-level components can work
// with TagValue without a second binary-layout implementation.
func (r *Record) Tags() (*TagCollection, error) {
	var buf []byte
	for _, a := range r.AuxFields() {
		buf = append(buf, a...)
	}
	return DecodeTagCollection(buf)
}

// SetTags re-encodes c and replaces the record's tag block with the
// result.
func (r *Record) SetTags(c *TagCollection) error {
	buf, err := c.EncodeBinary(nil)
	if err != nil {
		return err
	}
	var aux AuxFields
	for len(buf) > 0 {
		n, err := auxLen(buf)
		if err != nil {
			return err
		}
		aux = append(aux, Aux(buf[:n]))
		buf = buf[n:]
	}
	return r.SetAuxFields(aux)
}

// auxLen returns the length in bytes of the single encoded Aux tag at
// the head of b.
func auxLen(b []byte) (int, error) {
	if len(b) < 3 {
		return 0, fmt.Errorf("%w: truncated tag header", ErrMalformedInput)
	}
	switch b[2] {
	case 'A', 'c', 'C':
		return 4, nil
	case 's', 'S':
		return 5, nil
	case 'i', 'I', 'f':
		return 7, nil
	case 'Z', 'H':
		i := 3
		for i < len(b) && b[i] != 0 {
			i++
		}
		if i == len(b) {
			return 0, fmt.Errorf("%w: unterminated string tag", ErrMalformedInput)
		}
		return i + 1, nil
	case 'B':
		if len(b) < 8 {
			return 0, fmt.Errorf("%w: truncated array tag header", ErrMalformedInput)
		}
		n := int(uint32(b[4]) | uint32(b[5])<<8 | uint32(b[6])<<16 | uint32(b[7])<<24)
		elemSize := map[byte]int{'c': 1, 'C': 1, 's': 2, 'S': 2, 'i': 4, 'I': 4, 'f': 4}[b[3]]
		if elemSize == 0 {
			return 0, fmt.Errorf("%w: unknown array element type %q", ErrUnsupportedFeature, b[3])
		}
		return 8 + n*elemSize, nil
	}
	return 0, fmt.Errorf("%w: unknown tag type %q", ErrUnsupportedFeature, b[2])
}

// auxInt returns the value of an integer aux field, whichever integer
// width it was encoded with.
func auxInt(a Aux) (int, bool) {
	switch n := a.Value().(type) {
	case int8:
		return int(n), true
	case uint8:
		return int(n), true
	case int16:
		return int(n), true
	case uint16:
		return int(n), true
	case int32:
		return int(n), true
	case uint32:
		return int(n), true
	}
	return 0, false
}

// HoleNumber returns the record's ZMW hole number, preferring the "zm"
// tag and falling back to parsing Name (spec §6).
func (r *Record) HoleNumber() (int, bool) {
	if a, ok := r.Tag([]byte("zm")); ok {
		if n, ok := auxInt(a); ok {
			return n, true
		}
	}
	m := recordNamePattern.FindStringSubmatch(r.Name())
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

// QueryBounds returns the record's query start/end, preferring the
// "qs"/"qe" tags and falling back to parsing Name (spec §6).
func (r *Record) QueryBounds() (start, end int, ok bool) {
	qsA, qsOK := r.Tag([]byte("qs"))
	qeA, qeOK := r.Tag([]byte("qe"))
	if qsOK && qeOK {
		s, sok := auxInt(qsA)
		e, eok := auxInt(qeA)
		if sok && eok {
			return s, e, true
		}
	}
	m := recordNamePattern.FindStringSubmatch(r.Name())
	if m == nil || m[3] == "" {
		return 0, 0, false
	}
	s, err1 := strconv.Atoi(m[3])
	e, err2 := strconv.Atoi(m[4])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return s, e, true
}

// NewRecord returns a Record, checking for consistency of the provided
// attributes.
func NewRecord(name string, ref, mRef *Reference, p, mPos, tLen int, mapQ byte, co []CigarOp, seq, qual []byte, aux []Aux) (*Record, error) {
	if !(validPos(p) && validPos(mPos) && validTmpltLen(tLen) && (len(seq) == 0 || validLen(len(seq))) && (qual == nil || validLen(len(qual)))) {
		return nil, errors.New("sam: value out of range")
	}
	if len(name) == 0 || len(name) > 254 {
		return nil, errors.New("sam: name absent or too long")
	}
	if qual != nil && len(qual) != len(seq) {
		return nil, errors.New("sam: sequence/quality length mismatch")
	}
	if ref != nil {
		if ref.id < 0 {
			return nil, errors.New("sam: linking to invalid reference")
		}
	} else {
		if p != -1 {
			return nil, errors.New("sam: specified position != -1 without reference")
		}
	}
	if mRef != nil {
		if mRef.id < 0 {
			return nil, errors.New("sam: linking to invalid mate reference")
		}
	} else {
		if mPos != -1 {
			return nil, errors.New("sam: specified mate position != -1 without mate reference")
		}
	}
	r := &Record{
		Ref:     ref,
		Pos:     p,
		MapQ:    mapQ,
		MateRef: mRef,
		MatePos: mPos,
		TempLen: tLen,
	}
	if err := r.repack([]byte(name), Cigar(co), NewSeq(seq), qual, AuxFields(aux)); err != nil {
		return nil, err
	}
	return r, nil
}

// IsValidRecord returns whether the record satisfies the conditions that
// it has the Unmapped flag set if it not placed; that the MateUnmapped
// flag is set if it paired its mate is unplaced; that the CIGAR length
// matches the sequence and quality string lengths if they are non-zero; and
// that the Paired, ProperPair, Unmapped and MateUnmapped flags are consistent.
func IsValidRecord(r *Record) bool {
	if (r.Ref == nil || r.Pos == -1) && r.Flags&Unmapped == 0 {
		return false
	}
	if r.Flags&Paired != 0 && (r.MateRef == nil || r.MatePos == -1) && r.Flags&MateUnmapped == 0 {
		return false
	}
	if r.Flags&(Unmapped|ProperPair) == Unmapped|ProperPair {
		return false
	}
	if r.Flags&(Paired|MateUnmapped|ProperPair) == Paired|MateUnmapped|ProperPair {
		return false
	}
	seq, qual := r.Seq(), r.Qual()
	if len(qual) != 0 && seq.Length != len(qual) {
		return false
	}
	if cigarLen := r.Len(); cigarLen < 0 || (seq.Length != 0 && seq.Length != cigarLen) {
		return false
	}
	return true
}

// Tag returns an Aux tag whose tag ID matches the first two bytes of tag and true.
// If no tag matches, nil and false are returned.
func (r *Record) Tag(tag []byte) (v Aux, ok bool) {
	if len(tag) < 2 {
		panic("sam: tag too short")
	}
	for _, aux := range r.AuxFields() {
		if aux.matches(tag) {
			return aux, true
		}
	}
	return nil, false
}

// RefID returns the reference ID for the Record.
func (r *Record) RefID() int {
	return r.Ref.ID()
}

// Start returns the lower-coordinate end of the alignment.
func (r *Record) Start() int {
	return r.Pos
}

// Bin returns the BAM index bin of the record.
func (r *Record) Bin() int {
	if r.Flags&Unmapped != 0 {
		return int(reg2bin(-1, 0))
	}
	pos, end := r.Pos, r.End()
	if !validPos(pos) || !validPos(end) {
		return -1
	}
	return int(reg2bin(pos, end))
}

// Len returns the length of the alignment.
func (r *Record) Len() int {
	return r.End() - r.Start()
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}

// End returns the highest reference-consuming coordinate end of the alignment.
// The position returned by End is not valid if r.Cigar().IsValid(r.Seq().Length)
// is false.
func (r *Record) End() int {
	pos := r.Pos
	end := pos
	for _, co := range r.Cigar() {
		pos += co.Len() * co.Type().Consumes().Reference
		end = max(end, pos)
	}
	return end
}

// Strand returns an int8 indicating the strand of the alignment. A positive return indicates
// alignment in the forward orientation, a negative returns indicates alignment in the reverse
// orientation.
func (r *Record) Strand() int8 {
	if r.Flags&Reverse == Reverse {
		return -1
	}
	return 1
}

// LessByName returns true if the receiver sorts by record name before other.
func (r *Record) LessByName(other *Record) bool {
	return r.Name() < other.Name()
}

// LessByCoordinate returns true if the receiver sorts by coordinate before
// other according to the SAM specification.
func (r *Record) LessByCoordinate(other *Record) bool {
	rRefName := r.Ref.Name()
	oRefName := other.Ref.Name()
	switch {
	case oRefName == "*":
		return true
	case rRefName == "*":
		return false
	}
	return (rRefName < oRefName) || (rRefName == oRefName && r.Pos < other.Pos)
}

// String returns a string representation of the Record.
func (r *Record) String() string {
	end := r.End()
	return fmt.Sprintf("%s %v %v %d %s:%d..%d (%d) %d %s:%d %d %s %v %v",
		r.Name(),
		r.Flags,
		r.Cigar(),
		r.MapQ,
		r.Ref.Name(),
		r.Pos,
		end,
		r.Bin(),
		end-r.Pos,
		r.MateRef.Name(),
		r.MatePos,
		r.TempLen,
		r.Seq().Expand(),
		r.Qual(),
		r.AuxFields(),
	)
}

// Dump returns a field-by-field pretty-printed representation of r,
// for diagnostic logging where String's single-line SAM rendering
// loses structure (nested tag arrays, the underlying buffer split
// points). Grounded on cram_test.go's utter.Sdump usage.
func (r *Record) Dump() string {
	return utter.Sdump(r)
}

// UnmarshalText implements the encoding.TextUnmarshaler. It calls UnmarshalSAM with
// a nil Header.
func (r *Record) UnmarshalText(b []byte) error {
	return r.UnmarshalSAM(nil, b)
}

// UnmarshalSAM parses a SAM format alignment line in the provided []byte, using
// references from the provided Header. If a nil Header is passed to UnmarshalSAM
// and the SAM data include non-empty refence and mate reference names, fake
// references with zero length and an ID of -1 are created to hold the reference
// names.
func (r *Record) UnmarshalSAM(h *Header, b []byte) error {
	f := bytes.Split(b, []byte{'\t'})
	if len(f) < 11 {
		return errors.New("sam: missing SAM fields")
	}
	name := string(f[0])
	// TODO(kortschak): Consider parsing string format flags.
	flags, err := strconv.ParseUint(string(f[1]), 0, 16)
	if err != nil {
		return fmt.Errorf("sam: failed to parse flags: %v", err)
	}
	ref, err := referenceForName(h, string(f[2]))
	if err != nil {
		return fmt.Errorf("sam: failed to assign reference: %v", err)
	}
	pos, err := strconv.Atoi(string(f[3]))
	pos--
	if err != nil {
		return fmt.Errorf("sam: failed to parse position: %v", err)
	}
	mapQ, err := strconv.ParseUint(string(f[4]), 10, 8)
	if err != nil {
		return fmt.Errorf("sam: failed to parse map quality: %v", err)
	}
	cigar, err := ParseCigar(f[5])
	if err != nil {
		return fmt.Errorf("sam: failed to parse cigar string: %v", err)
	}
	var mateRef *Reference
	if bytes.Equal(f[2], f[6]) || bytes.Equal(f[6], []byte{'='}) {
		mateRef = ref
	} else {
		mateRef, err = referenceForName(h, string(f[6]))
		if err != nil {
			return fmt.Errorf("sam: failed to assign mate reference: %v", err)
		}
	}
	matePos, err := strconv.Atoi(string(f[7]))
	matePos--
	if err != nil {
		return fmt.Errorf("sam: failed to parse mate position: %v", err)
	}
	tempLen, err := strconv.Atoi(string(f[8]))
	if err != nil {
		return fmt.Errorf("sam: failed to parse template length: %v", err)
	}
	var seq Seq
	if !bytes.Equal(f[9], []byte{'*'}) {
		seq = NewSeq(f[9])
		if !cigar.IsValid(seq.Length) {
			return errors.New("sam: sequence/CIGAR length mismatch")
		}
	}
	var qual []byte
	if !bytes.Equal(f[10], []byte{'*'}) {
		qual = append(qual, f[10]...)
		for i := range qual {
			qual[i] -= 33
		}
	} else if seq.Length != 0 {
		qual = make([]byte, seq.Length)
		for i := range qual {
			qual[i] = 0xff
		}
	}
	if len(qual) != 0 && len(qual) != seq.Length {
		return errors.New("sam: sequence/quality length mismatch")
	}
	var aux AuxFields
	for _, a := range f[11:] {
		pa, err := ParseAux(a)
		if err != nil {
			return err
		}
		aux = append(aux, pa)
	}
	*r = Record{Ref: ref, Pos: pos, MapQ: byte(mapQ), Flags: Flags(flags), MateRef: mateRef, MatePos: matePos, TempLen: tempLen}
	return r.repack([]byte(name), cigar, seq, qual, aux)
}

func referenceForName(h *Header, name string) (*Reference, error) {
	if name == "*" {
		return nil, nil
	}
	if h == nil {
		// If we don't have a Header, return a fake Reference.
		return &Reference{
			id:   -1,
			name: name,
		}, nil
	}

	for _, r := range h.refs {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no reference with name %q", name)
}

// MarshalText implements encoding.TextMarshaler. It calls MarshalSAM with FlagDecimal.
func (r *Record) MarshalText() ([]byte, error) {
	return r.MarshalSAM(0)
}

// MarshalSAM formats a Record as SAM using the specified flag format. Acceptable
// formats are FlagDecimal, FlagHex and FlagString.
func (r *Record) MarshalSAM(flags int) ([]byte, error) {
	if flags < FlagDecimal || flags > FlagString {
		return nil, errors.New("sam: flag format option out of range")
	}
	seq, qual := r.Seq(), r.Qual()
	if qual != nil && len(qual) != seq.Length {
		return nil, errors.New("sam: sequence/quality length mismatch")
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\t%v\t%s\t%d\t%d\t%s\t%s\t%d\t%d\t%s\t%s",
		r.Name(),
		formatFlags(r.Flags, flags),
		r.Ref.Name(),
		r.Pos+1,
		r.MapQ,
		r.Cigar(),
		formatMate(r.Ref, r.MateRef),
		r.MatePos+1,
		r.TempLen,
		formatSeq(seq),
		formatQual(qual),
	)
	for _, t := range r.AuxFields() {
		fmt.Fprintf(&buf, "\t%v", samAux(t))
	}
	return buf.Bytes(), nil
}

// Flag format constants.
const (
	FlagDecimal = iota
	FlagHex
	FlagString
)

func formatFlags(f Flags, format int) interface{} {
	switch format {
	case FlagDecimal:
		return uint16(f)
	case FlagHex:
		return fmt.Sprintf("0x%x", f)
	case FlagString:
		// If 0x01 is unset, no assumptions can be made about 0x02, 0x08, 0x20, 0x40 and 0x80
		const pairedMask = ProperPair | MateUnmapped | MateReverse | MateReverse | Read1 | Read2
		if f&1 == 0 {
			f &^= pairedMask
		}

		const flags = "pPuUrR12sfdS"

		b := make([]byte, 0, len(flags))
		for i, c := range flags {
			if f&(1<<uint(i)) != 0 {
				b = append(b, byte(c))
			}
		}

		return string(b)
	default:
		panic("sam: invalid flag format")
	}
}

func formatMate(ref, mate *Reference) string {
	if mate != nil && ref == mate {
		return "="
	}
	return mate.Name()
}

func formatSeq(s Seq) []byte {
	if s.Length == 0 {
		return []byte{'*'}
	}
	return s.Expand()
}

func formatQual(q []byte) []byte {
	for _, v := range q {
		if v != 0xff {
			a := make([]byte, len(q))
			for i, p := range q {
				a[i] = p + 33
			}
			return a
		}
	}
	return []byte{'*'}
}

// Doublet is a nybble-encode pair of nucleotide bases.
type Doublet byte

// Seq is a nybble-encode pair of nucleotide sequence.
type Seq struct {
	Length int
	Seq    []Doublet
}

var (
	n16TableRev = [16]byte{'=', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N'}
	n16Table    = [256]Doublet{
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0x1, 0x2, 0x4, 0x8, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0x0, 0xf, 0xf,
		0xf, 0x1, 0xe, 0x2, 0xd, 0xf, 0xf, 0x4, 0xb, 0xf, 0xf, 0xc, 0xf, 0x3, 0xf, 0xf,
		0xf, 0xf, 0x5, 0x6, 0x8, 0xf, 0x7, 0x9, 0xf, 0xa, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0x1, 0xe, 0x2, 0xd, 0xf, 0xf, 0x4, 0xb, 0xf, 0xf, 0xc, 0xf, 0x3, 0xf, 0xf,
		0xf, 0xf, 0x5, 0x6, 0x8, 0xf, 0x7, 0x9, 0xf, 0xa, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
		0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf, 0xf,
	}
)

// NewSeq returns a new Seq based on the given byte slice.
func NewSeq(s []byte) Seq {
	return Seq{
		Length: len(s),
		Seq:    contract(s),
	}
}

func contract(s []byte) []Doublet {
	ns := make([]Doublet, (len(s)+1)>>1)
	var np Doublet
	for i, b := range s {
		if i&1 == 0 {
			np = n16Table[b] << 4
		} else {
			ns[i>>1] = np | n16Table[b]
		}
	}
	// We haven't written the last base if the
	// sequence was odd length, so do that now.
	if len(s)&1 != 0 {
		ns[len(ns)-1] = np
	}
	return ns
}

// Expand returns the byte encoded form of the receiver.
func (ns Seq) Expand() []byte {
	s := make([]byte, ns.Length)
	for i := range s {
		if i&1 == 0 {
			s[i] = n16TableRev[ns.Seq[i>>1]>>4]
		} else {
			s[i] = n16TableRev[ns.Seq[i>>1]&0xf]
		}
	}

	return s
}
