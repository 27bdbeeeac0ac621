// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// readGroupIDPattern matches the canonical read group ID format: an
// 8-character lowercase hex digest, with an optional barcode suffix
// (spec §4.4, §6).
var readGroupIDPattern = regexp.MustCompile(`^[0-9a-f]{8}(/(\d+)--(\d+))?$`)

// DeriveReadGroupID returns the 8 hex character read group ID for the
// given movie name and read type, computed as the first 8 hex
// characters of MD5(movieName + "//" + readType) (spec §3, §6).
func DeriveReadGroupID(movieName string, readType RecordType) string {
	sum := md5.Sum([]byte(movieName + "//" + readType.String()))
	return hex.EncodeToString(sum[:])[:8]
}

// ParseReadGroupID validates id against the canonical format and
// returns its barcode suffix, if any.
func ParseReadGroupID(id string) (base string, forward, reverse int, hasBarcode bool, err error) {
	m := readGroupIDPattern.FindStringSubmatch(id)
	if m == nil {
		return "", 0, 0, false, fmt.Errorf("%w: malformed read group id %q", ErrMalformedInput, id)
	}
	base = id[:8]
	if m[1] == "" {
		return base, 0, 0, false, nil
	}
	forward, _ = strconv.Atoi(m[2])
	reverse, _ = strconv.Atoi(m[3])
	return base, forward, reverse, true, nil
}

// SetMovieName sets the read group's PacBio movie name, used both for
// ID derivation and the default record-name prefix (spec §6).
func (r *ReadGroup) SetMovieName(name string) { r.movieName = name }

// SetID validates and stores a full read group ID (base plus optional
// barcode suffix), recomputing the barcode pair (spec §4.4, "Setting
// the ID recomputes the base part and barcodes").
func (r *ReadGroup) SetID(id string) error {
	_, fwd, rev, hasBarcode, err := ParseReadGroupID(id)
	if err != nil {
		return err
	}
	r.name = id
	r.barcodeForward, r.barcodeReverse, r.hasBarcode = fwd, rev, hasBarcode
	return nil
}

// dsKnownKeys fixes the encode order of known DS sub-fields so
// round-tripping a read group is stable.
var dsKnownKeys = []string{
	"READTYPE", "BINDINGKIT", "SEQUENCINGKIT", "BASECALLERVERSION",
	"FRAMERATEHZ", "CONTROL",
}

// ParseDS parses a read group's DS field, a ";"-separated list of
// "key=value" pairs, into r's PacBio attributes (spec §4.4). Any other
// key whose value is two characters long is stored as a base-feature
// mapping (e.g. "DeletionQV=dq"); any other key with a value of a
// different length is rejected with ErrUnsupportedFeature.
func (r *ReadGroup) ParseDS(ds string) error {
	r.baseFeatures = make(map[string]Tag)
	for _, field := range strings.Split(ds, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("%w: malformed DS field %q", ErrMalformedInput, field)
		}
		key, value := kv[0], kv[1]
		switch {
		case key == "READTYPE":
			rt, ok := ParseRecordType(value)
			if !ok {
				return fmt.Errorf("%w: unknown READTYPE %q", ErrUnsupportedFeature, value)
			}
			r.readType = rt
		case key == "BINDINGKIT":
			r.bindingKit = value
		case key == "SEQUENCINGKIT":
			r.sequencingKit = value
		case key == "BASECALLERVERSION":
			r.basecallerVersion = value
		case key == "FRAMERATEHZ":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%w: malformed FRAMERATEHZ %q", ErrMalformedInput, value)
			}
			r.frameRateHz = f
		case key == "CONTROL":
			r.control = value == "1" || strings.EqualFold(value, "true")
		case key == "BarcodeFile":
			r.barcodeFile = value
		case key == "BarcodeHash":
			r.barcodeHash = value
		case key == "BarcodeCount":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: malformed BarcodeCount %q", ErrMalformedInput, value)
			}
			r.barcodeCount = n
		case key == "BarcodeMode":
			r.barcodeMode = value
		case key == "BarcodeQuality":
			r.barcodeQuality = value
		case strings.HasPrefix(key, "Ipd:"):
			codec, err := ParseFrameCodec(strings.TrimPrefix(key, "Ipd:"))
			if err != nil {
				return err
			}
			r.ipdCodec = codec
		case strings.HasPrefix(key, "PulseWidth:"):
			codec, err := ParseFrameCodec(strings.TrimPrefix(key, "PulseWidth:"))
			if err != nil {
				return err
			}
			r.pulseWidthCodec = codec
		default:
			// A base-feature mapping, e.g. "DeletionQV=dq".
			if len(value) == 2 {
				r.baseFeatures[key] = Tag{value[0], value[1]}
				continue
			}
			return fmt.Errorf("%w: unrecognized DS key %q", ErrUnsupportedFeature, key)
		}
	}
	return nil
}

// FormatDS renders r's PacBio attributes back into a DS field string,
// in the fixed key order dsKnownKeys followed by any frame codec and
// base-feature entries, then barcode block fields.
func (r *ReadGroup) FormatDS() string {
	var b strings.Builder
	write := func(k, v string) {
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	if r.readType != UnknownType {
		write("READTYPE", r.readType.String())
	}
	if r.bindingKit != "" {
		write("BINDINGKIT", r.bindingKit)
	}
	if r.sequencingKit != "" {
		write("SEQUENCINGKIT", r.sequencingKit)
	}
	if r.basecallerVersion != "" {
		write("BASECALLERVERSION", r.basecallerVersion)
	}
	if r.frameRateHz != 0 {
		write("FRAMERATEHZ", strconv.FormatFloat(r.frameRateHz, 'f', -1, 64))
	}
	if r.control {
		write("CONTROL", "1")
	}
	write("Ipd:"+r.ipdCodec.String(), "ip")
	write("PulseWidth:"+r.pulseWidthCodec.String(), "pw")
	for k, v := range r.baseFeatures {
		write(k, v.String())
	}
	if r.barcodeFile != "" {
		write("BarcodeFile", r.barcodeFile)
	}
	if r.barcodeHash != "" {
		write("BarcodeHash", r.barcodeHash)
	}
	if r.barcodeCount != 0 {
		write("BarcodeCount", strconv.Itoa(r.barcodeCount))
	}
	if r.barcodeMode != "" {
		write("BarcodeMode", r.barcodeMode)
	}
	if r.barcodeQuality != "" {
		write("BarcodeQuality", r.barcodeQuality)
	}
	return b.String()
}

// ValidateID reports whether r's ID matches the value derived from
// its movie name and read type, per spec §4.10's read-group rules.
func (r *ReadGroup) ValidateID() error {
	want := DeriveReadGroupID(r.movieName, r.readType)
	base, _, _, _, err := ParseReadGroupID(r.name)
	if err != nil {
		return err
	}
	if base != want {
		return fmt.Errorf("%w: read group id %q does not match derived id %q for movie %q type %v",
			ErrInvariantViolated, base, want, r.movieName, r.readType)
	}
	return nil
}
