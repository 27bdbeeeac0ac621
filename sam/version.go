// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a three-component "major.minor.revision" version number,
// used for the SAM VN tag and the PacBio BAM "pb" header tag (spec's
// SUPPLEMENTED FEATURES item 2, grounded on Version.cpp's
// component-wise comparison).
type Version struct {
	Major, Minor, Revision int
}

// minPacBioVersion is the minimum "pb" header tag version this module
// accepts (spec §4.4).
var minPacBioVersion = Version{3, 0, 1}

// ParseVersion parses a "major.minor[.revision]" string. A missing
// revision component defaults to 0.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: malformed version %q", ErrMalformedInput, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: malformed version component %q in %q", ErrMalformedInput, p, s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Revision: nums[2]}, nil
}

// String returns v formatted as "major.minor.revision".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater
// than o, comparing Major, then Minor, then Revision.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Revision, o.Revision)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ValidatePacBioVersion returns an error unless v is at least
// minPacBioVersion (spec §4.4, "Setting pb to a lower or malformed
// value raises invalid pacbio version").
func ValidatePacBioVersion(v Version) error {
	if v.Compare(minPacBioVersion) < 0 {
		return fmt.Errorf("%w: pacbio bam version %v below minimum %v", ErrUnsupportedFeature, v, minPacBioVersion)
	}
	return nil
}
