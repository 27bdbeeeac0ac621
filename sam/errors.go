// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "errors"

// Sentinel error kinds. Errors from the tag, version, clipping and
// validation code wrap one of these via fmt.Errorf("%w: ...", ...) so
// callers can classify a failure with errors.Is without string
// matching. Some header-parsing and NewRecord errors are plain
// errors.New values that wrap none of them.
var (
	// ErrMalformedInput reports truncated bytes, non-UTF-8 SAM text,
	// or a malformed tag name or type code.
	ErrMalformedInput = errors.New("sam: malformed input")

	// ErrInvalidValue reports an out-of-range integer, a non-printable
	// ASCII tag value, or a negative position on a mapped record.
	ErrInvalidValue = errors.New("sam: invalid value")

	// ErrInvariantViolated reports a sequence/quality length mismatch,
	// a per-base or per-pulse tag length mismatch, or any other
	// violation of the invariants in spec §3.
	ErrInvariantViolated = errors.New("sam: invariant violated")

	// ErrIncompatibleRequest reports a request for aligned or
	// excise_soft_clips projection of per-pulse data with
	// pulse_behavior == ALL.
	ErrIncompatibleRequest = errors.New("sam: incompatible request")

	// ErrUnsupportedFeature reports an unknown tag type code, an
	// unknown array element type, or a pb header version below the
	// minimum supported.
	ErrUnsupportedFeature = errors.New("sam: unsupported feature")

	// ErrNotFound reports a missing tag name or an absent sequence
	// name in a header.
	ErrNotFound = errors.New("sam: not found")

	// ErrValidationFailed is raised by a Validator's error
	// accumulator when its threshold is reached, or at explicit
	// completion if any errors were collected. It always carries the
	// accumulated ValidationError values; see (*Accumulator).Err.
	ErrValidationFailed = errors.New("sam: validation failed")
)
