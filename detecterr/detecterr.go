// Copyright 2020 Staves Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package detecterr classifies the failure modes the detection pipeline
// can surface.
// InsufficientPeaks is non-fatal: the pipeline still returns a (empty,
// zero-confidence) Result. DegenerateImage and InternalInvariantViolation
// are fatal: the caller gets an error and no partial Result. Every other
// anomaly (missing barlines, disagreeing system sizes) is not an error
// at all; it only lowers confidence and populates a Reasons list.
package detecterr

import (
	"github.com/grailbio/base/errors"
)

// Kind distinguishes the three error classes the pipeline reports.
type Kind int

const (
	// KindInsufficientPeaks marks a non-fatal failure: fewer than 5
	// peaks were found in stage 3.
	KindInsufficientPeaks Kind = iota
	// KindDegenerateImage marks a fatal failure: the input image has
	// zero area, or Otsu's method could not find a threshold.
	KindDegenerateImage
	// KindInternalInvariantViolation marks a fatal, bug-indicating
	// failure: a post-stage invariant check failed.
	KindInternalInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case KindInsufficientPeaks:
		return "InsufficientPeaks"
	case KindDegenerateImage:
		return "DegenerateImage"
	case KindInternalInvariantViolation:
		return "InternalInvariantViolation"
	default:
		return "Unknown"
	}
}

// Error is the error type returned for all three kinds. It wraps
// github.com/grailbio/base/errors.E so the usual message/context
// formatting is preserved; Kind lets callers branch on error class
// without string matching.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }

// Unwrap lets errors.Is/As from the standard library and from
// github.com/grailbio/base/errors see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// InsufficientPeaks builds a non-fatal error reporting that fewer than
// 5 peaks were found.
func InsufficientPeaks(nPeaks int) error {
	return &Error{
		Kind: KindInsufficientPeaks,
		err:  errors.E("insufficient peaks for stave clustering", "found", nPeaks, "need", 5),
	}
}

// DegenerateImage builds a fatal error reporting that the input image
// could not be processed at all.
func DegenerateImage(reason string) error {
	return &Error{Kind: KindDegenerateImage, err: errors.E("degenerate image", reason)}
}

// InternalInvariantViolation builds a fatal error reporting that a
// post-stage structural invariant was violated. This always indicates a
// bug in the pipeline, never a property of the input image.
func InternalInvariantViolation(diagnostic string) error {
	return &Error{Kind: KindInternalInvariantViolation, err: errors.E("internal invariant violation", diagnostic)}
}

// IsInsufficientPeaks reports whether err is (or wraps) an
// InsufficientPeaks error.
func IsInsufficientPeaks(err error) bool { return kindIs(err, KindInsufficientPeaks) }

// IsDegenerateImage reports whether err is (or wraps) a DegenerateImage
// error.
func IsDegenerateImage(err error) bool { return kindIs(err, KindDegenerateImage) }

// IsInternalInvariantViolation reports whether err is (or wraps) an
// InternalInvariantViolation error.
func IsInternalInvariantViolation(err error) bool {
	return kindIs(err, KindInternalInvariantViolation)
}

func kindIs(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == k
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
