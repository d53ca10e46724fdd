// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package digest implements EquationDigest: parsing, flattening, resolution
// and attribution of a hierarchical N2A equation set.
package digest

import (
	"fmt"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// ErrorKind classifies a DigestError; see spec.md §7.
type ErrorKind int

const (
	ErrUnresolvedReference ErrorKind = iota
	ErrAmbiguousReference
	ErrUnitMismatch
	ErrTypeInconsistency
	ErrExponentUnderdetermined
	ErrMalformedSplit
	ErrUnfulfilledBinding
	ErrDynamicFileName
)

var errorKindNames = map[ErrorKind]string{
	ErrUnresolvedReference:     "unresolved reference",
	ErrAmbiguousReference:      "ambiguous down-reference",
	ErrUnitMismatch:            "unit mismatch",
	ErrTypeInconsistency:       "type inconsistency",
	ErrExponentUnderdetermined: "exponent underdetermined",
	ErrMalformedSplit:          "ill-formed $type expression",
	ErrUnfulfilledBinding:      "unfulfilled connection binding",
	ErrDynamicFileName:         "dynamic file name is not a string expression",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "unknown digest error"
}

// DigestError is the single error type surfaced by the EquationDigest
// pipeline (spec.md §7). It carries the node path where the failure was
// detected so the caller can report it without re-walking the tree.
type DigestError struct {
	Kind     ErrorKind
	NodePath []string
	Message  string
	cause    error
}

func (e *DigestError) Error() string {
	path := strings.Join(e.NodePath, "/")
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("%s: %s: %s", path, e.Kind, e.Message)
}

func (e *DigestError) Unwrap() error { return e.cause }

// newDigestError builds a DigestError wrapping a chk.Err-formatted message,
// following gofem's convention of funneling every failure through chk.
func newDigestError(kind ErrorKind, path []string, format string, args ...interface{}) *DigestError {
	return &DigestError{
		Kind:     kind,
		NodePath: append([]string(nil), path...),
		Message:  fmt.Sprintf(format, args...),
		cause:    chk.Err(format, args...),
	}
}

// AbortRun is surfaced from digest or code generation with a human-readable
// message (spec.md §7); the caller is expected to write "failure" to a
// sentinel file and preserve logs, mirroring gofem's main.go panic recovery.
type AbortRun struct {
	Phase   string
	Message string
}

func (e *AbortRun) Error() string {
	return fmt.Sprintf("abort during %s: %s", e.Phase, e.Message)
}

// NewAbortRun constructs an AbortRun for the given pipeline phase.
func NewAbortRun(phase, format string, args ...interface{}) *AbortRun {
	return &AbortRun{Phase: phase, Message: fmt.Sprintf(format, args...)}
}
