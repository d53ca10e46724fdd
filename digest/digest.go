// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import (
	"github.com/cpmech/gosl/io"
)

// Options controls the EquationDigest pipeline (spec.md §6 "Numeric type
// selection" plus verbosity, mirroring how gofem's inp.Data/fem.FEM
// thread a handful of global run options through every stage).
type Options struct {
	FixedPoint bool // backend/c/type == "int"
	Verbose    bool
}

// Digest runs the 20-stage EquationDigest pipeline over root in place and
// returns it (spec.md §4.1). Each stage assumes the previous stages have
// completed; the pipeline stops at the first failing stage and returns its
// error as a *DigestError (an error of any other type is wrapped in one,
// with the stage name prefixed to the message and the original error as
// its Unwrap cause).
func Digest(root *EquationSet, opts Options) (*EquationSet, error) {
	d := &digester{opts: opts}
	stages := []struct {
		name string
		fn   func(*EquationSet) error
	}{
		{"collect/fill/resolve/purge pins", d.stagePins},
		{"resolve connection bindings", d.stageResolveConnections},
		{"add global constants and specials", d.stageSpecials},
		{"attribute seeding", d.stageAttributeSeed},
		{"resolve LHS then RHS", d.stageResolveReferences},
		{"integrated-variable creation", d.stageIntegratedVariables},
		{"flatten", d.stageFlatten},
		{"sort parts", d.stageSortParts},
		{"unit check", d.stageUnitCheck},
		{"constant folding and simplify", d.stageConstantFold},
		{"split collection, death propagation", d.stageSplitDeath},
		{"removal of unused variables", d.stageRemoveUnused},
		{"temporary promotion", d.stageTemporaryPromotion},
		{"order determination", d.stageOrderDetermination},
		{"derivative/initOnly/liveness", d.stageDerivativeLiveness},
		{"reference-to-$live discovery", d.stageLiveDiscovery},
		{"type determination", d.stageTypeDetermination},
		{"exponent determination", d.stageExponentDetermination},
		{"connection-matrix detection", d.stageConnectionMatrix},
		{"event analysis", d.stageEventAnalysis},
	}
	for _, s := range stages {
		if opts.Verbose {
			io.Pf("digest: %s\n", s.name)
		}
		if err := s.fn(root); err != nil {
			if de, ok := err.(*DigestError); ok {
				return nil, de
			}
			return nil, newDigestErrorFromCause(s.name, root, err)
		}
	}
	return root, nil
}

// digester carries the shared state (just Options today) across stages;
// kept as a struct, rather than free functions taking Options, so future
// stages can accumulate cross-part state without changing signatures.
type digester struct {
	opts Options
}

func newDigestErrorFromCause(stage string, root *EquationSet, cause error) *DigestError {
	return &DigestError{
		Kind:     ErrUnresolvedReference,
		NodePath: root.Path(),
		Message:  stage + ": " + cause.Error(),
		cause:    cause,
	}
}

// walkParts applies fn to eqset and every descendant part, depth first.
func walkParts(eqset *EquationSet, fn func(*EquationSet) error) error {
	if err := fn(eqset); err != nil {
		return err
	}
	for _, p := range eqset.Parts {
		if err := walkParts(p, fn); err != nil {
			return err
		}
	}
	return nil
}
