// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageDerivativeLiveness realizes pipeline step 15: derivative detection,
// initOnly propagation, and liveness attribute setting (spec.md §4.1 step
// 15). A Variable whose only equations are read during $init (constant,
// or referencing only other initOnly/preexistent variables) is itself
// initOnly; $live becomes a BackendData-tracked stored bit whenever any
// equation anywhere in the part reads it.
func (d *digester) stageDerivativeLiveness(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		changed := true
		for changed {
			changed = false
			for _, v := range eqset.Variables {
				if v.Attributes.Has(AttrInitOnly) || v.Attributes.Has(AttrConstant) {
					continue
				}
				if isInitOnlyCandidate(v) {
					v.Attributes.Add(AttrInitOnly)
					changed = true
				}
			}
		}
		if referencesAnyName(eqset, "$live") {
			eqset.BackendData.LiveStored = true
		}
		if eqset.BackendData.Splits != nil || eqset.IsConnection() {
			eqset.BackendData.TrackNewborn = true
		}
		return nil
	})
}

// isInitOnlyCandidate reports whether every equation of v only reads
// constants or already-initOnly/preexistent variables and never reads
// $t, making v's value fixed after $init.
func isInitOnlyCandidate(v *Variable) bool {
	if len(v.Equations) == 0 {
		return false
	}
	for _, eq := range v.Equations {
		if !exprIsInitOnly(eq.Expr) || !exprIsInitOnly(eq.Condition) {
			return false
		}
	}
	return true
}

func exprIsInitOnly(e *Expr) bool {
	if e == nil {
		return true
	}
	if e.Op == "Const" {
		return true
	}
	if e.Op == "Var" {
		if e.Ref == nil || e.Ref.Variable == nil {
			return false
		}
		target := e.Ref.Variable
		if target.Name == "$t" || target.Name == "$t'" {
			return false
		}
		return target.Attributes.Has(AttrInitOnly) || target.Attributes.Has(AttrPreexistent) || target.Attributes.Has(AttrConstant)
	}
	for _, c := range e.Children {
		if !exprIsInitOnly(c) {
			return false
		}
	}
	return true
}

// stageLiveDiscovery realizes pipeline step 16: reference-to-$live
// discovery for lethal reach-through — any part whose equations read a
// connection endpoint's $live needs that endpoint's refcount kept alive
// (spec.md §4.1 step 16, §9 "Connection endpoint references").
func (d *digester) stageLiveDiscovery(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		if !eqset.IsConnection() {
			return nil
		}
		for _, b := range eqset.ConnectionBindings {
			if b.Endpoint == nil {
				continue
			}
			if referencesThroughAlias(eqset, b.Alias, "$live") {
				b.Endpoint.BackendData.HasRefcount = true
			}
		}
		return nil
	})
}

func referencesAnyName(eqset *EquationSet, name string) bool {
	for _, v := range eqset.Variables {
		if referencesName(v, name) {
			return true
		}
	}
	return false
}

// referencesThroughAlias reports whether any equation in eqset reaches
// `name` via a connection-endpoint hop through the given alias.
func referencesThroughAlias(eqset *EquationSet, alias, name string) bool {
	found := false
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil || found {
			return
		}
		if e.Op == "Var" && e.Ref != nil {
			path := e.Ref.Path
			for i, step := range path {
				if step.Kind == StepDescend && step.Name == alias && i == len(path)-2 && path[len(path)-1].Name == name {
					found = true
					return
				}
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, v := range eqset.Variables {
		for _, eq := range v.Equations {
			walk(eq.Expr)
			walk(eq.Condition)
		}
	}
	return found
}
