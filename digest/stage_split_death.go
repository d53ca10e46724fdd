// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageSplitDeath realizes pipeline step 11: split collection and death
// propagation — determine lethalP, lethalContainer, lethalConnection, and
// per-part splits (the $type targets) (spec.md §4.1 step 11, §3
// BackendData).
func (d *digester) stageSplitDeath(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		typeVar := eqset.FindVariable("$type")
		if typeVar == nil {
			return nil
		}
		bd := eqset.BackendData
		for _, eq := range typeVar.Equations {
			if eq.Condition == nil {
				continue // the default ($type unchanged) is not a split
			}
			if eq.Expr == nil || !eq.Expr.IsConst {
				return newDigestError(ErrMalformedSplit, eqset.Path(), "$type target must be a constant expression")
			}
			// target indexes siblings under the container by declaration
			// order, per N2A's $type convention.
			idx := int(eq.Expr.Const)
			if eqset.Container != nil && idx >= 0 && idx < len(eqset.Container.Parts) {
				target := eqset.Container.Parts[idx]
				if target.IsConnection() != eqset.IsConnection() {
					return newDigestError(ErrMalformedSplit, eqset.Path(), "$type cannot turn a compartment into a connection or a connection into a compartment")
				}
				bd.Splits = append(bd.Splits, target)
			}
		}
		bd.LethalP = referencesName(typeVar, "$p")
		bd.LethalContainer = referencesAscend(typeVar)
		bd.LethalConnection = eqset.IsConnection() && len(bd.Splits) > 0
		return nil
	})
}

// referencesName reports whether any equation of v references a variable
// whose final path segment is name.
func referencesName(v *Variable, name string) bool {
	found := false
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil || found {
			return
		}
		if e.Op == "Var" && e.Ref != nil && len(e.Ref.Path) > 0 {
			if e.Ref.Path[len(e.Ref.Path)-1].Name == name {
				found = true
				return
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, eq := range v.Equations {
		walk(eq.Expr)
		walk(eq.Condition)
	}
	return found
}

// referencesAscend reports whether any equation of v walks up to the
// container (a "up." reference), which is how a split's condition reaches
// the container's own liveness.
func referencesAscend(v *Variable) bool {
	found := false
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil || found {
			return
		}
		if e.Op == "Var" && e.Ref != nil {
			for _, step := range e.Ref.Path {
				if step.Kind == StepAscend {
					found = true
					return
				}
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, eq := range v.Equations {
		walk(eq.Expr)
		walk(eq.Condition)
	}
	return found
}
