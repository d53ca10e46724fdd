// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageRemoveUnused realizes pipeline step 12: removal of unused
// variables. A Variable is unused when no VariableReference anywhere in
// the tree resolves to it, it is not a special/preexistent/output
// variable, and it is not the default equation's only writer (removing it
// would change evaluation order of nothing, but it would also serve no
// purpose at emission time).
func (d *digester) stageRemoveUnused(root *EquationSet) error {
	used := map[*Variable]bool{}
	markUsage(root, used)

	return walkParts(root, func(eqset *EquationSet) error {
		kept := eqset.Variables[:0]
		for _, v := range eqset.Variables {
			if keepVariable(v, used) {
				kept = append(kept, v)
			}
		}
		eqset.Variables = kept
		return nil
	})
}

func markUsage(eqset *EquationSet, used map[*Variable]bool) {
	for _, v := range eqset.Variables {
		if v.Reference != nil && v.Reference.Variable != nil {
			used[v.Reference.Variable] = true
		}
		for _, eq := range v.Equations {
			markExprUsage(eq.Expr, used)
			markExprUsage(eq.Condition, used)
		}
		if v.Derivative != nil {
			used[v.Derivative] = true
		}
	}
	for _, p := range eqset.Parts {
		markUsage(p, used)
	}
}

func markExprUsage(e *Expr, used map[*Variable]bool) {
	if e == nil {
		return
	}
	if e.Op == "Var" && e.Ref != nil && e.Ref.Variable != nil {
		used[e.Ref.Variable] = true
	}
	for _, c := range e.Children {
		markExprUsage(c, used)
	}
}

// keepVariable reports whether v survives unused-variable removal.
func keepVariable(v *Variable, used map[*Variable]bool) bool {
	if used[v] {
		return true
	}
	if v.Attributes.Has(AttrPreexistent) || v.Attributes.Has(AttrAccessor) ||
		v.Attributes.Has(AttrExternalRead) || v.Attributes.Has(AttrExternalWrite) ||
		v.Attributes.Has(AttrCli) || v.Attributes.Has(AttrParam) {
		return true
	}
	switch v.Name {
	case "$t", "$t'", "$index", "$init", "$n", "$type", "$connect", "$live",
		"$k", "$min", "$max", "$radius", "$p", "$xyz", "$project", "$A":
		return true
	}
	if v.Derivative != nil || v.Integral != nil {
		return true
	}
	return false
}
