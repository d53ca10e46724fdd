// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageResolveReferences realizes pipeline step 5: every variable
// occurrence (LHS aliasing via Variable.Reference, then every RHS
// occurrence inside equation expressions) gets a resolved
// VariableReference (spec.md §4.1 step 5, §3 VariableReference).
func (d *digester) stageResolveReferences(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		for _, v := range eqset.Variables {
			if v.Reference != nil {
				if err := resolveReference(eqset, v.Reference); err != nil {
					return err
				}
			}
			for _, eq := range v.Equations {
				if err := resolveExprRefs(eqset, eq.Expr); err != nil {
					return err
				}
				if err := resolveExprRefs(eqset, eq.Condition); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func resolveExprRefs(eqset *EquationSet, e *Expr) error {
	if e == nil {
		return nil
	}
	if e.Op == "Var" && e.Ref != nil {
		if err := resolveReference(eqset, e.Ref); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := resolveExprRefs(eqset, c); err != nil {
			return err
		}
	}
	return nil
}

// resolveReference walks ref.Path from eqset, following ascend-to-
// container, descend-to-subpart, and follow-connection-endpoint steps
// (spec.md §3 VariableReference), and sets ref.Variable to the resolved
// target. The final path segment names the variable itself; all prior
// segments are location hops.
func resolveReference(eqset *EquationSet, ref *VariableReference) error {
	cur := eqset
	for i, step := range ref.Path {
		last := i == len(ref.Path)-1
		switch step.Kind {
		case StepAscend:
			if cur.Container == nil {
				return newDigestError(ErrUnresolvedReference, eqset.Path(), "cannot ascend past root resolving reference")
			}
			cur = cur.Container
		case StepDescend:
			if !last {
				if cur.IsConnection() {
					if ep := endpointByAlias(cur, step.Name); ep != nil {
						cur = ep
						continue
					}
				}
				if sub := cur.FindPart(step.Name); sub != nil {
					cur = sub
					continue
				}
			}
			if last {
				v := cur.FindVariable(step.Name)
				if v == nil {
					return newDigestError(ErrUnresolvedReference, eqset.Path(), "unresolved variable %q", step.Name)
				}
				ref.Variable = v
				return nil
			}
			return newDigestError(ErrUnresolvedReference, eqset.Path(), "unresolved subpart or connection alias %q", step.Name)
		case StepConnection:
			if cur.ConnectionBindings == nil {
				return newDigestError(ErrUnresolvedReference, eqset.Path(), "connection hop %q used on non-connection part", step.Name)
			}
			var binding *ConnectionBinding
			for _, b := range cur.ConnectionBindings {
				if b.Alias == step.Name {
					binding = b
					break
				}
			}
			if binding == nil || binding.Endpoint == nil {
				return newDigestError(ErrUnresolvedReference, eqset.Path(), "unresolved connection endpoint %q", step.Name)
			}
			cur = binding.Endpoint
		}
	}
	// path had only ascend/connection steps and ended without naming a
	// variable; that is a malformed reference.
	return newDigestError(ErrUnresolvedReference, eqset.Path(), "reference path does not name a variable")
}

// endpointByAlias returns the endpoint EquationSet bound to alias on a
// connection part, or nil.
func endpointByAlias(conn *EquationSet, alias string) *EquationSet {
	for _, b := range conn.ConnectionBindings {
		if b.Alias == alias {
			return b.Endpoint
		}
	}
	return nil
}
