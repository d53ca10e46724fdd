// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageIntegratedVariables realizes pipeline step 6: for each Variable of
// order>0, synthesize its lower-order companion(s) with `derivative`
// links (spec.md §4.1 step 6, §3 "derivative edges form a DAG").
func (d *digester) stageIntegratedVariables(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		// snapshot names before appending synthesized companions so we
		// don't re-walk variables created during this pass.
		names := map[string]bool{}
		for _, v := range eqset.Variables {
			names[v.Name] = true
		}
		for name := range names {
			highest := 0
			for _, v := range eqset.VariablesNamed(name) {
				if v.Order > highest {
					highest = v.Order
				}
			}
			for order := highest; order > 0; order-- {
				hi := eqset.FindVariableOrder(name, order)
				lo := eqset.FindVariableOrder(name, order-1)
				if lo == nil {
					lo = NewVariable(name)
					lo.Order = order - 1
					lo.Type = hi.Type
					eqset.Variables = append(eqset.Variables, lo)
				}
				lo.Derivative = hi
				hi.Integral = lo
			}
		}
		return checkDerivativeDAG(eqset)
	})
}
