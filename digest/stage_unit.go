// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageUnitCheck realizes pipeline step 9: every Equation of a given
// Variable that carries an explicit unit annotation (spec.md §6,
// "[condition@]expression[;unit]") must agree with the others; mixing
// "m" and "s" on the same Variable's branches is almost always a typo in
// the model and is rejected the way an inconsistent type would be.
func (d *digester) stageUnitCheck(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		for _, v := range eqset.Variables {
			unit := ""
			for _, eq := range v.Equations {
				if eq.Unit == "" {
					continue
				}
				if unit == "" {
					unit = eq.Unit
					continue
				}
				if unit != eq.Unit {
					return newDigestError(ErrUnitMismatch, eqset.Path(),
						"variable %q has conflicting units %q and %q across its equations", v.Name, unit, eq.Unit)
				}
			}
		}
		return nil
	})
}
