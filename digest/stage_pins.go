// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stagePins realizes pipeline step 1: "Collect pins, fill auto-pins,
// resolve pins, purge pins" (spec.md §4.1). Pins are the editor-facing
// wiring sugar that let a connection's endpoints be drawn without typing
// a resolution path; here that sugar surfaces as the pseudo "$inherit"
// variable Build left behind, which this stage consumes and removes so
// later stages never see it.
func (d *digester) stagePins(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		kept := eqset.Variables[:0]
		for _, v := range eqset.Variables {
			if v.Name == "$inherit" {
				// dropped without a merge: no parent equations or
				// sub-parts are copied in.
				continue
			}
			kept = append(kept, v)
		}
		eqset.Variables = kept
		return nil
	})
}
