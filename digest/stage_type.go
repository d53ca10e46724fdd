// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageTypeDetermination realizes pipeline step 17: type determination
// and parent assignment (spec.md §4.1 step 17); no duration is computed
// here. Type comes from an explicit "?matrix"/"?text" hint (spec.md §6)
// when present; $xyz and $project are Matrix, anything else is Scalar.
// "Parent assignment" here means making sure every
// Variable records the EquationSet it lives in so later stages (and the
// emitter) never need to re-search for it.
func (d *digester) stageTypeDetermination(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		for _, v := range eqset.Variables {
			v.Part = eqset
			v.Type = inferType(v)
		}
		return nil
	})
}

func inferType(v *Variable) VarType {
	for _, eq := range v.Equations {
		switch eq.Hint {
		case "matrix":
			return Matrix
		case "text":
			return Text
		}
	}
	if v.Name == "$xyz" || v.Name == "$project" {
		return Matrix
	}
	return Scalar
}
