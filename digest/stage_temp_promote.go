// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageTemporaryPromotion realizes pipeline step 13: connection $p and
// $project become temporary where their users allow (spec.md §4.1 step
// 13). A candidate is promotable when nothing outside its own part reads
// it (no externalRead attribute) and it is not buffered.
func (d *digester) stageTemporaryPromotion(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		if !eqset.IsConnection() {
			return nil
		}
		for _, name := range []string{"$p", "$project"} {
			v := eqset.FindVariable(name)
			if v == nil {
				continue
			}
			if v.Attributes.Has(AttrExternalRead) || v.Attributes.Has(AttrExternalWrite) || v.Buffered {
				continue
			}
			v.Attributes.Add(AttrTemporary)
		}
		return nil
	})
}
