// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageConnectionMatrix realizes pipeline step 19: identify a single
// sparse matrix whose nonzero pattern drives this connection (spec.md
// §4.1 step 19, §4.2 "Sparse-matrix driven"). A connection part qualifies
// when it declares a Matrix-typed Variable named "$A" (the conventional
// N2A sparse-adjacency variable); optional "rowmap"/"colmap" hints name
// the row/col mappings, which default to "row" and "col".
func (d *digester) stageConnectionMatrix(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		if !eqset.IsConnection() {
			return nil
		}
		mv := eqset.FindVariable("$A")
		if mv == nil || mv.Type != Matrix {
			return nil
		}
		rowMap, colMap := "row", "col"
		for _, eq := range mv.Equations {
			if eq.Hint == "rowmap" {
				rowMap = eq.Unit
			}
			if eq.Hint == "colmap" {
				colMap = eq.Unit
			}
		}
		eqset.ConnectionMatrix = &ConnectionMatrix{
			Expr:       mv.Equations[0].Expr,
			RowMapping: rowMap,
			ColMapping: colMap,
		}
		eqset.BackendData.HasConnectionMatrix = true
		return nil
	})
}
