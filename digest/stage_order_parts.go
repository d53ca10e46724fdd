// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageSortParts realizes pipeline step 8 across the whole tree: each
// EquationSet gets its own OrderedParts (spec.md §4.1 step 8).
func (d *digester) stageSortParts(root *EquationSet) error {
	return walkParts(root, sortParts)
}

// stageOrderDetermination realizes pipeline step 14: topological sort of
// Variables within each part (spec.md §4.1 step 14).
func (d *digester) stageOrderDetermination(root *EquationSet) error {
	return walkParts(root, orderVariables)
}
