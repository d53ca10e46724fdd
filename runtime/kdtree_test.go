// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_kdtree01_nearest(tst *testing.T) {

	chk.PrintTitle("kdtree01_nearest")

	points := [][]float64{{0, 0}, {1, 0}, {0, 1}, {5, 5}, {10, 10}}
	indices := []int{0, 1, 2, 3, 4}
	tree := BuildKDTree(points, indices)

	nearest := tree.KNearest([]float64{0.1, 0.1}, 2, -1)
	chk.IntAssert(len(nearest), 2)
	found := map[int]bool{nearest[0]: true, nearest[1]: true}
	if !found[0] || !(found[1] || found[2]) {
		tst.Fatalf("expected nearest neighbors to include point 0, got %v", nearest)
	}
}

func Test_kdtree02_radius(tst *testing.T) {

	chk.PrintTitle("kdtree02_radius")

	points := [][]float64{{0, 0}, {1, 0}, {2, 0}, {10, 10}}
	indices := []int{0, 1, 2, 3}
	tree := BuildKDTree(points, indices)

	within := tree.WithinRadius([]float64{0, 0}, 1.5, -1)
	chk.IntAssert(len(within), 2)
}

func Test_kdtree03_exclude_self(tst *testing.T) {

	chk.PrintTitle("kdtree03_exclude_self")

	points := [][]float64{{0, 0}, {0.1, 0}}
	indices := []int{0, 1}
	tree := BuildKDTree(points, indices)

	nearest := tree.KNearest([]float64{0, 0}, 1, 0)
	chk.IntAssert(len(nearest), 1)
	chk.IntAssert(nearest[0], 1)
}
