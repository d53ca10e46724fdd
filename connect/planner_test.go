// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connect

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/n2a-org/n2a-core/digest"
)

func buildDigested(tst *testing.T, text string) *digest.EquationSet {
	root, err := digest.ParseModel(text)
	if err != nil {
		tst.Fatalf("ParseModel failed: %v", err)
	}
	eqset, err := digest.Build(root)
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	n1, err := digest.Digest(eqset.Parts[0], digest.Options{})
	if err != nil {
		tst.Fatalf("Digest failed: %v", err)
	}
	return n1
}

func Test_plan01_enumerative(tst *testing.T) {

	chk.PrintTitle("plan01_enumerative")

	n1 := buildDigested(tst, "N1\n"+
		"\tA\n"+
		"\t\t$n = 3\n"+
		"\tB\n"+
		"\t\t$n = 3\n"+
		"\tC\n"+
		"\t\t$connect\n"+
		"\t\t\tA = A\n"+
		"\t\t\tB = B\n")

	c := n1.FindPart("C")
	if c == nil {
		tst.Fatalf("part C not found")
	}
	holders := Plan(c)
	chk.IntAssert(len(holders), 2)
	for _, h := range holders {
		if h.Kind != Enumerative {
			tst.Fatalf("expected enumerative, got %v: %s", h.Kind, h.Describe())
		}
	}
}

func Test_plan02_nearest_neighbor(tst *testing.T) {

	chk.PrintTitle("plan02_nearest_neighbor")

	n1 := buildDigested(tst, "N1\n"+
		"\tA\n"+
		"\t\t$n = 5\n"+
		"\tB\n"+
		"\t\t$n = 5\n"+
		"\tC\n"+
		"\t\t$connect\n"+
		"\t\t\tA = A\n"+
		"\t\t\tB = B\n"+
		"\t\t$k = 2\n")

	c := n1.FindPart("C")
	holders := Plan(c)
	chk.IntAssert(len(holders), 2)
	for _, h := range holders {
		if h.Kind != NearestNeighbor {
			tst.Fatalf("expected nearest-neighbor, got %v: %s", h.Kind, h.Describe())
		}
		chk.IntAssert(h.K, 2)
	}
}

func Test_plan03_no_connection(tst *testing.T) {

	chk.PrintTitle("plan03_no_connection")

	n1 := buildDigested(tst, "N1\n"+
		"\tA\n"+
		"\t\t$n = 3\n")

	a := n1.FindPart("A")
	holders := Plan(a)
	if holders != nil {
		tst.Fatalf("non-connection part should plan to nil, got %d holders", len(holders))
	}
}
