// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_parse01(tst *testing.T) {

	chk.PrintTitle("parse01")

	text := "N1\n\tx = 1\n\tx' = x * 2\n"
	root, err := ParseModel(text)
	if err != nil {
		tst.Fatalf("ParseModel failed: %v", err)
	}
	chk.IntAssert(len(root.Children), 1)
	n1 := root.Children[0]
	chk.Strings(tst, "root child", []string{n1.Key}, []string{"N1"})
	chk.IntAssert(len(n1.Children), 2)
}

func Test_digest01(tst *testing.T) {

	chk.PrintTitle("digest01")

	// a single non-connection part with a value and its derivative
	text := "N1\n\tx = 1\n\tx' = x * 2\n"
	root, err := ParseModel(text)
	if err != nil {
		tst.Fatalf("ParseModel failed: %v", err)
	}
	eqset, err := Build(root)
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	n1, err := Digest(eqset.Parts[0], Options{})
	if err != nil {
		tst.Fatalf("Digest failed: %v", err)
	}
	x := n1.FindVariableOrder("x", 0)
	if x == nil {
		tst.Fatalf("variable x not found")
	}
	chk.IntAssert(x.Order, 0)
	if x.Derivative == nil {
		tst.Fatalf("x should have a derivative link to x'")
	}
	chk.Strings(tst, "derivative name", []string{x.Derivative.Name}, []string{"x"})
	chk.IntAssert(x.Derivative.Order, 1)
}

func Test_digest02_connection(tst *testing.T) {

	chk.PrintTitle("digest02_connection")

	// two populations and a connection part binding both as endpoints
	text := "N1\n" +
		"\tA\n" +
		"\t\t$n = 3\n" +
		"\tB\n" +
		"\t\t$n = 3\n" +
		"\tC\n" +
		"\t\t$connect\n" +
		"\t\t\tA = A\n" +
		"\t\t\tB = B\n" +
		"\t\t$k = 2\n"
	root, err := ParseModel(text)
	if err != nil {
		tst.Fatalf("ParseModel failed: %v", err)
	}
	eqset, err := Build(root)
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	n1, err := Digest(eqset.Parts[0], Options{})
	if err != nil {
		tst.Fatalf("Digest failed: %v", err)
	}
	c := n1.FindPart("C")
	if c == nil {
		tst.Fatalf("part C not found")
	}
	if !c.IsConnection() {
		tst.Fatalf("C should be a connection part")
	}
	chk.IntAssert(len(c.ConnectionBindings), 2)
	for _, b := range c.ConnectionBindings {
		if b.Endpoint == nil {
			tst.Fatalf("binding %q did not resolve an endpoint", b.Alias)
		}
	}
}

func Test_digest03_conditioned_branches(tst *testing.T) {

	chk.PrintTitle("digest03_conditioned_branches")

	text := "N1\n" +
		"\tx\n" +
		"\t\t1@5\n" +
		"\t\t0@2\n"
	root, err := ParseModel(text)
	if err != nil {
		tst.Fatalf("ParseModel failed: %v", err)
	}
	eqset, err := Build(root)
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	n1 := eqset.Parts[0]
	x := n1.FindVariableOrder("x", 0)
	if x == nil {
		tst.Fatalf("x should be built as a variable, not mistaken for a subpart")
	}
	chk.IntAssert(len(x.Equations), 2)
	for _, eq := range x.Equations {
		if eq.Condition == nil {
			tst.Fatalf("branch equation missing its condition")
		}
	}
}
