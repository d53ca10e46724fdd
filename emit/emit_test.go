// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/n2a-org/n2a-core/connect"
	"github.com/n2a-org/n2a-core/digest"
)

// Test_emit01 runs the single-ODE scenario of spec.md §8 scenario 1
// ("x' = -x, x = 1, Euler, dt=0.1") through digest and emit, checking the
// generated source declares the Instance/Population pair and embeds
// runtime.InstanceBase.
func Test_emit01(tst *testing.T) {

	chk.PrintTitle("emit01")

	text := "N1\n\tx = 1\n\tx' = -x\n"
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

	holders := connect.Plan(n1)
	src := EmitPart(n1, Options{Package: "model", Numeric: NumericFloat64}, holders)

	if !strings.Contains(src, "type N1Instance struct") {
		tst.Fatalf("expected N1Instance struct, got:\n%s", src)
	}
	if !strings.Contains(src, "type N1Population struct") {
		tst.Fatalf("expected N1Population struct, got:\n%s", src)
	}
	if !strings.Contains(src, "runtime.InstanceBase[float64]") {
		tst.Fatalf("expected InstanceBase embedding, got:\n%s", src)
	}
}

// Test_emit02 exercises EmitModel's whole-file wrapping (spec.md §4.3
// "gofile.go").
func Test_emit02(tst *testing.T) {

	chk.PrintTitle("emit02")

	text := "N1\n\tx = 1\n\tx' = -x\n"
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

	src := EmitModel(n1, Options{Package: "model", Numeric: NumericFloat64})
	if !strings.HasPrefix(src, "// Code generated by n2a compile. DO NOT EDIT.") {
		tst.Fatalf("expected generated-code header, got:\n%s", src)
	}
	if !strings.Contains(src, "package model") {
		tst.Fatalf("expected package clause, got:\n%s", src)
	}
	if !strings.Contains(src, "func Build(params runtime.Params)") {
		tst.Fatalf("expected Build entry point, got:\n%s", src)
	}
}

// Test_goIdent checks the $-sigil and derivative-tick sanitization rules
// EmitExpr/Resolve depend on.
func Test_goIdent(tst *testing.T) {

	chk.PrintTitle("goIdent")

	chk.Strings(tst, "ident", []string{GoIdent("$t")}, []string{"T"})
	chk.Strings(tst, "ident", []string{GoIdent("x'")}, []string{"X"})
	chk.Strings(tst, "ident", []string{GoIdent("my_var")}, []string{"MyVar"})
}
