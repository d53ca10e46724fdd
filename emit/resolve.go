// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"fmt"
	"strings"

	"github.com/n2a-org/n2a-core/digest"
)

// receiver is the method-receiver identifier used throughout emitted
// source, matching gofem's own convention of a short "o" receiver name
// on every element method (e.g. `func (o *SolidThermal) AddToKb(...)`).
const receiver = "o"

// Resolve realizes spec.md §4.3 "resolve: given a VariableReference at an
// emission site, produce an access expression by chaining container
// up-steps and descent-to-subpart steps and connection-endpoint hops."
// from is the part the expression is written in; ref.Variable's name
// selects the special cases for $live, $t and $t' below.
func Resolve(ref *digest.VariableReference, from *digest.EquationSet) string {
	if ref == nil || ref.Variable == nil {
		return "0 /* unresolved */"
	}
	switch ref.Variable.Name {
	case "$live":
		return resolveLive(ref, from)
	case "$t":
		return "t"
	case "$t'":
		return "dt"
	}
	expr := receiver
	for _, step := range locationHops(ref) {
		switch step.Kind {
		case digest.StepAscend:
			expr += ".Container"
		case digest.StepDescend:
			expr += "." + GoIdent(step.Name)
		case digest.StepConnection:
			expr += "." + GoIdent(step.Name)
		}
	}
	return expr + "." + FieldName(ref.Variable)
}

// resolveLive realizes the "$live of the owning part reads the flags bit
// or calls getLive when the variable is an accessor" special-case (spec.md
// §4.3 "Resolution").
func resolveLive(ref *digest.VariableReference, from *digest.EquationSet) string {
	target := ref.Variable.Part
	accessor := target != nil && target.BackendData != nil && accessorLive(target)
	path := receiver
	for _, step := range locationHops(ref) {
		switch step.Kind {
		case digest.StepAscend:
			path += ".Container"
		case digest.StepDescend, digest.StepConnection:
			path += "." + GoIdent(step.Name)
		}
	}
	if accessor {
		return path + ".GetLive()"
	}
	if target != nil && target.BackendData != nil && target.BackendData.LiveStored {
		return path + ".GetLive()"
	}
	return "true"
}

// locationHops returns ref.Path without its final descend step, which
// names the variable itself rather than a location hop.
func locationHops(ref *digest.VariableReference) []digest.ReferenceStep {
	if n := len(ref.Path); n > 0 && ref.Path[n-1].Kind == digest.StepDescend {
		return ref.Path[:n-1]
	}
	return ref.Path
}

func accessorLive(eqset *digest.EquationSet) bool {
	v := eqset.FindVariable("$live")
	return v != nil && v.Attributes.Has(digest.AttrAccessor)
}

// EmitExpr renders e as a Go expression string, resolving Var leaves
// through Resolve and lowering every operator this grammar's ParseExpr
// can produce (digest/expr_parse.go's token set) to its Go equivalent.
func EmitExpr(e *digest.Expr, from *digest.EquationSet) string {
	if e == nil {
		return "0"
	}
	switch e.Op {
	case "Const":
		return formatConst(e.Const)
	case "Var":
		return Resolve(e.Ref, from)
	case "neg":
		return "-(" + EmitExpr(e.Children[0], from) + ")"
	case "not":
		return "!(" + EmitExpr(e.Children[0], from) + ")"
	case "^":
		return fmt.Sprintf("runtime.Pow(%s, %s)", EmitExpr(e.Children[0], from), EmitExpr(e.Children[1], from))
	case "Event":
		return emitEventTest(e, from)
	case "Delay":
		return emitDelayRead(e, from)
	case "+", "-", "*", "/", "<", ">", "<=", ">=", "==", "!=", "&&", "||":
		return "(" + EmitExpr(e.Children[0], from) + " " + e.Op + " " + EmitExpr(e.Children[1], from) + ")"
	default:
		return emitCall(e, from)
	}
}

func formatConst(v float64) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// emitEventTest renders an Event(condition[, edge[, delay]]) call site as
// a read of the latch bit stageEventAnalysis allocated for it (spec.md
// §4.1 step 20, §4.4.1); e.EventIndex was stamped by that stage.
func emitEventTest(e *digest.Expr, from *digest.EquationSet) string {
	return fmt.Sprintf("%s.EventTest(%d)", receiver, e.EventIndex)
}

// emitDelayRead renders a Delay(...) operator usage as a read of its
// pipelined delay field (spec.md §3 "delays for pipelined delay
// operators").
func emitDelayRead(e *digest.Expr, from *digest.EquationSet) string {
	if len(e.Children) == 0 {
		return "0"
	}
	return EmitExpr(e.Children[0], from) + "Delay"
}

// emitCall lowers a builtin function call (anything not otherwise
// special-cased) by name, forwarding its arguments positionally into the
// runtime helper of the same name (e.g. a gating builtin resolved to
// runtime.Heaviside/runtime.SmoothRamp).
func emitCall(e *digest.Expr, from *digest.EquationSet) string {
	args := make([]string, len(e.Children))
	for i, c := range e.Children {
		args[i] = EmitExpr(c, from)
	}
	name := e.Op
	switch name {
	case "Heaviside", "Heav":
		name = "runtime.Heaviside"
	case "Sramp", "SmoothRamp":
		name = "runtime.SmoothRamp"
	case "uniform", "gaussian":
		name = "runtime.Uniform"
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}
