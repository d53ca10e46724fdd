// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import "math"

// stageConstantFold realizes pipeline step 10: constant folding and
// simplify; simplifying an equation may mark the containing Variable as
// `constant` (spec.md §4.1 step 10).
func (d *digester) stageConstantFold(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		for _, v := range eqset.Variables {
			for _, eq := range v.Equations {
				eq.Expr = foldExpr(eq.Expr)
				eq.Condition = foldExpr(eq.Condition)
			}
			if len(v.Equations) == 1 && v.Equations[0].Condition == nil &&
				v.Equations[0].Expr != nil && v.Equations[0].Expr.IsConst && v.Order == 0 {
				v.Attributes.Add(AttrConstant)
			}
		}
		return nil
	})
}

// foldExpr recursively evaluates constant subexpressions, replacing them
// with a single Const node; non-constant subtrees are returned unchanged
// except for their already-folded children.
func foldExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	for i, c := range e.Children {
		e.Children[i] = foldExpr(c)
	}
	if e.Op == "Const" || e.Op == "Var" {
		return e
	}
	allConst := len(e.Children) > 0
	for _, c := range e.Children {
		if !c.IsConst {
			allConst = false
			break
		}
	}
	if !allConst {
		return e
	}
	v, ok := evalConst(e)
	if !ok {
		return e
	}
	return &Expr{Op: "Const", Const: v, IsConst: true}
}

// evalConst evaluates e assuming every child is already a constant leaf;
// it covers the arithmetic/unary operators the parser produces, leaving
// function calls (Event, Delay, user functions) unfolded since their
// semantics are defined by the runtime, not compile-time arithmetic.
func evalConst(e *Expr) (float64, bool) {
	args := make([]float64, len(e.Children))
	for i, c := range e.Children {
		args[i] = c.Const
	}
	switch e.Op {
	case "+":
		return args[0] + args[1], true
	case "-":
		return args[0] - args[1], true
	case "*":
		return args[0] * args[1], true
	case "/":
		if args[1] == 0 {
			return 0, false
		}
		return args[0] / args[1], true
	case "^":
		return math.Pow(args[0], args[1]), true
	case "neg":
		return -args[0], true
	case "not":
		if args[0] == 0 {
			return 1, true
		}
		return 0, true
	case "<":
		return boolf(args[0] < args[1]), true
	case ">":
		return boolf(args[0] > args[1]), true
	case "<=":
		return boolf(args[0] <= args[1]), true
	case ">=":
		return boolf(args[0] >= args[1]), true
	case "==":
		return boolf(args[0] == args[1]), true
	case "!=":
		return boolf(args[0] != args[1]), true
	case "&&":
		return boolf(args[0] != 0 && args[1] != 0), true
	case "||":
		return boolf(args[0] != 0 || args[1] != 0), true
	default:
		return 0, false
	}
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
