// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"fmt"
	"strings"

	"github.com/n2a-org/n2a-core/digest"
)

// EmitMulticonditional lowers one Variable's equation set into an
// if/else-if chain assigning its field, in source-declared order, the
// default (empty-condition) equation last in an else branch (spec.md
// §4.3 "multiconditional"). indent is the leading whitespace each
// emitted line is prefixed with.
func EmitMulticonditional(v *digest.Variable, from *digest.EquationSet, indent string) string {
	var b strings.Builder
	target := receiver + "." + FieldName(v)

	assign := func(rhs string) string {
		return combinerAssign(v.Assignment, target, rhs)
	}

	var conditioned []*digest.Equation
	var def *digest.Equation
	for _, eq := range v.Equations {
		if eq.Condition == nil {
			def = eq
		} else {
			conditioned = append(conditioned, eq)
		}
	}

	if len(conditioned) == 0 && def == nil {
		return ""
	}

	for i, eq := range conditioned {
		kw := "if"
		if i > 0 {
			kw = "} else if"
		}
		fmt.Fprintf(&b, "%s%s %s {\n", indent, kw, EmitExpr(eq.Condition, from))
		fmt.Fprintf(&b, "%s\t%s\n", indent, assign(EmitExpr(eq.Expr, from)))
	}

	switch {
	case def != nil && len(conditioned) > 0:
		fmt.Fprintf(&b, "%s} else {\n", indent)
		fmt.Fprintf(&b, "%s\t%s\n", indent, assign(EmitExpr(def.Expr, from)))
		fmt.Fprintf(&b, "%s}\n", indent)
	case def != nil:
		fmt.Fprintf(&b, "%s%s\n", indent, assign(EmitExpr(def.Expr, from)))
	default:
		// No default equation: spec.md §4.3 "absence of a default for a
		// temporary variable falls through to zeroing"; a buffered
		// combiner instead preserves whatever finalize left in the
		// buffer, so only a REPLACE-assignment temporary needs the
		// explicit zero else-branch.
		fmt.Fprintf(&b, "%s} else {\n", indent)
		if v.Attributes.Has(digest.AttrTemporary) && v.Assignment == digest.REPLACE {
			fmt.Fprintf(&b, "%s\t%s = %s\n", indent, target, zeroValue(v))
		} else {
			fmt.Fprintf(&b, "%s\t// buffered default: preserve value written by a prior phase\n", indent)
		}
		fmt.Fprintf(&b, "%s}\n", indent)
	}
	return b.String()
}

// combinerAssign renders the statement writing rhs into target under
// Assignment a (spec.md §3 GLOSSARY "Combiner"). ADD/MULTIPLY/DIVIDE have
// native Go compound-assignment operators; MIN/MAX do not, so they lower
// to a runtime helper call wrapping the target in place.
func combinerAssign(a digest.Assignment, target, rhs string) string {
	switch a {
	case digest.ADD:
		return fmt.Sprintf("%s += %s", target, rhs)
	case digest.MULTIPLY:
		return fmt.Sprintf("%s *= %s", target, rhs)
	case digest.DIVIDE:
		return fmt.Sprintf("%s /= %s", target, rhs)
	case digest.MIN:
		return fmt.Sprintf("%s = runtime.MinCombine(%s, %s)", target, target, rhs)
	case digest.MAX:
		return fmt.Sprintf("%s = runtime.MaxCombine(%s, %s)", target, target, rhs)
	default:
		return fmt.Sprintf("%s = %s", target, rhs)
	}
}

func zeroValue(v *digest.Variable) string {
	switch v.Type {
	case digest.Matrix:
		return "nil"
	case digest.Text:
		return `""`
	default:
		return "0"
	}
}

// EmitTypeSplit lowers a $type assignment into the split-index selection
// spec.md §4.3 describes ("$type writes select an integer split index"),
// matching BackendData.Splits' declaration order.
func EmitTypeSplit(v *digest.Variable, from *digest.EquationSet, splits []*digest.EquationSet, indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%svar splitIndex int\n", indent)
	for i, eq := range v.Equations {
		kw := "if"
		if i > 0 {
			kw = "} else if"
		}
		if eq.Condition == nil {
			continue
		}
		fmt.Fprintf(&b, "%s%s %s {\n", indent, kw, EmitExpr(eq.Condition, from))
		fmt.Fprintf(&b, "%s\tsplitIndex = %s\n", indent, splitIndexExpr(eq.Expr, splits))
	}
	fmt.Fprintf(&b, "%s}\n", indent)
	return b.String()
}

func splitIndexExpr(e *digest.Expr, splits []*digest.EquationSet) string {
	if e == nil || e.Ref == nil || e.Ref.Variable == nil || e.Ref.Variable.Part == nil {
		return "0"
	}
	for i, s := range splits {
		if s == e.Ref.Variable.Part {
			return fmt.Sprintf("%d", i)
		}
	}
	return "0"
}
