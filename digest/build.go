// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import (
	"strings"

	"github.com/cpmech/gosl/chk"
)

// reservedSpecials are the language-special variable names injected by
// pipeline stage 3 (spec.md §4.1); they are never read directly off an
// MNode as ordinary variables because Build synthesizes them itself.
var reservedSpecials = map[string]bool{
	"$connect": true, "$index": true, "$init": true,
	"$n": true, "$t": true, "$t'": true, "$type": true,
}

// Build converts a raw parsed MNode tree into an un-digested EquationSet
// tree: one EquationSet per part node, one Variable per equation-bearing
// key. $inherit is kept as a dummy pseudo-variable that pipeline stage 1
// removes; $include gets no special handling and builds like any other
// key. This corresponds to the "parse" boundary in spec.md
// §3's Lifecycle note ("an EquationSet is created at parse").
func Build(root *MNode) (*EquationSet, error) {
	eqset := NewEquationSet(root.Key)
	if err := buildInto(eqset, root); err != nil {
		return nil, err
	}
	return eqset, nil
}

func buildInto(eqset *EquationSet, node *MNode) error {
	for _, child := range node.Children {
		switch {
		case child.Key == "$inherit":
			// recorded as a dummy pseudo-variable; pipeline stage 1 (pin
			// collection) drops it without merging anything in.
			v := NewVariable("$inherit")
			v.Type = Text
			v.Equations = []*Equation{{Expr: &Expr{Op: "Const"}, Unit: child.Value}}
			v.Attributes.Add(AttrDummy)
			eqset.Variables = append(eqset.Variables, v)
		case child.Key == "$metadata":
			// metadata carries backend/config hints (numeric type, TLS,
			// etc); stored as a dummy variable tree for Job to read later.
			meta := NewEquationSet("$metadata")
			if err := buildInto(meta, child); err != nil {
				return err
			}
			eqset.Parts = append(eqset.Parts, meta)
		case child.Key == "$connect":
			if err := buildConnection(eqset, child); err != nil {
				return err
			}
		case len(child.Children) > 0 && !isReservedSpecial(child.Key) && !isConditionedVariable(child):
			sub := NewEquationSet(child.Key)
			sub.Container = eqset
			if child.Value == "singleton" {
				sub.Singleton = true
			}
			if err := buildInto(sub, child); err != nil {
				return err
			}
			eqset.Parts = append(eqset.Parts, sub)
		default:
			if err := buildVariable(eqset, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// isReservedSpecial reports whether key is one of the language specials
// Build synthesizes itself and therefore never treats as a subpart.
func isReservedSpecial(key string) bool {
	return strings.HasPrefix(key, "$") && reservedSpecials[key]
}

// isConditionedVariable reports whether node is a variable carrying a set
// of "condition@expression" branch lines as children, rather than a
// subpart. A subpart's children are themselves key=value declarations
// (each has an assignment Op); a branch line has no key of its own, just
// the bare "condition@expression" text parsed as Key with no Op (spec.md
// §6: "[condition@]expression"). A node with a default Value at the top
// level is always a variable, branches or not.
func isConditionedVariable(node *MNode) bool {
	if node.Value != "" {
		return true
	}
	for _, c := range node.Children {
		if c.Op != "" || len(c.Children) > 0 || !strings.Contains(c.Key, "@") {
			return false
		}
	}
	return len(node.Children) > 0
}

// buildVariable turns one key=value MNode (plus any @-conditioned
// children) into a Variable with one or more Equations.
func buildVariable(eqset *EquationSet, node *MNode) error {
	name, order := splitDerivativeTicks(node.Key)
	v := eqset.FindVariableOrder(name, order)
	if v == nil {
		v = NewVariable(name)
		v.Order = order
		eqset.Variables = append(eqset.Variables, v)
	}
	if node.Op != "" {
		v.Assignment = assignmentFromOp(node.Op)
	}
	eq, err := parseEquationValue(node.Value)
	if err != nil {
		return chk.Err("part %v: variable %q: %v", eqset.Path(), name, err)
	}
	if eq != nil {
		v.Equations = append(v.Equations, eq)
	}
	for _, sub := range node.Children {
		// A conditioned equation line carries its own "condition@expr"
		// text as the bare Key (no top-level "=" to split on); only
		// reattach Op/Value when the sub-line genuinely had one.
		raw := sub.Key
		if sub.Op != "" {
			raw = sub.Key + sub.Op + sub.Value
		}
		subEq, err := parseEquationValue(raw)
		if err != nil {
			return err
		}
		if subEq != nil {
			v.Equations = append(v.Equations, subEq)
		}
	}
	return nil
}

// splitDerivativeTicks strips trailing "'" characters off a variable
// name, returning the base name and the derivative order (spec.md §3:
// Variable.order, "0 for value").
func splitDerivativeTicks(key string) (name string, order int) {
	name = key
	for strings.HasSuffix(name, "'") {
		name = strings.TrimSuffix(name, "'")
		order++
	}
	return
}

// parseEquationValue parses "[condition@]expression[;unit][?hint]" into
// an Equation (spec.md §6). An empty value yields a nil Equation (no-op
// line, e.g. a bare declaration).
func parseEquationValue(value string) (*Equation, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	hint := ""
	if idx := strings.LastIndex(value, "?"); idx >= 0 {
		hint = value[idx+1:]
		value = value[:idx]
	}
	unit := ""
	if idx := strings.LastIndex(value, ";"); idx >= 0 {
		unit = strings.TrimSpace(value[idx+1:])
		value = value[:idx]
	}
	var condStr, exprStr string
	if idx := strings.Index(value, "@"); idx >= 0 {
		condStr = strings.TrimSpace(value[:idx])
		exprStr = strings.TrimSpace(value[idx+1:])
	} else {
		exprStr = strings.TrimSpace(value)
	}
	expr, err := ParseExpr(exprStr)
	if err != nil {
		return nil, chk.Err("bad expression %q: %v", exprStr, err)
	}
	eq := &Equation{Expr: expr, Unit: unit, Hint: hint}
	if condStr != "" {
		cond, err := ParseExpr(condStr)
		if err != nil {
			return nil, chk.Err("bad condition %q: %v", condStr, err)
		}
		eq.Condition = cond
	}
	return eq, nil
}

// buildConnection turns a "$connect" node into bindings on eqset, making
// it a connection part (spec.md §3: "A part with non-null
// connectionBindings is a connection").
func buildConnection(eqset *EquationSet, node *MNode) error {
	idx := 0
	for _, child := range node.Children {
		binding := &ConnectionBinding{Alias: child.Key, Index: idx}
		binding.Resolution = pathFromName(child.Value)
		eqset.ConnectionBindings = append(eqset.ConnectionBindings, binding)
		idx++
	}
	return nil
}
