// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import (
	"fmt"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"
)

// sortParts realizes pipeline step 8: orders eqset.Parts by dependency
// (a part referencing another part's Variables must come after it) using
// a topological sort over an lvlath graph, exactly the shape gofem's own
// mesh/region loading uses adjacency structures for cell ordering.
func sortParts(eqset *EquationSet) error {
	if len(eqset.Parts) == 0 {
		return nil
	}
	g := core.NewGraph()
	byID := map[string]*EquationSet{}
	for _, p := range eqset.Parts {
		if err := g.AddVertex(p.Name); err != nil {
			return chk.Err("sortParts: %v", err)
		}
		byID[p.Name] = p
	}
	for _, p := range eqset.Parts {
		for _, dep := range partDependencies(p, eqset) {
			if _, ok := byID[dep]; !ok || dep == p.Name {
				continue
			}
			if _, err := g.AddEdge(dep, p.Name, 1); err != nil {
				return chk.Err("sortParts: %v", err)
			}
		}
	}
	if has, cycles, err := dfs.DetectCycles(g); err != nil {
		return chk.Err("sortParts: %v", err)
	} else if has {
		return chk.Err("cyclic part dependency: %v", cycles)
	}
	ids, err := dfs.TopologicalSort(g)
	if err != nil {
		return chk.Err("sortParts: %v", err)
	}
	eqset.OrderedParts = make([]*EquationSet, 0, len(ids))
	for _, id := range ids {
		eqset.OrderedParts = append(eqset.OrderedParts, byID[id])
	}
	return nil
}

// partDependencies returns the names of sibling parts that p's equations
// reference (via VariableReference descend steps not rooted at p itself),
// used only to seed edges for the topological sort above.
func partDependencies(p, container *EquationSet) []string {
	seen := map[string]bool{}
	var deps []string
	var walk func(e *Expr)
	walk = func(e *Expr) {
		if e == nil {
			return
		}
		if e.Op == "Var" && e.Ref != nil && len(e.Ref.Path) > 0 {
			step := e.Ref.Path[0]
			if step.Kind == StepDescend && container.FindPart(step.Name) != nil && !seen[step.Name] {
				seen[step.Name] = true
				deps = append(deps, step.Name)
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, v := range p.Variables {
		for _, eq := range v.Equations {
			walk(eq.Expr)
			walk(eq.Condition)
		}
	}
	return deps
}

// orderVariables realizes pipeline step 14: a topological sort of
// eqset.Variables respecting read-before-write for non-buffered variables
// and write-before-read for buffered ones (spec.md §4.1 step 14).
func orderVariables(eqset *EquationSet) error {
	if len(eqset.Variables) == 0 {
		eqset.Ordered = nil
		return nil
	}
	g := core.NewGraph()
	byName := map[string]*Variable{}
	// x and x' share a Name, so vertices are keyed by the name plus one
	// tick per derivative order.
	vid := func(v *Variable) string { return v.Name + strings.Repeat("'", v.Order) }
	for _, v := range eqset.Variables {
		if err := g.AddVertex(vid(v)); err != nil {
			return chk.Err("orderVariables: %v", err)
		}
		byName[vid(v)] = v
	}
	addEdge := func(from, to string) error {
		if from == to {
			return nil
		}
		if _, ok := byName[from]; !ok {
			return nil
		}
		if _, ok := byName[to]; !ok {
			return nil
		}
		_, err := g.AddEdge(from, to, 1)
		return err
	}
	for _, v := range eqset.Variables {
		for _, eq := range v.Equations {
			refs := collectLocalRefs(eq.Expr, eqset)
			refs = append(refs, collectLocalRefs(eq.Condition, eqset)...)
			for _, r := range refs {
				if v.Buffered {
					// write-before-read: readers come after this variable
					if err := addEdge(vid(v), r); err != nil {
						return chk.Err("orderVariables: %v", err)
					}
				} else {
					// read-before-write: dependency must be computed first
					if err := addEdge(r, vid(v)); err != nil {
						return chk.Err("orderVariables: %v", err)
					}
				}
			}
		}
	}
	if has, cycles, err := dfs.DetectCycles(g); err != nil {
		return chk.Err("orderVariables: %v", err)
	} else if has {
		return chk.Err("cyclic variable dependency in part %v: %v", eqset.Path(), cycles)
	}
	ids, err := dfs.TopologicalSort(g)
	if err != nil {
		return chk.Err("orderVariables: %v", err)
	}
	eqset.Ordered = make([]*Variable, 0, len(ids))
	for i, id := range ids {
		v := byName[id]
		v.Order_ = i
		eqset.Ordered = append(eqset.Ordered, v)
	}
	return nil
}

// collectLocalRefs returns the names of variables of eqset referenced
// directly (zero ascend/connection hops) by e.
func collectLocalRefs(e *Expr, eqset *EquationSet) []string {
	var out []string
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil {
			return
		}
		if e.Op == "Var" && e.Ref != nil && len(e.Ref.Path) == 1 && e.Ref.Path[0].Kind == StepDescend {
			name := e.Ref.Path[0].Name
			if eqset.FindVariable(name) != nil {
				out = append(out, name)
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// checkDerivativeDAG verifies the §3 invariant that derivative edges form
// a DAG (a Variable cannot be its own ancestor through Derivative links).
func checkDerivativeDAG(eqset *EquationSet) error {
	g := core.NewGraph()
	for _, v := range eqset.Variables {
		id := fmt.Sprintf("%p", v)
		_ = g.AddVertex(id)
	}
	for _, v := range eqset.Variables {
		if v.Derivative != nil {
			from := fmt.Sprintf("%p", v)
			to := fmt.Sprintf("%p", v.Derivative)
			if _, err := g.AddEdge(from, to, 1); err != nil {
				return chk.Err("checkDerivativeDAG: %v", err)
			}
		}
	}
	if has, cycles, err := dfs.DetectCycles(g); err != nil {
		return chk.Err("checkDerivativeDAG: %v", err)
	} else if has {
		return chk.Err("derivative links form a cycle in part %v: %v", eqset.Path(), cycles)
	}
	return nil
}
