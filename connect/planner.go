// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package connect implements ConnectionPlanner: classification of how a
// connection part's endpoint bindings enumerate instances (spec.md §4.2).
package connect

import (
	"fmt"

	"github.com/n2a-org/n2a-core/digest"
)

// Kind is the enumeration strategy selected for one ConnectionHolder.
type Kind int

const (
	Enumerative Kind = iota
	NearestNeighbor
	MatrixDriven
)

func (k Kind) String() string {
	switch k {
	case NearestNeighbor:
		return "nearest-neighbor"
	case MatrixDriven:
		return "matrix-driven"
	default:
		return "enumerative"
	}
}

// ConnectionHolder is the per-binding planning output (spec.md §4.2).
type ConnectionHolder struct {
	Index      int
	Kind       Kind
	K          int
	Min        int
	Max        int
	Radius     float64
	HasProject bool
	Endpoint   *digest.EquationSet
	Resolution []digest.ReferenceStep
}

// key is the value-equality key duplicates are coalesced by (spec.md
// §4.2 "Output ... Duplicates are coalesced by value equality").
type key struct {
	endpoint                 *digest.EquationSet
	k, min, max              int
	radius                   float64
	hasProject, matrixDriven bool
}

// Plan classifies every binding of part and returns its ConnectionHolders
// in binding order, coalescing value-equal duplicates to a single stable
// index (spec.md §4.2).
func Plan(part *digest.EquationSet) []*ConnectionHolder {
	if !part.IsConnection() {
		return nil
	}
	matrixDriven := part.ConnectionMatrix != nil
	kVal, minVal, maxVal, radiusVal := connectionSettings(part)
	hasProject := part.FindVariable("$project") != nil
	seen := map[key]*ConnectionHolder{}
	var order []*ConnectionHolder
	for _, b := range part.ConnectionBindings {
		b.K, b.Min, b.Max, b.Radius, b.HasProject = kVal, minVal, maxVal, radiusVal, hasProject
		k := key{
			endpoint:     b.Endpoint,
			k:            b.K,
			min:          b.Min,
			max:          b.Max,
			radius:       b.Radius,
			hasProject:   b.HasProject,
			matrixDriven: matrixDriven,
		}
		if _, ok := seen[k]; ok {
			continue
		}
		h := &ConnectionHolder{
			Index:      len(order),
			K:          b.K,
			Min:        b.Min,
			Max:        b.Max,
			Radius:     b.Radius,
			HasProject: b.HasProject,
			Endpoint:   b.Endpoint,
			Resolution: b.Resolution,
		}
		h.Kind = classify(matrixDriven, b)
		seen[k] = h
		order = append(order, h)
	}
	return order
}

// connectionSettings reads the $k/$min/$max/$radius global settings off a
// connection part, defaulting to zero when absent (spec.md §4.2).
func connectionSettings(part *digest.EquationSet) (k, min, max int, radius float64) {
	readInt := func(name string) int {
		v := part.FindVariable(name)
		if v == nil || len(v.Equations) == 0 || v.Equations[0].Expr == nil || !v.Equations[0].Expr.IsConst {
			return 0
		}
		return int(v.Equations[0].Expr.Const)
	}
	readFloat := func(name string) float64 {
		v := part.FindVariable(name)
		if v == nil || len(v.Equations) == 0 || v.Equations[0].Expr == nil || !v.Equations[0].Expr.IsConst {
			return 0
		}
		return v.Equations[0].Expr.Const
	}
	return readInt("$k"), readInt("$min"), readInt("$max"), readFloat("$radius")
}

// classify implements the three-way split of spec.md §4.2.
func classify(matrixDriven bool, b *digest.ConnectionBinding) Kind {
	switch {
	case matrixDriven:
		return MatrixDriven
	case b.K > 0 || b.Radius > 0:
		return NearestNeighbor
	default:
		return Enumerative
	}
}

// Describe renders a human-readable summary, used by the emitter's
// diagnostics and by tests.
func (h *ConnectionHolder) Describe() string {
	name := "?"
	if h.Endpoint != nil {
		name = h.Endpoint.Name
	}
	return fmt.Sprintf("#%d %s -> %s (k=%d min=%d max=%d radius=%g project=%v)",
		h.Index, h.Kind, name, h.K, h.Min, h.Max, h.Radius, h.HasProject)
}
