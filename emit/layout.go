// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit implements CodeEmitter: it lowers a digested EquationSet
// tree plus its ConnectionPlanner output into Go source text that links
// against package runtime (spec.md §4.3). The emitter makes no semantic
// choices of its own — every choice (storage class, buffering, which
// lifecycle functions are needed) was already recorded in
// digest.BackendData; emit only has to realize it as syntax, the same
// division of labor gofem keeps between its element packages (ele, which
// decide element formulations) and its solver (fem, which only assembles
// and drives what ele hands it).
package emit

import (
	"fmt"
	"strings"

	"github.com/n2a-org/n2a-core/connect"
	"github.com/n2a-org/n2a-core/digest"
)

// Numeric is the storage type string baked into every generated file,
// mirroring runtime.Numeric's three instantiations (spec.md §4.4.1).
type Numeric string

const (
	NumericInt32   Numeric = "int32"
	NumericFloat32 Numeric = "float32"
	NumericFloat64 Numeric = "float64"
)

// GoType returns the storage type string emitted for a Variable of the
// given VarType (spec.md §4.3 "Instance layout"): Scalar gives T, Matrix
// always gives *runtime.Matrix[T] (runtime.MatrixFixed is never chosen,
// even when dimensions are known), Text gives string.
func GoType(vt digest.VarType, t Numeric) string {
	switch vt {
	case digest.Matrix:
		return fmt.Sprintf("*runtime.Matrix[%s]", t)
	case digest.Text:
		return "string"
	default:
		return string(t)
	}
}

// Field is one emitted struct field.
type Field struct {
	Name    string
	GoType  string
	Comment string
}

// InstanceLayout is the field plan for one part's Instance class (spec.md
// §4.3 "Instance layout").
type InstanceLayout struct {
	Part        *digest.EquationSet
	StructName  string
	Container   *Field // back-reference, absent when reachable through an endpoint
	Endpoints   []Field
	Locals      []Field // non-temporary, non-constant, local Variables
	Next        []Field // next_ shadow fields for externally-buffered locals
	HasIndex    bool
	HasRefcount bool
	HasLastT    bool
	EventTimes  []string // event target names needing a disambiguating eventTime# field
	Delays      []Field
	SubPops     []Field // nested Population fields for contained parts
}

// PopulationLayout is the field plan for one part's Population class
// (spec.md §4.3 "Population layout").
type PopulationLayout struct {
	Part           *digest.EquationSet
	StructName     string
	HasDerivative  bool
	DerivativeName string
	HasPreserve    bool
	PreserveName   string
	Globals        []Field
	TrackN         bool
	HasInstances   bool
}

// StructNames returns the conventional Instance/Population type names for
// a part: CamelCase(part.Name) + "Instance"/"Population".
func StructNames(part *digest.EquationSet) (instance, population string) {
	base := GoIdent(part.Name)
	return base + "Instance", base + "Population"
}

// GoIdent sanitizes an N2A name into an exported Go identifier: strips
// the "$" sigil variables carry, strips a trailing derivative tick (so "x'"
// gives "X"; FieldName adds the "Dot" suffix that tells a derivative field
// apart), and title-cases word boundaries on '_' so emitted field
// names read the way gofem's own hand-written struct fields do (Kb, Dt,
// Ndim) rather than verbatim snake_case.
func GoIdent(name string) string {
	name = strings.TrimPrefix(name, "$")
	name = strings.TrimSuffix(name, "'")
	if name == "" {
		return "X"
	}
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	// Go identifiers cannot start with a digit.
	if out[0] >= '0' && out[0] <= '9' {
		out = "V" + out
	}
	return out
}

// FieldName returns the Go struct field name for v, appending one "Dot"
// per derivative order so "x" (order 0) and its derivative (order 1)
// don't collide (spec.md §3 Variable.order, §4.1 step 6 "integrated-
// variable creation").
func FieldName(v *digest.Variable) string {
	name := GoIdent(v.Name)
	for i := 0; i < v.Order; i++ {
		name += "Dot"
	}
	return name
}

// PlanInstance derives an InstanceLayout from part's BackendData, per the
// field list of spec.md §4.3 "Instance layout".
func PlanInstance(part *digest.EquationSet, numeric Numeric, holders []*connect.ConnectionHolder) *InstanceLayout {
	instanceName, _ := StructNames(part)
	l := &InstanceLayout{Part: part, StructName: instanceName}
	bd := part.BackendData

	if !part.IsConnection() || !connectionReachesContainerViaEndpoint(part) {
		l.Container = &Field{Name: "Container", GoType: "runtime.Instance[" + string(numeric) + "]", Comment: "back-reference, borrowed (spec.md §9)"}
	}
	for _, h := range holders {
		alias := aliasName(part, h.Index)
		l.Endpoints = append(l.Endpoints, Field{
			Name:   GoIdent(alias),
			GoType: "runtime.Instance[" + string(numeric) + "]",
		})
	}
	bufferedSet := map[*digest.Variable]bool{}
	for _, v := range bd.BufferedVariables {
		bufferedSet[v] = true
	}
	for _, v := range bd.LocalVariables {
		l.Locals = append(l.Locals, Field{Name: FieldName(v), GoType: GoType(v.Type, numeric)})
		if bufferedSet[v] {
			l.Next = append(l.Next, Field{Name: "Next" + FieldName(v), GoType: GoType(v.Type, numeric)})
		}
	}
	l.HasIndex = bd.HasIndex
	l.HasRefcount = bd.HasRefcount
	l.HasLastT = bd.HasLastT
	for _, es := range bd.EventSources {
		for _, t := range es.Targets {
			if t.NeedsTrack {
				l.EventTimes = append(l.EventTimes, fmt.Sprintf("EventTime%d", t.ValueIndex))
			}
		}
	}
	for i, d := range bd.Delays {
		l.Delays = append(l.Delays, Field{Name: fmt.Sprintf("%sDelay%d", FieldName(d.Variable), i), GoType: GoType(d.Variable.Type, numeric)})
	}
	for _, sub := range part.Parts {
		_, popName := StructNames(sub)
		l.SubPops = append(l.SubPops, Field{Name: GoIdent(sub.Name) + "s", GoType: "*" + popName})
	}
	return l
}

// PlanPopulation derives a PopulationLayout from part's BackendData
// (spec.md §4.3 "Population layout").
func PlanPopulation(part *digest.EquationSet, numeric Numeric) *PopulationLayout {
	_, popName := StructNames(part)
	l := &PopulationLayout{Part: part, StructName: popName}
	bd := part.BackendData
	if len(bd.IntegratedVariables) > 0 {
		l.HasDerivative = true
		l.DerivativeName = popName + "Derivative"
		l.HasPreserve = true
		l.PreserveName = popName + "Preserve"
	}
	for _, v := range bd.GlobalVariables {
		l.Globals = append(l.Globals, Field{Name: FieldName(v), GoType: GoType(v.Type, numeric)})
	}
	l.TrackN = bd.TrackNewborn
	l.HasInstances = part.IsConnection() || bd.TrackNewborn
	return l
}

// connectionReachesContainerViaEndpoint reports whether a connection part
// can reach its container through one of its endpoints rather than
// needing its own Container field (spec.md §4.3 "connections reach
// container through one of their endpoints' containers if reachable,
// saving a field").
func connectionReachesContainerViaEndpoint(part *digest.EquationSet) bool {
	for _, b := range part.ConnectionBindings {
		if b.Endpoint != nil && b.Endpoint.Container == part.Container {
			return true
		}
	}
	return false
}

// aliasName returns the alias text of the Index'th connection binding.
func aliasName(part *digest.EquationSet, index int) string {
	for _, b := range part.ConnectionBindings {
		if b.Index == index {
			return b.Alias
		}
	}
	return fmt.Sprintf("endpoint%d", index)
}
