// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageEventAnalysis realizes pipeline step 20: assign each Event()
// operator a valueIndex, determine its trigger edge, allocate a tracking
// variable when the edge needs a "before" value, compute constant-vs-
// expression delay, and wire EventSource lists (spec.md §4.1 step 20,
// §4.4.1 "Event detection").
func (d *digester) stageEventAnalysis(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		var targets []*EventTargetDescriptor
		idx := 0
		for _, v := range eqset.Variables {
			for _, eq := range v.Equations {
				found := findEventCalls(eq.Expr)
				for _, call := range found {
					t, err := analyzeEvent(v, call, idx)
					if err != nil {
						return err
					}
					idx++
					targets = append(targets, t)
					if t.NeedsTrack {
						trackName := "$before_" + v.Name
						if eqset.FindVariable(trackName) == nil {
							tv := NewVariable(trackName)
							tv.Attributes.Add(AttrDummy)
							eqset.Variables = append(eqset.Variables, tv)
						}
					}
				}
			}
		}
		if len(targets) > 0 {
			eqset.BackendData.EventSources = append(eqset.BackendData.EventSources, &EventSourceDescriptor{
				Owner:   eqset,
				Targets: targets,
			})
		}
		return nil
	})
}

// findEventCalls collects every Event(...) call node within e.
func findEventCalls(e *Expr) []*Expr {
	var out []*Expr
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil {
			return
		}
		if e.Op == "Event" {
			out = append(out, e)
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// edgeCodes maps the numeric literal passed as Event()'s second argument
// to a trigger edge (spec.md §4.4.1); the grammar has no string literals,
// so the edge is selected by small integer code instead of by name.
var edgeCodes = map[float64]string{0: "NONZERO", 1: "RISE", 2: "FALL", 3: "CHANGE"}

// analyzeEvent interprets one Event(condition[, edgeCode[, delay]]) call.
// edgeCode, when given, selects among RISE/FALL/CHANGE/NONZERO via
// edgeCodes (default NONZERO, spec.md §4.4.1).
func analyzeEvent(v *Variable, call *Expr, valueIndex int) (*EventTargetDescriptor, error) {
	if len(call.Children) == 0 {
		return nil, newDigestError(ErrMalformedSplit, v.Part.Path(), "Event() requires a condition argument")
	}
	edge := "NONZERO"
	if len(call.Children) > 1 && call.Children[1].IsConst {
		if e, ok := edgeCodes[call.Children[1].Const]; ok {
			edge = e
		}
	}
	call.EventIndex = valueIndex
	t := &EventTargetDescriptor{
		ValueIndex: valueIndex,
		Edge:       edge,
		Variable:   v,
		NeedsTrack: edge == "RISE" || edge == "FALL" || edge == "CHANGE",
	}
	if len(call.Children) > 2 {
		delay := call.Children[2]
		if delay.IsConst {
			t.DelayIsConst = true
			t.DelayConst = delay.Const
		} else {
			t.DelayExpr = delay
		}
	}
	return t, nil
}
