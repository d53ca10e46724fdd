// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageFlatten realizes pipeline step 7: inline single-use inner parts.
// A subpart is inlined when it is a singleton, is not itself a
// connection, and is not named as an endpoint by any connection binding
// under its container; references to it are not counted.
func (d *digester) stageFlatten(root *EquationSet) error {
	return flattenPart(root)
}

func flattenPart(eqset *EquationSet) error {
	kept := eqset.Parts[:0]
	for _, sub := range eqset.Parts {
		if err := flattenPart(sub); err != nil {
			return err
		}
		if canInline(eqset, sub) {
			inlinePart(eqset, sub)
			continue
		}
		kept = append(kept, sub)
	}
	eqset.Parts = kept
	return nil
}

// canInline reports whether sub may be flattened into its container.
func canInline(container, sub *EquationSet) bool {
	if sub.IsConnection() || sub.Singleton == false && len(sub.Parts) > 0 {
		// a non-singleton part with its own children has population
		// semantics the container cannot represent after inlining.
		return false
	}
	if !sub.Singleton {
		return false
	}
	if isConnectionEndpoint(container, sub) {
		return false
	}
	return true
}

// isConnectionEndpoint reports whether sub is named as an endpoint by any
// connection binding anywhere under container.
func isConnectionEndpoint(container, sub *EquationSet) bool {
	found := false
	_ = walkParts(container, func(p *EquationSet) error {
		for _, b := range p.ConnectionBindings {
			if b.Endpoint == sub {
				found = true
			}
		}
		return nil
	})
	return found
}

// inlinePart merges sub's Variables into container, renaming collisions
// with sub.Name as a prefix so distinct sources never merge silently.
func inlinePart(container, sub *EquationSet) {
	for _, v := range sub.Variables {
		if container.FindVariableOrder(v.Name, v.Order) != nil {
			v.Name = sub.Name + "_" + v.Name
		}
		v.Part = container
		container.Variables = append(container.Variables, v)
	}
}
