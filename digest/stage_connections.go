// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// stageResolveConnections realizes pipeline step 2: every connection
// binding's `alias` is bound to an EquationSet (spec.md §3 ConnectionBinding,
// §4.1 step 2). The endpoint name is resolved against the container of
// the connection part (siblings), matching how N2A connections reference
// populations declared alongside them.
func (d *digester) stageResolveConnections(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		if !eqset.IsConnection() {
			return nil
		}
		container := eqset.Container
		if container == nil {
			return newDigestError(ErrUnfulfilledBinding, eqset.Path(), "connection %q has no container to resolve endpoints against", eqset.Name)
		}
		for _, b := range eqset.ConnectionBindings {
			if len(b.Resolution) == 0 {
				return newDigestError(ErrUnfulfilledBinding, eqset.Path(), "binding %q has no endpoint name", b.Alias)
			}
			target := b.Resolution[len(b.Resolution)-1].Name
			ep := container.FindPart(target)
			if ep == nil {
				return newDigestError(ErrUnfulfilledBinding, eqset.Path(), "binding %q references unknown endpoint %q", b.Alias, target)
			}
			b.Endpoint = ep
		}
		return nil
	})
}
