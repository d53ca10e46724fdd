// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import "github.com/n2a-org/n2a-core/digest"

// Plan runs CodeEmitter's own emission-planning pass over part and every
// descendant, completing the BackendData decorations spec.md §3 assigns
// to emission time rather than to EquationDigest: "BackendData is created
// during emission-planning and lives for the duration of emission." The
// digest pipeline (digest.Digest) already filled in ordering, typing,
// exponents, liveness and event analysis; this pass adds the storage
// classification (local vs population scope, buffering, which Variables
// integrate) and decides which of the fixed lifecycle functions (spec.md
// §4.3) this part actually needs emitted, exactly as BackendData.Lifecycle
// documents ("which lifecycle functions the emitter must actually emit").
// It must run once, bottom-up over the whole tree, before any EmitPart
// call reads BackendData.
func Plan(part *digest.EquationSet) {
	for _, sub := range part.Parts {
		Plan(sub)
	}
	classifyVariables(part)
	planLifecycle(part)
}

// classifyVariables realizes the storage-class decorations spec.md §3
// assigns to Variable (Population, Buffered) and the BackendData
// collections derived from them.
func classifyVariables(part *digest.EquationSet) {
	bd := part.BackendData
	bd.LocalVariables = nil
	bd.GlobalVariables = nil
	bd.BufferedVariables = nil
	bd.IntegratedVariables = nil

	for _, v := range part.Variables {
		if skipVariable(v) {
			continue
		}
		v.Population = v.Attributes.Has(digest.AttrGlobal)
		v.Buffered = v.Attributes.Has(digest.AttrExternalRead) ||
			v.Attributes.Has(digest.AttrExternalWrite) ||
			v.Assignment != digest.REPLACE

		if v.Population {
			bd.GlobalVariables = append(bd.GlobalVariables, v)
		} else {
			bd.LocalVariables = append(bd.LocalVariables, v)
		}
		if v.Buffered {
			bd.BufferedVariables = append(bd.BufferedVariables, v)
		}
		if v.Order == 0 && v.Derivative != nil {
			bd.IntegratedVariables = append(bd.IntegratedVariables, v)
		}
	}
	bd.Delays = collectDelays(part)
	bd.HasIndex = partReferencesName(part, "$index")
	// lastT (spec.md §4.3 "optional lastT for variable-step semantics") is
	// only meaningful once a part actually integrates something and an
	// equation reads $t directly, the sign a per-instance rather than a
	// globally-uniform step is in play.
	bd.HasLastT = len(bd.IntegratedVariables) > 0 && partReferencesName(part, "$t")
}

// partReferencesName reports whether any equation in part reads the
// Variable named name.
func partReferencesName(part *digest.EquationSet, name string) bool {
	for _, v := range part.Variables {
		for _, eq := range v.Equations {
			if exprReferencesName(eq.Expr, name) {
				return true
			}
		}
	}
	return false
}

func exprReferencesName(e *digest.Expr, name string) bool {
	if e == nil {
		return false
	}
	if e.Ref != nil && e.Ref.Variable != nil && e.Ref.Variable.Name == name {
		return true
	}
	for _, c := range e.Children {
		if exprReferencesName(c, name) {
			return true
		}
	}
	return false
}

// skipVariable reports whether v never gets instance/population storage:
// constants are folded at compile time, dummies (structural sugar like
// $inherit) never reach emission, and pure temporaries that have no
// reader downstream of the ordering pass were already dropped by
// stageRemoveUnused.
func skipVariable(v *digest.Variable) bool {
	return v.Attributes.Has(digest.AttrConstant) || v.Attributes.Has(digest.AttrDummy)
}

// collectDelays walks every equation in part for Delay(...) operator
// usages (spec.md §3 "delays for pipelined delay operators").
func collectDelays(part *digest.EquationSet) []*digest.DelayDescriptor {
	var out []*digest.DelayDescriptor
	for _, v := range part.Variables {
		for _, eq := range v.Equations {
			walkDelay(eq.Expr, v, &out)
		}
	}
	return out
}

func walkDelay(e *digest.Expr, v *digest.Variable, out *[]*digest.DelayDescriptor) {
	if e == nil {
		return
	}
	if e.Op == "Delay" {
		depth := 1
		if len(e.Children) > 1 && e.Children[1].IsConst {
			depth = int(e.Children[1].Const)
		}
		*out = append(*out, &digest.DelayDescriptor{Variable: v, Depth: depth})
	}
	for _, c := range e.Children {
		walkDelay(c, v, out)
	}
}

// planLifecycle decides which lifecycle functions BackendData.Lifecycle
// flags for emission (spec.md §4.3): a flag left false means the function
// is not emitted. The embedded InstanceBase/Membership supply defaults for
// only some Instance/Population Protocol methods (see runtime/protocol.go
// and runtime/population.go).
func planLifecycle(part *digest.EquationSet) {
	bd := part.BackendData
	l := &bd.Lifecycle

	l.Init = hasInitOnly(part)
	l.Update = hasUpdateWork(part)
	l.Finalize = len(bd.BufferedVariables) > 0
	l.Integrate = len(bd.IntegratedVariables) > 0
	l.UpdateDerivative = hasPopulationIntegrated(bd)
	l.GetLive = bd.LiveStored
	l.GetP = part.IsConnection()
	l.GetXYZ = part.FindVariable("$xyz") != nil
	l.GetProject = part.FindVariable("$project") != nil
	l.Resize = bd.TrackNewborn
	l.EventTest = len(bd.EventSources) > 0
	l.SetLatch = len(bd.EventSources) > 0
	l.FinalizeEvent = len(bd.EventSources) > 0
}

func hasInitOnly(part *digest.EquationSet) bool {
	for _, v := range part.Variables {
		if v.Attributes.Has(digest.AttrInitOnly) && !skipVariable(v) {
			return true
		}
	}
	return false
}

func hasUpdateWork(part *digest.EquationSet) bool {
	for _, v := range part.Variables {
		if skipVariable(v) {
			continue
		}
		if variableBelongsToPhase(v, phaseUpdate) {
			return true
		}
	}
	return false
}

func hasPopulationIntegrated(bd *digest.BackendData) bool {
	for _, v := range bd.IntegratedVariables {
		if v.Population {
			return true
		}
	}
	return false
}
