// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"fmt"
	"strings"

	"github.com/n2a-org/n2a-core/digest"
)

// EmitLifecycle renders the fixed lifecycle function set for one part's
// Instance type, skipping any function BackendData.Lifecycle says is
// unneeded; a skipped function is not emitted at all. The embedded
// runtime.InstanceBase[T] has defaults only for the construction,
// liveness and newborn methods, so the generated type satisfies
// runtime.Instance[T] only when every other Instance method is present.
func EmitLifecycle(part *digest.EquationSet, numeric Numeric) string {
	l := part.BackendData.Lifecycle
	instanceName, _ := StructNames(part)
	var b strings.Builder

	if l.Init {
		writeMethod(&b, instanceName, "Init", fmt.Sprintf("t %s", numeric), "", emitPhase(part, phaseInit))
	}
	if l.Update {
		writeMethod(&b, instanceName, "Update", fmt.Sprintf("t %s", numeric), "", emitPhase(part, phaseUpdate))
	}
	if l.Finalize {
		writeMethod(&b, instanceName, "Finalize", fmt.Sprintf("t %s", numeric), "", emitPhase(part, phaseFinalize))
	}
	if l.Integrate {
		writeMethod(&b, instanceName, "Integrate", fmt.Sprintf("dt %s", numeric), "", emitIntegrate(part, numeric))
	}
	if l.GetLive {
		writeMethod(&b, instanceName, "GetLive", "", "bool", fmt.Sprintf("\treturn %s.Flags&runtime.FlagLive != 0\n", receiver))
	}
	if l.GetP {
		writeMethod(&b, instanceName, "GetP", "", string(numeric), emitScalarGetter(part, "$p", numeric))
	}
	if l.GetXYZ {
		writeMethod(&b, instanceName, "GetXYZ", "", "[]"+string(numeric), emitXYZGetter(part, numeric))
	}
	if l.GetProject {
		writeMethod(&b, instanceName, "GetProject", "", "[]"+string(numeric), emitXYZGetterNamed(part, "$project", numeric))
	}
	return b.String()
}

// EmitPopulationLifecycle renders the Population-scope lifecycle
// functions (spec.md §4.3 "Per Population").
func EmitPopulationLifecycle(part *digest.EquationSet, numeric Numeric) string {
	l := part.BackendData.Lifecycle
	_, popName := StructNames(part)
	var b strings.Builder

	if l.Init {
		writeMethod(&b, popName, "Init", fmt.Sprintf("t %s", numeric), "", emitPopulationPhase(part, phaseInit, numeric))
	}
	if l.UpdateDerivative {
		writeMethod(&b, popName, "UpdateDerivative", fmt.Sprintf("t %s", numeric), "", emitDerivativeEval(part, numeric))
	}
	if l.Resize {
		writeMethod(&b, popName, "Resize", "n int", "", fmt.Sprintf("\t%s.Membership.Resize(n, %s.Create, func(i runtime.Instance[%s]) { i.Die() })\n", receiver, receiver, numeric))
	}
	return b.String()
}

type phase int

const (
	phaseInit phase = iota
	phaseUpdate
	phaseFinalize
)

// emitPhase lowers every Ordered Variable of part whose storage class
// matches phase into its multiconditional assignment (spec.md §4.1 step
// 14 "ordered" gives the within-part evaluation sequence the emitter must
// preserve verbatim).
func emitPhase(part *digest.EquationSet, ph phase) string {
	var b strings.Builder
	for _, v := range part.Ordered {
		if !variableBelongsToPhase(v, ph) {
			continue
		}
		b.WriteString(EmitMulticonditional(v, part, "\t"))
	}
	if ph == phaseFinalize {
		b.WriteString(emitCombinerResets(part))
	}
	return b.String()
}

// variableBelongsToPhase classifies a Variable into Init/Update/Finalize
// the way gofem's element Update/solver.go split residual assembly from
// state commit: initOnly variables run once in Init; buffered variables
// commit in Finalize since their writers land in the next_ shadow during
// Update; everything else evaluates every Update.
func variableBelongsToPhase(v *digest.Variable, ph phase) bool {
	if v.Attributes.Has(digest.AttrTemporary) && len(v.Equations) == 0 {
		return false
	}
	switch ph {
	case phaseInit:
		return v.Attributes.Has(digest.AttrInitOnly)
	case phaseFinalize:
		return v.Buffered
	default: // phaseUpdate
		return !v.Attributes.Has(digest.AttrInitOnly) && !v.Buffered && v.Order == 0
	}
}

// emitCombinerResets realizes the spec.md §8 universal invariant: after
// each finalize, a combined Variable's buffer resets to its combiner's
// identity value.
func emitCombinerResets(part *digest.EquationSet) string {
	var b strings.Builder
	for _, v := range part.BackendData.BufferedVariables {
		if v.Assignment == digest.REPLACE {
			continue
		}
		fmt.Fprintf(&b, "\t%s.%s = %s\n", receiver, FieldName(v), identityLiteral(v.Assignment))
	}
	return b.String()
}

func identityLiteral(a digest.Assignment) string {
	switch a {
	case digest.ADD:
		return "0"
	case digest.MULTIPLY, digest.DIVIDE:
		return "1"
	case digest.MIN:
		return "math.Inf(1)"
	case digest.MAX:
		return "math.Inf(-1)"
	default:
		return "0"
	}
}

// emitIntegrate lowers every IntegratedVariable's Euler update in place
// (spec.md §4.3 "Integration": "v += v_dot * dt"); the Scheduler decides
// whether this single-pass update is the whole story (Euler) or one of
// four RK4 stages feeding PushDerivative/MultiplyAddToStack instead.
func emitIntegrate(part *digest.EquationSet, numeric Numeric) string {
	var b strings.Builder
	for _, v := range part.BackendData.IntegratedVariables {
		deriv := v.Derivative
		if deriv == nil {
			continue
		}
		fmt.Fprintf(&b, "\t%s.%s += %s(float64(%s.%s) * float64(dt))\n",
			receiver, FieldName(v), numeric, receiver, FieldName(deriv))
	}
	return b.String()
}

func emitScalarGetter(part *digest.EquationSet, name string, numeric Numeric) string {
	v := part.FindVariable(name)
	if v == nil {
		return fmt.Sprintf("\treturn %s(1)\n", numeric)
	}
	return fmt.Sprintf("\treturn %s.%s\n", receiver, FieldName(v))
}

func emitXYZGetter(part *digest.EquationSet, numeric Numeric) string {
	return emitXYZGetterNamed(part, "$xyz", numeric)
}

func emitXYZGetterNamed(part *digest.EquationSet, name string, numeric Numeric) string {
	v := part.FindVariable(name)
	if v == nil {
		return "\treturn nil\n"
	}
	return fmt.Sprintf("\treturn %s.%s.Data\n", receiver, FieldName(v))
}

// emitPopulationPhase lowers GlobalVariables belonging to ph across the
// Population's own state (mirrors emitPhase but targets population-scope
// fields rather than per-Instance ones).
func emitPopulationPhase(part *digest.EquationSet, ph phase, numeric Numeric) string {
	var b strings.Builder
	for _, v := range part.BackendData.GlobalVariables {
		if !variableBelongsToPhase(v, ph) {
			continue
		}
		b.WriteString(EmitMulticonditional(v, part, "\t"))
	}
	return b.String()
}

// emitDerivativeEval evaluates every global IntegratedVariable's
// derivative expression into the Population's Derivative record (spec.md
// §4.3 "Population layout": "Derivative sub-record... holding one field
// per global derivative").
func emitDerivativeEval(part *digest.EquationSet, numeric Numeric) string {
	var b strings.Builder
	for _, v := range part.BackendData.IntegratedVariables {
		if !v.Population {
			continue
		}
		fmt.Fprintf(&b, "\t%s.Derivative.%s = %s\n", receiver, FieldName(v), EmitExpr(firstEquationExpr(v), part))
	}
	return b.String()
}

func firstEquationExpr(v *digest.Variable) *digest.Expr {
	for _, eq := range v.Equations {
		if eq.Condition == nil {
			return eq.Expr
		}
	}
	if len(v.Equations) > 0 {
		return v.Equations[0].Expr
	}
	return &digest.Expr{Op: "Const"}
}

func writeMethod(b *strings.Builder, typeName, method, params, ret, body string) {
	sig := fmt.Sprintf("func (%s *%s) %s(%s)", receiver, typeName, method, params)
	if ret != "" {
		sig += " " + ret
	}
	fmt.Fprintf(b, "%s {\n%s}\n\n", sig, body)
}
