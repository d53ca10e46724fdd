// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import "math"

// MSB is the bit position of the most significant bit of the fixed-point
// storage type (an int32), per spec.md §4.1.1.
const MSB = 30

// unknownExponent marks an Expr/Variable whose exponent has not yet been
// determined by the fixed-point propagation below. exponentOfConstant
// never returns 0 (a would-be 0 becomes 1), but exponents below 1 are
// possible: constants with magnitude under 0.5 get negative exponents.
const unknownExponent = 0

// stageExponentDetermination realizes pipeline step 18: if the target is
// fixed-point, determine every Variable's and Expr's exponent (spec.md
// §4.1 step 18, §4.1.1). It is a no-op in floating-point mode.
func (d *digester) stageExponentDetermination(root *EquationSet) error {
	if !d.opts.FixedPoint {
		return nil
	}
	return walkParts(root, func(eqset *EquationSet) error {
		for pass := 0; pass < maxExponentPasses(eqset); pass++ {
			changed := false
			for _, v := range eqset.Variables {
				for _, eq := range v.Equations {
					if propagateExponent(eq.Expr) {
						changed = true
					}
					propagateExponent(eq.Condition)
				}
				if v.Exponent == 0 && len(v.Equations) > 0 {
					if e := dominantExponent(v); e != unknownExponent {
						v.Exponent = e
						changed = true
					}
				}
			}
			if !changed {
				break
			}
		}
		for _, v := range eqset.Variables {
			for _, eq := range v.Equations {
				if exprHasUnknown(eq.Expr) {
					return newDigestError(ErrExponentUnderdetermined, eqset.Path(),
						"cannot determine a fixed-point exponent for variable %q", v.Name)
				}
			}
		}
		return nil
	})
}

func maxExponentPasses(eqset *EquationSet) int {
	n := len(eqset.Variables) + 4
	return n
}

// dominantExponent returns the exponent of the default (or only) equation
// of v once it is known, else unknownExponent.
func dominantExponent(v *Variable) int {
	for _, eq := range v.Equations {
		if eq.Condition == nil && eq.Expr != nil && eq.Expr.Exponent != 0 {
			return eq.Expr.Exponent
		}
	}
	return unknownExponent
}

// propagateExponent fills e.Exponent bottom-up using the multiply/divide/
// add/subtract shift algebra of spec.md §4.1.1, returning true if it
// changed anything on this pass.
func propagateExponent(e *Expr) bool {
	if e == nil {
		return false
	}
	changed := false
	for _, c := range e.Children {
		if propagateExponent(c) {
			changed = true
		}
	}
	if e.Exponent != 0 {
		return changed
	}
	switch e.Op {
	case "Const":
		e.Exponent = exponentOfConstant(e.Const)
		changed = true
	case "Var":
		if e.Ref != nil && e.Ref.Variable != nil && e.Ref.Variable.Exponent != 0 {
			e.Exponent = e.Ref.Variable.Exponent
			changed = true
		}
	case "*":
		a, b := e.Children[0].Exponent, e.Children[1].Exponent
		if a != 0 && b != 0 {
			e.Exponent = a + b - MSB
			changed = true
		}
	case "/":
		a, b := e.Children[0].Exponent, e.Children[1].Exponent
		if a != 0 && b != 0 {
			e.Exponent = a - b + MSB
			changed = true
		}
	case "+", "-":
		a, b := e.Children[0].Exponent, e.Children[1].Exponent
		if a != 0 && b != 0 {
			if a > b {
				e.Exponent = a
			} else {
				e.Exponent = b
			}
			changed = true
		}
	case "neg":
		if e.Children[0].Exponent != 0 {
			e.Exponent = e.Children[0].Exponent
			changed = true
		}
	default:
		// comparisons, Event/Delay and user function calls are boolean or
		// carry the time exponent; leave unknown until an explicit
		// annotation or further analysis determines it.
	}
	return changed
}

// exponentOfConstant returns floor(log2|v|)+1 for a constant's value (one
// more than the power-of-two position of its MSB); a result of 0, which
// magnitudes in [0.5, 1) produce, and v == 0 both become 1.
func exponentOfConstant(v float64) int {
	if v == 0 {
		return 1 // smallest representable positive exponent; avoids div-by-zero downstream
	}
	av := math.Abs(v)
	e := int(math.Floor(math.Log2(av))) + 1
	if e == 0 {
		e = 1
	}
	return e
}

func exprHasUnknown(e *Expr) bool {
	if e == nil {
		return false
	}
	if e.Op != "Const" && e.Op != "Var" && len(e.Children) == 0 {
		return false // nullary builtin call, not an arithmetic leaf
	}
	if e.Exponent == 0 {
		return true
	}
	for _, c := range e.Children {
		if exprHasUnknown(c) {
			return true
		}
	}
	return false
}
