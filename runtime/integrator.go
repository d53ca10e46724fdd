// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

// Integrator advances a Population's integrated state by dt (spec.md
// §4.4.2), grounded on gofem's fem.FEsolver split between an explicit
// update step and a solution-finalize step: here Update/Finalize are
// supplied by the Population itself and the Integrator only sequences
// the extra bookkeeping (Euler none, RK4 snapshot/restore/stack).
type Integrator[T Numeric] interface {
	Integrate(pop Population[T], t T, dt T)
}

// Euler implements spec.md §4.4.2's first-order integrator: "v <- v +
// v' * dt, one pass of update then finalize." The update/finalize calls
// themselves happen in Scheduler.Step; Integrate only triggers the
// derivative evaluation and the single Euler increment via
// UpdateDerivative/AddToMembers, mirroring how gofem's element Update
// leaves the outer solve loop to its FEsolver.
type Euler[T Numeric] struct{}

func (Euler[T]) Integrate(pop Population[T], t T, dt T) {
	pop.UpdateDerivative(t)
	pop.Multiply(dt)
	pop.AddToMembers()
}

// RK4 implements the classical 4th-order Runge-Kutta scheme of spec.md
// §4.4.2: snapshot preserves state, four stages evaluate derivatives
// pushing them to a derivative stack, a weighted sum is accumulated, and
// restore rolls back between stages.
//
// PushDerivative accumulates the just-computed (unweighted) stage
// derivative into the emitted Population's running sum, applying the
// classical 1/6, 2/6, 2/6, 1/6 weights itself by counting calls since the
// last Snapshot, so the sum is the weighted-average derivative that the
// final Multiply(dt) scales; MultiplyAddToStack positions state at
// snapshot+scale*k for
// the following stage's evaluation. This keeps the Integrator itself
// free of any field-level bookkeeping, matching how BackendData (not the
// event loop) owns storage decisions in spec.md §4.3.
type RK4[T Numeric] struct{}

// rk4TimeFractions are the fraction of dt each stage evaluates the
// derivative at, relative to the snapshot: k1 at t, k2 and k3 at
// t+dt/2, k4 at t+dt.
var rk4TimeFractions = [4]float64{0, 0.5, 0.5, 1}

func (RK4[T]) Integrate(pop Population[T], t T, dt T) {
	pop.Snapshot()
	for stage := 0; stage < 4; stage++ {
		frac := rk4TimeFractions[stage]
		pop.UpdateDerivative(t + T(frac*float64(dt)))
		pop.PushDerivative()
		if stage < 3 {
			pop.Restore()
			next := rk4TimeFractions[stage+1]
			pop.MultiplyAddToStack(T(next * float64(dt)))
		}
	}
	pop.Restore()
	pop.Multiply(dt)
	pop.AddToMembers()
}
