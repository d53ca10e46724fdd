// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import "github.com/cpmech/gosl/fun"

// Heaviside evaluates the Heaviside step function, available to emitted
// equation bodies whose condition coerces a boolean test to a 0/1
// scalar (spec.md §6 "[condition@]expression"). Grounded on gofem's
// seepage elements (ele/seepage/liquid.go), which gate a derivative by
// fun.Heav(x) when a smooth ramp is not requested.
func Heaviside[T Numeric](x T) T {
	return T(fun.Heav(float64(x)))
}

// SmoothRamp evaluates gosl/fun's smoothed ramp, the continuous
// approximation gofem's seepage elements substitute for Heaviside when a
// model requests a non-zero ramp width (o.BetRmp in liquid.go). Emitted
// code uses it for a Variable whose equation hints at smoothing a
// threshold condition instead of switching on it discontinuously.
func SmoothRamp[T Numeric](x, width T) T {
	return T(fun.Sramp(float64(x), float64(width)))
}
