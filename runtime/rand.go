// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import "github.com/cpmech/gosl/rnd"

// Uniform draws one sample from U(0,1), the acceptance test spec.md
// §4.4.3 describes ("accept iff uniform() < $p"). Grounded on gofem's
// inp.Simulation use of the same gosl/rnd package for adjustable random
// parameters (inp/sim.go's rnd.Variables): here the distribution is
// fixed to the unit interval rather than a per-parameter distribution,
// since $p is always compared against a [0,1) draw.
func Uniform() float64 {
	return rnd.Float64(0, 1)
}

// SeedRandom seeds the process-wide generator gosl/rnd draws from. The
// emitted program never calls it, so generated code runs on gosl/rnd's
// own default seeding unless other code calls SeedRandom first.
func SeedRandom(seed int64) {
	rnd.Init(int(seed))
}
