// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package job

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/n2a-org/n2a-core/digest"
	"github.com/n2a-org/n2a-core/emit"
)

// Test_job01 checks $metadata is read back into Job the same way a .sim
// file's Data block feeds inp.Simulation.
func Test_job01(tst *testing.T) {

	chk.PrintTitle("job01")

	text := "N1\n\t$metadata\n\t\tbackend/c/type = int\n\t\tbackend/c/dt = 0.05\n\tx = 1\n"
	root, err := digest.ParseModel(text)
	if err != nil {
		tst.Fatalf("ParseModel failed: %v", err)
	}
	eqset, err := digest.Build(root)
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	n1 := eqset.Parts[0]

	j := New()
	if err := j.LoadMetadata(n1); err != nil {
		tst.Fatalf("LoadMetadata failed: %v", err)
	}
	chk.Strings(tst, "backend", []string{j.Backend}, []string{"int"})
	if j.Numeric != emit.NumericInt32 {
		tst.Fatalf("expected NumericInt32, got %v", j.Numeric)
	}
	if !j.FixedPoint {
		tst.Fatalf("expected FixedPoint true for int backend")
	}
	chk.Scalar(tst, "dt", 1e-15, j.Dt, 0.05)
}

// Test_job02 checks generated-binary key=value overrides (dt, until, rk4)
// are applied onto a New Job, mirroring inp.ReadSim's CLI-override step.
func Test_job02(tst *testing.T) {

	chk.PrintTitle("job02")

	j := New()
	if err := j.ApplyParams(map[string]string{"dt": "0.2", "until": "5", "rk4": "true"}); err != nil {
		tst.Fatalf("ApplyParams failed: %v", err)
	}
	chk.Scalar(tst, "dt", 1e-15, j.Dt, 0.2)
	chk.Scalar(tst, "until", 1e-15, j.Until, 5)
	if j.Integ != RK4 {
		tst.Fatalf("expected RK4 after rk4=true override")
	}
}
