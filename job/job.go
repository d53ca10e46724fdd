// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package job holds per-run configuration for the n2a compiler and
// generated simulator, modeled on gofem's inp.Data/inp.Simulation: a
// struct populated first from the model's own $metadata node, then
// overridden by command-line flags (spec.md §6 "Numeric type
// selection", §9 "Global state... thread-local under TLS mode").
package job

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"

	"github.com/n2a-org/n2a-core/digest"
	"github.com/n2a-org/n2a-core/emit"
)

// Integrator names the two fixed-step integrators spec.md §4.4.2 allows.
type Integrator string

const (
	Euler Integrator = "euler"
	RK4   Integrator = "rk4"
)

// Job carries every option that affects digest, emission, or the
// generated binary's own run, independent of the model itself (spec.md
// §6, §9). New, not the zero value, supplies the gofem SetDefault-style
// defaults: double (float64), Euler, dt=0.01, until=1, not TLS.
type Job struct {
	Key        string     // run key, e.g. model file name without extension
	RunID      string     // uuid stamped at job creation, distinguishes concurrent runs in DirOut
	Backend    string     // "float", "double", or "int" (spec.md §6)
	Numeric    emit.Numeric
	FixedPoint bool
	TLS        bool
	DirOut     string
	Integ      Integrator
	Dt         float64
	Until      float64
	Verbose    bool
}

// New returns a Job with gofem-style defaults (mirrors
// SolverData.SetDefault/LinSolData.SetDefault).
func New() *Job {
	return &Job{
		Backend: "double",
		Numeric: emit.NumericFloat64,
		Integ:   Euler,
		Dt:      0.01,
		Until:   1,
		RunID:   uuid.NewString(),
	}
}

// LoadMetadata reads the built, not yet digested, part's "$metadata" subpart (stored by
// digest.Build as a dummy EquationSet, spec.md §3 "$metadata") and
// applies any of the reserved metadata keys this Job understands,
// mirroring how gofem's ReadSim decodes a .sim file's Data block before
// CLI overrides are merged in.
func (j *Job) LoadMetadata(root *digest.EquationSet) error {
	meta := root.FindPart("$metadata")
	if meta == nil {
		return nil
	}
	values := flattenMetadata(meta)
	if v, ok := values["backend/c/type"]; ok {
		if err := j.setBackend(v); err != nil {
			return err
		}
	}
	if v, ok := values["backend/c/tls"]; ok {
		j.TLS = v == "true" || v == "1"
	}
	if v, ok := values["backend/c/integrator"]; ok {
		switch v {
		case "rk4", "RK4":
			j.Integ = RK4
		default:
			j.Integ = Euler
		}
	}
	if v, ok := values["backend/c/dt"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			j.Dt = f
		}
	}
	return nil
}

func (j *Job) setBackend(v string) error {
	j.Backend = v
	switch v {
	case "float":
		j.Numeric = emit.NumericFloat32
		j.FixedPoint = false
	case "double":
		j.Numeric = emit.NumericFloat64
		j.FixedPoint = false
	case "int":
		j.Numeric = emit.NumericInt32
		j.FixedPoint = true
	default:
		return chk.Err("job: unknown backend/c/type %q, want float|double|int", v)
	}
	return nil
}

// flattenMetadata walks meta's own subpart tree and every leaf Variable,
// joining nested subpart names with "/" and extracting each textual value
// (spec.md §6 "per-model metadata key backend/c/type"). A key written on
// one line, like "backend/c/type = int", stays a single Variable name and
// passes through as is. Metadata leaves are never passed
// through the normal reference-resolution pipeline (they are read back
// out directly here), so a leaf's value is recovered from its unresolved
// parse rather than from a resolved constant.
func flattenMetadata(part *digest.EquationSet) map[string]string {
	out := map[string]string{}
	flattenMetadataInto(part, "", out)
	return out
}

func flattenMetadataInto(part *digest.EquationSet, prefix string, out map[string]string) {
	for _, sub := range part.Parts {
		key := sub.Name
		if prefix != "" {
			key = prefix + "/" + sub.Name
		}
		flattenMetadataInto(sub, key, out)
	}
	for _, v := range part.Variables {
		key := v.Name
		if prefix != "" {
			key = prefix + "/" + v.Name
		}
		if len(v.Equations) == 0 {
			continue
		}
		out[key] = exprToMetadataText(v.Equations[0].Expr)
	}
}

// exprToMetadataText recovers the literal text of a metadata leaf's
// parsed value: a number formats back to its decimal text, a bare
// identifier (the common case for words like "double" or "true") yields
// the identifier itself since pathFromName never splits a slash-free,
// dot-free word into more than one path segment.
func exprToMetadataText(e *digest.Expr) string {
	if e == nil {
		return ""
	}
	switch {
	case e.IsConst:
		return strconv.FormatFloat(e.Const, 'g', -1, 64)
	case e.Op == "Var" && e.Ref != nil && len(e.Ref.Path) > 0:
		return e.Ref.Path[len(e.Ref.Path)-1].Name
	default:
		return ""
	}
}

// ApplyParams merges generated-binary-style key=value overrides (spec.md
// §6 "Generated binary CLI") onto a Job, the same override step
// inp.ReadSim performs after unmarshaling the .sim JSON file but before
// PostProcess.
func (j *Job) ApplyParams(params map[string]string) error {
	if v, ok := params["backend"]; ok {
		if err := j.setBackend(v); err != nil {
			return err
		}
	}
	if v, ok := params["dt"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return chk.Err("job: bad dt override %q: %v", v, err)
		}
		j.Dt = f
	}
	if v, ok := params["until"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return chk.Err("job: bad until override %q: %v", v, err)
		}
		j.Until = f
	}
	if v, ok := params["rk4"]; ok && (v == "true" || v == "1") {
		j.Integ = RK4
	}
	if v, ok := params["dirout"]; ok {
		j.DirOut = v
	}
	return nil
}

// PrepareDirOut resolves and creates DirOut, stamping it with RunID the
// way gofem's ReadSim derives DirOut from Data.DirOut and creates it with
// os.MkdirAll.
func (j *Job) PrepareDirOut(base string) error {
	if base == "" {
		base = "/tmp/n2a"
	}
	j.DirOut = filepath.Join(base, j.Key+"-"+j.RunID[:8])
	if err := os.MkdirAll(j.DirOut, 0777); err != nil {
		return chk.Err("job: cannot create output directory %q: %v", j.DirOut, err)
	}
	if j.Verbose {
		io.Pf("n2a: output directory: %s\n", j.DirOut)
	}
	return nil
}
