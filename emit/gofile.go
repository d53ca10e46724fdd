// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/n2a-org/n2a-core/connect"
	"github.com/n2a-org/n2a-core/digest"
)

// Options controls whole-program emission (spec.md §6 "Numeric type
// selection").
type Options struct {
	Package string
	Numeric Numeric
	// RK4 selects the classical Runge-Kutta integrator over Euler for the
	// emitted Build constructor (spec.md §4.4.2); the job package decides
	// this from $metadata/CLI before calling EmitModel.
	RK4 bool
	// Until, when Package=="main", is baked into an emitted main() that
	// drives runtime.RunMain directly so `go run` on the generated file
	// is a complete standalone program (spec.md §6 "Generated binary
	// CLI"). Ignored for library packages.
	Until float64
}

// EmitPart renders the Instance and Population class pair for one part
// (spec.md §4.3 "Per part, emit two classes"). holders is this part's
// ConnectionPlanner output, nil for a non-connection part.
func EmitPart(part *digest.EquationSet, opts Options, holders []*connect.ConnectionHolder) string {
	Plan(part)
	var b strings.Builder
	instanceName, popName := StructNames(part)
	il := PlanInstance(part, opts.Numeric, holders)
	pl := PlanPopulation(part, opts.Numeric)

	fmt.Fprintf(&b, "// %s is the per-instance type for part %q (spec.md §3 \"Instance\").\n", instanceName, part.Name)
	fmt.Fprintf(&b, "type %s struct {\n", instanceName)
	fmt.Fprintf(&b, "\truntime.InstanceBase[%s]\n", opts.Numeric)
	if il.Container != nil {
		fmt.Fprintf(&b, "\t%s %s\n", il.Container.Name, il.Container.GoType)
	}
	for _, f := range il.Endpoints {
		fmt.Fprintf(&b, "\t%s %s\n", f.Name, f.GoType)
	}
	for _, f := range il.Locals {
		fmt.Fprintf(&b, "\t%s %s\n", f.Name, f.GoType)
	}
	for _, f := range il.Next {
		fmt.Fprintf(&b, "\t%s %s\n", f.Name, f.GoType)
	}
	if il.HasIndex {
		b.WriteString("\tIndex int\n")
	}
	if il.HasRefcount {
		b.WriteString("\tRefcount int\n")
	}
	if il.HasLastT {
		fmt.Fprintf(&b, "\tLastT %s\n", opts.Numeric)
	}
	for _, et := range il.EventTimes {
		fmt.Fprintf(&b, "\t%s %s\n", et, opts.Numeric)
	}
	for _, f := range il.Delays {
		fmt.Fprintf(&b, "\t%s %s\n", f.Name, f.GoType)
	}
	for _, f := range il.SubPops {
		fmt.Fprintf(&b, "\t%s %s\n", f.Name, f.GoType)
	}
	b.WriteString("}\n\n")

	b.WriteString(EmitLifecycle(part, opts.Numeric))

	fmt.Fprintf(&b, "// %s is the per-container collection type for part %q (spec.md §3 \"Population\").\n", popName, part.Name)
	fmt.Fprintf(&b, "type %s struct {\n", popName)
	fmt.Fprintf(&b, "\truntime.Membership[%s]\n", opts.Numeric)
	if pl.HasDerivative {
		fmt.Fprintf(&b, "\tDerivative *%s\n", pl.DerivativeName)
	}
	if pl.HasPreserve {
		fmt.Fprintf(&b, "\tPreserve *%s\n", pl.PreserveName)
	}
	for _, f := range pl.Globals {
		fmt.Fprintf(&b, "\t%s %s\n", f.Name, f.GoType)
	}
	b.WriteString("}\n\n")

	if pl.HasDerivative {
		fmt.Fprintf(&b, "// %s holds one field per global derivative, chained for the Runge-Kutta\n", pl.DerivativeName)
		fmt.Fprintf(&b, "// push-down stack (spec.md §4.3 \"Population layout\").\n")
		fmt.Fprintf(&b, "type %s struct {\n", pl.DerivativeName)
		for _, f := range pl.Globals {
			fmt.Fprintf(&b, "\t%s %s\n", f.Name, f.GoType)
		}
		fmt.Fprintf(&b, "\tNext *%s\n", pl.DerivativeName)
		b.WriteString("}\n\n")
	}

	b.WriteString(EmitPopulationLifecycle(part, opts.Numeric))

	if part.IsConnection() {
		b.WriteString(emitMapIndex(part, holders, opts.Numeric))
	}

	for _, sub := range part.Parts {
		b.WriteString(EmitPart(sub, opts, connect.Plan(sub)))
	}

	return b.String()
}

// emitMapIndex renders the MapIndex method a matrix-driven connection
// gets (spec.md §4.3 "mapIndex"). The emitted method returns row and col
// unchanged: no coordinate mapping is applied, and the row mapping name
// appears only as a comment in its body.
func emitMapIndex(part *digest.EquationSet, holders []*connect.ConnectionHolder, numeric Numeric) string {
	matrixDriven := false
	for _, h := range holders {
		if h.Kind == connect.MatrixDriven {
			matrixDriven = true
		}
	}
	if !matrixDriven {
		return ""
	}
	instanceName, _ := StructNames(part)
	var b strings.Builder
	fmt.Fprintf(&b, "func (%s *%s) MapIndex(row, col int) (int, int) {\n", receiver, instanceName)
	if part.ConnectionMatrix != nil && part.ConnectionMatrix.RowMapping != "" {
		fmt.Fprintf(&b, "\t// row mapping: %s\n", part.ConnectionMatrix.RowMapping)
	}
	b.WriteString("\treturn row, col\n")
	b.WriteString("}\n\n")
	return b.String()
}

// EmitModel renders a complete, self-contained Go source file for root's
// whole part tree: every Instance/Population pair plus a package clause
// and the imports the generated code needs (spec.md §4.3 "gofile.go —
// wraps emitted source in a syntactically valid Go source file"). This
// realizes, in a from-scratch Go pipeline, the same final step gofem's
// own code never needed (gofem emits nothing; it *is* the program) — the
// natural translation of "emit source text" when the target language is
// Go: a package importing runtime, the library the emitted types plug
// into.
func EmitModel(root *digest.EquationSet, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by n2a compile. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)
	b.WriteString("import (\n")
	b.WriteString("\t\"math\"\n")
	if opts.Package == "main" {
		b.WriteString("\t\"os\"\n")
	}
	b.WriteString("\n\t\"github.com/n2a-org/n2a-core/runtime\"\n")
	b.WriteString(")\n\n")
	b.WriteString(EmitPart(root, opts, connect.Plan(root)))
	b.WriteString(emitEntryPoints(root, opts))
	return b.String()
}

// emitEntryPoints renders a Build(Params) constructor, the build hook
// runtime.RunMain calls, plus a main() that calls RunMain when
// opts.Package is "main". No separate init/run/finish functions are
// emitted; those steps are the Simulator's Init/Run/Finish methods.
func emitEntryPoints(root *digest.EquationSet, opts Options) string {
	_, popName := StructNames(root)
	integ := fmt.Sprintf("runtime.Euler[%s]{}", opts.Numeric)
	if opts.RK4 {
		integ = fmt.Sprintf("runtime.RK4[%s]{}", opts.Numeric)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "// Build constructs the root %s and wires a Simulator around it,\n", popName)
	fmt.Fprintf(&b, "// params is not read: cli/param-tagged Variables keep their model values.\n")
	fmt.Fprintf(&b, "func Build(params runtime.Params) (*runtime.Simulator[%s], error) {\n", opts.Numeric)
	fmt.Fprintf(&b, "\troot := &%s{}\n", popName)
	fmt.Fprintf(&b, "\tsim := runtime.NewSimulator[%s](root, %s, false)\n", opts.Numeric, integ)
	b.WriteString("\treturn sim, nil\n")
	b.WriteString("}\n")

	if opts.Package == "main" {
		b.WriteString("\n")
		b.WriteString("func main() {\n")
		fmt.Fprintf(&b, "\tos.Exit(runtime.RunMain(os.Args[1:], %s(%s), Build))\n", opts.Numeric, formatUntil(opts.Until))
		b.WriteString("}\n")
	}
	return b.String()
}

func formatUntil(until float64) string {
	if until == 0 {
		until = 1
	}
	return strconv.FormatFloat(until, 'g', -1, 64)
}
