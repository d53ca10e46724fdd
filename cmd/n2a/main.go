// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command n2a is the compiler driver: it reads a model file through
// EquationDigest and ConnectionPlanner, lowers the result to Go source
// via CodeEmitter, and can hand the generated file straight to the Go
// toolchain for an end-to-end run. Grounded on
// github.com/ehrlich-b/wingthing's cmd/wt: one cobra.Command per file,
// a thin main.go wiring them onto the root command.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "n2a",
		Short: "n2a — N2A model compiler and discrete-event simulator",
		Long:  "Compiles declarative N2A model files into Go source implementing the runtime Instance/Population protocol, and can run the result directly.",
	}
	root.AddCommand(
		compileCmd(),
		runCmd(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
