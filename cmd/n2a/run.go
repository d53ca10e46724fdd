// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// runCmd compiles a model straight to a temporary directory stamped with
// a uuid (spec.md §9's per-run TLS/Simulator singleton implies each run
// needs its own directory when several run concurrently) and hands it to
// `go run`, forwarding any trailing key=value pairs to the generated
// binary's own argument parser (spec.md §6 "Generated binary CLI").
func runCmd() *cobra.Command {
	var partName, backend string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run <model-file> [-- key=value ...]",
		Short: "Compile a model and execute it via the Go toolchain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := args[0]
			runArgs := args[1:]

			src, err := compileModel(modelPath, partName, "main", backend, 0, verbose)
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			dir := filepath.Join(os.TempDir(), "n2a-run-"+runID[:8])
			if err := os.MkdirAll(dir, 0777); err != nil {
				return fmt.Errorf("create run directory: %w", err)
			}
			genPath := filepath.Join(dir, "model_gen.go")
			if err := os.WriteFile(genPath, []byte(src), 0644); err != nil {
				return fmt.Errorf("write %s: %w", genPath, err)
			}
			// The generated file imports github.com/n2a-org/n2a-core/runtime;
			// a standalone go.mod with a replace back to this checkout lets
			// `go run` resolve it without the caller publishing n2a-core.
			modRoot, err := moduleRoot()
			if err != nil {
				return err
			}
			goMod := fmt.Sprintf("module n2a-run\n\ngo 1.21\n\nrequire github.com/n2a-org/n2a-core v0.0.0\n\nreplace github.com/n2a-org/n2a-core => %s\n", modRoot)
			if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0644); err != nil {
				return fmt.Errorf("write go.mod: %w", err)
			}
			if verbose {
				io.Pf("n2a: run %s in %s\n", modelPath, dir)
			}

			goRun := exec.Command("go", append([]string{"run", genPath}, runArgs...)...)
			goRun.Dir = dir
			goRun.Stdout = os.Stdout
			goRun.Stderr = os.Stderr
			goRun.Stdin = os.Stdin
			return goRun.Run()
		},
	}
	cmd.Flags().StringVar(&partName, "part", "", "top-level part to run (default: the only one present)")
	cmd.Flags().StringVar(&backend, "backend", "", "override $metadata backend/c/type (float|double|int)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print digest and run progress")
	return cmd
}

// moduleRoot locates the n2a-core checkout containing this very binary's
// source, by walking up from the working directory (and, failing that,
// the executable's directory) until a go.mod declaring the module is
// found. Used to point the generated run's replace directive at it.
func moduleRoot() (string, error) {
	candidates := []string{}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, wd)
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Dir(exe))
	}
	for _, start := range candidates {
		dir := start
		for {
			data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
			if err == nil && strings.Contains(string(data), "module github.com/n2a-org/n2a-core") {
				return dir, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return "", fmt.Errorf("could not locate n2a-core module root (run `n2a run` from within the checkout)")
}
