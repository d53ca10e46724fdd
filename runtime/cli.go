// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Params holds the resolved `key=value` overrides the generated binary's
// own CLI accepts (spec.md §6 "Generated binary CLI: accepts key=value
// arguments plus -include <file> for recursively loading parameter
// files. Parameters override Variables tagged cli or (by default)
// param"). Distinct from the compiler's own cmd/n2a Cobra front end:
// this is the argument parser baked into every emitted program.
type Params map[string]string

// ParseArgs parses argv (excluding argv[0]) into Params, recursively
// expanding `-include <file>` arguments. Later assignments of the same
// key win, matching ordinary key=value override semantics.
func ParseArgs(argv []string) (Params, error) {
	p := Params{}
	if err := parseArgsInto(p, argv); err != nil {
		return nil, err
	}
	return p, nil
}

func parseArgsInto(p Params, argv []string) error {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "-include" {
			i++
			if i >= len(argv) {
				return chk.Err("-include requires a file name")
			}
			if err := includeFile(p, argv[i]); err != nil {
				return err
			}
			continue
		}
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return chk.Err("argument %q is not in key=value form", arg)
		}
		p[key] = value
	}
	return nil
}

// includeFile loads key=value lines (and nested -include directives)
// from name.
func includeFile(p Params, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return chk.Err("cannot open parameter file %q: %v", name, err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if err := parseArgsInto(p, strings.Fields(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Get returns the override for key and whether it was present.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// RunMain is the generated binary's entry point shape: parse args,
// run init/run/finish, map a recovered panic to the documented exit
// protocol (spec.md §6 "Exit 0 on normal completion, 1 on runtime
// exception (printed to stderr as Exception: <message>)").
func RunMain[T Numeric](argv []string, until T, build func(Params) (*Simulator[T], error)) int {
	params, err := ParseArgs(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Exception: %v\n", err)
		return 1
	}
	sim, err := build(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Exception: %v\n", err)
		return 1
	}
	sim.Init(T(0))
	defer sim.Finish()
	if err := sim.Run(until); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

// IOvector is the accessor the §6 "Generated library ABI" describes for
// every Variable tagged backend/c/vector: "getPopulationName_VarName
// (index0, …) returns an IOvector with size, get, set".
type IOvector[T Numeric] struct {
	Size int
	Get  func(i int) T
	Set  func(i int, v T)
}
