// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cpmech/gosl/io"
)

// Simulator holds one run's state; the emitted Build creates one per call
// through NewSimulator and runtime.RunMain drives it with Init, Run and
// Finish. It is a plain value: there is no process-wide singleton and no
// thread-local variant. Grounded on gofem's fem.Domain/fem.Summary split:
// Simulator plays Domain's role of owning the live state machine while
// Holders plays the output-recording role of fem's out package.
type Simulator[T Numeric] struct {
	Scheduler *Scheduler[T]
	Holders   *Holders
	Root      Population[T]
	Integ     Integrator[T]
	Verbose   bool
	stop      bool
}

// NewSimulator wires a fresh Simulator for root using the given
// integrator (spec.md §4.4.2 selects Euler or RK4 per simulation).
func NewSimulator[T Numeric](root Population[T], integ Integrator[T], verbose bool) *Simulator[T] {
	return &Simulator[T]{
		Scheduler: NewScheduler[T](),
		Holders:   NewHolders(),
		Root:      root,
		Integ:     integ,
		Verbose:   verbose,
	}
}

// Init runs $init semantics over the root population and installs a
// SIGINT/SIGTERM handler that requests cooperative Stop (spec.md §9
// "Coroutine-like flow is absent: event-driven execution is explicit,
// not suspend-based" — termination is a polled flag, not a signal
// handler unwinding the stack).
func (s *Simulator[T]) Init(t T) {
	if s.Verbose {
		io.Pf("simulator: init\n")
	}
	s.Root.Init(t)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		s.Stop()
	}()
}

// Stop requests the run loop exit at the next event boundary.
func (s *Simulator[T]) Stop() { s.stop = true }

// Run drives the scheduler until until is reached or Stop is called
// (spec.md §6 "run(T until)").
func (s *Simulator[T]) Run(until T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Exception: %v", r)
		}
	}()
	for !s.stop && s.Scheduler.PeekLE(until) {
		s.Scheduler.Step(s.Integ.Integrate)
	}
	return nil
}

// Finish tears down Holders (flush + close) and releases resources
// (spec.md §6 "finish()").
func (s *Simulator[T]) Finish() {
	if s.Verbose {
		io.Pf("simulator: finish\n")
	}
	s.Holders.CloseAll()
}
