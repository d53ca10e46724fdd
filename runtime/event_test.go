// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_event01_ordering(tst *testing.T) {

	chk.PrintTitle("event01_ordering")

	s := NewScheduler[float64]()
	s.Schedule(&Event[float64]{Kind: EventSpike, T: 3.0})
	s.Schedule(&Event[float64]{Kind: EventSpike, T: 1.0})
	s.Schedule(&Event[float64]{Kind: EventSpike, T: 2.0})

	var order []float64
	for !s.Empty() {
		order = append(order, peekTime(s))
		s.Step(func(Population[float64], float64, float64) {})
	}
	chk.IntAssert(len(order), 3)
	chk.Scalar(tst, "t0", 1e-15, order[0], 1.0)
	chk.Scalar(tst, "t1", 1e-15, order[1], 2.0)
	chk.Scalar(tst, "t2", 1e-15, order[2], 3.0)
}

func peekTime(s *Scheduler[float64]) float64 { return s.queue[0].T }

func Test_event02_edges(tst *testing.T) {

	chk.PrintTitle("event02_edges")

	if !Triggered(EdgeRise, 0, 1) {
		tst.Fatalf("rise should trigger 0->1")
	}
	if Triggered(EdgeRise, 1, 2) {
		tst.Fatalf("rise should not trigger 1->2")
	}
	if !Triggered(EdgeFall, 1, 0) {
		tst.Fatalf("fall should trigger 1->0")
	}
	if !Triggered(EdgeChange, 1, 2) {
		tst.Fatalf("change should trigger 1->2")
	}
	if Triggered(EdgeChange, 1, 1) {
		tst.Fatalf("change should not trigger 1->1")
	}
	if !Triggered(EdgeNonzero, 0, 5) {
		tst.Fatalf("nonzero should trigger 0->5")
	}
}

func Test_event03_quantize(tst *testing.T) {

	chk.PrintTitle("event03_quantize")

	chk.Scalar(tst, "exact", 1e-15, QuantizeDelay(0.1, 0.05), 0.1)
	chk.Scalar(tst, "near-snap", 1e-15, QuantizeDelay(0.10001, 0.05), 0.1)
	offGrid := QuantizeDelay(0.123, 0.05)
	if offGrid != 0.123 {
		tst.Fatalf("off-grid delay should pass through unchanged, got %v", offGrid)
	}
}
