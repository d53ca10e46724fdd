// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import "github.com/cpmech/gosl/la"

// SparseNonzeros wraps a gosl/la.Triplet as the nonzero-coordinate
// source for a matrix-driven connection (spec.md §4.4.3 "IteratorNonzero
// over the driving matrix's nonzeros"). Grounded on gofem's ele package
// convention of assembling sparse operators entry-by-entry into a
// *la.Triplet via Put(i,j,x) before handing it to a solver; here the
// triplet instead drives connection-endpoint enumeration: once assembly
// finishes, ToMatrix compresses it to column-major form and the nonzero
// coordinates are read off the compressed column pointers, the same way
// gofem hands a finished Triplet to a sparse solver.
type SparseNonzeros[T Numeric] struct {
	trip *la.Triplet
	ccm  *la.CCMatrix
	col  int // current column
	pos  int // next unread index within Ai/Ax, column-relative via Ap[col]
}

// NewSparseNonzeros allocates a Triplet-backed nonzero source with
// capacity for at most max entries over an rows x cols coordinate space.
func NewSparseNonzeros[T Numeric](rows, cols, max int) *SparseNonzeros[T] {
	s := &SparseNonzeros[T]{trip: new(la.Triplet)}
	s.trip.Init(rows, cols, max)
	return s
}

// Put records one nonzero entry, matching la.Triplet's assembly style
// used throughout gofem's element AddToKb methods.
func (s *SparseNonzeros[T]) Put(row, col int, value T) {
	s.trip.Put(row, col, float64(value))
}

// Reset compresses the assembled Triplet into column-major (CCMatrix)
// form and rewinds iteration to its first column, mirroring how gofem
// converts a finished Triplet via ToMatrix before a solver reads it.
func (s *SparseNonzeros[T]) Reset() {
	s.ccm = s.trip.ToMatrix(nil)
	s.col = 0
	s.pos = 0
	if s.ccm != nil && len(s.ccm.Ap) > 0 {
		s.pos = s.ccm.Ap[0]
	}
}

// Next returns the next nonzero coordinate in column-major order, read
// off the CCMatrix's compressed column pointers (Ap), row indices (Ai),
// and values (Ax).
func (s *SparseNonzeros[T]) Next() (NonzeroCoord[T], bool) {
	if s.ccm == nil {
		s.Reset()
	}
	for s.col < len(s.ccm.Ap)-1 {
		if s.pos < s.ccm.Ap[s.col+1] {
			row := s.ccm.Ai[s.pos]
			val := s.ccm.Ax[s.pos]
			col := s.col
			s.pos++
			return NonzeroCoord[T]{Row: row, Col: col, Value: T(val)}, true
		}
		s.col++
		if s.col < len(s.ccm.Ap)-1 {
			s.pos = s.ccm.Ap[s.col]
		}
	}
	return NonzeroCoord[T]{}, false
}
