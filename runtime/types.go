// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime is the discrete-event simulation library emitted N2A
// programs link against (spec.md §4.4). It owns the event queue,
// integrators, connection matching, population membership, and I/O
// holders; emitted Instance/Population classes plug into it by
// implementing the Protocol interfaces in protocol.go.
package runtime

// Numeric is the storage type a simulation runs under (spec.md §4.4.1
// "Time model"): int32 in fixed-point mode, float32/float64 in floating-
// point mode.
type Numeric interface {
	~int32 | ~float32 | ~float64
}

// MSB is the bit position of the most significant bit of the fixed-point
// storage type, mirrored from digest.MSB so runtime shift arithmetic and
// compile-time exponent inference agree (spec.md §4.1.1).
const MSB = 30

// Matrix is a dense row-major matrix of T, the storage type spec.md §3
// assigns to any Variable of type Matrix.
type Matrix[T Numeric] struct {
	Rows, Cols int
	Data       []T
}

// NewMatrix allocates a zeroed rows x cols Matrix.
func NewMatrix[T Numeric](rows, cols int) *Matrix[T] {
	return &Matrix[T]{Rows: rows, Cols: cols, Data: make([]T, rows*cols)}
}

// At returns the element at (r,c).
func (m *Matrix[T]) At(r, c int) T { return m.Data[r*m.Cols+c] }

// Set assigns the element at (r,c).
func (m *Matrix[T]) Set(r, c int, v T) { m.Data[r*m.Cols+c] = v }

// MatrixFixed is the fixed-dimension counterpart used when shape is known
// at emission time (spec.md §4.3 "MatrixFixed<T,R,C> when dimensions are
// known"); it is backed by the same Matrix so callers needing the dynamic
// view (e.g. $xyz feeding a KD-tree) never copy.
type MatrixFixed[T Numeric] struct {
	Matrix[T]
	R, C int
}

// NewMatrixFixed allocates a MatrixFixed with the given static shape.
func NewMatrixFixed[T Numeric](r, c int) *MatrixFixed[T] {
	return &MatrixFixed[T]{Matrix: Matrix[T]{Rows: r, Cols: c, Data: make([]T, r*c)}, R: r, C: c}
}
