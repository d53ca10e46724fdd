// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

// ConnectIterator is a tree of per-endpoint-binding iterators, one per
// connection alias in binding order (spec.md §4.4.3 "getIterators
// returns a ConnectIterator tree").
type ConnectIterator[T Numeric] struct {
	Endpoints []Iterator[T]
}

// ConnectPopulation is the enumerative Iterator (spec.md §4.2
// "Enumerative: nested iteration over endpoint instance lists"),
// optionally filtered by Max (per-endpoint cap) and Min (minimum count).
type ConnectPopulation[T Numeric] struct {
	Pop  Population[T]
	Min  int
	Max  int
	all  []Instance[T]
	pos  int
	seen int
}

// Reset re-scans the endpoint population's own iterator into c.all.
func (c *ConnectPopulation[T]) Reset() {
	c.all = c.all[:0]
	c.pos = 0
	c.seen = 0
	it := c.Pop.GetIterator(0)
	for inst, more := it.Next(); more; inst, more = it.Next() {
		c.all = append(c.all, inst)
	}
}

// SatisfiesMin reports whether the last Reset scanned at least Min
// instances (spec.md §4.2 "$min (minimum count)"); callers check this
// after Reset and before iterating.
func (c *ConnectPopulation[T]) SatisfiesMin() bool {
	return c.Min == 0 || len(c.all) >= c.Min
}

// Next returns the next candidate instance, honoring Max (stop early
// once the per-endpoint cap is hit).
func (c *ConnectPopulation[T]) Next() (Instance[T], bool) {
	if c.Max > 0 && c.seen >= c.Max {
		return nil, false
	}
	if c.pos >= len(c.all) {
		return nil, false
	}
	inst := c.all[c.pos]
	c.pos++
	c.seen++
	return inst, true
}

// ConnectPopulationNN is the nearest-neighbor Iterator (spec.md §4.2,
// §4.4.3 "carries a KD-tree built over endpoint $xyz"): candidates are
// the K nearest (or all within Radius) instances to a query point.
type ConnectPopulationNN[T Numeric] struct {
	Pop    Population[T]
	Tree   *KDTree
	K      int
	Radius float64
	Query  []float64
	Self   int

	candidates []int
	pos        int
}

// Seed computes the candidate set for the current query point; called
// once per connection attempt before Next is iterated.
func (c *ConnectPopulationNN[T]) Seed() {
	switch {
	case c.Radius > 0:
		c.candidates = c.Tree.WithinRadius(c.Query, c.Radius, c.Self)
	case c.K > 0:
		c.candidates = c.Tree.KNearest(c.Query, c.K, c.Self)
	default:
		c.candidates = nil
	}
	c.pos = 0
}

func (c *ConnectPopulationNN[T]) Reset() { c.pos = 0 }

func (c *ConnectPopulationNN[T]) Next() (Instance[T], bool) {
	if c.pos >= len(c.candidates) {
		return nil, false
	}
	idx := c.candidates[c.pos]
	c.pos++
	it := c.Pop.GetIterator(0)
	for inst, ok := it.Next(); ok; inst, ok = it.Next() {
		if inst.GetCount() == idx {
			return inst, true
		}
	}
	return nil, false
}

// NonzeroCoord is one coordinate pair from a driving matrix's sparse
// pattern (spec.md §4.4.3 "IteratorNonzero<T> over the driving matrix's
// nonzeros").
type NonzeroCoord[T Numeric] struct {
	Row, Col int
	Value    T
}

// IteratorNonzero walks the nonzero entries of a connection-matrix
// endpoint-selector (row-major order).
type IteratorNonzero[T Numeric] struct {
	M   *Matrix[T]
	pos int
}

func (it *IteratorNonzero[T]) Reset() { it.pos = 0 }

// Next returns the next nonzero coordinate, or ok=false when exhausted.
func (it *IteratorNonzero[T]) Next() (NonzeroCoord[T], bool) {
	var zero T
	for it.pos < len(it.M.Data) {
		i := it.pos
		it.pos++
		if it.M.Data[i] != zero {
			return NonzeroCoord[T]{Row: i / it.M.Cols, Col: i % it.M.Cols, Value: it.M.Data[i]}, true
		}
	}
	return NonzeroCoord[T]{}, false
}

// ConnectMatrix wraps two endpoint iterators and an IteratorNonzero over
// the driving matrix, converting matrix coordinates to endpoint indices
// via MapIndex on the owning connection instance (spec.md §4.4.3
// "matrix-driven connection").
type ConnectMatrix[T Numeric] struct {
	Nonzero  *IteratorNonzero[T]
	Row, Col Population[T]
	MapIndex func(row, col int) (int, int)
}

// Next returns the (row-endpoint, col-endpoint) instance pair for the
// next nonzero coordinate.
func (c *ConnectMatrix[T]) Next() (Instance[T], Instance[T], bool) {
	nz, ok := c.Nonzero.Next()
	if !ok {
		return nil, nil, false
	}
	rowIdx, colIdx := c.MapIndex(nz.Row, nz.Col)
	rowInst := findByIndex(c.Row, rowIdx)
	colInst := findByIndex(c.Col, colIdx)
	return rowInst, colInst, rowInst != nil && colInst != nil
}

func findByIndex[T Numeric](pop Population[T], idx int) Instance[T] {
	it := pop.GetIterator(0)
	for inst, ok := it.Next(); ok; inst, ok = it.Next() {
		if inst.GetCount() == idx {
			return inst
		}
	}
	return nil
}

// Accept implements the acceptance test of spec.md §4.4.3: "acceptance
// is probabilistic: accept iff uniform() < $p". p is the candidate
// instance's GetP() result, already computed by the emitted
// create+setPart sequence.
func Accept[T Numeric](p T, uniform func() float64) bool {
	return uniform() < float64(p)
}
