// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

// Membership implements the population bookkeeping of spec.md §4.4.4:
// assigning and recycling $index slots, tracking live count, and the
// resize/grow-or-die capability flags. Emitted Population types embed
// this; of the Population protocol it supplies Add, Remove and GetN, and
// its Resize takes the instance factory and death callback as extra
// arguments, so it does not match Population.Resize(n).
type Membership[T Numeric] struct {
	slots        []Instance[T]
	free         []int
	n            int
	nextIndex    int
	firstborn    int
	trackN       bool
	canResize    bool
	canGrowOrDie bool
}

// NewMembership returns a Membership configured per the part's analysis
// flags (spec.md §4.4.4 "trackN populations maintain n; canResize allows
// external resize driven by $n; canGrowOrDie enables dynamic creation
// and death").
func NewMembership[T Numeric](trackN, canResize, canGrowOrDie bool) *Membership[T] {
	return &Membership[T]{trackN: trackN, canResize: canResize, canGrowOrDie: canGrowOrDie}
}

// Add assigns inst the next free $index slot, reusing a deleted slot
// when one is available, and returns the assigned index (spec.md
// §4.4.4 "add assigns $index (next free, or reused from a deleted slot
// when instances is sparse)").
func (m *Membership[T]) Add(inst Instance[T]) int {
	var idx int
	if len(m.free) > 0 {
		idx = m.free[len(m.free)-1]
		m.free = m.free[:len(m.free)-1]
		m.slots[idx] = inst
	} else {
		idx = len(m.slots)
		m.slots = append(m.slots, inst)
		m.nextIndex = idx + 1
	}
	m.n++
	m.firstborn = idx
	return idx
}

// Remove nulls the slot at index and adds it to the free pool (spec.md
// §4.4.4 "remove nulls the slot and increments the free pool").
func (m *Membership[T]) Remove(index int) {
	if index < 0 || index >= len(m.slots) || m.slots[index] == nil {
		return
	}
	m.slots[index] = nil
	m.free = append(m.free, index)
	m.n--
}

// GetN returns the live instance count.
func (m *Membership[T]) GetN() int { return m.n }

// TracksN reports whether this population maintains n as a readable
// field (spec.md §4.4.4 "trackN populations maintain n").
func (m *Membership[T]) TracksN() bool { return m.trackN }

// CanGrowOrDie reports whether dynamic creation and death are enabled
// for this population (spec.md §4.4.4).
func (m *Membership[T]) CanGrowOrDie() bool { return m.canGrowOrDie }

// NextIndex returns the slot a subsequent Add would assign absent a
// free-pool reuse.
func (m *Membership[T]) NextIndex() int { return m.nextIndex }

// Firstborn returns the index most recently assigned by Add, used by
// the emitter's newborn-priority connection scan (spec.md §4.4.3
// "newborn endpoints receive priority").
func (m *Membership[T]) Firstborn() int { return m.firstborn }

// Instances returns the live instances in slot order, skipping freed
// slots.
func (m *Membership[T]) Instances() []Instance[T] {
	out := make([]Instance[T], 0, m.n)
	for _, inst := range m.slots {
		if inst != nil {
			out = append(out, inst)
		}
	}
	return out
}

// Resize kills surplus instances, lowest occupied slot first, or creates
// the deficit. Add reuses freed slots, so the lowest slot does not always
// hold the oldest instance. create is the Population's own instance
// factory, called once per instance needed to reach n.
func (m *Membership[T]) Resize(n int, create func() Instance[T], die func(Instance[T])) {
	if !m.canResize {
		return
	}
	for m.n > n {
		for i, inst := range m.slots {
			if inst != nil {
				die(inst)
				m.Remove(i)
				break
			}
		}
	}
	for m.n < n {
		m.Add(create())
	}
}
