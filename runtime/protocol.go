// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

// Instance is the Protocol every emitted per-part instance type
// implements (spec.md §4.3 "Lifecycle functions" / §5 "Instance
// Protocol"). The emitter skips emitting a method body when analysis
// determined it unneeded. InstanceBase supplies defaults only for Ctor,
// Dtor, Clear, Die, EnterSimulation, LeaveSimulation, IsFree, GetLive and
// GetNewborn; a type satisfies this interface only when it also has every
// other method below.
type Instance[T Numeric] interface {
	Ctor()
	Dtor()
	Clear()
	Die()
	EnterSimulation()
	LeaveSimulation()
	IsFree() bool

	Init(t T)
	Integrate(t T)
	Update(t T)
	Finalize(t T)
	UpdateDerivative(t T)
	FinalizeDerivative(t T)

	Snapshot()
	Restore()
	PushDerivative()
	MultiplyAddToStack(scale T)
	Multiply(scale T)
	AddToMembers()

	GetLive() bool
	GetP() T
	GetXYZ() []T
	GetProject() []T
	SetPart(slot int, part Instance[T])
	GetPart(slot int) Instance[T]
	GetNewborn() bool
	MapIndex(row, col int) (int, int)

	EventTest(valueIndex int) bool
	EventDelay(valueIndex int) T
	SetLatch(valueIndex int)
	FinalizeEvent(valueIndex int)

	GetCount() int
	Path() string
}

// Population is the Protocol every emitted per-part population type
// implements (spec.md §4.3 "Per Population", §4.4.4 "Population
// membership").
type Population[T Numeric] interface {
	Ctor()
	Dtor()
	Create() Instance[T]
	Add(inst Instance[T]) int
	Remove(index int)

	Init(t T)
	Integrate(t T)
	Update(t T)
	Finalize(t T)
	Resize(n int)
	GetN() int

	UpdateDerivative(t T)
	FinalizeDerivative(t T)
	Snapshot()
	Restore()
	PushDerivative()
	MultiplyAddToStack(scale T)
	Multiply(scale T)
	AddToMembers()
	ClearNew()

	GetIterators() *ConnectIterator[T]
	GetIterator(slot int) Iterator[T]
	Path() string
}

// Iterator walks the instances of one connection endpoint binding
// (spec.md §4.4.3); ConnectPopulation, ConnectPopulationNN, and the
// matrix-driven wrapper in connect.go all implement it.
type Iterator[T Numeric] interface {
	Reset()
	Next() (Instance[T], bool)
}

// InstanceBase is an embeddable struct giving emitted Instance types
// no-op/false defaults for the methods defined below: construction,
// liveness and newborn state. It has no defaults for Instance's phase,
// integration, event or accessor methods.
type InstanceBase[T Numeric] struct {
	Flags   uint32
	EventAt [8]T
}

func (b *InstanceBase[T]) Ctor()                          {}
func (b *InstanceBase[T]) Dtor()                          {}
func (b *InstanceBase[T]) Clear()                         { *b = InstanceBase[T]{} }
func (b *InstanceBase[T]) Die()                           { b.Flags &^= FlagLive }
func (b *InstanceBase[T]) EnterSimulation()               {}
func (b *InstanceBase[T]) LeaveSimulation()                {}
func (b *InstanceBase[T]) IsFree() bool                   { return b.Flags&FlagLive == 0 }
func (b *InstanceBase[T]) GetLive() bool                  { return b.Flags&FlagLive != 0 }
func (b *InstanceBase[T]) GetNewborn() bool               { return b.Flags&FlagNewborn != 0 }
func (b *InstanceBase[T]) SetNewborn(v bool) {
	if v {
		b.Flags |= FlagNewborn
	} else {
		b.Flags &^= FlagNewborn
	}
}
func (b *InstanceBase[T]) SetLive(v bool) {
	if v {
		b.Flags |= FlagLive
	} else {
		b.Flags &^= FlagLive
	}
}

// Flag bit assignments for InstanceBase.Flags (spec.md §3 BackendData
// "bit-packed flags word"). Bits 2..31 are reserved for per-event-target
// latches, assigned by the emitter in declaration order.
const (
	FlagLive    uint32 = 1 << 0
	FlagNewborn uint32 = 1 << 1
	FlagLatch0  uint32 = 1 << 2
)
