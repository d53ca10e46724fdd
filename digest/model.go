// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// Assignment is the combiner tag carried by a Variable (spec.md §3 GLOSSARY).
type Assignment int

const (
	REPLACE Assignment = iota
	ADD
	MULTIPLY
	DIVIDE
	MIN
	MAX
)

func (a Assignment) String() string {
	switch a {
	case ADD:
		return "+="
	case MULTIPLY:
		return "*="
	case DIVIDE:
		return "/="
	case MIN:
		return "<<="
	case MAX:
		return ">>="
	default:
		return "="
	}
}

// VarType is the storage type of a Variable.
type VarType int

const (
	Scalar VarType = iota
	Matrix
	Text
)

// Attr is one of the string tags a Variable may carry.
type Attr string

const (
	AttrConstant      Attr = "constant"
	AttrInitOnly      Attr = "initOnly"
	AttrTemporary     Attr = "temporary"
	AttrAccessor      Attr = "accessor"
	AttrPreexistent   Attr = "preexistent"
	AttrGlobal        Attr = "global"
	AttrExternalRead  Attr = "externalRead"
	AttrExternalWrite Attr = "externalWrite"
	AttrCycle         Attr = "cycle"
	AttrMatrixPointer Attr = "MatrixPointer"
	AttrDummy         Attr = "dummy"
	AttrParam         Attr = "param"
	AttrCli           Attr = "cli"
	AttrReference     Attr = "reference"
)

// AttrSet is an unordered set of Attr tags.
type AttrSet map[Attr]bool

// Has reports whether the set contains a.
func (s AttrSet) Has(a Attr) bool { return s[a] }

// Add inserts a into the set.
func (s AttrSet) Add(a Attr) { s[a] = true }

// Remove deletes a from the set.
func (s AttrSet) Remove(a Attr) { delete(s, a) }

// Equation is one `condition, expression` pair of a Variable (spec.md §3).
// A nil Condition marks the default equation; at most one per Variable.
type Equation struct {
	Condition *Expr
	Expr      *Expr
	Unit      string
	Hint      string
}

// Expr is a decorated expression tree node. It is intentionally small:
// EquationDigest only needs enough structure to resolve identifiers,
// infer types/exponents and fold constants; the emitted Go source carries
// the real arithmetic.
type Expr struct {
	Op       string // "+","-","*","/","Event","Delay","Uop","Const","Var","$type", ...
	Const    float64
	IsConst  bool
	Ref      *VariableReference
	Children []*Expr

	// decorations filled in by digest
	Type         VarType
	Exponent     int
	ExponentNext int
	EventIndex   int // for Op=="Event": the valueIndex stage_event.go assigned it
}

// ReferenceStepKind is one element kind of a VariableReference path.
type ReferenceStepKind int

const (
	StepAscend ReferenceStepKind = iota
	StepDescend
	StepConnection
)

// ReferenceStep is one hop of a VariableReference resolution path.
type ReferenceStep struct {
	Kind ReferenceStepKind
	Name string // subpart name (Descend) or connection alias (Connection)
}

// VariableReference describes how to reach a Variable from the part where
// an expression lives (spec.md §3).
type VariableReference struct {
	Path     []ReferenceStep
	Variable *Variable // resolved target, nil until resolution runs
}

// Variable is a named quantity in a part (spec.md §3).
type Variable struct {
	Name       string
	Order      int // derivative order, 0 for value
	Equations  []*Equation
	Assignment Assignment
	Type       VarType
	Derivative *Variable // lower-order companion link (points to the derivative, i.e. v' )
	Integral   *Variable // inverse of Derivative: points back to v from v'
	Reference  *VariableReference
	Attributes AttrSet

	Exponent int // fixed-point only

	// decorations filled in during digest
	Part       *EquationSet
	Order_     int // position within Part.Ordered
	Buffered   bool
	Population bool // lives at population scope rather than per-instance
}

// NewVariable allocates a Variable with an initialized attribute set.
func NewVariable(name string) *Variable {
	return &Variable{Name: name, Attributes: AttrSet{}}
}

// ConnectionBinding is, for a connection part, one endpoint alias binding
// (spec.md §3).
type ConnectionBinding struct {
	Alias      string
	Endpoint   *EquationSet
	Index      int
	Resolution []ReferenceStep

	// classification filled in by ConnectionPlanner
	K          int
	Min        int
	Max        int
	Radius     float64
	HasProject bool
}

// ConnectionMatrix names the single sparse matrix expression driving a
// matrix-driven connection (spec.md §4.1 step 19).
type ConnectionMatrix struct {
	Expr       *Expr
	RowMapping string
	ColMapping string
}

// EquationSet is a node in the part hierarchy (spec.md §3).
type EquationSet struct {
	Name      string
	Container *EquationSet // back-link, not owning
	Parts     []*EquationSet
	Variables []*Variable
	Singleton bool

	ConnectionBindings []*ConnectionBinding // non-nil => this part is a connection
	ConnectionMatrix   *ConnectionMatrix

	// decorations produced by the digest pipeline
	OrderedParts []*EquationSet
	Ordered      []*Variable
	BackendData  *BackendData
}

// IsConnection reports whether o is a connection part (has bindings).
func (o *EquationSet) IsConnection() bool { return o.ConnectionBindings != nil }

// FindVariable looks up the order-0 (value) Variable by name among o's
// direct Variables; most references to a name mean its stored value.
func (o *EquationSet) FindVariable(name string) *Variable {
	return o.FindVariableOrder(name, 0)
}

// FindVariableOrder looks up a Variable by name AND derivative order,
// since a name like "x" may have distinct order-0 (value) and order-1
// (derivative) Variable objects (spec.md §3, §4.1 step 6).
func (o *EquationSet) FindVariableOrder(name string, order int) *Variable {
	for _, v := range o.Variables {
		if v.Name == name && v.Order == order {
			return v
		}
	}
	return nil
}

// VariablesNamed returns every Variable (across all orders) with the
// given name, ascending by order.
func (o *EquationSet) VariablesNamed(name string) []*Variable {
	var out []*Variable
	for _, v := range o.Variables {
		if v.Name == name {
			out = append(out, v)
		}
	}
	return out
}

// FindPart looks up a direct subpart by name.
func (o *EquationSet) FindPart(name string) *EquationSet {
	for _, p := range o.Parts {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Path returns the dotted path from the root to o, used for error reporting.
func (o *EquationSet) Path() []string {
	if o == nil {
		return nil
	}
	if o.Container == nil {
		return []string{o.Name}
	}
	return append(o.Container.Path(), o.Name)
}

// EventSourceDescriptor and EventTargetDescriptor realize §4.1 step 20
// (event analysis): one per monitored condition / monitor-list owner.
type EventTargetDescriptor struct {
	ValueIndex   int
	Edge         string // RISE | FALL | CHANGE | NONZERO
	Variable     *Variable
	NeedsTrack   bool // needs a tracking ("before") variable allocated
	DelayIsConst bool
	DelayConst   float64
	DelayExpr    *Expr
}

type EventSourceDescriptor struct {
	Owner   *EquationSet
	Targets []*EventTargetDescriptor
}

// DelayDescriptor records one Delay() operator usage (pipelined delay
// line), counted against BackendData.Delays.
type DelayDescriptor struct {
	Variable *Variable
	Depth    int // number of pipeline stages
}

// BackendData is per-part analysis output (spec.md §3). It is created
// during emission-planning (populated progressively through the digest
// pipeline) and consumed read-only by CodeEmitter.
type BackendData struct {
	// storage classification
	LocalVariables      []*Variable // non-temporary, non-constant, instance-scoped
	GlobalVariables      []*Variable // population-scoped
	BufferedVariables   []*Variable // need a next_ shadow field
	IntegratedVariables []*Variable // order>0, participate in integration

	// flags
	LiveStored  bool // $live is a stored bit rather than always-true
	TrackNewborn bool
	HasIndex    bool
	HasRefcount bool
	HasLastT    bool

	// event machinery
	EventSources []*EventSourceDescriptor
	Delays       []*DelayDescriptor

	// output naming
	LocalColumns  []string
	GlobalColumns []string

	// split / death propagation (spec.md §4.1 step 11)
	Splits           []*EquationSet // $type targets
	LethalP          bool
	LethalContainer  bool
	LethalConnection bool

	// connection-matrix detection (spec.md §4.1 step 19)
	HasConnectionMatrix bool

	// which lifecycle functions the emitter must actually emit (a false
	// entry uses the runtime's no-op/sentinel default)
	Lifecycle LifecycleFlags
}

// LifecycleFlags says which of the fixed lifecycle functions (spec.md §4.3)
// this part needs emitted; anything left false is a no-op in the runtime.
type LifecycleFlags struct {
	Init, Integrate, Update, Finalize                   bool
	UpdateDerivative, FinalizeDerivative                 bool
	Snapshot, Restore, PushDerivative                   bool
	MultiplyAddToStack, Multiply, AddToMembers          bool
	GetLive, GetP, GetXYZ, GetProject                   bool
	EventTest, EventDelay, SetLatch, FinalizeEvent       bool
	Resize bool
}

// NewEquationSet allocates an EquationSet with its BackendData slot ready.
func NewEquationSet(name string) *EquationSet {
	return &EquationSet{Name: name, BackendData: &BackendData{}}
}
