// Package ir defines the compiler's intermediate representation: a flat
// vector of fixed-shape instructions for a single operand-stack machine,
// adapted from the teacher's internal/bytecode package. Unlike the
// teacher's packed 32-bit encoding (built to minimize dispatch cost for a
// general-purpose language VM), Instruction here is a plain struct —
// XPath programs are small and the packed encoding buys nothing at this
// scale.
//
// Constructs that repeat a sub-expression once per item (predicates,
// FLWOR binding sources, FLWOR/quantifier bodies) are compiled as
// self-contained nested Programs rather than inlined with backward
// jumps, the same way the teacher compiles a nested function body into
// its own Chunk rather than splicing it into the caller's instruction
// stream; the evaluator runs a nested Program the same way it runs the
// top-level one, just against a re-focused DynamicContext.
package ir

import (
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/xdm"
)

// OpCode identifies a single IR instruction.
type OpCode byte

const (
	// ---- Literal ----

	OpPushConst OpCode = iota // push Constants[A] (atomic value) as a singleton sequence
	OpPushEmpty                // push the empty sequence

	// ---- Sequence ----

	OpMakeSeq // pop top A stack entries, concatenate in push order, push one sequence
	OpRangeTo // pop hi then lo (lo pushed first); push integer range lo..hi (empty if lo>hi, or if either is the empty sequence)

	// ---- Path / Axis ----

	OpStep          // Tests[A]: pop a context sequence; for each item, evaluate the axis, filter the result through the test's own Predicates (position/size scoped to that one item's candidate list), then union+sort+dedupe across items into document order
	OpApplyPredicate // Predicates[A]: pop a sequence, filter it by running the nested predicate program per item (numeric-position-or-EBV rule), push the surviving items — used only for a FilterExpr's predicates, which apply directly over its primary's result with no per-origin-item grouping
	OpRoot          // pop a singleton node sequence, push the singleton sequence containing its document root
	OpDrop          // pop and discard the top of stack (used only for the rare non-axis step mid-path, see compiler_paths.go)

	// ---- Variable ----

	OpLoadVar // Names[A]: push the dynamic context's binding for this expanded name

	// ---- Function ----

	OpCall // Names[A], arity B: pop B argument sequences (passed in push order, first argument first), call, push the result

	// ---- Arithmetic ----

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIDiv
	OpMod
	OpUnaryMinus
	OpUnaryPlus

	// ---- Logical ----

	OpNot
	OpEBV // pop a sequence, push its effective boolean value as a singleton boolean

	// ---- Comparison ----

	OpValueEq
	OpValueNe
	OpValueLt
	OpValueLe
	OpValueGt
	OpValueGe
	OpGeneralEq
	OpGeneralNe
	OpGeneralLt
	OpGeneralLe
	OpGeneralGt
	OpGeneralGe
	OpNodeIs
	OpNodeBefore
	OpNodeAfter

	// ---- Set ----

	OpUnion
	OpIntersect
	OpExcept

	// ---- Type ----

	OpCastAs     // Types[A]: cast the atomized top of stack
	OpCastableAs // Types[A]: push a singleton boolean
	OpTreatAs    // Types[A]: dynamic sequence-type check, raises err:XPTY0004 on mismatch
	OpInstanceOf // Types[A]: push a singleton boolean

	// ---- FLWOR ----

	OpFor   // Flwor[A]: evaluate the `for` binding(s) and nested return body, push the concatenated result
	OpQuant // Quant[A]: evaluate the `some`/`every` binding(s) and nested test body, push a singleton boolean

	// ---- Conditional ----

	OpJumpIfFalse // B is the jump target; pops top of stack, takes its EBV
	OpJump        // unconditional jump to B
)

// Instruction is the fixed-shape IR instruction: an opcode plus up to two
// integer operands. Which fields a given opcode uses is documented on
// the OpCode constant above.
type Instruction struct {
	Op OpCode
	A  int32
	B  int32
}

// NodeTestDescriptor is the compiler-resolved form of ast.NodeTest: all
// QName prefixes have already been expanded against the static context's
// namespace bindings.
type NodeTestDescriptor struct {
	IsKindTest bool
	Kind       KindTestDescriptor
	Name       NameTestDescriptor
}

type NameTestKind byte

const (
	NameTestQName NameTestKind = iota
	NameTestWildcard
	NameTestNsWildcard
	NameTestLocalWildcard
)

type NameTestDescriptor struct {
	Kind NameTestKind
	Name nodeapi.ExpandedName // used when Kind == NameTestQName or NameTestNsWildcard (URI only)
}

type KindTestKind byte

const (
	KindTestNode KindTestKind = iota
	KindTestText
	KindTestComment
	KindTestProcessingInstruction
	KindTestDocumentNode
	KindTestElement
	KindTestAttribute
)

type KindTestDescriptor struct {
	Kind        KindTestKind
	PITarget    string
	HasPITarget bool
	HasName     bool
	NameIsAny   bool
	Name        nodeapi.ExpandedName
	Inner       *KindTestDescriptor // document-node(element(...))
}

// StepDescriptor is the resolved form of an AxisStep, referenced by
// OpStep.A into Program.Tests. Predicates are owned here rather than
// applied by a separate OpApplyPredicate so each one's position/size is
// scoped to a single context item's own axis candidates, per spec
// proximity-position rules, before results from different context items
// are combined.
type StepDescriptor struct {
	Axis       nodeapi.Axis
	Test       NodeTestDescriptor
	Predicates []*Program
}

// TypeDescriptor is the resolved form of a SingleType/SequenceType,
// referenced by OpCastAs/OpCastableAs/OpTreatAs/OpInstanceOf.A into
// Program.Types.
type TypeDescriptor struct {
	EmptySequence bool // `empty-sequence()`
	AnyItem       bool // `item()`
	IsAtomic      bool
	AtomicKind    xdm.AtomicKind
	KindTest      *KindTestDescriptor
	// Occurrence: 0=one, 1=zero-or-one, 2=zero-or-more, 3=one-or-more.
	Occurrence byte
	Optional   bool // SingleType's trailing '?' (cast/castable only)
}

// ForBindingDescriptor is one `$var in Source` clause of a `for` or
// quantified expression. Source is a nested Program evaluated fresh for
// every combination of the outer bindings already in scope, since a
// later binding's source may reference an earlier one's variable.
type ForBindingDescriptor struct {
	Name   nodeapi.ExpandedName
	Source *Program
}

// FlworDescriptor backs OpFor: the bindings are evaluated as nested
// loops (first binding outermost), and Return is evaluated once per
// full combination, with all results concatenated in iteration order.
type FlworDescriptor struct {
	Bindings []ForBindingDescriptor
	Return   *Program
}

// QuantKind mirrors ast.QuantKind.
type QuantKind byte

const (
	QuantSome QuantKind = iota
	QuantEvery
)

// QuantDescriptor backs OpQuant.
type QuantDescriptor struct {
	Kind     QuantKind
	Bindings []ForBindingDescriptor
	Test     *Program
}

// Program is a fully compiled, immutable unit of execution: a flat
// instruction vector plus the pools its instructions index into. A
// Program never changes after Compile returns it and may be evaluated
// concurrently by independent calls (each call owns its own evaluator
// stack state).
type Program struct {
	Code       []Instruction
	Constants  []xdm.Atomic
	Names      []nodeapi.ExpandedName
	Tests      []StepDescriptor
	Types      []TypeDescriptor
	Predicates []*Program
	Flwor      []*FlworDescriptor
	Quant      []*QuantDescriptor
}

func (p *Program) AddConstant(v xdm.Atomic) int32 {
	p.Constants = append(p.Constants, v)
	return int32(len(p.Constants) - 1)
}

func (p *Program) AddName(name nodeapi.ExpandedName) int32 {
	for i, n := range p.Names {
		if n == name {
			return int32(i)
		}
	}
	p.Names = append(p.Names, name)
	return int32(len(p.Names) - 1)
}

func (p *Program) AddTest(t StepDescriptor) int32 {
	p.Tests = append(p.Tests, t)
	return int32(len(p.Tests) - 1)
}

func (p *Program) AddType(t TypeDescriptor) int32 {
	p.Types = append(p.Types, t)
	return int32(len(p.Types) - 1)
}

func (p *Program) AddPredicate(sub *Program) int32 {
	p.Predicates = append(p.Predicates, sub)
	return int32(len(p.Predicates) - 1)
}

func (p *Program) AddFlwor(d *FlworDescriptor) int32 {
	p.Flwor = append(p.Flwor, d)
	return int32(len(p.Flwor) - 1)
}

func (p *Program) AddQuant(d *QuantDescriptor) int32 {
	p.Quant = append(p.Quant, d)
	return int32(len(p.Quant) - 1)
}

// Emit appends instr and returns its index, for later backpatching of
// jump targets (B field).
func (p *Program) Emit(instr Instruction) int32 {
	p.Code = append(p.Code, instr)
	return int32(len(p.Code) - 1)
}

// Patch overwrites the B operand of the instruction at index, used to
// backpatch forward jumps once their target is known.
func (p *Program) Patch(index int32, b int32) {
	p.Code[index].B = b
}

// Here returns the index the next Emit call will use, the natural jump
// target for "jump to here".
func (p *Program) Here() int32 { return int32(len(p.Code)) }
