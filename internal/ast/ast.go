// Package ast defines the typed abstract syntax tree the parser
// produces (spec §4.1). Every node carries the lexer.Position it began
// at, for compiler/evaluator diagnostics.
package ast

import "github.com/platynui/xpath2/internal/lexer"

// Expr is the root interface every AST node satisfies.
type Expr interface {
	Pos() lexer.Position
	exprNode()
}

// Base carries the position every Expr node starts at. Other packages
// (the parser) construct it directly via NewBase since the field is
// exported — there is no other way to populate it from outside this
// package.
type Base struct{ Position lexer.Position }

func (b Base) Pos() lexer.Position { return b.Position }
func (Base) exprNode()             {}

// NewBase returns a Base positioned at pos.
func NewBase(pos lexer.Position) Base { return Base{Position: pos} }

// ---- Literals ----

type IntegerLiteral struct {
	Base
	Value int64
}

type DecimalLiteral struct {
	Base
	Text string // canonical decimal text, e.g. "3.14"
}

type DoubleLiteral struct {
	Base
	Value float64
}

type StringLiteral struct {
	Base
	Value string // already unescaped (quote-doubling resolved)
}

// EmptySequence is the literal `()`.
type EmptySequence struct{ Base }

// ---- References ----

type ContextItem struct{ Base } // `.`

type VarRef struct {
	Base
	Prefix string
	Local  string
}

// ---- Sequence ----

// SequenceExpr is `(e1, e2, ...)`; a single-element parenthesised
// expression is represented directly by its inner Expr, not wrapped.
type SequenceExpr struct {
	Base
	Items []Expr
}

// RangeExpr is `lo to hi`.
type RangeExpr struct {
	Base
	Low, High Expr
}

// ---- Operators ----

type BinaryOp byte

const (
	OpOr BinaryOp = iota
	OpAnd
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpValueEq
	OpValueNe
	OpValueLt
	OpValueLe
	OpValueGt
	OpValueGe
	OpIs
	OpNodeBefore // <<
	OpNodeAfter  // >>
	OpUnion
	OpIntersect
	OpExcept
)

type BinaryExpr struct {
	Base
	Op          BinaryOp
	Left, Right Expr
}

type UnaryOp byte

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
)

type UnaryExpr struct {
	Base
	Op      UnaryOp
	Operand Expr
}

// ---- Conditional ----

type IfExpr struct {
	Base
	Cond, Then, Else Expr
}

// ---- FLWOR (for ... return only, per spec: let/group by/order by are
// rejected at parse time) ----

type ForBinding struct {
	VarPrefix, VarLocal string
	Source               Expr
}

type ForExpr struct {
	Base
	Bindings []ForBinding
	Return   Expr
}

// ---- Quantified ----

type QuantKind byte

const (
	QuantSome QuantKind = iota
	QuantEvery
)

type QuantifiedExpr struct {
	Base
	Kind     QuantKind
	Bindings []ForBinding
	Test     Expr
}

// ---- Types ----

// Occurrence is the SequenceType occurrence indicator.
type Occurrence byte

const (
	OccurExactlyOne Occurrence = iota // (default)
	OccurZeroOrOne                    // ?
	OccurZeroOrMore                   // *
	OccurOneOrMore                    // +
)

// ItemTypeKind distinguishes an atomic type name from a kind test within
// a SequenceType/ItemType.
type ItemTypeKind byte

const (
	ItemAtomicType ItemTypeKind = iota
	ItemKindTest
	ItemAnyItem // `item()`
)

type ItemType struct {
	Kind       ItemTypeKind
	TypePrefix string     // atomic type: namespace prefix (e.g. "xs")
	TypeLocal  string     // atomic type: local name (e.g. "integer")
	Test       *KindTest  // kind test payload when Kind == ItemKindTest
}

// SequenceType is used by `instance of` / `treat as`.
type SequenceType struct {
	EmptySequence bool // `empty-sequence()`
	Item          ItemType
	Occurrence    Occurrence
}

// SingleType is used by `cast as` / `castable as`: an atomic type name
// with an optional `?`.
type SingleType struct {
	Prefix     string
	Local      string
	Optional   bool
}

type CastExpr struct {
	Base
	Operand Expr
	Type    SingleType
}

type CastableExpr struct {
	Base
	Operand Expr
	Type    SingleType
}

type TreatExpr struct {
	Base
	Operand Expr
	Type    SequenceType
}

type InstanceOfExpr struct {
	Base
	Operand Expr
	Type    SequenceType
}

// ---- Kind tests ----

type KindTestKind byte

const (
	KTNode KindTestKind = iota
	KTText
	KTComment
	KTProcessingInstruction
	KTDocumentNode
	KTElement
	KTAttribute
	KTSchemaElement
	KTSchemaAttribute
)

// KindTest models `node()`, `text()`, `comment()`,
// `processing-instruction(target?)`, `document-node(inner?)`,
// `element(name?, type?)`, `attribute(name?, type?)`, and the two
// schema-aware variants (always rejected at compile time — the engine
// is schema-naive, spec §4.2).
type KindTest struct {
	Kind           KindTestKind
	PITarget       string // processing-instruction(target)
	HasPITarget    bool
	NamePrefix     string // element(name...) / attribute(name...)
	NameLocal      string
	HasName        bool
	NameIsWildcard bool // element(*) / attribute(*)
	TypePrefix     string // element(name, type)
	TypeLocal      string
	HasType        bool
	Nillable       bool // element(name, type?) with trailing '?'
	Inner          *KindTest // document-node(element(...))
}

// ---- Name tests ----

type NameTestKind byte

const (
	NTQName     NameTestKind = iota // prefix:local or local
	NTWildcard                      // *
	NTNsWildcard                    // ns:*
	NTLocalWildcard                 // *:local
)

type NameTest struct {
	Kind   NameTestKind
	Prefix string
	Local  string
}

// ---- Node test: either a kind test or a name test ----

type NodeTest struct {
	IsKindTest bool
	Kind       *KindTest
	Name       *NameTest
}

// ---- Steps / paths ----

type StepExpr struct {
	Base
	Axis       string // one of the 13 axis keywords, or "" for abbreviated '@'/'.'/'..'
	Abbrev     byte   // 0 = none, '@' = attribute shorthand, '.' = self::node(), 'P' = parent::node() via '..'
	Test       NodeTest
	Predicates []Expr
}

// FilterExpr is PrimaryExpr with zero or more predicates, e.g. `(1,2,3)[. gt 1]`.
type FilterExpr struct {
	Base
	Primary    Expr
	Predicates []Expr
}

type PathExpr struct {
	Base
	Absolute  bool // leading '/'
	LeadingDD bool // leading '//' (desugars to an inserted descendant-or-self::node() step)
	Steps     []Expr // StepExpr or FilterExpr
}

// ---- Function calls ----

type FunctionCall struct {
	Base
	Prefix string
	Local  string
	Args   []Expr
}
