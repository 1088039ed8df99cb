// Package compiler lowers the parser's AST into the evaluator's IR
// (spec §4.2), resolving names against the static context and rejecting
// the handful of constructs the engine statically disallows. Adapted
// from the teacher's internal/bytecode/compiler* split: compiler_core.go
// here plays the role of the teacher's compiler_core.go +
// compiler_expressions.go (entry point, literals, operators), with
// compiler_paths.go / compiler_flwor.go / compiler_types.go /
// compiler_functions.go taking the other concerns.
package compiler

import (
	"math/big"

	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/parser"
	"github.com/platynui/xpath2/internal/staticctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// Compiler holds the state threaded through one Compile call. It is not
// reused across calls.
type Compiler struct {
	sc  *staticctx.StaticContext
	cur *ir.Program
}

// Compile parses source and lowers it into a ready-to-evaluate Program.
func Compile(source string, sc *staticctx.StaticContext) (*ir.Program, error) {
	expr, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	c := &Compiler{sc: sc, cur: &ir.Program{}}
	if err := c.compileExpr(expr); err != nil {
		return nil, err
	}
	return c.cur, nil
}

// compileSub compiles expr into a fresh, independent Program (used for
// predicates, FLWOR binding sources, and FLWOR/quantifier bodies — every
// construct that must re-run once per item against a re-focused dynamic
// context).
func (c *Compiler) compileSub(expr ast.Expr) (*ir.Program, error) {
	saved := c.cur
	c.cur = &ir.Program{}
	err := c.compileExpr(expr)
	sub := c.cur
	c.cur = saved
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (c *Compiler) emit(instr ir.Instruction) int32 { return c.cur.Emit(instr) }

func (c *Compiler) compileExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		idx := c.cur.AddConstant(xdm.NewInteger(n.Value))
		c.emit(ir.Instruction{Op: ir.OpPushConst, A: idx})
		return nil
	case *ast.DecimalLiteral:
		r, ok := new(big.Rat).SetString(n.Text)
		if !ok {
			return xpatherr.NewAt(xpatherr.XPST0003, toPos(n), "invalid decimal literal %q", n.Text)
		}
		idx := c.cur.AddConstant(xdm.NewDecimal(r))
		c.emit(ir.Instruction{Op: ir.OpPushConst, A: idx})
		return nil
	case *ast.DoubleLiteral:
		idx := c.cur.AddConstant(xdm.NewDouble(n.Value))
		c.emit(ir.Instruction{Op: ir.OpPushConst, A: idx})
		return nil
	case *ast.StringLiteral:
		idx := c.cur.AddConstant(xdm.NewString(n.Value))
		c.emit(ir.Instruction{Op: ir.OpPushConst, A: idx})
		return nil
	case *ast.EmptySequence:
		c.emit(ir.Instruction{Op: ir.OpPushEmpty})
		return nil
	case *ast.ContextItem:
		name := nodeapi.ExpandedName{} // the evaluator special-cases the zero name as "context item"
		idx := c.cur.AddName(name)
		c.emit(ir.Instruction{Op: ir.OpLoadVar, A: idx, B: 1})
		return nil
	case *ast.VarRef:
		return c.compileVarRef(n)
	case *ast.SequenceExpr:
		return c.compileSequence(n)
	case *ast.RangeExpr:
		return c.compileRange(n)
	case *ast.BinaryExpr:
		return c.compileBinary(n)
	case *ast.UnaryExpr:
		return c.compileUnary(n)
	case *ast.IfExpr:
		return c.compileIf(n)
	case *ast.ForExpr:
		return c.compileFor(n)
	case *ast.QuantifiedExpr:
		return c.compileQuantified(n)
	case *ast.CastExpr:
		return c.compileCast(n)
	case *ast.CastableExpr:
		return c.compileCastable(n)
	case *ast.TreatExpr:
		return c.compileTreat(n)
	case *ast.InstanceOfExpr:
		return c.compileInstanceOf(n)
	case *ast.PathExpr:
		return c.compilePath(n)
	case *ast.StepExpr:
		return c.compileStepChain([]ast.Expr{n}, false)
	case *ast.FilterExpr:
		return c.compileFilter(n)
	case *ast.FunctionCall:
		return c.compileCall(n)
	}
	return xpatherr.NewAt(xpatherr.XPST0003, toPos(e), "unsupported expression")
}

func toPos(e ast.Expr) xpatherr.Position {
	p := e.Pos()
	return xpatherr.Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func xpst0003f(near ast.Expr, format string, args ...any) error {
	return xpatherr.NewAt(xpatherr.XPST0003, toPos(near), format, args...)
}

func nameOf(uri, local string) nodeapi.ExpandedName {
	return nodeapi.ExpandedName{URI: uri, Local: local}
}

func (c *Compiler) compileVarRef(n *ast.VarRef) error {
	uri := ""
	if n.Prefix != "" {
		resolved, ok := c.sc.ResolvePrefix(n.Prefix)
		if !ok {
			return xpatherr.NewAt(xpatherr.XPST0003, toPos(n), "undefined namespace prefix %q", n.Prefix)
		}
		uri = resolved
	}
	idx := c.cur.AddName(nodeapi.ExpandedName{URI: uri, Local: n.Local})
	c.emit(ir.Instruction{Op: ir.OpLoadVar, A: idx, B: 0})
	return nil
}

func (c *Compiler) compileSequence(n *ast.SequenceExpr) error {
	for _, item := range n.Items {
		if err := c.compileExpr(item); err != nil {
			return err
		}
	}
	c.emit(ir.Instruction{Op: ir.OpMakeSeq, A: int32(len(n.Items))})
	return nil
}

func (c *Compiler) compileRange(n *ast.RangeExpr) error {
	if err := c.compileExpr(n.Low); err != nil {
		return err
	}
	if err := c.compileExpr(n.High); err != nil {
		return err
	}
	c.emit(ir.Instruction{Op: ir.OpRangeTo})
	return nil
}

var binaryOps = map[ast.BinaryOp]ir.OpCode{
	ast.OpAdd: ir.OpAdd, ast.OpSub: ir.OpSub, ast.OpMul: ir.OpMul,
	ast.OpDiv: ir.OpDiv, ast.OpIDiv: ir.OpIDiv, ast.OpMod: ir.OpMod,
	ast.OpValueEq: ir.OpValueEq, ast.OpValueNe: ir.OpValueNe, ast.OpValueLt: ir.OpValueLt,
	ast.OpValueLe: ir.OpValueLe, ast.OpValueGt: ir.OpValueGt, ast.OpValueGe: ir.OpValueGe,
	ast.OpEq: ir.OpGeneralEq, ast.OpNe: ir.OpGeneralNe, ast.OpLt: ir.OpGeneralLt,
	ast.OpLe: ir.OpGeneralLe, ast.OpGt: ir.OpGeneralGt, ast.OpGe: ir.OpGeneralGe,
	ast.OpIs: ir.OpNodeIs, ast.OpNodeBefore: ir.OpNodeBefore, ast.OpNodeAfter: ir.OpNodeAfter,
	ast.OpUnion: ir.OpUnion, ast.OpIntersect: ir.OpIntersect, ast.OpExcept: ir.OpExcept,
}

// compileBinary lowers every BinaryExpr except `and`/`or`, which
// short-circuit (compileShortCircuit): both share the Left/Right-then-op
// shape, operating on already-atomized-or-node operands the evaluator
// resolves per operator.
func (c *Compiler) compileBinary(n *ast.BinaryExpr) error {
	switch n.Op {
	case ast.OpAnd:
		return c.compileShortCircuit(n.Left, n.Right, ir.OpJumpIfFalse, false)
	case ast.OpOr:
		return c.compileShortCircuit(n.Left, n.Right, ir.OpJumpIfFalse, true)
	}
	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}
	op, ok := binaryOps[n.Op]
	if !ok {
		return xpatherr.NewAt(xpatherr.XPST0003, toPos(n), "unsupported operator")
	}
	c.emit(ir.Instruction{Op: op})
	return nil
}

// compileShortCircuit compiles `left and right` / `left or right` in
// terms of If: `left and right` is `if (left) then boolean(right) else
// false()`, `left or right` is `if (left) then true() else
// boolean(right)`; pushFirst selects which branch is the short-circuit
// constant (false for `and`, true for `or`).
func (c *Compiler) compileShortCircuit(left, right ast.Expr, _ ir.OpCode, pushFirst bool) error {
	if err := c.compileExpr(left); err != nil {
		return err
	}
	elseJump := c.emit(ir.Instruction{Op: ir.OpJumpIfFalse})
	if pushFirst {
		c.pushBool(true)
	} else {
		if err := c.compileExpr(right); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.OpEBV})
	}
	endJump := c.emit(ir.Instruction{Op: ir.OpJump})
	c.cur.Patch(elseJump, c.cur.Here())
	if pushFirst {
		if err := c.compileExpr(right); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.OpEBV})
	} else {
		c.pushBool(false)
	}
	c.cur.Patch(endJump, c.cur.Here())
	return nil
}

func (c *Compiler) pushBool(b bool) {
	idx := c.cur.AddConstant(xdm.NewBoolean(b))
	c.emit(ir.Instruction{Op: ir.OpPushConst, A: idx})
}

func (c *Compiler) compileUnary(n *ast.UnaryExpr) error {
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	if n.Op == ast.UnaryMinus {
		c.emit(ir.Instruction{Op: ir.OpUnaryMinus})
	} else {
		c.emit(ir.Instruction{Op: ir.OpUnaryPlus})
	}
	return nil
}

func (c *Compiler) compileIf(n *ast.IfExpr) error {
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	elseJump := c.emit(ir.Instruction{Op: ir.OpJumpIfFalse})
	if err := c.compileExpr(n.Then); err != nil {
		return err
	}
	endJump := c.emit(ir.Instruction{Op: ir.OpJump})
	c.cur.Patch(elseJump, c.cur.Here())
	if err := c.compileExpr(n.Else); err != nil {
		return err
	}
	c.cur.Patch(endJump, c.cur.Here())
	return nil
}
