// Package evaluator executes a compiled *ir.Program against a
// dynctx.DynamicContext: a stack-machine interpreter adapted from the
// teacher's bytecode VM (internal/bytecode/vm_core.go), generalised from
// a long-lived frame stack over one shared operand stack to a simple
// recursive-descent-over-programs model, since every nested Program
// (predicate, FLWOR source/return, quantifier test) is a fully
// self-contained unit that always leaves exactly one xdm.Sequence on its
// own stack — there is no need for the teacher's call-frame bookkeeping
// when a "call" is just a recursive Eval of a child Program against a
// re-focused context.
package evaluator

import (
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/xdm"
)

// evalState is one running evaluation of a single Program. It is never
// shared across goroutines and never reused after run returns.
type evalState struct {
	prog  *ir.Program
	dc    *dynctx.DynamicContext
	stack []xdm.Sequence
	ip    int32
}

// Eval runs p to completion under dc and returns the single sequence it
// leaves on its stack. Used both for the top-level compiled query and,
// recursively, for every nested Program a predicate/FLWOR/quantifier
// compiles to.
func Eval(p *ir.Program, dc *dynctx.DynamicContext) (xdm.Sequence, error) {
	e := &evalState{prog: p, dc: dc}
	return e.run()
}

func (e *evalState) push(s xdm.Sequence) {
	e.stack = append(e.stack, s)
}

func (e *evalState) pop() (xdm.Sequence, error) {
	if len(e.stack) == 0 {
		return nil, e.stackUnderflow()
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

// popN pops the top n sequences, returning them in push order (oldest
// first), used by OpCall/OpMakeSeq.
func (e *evalState) popN(n int) ([]xdm.Sequence, error) {
	if n > len(e.stack) {
		return nil, e.stackUnderflow()
	}
	out := make([]xdm.Sequence, n)
	copy(out, e.stack[len(e.stack)-n:])
	e.stack = e.stack[:len(e.stack)-n]
	return out, nil
}

func (e *evalState) run() (xdm.Sequence, error) {
	for int(e.ip) < len(e.prog.Code) {
		instr := e.prog.Code[e.ip]
		e.ip++
		if err := e.exec(instr); err != nil {
			return nil, err
		}
	}
	if len(e.stack) != 1 {
		return nil, e.dynamicError("program left %d values on the operand stack, expected exactly 1", len(e.stack))
	}
	return e.stack[0], nil
}

// exec dispatches a single instruction, mutating e.stack and, for jump
// opcodes, e.ip. Split by concern across this file's siblings:
// eval_path.go (axis/path), eval_arith.go (arithmetic), eval_compare.go
// (comparisons), eval_set.go (node sets and FilterExpr predicates),
// eval_types.go (cast/castable/treat/instance-of), eval_flwor.go
// (variables, calls, for, quantifiers).
func (e *evalState) exec(instr ir.Instruction) error {
	switch instr.Op {
	case ir.OpPushConst:
		e.push(xdm.NewSequence(e.prog.Constants[instr.A]))
		return nil
	case ir.OpPushEmpty:
		e.push(nil)
		return nil
	case ir.OpMakeSeq:
		parts, err := e.popN(int(instr.A))
		if err != nil {
			return err
		}
		e.push(xdm.Concat(parts...))
		return nil
	case ir.OpRangeTo:
		return e.execRangeTo()
	case ir.OpStep:
		return e.execStep(instr)
	case ir.OpApplyPredicate:
		return e.execApplyPredicate(instr)
	case ir.OpRoot:
		return e.execRoot()
	case ir.OpDrop:
		_, err := e.pop()
		return err
	case ir.OpLoadVar:
		return e.execLoadVar(instr)
	case ir.OpCall:
		return e.execCall(instr)
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpIDiv, ir.OpMod:
		return e.execArith(instr.Op)
	case ir.OpUnaryMinus, ir.OpUnaryPlus:
		return e.execUnary(instr.Op)
	case ir.OpNot:
		return e.execNot()
	case ir.OpEBV:
		return e.execEBV()
	case ir.OpValueEq, ir.OpValueNe, ir.OpValueLt, ir.OpValueLe, ir.OpValueGt, ir.OpValueGe:
		return e.execValueCompare(instr.Op)
	case ir.OpGeneralEq, ir.OpGeneralNe, ir.OpGeneralLt, ir.OpGeneralLe, ir.OpGeneralGt, ir.OpGeneralGe:
		return e.execGeneralCompare(instr.Op)
	case ir.OpNodeIs, ir.OpNodeBefore, ir.OpNodeAfter:
		return e.execNodeCompare(instr.Op)
	case ir.OpUnion, ir.OpIntersect, ir.OpExcept:
		return e.execSetOp(instr.Op)
	case ir.OpCastAs:
		return e.execCastAs(instr)
	case ir.OpCastableAs:
		return e.execCastableAs(instr)
	case ir.OpTreatAs:
		return e.execTreatAs(instr)
	case ir.OpInstanceOf:
		return e.execInstanceOf(instr)
	case ir.OpFor:
		return e.execFor(instr)
	case ir.OpQuant:
		return e.execQuant(instr)
	case ir.OpJumpIfFalse:
		return e.execJumpIfFalse(instr)
	case ir.OpJump:
		e.ip = instr.B
		return nil
	}
	return e.dynamicError("unhandled opcode %s", instr.Op)
}

func (e *evalState) execJumpIfFalse(instr ir.Instruction) error {
	seq, err := e.pop()
	if err != nil {
		return err
	}
	ok, err := xdm.EBV(seq)
	if err != nil {
		return err
	}
	if !ok {
		e.ip = instr.B
	}
	return nil
}
