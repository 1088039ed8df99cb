package ir

import (
	"fmt"
	"io"
)

var opNames = map[OpCode]string{
	OpPushConst: "PushConst", OpPushEmpty: "PushEmpty",
	OpMakeSeq: "MakeSeq", OpRangeTo: "RangeTo",
	OpStep: "Step", OpApplyPredicate: "ApplyPredicate", OpRoot: "Root", OpDrop: "Drop",
	OpLoadVar: "LoadVar",
	OpCall:    "Call",
	OpAdd:     "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div", OpIDiv: "IDiv", OpMod: "Mod",
	OpUnaryMinus: "UnaryMinus", OpUnaryPlus: "UnaryPlus",
	OpNot: "Not", OpEBV: "EBV",
	OpValueEq: "ValueEq", OpValueNe: "ValueNe", OpValueLt: "ValueLt", OpValueLe: "ValueLe", OpValueGt: "ValueGt", OpValueGe: "ValueGe",
	OpGeneralEq: "GeneralEq", OpGeneralNe: "GeneralNe", OpGeneralLt: "GeneralLt", OpGeneralLe: "GeneralLe", OpGeneralGt: "GeneralGt", OpGeneralGe: "GeneralGe",
	OpNodeIs: "NodeIs", OpNodeBefore: "NodeBefore", OpNodeAfter: "NodeAfter",
	OpUnion: "Union", OpIntersect: "Intersect", OpExcept: "Except",
	OpCastAs: "CastAs", OpCastableAs: "CastableAs", OpTreatAs: "TreatAs", OpInstanceOf: "InstanceOf",
	OpFor: "For", OpQuant: "Quant",
	OpJumpIfFalse: "JumpIfFalse", OpJump: "Jump",
}

func (op OpCode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", byte(op))
}

// Disassemble writes a human-readable listing of p to w, one line per
// instruction plus its pools, recursing into nested predicate/FLWOR
// programs.
func Disassemble(w io.Writer, p *Program) {
	disassemble(w, p, "")
}

func disassemble(w io.Writer, p *Program, indent string) {
	fmt.Fprintf(w, "%s== program ==\n", indent)
	for i, instr := range p.Code {
		fmt.Fprintf(w, "%s%04d %s", indent, i, instr.Op)
		switch instr.Op {
		case OpPushConst:
			fmt.Fprintf(w, " const[%d]=%s", instr.A, p.Constants[instr.A].String())
		case OpMakeSeq:
			fmt.Fprintf(w, " n=%d", instr.A)
		case OpStep:
			fmt.Fprintf(w, " test[%d] axis=%s", instr.A, p.Tests[instr.A].Axis)
		case OpApplyPredicate:
			fmt.Fprintf(w, " predicate[%d]", instr.A)
		case OpLoadVar:
			fmt.Fprintf(w, " name[%d]=%s", instr.A, p.Names[instr.A].Local)
		case OpCall:
			fmt.Fprintf(w, " name[%d]=%s arity=%d", instr.A, p.Names[instr.A].Local, instr.B)
		case OpCastAs, OpCastableAs, OpTreatAs, OpInstanceOf:
			fmt.Fprintf(w, " type[%d]", instr.A)
		case OpFor:
			fmt.Fprintf(w, " flwor[%d]", instr.A)
		case OpQuant:
			fmt.Fprintf(w, " quant[%d]", instr.A)
		case OpJump, OpJumpIfFalse:
			fmt.Fprintf(w, " ->%d", instr.B)
		}
		fmt.Fprintln(w)
	}
	if len(p.Constants) > 0 {
		fmt.Fprintf(w, "%sconstants:\n", indent)
		for i, c := range p.Constants {
			fmt.Fprintf(w, "%s  [%04d] %s\n", indent, i, c.String())
		}
	}
	if len(p.Names) > 0 {
		fmt.Fprintf(w, "%snames:\n", indent)
		for i, n := range p.Names {
			fmt.Fprintf(w, "%s  [%04d] {%s}%s\n", indent, i, n.URI, n.Local)
		}
	}
	for i, sub := range p.Predicates {
		fmt.Fprintf(w, "%spredicate[%d]:\n", indent, i)
		disassemble(w, sub, indent+"  ")
	}
	for i, t := range p.Tests {
		for j, pred := range t.Predicates {
			fmt.Fprintf(w, "%stest[%d].predicate[%d]:\n", indent, i, j)
			disassemble(w, pred, indent+"  ")
		}
	}
	for i, f := range p.Flwor {
		fmt.Fprintf(w, "%sflwor[%d]:\n", indent, i)
		for j, b := range f.Bindings {
			fmt.Fprintf(w, "%s  binding[%d]=%s:\n", indent, j, b.Name.Local)
			disassemble(w, b.Source, indent+"    ")
		}
		fmt.Fprintf(w, "%s  return:\n", indent)
		disassemble(w, f.Return, indent+"    ")
	}
	for i, q := range p.Quant {
		fmt.Fprintf(w, "%squant[%d]:\n", indent, i)
		for j, b := range q.Bindings {
			fmt.Fprintf(w, "%s  binding[%d]=%s:\n", indent, j, b.Name.Local)
			disassemble(w, b.Source, indent+"    ")
		}
		fmt.Fprintf(w, "%s  test:\n", indent)
		disassemble(w, q.Test, indent+"    ")
	}
}
