package evaluator

import (
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/nodeapi"
)

func (e *evalState) execSetOp(op ir.OpCode) error {
	rightSeq, err := e.pop()
	if err != nil {
		return err
	}
	leftSeq, err := e.pop()
	if err != nil {
		return err
	}
	left, err := seqNodes(leftSeq)
	if err != nil {
		return err
	}
	right, err := seqNodes(rightSeq)
	if err != nil {
		return err
	}
	var out []nodeapi.Node
	switch op {
	case ir.OpUnion:
		out, err = nodeapi.Union(left, right)
	case ir.OpIntersect:
		out, err = nodeapi.Intersect(left, right)
	case ir.OpExcept:
		out, err = nodeapi.Except(left, right)
	}
	if err != nil {
		return err
	}
	e.push(nodesToSequence(out))
	return nil
}

// execApplyPredicate filters the sequence on top of stack through the
// nested predicate program at Predicates[A], one item at a time, with
// position/last scoped to this whole sequence — the correct semantics
// for a FilterExpr's predicates, which (unlike an axis step's) apply
// directly over a single already-computed sequence.
func (e *evalState) execApplyPredicate(instr ir.Instruction) error {
	seq, err := e.pop()
	if err != nil {
		return err
	}
	sub := e.prog.Predicates[instr.A]
	out, err := filterByPredicate(sub, seq, e.dc)
	if err != nil {
		return err
	}
	e.push(out)
	return nil
}
