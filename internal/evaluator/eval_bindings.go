package evaluator

import (
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/xdm"
)

// dynctxHandle wraps a DynamicContext so visit callbacks below stay
// simple function values rather than closing over package internals.
type dynctxHandle struct {
	ctx *dynctx.DynamicContext
}

// forEachCombination walks every combination of a `for`/quantified
// expression's bindings as nested loops, first binding outermost, each
// binding's Source re-evaluated under the dynamic context built up by
// the outer bindings already bound (so a later source may reference an
// earlier binding's variable). visit runs once per full combination; it
// returns stop=true to end the walk early (used by `some`/`every`'s
// short-circuit).
func forEachCombination(bindings []ir.ForBindingDescriptor, idx int, dc *dynctx.DynamicContext, visit func(*dynctxHandle) (bool, error)) (bool, error) {
	if idx == len(bindings) {
		return visit(&dynctxHandle{ctx: dc})
	}
	b := bindings[idx]
	seq, err := Eval(b.Source, dc)
	if err != nil {
		return false, err
	}
	for _, item := range seq {
		next := dc.WithBoundVariable(b.Name.URI, b.Name.Local, xdm.NewSequence(item))
		stop, err := forEachCombination(bindings, idx+1, next, visit)
		if err != nil {
			return false, err
		}
		if stop {
			return true, nil
		}
	}
	return false, nil
}
