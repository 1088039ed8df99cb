// Package xpath2 is the public façade over the engine: compile once,
// evaluate many times against independent dynamic contexts (spec §6).
// It wires the standard function library into every static/dynamic
// context it constructs so that host code never has to know about
// internal/funcs directly.
package xpath2

import (
	"iter"

	"github.com/platynui/xpath2/internal/compiler"
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/evaluator"
	"github.com/platynui/xpath2/internal/funcs"
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/staticctx"
	"github.com/platynui/xpath2/internal/xdm"
)

// CompiledProgram is the immutable result of Compile: a lowered IR
// program safe to evaluate concurrently from multiple goroutines, each
// against its own DynamicContext (spec §5).
type CompiledProgram struct {
	prog   *ir.Program
	source string
}

// Source returns the expression text the program was compiled from.
func (p *CompiledProgram) Source() string { return p.source }

// NewStaticContext returns a StaticContext with every standard function
// in internal/funcs pre-declared, the baseline every host should extend
// rather than build from staticctx.New directly.
func NewStaticContext(opts ...staticctx.Option) *staticctx.StaticContext {
	all := append(append([]staticctx.Option{}, funcs.StandardStaticOptions()...), opts...)
	return staticctx.New(all...)
}

// NewDynamicContext returns a DynamicContext with the standard function
// registry installed, the baseline every host should extend rather than
// build from dynctx.New directly.
func NewDynamicContext(opts ...dynctx.Option) *dynctx.DynamicContext {
	all := append([]dynctx.Option{dynctx.WithFunctionRegistry(funcs.NewStandardRegistry())}, opts...)
	return dynctx.New(all...)
}

// Compile parses and lowers source against sc into a ready-to-evaluate
// program (spec §4.1-§4.2). sc should normally originate from
// NewStaticContext so the standard function library's arities are known
// to the static XPST0017 check.
func Compile(source string, sc *staticctx.StaticContext) (*CompiledProgram, error) {
	prog, err := compiler.Compile(source, sc)
	if err != nil {
		return nil, err
	}
	return &CompiledProgram{prog: prog, source: source}, nil
}

// Evaluate runs p against dc once and returns the fully materialised
// result sequence (spec §4.3).
func Evaluate(p *CompiledProgram, dc *dynctx.DynamicContext) (xdm.Sequence, error) {
	return evaluator.Eval(p.prog, dc)
}

// EvaluateExpr fuses Compile and Evaluate using a standard static context,
// the one-shot convenience entry point (spec §6).
func EvaluateExpr(source string, dc *dynctx.DynamicContext) (xdm.Sequence, error) {
	p, err := Compile(source, NewStaticContext())
	if err != nil {
		return nil, err
	}
	return Evaluate(p, dc)
}

// StreamHandle is a repeatable handle on one (program, context) pair: each
// call to Iter performs a fresh, independent evaluation from scratch (the
// "replay, not coroutine" model — a compiled program has no paused
// execution state to resume, so streaming re-runs rather than suspends).
type StreamHandle struct {
	prog *ir.Program
	dc   *dynctx.DynamicContext
}

// EvaluateStream returns a StreamHandle over p and dc without evaluating
// anything yet; evaluation happens lazily, once per Iter call.
func EvaluateStream(p *CompiledProgram, dc *dynctx.DynamicContext) (*StreamHandle, error) {
	return &StreamHandle{prog: p.prog, dc: dc}, nil
}

// Iter runs the program and yields its result sequence item by item. Each
// range-over-func call re-evaluates the program independently; stopping
// the range early (break) does not leave any engine-side state behind to
// clean up.
func (h *StreamHandle) Iter() iter.Seq2[xdm.Item, error] {
	return func(yield func(xdm.Item, error) bool) {
		seq, err := evaluator.Eval(h.prog, h.dc)
		if err != nil {
			yield(xdm.Item{}, err)
			return
		}
		for _, item := range seq {
			if !yield(item, nil) {
				return
			}
		}
	}
}
