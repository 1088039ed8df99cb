package evaluator

import (
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// execLoadVar handles both encodings OpLoadVar carries: B==1 marks the
// context-item sentinel (the zero ExpandedName compileExpr emits for a
// bare `.`), B==0 a real variable reference resolved against the
// dynamic context's variable bindings.
func (e *evalState) execLoadVar(instr ir.Instruction) error {
	name := e.prog.Names[instr.A]
	if instr.B == 1 {
		item, _, _, ok := e.dc.ContextItem()
		if !ok {
			return xpatherr.New(xpatherr.FOER0000, "the context item is absent")
		}
		e.push(xdm.NewSequence(item))
		return nil
	}
	seq, ok := e.dc.Variable(name.URI, name.Local)
	if !ok {
		return xpatherr.New(xpatherr.XPST0008, "unbound variable $%s", name.Local)
	}
	e.push(seq)
	return nil
}

// execCall pops its B argument sequences in push order, resolves the
// function against the dynamic context's registry, and invokes it.
// LookupFunction failing here (despite passing static arity checking)
// means a host-extended registry no longer has the name at run time;
// that is a dynamic error, not XPST0017, which only ever fires at
// compile time.
func (e *evalState) execCall(instr ir.Instruction) error {
	name := e.prog.Names[instr.A]
	args, err := e.popN(int(instr.B))
	if err != nil {
		return err
	}
	fn, ok := e.dc.LookupFunction(name.URI, name.Local, int(instr.B))
	if !ok {
		return xpatherr.New(xpatherr.FOER0000, "function %s#%s/%d is not registered", name.URI, name.Local, instr.B)
	}
	result, err := fn(e.dc, args)
	if err != nil {
		return err
	}
	e.push(result)
	return nil
}

// execFor evaluates a `for` expression's nested binding loop: bindings
// run as nested loops (first binding outermost, each binding's Source
// re-evaluated once per combination of the bindings already in scope,
// since a later source may reference an earlier binding's variable),
// and Return runs once per full combination with all results
// concatenated in iteration order.
func (e *evalState) execFor(instr ir.Instruction) error {
	d := e.prog.Flwor[instr.A]
	var out xdm.Sequence
	_, err := forEachCombination(d.Bindings, 0, e.dc, func(dc *dynctxHandle) (bool, error) {
		result, err := Eval(d.Return, dc.ctx)
		if err != nil {
			return false, err
		}
		out = append(out, result...)
		return false, nil
	})
	if err != nil {
		return err
	}
	e.push(out)
	return nil
}

// execQuant evaluates `some`/`every ... satisfies`: short-circuiting as
// soon as the answer is determined (the first satisfying combination for
// `some`, the first failing one for `every`), with the spec's vacuous
// truth for `every` over an empty binding domain and vacuous falsity for
// `some`.
func (e *evalState) execQuant(instr ir.Instruction) error {
	d := e.prog.Quant[instr.A]
	found := false
	_, err := forEachCombination(d.Bindings, 0, e.dc, func(dc *dynctxHandle) (bool, error) {
		result, err := Eval(d.Test, dc.ctx)
		if err != nil {
			return false, err
		}
		ok, err := xdm.EBV(result)
		if err != nil {
			return false, err
		}
		if (d.Kind == ir.QuantSome && ok) || (d.Kind == ir.QuantEvery && !ok) {
			found = true
			return true, nil // stop early once the outcome is determined
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	result := found
	if d.Kind == ir.QuantEvery {
		result = !found
	}
	e.push(xdm.NewSequence(xdm.NewBoolean(result)))
	return nil
}
