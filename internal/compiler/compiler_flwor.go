// compiler_flwor.go lowers the restricted `for ... return` FLWOR and
// `some`/`every ... satisfies` quantified expressions into OpFor/OpQuant,
// each binding source and the return/test body compiled as its own
// nested Program (compileSub) since they re-run once per binding
// combination against a re-focused dynamic context.
package compiler

import (
	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/ir"
)

func (c *Compiler) compileBindings(bindings []ast.ForBinding) ([]ir.ForBindingDescriptor, error) {
	out := make([]ir.ForBindingDescriptor, 0, len(bindings))
	for _, b := range bindings {
		uri := ""
		if b.VarPrefix != "" {
			resolved, ok := c.sc.ResolvePrefix(b.VarPrefix)
			if !ok {
				return nil, xpst0003f(b.Source, "undefined namespace prefix %q", b.VarPrefix)
			}
			uri = resolved
		}
		src, err := c.compileSub(b.Source)
		if err != nil {
			return nil, err
		}
		out = append(out, ir.ForBindingDescriptor{Name: nameOf(uri, b.VarLocal), Source: src})
	}
	return out, nil
}

func (c *Compiler) compileFor(n *ast.ForExpr) error {
	bindings, err := c.compileBindings(n.Bindings)
	if err != nil {
		return err
	}
	ret, err := c.compileSub(n.Return)
	if err != nil {
		return err
	}
	idx := c.cur.AddFlwor(&ir.FlworDescriptor{Bindings: bindings, Return: ret})
	c.emit(ir.Instruction{Op: ir.OpFor, A: idx})
	return nil
}

func (c *Compiler) compileQuantified(n *ast.QuantifiedExpr) error {
	bindings, err := c.compileBindings(n.Bindings)
	if err != nil {
		return err
	}
	test, err := c.compileSub(n.Test)
	if err != nil {
		return err
	}
	kind := ir.QuantSome
	if n.Kind == ast.QuantEvery {
		kind = ir.QuantEvery
	}
	idx := c.cur.AddQuant(&ir.QuantDescriptor{Kind: kind, Bindings: bindings, Test: test})
	c.emit(ir.Instruction{Op: ir.OpQuant, A: idx})
	return nil
}
