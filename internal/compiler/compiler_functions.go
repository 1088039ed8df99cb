// compiler_functions.go lowers FunctionCall: resolve the function's
// expanded name (defaulting an unprefixed call to the static context's
// default function namespace), check its arity statically against the
// static context's function table, compile each argument, and emit
// OpCall.
package compiler

import (
	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/ir"
)

func (c *Compiler) compileCall(n *ast.FunctionCall) error {
	uri := c.sc.DefaultFunctionNamespace()
	if n.Prefix != "" {
		resolved, ok := c.sc.ResolvePrefix(n.Prefix)
		if !ok {
			return xpst0003f(n, "undefined namespace prefix %q", n.Prefix)
		}
		uri = resolved
	}
	if err := c.sc.CheckFunction(uri, n.Local, len(n.Args)); err != nil {
		return err
	}
	for _, arg := range n.Args {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	idx := c.cur.AddName(nameOf(uri, n.Local))
	c.emit(ir.Instruction{Op: ir.OpCall, A: idx, B: int32(len(n.Args))})
	return nil
}
