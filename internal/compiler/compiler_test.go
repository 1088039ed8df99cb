package compiler

import (
	"testing"

	"github.com/platynui/xpath2/internal/funcs"
	"github.com/platynui/xpath2/internal/staticctx"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func standardContext() *staticctx.StaticContext {
	return staticctx.New(funcs.StandardStaticOptions()...)
}

func TestCompileValidExpressions(t *testing.T) {
	tests := []string{
		"1 + 2",
		"'a' = 'a'",
		"(1, 2, 3)[2]",
		"concat('a', 'b')",
		"for $x in (1, 2) return $x + 1",
		"if (1 = 1) then 'y' else 'n'",
		"some $x in (1, 2) satisfies $x = 2",
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			prog, err := Compile(expr, standardContext())
			if err != nil {
				t.Fatalf("Compile(%q): %v", expr, err)
			}
			if len(prog.Code) == 0 {
				t.Errorf("Compile(%q) produced an empty instruction stream", expr)
			}
		})
	}
}

func TestCompileUnknownFunctionIsStaticError(t *testing.T) {
	_, err := Compile("no-such-function(1)", standardContext())
	if err == nil {
		t.Fatal("expected a static error for an unknown function")
	}
	if !xpatherr.IsCode(err, xpatherr.XPST0017) {
		t.Errorf("error = %v, want code XPST0017", err)
	}
}

func TestCompileWrongArityIsStaticError(t *testing.T) {
	_, err := Compile("true(1)", standardContext())
	if err == nil {
		t.Fatal("expected a static error for a wrong-arity call")
	}
	if !xpatherr.IsCode(err, xpatherr.XPST0017) {
		t.Errorf("error = %v, want code XPST0017", err)
	}
}
