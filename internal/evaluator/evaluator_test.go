package evaluator

import (
	"testing"

	"github.com/platynui/xpath2/internal/compiler"
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/funcs"
	"github.com/platynui/xpath2/internal/staticctx"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func evalExpr(t *testing.T, expr string) (string, error) {
	t.Helper()
	sc := staticctx.New(funcs.StandardStaticOptions()...)
	prog, err := compiler.Compile(expr, sc)
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	dc := dynctx.New(dynctx.WithFunctionRegistry(funcs.NewStandardRegistry()))
	seq, err := Eval(prog, dc)
	if err != nil {
		return "", err
	}
	if len(seq) == 0 {
		return "", nil
	}
	return seq[0].Atomic.String(), nil
}

func TestEvalArithmeticPromotion(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "3"},
		{"1 + 2.5", "3.5"},
		{"1 div 2", "0.5"},
		{"7 idiv 2", "3"},
		{"-7 idiv 2", "-3"},
		{"7 mod -2", "1"},
		{"-(1 + 1)", "-2"},
	}
	for _, tc := range tests {
		got, err := evalExpr(t, tc.expr)
		if err != nil {
			t.Fatalf("eval(%q): %v", tc.expr, err)
		}
		if got != tc.want {
			t.Errorf("eval(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

func TestEvalIntegerOverflowPromotesToDecimal(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"9223372036854775807 + 1", "9223372036854775808"},
		{"9223372036854775807 * 3", "27670116110564327421"},
		{"-9223372036854775807 - 2", "-9223372036854775809"},
	}
	for _, tc := range tests {
		got, err := evalExpr(t, tc.expr)
		if err != nil {
			t.Fatalf("eval(%q): %v", tc.expr, err)
		}
		if got != tc.want {
			t.Errorf("eval(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

func TestEvalIDivExtremeOverflowErrorsFOAR0002(t *testing.T) {
	_, err := evalExpr(t, "(9223372036854775807 * 3) idiv 1")
	if err == nil {
		t.Fatal("expected an error for an idiv result overflowing xs:integer")
	}
	if !xpatherr.IsCode(err, xpatherr.FOAR0002) {
		t.Errorf("error = %v, want code FOAR0002", err)
	}
}

func TestEvalComparisonOperators(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 < 2", "true"},
		{"(1, 2) = (2, 3)", "true"},
		{"(1, 2) = (3, 4)", "false"},
		{"1 eq 1", "true"},
		{"1 ne 2", "true"},
		{"'b' gt 'a'", "true"},
	}
	for _, tc := range tests {
		got, err := evalExpr(t, tc.expr)
		if err != nil {
			t.Fatalf("eval(%q): %v", tc.expr, err)
		}
		if got != tc.want {
			t.Errorf("eval(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

func TestEvalGeneralCompareSwallowsIncomparablePairs(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 < 'x'", "false"},
		{"1 < ('x', 2)", "true"},
	}
	for _, tc := range tests {
		got, err := evalExpr(t, tc.expr)
		if err != nil {
			t.Fatalf("eval(%q): %v", tc.expr, err)
		}
		if got != tc.want {
			t.Errorf("eval(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := evalExpr(t, "1 div 0")
	if err == nil {
		t.Fatal("expected an error for 1 div 0")
	}
	if !xpatherr.IsCode(err, xpatherr.FOAR0001) {
		t.Errorf("error = %v, want code FOAR0001", err)
	}
}

func TestEvalQuantifiedExpressions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"some $x in (1, 2, 3) satisfies $x = 2", "true"},
		{"every $x in (1, 2, 3) satisfies $x > 0", "true"},
		{"every $x in (1, 2, 3) satisfies $x > 1", "false"},
	}
	for _, tc := range tests {
		got, err := evalExpr(t, tc.expr)
		if err != nil {
			t.Fatalf("eval(%q): %v", tc.expr, err)
		}
		if got != tc.want {
			t.Errorf("eval(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

func TestEvalForExprMultipleBindings(t *testing.T) {
	sc := staticctx.New(funcs.StandardStaticOptions()...)
	prog, err := compiler.Compile("for $x in (1, 2), $y in (10, 20) return $x + $y", sc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	dc := dynctx.New(dynctx.WithFunctionRegistry(funcs.NewStandardRegistry()))
	seq, err := Eval(prog, dc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	want := []string{"11", "21", "12", "22"}
	if len(seq) != len(want) {
		t.Fatalf("got %d results, want %d", len(seq), len(want))
	}
	for i, w := range want {
		if got := seq[i].Atomic.String(); got != w {
			t.Errorf("result[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestEvalForExprUnsupportedWhereClauseIsParseError(t *testing.T) {
	_, err := compiler.Compile("for $x in (1, 2) where $x > 1 return $x",
		staticctx.New(funcs.StandardStaticOptions()...))
	if err == nil {
		t.Fatal("expected a parse error: this engine's for-expression has no where clause")
	}
}
