package parser

import (
	"testing"

	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func TestParseValidExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want func(ast.Expr) bool
	}{
		{"integer literal", "42", func(e ast.Expr) bool { _, ok := e.(*ast.IntegerLiteral); return ok }},
		{"string literal", "'abc'", func(e ast.Expr) bool { _, ok := e.(*ast.StringLiteral); return ok }},
		{"addition", "1 + 2", func(e ast.Expr) bool { _, ok := e.(*ast.BinaryExpr); return ok }},
		{"path", "child::a/child::b", func(e ast.Expr) bool { _, ok := e.(*ast.PathExpr); return ok }},
		{"abbreviated path", "a/b", func(e ast.Expr) bool { _, ok := e.(*ast.PathExpr); return ok }},
		{"for expr", "for $x in (1, 2) return $x", func(e ast.Expr) bool { _, ok := e.(*ast.ForExpr); return ok }},
		{"if expr", "if (1) then 2 else 3", func(e ast.Expr) bool { _, ok := e.(*ast.IfExpr); return ok }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := Parse(tc.expr)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.expr, err)
			}
			if !tc.want(expr) {
				t.Errorf("Parse(%q) produced %T, wrong root node type", tc.expr, expr)
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []string{
		"1 +",
		"(1, 2",
		"for $x return $x",
		"if (1) then 2",
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			if err == nil {
				t.Fatalf("Parse(%q): expected a syntax error, got nil", expr)
			}
			if !xpatherr.IsCode(err, xpatherr.XPST0003) {
				t.Errorf("Parse(%q) error = %v, want code XPST0003", expr, err)
			}
		})
	}
}
