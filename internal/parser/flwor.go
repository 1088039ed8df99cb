package parser

import (
	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/lexer"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// parseForExpr implements the restricted FLWOR this engine supports:
// `for $v in Expr (, $v2 in Expr2)* return ExprSingle`. `let`, `where`,
// `order by`, and `group by` clauses are rejected at parse time (see
// parseExprSingle's "let" case); they are never reached from here since
// `for` consumes only ForClause and 'return'.
func (p *Parser) parseForExpr() ast.Expr {
	pos := p.pos()
	p.expectKeyword("for")
	bindings := []ast.ForBinding{p.parseForBinding()}
	for p.cursor.Is(lexer.COMMA) {
		p.cursor.Advance()
		bindings = append(bindings, p.parseForBinding())
	}
	p.expectKeyword("return")
	ret := p.parseExprSingle()
	return &ast.ForExpr{Base: newBase(pos), Bindings: bindings, Return: ret}
}

func (p *Parser) parseForBinding() ast.ForBinding {
	tok := p.expect(lexer.VARNAME)
	prefix, local := splitQName(tok.Literal)
	p.expectKeyword("in")
	src := p.parseExprSingle()
	return ast.ForBinding{VarPrefix: prefix, VarLocal: local, Source: src}
}

// parseQuantifiedExpr implements `some $v in Expr (, ...)* satisfies
// ExprSingle` and the `every` variant.
func (p *Parser) parseQuantifiedExpr() ast.Expr {
	pos := p.pos()
	kind := ast.QuantSome
	if p.cursor.Current().Literal == "every" {
		kind = ast.QuantEvery
	}
	p.cursor.Advance()
	bindings := []ast.ForBinding{p.parseForBinding()}
	for p.cursor.Is(lexer.COMMA) {
		p.cursor.Advance()
		bindings = append(bindings, p.parseForBinding())
	}
	if !p.cursor.IsKeyword("satisfies") {
		p.fail(xpatherr.XPST0003, "expected 'satisfies', got %q", p.cursor.Current().Literal)
	}
	p.cursor.Advance()
	test := p.parseExprSingle()
	return &ast.QuantifiedExpr{Base: newBase(pos), Kind: kind, Bindings: bindings, Test: test}
}

// parseIfExpr implements `if "(" Expr ")" "then" ExprSingle "else" ExprSingle`.
func (p *Parser) parseIfExpr() ast.Expr {
	pos := p.pos()
	p.expectKeyword("if")
	p.expect(lexer.LPAREN)
	cond := p.parseExpr()
	p.expect(lexer.RPAREN)
	if !p.cursor.IsKeyword("then") {
		p.fail(xpatherr.XPST0003, "expected 'then', got %q", p.cursor.Current().Literal)
	}
	p.cursor.Advance()
	then := p.parseExprSingle()
	if !p.cursor.IsKeyword("else") {
		p.fail(xpatherr.XPST0003, "expected 'else', got %q", p.cursor.Current().Literal)
	}
	p.cursor.Advance()
	els := p.parseExprSingle()
	return &ast.IfExpr{Base: newBase(pos), Cond: cond, Then: then, Else: els}
}
