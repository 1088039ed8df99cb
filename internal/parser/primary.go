package parser

import (
	"strconv"
	"strings"

	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/lexer"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// parsePrimaryExpr implements PrimaryExpr (grammar [27]): literals,
// VarRef, ParenthesizedExpr, ContextItemExpr, and FunctionCall.
func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.cursor.Current()
	switch tok.Type {
	case lexer.INTEGER:
		p.cursor.Advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.fail(xpatherr.XPST0003, "invalid integer literal %q", tok.Literal)
		}
		return &ast.IntegerLiteral{Base: newBase(tok.Pos), Value: v}
	case lexer.DECIMAL:
		p.cursor.Advance()
		return &ast.DecimalLiteral{Base: newBase(tok.Pos), Text: tok.Literal}
	case lexer.DOUBLE:
		p.cursor.Advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.fail(xpatherr.XPST0003, "invalid double literal %q", tok.Literal)
		}
		return &ast.DoubleLiteral{Base: newBase(tok.Pos), Value: v}
	case lexer.STRING:
		p.cursor.Advance()
		return &ast.StringLiteral{Base: newBase(tok.Pos), Value: tok.Literal}
	case lexer.VARNAME:
		p.cursor.Advance()
		prefix, local := splitQName(tok.Literal)
		return &ast.VarRef{Base: newBase(tok.Pos), Prefix: prefix, Local: local}
	case lexer.LPAREN:
		return p.parseParenthesizedExpr()
	case lexer.DOT:
		p.cursor.Advance()
		return &ast.ContextItem{Base: newBase(tok.Pos)}
	case lexer.NCNAME:
		return p.parseFunctionCall()
	}
	p.fail(xpatherr.XPST0003, "unexpected token %q", tok.Literal)
	return nil
}

func splitQName(s string) (prefix, local string) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

func (p *Parser) parseParenthesizedExpr() ast.Expr {
	pos := p.pos()
	p.expect(lexer.LPAREN)
	if p.cursor.Is(lexer.RPAREN) {
		p.cursor.Advance()
		return &ast.EmptySequence{Base: newBase(pos)}
	}
	e := p.parseExpr()
	p.expect(lexer.RPAREN)
	return e
}

// parseFunctionCall parses QName "(" (ExprSingle ("," ExprSingle)*)? ")".
// The caller (startsNodeTest / parseStepExpr) has already established
// that an unprefixed reserved name here is only reached when it is NOT
// followed by '(' as a kind test, so any NCNAME reaching this point
// followed by '(' is a genuine call; reserved names are rejected.
func (p *Parser) parseFunctionCall() ast.Expr {
	tok := p.cursor.Current()
	pos := tok.Pos
	name := tok.Literal
	p.cursor.Advance()
	prefix := ""
	if p.cursor.Is(lexer.COLON) {
		p.cursor.Advance()
		prefix = name
		name = p.expect(lexer.NCNAME).Literal
	}
	if prefix == "" && lexer.IsReservedFunctionName(name) {
		p.fail(xpatherr.XPST0003, "%q is a reserved name and cannot be used as a function call", name)
	}
	if !p.cursor.Is(lexer.LPAREN) {
		p.fail(xpatherr.XPST0003, "expected '(' to begin a function call, got %q", p.cursor.Current().Literal)
	}
	p.cursor.Advance()
	var args []ast.Expr
	if !p.cursor.Is(lexer.RPAREN) {
		args = append(args, p.parseExprSingle())
		for p.cursor.Is(lexer.COMMA) {
			p.cursor.Advance()
			args = append(args, p.parseExprSingle())
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.FunctionCall{Base: newBase(pos), Prefix: prefix, Local: name, Args: args}
}
