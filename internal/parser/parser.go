// Package parser implements the XPath 2.0 recursive-descent parser
// (spec §4.1). Every failure surfaces as a *xpatherr.Error with code
// XPST0003 and a source position; the parser never panics on
// ill-formed input.
package parser

import (
	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/lexer"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// Parser recognises the XPath 2.0 grammar over a token cursor.
type Parser struct {
	cursor *TokenCursor
	source string
}

// Parse parses source into a single root Expr, or returns a static
// *xpatherr.Error with code XPST0003.
func Parse(source string) (expr ast.Expr, err error) {
	p := &Parser{cursor: NewTokenCursor(lexer.New(source)), source: source}
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*parseError); ok {
				err = pe.err
				return
			}
			panic(r)
		}
	}()
	e := p.parseExpr()
	p.expectEOF()
	return e, nil
}

// parseError is used internally to unwind the recursive descent on the
// first syntax error without threading an error return through every
// production; Parse recovers it at the top and returns it as a normal
// error. This never crosses the package boundary as a panic.
type parseError struct{ err *xpatherr.Error }

func (p *Parser) fail(code xpatherr.Code, format string, args ...any) {
	tok := p.cursor.Current()
	pos := xpatherr.Position{Line: tok.Pos.Line, Column: tok.Pos.Column, Offset: tok.Pos.Offset}
	e := xpatherr.NewAt(code, pos, format, args...).WithSource(p.source)
	panic(&parseError{err: e})
}

func (p *Parser) pos() lexer.Position { return p.cursor.Current().Pos }

func (p *Parser) expectEOF() {
	if !p.cursor.Is(lexer.EOF) {
		p.fail(xpatherr.XPST0003, "unexpected token %q after end of expression", p.cursor.Current().Literal)
	}
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if !p.cursor.Is(t) {
		p.fail(xpatherr.XPST0003, "expected %s, got %q", t, p.cursor.Current().Literal)
	}
	tok := p.cursor.Current()
	p.cursor.Advance()
	return tok
}

func (p *Parser) expectKeyword(kw string) {
	if !p.cursor.IsKeyword(kw) {
		p.fail(xpatherr.XPST0003, "expected keyword %q, got %q", kw, p.cursor.Current().Literal)
	}
	p.cursor.Advance()
}

// ---- Expr / ExprSingle ----

func (p *Parser) parseExpr() ast.Expr {
	first := p.parseExprSingle()
	if !p.cursor.Is(lexer.COMMA) {
		return first
	}
	pos := first.Pos()
	items := []ast.Expr{first}
	for p.cursor.Is(lexer.COMMA) {
		p.cursor.Advance()
		items = append(items, p.parseExprSingle())
	}
	return &ast.SequenceExpr{Base: newBase(pos), Items: items}
}

func newBase(pos lexer.Position) ast.Base { return ast.NewBase(pos) }

func (p *Parser) parseExprSingle() ast.Expr {
	switch {
	case p.cursor.IsKeyword("for"):
		return p.parseForExpr()
	case p.cursor.IsKeyword("some"), p.cursor.IsKeyword("every"):
		return p.parseQuantifiedExpr()
	case p.cursor.IsKeyword("if") && p.cursor.Peek(1).Type == lexer.LPAREN:
		return p.parseIfExpr()
	case p.cursor.IsKeyword("let"):
		p.fail(xpatherr.XPST0003, "the 'let' clause is not supported by this engine")
	default:
	}
	return p.parseOrExpr()
}

func (p *Parser) parseOrExpr() ast.Expr {
	left := p.parseAndExpr()
	for p.cursor.IsKeyword("or") {
		pos := p.pos()
		p.cursor.Advance()
		right := p.parseAndExpr()
		left = mkBinary(pos, ast.OpOr, left, right)
	}
	return left
}

func (p *Parser) parseAndExpr() ast.Expr {
	left := p.parseComparisonExpr()
	for p.cursor.IsKeyword("and") {
		pos := p.pos()
		p.cursor.Advance()
		right := p.parseComparisonExpr()
		left = mkBinary(pos, ast.OpAnd, left, right)
	}
	return left
}

// comparison operators are non-associative: at most one per ComparisonExpr.
func (p *Parser) parseComparisonExpr() ast.Expr {
	left := p.parseRangeExpr()
	op, ok := p.tryComparisonOp()
	if !ok {
		return left
	}
	pos := p.pos()
	p.cursor.Advance()
	right := p.parseRangeExpr()
	return mkBinary(pos, op, left, right)
}

func (p *Parser) tryComparisonOp() (ast.BinaryOp, bool) {
	tok := p.cursor.Current()
	switch tok.Type {
	case lexer.EQ:
		return ast.OpEq, true
	case lexer.NE:
		return ast.OpNe, true
	case lexer.LT:
		return ast.OpLt, true
	case lexer.LE:
		return ast.OpLe, true
	case lexer.GT:
		return ast.OpGt, true
	case lexer.GE:
		return ast.OpGe, true
	case lexer.SHL:
		return ast.OpNodeBefore, true
	case lexer.SHR:
		return ast.OpNodeAfter, true
	case lexer.NCNAME:
		switch tok.Literal {
		case "eq":
			return ast.OpValueEq, true
		case "ne":
			return ast.OpValueNe, true
		case "lt":
			return ast.OpValueLt, true
		case "le":
			return ast.OpValueLe, true
		case "gt":
			return ast.OpValueGt, true
		case "ge":
			return ast.OpValueGe, true
		case "is":
			return ast.OpIs, true
		}
	}
	return 0, false
}

func (p *Parser) parseRangeExpr() ast.Expr {
	low := p.parseAdditiveExpr()
	if !p.cursor.IsKeyword("to") {
		return low
	}
	pos := p.pos()
	p.cursor.Advance()
	high := p.parseAdditiveExpr()
	return &ast.RangeExpr{Low: low, High: high, Base: newBase(pos)}
}

func (p *Parser) parseAdditiveExpr() ast.Expr {
	left := p.parseMultiplicativeExpr()
	for p.cursor.Is(lexer.PLUS) || p.cursor.Is(lexer.MINUS) {
		pos := p.pos()
		op := ast.OpAdd
		if p.cursor.Is(lexer.MINUS) {
			op = ast.OpSub
		}
		p.cursor.Advance()
		right := p.parseMultiplicativeExpr()
		left = mkBinary(pos, op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicativeExpr() ast.Expr {
	left := p.parseUnionExpr()
	for {
		var op ast.BinaryOp
		matched := true
		switch {
		case p.cursor.Is(lexer.STAR):
			op = ast.OpMul
		case p.cursor.IsKeyword("div"):
			op = ast.OpDiv
		case p.cursor.IsKeyword("idiv"):
			op = ast.OpIDiv
		case p.cursor.IsKeyword("mod"):
			op = ast.OpMod
		default:
			matched = false
		}
		if !matched {
			return left
		}
		pos := p.pos()
		p.cursor.Advance()
		right := p.parseUnionExpr()
		left = mkBinary(pos, op, left, right)
	}
}

func (p *Parser) parseUnionExpr() ast.Expr {
	left := p.parseIntersectExceptExpr()
	for p.cursor.Is(lexer.PIPE) || p.cursor.IsKeyword("union") {
		pos := p.pos()
		p.cursor.Advance()
		right := p.parseIntersectExceptExpr()
		left = mkBinary(pos, ast.OpUnion, left, right)
	}
	return left
}

func (p *Parser) parseIntersectExceptExpr() ast.Expr {
	left := p.parseInstanceofExpr()
	for p.cursor.IsKeyword("intersect") || p.cursor.IsKeyword("except") {
		op := ast.OpIntersect
		if p.cursor.Current().Literal == "except" {
			op = ast.OpExcept
		}
		pos := p.pos()
		p.cursor.Advance()
		right := p.parseInstanceofExpr()
		left = mkBinary(pos, op, left, right)
	}
	return left
}

func (p *Parser) parseInstanceofExpr() ast.Expr {
	left := p.parseTreatExpr()
	if !p.cursor.IsKeyword("instance") {
		return left
	}
	pos := p.pos()
	p.cursor.Advance()
	p.expectKeyword("of")
	st := p.parseSequenceType()
	return &ast.InstanceOfExpr{Operand: left, Type: st, Base: newBase(pos)}
}

func (p *Parser) parseTreatExpr() ast.Expr {
	left := p.parseCastableExpr()
	if !p.cursor.IsKeyword("treat") {
		return left
	}
	pos := p.pos()
	p.cursor.Advance()
	p.expectKeyword("as")
	st := p.parseSequenceType()
	return &ast.TreatExpr{Operand: left, Type: st, Base: newBase(pos)}
}

func (p *Parser) parseCastableExpr() ast.Expr {
	left := p.parseCastExpr()
	if !p.cursor.IsKeyword("castable") {
		return left
	}
	pos := p.pos()
	p.cursor.Advance()
	p.expectKeyword("as")
	st := p.parseSingleType()
	return &ast.CastableExpr{Operand: left, Type: st, Base: newBase(pos)}
}

func (p *Parser) parseCastExpr() ast.Expr {
	left := p.parseUnaryExpr()
	if !p.cursor.IsKeyword("cast") {
		return left
	}
	pos := p.pos()
	p.cursor.Advance()
	p.expectKeyword("as")
	st := p.parseSingleType()
	return &ast.CastExpr{Operand: left, Type: st, Base: newBase(pos)}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	if p.cursor.Is(lexer.PLUS) || p.cursor.Is(lexer.MINUS) {
		pos := p.pos()
		op := ast.UnaryPlus
		if p.cursor.Is(lexer.MINUS) {
			op = ast.UnaryMinus
		}
		p.cursor.Advance()
		operand := p.parseUnaryExpr()
		return &ast.UnaryExpr{Op: op, Operand: operand, Base: newBase(pos)}
	}
	return p.parsePathExpr()
}

func mkBinary(pos lexer.Position, op ast.BinaryOp, l, r ast.Expr) ast.Expr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r, Base: newBase(pos)}
}
