package parser

import (
	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/lexer"
)

// parseSequenceType implements SequenceType (grammar [48]-[50]): used by
// `instance of` and `treat as`.
func (p *Parser) parseSequenceType() ast.SequenceType {
	if p.cursor.Is(lexer.NCNAME) && p.cursor.Current().Literal == "empty-sequence" && p.cursor.Peek(1).Type == lexer.LPAREN {
		p.cursor.Advance()
		p.expect(lexer.LPAREN)
		p.expect(lexer.RPAREN)
		return ast.SequenceType{EmptySequence: true}
	}
	item := p.parseItemType()
	st := ast.SequenceType{Item: item}
	switch {
	case p.cursor.Is(lexer.QUESTION):
		p.cursor.Advance()
		st.Occurrence = ast.OccurZeroOrOne
	case p.cursor.Is(lexer.STAR):
		p.cursor.Advance()
		st.Occurrence = ast.OccurZeroOrMore
	case p.cursor.Is(lexer.PLUS):
		p.cursor.Advance()
		st.Occurrence = ast.OccurOneOrMore
	}
	return st
}

func (p *Parser) parseItemType() ast.ItemType {
	if p.cursor.Is(lexer.NCNAME) {
		lit := p.cursor.Current().Literal
		if lit == "item" && p.cursor.Peek(1).Type == lexer.LPAREN {
			p.cursor.Advance()
			p.expect(lexer.LPAREN)
			p.expect(lexer.RPAREN)
			return ast.ItemType{Kind: ast.ItemAnyItem}
		}
		if isKindTestName(lit) && p.cursor.Peek(1).Type == lexer.LPAREN {
			kt := p.parseKindTest()
			return ast.ItemType{Kind: ast.ItemKindTest, Test: kt}
		}
	}
	prefix, local := p.parseQNameTokens()
	return ast.ItemType{Kind: ast.ItemAtomicType, TypePrefix: prefix, TypeLocal: local}
}

// parseSingleType implements SingleType (grammar [51]): used by `cast as`
// and `castable as`.
func (p *Parser) parseSingleType() ast.SingleType {
	prefix, local := p.parseQNameTokens()
	st := ast.SingleType{Prefix: prefix, Local: local}
	if p.cursor.Is(lexer.QUESTION) {
		p.cursor.Advance()
		st.Optional = true
	}
	return st
}

func (p *Parser) parseQNameTokens() (prefix, local string) {
	name := p.expect(lexer.NCNAME).Literal
	if !p.cursor.Is(lexer.COLON) {
		return "", name
	}
	p.cursor.Advance()
	local2 := p.expect(lexer.NCNAME).Literal
	return name, local2
}
