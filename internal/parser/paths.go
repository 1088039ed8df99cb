package parser

import (
	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/lexer"
	"github.com/platynui/xpath2/internal/xpatherr"
)

var forwardAxes = map[string]bool{
	"child": true, "descendant": true, "attribute": true, "self": true,
	"descendant-or-self": true, "following-sibling": true, "following": true,
	"namespace": true,
}

var reverseAxes = map[string]bool{
	"parent": true, "ancestor": true, "preceding-sibling": true,
	"preceding": true, "ancestor-or-self": true,
}

// parsePathExpr implements PathExpr / RelativePathExpr (XPath 2.0 grammar
// [25]-[26]), adapted from the teacher's statement-sequence parser: a
// leading separator sets Absolute/LeadingDD, then StepExprs are collected
// greedily while '/' or '//' separates them.
func (p *Parser) parsePathExpr() ast.Expr {
	pos := p.pos()

	if p.cursor.Is(lexer.SLASH) {
		p.cursor.Advance()
		if p.startsRelativePathExpr() {
			steps := p.parseRelativeSteps()
			return &ast.PathExpr{Base: newBase(pos), Absolute: true, Steps: steps}
		}
		return &ast.PathExpr{Base: newBase(pos), Absolute: true}
	}
	if p.cursor.Is(lexer.SLASHSLASH) {
		p.cursor.Advance()
		steps := p.parseRelativeSteps()
		return &ast.PathExpr{Base: newBase(pos), Absolute: true, LeadingDD: true, Steps: steps}
	}

	steps := p.parseRelativeSteps()
	if len(steps) == 1 {
		if fe, ok := steps[0].(*ast.FilterExpr); ok && len(fe.Predicates) == 0 {
			return fe.Primary
		}
		return steps[0]
	}
	return &ast.PathExpr{Base: newBase(pos), Steps: steps}
}

// startsRelativePathExpr reports whether the token at the cursor can
// begin a RelativePathExpr, used only to tell a bare "/" from "/" followed
// by more steps.
func (p *Parser) startsRelativePathExpr() bool {
	switch p.cursor.Current().Type {
	case lexer.EOF, lexer.RPAREN, lexer.RBRACKET, lexer.COMMA:
		return false
	}
	return true
}

func (p *Parser) parseRelativeSteps() []ast.Expr {
	steps := []ast.Expr{p.parseStepExpr()}
	for {
		if p.cursor.Is(lexer.SLASHSLASH) {
			p.cursor.Advance()
			dd := &ast.StepExpr{Base: newBase(p.pos()), Axis: "descendant-or-self", Test: ast.NodeTest{Kind: &ast.KindTest{Kind: ast.KTNode}}}
			steps = append(steps, dd)
			steps = append(steps, p.parseStepExpr())
			continue
		}
		if p.cursor.Is(lexer.SLASH) {
			p.cursor.Advance()
			steps = append(steps, p.parseStepExpr())
			continue
		}
		break
	}
	return steps
}

// parseStepExpr parses an AxisStep or falls back to FilterExpr (a
// PrimaryExpr with zero or more predicates), per grammar [33]-[39].
func (p *Parser) parseStepExpr() ast.Expr {
	if p.cursor.Is(lexer.DOTDOT) {
		pos := p.pos()
		p.cursor.Advance()
		return &ast.StepExpr{Base: newBase(pos), Axis: "parent", Abbrev: 'P',
			Test: ast.NodeTest{Kind: &ast.KindTest{Kind: ast.KTNode}}, Predicates: p.parsePredicateList()}
	}
	if p.cursor.Is(lexer.AT) {
		pos := p.pos()
		p.cursor.Advance()
		test := p.parseNodeTest()
		return &ast.StepExpr{Base: newBase(pos), Axis: "attribute", Abbrev: '@', Test: test, Predicates: p.parsePredicateList()}
	}
	if p.cursor.Is(lexer.NCNAME) && p.cursor.Peek(1).Type == lexer.DCOLON {
		axis := p.cursor.Current().Literal
		pos := p.pos()
		if !forwardAxes[axis] && !reverseAxes[axis] {
			p.fail(xpatherr.XPST0003, "unknown axis %q", axis)
		}
		p.cursor.Advance()
		p.cursor.Advance()
		test := p.parseNodeTest()
		return &ast.StepExpr{Base: newBase(pos), Axis: axis, Test: test, Predicates: p.parsePredicateList()}
	}
	if p.startsNodeTest() {
		pos := p.pos()
		test := p.parseNodeTest()
		return &ast.StepExpr{Base: newBase(pos), Axis: "child", Test: test, Predicates: p.parsePredicateList()}
	}
	return p.parseFilterExpr()
}

// startsNodeTest decides whether the token at the cursor can begin an
// abbreviated forward step's NodeTest, i.e. a bare NameTest/KindTest
// rather than a PrimaryExpr. This is the NCNAME ambiguity the grammar
// resolves by lookahead: `foo(` is a FunctionCall (PrimaryExpr), `foo` or
// `foo:bar` or `*` or `ns:*` alone is a NameTest, and the reserved kind
// test names followed by '(' are KindTests.
func (p *Parser) startsNodeTest() bool {
	switch p.cursor.Current().Type {
	case lexer.STAR:
		return true
	case lexer.NCNAME:
		lit := p.cursor.Current().Literal
		if lexer.IsReservedFunctionName(lit) && p.cursor.Peek(1).Type == lexer.LPAREN {
			return true
		}
		if p.cursor.Peek(1).Type == lexer.LPAREN {
			return false // FunctionCall, handled by FilterExpr/PrimaryExpr
		}
		return true
	}
	return false
}

func (p *Parser) parsePredicateList() []ast.Expr {
	var preds []ast.Expr
	for p.cursor.Is(lexer.LBRACKET) {
		p.cursor.Advance()
		preds = append(preds, p.parseExpr())
		p.expect(lexer.RBRACKET)
	}
	return preds
}

func (p *Parser) parseFilterExpr() ast.Expr {
	pos := p.pos()
	primary := p.parsePrimaryExpr()
	preds := p.parsePredicateList()
	if len(preds) == 0 {
		return primary
	}
	return &ast.FilterExpr{Base: newBase(pos), Primary: primary, Predicates: preds}
}

// ---- NodeTest ----

func (p *Parser) parseNodeTest() ast.NodeTest {
	if p.cursor.Is(lexer.NCNAME) && isKindTestName(p.cursor.Current().Literal) && p.cursor.Peek(1).Type == lexer.LPAREN {
		return ast.NodeTest{IsKindTest: true, Kind: p.parseKindTest()}
	}
	return ast.NodeTest{Name: p.parseNameTest()}
}

func isKindTestName(name string) bool {
	switch name {
	case "node", "text", "comment", "processing-instruction", "document-node",
		"element", "attribute", "schema-element", "schema-attribute":
		return true
	}
	return false
}

func (p *Parser) parseNameTest() *ast.NameTest {
	if p.cursor.Is(lexer.STAR) {
		p.cursor.Advance()
		if p.cursor.Is(lexer.COLON) {
			p.cursor.Advance()
			local := p.expect(lexer.NCNAME).Literal
			return &ast.NameTest{Kind: ast.NTLocalWildcard, Local: local}
		}
		return &ast.NameTest{Kind: ast.NTWildcard}
	}
	name := p.expect(lexer.NCNAME).Literal
	if !p.cursor.Is(lexer.COLON) {
		return &ast.NameTest{Kind: ast.NTQName, Local: name}
	}
	p.cursor.Advance()
	if p.cursor.Is(lexer.STAR) {
		p.cursor.Advance()
		return &ast.NameTest{Kind: ast.NTNsWildcard, Prefix: name}
	}
	local := p.expect(lexer.NCNAME).Literal
	return &ast.NameTest{Kind: ast.NTQName, Prefix: name, Local: local}
}

// ---- KindTest ----

func (p *Parser) parseKindTest() *ast.KindTest {
	name := p.expect(lexer.NCNAME).Literal
	p.expect(lexer.LPAREN)
	var kt *ast.KindTest
	switch name {
	case "node":
		kt = &ast.KindTest{Kind: ast.KTNode}
	case "text":
		kt = &ast.KindTest{Kind: ast.KTText}
	case "comment":
		kt = &ast.KindTest{Kind: ast.KTComment}
	case "processing-instruction":
		kt = &ast.KindTest{Kind: ast.KTProcessingInstruction}
		if p.cursor.Is(lexer.NCNAME) {
			kt.PITarget = p.cursor.Current().Literal
			kt.HasPITarget = true
			p.cursor.Advance()
		} else if p.cursor.Is(lexer.STRING) {
			kt.PITarget = p.cursor.Current().Literal
			kt.HasPITarget = true
			p.cursor.Advance()
		}
	case "document-node":
		kt = &ast.KindTest{Kind: ast.KTDocumentNode}
		if !p.cursor.Is(lexer.RPAREN) {
			inner := p.parseKindTest()
			if inner.Kind != ast.KTElement && inner.Kind != ast.KTSchemaElement {
				p.fail(xpatherr.XPST0003, "document-node() accepts only an element() or schema-element() test")
			}
			kt.Inner = inner
			p.expect(lexer.RPAREN)
			return kt
		}
	case "element":
		kt = p.parseElementOrAttributeTest(ast.KTElement)
		p.expect(lexer.RPAREN)
		return kt
	case "attribute":
		kt = p.parseElementOrAttributeTest(ast.KTAttribute)
		p.expect(lexer.RPAREN)
		return kt
	case "schema-element", "schema-attribute":
		p.fail(xpatherr.XPST0003, "schema-aware kind tests are not supported by this engine")
		return nil
	default:
		p.fail(xpatherr.XPST0003, "unknown kind test %q", name)
		return nil
	}
	p.expect(lexer.RPAREN)
	return kt
}

func (p *Parser) parseElementOrAttributeTest(kind ast.KindTestKind) *ast.KindTest {
	kt := &ast.KindTest{Kind: kind}
	if p.cursor.Is(lexer.RPAREN) {
		return kt
	}
	if p.cursor.Is(lexer.STAR) {
		p.cursor.Advance()
		kt.HasName = true
		kt.NameIsWildcard = true
	} else {
		name := p.expect(lexer.NCNAME).Literal
		kt.HasName = true
		if p.cursor.Is(lexer.COLON) {
			p.cursor.Advance()
			kt.NamePrefix = name
			kt.NameLocal = p.expect(lexer.NCNAME).Literal
		} else {
			kt.NameLocal = name
		}
	}
	if p.cursor.Is(lexer.COMMA) {
		p.cursor.Advance()
		typeName := p.expect(lexer.NCNAME).Literal
		kt.HasType = true
		if p.cursor.Is(lexer.COLON) {
			p.cursor.Advance()
			kt.TypePrefix = typeName
			kt.TypeLocal = p.expect(lexer.NCNAME).Literal
		} else {
			kt.TypeLocal = typeName
		}
		if p.cursor.Is(lexer.QUESTION) {
			p.cursor.Advance()
			kt.Nillable = true
		}
	}
	return kt
}
