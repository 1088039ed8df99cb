// compiler_paths.go lowers PathExpr / StepExpr / FilterExpr into OpStep /
// OpApplyPredicate / OpRoot chains, resolving every NodeTest's QName
// prefixes against the static context the same way compileVarRef does.
package compiler

import (
	"github.com/platynui/xpath2/internal/ast"
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/xpatherr"
)

var axisByName = map[string]nodeapi.Axis{
	"child": nodeapi.Child, "descendant": nodeapi.Descendant,
	"descendant-or-self": nodeapi.DescendantOrSelf, "parent": nodeapi.Parent,
	"ancestor": nodeapi.Ancestor, "ancestor-or-self": nodeapi.AncestorOrSelf,
	"attribute": nodeapi.AttributeAxis, "namespace": nodeapi.NamespaceAxis,
	"following": nodeapi.Following, "preceding": nodeapi.Preceding,
	"following-sibling": nodeapi.FollowingSibling, "preceding-sibling": nodeapi.PrecedingSibling,
	"self": nodeapi.Self,
}

// pushContextItem pushes the singleton sequence holding the dynamic
// context's current context item, the same encoding compileExpr uses for
// a bare `.`.
func (c *Compiler) pushContextItem() {
	idx := c.cur.AddName(nodeapi.ExpandedName{})
	c.emit(ir.Instruction{Op: ir.OpLoadVar, A: idx, B: 1})
}

// compilePath lowers a PathExpr: an optional root (absolute path), an
// optional synthesized descendant-or-self::node() step (leading '//'),
// then its Steps chained left to right.
func (c *Compiler) compilePath(n *ast.PathExpr) error {
	haveInput := false
	if n.Absolute {
		c.pushContextItem()
		c.emit(ir.Instruction{Op: ir.OpRoot})
		haveInput = true
		if n.LeadingDD {
			if err := c.compileStep(descendantOrSelfNodeStep(n)); err != nil {
				return err
			}
		}
	}
	return c.compileStepChain(n.Steps, haveInput)
}

// compileStepChain compiles steps is called either directly (a lone
// StepExpr, not wrapped in a PathExpr) or from compilePath with haveInput
// already true when an absolute root/descendant-or-self prefix has been
// emitted.
func (c *Compiler) compileStepChain(steps []ast.Expr, haveInput bool) error {
	for i, step := range steps {
		se, isAxisStep := step.(*ast.StepExpr)
		if isAxisStep {
			if i == 0 && !haveInput {
				c.pushContextItem()
			}
			if err := c.compileStep(se); err != nil {
				return err
			}
			haveInput = true
			continue
		}

		// A non-axis step (FilterExpr, or a bare Primary the parser left
		// unwrapped) evaluates its Primary once against the ambient
		// context rather than once per item of the preceding step's
		// result; this engine does not implement the latter, vanishingly
		// rare form (a FilterExpr used as a non-initial path step). Any
		// sequence already on the stack from a preceding step is simply
		// discarded first so the stack stays balanced.
		if haveInput {
			c.emit(ir.Instruction{Op: ir.OpDrop})
		}
		if i == 0 && len(steps) > 1 {
			if isAtomicLiteral(step) {
				return xpatherr.NewAt(xpatherr.XPST0003, toPos(step), "context item for a subsequent step must be a node")
			}
		}
		if err := c.compileExpr(step); err != nil {
			return err
		}
		haveInput = true
	}
	return nil
}

func isAtomicLiteral(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntegerLiteral, *ast.DecimalLiteral, *ast.DoubleLiteral, *ast.StringLiteral:
		return true
	}
	return false
}

// descendantOrSelfNodeStep builds the synthetic step a leading '//'
// desugars to, mirroring the one parseRelativeSteps inserts for a mid-path
// '//'.
func descendantOrSelfNodeStep(n *ast.PathExpr) *ast.StepExpr {
	return &ast.StepExpr{
		Base: n.Base,
		Axis: "descendant-or-self",
		Test: ast.NodeTest{Kind: &ast.KindTest{Kind: ast.KTNode}},
	}
}

func (c *Compiler) compileStep(se *ast.StepExpr) error {
	axis, ok := axisByName[se.Axis]
	if !ok {
		return xpatherr.NewAt(xpatherr.XPST0003, toPos(se), "unknown axis %q", se.Axis)
	}
	test, err := c.resolveNodeTest(se.Test, axis)
	if err != nil {
		return err
	}
	preds := make([]*ir.Program, 0, len(se.Predicates))
	for _, pred := range se.Predicates {
		sub, err := c.compileSub(pred)
		if err != nil {
			return err
		}
		preds = append(preds, sub)
	}
	idx := c.cur.AddTest(ir.StepDescriptor{Axis: axis, Test: test, Predicates: preds})
	c.emit(ir.Instruction{Op: ir.OpStep, A: idx})
	return nil
}

// compileFilter lowers a FilterExpr (a PrimaryExpr plus zero or more
// predicates) evaluated against the ambient context.
func (c *Compiler) compileFilter(n *ast.FilterExpr) error {
	if err := c.compileExpr(n.Primary); err != nil {
		return err
	}
	for _, pred := range n.Predicates {
		sub, err := c.compileSub(pred)
		if err != nil {
			return err
		}
		idx := c.cur.AddPredicate(sub)
		c.emit(ir.Instruction{Op: ir.OpApplyPredicate, A: idx})
	}
	return nil
}

// resolveNodeTest expands every QName prefix in a NodeTest against the
// static context, mirroring compileVarRef's prefix resolution. The
// attribute axis never applies the default element namespace to an
// unprefixed name test, per the QName-resolution rule for name tests.
func (c *Compiler) resolveNodeTest(nt ast.NodeTest, axis nodeapi.Axis) (ir.NodeTestDescriptor, error) {
	if nt.IsKindTest {
		kt, err := c.resolveKindTest(nt.Kind)
		if err != nil {
			return ir.NodeTestDescriptor{}, err
		}
		return ir.NodeTestDescriptor{IsKindTest: true, Kind: *kt}, nil
	}
	name, err := c.resolveNameTest(nt.Name, axis)
	if err != nil {
		return ir.NodeTestDescriptor{}, err
	}
	return ir.NodeTestDescriptor{Name: name}, nil
}

func (c *Compiler) resolveNameTest(nt *ast.NameTest, axis nodeapi.Axis) (ir.NameTestDescriptor, error) {
	switch nt.Kind {
	case ast.NTWildcard:
		return ir.NameTestDescriptor{Kind: ir.NameTestWildcard}, nil
	case ast.NTLocalWildcard:
		return ir.NameTestDescriptor{Kind: ir.NameTestLocalWildcard, Name: nodeapi.ExpandedName{Local: nt.Local}}, nil
	case ast.NTNsWildcard:
		uri, ok := c.sc.ResolvePrefix(nt.Prefix)
		if !ok {
			return ir.NameTestDescriptor{}, xpatherr.New(xpatherr.XPST0003, "undefined namespace prefix %q", nt.Prefix)
		}
		return ir.NameTestDescriptor{Kind: ir.NameTestNsWildcard, Name: nodeapi.ExpandedName{URI: uri}}, nil
	default: // ast.NTQName
		uri, err := c.resolveElementOrAttributeName(nt.Prefix, axis)
		if err != nil {
			return ir.NameTestDescriptor{}, err
		}
		return ir.NameTestDescriptor{Kind: ir.NameTestQName, Name: nodeapi.ExpandedName{URI: uri, Local: nt.Local}}, nil
	}
}

// resolveElementOrAttributeName resolves a name test's prefix, falling
// back to the default element namespace only for unprefixed names on an
// element-producing axis (never for attribute/namespace axes).
func (c *Compiler) resolveElementOrAttributeName(prefix string, axis nodeapi.Axis) (string, error) {
	if prefix != "" {
		uri, ok := c.sc.ResolvePrefix(prefix)
		if !ok {
			return "", xpatherr.New(xpatherr.XPST0003, "undefined namespace prefix %q", prefix)
		}
		return uri, nil
	}
	if axis == nodeapi.AttributeAxis || axis == nodeapi.NamespaceAxis {
		return "", nil
	}
	return c.sc.DefaultElementNamespace(), nil
}

func (c *Compiler) resolveKindTest(kt *ast.KindTest) (*ir.KindTestDescriptor, error) {
	switch kt.Kind {
	case ast.KTSchemaElement, ast.KTSchemaAttribute:
		return nil, xpatherr.New(xpatherr.XPST0003, "schema-aware kind tests are not supported by this engine")
	}
	if kt.HasType {
		return nil, xpatherr.New(xpatherr.XPST0003, "typed element()/attribute() tests require schema awareness, which this engine does not support")
	}
	out := &ir.KindTestDescriptor{PITarget: kt.PITarget, HasPITarget: kt.HasPITarget}
	switch kt.Kind {
	case ast.KTNode:
		out.Kind = ir.KindTestNode
	case ast.KTText:
		out.Kind = ir.KindTestText
	case ast.KTComment:
		out.Kind = ir.KindTestComment
	case ast.KTProcessingInstruction:
		out.Kind = ir.KindTestProcessingInstruction
	case ast.KTDocumentNode:
		out.Kind = ir.KindTestDocumentNode
		if kt.Inner != nil {
			inner, err := c.resolveKindTest(kt.Inner)
			if err != nil {
				return nil, err
			}
			out.Inner = inner
		}
	case ast.KTElement, ast.KTAttribute:
		if kt.Kind == ast.KTElement {
			out.Kind = ir.KindTestElement
		} else {
			out.Kind = ir.KindTestAttribute
		}
		if kt.HasName {
			out.HasName = true
			if kt.NameIsWildcard {
				out.NameIsAny = true
			} else {
				axis := nodeapi.Child
				if kt.Kind == ast.KTAttribute {
					axis = nodeapi.AttributeAxis
				}
				uri, err := c.resolveElementOrAttributeName(kt.NamePrefix, axis)
				if err != nil {
					return nil, err
				}
				out.Name = nodeapi.ExpandedName{URI: uri, Local: kt.NameLocal}
			}
		}
	}
	return out, nil
}
