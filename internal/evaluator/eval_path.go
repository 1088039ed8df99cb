// eval_path.go implements OpStep and OpRoot: axis traversal, node-test
// matching, and the per-origin-item predicate-then-combine evaluation
// that gives each predicate's position()/last() the correct scope
// (spec's proximity-position rule) before results from different origin
// context items are merged into one document-order sequence.
package evaluator

import (
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func (e *evalState) execRoot() error {
	seq, err := e.pop()
	if err != nil {
		return err
	}
	n, ok, err := singletonNode(seq)
	if err != nil {
		return err
	}
	if !ok {
		return xpatherr.New(xpatherr.FOER0000, "the root step requires a context node")
	}
	root := n
	for {
		parent, hasParent := root.Parent()
		if !hasParent {
			break
		}
		root = parent
	}
	e.push(xdm.NewSequence(xdm.NewNodeItem(root)))
	return nil
}

// execStep evaluates Tests[instr.A] against the context sequence on top
// of stack: for every origin item (which must be a node), it computes
// that axis's native-order candidate list, narrows it by the node test,
// then filters it through the step's own predicates in turn — each
// predicate's position()/last() scoped to that one origin item's
// surviving candidates, per spec. Survivors from every origin item are
// concatenated and sorted into one deduplicated document-order result,
// exactly once, at the end.
func (e *evalState) execStep(instr ir.Instruction) error {
	ctxSeq, err := e.pop()
	if err != nil {
		return err
	}
	test := e.prog.Tests[instr.A]
	var combined []nodeapi.Node
	for _, item := range ctxSeq {
		if !item.IsNode {
			return xpatherr.New(xpatherr.XPTY0004, "an axis step requires a node context item")
		}
		origin, ok := item.Node.(nodeapi.Node)
		if !ok {
			return xpatherr.New(xpatherr.FOER0000, "node item does not implement the node capability contract")
		}
		candidates, err := axisNodes(test.Axis, origin)
		if err != nil {
			return err
		}
		matched := make(xdm.Sequence, 0, len(candidates))
		for _, n := range candidates {
			if nodeMatchesTest(n, test.Axis, test.Test) {
				matched = append(matched, xdm.NewNodeItem(n))
			}
		}
		for _, predProg := range test.Predicates {
			matched, err = filterByPredicate(predProg, matched, e.dc)
			if err != nil {
				return err
			}
		}
		for _, it := range matched {
			combined = append(combined, it.Node.(nodeapi.Node))
		}
	}
	sorted, err := nodeapi.SortDocumentOrder(combined)
	if err != nil {
		return err
	}
	e.push(nodesToSequence(sorted))
	return nil
}

// axisNodes returns axis's candidate nodes from origin, in whatever
// native order is cheapest to produce — execStep re-sorts the combined
// result into document order afterward, so a per-axis order here is only
// an efficiency concern, except that per-origin-item predicate position
// scoping (spec's proximity position) is defined relative to this
// native order, which for a reverse axis is reverse document order, per
// spec §4.3.
func axisNodes(axis nodeapi.Axis, origin nodeapi.Node) ([]nodeapi.Node, error) {
	switch axis {
	case nodeapi.Child:
		return origin.Children(), nil
	case nodeapi.AttributeAxis:
		return origin.Attributes(), nil
	case nodeapi.NamespaceAxis:
		return origin.Namespaces(), nil
	case nodeapi.Self:
		return []nodeapi.Node{origin}, nil
	case nodeapi.Parent:
		if p, ok := origin.Parent(); ok {
			return []nodeapi.Node{p}, nil
		}
		return nil, nil
	case nodeapi.Descendant:
		return descendants(origin, false), nil
	case nodeapi.DescendantOrSelf:
		return descendants(origin, true), nil
	case nodeapi.Ancestor:
		return ancestors(origin, false), nil
	case nodeapi.AncestorOrSelf:
		return ancestors(origin, true), nil
	case nodeapi.FollowingSibling:
		return siblings(origin, true)
	case nodeapi.PrecedingSibling:
		return siblings(origin, false)
	case nodeapi.Following:
		return followingOrPreceding(origin, true)
	case nodeapi.Preceding:
		return followingOrPreceding(origin, false)
	}
	return nil, xpatherr.New(xpatherr.FOER0000, "unknown axis")
}

func descendants(n nodeapi.Node, includeSelf bool) []nodeapi.Node {
	var out []nodeapi.Node
	if includeSelf {
		out = append(out, n)
	}
	var walk func(nodeapi.Node)
	walk = func(cur nodeapi.Node) {
		for _, c := range cur.Children() {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// ancestors walks the Parent() chain, closest ancestor first, which is
// reverse document order — the order ancestor/ancestor-or-self report
// per spec §4.3.
func ancestors(n nodeapi.Node, includeSelf bool) []nodeapi.Node {
	var out []nodeapi.Node
	if includeSelf {
		out = append(out, n)
	}
	cur := n
	for {
		p, ok := cur.Parent()
		if !ok {
			break
		}
		out = append(out, p)
		cur = p
	}
	return out
}

func siblings(n nodeapi.Node, following bool) ([]nodeapi.Node, error) {
	parent, ok := n.Parent()
	if !ok {
		return nil, nil
	}
	children := parent.Children()
	idx := -1
	for i, c := range children {
		if nodeapi.Identical(c, n) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}
	if following {
		return children[idx+1:], nil
	}
	// preceding-sibling reports in reverse document order (closest first).
	out := make([]nodeapi.Node, idx)
	for i := 0; i < idx; i++ {
		out[i] = children[idx-1-i]
	}
	return out, nil
}

// followingOrPreceding computes the full preorder sequence of the
// origin's document and excludes origin's own subtree (and, for
// preceding, its ancestors too), using the "contiguous subtree range in
// preorder" property: every node's descendants occupy one contiguous
// run immediately after it in a preorder listing, so subtree membership
// is a single index-range test rather than a per-node ancestor walk.
func followingOrPreceding(origin nodeapi.Node, following bool) ([]nodeapi.Node, error) {
	root := origin
	for {
		p, ok := root.Parent()
		if !ok {
			break
		}
		root = p
	}
	preorder := append([]nodeapi.Node{root}, descendants(root, false)...)
	originIdx := -1
	for i, n := range preorder {
		if nodeapi.Identical(n, origin) {
			originIdx = i
			break
		}
	}
	if originIdx < 0 {
		return nil, nil
	}
	subtreeEnd := originIdx + 1
	for subtreeEnd < len(preorder) && isDescendantOf(preorder[subtreeEnd], origin) {
		subtreeEnd++
	}
	if following {
		return preorder[subtreeEnd:], nil
	}
	ancestorSet := ancestors(origin, false)
	var out []nodeapi.Node
	for i := originIdx - 1; i >= 0; i-- {
		n := preorder[i]
		isAncestor := false
		for _, a := range ancestorSet {
			if nodeapi.Identical(a, n) {
				isAncestor = true
				break
			}
		}
		if !isAncestor {
			out = append(out, n)
		}
	}
	return out, nil
}

func isDescendantOf(n, ancestor nodeapi.Node) bool {
	cur := n
	for {
		p, ok := cur.Parent()
		if !ok {
			return false
		}
		if nodeapi.Identical(p, ancestor) {
			return true
		}
		cur = p
	}
}

// principalKind returns the node kind a NameTest matches for a given
// axis, per spec §4.3: Attribute for the attribute axis, Namespace for
// the namespace axis, Element for every other axis.
func principalKind(axis nodeapi.Axis) nodeapi.Kind {
	switch axis {
	case nodeapi.AttributeAxis:
		return nodeapi.Attribute
	case nodeapi.NamespaceAxis:
		return nodeapi.Namespace
	}
	return nodeapi.Element
}

func nodeMatchesTest(n nodeapi.Node, axis nodeapi.Axis, test ir.NodeTestDescriptor) bool {
	if test.IsKindTest {
		return matchesKindTest(n, test.Kind)
	}
	if n.Kind() != principalKind(axis) {
		return false
	}
	name, hasName := n.Name()
	switch test.Name.Kind {
	case ir.NameTestWildcard:
		return true
	case ir.NameTestNsWildcard:
		return hasName && name.URI == test.Name.Name.URI
	case ir.NameTestLocalWildcard:
		return hasName && name.Local == test.Name.Name.Local
	default: // ir.NameTestQName
		return hasName && name.Matches(test.Name.Name)
	}
}

func matchesKindTest(n nodeapi.Node, kt ir.KindTestDescriptor) bool {
	switch kt.Kind {
	case ir.KindTestNode:
		return true
	case ir.KindTestText:
		return n.Kind() == nodeapi.Text
	case ir.KindTestComment:
		return n.Kind() == nodeapi.Comment
	case ir.KindTestProcessingInstruction:
		if n.Kind() != nodeapi.ProcessingInstruction {
			return false
		}
		if !kt.HasPITarget {
			return true
		}
		name, ok := n.Name()
		return ok && name.Local == kt.PITarget
	case ir.KindTestDocumentNode:
		if n.Kind() != nodeapi.Document {
			return false
		}
		if kt.Inner == nil {
			return true
		}
		for _, c := range n.Children() {
			if matchesKindTest(c, *kt.Inner) {
				return true
			}
		}
		return false
	case ir.KindTestElement:
		return matchesNamedKind(n, nodeapi.Element, kt)
	case ir.KindTestAttribute:
		return matchesNamedKind(n, nodeapi.Attribute, kt)
	}
	return false
}

func matchesNamedKind(n nodeapi.Node, kind nodeapi.Kind, kt ir.KindTestDescriptor) bool {
	if n.Kind() != kind {
		return false
	}
	if !kt.HasName || kt.NameIsAny {
		return true
	}
	name, ok := n.Name()
	return ok && name.Matches(kt.Name)
}
