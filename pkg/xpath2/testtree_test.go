package xpath2_test

import (
	"github.com/platynui/xpath2/internal/nodeapi"
)

// fakeNode is a minimal in-memory nodeapi.Node implementation used to
// exercise path/axis navigation from outside internal/evaluator, the
// same role the teacher's value.go plays for its own fixture tests: a
// small, hand-built tree rather than a real XML/DOM parser, since this
// engine has no document format of its own (spec §3.2 leaves tree
// construction entirely to the host).
type fakeNode struct {
	kind     nodeapi.Kind
	name     nodeapi.ExpandedName
	hasName  bool
	value    string
	parent   *fakeNode
	children []*fakeNode
	attrs    []*fakeNode
	order    int
	root     *fakeNode
}

func (n *fakeNode) Kind() nodeapi.Kind { return n.kind }

func (n *fakeNode) Name() (nodeapi.ExpandedName, bool) { return n.name, n.hasName }

func (n *fakeNode) StringValue() string {
	if n.kind == nodeapi.Element || n.kind == nodeapi.Document {
		if len(n.children) == 0 {
			return n.value
		}
		s := ""
		for _, c := range n.children {
			s += c.StringValue()
		}
		return s
	}
	return n.value
}

func (n *fakeNode) BaseURI() (string, bool)     { return "", false }
func (n *fakeNode) DocumentURI() (string, bool) { return "", false }

func (n *fakeNode) Parent() (nodeapi.Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *fakeNode) Children() []nodeapi.Node {
	out := make([]nodeapi.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *fakeNode) Attributes() []nodeapi.Node {
	out := make([]nodeapi.Node, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = a
	}
	return out
}

func (n *fakeNode) Namespaces() []nodeapi.Node { return nil }

func (n *fakeNode) AttributeByName(name nodeapi.ExpandedName) (nodeapi.Node, bool) {
	for _, a := range n.attrs {
		if a.name.Matches(name) {
			return a, true
		}
	}
	return nil, false
}

func (n *fakeNode) CompareDocumentOrder(other nodeapi.Node) (int, error) {
	o, ok := other.(*fakeNode)
	if !ok || o.root != n.root {
		return 0, nodeapi.ErrDifferentRoots()
	}
	switch {
	case n.order < o.order:
		return -1, nil
	case n.order > o.order:
		return 1, nil
	default:
		return 0, nil
	}
}

// treeBuilder assigns pre-order document-order numbers as nodes are
// attached, mirroring how a real adapter would number nodes once at
// parse time.
type treeBuilder struct {
	root    *fakeNode
	counter int
}

func newTree(local string) (*treeBuilder, *fakeNode) {
	tb := &treeBuilder{}
	root := &fakeNode{kind: nodeapi.Document}
	root.root = root
	tb.root = root
	tb.counter++
	el := tb.elem(root, "", local)
	return tb, el
}

func (tb *treeBuilder) elem(parent *fakeNode, uri, local string) *fakeNode {
	n := &fakeNode{
		kind:    nodeapi.Element,
		name:    nodeapi.ExpandedName{URI: uri, Local: local},
		hasName: true,
		parent:  parent,
		root:    tb.root,
		order:   tb.counter,
	}
	tb.counter++
	parent.children = append(parent.children, n)
	return n
}

func (tb *treeBuilder) text(parent *fakeNode, value string) *fakeNode {
	n := &fakeNode{kind: nodeapi.Text, value: value, parent: parent, root: tb.root, order: tb.counter}
	tb.counter++
	parent.children = append(parent.children, n)
	return n
}

func (tb *treeBuilder) attr(parent *fakeNode, local, value string) *fakeNode {
	n := &fakeNode{
		kind:    nodeapi.Attribute,
		name:    nodeapi.ExpandedName{Local: local},
		hasName: true,
		value:   value,
		parent:  parent,
		root:    tb.root,
	}
	parent.attrs = append(parent.attrs, n)
	return n
}
