// Package nodeapi defines the node-capability contract (spec §3.2): the
// sole point of polymorphism at evaluation time. Hosts adapt their own
// tree (DOM, accessibility tree, in-memory document) by implementing
// Node; the engine never assumes a concrete tree representation.
package nodeapi

import "github.com/platynui/xpath2/internal/xpatherr"

// Kind is one of the seven XDM node kinds.
type Kind byte

const (
	Document Kind = iota
	Element
	Attribute
	Text
	Comment
	ProcessingInstruction
	Namespace
)

func (k Kind) String() string {
	switch k {
	case Document:
		return "document-node"
	case Element:
		return "element"
	case Attribute:
		return "attribute"
	case Text:
		return "text"
	case Comment:
		return "comment"
	case ProcessingInstruction:
		return "processing-instruction"
	case Namespace:
		return "namespace"
	}
	return "unknown"
}

// ExpandedName is the canonical (namespace URI, local name) identity of
// any named construct after prefix resolution.
type ExpandedName struct {
	URI   string
	Local string
}

// Matches reports expanded-name equality: URI-equal and local-equal.
func (e ExpandedName) Matches(o ExpandedName) bool { return e.URI == o.URI && e.Local == o.Local }

// Node is the capability contract every concrete tree implements to
// become addressable by the engine. Adapters own all mutation and
// storage decisions; the engine only ever calls these read-only
// methods and never mutates a node.
type Node interface {
	Kind() Kind

	// Name returns the node's expanded name and whether one is present
	// (present for element/attribute/PI/namespace; absent otherwise).
	Name() (ExpandedName, bool)

	// StringValue returns the node's string value per XDM rules.
	// Adapters may memoize; the engine calls this freely.
	StringValue() string

	BaseURI() (string, bool)
	DocumentURI() (string, bool)

	Parent() (Node, bool)
	Children() []Node
	Attributes() []Node
	Namespaces() []Node

	// AttributeByName performs a direct lookup, bypassing a linear scan
	// of Attributes() where the adapter can do better.
	AttributeByName(name ExpandedName) (Node, bool)

	// CompareDocumentOrder returns -1/0/1 for self before/equal/after
	// other within the same tree. Adapters that support a cross-tree
	// global ordering may return a value for nodes of different roots;
	// adapters that do not must return the FOER0000 error.
	CompareDocumentOrder(other Node) (int, error)
}

// ErrDifferentRoots is the canonical error for comparing nodes of
// different trees when the adapter has no global ordering.
func ErrDifferentRoots() error {
	return xpatherr.New(xpatherr.FOER0000, "cannot compare document order of nodes from different trees")
}

// Identical reports node identity using the adapter's own equality,
// which for most adapters is simply Go `==` on a comparable handle type;
// nodeapi never assumes that and instead asks CompareDocumentOrder,
// which adapters implement to return 0 for identical nodes.
func Identical(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	cmp, err := a.CompareDocumentOrder(b)
	return err == nil && cmp == 0
}
