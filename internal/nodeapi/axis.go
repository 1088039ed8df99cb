package nodeapi

// Axis identifies one of the thirteen XPath traversal directions.
type Axis byte

const (
	Child Axis = iota
	Descendant
	DescendantOrSelf
	Parent
	Ancestor
	AncestorOrSelf
	AttributeAxis
	NamespaceAxis
	Following
	Preceding
	FollowingSibling
	PrecedingSibling
	Self
)

// Reverse reports whether an axis is inherently a reverse-document-order
// axis (ancestor, ancestor-or-self, preceding, preceding-sibling); such
// axes report results in reverse document order per spec §4.3.
func (a Axis) Reverse() bool {
	switch a {
	case Ancestor, AncestorOrSelf, Preceding, PrecedingSibling:
		return true
	}
	return false
}

func (a Axis) String() string {
	switch a {
	case Child:
		return "child"
	case Descendant:
		return "descendant"
	case DescendantOrSelf:
		return "descendant-or-self"
	case Parent:
		return "parent"
	case Ancestor:
		return "ancestor"
	case AncestorOrSelf:
		return "ancestor-or-self"
	case AttributeAxis:
		return "attribute"
	case NamespaceAxis:
		return "namespace"
	case Following:
		return "following"
	case Preceding:
		return "preceding"
	case FollowingSibling:
		return "following-sibling"
	case PrecedingSibling:
		return "preceding-sibling"
	case Self:
		return "self"
	}
	return "unknown"
}
