package xdm

// Node is the minimal surface xdm needs from a node item. The full
// capability contract lives in internal/nodeapi; xdm only needs to box a
// node inside an Item and read its string value, so it declares this
// one-method interface instead of importing nodeapi.
type Node interface {
	StringValue() string
}

// Item is a single XDM item: either an atomic value or a node. Exactly
// one of the two is populated, discriminated by IsNode.
type Item struct {
	IsNode bool
	Atomic Atomic
	Node   Node
}

// NewAtomicItem boxes an atomic value as an Item.
func NewAtomicItem(a Atomic) Item { return Item{Atomic: a} }

// NewNodeItem boxes a node as an Item.
func NewNodeItem(n Node) Item { return Item{IsNode: true, Node: n} }

// Sequence is an ordered, finite, flat list of items. There is no nested
// Sequence type: NewSequence flattens any sequence-shaped input so the
// invariant holds by construction.
type Sequence []Item

// NewSequence flattens parts (items or sequences) into one flat
// Sequence, preserving order.
func NewSequence(parts ...any) Sequence {
	var out Sequence
	for _, p := range parts {
		switch v := p.(type) {
		case Sequence:
			out = append(out, v...)
		case Item:
			out = append(out, v)
		case Atomic:
			out = append(out, NewAtomicItem(v))
		case nil:
			// empty sequence contributes nothing
		default:
			if n, ok := p.(Node); ok {
				out = append(out, NewNodeItem(n))
			}
		}
	}
	return out
}

// Concat concatenates sequences, used by the compiler's MakeSeq opcode.
func Concat(seqs ...Sequence) Sequence {
	var out Sequence
	for _, s := range seqs {
		out = append(out, s...)
	}
	return out
}

// Single returns the sequence's sole item when it has exactly one item.
func (s Sequence) Single() (Item, bool) {
	if len(s) == 1 {
		return s[0], true
	}
	return Item{}, false
}
