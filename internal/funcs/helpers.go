package funcs

import (
	"github.com/spf13/cast"

	"github.com/platynui/xpath2/internal/collation"
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func argSeq(args []xdm.Sequence, i int) xdm.Sequence {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// contextSeq resolves the argument every zero-or-one-arg node/string
// function shares: use args[i] when the caller supplied it, otherwise
// fall back to the dynamic context's current item (err:FOER0000 if
// there is none).
func contextSeq(dc *dynctx.DynamicContext, args []xdm.Sequence, i int) (xdm.Sequence, error) {
	if i < len(args) {
		return args[i], nil
	}
	item, _, _, ok := dc.ContextItem()
	if !ok {
		return nil, xpatherr.New(xpatherr.FOER0000, "no context item for the implicit argument")
	}
	return xdm.NewSequence(item), nil
}

func singleAtomic(seq xdm.Sequence) (xdm.Atomic, bool, error) {
	switch len(seq) {
	case 0:
		return xdm.Atomic{}, false, nil
	case 1:
		return xdm.AtomizeItem(seq[0]), true, nil
	default:
		return xdm.Atomic{}, false, xpatherr.New(xpatherr.XPTY0004, "expected a single item, found a sequence of %d", len(seq))
	}
}

func singleNode(seq xdm.Sequence) (nodeapi.Node, bool, error) {
	switch len(seq) {
	case 0:
		return nil, false, nil
	case 1:
		item := seq[0]
		if !item.IsNode {
			return nil, false, xpatherr.New(xpatherr.XPTY0004, "expected a node, found an atomic value")
		}
		n, ok := item.Node.(nodeapi.Node)
		if !ok {
			return nil, false, xpatherr.New(xpatherr.FOER0000, "node item does not implement the node capability contract")
		}
		return n, true, nil
	default:
		return nil, false, xpatherr.New(xpatherr.XPTY0004, "expected a single node, found a sequence of %d", len(seq))
	}
}

// atomicString renders an atomic's string value: the stored string
// directly for the string family/anyURI/untypedAtomic kinds, the
// canonical lexical form for everything else.
func atomicString(a xdm.Atomic) string {
	if xdm.IsStringFamily(a.Kind) || a.Kind == xdm.KAnyURI || a.Kind == xdm.KUntypedAtomic {
		return a.Str()
	}
	return a.String()
}

// stringArg coerces an optional argument to a plain Go string: the empty
// sequence yields defaultVal, a present singleton renders via
// atomicString, per the string functions' common argument contract.
func stringArg(seq xdm.Sequence, defaultVal string) (string, error) {
	a, ok, err := singleAtomic(seq)
	if err != nil {
		return "", err
	}
	if !ok {
		return defaultVal, nil
	}
	return atomicString(a), nil
}

func toFloat(a xdm.Atomic) float64 {
	if a.IsNumeric() {
		return xdm.ToDouble(a)
	}
	return 0
}

// toIntTrunc truncates a numeric atomic toward zero, used where the
// function signature wants a plain integer count/position/index.
func toIntTrunc(a xdm.Atomic) int64 {
	if a.Kind == xdm.KInteger {
		return a.Integer()
	}
	n, err := cast.ToInt64E(toFloat(a))
	if err != nil {
		return 0
	}
	return n
}

func resultCollation(dc *dynctx.DynamicContext, seq xdm.Sequence) (collation.Collation, error) {
	uri, err := stringArg(seq, "")
	if err != nil {
		return nil, err
	}
	return dc.Collation(uri)
}

func boolResult(b bool) xdm.Sequence  { return xdm.NewSequence(xdm.NewBoolean(b)) }
func intResult(n int64) xdm.Sequence  { return xdm.NewSequence(xdm.NewInteger(n)) }
func strResult(s string) xdm.Sequence { return xdm.NewSequence(xdm.NewString(s)) }
