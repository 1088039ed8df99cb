package evaluator

import (
	"math"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// singletonAtomic atomizes seq, requiring zero or one items: ok is false
// for the empty sequence (meaning "propagate empty"), and a sequence of
// more than one item is rejected as err:XPTY0004, the cardinality-error
// code every operator expecting a single atomic operand shares.
func singletonAtomic(seq xdm.Sequence) (xdm.Atomic, bool, error) {
	switch len(seq) {
	case 0:
		return xdm.Atomic{}, false, nil
	case 1:
		return xdm.AtomizeItem(seq[0]), true, nil
	default:
		return xdm.Atomic{}, false, xpatherr.New(xpatherr.XPTY0004, "expected a single item, found a sequence of %d", len(seq))
	}
}

// singletonNode requires seq to hold exactly one node item, used by
// OpRoot and the node-comparison operators.
func singletonNode(seq xdm.Sequence) (nodeapi.Node, bool, error) {
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

// seqNodes converts a whole sequence to []nodeapi.Node, rejecting any
// atomic item as err:XPTY0004 — used by the set operators.
func seqNodes(seq xdm.Sequence) ([]nodeapi.Node, error) {
	out := make([]nodeapi.Node, 0, len(seq))
	for _, item := range seq {
		if !item.IsNode {
			return nil, xpatherr.New(xpatherr.XPTY0004, "set operator operand must contain only nodes")
		}
		n, ok := item.Node.(nodeapi.Node)
		if !ok {
			return nil, xpatherr.New(xpatherr.FOER0000, "node item does not implement the node capability contract")
		}
		out = append(out, n)
	}
	return out, nil
}

func nodesToSequence(nodes []nodeapi.Node) xdm.Sequence {
	out := make(xdm.Sequence, len(nodes))
	for i, n := range nodes {
		out[i] = xdm.NewNodeItem(n)
	}
	return out
}

// toInteger coerces a numeric atomic to int64, rounding fractional
// kinds, for operators (range-to, position arithmetic) that accept any
// numeric but are ultimately defined over xs:integer.
func toInteger(a xdm.Atomic) (int64, error) {
	switch a.Kind {
	case xdm.KInteger:
		return a.Integer(), nil
	case xdm.KDecimal, xdm.KFloat, xdm.KDouble:
		f := xdm.ToDouble(a)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, xpatherr.New(xpatherr.FOAR0002, "cannot convert %v to an integer", f)
		}
		return int64(math.Round(f)), nil
	}
	return 0, xpatherr.New(xpatherr.XPTY0004, "expected a numeric value")
}

// filterByPredicate runs pred once per item of seq, focused on that item
// at 1-based position i+1 out of size len(seq), keeping items the
// predicate accepts per predicateMatches. Shared by OpApplyPredicate
// (FilterExpr, whole-sequence scope) and OpStep (per-origin-item scope,
// called once per origin item's own axis candidate list).
func filterByPredicate(pred *ir.Program, seq xdm.Sequence, dc *dynctx.DynamicContext) (xdm.Sequence, error) {
	var out xdm.Sequence
	for i, item := range seq {
		focus := dc.WithNewFocus(item, i+1, len(seq))
		result, err := Eval(pred, focus)
		if err != nil {
			return nil, err
		}
		keep, err := predicateMatches(result, i+1)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, item)
		}
	}
	return out, nil
}

// predicateMatches implements the predicate truth-value rule (spec
// §4.2): a single numeric result selects by 1-based position; any other
// result is coerced through its effective boolean value.
func predicateMatches(result xdm.Sequence, position int) (bool, error) {
	if len(result) == 1 && !result[0].IsNode && result[0].Atomic.IsNumeric() {
		cmp, ok, err := xdm.NumericCompare(result[0].Atomic, xdm.NewInteger(int64(position)))
		if err != nil {
			return false, err
		}
		return ok && cmp == 0, nil
	}
	return xdm.EBV(result)
}
