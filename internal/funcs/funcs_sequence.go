package funcs

import (
	"math/big"

	"github.com/samber/lo"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func registerSequenceFuncs(b *Builder) {
	b.fn("empty", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return boolResult(len(args[0]) == 0), nil
	})
	b.fn("exists", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return boolResult(len(args[0]) != 0), nil
	})
	b.fn("count", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return intResult(int64(len(args[0]))), nil
	})
	b.fn("position", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		_, pos, _, ok := dc.ContextItem()
		if !ok {
			return nil, xpatherr.New(xpatherr.FOER0000, "fn:position() requires a context item")
		}
		return intResult(int64(pos)), nil
	})
	b.fn("last", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		_, _, size, ok := dc.ContextItem()
		if !ok {
			return nil, xpatherr.New(xpatherr.FOER0000, "fn:last() requires a context item")
		}
		return intResult(int64(size)), nil
	})
	b.fn("zero-or-one", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		if len(args[0]) > 1 {
			return nil, xpatherr.New(xpatherr.FORG0005, "fn:zero-or-one() called with a sequence of more than one item")
		}
		return args[0], nil
	})
	b.fn("one-or-more", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		if len(args[0]) == 0 {
			return nil, xpatherr.New(xpatherr.FORG0004, "fn:one-or-more() called with the empty sequence")
		}
		return args[0], nil
	})
	b.fn("exactly-one", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		if len(args[0]) != 1 {
			return nil, xpatherr.New(xpatherr.FORG0005, "fn:exactly-one() called with a sequence of %d items", len(args[0]))
		}
		return args[0], nil
	})
	b.fn("reverse", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return lo.Reverse(append(xdm.Sequence{}, args[0]...)), nil
	})
	b.fn("subsequence", 2, 3, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return subsequence(args)
	})
	b.fn("remove", 2, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		pos, _, err := singleAtomic(args[1])
		if err != nil {
			return nil, err
		}
		target := int(toIntTrunc(pos))
		seq := args[0]
		if target < 1 || target > len(seq) {
			return seq, nil
		}
		out := make(xdm.Sequence, 0, len(seq)-1)
		out = append(out, seq[:target-1]...)
		out = append(out, seq[target:]...)
		return out, nil
	})
	b.fn("insert-before", 3, 3, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		pos, _, err := singleAtomic(args[1])
		if err != nil {
			return nil, err
		}
		target := int(toIntTrunc(pos))
		seq, inserts := args[0], args[2]
		if target < 1 {
			target = 1
		}
		if target > len(seq)+1 {
			target = len(seq) + 1
		}
		out := make(xdm.Sequence, 0, len(seq)+len(inserts))
		out = append(out, seq[:target-1]...)
		out = append(out, inserts...)
		out = append(out, seq[target-1:]...)
		return out, nil
	})
	b.fn("distinct-values", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		coll, err := resultCollation(dc, argSeq(args, 1))
		if err != nil {
			return nil, err
		}
		var out xdm.Sequence
		for _, item := range args[0] {
			a := xdm.AtomizeItem(item)
			dup := false
			for _, seen := range out {
				if atomicValueEqual(a, xdm.AtomizeItem(seen), coll) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, xdm.NewAtomicItem(a))
			}
		}
		return out, nil
	})
	b.fn("index-of", 2, 3, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		coll, err := resultCollation(dc, argSeq(args, 2))
		if err != nil {
			return nil, err
		}
		search, ok, err := singleAtomic(args[1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		var out xdm.Sequence
		for i, item := range args[0] {
			if atomicValueEqual(xdm.AtomizeItem(item), search, coll) {
				out = append(out, xdm.NewAtomicItem(xdm.NewInteger(int64(i+1))))
			}
		}
		return out, nil
	})
	b.fn("deep-equal", 2, 3, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		coll, err := resultCollation(dc, argSeq(args, 2))
		if err != nil {
			return nil, err
		}
		return boolResult(deepEqual(args[0], args[1], coll)), nil
	})
	b.fn("sum", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return sumFunc(args)
	})
	b.fn("avg", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return avgFunc(args[0])
	})
	b.fn("min", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		coll, err := resultCollation(dc, argSeq(args, 1))
		if err != nil {
			return nil, err
		}
		return minMaxFunc(args[0], coll, true)
	})
	b.fn("max", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		coll, err := resultCollation(dc, argSeq(args, 1))
		if err != nil {
			return nil, err
		}
		return minMaxFunc(args[0], coll, false)
	})
}

func subsequence(args []xdm.Sequence) (xdm.Sequence, error) {
	seq := args[0]
	startA, _, err := singleAtomic(args[1])
	if err != nil {
		return nil, err
	}
	start := roundHalfUp(toFloat(startA))
	end := float64(len(seq)) + 1
	if len(args) == 3 {
		lenA, _, err := singleAtomic(args[2])
		if err != nil {
			return nil, err
		}
		end = start + roundHalfUp(toFloat(lenA))
	}
	lo := int(start)
	if lo < 1 {
		lo = 1
	}
	hi := int(end)
	if hi > len(seq)+1 {
		hi = len(seq) + 1
	}
	if lo >= hi {
		return nil, nil
	}
	return seq[lo-1 : hi-1], nil
}

// atomicValueEqual implements the collation-aware "same value" rule
// shared by distinct-values/index-of: numeric kinds compare via the
// promotion lattice, string-family/anyURI/untypedAtomic via the supplied
// collation, everything else via plain atomic equality.
func atomicValueEqual(a, b xdm.Atomic, coll interface {
	Equal(string, string) bool
}) bool {
	if a.IsNumeric() && b.IsNumeric() {
		eq, err := xdm.NumericEqual(a, b)
		return err == nil && eq
	}
	if isStringish(a.Kind) && isStringish(b.Kind) {
		return coll.Equal(atomicString(a), atomicString(b))
	}
	return xdm.AtomicEqual(a, b)
}

func isStringish(k xdm.AtomicKind) bool {
	return xdm.IsStringFamily(k) || k == xdm.KAnyURI || k == xdm.KUntypedAtomic
}

// deepEqual implements fn:deep-equal's sequence/node comparison: equal
// length, pairwise atomic value-equal (collation-aware) or, for a pair of
// nodes, equal string value as a structural stand-in (this engine has no
// schema-aware node comparison, so text-value equality stands in for
// it).
func deepEqual(a, b xdm.Sequence, coll interface {
	Equal(string, string) bool
}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ai, bi := a[i], b[i]
		if ai.IsNode != bi.IsNode {
			return false
		}
		if ai.IsNode {
			if ai.Node.StringValue() != bi.Node.StringValue() {
				return false
			}
			continue
		}
		if !atomicValueEqual(ai.Atomic, bi.Atomic, coll) {
			return false
		}
	}
	return true
}

func sumFunc(args []xdm.Sequence) (xdm.Sequence, error) {
	seq := args[0]
	if len(seq) == 0 {
		if len(args) == 2 {
			return args[1], nil
		}
		return intResult(0), nil
	}
	acc := xdm.AtomizeItem(seq[0])
	if !acc.IsNumeric() {
		return nil, xpatherr.New(xpatherr.XPTY0004, "fn:sum() operand is not numeric")
	}
	for _, item := range seq[1:] {
		a := xdm.AtomizeItem(item)
		if !a.IsNumeric() {
			return nil, xpatherr.New(xpatherr.XPTY0004, "fn:sum() operand is not numeric")
		}
		var err error
		acc, err = addNumeric(acc, a)
		if err != nil {
			return nil, err
		}
	}
	return xdm.NewSequence(acc), nil
}

func addNumeric(a, b xdm.Atomic) (xdm.Atomic, error) {
	pa, pb, k, err := xdm.PromotePair(a, b)
	if err != nil {
		return xdm.Atomic{}, err
	}
	switch k {
	case xdm.KInteger:
		return xdm.NewInteger(pa.Integer() + pb.Integer()), nil
	case xdm.KDecimal:
		return xdm.NewDecimal(new(big.Rat).Add(pa.Decimal(), pb.Decimal())), nil
	case xdm.KFloat:
		return xdm.NewFloat(pa.Float() + pb.Float()), nil
	default:
		return xdm.NewDouble(pa.Double() + pb.Double()), nil
	}
}

func avgFunc(seq xdm.Sequence) (xdm.Sequence, error) {
	if len(seq) == 0 {
		return nil, nil
	}
	sum, err := sumFunc([]xdm.Sequence{seq})
	if err != nil {
		return nil, err
	}
	total := sum[0].Atomic
	n := xdm.NewInteger(int64(len(seq)))
	pa, pb, k, err := xdm.PromotePair(total, n)
	if err != nil {
		return nil, err
	}
	switch k {
	case xdm.KInteger:
		return xdm.NewSequence(xdm.NewDecimal(new(big.Rat).SetFrac64(pa.Integer(), pb.Integer()))), nil
	case xdm.KDecimal:
		if pb.Decimal().Sign() == 0 {
			return nil, xpatherr.New(xpatherr.FOAR0001, "fn:avg() division by zero")
		}
		return xdm.NewSequence(xdm.NewDecimal(new(big.Rat).Quo(pa.Decimal(), pb.Decimal()))), nil
	case xdm.KFloat:
		return xdm.NewSequence(xdm.NewFloat(pa.Float() / pb.Float())), nil
	default:
		return xdm.NewSequence(xdm.NewDouble(pa.Double() / pb.Double())), nil
	}
}

func minMaxFunc(seq xdm.Sequence, coll interface {
	Compare(string, string) int
}, wantMin bool) (xdm.Sequence, error) {
	if len(seq) == 0 {
		return nil, nil
	}
	best := xdm.AtomizeItem(seq[0])
	for _, item := range seq[1:] {
		a := xdm.AtomizeItem(item)
		less, err := lessThan(a, best, coll)
		if err != nil {
			return nil, err
		}
		if less == wantMin {
			best = a
		}
	}
	return xdm.NewSequence(best), nil
}

func lessThan(a, b xdm.Atomic, coll interface {
	Compare(string, string) int
}) (bool, error) {
	if a.IsNumeric() && b.IsNumeric() {
		cmp, ok, err := xdm.NumericCompare(a, b)
		if err != nil {
			return false, err
		}
		return ok && cmp < 0, nil
	}
	if isStringish(a.Kind) && isStringish(b.Kind) {
		return coll.Compare(atomicString(a), atomicString(b)) < 0, nil
	}
	return false, xpatherr.New(xpatherr.XPTY0004, "fn:min()/fn:max() operands are not comparable")
}
