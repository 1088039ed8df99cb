package funcs

import (
	"math"
	"math/big"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
)

func registerNumericFuncs(b *Builder) {
	b.fn("abs", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		a, ok, err := singleAtomic(args[0])
		if err != nil || !ok {
			return nil, err
		}
		return xdm.NewSequence(absAtomic(a)), nil
	})
	b.fn("ceiling", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return roundingFunc(args[0], math.Ceil)
	})
	b.fn("floor", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return roundingFunc(args[0], math.Floor)
	})
	b.fn("round", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		prec := int64(0)
		if len(args) == 2 {
			p, ok, err := singleAtomic(args[1])
			if err != nil {
				return nil, err
			}
			if ok {
				prec = toIntTrunc(p)
			}
		}
		return roundingFuncPrec(args[0], prec, roundHalfUp)
	})
	b.fn("round-half-to-even", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		prec := int64(0)
		if len(args) == 2 {
			p, ok, err := singleAtomic(args[1])
			if err != nil {
				return nil, err
			}
			if ok {
				prec = toIntTrunc(p)
			}
		}
		return roundingFuncPrec(args[0], prec, roundHalfEven)
	})
	b.fn("number", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		seq, err := contextSeq(dc, args, 0)
		if err != nil {
			return nil, err
		}
		a, ok, err := singleAtomic(seq)
		if err != nil || !ok {
			return xdm.NewSequence(xdm.NewDouble(math.NaN())), nil
		}
		if a.IsNumeric() {
			return xdm.NewSequence(xdm.NewDouble(xdm.ToDouble(a))), nil
		}
		parsed, perr := xdm.ParseAtomic(xdm.KDouble, atomicString(a))
		if perr != nil {
			return xdm.NewSequence(xdm.NewDouble(math.NaN())), nil
		}
		return xdm.NewSequence(parsed), nil
	})
}

func absAtomic(a xdm.Atomic) xdm.Atomic {
	switch a.Kind {
	case xdm.KInteger:
		v := a.Integer()
		if v < 0 {
			v = -v
		}
		return xdm.NewInteger(v)
	case xdm.KDecimal:
		return xdm.NewDecimal(new(big.Rat).Abs(a.Decimal()))
	case xdm.KFloat:
		return xdm.NewFloat(float32(math.Abs(float64(a.Float()))))
	default:
		return xdm.NewDouble(math.Abs(a.Double()))
	}
}

func roundingFunc(seq xdm.Sequence, f func(float64) float64) (xdm.Sequence, error) {
	a, ok, err := singleAtomic(seq)
	if err != nil || !ok {
		return nil, err
	}
	return xdm.NewSequence(applyRounding(a, f)), nil
}

func applyRounding(a xdm.Atomic, f func(float64) float64) xdm.Atomic {
	switch a.Kind {
	case xdm.KInteger:
		return a
	case xdm.KDecimal:
		r := a.Decimal()
		fl, _ := r.Float64()
		rounded := f(fl)
		return xdm.NewDecimal(new(big.Rat).SetFloat64(rounded))
	case xdm.KFloat:
		return xdm.NewFloat(float32(f(float64(a.Float()))))
	default:
		return xdm.NewDouble(f(a.Double()))
	}
}

func roundingFuncPrec(seq xdm.Sequence, prec int64, f func(float64) float64) (xdm.Sequence, error) {
	a, ok, err := singleAtomic(seq)
	if err != nil || !ok {
		return nil, err
	}
	if prec == 0 {
		return xdm.NewSequence(applyRounding(a, f)), nil
	}
	scale := math.Pow(10, float64(prec))
	scaled := func(v float64) float64 { return f(v*scale) / scale }
	return xdm.NewSequence(applyRounding(a, scaled)), nil
}

// roundHalfUp rounds .5 toward positive infinity, the rule fn:round uses,
// as opposed to math.Round's round-half-away-from-zero.
func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}

// roundHalfEven implements fn:round-half-to-even's banker's rounding: ties
// round to the nearest even integer.
func roundHalfEven(f float64) float64 {
	floor := math.Floor(f)
	diff := f - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	default:
		if math.Mod(floor, 2) == 0 {
			return floor
		}
		return floor + 1
	}
}
