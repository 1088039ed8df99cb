package evaluator

import (
	"math"
	"math/big"

	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// execArith handles the six binary numeric operators. Operands were
// pushed left-then-right, so the right operand is popped first. Either
// operand being the empty sequence makes the whole expression's result
// the empty sequence, per spec §4.2's arithmetic-operator table.
func (e *evalState) execArith(op ir.OpCode) error {
	rightSeq, err := e.pop()
	if err != nil {
		return err
	}
	leftSeq, err := e.pop()
	if err != nil {
		return err
	}
	left, leftOK, err := singletonAtomic(leftSeq)
	if err != nil {
		return err
	}
	right, rightOK, err := singletonAtomic(rightSeq)
	if err != nil {
		return err
	}
	if !leftOK || !rightOK {
		e.push(nil)
		return nil
	}
	result, err := arithOp(op, left, right)
	if err != nil {
		return err
	}
	e.push(xdm.NewSequence(result))
	return nil
}

func arithOp(op ir.OpCode, left, right xdm.Atomic) (xdm.Atomic, error) {
	switch op {
	case ir.OpIDiv, ir.OpMod:
		return integerDivOp(op, left, right)
	}
	pa, pb, k, err := xdm.PromotePair(left, right)
	if err != nil {
		return xdm.Atomic{}, err
	}
	switch k {
	case xdm.KInteger:
		return integerArith(op, pa.Integer(), pb.Integer())
	case xdm.KDecimal:
		return decimalArith(op, pa.Decimal(), pb.Decimal())
	case xdm.KFloat:
		f, err := floatArith(op, float64(pa.Float()), float64(pb.Float()))
		if err != nil {
			return xdm.Atomic{}, err
		}
		return xdm.NewFloat(float32(f)), nil
	case xdm.KDouble:
		f, err := floatArith(op, pa.Double(), pb.Double())
		if err != nil {
			return xdm.Atomic{}, err
		}
		return xdm.NewDouble(f), nil
	}
	return xdm.Atomic{}, xpatherr.New(xpatherr.XPTY0004, "arithmetic operand is not numeric")
}

// integerArith computes +/-/* on two xs:integer operands, promoting the
// result to xs:decimal when it overflows the int64 range rather than
// wrapping, per the integer-overflow-promotes-to-decimal rule.
func integerArith(op ir.OpCode, a, b int64) (xdm.Atomic, error) {
	switch op {
	case ir.OpAdd:
		return intOrPromote(new(big.Int).Add(big.NewInt(a), big.NewInt(b)))
	case ir.OpSub:
		return intOrPromote(new(big.Int).Sub(big.NewInt(a), big.NewInt(b)))
	case ir.OpMul:
		return intOrPromote(new(big.Int).Mul(big.NewInt(a), big.NewInt(b)))
	case ir.OpDiv:
		if b == 0 {
			return xdm.Atomic{}, xpatherr.New(xpatherr.FOAR0001, "integer division by zero")
		}
		return xdm.NewDecimal(new(big.Rat).SetFrac(big.NewInt(a), big.NewInt(b))), nil
	}
	return xdm.Atomic{}, xpatherr.New(xpatherr.FOER0000, "unreachable arithmetic operator")
}

// intOrPromote returns r as an xs:integer when it fits int64, otherwise
// as the exact xs:decimal value of r.
func intOrPromote(r *big.Int) (xdm.Atomic, error) {
	if r.IsInt64() {
		return xdm.NewInteger(r.Int64()), nil
	}
	return xdm.NewDecimal(new(big.Rat).SetInt(r)), nil
}

func decimalArith(op ir.OpCode, a, b *big.Rat) (xdm.Atomic, error) {
	switch op {
	case ir.OpAdd:
		return xdm.NewDecimal(new(big.Rat).Add(a, b)), nil
	case ir.OpSub:
		return xdm.NewDecimal(new(big.Rat).Sub(a, b)), nil
	case ir.OpMul:
		return xdm.NewDecimal(new(big.Rat).Mul(a, b)), nil
	case ir.OpDiv:
		if b.Sign() == 0 {
			return xdm.Atomic{}, xpatherr.New(xpatherr.FOAR0001, "decimal division by zero")
		}
		return xdm.NewDecimal(new(big.Rat).Quo(a, b)), nil
	}
	return xdm.Atomic{}, xpatherr.New(xpatherr.FOER0000, "unreachable arithmetic operator")
}

func floatArith(op ir.OpCode, a, b float64) (float64, error) {
	switch op {
	case ir.OpAdd:
		return a + b, nil
	case ir.OpSub:
		return a - b, nil
	case ir.OpMul:
		return a * b, nil
	case ir.OpDiv:
		return a / b, nil
	}
	return 0, xpatherr.New(xpatherr.FOER0000, "unreachable arithmetic operator")
}

// integerDivOp implements `idiv` (always an xs:integer result, truncated
// toward zero) and `mod` (a result in the operands' promoted type,
// defined so that `a = (a idiv b)*b + (a mod b)` holds).
func integerDivOp(op ir.OpCode, left, right xdm.Atomic) (xdm.Atomic, error) {
	pa, pb, k, err := xdm.PromotePair(left, right)
	if err != nil {
		return xdm.Atomic{}, err
	}
	switch k {
	case xdm.KInteger:
		a, b := pa.Integer(), pb.Integer()
		if b == 0 {
			return xdm.Atomic{}, xpatherr.New(xpatherr.FOAR0001, "integer division by zero")
		}
		if op == ir.OpIDiv {
			// a/b itself always fits int64 except this one corner (the
			// only int64/int64 quotient whose magnitude exceeds MaxInt64).
			if a == math.MinInt64 && b == -1 {
				return xdm.Atomic{}, xpatherr.New(xpatherr.FOAR0002, "idiv result overflows xs:integer")
			}
			return xdm.NewInteger(a / b), nil
		}
		return xdm.NewInteger(a % b), nil
	case xdm.KDecimal:
		a, b := pa.Decimal(), pb.Decimal()
		if b.Sign() == 0 {
			return xdm.Atomic{}, xpatherr.New(xpatherr.FOAR0001, "decimal division by zero")
		}
		qBig := truncRatToBigInt(new(big.Rat).Quo(a, b))
		if op == ir.OpIDiv {
			if !qBig.IsInt64() {
				return xdm.Atomic{}, xpatherr.New(xpatherr.FOAR0002, "idiv result overflows xs:integer")
			}
			return xdm.NewInteger(qBig.Int64()), nil
		}
		prod := new(big.Rat).Mul(new(big.Rat).SetInt(qBig), b)
		return xdm.NewDecimal(new(big.Rat).Sub(a, prod)), nil
	default: // KFloat, KDouble
		af, bf := xdm.ToDouble(pa), xdm.ToDouble(pb)
		if math.IsNaN(af) || math.IsNaN(bf) || math.IsInf(af, 0) {
			return xdm.Atomic{}, xpatherr.New(xpatherr.FOAR0002, "operand is NaN or infinite")
		}
		if bf == 0 {
			return xdm.Atomic{}, xpatherr.New(xpatherr.FOAR0001, "division by zero")
		}
		if op == ir.OpIDiv {
			return xdm.NewInteger(int64(math.Trunc(af / bf))), nil
		}
		m := math.Mod(af, bf)
		if k == xdm.KFloat {
			return xdm.NewFloat(float32(m)), nil
		}
		return xdm.NewDouble(m), nil
	}
}

// truncRatToBigInt returns r's integer part truncated toward zero,
// without forcing it into an int64 (the quotient may not fit one).
func truncRatToBigInt(r *big.Rat) *big.Int {
	return new(big.Int).Quo(r.Num(), r.Denom())
}

func (e *evalState) execUnary(op ir.OpCode) error {
	seq, err := e.pop()
	if err != nil {
		return err
	}
	a, ok, err := singletonAtomic(seq)
	if err != nil {
		return err
	}
	if !ok {
		e.push(nil)
		return nil
	}
	if !a.IsNumeric() {
		return xpatherr.New(xpatherr.XPTY0004, "unary +/- operand is not numeric")
	}
	if op == ir.OpUnaryPlus {
		e.push(xdm.NewSequence(a))
		return nil
	}
	neg, err := negate(a)
	if err != nil {
		return err
	}
	e.push(xdm.NewSequence(neg))
	return nil
}

func negate(a xdm.Atomic) (xdm.Atomic, error) {
	switch a.Kind {
	case xdm.KInteger:
		return xdm.NewInteger(-a.Integer()), nil
	case xdm.KDecimal:
		return xdm.NewDecimal(new(big.Rat).Neg(a.Decimal())), nil
	case xdm.KFloat:
		return xdm.NewFloat(-a.Float()), nil
	case xdm.KDouble:
		return xdm.NewDouble(-a.Double()), nil
	}
	return xdm.Atomic{}, xpatherr.New(xpatherr.XPTY0004, "unary minus operand is not numeric")
}

func (e *evalState) execRangeTo() error {
	hiSeq, err := e.pop()
	if err != nil {
		return err
	}
	loSeq, err := e.pop()
	if err != nil {
		return err
	}
	loA, loOK, err := singletonAtomic(loSeq)
	if err != nil {
		return err
	}
	hiA, hiOK, err := singletonAtomic(hiSeq)
	if err != nil {
		return err
	}
	if !loOK || !hiOK {
		e.push(nil)
		return nil
	}
	lo, err := toInteger(loA)
	if err != nil {
		return err
	}
	hi, err := toInteger(hiA)
	if err != nil {
		return err
	}
	if lo > hi {
		e.push(nil)
		return nil
	}
	out := make(xdm.Sequence, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, xdm.NewAtomicItem(xdm.NewInteger(i)))
	}
	e.push(out)
	return nil
}
