package xdm

import (
	"math"
	"math/big"

	"github.com/platynui/xpath2/internal/xpatherr"
)

// numericRank orders the promotion lattice integer < decimal < float <
// double as a pairwise join, not a type hierarchy (see design notes).
func numericRank(k AtomicKind) int {
	switch k {
	case KInteger:
		return 0
	case KDecimal:
		return 1
	case KFloat:
		return 2
	case KDouble:
		return 3
	}
	return -1
}

// Join returns the least upper bound of two numeric kinds in the
// promotion lattice.
func Join(a, b AtomicKind) AtomicKind {
	ra, rb := numericRank(a), numericRank(b)
	if ra >= rb {
		return a
	}
	return b
}

// ToDouble converts any numeric atomic to float64.
func ToDouble(a Atomic) float64 {
	switch a.Kind {
	case KInteger:
		return float64(a.Integer())
	case KDecimal:
		f, _ := a.Decimal().Float64()
		return f
	case KFloat:
		return float64(a.Float())
	case KDouble:
		return a.Double()
	}
	return math.NaN()
}

// ToFloat32 converts any numeric atomic to float32.
func ToFloat32(a Atomic) float32 { return float32(ToDouble(a)) }

// ToDecimal converts an integer or decimal atomic to *big.Rat. Callers
// must not call this on float/double (promotion never demotes).
func ToDecimal(a Atomic) *big.Rat {
	switch a.Kind {
	case KInteger:
		return new(big.Rat).SetInt64(a.Integer())
	case KDecimal:
		return a.Decimal()
	}
	return new(big.Rat)
}

// PromotePair promotes two numeric atomics to their common kind,
// returning values of that kind.
func PromotePair(a, b Atomic) (Atomic, Atomic, AtomicKind, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Atomic{}, Atomic{}, 0, xpatherr.New(xpatherr.XPTY0004, "arithmetic operand is not numeric")
	}
	k := Join(a.Kind, b.Kind)
	return promoteTo(a, k), promoteTo(b, k), k, nil
}

func promoteTo(a Atomic, k AtomicKind) Atomic {
	if a.Kind == k {
		return a
	}
	switch k {
	case KDecimal:
		return NewDecimal(ToDecimal(a))
	case KFloat:
		return NewFloat(ToFloat32(a))
	case KDouble:
		return NewDouble(ToDouble(a))
	}
	return a
}

// NumericEqual compares two numeric atomics honouring the XPath lattice
// and the NaN ≠ NaN rule.
func NumericEqual(a, b Atomic) (bool, error) {
	pa, pb, k, err := PromotePair(a, b)
	if err != nil {
		return false, err
	}
	switch k {
	case KInteger:
		return pa.Integer() == pb.Integer(), nil
	case KDecimal:
		return pa.Decimal().Cmp(pb.Decimal()) == 0, nil
	case KFloat:
		fa, fb := float64(pa.Float()), float64(pb.Float())
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return false, nil
		}
		return fa == fb, nil
	case KDouble:
		fa, fb := pa.Double(), pb.Double()
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return false, nil
		}
		return fa == fb, nil
	}
	return false, nil
}

// NumericCompare returns -1/0/1 for a</==/>b. ok is false when either
// operand is NaN (no ordering holds).
func NumericCompare(a, b Atomic) (cmp int, ok bool, err error) {
	pa, pb, k, err := PromotePair(a, b)
	if err != nil {
		return 0, false, err
	}
	switch k {
	case KInteger:
		x, y := pa.Integer(), pb.Integer()
		switch {
		case x < y:
			return -1, true, nil
		case x > y:
			return 1, true, nil
		default:
			return 0, true, nil
		}
	case KDecimal:
		return pa.Decimal().Cmp(pb.Decimal()), true, nil
	case KFloat:
		return doubleCompare(float64(pa.Float()), float64(pb.Float()))
	case KDouble:
		return doubleCompare(pa.Double(), pb.Double())
	}
	return 0, false, nil
}

func doubleCompare(x, y float64) (int, bool, error) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, false, nil
	}
	switch {
	case x < y:
		return -1, true, nil
	case x > y:
		return 1, true, nil
	default:
		return 0, true, nil
	}
}
