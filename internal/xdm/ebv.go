package xdm

import (
	"math"

	"github.com/platynui/xpath2/internal/xpatherr"
)

// EBV computes the Effective Boolean Value of a sequence, per spec §4.4:
//
//	empty sequence                -> false
//	single boolean                -> its value
//	single numeric                -> false iff 0 or NaN
//	single string/untyped         -> false iff empty
//	single node                   -> true
//	sequence whose first is node  -> true
//	any other non-empty sequence  -> err:FORG0006
func EBV(s Sequence) (bool, error) {
	if len(s) == 0 {
		return false, nil
	}
	first := s[0]
	if first.IsNode {
		return true, nil
	}
	if len(s) > 1 {
		return false, xpatherr.New(xpatherr.FORG0006, "effective boolean value is undefined for a sequence of more than one atomic item")
	}
	a := first.Atomic
	switch a.Kind {
	case KBoolean:
		return a.Boolean(), nil
	case KInteger:
		return a.Integer() != 0, nil
	case KDecimal:
		return a.Decimal().Sign() != 0, nil
	case KFloat:
		f := float64(a.Float())
		return !(f == 0 || math.IsNaN(f)), nil
	case KDouble:
		f := a.Double()
		return !(f == 0 || math.IsNaN(f)), nil
	default:
		if IsStringFamily(a.Kind) || a.Kind == KAnyURI || a.Kind == KUntypedAtomic {
			return a.Str() != "", nil
		}
		return false, xpatherr.New(xpatherr.FORG0006, "effective boolean value is undefined for an atomic value of type %v", a.Kind)
	}
}
