package funcs

import (
	"math/big"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// atomicKindByLocalName mirrors the compiler's sequence-type resolver
// table: every xs: local name the engine accepts as a cast/constructor
// target, kept in sync by hand since the two packages don't share it
// (the compiler's copy is unexported).
var atomicKindByLocalName = map[string]xdm.AtomicKind{
	"boolean":            xdm.KBoolean,
	"integer":            xdm.KInteger,
	"decimal":            xdm.KDecimal,
	"float":              xdm.KFloat,
	"double":             xdm.KDouble,
	"string":             xdm.KString,
	"normalizedString":   xdm.KNormalizedString,
	"token":              xdm.KToken,
	"language":           xdm.KLanguage,
	"Name":               xdm.KName,
	"NCName":             xdm.KNCName,
	"NMTOKEN":            xdm.KNMTOKEN,
	"ID":                 xdm.KID,
	"IDREF":              xdm.KIDREF,
	"ENTITY":             xdm.KENTITY,
	"NOTATION":           xdm.KNOTATION,
	"anyURI":             xdm.KAnyURI,
	"untypedAtomic":      xdm.KUntypedAtomic,
	"QName":              xdm.KQName,
	"dayTimeDuration":    xdm.KDayTimeDuration,
	"yearMonthDuration":  xdm.KYearMonthDuration,
	"date":               xdm.KDate,
	"time":               xdm.KTime,
	"dateTime":           xdm.KDateTime,
	"hexBinary":          xdm.KHexBinary,
	"base64Binary":       xdm.KBase64Binary,
}

// registerConstructorFuncs registers one xs:TypeName(...) constructor
// function per entry in atomicKindByLocalName. The compiler routes
// xs:-namespaced calls through the ordinary function-call path (it has no
// constructor-call special case), so these live as regular registry
// entries under the XML Schema namespace, separate from the `cast as`
// operator's own conversion logic even though the rules largely agree.
func registerConstructorFuncs(b *Builder) {
	for local, kind := range atomicKindByLocalName {
		k := kind
		b.xs(local, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
			a, ok, err := singleAtomic(args[0])
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			out, err := constructAtomic(k, a)
			if err != nil {
				return nil, err
			}
			return xdm.NewSequence(out), nil
		})
	}
}

// constructAtomic implements the xs: constructor functions' conversion
// rules: same target already is a no-op, a textual source atomic parses
// via its lexical form, a numeric target from a numeric source converts
// via the promotion helpers (a fractional value truncates toward zero
// for xs:integer, as `cast as` does), and everything else reparses the
// source's canonical string form as the target kind.
func constructAtomic(target xdm.AtomicKind, a xdm.Atomic) (xdm.Atomic, error) {
	if a.Kind == target {
		return a, nil
	}
	if xdm.IsStringFamily(a.Kind) || a.Kind == xdm.KAnyURI || a.Kind == xdm.KUntypedAtomic {
		return xdm.ParseAtomic(target, a.Str())
	}
	switch {
	case a.IsNumeric() && isConstructNumericKind(target):
		return constructNumeric(target, a)
	case a.Kind == xdm.KBoolean && isConstructNumericKind(target):
		if a.Boolean() {
			return constructNumericLiteral(target, 1), nil
		}
		return constructNumericLiteral(target, 0), nil
	case target == xdm.KBoolean && a.IsNumeric():
		ok, err := xdm.EBV(xdm.NewSequence(a))
		if err != nil {
			return xdm.Atomic{}, err
		}
		return xdm.NewBoolean(ok), nil
	}
	return xdm.ParseAtomic(target, a.String())
}

func isConstructNumericKind(k xdm.AtomicKind) bool {
	switch k {
	case xdm.KInteger, xdm.KDecimal, xdm.KFloat, xdm.KDouble:
		return true
	}
	return false
}

func constructNumeric(target xdm.AtomicKind, a xdm.Atomic) (xdm.Atomic, error) {
	switch target {
	case xdm.KInteger:
		return xdm.NewInteger(int64(toFloat(a))), nil
	case xdm.KDecimal:
		if a.Kind == xdm.KInteger {
			return xdm.NewDecimal(xdm.ToDecimal(a)), nil
		}
		r := new(big.Rat)
		if r.SetFloat64(xdm.ToDouble(a)) == nil {
			return xdm.Atomic{}, xpatherr.New(xpatherr.FORG0001, "cannot construct xs:decimal from a non-finite value")
		}
		return xdm.NewDecimal(r), nil
	case xdm.KFloat:
		return xdm.NewFloat(xdm.ToFloat32(a)), nil
	default:
		return xdm.NewDouble(xdm.ToDouble(a)), nil
	}
}

func constructNumericLiteral(target xdm.AtomicKind, n int64) xdm.Atomic {
	switch target {
	case xdm.KInteger:
		return xdm.NewInteger(n)
	case xdm.KDecimal:
		return xdm.NewDecimal(new(big.Rat).SetInt64(n))
	case xdm.KFloat:
		return xdm.NewFloat(float32(n))
	default:
		return xdm.NewDouble(float64(n))
	}
}
