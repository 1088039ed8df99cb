package evaluator

import (
	"github.com/platynui/xpath2/internal/ir"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// execValueCompare handles the `eq`/`ne`/`lt`/`le`/`gt`/`ge` value
// comparison operators: both operands must be zero-or-one items (the
// empty sequence propagates to an empty result). See compareAtomics for
// how values of different kinds are compared.
func (e *evalState) execValueCompare(op ir.OpCode) error {
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
	result, err := e.compareAtomics(op, left, right)
	if err != nil {
		return err
	}
	e.push(xdm.NewSequence(xdm.NewBoolean(result)))
	return nil
}

// compareAtomics evaluates one of the six comparison relations between
// two already-atomized values. An xs:untypedAtomic compared with a
// numeric is first cast to xs:double (err:FORG0001 if its text is not a
// number). Otherwise eq/ne treat values of different kinds as unequal,
// except an untypedAtomic against a string-family or anyURI value, which
// compare as strings; the ordering relations compare any two
// string-family, anyURI or untypedAtomic values as strings under the
// default collation and raise err:XPTY0004 for other mixed kinds.
func (e *evalState) compareAtomics(op ir.OpCode, left, right xdm.Atomic) (bool, error) {
	var castErr error
	if left.Kind == xdm.KUntypedAtomic && right.IsNumeric() {
		left, castErr = xdm.ParseAtomic(xdm.KDouble, left.Str())
	} else if right.Kind == xdm.KUntypedAtomic && left.IsNumeric() {
		right, castErr = xdm.ParseAtomic(xdm.KDouble, right.Str())
	}
	if castErr != nil {
		return false, castErr
	}
	if op == ir.OpValueEq || op == ir.OpValueNe {
		var eq bool
		var err error
		if left.IsNumeric() && right.IsNumeric() {
			eq, err = xdm.NumericEqual(left, right)
		} else {
			eq = xdm.AtomicEqual(left, right)
		}
		if err != nil {
			return false, err
		}
		if op == ir.OpValueNe {
			return !eq, nil
		}
		return eq, nil
	}
	cmp, ok, err := e.orderAtomics(left, right)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	switch op {
	case ir.OpValueLt:
		return cmp < 0, nil
	case ir.OpValueLe:
		return cmp <= 0, nil
	case ir.OpValueGt:
		return cmp > 0, nil
	case ir.OpValueGe:
		return cmp >= 0, nil
	}
	return false, xpatherr.New(xpatherr.FOER0000, "unreachable comparison operator")
}

// orderAtomics produces a three-way ordering between two atomics. ok is
// false when no ordering holds (NaN on either side). Strings order under
// the dynamic context's default collation; date/time/duration values
// order on their normalized instant, with a value lacking a timezone
// treated as carrying the implicit timezone of dynctx.DynamicContext.Now
// — a documented simplification of the spec's "implicit timezone" rule,
// which is exactly that in the common case.
func (e *evalState) orderAtomics(left, right xdm.Atomic) (int, bool, error) {
	if left.IsNumeric() && right.IsNumeric() {
		return xdm.NumericCompare(left, right)
	}
	if left.Kind == xdm.KBoolean && right.Kind == xdm.KBoolean {
		return boolCompare(left.Boolean(), right.Boolean()), true, nil
	}
	if isOrderableString(left.Kind) && isOrderableString(right.Kind) {
		coll, err := e.dc.Collation(e.dc.DefaultCollation())
		if err != nil {
			return 0, false, err
		}
		return coll.Compare(left.Str(), right.Str()), true, nil
	}
	if left.Kind == xdm.KDate && right.Kind == xdm.KDate {
		return intCompare(dateInstant(left.DateVal(), e), dateInstant(right.DateVal(), e)), true, nil
	}
	if left.Kind == xdm.KTime && right.Kind == xdm.KTime {
		return intCompare(timeInstant(left.TimeVal(), e), timeInstant(right.TimeVal(), e)), true, nil
	}
	if left.Kind == xdm.KDateTime && right.Kind == xdm.KDateTime {
		return intCompare(dateTimeInstant(left.DateTimeVal(), e), dateTimeInstant(right.DateTimeVal(), e)), true, nil
	}
	if left.Kind == xdm.KDayTimeDuration && right.Kind == xdm.KDayTimeDuration {
		return intCompare(left.DurationVal().Seconds, right.DurationVal().Seconds), true, nil
	}
	if left.Kind == xdm.KYearMonthDuration && right.Kind == xdm.KYearMonthDuration {
		return intCompare(left.DurationVal().Months, right.DurationVal().Months), true, nil
	}
	return 0, false, xpatherr.New(xpatherr.XPTY0004, "values are not comparable")
}

func isOrderableString(k xdm.AtomicKind) bool {
	return xdm.IsStringFamily(k) || k == xdm.KAnyURI || k == xdm.KUntypedAtomic
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func intCompare[T int | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// dateInstant/timeInstant/dateTimeInstant reduce a value to a single
// comparable integer (seconds since an arbitrary epoch, adjusted by
// timezone), applying the evaluation's implicit timezone when the value
// itself has none.
func dateInstant(d xdm.DateValue, e *evalState) int64 {
	tz := tzMinutes(d.TZ, e)
	days := int64(d.Year)*372 + int64(d.Month)*31 + int64(d.Day) // proleptic ordering proxy, monotone for valid calendar values
	return days*86400 - int64(tz)*60
}

func timeInstant(t xdm.TimeValue, e *evalState) int64 {
	tz := tzMinutes(t.TZ, e)
	secs := int64(t.Hour)*3600 + int64(t.Minute)*60 + int64(t.Second)
	return secs - int64(tz)*60
}

func dateTimeInstant(dt xdm.DateTimeValue, e *evalState) int64 {
	tz := tzMinutes(dt.TZ, e)
	days := int64(dt.Year)*372 + int64(dt.Month)*31 + int64(dt.Day)
	secs := days*86400 + int64(dt.Hour)*3600 + int64(dt.Minute)*60 + int64(dt.Second)
	return secs - int64(tz)*60
}

func tzMinutes(tz xdm.TZOffset, e *evalState) int {
	if tz.Present {
		return tz.Minutes
	}
	_, implicit := e.dc.Now()
	return implicit
}

// execGeneralCompare implements the general comparison operators:
// existential — true iff some pair (atomized left item, atomized right
// item) satisfies the value comparison. A pair that can't be compared
// at all (e.g. a number against a string) doesn't abort the whole
// expression — it just isn't one of the pairs that matches, the same
// "swallow per item" exception fn:deep-equal and co. do not get.
func (e *evalState) execGeneralCompare(op ir.OpCode) error {
	rightSeq, err := e.pop()
	if err != nil {
		return err
	}
	leftSeq, err := e.pop()
	if err != nil {
		return err
	}
	valueOp := generalToValueOp[op]
	lefts := xdm.Atomize(leftSeq)
	rights := xdm.Atomize(rightSeq)
	for _, l := range lefts {
		for _, r := range rights {
			ok, err := e.compareAtomics(valueOp, l, r)
			if err != nil {
				continue
			}
			if ok {
				e.push(xdm.NewSequence(xdm.NewBoolean(true)))
				return nil
			}
		}
	}
	e.push(xdm.NewSequence(xdm.NewBoolean(false)))
	return nil
}

var generalToValueOp = map[ir.OpCode]ir.OpCode{
	ir.OpGeneralEq: ir.OpValueEq, ir.OpGeneralNe: ir.OpValueNe,
	ir.OpGeneralLt: ir.OpValueLt, ir.OpGeneralLe: ir.OpValueLe,
	ir.OpGeneralGt: ir.OpValueGt, ir.OpGeneralGe: ir.OpValueGe,
}

// execNodeCompare handles `is`, `<<`, `>>`: both operands must be
// zero-or-one nodes.
func (e *evalState) execNodeCompare(op ir.OpCode) error {
	rightSeq, err := e.pop()
	if err != nil {
		return err
	}
	leftSeq, err := e.pop()
	if err != nil {
		return err
	}
	left, leftOK, err := singletonNode(leftSeq)
	if err != nil {
		return err
	}
	right, rightOK, err := singletonNode(rightSeq)
	if err != nil {
		return err
	}
	if !leftOK || !rightOK {
		e.push(nil)
		return nil
	}
	switch op {
	case ir.OpNodeIs:
		cmp, err := left.CompareDocumentOrder(right)
		if err != nil {
			return err
		}
		e.push(xdm.NewSequence(xdm.NewBoolean(cmp == 0)))
		return nil
	case ir.OpNodeBefore, ir.OpNodeAfter:
		cmp, err := left.CompareDocumentOrder(right)
		if err != nil {
			return err
		}
		result := cmp < 0
		if op == ir.OpNodeAfter {
			result = cmp > 0
		}
		e.push(xdm.NewSequence(xdm.NewBoolean(result)))
		return nil
	}
	return xpatherr.New(xpatherr.FOER0000, "unreachable node comparison operator")
}
