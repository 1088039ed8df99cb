// Package xdm implements the XDM (XPath/XQuery Data Model) item and
// sequence algebra: atomic values, node items, atomization, effective
// boolean value, numeric promotion, and lexical parsing/formatting.
// Document-order helpers live in internal/nodeapi.
//
// Atomic values are represented as a closed tagged union (AtomicKind +
// an `any` payload) rather than an open interface hierarchy, per the
// engine's "tagged-union over trees/values, never open inheritance"
// design note.
package xdm

import (
	"fmt"
	"math"
	"math/big"
)

// AtomicKind identifies the variant stored in an Atomic value.
type AtomicKind byte

const (
	KBoolean AtomicKind = iota
	KInteger
	KDecimal
	KFloat
	KDouble
	KString
	KNormalizedString
	KToken
	KLanguage
	KName
	KNCName
	KNMTOKEN
	KID
	KIDREF
	KENTITY
	KNOTATION
	KAnyURI
	KUntypedAtomic
	KQName
	KDayTimeDuration
	KYearMonthDuration
	KDate
	KTime
	KDateTime
	KHexBinary
	KBase64Binary
)

// stringFamily is the set of kinds that share xs:string's lexical space
// and are stored identically (a Go string payload).
var stringFamily = map[AtomicKind]bool{
	KString: true, KNormalizedString: true, KToken: true, KLanguage: true,
	KName: true, KNCName: true, KNMTOKEN: true, KID: true, KIDREF: true,
	KENTITY: true, KNOTATION: true,
}

// IsStringFamily reports whether k shares xs:string's representation.
func IsStringFamily(k AtomicKind) bool { return stringFamily[k] }

// QName is an XML qualified name: an optional namespace URI, an optional
// prefix (informational only — identity is URI+local), and a local name.
type QName struct {
	URI    string
	Prefix string
	Local  string
}

func (q QName) String() string {
	if q.Prefix != "" {
		return q.Prefix + ":" + q.Local
	}
	return q.Local
}

// Equal compares two QNames by expanded identity (URI + local), ignoring
// the prefix as the spec requires.
func (q QName) Equal(o QName) bool { return q.URI == o.URI && q.Local == o.Local }

// TZOffset represents an optional timezone, in minutes east of UTC.
type TZOffset struct {
	Minutes int
	Present bool
}

// DateValue is the xs:date value space: a proleptic Gregorian calendar
// date plus an optional timezone.
type DateValue struct {
	Year, Month, Day int
	TZ               TZOffset
}

// TimeValue is the xs:time value space.
type TimeValue struct {
	Hour, Minute int
	Second       float64 // seconds + fractional part
	TZ           TZOffset
}

// DateTimeValue is the xs:dateTime value space.
type DateTimeValue struct {
	Year, Month, Day int
	Hour, Minute     int
	Second           float64
	TZ               TZOffset
}

// Duration represents both duration subtypes the engine supports.
// DayTimeDuration is stored in (possibly fractional) seconds, truncated
// to an integer number of seconds per spec §3.1; YearMonthDuration is
// stored in whole months. Exactly one of the two kinds applies to a
// given Atomic depending on its Kind.
type Duration struct {
	Seconds int64 // dayTimeDuration, truncated toward zero
	Months  int64 // yearMonthDuration
}

// Atomic is a single atomic value: a kind tag plus its payload. The
// payload's Go type is determined entirely by Kind:
//
//	KBoolean            bool
//	KInteger            int64
//	KDecimal            *big.Rat
//	KFloat              float32
//	KDouble             float64
//	string-family kinds string
//	KAnyURI             string
//	KUntypedAtomic      string
//	KQName              QName
//	KDayTimeDuration    Duration (Seconds set)
//	KYearMonthDuration  Duration (Months set)
//	KDate               DateValue
//	KTime               TimeValue
//	KDateTime           DateTimeValue
//	KHexBinary          []byte
//	KBase64Binary       []byte
type Atomic struct {
	Kind    AtomicKind
	payload any
}

func NewBoolean(b bool) Atomic  { return Atomic{Kind: KBoolean, payload: b} }
func NewInteger(i int64) Atomic { return Atomic{Kind: KInteger, payload: i} }
func NewDecimal(r *big.Rat) Atomic {
	return Atomic{Kind: KDecimal, payload: r}
}
func NewFloat(f float32) Atomic         { return Atomic{Kind: KFloat, payload: f} }
func NewDouble(d float64) Atomic        { return Atomic{Kind: KDouble, payload: d} }
func NewString(s string) Atomic         { return Atomic{Kind: KString, payload: s} }
func NewStringKind(k AtomicKind, s string) Atomic { return Atomic{Kind: k, payload: s} }
func NewAnyURI(s string) Atomic         { return Atomic{Kind: KAnyURI, payload: s} }
func NewUntypedAtomic(s string) Atomic  { return Atomic{Kind: KUntypedAtomic, payload: s} }
func NewQName(q QName) Atomic           { return Atomic{Kind: KQName, payload: q} }
func NewDayTimeDuration(seconds int64) Atomic {
	return Atomic{Kind: KDayTimeDuration, payload: Duration{Seconds: seconds}}
}
func NewYearMonthDuration(months int64) Atomic {
	return Atomic{Kind: KYearMonthDuration, payload: Duration{Months: months}}
}
func NewDate(d DateValue) Atomic         { return Atomic{Kind: KDate, payload: d} }
func NewTime(t TimeValue) Atomic         { return Atomic{Kind: KTime, payload: t} }
func NewDateTime(dt DateTimeValue) Atomic { return Atomic{Kind: KDateTime, payload: dt} }
func NewHexBinary(b []byte) Atomic       { return Atomic{Kind: KHexBinary, payload: b} }
func NewBase64Binary(b []byte) Atomic    { return Atomic{Kind: KBase64Binary, payload: b} }

func (a Atomic) Boolean() bool       { return a.payload.(bool) }
func (a Atomic) Integer() int64      { return a.payload.(int64) }
func (a Atomic) Decimal() *big.Rat   { return a.payload.(*big.Rat) }
func (a Atomic) Float() float32      { return a.payload.(float32) }
func (a Atomic) Double() float64     { return a.payload.(float64) }
func (a Atomic) Str() string         { return a.payload.(string) }
func (a Atomic) QNameVal() QName     { return a.payload.(QName) }
func (a Atomic) DurationVal() Duration { return a.payload.(Duration) }
func (a Atomic) DateVal() DateValue  { return a.payload.(DateValue) }
func (a Atomic) TimeVal() TimeValue  { return a.payload.(TimeValue) }
func (a Atomic) DateTimeVal() DateTimeValue { return a.payload.(DateTimeValue) }
func (a Atomic) Bytes() []byte       { return a.payload.([]byte) }

// IsNumeric reports whether the atomic's kind is one of the four numeric
// leaves of the promotion lattice (integer/decimal/float/double).
func (a Atomic) IsNumeric() bool {
	switch a.Kind {
	case KInteger, KDecimal, KFloat, KDouble:
		return true
	}
	return false
}

// String renders the atomic's canonical lexical form (used by fn:string
// and by diagnostics; not a full XML-Schema canonical-form implementation
// but faithful for every kind this engine constructs).
func (a Atomic) String() string {
	switch a.Kind {
	case KBoolean:
		if a.Boolean() {
			return "true"
		}
		return "false"
	case KInteger:
		return fmt.Sprintf("%d", a.Integer())
	case KDecimal:
		return formatDecimal(a.Decimal())
	case KFloat:
		return formatFloat(float64(a.Float()), true)
	case KDouble:
		return formatFloat(a.Double(), false)
	case KQName:
		return a.QNameVal().String()
	case KDayTimeDuration:
		return formatDayTimeDuration(a.DurationVal().Seconds)
	case KYearMonthDuration:
		return formatYearMonthDuration(a.DurationVal().Months)
	case KDate:
		return formatDate(a.DateVal())
	case KTime:
		return formatTime(a.TimeVal())
	case KDateTime:
		return formatDateTime(a.DateTimeVal())
	case KHexBinary:
		return fmt.Sprintf("%X", a.Bytes())
	case KBase64Binary:
		return base64Encode(a.Bytes())
	default:
		return a.Str()
	}
}

// formatDecimal renders r with just enough fractional digits to be
// exact, trimming trailing zeros (and a trailing '.') the same way the
// xs:decimal canonical lexical form does.
func formatDecimal(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	const maxScale = 34
	s := r.FloatString(maxScale)
	s = trimTrailingZeros(s)
	return s
}

func trimTrailingZeros(s string) string {
	if !containsDot(s) {
		return s
	}
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}

func containsDot(s string) bool {
	for _, c := range s {
		if c == '.' {
			return true
		}
	}
	return false
}

func formatFloat(f float64, isFloat32 bool) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "INF"
	}
	if math.IsInf(f, -1) {
		return "-INF"
	}
	bits := 64
	if isFloat32 {
		bits = 32
	}
	return fmt.Sprintf("%v", roundTrip(f, bits))
}

func roundTrip(f float64, bits int) float64 {
	if bits == 32 {
		return float64(float32(f))
	}
	return f
}

func base64Encode(b []byte) string {
	const table = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	var out []byte
	for i := 0; i < len(b); i += 3 {
		chunk := b[i:min(i+3, len(b))]
		var n uint32
		for j, c := range chunk {
			n |= uint32(c) << uint(16-8*j)
		}
		out = append(out, table[(n>>18)&0x3F], table[(n>>12)&0x3F])
		if len(chunk) > 1 {
			out = append(out, table[(n>>6)&0x3F])
		} else {
			out = append(out, '=')
		}
		if len(chunk) > 2 {
			out = append(out, table[n&0x3F])
		} else {
			out = append(out, '=')
		}
	}
	return string(out)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
