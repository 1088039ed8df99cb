package funcs

import (
	"testing"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func call(t *testing.T, dc *dynctx.DynamicContext, local string, args ...xdm.Sequence) xdm.Sequence {
	t.Helper()
	reg := NewStandardRegistry()
	fn, ok := reg.Lookup(ns, local, len(args))
	if !ok {
		t.Fatalf("no registered function fn:%s/%d", local, len(args))
	}
	out, err := fn(dc, args)
	if err != nil {
		t.Fatalf("fn:%s(%v): %v", local, args, err)
	}
	return out
}

func callErr(t *testing.T, dc *dynctx.DynamicContext, local string, args ...xdm.Sequence) error {
	t.Helper()
	reg := NewStandardRegistry()
	fn, ok := reg.Lookup(ns, local, len(args))
	if !ok {
		t.Fatalf("no registered function fn:%s/%d", local, len(args))
	}
	_, err := fn(dc, args)
	return err
}

func seq(atoms ...xdm.Atomic) xdm.Sequence {
	s := make(xdm.Sequence, len(atoms))
	for i, a := range atoms {
		s[i] = xdm.NewAtomicItem(a)
	}
	return s
}

func singleStr(t *testing.T, s xdm.Sequence) string {
	t.Helper()
	if len(s) != 1 {
		t.Fatalf("expected exactly one item, got %d", len(s))
	}
	return s[0].Atomic.String()
}

func TestBooleanFuncs(t *testing.T) {
	dc := dynctx.New()

	tests := []struct {
		name string
		args []xdm.Sequence
		want string
	}{
		{"true", nil, "true"},
		{"false", nil, "false"},
		{"not", []xdm.Sequence{seq(xdm.NewBoolean(false))}, "true"},
		{"boolean", []xdm.Sequence{seq(xdm.NewInteger(0))}, "false"},
		{"boolean", []xdm.Sequence{seq(xdm.NewString("x"))}, "true"},
	}
	for _, tc := range tests {
		got := singleStr(t, call(t, dc, tc.name, tc.args...))
		if got != tc.want {
			t.Errorf("fn:%s(%v) = %q, want %q", tc.name, tc.args, got, tc.want)
		}
	}
}

func TestNumericFuncs(t *testing.T) {
	dc := dynctx.New()

	tests := []struct {
		name string
		arg  xdm.Atomic
		want string
	}{
		{"abs", xdm.NewInteger(-5), "5"},
		{"ceiling", xdm.NewDouble(1.2), "2"},
		{"floor", xdm.NewDouble(1.8), "1"},
		{"round", xdm.NewDouble(2.5), "3"},
		{"round-half-to-even", xdm.NewDouble(2.5), "2"},
		{"round-half-to-even", xdm.NewDouble(3.5), "4"},
	}
	for _, tc := range tests {
		got := singleStr(t, call(t, dc, tc.name, seq(tc.arg)))
		if got != tc.want {
			t.Errorf("fn:%s(%v) = %q, want %q", tc.name, tc.arg, got, tc.want)
		}
	}
}

func TestStringFuncs(t *testing.T) {
	dc := dynctx.New()

	tests := []struct {
		name string
		args []xdm.Sequence
		want string
	}{
		{"upper-case", []xdm.Sequence{seq(xdm.NewString("abc"))}, "ABC"},
		{"lower-case", []xdm.Sequence{seq(xdm.NewString("ABC"))}, "abc"},
		{"concat", []xdm.Sequence{seq(xdm.NewString("a")), seq(xdm.NewString("b"))}, "ab"},
		{"string-length", []xdm.Sequence{seq(xdm.NewString("hello"))}, "5"},
		{"contains", []xdm.Sequence{seq(xdm.NewString("hello")), seq(xdm.NewString("ell"))}, "true"},
		{"substring-before", []xdm.Sequence{seq(xdm.NewString("2024-07-30")), seq(xdm.NewString("-"))}, "2024"},
		{"substring-after", []xdm.Sequence{seq(xdm.NewString("2024-07-30")), seq(xdm.NewString("-"))}, "07-30"},
		{"normalize-space", []xdm.Sequence{seq(xdm.NewString("  a   b "))}, "a b"},
		{"translate", []xdm.Sequence{seq(xdm.NewString("abc")), seq(xdm.NewString("ab")), seq(xdm.NewString("xy"))}, "xyc"},
	}
	for _, tc := range tests {
		got := singleStr(t, call(t, dc, tc.name, tc.args...))
		if got != tc.want {
			t.Errorf("fn:%s(%v) = %q, want %q", tc.name, tc.args, got, tc.want)
		}
	}
}

func TestSequenceFuncs(t *testing.T) {
	dc := dynctx.New()
	nums := seq(xdm.NewInteger(1), xdm.NewInteger(2), xdm.NewInteger(3))

	if got := singleStr(t, call(t, dc, "count", nums)); got != "3" {
		t.Errorf("fn:count = %q, want 3", got)
	}
	if got := singleStr(t, call(t, dc, "sum", nums)); got != "6" {
		t.Errorf("fn:sum = %q, want 6", got)
	}
	if got := singleStr(t, call(t, dc, "max", nums)); got != "3" {
		t.Errorf("fn:max = %q, want 3", got)
	}
	if got := singleStr(t, call(t, dc, "min", nums)); got != "1" {
		t.Errorf("fn:min = %q, want 1", got)
	}
	rev := call(t, dc, "reverse", nums)
	if len(rev) != 3 || rev[0].Atomic.String() != "3" || rev[2].Atomic.String() != "1" {
		t.Errorf("fn:reverse = %v, want [3 2 1]", rev)
	}

	empty := xdm.Sequence{}
	if got := singleStr(t, call(t, dc, "empty", empty)); got != "true" {
		t.Errorf("fn:empty(()) = %q, want true", got)
	}
	if got := singleStr(t, call(t, dc, "exists", nums)); got != "true" {
		t.Errorf("fn:exists = %q, want true", got)
	}

	if err := callErr(t, dc, "exactly-one", empty); err == nil {
		t.Error("fn:exactly-one(()) expected an error, got nil")
	} else if !xpatherr.IsCode(err, xpatherr.FORG0005) {
		t.Errorf("fn:exactly-one(()) error = %v, want code FORG0005", err)
	}
}

func TestRegexFuncs(t *testing.T) {
	dc := dynctx.New()

	matches := singleStr(t, call(t, dc, "matches",
		seq(xdm.NewString("hello123")), seq(xdm.NewString("[a-z]+[0-9]+"))))
	if matches != "true" {
		t.Errorf("fn:matches = %q, want true", matches)
	}

	replaced := singleStr(t, call(t, dc, "replace",
		seq(xdm.NewString("hello world")), seq(xdm.NewString("o")), seq(xdm.NewString("0"))))
	if replaced != "hell0 w0rld" {
		t.Errorf("fn:replace = %q, want hell0 w0rld", replaced)
	}

	if err := callErr(t, dc, "replace",
		seq(xdm.NewString("abc")), seq(xdm.NewString("a")), seq(xdm.NewString("$0"))); err == nil {
		t.Error("fn:replace with $0 in replacement expected an error, got nil")
	} else if !xpatherr.IsCode(err, xpatherr.FORX0004) {
		t.Errorf("fn:replace $0 error = %v, want code FORX0004", err)
	}
}

func TestConstructorFuncs(t *testing.T) {
	dc := dynctx.New()

	reg := NewStandardRegistry()
	fn, ok := reg.Lookup(xsNS, "integer", 1)
	if !ok {
		t.Fatal("xs:integer/1 not registered")
	}
	out, err := fn(dc, []xdm.Sequence{seq(xdm.NewString("42"))})
	if err != nil {
		t.Fatalf("xs:integer('42'): %v", err)
	}
	if got := singleStr(t, out); got != "42" {
		t.Errorf("xs:integer('42') = %q, want 42", got)
	}

	fn, ok = reg.Lookup(xsNS, "double", 1)
	if !ok {
		t.Fatal("xs:double/1 not registered")
	}
	out, err = fn(dc, []xdm.Sequence{seq(xdm.NewInteger(3))})
	if err != nil {
		t.Fatalf("xs:double(3): %v", err)
	}
	if got := singleStr(t, out); got != "3" {
		t.Errorf("xs:double(3) = %q, want 3", got)
	}
}
