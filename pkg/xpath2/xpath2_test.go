package xpath2_test

import (
	"testing"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/pkg/xpath2"
)

func mustEval(t *testing.T, expr string, dc *dynctx.DynamicContext) xdm.Sequence {
	t.Helper()
	prog, err := xpath2.Compile(expr, xpath2.NewStaticContext())
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	seq, err := xpath2.Evaluate(prog, dc)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", expr, err)
	}
	return seq
}

func seqStrings(seq xdm.Sequence) []string {
	out := make([]string, len(seq))
	for i, item := range seq {
		if item.IsNode {
			out[i] = item.Node.StringValue()
			continue
		}
		out[i] = item.Atomic.String()
	}
	return out
}

func TestEvaluateExprArithmeticAndLogic(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "3"},
		{"2 * (3 + 4)", "14"},
		{"10 idiv 3", "3"},
		{"10 mod 3", "1"},
		{"1 = 1 and 2 = 2", "true"},
		{"1 = 2 or 2 = 2", "true"},
		{"not(1 = 2)", "true"},
		{"if (1 < 2) then 'a' else 'b'", "a"},
		{"for $x in (1, 2, 3) return $x * 2", "2"},
		{"(1, 2, 3)[2]", "2"},
	}

	dc := xpath2.NewDynamicContext()
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got := seqStrings(mustEval(t, tc.expr, dc))
			if len(got) == 0 || got[0] != tc.want {
				t.Errorf("eval %q = %v, want first item %q", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEvaluateExprStringFunctions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"upper-case('abc')", "ABC"},
		{"lower-case('ABC')", "abc"},
		{"concat('a', 'b', 'c')", "abc"},
		{"string-length('hello')", "5"},
		{"substring('hello world', 7)", "world"},
		{"substring('hello world', 1, 5)", "hello"},
		{"contains('hello', 'ell')", "true"},
		{"starts-with('hello', 'he')", "true"},
		{"ends-with('hello', 'lo')", "true"},
		{"normalize-space('  a  b  ')", "a b"},
		{"string-join(('a', 'b', 'c'), '-')", "a-b-c"},
	}

	dc := xpath2.NewDynamicContext()
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got := seqStrings(mustEval(t, tc.expr, dc))
			if len(got) == 0 || got[0] != tc.want {
				t.Errorf("eval %q = %v, want first item %q", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEvaluateExprSequenceFunctions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"count((1, 2, 3))", "3"},
		{"sum((1, 2, 3))", "6"},
		{"avg((2, 4))", "3"},
		{"max((1, 5, 3))", "5"},
		{"min((1, 5, 3))", "1"},
		{"reverse((1, 2, 3))[1]", "3"},
		{"distinct-values((1, 1, 2))[2]", "2"},
		{"empty(())", "true"},
		{"exists((1))", "true"},
	}

	dc := xpath2.NewDynamicContext()
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got := seqStrings(mustEval(t, tc.expr, dc))
			if len(got) == 0 || got[0] != tc.want {
				t.Errorf("eval %q = %v, want first item %q", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEvaluateExprNodeNavigation(t *testing.T) {
	tb, root := newTree("root")
	a := tb.elem(root, "", "child")
	tb.text(a, "first")
	b := tb.elem(root, "", "child")
	tb.text(b, "second")
	tb.attr(b, "id", "b1")

	dc := xpath2.NewDynamicContext(dynctx.WithContextItem(xdm.NewNodeItem(root)))

	tests := []struct {
		expr string
		want string
	}{
		{"name(child[1])", "child"},
		{"count(child)", "2"},
		{"child[2]/@id", "b1"},
		{"child[1]/text()", "first"},
		{"child[@id = 'b1']/text()", "second"},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got := seqStrings(mustEval(t, tc.expr, dc))
			if len(got) == 0 || got[0] != tc.want {
				t.Errorf("eval %q = %v, want first item %q", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEvaluateStreamIterReplaysFully(t *testing.T) {
	prog, err := xpath2.Compile("(1, 2, 3)", xpath2.NewStaticContext())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	dc := xpath2.NewDynamicContext()
	handle, err := xpath2.EvaluateStream(prog, dc)
	if err != nil {
		t.Fatalf("EvaluateStream: %v", err)
	}

	var first, second []string
	for item, err := range handle.Iter() {
		if err != nil {
			t.Fatalf("Iter: %v", err)
		}
		first = append(first, item.Atomic.String())
	}
	for item, err := range handle.Iter() {
		if err != nil {
			t.Fatalf("Iter: %v", err)
		}
		second = append(second, item.Atomic.String())
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 items each run, got %v and %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("replay mismatch at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestEvaluateStreamIterStopsEarly(t *testing.T) {
	prog, err := xpath2.Compile("(1, 2, 3, 4, 5)", xpath2.NewStaticContext())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	dc := xpath2.NewDynamicContext()
	handle, err := xpath2.EvaluateStream(prog, dc)
	if err != nil {
		t.Fatalf("EvaluateStream: %v", err)
	}

	count := 0
	for range handle.Iter() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("expected early break at 2 items, got %d", count)
	}
}

func TestCompileReportsStaticErrors(t *testing.T) {
	_, err := xpath2.Compile("undeclared-function(1, 2)", xpath2.NewStaticContext())
	if err == nil {
		t.Fatal("expected a static error for an unknown function, got nil")
	}
}

func TestCompiledProgramSource(t *testing.T) {
	const expr = "1 + 1"
	prog, err := xpath2.Compile(expr, xpath2.NewStaticContext())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if prog.Source() != expr {
		t.Errorf("Source() = %q, want %q", prog.Source(), expr)
	}
}
