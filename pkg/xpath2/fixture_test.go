package xpath2_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/platynui/xpath2/internal/xpatherr"
	"github.com/platynui/xpath2/pkg/xpath2"
)

// TestFixtures runs every *.xpath expression under testdata/fixtures,
// mirroring the teacher's category-driven fixture suite: expressions
// with a matching *.txt file are compared against it directly, the rest
// go through a go-snaps snapshot so new fixtures never need a hand-typed
// expected value.
func TestFixtures(t *testing.T) {
	categories := []struct {
		name         string
		path         string
		expectErrors bool
	}{
		{name: "Expressions", path: "../../testdata/fixtures/Expressions", expectErrors: false},
		{name: "Errors", path: "../../testdata/fixtures/Errors", expectErrors: true},
	}

	for _, category := range categories {
		t.Run(category.name, func(t *testing.T) {
			files, err := filepath.Glob(filepath.Join(category.path, "*.xpath"))
			require.NoError(t, err)
			require.NotEmpty(t, files, "no .xpath fixtures found in %s", category.path)

			for _, file := range files {
				t.Run(strings.TrimSuffix(filepath.Base(file), ".xpath"), func(t *testing.T) {
					runFixture(t, file, category.expectErrors)
				})
			}
		})
	}
}

func runFixture(t *testing.T, xpathFile string, expectErrors bool) {
	t.Helper()

	source, err := os.ReadFile(xpathFile)
	require.NoError(t, err)
	expr := strings.TrimSpace(string(source))

	txtFile := strings.TrimSuffix(xpathFile, ".xpath") + ".txt"
	expected, hasExpected := "", false
	if content, err := os.ReadFile(txtFile); err == nil {
		expected = strings.TrimSpace(string(content))
		hasExpected = true
	}

	dc := xpath2.NewDynamicContext()
	prog, compErr := xpath2.Compile(expr, xpath2.NewStaticContext())

	if expectErrors {
		if compErr != nil {
			assertExpectedCode(t, compErr, expected, hasExpected)
			return
		}
		_, evalErr := xpath2.Evaluate(prog, dc)
		require.Error(t, evalErr, "fixture %s expected an error but evaluation succeeded", xpathFile)
		assertExpectedCode(t, evalErr, expected, hasExpected)
		return
	}

	require.NoError(t, compErr, "fixture %s failed to compile", xpathFile)
	seq, evalErr := xpath2.Evaluate(prog, dc)
	require.NoError(t, evalErr, "fixture %s failed to evaluate", xpathFile)

	actual := make([]string, len(seq))
	for i, item := range seq {
		if item.IsNode {
			actual[i] = item.Node.StringValue()
			continue
		}
		actual[i] = item.Atomic.String()
	}
	joined := strings.Join(actual, " ")

	if hasExpected {
		require.Equal(t, expected, joined, "fixture %s result mismatch", xpathFile)
		return
	}
	snaps.MatchSnapshot(t, filepath.Base(xpathFile), joined)
}

func assertExpectedCode(t *testing.T, err error, expectedCode string, hasExpected bool) {
	t.Helper()
	if !hasExpected {
		return
	}
	require.True(t, xpatherr.IsCode(err, xpatherr.Code(expectedCode)),
		"error %v does not carry expected code %s", err, expectedCode)
}
