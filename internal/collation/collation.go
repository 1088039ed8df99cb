// Package collation implements the collation primitives used by string
// comparison and string-keyed function arguments (spec §4.5 "Collations").
//
// Two collations ship built in; string comparison/case-folding logic is
// grounded directly on the teacher's own string-builtin files, which
// import the same golang.org/x/text collate and language packages used
// here.
package collation

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/platynui/xpath2/internal/xpatherr"
)

// Codepoint is the W3C default collation: byte-wise codepoint order.
const Codepoint = "http://www.w3.org/2005/xpath-functions/collation/codepoint"

// CaseInsensitive is a simple ASCII/Unicode case-insensitive collation.
const CaseInsensitive = "http://www.w3.org/2005/xpath-functions/collation/html-ascii-case-insensitive"

// Collation provides ordering and equality over strings.
type Collation interface {
	// Compare returns -1/0/1 for a</==/>b under this collation.
	Compare(a, b string) int
	// Equal reports string equality under this collation.
	Equal(a, b string) bool
}

type codepointCollation struct{}

func (codepointCollation) Compare(a, b string) int { return strings.Compare(a, b) }
func (codepointCollation) Equal(a, b string) bool  { return a == b }

// caseInsensitiveCollation is backed by golang.org/x/text/collate with
// IgnoreCase, rather than a hand-rolled strings.EqualFold comparator, so
// that ordering (not just equality) is locale-aware and Unicode-correct.
type caseInsensitiveCollation struct {
	col *collate.Collator
}

func newCaseInsensitiveCollation() *caseInsensitiveCollation {
	return &caseInsensitiveCollation{col: collate.New(language.Und, collate.IgnoreCase)}
}

func (c *caseInsensitiveCollation) Compare(a, b string) int { return c.col.CompareString(a, b) }
func (c *caseInsensitiveCollation) Equal(a, b string) bool  { return c.Compare(a, b) == 0 }

// Registry maps a collation URI to its implementation. The dynamic
// context owns one Registry per evaluation (spec §3.4); hosts extend it
// at context-construction time via Register.
type Registry struct {
	byURI map[string]Collation
	def   string
}

// NewRegistry creates a Registry pre-populated with the two built-in
// collations and Codepoint as the default collation URI.
func NewRegistry() *Registry {
	r := &Registry{byURI: make(map[string]Collation), def: Codepoint}
	r.byURI[Codepoint] = codepointCollation{}
	r.byURI[CaseInsensitive] = newCaseInsensitiveCollation()
	return r
}

// Register adds or replaces a collation under the given URI. Hosts may
// use this to register a golang.org/x/text/language.Tag-backed locale
// collation via collate.New(tag).
func (r *Registry) Register(uri string, c Collation) { r.byURI[uri] = c }

// SetDefault changes the default collation URI (must already be
// registered).
func (r *Registry) SetDefault(uri string) error {
	if _, ok := r.byURI[uri]; !ok {
		return xpatherr.New(xpatherr.FOCH0002, "unknown collation URI %q", uri)
	}
	r.def = uri
	return nil
}

// Default returns the default collation URI.
func (r *Registry) Default() string { return r.def }

// Lookup resolves a collation URI, returning err:FOCH0002 if unknown.
func (r *Registry) Lookup(uri string) (Collation, error) {
	if uri == "" {
		uri = r.def
	}
	c, ok := r.byURI[uri]
	if !ok {
		return nil, xpatherr.New(xpatherr.FOCH0002, "unsupported collation URI %q", uri)
	}
	return c, nil
}
