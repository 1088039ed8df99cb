// Package staticctx implements the compile-time static context (spec
// §3.3): namespace bindings, default namespaces, base URI, and the
// function signature table the compiler uses for name resolution and
// static arity checking. Built via a functional-option builder, mirroring
// the teacher's LexerOption/ParserOption pattern.
package staticctx

import "github.com/platynui/xpath2/internal/xpatherr"

// XMLNamespaceURI is the URI pre-bound to the reserved `xml` prefix; it
// can never be overridden.
const XMLNamespaceURI = "http://www.w3.org/XML/1998/namespace"

// XMLSchemaNamespaceURI is pre-bound to the `xs` prefix.
const XMLSchemaNamespaceURI = "http://www.w3.org/2001/XMLSchema"

// FunctionsNamespaceURI is pre-bound to the `fn` prefix and is the
// default function namespace.
const FunctionsNamespaceURI = "http://www.w3.org/2005/xpath-functions"

// FunctionSignature records the arity range the compiler accepts for a
// function name; MaxArity of -1 means unbounded (variadic).
type FunctionSignature struct {
	MinArity int
	MaxArity int
}

// StaticContext is the compile-time environment. It is cloneable so a
// caller can build a base context once and specialise it per compile.
type StaticContext struct {
	namespaces           map[string]string
	defaultElementNS     string
	defaultFunctionNS    string
	baseURI              string
	collations           map[string]bool
	defaultCollationURI  string
	functions            map[string]FunctionSignature
}

// Option configures a StaticContext at construction time.
type Option func(*StaticContext)

// WithNamespace binds a prefix to a namespace URI. Rebinding `xml` is
// rejected by New (it always wins over caller options).
func WithNamespace(prefix, uri string) Option {
	return func(sc *StaticContext) { sc.namespaces[prefix] = uri }
}

// WithDefaultElementNamespace sets the default namespace for unprefixed
// element name tests.
func WithDefaultElementNamespace(uri string) Option {
	return func(sc *StaticContext) { sc.defaultElementNS = uri }
}

// WithDefaultFunctionNamespace overrides the default function namespace
// (normally `fn`).
func WithDefaultFunctionNamespace(uri string) Option {
	return func(sc *StaticContext) { sc.defaultFunctionNS = uri }
}

// WithBaseURI sets the static base URI used by fn:static-base-uri and
// URI resolution.
func WithBaseURI(uri string) Option {
	return func(sc *StaticContext) { sc.baseURI = uri }
}

// WithCollation declares a collation URI as statically known.
func WithCollation(uri string) Option {
	return func(sc *StaticContext) { sc.collations[uri] = true }
}

// WithDefaultCollation sets the default collation URI.
func WithDefaultCollation(uri string) Option {
	return func(sc *StaticContext) {
		sc.collations[uri] = true
		sc.defaultCollationURI = uri
	}
}

// WithFunction registers a function name (expanded as uri#local) with
// its accepted arity range, for the compiler's static arity checking.
func WithFunction(uri, local string, minArity, maxArity int) Option {
	return func(sc *StaticContext) {
		sc.functions[uri+"#"+local] = FunctionSignature{MinArity: minArity, MaxArity: maxArity}
	}
}

// New builds a StaticContext with the XPath-mandated pre-bindings
// (`xml`, `xs`, `fn` as default function namespace) plus any options.
func New(opts ...Option) *StaticContext {
	sc := &StaticContext{
		namespaces:          map[string]string{"xml": XMLNamespaceURI, "xs": XMLSchemaNamespaceURI},
		defaultFunctionNS:   FunctionsNamespaceURI,
		collations:          map[string]bool{},
		defaultCollationURI: "http://www.w3.org/2005/xpath-functions/collation/codepoint",
		functions:           map[string]FunctionSignature{},
	}
	sc.collations[sc.defaultCollationURI] = true
	for _, o := range opts {
		o(sc)
	}
	sc.namespaces["xml"] = XMLNamespaceURI // xml can never be overridden
	return sc
}

// Clone returns a deep-enough copy suitable for further extension
// without mutating the receiver, per spec §3.3 ("cloneable, extensible
// via a builder").
func (sc *StaticContext) Clone(opts ...Option) *StaticContext {
	clone := &StaticContext{
		namespaces:          copyStrMap(sc.namespaces),
		defaultElementNS:    sc.defaultElementNS,
		defaultFunctionNS:   sc.defaultFunctionNS,
		baseURI:             sc.baseURI,
		collations:          copyBoolMap(sc.collations),
		defaultCollationURI: sc.defaultCollationURI,
		functions:           copyFuncMap(sc.functions),
	}
	for _, o := range opts {
		o(clone)
	}
	return clone
}

// ResolvePrefix resolves a namespace prefix to its bound URI.
func (sc *StaticContext) ResolvePrefix(prefix string) (string, bool) {
	uri, ok := sc.namespaces[prefix]
	return uri, ok
}

// DefaultElementNamespace returns the default namespace applied to
// unprefixed element name tests (empty string if none set).
func (sc *StaticContext) DefaultElementNamespace() string { return sc.defaultElementNS }

// DefaultFunctionNamespace returns the namespace applied to unprefixed
// function calls.
func (sc *StaticContext) DefaultFunctionNamespace() string { return sc.defaultFunctionNS }

// BaseURI returns the static base URI.
func (sc *StaticContext) BaseURI() string { return sc.baseURI }

// DefaultCollation returns the default collation URI.
func (sc *StaticContext) DefaultCollation() string { return sc.defaultCollationURI }

// IsCollationKnown reports whether uri was statically declared.
func (sc *StaticContext) IsCollationKnown(uri string) bool { return sc.collations[uri] }

// LookupFunction resolves a function's expanded name to its accepted
// arity range. ok is false when the name is entirely unknown to this
// static context (the function registry itself may still refuse
// dynamically; this check exists purely to catch XPST0017 early).
func (sc *StaticContext) LookupFunction(uri, local string, arity int) (ok bool, knownName bool) {
	sig, known := sc.functions[uri+"#"+local]
	if !known {
		return false, false
	}
	if arity < sig.MinArity {
		return false, true
	}
	if sig.MaxArity >= 0 && arity > sig.MaxArity {
		return false, true
	}
	return true, true
}

// CheckFunction returns an XPST0017 error when a function call cannot
// be statically accepted.
func (sc *StaticContext) CheckFunction(uri, local string, arity int) error {
	ok, known := sc.LookupFunction(uri, local, arity)
	if !known {
		return xpatherr.New(xpatherr.XPST0017, "unknown function %s:%s", uri, local)
	}
	if !ok {
		return xpatherr.New(xpatherr.XPST0017, "function %s:%s does not accept %d argument(s)", uri, local, arity)
	}
	return nil
}

func copyStrMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFuncMap(m map[string]FunctionSignature) map[string]FunctionSignature {
	out := make(map[string]FunctionSignature, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
