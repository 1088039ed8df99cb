// Package funcs implements the standard function library (spec §4.5):
// one registration per (expanded name, arity), each a dynctx.Callable
// receiving already-evaluated argument sequences. Adapted from the
// teacher's internal/interp/builtins package, whose per-category
// registerXxxBuiltins functions and name->callable map this package's
// Builder mirrors.
package funcs

import (
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/staticctx"
)

// ns is the namespace every built-in function in this package is
// registered under, the XPath functions namespace bound to the `fn`
// prefix and the static context's default function namespace.
const ns = staticctx.FunctionsNamespaceURI

// xsNS is the XML Schema namespace: the xs: constructor-function-call
// syntax (`xs:integer(...)`) resolves here, distinct from the `cast as`
// operator even though both end up calling the same conversion logic.
const xsNS = staticctx.XMLSchemaNamespaceURI

// Builder accumulates a function registry and the matching static-context
// declarations its compile-time arity checking needs, the same builder
// shape staticctx/dynctx already use for their own options.
type Builder struct {
	registry *dynctx.Registry
	options  []staticctx.Option
}

func newBuilder() *Builder {
	return &Builder{registry: dynctx.NewRegistry()}
}

// add registers one function name under ns for exactly [min,max] (a
// single arity when min==max), wiring both the runtime callable and the
// static-context arity declaration from one call site.
func (b *Builder) add(uri, local string, min, max int, fn dynctx.Callable) {
	b.options = append(b.options, staticctx.WithFunction(uri, local, min, max))
	if min == max {
		b.registry.Register(uri, local, min, fn)
		return
	}
	b.registry.RegisterVariadic(uri, local, min, max, fn)
}

func (b *Builder) fn(local string, min, max int, fn dynctx.Callable) {
	b.add(ns, local, min, max, fn)
}

func (b *Builder) xs(local string, fn dynctx.Callable) {
	b.add(xsNS, local, 1, 1, fn)
}

func newStandardBuilder() *Builder {
	b := newBuilder()
	registerBooleanFuncs(b)
	registerSequenceFuncs(b)
	registerNumericFuncs(b)
	registerStringFuncs(b)
	registerRegexFuncs(b)
	registerDateTimeFuncs(b)
	registerNodeFuncs(b)
	registerURIFuncs(b)
	registerQNameFuncs(b)
	registerDiagnosticFuncs(b)
	registerDocumentFuncs(b)
	registerConstructorFuncs(b)
	registerCollationFuncs(b)
	return b
}

// NewStandardRegistry returns a function registry populated with every
// built-in function this package implements, ready to install on a
// DynamicContext via dynctx.WithFunctionRegistry. Hosts extending the
// registry should call Register/RegisterVariadic on the result directly.
func NewStandardRegistry() *dynctx.Registry {
	return newStandardBuilder().registry
}

// StandardStaticOptions returns the StaticContext options declaring every
// built-in function's expanded name and accepted arity range, required
// for the compiler's static XPST0017 arity checking.
func StandardStaticOptions() []staticctx.Option {
	return newStandardBuilder().options
}
