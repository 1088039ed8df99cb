// Package dynctx implements the dynamic (run-time) context (spec §3.4):
// the context item, variable bindings, function registry, collation
// registry, node resolver, and the frozen clock/timezone every
// current-*() function observes within one evaluation.
package dynctx

import (
	"time"

	"github.com/platynui/xpath2/internal/collation"
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// Callable is a registered function's implementation: it receives the
// dynamic context it was invoked under and its already-evaluated
// argument sequences, and returns a result sequence or an error.
type Callable func(dc *DynamicContext, args []xdm.Sequence) (xdm.Sequence, error)

// FuncKey identifies a registered function by expanded name + arity.
type FuncKey struct {
	URI   string
	Local string
	Arity int
}

// Registry maps (expanded name, arity) to a Callable, with variadic
// support via a min..=max arity range recorded alongside each entry.
type Registry struct {
	byArity map[string]map[int]Callable
	ranges  map[string][2]int // uri#local -> [min, max] (max=-1 unbounded)
}

// NewRegistry creates an empty function registry.
func NewRegistry() *Registry {
	return &Registry{byArity: map[string]map[int]Callable{}, ranges: map[string][2]int{}}
}

// Register adds a function for a single arity. Hosts extending the
// registry must not re-register built-in names except to shadow them
// for test isolation (spec §6); this package does not itself enforce
// that policy, leaving it to the builder that owns the base registry.
func (r *Registry) Register(uri, local string, arity int, fn Callable) {
	key := uri + "#" + local
	if r.byArity[key] == nil {
		r.byArity[key] = map[int]Callable{}
	}
	r.byArity[key][arity] = fn
	rng, ok := r.ranges[key]
	if !ok {
		rng = [2]int{arity, arity}
	} else {
		if arity < rng[0] {
			rng[0] = arity
		}
		if arity > rng[1] {
			rng[1] = arity
		}
	}
	r.ranges[key] = rng
}

// RegisterRange registers one Callable for every arity in [min, max]
// (or a single variadic implementation reused across arities); max=-1
// is not supported here — variadic functions register an explicit
// handler per accepted arity, or callers use RegisterVariadic.
func (r *Registry) RegisterRange(uri, local string, min, max int, fn Callable) {
	for a := min; a <= max; a++ {
		r.Register(uri, local, a, fn)
	}
}

// RegisterVariadic registers a single Callable that accepts any arity
// in [min, max] (max=-1 for unbounded, e.g. fn:concat).
func (r *Registry) RegisterVariadic(uri, local string, min, max int, fn Callable) {
	key := uri + "#" + local
	r.ranges[key] = [2]int{min, max}
	if r.byArity[key] == nil {
		r.byArity[key] = map[int]Callable{}
	}
	r.byArity[key][-1] = fn // -1 arity slot marks "variadic handler"
}

// Lookup resolves a function call by expanded name and arity.
func (r *Registry) Lookup(uri, local string, arity int) (Callable, bool) {
	key := uri + "#" + local
	byA, ok := r.byArity[key]
	if !ok {
		return nil, false
	}
	if fn, ok := byA[arity]; ok {
		return fn, true
	}
	if fn, ok := byA[-1]; ok {
		rng, hasRng := r.ranges[key]
		if hasRng && arity >= rng[0] && (rng[1] < 0 || arity <= rng[1]) {
			return fn, true
		}
	}
	return nil, false
}

// NodeResolver routes fn:doc / fn:doc-available / fn:collection to a
// host-supplied implementation (spec §4.5 "Documents").
type NodeResolver interface {
	Doc(uri string) (nodeapi.Node, error)
	DocAvailable(uri string) bool
	Collection(uri string) ([]nodeapi.Node, error)
}

// DynamicContext is the run-time environment an evaluation executes
// under. It is built once via New and never mutated by the evaluator:
// focus changes and scoped variable bindings are made on shallow copies
// (WithNewFocus, WithBoundVariable).
type DynamicContext struct {
	contextItem    *xdm.Item
	position       int
	size           int
	hasFocus       bool
	variables      map[string]xdm.Sequence
	functions      *Registry
	collations     *collation.Registry
	resolver       NodeResolver
	now            time.Time
	tz             int
	hasTZOverride  bool
	defaultCollURI string
	implicitBase   string
}

// Option configures a DynamicContext at construction time.
type Option func(*DynamicContext)

// WithContextItem sets the initial context item, position 1 of size 1.
func WithContextItem(it xdm.Item) Option {
	return func(dc *DynamicContext) {
		dc.contextItem = &it
		dc.position, dc.size, dc.hasFocus = 1, 1, true
	}
}

// WithFocus sets the initial context item together with an explicit
// position/size (e.g. when resuming evaluation inside a known focus).
func WithFocus(it xdm.Item, position, size int) Option {
	return func(dc *DynamicContext) {
		dc.contextItem = &it
		dc.position, dc.size, dc.hasFocus = position, size, true
	}
}

// WithVariable binds an expanded-name variable to a sequence.
func WithVariable(uri, local string, seq xdm.Sequence) Option {
	return func(dc *DynamicContext) { dc.variables[uri+"#"+local] = seq }
}

// WithFunctionRegistry installs the function registry (normally the
// result of funcs.NewStandardRegistry(), optionally extended by the
// host via funcs.Builder).
func WithFunctionRegistry(r *Registry) Option {
	return func(dc *DynamicContext) { dc.functions = r }
}

// WithCollations installs the collation registry.
func WithCollations(r *collation.Registry) Option {
	return func(dc *DynamicContext) { dc.collations = r }
}

// WithDefaultCollation overrides the default collation URI for this
// evaluation only.
func WithDefaultCollation(uri string) Option {
	return func(dc *DynamicContext) { dc.defaultCollURI = uri }
}

// WithNodeResolver installs the doc()/collection() resolver.
func WithNodeResolver(r NodeResolver) Option {
	return func(dc *DynamicContext) { dc.resolver = r }
}

// WithNow freezes the clock used by every current-*() function within
// the evaluation, along with the implicit timezone (minutes east of
// UTC) applied to constructed date/time values lacking one.
func WithNow(t time.Time, tzMinutes int) Option {
	return func(dc *DynamicContext) {
		dc.now = t
		dc.tz = tzMinutes
		dc.hasTZOverride = true
	}
}

// WithBaseURI sets the implicit base URI used by resolve-uri() when no
// explicit base is given.
func WithBaseURI(uri string) Option {
	return func(dc *DynamicContext) { dc.implicitBase = uri }
}

// New builds a DynamicContext. If WithNow was not supplied, "now" is
// frozen at construction time using the real wall clock and the local
// timezone offset, still exactly once per evaluation as spec §3.4/§4.3
// require.
func New(opts ...Option) *DynamicContext {
	dc := &DynamicContext{
		variables:      map[string]xdm.Sequence{},
		functions:      NewRegistry(),
		collations:     collation.NewRegistry(),
		defaultCollURI: collation.Codepoint,
	}
	for _, o := range opts {
		o(dc)
	}
	if !dc.hasTZOverride {
		now := time.Now()
		_, offsetSec := now.Zone()
		dc.now = now
		dc.tz = offsetSec / 60
	}
	return dc
}

// ContextItem returns the current context item, position, and size.
func (dc *DynamicContext) ContextItem() (xdm.Item, int, int, bool) {
	if !dc.hasFocus {
		return xdm.Item{}, 0, 0, false
	}
	return *dc.contextItem, dc.position, dc.size, true
}

// WithNewFocus returns a shallow copy of dc with a different focus,
// used by the evaluator to establish a predicate/step's focus without
// mutating the shared context (spec: "the evaluator never mutates" the
// dynamic context).
func (dc *DynamicContext) WithNewFocus(it xdm.Item, position, size int) *DynamicContext {
	clone := *dc
	clone.contextItem = &it
	clone.position = position
	clone.size = size
	clone.hasFocus = true
	return &clone
}

// Variable looks up a variable by expanded name.
func (dc *DynamicContext) Variable(uri, local string) (xdm.Sequence, bool) {
	seq, ok := dc.variables[uri+"#"+local]
	return seq, ok
}

// WithBoundVariable returns a shallow copy of dc with one additional (or
// shadowing) variable binding, used by the evaluator to bind each
// `for`/`some`/`every` variable.
func (dc *DynamicContext) WithBoundVariable(uri, local string, seq xdm.Sequence) *DynamicContext {
	clone := *dc
	clone.variables = make(map[string]xdm.Sequence, len(dc.variables)+1)
	for k, v := range dc.variables {
		clone.variables[k] = v
	}
	clone.variables[uri+"#"+local] = seq
	return &clone
}

// LookupFunction resolves a function call, returning XPST0008-flavoured
// absence via ok=false (callers raise the appropriate code: XPST0017 for
// compile time, which never reaches here, or FOER0000/XPTY0004 for a
// registry gap discovered only at run time against a host-extended
// registry).
func (dc *DynamicContext) LookupFunction(uri, local string, arity int) (Callable, bool) {
	return dc.functions.Lookup(uri, local, arity)
}

// Collation resolves a collation URI (empty string means "the default
// collation for this evaluation").
func (dc *DynamicContext) Collation(uri string) (collation.Collation, error) {
	if uri == "" {
		uri = dc.defaultCollURI
	}
	return dc.collations.Lookup(uri)
}

// DefaultCollation returns the default collation URI in effect.
func (dc *DynamicContext) DefaultCollation() string { return dc.defaultCollURI }

// Now returns the frozen instant and timezone offset (minutes east of
// UTC) for this evaluation.
func (dc *DynamicContext) Now() (time.Time, int) { return dc.now, dc.tz }

// BaseURI returns the implicit base URI.
func (dc *DynamicContext) BaseURI() string { return dc.implicitBase }

// Doc, DocAvailable and Collection delegate to the installed resolver,
// raising FODC0005 when none is installed or the resolver rejects the
// URI (spec §4.5 "Documents").
func (dc *DynamicContext) Doc(uri string) (nodeapi.Node, error) {
	if dc.resolver == nil {
		return nil, xpatherr.New(xpatherr.FODC0005, "no node resolver installed for doc(%q)", uri)
	}
	return dc.resolver.Doc(uri)
}

func (dc *DynamicContext) DocAvailable(uri string) bool {
	if dc.resolver == nil {
		return false
	}
	return dc.resolver.DocAvailable(uri)
}

func (dc *DynamicContext) Collection(uri string) ([]nodeapi.Node, error) {
	if dc.resolver == nil {
		return nil, xpatherr.New(xpatherr.FODC0005, "no node resolver installed for collection(%q)", uri)
	}
	return dc.resolver.Collection(uri)
}
