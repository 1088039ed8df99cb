package funcs

import (
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
)

// registerCollationFuncs registers the one collation-introspection
// function the standard library exposes as an XPath callable; collation
// lookup itself (by URI, for the `collation` argument most string
// functions accept) lives in the dynamic context, not here.
func registerCollationFuncs(b *Builder) {
	b.fn("default-collation", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return xdm.NewSequence(xdm.NewAnyURI(dc.DefaultCollation())), nil
	})
}
