package funcs

import (
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
)

func registerBooleanFuncs(b *Builder) {
	b.fn("true", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return boolResult(true), nil
	})
	b.fn("false", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return boolResult(false), nil
	})
	b.fn("not", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		ok, err := xdm.EBV(args[0])
		if err != nil {
			return nil, err
		}
		return boolResult(!ok), nil
	})
	b.fn("boolean", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		ok, err := xdm.EBV(args[0])
		if err != nil {
			return nil, err
		}
		return boolResult(ok), nil
	})
}
