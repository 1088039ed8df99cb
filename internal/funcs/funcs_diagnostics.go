package funcs

import (
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func registerDiagnosticFuncs(b *Builder) {
	b.fn("error", 0, 3, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		code := string(xpatherr.FOER0000)
		if len(args) >= 1 && len(args[0]) > 0 {
			a, _, err := singleAtomic(args[0])
			if err != nil {
				return nil, err
			}
			if a.Kind == xdm.KQName {
				code = a.QNameVal().Local
			} else {
				code = atomicString(a)
			}
		}
		description := "fn:error() raised"
		if len(args) >= 2 {
			s, err := stringArg(args[1], description)
			if err != nil {
				return nil, err
			}
			description = s
		}
		return nil, xpatherr.New(xpatherr.Code(code), "%s", description)
	})
	b.fn("trace", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		return args[0], nil
	})
}
