package funcs

import (
	"net/url"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

// registerURIFuncs wires fn:resolve-uri and fn:static-base-uri on top of
// the standard library's net/url: no URI-resolution library appears
// anywhere in the reference stack, so RFC 3986 resolution is implemented
// against net/url.URL.ResolveReference directly (see design notes).
func registerURIFuncs(b *Builder) {
	b.fn("resolve-uri", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		rel, ok, err := singleAtomic(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		base := dc.BaseURI()
		if len(args) == 2 {
			base, err = stringArg(args[1], base)
			if err != nil {
				return nil, err
			}
		}
		resolved, err := resolveURI(base, atomicString(rel))
		if err != nil {
			return nil, xpatherr.New(xpatherr.FORG0001, "invalid URI: %s", err)
		}
		return xdm.NewSequence(xdm.NewAnyURI(resolved)), nil
	})
	b.fn("static-base-uri", 0, 0, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		base := dc.BaseURI()
		if base == "" {
			return nil, nil
		}
		return xdm.NewSequence(xdm.NewAnyURI(base)), nil
	})
}

func resolveURI(base, rel string) (string, error) {
	relURL, err := url.Parse(rel)
	if err != nil {
		return "", err
	}
	if relURL.IsAbs() || base == "" {
		return relURL.String(), nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(relURL).String(), nil
}
