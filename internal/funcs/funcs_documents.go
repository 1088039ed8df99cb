package funcs

import (
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/xdm"
)

func registerDocumentFuncs(b *Builder) {
	b.fn("doc", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		uri, ok, err := singleAtomic(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		n, err := dc.Doc(atomicString(uri))
		if err != nil {
			return nil, err
		}
		return xdm.NewSequence(xdm.NewNodeItem(n)), nil
	})
	b.fn("doc-available", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		uri, ok, err := singleAtomic(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return boolResult(false), nil
		}
		return boolResult(dc.DocAvailable(atomicString(uri))), nil
	})
	b.fn("collection", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		uri := ""
		if len(args) == 1 {
			a, ok, err := singleAtomic(args[0])
			if err != nil {
				return nil, err
			}
			if ok {
				uri = atomicString(a)
			}
		}
		nodes, err := dc.Collection(uri)
		if err != nil {
			return nil, err
		}
		out := make(xdm.Sequence, len(nodes))
		for i, n := range nodes {
			out[i] = xdm.NewNodeItem(n)
		}
		return out, nil
	})
}
