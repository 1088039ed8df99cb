package funcs

import (
	"strings"

	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/xdm"
	"github.com/platynui/xpath2/internal/xpatherr"
)

func registerQNameFuncs(b *Builder) {
	b.fn("QName", 2, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		uri, err := stringArg(args[0], "")
		if err != nil {
			return nil, err
		}
		lexical, err := stringArg(args[1], "")
		if err != nil {
			return nil, err
		}
		prefix, local, err := splitLexicalQName(lexical)
		if err != nil {
			return nil, err
		}
		if prefix != "" && uri == "" {
			return nil, xpatherr.New(xpatherr.FORG0001, "fn:QName() prefix %q used with no namespace URI", prefix)
		}
		return xdm.NewSequence(xdm.NewQName(xdm.QName{URI: uri, Prefix: prefix, Local: local})), nil
	})
	b.fn("resolve-QName", 2, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		lexical, ok, err := singleAtomic(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		n, ok, err := singleNode(args[1])
		if err != nil || !ok {
			return nil, err
		}
		prefix, local, err := splitLexicalQName(atomicString(lexical))
		if err != nil {
			return nil, err
		}
		uri, err := resolveNamespace(n, prefix)
		if err != nil {
			return nil, err
		}
		return xdm.NewSequence(xdm.NewQName(xdm.QName{URI: uri, Prefix: prefix, Local: local})), nil
	})
	b.fn("prefix-from-QName", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		q, ok, err := qnameArg(args[0])
		if err != nil || !ok {
			return nil, err
		}
		if q.Prefix == "" {
			return nil, nil
		}
		return xdm.NewSequence(xdm.NewStringKind(xdm.KNCName, q.Prefix)), nil
	})
	b.fn("local-name-from-QName", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		q, ok, err := qnameArg(args[0])
		if err != nil || !ok {
			return nil, err
		}
		return xdm.NewSequence(xdm.NewStringKind(xdm.KNCName, q.Local)), nil
	})
	b.fn("namespace-uri-from-QName", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		q, ok, err := qnameArg(args[0])
		if err != nil || !ok {
			return nil, err
		}
		return xdm.NewSequence(xdm.NewAnyURI(q.URI)), nil
	})
}

func qnameArg(seq xdm.Sequence) (xdm.QName, bool, error) {
	a, ok, err := singleAtomic(seq)
	if err != nil || !ok {
		return xdm.QName{}, false, err
	}
	if a.Kind != xdm.KQName {
		return xdm.QName{}, false, xpatherr.New(xpatherr.XPTY0004, "expected an xs:QName")
	}
	return a.QNameVal(), true, nil
}

func splitLexicalQName(lexical string) (prefix, local string, err error) {
	if i := strings.IndexByte(lexical, ':'); i >= 0 {
		return lexical[:i], lexical[i+1:], nil
	}
	return "", lexical, nil
}

// resolveNamespace looks up prefix in n's in-scope namespace bindings (the
// xml:/xmlns axis exposed via nodeapi.Namespace nodes), per fn:resolve-QName's
// contract of resolving against the node's namespaces rather than the
// static context.
func resolveNamespace(n nodeapi.Node, prefix string) (string, error) {
	for cur := n; cur != nil; {
		for _, ns := range cur.Namespaces() {
			name, _ := ns.Name()
			if name.Local == prefix {
				return ns.StringValue(), nil
			}
		}
		p, has := cur.Parent()
		if !has {
			break
		}
		cur = p
	}
	if prefix == "" {
		return "", nil
	}
	return "", xpatherr.New(xpatherr.FOER0000, "no namespace binding for prefix %q", prefix)
}
