package funcs

import (
	"github.com/platynui/xpath2/internal/dynctx"
	"github.com/platynui/xpath2/internal/nodeapi"
	"github.com/platynui/xpath2/internal/xdm"
)

func registerNodeFuncs(b *Builder) {
	b.fn("name", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		seq, err := contextSeq(dc, args, 0)
		if err != nil {
			return nil, err
		}
		n, ok, err := singleNode(seq)
		if err != nil || !ok {
			return strResult(""), err
		}
		return strResult(displayName(n)), nil
	})
	b.fn("local-name", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		seq, err := contextSeq(dc, args, 0)
		if err != nil {
			return nil, err
		}
		n, ok, err := singleNode(seq)
		if err != nil || !ok {
			return strResult(""), err
		}
		name, has := n.Name()
		if !has {
			return strResult(""), nil
		}
		return strResult(name.Local), nil
	})
	b.fn("namespace-uri", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		seq, err := contextSeq(dc, args, 0)
		if err != nil {
			return nil, err
		}
		n, ok, err := singleNode(seq)
		if err != nil || !ok {
			return strResult(""), err
		}
		name, has := n.Name()
		if !has {
			return strResult(""), nil
		}
		return strResult(name.URI), nil
	})
	b.fn("node-name", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		seq, err := contextSeq(dc, args, 0)
		if err != nil {
			return nil, err
		}
		n, ok, err := singleNode(seq)
		if err != nil || !ok {
			return nil, err
		}
		name, has := n.Name()
		if !has {
			return nil, nil
		}
		return xdm.NewSequence(xdm.NewQName(xdm.QName{URI: name.URI, Local: name.Local})), nil
	})
	b.fn("root", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		seq, err := contextSeq(dc, args, 0)
		if err != nil {
			return nil, err
		}
		n, ok, err := singleNode(seq)
		if err != nil || !ok {
			return nil, err
		}
		cur := n
		for {
			p, has := cur.Parent()
			if !has {
				break
			}
			cur = p
		}
		return xdm.NewSequence(xdm.NewNodeItem(cur)), nil
	})
	b.fn("base-uri", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		seq, err := contextSeq(dc, args, 0)
		if err != nil {
			return nil, err
		}
		n, ok, err := singleNode(seq)
		if err != nil || !ok {
			return nil, err
		}
		uri, has := n.BaseURI()
		if !has {
			return nil, nil
		}
		return xdm.NewSequence(xdm.NewAnyURI(uri)), nil
	})
	b.fn("document-uri", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		n, ok, err := singleNode(args[0])
		if err != nil || !ok {
			return nil, err
		}
		uri, has := n.DocumentURI()
		if !has {
			return nil, nil
		}
		return xdm.NewSequence(xdm.NewAnyURI(uri)), nil
	})
	b.fn("nilled", 1, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		_, ok, err := singleNode(args[0])
		if err != nil || !ok {
			return nil, err
		}
		return boolResult(false), nil
	})
	b.fn("data", 0, 1, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		seq, err := contextSeq(dc, args, 0)
		if err != nil {
			return nil, err
		}
		out := make(xdm.Sequence, len(seq))
		for i, item := range seq {
			out[i] = xdm.NewAtomicItem(xdm.AtomizeItem(item))
		}
		return out, nil
	})
	b.fn("lang", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		testLang, err := stringArg(args[0], "")
		if err != nil {
			return nil, err
		}
		seq, err := contextSeq(dc, args, 1)
		if err != nil {
			return nil, err
		}
		n, ok, err := singleNode(seq)
		if err != nil || !ok {
			return boolResult(false), err
		}
		return boolResult(matchesLang(n, testLang)), nil
	})
	b.fn("id", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		ids, err := idTokens(args[0])
		if err != nil {
			return nil, err
		}
		root, err := idSearchRoot(dc, args, 1)
		if err != nil || root == nil {
			return nil, err
		}
		return findByAttr(root, ids, "id"), nil
	})
	b.fn("idref", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		ids, err := idTokens(args[0])
		if err != nil {
			return nil, err
		}
		root, err := idSearchRoot(dc, args, 1)
		if err != nil || root == nil {
			return nil, err
		}
		return findByIdref(root, ids), nil
	})
	b.fn("element-with-id", 1, 2, func(dc *dynctx.DynamicContext, args []xdm.Sequence) (xdm.Sequence, error) {
		ids, err := idTokens(args[0])
		if err != nil {
			return nil, err
		}
		root, err := idSearchRoot(dc, args, 1)
		if err != nil || root == nil {
			return nil, err
		}
		return findByAttr(root, ids, "id"), nil
	})
}

// displayName derives fn:name()'s prefixed form by scanning the node's own
// in-scope namespace bindings for the one matching its expanded name's URI;
// falls back to the bare local name when no binding is found (no name at
// all yields "").
func displayName(n nodeapi.Node) string {
	name, has := n.Name()
	if !has {
		return ""
	}
	if name.URI == "" {
		return name.Local
	}
	for _, ns := range n.Namespaces() {
		nsName, ok := ns.Name()
		if !ok {
			continue
		}
		if ns.StringValue() == name.URI {
			if nsName.Local == "" {
				return name.Local
			}
			return nsName.Local + ":" + name.Local
		}
	}
	return name.Local
}

// matchesLang implements fn:lang's xml:lang search: walk up from n looking
// for an xml:lang attribute, compare case-insensitively, accepting either
// an exact match or testLang as a prefix of the found value up to a '-'.
func matchesLang(n nodeapi.Node, testLang string) bool {
	const xmlNS = "http://www.w3.org/XML/1998/namespace"
	cur := n
	for cur != nil {
		if attr, ok := cur.AttributeByName(nodeapi.ExpandedName{URI: xmlNS, Local: "lang"}); ok {
			return langSubtagMatches(attr.StringValue(), testLang)
		}
		p, has := cur.Parent()
		if !has {
			break
		}
		cur = p
	}
	return false
}

func langSubtagMatches(value, testLang string) bool {
	if testLang == "" {
		return false
	}
	if equalFold(value, testLang) {
		return true
	}
	if len(value) > len(testLang) && value[len(testLang)] == '-' {
		return equalFold(value[:len(testLang)], testLang)
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func idTokens(seq xdm.Sequence) ([]string, error) {
	var out []string
	for _, item := range seq {
		a := xdm.AtomizeItem(item)
		s := atomicString(a)
		for _, tok := range splitWhitespace(s) {
			out = append(out, tok)
		}
	}
	return out, nil
}

func splitWhitespace(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if isSpace {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// idSearchRoot resolves fn:id/fn:idref/fn:element-with-id's implicit
// second argument: the supplied node's owning document, or the context
// item's document when omitted.
func idSearchRoot(dc *dynctx.DynamicContext, args []xdm.Sequence, i int) (nodeapi.Node, error) {
	seq, err := contextSeq(dc, args, i)
	if err != nil {
		return nil, err
	}
	n, ok, err := singleNode(seq)
	if err != nil || !ok {
		return nil, err
	}
	cur := n
	for {
		p, has := cur.Parent()
		if !has {
			return cur, nil
		}
		cur = p
	}
}

// findByAttr/findByIdref are a best-effort search for conventionally named
// ID/IDREF attributes, the engine having no schema-validation support to
// derive true xs:ID/xs:IDREF typing (spec's schema Non-goal).
func findByAttr(root nodeapi.Node, ids []string, attrLocal string) xdm.Sequence {
	var out xdm.Sequence
	walk(root, func(n nodeapi.Node) {
		if n.Kind() != nodeapi.Element {
			return
		}
		for _, attr := range n.Attributes() {
			name, ok := attr.Name()
			if !ok || name.Local != attrLocal {
				continue
			}
			if containsString(ids, attr.StringValue()) {
				out = append(out, xdm.NewNodeItem(n))
			}
		}
	})
	return out
}

func findByIdref(root nodeapi.Node, ids []string) xdm.Sequence {
	var out xdm.Sequence
	walk(root, func(n nodeapi.Node) {
		if n.Kind() != nodeapi.Element {
			return
		}
		for _, attr := range n.Attributes() {
			name, ok := attr.Name()
			if !ok || (name.Local != "idref" && name.Local != "idrefs") {
				continue
			}
			for _, tok := range splitWhitespace(attr.StringValue()) {
				if containsString(ids, tok) {
					out = append(out, xdm.NewNodeItem(n))
					return
				}
			}
		}
	})
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func walk(n nodeapi.Node, f func(nodeapi.Node)) {
	f(n)
	for _, c := range n.Children() {
		walk(c, f)
	}
}
