package nodeapi

import "sort"

// SortDocumentOrder sorts nodes into document order using the adapter's
// CompareDocumentOrder, then removes identical nodes.
func SortDocumentOrder(nodes []Node) ([]Node, error) {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		cmp, err := out[i].CompareDocumentOrder(out[j])
		if err != nil {
			sortErr = err
			return false
		}
		return cmp < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return dedup(out), nil
}

// dedup removes adjacent identical nodes from an already-ordered slice.
func dedup(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nodes
	}
	out := nodes[:1]
	for _, n := range nodes[1:] {
		if !Identical(out[len(out)-1], n) {
			out = append(out, n)
		}
	}
	return out
}

// Union returns the document-ordered, deduplicated union of node sets.
func Union(sets ...[]Node) ([]Node, error) {
	var all []Node
	for _, s := range sets {
		all = append(all, s...)
	}
	return SortDocumentOrder(all)
}

// Intersect returns nodes present in both a and b, in document order.
func Intersect(a, b []Node) ([]Node, error) {
	sa, err := SortDocumentOrder(a)
	if err != nil {
		return nil, err
	}
	var out []Node
	for _, n := range sa {
		for _, m := range b {
			if Identical(n, m) {
				out = append(out, n)
				break
			}
		}
	}
	return SortDocumentOrder(out)
}

// Except returns nodes of a that are not in b, in document order.
func Except(a, b []Node) ([]Node, error) {
	sa, err := SortDocumentOrder(a)
	if err != nil {
		return nil, err
	}
	var out []Node
	for _, n := range sa {
		found := false
		for _, m := range b {
			if Identical(n, m) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, n)
		}
	}
	return out, nil
}
