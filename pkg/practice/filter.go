package practice

// FilterBySelection narrows a flattened tree to the subgraph related to the
// selected practice: the selection itself, every ancestor (any node from
// which the selection is reachable through dependency edges), and every
// descendant (the selection's transitive dependencies). Unrelated nodes are
// dropped; relative order of the survivors is preserved.
//
// If selectedID is not present in flat — typically stale selection state
// after a data refresh — the original slice is returned unfiltered. The
// filter only drives optional visual narrowing, so failing open beats
// blanking the view.
func FilterBySelection(flat []*Node, selectedID string) []*Node {
	byID := make(map[string]*Node, len(flat))
	for _, n := range flat {
		byID[n.ID] = n
	}
	if _, ok := byID[selectedID]; !ok {
		return flat
	}

	keep := map[string]struct{}{selectedID: {}}

	// Descendants: DFS over dependency edges with a visited set, since
	// shared dependencies make the flat tree a DAG.
	var markDescendants func(id string)
	markDescendants = func(id string) {
		n, ok := byID[id]
		if !ok {
			return
		}
		for _, dep := range n.Dependencies {
			if _, seen := keep[dep.ID]; seen {
				continue
			}
			keep[dep.ID] = struct{}{}
			markDescendants(dep.ID)
		}
	}
	markDescendants(selectedID)

	// Ancestors: nodes from which the selection is reachable. Tracked in a
	// separate set so a node that merely shares a descendant with the
	// selection is not mistaken for an ancestor. The flat slice is small
	// enough that the quadratic sweep is irrelevant next to readability.
	anc := map[string]struct{}{selectedID: {}}
	for changed := true; changed; {
		changed = false
		for _, n := range flat {
			if _, ok := anc[n.ID]; ok {
				continue
			}
			for _, dep := range n.Dependencies {
				if _, ok := anc[dep.ID]; ok {
					anc[n.ID] = struct{}{}
					changed = true
					break
				}
			}
		}
	}
	for id := range anc {
		keep[id] = struct{}{}
	}

	filtered := make([]*Node, 0, len(keep))
	for _, n := range flat {
		if _, kept := keep[n.ID]; kept {
			filtered = append(filtered, n)
		}
	}
	return filtered
}
