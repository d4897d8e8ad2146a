package betadiv

import "sort"

// Project prunes the tree down to the leaves whose names are not in remove,
// then collapses every originally-internal node left with fewer than two
// children. Branch lengths along a collapsed path are summed onto the
// surviving child, so path lengths between retained leaves are unchanged.
//
// If every leaf is removed, the tree keeps a single childless root. If the
// root itself is a leaf named in remove, the tree becomes empty (Root
// returns NoNode).
func (t *Tree) Project(remove map[string]bool) {
	if t.root == NoNode {
		return
	}

	// Nodes that were internal before pruning. A childless node outside
	// this set is a retained leaf, not a leftover.
	internal := make(map[NodeID]bool)
	for _, id := range t.Nodes(t.root) {
		if !t.IsLeaf(id) {
			internal[id] = true
		}
	}

	// Phase 1: drop the requested leaves.
	for _, leaf := range t.Leaves(t.root) {
		if !remove[t.nodes[leaf].name] {
			continue
		}
		if leaf == t.root {
			t.deleteNode(leaf)
			t.root = NoNode
			return
		}
		t.removeChild(t.nodes[leaf].parent, leaf)
		t.deleteNode(leaf)
	}

	// Phase 2: collapse degenerate nodes, level by level from the leaves up.
	frontier := t.Leaves(t.root)
	for len(frontier) > 0 {
		next := make(map[NodeID]bool)
		for _, id := range frontier {
			if t.nodes[id].deleted {
				continue
			}
			if p := t.nodes[id].parent; p != NoNode {
				next[p] = true
			}
			if !internal[id] {
				continue
			}

			switch len(t.nodes[id].children) {
			case 0:
				if t.IsRoot(id) {
					// Lone root; nothing left to hang it on.
					continue
				}
				t.removeChild(t.nodes[id].parent, id)
				delete(next, id)
				t.deleteNode(id)

			case 1:
				child := t.nodes[id].children[0]
				if t.IsRoot(id) {
					t.nodes[child].parent = NoNode
					t.nodes[child].dist = NoDistance
					t.root = child
				} else {
					if t.nodes[child].dist != NoDistance && t.nodes[id].dist != NoDistance {
						t.nodes[child].dist += t.nodes[id].dist
					}
					t.replaceChild(t.nodes[id].parent, id, child)
				}
				delete(next, id)
				t.deleteNode(id)
			}
		}

		frontier = frontier[:0]
		for id := range next {
			frontier = append(frontier, id)
		}
		sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })
	}
}
