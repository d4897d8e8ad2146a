package betadiv

import (
	"fmt"
	"sort"
)

// NoDistance marks an undefined branch length. The root always carries it.
const NoDistance = -1.0

// NodeID addresses a node inside its Tree's arena.
type NodeID int

// NoNode is the null NodeID: the parent of the root, or the root of an
// empty tree.
const NoNode NodeID = -1

type node struct {
	name     string
	parent   NodeID
	children []NodeID
	dist     float64
	deleted  bool
}

// Tree is a rooted tree whose nodes live in a contiguous arena and refer to
// each other by index. Removing a node only unlinks it and marks its slot
// dead; the arena is released with the Tree.
type Tree struct {
	name  string
	nodes []node
	root  NodeID
	alive int
}

// NewTree returns a tree holding a single root node.
func NewTree(rootName string) *Tree {
	t := &Tree{root: NoNode}
	t.root = t.newNode(rootName, NoDistance)
	return t
}

func (t *Tree) newNode(name string, dist float64) NodeID {
	t.nodes = append(t.nodes, node{name: name, parent: NoNode, dist: dist})
	t.alive++
	return NodeID(len(t.nodes) - 1)
}

// AddChild creates a node under parent and returns its id. Use NoDistance
// when the branch length is unknown.
func (t *Tree) AddChild(parent NodeID, name string, dist float64) NodeID {
	t.mustLive(parent)
	id := t.newNode(name, dist)
	t.nodes[id].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

func (t *Tree) mustLive(id NodeID) {
	if id < 0 || int(id) >= len(t.nodes) || t.nodes[id].deleted {
		panic(fmt.Sprintf("betadiv: invalid node id %d", id))
	}
}

// Name returns the tree's name.
func (t *Tree) Name() string { return t.name }

// SetName sets the tree's name.
func (t *Tree) SetName(name string) { t.name = name }

// Root returns the root node, or NoNode if every node has been removed.
func (t *Tree) Root() NodeID { return t.root }

// SetRoot makes id the root: it is detached from its parent and its
// distance-to-parent becomes NoDistance.
func (t *Tree) SetRoot(id NodeID) {
	t.mustLive(id)
	if p := t.nodes[id].parent; p != NoNode {
		t.removeChild(p, id)
	}
	t.nodes[id].parent = NoNode
	t.nodes[id].dist = NoDistance
	t.root = id
}

// NumNodes returns the number of live nodes.
func (t *Tree) NumNodes() int { return t.alive }

func (t *Tree) NodeName(id NodeID) string { return t.nodes[id].name }

func (t *Tree) SetNodeName(id NodeID, name string) { t.nodes[id].name = name }

func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns the node's children in order. The slice must not be
// modified.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].children }

func (t *Tree) DistanceToParent(id NodeID) float64 { return t.nodes[id].dist }

func (t *Tree) SetDistanceToParent(id NodeID, dist float64) { t.nodes[id].dist = dist }

func (t *Tree) IsLeaf(id NodeID) bool { return len(t.nodes[id].children) == 0 }

func (t *Tree) IsRoot(id NodeID) bool { return t.nodes[id].parent == NoNode }

func (t *Tree) removeChild(parent, child NodeID) {
	kids := t.nodes[parent].children
	for i, c := range kids {
		if c == child {
			t.nodes[parent].children = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

// replaceChild puts newChild in oldChild's slot under parent, keeping the
// sibling order.
func (t *Tree) replaceChild(parent, oldChild, newChild NodeID) {
	for i, c := range t.nodes[parent].children {
		if c == oldChild {
			t.nodes[parent].children[i] = newChild
			t.nodes[newChild].parent = parent
			return
		}
	}
}

func (t *Tree) deleteNode(id NodeID) {
	n := &t.nodes[id]
	n.deleted = true
	n.parent = NoNode
	n.children = nil
	t.alive--
}

// Nodes returns every node of the subtree in pre-order.
func (t *Tree) Nodes(subtree NodeID) []NodeID {
	if subtree == NoNode {
		return nil
	}
	var out []NodeID
	stack := []NodeID{subtree}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, id)
		kids := t.nodes[id].children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// Leaves returns the leaves of the subtree, left to right.
func (t *Tree) Leaves(subtree NodeID) []NodeID {
	var out []NodeID
	for _, id := range t.Nodes(subtree) {
		if t.IsLeaf(id) {
			out = append(out, id)
		}
	}
	return out
}

// LeafNames returns the sorted, de-duplicated names of the subtree's leaves.
func (t *Tree) LeafNames(subtree NodeID) []string {
	seen := make(map[string]bool)
	var names []string
	for _, id := range t.Leaves(subtree) {
		name := t.nodes[id].name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// FindLeaf returns the first leaf with the given name.
func (t *Tree) FindLeaf(name string) (NodeID, bool) {
	for _, id := range t.Leaves(t.root) {
		if t.nodes[id].name == name {
			return id, true
		}
	}
	return NoNode, false
}

// PostOrder returns the subtree's nodes with every child before its parent.
func (t *Tree) PostOrder(subtree NodeID) []NodeID {
	if subtree == NoNode {
		return nil
	}
	var out []NodeID
	type frame struct {
		id   NodeID
		next int
	}
	stack := []frame{{id: subtree}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := t.nodes[top.id].children
		if top.next < len(kids) {
			child := kids[top.next]
			top.next++
			stack = append(stack, frame{id: child})
			continue
		}
		out = append(out, top.id)
		stack = stack[:len(stack)-1]
	}
	return out
}

// BreadthFirst returns the subtree's nodes level by level.
func (t *Tree) BreadthFirst(subtree NodeID) []NodeID {
	if subtree == NoNode {
		return nil
	}
	out := []NodeID{subtree}
	for i := 0; i < len(out); i++ {
		out = append(out, t.nodes[out[i]].children...)
	}
	return out
}

// pathToRoot lists id, its parent, ... up to and including the root.
func (t *Tree) pathToRoot(id NodeID) []NodeID {
	var path []NodeID
	for cur := id; cur != NoNode; cur = t.nodes[cur].parent {
		path = append(path, cur)
	}
	return path
}

// PhylogeneticDistance sums branch lengths along the path between a and b
// through their lowest common ancestor.
func (t *Tree) PhylogeneticDistance(a, b NodeID) float64 {
	pathA := t.pathToRoot(a)
	pathB := t.pathToRoot(b)

	// Walk down from the root while the paths agree.
	i, j := len(pathA)-1, len(pathB)-1
	for i >= 0 && j >= 0 && pathA[i] == pathB[j] {
		i--
		j--
	}

	var dist float64
	for k := 0; k <= i; k++ {
		dist += t.branchLength(pathA[k])
	}
	for k := 0; k <= j; k++ {
		dist += t.branchLength(pathB[k])
	}
	return dist
}

// DistanceToRoot sums branch lengths from id up to the root.
func (t *Tree) DistanceToRoot(id NodeID) float64 {
	var dist float64
	for cur := id; !t.IsRoot(cur); cur = t.nodes[cur].parent {
		dist += t.branchLength(cur)
	}
	return dist
}

func (t *Tree) branchLength(id NodeID) float64 {
	if d := t.nodes[id].dist; d != NoDistance {
		return d
	}
	return 0
}
