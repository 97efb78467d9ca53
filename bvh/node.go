package bvh

import "github.com/rayforge/bvh/vmath"

// node is the tagged variant described in spec.md §3: a leaf carries a
// primitive index, an interior node carries the AABBs and indices of its
// two children. Both shapes live in the same struct inside a single
// growable array so that rotations are local index rewrites with no
// pointer chasing (spec.md §9's "tagged variant" and "AABB duplication at
// interior nodes" design notes).
type node struct {
	parent int
	depth  int
	isLeaf bool

	// leaf fields
	aabb      vmath.AABB
	primIndex int

	// interior fields: the node's own AABB is the union of these two,
	// recomputed from Union(leftAABB, rightAABB) whenever needed rather
	// than stored a third time.
	leftAABB, rightAABB vmath.AABB
	left, right         int
}

func (n *node) ownAABB() vmath.AABB {
	if n.isLeaf {
		return n.aabb
	}
	return n.leftAABB.Union(n.rightAABB)
}

// Tree is a pointer-linked (index-linked) bounding volume hierarchy over a
// fixed set of primitives, built once by Build and thereafter mutated only
// by Optimize. The zero value is not usable; construct with Build.
type Tree struct {
	nodes     []node
	root      int   // -1 for an empty tree, else always 0
	n         int   // number of primitives
	leafOf    []int // primIndex -> node index, len == n
	buildOpts buildOptions
	logger    Logger
}

// NumPrimitives returns the number of primitives the tree was built over.
func (t *Tree) NumPrimitives() int { return t.n }

// NumNodes returns the total number of nodes currently in the tree
// (leaves + interior). For n primitives this is 2n-1 once built, 0 for an
// empty tree.
func (t *Tree) NumNodes() int { return len(t.nodes) }

// IsEmpty reports whether the tree holds zero primitives.
func (t *Tree) IsEmpty() bool { return t.root < 0 }

func (t *Tree) pushLeaf(parent, depth int, aabb vmath.AABB, primIndex int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{
		parent:    parent,
		depth:     depth,
		isLeaf:    true,
		aabb:      aabb,
		primIndex: primIndex,
	})
	t.leafOf[primIndex] = idx
	return idx
}

func (t *Tree) pushInterior(parent, depth int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{parent: parent, depth: depth})
	return idx
}
