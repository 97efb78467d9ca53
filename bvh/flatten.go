package bvh

import "github.com/rayforge/bvh/vmath"

// FlatNode is the fixed-size record spec.md §4.D describes: an AABB plus
// entry/exit/primitive indices. A leaf has EntryIndex == -1 and
// PrimitiveIndex set to the host's primitive index; an interior node has
// PrimitiveIndex == -1 and EntryIndex/ExitIndex set to the "hit"/"miss"
// targets for stackless traversal.
type FlatNode struct {
	AABB           vmath.AABB
	EntryIndex     int
	ExitIndex      int
	PrimitiveIndex int
}

// FlatBVH is an immutable, pointer-free snapshot of a Tree, laid out for
// stackless traversal (spec.md §4.D). Flattening a Tree never mutates it.
type FlatBVH struct {
	Nodes []FlatNode
}

// Flatten converts the pointer tree into a FlatBVH via a pre-order walk,
// emitting entry/exit sentinels per spec.md §4.D's construction algorithm.
// The tree remains usable afterward.
func (t *Tree) Flatten() *FlatBVH {
	f := &FlatBVH{}
	if t.IsEmpty() {
		return f
	}
	f.Nodes = make([]FlatNode, 0, len(t.nodes))
	flattenNode(t, t.root, -1, &f.Nodes)
	return f
}

// flattenNode emits the subtree rooted at idx, where next is the flat index
// to resume at once this subtree is exhausted (spec.md §4.D: "the position
// that R will occupy" for L's next, and the ancestor's next for R's).
func flattenNode(t *Tree, idx, next int, out *[]FlatNode) {
	nd := &t.nodes[idx]
	if nd.isLeaf {
		*out = append(*out, FlatNode{
			AABB:           nd.aabb,
			EntryIndex:     -1,
			ExitIndex:      next,
			PrimitiveIndex: nd.primIndex,
		})
		return
	}

	cursor := len(*out)
	*out = append(*out, FlatNode{
		AABB:           nd.leftAABB.Union(nd.rightAABB),
		EntryIndex:     cursor + 1,
		ExitIndex:      next,
		PrimitiveIndex: -1,
	})

	// The right subtree will start right after the left subtree finishes
	// emitting; we don't know that position until the left walk is done,
	// so we reserve the slot by recursing and let the left walk's own next
	// pointer resolve to len(*out) at the moment it finishes.
	flattenNode(t, nd.left, -1, out)
	rightStart := len(*out)
	fixupExit(*out, cursor+1, rightStart, rightStart)
	flattenNode(t, nd.right, next, out)
}

// fixupExit patches the exit index of every node emitted for the left
// subtree (the half-open range [from, to) in out) that still carries the
// placeholder -1 left by flattenNode, pointing it at rightStart — "the
// position that R will occupy" from spec.md §4.D.
func fixupExit(out []FlatNode, from, to, rightStart int) {
	for i := from; i < to; i++ {
		if out[i].ExitIndex == -1 {
			out[i].ExitIndex = rightStart
		}
	}
}

// FlatTraverse runs the stackless traversal algorithm from spec.md §4.D:
// start at index 0, follow EntryIndex on an AABB hit, ExitIndex on a miss
// or once a leaf has been tested, until the index sentinel -1 is reached.
// visit is called once per leaf whose AABB the ray hits, in traversal
// order, and should test the ray against the actual primitive.
func (f *FlatBVH) FlatTraverse(ray vmath.Ray, tMin, tMax float64, visit func(primitiveIndex int)) {
	if len(f.Nodes) == 0 {
		return
	}
	idx := 0
	for idx != -1 {
		nd := &f.Nodes[idx]
		if nd.EntryIndex < 0 {
			if ray.IntersectsAABB(nd.AABB, tMin, tMax) {
				visit(nd.PrimitiveIndex)
			}
			idx = nd.ExitIndex
			continue
		}
		if ray.IntersectsAABB(nd.AABB, tMin, tMax) {
			idx = nd.EntryIndex
		} else {
			idx = nd.ExitIndex
		}
	}
}

// CandidatePrimitives collects every primitive index FlatTraverse would
// visit, in the same depth-first left-first order as Tree.Traverse.
func (f *FlatBVH) CandidatePrimitives(ray vmath.Ray, tMin, tMax float64) []int {
	var out []int
	f.FlatTraverse(ray, tMin, tMax, func(primIndex int) {
		out = append(out, primIndex)
	})
	return out
}
