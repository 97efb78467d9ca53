package bvh

import "github.com/rayforge/bvh/vmath"

// Traverse walks the pointer tree recursively and calls visit once for
// every leaf whose AABB the ray hits, in depth-first, left-first order
// (spec.md §6). The set of primitive indices this yields is a superset of
// a linear ray-vs-AABB scan: the BVH only ever prunes subtrees whose AABB
// the ray missed, never a primitive whose own AABB the ray actually hits.
func (t *Tree) Traverse(ray vmath.Ray, tMin, tMax float64, visit func(primitiveIndex int)) {
	if t.IsEmpty() {
		return
	}
	t.traverseNode(t.root, ray, tMin, tMax, visit)
}

func (t *Tree) traverseNode(idx int, ray vmath.Ray, tMin, tMax float64, visit func(primitiveIndex int)) {
	nd := &t.nodes[idx]
	if nd.isLeaf {
		if ray.IntersectsAABB(nd.aabb, tMin, tMax) {
			visit(nd.primIndex)
		}
		return
	}
	if ray.IntersectsAABB(nd.leftAABB, tMin, tMax) {
		t.traverseNode(nd.left, ray, tMin, tMax, visit)
	}
	if ray.IntersectsAABB(nd.rightAABB, tMin, tMax) {
		t.traverseNode(nd.right, ray, tMin, tMax, visit)
	}
}

// CandidatePrimitives collects every primitive index Traverse would visit,
// in the same order, for callers that prefer a slice over a callback.
func (t *Tree) CandidatePrimitives(ray vmath.Ray, tMin, tMax float64) []int {
	var out []int
	t.Traverse(ray, tMin, tMax, func(primIndex int) {
		out = append(out, primIndex)
	})
	return out
}
