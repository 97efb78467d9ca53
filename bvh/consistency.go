package bvh

import "github.com/rayforge/bvh/vmath"

// aabbEpsilon absorbs floating point drift accumulated across repeated
// unions and rotations when checking that a stored AABB still equals the
// union it is supposed to represent.
const aabbEpsilon = 1e-6

func aabbApproxEqual(a, b vmath.AABB, eps float64) bool {
	return a.ContainsBox(b, eps) && b.ContainsBox(a, eps)
}

// IsConsistent verifies invariants 1-3 and 5 from spec.md §3 (tree shape,
// parent/child consistency, AABB containment, and primitive coverage).
// Invariant 4 (depth) is explicitly advisory there and is not checked.
//
// primitives may be nil to skip the "leaf AABB contains the primitive's
// current AABB" check (invariant 3's second clause), useful for verifying
// shape alone without a live primitive slice at hand.
func (t *Tree) IsConsistent(primitives []Primitive) bool {
	if t.IsEmpty() {
		return t.n == 0 && len(t.nodes) == 0
	}
	if len(t.nodes) != 2*t.n-1 {
		return false
	}

	visited := make([]bool, len(t.nodes))
	primSeen := make([]bool, t.n)
	leafCount, interiorCount := 0, 0

	var walk func(idx, expectedParent int) (vmath.AABB, bool)
	walk = func(idx, expectedParent int) (vmath.AABB, bool) {
		if idx < 0 || idx >= len(t.nodes) || visited[idx] {
			return vmath.AABB{}, false
		}
		visited[idx] = true
		nd := &t.nodes[idx]
		if nd.parent != expectedParent {
			return vmath.AABB{}, false
		}

		if nd.isLeaf {
			leafCount++
			if nd.primIndex < 0 || nd.primIndex >= t.n || primSeen[nd.primIndex] {
				return vmath.AABB{}, false
			}
			primSeen[nd.primIndex] = true
			if primitives != nil && !nd.aabb.ContainsBox(primitives[nd.primIndex].AABB(), aabbEpsilon) {
				return vmath.AABB{}, false
			}
			return nd.aabb, true
		}

		interiorCount++
		leftActual, ok := walk(nd.left, idx)
		if !ok {
			return vmath.AABB{}, false
		}
		rightActual, ok := walk(nd.right, idx)
		if !ok {
			return vmath.AABB{}, false
		}
		if !aabbApproxEqual(nd.leftAABB, leftActual, aabbEpsilon) || !aabbApproxEqual(nd.rightAABB, rightActual, aabbEpsilon) {
			return vmath.AABB{}, false
		}
		return leftActual.Union(rightActual), true
	}

	if _, ok := walk(t.root, t.root); !ok {
		return false
	}
	if leafCount != t.n || interiorCount != t.n-1 {
		return false
	}
	for _, seen := range primSeen {
		if !seen {
			return false
		}
	}
	return true
}
