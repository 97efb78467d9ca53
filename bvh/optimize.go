package bvh

import (
	"container/heap"

	"github.com/rayforge/bvh/vmath"
)

// Optimize repairs the tree in place after the primitives named by changed
// have had their AABBs updated (spec.md §4.C). It refreshes the touched
// leaves, then walks their ancestors deepest-first, refitting each node's
// stored child AABBs and trying the four grandchild rotations that
// strictly reduce the local SAH-area sum at that node.
//
// changed may be empty (a no-op). Every index must address a primitive the
// tree was built over; an out-of-range index or a non-finite AABB from
// primitives is a precondition violation (spec.md §7) reported before any
// mutation — the tree is left unchanged.
func (t *Tree) Optimize(changed []int, primitives []Primitive, opts ...OptimizeOption) error {
	o := optimizeOptions{logger: t.logger}
	for _, opt := range opts {
		opt(&o)
	}
	if len(changed) == 0 || t.IsEmpty() {
		return nil
	}

	freshBoxes := make([]nodeAABB, 0, len(changed))
	for _, idx := range changed {
		if idx < 0 || idx >= t.n {
			return wrapIndexErr(idx, t.n)
		}
		box := primitives[idx].AABB()
		if !checkFinite(box) {
			return wrapNonFiniteErr("bvh.Optimize", idx)
		}
		freshBoxes = append(freshBoxes, nodeAABB{leaf: t.leafOf[idx], aabb: box})
	}

	for _, fb := range freshBoxes {
		t.nodes[fb.leaf].aabb = fb.aabb
	}

	w := newWorklist()
	for _, fb := range freshBoxes {
		for p := t.nodes[fb.leaf].parent; ; p = t.nodes[p].parent {
			if !w.push(p, t.nodes[p].depth) {
				break // already pending: its ancestors are too (or will be re-marked)
			}
			if p == t.nodes[p].parent {
				break // reached root (self-parent sentinel)
			}
		}
	}

	rotations := 0
	for w.Len() > 0 {
		p := w.pop()
		t.refit(p)
		if t.tryRotate(p) {
			rotations++
			t.refit(p)
			parent := t.nodes[p].parent
			if parent != p {
				w.push(parent, t.nodes[parent].depth)
			}
		}
	}
	// Rotations shift the depths of the swapped subtrees; restore exact
	// depths so the next call's deepest-first order holds.
	if rotations > 0 {
		recomputeDepths(t)
	}
	logf(o.logger, "bvh: optimize touched %d primitives, applied %d rotations", len(changed), rotations)
	return nil
}

type nodeAABB struct {
	leaf int
	aabb vmath.AABB
}

// refit recomputes P's two stored child AABBs from its children's current
// geometry (spec.md §4.C step 3, "Refit step").
func (t *Tree) refit(p int) {
	nd := &t.nodes[p]
	nd.leftAABB = t.nodes[nd.left].ownAABB()
	nd.rightAABB = t.nodes[nd.right].ownAABB()
}

func (t *Tree) costAt(p int) float64 {
	nd := &t.nodes[p]
	return t.buildOpts.intersectCost * (nd.leftAABB.SurfaceArea() + nd.rightAABB.SurfaceArea())
}

// tryRotate evaluates the four candidate rotations at p (spec.md §4.C step
// 3, "Rotation step") and applies the single best one if it strictly
// reduces the SAH-area sum at p. Returns whether a rotation was applied.
func (t *Tree) tryRotate(p int) bool {
	nd := &t.nodes[p]
	current := t.costAt(p)

	type candidate struct {
		cost  float64
		apply func()
	}
	var best *candidate
	consider := func(cost float64, apply func()) {
		if cost < current && (best == nil || cost < best.cost) {
			c := candidate{cost: cost, apply: apply}
			best = &c
		}
	}

	L, R := nd.left, nd.right
	if !t.nodes[R].isLeaf {
		RL, RR := t.nodes[R].left, t.nodes[R].right
		consider(t.swapCostLeftWithGrandchild(p, RL, R, true), func() { t.applySwap(p, L, RL, R, true) })
		consider(t.swapCostLeftWithGrandchild(p, RR, R, false), func() { t.applySwap(p, L, RR, R, false) })
	}
	if !t.nodes[L].isLeaf {
		LL, LR := t.nodes[L].left, t.nodes[L].right
		consider(t.swapCostRightWithGrandchild(p, LL, L, true), func() { t.applySwap(p, R, LL, L, true) })
		consider(t.swapCostRightWithGrandchild(p, LR, L, false), func() { t.applySwap(p, R, LR, L, false) })
	}

	if best == nil {
		return false
	}
	best.apply()
	return true
}

// swapCostLeftWithGrandchild evaluates swapping P's left child L with a
// grandchild G = R.left (useLeftSlot=true) or R.right (false), without
// mutating the tree.
func (t *Tree) swapCostLeftWithGrandchild(p, g, r int, useLeftSlot bool) float64 {
	gOwn := t.nodes[g].ownAABB()
	lOwn := t.nodes[t.nodes[p].left].ownAABB()
	var newR vmath.AABB
	if useLeftSlot {
		newR = lOwn.Union(t.nodes[r].rightAABB)
	} else {
		newR = t.nodes[r].leftAABB.Union(lOwn)
	}
	return t.buildOpts.intersectCost * (gOwn.SurfaceArea() + newR.SurfaceArea())
}

// swapCostRightWithGrandchild evaluates swapping P's right child R with a
// grandchild G = L.left (useLeftSlot=true) or L.right (false).
func (t *Tree) swapCostRightWithGrandchild(p, g, l int, useLeftSlot bool) float64 {
	gOwn := t.nodes[g].ownAABB()
	rOwn := t.nodes[t.nodes[p].right].ownAABB()
	var newL vmath.AABB
	if useLeftSlot {
		newL = rOwn.Union(t.nodes[l].rightAABB)
	} else {
		newL = t.nodes[l].leftAABB.Union(rOwn)
	}
	return t.buildOpts.intersectCost * (gOwn.SurfaceArea() + newL.SurfaceArea())
}

// applySwap performs one of the four rotations: moved is P's direct child
// being pushed down (L or R), g is the grandchild node index coming up to
// take moved's place at P, host is the sibling (R or L) that owns g and
// will receive moved in its place, and useLeftSlot selects which of host's
// two child slots g occupied.
func (t *Tree) applySwap(p, moved, g, host int, useLeftSlot bool) {
	movedParentSlotIsLeft := t.nodes[p].left == moved

	if movedParentSlotIsLeft {
		t.nodes[p].left = g
	} else {
		t.nodes[p].right = g
	}
	t.nodes[g].parent = p

	if useLeftSlot {
		t.nodes[host].left = moved
	} else {
		t.nodes[host].right = moved
	}
	t.nodes[moved].parent = host

	t.refit(host)
	t.refit(p)
}

// worklist is a max-heap of node indices ordered by depth (deepest first),
// as spec.md §4.C step 2 requires, with de-duplication so a node already
// queued is never queued twice.
type worklist struct {
	items   []wlItem
	pending map[int]bool
}

type wlItem struct {
	node, depth int
}

func newWorklist() *worklist {
	return &worklist{pending: make(map[int]bool)}
}

// push adds node to the worklist if it is not already pending. Returns
// whether it was actually added.
func (w *worklist) push(node, depth int) bool {
	if w.pending[node] {
		return false
	}
	w.pending[node] = true
	heap.Push(w, wlItem{node: node, depth: depth})
	return true
}

func (w *worklist) pop() int {
	it := heap.Pop(w).(wlItem)
	delete(w.pending, it.node)
	return it.node
}

// heap.Interface
func (w *worklist) Len() int            { return len(w.items) }
func (w *worklist) Less(i, j int) bool  { return w.items[i].depth > w.items[j].depth }
func (w *worklist) Swap(i, j int)       { w.items[i], w.items[j] = w.items[j], w.items[i] }
func (w *worklist) Push(x interface{})  { w.items = append(w.items, x.(wlItem)) }
func (w *worklist) Pop() interface{} {
	old := w.items
	n := len(old)
	it := old[n-1]
	w.items = old[:n-1]
	return it
}
