package bvh

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rayforge/bvh/vmath"
)

// triple is the auxiliary (index, aabb, centroid) record spec.md §4.B's
// builder algorithm sorts and bins, kept separate from node so the
// partitioning churn during construction never touches the tree itself.
type triple struct {
	index    int
	aabb     vmath.AABB
	centroid vmath.Vec3
}

// Build constructs a BVH from a slice of primitives using top-down binned
// SAH partitioning (spec.md §4.B). N=0 yields an empty tree; N=1 yields a
// single-leaf tree whose root is that leaf.
func Build(primitives []Primitive, opts ...BuildOption) (*Tree, error) {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(&o)
	}

	n := len(primitives)
	t := &Tree{
		n:         n,
		root:      -1,
		leafOf:    make([]int, n),
		buildOpts: o,
		logger:    o.logger,
	}
	if n == 0 {
		return t, nil
	}

	items := make([]triple, n)
	for i, p := range primitives {
		box := p.AABB()
		if !checkFinite(box) {
			return nil, wrapNonFiniteErr("bvh.Build", i)
		}
		items[i] = triple{index: i, aabb: box, centroid: box.Center()}
	}
	t.nodes = make([]node, 0, 2*n-1)

	b := &builder{tree: t, opts: o}
	root, _ := b.buildSubtree(items, 0, 0)
	t.root = root
	t.nodes[t.root].parent = t.root

	recomputeDepths(t)
	logf(o.logger, "bvh: built %d primitives into %d nodes (bins=%d)", n, len(t.nodes), o.bins)
	return t, nil
}

type builder struct {
	tree *Tree
	opts buildOptions
}

// buildSubtree implements spec.md §4.B step 3. It returns the node index it
// created and that node's AABB.
func (b *builder) buildSubtree(items []triple, parent, depth int) (int, vmath.AABB) {
	if len(items) == 1 {
		idx := b.tree.pushLeaf(parent, depth, items[0].aabb, items[0].index)
		return idx, items[0].aabb
	}

	centroidBox := vmath.Empty()
	for _, it := range items {
		centroidBox = centroidBox.UnionPoint(it.centroid)
	}

	axis := centroidBox.LargestAxis()
	extent := centroidBox.Size().Axis(axis)

	var mid int
	if extent <= 0 {
		mid = medianSplitByIndex(items)
	} else {
		k, ok := b.bestBinnedSplit(items, axis, centroidBox)
		if !ok {
			mid = medianSplitByIndex(items)
		} else {
			mid = partitionByBin(items, axis, centroidBox, k, b.opts.bins)
			if mid == 0 || mid == len(items) {
				mid = medianSplitByIndex(items)
			}
		}
	}

	idx := b.tree.pushInterior(parent, depth)

	// Parallel construction is only worth the goroutine overhead once a
	// subtree's primitive count clears parallelMinSize (spec.md §5); the
	// resulting node array is identical in shape either way since the two
	// halves write disjoint node-array regions via separate builder state
	// that gets spliced back in order.
	var leftIdx, rightIdx int
	var leftAABB, rightAABB vmath.AABB
	if b.opts.parallel && len(items) >= b.opts.parallelMinSize {
		leftIdx, leftAABB, rightIdx, rightAABB = b.buildChildrenParallel(items[:mid], items[mid:], idx, depth)
	} else {
		leftIdx, leftAABB = b.buildSubtree(items[:mid], idx, depth+1)
		rightIdx, rightAABB = b.buildSubtree(items[mid:], idx, depth+1)
	}

	b.tree.nodes[idx].left = leftIdx
	b.tree.nodes[idx].leftAABB = leftAABB
	b.tree.nodes[idx].right = rightIdx
	b.tree.nodes[idx].rightAABB = rightAABB

	return idx, leftAABB.Union(rightAABB)
}

// buildChildrenParallel builds the two halves in independent, self-contained
// builders (each with its own node slice and root-at-0) and splices the
// results into the shared tree's node array, shifting every internal index
// by the splice offset. The resulting shape is identical to what the
// sequential path would have produced for the same input ranges.
func (b *builder) buildChildrenParallel(left, right []triple, parent, depth int) (int, vmath.AABB, int, vmath.AABB) {
	leftSub := builder{tree: &Tree{nodes: make([]node, 0, 2*len(left)-1), leafOf: make([]int, len(b.tree.leafOf))}, opts: b.opts}
	rightSub := builder{tree: &Tree{nodes: make([]node, 0, 2*len(right)-1), leafOf: make([]int, len(b.tree.leafOf))}, opts: b.opts}

	var g errgroup.Group
	var leftRoot, rightRoot int
	var leftAABB, rightAABB vmath.AABB
	g.Go(func() error {
		leftRoot, leftAABB = leftSub.buildSubtree(left, 0, depth+1)
		return nil
	})
	g.Go(func() error {
		rightRoot, rightAABB = rightSub.buildSubtree(right, 0, depth+1)
		return nil
	})
	_ = g.Wait()

	leftRoot = spliceIn(b.tree, leftSub.tree.nodes, leftRoot)
	rightRoot = spliceIn(b.tree, rightSub.tree.nodes, rightRoot)

	b.tree.nodes[leftRoot].parent = parent
	b.tree.nodes[rightRoot].parent = parent
	return leftRoot, leftAABB, rightRoot, rightAABB
}

// spliceIn appends a self-contained subtree's node slice (root-relative
// indices, as produced by a sub-builder with tree.n == 0) onto dst, shifting
// every parent/child/leaf index by the append offset and updating dst's
// leafOf table. Returns the new absolute index of the spliced root.
func spliceIn(dst *Tree, src []node, localRoot int) int {
	offset := len(dst.nodes)
	for _, nd := range src {
		nd.parent += offset
		if nd.isLeaf {
			dst.leafOf[nd.primIndex] = len(dst.nodes)
		} else {
			nd.left += offset
			nd.right += offset
		}
		dst.nodes = append(dst.nodes, nd)
	}
	return localRoot + offset
}

func medianSplitByIndex(items []triple) int {
	sort.Slice(items, func(i, j int) bool { return items[i].index < items[j].index })
	return len(items) / 2
}

// bestBinnedSplit implements spec.md §4.B's binned SAH scoring: project
// centroids into B bins along axis, then score each of the B-1 internal
// boundaries by countL*areaL + countR*areaR, tie-breaking toward the
// smaller boundary index.
func (b *builder) bestBinnedSplit(items []triple, axis int, centroidBox vmath.AABB) (int, bool) {
	bins := b.opts.bins
	cmin := centroidBox.Min.Axis(axis)
	cmax := centroidBox.Max.Axis(axis)
	span := cmax - cmin

	binCount := make([]int, bins)
	binBox := make([]vmath.AABB, bins)
	for i := range binBox {
		binBox[i] = vmath.Empty()
	}

	for _, it := range items {
		bi := binIndex(it.centroid.Axis(axis), cmin, span, bins)
		binCount[bi]++
		binBox[bi] = binBox[bi].Union(it.aabb)
	}

	// Prefix (left of boundary k) and suffix (right of boundary k) sums.
	prefixCount := make([]int, bins+1)
	prefixBox := make([]vmath.AABB, bins+1)
	prefixBox[0] = vmath.Empty()
	for i := 0; i < bins; i++ {
		prefixCount[i+1] = prefixCount[i] + binCount[i]
		prefixBox[i+1] = prefixBox[i].Union(binBox[i])
	}
	suffixCount := make([]int, bins+1)
	suffixBox := make([]vmath.AABB, bins+1)
	suffixBox[bins] = vmath.Empty()
	for i := bins; i > 0; i-- {
		suffixCount[i-1] = suffixCount[i] + binCount[i-1]
		suffixBox[i-1] = suffixBox[i].Union(binBox[i-1])
	}

	bestK := -1
	bestCost := -1.0
	for k := 1; k < bins; k++ {
		countL, countR := prefixCount[k], suffixCount[k]
		if countL == 0 || countR == 0 {
			continue
		}
		cost := b.opts.intersectCost * (float64(countL)*prefixBox[k].SurfaceArea() + float64(countR)*suffixBox[k].SurfaceArea())
		if bestK == -1 || cost < bestCost {
			bestK = k
			bestCost = cost
		}
	}
	return bestK, bestK != -1
}

func binIndex(c, cmin, span float64, bins int) int {
	if span <= 0 {
		return 0
	}
	bi := int(float64(bins) * (c - cmin) / span)
	if bi < 0 {
		bi = 0
	}
	if bi >= bins {
		bi = bins - 1
	}
	return bi
}

// partitionByBin reorders items in place so every item whose bin is < k
// comes first; relative order within each side may change (spec.md §4.B
// explicitly permits this). Returns the split position.
func partitionByBin(items []triple, axis int, centroidBox vmath.AABB, k, bins int) int {
	cmin := centroidBox.Min.Axis(axis)
	span := centroidBox.Size().Axis(axis)

	i, j := 0, len(items)-1
	for i <= j {
		for i <= j && binIndex(items[i].centroid.Axis(axis), cmin, span, bins) < k {
			i++
		}
		for i <= j && binIndex(items[j].centroid.Axis(axis), cmin, span, bins) >= k {
			j--
		}
		if i < j {
			items[i], items[j] = items[j], items[i]
			i++
			j--
		}
	}
	return i
}

// recomputeDepths walks the tree from the root in a single pass, recorded
// by spec.md §4.B step 4 as a finalization step: depth(root)=0,
// depth(child)=depth(parent)+1.
func recomputeDepths(t *Tree) {
	if t.IsEmpty() {
		return
	}
	var walk func(idx, depth int)
	walk = func(idx, depth int) {
		t.nodes[idx].depth = depth
		nd := &t.nodes[idx]
		if nd.isLeaf {
			return
		}
		walk(nd.left, depth+1)
		walk(nd.right, depth+1)
	}
	walk(t.root, 0)
}
