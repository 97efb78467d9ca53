package bvh_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayforge/bvh/bvh"
	"github.com/rayforge/bvh/internal/bench"
	"github.com/rayforge/bvh/vmath"
)

func TestOptimizeNoOpOnEmptyChanged(t *testing.T) {
	cubes := bench.RandomCubes(50, 1, 10)
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	err = tree.Optimize(nil, prims)
	require.NoError(t, err)
	assert.True(t, tree.IsConsistent(prims))
}

func TestOptimizeRejectsOutOfRangeIndex(t *testing.T) {
	cubes := bench.RandomCubes(10, 2, 10)
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	err = tree.Optimize([]int{50}, prims)
	require.Error(t, err)
	assert.ErrorIs(t, err, bvh.ErrIndexOutOfRange)
	// The tree must be left unchanged by a rejected precondition.
	assert.True(t, tree.IsConsistent(prims))
}

func TestOptimizeRejectsNonFiniteAABB(t *testing.T) {
	cubes := bench.RandomCubes(10, 3, 10)
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	cubes[0].Center = vmath.NewVec3(math.NaN(), 0, 0)
	err = tree.Optimize([]int{0}, prims)
	require.Error(t, err)
	assert.ErrorIs(t, err, bvh.ErrNonFiniteAABB)
}

// Moving primitives and calling Optimize must keep every leaf's AABB large
// enough to contain the primitive's new geometry, and every interior node's
// stored child AABBs consistent with its children (spec.md §3 invariants).
func TestOptimizeRefitsAfterMove(t *testing.T) {
	cubes := bench.RandomCubes(2000, 11, 50)
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(55))
	moved := make([]int, 0, 200)
	for i := 0; i < 200; i++ {
		idx := rnd.Intn(len(cubes))
		cubes[idx].Translate(vmath.NewVec3(rnd.Float64()*10-5, rnd.Float64()*10-5, rnd.Float64()*10-5))
		moved = append(moved, idx)
	}

	err = tree.Optimize(moved, prims)
	require.NoError(t, err)
	assert.True(t, tree.IsConsistent(prims))
}

// Property 6 (spec.md §8): the tree's total SAH cost must never increase
// across a sequence of Optimize calls, since a rotation is only applied
// when it strictly lowers the local cost.
func TestOptimizeNeverIncreasesTotalCost(t *testing.T) {
	cubes := bench.RandomCubes(3000, 12, 60)
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(99))
	prevCost := tree.TotalCost()
	for round := 0; round < 20; round++ {
		moved := make([]int, 0, 100)
		for i := 0; i < 100; i++ {
			idx := rnd.Intn(len(cubes))
			cubes[idx].Translate(vmath.NewVec3(rnd.Float64()*20-10, rnd.Float64()*20-10, rnd.Float64()*20-10))
			moved = append(moved, idx)
		}
		require.NoError(t, tree.Optimize(moved, prims))
		cost := tree.TotalCost()
		assert.LessOrEqual(t, cost, prevCost+1e-6, "round %d: total cost must not increase", round)
		prevCost = cost
	}
}

func TestOptimizeOnEmptyTreeIsNoOp(t *testing.T) {
	tree, err := bvh.Build(nil)
	require.NoError(t, err)
	err = tree.Optimize([]int{0}, nil)
	require.NoError(t, err)
}

func TestShouldRebuild(t *testing.T) {
	assert.False(t, bvh.ShouldRebuild(10, 100, 0.2))
	assert.True(t, bvh.ShouldRebuild(30, 100, 0.2))
	assert.False(t, bvh.ShouldRebuild(5, 0, 0.2))
}
