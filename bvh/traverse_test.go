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

func TestTraverseEmptyTreeVisitsNothing(t *testing.T) {
	tree, err := bvh.Build(nil)
	require.NoError(t, err)

	tree.Traverse(vmath.NewRay(vmath.NewVec3(0, 0, 0), vmath.NewVec3(1, 0, 0)), 0, math.Inf(1), func(int) {
		t.Fatal("an empty tree must never visit a primitive")
	})
}

func TestTraverseMissEverything(t *testing.T) {
	cubes := bench.RandomCubes(500, 15, 10)
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	// A ray far outside the cluster's extent, aimed away from it, should hit
	// nothing.
	ray := vmath.NewRay(vmath.NewVec3(1000, 1000, 1000), vmath.NewVec3(1, 0, 0))
	got := tree.CandidatePrimitives(ray, 0, math.Inf(1))
	assert.Empty(t, got)
}

func TestTraverseDirectHitOnKnownPrimitive(t *testing.T) {
	cubes := []*bench.Cube{
		{Center: vmath.NewVec3(-20, 0, 0), HalfSize: 1},
		{Center: vmath.NewVec3(20, 0, 0), HalfSize: 1},
		{Center: vmath.NewVec3(0, 20, 0), HalfSize: 1},
	}
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	ray := vmath.NewRay(vmath.NewVec3(20, 0, -50), vmath.NewVec3(0, 0, 1))
	got := tree.CandidatePrimitives(ray, 0, math.Inf(1))
	assert.Contains(t, got, 1)
	assert.NotContains(t, got, 0)
	assert.NotContains(t, got, 2)
}

func TestTraverseRespectsTRange(t *testing.T) {
	cubes := []*bench.Cube{{Center: vmath.NewVec3(0, 0, 10), HalfSize: 1}}
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	ray := vmath.NewRay(vmath.NewVec3(0, 0, 0), vmath.NewVec3(0, 0, 1))
	assert.Empty(t, tree.CandidatePrimitives(ray, 0, 5))
	assert.NotEmpty(t, tree.CandidatePrimitives(ray, 0, 20))
}

func TestTraverseIsDeterministic(t *testing.T) {
	cubes := bench.RandomCubes(1000, 17, 30)
	prims := bench.ToPrimitives(cubes)
	tree, err := bvh.Build(prims)
	require.NoError(t, err)

	ray := bench.RandomRay(rand.New(rand.NewSource(3)), 30)
	first := tree.CandidatePrimitives(ray, 0, math.Inf(1))
	second := tree.CandidatePrimitives(ray, 0, math.Inf(1))
	assert.Equal(t, first, second)
}
