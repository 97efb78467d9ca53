package vmath_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rayforge/bvh/vmath"
)

func TestAABBEmptyIsUnionIdentity(t *testing.T) {
	box := vmath.NewAABB(vmath.NewVec3(1, 2, 3), vmath.NewVec3(4, 5, 6))

	assert.True(t, vmath.Empty().IsEmpty())
	assert.Equal(t, box, vmath.Empty().Union(box))
	assert.Equal(t, box, box.Union(vmath.Empty()))
}

func TestAABBUnion(t *testing.T) {
	a := vmath.NewAABB(vmath.NewVec3(0, 0, 0), vmath.NewVec3(1, 1, 1))
	b := vmath.NewAABB(vmath.NewVec3(-1, 0.5, 2), vmath.NewVec3(0.5, 3, 2.5))

	u := a.Union(b)
	assert.Equal(t, vmath.NewVec3(-1, 0, 0), u.Min)
	assert.Equal(t, vmath.NewVec3(1, 3, 2.5), u.Max)
}

func TestAABBUnionPoint(t *testing.T) {
	a := vmath.NewAABB(vmath.NewVec3(0, 0, 0), vmath.NewVec3(1, 1, 1))
	u := a.UnionPoint(vmath.NewVec3(2, -1, 0.5))

	assert.Equal(t, vmath.NewVec3(0, -1, 0), u.Min)
	assert.Equal(t, vmath.NewVec3(2, 1, 1), u.Max)
}

func TestAABBSizeAndCenter(t *testing.T) {
	box := vmath.NewAABB(vmath.NewVec3(0, 0, 0), vmath.NewVec3(2, 4, 6))
	assert.Equal(t, vmath.NewVec3(2, 4, 6), box.Size())
	assert.Equal(t, vmath.NewVec3(1, 2, 3), box.Center())
}

func TestAABBSurfaceArea(t *testing.T) {
	unitCube := vmath.NewAABB(vmath.NewVec3(0, 0, 0), vmath.NewVec3(1, 1, 1))
	assert.Equal(t, 6.0, unitCube.SurfaceArea())
	assert.Equal(t, 0.0, vmath.Empty().SurfaceArea())
}

func TestAABBLargestAxis(t *testing.T) {
	assert.Equal(t, 0, vmath.NewAABB(vmath.NewVec3(0, 0, 0), vmath.NewVec3(5, 1, 1)).LargestAxis())
	assert.Equal(t, 1, vmath.NewAABB(vmath.NewVec3(0, 0, 0), vmath.NewVec3(1, 5, 1)).LargestAxis())
	assert.Equal(t, 2, vmath.NewAABB(vmath.NewVec3(0, 0, 0), vmath.NewVec3(1, 1, 5)).LargestAxis())
}

func TestAABBContains(t *testing.T) {
	box := vmath.NewAABB(vmath.NewVec3(0, 0, 0), vmath.NewVec3(1, 1, 1))
	assert.True(t, box.Contains(vmath.NewVec3(0.5, 0.5, 0.5)))
	assert.True(t, box.Contains(vmath.NewVec3(0, 0, 0)))
	assert.False(t, box.Contains(vmath.NewVec3(1.1, 0, 0)))
}

func TestAABBContainsBox(t *testing.T) {
	outer := vmath.NewAABB(vmath.NewVec3(-1, -1, -1), vmath.NewVec3(1, 1, 1))
	inner := vmath.NewAABB(vmath.NewVec3(-0.5, -0.5, -0.5), vmath.NewVec3(0.5, 0.5, 0.5))
	disjoint := vmath.NewAABB(vmath.NewVec3(2, 2, 2), vmath.NewVec3(3, 3, 3))

	assert.True(t, outer.ContainsBox(inner, 0))
	assert.False(t, outer.ContainsBox(disjoint, 0))
	assert.True(t, outer.ContainsBox(vmath.Empty(), 0))

	slightlyOutside := vmath.NewAABB(vmath.NewVec3(-1.0000001, -1, -1), vmath.NewVec3(1, 1, 1))
	assert.False(t, outer.ContainsBox(slightlyOutside, 0))
	assert.True(t, outer.ContainsBox(slightlyOutside, 1e-6))
}

func TestAABBIsEmptyDegenerateNotEmpty(t *testing.T) {
	// A zero-volume box (a point) is a valid, non-empty AABB.
	point := vmath.NewAABB(vmath.NewVec3(1, 1, 1), vmath.NewVec3(1, 1, 1))
	assert.False(t, point.IsEmpty())
	assert.Equal(t, 0.0, point.SurfaceArea())
}

func TestAABBEmptyBoundsAreInfinite(t *testing.T) {
	e := vmath.Empty()
	assert.True(t, math.IsInf(e.Min.X, 1))
	assert.True(t, math.IsInf(e.Max.X, -1))
}
