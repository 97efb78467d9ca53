// Package bench generates synthetic primitives for the bvh test suite:
// random cubes for the property-based scenarios in spec.md §8 (S3-S6), and
// a simple mutable Cube the optimizer tests can translate in place.
package bench

import (
	"math/rand"

	"github.com/rayforge/bvh/bvh"
	"github.com/rayforge/bvh/vmath"
)

// Cube is a bvh.Primitive backed by a mutable center, so tests can move it
// and call Optimize with its index.
type Cube struct {
	Center   vmath.Vec3
	HalfSize float64
}

// AABB implements bvh.Primitive.
func (c *Cube) AABB() vmath.AABB {
	half := vmath.NewVec3(c.HalfSize, c.HalfSize, c.HalfSize)
	return vmath.NewAABB(c.Center.Subtract(half), c.Center.Add(half))
}

// Translate moves the cube's center by delta.
func (c *Cube) Translate(delta vmath.Vec3) {
	c.Center = c.Center.Add(delta)
}

// RandomCubes returns n unit-ish cubes with centers uniformly distributed
// in [-spread, spread] on each axis, deterministic for a given seed (used
// by the build-determinism test, spec.md §8 property 7).
func RandomCubes(n int, seed int64, spread float64) []*Cube {
	r := rand.New(rand.NewSource(seed))
	cubes := make([]*Cube, n)
	for i := range cubes {
		center := vmath.NewVec3(
			(r.Float64()*2-1)*spread,
			(r.Float64()*2-1)*spread,
			(r.Float64()*2-1)*spread,
		)
		cubes[i] = &Cube{Center: center, HalfSize: 0.5}
	}
	return cubes
}

// CoincidentCubes returns n cubes all centered at the origin with differing
// half-sizes, the degenerate-centroid scenario from spec.md §8's S6.
func CoincidentCubes(n int) []*Cube {
	cubes := make([]*Cube, n)
	for i := range cubes {
		cubes[i] = &Cube{Center: vmath.Vec3{}, HalfSize: 0.5 + float64(i)*0.1}
	}
	return cubes
}

// ToPrimitives widens a []*Cube into the []bvh.Primitive interface slice
// Build and Optimize expect, without every call site repeating the loop.
func ToPrimitives(cubes []*Cube) []bvh.Primitive {
	out := make([]bvh.Primitive, len(cubes))
	for i, c := range cubes {
		out[i] = c
	}
	return out
}

// RandomRay returns a ray with a random origin in [-2*spread, 2*spread] on
// each axis and a direction aimed at a random point in [-spread, spread],
// for the superset-scan property tests (spec.md §8 property 2, S3).
func RandomRay(r *rand.Rand, spread float64) vmath.Ray {
	origin := vmath.NewVec3(
		(r.Float64()*2-1)*spread*2,
		(r.Float64()*2-1)*spread*2,
		(r.Float64()*2-1)*spread*2,
	)
	target := vmath.NewVec3(
		(r.Float64()*2-1)*spread,
		(r.Float64()*2-1)*spread,
		(r.Float64()*2-1)*spread,
	)
	dir := target.Subtract(origin)
	return vmath.NewRay(origin, dir)
}
