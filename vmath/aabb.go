package vmath

import "math"

// AABB is an axis-aligned bounding box described by its min and max corners.
//
// The zero-ish "empty" AABB (Min = +Inf, Max = -Inf on every axis) is the
// identity element under Union: Union(Empty(), x) == x. It is what a builder
// starts folding from when it has not yet seen a primitive.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Empty returns the AABB identity under Union.
func Empty() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABB creates an AABB from explicit min/max corners.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// IsEmpty reports whether this is the identity AABB.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Union returns the smallest AABB enclosing both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: MinComponents(b.Min, other.Min),
		Max: MaxComponents(b.Max, other.Max),
	}
}

// UnionPoint returns the smallest AABB enclosing b and the given point.
func (b AABB) UnionPoint(p Vec3) AABB {
	return AABB{
		Min: MinComponents(b.Min, p),
		Max: MaxComponents(b.Max, p),
	}
}

// Size returns the per-axis extent of the box.
func (b AABB) Size() Vec3 {
	return b.Max.Subtract(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// SurfaceArea returns 2*(dx*dy + dy*dz + dz*dx), 0 for the empty box.
func (b AABB) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Size()
	return 2.0 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// LargestAxis returns the axis (0=X, 1=Y, 2=Z) of greatest extent.
func (b AABB) LargestAxis() int {
	d := b.Size()
	if d.X > d.Y && d.X > d.Z {
		return 0
	}
	if d.Y > d.Z {
		return 1
	}
	return 2
}

// Contains reports whether the point lies within the box (inclusive).
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ContainsBox reports whether other is fully enclosed by b, within eps slack
// per axis to absorb floating point accumulation from repeated unions.
func (b AABB) ContainsBox(other AABB, eps float64) bool {
	if other.IsEmpty() {
		return true
	}
	return other.Min.X >= b.Min.X-eps && other.Max.X <= b.Max.X+eps &&
		other.Min.Y >= b.Min.Y-eps && other.Max.Y <= b.Max.Y+eps &&
		other.Min.Z >= b.Min.Z-eps && other.Max.Z <= b.Max.Z+eps
}
