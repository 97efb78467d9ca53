package vmath

// Ray is an origin and direction with precomputed reciprocal direction and
// sign bits, so AABB intersection (IntersectsAABB) can run branchless.
type Ray struct {
	Origin       Vec3
	Direction    Vec3
	InvDirection Vec3 // 1/Direction per axis; may hold +/-Inf, that's intentional
	Sign         [3]int
}

// NewRay creates a Ray and precomputes its inverse direction and sign bits.
// A zero component in Direction yields +/-Inf in InvDirection; IntersectsAABB
// handles that without special-casing it.
func NewRay(origin, direction Vec3) Ray {
	inv := Vec3{1 / direction.X, 1 / direction.Y, 1 / direction.Z}
	r := Ray{Origin: origin, Direction: direction, InvDirection: inv}
	if inv.X < 0 {
		r.Sign[0] = 1
	}
	if inv.Y < 0 {
		r.Sign[1] = 1
	}
	if inv.Z < 0 {
		r.Sign[2] = 1
	}
	return r
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// bounds indexes into an AABB's min/max corners by axis, used by the slab
// test below: bounds[sign][axis].
func (b AABB) bounds(which int, axis int) float64 {
	if which == 0 {
		return b.Min.Axis(axis)
	}
	return b.Max.Axis(axis)
}

// IntersectsAABB runs the branchless slab test described in spec.md §4.A:
// for each axis, project the near and far slab boundary (chosen by the
// ray's precomputed sign bit) through the ray's inverse direction, then
// intersect the three per-axis intervals. An empty AABB never hits.
func (r Ray) IntersectsAABB(b AABB, tMin, tMax float64) bool {
	if b.IsEmpty() {
		return false
	}
	for axis := 0; axis < 3; axis++ {
		sign := r.Sign[axis]
		near := (b.bounds(sign, axis) - r.Origin.Axis(axis)) * r.InvDirection.Axis(axis)
		far := (b.bounds(1-sign, axis) - r.Origin.Axis(axis)) * r.InvDirection.Axis(axis)
		if near > tMin {
			tMin = near
		}
		if far < tMax {
			tMax = far
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}
