// Package bvh implements a bounding volume hierarchy over host-owned
// primitives: top-down SAH construction, bottom-up rotation-based
// optimization, and a flattened stackless representation for traversal.
//
// The BVH never inspects primitive geometry. A Primitive is addressed by a
// stable, 0-based index into the host's own sequence and must expose only
// its current AABB.
package bvh

import (
	"errors"
	"fmt"
	"math"

	pkgerrors "github.com/pkg/errors"

	"github.com/rayforge/bvh/vmath"
)

// Primitive is the host's view of one bounded object. The BVH stores and
// reasons about indices into a []Primitive, never the values themselves.
type Primitive interface {
	AABB() vmath.AABB
}

// Sentinel errors for precondition violations (spec.md §7). These are the
// only two user-visible error conditions the core admits; every other
// irregular input (degenerate splits, coincident centroids, parallel rays)
// is a normal path and never produces an error.
var (
	// ErrIndexOutOfRange is returned when Optimize is given a changed index
	// that does not address a primitive in the tree.
	ErrIndexOutOfRange = errors.New("bvh: primitive index out of range")

	// ErrNonFiniteAABB is returned when a primitive's AABB contains NaN or
	// infinite bounds outside the AABB identity convention.
	ErrNonFiniteAABB = errors.New("bvh: primitive AABB is not finite")
)

// checkFinite reports whether every component of b is finite. The identity
// Empty() AABB (+Inf/-Inf) is explicitly finite-for-our-purposes and must
// not trip this check.
func checkFinite(b vmath.AABB) bool {
	if b.IsEmpty() {
		return true
	}
	vals := [6]float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func wrapIndexErr(index, n int) error {
	return pkgerrors.Wrap(fmt.Errorf("%w: index %d, have %d primitives", ErrIndexOutOfRange, index, n), "bvh.Optimize")
}

func wrapNonFiniteErr(caller string, index int) error {
	return pkgerrors.Wrap(fmt.Errorf("%w: primitive %d", ErrNonFiniteAABB, index), caller)
}
