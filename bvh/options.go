package bvh

// buildOptions is the immutable configuration resolved once at Build time,
// in the functional-options style used by lvlath/builder's BuilderOption:
// options are applied in order to the defaults, then frozen.
type buildOptions struct {
	bins            int
	traversalCost   float64
	intersectCost   float64
	parallel        bool
	parallelMinSize int
	logger          Logger
}

func defaultBuildOptions() buildOptions {
	return buildOptions{
		bins:            6,
		traversalCost:   1,
		intersectCost:   1,
		parallel:        false,
		parallelMinSize: 50_000,
		logger:          nil,
	}
}

// BuildOption configures Build. Options are resolved in the order given;
// a later option overrides an earlier one touching the same field.
type BuildOption func(*buildOptions)

// WithBins sets the number of SAH bins (B in spec.md §4.B). Must be >= 2;
// values below 2 are clamped up, since correctness only requires B >= 2.
func WithBins(b int) BuildOption {
	return func(o *buildOptions) {
		if b < 2 {
			b = 2
		}
		o.bins = b
	}
}

// WithCostWeights overrides the SAH traversal and intersection cost
// constants. Both default to 1, matching academic SAH (spec.md §4.B).
func WithCostWeights(traversal, intersect float64) BuildOption {
	return func(o *buildOptions) {
		o.traversalCost = traversal
		o.intersectCost = intersect
	}
}

// WithParallelBuild enables splitting disjoint index ranges across
// goroutines once a subtree's primitive count is at least minSize
// (spec.md §5: construction may be parallelized provided the resulting
// tree is identical in shape). A minSize <= 0 uses the default threshold.
func WithParallelBuild(minSize int) BuildOption {
	return func(o *buildOptions) {
		o.parallel = true
		if minSize > 0 {
			o.parallelMinSize = minSize
		}
	}
}

// WithLogger attaches a Logger for build/optimize diagnostics. A nil
// logger (the default) disables logging entirely.
func WithLogger(l Logger) BuildOption {
	return func(o *buildOptions) { o.logger = l }
}

// optimizeOptions mirrors buildOptions for Optimize; currently only the
// logger is configurable, since rotation behavior itself has no tunables
// in spec.md §4.C.
type optimizeOptions struct {
	logger Logger
}

// OptimizeOption configures Optimize.
type OptimizeOption func(*optimizeOptions)

// WithOptimizeLogger attaches a Logger for this Optimize call, overriding
// the tree's build-time logger for the duration of the call.
func WithOptimizeLogger(l Logger) OptimizeOption {
	return func(o *optimizeOptions) { o.logger = l }
}

// ShouldRebuild is the helper spec.md §9's first Open Question invites:
// callers may use it to decide whether to call Build again from scratch
// instead of Optimize, once more than threshold*n primitives have moved.
// It is never called automatically — Optimize always does the incremental
// repair regardless of how large the changed set is.
func ShouldRebuild(changedCount, n int, threshold float64) bool {
	if n <= 0 {
		return false
	}
	return float64(changedCount) > threshold*float64(n)
}
