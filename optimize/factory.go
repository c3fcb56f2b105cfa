package optimize

// Algorithm names a placement strategy OptimizerFactory can recommend.
// Only SA and ForceDirected are implemented solvers in this core;
// Hierarchical and TimingDriven are returned as recommendations for a
// higher-level driver to act on (spec.md §9, design note on
// polymorphism: the core only needs to recommend, not execute, those
// two).
type Algorithm string

const (
	AlgorithmAnalytical    Algorithm = "Analytical"
	AlgorithmForceDirected Algorithm = "ForceDirected"
	AlgorithmSA            Algorithm = "SA"
	AlgorithmHierarchical  Algorithm = "Hierarchical"
	AlgorithmTimingDriven  Algorithm = "TimingDriven"
)

// OptimizerFactory picks a placement algorithm from a problem's rough
// shape, per the thresholds enumerated in spec.md §6.
type OptimizerFactory struct{}

// RecommendAlgorithm returns Hierarchical when numComponents exceeds
// 100,000, TimingDriven when timingCritical is set, SA when
// numComponents exceeds 1,000, and ForceDirected otherwise. The checks
// are evaluated in that order, matching the source's priority: scale
// dominates over timing-criticality, which dominates over the
// small-problem default.
func (OptimizerFactory) RecommendAlgorithm(numComponents, numNets int, timingCritical bool) Algorithm {
	switch {
	case numComponents > 100_000:
		return AlgorithmHierarchical
	case timingCritical:
		return AlgorithmTimingDriven
	case numComponents > 1_000:
		return AlgorithmSA
	default:
		return AlgorithmForceDirected
	}
}
