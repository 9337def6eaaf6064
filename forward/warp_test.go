package forward_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/enkal/forward"
)

// TestEuclidean_Basic verifies the L2 norm on a 3-4-5 triangle.
func TestEuclidean_Basic(t *testing.T) {
	norm := forward.Euclidean()

	assert.InDelta(t, 5.0, norm([]float64{3, 4}, []float64{0, 0}), 1e-12)
	assert.Equal(t, 0.0, norm([]float64{1, 2}, []float64{1, 2}))
}

// TestWarpedNorm_IdenticalIsZero verifies distance of a series to itself.
func TestWarpedNorm_IdenticalIsZero(t *testing.T) {
	norm := forward.WarpedNorm(-1, 0)
	a := []float64{0, 1, 2, 1, 0}

	assert.Equal(t, 0.0, norm(a, a))
}

// TestWarpedNorm_Symmetric verifies symmetry in the arguments.
func TestWarpedNorm_Symmetric(t *testing.T) {
	norm := forward.WarpedNorm(-1, 0)
	a := []float64{0, 1, 3, 2}
	b := []float64{1, 1, 2, 2}

	assert.Equal(t, norm(a, b), norm(b, a))
}

// TestWarpedNorm_AbsorbsTimeShift verifies a shifted copy of a series costs
// less under warping than under the rigid Euclidean comparison.
func TestWarpedNorm_AbsorbsTimeShift(t *testing.T) {
	a := []float64{0, 0, 1, 2, 3}
	b := []float64{0, 1, 2, 3, 3}

	warped := forward.WarpedNorm(-1, 0)(a, b)
	rigid := forward.Euclidean()(a, b)

	assert.Less(t, warped, rigid, "warping must absorb the one-step shift")
}

// TestWarpedNorm_WindowDiagonalFeasible verifies window 0 on equal-length
// series degenerates to the rigid element-wise comparison and stays finite.
func TestWarpedNorm_WindowDiagonalFeasible(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 3, 3}

	d := forward.WarpedNorm(0, 0)(a, b)
	assert.False(t, math.IsInf(d, 1), "diagonal is always inside a zero window")
	assert.Equal(t, 1.0, d, "window 0 sums |a_i - b_i|")
}

// TestWarpedNorm_SlopePenaltyBiasesDiagonal verifies a positive penalty
// raises the cost of off-diagonal alignments.
func TestWarpedNorm_SlopePenaltyBiasesDiagonal(t *testing.T) {
	a := []float64{0, 0, 1, 2, 3}
	b := []float64{0, 1, 2, 3, 3}

	free := forward.WarpedNorm(-1, 0)(a, b)
	penalized := forward.WarpedNorm(-1, 1)(a, b)

	assert.GreaterOrEqual(t, penalized, free, "penalty can only raise the distance")
}

// TestWarpedNorm_EmptyIsInfinite verifies empty input is never comparable.
func TestWarpedNorm_EmptyIsInfinite(t *testing.T) {
	d := forward.WarpedNorm(-1, 0)(nil, []float64{1})

	assert.True(t, math.IsInf(d, 1))
}
