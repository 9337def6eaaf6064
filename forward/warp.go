package forward

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Norm measures the discrepancy between a simulated concatenated output and
// the observation vector. Both slices always have equal length.
type Norm func(a, b []float64) float64

// Euclidean returns the L2 discrepancy norm.
func Euclidean() Norm {
	return func(a, b []float64) float64 {
		return floats.Distance(a, b, 2)
	}
}

// WarpedNorm returns a time-warped discrepancy norm: the minimal cumulative
// |a_i - b_j| cost over monotone alignments of the two series, computed with
// a two-row dynamic program.
//
//   - window — maximum |i-j| deviation allowed (Sakoe–Chiba band);
//     negative disables the constraint.
//   - slopePenalty — extra cost for insertion/deletion steps, biasing the
//     alignment toward the diagonal.
//
// Equal-length series always admit the diagonal alignment, so the result is
// finite for any window >= 0. Distance of a series to itself is 0 and the
// norm is symmetric in its arguments.
func WarpedNorm(window int, slopePenalty float64) Norm {
	return func(a, b []float64) float64 {
		return warpDistance(a, b, window, slopePenalty)
	}
}

// warpDistance fills the DP band row by row, keeping only the previous and
// current rows.
func warpDistance(a, b []float64, window int, penalty float64) float64 {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	inf := math.Inf(1)
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}
	prev[0] = 0

	for i := 1; i <= n; i++ {
		curr[0] = inf
		for j := 1; j <= m; j++ {
			if window >= 0 && absInt(i-j) > window {
				curr[j] = inf
				continue
			}
			cost := math.Abs(a[i-1] - b[j-1])
			ins := prev[j] + penalty
			del := curr[j-1] + penalty
			match := prev[j-1]
			curr[j] = cost + min3(ins, del, match)
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// absInt returns the absolute value of an int.
func absInt(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// min3 returns the minimum of three float64 values.
func min3(a, b, c float64) float64 {
	if a < b {
		if a < c {
			return a
		}

		return c
	}
	if b < c {
		return b
	}

	return c
}
