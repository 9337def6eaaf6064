package eki

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/katalvlaran/enkal/forward"
	"github.com/katalvlaran/enkal/params"
)

// maxResampleAttempts bounds how many redraw-and-rerun rounds the resampler
// spends before declaring the ensemble irreparable.
const maxResampleAttempts = 10

// maxFitAttempts bounds the Tikhonov retries when a fitted ensemble
// covariance is not positive definite.
const maxFitAttempts = 8

// Distribution is the policy for drawing replacement parameter vectors.
// Fit receives the current unconstrained ensemble matrix (pre-replacement)
// and a per-column success mask; the two implementations in this package
// (FullEnsembleDistribution, SuccessfulEnsembleDistribution) are the closed
// set of variants.
type Distribution interface {
	Fit(x *mat.Dense, ok []bool, src rand.Source) (*distmv.Normal, error)
}

// FullEnsembleDistribution fits a multivariate normal to the whole current
// ensemble, failed columns included.
type FullEnsembleDistribution struct{}

// Fit fits over every column.
func (FullEnsembleDistribution) Fit(x *mat.Dense, ok []bool, src rand.Source) (*distmv.Normal, error) {
	_, n := x.Dims()
	cols := make([]int, n)
	for j := range cols {
		cols[j] = j
	}

	return fitNormal(x, cols, src)
}

// SuccessfulEnsembleDistribution fits a multivariate normal using only the
// columns whose output was finite. With fewer than two successful columns
// the fit is degenerate and resampling fails fatally.
type SuccessfulEnsembleDistribution struct{}

// Fit fits over the successful columns only.
func (SuccessfulEnsembleDistribution) Fit(x *mat.Dense, ok []bool, src rand.Source) (*distmv.Normal, error) {
	var cols []int
	for j, good := range ok {
		if good {
			cols = append(cols, j)
		}
	}
	if len(cols) < 2 {
		return nil, fmt.Errorf("%w: %d successful members", ErrDegenerateDistribution, len(cols))
	}

	return fitNormal(x, cols, src)
}

// fitNormal fits a multivariate normal to the selected ensemble columns.
func fitNormal(x *mat.Dense, cols []int, src rand.Source) (*distmv.Normal, error) {
	d, _ := x.Dims()

	// One row per selected member, parameters along columns.
	samples := mat.NewDense(len(cols), d, nil)
	mu := make([]float64, d)
	for si, j := range cols {
		for i := 0; i < d; i++ {
			v := x.At(i, j)
			samples.Set(si, i, v)
			mu[i] += v
		}
	}
	for i := range mu {
		mu[i] /= float64(len(cols))
	}

	cov := mat.NewSymDense(d, nil)
	stat.CovarianceMatrix(cov, samples, nil)

	normal, ok := distmv.NewNormal(mu, cov, src)
	if ok {
		return normal, nil
	}

	// The sample covariance of fewer members than parameters is rank
	// deficient (two survivors in a 2-D parameter space is the smallest
	// repairable case), so inflate the diagonal with a relative Tikhonov
	// jitter before declaring the fit degenerate.
	meanDiag := 0.0
	for i := 0; i < d; i++ {
		meanDiag += cov.At(i, i)
	}
	meanDiag /= float64(d)
	if meanDiag <= 0 {
		meanDiag = 1
	}

	lam := defaultJitter
	for attempt := 0; attempt < maxFitAttempts; attempt++ {
		for i := 0; i < d; i++ {
			cov.SetSym(i, i, cov.At(i, i)+lam*meanDiag)
		}
		lam *= 10
		if normal, ok = distmv.NewNormal(mu, cov, src); ok {
			return normal, nil
		}
	}

	return nil, fmt.Errorf("%w: ensemble covariance is not positive definite", ErrDegenerateDistribution)
}

// ColumnHasNonFinite reports whether column j of g contains at least one
// NaN or infinite entry.
func ColumnHasNonFinite(g mat.Matrix, j int) bool {
	r, _ := g.Dims()
	for i := 0; i < r; i++ {
		v := g.At(i, j)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}

	return false
}

// Resampler detects ensemble members whose forward output is non-finite and
// repairs them by redrawing their parameters and re-running the forward map,
// so the Kalman update only ever sees finite output.
//
// AcceptableFailureFraction – fatal threshold on the failed fraction, in
// [0, 1]. OnlyFailedParticles – when false, every member is redrawn
// regardless of failure status. Distribution – replacement-draw policy.
type Resampler struct {
	AcceptableFailureFraction float64
	OnlyFailedParticles       bool
	Distribution              Distribution
}

// DefaultResampler tolerates up to 80% failed members, replaces only failed
// ones and draws replacements from the full-ensemble distribution.
func DefaultResampler() *Resampler {
	return &Resampler{
		AcceptableFailureFraction: 0.8,
		OnlyFailedParticles:       true,
		Distribution:              FullEnsembleDistribution{},
	}
}

// Resample repairs θ and g in place.
//
// Steps:
//  1. A column fails if any entry of its output is non-finite.
//  2. Targets are the failing columns, or every column when
//     OnlyFailedParticles is false.
//  3. If the failing fraction exceeds AcceptableFailureFraction, fail
//     fatally before mutating anything (ErrFailureFraction).
//  4. Fit the distribution over the current pre-replacement ensemble.
//  5. Redraw each target column of θ.
//  6. Re-run the forward map and overwrite the target columns of g;
//     non-target columns of θ and g are never written.
//  7. Repeat redraws for columns still non-finite, up to
//     maxResampleAttempts (then ErrResampleExhausted).
//
// Returns the number of replaced members. Postcondition on success: no
// column of g contains a non-finite value.
func (r *Resampler) Resample(p *forward.Problem, e *params.Ensemble, g *mat.Dense, src rand.Source) (int, error) {
	if r.AcceptableFailureFraction < 0 || r.AcceptableFailureFraction > 1 {
		return 0, fmt.Errorf("%w: %g", ErrBadFailureFraction, r.AcceptableFailureFraction)
	}
	if r.Distribution == nil {
		return 0, ErrNilDistribution
	}

	n := e.Size()
	failed := 0
	ok := make([]bool, n)
	var targets []int
	for j := 0; j < n; j++ {
		bad := ColumnHasNonFinite(g, j)
		ok[j] = !bad
		if bad {
			failed++
		}
		if bad || !r.OnlyFailedParticles {
			targets = append(targets, j)
		}
	}

	if frac := float64(failed) / float64(n); frac > r.AcceptableFailureFraction {
		return 0, fmt.Errorf("%w: %d of %d members (%.2f > %.2f)",
			ErrFailureFraction, failed, n, frac, r.AcceptableFailureFraction)
	}
	if len(targets) == 0 {
		return 0, nil
	}

	rows, _ := g.Dims()
	pending := targets
	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt == maxResampleAttempts {
			return len(targets), fmt.Errorf("%w: %d members still non-finite after %d attempts",
				ErrResampleExhausted, len(pending), attempt)
		}

		dist, err := r.Distribution.Fit(e.Matrix(), ok, src)
		if err != nil {
			return len(targets), err
		}

		for _, j := range pending {
			e.SetColumn(j, dist.Rand(nil))
		}

		fresh, err := p.ForwardEnsemble(e)
		if err != nil {
			return len(targets), err
		}
		for _, j := range pending {
			for i := 0; i < rows; i++ {
				g.Set(i, j, fresh.At(i, j))
			}
		}

		var still []int
		for _, j := range pending {
			if ColumnHasNonFinite(g, j) {
				still = append(still, j)
			} else {
				ok[j] = true
			}
		}
		pending = still
	}

	return len(targets), nil
}
