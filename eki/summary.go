package eki

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/enkal/params"
)

// IterationSummary is an immutable snapshot of the ensemble at one step of
// calibration: every member's constrained parameter record plus the ensemble
// mean, covariance and per-parameter variance. Summary 0 describes the
// initial prior-sampled ensemble; summaries are appended to the engine's
// history and never mutated or removed. All accessors return copies.
type IterationSummary struct {
	iteration int
	names     []string
	members   []params.Record
	mean      []float64
	variance  []float64
	cov       *mat.SymDense
}

// newSummary snapshots an ensemble in constrained space.
func newSummary(iteration int, e *params.Ensemble) IterationSummary {
	names := e.Free().Names()
	members := e.Records()
	np := len(names)
	ne := len(members)

	// Samples matrix: one row per member, columns in canonical order.
	samples := mat.NewDense(ne, np, nil)
	for j, rec := range members {
		for i, name := range names {
			samples.Set(j, i, rec[name])
		}
	}

	mean := make([]float64, np)
	for i := 0; i < np; i++ {
		sum := 0.0
		for j := 0; j < ne; j++ {
			sum += samples.At(j, i)
		}
		mean[i] = sum / float64(ne)
	}

	cov := mat.NewSymDense(np, nil)
	stat.CovarianceMatrix(cov, samples, nil)

	variance := make([]float64, np)
	for i := 0; i < np; i++ {
		variance[i] = cov.At(i, i)
	}

	return IterationSummary{
		iteration: iteration,
		names:     names,
		members:   members,
		mean:      mean,
		variance:  variance,
		cov:       cov,
	}
}

// Iteration returns the iteration index the summary was recorded at.
func (s IterationSummary) Iteration() int { return s.iteration }

// Names returns the canonical parameter order.
func (s IterationSummary) Names() []string {
	return append([]string(nil), s.names...)
}

// Size returns the number of ensemble members.
func (s IterationSummary) Size() int { return len(s.members) }

// Member returns member j's constrained parameter record.
func (s IterationSummary) Member(j int) params.Record {
	return s.members[j].Clone()
}

// Members returns every member's constrained record, in member order.
func (s IterationSummary) Members() []params.Record {
	out := make([]params.Record, len(s.members))
	for j, rec := range s.members {
		out[j] = rec.Clone()
	}

	return out
}

// Mean returns the ensemble mean per parameter, in canonical order.
func (s IterationSummary) Mean() []float64 {
	return append([]float64(nil), s.mean...)
}

// Variance returns the per-parameter ensemble variance, in canonical order.
func (s IterationSummary) Variance() []float64 {
	return append([]float64(nil), s.variance...)
}

// Covariance returns the parameter-ensemble covariance matrix.
func (s IterationSummary) Covariance() *mat.SymDense {
	out := mat.NewSymDense(s.cov.SymmetricDim(), nil)
	out.CopySym(s.cov)

	return out
}
