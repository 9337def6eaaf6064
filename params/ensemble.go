package params

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for ensemble sizing.
var (
	// ErrEnsembleTooSmall indicates fewer than two ensemble members; the
	// Kalman update needs at least two columns to estimate covariances.
	ErrEnsembleTooSmall = errors.New("params: ensemble needs at least two members")

	// ErrTooManyRecords indicates more parameter records were supplied than
	// the simulation has ensemble slots.
	ErrTooManyRecords = errors.New("params: more parameter records than ensemble slots")

	// ErrNoRecords indicates an empty record slice where at least one record
	// is required for padding.
	ErrNoRecords = errors.New("params: at least one parameter record is required")
)

// Ensemble is the population of parameter guesses: an Nparams x Nensemble
// matrix stored in the priors' unconstrained space. Columns are members.
// The matrix is mutated in place by the Kalman update and the resampler;
// conversions to records always pass through the priors' Constrain.
type Ensemble struct {
	free *FreeParameters
	x    *mat.Dense // Nparams x Nensemble, unconstrained
}

// SamplePrior draws an initial ensemble of n members from the priors,
// storing each draw in unconstrained space.
func SamplePrior(free *FreeParameters, n int, src rand.Source) (*Ensemble, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: n=%d", ErrEnsembleTooSmall, n)
	}

	e := &Ensemble{
		free: free,
		x:    mat.NewDense(free.Len(), n, nil),
	}
	for i, name := range free.names {
		prior := free.priors[name]
		for j := 0; j < n; j++ {
			e.x.Set(i, j, prior.Unconstrain(prior.Rand(src)))
		}
	}

	return e, nil
}

// Free returns the parameter set the ensemble is defined over.
func (e *Ensemble) Free() *FreeParameters { return e.free }

// Size returns the number of members (Nensemble).
func (e *Ensemble) Size() int {
	_, n := e.x.Dims()

	return n
}

// Matrix exposes the live unconstrained ensemble matrix. The engine and the
// resampler mutate it in place; no other caller may do so concurrently.
func (e *Ensemble) Matrix() *mat.Dense { return e.x }

// Clone returns an independent deep copy of the ensemble.
func (e *Ensemble) Clone() *Ensemble {
	var x mat.Dense
	x.CloneFrom(e.x)

	return &Ensemble{free: e.free, x: &x}
}

// Column returns a copy of member j's unconstrained parameter vector.
func (e *Ensemble) Column(j int) []float64 {
	out := make([]float64, e.free.Len())
	mat.Col(out, j, e.x)

	return out
}

// SetColumn overwrites member j's unconstrained parameter vector.
func (e *Ensemble) SetColumn(j int, vec []float64) {
	for i, v := range vec {
		e.x.Set(i, j, v)
	}
}

// Record returns member j's parameter values in constrained space.
func (e *Ensemble) Record(j int) Record {
	rec := make(Record, e.free.Len())
	for i, name := range e.free.names {
		rec[name] = e.free.priors[name].Constrain(e.x.At(i, j))
	}

	return rec
}

// Records returns every member's constrained record, in member order.
func (e *Ensemble) Records() []Record {
	n := e.Size()
	out := make([]Record, n)
	for j := 0; j < n; j++ {
		out[j] = e.Record(j)
	}

	return out
}

// ExpandRecords pads a record slice to exactly n entries by replicating the
// last record. Supplying more records than slots is a configuration error
// (ErrTooManyRecords); the returned slice shares no maps with the input.
func ExpandRecords(recs []Record, n int) ([]Record, error) {
	if len(recs) == 0 {
		return nil, ErrNoRecords
	}
	if len(recs) > n {
		return nil, fmt.Errorf("%w: got %d records for %d slots", ErrTooManyRecords, len(recs), n)
	}

	out := make([]Record, n)
	for j := 0; j < n; j++ {
		if j < len(recs) {
			out[j] = recs[j].Clone()
		} else {
			out[j] = recs[len(recs)-1].Clone()
		}
	}

	return out, nil
}
