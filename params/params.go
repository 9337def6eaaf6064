package params

import (
	"errors"
	"fmt"
)

// Sentinel errors for parameter-set construction and record conversion.
// All represent configuration mistakes: they are detected before any
// simulation is run and are never retried.
var (
	// ErrNoParameters indicates an empty free-parameter set.
	ErrNoParameters = errors.New("params: at least one free parameter is required")

	// ErrEmptyName indicates a free parameter with an empty name.
	ErrEmptyName = errors.New("params: parameter name must be non-empty")

	// ErrDuplicateName indicates two free parameters sharing a name.
	ErrDuplicateName = errors.New("params: duplicate parameter name")

	// ErrNilPrior indicates a free parameter without a prior distribution.
	ErrNilPrior = errors.New("params: parameter prior must be non-nil")

	// ErrUnknownName indicates a record entry that is not a declared parameter.
	ErrUnknownName = errors.New("params: unknown parameter name")

	// ErrMissingName indicates a record lacking a declared parameter.
	ErrMissingName = errors.New("params: record is missing a parameter")

	// ErrBadVectorLen indicates a raw vector whose length differs from the
	// number of declared parameters.
	ErrBadVectorLen = errors.New("params: vector length does not match parameter count")
)

// FreeParameter binds one calibratable parameter name to its prior.
type FreeParameter struct {
	Name  string
	Prior Prior
}

// FreeParameters is an ordered set of free parameters. The declaration order
// passed to New is the canonical index order used by every vector, ensemble
// matrix row and summary in the module. Immutable after construction.
type FreeParameters struct {
	names  []string
	priors map[string]Prior
	index  map[string]int
}

// Record holds one ensemble member's parameter values by name, in
// constrained (physical) space.
type Record map[string]float64

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// New builds an ordered free-parameter set.
//
// Validation (in order):
//  1. At least one parameter (ErrNoParameters).
//  2. Every name non-empty (ErrEmptyName).
//  3. Names unique (ErrDuplicateName).
//  4. Every prior non-nil (ErrNilPrior).
func New(parameters ...FreeParameter) (*FreeParameters, error) {
	if len(parameters) == 0 {
		return nil, ErrNoParameters
	}

	fp := &FreeParameters{
		names:  make([]string, 0, len(parameters)),
		priors: make(map[string]Prior, len(parameters)),
		index:  make(map[string]int, len(parameters)),
	}
	for i, p := range parameters {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: position %d", ErrEmptyName, i)
		}
		if _, dup := fp.priors[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		if p.Prior == nil {
			return nil, fmt.Errorf("%w: %q", ErrNilPrior, p.Name)
		}
		fp.names = append(fp.names, p.Name)
		fp.priors[p.Name] = p.Prior
		fp.index[p.Name] = i
	}

	return fp, nil
}

// Len returns the number of free parameters (Nparams).
func (fp *FreeParameters) Len() int { return len(fp.names) }

// Names returns the canonical parameter order as a fresh slice.
func (fp *FreeParameters) Names() []string {
	out := make([]string, len(fp.names))
	copy(out, fp.names)

	return out
}

// Prior returns the prior bound to name, and whether name is declared.
func (fp *FreeParameters) Prior(name string) (Prior, bool) {
	p, ok := fp.priors[name]

	return p, ok
}

// Vector reorders a record into a raw vector following the canonical order.
// Every declared parameter must be present (ErrMissingName) and no extra
// entries are allowed (ErrUnknownName).
func (fp *FreeParameters) Vector(rec Record) ([]float64, error) {
	for name := range rec {
		if _, ok := fp.priors[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
		}
	}

	out := make([]float64, len(fp.names))
	for i, name := range fp.names {
		v, ok := rec[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingName, name)
		}
		out[i] = v
	}

	return out, nil
}

// RecordOf builds a named record from a raw vector in canonical order.
func (fp *FreeParameters) RecordOf(vec []float64) (Record, error) {
	if len(vec) != len(fp.names) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadVectorLen, len(vec), len(fp.names))
	}

	rec := make(Record, len(fp.names))
	for i, name := range fp.names {
		rec[name] = vec[i]
	}

	return rec, nil
}
