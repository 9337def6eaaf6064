package forward

import (
	"errors"

	"github.com/katalvlaran/enkal/observations"
	"github.com/katalvlaran/enkal/params"
)

// Sentinel errors for inverse-problem construction and forward-map calls.
var (
	// ErrNilSimulation indicates a nil Simulation.
	ErrNilSimulation = errors.New("forward: simulation is nil")

	// ErrNilParameters indicates a nil free-parameter set.
	ErrNilParameters = errors.New("forward: free parameters are nil")

	// ErrNoObservations indicates an empty observation batch.
	ErrNoObservations = errors.New("forward: at least one observation is required")

	// ErrNilObservation indicates a nil observation in the batch.
	ErrNilObservation = errors.New("forward: observation is nil")

	// ErrNilCollector indicates the simulation returned no collector for a
	// batch index the observations require.
	ErrNilCollector = errors.New("forward: simulation collector is nil")

	// ErrCollectorMismatch indicates a collector whose fields, times or
	// member count disagree with the bound observation / ensemble size.
	ErrCollectorMismatch = errors.New("forward: collector does not match observation")

	// ErrSimulation wraps a failure reported by the external simulation.
	ErrSimulation = errors.New("forward: simulation failed")
)

// Simulation is the external batched forward model an inverse problem drives.
//
// Implementations own one execution unit per ensemble member (and, for
// batched observations, per batch index). Configure builds fresh per-member
// configuration from the supplied records — it must not retain the slice.
// Run advances every member to completion, overwriting the collectors; it
// must be safe to invoke repeatedly and deterministic for fixed parameters.
type Simulation interface {
	// EnsembleSize returns the number of ensemble slots batched internally.
	EnsembleSize() int

	// Configure injects one parameter record per ensemble member.
	// len(members) always equals EnsembleSize.
	Configure(members []params.Record) error

	// Run advances all members to completion, filling the collectors.
	Run() error

	// Collector returns the time-series collector for one batch index.
	Collector(batch int) *observations.Collector
}
