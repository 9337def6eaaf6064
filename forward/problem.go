package forward

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/enkal/observations"
	"github.com/katalvlaran/enkal/params"
)

// Problem is the inverse problem: an immutable binding of an observation
// batch, a batched simulation, the free parameters and an output map.
// Constructed once per calibration run; ForwardMap mutates the simulation's
// internal state and collectors in place but never replaces the Problem's
// own fields.
type Problem struct {
	obs       []*observations.Observation
	sim       Simulation
	free      *params.FreeParameters
	outputMap OutputMap
}

// NewProblem validates and binds an inverse problem. A nil output map
// defaults to ConcatenatedOutputMap.
//
// Validation (in order):
//  1. Simulation, free parameters and observations present.
//  2. Simulation has at least two ensemble slots.
//  3. Per batch index: the simulation exposes a collector whose fields,
//     time count and member count match the observation and ensemble size.
func NewProblem(obs []*observations.Observation, sim Simulation, free *params.FreeParameters, om OutputMap) (*Problem, error) {
	if sim == nil {
		return nil, ErrNilSimulation
	}
	if free == nil {
		return nil, ErrNilParameters
	}
	if len(obs) == 0 {
		return nil, ErrNoObservations
	}
	if sim.EnsembleSize() < 2 {
		return nil, fmt.Errorf("%w: ensemble size %d", params.ErrEnsembleTooSmall, sim.EnsembleSize())
	}
	if om == nil {
		om = ConcatenatedOutputMap{}
	}

	for b, o := range obs {
		if o == nil {
			return nil, fmt.Errorf("%w: batch %d", ErrNilObservation, b)
		}
		c := sim.Collector(b)
		if c == nil {
			return nil, fmt.Errorf("%w: batch %d", ErrNilCollector, b)
		}
		if c.Members() != sim.EnsembleSize() {
			return nil, fmt.Errorf("%w: batch %d has %d members for ensemble size %d",
				ErrCollectorMismatch, b, c.Members(), sim.EnsembleSize())
		}
		if len(c.Times()) != len(o.Times()) {
			return nil, fmt.Errorf("%w: batch %d has %d collection times for %d observation times",
				ErrCollectorMismatch, b, len(c.Times()), len(o.Times()))
		}
		want := o.Fields()
		got := c.Fields()
		if len(got) != len(want) {
			return nil, fmt.Errorf("%w: batch %d collects %d fields, observation declares %d",
				ErrCollectorMismatch, b, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				return nil, fmt.Errorf("%w: batch %d field %d is %q, observation declares %q",
					ErrCollectorMismatch, b, i, got[i], want[i])
			}
		}
	}

	return &Problem{
		obs:       append([]*observations.Observation(nil), obs...),
		sim:       sim,
		free:      free,
		outputMap: om,
	}, nil
}

// Free returns the free-parameter set the problem calibrates.
func (p *Problem) Free() *params.FreeParameters { return p.free }

// EnsembleSize returns the simulation's ensemble capacity.
func (p *Problem) EnsembleSize() int { return p.sim.EnsembleSize() }

// OutputSize returns the length of the comparable output vector.
func (p *Problem) OutputSize() int { return p.outputMap.OutputSize(p.obs) }

// ObservationMap applies the output map to the observation batch, producing
// the target vector y. No ensemble dimension and no simulation run.
func (p *Problem) ObservationMap() ([]float64, error) {
	return p.outputMap.ObservationVector(p.obs)
}

// ForwardMap evaluates the forward model for an ensemble of parameter
// records and returns the (outputSize x Nensemble) output matrix.
//
// Steps:
//  1. Expand the records to exactly EnsembleSize entries, replicating the
//     last record; more records than slots is a configuration error
//     (params.ErrTooManyRecords) raised before any run.
//  2. Validate every supplied record against the free-parameter set.
//  3. Configure the simulation with the expanded records and run it to
//     completion, overwriting the collectors.
//  4. Apply the output map to the collected series.
func (p *Problem) ForwardMap(recs []params.Record) (*mat.Dense, error) {
	expanded, err := params.ExpandRecords(recs, p.sim.EnsembleSize())
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if _, err = p.free.Vector(rec); err != nil {
			return nil, err
		}
	}

	if err = p.sim.Configure(expanded); err != nil {
		return nil, fmt.Errorf("%w: configure: %v", ErrSimulation, err)
	}
	if err = p.sim.Run(); err != nil {
		return nil, fmt.Errorf("%w: run: %v", ErrSimulation, err)
	}

	cols := make([]*observations.Collector, len(p.obs))
	for b := range p.obs {
		cols[b] = p.sim.Collector(b)
	}

	return p.outputMap.TransformOutput(p.obs, cols)
}

// ForwardEnsemble evaluates ForwardMap on every member of an ensemble.
func (p *Problem) ForwardEnsemble(e *params.Ensemble) (*mat.Dense, error) {
	return p.ForwardMap(e.Records())
}
