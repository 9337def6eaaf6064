package forward_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/enkal/forward"
	"github.com/katalvlaran/enkal/observations"
	"github.com/katalvlaran/enkal/params"
)

var testTimes = []float64{0, 0.5, 1}

// TestNewProblem_Validation covers the constructor's failure order.
func TestNewProblem_Validation(t *testing.T) {
	obs := []*observations.Observation{testObservation(t, testTimes)}
	fp := testParams(t)
	sim := newLinearSim(t, testTimes, 3)

	_, err := forward.NewProblem(obs, nil, fp, nil)
	assert.ErrorIs(t, err, forward.ErrNilSimulation)

	_, err = forward.NewProblem(obs, sim, nil, nil)
	assert.ErrorIs(t, err, forward.ErrNilParameters)

	_, err = forward.NewProblem(nil, sim, fp, nil)
	assert.ErrorIs(t, err, forward.ErrNoObservations)

	_, err = forward.NewProblem(obs, newLinearSim(t, testTimes, 1), fp, nil)
	assert.ErrorIs(t, err, params.ErrEnsembleTooSmall)

	// Collector with the wrong time count.
	_, err = forward.NewProblem(obs, newLinearSim(t, []float64{0, 1}, 3), fp, nil)
	assert.ErrorIs(t, err, forward.ErrCollectorMismatch)

	// Second batch without a collector.
	twoBatches := []*observations.Observation{obs[0], obs[0]}
	_, err = forward.NewProblem(twoBatches, sim, fp, nil)
	assert.ErrorIs(t, err, forward.ErrNilCollector)
}

// TestForwardMap_Shape verifies the output matrix dimensions and the
// concatenated output size.
func TestForwardMap_Shape(t *testing.T) {
	p, _ := testProblem(t, testTimes, 3, nil)

	assert.Equal(t, len(testTimes), p.OutputSize(), "one field: output size = time count")

	g, err := p.ForwardMap([]params.Record{{"a": 1.0, "b": 0.5}})
	require.NoError(t, err)
	r, c := g.Dims()
	assert.Equal(t, len(testTimes), r)
	assert.Equal(t, 3, c, "columns = ensemble size")
}

// TestForwardMap_PadsLastRecord verifies undersupplied records replicate the
// last record across remaining slots.
func TestForwardMap_PadsLastRecord(t *testing.T) {
	p, sim := testProblem(t, testTimes, 3, nil)

	_, err := p.ForwardMap([]params.Record{
		{"a": 0.95, "b": 1.0},
		{"a": 1.05, "b": 2.0},
	})
	require.NoError(t, err)

	require.Len(t, sim.members, 3, "simulation always sees a full ensemble")
	assert.Equal(t, sim.members[1], sim.members[2], "slot 2 replicates the last supplied record")
}

// TestForwardMap_TooManyRecords verifies oversupply fails before any run.
func TestForwardMap_TooManyRecords(t *testing.T) {
	p, sim := testProblem(t, testTimes, 2, nil)

	recs := []params.Record{
		{"a": 1.0, "b": 0}, {"a": 1.0, "b": 0}, {"a": 1.0, "b": 0},
	}
	_, err := p.ForwardMap(recs)
	assert.ErrorIs(t, err, params.ErrTooManyRecords)
	assert.Zero(t, sim.runs, "no simulation run on a configuration error")
}

// TestForwardMap_BadRecord verifies mismatched parameter names fail before
// any run.
func TestForwardMap_BadRecord(t *testing.T) {
	p, sim := testProblem(t, testTimes, 2, nil)

	_, err := p.ForwardMap([]params.Record{{"zz": 1.0}})
	assert.ErrorIs(t, err, params.ErrUnknownName)
	assert.Zero(t, sim.runs, "no simulation run on a configuration error")
}

// TestForwardMap_Idempotent verifies two calls with identical parameter
// ensembles yield identical output matrices.
func TestForwardMap_Idempotent(t *testing.T) {
	p, _ := testProblem(t, testTimes, 3, nil)
	recs := []params.Record{{"a": 1.02, "b": 0.4}, {"a": 0.98, "b": 0.6}}

	first, err := p.ForwardMap(recs)
	require.NoError(t, err)
	second, err := p.ForwardMap(recs)
	require.NoError(t, err)

	assert.True(t, mat.Equal(first, second), "forward map must be deterministic for fixed parameters")
}

// TestObservationMap_Aligned verifies y matches the forward output of the
// true parameters entry for entry.
func TestObservationMap_Aligned(t *testing.T) {
	p, _ := testProblem(t, testTimes, 2, nil)

	y, err := p.ObservationMap()
	require.NoError(t, err)
	require.Len(t, y, p.OutputSize())

	// The observation was generated by u(t) = 1 + 0.5*t; the forward map of
	// the true parameters must reproduce it exactly.
	g, err := p.ForwardMap([]params.Record{{"a": 1.0, "b": 0.5}})
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, y[i], g.At(i, 0), 1e-12, "y and G must be index-aligned")
	}
}
