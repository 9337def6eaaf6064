package eki_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/enkal/forward"
	"github.com/katalvlaran/enkal/observations"
	"github.com/katalvlaran/enkal/params"
)

// linearSim is the deterministic test simulation: one batch, one field "u"
// with u(t) = a + b*t per member. failWhen marks members whose output
// becomes all-NaN, mimicking a diverged run; it may be swapped between runs.
type linearSim struct {
	times     []float64
	ne        int
	collector *observations.Collector
	members   []params.Record
	failWhen  func(params.Record) bool
}

func newLinearSim(t *testing.T, times []float64, ne int) *linearSim {
	t.Helper()

	c, err := observations.NewCollector(times, []string{"u"}, ne)
	require.NoError(t, err)

	return &linearSim{times: times, ne: ne, collector: c}
}

func (s *linearSim) EnsembleSize() int { return s.ne }

func (s *linearSim) Configure(members []params.Record) error {
	s.members = members

	return nil
}

func (s *linearSim) Run() error {
	for j, rec := range s.members {
		series := make([]float64, len(s.times))
		if s.failWhen != nil && s.failWhen(rec) {
			for i := range series {
				series[i] = math.NaN()
			}
		} else {
			for i, tv := range s.times {
				series[i] = rec["a"] + rec["b"]*tv
			}
		}
		if err := s.collector.SetSeries("u", j, series); err != nil {
			return err
		}
	}

	return nil
}

func (s *linearSim) Collector(batch int) *observations.Collector {
	if batch == 0 {
		return s.collector
	}

	return nil
}

// testParams builds the {a, b} free-parameter set: a bounded in (0.9, 1.1),
// b unbounded.
func testParams(t *testing.T) *params.FreeParameters {
	t.Helper()

	a, err := params.NewScaledLogitNormal(0.9, 1.1)
	require.NoError(t, err)
	b, err := params.NewNormal(0, 1)
	require.NoError(t, err)

	fp, err := params.New(
		params.FreeParameter{Name: "a", Prior: a},
		params.FreeParameter{Name: "b", Prior: b},
	)
	require.NoError(t, err)

	return fp
}

// testProblem wires a linearSim against an observation generated by the true
// parameters a=1.0, b=0.5.
func testProblem(t *testing.T, times []float64, ne int, om forward.OutputMap) (*forward.Problem, *linearSim) {
	t.Helper()

	values := make([]float64, len(times))
	for i, tv := range times {
		values[i] = 1 + 0.5*tv
	}
	o, err := observations.NewObservation(times, observations.NewField("u", values, nil))
	require.NoError(t, err)

	sim := newLinearSim(t, times, ne)
	p, err := forward.NewProblem([]*observations.Observation{o}, sim, testParams(t), om)
	require.NoError(t, err)

	return p, sim
}

// vectorNormMap returns the scalar-misfit output map.
func vectorNormMap() forward.OutputMap { return forward.VectorNormMap{} }

// diagNoise builds a diagonal noise covariance of the given size.
func diagNoise(size int, variance float64) *mat.SymDense {
	noise := mat.NewSymDense(size, nil)
	for i := 0; i < size; i++ {
		noise.SetSym(i, i, variance)
	}

	return noise
}
