package forward_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/enkal/forward"
	"github.com/katalvlaran/enkal/observations"
	"github.com/katalvlaran/enkal/params"
)

// linearSim is a deterministic test simulation: one batch, one field "u"
// with u(t) = a + b*t per member. A non-nil failWhen marks members whose
// output becomes all-NaN, mimicking a diverged run.
type linearSim struct {
	times     []float64
	ne        int
	collector *observations.Collector
	members   []params.Record
	failWhen  func(params.Record) bool
	runs      int
}

// newLinearSim builds a linearSim over the given times and ensemble size.
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
	s.runs++
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

// testObservation builds a single-field observation u(t) = 1 + 0.5*t.
func testObservation(t *testing.T, times []float64) *observations.Observation {
	t.Helper()

	values := make([]float64, len(times))
	for i, tv := range times {
		values[i] = 1 + 0.5*tv
	}
	o, err := observations.NewObservation(times, observations.NewField("u", values, nil))
	require.NoError(t, err)

	return o
}

// testProblem wires a linearSim, the {a, b} parameters and a single
// observation into an inverse problem with the given output map.
func testProblem(t *testing.T, times []float64, ne int, om forward.OutputMap) (*forward.Problem, *linearSim) {
	t.Helper()

	sim := newLinearSim(t, times, ne)
	p, err := forward.NewProblem(
		[]*observations.Observation{testObservation(t, times)},
		sim, testParams(t), om,
	)
	require.NoError(t, err)

	return p, sim
}
