package forward

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/enkal/observations"
)

// OutputMap reduces raw collected time series into the flat numeric form the
// Kalman update compares against observations. The two implementations in
// this package (ConcatenatedOutputMap, VectorNormMap) are the closed set of
// variants; both must keep ObservationVector and TransformOutput
// index-aligned.
type OutputMap interface {
	// ObservationVector maps the observation batch to the target vector y.
	ObservationVector(obs []*observations.Observation) ([]float64, error)

	// TransformOutput maps the collected per-member series to a
	// (outputSize x Nensemble) matrix, column j holding member j's output.
	TransformOutput(obs []*observations.Observation, cols []*observations.Collector) (*mat.Dense, error)

	// OutputSize returns the length of the vectors the map produces for the
	// given observation batch.
	OutputSize(obs []*observations.Observation) int
}

// ConcatenatedOutputMap is the default output map: for every batched
// observation, every field in declared order is transformed and its time
// series appended, producing one flat vector per member. The ordering is
// fixed by (batch, field, time), so y and G stay index-aligned.
type ConcatenatedOutputMap struct{}

// OutputSize sums times x fields over the batch.
func (ConcatenatedOutputMap) OutputSize(obs []*observations.Observation) int {
	size := 0
	for _, o := range obs {
		size += len(o.Fields()) * len(o.Times())
	}

	return size
}

// ObservationVector concatenates every transformed observed field series.
func (ConcatenatedOutputMap) ObservationVector(obs []*observations.Observation) ([]float64, error) {
	var y []float64
	for _, o := range obs {
		for _, name := range o.Fields() {
			series, err := o.Transformed(name)
			if err != nil {
				return nil, err
			}
			y = append(y, series...)
		}
	}

	return y, nil
}

// TransformOutput concatenates every transformed simulated field series,
// member by member, in the same (batch, field, time) order as
// ObservationVector.
func (c ConcatenatedOutputMap) TransformOutput(obs []*observations.Observation, cols []*observations.Collector) (*mat.Dense, error) {
	members := cols[0].Members()
	out := mat.NewDense(c.OutputSize(obs), members, nil)

	for j := 0; j < members; j++ {
		row := 0
		for b, o := range obs {
			for _, name := range o.Fields() {
				raw, err := cols[b].Series(name, j)
				if err != nil {
					return nil, err
				}
				series, err := o.TransformSeries(name, raw)
				if err != nil {
					return nil, err
				}
				for _, v := range series {
					out.Set(row, j, v)
					row++
				}
			}
		}
	}

	return out, nil
}

// VectorNormMap reduces each member's concatenated output to a single
// scalar: the norm of its discrepancy from the observation vector y. The
// observation map under this reduction is always the scalar 0.
//
// Norm defaults to Euclidean; WarpedNorm trades exact index alignment for
// tolerance to time-shifted transients.
type VectorNormMap struct {
	Norm Norm
}

// OutputSize is always 1: one misfit scalar per member.
func (VectorNormMap) OutputSize([]*observations.Observation) int { return 1 }

// ObservationVector is the zero scalar: a perfect member has no discrepancy.
func (VectorNormMap) ObservationVector([]*observations.Observation) ([]float64, error) {
	return []float64{0}, nil
}

// TransformOutput builds each member's concatenated output and reduces it to
// its distance from y under the configured norm.
func (v VectorNormMap) TransformOutput(obs []*observations.Observation, cols []*observations.Collector) (*mat.Dense, error) {
	var concat ConcatenatedOutputMap
	y, err := concat.ObservationVector(obs)
	if err != nil {
		return nil, err
	}
	g, err := concat.TransformOutput(obs, cols)
	if err != nil {
		return nil, err
	}

	norm := v.Norm
	if norm == nil {
		norm = Euclidean()
	}

	_, members := g.Dims()
	out := mat.NewDense(1, members, nil)
	member := make([]float64, len(y))
	for j := 0; j < members; j++ {
		mat.Col(member, j, g)
		out.Set(0, j, norm(member, y))
	}

	return out, nil
}
