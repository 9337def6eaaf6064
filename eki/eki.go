package eki

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/enkal/forward"
	"github.com/katalvlaran/enkal/params"
)

// Inversion is the Ensemble Kalman Inversion engine: it owns an inverse
// problem, a noise covariance, a resampling policy and the running history
// of iteration summaries, and drives the forward-map evaluation plus the
// ensemble Kalman update on every step.
//
// The engine is strictly sequential: step k+1 depends on the complete result
// of step k, and the only blocking call is the forward-map evaluation, which
// the simulation batches internally across the ensemble dimension.
type Inversion struct {
	problem   *forward.Problem
	noise     *mat.SymDense
	y         []float64
	resampler *Resampler
	src       rand.Source
	jitter    float64
	progress  bool

	iteration int
	ensemble  *params.Ensemble
	history   []IterationSummary
}

// New constructs a Ready engine: it validates the noise covariance against
// the problem's output size, samples the initial ensemble from the priors
// (ensemble size = the simulation's ensemble capacity) and records summary
// 0 from it.
func New(p *forward.Problem, noise *mat.SymDense, opts ...Option) (*Inversion, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	if noise == nil {
		return nil, ErrNilNoise
	}
	if noise.SymmetricDim() != p.OutputSize() {
		return nil, fmt.Errorf("%w: got %dx%d, output size %d",
			ErrNoiseSize, noise.SymmetricDim(), noise.SymmetricDim(), p.OutputSize())
	}

	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Resampler == nil {
		cfg.Resampler = DefaultResampler()
	}

	// The observation vector is fixed for the run; computing it here also
	// validates the output map before any simulation is touched.
	y, err := p.ObservationMap()
	if err != nil {
		return nil, err
	}

	src := rand.NewSource(cfg.Seed)
	ensemble, err := params.SamplePrior(p.Free(), p.EnsembleSize(), src)
	if err != nil {
		return nil, err
	}

	noiseCopy := mat.NewSymDense(noise.SymmetricDim(), nil)
	noiseCopy.CopySym(noise)

	return &Inversion{
		problem:   p,
		noise:     noiseCopy,
		y:         y,
		resampler: cfg.Resampler,
		src:       src,
		jitter:    cfg.Jitter,
		progress:  cfg.Progress,
		iteration: 0,
		ensemble:  ensemble,
		history:   []IterationSummary{newSummary(0, ensemble)},
	}, nil
}

// Iteration returns the number of completed update steps.
func (inv *Inversion) Iteration() int { return inv.iteration }

// Problem returns the bound inverse problem.
func (inv *Inversion) Problem() *forward.Problem { return inv.problem }

// Summaries returns the ordered iteration history. Index 0 is the initial
// prior-sampled ensemble, so after N completed iterations the history holds
// N+1 summaries.
func (inv *Inversion) Summaries() []IterationSummary {
	return append([]IterationSummary(nil), inv.history...)
}

// Latest returns the most recent iteration summary.
func (inv *Inversion) Latest() IterationSummary {
	return inv.history[len(inv.history)-1]
}

// Ensemble returns an independent copy of the current ensemble.
func (inv *Inversion) Ensemble() *params.Ensemble {
	return inv.ensemble.Clone()
}

// Iterate performs n successive update steps. On a fatal failure the current
// step is abandoned: no summary is appended, the engine keeps its last valid
// ensemble, and the caller may adjust the resampler configuration and call
// Iterate again.
func (inv *Inversion) Iterate(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: n=%d", ErrBadIterationCount, n)
	}

	for k := 0; k < n; k++ {
		if err := inv.step(); err != nil {
			return err
		}
	}

	return nil
}

// step runs one forward-map evaluation, ensemble repair and Kalman update.
// All mutation happens on a working copy; the engine state is committed only
// once the whole step has succeeded.
func (inv *Inversion) step() error {
	work := inv.ensemble.Clone()

	g, err := inv.problem.ForwardEnsemble(work)
	if err != nil {
		return err
	}

	repaired, err := inv.resampler.Resample(inv.problem, work, g, inv.src)
	if err != nil {
		return err
	}

	if err = kalmanUpdate(work.Matrix(), g, inv.y, inv.noise, inv.src, inv.jitter); err != nil {
		return err
	}

	inv.ensemble = work
	inv.iteration++
	summary := newSummary(inv.iteration, work)
	inv.history = append(inv.history, summary)

	if inv.progress {
		spread := 0.0
		for _, v := range summary.Variance() {
			spread += math.Sqrt(v)
		}
		log.WithFields(log.Fields{
			"iteration": inv.iteration,
			"repaired":  repaired,
			"spread":    spread / float64(len(summary.Names())),
		}).Info("eki: ensemble updated")
	}

	return nil
}
