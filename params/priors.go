package params

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sentinel errors for prior construction.
var (
	// ErrBadBounds indicates a bounded prior with Hi <= Lo.
	ErrBadBounds = errors.New("params: prior upper bound must exceed lower bound")

	// ErrBadScale indicates a non-positive spread (Sigma <= 0).
	ErrBadScale = errors.New("params: prior sigma must be positive")
)

// Prior is the sampling and transform contract a free parameter carries.
//
// Rand draws one sample in constrained (physical) space from the given
// source. Unconstrain maps a constrained value into the unconstrained space
// the Kalman update operates in; Constrain is its inverse. For unbounded
// priors both transforms are the identity. Values outside a bounded prior's
// support map to non-finite unconstrained values, which the engine treats as
// a member failure.
type Prior interface {
	Rand(src rand.Source) float64
	Unconstrain(x float64) float64
	Constrain(z float64) float64
}

// Normal is an unbounded Gaussian prior. The transform pair is the identity.
type Normal struct {
	Mu    float64 // mean
	Sigma float64 // standard deviation, > 0
}

// NewNormal returns a Normal prior, validating Sigma.
func NewNormal(mu, sigma float64) (Normal, error) {
	if sigma <= 0 {
		return Normal{}, fmt.Errorf("%w: sigma=%g", ErrBadScale, sigma)
	}

	return Normal{Mu: mu, Sigma: sigma}, nil
}

// Rand draws one sample.
func (n Normal) Rand(src rand.Source) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma, Src: src}.Rand()
}

// Unconstrain is the identity for an unbounded prior.
func (n Normal) Unconstrain(x float64) float64 { return x }

// Constrain is the identity for an unbounded prior.
func (n Normal) Constrain(z float64) float64 { return z }

// LogNormal is a positive-support prior: log(X) ~ N(Mu, Sigma).
// The unconstrained space is log space.
type LogNormal struct {
	Mu    float64 // mean of log(X)
	Sigma float64 // standard deviation of log(X), > 0
}

// NewLogNormal returns a LogNormal prior, validating Sigma.
func NewLogNormal(mu, sigma float64) (LogNormal, error) {
	if sigma <= 0 {
		return LogNormal{}, fmt.Errorf("%w: sigma=%g", ErrBadScale, sigma)
	}

	return LogNormal{Mu: mu, Sigma: sigma}, nil
}

// Rand draws one sample (always positive).
func (l LogNormal) Rand(src rand.Source) float64 {
	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma, Src: src}.Rand()
}

// Unconstrain maps (0, +inf) onto the real line via log.
// Non-positive x yields -Inf/NaN, flagged downstream as a failure.
func (l LogNormal) Unconstrain(x float64) float64 { return math.Log(x) }

// Constrain maps the real line back onto (0, +inf) via exp.
func (l LogNormal) Constrain(z float64) float64 { return math.Exp(z) }

// ScaledLogitNormal is a bounded prior on the open interval (Lo, Hi):
// the unconstrained coordinate z ~ N(Mu, Sigma) maps through the scaled
// logistic Lo + (Hi-Lo)/(1+exp(-z)). Every constrained value produced by
// Rand or Constrain lies strictly inside (Lo, Hi), which is what keeps
// Kalman-updated parameters inside their declared bounds.
type ScaledLogitNormal struct {
	Lo    float64 // lower bound
	Hi    float64 // upper bound, > Lo
	Mu    float64 // mean in unconstrained space
	Sigma float64 // standard deviation in unconstrained space, > 0
}

// NewScaledLogitNormal returns a standard-normal scaled-logit prior on
// (lo, hi): Mu=0, Sigma=1. Use the struct literal for a non-standard core.
func NewScaledLogitNormal(lo, hi float64) (ScaledLogitNormal, error) {
	if hi <= lo {
		return ScaledLogitNormal{}, fmt.Errorf("%w: [%g, %g]", ErrBadBounds, lo, hi)
	}

	return ScaledLogitNormal{Lo: lo, Hi: hi, Mu: 0, Sigma: 1}, nil
}

// Rand draws one sample strictly inside (Lo, Hi).
func (s ScaledLogitNormal) Rand(src rand.Source) float64 {
	z := distuv.Normal{Mu: s.Mu, Sigma: s.Sigma, Src: src}.Rand()

	return s.Constrain(z)
}

// Unconstrain maps (Lo, Hi) onto the real line via the scaled logit.
// Values at or beyond the bounds map to +/-Inf or NaN.
func (s ScaledLogitNormal) Unconstrain(x float64) float64 {
	p := (x - s.Lo) / (s.Hi - s.Lo)

	return math.Log(p / (1 - p))
}

// Constrain maps the real line onto (Lo, Hi) via the scaled logistic.
// The logistic saturates in float64 for |z| beyond ~37; saturated results
// are nudged to the nearest representable value inside the open interval,
// keeping the strict-bounds contract for arbitrarily large updates.
func (s ScaledLogitNormal) Constrain(z float64) float64 {
	x := s.Lo + (s.Hi-s.Lo)/(1+math.Exp(-z))
	if x <= s.Lo {
		return math.Nextafter(s.Lo, s.Hi)
	}
	if x >= s.Hi {
		return math.Nextafter(s.Hi, s.Lo)
	}

	return x
}
