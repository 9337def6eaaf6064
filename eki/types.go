package eki

import "errors"

// Sentinel errors returned by the inversion engine and the resampler.
var (
	// ErrNilProblem indicates a nil inverse problem.
	ErrNilProblem = errors.New("eki: inverse problem is nil")

	// ErrNilNoise indicates a nil noise covariance.
	ErrNilNoise = errors.New("eki: noise covariance is nil")

	// ErrNoiseSize indicates a noise covariance not sized to the output
	// vector.
	ErrNoiseSize = errors.New("eki: noise covariance size does not match output size")

	// ErrNoiseNotPD indicates a noise covariance that is not positive
	// definite, so perturbed observations cannot be drawn from it.
	ErrNoiseNotPD = errors.New("eki: noise covariance is not positive definite")

	// ErrBadIterationCount indicates a negative iteration count.
	ErrBadIterationCount = errors.New("eki: iteration count must be non-negative")

	// ErrBadFailureFraction indicates an acceptable failure fraction outside
	// [0, 1].
	ErrBadFailureFraction = errors.New("eki: acceptable failure fraction must be in [0, 1]")

	// ErrNilDistribution indicates a resampler without a replacement
	// distribution.
	ErrNilDistribution = errors.New("eki: resampling distribution is nil")

	// ErrFailureFraction indicates more failed members than the resampler
	// tolerates. Fatal: the iteration is abandoned without mutating state.
	ErrFailureFraction = errors.New("eki: ensemble failure fraction exceeds tolerance")

	// ErrDegenerateDistribution indicates the resampling distribution cannot
	// be fitted (fewer than two usable members, or singular covariance).
	ErrDegenerateDistribution = errors.New("eki: resampling distribution is degenerate")

	// ErrResampleExhausted indicates redrawn members kept producing
	// non-finite output across the retry budget.
	ErrResampleExhausted = errors.New("eki: resampling failed to repair ensemble")

	// ErrSingularUpdate indicates (Cgg + Γ) could not be factorized even
	// after Tikhonov regularization.
	ErrSingularUpdate = errors.New("eki: Kalman update matrix is singular")
)

// defaultJitter is the initial relative Tikhonov jitter added to the
// diagonal of (Cgg + Γ) when its Cholesky factorization fails.
const defaultJitter = 1e-10

// Options configures an Inversion.
//
// Seed feeds the engine's private random source; prior sampling, noise draws
// and resampling draws all flow from it, so a fixed seed makes a calibration
// run reproducible. Resampler is the failure-repair policy invoked before
// every Kalman update. Jitter is the initial relative Tikhonov jitter for the
// stabilized solve. Progress emits one structured log line per completed
// iteration.
type Options struct {
	Seed      uint64
	Resampler *Resampler
	Jitter    float64
	Progress  bool
}

// Option is a functional option for configuring an Inversion.
type Option func(*Options)

// WithSeed fixes the engine's random seed for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithResampler replaces the default failure-repair policy.
func WithResampler(r *Resampler) Option {
	return func(o *Options) { o.Resampler = r }
}

// WithJitter sets the initial relative Tikhonov jitter. Must be positive;
// non-positive values panic, signalling invalid configuration early.
func WithJitter(jitter float64) Option {
	return func(o *Options) {
		if jitter <= 0 {
			panic("eki: jitter must be positive")
		}
		o.Jitter = jitter
	}
}

// WithProgress enables per-iteration progress logging.
func WithProgress() Option {
	return func(o *Options) { o.Progress = true }
}

// DefaultOptions returns the engine defaults: seed 1, the default resampler,
// jitter 1e-10 and no progress logging.
func DefaultOptions() Options {
	return Options{
		Seed:      1,
		Resampler: DefaultResampler(),
		Jitter:    defaultJitter,
		Progress:  false,
	}
}
