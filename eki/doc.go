// Package eki implements Ensemble Kalman Inversion: iterative, gradient-free
// Bayesian calibration of a simulation's free parameters against time-series
// observations.
//
// What & Why:
//
//	A population ("ensemble") of parameter guesses is pushed, iteration by
//	iteration, toward values whose simulated output best matches the observed
//	data. No gradients of the forward model are needed: each step estimates
//	parameter/output covariances from the ensemble itself and applies the
//	standard ensemble Kalman analysis
//
//	    θ_j' = θ_j + Cθg · (Cgg + Γ)⁻¹ · (y_j − G_j)
//
//	against per-member perturbed observations y_j = y + noise_j, noise_j drawn
//	from the configured noise covariance Γ. The solve against (Cgg + Γ) uses a
//	Cholesky factorization with a Tikhonov jitter fallback, never an explicit
//	inverse.
//
// Iteration protocol:
//
//  1. Read the latest ensemble (index 0 of the history is the prior sample).
//  2. Evaluate the forward map over the ensemble.
//  3. Hand θ and G to the Resampler: members with non-finite output are
//     redrawn from a distribution fitted to the ensemble and re-run, up to
//     the configured failure tolerance.
//  4. Apply the Kalman update in the priors' unconstrained space, so bounded
//     parameters never leave their declared support.
//  5. Append an immutable IterationSummary and advance the counter.
//
// Failure semantics:
//
//	Recoverable numerical failures (non-finite member output) are repaired
//	before the update ever sees them. Unrecoverable failures — failure
//	fraction above tolerance, degenerate resampling distribution — abort the
//	step with a sentinel error, append no summary, and leave the engine in
//	its last valid state so the caller may reconfigure and retry.
//
// Errors (sentinel):
//
//	– ErrNilProblem, ErrNilNoise, ErrNoiseSize   invalid construction.
//	– ErrNoiseNotPD                              Γ is not positive definite.
//	– ErrBadIterationCount                       negative iteration count.
//	– ErrBadFailureFraction, ErrNilDistribution  invalid resampler config.
//	– ErrFailureFraction                         too many failed members.
//	– ErrDegenerateDistribution                  too few members to fit.
//	– ErrResampleExhausted                       redraws kept failing.
//	– ErrSingularUpdate                          (Cgg + Γ) not factorizable.
//
// Example usage:
//
//	inv, err := eki.New(problem, noise, eki.WithSeed(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err = inv.Iterate(10); err != nil {
//	    log.Fatal(err)
//	}
//	best := inv.Latest().Mean()
package eki
