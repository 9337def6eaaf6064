package eki

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// maxCholeskyAttempts bounds the Tikhonov retries of the stabilized solve.
const maxCholeskyAttempts = 8

// kalmanUpdate applies one ensemble Kalman analysis step in place:
//
//	θ_j' = θ_j + Cθg · (Cgg + Γ)⁻¹ · (y_j − G_j)
//
// with y_j = y + noise_j, one multivariate-normal draw per member from the
// shared noise covariance Γ. The solve against (Cgg + Γ) uses a Cholesky
// factorization; if factorization fails, jitter·mean(diag) is added to the
// diagonal and the jitter grows tenfold per retry until the budget runs out
// (ErrSingularUpdate).
func kalmanUpdate(theta, g *mat.Dense, y []float64, noise *mat.SymDense, src rand.Source, jitter float64) error {
	np, ne := theta.Dims()
	no, _ := g.Dims()

	noiseDist, ok := distmv.NewNormal(make([]float64, no), noise, src)
	if !ok {
		return ErrNoiseNotPD
	}

	// Perturbed observations: one column per member, distinct draws.
	perturbed := mat.NewDense(no, ne, nil)
	draw := make([]float64, no)
	for j := 0; j < ne; j++ {
		noiseDist.Rand(draw)
		for i := 0; i < no; i++ {
			perturbed.Set(i, j, y[i]+draw[i])
		}
	}

	// Centered anomalies of parameters and outputs.
	thetaC := centered(theta, np, ne)
	gC := centered(g, no, ne)

	// Cross-covariance Cθg (np x no) and output covariance Cgg (no x no).
	var ctg mat.Dense
	ctg.Mul(thetaC, gC.T())
	ctg.Scale(1/float64(ne-1), &ctg)

	var cgg mat.Dense
	cgg.Mul(gC, gC.T())
	cgg.Scale(1/float64(ne-1), &cgg)

	// S = Cgg + Γ, symmetric by construction.
	s := mat.NewSymDense(no, nil)
	meanDiag := 0.0
	for i := 0; i < no; i++ {
		for j := i; j < no; j++ {
			s.SetSym(i, j, cgg.At(i, j)+noise.At(i, j))
		}
		meanDiag += s.At(i, i)
	}
	meanDiag /= float64(no)
	if meanDiag <= 0 {
		meanDiag = 1
	}

	var chol mat.Cholesky
	lam := jitter
	for attempt := 0; ; attempt++ {
		if chol.Factorize(s) {
			break
		}
		if attempt == maxCholeskyAttempts {
			return fmt.Errorf("%w: no Cholesky factorization after %d Tikhonov retries",
				ErrSingularUpdate, attempt)
		}
		for i := 0; i < no; i++ {
			s.SetSym(i, i, s.At(i, i)+lam*meanDiag)
		}
		lam *= 10
	}

	// Per-member analysis: solve S·x = (y_j − G_j), shift θ_j by Cθg·x.
	resid := mat.NewVecDense(no, nil)
	sol := mat.NewVecDense(no, nil)
	shift := mat.NewVecDense(np, nil)
	for j := 0; j < ne; j++ {
		for i := 0; i < no; i++ {
			resid.SetVec(i, perturbed.At(i, j)-g.At(i, j))
		}
		if err := chol.SolveVecTo(sol, resid); err != nil {
			return fmt.Errorf("%w: member %d: %v", ErrSingularUpdate, j, err)
		}
		shift.MulVec(&ctg, sol)
		for i := 0; i < np; i++ {
			theta.Set(i, j, theta.At(i, j)+shift.AtVec(i))
		}
	}

	return nil
}

// centered returns x with its row means subtracted.
func centered(x *mat.Dense, rows, cols int) *mat.Dense {
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		mean := 0.0
		for j := 0; j < cols; j++ {
			mean += x.At(i, j)
		}
		mean /= float64(cols)
		for j := 0; j < cols; j++ {
			out.Set(i, j, x.At(i, j)-mean)
		}
	}

	return out
}
