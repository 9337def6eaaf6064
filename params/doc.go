// Package params defines the calibratable parameter space of an inverse
// problem: named free parameters bound to prior distributions, single-member
// parameter records, and the matrix-valued parameter ensemble updated by the
// Kalman iteration.
//
// Two coordinate systems coexist:
//
//   - Constrained space — physical parameter values, possibly bounded
//     (e.g. a drag coefficient in (0.9, 1.1)). Records and summaries always
//     live here.
//   - Unconstrained space — the space the linear Kalman update operates in.
//     Each Prior supplies the forward (Unconstrain) and inverse (Constrain)
//     transform between the two, so updated values can never leave the
//     declared support.
//
// The canonical parameter order is fixed by the FreeParameters constructor:
// every vector, matrix row and record produced by this module uses that order.
package params
