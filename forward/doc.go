// Package forward turns a parameter ensemble into an output matrix
// comparable with observed data.
//
// The pieces:
//
//   - Simulation — the external batched forward model: parameters in,
//     run to completion, time-series collectors out.
//   - Problem — the inverse problem binding observations, a simulation,
//     free parameters and an output map; ForwardMap is its single operation.
//   - OutputMap — the reduction strategy from raw collected series to a
//     flat numeric vector per member: ConcatenatedOutputMap (default,
//     index-aligned concatenation) or VectorNormMap (one misfit scalar per
//     member, with a pluggable Norm).
//
// ForwardMap pads an undersized record slice by replicating the last record;
// supplying more records than the simulation has ensemble slots is a
// configuration error surfaced before any run.
package forward
