// Package observations holds the time-series data an inverse problem
// calibrates against: immutable named-field observations with per-field
// value transforms, and the mutable Collector a batched simulation fills
// with per-member field snapshots on every forward run.
//
// A field's Transform (e.g. normalization) is fixed when the observation is
// built and is applied identically to observed and simulated values, so the
// two stay comparable index for index.
package observations
