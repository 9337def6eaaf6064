// Package report exports a calibration history — the ordered iteration
// summaries of an Ensemble Kalman Inversion run — as a fixed-width console
// table, a TSV file, or an XLSX workbook.
//
// The exports are on-request snapshots for inspection and post-processing;
// the engine itself never persists state.
package report
