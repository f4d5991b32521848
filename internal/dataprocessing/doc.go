// Package dataprocessing implements the BIPM clock-file checking pipeline:
// classification and parsing of fixed-column clock files, step correction of
// per-clock series, and first/second differencing.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Classifier: matches raw lines against the clock-value and jump shapes
// 2. Parser: extracts records from files with per-line diagnostics
// 3. Corrector: backs the accumulated effect of later jumps out of earlier samples
// 4. Deriver: produces first- and second-difference series
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Clock files → Parser → ClockRecords + JumpRecords → Batch → Dataset
//
// The Batch driver owns the shared accumulator collections, processes files
// strictly sequentially, and groups results by clock code before correction
// and differencing.
//
// # Error Handling
//
// Parsing is partial-failure tolerant: a malformed field skips the smallest
// possible scope (one clock slot, or one jump record) and every finding is
// recorded as a Diagnostic with its file and 1-based line number. A single
// bad line or missing file never aborts the batch.
package dataprocessing
