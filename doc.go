// Package recordflow turns a raw byte stream into structured CSV/TSV/
// byte-separated records and writes them back out through a bounded,
// multi-producer writer fabric, with an optional bytecode taint analysis
// pass guarding any shell-command sink a caller's program might reach.
//
// The package composes three largely independent subsystems:
//
//   - internal/vif + internal/rs split a byte stream into records and
//     fields (the Vectorized Index Finder and Record Stepper).
//   - internal/ta proves (or disproves) that a compiled program's
//     command-sink operands can never observe tainted input.
//   - internal/wf fans writes back out to many output paths concurrently,
//     one receiver goroutine per path.
//
// recordflow itself is the thin, public-facing layer: Config/Option wiring,
// the adapted RecordWriter, and the package-level logger.
package recordflow
