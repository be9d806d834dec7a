// Package pipeline drives a render run end to end: it validates the
// configured job list eagerly, executes each job sequentially against the
// shared studio, and records run history in the ledger.
//
// The two phases are deliberate. Phase one discovers every job name and
// parses every parameter set before anything renders, so a typo in the last
// output entry cannot waste an hour of rendering on the first. Phase two
// executes in configured order and halts on the first failure; outputs
// already written stay on disk.
package pipeline
