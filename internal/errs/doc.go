// Package errs defines the error taxonomy and context plumbing shared across
// the render pipeline.
//
// Key responsibilities:
//   - Sentinel markers for the failure classes the pipeline distinguishes
//     (unknown job, invalid parameter, missing asset, render/encode failure,
//     configuration and scene faults) plus the Wrap helper that attaches job
//     and operation context to every failure.
//   - Context helpers that stamp job names and run identifiers for logging.
//   - The ExitCode mapping the CLI uses to translate failures into process
//     exit statuses.
//
// Use these helpers when wiring new job logic so error handling and
// observability stay uniform across the pipeline.
package errs
