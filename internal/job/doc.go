// Package job is the render-job framework: the job contract, the explicit
// name registry configuration entries are resolved against, per-job parameter
// schemas with eager validation, the progress tracker, and the executor that
// drives one job from PENDING to a terminal state.
package job
