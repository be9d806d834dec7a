// Package studio resolves the shared render context from configuration: the
// enabled preset cameras rigged per board position, the enabled backgrounds
// and positions, the procedural lights, and the rendered-object target the
// cameras frame. The resolved Studio is handed to every job; jobs that need
// different dimensions adjust a job-local copy.
package studio
