// Package preflight provides readiness checks for the filesystem paths and
// external binaries a render run depends on.
//
// These checks run in two contexts:
//   - The render command calls RunAll before resolving the scene. If any
//     check fails, the run aborts to avoid discovering a missing encoder
//     hours into a long render queue.
//   - The CLI "pcbooth config validate" command uses the individual check
//     functions to display readiness alongside configuration diagnostics.
package preflight
