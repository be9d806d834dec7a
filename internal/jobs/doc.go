// Package jobs holds the concrete render job implementations. Each job
// registers itself with the job registry from its init function; importing
// this package (usually blank, from the CLI) makes the full catalog
// discoverable.
//
// All jobs walk the studio dimensions position (outer), background, camera
// (inner), frames innermost, and name outputs camera key + position suffix +
// background, e.g. topT_paper_black.
package jobs
