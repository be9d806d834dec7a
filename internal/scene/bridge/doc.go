// Package bridge runs the host render engine as a subprocess and exposes it
// as a scene.Engine.
//
// The protocol is line-oriented JSON over stdio: one request per line, one
// response per line, with interleaved event lines forwarded to the logger.
// Exactly one request is in flight at a time.
package bridge
