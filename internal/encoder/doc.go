// Package encoder sequences rendered frame files into video outputs via the
// ffmpeg CLI. Command execution sits behind an Executor so tests can assert
// the exact argument lists without spawning processes.
package encoder
