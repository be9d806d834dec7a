// Package main hosts the pcbooth CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into render
// pipeline runs, scene inspection, run history queries, and configuration
// scaffolding. It centralizes configuration resolution, logger construction,
// and bridge startup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
