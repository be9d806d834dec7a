// Package scene defines the engine operation surface and the geometry types
// shared by the studio, renderer, override, and job layers.
//
// The Engine interface mirrors the bridge protocol op for op, which keeps the
// live subprocess client and the in-memory test engine interchangeable
// everywhere an engine is consumed.
package scene
