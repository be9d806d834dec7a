// Package overrides provides guaranteed-reversible mutations of global
// engine state: render quality, compositor program, material override,
// visibility, frame range, and user-animation restoration.
//
// Each function captures the state it is about to change, applies the
// override, and returns a Restore that puts the captured values back. Jobs
// compose several overrides through a Scope, which releases them strictly in
// reverse acquisition order so sequential jobs always observe the same
// baseline scene state.
package overrides
