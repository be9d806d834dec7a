// Package config loads, normalizes, and validates pcbooth configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies named preset overlays. The Config
// type centralizes every knob the render pipeline needs: output formats and
// directories, renderer dimensions, studio lighting and camera switches, and
// the ordered job list.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical format names, and clear validation errors.
package config
