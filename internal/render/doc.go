// Package render wraps engine renders behind a single-frame buffer. Each
// scene state is rendered once into a cache file, decoded, and fanned out to
// the configured image formats and thumbnails without re-rendering.
package render
