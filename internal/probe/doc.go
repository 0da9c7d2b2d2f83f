// Package probe provides ffprobe-based media inspection. A single JSON call
// per file yields the metadata the rest of the system consumes read-only:
// duration, frame rate, dimensions, codec, bitrate, and audio track layout.
//
// The compiler requires Width/Height when an aspect-ratio reframe is
// requested; callers substitute defaults when probing fails, the package
// itself never does.
package probe
