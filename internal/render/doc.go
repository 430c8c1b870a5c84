// Package render derives diagnostic imagery from a finished comparison:
// mask-darkened master and snapshot views, block grid visualizations, circled
// difference markup, a pixel-level diff overlay, and side-by-side
// compositions for review tooling.
//
// Rendering only reads the frozen comparison result. Each artifact is
// computed at most once per Diagnostics instance; the memoization is guarded
// so a Diagnostics value may be shared across goroutines.
package render
