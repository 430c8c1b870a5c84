// Package compare implements tolerant comparison of two raster images.
//
// Instead of pixel-exact equality, images are divided into fixed-size blocks
// whose pixel colors are averaged; two images match when the Euclidean RGB
// distance between every pair of corresponding block averages stays within a
// configurable threshold. Regions of the image can be focused on or excluded
// from scoring, and a dedicated mode locates a sub-image template inside a
// bounding box on the other image.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward. Regions are half-open boxes
// [X, X+Width) x [Y, Y+Height).
//
// # Lifecycle
//
// A Comparison is constructed once per image pair. All masks, block grids and
// the final match decision are computed eagerly during New; the resulting
// value is read-only and safe to share across goroutines.
//
// # Error Handling
//
// Construction rejects invalid input with *ConfigError (both images absent,
// non-positive block size or color distance, conflicting region actions,
// out-of-bounds find-mode regions). The sliding-window target search reports
// *TimeoutError when it exceeds its wall-clock budget. No other failures are
// expected at runtime.
package compare
