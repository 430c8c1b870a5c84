package compare

// MatchLevel is a named preset bundling a block size with a max color
// distance.
//
// Exact is a pixel-to-pixel comparison. Strict compares everything including
// content, fonts, layout, colors and element positions, while ignoring
// rendering changes invisible to a human (anti-aliasing, sub-pixel movement
// and similar artifacts of differing graphics stacks). Tolerant accepts
// changes which are still visible, but barely so.
type MatchLevel struct {
	BlockSize        int
	MaxColorDistance float64
}

var (
	Exact    = MatchLevel{BlockSize: 1, MaxColorDistance: 1.0}
	Strict   = MatchLevel{BlockSize: 5, MaxColorDistance: 14.0}
	Tolerant = MatchLevel{BlockSize: 10, MaxColorDistance: 20.0}
)
