package compare

import (
	"fmt"
	"image"
)

// RegionAction determines how a Region participates in a comparison.
type RegionAction int

const (
	// Focus limits the comparison to the region. When any focus region is
	// present, everything outside the focus regions is ignored.
	Focus RegionAction = iota

	// Exclude removes the region from the comparison. Exclusion always wins
	// over inclusion on overlap.
	Exclude

	// FindThisTarget marks the template to search for, expressed in master
	// coordinates. Must be paired with exactly one WithinThisBoundingBox.
	FindThisTarget

	// WithinThisBoundingBox marks the search window on the snapshot. Must be
	// paired with exactly one FindThisTarget.
	WithinThisBoundingBox
)

// String returns the canonical name of the action.
func (a RegionAction) String() string {
	switch a {
	case Focus:
		return "FOCUS"
	case Exclude:
		return "EXCLUDE"
	case FindThisTarget:
		return "FIND_THIS_TARGET"
	case WithinThisBoundingBox:
		return "WITHIN_THIS_BOUNDING_BOX"
	}
	return fmt.Sprintf("RegionAction(%d)", int(a))
}

// Region is a rectangular area of an image together with the action that
// decides how the area is treated during comparison. Regions are immutable
// values with ordinary value equality.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
	Action RegionAction
}

// NewRegion builds a region from a top-left corner and a size.
func NewRegion(x, y, width, height int, action RegionAction) Region {
	return Region{X: x, Y: y, Width: width, Height: height, Action: action}
}

// RegionOf builds a region from an image.Rectangle.
func RegionOf(r image.Rectangle, action RegionAction) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy(), Action: action}
}

// Rect returns the half-open pixel box covered by the region.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("%s(%d,%d %dx%d)", r.Action, r.X, r.Y, r.Width, r.Height)
}

// validate reports whether the region is well formed. Oversized regions are
// fine (they are clipped to the image), but negative origins or non-positive
// sizes are construction errors.
func (r Region) validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("region %s must have a positive width and height", r)}
	}
	if r.X < 0 || r.Y < 0 {
		return &ConfigError{Reason: fmt.Sprintf("region %s must not have a negative origin", r)}
	}
	return nil
}
