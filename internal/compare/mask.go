package compare

// composeMask builds the pixel-level ignore map for an image of the given
// size. Focus, find-target and bounding-box regions are inclusive: when any
// of them is present the mask starts fully ignored and each inclusive region
// clears its box. Exclude regions are applied afterwards, so exclusion always
// wins on overlap. Region boxes reaching past the image edge are clipped
// silently.
func composeMask(width, height int, regions []Region) *Grid {
	mask := NewGrid(width, height)

	var include, exclude []Region
	for _, region := range regions {
		if region.Action == Exclude {
			exclude = append(exclude, region)
		} else {
			include = append(include, region)
		}
	}

	if len(include) > 0 {
		mask.fill(true)
		for _, region := range include {
			mask.setRect(region.Rect(), false)
		}
	}
	for _, region := range exclude {
		mask.setRect(region.Rect(), true)
	}
	return mask
}
