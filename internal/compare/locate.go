package compare

import (
	"image"
	"time"
)

// findTarget slides the template over every offset of the bounding image and
// returns the first offset whose block comparison stays within the color
// distance threshold. Offsets are enumerated x-outer, y-inner so the accepted
// offset is always the leftmost-then-topmost one.
//
// Exactly one of templateMask and boundingMask may be non-nil. A template
// mask travels with the template, so its block quantization is computed once
// and reused for every candidate. A bounding mask is anchored to the bounding
// image; block boundaries shift with the offset, so the pixel sub-mask is
// re-quantized for each candidate.
//
// The deadline is checked before evaluating each offset; exceeding it returns
// a *TimeoutError, which is distinct from searching fully and finding
// nothing. A template larger than the bounding image in either dimension is
// never an error, just not found.
func findTarget(template *image.RGBA, templateMask *Grid, bounding *image.RGBA, boundingMask *Grid, cfg Config, deadline time.Time) (image.Point, bool, error) {
	tw, th := template.Bounds().Dx(), template.Bounds().Dy()
	bw, bh := bounding.Bounds().Dx(), bounding.Bounds().Dy()
	if tw > bw || th > bh {
		return image.Point{}, false, nil
	}

	var fixedBlocks *Grid
	if boundingMask == nil {
		pixels := templateMask
		if pixels == nil {
			pixels = NewGrid(tw, th)
		}
		fixedBlocks = quantizeMask(pixels, cfg.BlockSize, cfg.BlockPixelThreshold)
	}

	for x := 0; x <= bw-tw; x++ {
		for y := 0; y <= bh-th; y++ {
			if time.Now().After(deadline) {
				return image.Point{}, false, &TimeoutError{Limit: cfg.MaxTime}
			}
			blocks := fixedBlocks
			if blocks == nil {
				sub := boundingMask.sub(image.Rect(x, y, x+tw, y+th))
				blocks = quantizeMask(sub, cfg.BlockSize, cfg.BlockPixelThreshold)
			}
			if candidateMatches(template, bounding, x, y, blocks, cfg) {
				return image.Point{X: x, Y: y}, true, nil
			}
		}
	}
	return image.Point{}, false, nil
}

// candidateMatches runs a fail-fast block comparison of the template against
// the bounding window anchored at (offsetX, offsetY).
func candidateMatches(template, bounding *image.RGBA, offsetX, offsetY int, blocks *Grid, cfg Config) bool {
	tw, th := template.Bounds().Dx(), template.Bounds().Dy()
	for bx := 0; bx < blocks.Width(); bx++ {
		for by := 0; by < blocks.Height(); by++ {
			if blocks.At(bx, by) {
				continue
			}
			distance := ColorDistance(
				blockAverage(template, 0, 0, tw, th, bx, by, cfg.BlockSize),
				blockAverage(bounding, offsetX, offsetY, tw, th, bx, by, cfg.BlockSize),
			)
			if distance > cfg.MaxColorDistance {
				return false
			}
		}
	}
	return true
}
