package compare

import (
	"image"
	"image/color"
	"image/draw"
	"time"
)

// fillerColor pads size-adjusted snapshots so the synthetic margins stand out
// in every diagnostic rendering.
var fillerColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// reconcileResult carries the images a standard comparison continues with
// after a size mismatch has been handled.
type reconcileResult struct {
	master   *image.RGBA
	snapshot *image.RGBA
	regions  []Region // caller regions, possibly extended with margin excludes
	adjusted bool     // snapshot was cropped or padded to master's size
	ok       bool     // content comparison may still succeed
}

// reconcileSizes handles a master/snapshot dimension mismatch. When both axis
// deltas stay within cfg.MaxSizeDifference and do not point in opposite
// directions, the smaller image is searched for inside the larger one: a
// larger snapshot is cropped to the found window, a larger master causes the
// snapshot to be padded onto a filler canvas at the found offset, with the
// filler margins turned into exclude regions rounded out to whole block
// boundaries. When reconciliation is not applicable or the search fails, both
// images are padded to a common size for inspection only; that path can never
// produce a content match.
func reconcileSizes(master, snapshot *image.RGBA, cfg Config, deadline time.Time) (reconcileResult, error) {
	mw, mh := master.Bounds().Dx(), master.Bounds().Dy()
	sw, sh := snapshot.Bounds().Dx(), snapshot.Bounds().Dy()
	dw := sw - mw
	dh := sh - mh

	withinTolerance := abs(dw) <= cfg.MaxSizeDifference && abs(dh) <= cfg.MaxSizeDifference
	mixedSign := (dw > 0 && dh < 0) || (dw < 0 && dh > 0)

	if withinTolerance && !mixedSign {
		if dw >= 0 && dh >= 0 {
			// Snapshot is the larger image: look for the whole master inside
			// it, carrying the master's mask along with the template.
			mask := composeMask(mw, mh, cfg.Regions)
			offset, found, err := findTarget(master, mask, snapshot, nil, cfg, deadline)
			if err != nil {
				return reconcileResult{}, err
			}
			if found {
				window := image.Rect(offset.X, offset.Y, offset.X+mw, offset.Y+mh)
				return reconcileResult{
					master:   master,
					snapshot: cropRGBA(snapshot, window),
					regions:  cfg.Regions,
					adjusted: true,
					ok:       true,
				}, nil
			}
		} else {
			// Master is the larger image: look for the whole snapshot inside
			// it. The mask stays anchored to the master, so the block grid is
			// recomputed per candidate offset.
			mask := composeMask(mw, mh, cfg.Regions)
			offset, found, err := findTarget(snapshot, nil, master, mask, cfg, deadline)
			if err != nil {
				return reconcileResult{}, err
			}
			if found {
				padded := image.NewRGBA(image.Rect(0, 0, mw, mh))
				draw.Draw(padded, padded.Bounds(), image.NewUniform(fillerColor), image.Point{}, draw.Src)
				draw.Draw(padded, image.Rect(offset.X, offset.Y, offset.X+sw, offset.Y+sh), snapshot, image.Point{}, draw.Src)

				regions := append([]Region{}, cfg.Regions...)
				regions = append(regions, marginExcludes(offset, sw, sh, mw, mh, cfg.BlockSize)...)
				return reconcileResult{
					master:   master,
					snapshot: padded,
					regions:  regions,
					adjusted: true,
					ok:       true,
				}, nil
			}
		}
	}

	// Size mismatch stands. Pad both images to a common canvas so diagnostic
	// renderings still line up.
	width := max(mw, sw)
	height := max(mh, sh)
	return reconcileResult{
		master:   padTo(master, width, height),
		snapshot: padTo(snapshot, width, height),
		regions:  cfg.Regions,
		adjusted: false,
		ok:       false,
	}, nil
}

// marginExcludes converts the filler margins around a padded snapshot into
// exclude regions. Each margin is expanded inward to the nearest whole block
// boundary so no partially filled edge block is ever scored.
func marginExcludes(offset image.Point, sw, sh, mw, mh, blockSize int) []Region {
	var regions []Region
	if offset.X > 0 {
		end := ceilTo(offset.X, blockSize)
		regions = append(regions, NewRegion(0, 0, end, mh, Exclude))
	}
	if right := offset.X + sw; right < mw {
		start := right / blockSize * blockSize
		regions = append(regions, NewRegion(start, 0, mw-start, mh, Exclude))
	}
	if offset.Y > 0 {
		end := ceilTo(offset.Y, blockSize)
		regions = append(regions, NewRegion(0, 0, mw, end, Exclude))
	}
	if bottom := offset.Y + sh; bottom < mh {
		start := bottom / blockSize * blockSize
		regions = append(regions, NewRegion(0, start, mw, mh-start, Exclude))
	}
	return regions
}

func padTo(img *image.RGBA, width, height int) *image.RGBA {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	padded := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(padded, padded.Bounds(), image.NewUniform(fillerColor), image.Point{}, draw.Src)
	draw.Draw(padded, img.Bounds(), img, image.Point{}, draw.Src)
	return padded
}

func ceilTo(n, multiple int) int {
	return (n + multiple - 1) / multiple * multiple
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
