package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/visual-regress/internal/compare"
)

// maskDarkenDivisor dims each channel of masked-out pixels.
const maskDarkenDivisor = 2

// Highlight palette for the circled-difference markup.
var (
	neonPink = color.RGBA{R: 246, G: 24, B: 127, A: 255}
	haloTint = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Pixel-diff palette. Yellow marks pixels that differ but stay under the
// threshold, orange marks pixels over the threshold inside a passing block,
// red marks pixels over the threshold inside a failing block. The dimmed
// variants apply under the mask.
var (
	diffUnderThreshold          = color.RGBA{R: 255, G: 251, B: 41, A: 255}
	diffUnderThresholdUnderMask = color.RGBA{R: 121, G: 117, B: 16, A: 255}
	diffOverThreshold           = color.RGBA{R: 255, G: 153, B: 41, A: 255}
	diffOverThresholdUnderMask  = color.RGBA{R: 121, G: 70, B: 16, A: 255}
	diffInFailingBlock          = color.RGBA{R: 255, G: 56, B: 41, A: 255}
)

// Diagnostics lazily renders review imagery for one comparison. Every
// artifact is computed once and cached; the cache is safe for concurrent use.
type Diagnostics struct {
	cmp *Comparison

	maskedMasterOnce sync.Once
	maskedMaster     image.Image

	maskedSnapshotOnce sync.Once
	maskedSnapshot     image.Image

	circledOnce sync.Once
	circled     image.Image

	pixelDiffOnce sync.Once
	pixelDiff     image.Image
}

// Comparison is the read-only surface the renderer needs from a finished
// comparison.
type Comparison = compare.Comparison

// New wraps a finished comparison for diagnostic rendering.
func New(cmp *Comparison) *Diagnostics {
	return &Diagnostics{cmp: cmp}
}

// MaskedMaster returns the master darkened with the current ignore mask.
func (d *Diagnostics) MaskedMaster() image.Image {
	d.maskedMasterOnce.Do(func() {
		d.maskedMaster = maskedImage(d.cmp.Master(), d.cmp.PixelMask())
	})
	return d.maskedMaster
}

// MaskedSnapshot returns the snapshot darkened with the current ignore mask.
func (d *Diagnostics) MaskedSnapshot() image.Image {
	d.maskedSnapshotOnce.Do(func() {
		d.maskedSnapshot = maskedImage(d.cmp.Snapshot(), d.cmp.PixelMask())
	})
	return d.maskedSnapshot
}

// BlockMaskImage visualizes the block-level ignore grid: ignored blocks are
// black, scored blocks white, separated by thin grid lines.
func (d *Diagnostics) BlockMaskImage() image.Image {
	return gridImage(d.cmp.BlockMask(), d.cmp.BlockSize(), color.Black, color.White)
}

// BlockComparisonImage visualizes the per-block results: passing blocks are
// white, failing blocks red.
func (d *Diagnostics) BlockComparisonImage() image.Image {
	return gridImage(d.cmp.BlockComparison(), d.cmp.BlockSize(), color.White, color.RGBA{R: 255, A: 255})
}

// CircledDiff returns the masked snapshot with each contiguous area of
// failing blocks circled. A matching comparison returns the masked snapshot
// unchanged.
func (d *Diagnostics) CircledDiff() image.Image {
	d.circledOnce.Do(func() {
		blocks := d.cmp.BlockComparison()
		if d.cmp.IsMatch() || blocks == nil {
			d.circled = d.MaskedSnapshot()
			return
		}
		markup := clone.AsRGBA(d.MaskedSnapshot())
		for _, box := range contiguousFailures(blocks) {
			circleBlocks(markup, box, d.cmp.BlockSize())
		}
		d.circled = markup
	})
	return d.circled
}

// PixelDiff overlays an alternating block grid on the master and paints every
// differing pixel by how it contributed to the result.
func (d *Diagnostics) PixelDiff() image.Image {
	d.pixelDiffOnce.Do(func() {
		d.pixelDiff = d.renderPixelDiff()
	})
	return d.pixelDiff
}

// CircledDiffSideBySide places the masked master and the circled snapshot
// next to each other.
func (d *Diagnostics) CircledDiffSideBySide() image.Image {
	return sideBySide(d.MaskedMaster(), d.CircledDiff())
}

// PixelDiffSideBySide places the masked master and the pixel diff next to
// each other.
func (d *Diagnostics) PixelDiffSideBySide() image.Image {
	return sideBySide(d.MaskedMaster(), d.PixelDiff())
}

func maskedImage(img *image.RGBA, mask *compare.Grid) image.Image {
	out := clone.AsRGBA(img)
	bounds := out.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask == nil || x >= mask.Width() || y >= mask.Height() || !mask.At(x, y) {
				continue
			}
			c := out.RGBAAt(x, y)
			c.R /= maskDarkenDivisor
			c.G /= maskDarkenDivisor
			c.B /= maskDarkenDivisor
			out.SetRGBA(x, y, c)
		}
	}
	return out
}

// gridImage scales a block grid back to pixel dimensions, one cell per
// block, leaving a one pixel gutter between cells.
func gridImage(blocks *compare.Grid, blockSize int, trueColor, falseColor color.Color) image.Image {
	if blocks == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	out := image.NewRGBA(image.Rect(0, 0, blocks.Width()*blockSize, blocks.Height()*blockSize))
	for bx := 0; bx < blocks.Width(); bx++ {
		for by := 0; by < blocks.Height(); by++ {
			c := falseColor
			if blocks.At(bx, by) {
				c = trueColor
			}
			for y := by * blockSize; y < (by+1)*blockSize-1; y++ {
				for x := bx * blockSize; x < (bx+1)*blockSize-1; x++ {
					out.Set(x, y, c)
				}
			}
		}
	}
	return out
}

func (d *Diagnostics) renderPixelDiff() image.Image {
	master := d.cmp.Master()
	snapshot := d.cmp.Snapshot()
	blockMask := d.cmp.BlockMask()
	blockMatch := d.cmp.BlockComparison()
	blockSize := d.cmp.BlockSize()

	out := clone.AsRGBA(master)

	// Alternating translucent grid so block boundaries are visible; ignored
	// blocks get a dark wash.
	if blockMask != nil {
		for bx := 0; bx < blockMask.Width(); bx++ {
			for by := 0; by < blockMask.Height(); by++ {
				wash := color.RGBA{R: 220, G: 220, B: 220, A: 170}
				if blockMask.At(bx, by) {
					wash = color.RGBA{R: 50, G: 50, B: 50, A: 210}
				} else if (bx+by)%2 != 0 {
					wash = color.RGBA{R: 180, G: 180, B: 180, A: 170}
				}
				for y := by * blockSize; y < (by+1)*blockSize && y < out.Bounds().Max.Y; y++ {
					for x := bx * blockSize; x < (bx+1)*blockSize && x < out.Bounds().Max.X; x++ {
						blendPixel(out, x, y, wash)
					}
				}
			}
		}
	}

	width := min(master.Bounds().Dx(), snapshot.Bounds().Dx())
	height := min(master.Bounds().Dy(), snapshot.Bounds().Dy())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			distance := pixelDistance(master.RGBAAt(x, y), snapshot.RGBAAt(x, y))
			if distance == 0 {
				continue
			}
			bx, by := x/blockSize, y/blockSize
			if blockMask == nil || bx >= blockMask.Width() || by >= blockMask.Height() {
				// Pixels past the last block never reached the block
				// threshold and are not scored.
				continue
			}
			underMask := blockMask.At(bx, by)
			var c color.RGBA
			switch {
			case distance <= d.cmp.MaxColorDistance():
				c = diffUnderThreshold
				if underMask {
					c = diffUnderThresholdUnderMask
				}
			case blockMatch == nil || blockMatch.At(bx, by):
				c = diffOverThreshold
				if underMask {
					c = diffOverThresholdUnderMask
				}
			default:
				c = diffInFailingBlock
			}
			out.SetRGBA(x, y, c)
		}
	}
	return out
}

func sideBySide(left, right image.Image) image.Image {
	const gap = 4
	width := left.Bounds().Dx() + gap + right.Bounds().Dx()
	height := max(left.Bounds().Dy(), right.Bounds().Dy())
	canvas := imaging.New(width, height, color.NRGBA{R: 64, G: 64, B: 64, A: 255})
	canvas = imaging.Paste(canvas, left, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, right, image.Pt(left.Bounds().Dx()+gap, 0))
	return canvas
}

func blendPixel(img *image.RGBA, x, y int, overlay color.RGBA) {
	base := img.RGBAAt(x, y)
	a := int(overlay.A)
	base.R = uint8((int(base.R)*(255-a) + int(overlay.R)*a) / 255)
	base.G = uint8((int(base.G)*(255-a) + int(overlay.G)*a) / 255)
	base.B = uint8((int(base.B)*(255-a) + int(overlay.B)*a) / 255)
	img.SetRGBA(x, y, base)
}

func pixelDistance(a, b color.RGBA) float64 {
	ca := rgbaToColorful(a)
	cb := rgbaToColorful(b)
	return compare.ColorDistance(ca, cb)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
