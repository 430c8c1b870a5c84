package compare

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// blockGridSize returns the block grid dimensions for an image. Leftover
// pixels past the last whole block earn an extra row or column only when they
// amount to at least the threshold fraction of a block.
func blockGridSize(width, height, blockSize int, threshold float64) (int, int) {
	horizontal := width / blockSize
	vertical := height / blockSize
	if float64(width%blockSize) >= float64(blockSize)*threshold {
		horizontal++
	}
	if float64(height%blockSize) >= float64(blockSize)*threshold {
		vertical++
	}
	return horizontal, vertical
}

// quantizeMask aggregates a pixel-level ignore mask into a block-level one.
// A block is ignored unless its footprint, clipped to the image edges, holds
// at least floor(blockSize^2 * threshold) unmasked pixels. Counting stops as
// soon as the threshold is met.
func quantizeMask(mask *Grid, blockSize int, threshold float64) *Grid {
	width, height := mask.Width(), mask.Height()
	required := int(float64(blockSize*blockSize) * threshold)

	horizontal, vertical := blockGridSize(width, height, blockSize, threshold)
	blocks := NewGrid(horizontal, vertical)

	for bx := 0; bx < horizontal; bx++ {
		for by := 0; by < vertical; by++ {
			unmasked := 0
			ignored := true
		count:
			for px := bx * blockSize; px < (bx+1)*blockSize; px++ {
				for py := by * blockSize; py < (by+1)*blockSize; py++ {
					if px < width && py < height && !mask.At(px, py) {
						unmasked++
					}
					if unmasked >= required {
						ignored = false
						break count
					}
				}
			}
			blocks.set(bx, by, ignored)
		}
	}
	return blocks
}

// blockAverage returns the average color of block (bx, by) inside the window
// of img anchored at (originX, originY) with the given size. Sums run over
// the footprint clipped to the window edge; the divisor stays blockSize^2
// with integer truncation per channel. Alpha is ignored.
func blockAverage(img *image.RGBA, originX, originY, width, height, bx, by, blockSize int) colorful.Color {
	var rSum, gSum, bSum int
	for y := by * blockSize; y < (by+1)*blockSize && y < height; y++ {
		for x := bx * blockSize; x < (bx+1)*blockSize && x < width; x++ {
			c := img.RGBAAt(originX+x, originY+y)
			rSum += int(c.R)
			gSum += int(c.G)
			bSum += int(c.B)
		}
	}
	pixels := blockSize * blockSize
	return colorful.Color{
		R: float64(rSum/pixels) / 255,
		G: float64(gSum/pixels) / 255,
		B: float64(bSum/pixels) / 255,
	}
}

// ColorDistance is the Euclidean distance between two colors in RGB space,
// scaled to the 0-255 channel domain.
func ColorDistance(a, b colorful.Color) float64 {
	return a.DistanceRgb(b) * 255
}

// blockReport is the outcome of a full block-by-block comparison.
type blockReport struct {
	match     *Grid      // true = block within tolerance (ignored blocks pass)
	distances *FloatGrid // distances of failing blocks, diagnostics only
	largest   float64    // largest distance observed over scored blocks
	allPass   bool
}

// compareBlocks scores every non-ignored block of two same-sized images
// against the color distance threshold.
func compareBlocks(master, snapshot *image.RGBA, blockMask *Grid, blockSize int, maxColorDistance float64) *blockReport {
	width := master.Bounds().Dx()
	height := master.Bounds().Dy()

	report := &blockReport{
		match:     NewGrid(blockMask.Width(), blockMask.Height()),
		distances: NewFloatGrid(blockMask.Width(), blockMask.Height()),
		allPass:   true,
	}
	for bx := 0; bx < blockMask.Width(); bx++ {
		for by := 0; by < blockMask.Height(); by++ {
			if blockMask.At(bx, by) {
				report.match.set(bx, by, true)
				continue
			}
			distance := ColorDistance(
				blockAverage(master, 0, 0, width, height, bx, by, blockSize),
				blockAverage(snapshot, 0, 0, width, height, bx, by, blockSize),
			)
			pass := distance <= maxColorDistance
			report.match.set(bx, by, pass)
			if !pass {
				report.distances.set(bx, by, distance)
				report.allPass = false
			}
			if distance > report.largest {
				report.largest = distance
			}
		}
	}
	return report
}
