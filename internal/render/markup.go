package render

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/visual-regress/internal/compare"
)

// blockBox is an inclusive bounding box in block coordinates.
type blockBox struct {
	minX, minY int
	maxX, maxY int
}

func (b *blockBox) propose(x, y int) {
	if x < b.minX {
		b.minX = x
	}
	if x > b.maxX {
		b.maxX = x
	}
	if y < b.minY {
		b.minY = y
	}
	if y > b.maxY {
		b.maxY = y
	}
}

// contiguousFailures groups the failing cells of a block comparison grid into
// bounding boxes of 4-connected areas, using an explicit worklist over a
// visited grid.
func contiguousFailures(blocks *compare.Grid) []blockBox {
	visited := make([]bool, blocks.Width()*blocks.Height())
	seen := func(x, y int) bool { return visited[y*blocks.Width()+x] }
	mark := func(x, y int) { visited[y*blocks.Width()+x] = true }

	var boxes []blockBox
	for x := 0; x < blocks.Width(); x++ {
		for y := 0; y < blocks.Height(); y++ {
			if blocks.At(x, y) || seen(x, y) {
				continue
			}
			box := blockBox{minX: x, maxX: x, minY: y, maxY: y}
			stack := []image.Point{{X: x, Y: y}}
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if p.X < 0 || p.Y < 0 || p.X >= blocks.Width() || p.Y >= blocks.Height() {
					continue
				}
				if blocks.At(p.X, p.Y) || seen(p.X, p.Y) {
					continue
				}
				mark(p.X, p.Y)
				box.propose(p.X, p.Y)
				stack = append(stack,
					image.Point{X: p.X, Y: p.Y - 1},
					image.Point{X: p.X, Y: p.Y + 1},
					image.Point{X: p.X - 1, Y: p.Y},
					image.Point{X: p.X + 1, Y: p.Y},
				)
			}
			boxes = append(boxes, box)
		}
	}
	return boxes
}

// circleBlocks draws a highlight oval, slightly larger than the failing
// area, with a white halo for readability.
func circleBlocks(img *image.RGBA, box blockBox, blockSize int) {
	x := box.minX * blockSize
	y := box.minY * blockSize
	width := (box.maxX + 1 - box.minX) * blockSize
	height := (box.maxY + 1 - box.minY) * blockSize

	increase := int(0.15 * float64(max(width, height)))

	drawOval(img, x-increase, y-increase, width+increase*2, height+increase*2, neonPink)
	drawOval(img, x-1-increase, y-1-increase, width+2+increase*2, height+2+increase*2, neonPink)
	drawOval(img, x+1-increase, y+1-increase, width-2+increase*2, height-2+increase*2, neonPink)
	drawOval(img, x-2-increase, y-2-increase, width+4+increase*2, height+4+increase*2, haloTint)
	drawOval(img, x+2-increase, y+2-increase, width-4+increase*2, height-4+increase*2, haloTint)
}

// drawOval traces the outline of the ellipse inscribed in the given box,
// clipping to the image bounds.
func drawOval(img *image.RGBA, x, y, width, height int, c color.RGBA) {
	if width <= 0 || height <= 0 {
		return
	}
	cx := float64(x) + float64(width)/2
	cy := float64(y) + float64(height)/2
	rx := float64(width) / 2
	ry := float64(height) / 2

	steps := 4 * (width + height)
	bounds := img.Bounds()
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		px := int(math.Round(cx + rx*math.Cos(theta)))
		py := int(math.Round(cy + ry*math.Sin(theta)))
		if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
			img.SetRGBA(px, py, c)
		}
	}
}

func rgbaToColorful(c color.RGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}
