package compare

import (
	"fmt"
	"image"
)

// Grid is a boolean raster backed by a flat buffer with bounds-checked
// access. It serves both as the pixel-level ignore mask and as the
// block-level grids derived from it.
type Grid struct {
	width  int
	height int
	cells  []bool
}

// NewGrid returns a grid of the given size with every cell false.
func NewGrid(width, height int) *Grid {
	return &Grid{width: width, height: height, cells: make([]bool, width*height)}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// At reads the cell at (x, y). It panics on out-of-range coordinates.
func (g *Grid) At(x, y int) bool {
	return g.cells[g.index(x, y)]
}

func (g *Grid) index(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("grid index (%d,%d) outside %dx%d", x, y, g.width, g.height))
	}
	return y*g.width + x
}

func (g *Grid) set(x, y int, v bool) {
	g.cells[g.index(x, y)] = v
}

func (g *Grid) fill(v bool) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// setRect writes v to every cell of r clipped to the grid bounds.
func (g *Grid) setRect(r image.Rectangle, v bool) {
	clipped := r.Intersect(image.Rect(0, 0, g.width, g.height))
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		for x := clipped.Min.X; x < clipped.Max.X; x++ {
			g.set(x, y, v)
		}
	}
}

// sub copies the cells of r, which must lie inside the grid, into a new
// zero-based grid.
func (g *Grid) sub(r image.Rectangle) *Grid {
	out := NewGrid(r.Dx(), r.Dy())
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			out.set(x, y, g.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return out
}

// count returns the number of true cells.
func (g *Grid) count() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// FloatGrid is a float64 raster with the same flat layout as Grid, used for
// per-block color distance diagnostics.
type FloatGrid struct {
	width  int
	height int
	cells  []float64
}

// NewFloatGrid returns a zeroed float grid of the given size.
func NewFloatGrid(width, height int) *FloatGrid {
	return &FloatGrid{width: width, height: height, cells: make([]float64, width*height)}
}

func (g *FloatGrid) Width() int  { return g.width }
func (g *FloatGrid) Height() int { return g.height }

// At reads the cell at (x, y). It panics on out-of-range coordinates.
func (g *FloatGrid) At(x, y int) float64 {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("grid index (%d,%d) outside %dx%d", x, y, g.width, g.height))
	}
	return g.cells[y*g.width+x]
}

func (g *FloatGrid) set(x, y int, v float64) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("grid index (%d,%d) outside %dx%d", x, y, g.width, g.height))
	}
	g.cells[y*g.width+x] = v
}
