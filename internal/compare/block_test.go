package compare

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestBlockGridSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		blockSize     int
		threshold     float64
		wantW, wantH  int
	}{
		{"exact fit", 10, 10, 5, 0.67, 2, 2},
		{"small remainder dropped", 12, 10, 5, 0.67, 2, 2},
		{"large remainder earns a column", 14, 10, 5, 0.67, 3, 2},
		{"large remainder earns a row", 10, 14, 5, 0.67, 2, 3},
		{"block size one", 7, 3, 1, 0.67, 7, 3},
		{"lower threshold keeps more", 12, 12, 5, 0.3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := blockGridSize(tt.width, tt.height, tt.blockSize, tt.threshold)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestQuantizeMask(t *testing.T) {
	// required unmasked pixels per 5x5 block at 0.67 is floor(25*0.67) = 16
	tests := []struct {
		name        string
		maskedRows  int // rows of the (0,0) block masked across its full width
		wantIgnored bool
	}{
		{"unmasked block is scored", 0, false},
		{"one masked row leaves enough", 1, false},
		{"two masked rows drop below the threshold", 2, true},
		{"fully masked block is ignored", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := NewGrid(10, 10)
			mask.setRect(image.Rect(0, 0, 5, tt.maskedRows), true)

			blocks := quantizeMask(mask, 5, 0.67)
			if blocks.Width() != 2 || blocks.Height() != 2 {
				t.Fatalf("block grid: got %dx%d, want 2x2", blocks.Width(), blocks.Height())
			}
			if blocks.At(0, 0) != tt.wantIgnored {
				t.Errorf("block (0,0) ignored: got %t, want %t", blocks.At(0, 0), tt.wantIgnored)
			}
			if blocks.At(1, 1) {
				t.Error("untouched block (1,1) should be scored")
			}
		})
	}
}

// With a block size of 1 the required unmasked count truncates to zero, so
// masks can never remove blocks from scoring.
func TestQuantizeMask_BlockSizeOneIgnoresNothing(t *testing.T) {
	mask := NewGrid(4, 4)
	mask.fill(true)

	blocks := quantizeMask(mask, 1, 0.67)
	if got := blocks.count(); got != 0 {
		t.Errorf("ignored blocks: got %d, want 0", got)
	}
}

func TestBlockAverage(t *testing.T) {
	t.Run("integer truncation per channel", func(t *testing.T) {
		img := solidImage(2, 2, black)
		img.SetRGBA(0, 0, color.RGBA{R: 10, A: 255})
		img.SetRGBA(1, 0, color.RGBA{R: 11, A: 255})
		img.SetRGBA(0, 1, color.RGBA{R: 12, A: 255})
		img.SetRGBA(1, 1, color.RGBA{R: 13, A: 255})

		// (10+11+12+13)/4 truncates to 11
		got := blockAverage(img, 0, 0, 2, 2, 0, 0, 2)
		if want := 11.0 / 255; math.Abs(got.R-want) > 1e-12 {
			t.Errorf("R: got %f, want %f", got.R, want)
		}
		if got.G != 0 || got.B != 0 {
			t.Errorf("G,B: got %f,%f, want 0,0", got.G, got.B)
		}
	})

	t.Run("edge block keeps the full divisor", func(t *testing.T) {
		// 8x5 white at block size 5: the second column block covers only
		// 3x5 pixels but still divides by 25.
		img := solidImage(8, 5, white)
		got := blockAverage(img, 0, 0, 8, 5, 1, 0, 5)
		if want := 153.0 / 255; math.Abs(got.R-want) > 1e-12 {
			t.Errorf("R: got %f, want %f", got.R, want)
		}
	})
}

func TestColorDistance(t *testing.T) {
	toColor := func(c color.RGBA) colorful.Color {
		return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	}
	tests := []struct {
		name string
		a, b color.RGBA
		want float64
	}{
		{"identical", red, red, 0},
		{"red to blue", red, blue, math.Sqrt(2) * 255},
		{"black to white", black, white, math.Sqrt(3) * 255},
		{"single channel", color.RGBA{A: 255}, color.RGBA{R: 100, A: 255}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColorDistance(toColor(tt.a), toColor(tt.b))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCompareBlocks(t *testing.T) {
	master := solidImage(10, 10, red)
	snapshot := solidImage(10, 10, red)
	fillRect(snapshot, image.Rect(5, 5, 10, 10), green)

	t.Run("failing block recorded", func(t *testing.T) {
		blockMask := NewGrid(2, 2)
		report := compareBlocks(master, snapshot, blockMask, 5, 20)
		if report.allPass {
			t.Error("expected a failure")
		}
		if report.match.At(1, 1) {
			t.Error("block (1,1) should have failed")
		}
		if !report.match.At(0, 0) {
			t.Error("block (0,0) should have passed")
		}
		want := math.Sqrt(2) * 255
		if math.Abs(report.largest-want) > 1e-9 {
			t.Errorf("largest distance: got %f, want %f", report.largest, want)
		}
		if math.Abs(report.distances.At(1, 1)-want) > 1e-9 {
			t.Errorf("recorded distance: got %f, want %f", report.distances.At(1, 1), want)
		}
	})

	t.Run("ignored block passes unexamined", func(t *testing.T) {
		blockMask := NewGrid(2, 2)
		blockMask.set(1, 1, true)
		report := compareBlocks(master, snapshot, blockMask, 5, 20)
		if !report.allPass {
			t.Error("the only differing block is ignored")
		}
		if !report.match.At(1, 1) {
			t.Error("ignored blocks count as passing")
		}
		if report.largest != 0 {
			t.Errorf("largest distance: got %f, want 0", report.largest)
		}
	})
}
