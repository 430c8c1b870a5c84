package render

import (
	"image"
	"testing"

	"github.com/ironsheep/visual-regress/internal/compare"
)

// failureGrid builds a block comparison grid by comparing a red master
// against a snapshot with blue squares at the given block-aligned areas.
func failureGrid(t *testing.T, blueAreas ...image.Rectangle) *compare.Grid {
	t.Helper()
	master := solidImage(30, 30, red)
	snapshot := solidImage(30, 30, red)
	for _, area := range blueAreas {
		fillRect(snapshot, area, blue)
	}
	cfg := compare.DefaultConfig().WithBlockSize(5).WithMaxColorDistance(20)
	return mustCompare(t, master, snapshot, cfg).BlockComparison()
}

func TestContiguousFailures(t *testing.T) {
	t.Run("no failures", func(t *testing.T) {
		blocks := failureGrid(t)
		if boxes := contiguousFailures(blocks); len(boxes) != 0 {
			t.Errorf("boxes: got %v, want none", boxes)
		}
	})

	t.Run("two separate areas", func(t *testing.T) {
		blocks := failureGrid(t,
			image.Rect(0, 0, 5, 5),
			image.Rect(20, 20, 30, 30),
		)
		boxes := contiguousFailures(blocks)
		if len(boxes) != 2 {
			t.Fatalf("boxes: got %d, want 2", len(boxes))
		}
		if boxes[0] != (blockBox{minX: 0, minY: 0, maxX: 0, maxY: 0}) {
			t.Errorf("first box: got %+v", boxes[0])
		}
		if boxes[1] != (blockBox{minX: 4, minY: 4, maxX: 5, maxY: 5}) {
			t.Errorf("second box: got %+v", boxes[1])
		}
	})

	t.Run("an L shape stays one area", func(t *testing.T) {
		blocks := failureGrid(t,
			image.Rect(0, 0, 5, 15),
			image.Rect(0, 10, 15, 15),
		)
		boxes := contiguousFailures(blocks)
		if len(boxes) != 1 {
			t.Fatalf("boxes: got %d, want 1", len(boxes))
		}
		if boxes[0] != (blockBox{minX: 0, minY: 0, maxX: 2, maxY: 2}) {
			t.Errorf("box: got %+v", boxes[0])
		}
	})

	t.Run("diagonal touch is not contiguous", func(t *testing.T) {
		blocks := failureGrid(t,
			image.Rect(0, 0, 5, 5),
			image.Rect(5, 5, 10, 10),
		)
		if boxes := contiguousFailures(blocks); len(boxes) != 2 {
			t.Errorf("boxes: got %d, want 2", len(boxes))
		}
	})
}

func TestDrawOvalClipsToBounds(t *testing.T) {
	img := solidImage(10, 10, red)
	// Mostly outside the image; must not panic.
	drawOval(img, -20, -20, 50, 50, neonPink)
	drawOval(img, 5, 5, 0, 10, neonPink)
}

func TestBlockBoxPropose(t *testing.T) {
	box := blockBox{minX: 3, minY: 3, maxX: 3, maxY: 3}
	box.propose(1, 5)
	box.propose(6, 2)
	want := blockBox{minX: 1, minY: 2, maxX: 6, maxY: 5}
	if box != want {
		t.Errorf("got %+v, want %+v", box, want)
	}
}
