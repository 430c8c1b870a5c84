package compare

import (
	"image"
	"testing"
	"time"
)

func TestMarginExcludes(t *testing.T) {
	tests := []struct {
		name   string
		offset image.Point
		sw, sh int
		want   []Region
	}{
		{
			name:   "corner offset leaves left and top margins",
			offset: image.Pt(2, 3),
			sw:     20, sh: 19,
			want: []Region{
				NewRegion(0, 0, 5, 22, Exclude),
				NewRegion(0, 0, 22, 5, Exclude),
			},
		},
		{
			name:   "zero offset leaves right and bottom margins",
			offset: image.Pt(0, 0),
			sw:     20, sh: 19,
			want: []Region{
				NewRegion(20, 0, 2, 22, Exclude),
				NewRegion(0, 15, 22, 7, Exclude),
			},
		},
		{
			name:   "exact fit needs no exclusions",
			offset: image.Pt(0, 0),
			sw:     22, sh: 22,
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := marginExcludes(tt.offset, tt.sw, tt.sh, 22, 22, 5)
			if len(got) != len(tt.want) {
				t.Fatalf("regions: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("region %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReconcileSizes(t *testing.T) {
	deadline := time.Now().Add(time.Minute)

	t.Run("snapshot larger is cropped to the found window", func(t *testing.T) {
		master := quadrantImage(20, 20)
		snapshot := solidImage(23, 21, white)
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				snapshot.SetRGBA(3+x, 1+y, master.RGBAAt(x, y))
			}
		}

		result, err := reconcileSizes(master, snapshot, DefaultConfig().WithMatchLevel(Strict), deadline)
		if err != nil {
			t.Fatalf("reconcileSizes failed: %v", err)
		}
		if !result.ok || !result.adjusted {
			t.Fatalf("got ok=%t adjusted=%t, want both true", result.ok, result.adjusted)
		}
		if got := result.snapshot.Bounds(); got != master.Bounds() {
			t.Fatalf("cropped snapshot bounds: got %v, want %v", got, master.Bounds())
		}
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				if result.snapshot.RGBAAt(x, y) != master.RGBAAt(x, y) {
					t.Fatalf("cropped snapshot differs from master at (%d,%d)", x, y)
				}
			}
		}
	})

	t.Run("master larger pads onto filler with margin exclusions", func(t *testing.T) {
		snapshot := quadrantImage(20, 20)
		master := solidImage(22, 22, white)
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				master.SetRGBA(2+x, 2+y, snapshot.RGBAAt(x, y))
			}
		}

		result, err := reconcileSizes(master, snapshot, DefaultConfig().WithMatchLevel(Strict), deadline)
		if err != nil {
			t.Fatalf("reconcileSizes failed: %v", err)
		}
		if !result.ok || !result.adjusted {
			t.Fatalf("got ok=%t adjusted=%t, want both true", result.ok, result.adjusted)
		}
		if got := result.snapshot.Bounds(); got != master.Bounds() {
			t.Fatalf("padded snapshot bounds: got %v, want %v", got, master.Bounds())
		}
		if got := result.snapshot.RGBAAt(0, 0); got != fillerColor {
			t.Errorf("padding pixel: got %v, want filler %v", got, fillerColor)
		}
		if got := result.snapshot.RGBAAt(2, 2); got != snapshot.RGBAAt(0, 0) {
			t.Errorf("content pixel: got %v, want %v", got, snapshot.RGBAAt(0, 0))
		}
		var excludes int
		for _, region := range result.regions {
			if region.Action == Exclude {
				excludes++
			}
		}
		if excludes != 2 {
			t.Errorf("margin exclusions: got %d, want 2 (left and top)", excludes)
		}
	})

	t.Run("mixed sign pads both for inspection only", func(t *testing.T) {
		master := solidImage(20, 24, red)
		snapshot := solidImage(24, 20, red)

		result, err := reconcileSizes(master, snapshot, DefaultConfig(), deadline)
		if err != nil {
			t.Fatalf("reconcileSizes failed: %v", err)
		}
		if result.ok || result.adjusted {
			t.Fatalf("got ok=%t adjusted=%t, want both false", result.ok, result.adjusted)
		}
		want := image.Rect(0, 0, 24, 24)
		if result.master.Bounds() != want || result.snapshot.Bounds() != want {
			t.Errorf("padded bounds: got %v and %v, want %v", result.master.Bounds(), result.snapshot.Bounds(), want)
		}
	})

	t.Run("delta beyond tolerance is never searched", func(t *testing.T) {
		master := solidImage(10, 10, red)
		snapshot := solidImage(30, 30, red)

		result, err := reconcileSizes(master, snapshot, DefaultConfig(), deadline)
		if err != nil {
			t.Fatalf("reconcileSizes failed: %v", err)
		}
		if result.ok || result.adjusted {
			t.Fatalf("got ok=%t adjusted=%t, want both false", result.ok, result.adjusted)
		}
	})

	t.Run("content not present falls back to padding", func(t *testing.T) {
		master := quadrantImage(20, 20)
		snapshot := solidImage(22, 22, white)

		result, err := reconcileSizes(master, snapshot, DefaultConfig().WithMatchLevel(Strict), deadline)
		if err != nil {
			t.Fatalf("reconcileSizes failed: %v", err)
		}
		if result.ok || result.adjusted {
			t.Fatalf("got ok=%t adjusted=%t, want both false", result.ok, result.adjusted)
		}
	})
}

func TestCeilTo(t *testing.T) {
	tests := []struct {
		n, multiple, want int
	}{
		{0, 5, 0},
		{1, 5, 5},
		{5, 5, 5},
		{6, 5, 10},
		{2, 3, 3},
	}
	for _, tt := range tests {
		if got := ceilTo(tt.n, tt.multiple); got != tt.want {
			t.Errorf("ceilTo(%d, %d): got %d, want %d", tt.n, tt.multiple, got, tt.want)
		}
	}
}
