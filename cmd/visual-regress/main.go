package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/visual-regress/internal/compare"
	"github.com/ironsheep/visual-regress/internal/imgio"
	"github.com/ironsheep/visual-regress/internal/render"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const ansiReset = "\033[0m"

func main() {
	masterPath := flag.String("master", "", "path to the master (gold) image")
	snapshotPath := flag.String("snapshot", "", "path to the snapshot image under test")
	outDir := flag.String("out", "", "directory to write diagnostic images to (optional)")
	scenarioPath := flag.String("scenario", "", "YAML scenario file with regions and tuning values")
	level := flag.String("level", "", "match level preset: exact, strict or tolerant")
	blockSize := flag.Int("block-size", 0, "block edge length in pixels")
	maxColorDistance := flag.Float64("max-color-distance", 0, "max Euclidean RGB distance between block averages")
	maxSizeDiff := flag.Int("max-size-diff", -1, "max per-axis size difference to reconcile, in pixels")
	maxTime := flag.Int("max-time", 0, "search time limit in seconds")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("visual-regress %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if *masterPath == "" && *snapshotPath == "" {
		log.Fatal("at least one of -master and -snapshot is required")
	}

	cfg, err := buildConfig(*scenarioPath, *level, *blockSize, *maxColorDistance, *maxSizeDiff, *maxTime)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	master, snapshot, err := loadImages(*masterPath, *snapshotPath)
	if err != nil {
		log.Fatalf("Failed to load images: %v", err)
	}

	cmp, err := compare.New(master, snapshot, cfg)
	if err != nil {
		var cfgErr *compare.ConfigError
		var timeoutErr *compare.TimeoutError
		switch {
		case errors.As(err, &cfgErr):
			log.Fatalf("Configuration error: %v", err)
		case errors.As(err, &timeoutErr):
			log.Fatalf("Comparison timed out: %v (raise -max-time, shrink the search window, or coarsen the block size)", err)
		default:
			log.Fatalf("Comparison failed: %v", err)
		}
	}

	status := cmp.Status()
	fmt.Printf("%s%s%s\n", status.ANSIColor(), status, ansiReset)
	if location, ok := cmp.TargetLocation(); ok {
		fmt.Printf("target located at (%d,%d) %dx%d\n", location.Min.X, location.Min.Y, location.Dx(), location.Dy())
	}
	log.Printf("%v", cmp)

	if *outDir != "" {
		if err := writeDiagnostics(cmp, *outDir); err != nil {
			log.Fatalf("Failed to write diagnostics: %v", err)
		}
	}

	if !cmp.IsMatch() {
		os.Exit(1)
	}
}

func buildConfig(scenarioPath, level string, blockSize int, maxColorDistance float64, maxSizeDiff, maxTime int) (compare.Config, error) {
	cfg := compare.DefaultConfig()
	if scenarioPath != "" {
		s, err := loadScenario(scenarioPath)
		if err != nil {
			return cfg, err
		}
		if cfg, err = s.apply(cfg); err != nil {
			return cfg, err
		}
	}
	// Flags override scenario values.
	if level != "" {
		preset, err := parseMatchLevel(level)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithMatchLevel(preset)
	}
	if blockSize != 0 {
		cfg = cfg.WithBlockSize(blockSize)
	}
	if maxColorDistance != 0 {
		cfg = cfg.WithMaxColorDistance(maxColorDistance)
	}
	if maxSizeDiff >= 0 {
		cfg = cfg.WithMaxSizeDifference(maxSizeDiff)
	}
	if maxTime != 0 {
		cfg = cfg.WithMaxTime(time.Duration(maxTime) * time.Second)
	}
	return cfg, nil
}

// loadImages reads both images concurrently. An empty path yields a nil
// image, which the comparison treats as missing.
func loadImages(masterPath, snapshotPath string) (image.Image, image.Image, error) {
	cache := imgio.NewCache()
	var master, snapshot image.Image
	var group errgroup.Group
	if masterPath != "" {
		group.Go(func() error {
			var err error
			master, err = cache.Load(masterPath)
			return err
		})
	}
	if snapshotPath != "" {
		group.Go(func() error {
			var err error
			snapshot, err = cache.Load(snapshotPath)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return master, snapshot, nil
}

func writeDiagnostics(cmp *compare.Comparison, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	diag := render.New(cmp)
	outputs := []struct {
		name string
		img  image.Image
	}{
		{"master-masked.png", diag.MaskedMaster()},
		{"snapshot-masked.png", diag.MaskedSnapshot()},
		{"block-mask.png", diag.BlockMaskImage()},
		{"block-comparison.png", diag.BlockComparisonImage()},
		{"circled-diff.png", diag.CircledDiff()},
		{"pixel-diff.png", diag.PixelDiff()},
		{"circled-diff-side-by-side.png", diag.CircledDiffSideBySide()},
		{"pixel-diff-side-by-side.png", diag.PixelDiffSideBySide()},
	}
	for _, output := range outputs {
		if output.img.Bounds().Empty() {
			continue
		}
		if err := imgio.Save(output.img, filepath.Join(dir, output.name)); err != nil {
			return err
		}
	}
	return nil
}
