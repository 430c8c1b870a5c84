package compare

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/anthonynsimon/bild/clone"
)

// Comparison holds the frozen outcome of comparing a snapshot against a
// master image. Every mask, block grid and the match decision are computed
// during New; the value is read-only afterwards and safe to share across
// goroutines.
type Comparison struct {
	cfg   Config
	model Model

	master   *image.RGBA
	snapshot *image.RGBA
	width    int
	height   int

	masterMissing   bool
	snapshotMissing bool

	mask            *Grid
	blockMask       *Grid
	blockMatch      *Grid
	blockDistances  *FloatGrid
	largestDistance float64

	match            bool
	sameSize         bool
	snapshotAdjusted bool
	status           Status

	targetFound    bool
	targetLocation image.Rectangle
}

// New compares a snapshot against a master image under the given
// configuration. Either image may be nil: a blank canvas of the other's size
// stands in, which can never match but still produces masks and diagnostics.
// Both images nil, or an invalid configuration, returns a *ConfigError. A
// find-within-region search that exceeds its time budget returns a
// *TimeoutError.
func New(masterImg, snapshotImg image.Image, cfg Config) (*Comparison, error) {
	model, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	if masterImg == nil && snapshotImg == nil {
		return nil, &ConfigError{Reason: "at least one image must be provided"}
	}

	c := &Comparison{
		cfg:             cfg,
		model:           model,
		masterMissing:   masterImg == nil,
		snapshotMissing: snapshotImg == nil,
	}

	sized := masterImg
	if sized == nil {
		sized = snapshotImg
	}
	width := sized.Bounds().Dx()
	height := sized.Bounds().Dy()

	if masterImg != nil {
		c.master = toRGBA(masterImg)
	} else {
		c.master = blankCanvas(width, height)
	}
	if snapshotImg != nil {
		c.snapshot = toRGBA(snapshotImg)
	} else {
		c.snapshot = blankCanvas(width, height)
	}

	c.sameSize = c.master.Bounds().Dx() == c.snapshot.Bounds().Dx() &&
		c.master.Bounds().Dy() == c.snapshot.Bounds().Dy()

	deadline := time.Now().Add(cfg.MaxTime)
	if model == ModelFindWithinRegion {
		err = c.runFindWithinRegion(deadline)
	} else {
		err = c.runStandard(deadline)
	}
	if err != nil {
		return nil, err
	}
	c.status = c.classify()
	return c, nil
}

// runStandard performs the same-layout comparison, reconciling a size
// mismatch first when one exists.
func (c *Comparison) runStandard(deadline time.Time) error {
	regions := c.cfg.Regions
	sizeMismatch := false

	if !c.sameSize {
		reconciled, err := reconcileSizes(c.master, c.snapshot, c.cfg, deadline)
		if err != nil {
			return err
		}
		c.master = reconciled.master
		c.snapshot = reconciled.snapshot
		c.snapshotAdjusted = reconciled.adjusted
		regions = reconciled.regions
		sizeMismatch = !reconciled.ok
	}

	c.width = c.master.Bounds().Dx()
	c.height = c.master.Bounds().Dy()

	c.mask = composeMask(c.width, c.height, regions)
	c.blockMask = quantizeMask(c.mask, c.cfg.BlockSize, c.cfg.BlockPixelThreshold)

	report := compareBlocks(c.master, c.snapshot, c.blockMask, c.cfg.BlockSize, c.cfg.MaxColorDistance)
	c.blockMatch = report.match
	c.blockDistances = report.distances
	c.largestDistance = report.largest
	c.match = report.allPass && !sizeMismatch
	return nil
}

// runFindWithinRegion locates the master's target template inside the
// snapshot's bounding box. Unlike ordinary mask regions, the target and
// bounding box are strictly bounds-checked.
func (c *Comparison) runFindWithinRegion(deadline time.Time) error {
	target, _ := c.cfg.regionWithAction(FindThisTarget)
	box, _ := c.cfg.regionWithAction(WithinThisBoundingBox)

	if !target.Rect().In(c.master.Bounds()) {
		return &ConfigError{Reason: fmt.Sprintf("target region %s reaches outside the master image", target)}
	}
	if !box.Rect().In(c.snapshot.Bounds()) {
		return &ConfigError{Reason: fmt.Sprintf("bounding box region %s reaches outside the snapshot image", box)}
	}

	c.width = c.master.Bounds().Dx()
	c.height = c.master.Bounds().Dy()
	c.mask = composeMask(c.width, c.height, c.cfg.Regions)

	template := cropRGBA(c.master, target.Rect())
	templateMask := c.mask.sub(target.Rect())
	bounding := cropRGBA(c.snapshot, box.Rect())

	c.blockMask = quantizeMask(templateMask, c.cfg.BlockSize, c.cfg.BlockPixelThreshold)

	offset, found, err := findTarget(template, templateMask, bounding, nil, c.cfg, deadline)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	c.match = true
	c.targetFound = true
	c.targetLocation = image.Rect(
		box.X+offset.X,
		box.Y+offset.Y,
		box.X+offset.X+target.Width,
		box.Y+offset.Y+target.Height,
	)

	// Score the accepted window once more to expose per-block diagnostics.
	window := cropRGBA(bounding, image.Rect(offset.X, offset.Y, offset.X+target.Width, offset.Y+target.Height))
	report := compareBlocks(template, window, c.blockMask, c.cfg.BlockSize, c.cfg.MaxColorDistance)
	c.blockMatch = report.match
	c.blockDistances = report.distances
	c.largestDistance = report.largest
	return nil
}

// classify derives the final status, highest-priority rule first. A match
// always wins; an unreconciled size mismatch outranks a content failure; a
// missing image outranks both, because its synthesized blank stand-in shares
// the other image's size.
func (c *Comparison) classify() Status {
	switch {
	case c.match:
		return StatusPassed
	case !c.sameSize && !c.snapshotAdjusted:
		return StatusDifferentSize
	case c.snapshotMissing:
		return StatusMissing
	case c.masterMissing:
		return StatusNeedsApproval
	case c.model == ModelFindWithinRegion:
		return StatusFailedToFindImageInRegion
	}
	return StatusFailed
}

// IsMatch reports whether the snapshot matched the master under the
// configured block size, color distance and mask.
func (c *Comparison) IsMatch() bool { return c.match }

// Status returns the final classification of the comparison.
func (c *Comparison) Status() Status { return c.status }

// Model returns the comparison model derived from the region actions.
func (c *Comparison) Model() Model { return c.model }

// IsFindInRegionModel reports whether the comparison located a template
// inside a bounding box instead of comparing the full layouts.
func (c *Comparison) IsFindInRegionModel() bool { return c.model == ModelFindWithinRegion }

// IsSameSize reports whether the two images had identical pixel dimensions
// as supplied, before any size adjustment.
func (c *Comparison) IsSameSize() bool { return c.sameSize }

// IsSnapshotSizeAdjusted reports whether a size mismatch was reconciled by
// cropping or padding the snapshot to the master's dimensions.
func (c *Comparison) IsSnapshotSizeAdjusted() bool { return c.snapshotAdjusted }

// TargetLocation returns where the find-mode template was located on the
// snapshot, in snapshot coordinates. ok is false when the comparison did not
// run in find mode or the template was not found.
func (c *Comparison) TargetLocation() (location image.Rectangle, ok bool) {
	return c.targetLocation, c.targetFound
}

// LargestColorDistance returns the largest block color distance observed over
// the scored blocks, for diagnostics.
func (c *Comparison) LargestColorDistance() float64 { return c.largestDistance }

// BlockSize returns the configured block edge length.
func (c *Comparison) BlockSize() int { return c.cfg.BlockSize }

// MaxColorDistance returns the configured color distance threshold.
func (c *Comparison) MaxColorDistance() float64 { return c.cfg.MaxColorDistance }

// PixelMask returns the composed pixel-level ignore mask, a true cell meaning
// the pixel does not take part in scoring. The grid is read-only.
func (c *Comparison) PixelMask() *Grid { return c.mask }

// BlockMask returns the block-level ignore grid. The grid is read-only.
func (c *Comparison) BlockMask() *Grid { return c.blockMask }

// BlockComparison returns the per-block pass/fail grid, a true cell meaning
// the block stayed within tolerance. In find mode it describes the accepted
// window, and is nil when no window was accepted. The grid is read-only.
func (c *Comparison) BlockComparison() *Grid { return c.blockMatch }

// BlockDistance returns the recorded color distance of a failing block, and
// zero for passing or ignored blocks.
func (c *Comparison) BlockDistance(bx, by int) float64 {
	if c.blockDistances == nil {
		return 0
	}
	return c.blockDistances.At(bx, by)
}

// Master returns the master image the comparison scored, after any blank
// canvas synthesis. Callers must not modify it.
func (c *Comparison) Master() *image.RGBA { return c.master }

// Snapshot returns the snapshot the comparison scored, after any blank
// canvas synthesis, cropping or padding. Callers must not modify it.
func (c *Comparison) Snapshot() *image.RGBA { return c.snapshot }

func (c *Comparison) String() string {
	return fmt.Sprintf("Comparison{%dx%d blockSize=%d maxColorDistance=%.1f largestColorDiff=%.1f model=%v match=%t status=%v}",
		c.width, c.height, c.cfg.BlockSize, c.cfg.MaxColorDistance, c.largestDistance, c.model, c.match, c.status)
}

// toRGBA normalizes any image to a zero-origin *image.RGBA copy.
func toRGBA(img image.Image) *image.RGBA {
	rgba := clone.AsRGBA(img)
	if rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	rebased := image.NewRGBA(image.Rect(0, 0, rgba.Bounds().Dx(), rgba.Bounds().Dy()))
	draw.Draw(rebased, rebased.Bounds(), rgba, rgba.Bounds().Min, draw.Src)
	return rebased
}

// blankCanvas stands in for an absent image.
func blankCanvas(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Point{}, draw.Src)
	return img
}

// cropRGBA copies a window of img into a zero-origin image.
func cropRGBA(img *image.RGBA, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}
