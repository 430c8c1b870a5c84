package compare

import (
	"fmt"
	"time"
)

// Defaults used by DefaultConfig.
const (
	DefaultBlockSize           = 5
	DefaultMaxColorDistance    = 20.0
	DefaultBlockPixelThreshold = 0.67
	DefaultMaxSizeDifference   = 5
	DefaultMaxTime             = 100 * time.Second
)

// Model selects which comparison the region set describes.
type Model int

const (
	// ModelStandard compares two same-layout images block by block.
	ModelStandard Model = iota

	// ModelFindWithinRegion locates a master sub-image inside a bounding box
	// on the snapshot instead of comparing the full layouts.
	ModelFindWithinRegion
)

func (m Model) String() string {
	switch m {
	case ModelStandard:
		return "standard"
	case ModelFindWithinRegion:
		return "find-within-region"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Config carries every tunable of a comparison. The zero value is not usable;
// start from DefaultConfig and adjust with the With methods, which copy the
// value so configs can be shared and specialized freely.
type Config struct {
	// BlockSize is the edge length of the square pixel blocks averaged into a
	// single color before comparison. Must be at least 1.
	BlockSize int

	// MaxColorDistance is the largest Euclidean RGB distance allowed between
	// two corresponding block averages. Must be greater than 0.
	MaxColorDistance float64

	// BlockPixelThreshold is the fraction of a block's pixels that must be
	// unmasked for the block to take part in scoring, in (0, 1].
	BlockPixelThreshold float64

	// MaxSizeDifference is the per-axis pixel difference within which two
	// images of unequal size are still reconciled instead of failing
	// immediately with a size mismatch.
	MaxSizeDifference int

	// MaxTime bounds the wall-clock duration of the sliding-window target
	// search. Must be greater than 0.
	MaxTime time.Duration

	// Regions focus, exclude, or define the find-within-region search.
	Regions []Region
}

// DefaultConfig returns the standard tolerant-comparison configuration.
func DefaultConfig() Config {
	return Config{
		BlockSize:           DefaultBlockSize,
		MaxColorDistance:    DefaultMaxColorDistance,
		BlockPixelThreshold: DefaultBlockPixelThreshold,
		MaxSizeDifference:   DefaultMaxSizeDifference,
		MaxTime:             DefaultMaxTime,
	}
}

// WithMatchLevel applies a preset block size and color distance.
func (c Config) WithMatchLevel(level MatchLevel) Config {
	c.BlockSize = level.BlockSize
	c.MaxColorDistance = level.MaxColorDistance
	return c
}

// WithBlockSize sets the block edge length.
func (c Config) WithBlockSize(blockSize int) Config {
	c.BlockSize = blockSize
	return c
}

// WithMaxColorDistance sets the per-block color distance threshold.
func (c Config) WithMaxColorDistance(distance float64) Config {
	c.MaxColorDistance = distance
	return c
}

// WithBlockPixelThreshold sets the unmasked-pixel fraction a block needs to
// be scored.
func (c Config) WithBlockPixelThreshold(threshold float64) Config {
	c.BlockPixelThreshold = threshold
	return c
}

// WithMaxSizeDifference sets the per-axis size tolerance for reconciling
// images of unequal dimensions. This should generally stay small (a few
// pixels), as the smaller image is searched for inside the larger one.
func (c Config) WithMaxSizeDifference(pixels int) Config {
	c.MaxSizeDifference = pixels
	return c
}

// WithMaxTime sets the wall-clock budget of the target search.
func (c Config) WithMaxTime(limit time.Duration) Config {
	c.MaxTime = limit
	return c
}

// WithRegion appends a region to the mask set.
func (c Config) WithRegion(region Region) Config {
	regions := make([]Region, 0, len(c.Regions)+1)
	regions = append(regions, c.Regions...)
	c.Regions = append(regions, region)
	return c
}

// WithRegions appends several regions to the mask set.
func (c Config) WithRegions(regions ...Region) Config {
	combined := make([]Region, 0, len(c.Regions)+len(regions))
	combined = append(combined, c.Regions...)
	c.Regions = append(combined, regions...)
	return c
}

// validate checks the configuration and derives the comparison model from the
// region actions present.
func (c Config) validate() (Model, error) {
	if c.BlockSize < 1 {
		return 0, &ConfigError{Reason: "block size must be greater than or equal to 1"}
	}
	if c.MaxColorDistance <= 0 {
		return 0, &ConfigError{Reason: "max color distance must be greater than 0"}
	}
	if c.BlockPixelThreshold <= 0 || c.BlockPixelThreshold > 1 {
		return 0, &ConfigError{Reason: "block pixel threshold must be in (0, 1]"}
	}
	if c.MaxSizeDifference < 0 {
		return 0, &ConfigError{Reason: "max size difference must not be negative"}
	}
	if c.MaxTime <= 0 {
		return 0, &ConfigError{Reason: "max time must be greater than 0"}
	}

	var targets, boxes, maskRegions int
	for _, region := range c.Regions {
		if err := region.validate(); err != nil {
			return 0, err
		}
		switch region.Action {
		case FindThisTarget:
			targets++
		case WithinThisBoundingBox:
			boxes++
		default:
			maskRegions++
		}
	}
	if targets == 0 && boxes == 0 {
		return ModelStandard, nil
	}
	if targets != 1 || boxes != 1 {
		return 0, &ConfigError{Reason: fmt.Sprintf(
			"find-within-region requires exactly one target and one bounding box, got %d target(s) and %d box(es)", targets, boxes)}
	}
	if maskRegions > 0 {
		return 0, &ConfigError{Reason: "focus and exclude regions cannot be combined with a find-within-region search"}
	}
	return ModelFindWithinRegion, nil
}

// regionWithAction returns the first region carrying the given action.
func (c Config) regionWithAction(action RegionAction) (Region, bool) {
	for _, region := range c.Regions {
		if region.Action == action {
			return region, true
		}
	}
	return Region{}, false
}
