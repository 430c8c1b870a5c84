package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/visual-regress/internal/compare"
)

// scenario is the YAML description of one comparison: tuning values and the
// region set. Zero values fall back to the defaults in compare.DefaultConfig.
type scenario struct {
	MatchLevel          string           `yaml:"matchLevel"`
	BlockSize           int              `yaml:"blockSize"`
	MaxColorDistance    float64          `yaml:"maxColorDistance"`
	BlockPixelThreshold float64          `yaml:"blockPixelThreshold"`
	MaxSizeDifference   *int             `yaml:"maxSizeDifference"`
	MaxTimeSeconds      int              `yaml:"maxTimeSeconds"`
	Regions             []scenarioRegion `yaml:"regions"`
}

type scenarioRegion struct {
	Action string `yaml:"action"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	var s scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	return &s, nil
}

// apply folds the scenario onto a base configuration.
func (s *scenario) apply(cfg compare.Config) (compare.Config, error) {
	if s.MatchLevel != "" {
		level, err := parseMatchLevel(s.MatchLevel)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithMatchLevel(level)
	}
	if s.BlockSize != 0 {
		cfg = cfg.WithBlockSize(s.BlockSize)
	}
	if s.MaxColorDistance != 0 {
		cfg = cfg.WithMaxColorDistance(s.MaxColorDistance)
	}
	if s.BlockPixelThreshold != 0 {
		cfg = cfg.WithBlockPixelThreshold(s.BlockPixelThreshold)
	}
	if s.MaxSizeDifference != nil {
		cfg = cfg.WithMaxSizeDifference(*s.MaxSizeDifference)
	}
	if s.MaxTimeSeconds != 0 {
		cfg = cfg.WithMaxTime(time.Duration(s.MaxTimeSeconds) * time.Second)
	}
	for _, r := range s.Regions {
		action, err := parseAction(r.Action)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithRegion(compare.NewRegion(r.X, r.Y, r.Width, r.Height, action))
	}
	return cfg, nil
}

func parseMatchLevel(name string) (compare.MatchLevel, error) {
	switch name {
	case "exact":
		return compare.Exact, nil
	case "strict":
		return compare.Strict, nil
	case "tolerant":
		return compare.Tolerant, nil
	}
	return compare.MatchLevel{}, fmt.Errorf("unknown match level %q (want exact, strict or tolerant)", name)
}

func parseAction(name string) (compare.RegionAction, error) {
	switch name {
	case "focus":
		return compare.Focus, nil
	case "exclude":
		return compare.Exclude, nil
	case "find-target":
		return compare.FindThisTarget, nil
	case "bounding-box":
		return compare.WithinThisBoundingBox, nil
	}
	return 0, fmt.Errorf("unknown region action %q (want focus, exclude, find-target or bounding-box)", name)
}
