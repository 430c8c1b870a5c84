package compare

import (
	"fmt"
	"time"
)

// ConfigError reports invalid construction input: absent images, bad
// thresholds, conflicting region actions, or out-of-bounds find-mode regions.
// It is always raised before any comparison work happens.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid comparison configuration: " + e.Reason
}

// TimeoutError reports that the sliding-window target search exceeded its
// wall-clock budget. The comparison did not complete; retry with a larger
// budget, a smaller search window, or a coarser block size.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("target search exceeded the %s time limit", e.Limit)
}
