// internal/engine/delay.go
package engine

import (
	"time"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// CalculateDelayMs converts a delay action's days/hours/minutes into
// milliseconds. A nil config means no delay. Out-of-range values
// (hours > 23, minutes > 59) are converted as-is, not rejected.
func CalculateDelayMs(cfg *model.ActionConfig) int64 {
	if cfg == nil {
		return 0
	}
	return int64(((cfg.Days*24+cfg.Hours)*60+cfg.Minutes)) * 60000
}

// DelayDuration is CalculateDelayMs as a time.Duration.
func DelayDuration(cfg *model.ActionConfig) time.Duration {
	return time.Duration(CalculateDelayMs(cfg)) * time.Millisecond
}
