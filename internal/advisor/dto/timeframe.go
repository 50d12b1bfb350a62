package dto

import (
	"fmt"
	"strings"
	"time"
)

// TimeFrame is the investment horizon a recommendation set is generated for.
type TimeFrame string

const (
	TimeFrame7D TimeFrame = "7D"
	TimeFrame1M TimeFrame = "1M"
	TimeFrame3M TimeFrame = "3M"
	TimeFrame6M TimeFrame = "6M"
	TimeFrame1Y TimeFrame = "1Y"
)

// TimeFrames lists every valid horizon in display order.
var TimeFrames = []TimeFrame{TimeFrame7D, TimeFrame1M, TimeFrame3M, TimeFrame6M, TimeFrame1Y}

// ParseTimeFrame validates a raw query value. Matching is case-insensitive.
func ParseTimeFrame(s string) (TimeFrame, error) {
	tf := TimeFrame(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range TimeFrames {
		if tf == known {
			return tf, nil
		}
	}
	return "", fmt.Errorf("unknown time frame %q", s)
}

// CacheTTL returns how long a generated set stays fresh. Short horizons churn
// faster, so they expire sooner.
func (tf TimeFrame) CacheTTL() time.Duration {
	switch tf {
	case TimeFrame7D:
		return 15 * time.Minute
	case TimeFrame1M:
		return 30 * time.Minute
	case TimeFrame3M:
		return time.Hour
	case TimeFrame6M:
		return 2 * time.Hour
	case TimeFrame1Y:
		return 4 * time.Hour
	default:
		return 15 * time.Minute
	}
}

// StopLossPct returns the protective stop distance for the horizon, as a
// fraction of the entry price.
func (tf TimeFrame) StopLossPct() float64 {
	switch tf {
	case TimeFrame7D:
		return 0.03
	case TimeFrame1M:
		return 0.05
	case TimeFrame3M:
		return 0.08
	case TimeFrame6M:
		return 0.10
	case TimeFrame1Y:
		return 0.15
	default:
		return 0.05
	}
}

// Description renders the horizon for prompts ("7 days", "1 year").
func (tf TimeFrame) Description() string {
	switch tf {
	case TimeFrame7D:
		return "7 days"
	case TimeFrame1M:
		return "1 month"
	case TimeFrame3M:
		return "3 months"
	case TimeFrame6M:
		return "6 months"
	case TimeFrame1Y:
		return "1 year"
	default:
		return string(tf)
	}
}
