package enum

import (
	"fmt"
	"time"
)

// Resolution is the bar size an algorithm consumes or requests history at.
type Resolution int

const (
	Resolution1m Resolution = iota
	Resolution5m
	Resolution15m
	Resolution30m
	Resolution1h
	Resolution1d
)

func (r Resolution) String() string {
	switch r {
	case Resolution1m:
		return "Resolution1m"
	case Resolution5m:
		return "Resolution5m"
	case Resolution15m:
		return "Resolution15m"
	case Resolution30m:
		return "Resolution30m"
	case Resolution1h:
		return "Resolution1h"
	case Resolution1d:
		return "Resolution1d"
	default:
		panic(fmt.Sprintf("Unknown Resolution (%d)", r))
	}
}

// GetVendorGranularityFromResolution maps a Resolution onto the granularity
// tokens the market data vendor expects in candle requests.
func GetVendorGranularityFromResolution(r Resolution) string {
	switch r {
	case Resolution1m:
		return "ONE_MINUTE"
	case Resolution5m:
		return "FIVE_MINUTE"
	case Resolution15m:
		return "FIFTEEN_MINUTE"
	case Resolution30m:
		return "THIRTY_MINUTE"
	case Resolution1h:
		return "ONE_HOUR"
	case Resolution1d:
		return "ONE_DAY"
	default:
		panic(fmt.Sprintf("Unknown Resolution (%d)", r))
	}
}

func GetTimeDurationFromResolution(r Resolution) time.Duration {
	switch r {
	case Resolution1m:
		return time.Minute
	case Resolution5m:
		return 5 * time.Minute
	case Resolution15m:
		return 15 * time.Minute
	case Resolution30m:
		return 30 * time.Minute
	case Resolution1h:
		return time.Hour
	case Resolution1d:
		return 24 * time.Hour
	default:
		panic(fmt.Sprintf("Unknown Resolution (%d)", r))
	}
}
