package analyzer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseBound resolves a range bound given on a command line or in a tool
// call. It accepts an RFC 3339 timestamp, integer unix milliseconds, or a
// duration such as "90s" or "2m30s" measured from start. An empty value
// yields fallback.
func ParseBound(value string, start, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return start.Add(d), nil
	}
	return time.Time{}, fmt.Errorf("bound %q is not an RFC 3339 time, unix milliseconds, or an offset", value)
}
