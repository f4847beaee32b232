package utils

import (
	"fmt"
	"strings"
	"time"
)

// WeekKey returns the ISO week identifier for t in the form "2025-W39".
// All weekly bookkeeping (excuses, reports) is keyed by this string.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// HumanRemaining formats a remaining duration the way it is shown to members,
// e.g. "4d 23h", "6h 12m", "under 1m". Anything non-positive collapses to "0d".
// Minutes are only shown when less than a full day remains.
func HumanRemaining(d time.Duration) string {
	if d <= 0 {
		return "0d"
	}

	days := int(d / (24 * time.Hour))
	hours := int(d%(24*time.Hour)) / int(time.Hour)
	mins := int(d%time.Hour) / int(time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}

	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}

	if mins > 0 && days == 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}

	if len(parts) == 0 {
		return "under 1m"
	}

	return strings.Join(parts, " ")
}
