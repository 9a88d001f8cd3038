package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/daylog/pkg/activity"
)

const (
	// DefaultWindow is the fallback report window used when none is provided.
	DefaultWindow = "1w"
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	// Records are per day, so windows are counted in days.
	unitDays = map[string]int{
		"d":      1,
		"day":    1,
		"days":   1,
		"w":      7,
		"wk":     7,
		"wks":    7,
		"week":   7,
		"weeks":  7,
		"mo":     30,
		"month":  30,
		"months": 30,
		"y":      365,
		"yr":     365,
		"year":   365,
		"years":  365,
	}
)

// ParseWindow parses a human-friendly window such as "1w", "3d" or "1w2d"
// and returns the number of days it covers along with a canonical label.
// When the input is empty, the default window of one week is used.
func ParseWindow(input string) (int, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	total := 0
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		base, ok := unitDays[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", matches[2])
		}
		total += value * base

		remaining = remaining[len(matches[0]):]
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("window must be at least one day")
	}

	return total, FormatWindow(total), nil
}

// FormatWindow renders a day count using week and day tokens.
func FormatWindow(days int) string {
	if days <= 0 {
		return "0d"
	}
	var b strings.Builder
	if w := days / 7; w > 0 {
		fmt.Fprintf(&b, "%dw", w)
	}
	if d := days % 7; d > 0 {
		fmt.Fprintf(&b, "%dd", d)
	}
	return b.String()
}

// Since returns the first date inside a window of days ending on now's date.
func Since(now time.Time, days int) activity.Date {
	today := activity.DateOf(now)
	if days <= 1 {
		return today
	}
	return activity.DateOf(today.AddDate(0, 0, -(days - 1)))
}

// Within keeps the records dated on or after since. Order is preserved.
func Within(records []activity.Record, since activity.Date) []activity.Record {
	out := make([]activity.Record, 0, len(records))
	for _, r := range records {
		if !r.Date.Before(since.Time) {
			out = append(out, r)
		}
	}
	return out
}
