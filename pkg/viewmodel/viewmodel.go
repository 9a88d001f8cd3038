// Package viewmodel projects session state into chart-ready structures. All
// functions are pure: they never mutate their input and keep no cache.
package viewmodel

import (
	"tableflip.dev/daylog/pkg/activity"
)

// RecentWindow is the number of records shown in the recent list.
const RecentWindow = 5

// Palette assigns breakdown colors by position.
var Palette = []string{"#3498db", "#2ecc71", "#f1c40f", "#e74c3c"}

// ColorAt returns the palette color for position i, cycling.
func ColorAt(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Slice is one category of a breakdown.
type Slice struct {
	Category activity.Category
	Value    float64
	Color    string
}

// Breakdown splits the selected record into its four categories in display
// order. No selection yields an empty breakdown.
func Breakdown(selected *activity.Record) []Slice {
	if selected == nil {
		return []Slice{}
	}
	return slicesOf(func(c activity.Category) float64 { return selected.Hours(c) })
}

// Totals sums each category across records, in breakdown order.
func Totals(records []activity.Record) []Slice {
	return slicesOf(func(c activity.Category) float64 {
		var sum float64
		for _, r := range records {
			sum += r.Hours(c)
		}
		return sum
	})
}

func slicesOf(value func(activity.Category) float64) []Slice {
	cats := activity.Categories()
	out := make([]Slice, 0, len(cats))
	for i, c := range cats {
		out = append(out, Slice{Category: c, Value: value(c), Color: ColorAt(i)})
	}
	return out
}

// TimeSeries returns the full history for charting. Grouping by date and
// category is left to the renderer.
func TimeSeries(records []activity.Record) []activity.Record {
	return records
}

// Recent returns the last RecentWindow records, newest first.
func Recent(records []activity.Record) []activity.Record {
	start := len(records) - RecentWindow
	if start < 0 {
		start = 0
	}
	tail := records[start:]
	out := make([]activity.Record, len(tail))
	for i, r := range tail {
		out[len(tail)-1-i] = r
	}
	return out
}
