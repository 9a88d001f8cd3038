package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/daylog/pkg/activity"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints a month grid per month touched by records. Logged days
// are highlighted; days with sleep below seven hours are shown in red.
func (pp *PrettyPrint) Calendar(records ...activity.Record) {
	months := monthsOf(records)
	for _, m := range months {
		pp.PrintMonth(m, records...)
	}
}

func monthsOf(records []activity.Record) []time.Time {
	if len(records) == 0 {
		return nil
	}
	first, last := records[0].Date.Time, records[0].Date.Time
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		if r.Date.Before(first) || first.IsZero() {
			first = r.Date.Time
		}
		if r.Date.After(last) {
			last = r.Date.Time
		}
	}
	if first.IsZero() {
		return nil
	}
	var out []time.Time
	for m := startOfMonth(first); !m.After(last); m = NextMonth(m) {
		out = append(out, m)
	}
	return out
}

func (pp *PrettyPrint) PrintMonth(then time.Time, records ...activity.Record) {
	days := DaysIn(then)
	logged := make([]*activity.Record, days)
	for i := range records {
		r := records[i]
		if r.Date.Year() == then.Year() && r.Date.Month() == then.Month() {
			logged[r.Date.Day()-1] = &records[i]
		}
	}
	pp.printMonthDays(then, logged)
}

func (pp *PrettyPrint) printMonthDays(then time.Time, logged []*activity.Record) {
	d := StartDay(then)

	tf := pp.style(color.FgWhite, color.Italic)
	m := fmt.Sprintf("%s %d", then.Month(), then.Year())
	mid := (width - len(m)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(pp.Out, "%s%s\n", strings.Repeat(" ", mid), m)

	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(pp.Out, "   ")
	}

	empty := pp.style(color.Faint, color.FgWhite)
	full := pp.style(color.Bold, color.FgHiWhite)
	short := pp.style(color.Bold, color.FgRed)

	for i := range logged {
		switch r := logged[i]; {
		case r == nil:
			_, _ = empty.Fprintf(pp.Out, "%2d ", i+1)
		case r.Sleep < 7:
			_, _ = short.Fprintf(pp.Out, "%2d ", i+1)
		default:
			_, _ = full.Fprintf(pp.Out, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(pp.Out, "\n")
		}
	}
	_, _ = fmt.Fprint(pp.Out, "\n\n")
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
