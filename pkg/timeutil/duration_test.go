package timeutil

import (
	"testing"
	"time"

	"tableflip.dev/daylog/pkg/activity"
)

func TestParseWindowDefault(t *testing.T) {
	days, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 7 {
		t.Fatalf("expected 7 days, got %d", days)
	}
	if label != "1w" {
		t.Fatalf("expected label 1w, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	days, label, err := ParseWindow("1w 2d 1mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 39 {
		t.Fatalf("expected 39 days, got %d", days)
	}
	if label != "5w4d" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3h", "0d"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestSinceAndWithin(t *testing.T) {
	now := time.Date(2024, time.June, 10, 18, 30, 0, 0, time.UTC)
	since := Since(now, 7)
	if since.String() != "2024-06-04" {
		t.Fatalf("since = %s", since)
	}
	if Since(now, 1).String() != "2024-06-10" {
		t.Fatalf("one day window should start today")
	}

	records := []activity.Record{
		{ID: "a", Date: activity.MustParseDate("2024-06-03")},
		{ID: "b", Date: activity.MustParseDate("2024-06-04")},
		{ID: "c", Date: activity.MustParseDate("2024-06-01")},
		{ID: "d", Date: activity.MustParseDate("2024-06-10")},
	}
	got := Within(records, since)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "d" {
		t.Fatalf("within = %v", got)
	}
}
