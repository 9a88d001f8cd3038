package viewmodel

import (
	"testing"

	"tableflip.dev/daylog/pkg/activity"
)

func TestBreakdownOrdering(t *testing.T) {
	r := &activity.Record{Date: activity.MustParseDate("2024-06-01"), Work: 2, Leisure: 3, Sleep: 8, Exercise: 1}
	got := Breakdown(r)
	want := []Slice{
		{Category: activity.Work, Value: 2, Color: "#3498db"},
		{Category: activity.Leisure, Value: 3, Color: "#2ecc71"},
		{Category: activity.Sleep, Value: 8, Color: "#f1c40f"},
		{Category: activity.Exercise, Value: 1, Color: "#e74c3c"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d slices, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slice %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestBreakdownWithoutSelection(t *testing.T) {
	got := Breakdown(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty breakdown, got %#v", got)
	}
}

func TestColorAtCycles(t *testing.T) {
	if ColorAt(4) != Palette[0] || ColorAt(5) != Palette[1] {
		t.Fatalf("palette should cycle")
	}
}

func TestRecentWindow(t *testing.T) {
	var records []activity.Record
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		records = append(records, activity.Record{ID: activity.ID(id)})
	}
	got := Recent(records)
	want := []activity.ID{"G", "F", "E", "D", "C"}
	if len(got) != len(want) {
		t.Fatalf("expected %d recent, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("recent %d: expected %s, got %s", i, want[i], got[i].ID)
		}
	}
	if records[0].ID != "A" || records[6].ID != "G" {
		t.Fatalf("Recent must not reorder its input")
	}
}

func TestRecentShortHistory(t *testing.T) {
	records := []activity.Record{{ID: "A"}, {ID: "B"}}
	got := Recent(records)
	if len(got) != 2 || got[0].ID != "B" || got[1].ID != "A" {
		t.Fatalf("unexpected recent %+v", got)
	}
	if got := Recent(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty recent, got %#v", got)
	}
}

func TestTimeSeriesIsPassthrough(t *testing.T) {
	records := []activity.Record{{ID: "A"}, {ID: "B"}}
	got := TimeSeries(records)
	if len(got) != 2 || &got[0] != &records[0] {
		t.Fatalf("expected the same sequence back")
	}
}

func TestTotals(t *testing.T) {
	records := []activity.Record{
		{Work: 2, Leisure: 3, Sleep: 8, Exercise: 1},
		{Work: 6, Leisure: 1, Sleep: 7, Exercise: 0.5},
	}
	got := Totals(records)
	want := map[activity.Category]float64{
		activity.Work: 8, activity.Leisure: 4, activity.Sleep: 15, activity.Exercise: 1.5,
	}
	for _, s := range got {
		if s.Value != want[s.Category] {
			t.Fatalf("%s: expected %v, got %v", s.Category, want[s.Category], s.Value)
		}
	}
	if got[0].Category != activity.Work {
		t.Fatalf("totals should follow breakdown order")
	}
}
